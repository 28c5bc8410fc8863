package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores del dominio, expuestos en /metrics junto a los
// colectores por defecto de client_golang
var (
	// PedidosConfirmados cuenta pedidos creados por el flujo de confirmación
	PedidosConfirmados = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pedidos_confirmados_total",
		Help: "Pedidos creados por el flujo de confirmación",
	})

	// PagosRegistrados cuenta pagos persistidos (en confirmación y registro)
	PagosRegistrados = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pedidos_pagos_registrados_total",
		Help: "Pagos persistidos contra pedidos",
	})

	// LineasConfirmadas cuenta líneas pasadas a Confirmar y Monitorear
	LineasConfirmadas = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pedidos_lineas_confirmadas_total",
		Help: "Líneas transicionadas a Confirmar y Monitorear",
	})

	// FallosParciales cuenta transacciones que quedaron a medio escribir,
	// etiquetadas por flujo
	FallosParciales = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pedidos_fallos_parciales_total",
		Help: "Transacciones multi-tabla que fallaron a mitad de camino",
	}, []string{"flujo"})

	// EstadosFallback cuenta estados resueltos que no existían en el
	// conjunto permitido del campo destino (desfase de esquema)
	EstadosFallback = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pedidos_estados_fallback_total",
		Help: "Estados resueltos ausentes del conjunto permitido del store",
	})
)
