package response

import "github.com/shopspring/decimal"

// RegistrarPagosResponse es el resultado de registrar pagos contra un
// pedido existente, con el estado recalculado
type RegistrarPagosResponse struct {
	NoPedido         string          `json:"no_pedido"`
	Estado           string          `json:"estado"`
	PagosRegistrados int             `json:"pagos_registrados"`
	Metodos          []string        `json:"metodos"`
	TotalPagado      decimal.Decimal `json:"total_pagado"`
	Restante         decimal.Decimal `json:"restante"`
}
