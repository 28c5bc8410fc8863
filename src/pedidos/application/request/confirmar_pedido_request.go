package request

import (
	"time"

	"github.com/shopspring/decimal"

	"pedidos/src/pedidos/domain/entity"
)

// PagoPropuesto es un pago propuesto dentro de un request
type PagoPropuesto struct {
	MetodoPagoID string          `json:"metodo_pago_id" binding:"required"`
	Monto        decimal.Decimal `json:"monto"`
	Pagador      string          `json:"pagador,omitempty"`
	NoReferencia string          `json:"no_referencia,omitempty"`
	Tarjeta      string          `json:"tarjeta,omitempty"`
	FechaPago    *time.Time      `json:"fecha_pago,omitempty"`
	Nota         string          `json:"nota,omitempty"`
}

// ToEntity convierte el DTO al pago propuesto del dominio
func (p PagoPropuesto) ToEntity() entity.ProposedPayment {
	return entity.ProposedPayment{
		MetodoPagoID: p.MetodoPagoID,
		Monto:        p.Monto,
		Pagador:      p.Pagador,
		NoReferencia: p.NoReferencia,
		Tarjeta:      p.Tarjeta,
		FechaPago:    p.FechaPago,
		Nota:         p.Nota,
	}
}

// ToEntities convierte una lista de pagos propuestos
func ToEntities(pagos []PagoPropuesto) []entity.ProposedPayment {
	out := make([]entity.ProposedPayment, 0, len(pagos))
	for _, p := range pagos {
		out = append(out, p.ToEntity())
	}
	return out
}

// ConfirmarPedidoRequest arma un pedido a partir de un grupo de líneas
// ya en Confirmar y Monitorear, con ajustes y pagos opcionales
type ConfirmarPedidoRequest struct {
	LineaIDs    []string        `json:"linea_ids" binding:"required"`
	NoPedido    string          `json:"no_pedido"`
	FechaPedido *time.Time      `json:"fecha_pedido,omitempty"`
	CostoExtra  decimal.Decimal `json:"costo_extra"`
	GastosExtra decimal.Decimal `json:"gastos_extra"`
	Pagos       []PagoPropuesto `json:"pagos,omitempty"`
}
