package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order es la vista tipada de un registro de pedidos (Aggregate Root).
// Un pedido consolida una o más líneas y acumula el estado de pago.
// TotalPagado y CostoTotal son campos derivados que calcula el store
// al leer (suma de pagos vinculados; suma de líneas más ajustes).
type Order struct {
	ID          string
	NoPedido    string
	Estado      string
	FechaPedido *time.Time
	CostoExtra  decimal.Decimal
	GastosExtra decimal.Decimal
	Historial   string
	LineaIDs    []string
	TotalPagado decimal.Decimal
	CostoTotal  decimal.Decimal
}

// NewOrder construye la vista tipada desde un registro genérico
func NewOrder(r Record) Order {
	o := Order{
		ID:          r.ID,
		NoPedido:    r.GetStringOr(FieldNoPedido, ""),
		Estado:      r.GetStringOr(FieldEstado, ""),
		CostoExtra:  r.GetDecimalOr(FieldCostoExtra, decimal.Zero),
		GastosExtra: r.GetDecimalOr(FieldGastosExtra, decimal.Zero),
		Historial:   r.GetStringOr(FieldHistorial, ""),
		TotalPagado: r.GetDecimalOr(FieldTotalPagado, decimal.Zero),
		CostoTotal:  r.GetDecimalOr(FieldCostoTotal, decimal.Zero),
	}
	if t, err := r.GetTime(FieldFechaPedido); err == nil {
		o.FechaPedido = &t
	}
	if ids, err := r.GetStrings(FieldLineas); err == nil {
		o.LineaIDs = ids
	}
	return o
}

// Restante devuelve el saldo pendiente del pedido, nunca negativo
func (o Order) Restante() decimal.Decimal {
	r := o.CostoTotal.Sub(o.TotalPagado)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}
