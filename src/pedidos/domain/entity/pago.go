package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethodType clasifica los métodos de pago. El tipo determina
// qué metadatos opcionales lleva el pago registrado.
type PaymentMethodType string

const (
	MetodoEfectivo      PaymentMethodType = "EFECTIVO"
	MetodoVale          PaymentMethodType = "VALE"
	MetodoTransferencia PaymentMethodType = "TRANSFERENCIA"
)

// PaymentMethod representa un método de pago (dato de referencia, solo lectura)
type PaymentMethod struct {
	ID     string
	Nombre string
	Tipo   PaymentMethodType
}

// ProposedPayment es un pago propuesto por el usuario, todavía no persistido.
// Los metadatos opcionales solo son relevantes según el tipo del método:
// Pagador para EFECTIVO, NoReferencia para VALE, Tarjeta para TRANSFERENCIA.
type ProposedPayment struct {
	MetodoPagoID string
	Monto        decimal.Decimal
	Pagador      string
	NoReferencia string
	Tarjeta      string
	FechaPago    *time.Time
	Nota         string
}

// Fields arma los campos del registro de pago a crear. Los metadatos que
// no corresponden al tipo del método se omiten, no se escriben en null.
func (p ProposedPayment) Fields(pedidoID string, tipo PaymentMethodType) map[string]any {
	fields := map[string]any{
		FieldPedido:     pedidoID,
		FieldMetodoPago: p.MetodoPagoID,
		FieldMonto:      p.Monto,
	}
	switch tipo {
	case MetodoEfectivo:
		if p.Pagador != "" {
			fields[FieldPagador] = p.Pagador
		}
	case MetodoVale:
		if p.NoReferencia != "" {
			fields[FieldNoReferencia] = p.NoReferencia
		}
	case MetodoTransferencia:
		if p.Tarjeta != "" {
			fields[FieldTarjeta] = p.Tarjeta
		}
	}
	if p.FechaPago != nil {
		fields[FieldFechaPago] = *p.FechaPago
	}
	if p.Nota != "" {
		fields[FieldNota] = p.Nota
	}
	return fields
}
