package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Estados compartidos por líneas y pedidos
const (
	EstadoAbierto              = "Abierto"
	EstadoConfirmarYMonitorear = "Confirmar y Monitorear"
	EstadoPendienteDePago      = "Pendiente de Pago"
	EstadoPagoIncompleto       = "Pago Incompleto"
	EstadoPagado               = "Pagado"
)

// OrderLine es la vista tipada de un registro de lineas_pedido.
// Es la unidad mínima de compra pendiente de consolidarse en un pedido.
type OrderLine struct {
	ID        string
	Estado    string
	NoPedido  string
	Linea     string
	Costo     decimal.Decimal
	Historial string
}

// NewOrderLine construye la vista tipada desde un registro genérico.
// Un costo ausente se trata como 0; los demás campos ausentes quedan vacíos.
func NewOrderLine(r Record) OrderLine {
	return OrderLine{
		ID:        r.ID,
		Estado:    r.GetStringOr(FieldEstado, ""),
		NoPedido:  r.GetStringOr(FieldNoPedido, ""),
		Linea:     r.GetStringOr(FieldLinea, ""),
		Costo:     r.GetDecimalOr(FieldCosto, decimal.Zero),
		Historial: r.GetStringOr(FieldHistorial, ""),
	}
}

// AppendHistorial agrega una entrada con timestamp al historial previo.
// El valor previo es el snapshot leído al inicio del flujo: una edición
// concurrente del historial entre la lectura y la escritura se pierde
// (last-write-wins sobre la cadena derivada).
func AppendHistorial(prev, entry string, at time.Time) string {
	line := fmt.Sprintf("%s: %s", at.Format("2006-01-02 15:04"), entry)
	if strings.TrimSpace(prev) == "" {
		return line
	}
	return prev + "\n" + line
}
