package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// IDs de tablas del store remoto
const (
	TableLineas      = "lineas_pedido"
	TablePedidos     = "pedidos"
	TablePagos       = "pagos"
	TableMetodosPago = "metodos_pago"
)

// Nombres de campos tal como los expone el store remoto
const (
	FieldEstado       = "Estado"
	FieldNoPedido     = "No Pedido"
	FieldLinea        = "Linea"
	FieldCosto        = "Costo"
	FieldHistorial    = "Historial"
	FieldFechaPedido  = "Fecha Pedido"
	FieldCostoExtra   = "Costo Extra"
	FieldGastosExtra  = "Gastos Extra"
	FieldLineas       = "Lineas"
	FieldTotalPagado  = "Total Pagado"
	FieldCostoTotal   = "Costo Total"
	FieldPedido       = "Pedido"
	FieldMetodoPago   = "Metodo Pago"
	FieldMonto        = "Monto"
	FieldPagador      = "Pagador"
	FieldNoReferencia = "No Referencia"
	FieldTarjeta      = "Tarjeta"
	FieldFechaPago    = "Fecha Pago"
	FieldNota         = "Nota"
	FieldNombre       = "Nombre"
	FieldTipo         = "Tipo"
)

// Record representa un registro genérico del store remoto.
// Los campos se leen siempre a través de los accessors tipados:
// un campo ausente o con tipo inesperado produce un FieldError
// explícito, nunca un zero-value silencioso.
type Record struct {
	ID     string
	Fields map[string]any
}

// FieldError indica que un campo no existe o no tiene el tipo esperado
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("campo %q: %s", e.Field, e.Reason)
}

// GetString obtiene un campo de texto
func (r Record) GetString(field string) (string, error) {
	v, ok := r.Fields[field]
	if !ok || v == nil {
		return "", &FieldError{Field: field, Reason: "no encontrado"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &FieldError{Field: field, Reason: fmt.Sprintf("se esperaba texto, es %T", v)}
	}
	return s, nil
}

// GetStringOr obtiene un campo de texto o un valor por defecto si falta
func (r Record) GetStringOr(field, def string) string {
	s, err := r.GetString(field)
	if err != nil {
		return def
	}
	return s
}

// GetDecimal obtiene un campo monetario. El store puede entregar el
// valor como decimal, float o texto según el driver.
func (r Record) GetDecimal(field string) (decimal.Decimal, error) {
	v, ok := r.Fields[field]
	if !ok || v == nil {
		return decimal.Zero, &FieldError{Field: field, Reason: "no encontrado"}
	}
	switch n := v.(type) {
	case decimal.Decimal:
		return n, nil
	case float64:
		return decimal.NewFromFloat(n), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Zero, &FieldError{Field: field, Reason: "texto no numérico"}
		}
		return d, nil
	default:
		return decimal.Zero, &FieldError{Field: field, Reason: fmt.Sprintf("se esperaba número, es %T", v)}
	}
}

// GetDecimalOr obtiene un campo monetario o un valor por defecto si falta
func (r Record) GetDecimalOr(field string, def decimal.Decimal) decimal.Decimal {
	d, err := r.GetDecimal(field)
	if err != nil {
		return def
	}
	return d
}

// GetTime obtiene un campo de fecha
func (r Record) GetTime(field string) (time.Time, error) {
	v, ok := r.Fields[field]
	if !ok || v == nil {
		return time.Time{}, &FieldError{Field: field, Reason: "no encontrado"}
	}
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}, &FieldError{Field: field, Reason: "fecha no válida"}
		}
		return parsed, nil
	default:
		return time.Time{}, &FieldError{Field: field, Reason: fmt.Sprintf("se esperaba fecha, es %T", v)}
	}
}

// GetStrings obtiene un campo de vínculos (lista de IDs)
func (r Record) GetStrings(field string) ([]string, error) {
	v, ok := r.Fields[field]
	if !ok || v == nil {
		return nil, &FieldError{Field: field, Reason: "no encontrado"}
	}
	switch l := v.(type) {
	case []string:
		return l, nil
	case []any:
		out := make([]string, 0, len(l))
		for _, e := range l {
			s, ok := e.(string)
			if !ok {
				return nil, &FieldError{Field: field, Reason: "vínculo no textual"}
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, &FieldError{Field: field, Reason: fmt.Sprintf("se esperaba lista, es %T", v)}
	}
}
