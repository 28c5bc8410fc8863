package entity

import (
	"errors"
	"fmt"
)

var (
	ErrNoPedidoRequerido     = errors.New("el no. de pedido es obligatorio")
	ErrPagoCompletoRequerido = errors.New("la línea exige pago completo antes de confirmar")
	ErrMontoInvalido         = errors.New("el monto del pago debe ser mayor a 0")
	ErrSinPagos              = errors.New("se requiere al menos un pago")
	ErrSinLineas             = errors.New("se requiere al menos una línea")
	ErrPedidoNoEncontrado    = errors.New("pedido no encontrado")
	ErrMetodoPagoDesconocido = errors.New("método de pago desconocido")
	ErrGrupoMixto            = errors.New("las líneas seleccionadas pertenecen a más de un grupo")
)

// ValidationError indica que la operación falló una precondición antes
// de intentar cualquier escritura. No queda estado parcial.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError crea un ValidationError a partir de un sentinel
func NewValidationError(err error) *ValidationError {
	return &ValidationError{Reason: err.Error(), Err: err}
}

// PermissionError indica que la verificación previa de permisos negó la
// escritura; se reporta antes de intentar cualquier operación.
type PermissionError struct {
	Operation string
	Table     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("sin permiso para %s en %s", e.Operation, e.Table)
}

// PartialFailure indica que una transacción multi-paso falló a mitad de
// camino: los pasos previos quedaron escritos y no se revierten. Reporta
// el paso que falló y cuántas unidades del paso alcanzaron a completarse.
type PartialFailure struct {
	Step      string
	Succeeded int
	Attempted int
	Err       error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("fallo parcial en %q (%d de %d completados): %v",
		e.Step, e.Succeeded, e.Attempted, e.Err)
}

func (e *PartialFailure) Unwrap() error {
	return e.Err
}
