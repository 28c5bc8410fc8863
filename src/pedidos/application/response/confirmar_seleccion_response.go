package response

import "github.com/shopspring/decimal"

// ConfirmarSeleccionResponse resume la transición de la selección:
// cuántas líneas pasaron a Confirmar y Monitorear, cuántas se omitieron
// por no estar abiertas, y el costo total de solo las confirmadas
type ConfirmarSeleccionResponse struct {
	Confirmadas int             `json:"confirmadas"`
	Omitidas    int             `json:"omitidas"`
	CostoTotal  decimal.Decimal `json:"costo_total"`
}
