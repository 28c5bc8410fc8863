package request

// ConfirmarSeleccionRequest es la selección de líneas abiertas a
// transicionar a Confirmar y Monitorear
type ConfirmarSeleccionRequest struct {
	LineaIDs []string `json:"linea_ids" binding:"required"`
}
