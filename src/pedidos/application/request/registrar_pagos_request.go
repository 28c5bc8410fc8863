package request

// RegistrarPagosRequest agrega pagos a un pedido ya confirmado
type RegistrarPagosRequest struct {
	Pagos []PagoPropuesto `json:"pagos" binding:"required"`
}
