package response

import "github.com/shopspring/decimal"

// ConfirmarPedidoResponse es el resultado de una confirmación exitosa
type ConfirmarPedidoResponse struct {
	PedidoID    string          `json:"pedido_id"`
	NoPedido    string          `json:"no_pedido"`
	Estado      string          `json:"estado"`
	NumLineas   int             `json:"num_lineas"`
	CostoTotal  decimal.Decimal `json:"costo_total"`
	TotalPagado decimal.Decimal `json:"total_pagado"`
	Restante    decimal.Decimal `json:"restante"`
}
