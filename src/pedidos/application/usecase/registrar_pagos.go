package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"pedidos/src/pedidos/application/request"
	"pedidos/src/pedidos/application/response"
	"pedidos/src/pedidos/domain/entity"
	"pedidos/src/pedidos/domain/port"
	"pedidos/src/pedidos/infrastructure/cache"
	"pedidos/src/shared/infrastructure/metrics"
)

// RegistrarPagosUseCase registra uno o más pagos contra un pedido ya
// confirmado y recalcula su estado con el nuevo total pagado.
type RegistrarPagosUseCase struct {
	store   port.RecordStore
	policy  *entity.StatusPolicy
	metodos *cache.MetodoPagoCache
	log     *zap.SugaredLogger
}

// NewRegistrarPagosUseCase crea una nueva instancia del caso de uso
func NewRegistrarPagosUseCase(
	store port.RecordStore,
	policy *entity.StatusPolicy,
	metodos *cache.MetodoPagoCache,
	log *zap.SugaredLogger,
) *RegistrarPagosUseCase {
	return &RegistrarPagosUseCase{
		store:   store,
		policy:  policy,
		metodos: metodos,
		log:     log,
	}
}

// Execute registra los pagos del request contra el pedido indicado
func (uc *RegistrarPagosUseCase) Execute(ctx context.Context, noPedido string, req *request.RegistrarPagosRequest) (*response.RegistrarPagosResponse, error) {
	// 1. Se requiere al menos un pago
	if len(req.Pagos) == 0 {
		return nil, entity.NewValidationError(entity.ErrSinPagos)
	}

	// 2. Leer el pedido con sus derivados (total pagado, costo total)
	records, err := uc.store.ReadAll(ctx, entity.TablePedidos, map[string]any{entity.FieldNoPedido: noPedido})
	if err != nil {
		return nil, fmt.Errorf("error al leer pedido: %w", err)
	}
	if len(records) == 0 {
		return nil, entity.NewValidationError(entity.ErrPedidoNoEncontrado)
	}
	pedido := entity.NewOrder(records[0])

	// 3. Validar métodos y recortar cada monto contra el saldo corriente:
	// el restante ya descuenta los pagos anteriores del mismo lote
	restante := pedido.Restante()
	pagos := request.ToEntities(req.Pagos)
	for i := range pagos {
		if _, ok := uc.metodos.Get(pagos[i].MetodoPagoID); !ok {
			return nil, entity.NewValidationError(entity.ErrMetodoPagoDesconocido)
		}
		monto, err := entity.ClampPayment(pagos[i].Monto, restante)
		if err != nil {
			return nil, entity.NewValidationError(err)
		}
		if monto.IsZero() {
			return nil, &entity.ValidationError{
				Reason: fmt.Sprintf("el pedido %s no tiene saldo pendiente", noPedido),
			}
		}
		pagos[i].Monto = monto
		restante = restante.Sub(monto)
	}

	// 4. Verificar permisos de ambas escrituras antes de la primera
	if !uc.store.CanWrite(ctx, port.OperationCreate, entity.TablePagos) {
		return nil, &entity.PermissionError{Operation: string(port.OperationCreate), Table: entity.TablePagos}
	}
	if !uc.store.CanWrite(ctx, port.OperationUpdate, entity.TablePedidos) {
		return nil, &entity.PermissionError{Operation: string(port.OperationUpdate), Table: entity.TablePedidos}
	}

	// 5. Crear los pagos en orden; el primer fallo detiene el lote y el
	// estado del pedido queda sin recalcular
	for i, p := range pagos {
		metodo, _ := uc.metodos.Get(p.MetodoPagoID)
		if _, err := uc.store.CreateOne(ctx, entity.TablePagos, p.Fields(pedido.ID, metodo.Tipo)); err != nil {
			metrics.FallosParciales.WithLabelValues("registrar_pagos").Inc()
			return nil, &entity.PartialFailure{
				Step:      "crear pagos",
				Succeeded: i,
				Attempted: len(pagos),
				Err:       fmt.Errorf("estado del pedido %s sin recalcular: %w", noPedido, err),
			}
		}
		metrics.PagosRegistrados.Inc()
	}

	// 6. Recalcular el estado con el nuevo total y escribirlo en una
	// sola actualización
	totalPagado := pedido.TotalPagado
	for _, p := range pagos {
		totalPagado = totalPagado.Add(p.Monto)
	}
	led := entity.LedgerFromTotals(pedido.CostoTotal, totalPagado)

	resol := uc.policy.Resolve("", led)
	estado, err := validarEstado(ctx, uc.store, uc.log, entity.TablePedidos, resol.Estado)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	update := []port.RecordUpdate{{
		ID: pedido.ID,
		Fields: map[string]any{
			entity.FieldEstado:    estado,
			entity.FieldHistorial: entity.AppendHistorial(pedido.Historial, fmt.Sprintf("%d pagos registrados, estado %s", len(pagos), estado), now),
		},
	}}
	if err := uc.store.UpdateMany(ctx, entity.TablePedidos, update); err != nil {
		metrics.FallosParciales.WithLabelValues("registrar_pagos").Inc()
		return nil, &entity.PartialFailure{
			Step:      "actualizar pedido",
			Succeeded: 0,
			Attempted: 1,
			Err:       fmt.Errorf("%d pagos creados, estado sin actualizar: %w", len(pagos), err),
		}
	}

	metodosUsados := make([]string, 0, len(pagos))
	for _, p := range pagos {
		metodosUsados = append(metodosUsados, uc.metodos.GetNombre(p.MetodoPagoID))
	}

	uc.log.Infow("pagos registrados",
		"no_pedido", noPedido,
		"pagos", len(pagos),
		"total_pagado", totalPagado.String(),
		"restante", led.Remaining.String(),
		"estado", estado,
	)

	return &response.RegistrarPagosResponse{
		NoPedido:         noPedido,
		Estado:           estado,
		PagosRegistrados: len(pagos),
		Metodos:          metodosUsados,
		TotalPagado:      totalPagado,
		Restante:         led.Remaining,
	}, nil
}
