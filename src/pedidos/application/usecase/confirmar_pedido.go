package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pedidos/src/pedidos/application/request"
	"pedidos/src/pedidos/application/response"
	"pedidos/src/pedidos/domain/entity"
	"pedidos/src/pedidos/domain/port"
	"pedidos/src/pedidos/infrastructure/cache"
	"pedidos/src/shared/infrastructure/metrics"
)

// ConfirmarPedidoUseCase consolida un grupo de líneas en un pedido
// nuevo: crea el pedido, crea los pagos propuestos y actualiza las
// líneas del grupo, en ese orden. El store no ofrece atomicidad entre
// tablas: un fallo intermedio deja los pasos previos escritos y se
// reporta como PartialFailure, sin intentar revertir.
type ConfirmarPedidoUseCase struct {
	store   port.RecordStore
	policy  *entity.StatusPolicy
	metodos *cache.MetodoPagoCache
	log     *zap.SugaredLogger
}

// NewConfirmarPedidoUseCase crea una nueva instancia del caso de uso
func NewConfirmarPedidoUseCase(
	store port.RecordStore,
	policy *entity.StatusPolicy,
	metodos *cache.MetodoPagoCache,
	log *zap.SugaredLogger,
) *ConfirmarPedidoUseCase {
	return &ConfirmarPedidoUseCase{
		store:   store,
		policy:  policy,
		metodos: metodos,
		log:     log,
	}
}

// Execute ejecuta la confirmación del pedido
func (uc *ConfirmarPedidoUseCase) Execute(ctx context.Context, req *request.ConfirmarPedidoRequest) (*response.ConfirmarPedidoResponse, error) {
	// 1. Validaciones de entrada
	if strings.TrimSpace(req.NoPedido) == "" {
		return nil, entity.NewValidationError(entity.ErrNoPedidoRequerido)
	}
	if len(req.LineaIDs) == 0 {
		return nil, entity.NewValidationError(entity.ErrSinLineas)
	}

	// 2. Snapshot de las líneas del grupo. El historial leído acá es el
	// que se extiende al final del flujo: una edición concurrente entre
	// esta lectura y la escritura del paso 8 se pierde.
	records, err := uc.store.ReadAll(ctx, entity.TableLineas, nil)
	if err != nil {
		return nil, fmt.Errorf("error al leer líneas: %w", err)
	}
	lineas, faltantes := seleccionarLineas(records, req.LineaIDs)
	if len(faltantes) > 0 {
		return nil, &entity.ValidationError{
			Reason: fmt.Sprintf("líneas no encontradas: %s", strings.Join(faltantes, ", ")),
		}
	}

	grupos := entity.GroupLines(lineas)
	if len(grupos) != 1 {
		return nil, entity.NewValidationError(entity.ErrGrupoMixto)
	}
	grupo := grupos[0]

	// 3. Validar y recortar los pagos propuestos contra el saldo corriente
	pagos := request.ToEntities(req.Pagos)
	totalDue := entity.ComputeLedger(grupo.TotalCosto, req.CostoExtra, req.GastosExtra, nil).TotalDue
	restante := totalDue
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
				Reason: fmt.Sprintf("el pago %d no tiene saldo pendiente que cubrir", i+1),
			}
		}
		pagos[i].Monto = monto
		restante = restante.Sub(monto)
	}
	led := entity.ComputeLedger(grupo.TotalCosto, req.CostoExtra, req.GastosExtra, pagos)

	// 4. Resolver estados según la política de la línea de producto
	resol := uc.policy.Resolve(grupo.Linea, led)
	if led.Remaining.GreaterThan(decimal.Zero) && !resol.AllowsPending {
		return nil, entity.NewValidationError(entity.ErrPagoCompletoRequerido)
	}

	estadoPedido, err := validarEstado(ctx, uc.store, uc.log, entity.TablePedidos, resol.Estado)
	if err != nil {
		return nil, err
	}
	estadoLinea, err := validarEstado(ctx, uc.store, uc.log, entity.TableLineas, uc.policy.ResolveLineStatus(grupo.Linea, estadoPedido))
	if err != nil {
		return nil, err
	}

	// 5. Verificar permisos de las tres escrituras antes de intentar la primera
	if !uc.store.CanWrite(ctx, port.OperationCreate, entity.TablePedidos) {
		return nil, &entity.PermissionError{Operation: string(port.OperationCreate), Table: entity.TablePedidos}
	}
	if len(pagos) > 0 && !uc.store.CanWrite(ctx, port.OperationCreate, entity.TablePagos) {
		return nil, &entity.PermissionError{Operation: string(port.OperationCreate), Table: entity.TablePagos}
	}
	if !uc.store.CanWrite(ctx, port.OperationUpdate, entity.TableLineas) {
		return nil, &entity.PermissionError{Operation: string(port.OperationUpdate), Table: entity.TableLineas}
	}

	// 6. Crear el pedido con sus líneas vinculadas
	now := time.Now()
	lineaIDs := make([]string, 0, len(grupo.Lines))
	for _, l := range grupo.Lines {
		lineaIDs = append(lineaIDs, l.ID)
	}

	costoExtra := req.CostoExtra
	if costoExtra.IsNegative() {
		costoExtra = decimal.Zero
	}
	gastosExtra := req.GastosExtra
	if gastosExtra.IsNegative() {
		gastosExtra = decimal.Zero
	}

	fields := map[string]any{
		entity.FieldNoPedido:    req.NoPedido,
		entity.FieldEstado:      estadoPedido,
		entity.FieldCostoExtra:  costoExtra,
		entity.FieldGastosExtra: gastosExtra,
		entity.FieldLineas:      lineaIDs,
		entity.FieldHistorial:   entity.AppendHistorial("", fmt.Sprintf("Pedido creado con estado %s", estadoPedido), now),
	}
	if req.FechaPedido != nil {
		fields[entity.FieldFechaPedido] = *req.FechaPedido
	}

	pedidoID, err := uc.store.CreateOne(ctx, entity.TablePedidos, fields)
	if err != nil {
		return nil, fmt.Errorf("error al crear pedido: %w", err)
	}

	// 7. Crear los pagos, en orden; un fallo deja el pedido creado y las
	// líneas sin actualizar
	for i, p := range pagos {
		metodo, _ := uc.metodos.Get(p.MetodoPagoID)
		if _, err := uc.store.CreateOne(ctx, entity.TablePagos, p.Fields(pedidoID, metodo.Tipo)); err != nil {
			metrics.FallosParciales.WithLabelValues("confirmar_pedido").Inc()
			return nil, &entity.PartialFailure{
				Step:      "crear pagos",
				Succeeded: i,
				Attempted: len(pagos),
				Err:       fmt.Errorf("pedido %s creado, líneas sin actualizar: %w", req.NoPedido, err),
			}
		}
		metrics.PagosRegistrados.Inc()
	}

	// 8. Actualizar las líneas del grupo en lotes acotados
	updates := make([]port.RecordUpdate, 0, len(grupo.Lines))
	for _, l := range grupo.Lines {
		updates = append(updates, port.RecordUpdate{
			ID: l.ID,
			Fields: map[string]any{
				entity.FieldEstado:    estadoLinea,
				entity.FieldNoPedido:  req.NoPedido,
				entity.FieldHistorial: entity.AppendHistorial(l.Historial, fmt.Sprintf("Confirmada en pedido %s con estado %s", req.NoPedido, estadoLinea), now),
			},
		})
	}

	procesadas := 0
	for _, lote := range port.Chunk(updates, port.MaxBatchSize) {
		if err := uc.store.UpdateMany(ctx, entity.TableLineas, lote); err != nil {
			metrics.FallosParciales.WithLabelValues("confirmar_pedido").Inc()
			return nil, &entity.PartialFailure{
				Step:      "actualizar líneas",
				Succeeded: procesadas,
				Attempted: len(updates),
				Err:       fmt.Errorf("pedido %s creado, %d pagos registrados: %w", req.NoPedido, len(pagos), err),
			}
		}
		procesadas += len(lote)
	}

	metrics.PedidosConfirmados.Inc()
	uc.log.Infow("pedido confirmado",
		"no_pedido", req.NoPedido,
		"lineas", len(grupo.Lines),
		"costo_total", led.TotalDue.String(),
		"pagado", led.TotalPaid.String(),
		"estado", estadoPedido,
	)

	return &response.ConfirmarPedidoResponse{
		PedidoID:    pedidoID,
		NoPedido:    req.NoPedido,
		Estado:      estadoPedido,
		NumLineas:   len(grupo.Lines),
		CostoTotal:  led.TotalDue,
		TotalPagado: led.TotalPaid,
		Restante:    led.Remaining,
	}, nil
}
