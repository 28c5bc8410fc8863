package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pedidos/src/pedidos/application/response"
	"pedidos/src/pedidos/domain/entity"
	"pedidos/src/pedidos/domain/port"
	"pedidos/src/shared/infrastructure/metrics"
)

// ConfirmarSeleccionUseCase transiciona en lote una selección de líneas
// abiertas al estado Confirmar y Monitorear. Las líneas que no están
// abiertas se omiten y se reportan, nunca se escriben.
type ConfirmarSeleccionUseCase struct {
	store port.RecordStore
	log   *zap.SugaredLogger
}

// NewConfirmarSeleccionUseCase crea una nueva instancia del caso de uso
func NewConfirmarSeleccionUseCase(store port.RecordStore, log *zap.SugaredLogger) *ConfirmarSeleccionUseCase {
	return &ConfirmarSeleccionUseCase{store: store, log: log}
}

// Execute ejecuta la transición de la selección
func (uc *ConfirmarSeleccionUseCase) Execute(ctx context.Context, lineaIDs []string) (*response.ConfirmarSeleccionResponse, error) {
	// 1. Validar selección no vacía
	if len(lineaIDs) == 0 {
		return nil, entity.NewValidationError(entity.ErrSinLineas)
	}

	// 2. Verificar permisos antes de cualquier intento de escritura
	if !uc.store.CanWrite(ctx, port.OperationUpdate, entity.TableLineas) {
		return nil, &entity.PermissionError{Operation: string(port.OperationUpdate), Table: entity.TableLineas}
	}

	// 3. Leer las líneas seleccionadas
	records, err := uc.store.ReadAll(ctx, entity.TableLineas, nil)
	if err != nil {
		return nil, fmt.Errorf("error al leer líneas: %w", err)
	}
	seleccion, faltantes := seleccionarLineas(records, lineaIDs)

	// 4. Particionar: solo las abiertas califican
	var elegibles []entity.OrderLine
	omitidas := len(faltantes)
	for _, l := range seleccion {
		if l.Estado == entity.EstadoAbierto {
			elegibles = append(elegibles, l)
		} else {
			omitidas++
		}
	}

	if len(elegibles) == 0 {
		return nil, &entity.ValidationError{
			Reason: fmt.Sprintf("ninguna línea elegible para confirmar (%d omitidas)", omitidas),
		}
	}

	// 5. Armar el lote de actualizaciones con historial
	now := time.Now()
	costoTotal := decimal.Zero
	updates := make([]port.RecordUpdate, 0, len(elegibles))
	for _, l := range elegibles {
		costoTotal = costoTotal.Add(l.Costo)
		updates = append(updates, port.RecordUpdate{
			ID: l.ID,
			Fields: map[string]any{
				entity.FieldEstado:    entity.EstadoConfirmarYMonitorear,
				entity.FieldHistorial: entity.AppendHistorial(l.Historial, "Estado cambiado a "+entity.EstadoConfirmarYMonitorear, now),
			},
		})
	}

	// 6. Escribir en lotes acotados por el tope del store
	procesadas := 0
	for _, lote := range port.Chunk(updates, port.MaxBatchSize) {
		if err := uc.store.UpdateMany(ctx, entity.TableLineas, lote); err != nil {
			metrics.FallosParciales.WithLabelValues("confirmar_seleccion").Inc()
			return nil, &entity.PartialFailure{
				Step:      "actualizar líneas",
				Succeeded: procesadas,
				Attempted: len(updates),
				Err:       err,
			}
		}
		procesadas += len(lote)
	}

	metrics.LineasConfirmadas.Add(float64(procesadas))
	uc.log.Infow("selección confirmada",
		"confirmadas", procesadas,
		"omitidas", omitidas,
		"costo_total", costoTotal.String(),
	)

	return &response.ConfirmarSeleccionResponse{
		Confirmadas: procesadas,
		Omitidas:    omitidas,
		CostoTotal:  costoTotal,
	}, nil
}
