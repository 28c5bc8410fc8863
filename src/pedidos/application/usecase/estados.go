package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"pedidos/src/pedidos/domain/entity"
	"pedidos/src/pedidos/domain/port"
	"pedidos/src/shared/infrastructure/metrics"
)

// validarEstado valida un estado resuelto contra el conjunto de valores
// que el campo Estado de la tabla realmente permite. Un desfase entre
// el código y la configuración del store cae a un valor permitido y
// queda registrado, no es un fallo duro.
func validarEstado(ctx context.Context, store port.RecordStore, log *zap.SugaredLogger, tableID, estado string) (string, error) {
	allowed, err := store.ListAllowedValues(ctx, tableID, entity.FieldEstado)
	if err != nil {
		return "", fmt.Errorf("error al listar estados permitidos de %s: %w", tableID, err)
	}
	resuelto, drifted := entity.ValidateStatus(estado, allowed)
	if drifted {
		metrics.EstadosFallback.Inc()
		log.Warnw("estado resuelto ausente del conjunto permitido",
			"tabla", tableID,
			"resuelto", estado,
			"fallback", resuelto,
		)
	}
	return resuelto, nil
}
