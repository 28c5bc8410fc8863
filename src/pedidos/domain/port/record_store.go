package port

import (
	"context"

	"pedidos/src/pedidos/domain/entity"
)

// MaxBatchSize es el tope duro de registros por lote que acepta el
// store remoto en UpdateMany. Un lote mayor falla completo.
const MaxBatchSize = 50

// Operation identifica el tipo de escritura para la verificación de permisos
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
)

// RecordUpdate es una actualización parcial de un registro existente
type RecordUpdate struct {
	ID     string
	Fields map[string]any
}

// RecordStore es el contrato con el store de registros remoto. El core
// lo trata como un servicio externo: lecturas con filtro, escrituras
// por registro o por lote acotado, y enumeración de valores permitidos
// de campos tipo enum. No ofrece transacciones entre tablas.
type RecordStore interface {
	// ReadAll lee los registros de la tabla, opcionalmente filtrados
	// por igualdad campo a campo
	ReadAll(ctx context.Context, tableID string, filter map[string]any) ([]entity.Record, error)

	// CreateOne crea un registro y devuelve su ID
	CreateOne(ctx context.Context, tableID string, fields map[string]any) (string, error)

	// UpdateMany actualiza un lote de registros. Falla el lote completo
	// si excede MaxBatchSize; el llamador debe trocear.
	UpdateMany(ctx context.Context, tableID string, updates []RecordUpdate) error

	// ListAllowedValues enumera los valores válidos de un campo tipo enum
	ListAllowedValues(ctx context.Context, tableID, field string) ([]string, error)

	// CanWrite verifica permisos antes de intentar una escritura. Una
	// escritura negada no debe intentarse.
	CanWrite(ctx context.Context, op Operation, tableID string) bool
}

// Chunk trocea las actualizaciones en lotes de a lo sumo size registros
func Chunk(updates []RecordUpdate, size int) [][]RecordUpdate {
	if size <= 0 || len(updates) == 0 {
		return nil
	}
	var chunks [][]RecordUpdate
	for start := 0; start < len(updates); start += size {
		end := start + size
		if end > len(updates) {
			end = len(updates)
		}
		chunks = append(chunks, updates[start:end])
	}
	return chunks
}
