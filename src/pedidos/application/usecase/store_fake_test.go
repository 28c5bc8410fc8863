package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pedidos/src/pedidos/domain/entity"
	"pedidos/src/pedidos/domain/port"
	"pedidos/src/pedidos/infrastructure/cache"
)

// fakeStore implementa port.RecordStore en memoria y registra cada
// escritura para que los tests verifiquen qué se intentó y qué no
type fakeStore struct {
	records map[string][]entity.Record
	allowed map[string][]string
	denied  map[string]bool

	// índice (base 0) de la llamada que debe fallar, por tabla
	createErrAt map[string]int
	updateErrAt map[string]int

	createCalls map[string][]map[string]any
	updateCalls map[string][][]port.RecordUpdate
	nextID      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records: map[string][]entity.Record{},
		allowed: map[string][]string{
			entity.TableLineas: {
				entity.EstadoAbierto,
				entity.EstadoConfirmarYMonitorear,
				entity.EstadoPendienteDePago,
				entity.EstadoPagoIncompleto,
				entity.EstadoPagado,
			},
			entity.TablePedidos: {
				entity.EstadoPendienteDePago,
				entity.EstadoPagoIncompleto,
				entity.EstadoPagado,
			},
		},
		denied:      map[string]bool{},
		createErrAt: map[string]int{},
		updateErrAt: map[string]int{},
		createCalls: map[string][]map[string]any{},
		updateCalls: map[string][][]port.RecordUpdate{},
	}
}

func (f *fakeStore) ReadAll(_ context.Context, tableID string, filter map[string]any) ([]entity.Record, error) {
	var out []entity.Record
	for _, r := range f.records[tableID] {
		match := true
		for k, v := range filter {
			if r.Fields[k] != v {
				match = false
				break
			}
		}
		if match {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateOne(_ context.Context, tableID string, fields map[string]any) (string, error) {
	if at, ok := f.createErrAt[tableID]; ok && len(f.createCalls[tableID]) == at {
		return "", fmt.Errorf("fallo inyectado al crear en %s", tableID)
	}
	f.createCalls[tableID] = append(f.createCalls[tableID], fields)
	f.nextID++
	id := fmt.Sprintf("rec-%d", f.nextID)
	f.records[tableID] = append(f.records[tableID], entity.Record{ID: id, Fields: fields})
	return id, nil
}

func (f *fakeStore) UpdateMany(_ context.Context, tableID string, updates []port.RecordUpdate) error {
	if len(updates) > port.MaxBatchSize {
		return fmt.Errorf("el lote de %d registros excede el máximo de %d", len(updates), port.MaxBatchSize)
	}
	if at, ok := f.updateErrAt[tableID]; ok && len(f.updateCalls[tableID]) == at {
		return fmt.Errorf("fallo inyectado al actualizar en %s", tableID)
	}
	f.updateCalls[tableID] = append(f.updateCalls[tableID], updates)
	for _, u := range updates {
		for i, r := range f.records[tableID] {
			if r.ID == u.ID {
				for k, v := range u.Fields {
					f.records[tableID][i].Fields[k] = v
				}
			}
		}
	}
	return nil
}

func (f *fakeStore) ListAllowedValues(_ context.Context, tableID, _ string) ([]string, error) {
	return f.allowed[tableID], nil
}

func (f *fakeStore) CanWrite(_ context.Context, op port.Operation, tableID string) bool {
	return !f.denied[string(op)+":"+tableID]
}

// totalCreates cuenta las creaciones exitosas en la tabla
func (f *fakeStore) totalCreates(tableID string) int {
	return len(f.createCalls[tableID])
}

// totalUpdates cuenta los registros actualizados en la tabla, sumando lotes
func (f *fakeStore) totalUpdates(tableID string) int {
	n := 0
	for _, lote := range f.updateCalls[tableID] {
		n += len(lote)
	}
	return n
}

const (
	metodoEfectivoID      = "mp-efectivo"
	metodoValeID          = "mp-vale"
	metodoTransferenciaID = "mp-transferencia"
)

// conMetodosDePago carga los métodos de pago de referencia en el fake
func (f *fakeStore) conMetodosDePago() *fakeStore {
	f.records[entity.TableMetodosPago] = []entity.Record{
		{ID: metodoEfectivoID, Fields: map[string]any{
			entity.FieldNombre: "Efectivo", entity.FieldTipo: "EFECTIVO"}},
		{ID: metodoValeID, Fields: map[string]any{
			entity.FieldNombre: "Vale de despensa", entity.FieldTipo: "VALE"}},
		{ID: metodoTransferenciaID, Fields: map[string]any{
			entity.FieldNombre: "Transferencia bancaria", entity.FieldTipo: "TRANSFERENCIA"}},
	}
	return f
}

func cacheDeMetodos(t *testing.T, store *fakeStore) *cache.MetodoPagoCache {
	t.Helper()
	c := cache.NewMetodoPagoCache()
	require.NoError(t, c.Load(context.Background(), store))
	return c
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
