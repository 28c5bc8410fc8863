package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pedidos/src/pedidos/application/usecase"
	"pedidos/src/pedidos/domain/entity"
	"pedidos/src/pedidos/domain/port"
	"pedidos/src/pedidos/infrastructure/cache"
)

type stubStore struct {
	records   map[string][]entity.Record
	denied    map[string]bool
	updateErr error
}

func newStubStore() *stubStore {
	return &stubStore{
		records: map[string][]entity.Record{},
		denied:  map[string]bool{},
	}
}

func (s *stubStore) ReadAll(_ context.Context, tableID string, filter map[string]any) ([]entity.Record, error) {
	var out []entity.Record
	for _, r := range s.records[tableID] {
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

func (s *stubStore) CreateOne(_ context.Context, _ string, _ map[string]any) (string, error) {
	return "rec-1", nil
}

func (s *stubStore) UpdateMany(_ context.Context, _ string, _ []port.RecordUpdate) error {
	return s.updateErr
}

func (s *stubStore) ListAllowedValues(_ context.Context, _ string, _ string) ([]string, error) {
	return nil, nil
}

func (s *stubStore) CanWrite(_ context.Context, op port.Operation, tableID string) bool {
	return !s.denied[string(op)+":"+tableID]
}

func setupRouter(t *testing.T, store *stubStore) (*gin.Engine, *PedidoController) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop().Sugar()
	policy := entity.NewStatusPolicy(entity.DefaultBrandPolicies())
	metodos := cache.NewMetodoPagoCache()

	ctrl := NewPedidoController(
		usecase.NewConfirmarSeleccionUseCase(store, log),
		usecase.NewConfirmarPedidoUseCase(store, policy, metodos, log),
		usecase.NewRegistrarPagosUseCase(store, policy, metodos, log),
		store,
		log,
	)

	router := gin.New()
	ctrl.RegisterRoutes(router.Group("/api/v1"))
	return router, ctrl
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestConfirmarSeleccionValidacionDevuelve400(t *testing.T) {
	store := newStubStore()
	store.records[entity.TableLineas] = []entity.Record{
		{ID: "l1", Fields: map[string]any{
			entity.FieldEstado: entity.EstadoPagado,
			entity.FieldLinea:  "Catálogo",
			entity.FieldCosto:  "10",
		}},
	}
	router, _ := setupRouter(t, store)

	w := doJSON(router, http.MethodPost, "/api/v1/lineas/confirmar-seleccion", `{"linea_ids":["l1"]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "omitidas")
}

func TestConfirmarSeleccionSinPermisoDevuelve403(t *testing.T) {
	store := newStubStore()
	store.denied["update:"+entity.TableLineas] = true
	router, _ := setupRouter(t, store)

	w := doJSON(router, http.MethodPost, "/api/v1/lineas/confirmar-seleccion", `{"linea_ids":["l1"]}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestConfirmarSeleccionFalloParcialDevuelve500ConDetalle(t *testing.T) {
	store := newStubStore()
	store.records[entity.TableLineas] = []entity.Record{
		{ID: "l1", Fields: map[string]any{
			entity.FieldEstado:    entity.EstadoAbierto,
			entity.FieldLinea:     "Catálogo",
			entity.FieldCosto:     "10",
			entity.FieldHistorial: "",
		}},
	}
	store.updateErr = errors.New("store caído")
	router, _ := setupRouter(t, store)

	w := doJSON(router, http.MethodPost, "/api/v1/lineas/confirmar-seleccion", `{"linea_ids":["l1"]}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "actualizar líneas", body["paso"])
	assert.Equal(t, float64(0), body["completados"])
}

func TestOperacionEnCursoDevuelve409(t *testing.T) {
	store := newStubStore()
	router, ctrl := setupRouter(t, store)

	ctrl.enCurso.Store("confirmar-seleccion", true)

	w := doJSON(router, http.MethodPost, "/api/v1/lineas/confirmar-seleccion", `{"linea_ids":["l1"]}`)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestConfirmarPedidoEnCursoPorNumero(t *testing.T) {
	store := newStubStore()
	router, ctrl := setupRouter(t, store)

	ctrl.enCurso.Store("confirmar-pedido:P-100", true)

	// el mismo número en curso se rechaza, otro número sigue su flujo normal
	w := doJSON(router, http.MethodPost, "/api/v1/pedidos", `{"linea_ids":["l1"],"no_pedido":"P-100"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(router, http.MethodPost, "/api/v1/pedidos", `{"linea_ids":["l1"],"no_pedido":"P-200"}`)
	assert.NotEqual(t, http.StatusConflict, w.Code)
}

func TestGetPedidoInexistenteDevuelve404(t *testing.T) {
	store := newStubStore()
	router, _ := setupRouter(t, store)

	w := doJSON(router, http.MethodGet, "/api/v1/pedidos/P-999", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListarLineasFiltraPorEstado(t *testing.T) {
	store := newStubStore()
	store.records[entity.TableLineas] = []entity.Record{
		{ID: "l1", Fields: map[string]any{
			entity.FieldEstado: entity.EstadoAbierto,
			entity.FieldLinea:  "Catálogo",
			entity.FieldCosto:  "10",
		}},
		{ID: "l2", Fields: map[string]any{
			entity.FieldEstado: entity.EstadoPagado,
			entity.FieldLinea:  "Catálogo",
			entity.FieldCosto:  "20",
		}},
	}
	router, _ := setupRouter(t, store)

	w := doJSON(router, http.MethodGet, "/api/v1/lineas?estado=Abierto", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
}
