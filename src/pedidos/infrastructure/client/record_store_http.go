package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"pedidos/src/pedidos/domain/entity"
	"pedidos/src/pedidos/domain/port"
)

// RecordStoreHTTP implementa el contrato RecordStore contra la API REST
// del store alojado. Es el driver para despliegues donde los registros
// viven en el servicio remoto y no en una base propia.
type RecordStoreHTTP struct {
	http *resty.Client
}

// NewRecordStoreHTTP crea el cliente contra la URL base del store
func NewRecordStoreHTTP(baseURL, token string) *RecordStoreHTTP {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Accept", "application/json")
	if token != "" {
		c.SetAuthToken(token)
	}
	return &RecordStoreHTTP{http: c}
}

type recordJSON struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type recordListJSON struct {
	Records []recordJSON `json:"records"`
}

// ReadAll lee los registros de la tabla, filtrados por igualdad
func (s *RecordStoreHTTP) ReadAll(ctx context.Context, tableID string, filter map[string]any) ([]entity.Record, error) {
	req := s.http.R().SetContext(ctx).SetResult(&recordListJSON{})
	if len(filter) > 0 {
		req.SetBody(map[string]any{"filter": filter})
		req.Method = http.MethodPost
		req.URL = fmt.Sprintf("/tables/%s/records/search", tableID)
	} else {
		req.Method = http.MethodGet
		req.URL = fmt.Sprintf("/tables/%s/records", tableID)
	}

	resp, err := req.Send()
	if err != nil {
		return nil, fmt.Errorf("error al leer %s: %w", tableID, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("lectura de %s: status %d", tableID, resp.StatusCode())
	}

	list := resp.Result().(*recordListJSON)
	records := make([]entity.Record, 0, len(list.Records))
	for _, r := range list.Records {
		records = append(records, entity.Record{ID: r.ID, Fields: r.Fields})
	}
	return records, nil
}

// CreateOne crea un registro y devuelve su ID
func (s *RecordStoreHTTP) CreateOne(ctx context.Context, tableID string, fields map[string]any) (string, error) {
	var created recordJSON
	resp, err := s.http.R().SetContext(ctx).
		SetBody(map[string]any{"fields": fields}).
		SetResult(&created).
		Post(fmt.Sprintf("/tables/%s/records", tableID))
	if err != nil {
		return "", fmt.Errorf("error al crear registro en %s: %w", tableID, err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return "", fmt.Errorf("creación en %s: status %d", tableID, resp.StatusCode())
	}
	return created.ID, nil
}

// UpdateMany actualiza un lote de registros. El store rechaza lotes por
// encima de su tope; se valida acá para fallar antes del viaje.
func (s *RecordStoreHTTP) UpdateMany(ctx context.Context, tableID string, updates []port.RecordUpdate) error {
	if len(updates) > port.MaxBatchSize {
		return fmt.Errorf("el lote de %d registros excede el máximo de %d", len(updates), port.MaxBatchSize)
	}

	payload := make([]recordJSON, 0, len(updates))
	for _, u := range updates {
		payload = append(payload, recordJSON{ID: u.ID, Fields: u.Fields})
	}

	resp, err := s.http.R().SetContext(ctx).
		SetBody(map[string]any{"records": payload}).
		Patch(fmt.Sprintf("/tables/%s/records", tableID))
	if err != nil {
		return fmt.Errorf("error al actualizar lote en %s: %w", tableID, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("actualización en %s: status %d", tableID, resp.StatusCode())
	}
	return nil
}

// ListAllowedValues enumera los valores válidos de un campo tipo enum
func (s *RecordStoreHTTP) ListAllowedValues(ctx context.Context, tableID, field string) ([]string, error) {
	var values struct {
		Values []string `json:"values"`
	}
	resp, err := s.http.R().SetContext(ctx).
		SetResult(&values).
		Get(fmt.Sprintf("/tables/%s/fields/%s/values", tableID, field))
	if err != nil {
		return nil, fmt.Errorf("error al listar valores permitidos: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("valores permitidos de %s.%s: status %d", tableID, field, resp.StatusCode())
	}
	return values.Values, nil
}

// CanWrite consulta al store si la sesión puede realizar la escritura.
// Ante un error de red se responde false: una escritura que no se pudo
// verificar no se intenta.
func (s *RecordStoreHTTP) CanWrite(ctx context.Context, op port.Operation, tableID string) bool {
	var answer struct {
		Allowed bool `json:"allowed"`
	}
	resp, err := s.http.R().SetContext(ctx).
		SetQueryParam("operation", string(op)).
		SetQueryParam("table", tableID).
		SetResult(&answer).
		Get("/permissions/check")
	if err != nil || resp.StatusCode() != http.StatusOK {
		return false
	}
	return answer.Allowed
}
