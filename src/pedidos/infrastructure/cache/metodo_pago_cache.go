package cache

import (
	"context"
	"fmt"
	"sync"

	"pedidos/src/pedidos/domain/entity"
	"pedidos/src/pedidos/domain/port"
)

// MetodoPagoCache es el cache en memoria de los métodos de pago
// (dato de referencia, solo lectura). Se carga una vez al arrancar.
type MetodoPagoCache struct {
	metodos map[string]entity.PaymentMethod
	mu      sync.RWMutex
}

// NewMetodoPagoCache crea un cache vacío de métodos de pago
func NewMetodoPagoCache() *MetodoPagoCache {
	return &MetodoPagoCache{
		metodos: make(map[string]entity.PaymentMethod),
	}
}

// Load carga los métodos de pago desde el store remoto
func (c *MetodoPagoCache) Load(ctx context.Context, store port.RecordStore) error {
	records, err := store.ReadAll(ctx, entity.TableMetodosPago, nil)
	if err != nil {
		return fmt.Errorf("error al cargar métodos de pago: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range records {
		c.metodos[r.ID] = entity.PaymentMethod{
			ID:     r.ID,
			Nombre: r.GetStringOr(entity.FieldNombre, ""),
			Tipo:   entity.PaymentMethodType(r.GetStringOr(entity.FieldTipo, "")),
		}
	}

	return nil
}

// Get obtiene un método de pago por ID
func (c *MetodoPagoCache) Get(id string) (entity.PaymentMethod, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.metodos[id]
	return m, ok
}

// GetNombre obtiene solo el nombre de un método de pago por ID
func (c *MetodoPagoCache) GetNombre(id string) string {
	m, ok := c.Get(id)
	if !ok {
		return "Desconocido"
	}
	return m.Nombre
}

// Len devuelve la cantidad de métodos cargados
func (c *MetodoPagoCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.metodos)
}
