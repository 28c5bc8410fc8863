package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"pedidos/src/pedidos/domain/entity"
	"pedidos/src/pedidos/domain/port"
)

// RecordStorePostgres implementa el contrato RecordStore sobre
// PostgreSQL. Cada tabla del store remoto se proyecta sobre una tabla
// SQL; los campos derivados del pedido (Total Pagado, Costo Total,
// Lineas) se calculan en la consulta de lectura.
type RecordStorePostgres struct {
	db     *sql.DB
	grants map[string]bool
}

// NewRecordStorePostgres crea el store. grants enumera las escrituras
// permitidas como "operación:tabla"; vacío permite todas.
func NewRecordStorePostgres(db *sql.DB, grants []string) *RecordStorePostgres {
	s := &RecordStorePostgres{db: db}
	if len(grants) > 0 {
		s.grants = make(map[string]bool, len(grants))
		for _, g := range grants {
			s.grants[g] = true
		}
	}
	return s
}

// Columna SQL de cada campo expuesto, por tabla
var fieldColumns = map[string]map[string]string{
	entity.TableLineas: {
		entity.FieldEstado:    "estado",
		entity.FieldNoPedido:  "no_pedido",
		entity.FieldLinea:     "linea",
		entity.FieldCosto:     "costo",
		entity.FieldHistorial: "historial",
	},
	entity.TablePedidos: {
		entity.FieldNoPedido:    "no_pedido",
		entity.FieldEstado:      "estado",
		entity.FieldFechaPedido: "fecha_pedido",
		entity.FieldCostoExtra:  "costo_extra",
		entity.FieldGastosExtra: "gastos_extra",
		entity.FieldHistorial:   "historial",
	},
	entity.TablePagos: {
		entity.FieldPedido:       "pedido_id",
		entity.FieldMetodoPago:   "metodo_pago_id",
		entity.FieldMonto:        "monto",
		entity.FieldPagador:      "pagador",
		entity.FieldNoReferencia: "no_referencia",
		entity.FieldTarjeta:      "tarjeta",
		entity.FieldFechaPago:    "fecha_pago",
		entity.FieldNota:         "nota",
	},
	entity.TableMetodosPago: {
		entity.FieldNombre: "nombre",
		entity.FieldTipo:   "tipo",
	},
}

// CanWrite verifica si la escritura está permitida en este despliegue
func (s *RecordStorePostgres) CanWrite(ctx context.Context, op port.Operation, tableID string) bool {
	if s.grants == nil {
		return true
	}
	return s.grants[string(op)+":"+tableID]
}

// ReadAll lee los registros de la tabla, filtrados por igualdad
func (s *RecordStorePostgres) ReadAll(ctx context.Context, tableID string, filter map[string]any) ([]entity.Record, error) {
	base, scan, err := selectFor(tableID)
	if err != nil {
		return nil, err
	}

	query, params, err := appendWhere(base, tableID, filter)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("error al leer %s: %w", tableID, err)
	}
	defer rows.Close()

	var records []entity.Record
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("error al escanear %s: %w", tableID, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error al iterar %s: %w", tableID, err)
	}

	return records, nil
}

// CreateOne crea un registro y devuelve su ID. Para pedidos, el campo
// de vínculos Lineas se materializa en la tabla de unión dentro de la
// misma transacción: el vínculo es parte del registro, no una segunda
// escritura del flujo.
func (s *RecordStorePostgres) CreateOne(ctx context.Context, tableID string, fields map[string]any) (string, error) {
	columns, ok := fieldColumns[tableID]
	if !ok {
		return "", fmt.Errorf("tabla desconocida: %s", tableID)
	}

	id := uuid.New().String()
	cols := []string{"id"}
	placeholders := []string{"$1"}
	params := []any{id}

	var lineaIDs []string
	for _, field := range sortedKeys(fields) {
		if tableID == entity.TablePedidos && field == entity.FieldLineas {
			ids, ok := fields[field].([]string)
			if !ok {
				return "", fmt.Errorf("campo %q: se esperaba lista de IDs", field)
			}
			lineaIDs = ids
			continue
		}
		col, ok := columns[field]
		if !ok {
			return "", fmt.Errorf("campo desconocido en %s: %s", tableID, field)
		}
		cols = append(cols, col)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(params)+1))
		params = append(params, fields[field])
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		tableID, strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("error al iniciar transacción: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, query, params...); err != nil {
		return "", fmt.Errorf("error al crear registro en %s: %w", tableID, err)
	}

	for _, lineaID := range lineaIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO pedido_lineas (pedido_id, linea_id) VALUES ($1, $2)", id, lineaID); err != nil {
			return "", fmt.Errorf("error al vincular línea %s: %w", lineaID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("error al confirmar transacción: %w", err)
	}

	return id, nil
}

// UpdateMany actualiza un lote de registros. El lote completo falla si
// excede el tope del store.
func (s *RecordStorePostgres) UpdateMany(ctx context.Context, tableID string, updates []port.RecordUpdate) error {
	if len(updates) > port.MaxBatchSize {
		return fmt.Errorf("el lote de %d registros excede el máximo de %d", len(updates), port.MaxBatchSize)
	}
	columns, ok := fieldColumns[tableID]
	if !ok {
		return fmt.Errorf("tabla desconocida: %s", tableID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error al iniciar transacción: %w", err)
	}
	defer tx.Rollback()

	for _, u := range updates {
		var sets []string
		var params []any
		for _, field := range sortedKeys(u.Fields) {
			col, ok := columns[field]
			if !ok {
				return fmt.Errorf("campo desconocido en %s: %s", tableID, field)
			}
			sets = append(sets, fmt.Sprintf("%s = $%d", col, len(params)+1))
			params = append(params, u.Fields[field])
		}
		if len(sets) == 0 {
			continue
		}
		params = append(params, u.ID)
		query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
			tableID, strings.Join(sets, ", "), len(params))

		result, err := tx.ExecContext(ctx, query, params...)
		if err != nil {
			return fmt.Errorf("error al actualizar %s en %s: %w", u.ID, tableID, err)
		}
		affected, _ := result.RowsAffected()
		if affected == 0 {
			return fmt.Errorf("registro %s no encontrado en %s", u.ID, tableID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error al confirmar transacción: %w", err)
	}
	return nil
}

// ListAllowedValues enumera los valores válidos de un campo tipo enum,
// según la configuración del store
func (s *RecordStorePostgres) ListAllowedValues(ctx context.Context, tableID, field string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT valor FROM valores_permitidos WHERE tabla = $1 AND campo = $2 ORDER BY orden", tableID, field)
	if err != nil {
		return nil, fmt.Errorf("error al listar valores permitidos: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("error al escanear valor permitido: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

type scanFunc func(rows *sql.Rows) (entity.Record, error)

// selectFor devuelve la consulta de lectura de la tabla y su scanner
func selectFor(tableID string) (string, scanFunc, error) {
	switch tableID {
	case entity.TableLineas:
		return "SELECT id, estado, no_pedido, linea, costo, historial FROM lineas_pedido", scanLinea, nil
	case entity.TablePedidos:
		return `SELECT p.id, p.no_pedido, p.estado, p.fecha_pedido, p.costo_extra, p.gastos_extra, p.historial,
			COALESCE((SELECT SUM(g.monto) FROM pagos g WHERE g.pedido_id = p.id), 0) AS total_pagado,
			COALESCE((SELECT SUM(l.costo) FROM lineas_pedido l
				JOIN pedido_lineas pl ON pl.linea_id = l.id WHERE pl.pedido_id = p.id), 0)
				+ p.costo_extra + p.gastos_extra AS costo_total,
			COALESCE((SELECT array_agg(pl.linea_id::text) FROM pedido_lineas pl WHERE pl.pedido_id = p.id), '{}') AS lineas
			FROM pedidos p`, scanPedido, nil
	case entity.TablePagos:
		return "SELECT id, pedido_id, metodo_pago_id, monto, pagador, no_referencia, tarjeta, fecha_pago, nota FROM pagos", scanPago, nil
	case entity.TableMetodosPago:
		return "SELECT id, nombre, tipo FROM metodos_pago", scanMetodoPago, nil
	default:
		return "", nil, fmt.Errorf("tabla desconocida: %s", tableID)
	}
}

// appendWhere agrega la cláusula WHERE de igualdad campo a campo.
// Para pedidos el filtro aplica sobre el alias p.
func appendWhere(base, tableID string, filter map[string]any) (string, []any, error) {
	if len(filter) == 0 {
		return base, nil, nil
	}
	columns := fieldColumns[tableID]
	prefix := ""
	if tableID == entity.TablePedidos {
		prefix = "p."
	}

	var conds []string
	var params []any
	for _, field := range sortedKeys(filter) {
		col, ok := columns[field]
		if !ok {
			return "", nil, fmt.Errorf("campo desconocido en filtro de %s: %s", tableID, field)
		}
		conds = append(conds, fmt.Sprintf("%s%s = $%d", prefix, col, len(params)+1))
		params = append(params, filter[field])
	}
	return base + " WHERE " + strings.Join(conds, " AND "), params, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func scanLinea(rows *sql.Rows) (entity.Record, error) {
	var id string
	var estado, historial string
	var noPedido, linea, costo sql.NullString
	if err := rows.Scan(&id, &estado, &noPedido, &linea, &costo, &historial); err != nil {
		return entity.Record{}, err
	}
	fields := map[string]any{
		entity.FieldEstado:    estado,
		entity.FieldHistorial: historial,
	}
	putNullString(fields, entity.FieldNoPedido, noPedido)
	putNullString(fields, entity.FieldLinea, linea)
	putNullString(fields, entity.FieldCosto, costo)
	return entity.Record{ID: id, Fields: fields}, nil
}

func scanPedido(rows *sql.Rows) (entity.Record, error) {
	var id, noPedido, estado, historial string
	var fechaPedido sql.NullTime
	var costoExtra, gastosExtra, totalPagado, costoTotal string
	var lineas pq.StringArray
	if err := rows.Scan(&id, &noPedido, &estado, &fechaPedido,
		&costoExtra, &gastosExtra, &historial, &totalPagado, &costoTotal, &lineas); err != nil {
		return entity.Record{}, err
	}
	fields := map[string]any{
		entity.FieldNoPedido:    noPedido,
		entity.FieldEstado:      estado,
		entity.FieldCostoExtra:  costoExtra,
		entity.FieldGastosExtra: gastosExtra,
		entity.FieldHistorial:   historial,
		entity.FieldTotalPagado: totalPagado,
		entity.FieldCostoTotal:  costoTotal,
		entity.FieldLineas:      []string(lineas),
	}
	if fechaPedido.Valid {
		fields[entity.FieldFechaPedido] = fechaPedido.Time
	}
	return entity.Record{ID: id, Fields: fields}, nil
}

func scanPago(rows *sql.Rows) (entity.Record, error) {
	var id, pedidoID, metodoPagoID, monto string
	var pagador, noReferencia, tarjeta, nota sql.NullString
	var fechaPago sql.NullTime
	if err := rows.Scan(&id, &pedidoID, &metodoPagoID, &monto,
		&pagador, &noReferencia, &tarjeta, &fechaPago, &nota); err != nil {
		return entity.Record{}, err
	}
	fields := map[string]any{
		entity.FieldPedido:     pedidoID,
		entity.FieldMetodoPago: metodoPagoID,
		entity.FieldMonto:      monto,
	}
	putNullString(fields, entity.FieldPagador, pagador)
	putNullString(fields, entity.FieldNoReferencia, noReferencia)
	putNullString(fields, entity.FieldTarjeta, tarjeta)
	putNullString(fields, entity.FieldNota, nota)
	if fechaPago.Valid {
		fields[entity.FieldFechaPago] = fechaPago.Time
	}
	return entity.Record{ID: id, Fields: fields}, nil
}

func scanMetodoPago(rows *sql.Rows) (entity.Record, error) {
	var id, nombre, tipo string
	if err := rows.Scan(&id, &nombre, &tipo); err != nil {
		return entity.Record{}, err
	}
	return entity.Record{ID: id, Fields: map[string]any{
		entity.FieldNombre: nombre,
		entity.FieldTipo:   tipo,
	}}, nil
}

// putNullString agrega el campo solo si la columna no es NULL: un campo
// ausente se reporta como tal por los accessors tipados
func putNullString(fields map[string]any, field string, v sql.NullString) {
	if v.Valid {
		fields[field] = v.String
	}
}
