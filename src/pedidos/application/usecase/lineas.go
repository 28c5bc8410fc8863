package usecase

import "pedidos/src/pedidos/domain/entity"

// seleccionarLineas proyecta los registros leídos sobre la selección del
// usuario, en el orden de la selección. Devuelve además los IDs que no
// existen en el store.
func seleccionarLineas(records []entity.Record, ids []string) ([]entity.OrderLine, []string) {
	porID := make(map[string]entity.Record, len(records))
	for _, r := range records {
		porID[r.ID] = r
	}

	var lineas []entity.OrderLine
	var faltantes []string
	for _, id := range ids {
		r, ok := porID[id]
		if !ok {
			faltantes = append(faltantes, id)
			continue
		}
		lineas = append(lineas, entity.NewOrderLine(r))
	}
	return lineas, faltantes
}
