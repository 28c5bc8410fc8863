package entity

import "github.com/shopspring/decimal"

// SinNumero es el valor centinela de agrupación para líneas sin no. de pedido
const SinNumero = "Sin No."

// LineGroup agrupa las líneas que comparten (no. de pedido, línea de
// producto) con su costo acumulado. Es un derivado efímero: existe solo
// durante el flujo de confirmación y se descarta al terminar.
type LineGroup struct {
	Key        string
	NoPedido   string
	Linea      string
	Lines      []OrderLine
	TotalCosto decimal.Decimal
}

// GroupLines particiona las líneas en grupos por (no. de pedido, línea
// de producto). El orden de salida es el orden de primera aparición de
// cada clave. No muta las líneas de entrada.
func GroupLines(lines []OrderLine) []LineGroup {
	byKey := make(map[string]int)
	var groups []LineGroup

	for _, l := range lines {
		numero := l.NoPedido
		if numero == "" {
			numero = SinNumero
		}
		key := numero + " - " + l.Linea

		idx, ok := byKey[key]
		if !ok {
			idx = len(groups)
			byKey[key] = idx
			groups = append(groups, LineGroup{
				Key:      key,
				NoPedido: numero,
				Linea:    l.Linea,
			})
		}
		groups[idx].Lines = append(groups[idx].Lines, l)
		groups[idx].TotalCosto = groups[idx].TotalCosto.Add(l.Costo)
	}

	return groups
}
