package entity

import "github.com/shopspring/decimal"

// Ledger es el resultado del cálculo monetario de un pedido:
// total adeudado, total pagado y saldo restante (nunca negativo).
type Ledger struct {
	TotalDue  decimal.Decimal
	TotalPaid decimal.Decimal
	Remaining decimal.Decimal
}

// ComputeLedger calcula el ledger a partir del costo base, los ajustes
// aditivos y la lista de pagos propuestos. Función pura: puede
// recomputarse cada vez que cambia la lista de pagos o los ajustes.
func ComputeLedger(baseCost, extraCost, extraExpenses decimal.Decimal, payments []ProposedPayment) Ledger {
	// Los ajustes negativos no descuentan: se tratan como 0
	if extraCost.IsNegative() {
		extraCost = decimal.Zero
	}
	if extraExpenses.IsNegative() {
		extraExpenses = decimal.Zero
	}

	totalDue := baseCost.Add(extraCost).Add(extraExpenses)

	totalPaid := decimal.Zero
	for _, p := range payments {
		totalPaid = totalPaid.Add(p.Monto)
	}

	return LedgerFromTotals(totalDue, totalPaid)
}

// LedgerFromTotals arma el ledger a partir de totales ya conocidos,
// por ejemplo los derivados que entrega el store al leer un pedido.
// El restante se acota en cero igual que en ComputeLedger.
func LedgerFromTotals(totalDue, totalPaid decimal.Decimal) Ledger {
	remaining := totalDue.Sub(totalPaid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return Ledger{
		TotalDue:  totalDue,
		TotalPaid: totalPaid,
		Remaining: remaining,
	}
}

// ClampPayment limita un monto propuesto al saldo restante. Montos
// menores o iguales a 0 se rechazan antes de recortar.
func ClampPayment(requested, remaining decimal.Decimal) (decimal.Decimal, error) {
	if requested.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrMontoInvalido
	}
	if requested.GreaterThan(remaining) {
		return remaining, nil
	}
	return requested, nil
}
