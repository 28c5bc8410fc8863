package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func pagosDe(montos ...string) []ProposedPayment {
	out := make([]ProposedPayment, 0, len(montos))
	for _, m := range montos {
		out = append(out, ProposedPayment{MetodoPagoID: "m1", Monto: d(m)})
	}
	return out
}

func TestComputeLedgerPagoParcial(t *testing.T) {
	// base 100 + extra 10, pagos 30 y 20
	led := ComputeLedger(d("100"), d("10"), d("0"), pagosDe("30", "20"))

	assert.Equal(t, "110", led.TotalDue.String())
	assert.Equal(t, "50", led.TotalPaid.String())
	assert.Equal(t, "60", led.Remaining.String())
}

func TestComputeLedgerSobrepagoNoEsNegativo(t *testing.T) {
	led := ComputeLedger(d("50"), d("0"), d("0"), pagosDe("70"))

	assert.Equal(t, "50", led.TotalDue.String())
	assert.Equal(t, "70", led.TotalPaid.String())
	// el restante se acota en cero, nunca reporta exceso como negativo
	assert.Equal(t, "0", led.Remaining.String())
}

func TestComputeLedgerAjustesNegativosNoDescuentan(t *testing.T) {
	led := ComputeLedger(d("100"), d("-5"), d("-3"), nil)

	assert.Equal(t, "100", led.TotalDue.String())
	assert.Equal(t, "100", led.Remaining.String())
}

func TestComputeLedgerEsDeterminista(t *testing.T) {
	pagos := pagosDe("12.50", "7.25")

	primero := ComputeLedger(d("99.99"), d("1.01"), d("0"), pagos)
	segundo := ComputeLedger(d("99.99"), d("1.01"), d("0"), pagos)

	assert.True(t, primero.TotalDue.Equal(segundo.TotalDue))
	assert.True(t, primero.TotalPaid.Equal(segundo.TotalPaid))
	assert.True(t, primero.Remaining.Equal(segundo.Remaining))
}

func TestLedgerFromTotalsAcotaElRestante(t *testing.T) {
	led := LedgerFromTotals(d("110"), d("50"))
	assert.Equal(t, "60", led.Remaining.String())

	// un total pagado por encima del adeudado no produce restante negativo
	led = LedgerFromTotals(d("50"), d("80"))
	assert.Equal(t, "0", led.Remaining.String())
}

func TestClampPaymentRecortaAlRestante(t *testing.T) {
	monto, err := ClampPayment(d("70"), d("50"))
	require.NoError(t, err)
	assert.Equal(t, "50", monto.String())

	monto, err = ClampPayment(d("30"), d("50"))
	require.NoError(t, err)
	assert.Equal(t, "30", monto.String())
}

func TestClampPaymentRechazaMontosNoPositivos(t *testing.T) {
	_, err := ClampPayment(d("0"), d("50"))
	require.ErrorIs(t, err, ErrMontoInvalido)

	_, err = ClampPayment(d("-10"), d("50"))
	require.ErrorIs(t, err, ErrMontoInvalido)
}

func TestLedgerRestanteNuncaNegativo(t *testing.T) {
	casos := []struct {
		base  string
		pagos []string
	}{
		{"0", nil},
		{"10", []string{"10"}},
		{"10", []string{"5", "5", "5"}},
		{"250.75", []string{"300"}},
	}

	for _, c := range casos {
		led := ComputeLedger(d(c.base), decimal.Zero, decimal.Zero, pagosDe(c.pagos...))
		assert.False(t, led.Remaining.IsNegative(), "base %s pagos %v", c.base, c.pagos)
		if led.TotalPaid.GreaterThanOrEqual(led.TotalDue) {
			assert.True(t, led.Remaining.IsZero())
		}
	}
}
