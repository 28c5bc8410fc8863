package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func politicaDePrueba() *StatusPolicy {
	return NewStatusPolicy(map[string]BrandPolicy{
		"Mayorista": {TerminalStatus: EstadoPagado, AllowsPending: false},
		"Catálogo":  {TerminalStatus: EstadoConfirmarYMonitorear, AllowsPending: true},
	})
}

func TestResolveEscaleraDeEstados(t *testing.T) {
	p := politicaDePrueba()

	// sin restante: Pagado
	res := p.Resolve("Catálogo", Ledger{TotalDue: d("100"), TotalPaid: d("100"), Remaining: d("0")})
	assert.Equal(t, EstadoPagado, res.Estado)

	// con pagos parciales: Pago Incompleto
	res = p.Resolve("Catálogo", Ledger{TotalDue: d("100"), TotalPaid: d("40"), Remaining: d("60")})
	assert.Equal(t, EstadoPagoIncompleto, res.Estado)

	// sin ningún pago: Pendiente de Pago
	res = p.Resolve("Catálogo", Ledger{TotalDue: d("100"), TotalPaid: d("0"), Remaining: d("100")})
	assert.Equal(t, EstadoPendienteDePago, res.Estado)
}

func TestResolveEsTotalParaLineasDesconocidas(t *testing.T) {
	p := politicaDePrueba()
	conocidos := map[string]bool{
		EstadoPagado:          true,
		EstadoPagoIncompleto:  true,
		EstadoPendienteDePago: true,
	}

	casos := []Ledger{
		{TotalDue: d("0"), TotalPaid: d("0"), Remaining: d("0")},
		{TotalDue: d("10"), TotalPaid: d("5"), Remaining: d("5")},
		{TotalDue: d("10"), TotalPaid: d("0"), Remaining: d("10")},
	}
	for _, led := range casos {
		res := p.Resolve("Linea Inexistente", led)
		assert.True(t, conocidos[res.Estado], "estado %q fuera del enum", res.Estado)
		// las líneas desconocidas admiten pendiente por defecto
		assert.True(t, res.AllowsPending)
	}
}

func TestAllowsPendingSegunPolitica(t *testing.T) {
	p := politicaDePrueba()

	assert.False(t, p.AllowsPending("Mayorista"))
	assert.True(t, p.AllowsPending("Catálogo"))
	assert.True(t, p.AllowsPending("Desconocida"))
}

func TestResolveLineStatusPrefiereElTerminalDeLaLinea(t *testing.T) {
	p := politicaDePrueba()

	// con preferencia explícita se usa el terminal de la línea
	assert.Equal(t, EstadoPagado, p.ResolveLineStatus("Mayorista", EstadoPagoIncompleto))
	assert.Equal(t, EstadoConfirmarYMonitorear, p.ResolveLineStatus("Catálogo", EstadoPagado))

	// sin preferencia cae al estado calculado del pedido
	assert.Equal(t, EstadoPagoIncompleto, p.ResolveLineStatus("Desconocida", EstadoPagoIncompleto))
}

func TestValidateStatusContraElConjuntoPermitido(t *testing.T) {
	permitidos := []string{EstadoPendienteDePago, EstadoPagoIncompleto, EstadoPagado}

	// valor presente: pasa sin desfase
	estado, drifted := ValidateStatus(EstadoPagado, permitidos)
	assert.Equal(t, EstadoPagado, estado)
	assert.False(t, drifted)

	// valor ausente: cae a Pendiente de Pago si está permitido
	estado, drifted = ValidateStatus("Estado Retirado", permitidos)
	assert.Equal(t, EstadoPendienteDePago, estado)
	assert.True(t, drifted)

	// sin Pendiente de Pago disponible: cae al primer permitido
	estado, drifted = ValidateStatus("Estado Retirado", []string{EstadoPagado, EstadoPagoIncompleto})
	assert.Equal(t, EstadoPagado, estado)
	assert.True(t, drifted)

	// sin conjunto suministrado: pasa tal cual
	estado, drifted = ValidateStatus("Lo Que Sea", nil)
	assert.Equal(t, "Lo Que Sea", estado)
	assert.False(t, drifted)
}

func TestAppendHistorialConservaLoPrevio(t *testing.T) {
	ts := time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC)

	primero := AppendHistorial("", "Pedido creado", ts)
	require.Equal(t, "2026-08-25 14:30: Pedido creado", primero)

	segundo := AppendHistorial(primero, "Estado cambiado a Pagado", ts)
	assert.Equal(t, "2026-08-25 14:30: Pedido creado\n2026-08-25 14:30: Estado cambiado a Pagado", segundo)
}
