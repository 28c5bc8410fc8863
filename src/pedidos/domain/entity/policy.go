package entity

import "github.com/shopspring/decimal"

// BrandPolicy define la política de pago de una línea de producto:
// el estado terminal preferido para sus líneas al confirmar el pedido
// y si la línea admite quedar con saldo pendiente.
type BrandPolicy struct {
	TerminalStatus string
	AllowsPending  bool
}

// Resolution es el resultado de resolver el estado de un pedido
type Resolution struct {
	Estado        string
	AllowsPending bool
}

// StatusPolicy resuelve estados de pedidos y líneas según la política
// por línea de producto. La tabla se inyecta al construir: cada
// despliegue puede configurar sus propias líneas.
type StatusPolicy struct {
	brands map[string]BrandPolicy
}

// NewStatusPolicy crea la política con la tabla de líneas dada
func NewStatusPolicy(brands map[string]BrandPolicy) *StatusPolicy {
	if brands == nil {
		brands = map[string]BrandPolicy{}
	}
	return &StatusPolicy{brands: brands}
}

// DefaultBrandPolicies devuelve la tabla de políticas por defecto
func DefaultBrandPolicies() map[string]BrandPolicy {
	return map[string]BrandPolicy{
		"Mayorista":    {TerminalStatus: EstadoPagado, AllowsPending: false},
		"Catálogo":     {TerminalStatus: EstadoConfirmarYMonitorear, AllowsPending: true},
		"Consignación": {TerminalStatus: EstadoPendienteDePago, AllowsPending: true},
	}
}

// AllowsPending indica si la línea de producto admite confirmar con
// saldo pendiente. Las líneas desconocidas lo admiten por defecto.
func (p *StatusPolicy) AllowsPending(brand string) bool {
	if bp, ok := p.brands[brand]; ok {
		return bp.AllowsPending
	}
	return true
}

// Resolve calcula el estado del pedido a partir del ledger:
// sin saldo restante es Pagado, con pagos parciales es Pago Incompleto,
// sin ningún pago es Pendiente de Pago.
func (p *StatusPolicy) Resolve(brand string, led Ledger) Resolution {
	res := Resolution{AllowsPending: p.AllowsPending(brand)}
	switch {
	case led.Remaining.LessThanOrEqual(decimal.Zero):
		res.Estado = EstadoPagado
	case led.TotalPaid.GreaterThan(decimal.Zero):
		res.Estado = EstadoPagoIncompleto
	default:
		res.Estado = EstadoPendienteDePago
	}
	return res
}

// ResolveLineStatus calcula el estado de las líneas del pedido: el
// estado terminal preferido de la línea de producto, o el estado
// calculado del pedido si no hay preferencia explícita.
func (p *StatusPolicy) ResolveLineStatus(brand, orderEstado string) string {
	if bp, ok := p.brands[brand]; ok && bp.TerminalStatus != "" {
		return bp.TerminalStatus
	}
	return orderEstado
}

// ValidateStatus verifica que el estado resuelto pertenezca al conjunto
// de valores que el campo destino realmente permite. Si no pertenece,
// cae a Pendiente de Pago cuando está permitido, o al primer valor
// permitido. Devuelve drifted=true cuando hubo que caer a un fallback,
// señal de desfase entre el código y la configuración del store.
func ValidateStatus(estado string, allowed []string) (resolved string, drifted bool) {
	if len(allowed) == 0 {
		return estado, false
	}
	for _, v := range allowed {
		if v == estado {
			return estado, false
		}
	}
	for _, v := range allowed {
		if v == EstadoPendienteDePago {
			return EstadoPendienteDePago, true
		}
	}
	return allowed[0], true
}
