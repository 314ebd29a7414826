package engine

import (
	"strings"
	"sync"
)

// ShiftRule traduce el valor crudo del control de desplazamiento a minutos.
type ShiftRule string

const (
	// ShiftDirect: el valor del control son minutos tal cual.
	ShiftDirect ShiftRule = "direct"
	// ShiftNegated: control "hace N minutos"; positivo en la UI es pasado.
	ShiftNegated ShiftRule = "negated"
)

func ParseShiftRule(s string) ShiftRule {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "negated":
		return ShiftNegated
	default:
		return ShiftDirect
	}
}

func (r ShiftRule) Apply(raw int) int {
	if r == ShiftNegated {
		return -raw
	}
	return raw
}

// Raw es la inversa de Apply, para volver a pintar el control.
func (r ShiftRule) Raw(minutes int) int {
	return r.Apply(minutes)
}

// Sampler mantiene el último valor de cada control de la UI. Los consumidores
// leen en el momento de la acción; nada se empuja en cada tecla.
type Sampler struct {
	rule      ShiftRule
	timeShift *Signal[int]

	mu      sync.Mutex
	toggles map[string]*Signal[bool]
}

func NewSampler(rule ShiftRule) *Sampler {
	if rule == "" {
		rule = ShiftDirect
	}
	return &Sampler{
		rule:      rule,
		timeShift: NewSignal(0),
		toggles:   make(map[string]*Signal[bool]),
	}
}

func (s *Sampler) Rule() ShiftRule { return s.rule }

// SetTimeShiftRaw registra un cambio del control (valor crudo).
func (s *Sampler) SetTimeShiftRaw(raw int) {
	s.timeShift.Set(s.rule.Apply(raw))
}

// TimeShift devuelve los minutos vigentes.
func (s *Sampler) TimeShift() int { return s.timeShift.Value() }

func (s *Sampler) TimeShiftSignal() *Signal[int] { return s.timeShift }

func (s *Sampler) SetToggle(name string, on bool) {
	s.toggle(name).Set(on)
}

// Toggle devuelve false si el control nunca cambió.
func (s *Sampler) Toggle(name string) bool {
	return s.toggle(name).Value()
}

// Toggles muestrea varios controles a la vez.
func (s *Sampler) Toggles(names ...string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = s.Toggle(n)
	}
	return out
}

func (s *Sampler) toggle(name string) *Signal[bool] {
	s.mu.Lock()
	defer s.mu.Unlock()
	sig, ok := s.toggles[name]
	if !ok {
		sig = NewSignal(false)
		s.toggles[name] = sig
	}
	return sig
}
