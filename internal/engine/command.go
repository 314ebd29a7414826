package engine

import (
	"errors"
	"fmt"
	"time"

	"infant-care-log/internal/domain/events"
)

var ErrUnknownAction = errors.New("unknown action")

// CommandBuilder produce un request de escritura por acción del usuario,
// guiado por la tabla acción → plantilla.
type CommandBuilder struct {
	resource  string
	order     []string
	templates map[string]events.Template
	sampler   *Sampler
	now       func() time.Time
}

func NewCommandBuilder(resource string, templates []events.Template, sampler *Sampler, now func() time.Time) (*CommandBuilder, error) {
	if sampler == nil {
		return nil, errors.New("command builder: sampler required")
	}
	if now == nil {
		now = time.Now
	}
	b := &CommandBuilder{
		resource:  resource,
		templates: make(map[string]events.Template, len(templates)),
		sampler:   sampler,
		now:       now,
	}
	for _, t := range templates {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("action %q: %w", t.Action, err)
		}
		if _, dup := b.templates[t.Action]; dup {
			return nil, fmt.Errorf("action %q: duplicated", t.Action)
		}
		b.templates[t.Action] = t
		b.order = append(b.order, t.Action)
	}
	return b, nil
}

// Build muestrea TimeShift (y los toggles de la plantilla) en este instante.
// La acción en sí no trae datos.
func (b *CommandBuilder) Build(action string) (Request, error) {
	tpl, ok := b.templates[action]
	if !ok {
		return Request{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	shift := b.sampler.TimeShift()
	toggles := b.sampler.Toggles(tpl.Toggles...)
	at := b.now().Add(time.Duration(shift) * time.Minute)

	ev := tpl.Stamp(at, toggles)
	return Request{
		Resource: b.resource,
		Method:   MethodWrite,
		Action:   action,
		Body:     &ev,
	}, nil
}

// Templates respeta el orden de configuración.
func (b *CommandBuilder) Templates() []events.Template {
	out := make([]events.Template, 0, len(b.order))
	for _, a := range b.order {
		out = append(out, b.templates[a])
	}
	return out
}
