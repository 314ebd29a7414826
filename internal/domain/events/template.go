package events

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidTemplate = errors.New("invalid event template")

// Template describe qué campos estampa una acción del usuario en el evento
// nuevo. Las familias feeding / medication / diaper solo difieren aquí.
type Template struct {
	Action string    `yaml:"action"`
	Label  string    `yaml:"label"`
	Type   EventType `yaml:"type"`
	Who    string    `yaml:"who"`
	Name   string    `yaml:"name"`

	// Toggles a muestrear en el momento de la acción (p.ej. poop, pee).
	Toggles []string `yaml:"toggles"`
}

func (t Template) Validate() error {
	if strings.TrimSpace(t.Action) == "" || t.Type == "" {
		return ErrInvalidTemplate
	}
	if t.Type == EventTypeMedication && strings.TrimSpace(t.Name) == "" {
		return ErrInvalidTemplate
	}
	return nil
}

// Stamp crea el evento para una acción ocurrida en at, con los toggles
// muestreados.
func (t Template) Stamp(at time.Time, toggles map[string]bool) Event {
	e := Event{
		Type: t.Type,
		Time: at.UTC(),
		Who:  t.Who,
		Name: t.Name,
	}
	for _, name := range t.Toggles {
		switch name {
		case TogglePoop:
			e.Poop = toggles[name]
		case TogglePee:
			e.Pee = toggles[name]
		}
	}
	return e
}

// DefaultTemplates: feed, tylenol, ibuprofen y diaper.
func DefaultTemplates() []Template {
	return []Template{
		{Action: "feed", Label: "Feed", Type: EventTypeFeeding, Who: "olive"},
		{Action: "tylenol", Label: "Tylenol", Type: EventTypeMedication, Name: "tylenol", Who: "andrea"},
		{Action: "ibuprofen", Label: "Ibuprofen", Type: EventTypeMedication, Name: "ibuprofen", Who: "andrea"},
		{Action: "diaper", Label: "Diaper", Type: EventTypeDiaper, Who: "olive", Toggles: []string{TogglePoop, TogglePee}},
	}
}
