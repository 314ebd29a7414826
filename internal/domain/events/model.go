package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// TimeLayout es el formato ISO-8601 de ancho fijo (UTC, milisegundos) con el
// que se estampan los eventos. Con ancho fijo el orden lexicográfico coincide
// con el cronológico.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

var ErrInvalidTime = errors.New("invalid event time")

// Event es un hecho inmutable sobre el bebé.
type Event struct {
	Type EventType
	Time time.Time
	Who  string

	// Solo medication.
	Name string

	// Solo diaper.
	Poop bool
	Pee  bool
}

type eventJSON struct {
	Type EventType `json:"type"`
	Time string    `json:"time"`
	Who  string    `json:"who,omitempty"`
	Name string    `json:"name,omitempty"`
	Poop *bool     `json:"poop,omitempty"`
	Pee  *bool     `json:"pee,omitempty"`
}

// FormatTime devuelve t en el formato del store.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime acepta cualquier RFC3339 (con o sin fracción).
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return t.UTC(), nil
}

func (e Event) MarshalJSON() ([]byte, error) {
	out := eventJSON{
		Type: e.Type,
		Time: FormatTime(e.Time),
		Who:  e.Who,
		Name: e.Name,
	}
	if e.Type == EventTypeDiaper {
		poop, pee := e.Poop, e.Pee
		out.Poop = &poop
		out.Pee = &pee
	}
	return json.Marshal(out)
}

func (e *Event) UnmarshalJSON(b []byte) error {
	var in eventJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	t, err := ParseTime(in.Time)
	if err != nil {
		return err
	}
	*e = Event{
		Type: in.Type,
		Time: t,
		Who:  in.Who,
		Name: in.Name,
	}
	if in.Poop != nil {
		e.Poop = *in.Poop
	}
	if in.Pee != nil {
		e.Pee = *in.Pee
	}
	return nil
}
