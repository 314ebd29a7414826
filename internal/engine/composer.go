package engine

import (
	"context"
	"strings"
	"time"

	"infant-care-log/internal/domain/events"
)

// Highlight es una fila de la tabla de resumen.
type Highlight struct {
	Label string `json:"label"`
	Last  string `json:"last"`
	Next  string `json:"next,omitempty"`
}

// RenderRecord es el snapshot inmutable que recibe el renderer.
type RenderRecord struct {
	// nil hasta que llega la primera lectura buena.
	EventGroups events.Groups `json:"eventGroups"`
	TimeShift   int           `json:"timeShift"`

	ComposedAt time.Time   `json:"composedAt"`
	Highlights []Highlight `json:"highlights,omitempty"`
}

func (r RenderRecord) Loading() bool { return r.EventGroups == nil }

type row struct {
	label string
	typ   events.EventType
	name  string
}

// Composer arma RenderRecords. Las filas salen de la tabla de acciones: una
// por tipo (con el nombre del tipo), y una por medicamento (con su label).
type Composer struct {
	summarizer Summarizer
	rows       []row
	now        func() time.Time
}

func NewComposer(templates []events.Template, summarizer Summarizer, now func() time.Time) *Composer {
	if now == nil {
		now = time.Now
	}
	c := &Composer{summarizer: summarizer, now: now}

	seen := map[row]bool{}
	for _, t := range templates {
		r := row{typ: t.Type}
		if t.Type == events.EventTypeMedication {
			r.name = t.Name
		}
		if seen[r] {
			continue
		}
		seen[r] = true
		r.label = typeLabel(t.Type)
		if r.name != "" {
			r.label = t.Label
			if r.label == "" {
				r.label = t.Action
			}
		}
		c.rows = append(c.rows, r)
	}
	return c
}

// typeLabel: "feeding" -> "Feeding".
func typeLabel(t events.EventType) string {
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Compose recalcula los textos derivados con el now de este momento.
func (c *Composer) Compose(groups events.Groups, timeShift int) RenderRecord {
	now := c.now()
	rec := RenderRecord{
		EventGroups: groups,
		TimeShift:   timeShift,
		ComposedAt:  now,
	}
	if rec.Loading() {
		return rec
	}

	for _, r := range c.rows {
		evs := groups.Of(r.typ)
		h := Highlight{Label: r.label}
		switch {
		case r.typ == events.EventTypeFeeding:
			h.Last = c.summarizer.LastEvent(evs, now)
			h.Next = c.summarizer.NextFeeding(evs)
		case r.name != "":
			h.Last = c.summarizer.LastMedication(evs, r.name, now)
		default:
			h.Last = c.summarizer.LastEvent(evs, now)
		}
		rec.Highlights = append(rec.Highlights, h)
	}
	return rec
}

// Run es el combine-latest de grupos y TimeShift.
func (c *Composer) Run(ctx context.Context, groups <-chan events.Groups, timeShift <-chan int) <-chan RenderRecord {
	return CombineLatest(ctx, groups, timeShift, c.Compose)
}
