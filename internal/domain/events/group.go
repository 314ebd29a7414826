package events

import "sort"

// Groups particiona eventos por tipo; cada slice va del más reciente al más
// antiguo. Se reconstruye entero en cada lectura, nunca se parchea.
type Groups map[EventType][]Event

// SortNewestFirst ordena in place por Time descendente. Es estable para que
// eventos con el mismo instante conserven el orden de llegada.
func SortNewestFirst(evs []Event) {
	sort.SliceStable(evs, func(i, j int) bool {
		return evs[i].Time.After(evs[j].Time)
	})
}

// GroupByType ordena una copia de evs y la agrupa por tipo.
func GroupByType(evs []Event) Groups {
	sorted := make([]Event, len(evs))
	copy(sorted, evs)
	SortNewestFirst(sorted)

	out := Groups{}
	for _, e := range sorted {
		out[e.Type] = append(out[e.Type], e)
	}
	return out
}

// Of devuelve los eventos de un tipo (nil si no hay o si g es nil).
func (g Groups) Of(t EventType) []Event {
	if g == nil {
		return nil
	}
	return g[t]
}

// Flatten junta todos los grupos en un único slice, del más reciente al más
// antiguo.
func (g Groups) Flatten() []Event {
	n := 0
	for _, evs := range g {
		n += len(evs)
	}
	out := make([]Event, 0, n)
	for _, evs := range g {
		out = append(out, evs...)
	}
	SortNewestFirst(out)
	return out
}

// Latest asume evs ya ordenado (como en Groups).
func Latest(evs []Event) (Event, bool) {
	if len(evs) == 0 {
		return Event{}, false
	}
	return evs[0], true
}

// WithName filtra medicaciones por nombre conservando el orden.
func WithName(evs []Event, name string) []Event {
	out := make([]Event, 0, len(evs))
	for _, e := range evs {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}
