package documents

import (
	"encoding/json"
	"sort"
	"strings"
)

// Orden de tipos de Firebase: null < false < true < números < strings < objetos.
func rank(v any) int {
	switch x := v.(type) {
	case nil:
		return 0
	case bool:
		if !x {
			return 1
		}
		return 2
	case float64:
		return 3
	case string:
		return 4
	default:
		return 5
	}
}

func compareValues(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch x := a.(type) {
	case float64:
		y := b.(float64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	case string:
		return strings.Compare(x, b.(string))
	}
	return 0
}

// child devuelve data[name] si data es un objeto; nil si no existe.
func child(data json.RawMessage, name string) any {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	return obj[name]
}

type sortable struct {
	doc   Document
	value any
}

// Apply ordena, filtra y recorta docs según q. docs debe venir ordenado por
// clave; el desempate entre valores iguales es por clave.
func Apply(docs []Document, q Query) []Document {
	if q.IsZero() {
		return docs
	}

	items := make([]sortable, 0, len(docs))
	for _, d := range docs {
		var v any = d.Key
		if q.OrderBy != "" && q.OrderBy != KeyOrder {
			v = child(d.Data, q.OrderBy)
		}
		items = append(items, sortable{doc: d, value: v})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return compareValues(items[i].value, items[j].value) < 0
	})

	out := make([]Document, 0, len(items))
	for _, it := range items {
		if q.StartAt != nil && compareValues(it.value, q.StartAt.Value) < 0 {
			continue
		}
		if q.EndAt != nil && compareValues(it.value, q.EndAt.Value) > 0 {
			continue
		}
		out = append(out, it.doc)
	}

	if q.LimitToFirst > 0 && len(out) > q.LimitToFirst {
		out = out[:q.LimitToFirst]
	}
	if q.LimitToLast > 0 && len(out) > q.LimitToLast {
		out = out[len(out)-q.LimitToLast:]
	}
	return out
}
