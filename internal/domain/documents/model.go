package documents

import (
	"encoding/json"
	"time"
)

// Document es un valor JSON guardado bajo una clave asignada por el store.
type Document struct {
	Collection string
	Key        string
	Data       json.RawMessage
	CreatedAt  time.Time
}

// KeyOrder es el valor especial de orderBy que ordena por clave.
const KeyOrder = "$key"

// Query replica el subconjunto de parámetros REST de Firebase que usa el
// cliente: orderBy, startAt, endAt, limitToFirst, limitToLast.
type Query struct {
	OrderBy string

	// Valores ya decodificados desde JSON (string, float64, bool o nil).
	StartAt *Bound
	EndAt   *Bound

	LimitToFirst int
	LimitToLast  int
}

type Bound struct {
	Value any
}

func (q Query) IsZero() bool {
	return q.OrderBy == "" && q.StartAt == nil && q.EndAt == nil && q.LimitToFirst == 0 && q.LimitToLast == 0
}
