package engine

import (
	"context"
	"encoding/json"
	"net/url"

	"infant-care-log/internal/domain/events"
)

type Method string

const (
	MethodRead  Method = "GET"
	MethodWrite Method = "POST"
)

// Request describe una operación contra la colección remota. Es lo único que
// sale del motor hacia la red.
type Request struct {
	// Seq lo asigna el dispatcher en orden de emisión.
	Seq uint64

	Resource string
	Method   Method

	// Lecturas.
	Query   url.Values
	Trigger TriggerKind

	// Escrituras.
	Action string
	Body   *events.Event
}

func (r Request) IsRead() bool { return r.Method == MethodRead }

// Response es el resultado de un Request. Err != nil cubre errores de red,
// status no-2xx y bodies ilegibles.
type Response struct {
	Request Request
	Body    json.RawMessage
	Err     error
}

// Network es el colaborador que ejecuta los requests. Las llamadas pueden
// solaparse; el motor no cancela ni reordena.
type Network interface {
	Do(ctx context.Context, req Request) (json.RawMessage, error)
}

// Observer recibe el resultado de cada request (métricas).
type Observer interface {
	ObserveRequest(method Method, err error)
	ObserveMalformed()
	ObserveRender(loading bool)
}

type nopObserver struct{}

func (nopObserver) ObserveRequest(Method, error) {}
func (nopObserver) ObserveMalformed()            {}
func (nopObserver) ObserveRender(bool)           {}
