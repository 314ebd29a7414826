package engine

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"infant-care-log/internal/domain/events"
)

type TriggerKind string

const (
	TriggerStartup TriggerKind = "startup"
	TriggerTick    TriggerKind = "tick"
	TriggerRefresh TriggerKind = "refresh"
	TriggerWrite   TriggerKind = "write"
)

// Trigger pide releer la colección completa.
type Trigger struct {
	Kind TriggerKind
	At   time.Time
}

type ReadMode string

const (
	// ReadLimit trae los N registros más recientes.
	ReadLimit ReadMode = "limit"
	// ReadSince trae todo lo posterior a un instante fijo. No tiene techo: si
	// la colección crece más allá del límite de body del cliente HTTP, las
	// lecturas fallan con httpclient.ErrBodyTooLarge.
	ReadSince ReadMode = "since"
)

var ErrInvalidReadPolicy = errors.New("invalid read policy")

// ReadPolicy decide los parámetros de cada lectura.
type ReadPolicy struct {
	Mode  ReadMode
	Limit int
	Since time.Time
}

func (p ReadPolicy) Validate() error {
	switch p.Mode {
	case ReadLimit:
		if p.Limit <= 0 {
			return fmt.Errorf("%w: limit must be > 0", ErrInvalidReadPolicy)
		}
	case ReadSince:
		if p.Since.IsZero() {
			return fmt.Errorf("%w: since is required", ErrInvalidReadPolicy)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidReadPolicy, p.Mode)
	}
	return nil
}

// Query arma los parámetros estilo Firebase REST: los valores van
// codificados como JSON (strings entre comillas).
func (p ReadPolicy) Query() url.Values {
	q := url.Values{}
	q.Set("orderBy", strconv.Quote("time"))
	switch p.Mode {
	case ReadLimit:
		q.Set("limitToLast", strconv.Itoa(p.Limit))
	case ReadSince:
		q.Set("startAt", strconv.Quote(events.FormatTime(p.Since)))
	}
	return q
}

// TriggerSource convierte disparadores en requests de lectura.
type TriggerSource struct {
	Resource string
	Policy   ReadPolicy

	// Marker es el segundo de cada minuto en el que dispara el tick.
	Marker int

	Now func() time.Time
}

// PhaseTicks filtra un ticker de 1s y deja pasar solo los ticks cuyo campo de
// segundos es marker: en la práctica, uno por minuto (sin corrección de drift).
func PhaseTicks(ctx context.Context, ticks <-chan time.Time, marker int) <-chan Trigger {
	onMarker := Filter(ctx, ticks, func(t time.Time) bool {
		return t.Second() == marker
	})
	return Map(ctx, onMarker, func(t time.Time) Trigger {
		return Trigger{Kind: TriggerTick, At: t}
	})
}

// Triggers une tick periódico, refresh manual y fin de escrituras, con un
// disparo inicial para la primera carga.
func (s TriggerSource) Triggers(ctx context.Context, ticks <-chan time.Time, refresh, written <-chan Trigger) <-chan Trigger {
	merged := Merge(ctx, PhaseTicks(ctx, ticks, s.Marker), refresh, written)
	return StartWith(ctx, merged, Trigger{Kind: TriggerStartup, At: s.now()})
}

// Requests emite exactamente una lectura por disparo.
func (s TriggerSource) Requests(ctx context.Context, ticks <-chan time.Time, refresh, written <-chan Trigger) <-chan Request {
	return Map(ctx, s.Triggers(ctx, ticks, refresh, written), s.Read)
}

func (s TriggerSource) Read(t Trigger) Request {
	return Request{
		Resource: s.Resource,
		Method:   MethodRead,
		Query:    s.Policy.Query(),
		Trigger:  t.Kind,
	}
}

func (s TriggerSource) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ParseReadMode acepta "limit" o "since" (default limit).
func ParseReadMode(s string) ReadMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "since":
		return ReadSince
	default:
		return ReadLimit
	}
}
