package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"infant-care-log/internal/domain/events"
	"infant-care-log/internal/platform/logger"
)

var ErrMalformedResponse = errors.New("malformed response")

// Decode aplana la colección devuelta por el store. Las claves asignadas por
// el store se descartan. Un body null es una colección vacía.
// Los registros que no decodifican (sin time, time inválido) se saltean y se
// cuentan en skipped; ErrMalformedResponse queda para un body que no es
// objeto, array ni null.
func Decode(body json.RawMessage) (evs []events.Event, skipped int, err error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, 0, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return []events.Event{}, 0, nil
	}

	var values []json.RawMessage
	switch trimmed[0] {
	case '{':
		var byKey map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &byKey); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		for _, v := range byKey {
			values = append(values, v)
		}
	case '[':
		// Firebase devuelve un array si las claves son enteros consecutivos.
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	default:
		return nil, 0, fmt.Errorf("%w: expected object", ErrMalformedResponse)
	}

	evs = make([]events.Event, 0, len(values))
	for _, v := range values {
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			continue
		}
		var e events.Event
		if err := json.Unmarshal(v, &e); err != nil {
			skipped++
			continue
		}
		evs = append(evs, e)
	}
	return evs, skipped, nil
}

// Aggregate = Decode + orden descendente + agrupado por tipo.
func Aggregate(body json.RawMessage) (events.Groups, int, error) {
	evs, skipped, err := Decode(body)
	if err != nil {
		return nil, 0, err
	}
	return events.GroupByType(evs), skipped, nil
}

// Aggregator consume respuestas de lectura y emite Groups. El primer valor es
// nil (cargando). Una lectura fallida no emite nada: queda vigente el último
// valor bueno.
type Aggregator struct {
	Log      logger.Logger
	Observer Observer
}

func (a Aggregator) Run(ctx context.Context, responses <-chan Response) <-chan events.Groups {
	log := a.Log
	if log == nil {
		log = logger.Nop()
	}
	obs := a.Observer
	if obs == nil {
		obs = nopObserver{}
	}

	out := make(chan events.Groups)
	go func() {
		defer close(out)
		if !send(ctx, out, events.Groups(nil)) {
			return
		}
		for resp := range responses {
			if !resp.Request.IsRead() {
				continue
			}
			fields := logger.Fields{"seq": resp.Request.Seq, "trigger": resp.Request.Trigger}
			if resp.Err != nil {
				fields["err"] = resp.Err
				log.Warn("read failed, keeping last good events", fields)
				continue
			}
			groups, skipped, err := Aggregate(resp.Body)
			if err != nil {
				obs.ObserveMalformed()
				fields["err"] = err
				log.Warn("read failed, keeping last good events", fields)
				continue
			}
			if skipped > 0 {
				obs.ObserveMalformed()
				log.Warn("skipped malformed events", logger.Fields{"seq": resp.Request.Seq, "skipped": skipped})
			}
			fields["types"] = len(groups)
			log.Debug("events aggregated", fields)
			if !send(ctx, out, groups) {
				return
			}
		}
	}()
	return out
}
