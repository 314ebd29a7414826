package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"infant-care-log/internal/platform/logger"
)

var (
	ErrAlreadyRunning = errors.New("engine already running")
	ErrNilNetwork     = errors.New("engine: network required")
)

type Options struct {
	Network Network

	Triggers TriggerSource
	Sampler  *Sampler
	Builder  *CommandBuilder
	Composer *Composer

	// Ticks de 1s para el disparo periódico. nil => time.NewTicker(time.Second).
	Ticks <-chan time.Time

	Log      logger.Logger
	Observer Observer
}

// Engine cablea el grafo: disparadores y comandos → stream de requests →
// red → agregador → composer → último RenderRecord.
type Engine struct {
	net      Network
	triggers TriggerSource
	sampler  *Sampler
	builder  *CommandBuilder
	composer *Composer
	ticks    <-chan time.Time
	log      logger.Logger
	obs      Observer

	refresh chan Trigger
	writes  chan Request
	records *Signal[RenderRecord]

	running atomic.Bool
	seq     atomic.Uint64
}

func New(opts Options) (*Engine, error) {
	if opts.Network == nil {
		return nil, ErrNilNetwork
	}
	if opts.Sampler == nil || opts.Builder == nil || opts.Composer == nil {
		return nil, errors.New("engine: sampler, builder and composer required")
	}
	if err := opts.Triggers.Policy.Validate(); err != nil {
		return nil, err
	}
	if opts.Triggers.Marker < 0 || opts.Triggers.Marker > 59 {
		return nil, fmt.Errorf("engine: marker second out of range: %d", opts.Triggers.Marker)
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}

	return &Engine{
		net:      opts.Network,
		triggers: opts.Triggers,
		sampler:  opts.Sampler,
		builder:  opts.Builder,
		composer: opts.Composer,
		ticks:    opts.Ticks,
		log:      opts.Log.With(logger.Fields{"component": "engine"}),
		obs:      opts.Observer,
		refresh:  make(chan Trigger, 16),
		writes:   make(chan Request, 16),
		records:  NewSignal(RenderRecord{}),
	}, nil
}

// Run bloquea hasta que ctx se cancela.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	ticks := e.ticks
	if ticks == nil {
		t := time.NewTicker(time.Second)
		defer t.Stop()
		ticks = t.C
	}

	written := make(chan Trigger)
	readResponses := make(chan Response)

	reads := e.triggers.Requests(ctx, ticks, e.refresh, written)
	requests := Merge(ctx, reads, e.writes)
	responses := e.dispatch(ctx, requests)

	go e.route(ctx, responses, readResponses, written)

	groups := Aggregator{Log: e.log, Observer: e.obs}.Run(ctx, readResponses)
	records := e.composer.Run(ctx, groups, e.sampler.TimeShiftSignal().Subscribe(ctx))

	e.log.Info("engine started", logger.Fields{
		"resource": e.triggers.Resource,
		"policy":   e.triggers.Policy.Mode,
		"marker":   e.triggers.Marker,
	})

	for {
		select {
		case <-ctx.Done():
			e.log.Info("engine stopped", logger.Fields{"reason": ctx.Err()})
			return nil
		case rec, ok := <-records:
			if !ok {
				return nil
			}
			e.obs.ObserveRender(rec.Loading())
			e.records.Set(rec)
		}
	}
}

// dispatch lanza cada request en su propia goroutine. No hay cancelación ni
// secuenciación: respuestas de lecturas solapadas llegan en el orden en que
// terminan, y la última en llegar gana aunque sea más vieja.
func (e *Engine) dispatch(ctx context.Context, requests <-chan Request) <-chan Response {
	out := make(chan Response)
	go func() {
		for req := range requests {
			req.Seq = e.seq.Add(1)
			go func(req Request) {
				body, err := e.net.Do(ctx, req)
				e.obs.ObserveRequest(req.Method, err)
				send(ctx, out, Response{Request: req, Body: body, Err: err})
			}(req)
		}
	}()
	return out
}

// route separa lecturas (al agregador) de escrituras (que disparan una
// relectura, hayan fallado o no).
func (e *Engine) route(ctx context.Context, responses <-chan Response, reads chan<- Response, written chan<- Trigger) {
	for {
		select {
		case <-ctx.Done():
			return
		case resp := <-responses:
			if resp.Request.IsRead() {
				if !send(ctx, reads, resp) {
					return
				}
				continue
			}

			fields := logger.Fields{"seq": resp.Request.Seq, "action": resp.Request.Action}
			if resp.Err != nil {
				fields["err"] = resp.Err
				e.log.Error("write failed, event lost", fields)
			} else {
				e.log.Info("event written", fields)
			}
			if !send(ctx, written, Trigger{Kind: TriggerWrite, At: time.Now()}) {
				return
			}
		}
	}
}

// Act construye la escritura en el momento de la llamada (muestreando los
// controles ahora) y la encola en el stream de requests.
func (e *Engine) Act(ctx context.Context, action string) (Request, error) {
	req, err := e.builder.Build(action)
	if err != nil {
		return Request{}, err
	}
	select {
	case e.writes <- req:
		return req, nil
	case <-ctx.Done():
		return Request{}, ctx.Err()
	}
}

// Refresh pide una relectura explícita.
func (e *Engine) Refresh(ctx context.Context) error {
	select {
	case e.refresh <- Trigger{Kind: TriggerRefresh, At: time.Now()}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) SetTimeShift(raw int)           { e.sampler.SetTimeShiftRaw(raw) }
func (e *Engine) SetToggle(name string, on bool) { e.sampler.SetToggle(name, on) }

func (e *Engine) Sampler() *Sampler              { return e.sampler }
func (e *Engine) Builder() *CommandBuilder       { return e.builder }
func (e *Engine) Latest() RenderRecord           { return e.records.Value() }
func (e *Engine) Records() *Signal[RenderRecord] { return e.records }
