package engine

import (
	"context"
	"sync"
)

// Signal guarda el último valor (sample-and-hold). Leer con Value da el valor
// vigente en ese instante; Subscribe entrega el valor actual y luego cada
// cambio. Un suscriptor lento solo ve el último valor pendiente.
type Signal[T any] struct {
	mu   sync.Mutex
	v    T
	subs map[chan T]struct{}
}

func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		v:    initial,
		subs: make(map[chan T]struct{}),
	}
}

func (s *Signal[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v
}

func (s *Signal[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v = v
	for ch := range s.subs {
		offer(ch, v)
	}
}

// Subscribe devuelve un canal que se cierra al cancelarse ctx.
func (s *Signal[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	s.mu.Lock()
	ch <- s.v
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, ch)
		close(ch)
		s.mu.Unlock()
	}()
	return ch
}

// offer reemplaza el valor pendiente, si lo hay. Solo se llama con s.mu
// tomado, así que nadie más escribe en ch.
func offer[T any](ch chan T, v T) {
	select {
	case <-ch:
	default:
	}
	ch <- v
}
