package engine

import (
	"context"
	"sync"
)

// Combinadores sobre canales. Cada uno arranca una goroutine que termina al
// cerrarse su entrada o al cancelarse ctx, y cierra su salida al terminar.
// Ninguno comparte estado con otro: el grafo es una composición de funciones.

func send[T any](ctx context.Context, out chan<- T, v T) bool {
	select {
	case out <- v:
		return true
	case <-ctx.Done():
		return false
	}
}

// Merge reenvía todo lo que llega por cualquiera de las entradas.
func Merge[T any](ctx context.Context, ins ...<-chan T) <-chan T {
	out := make(chan T)
	var wg sync.WaitGroup
	for _, in := range ins {
		if in == nil {
			continue
		}
		wg.Add(1)
		go func(in <-chan T) {
			defer wg.Done()
			for v := range in {
				if !send(ctx, out, v) {
					return
				}
			}
		}(in)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

func Map[T, U any](ctx context.Context, in <-chan T, f func(T) U) <-chan U {
	out := make(chan U)
	go func() {
		defer close(out)
		for v := range in {
			if !send(ctx, out, f(v)) {
				return
			}
		}
	}()
	return out
}

func Filter[T any](ctx context.Context, in <-chan T, keep func(T) bool) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for v := range in {
			if !keep(v) {
				continue
			}
			if !send(ctx, out, v) {
				return
			}
		}
	}()
	return out
}

// StartWith emite first y luego todo lo de in.
func StartWith[T any](ctx context.Context, in <-chan T, first T) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		if !send(ctx, out, first) {
			return
		}
		for v := range in {
			if !send(ctx, out, v) {
				return
			}
		}
	}()
	return out
}

// CombineLatest emite f(a, b) cada vez que cambia cualquiera de las dos
// entradas, usando el último valor visto de la otra. No emite hasta tener
// un valor de cada lado. Termina cuando ambas entradas se cierran.
func CombineLatest[A, B, R any](ctx context.Context, as <-chan A, bs <-chan B, f func(A, B) R) <-chan R {
	out := make(chan R)
	go func() {
		defer close(out)
		var (
			a      A
			b      B
			haveA  bool
			haveB  bool
			closed int
		)
		for closed < 2 {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-as:
				if !ok {
					as = nil
					closed++
					continue
				}
				a, haveA = v, true
			case v, ok := <-bs:
				if !ok {
					bs = nil
					closed++
					continue
				}
				b, haveB = v, true
			}
			if haveA && haveB {
				if !send(ctx, out, f(a, b)) {
					return
				}
			}
		}
	}()
	return out
}
