package transaction

import (
	"context"
)

// Future is the result of an asynchronous execution.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// runAsync runs fn on the network worker pool when it has one, on its own
// goroutine otherwise.
func runAsync[T any](network Network, fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	task := func() {
		defer close(f.done)
		f.value, f.err = fn()
	}

	if runner, ok := network.(asyncRunner); ok {
		runner.Go(task)
	} else {
		go task()
	}
	return f
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the result is available or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
