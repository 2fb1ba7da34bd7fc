package scheduler

import (
	"context"
)

type Work[T any] func(ctx context.Context) (T, error)

type Result[T any] struct {
	Data T
	Err  error
}

type Future[T any] struct {
	input  chan T
	cancel context.CancelFunc
}

func NewFuture[T any](input chan T, cancel context.CancelFunc) *Future[T] {
	return &Future[T]{
		input:  input,
		cancel: cancel,
	}
}

func (f *Future[T]) C() chan T {
	return f.input
}

func (f *Future[T]) Stop() {
	f.cancel()
}

// Gather waits for the futures in order and returns their data.
// On the first error, or when ctx is done, the remaining futures are stopped.
func Gather(ctx context.Context, futures ...*Future[Result[any]]) ([]any, error) {
	stopAll := func() {
		for _, f := range futures {
			f.Stop()
		}
	}

	data := make([]any, 0, len(futures))
	for _, f := range futures {
		select {
		case <-ctx.Done():
			stopAll()
			return nil, ctx.Err()
		case r := <-f.C():
			if r.Err != nil {
				stopAll()
				return nil, r.Err
			}
			data = append(data, r.Data)
		}
	}
	stopAll()
	return data, nil
}
