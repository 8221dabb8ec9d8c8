package dataflow

import (
	"context"
	"sync"
	"time"
)

// ForEach runs fn for every item on a pool of workers. The first error that
// survives its retries cancels the remaining items and is returned.
func ForEach[T any](ctx context.Context, items []T, fn func(context.Context, T) error, opts ...Option) error {
	cfg := defaultConfig()
	for _, o := range opts {
		o(cfg)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	input := make(chan T)
	go func() {
		defer close(input)
		for _, item := range items {
			select {
			case <-ctx.Done():
				return
			case input <- item:
			}
		}
	}()

	var wg sync.WaitGroup
	var errOnce sync.Once
	var firstErr error

	worker := func() {
		defer wg.Done()
		for item := range input {
			if err := attempt(ctx, cfg, item, fn); err != nil {
				errOnce.Do(func() {
					firstErr = err
					cancel()
				})
			}
		}
	}

	wg.Add(cfg.workers)
	for i := 0; i < cfg.workers; i++ {
		go worker()
	}
	wg.Wait()

	return firstErr
}

// Map applies fn to every item concurrently and returns the results in input
// order.
func Map[T, R any](ctx context.Context, items []T, fn func(context.Context, T) (R, error), opts ...Option) ([]R, error) {
	type indexed struct {
		i    int
		item T
	}
	jobs := make([]indexed, len(items))
	for i, item := range items {
		jobs[i] = indexed{i: i, item: item}
	}

	out := make([]R, len(items))
	err := ForEach(ctx, jobs, func(ctx context.Context, j indexed) error {
		r, err := fn(ctx, j.item)
		if err != nil {
			return err
		}
		out[j.i] = r
		return nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// attempt calls fn once plus any configured retries.
func attempt[T any](ctx context.Context, cfg *config, item T, fn func(context.Context, T) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := fn(ctx, item)
	for i := 1; err != nil && i <= cfg.maxRetries; i++ {
		if cfg.retryIf != nil && !cfg.retryIf(err) {
			return err
		}
		if cfg.backoff != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(cfg.backoff(i)):
			}
		}
		err = fn(ctx, item)
	}
	return err
}
