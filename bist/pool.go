// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package bist

import (
	"context"
	"sync"
)

type jobResult[T, R any] struct {
	payload T
	res     R
	err     error
}

// workerPool is a fixed-size goroutine pool. Each worker is identified by its
// index, so that process can use per-worker state.
type workerPool[T, R any] struct {
	queue   chan T
	results chan jobResult[T, R]
	process func(ctx context.Context, w int, t T) (R, error)
	wg      sync.WaitGroup
}

// newWorkerPool creates and starts a pool with n goroutines and queue capacity cap.
func newWorkerPool[T, R any](ctx context.Context, n, cap int, fn func(context.Context, int, T) (R, error)) *workerPool[T, R] {
	p := &workerPool[T, R]{
		queue:   make(chan T, cap),
		results: make(chan jobResult[T, R], cap),
		process: fn,
	}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func(w int) {
			defer p.wg.Done()
			p.run(ctx, w)
		}(i)
	}
	go func() {
		p.wg.Wait()
		close(p.results)
	}()
	return p
}

func (p *workerPool[T, R]) run(ctx context.Context, w int) {
	for {
		select {
		case t, ok := <-p.queue:
			if !ok {
				return
			}
			r, err := p.process(ctx, w, t)
			select {
			case p.results <- jobResult[T, R]{payload: t, res: r, err: err}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// Submit enqueues a job without blocking (returns false if full).
func (p *workerPool[T, R]) Submit(t T) bool {
	select {
	case p.queue <- t:
		return true
	default:
		return false
	}
}

// Close closes the queue. Workers exit once it is drained.
func (p *workerPool[T, R]) Close() {
	close(p.queue)
}

// Results returns the result channel. It is closed once all workers exit.
func (p *workerPool[T, R]) Results() <-chan jobResult[T, R] {
	return p.results
}
