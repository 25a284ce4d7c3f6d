// SPDX-License-Identifier: MIT

package parallel

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Executor runs fn for every index in [0, n).
type Executor interface {
	Range(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error
}

// Serial runs indices in ascending order on the calling goroutine.
type Serial struct{}

// Range implements Executor.
func (Serial) Range(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ctx, i); err != nil {
			return err
		}
	}

	return nil
}

// Pool fans indices out over a fixed number of goroutines. Workers pull the
// next index from a shared atomic cursor, so uneven per-index cost balances
// itself.
type Pool struct {
	workers int
}

// NewPool returns a pool of the given size; workers <= 0 means
// runtime.GOMAXPROCS(0).
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &Pool{workers: workers}
}

// Workers returns the pool size.
func (p *Pool) Workers() int { return p.workers }

// Range implements Executor.
func (p *Pool) Range(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return ctx.Err()
	}
	workers := p.workers
	if workers > n {
		workers = n
	}
	if workers == 1 {
		return Serial{}.Range(ctx, n, fn)
	}

	g, gctx := errgroup.WithContext(ctx)
	var cursor atomic.Int64
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				i := int(cursor.Add(1) - 1)
				if i >= n {
					return nil
				}
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := fn(gctx, i); err != nil {
					return err
				}
			}
		})
	}

	return g.Wait()
}

var (
	_ Executor = Serial{}
	_ Executor = (*Pool)(nil)
)
