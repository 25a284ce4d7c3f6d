// SPDX-License-Identifier: MIT

package assemble

import (
	"io"
	"log/slog"

	"github.com/katalvlaran/quadsparse/parallel"
)

// DefaultWorkers selects runtime.GOMAXPROCS(0) workers.
const DefaultWorkers = 0

const (
	panicWorkersInvalid   = "assemble: WithWorkers: workers must be >= 0"
	panicExecutorNil      = "assemble: WithExecutor: executor must not be nil"
	panicAllocatorNil     = "assemble: WithAllocator: allocator must not be nil"
	panicLoggerNil        = "assemble: WithLogger: logger must not be nil"
	panicMetricsNilTarget = "assemble: WithMetrics: metrics must not be nil"
)

// Option configures an assembly call. Constructors panic only on
// nonsensical values (programmer error).
type Option func(*Options)

// Options is the effective configuration of one call; fields are
// unexported and resolved through gatherOptions.
type Options struct {
	workers  int                // DefaultWorkers; ignored when executor is set
	executor parallel.Executor  // nil ⇒ parallel.NewPool(workers)
	alloc    parallel.Allocator // parallel.Heap
	logger   *slog.Logger       // discards by default
	metrics  *Metrics           // nil ⇒ no metrics
}

// WithWorkers sets the size of the default worker pool; 0 means GOMAXPROCS.
// It panics on a negative count.
func WithWorkers(n int) Option {
	if n < 0 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// WithExecutor replaces the default worker pool; WithWorkers is then ignored.
func WithExecutor(ex parallel.Executor) Option {
	if ex == nil {
		panic(panicExecutorNil)
	}

	return func(o *Options) { o.executor = ex }
}

// WithAllocator sets the buffer allocator used after planning.
func WithAllocator(a parallel.Allocator) Option {
	if a == nil {
		panic(panicAllocatorNil)
	}

	return func(o *Options) { o.alloc = a }
}

// WithLogger routes debug output (block counts, timings) to l.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic(panicLoggerNil)
	}

	return func(o *Options) { o.logger = l }
}

// WithMetrics counts assembled elements, written records and plan
// overflows into m (see NewMetrics).
func WithMetrics(m *Metrics) Option {
	if m == nil {
		panic(panicMetricsNilTarget)
	}

	return func(o *Options) { o.metrics = m }
}

// gatherOptions applies opts over the defaults.
func gatherOptions(opts []Option) Options {
	o := Options{
		workers: DefaultWorkers,
		alloc:   parallel.Heap{},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.executor == nil {
		o.executor = parallel.NewPool(o.workers)
	}

	return o
}
