// SPDX-License-Identifier: MIT

package integral

import (
	"io"
	"log/slog"

	"github.com/katalvlaran/quadsparse/assemble"
	"github.com/katalvlaran/quadsparse/matrix"
	"github.com/katalvlaran/quadsparse/sparse"
)

// DefaultChunkBytes is the Dedup working-set budget used for rank ≥3 results.
const DefaultChunkBytes = sparse.DefaultChunkBytes

const (
	panicBackendNil     = "integral: WithBackend: backend must not be nil"
	panicChunkBytesZero = "integral: WithChunkBytes: chunk budget must be positive"
	panicLoggerNil      = "integral: WithLogger: logger must not be nil"
)

// Option configures batch evaluation.
type Option func(*Options)

// Options is the effective configuration of one evaluation.
type Options struct {
	backend    matrix.Backend    // rank-2 materialization; CSR by default
	chunkBytes int               // DefaultChunkBytes
	assemble   []assemble.Option // forwarded to every assemble.Integrate call
	logger     *slog.Logger      // discards by default
}

// WithBackend selects how rank-2 results are materialized.
func WithBackend(b matrix.Backend) Option {
	if b == nil {
		panic(panicBackendNil)
	}

	return func(o *Options) { o.backend = b }
}

// WithChunkBytes sets the Dedup budget for rank ≥3 results.
func WithChunkBytes(n int) Option {
	if n <= 0 {
		panic(panicChunkBytesZero)
	}

	return func(o *Options) { o.chunkBytes = n }
}

// WithAssemble forwards options to the assembler (workers, executor,
// allocator, metrics, logger).
func WithAssemble(opts ...assemble.Option) Option {
	return func(o *Options) { o.assemble = append(o.assemble, opts...) }
}

// WithLogger routes batch-level debug output to l.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic(panicLoggerNil)
	}

	return func(o *Options) { o.logger = l }
}

func gatherOptions(opts []Option) Options {
	o := Options{
		backend:    matrix.NewCSRBackend(),
		chunkBytes: DefaultChunkBytes,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
