package assemble

import (
	"context"

	"github.com/katalvlaran/quadsparse/function"
	"github.com/katalvlaran/quadsparse/sparse"
	"github.com/katalvlaran/quadsparse/tensor"
)

// IntegrateWithSizes runs Integrate with record counts taken from size
// instead of the blocks, so tests can force planning failures.
func IntegrateWithSizes(ctx context.Context, s Sample, funcs []function.Node, args map[string]*tensor.Array,
	size func(b, e int) uint64, opts ...Option) ([]*sparse.Data, error) {
	return integrate(ctx, s, funcs, args, size, gatherOptions(opts))
}
