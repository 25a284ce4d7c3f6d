// SPDX-License-Identifier: MIT

package assemble

import (
	"context"
	"sync"
	"time"

	"github.com/katalvlaran/quadsparse/function"
	"github.com/katalvlaran/quadsparse/tensor"
)

// evalStripes is the number of mutexes guarding scatter into shared points.
const evalStripes = 64

// Eval evaluates every function at the points of s without integrating.
// Result fi has shape (s.NumPoints(), funcs[fi].Shape()...): the value at
// point p of element e is added at row PointIndex(e)[p], so points shared
// between elements accumulate.
//
// Errors:
//   - ErrEvaluation (wrapping the cause) if any element fails.
//   - the context error if ctx is cancelled.
func Eval(ctx context.Context, s Sample, funcs []function.Node, args map[string]*tensor.Array, opts ...Option) ([]*tensor.Array, error) {
	o := gatherOptions(opts)
	start := time.Now()

	out := make([]*tensor.Array, len(funcs))
	sizes := make([]int, len(funcs))
	for fi, f := range funcs {
		shape := f.Shape()
		a, err := tensor.New(append([]int{s.NumPoints()}, shape...)...)
		if err != nil {
			return nil, assembleErrorf("Eval", err)
		}
		out[fi] = a
		sizes[fi], _ = tensor.SizeOf(shape)
	}

	// row r is guarded by stripes[r%evalStripes]
	var stripes [evalStripes]sync.Mutex

	err := o.executor.Range(ctx, s.NumElements(), func(_ context.Context, e int) error {
		el, err := s.Element(e)
		if err != nil {
			return elementErrorf("Eval", e, err)
		}
		rows, err := s.PointIndex(e)
		if err != nil {
			return elementErrorf("Eval", e, err)
		}
		ec := function.EvalContext{Elem: e, Points: el.Coords, Transform: el.Transform, Args: args}
		for fi, f := range funcs {
			vals, err := function.Eval(f, ec)
			if err != nil {
				return elementErrorf("Eval", e, err)
			}
			n, src, dst := sizes[fi], vals.Data(), out[fi].Data()
			for p, row := range rows {
				mu := &stripes[row%evalStripes]
				mu.Lock()
				for k := 0; k < n; k++ {
					dst[row*n+k] += src[p*n+k]
				}
				mu.Unlock()
			}
		}
		o.metrics.elementDone(0)
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.logger.Debug("evaluated", "functions", len(funcs), "elements", s.NumElements(),
		"points", s.NumPoints(), "elapsed", time.Since(start))

	return out, nil
}
