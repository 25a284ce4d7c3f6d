// SPDX-License-Identifier: MIT

package assemble

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/quadsparse/function"
	"github.com/katalvlaran/quadsparse/sample"
	"github.com/katalvlaran/quadsparse/sparse"
	"github.com/katalvlaran/quadsparse/tensor"
)

// Sample is what assembly reads from the geometry layer.
type Sample interface {
	ID() uuid.UUID
	NumElements() int
	NumPoints() int
	Element(e int) (sample.Element, error)
	PointIndex(e int) ([]int, error)
}

var _ Sample = (*sample.Sample)(nil)

// job is one block of one integrand.
type job struct {
	owner int
	block function.Block
}

// Integrate integrates every function over s and returns one unreduced
// sparse collection per function, shaped like the function, Float64
// valued. Records of one function are grouped by block, then by element;
// their order within an element follows the local row-major order.
//
// args binds the arguments of the functions.
//
// Errors:
//   - ErrOverflow if the output does not fit the record counter; nothing
//     is allocated.
//   - ErrEvaluation (wrapping the cause) if any element fails; the whole
//     call is abandoned.
//   - the context error if ctx is cancelled.
func Integrate(ctx context.Context, s Sample, funcs []function.Node, args map[string]*tensor.Array, opts ...Option) ([]*sparse.Data, error) {
	return integrate(ctx, s, funcs, args, nil, gatherOptions(opts))
}

// integrate is Integrate with an optional override of the record count of
// block b on element e.
func integrate(ctx context.Context, s Sample, funcs []function.Node, args map[string]*tensor.Array,
	size func(b, e int) uint64, o Options) ([]*sparse.Data, error) {
	start := time.Now()

	var jobs []job
	for fi, f := range funcs {
		blocks := function.Blocks(function.Simplify(f))
		o.logger.Debug("assembling integrand", "integrand", fi, "blocks", len(blocks))
		for _, b := range blocks {
			jobs = append(jobs, job{owner: fi, block: b})
		}
	}

	nelems := s.NumElements()
	sizes := make([][]uint64, len(jobs))
	owner := make([]int, len(jobs))
	for b, j := range jobs {
		owner[b] = j.owner
		row := make([]uint64, nelems)
		for e := range row {
			if size != nil {
				row[e] = size(b, e)
			} else {
				row[e] = uint64(j.block.Size())
			}
		}
		sizes[b] = row
	}

	plan, err := NewPlan(sizes, owner, len(funcs))
	if err != nil {
		if errors.Is(err, ErrOverflow) {
			o.metrics.overflow()
		}
		return nil, assembleErrorf("Integrate", err)
	}

	totals := plan.Totals()
	out := make([]*sparse.Data, len(funcs))
	for fi, f := range funcs {
		desc, err := sparse.Describe(f.Shape(), sparse.Float64)
		if err != nil {
			return nil, assembleErrorf("Integrate", err)
		}
		out[fi] = o.alloc.Alloc(desc, int(totals[fi]))
	}

	err = o.executor.Range(ctx, nelems, func(_ context.Context, e int) error {
		el, err := s.Element(e)
		if err != nil {
			return elementErrorf("Integrate", e, err)
		}
		ec := function.EvalContext{Elem: e, Points: el.Coords, Transform: el.Transform, Args: args}
		written := 0
		for b, j := range jobs {
			lo, hi := plan.Range(b, e)
			if err := fill(out[j.owner].Window(lo, hi), j.block, ec, el.Weights); err != nil {
				return elementErrorf("Integrate", e, err)
			}
			written += hi - lo
		}
		o.metrics.elementDone(written)
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.logger.Debug("integrated", "integrands", len(funcs), "blocks", len(jobs),
		"elements", nelems, "elapsed", time.Since(start))

	return out, nil
}

// fill evaluates one block on one element and writes its weighted
// contribution into w.
func fill(w sparse.Window, blk function.Block, ec function.EvalContext, weights []float64) error {
	if w.Len() == 0 {
		return nil
	}
	vals, err := function.Eval(blk.Value, ec)
	if err != nil {
		return err
	}

	local := make([]int, len(blk.Index))
	maps := make([][]int, len(blk.Index))
	for ax, m := range blk.Index {
		local[ax] = m.Len()
		if maps[ax], err = m.At(ec.Elem); err != nil {
			return err
		}
	}

	contrib := contract(vals.Data(), weights, w.Len())
	pos := make([]int, len(local))
	for k, v := range contrib {
		for ax, l := range pos {
			w.SetIndex(k, ax, uint64(maps[ax][l]))
		}
		w.SetValue(k, v)
		next(pos, local)
	}

	return nil
}

// contract returns Σ_p weights[p] * vals[p, :] for vals laid out as
// len(weights) rows of m values.
func contract(vals, weights []float64, m int) []float64 {
	np := len(weights)
	if np == 0 {
		return make([]float64, m)
	}
	v := mat.NewDense(np, m, vals)
	var out mat.VecDense
	out.MulVec(v.T(), mat.NewVecDense(np, weights))

	return out.RawVector().Data
}

// next advances the row-major multi-index pos within shape.
func next(pos, shape []int) {
	for ax := len(pos) - 1; ax >= 0; ax-- {
		pos[ax]++
		if pos[ax] < shape[ax] {
			return
		}
		pos[ax] = 0
	}
}
