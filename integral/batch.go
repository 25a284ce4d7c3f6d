// SPDX-License-Identifier: MIT

package integral

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/quadsparse/assemble"
	"github.com/katalvlaran/quadsparse/function"
	"github.com/katalvlaran/quadsparse/matrix"
	"github.com/katalvlaran/quadsparse/sparse"
	"github.com/katalvlaran/quadsparse/tensor"
)

// Result is one materialized integral. Exactly one of the value fields is
// set, selected by Rank.
type Result struct {
	Rank   int
	Scalar float64       // rank 0
	Vector []float64     // rank 1
	Matrix matrix.Matrix // rank 2
	Sparse *sparse.Data  // rank ≥3, deduplicated and pruned
}

// group collects every integrand integrated over one sample.
type group struct {
	sample assemble.Sample
	owners []int
	funcs  []function.Node
}

// EvalSparse evaluates integrals in one batch and returns one unreduced
// Float64 sparse collection per integral, shaped like it. Each distinct
// sample is assembled exactly once for all integrands that use it; the
// parts of an integral appear in first-seen sample order.
//
// args binds the arguments of the integrands.
func EvalSparse(ctx context.Context, integrals []*Integral, args map[string]*tensor.Array, opts ...Option) ([]*sparse.Data, error) {
	o := gatherOptions(opts)
	start := time.Now()

	var order []uuid.UUID
	groups := make(map[uuid.UUID]*group)
	for ii, in := range integrals {
		for _, t := range in.Terms() {
			id := t.Sample.ID()
			g, ok := groups[id]
			if !ok {
				g = &group{sample: t.Sample}
				groups[id] = g
				order = append(order, id)
			}
			g.owners = append(g.owners, ii)
			g.funcs = append(g.funcs, t.Func)
		}
	}

	parts := make([][]*sparse.Data, len(integrals))
	for ii, in := range integrals {
		desc, err := sparse.Describe(in.shape, sparse.Float64)
		if err != nil {
			return nil, integralErrorf("EvalSparse", err)
		}
		parts[ii] = []*sparse.Data{sparse.Empty(desc)}
	}

	for _, id := range order {
		g := groups[id]
		out, err := assemble.Integrate(ctx, g.sample, g.funcs, args, o.assemble...)
		if err != nil {
			return nil, integralErrorf("EvalSparse", err)
		}
		for k, ii := range g.owners {
			parts[ii] = append(parts[ii], out[k])
		}
		o.logger.Debug("sample assembled", "sample", id, "integrands", len(g.funcs))
	}

	res := make([]*sparse.Data, len(integrals))
	for ii := range integrals {
		d, err := sparse.Add(parts[ii]...)
		if err != nil {
			return nil, integralErrorf("EvalSparse", err)
		}
		res[ii] = d
	}

	o.logger.Debug("batch evaluated", "integrals", len(integrals), "samples", len(order),
		"elapsed", time.Since(start))

	return res, nil
}

// Eval evaluates integrals in one batch like EvalSparse and materializes
// every result by rank.
func Eval(ctx context.Context, integrals []*Integral, args map[string]*tensor.Array, opts ...Option) ([]Result, error) {
	datas, err := EvalSparse(ctx, integrals, args, opts...)
	if err != nil {
		return nil, err
	}
	o := gatherOptions(opts)

	out := make([]Result, len(datas))
	for k, d := range datas {
		if out[k], err = materialize(d, o); err != nil {
			return nil, integralErrorf("Eval", err)
		}
	}

	return out, nil
}

// Eval is the package-level Eval for a single integral.
func (i *Integral) Eval(ctx context.Context, args map[string]*tensor.Array, opts ...Option) (Result, error) {
	out, err := Eval(ctx, []*Integral{i}, args, opts...)
	if err != nil {
		return Result{}, err
	}

	return out[0], nil
}

func materialize(d *sparse.Data, o Options) (Result, error) {
	r := Result{Rank: sparse.Rank(d)}
	switch r.Rank {
	case 0, 1:
		a, err := sparse.ToDense(d)
		if err != nil {
			return Result{}, err
		}
		if r.Rank == 0 {
			r.Scalar = a.Data()[0]
		} else {
			r.Vector = a.Data()
		}
	case 2:
		shape := sparse.Shape(d)
		m, err := o.backend.FromSparse(sparse.IndexColumns(d), sparse.Values(d), shape[0], shape[1])
		if err != nil {
			return Result{}, err
		}
		r.Matrix = m
	default:
		r.Sparse = sparse.PruneInPlace(sparse.DedupInPlace(d, o.chunkBytes))
	}

	return r, nil
}
