// SPDX-License-Identifier: MIT

package function

import (
	"math"

	"github.com/katalvlaran/quadsparse/tensor"
)

// Transform maps reference coordinates of an element to physical ones.
type Transform interface {
	Apply(ref []float64) []float64
}

// EvalContext carries everything one element evaluation needs.
type EvalContext struct {
	Elem      int                      // element number, selects dof map rows
	Points    [][]float64              // reference coordinates, one row per point
	Transform Transform                // element geometry; required by Coords only
	Args      map[string]*tensor.Array // bound argument values
}

// Eval evaluates f at the points of ec. The result has shape
// (len(ec.Points), f.Shape()...). Shared sub-expressions are evaluated once.
//
// Errors:
//   - ErrMissingArgument for an unbound Argument.
//   - ErrShapeMismatch for an argument value or point of the wrong shape.
//   - ErrBadDofs if ec.Elem has no dof map row in an Inflate.
func Eval(f Node, ec EvalContext) (*tensor.Array, error) {
	ev := evaluator{ec: ec, np: len(ec.Points), memo: make(map[Node]*tensor.Array)}

	return ev.eval(f)
}

type evaluator struct {
	ec   EvalContext
	np   int
	memo map[Node]*tensor.Array
}

func (ev *evaluator) eval(f Node) (*tensor.Array, error) {
	if out, ok := ev.memo[f]; ok {
		return out, nil
	}
	out, err := ev.evalNode(f)
	if err != nil {
		return nil, err
	}
	ev.memo[f] = out

	return out, nil
}

func (ev *evaluator) zeros(shape []int) *tensor.Array {
	return tensor.MustNew(append([]int{ev.np}, shape...)...)
}

func (ev *evaluator) evalNode(f Node) (*tensor.Array, error) {
	switch n := f.(type) {
	case *Argument:
		v, ok := ev.ec.Args[n.name]
		if !ok {
			return nil, functionErrorf("Eval "+n.name, ErrMissingArgument)
		}
		if !tensor.SameShape(v.Shape(), n.shape) {
			return nil, functionErrorf("Eval "+n.name, ErrShapeMismatch)
		}
		return ev.broadcast(v), nil

	case *Constant:
		return ev.broadcast(n.value), nil

	case *Zeros:
		return ev.zeros(n.shape), nil

	case *LocalCoords:
		return ev.coords(n.shape[0], func(p []float64) []float64 { return p })

	case *Coords:
		if ev.ec.Transform == nil {
			return nil, functionErrorf("Eval Coords", ErrMissingArgument)
		}
		return ev.coords(n.shape[0], ev.ec.Transform.Apply)

	case *InsertAxis:
		in, err := ev.eval(n.arg)
		if err != nil {
			return nil, err
		}
		out := ev.zeros(n.shape)
		gather(out, in, func(idx []int) []int {
			return append(append([]int(nil), idx[:n.axis+1]...), idx[n.axis+2:]...)
		})
		return out, nil

	case *Sum:
		in, err := ev.eval(n.arg)
		if err != nil {
			return nil, err
		}
		out := ev.zeros(n.shape)
		scatter(out, in, func(idx []int) []int {
			return append(append([]int(nil), idx[:n.axis+1]...), idx[n.axis+2:]...)
		})
		return out, nil

	case *Neg:
		return ev.unary(n.arg, func(v float64) float64 { return -v })

	case *Scale:
		return ev.unary(n.arg, func(v float64) float64 { return n.factor * v })

	case *Sin:
		return ev.unary(n.arg, math.Sin)

	case *Cos:
		return ev.unary(n.arg, math.Cos)

	case *Add:
		return ev.binary(n.a, n.b, func(x, y float64) float64 { return x + y })

	case *Mul:
		return ev.binary(n.a, n.b, func(x, y float64) float64 { return x * y })

	case *Inflate:
		if ev.ec.Elem < 0 || ev.ec.Elem >= len(n.dofs) {
			return nil, functionErrorf("Eval Inflate", ErrBadDofs)
		}
		in, err := ev.eval(n.arg)
		if err != nil {
			return nil, err
		}
		dofs := n.dofs[ev.ec.Elem]
		out := ev.zeros(n.shape)
		scatter(out, in, func(idx []int) []int {
			idx[n.axis+1] = dofs[idx[n.axis+1]]
			return idx
		})
		return out, nil

	case *Transpose:
		in, err := ev.eval(n.arg)
		if err != nil {
			return nil, err
		}
		out := ev.zeros(n.shape)
		src := make([]int, len(n.perm)+1)
		gather(out, in, func(idx []int) []int {
			src[0] = idx[0]
			for i, p := range n.perm {
				src[1+p] = idx[1+i]
			}
			return src
		})
		return out, nil
	}

	panic("function: unhandled node variant")
}

// broadcast repeats v along a new leading point axis.
func (ev *evaluator) broadcast(v *tensor.Array) *tensor.Array {
	out := ev.zeros(v.Shape())
	buf, src := out.Data(), v.Data()
	for p := 0; p < ev.np; p++ {
		copy(buf[p*len(src):(p+1)*len(src)], src)
	}

	return out
}

func (ev *evaluator) coords(ndims int, f func([]float64) []float64) (*tensor.Array, error) {
	out := ev.zeros([]int{ndims})
	buf := out.Data()
	for p, ref := range ev.ec.Points {
		x := f(ref)
		if len(x) != ndims {
			return nil, functionErrorf("Eval coords", ErrShapeMismatch)
		}
		copy(buf[p*ndims:(p+1)*ndims], x)
	}

	return out, nil
}

func (ev *evaluator) unary(arg Node, op func(float64) float64) (*tensor.Array, error) {
	in, err := ev.eval(arg)
	if err != nil {
		return nil, err
	}
	out := in.Clone()
	buf := out.Data()
	for i, v := range buf {
		buf[i] = op(v)
	}

	return out, nil
}

func (ev *evaluator) binary(a, b Node, op func(x, y float64) float64) (*tensor.Array, error) {
	x, err := ev.eval(a)
	if err != nil {
		return nil, err
	}
	y, err := ev.eval(b)
	if err != nil {
		return nil, err
	}
	out := x.Clone()
	buf, ys := out.Data(), y.Data()
	for i := range buf {
		buf[i] = op(buf[i], ys[i])
	}

	return out, nil
}

// gather fills every entry of out from in at src(outIndex).
func gather(out, in *tensor.Array, src func(idx []int) []int) {
	idx := make([]int, out.Rank())
	buf, ins := out.Data(), in.Data()
	for k := range buf {
		out.Unravel(k, idx)
		off, _ := in.Offset(src(idx)...)
		buf[k] = ins[off]
	}
}

// scatter accumulates every entry of in into out at dst(inIndex).
func scatter(out, in *tensor.Array, dst func(idx []int) []int) {
	idx := make([]int, in.Rank())
	buf, ins := out.Data(), in.Data()
	for k, v := range ins {
		in.Unravel(k, idx)
		off, _ := out.Offset(dst(idx)...)
		buf[off] += v
	}
}
