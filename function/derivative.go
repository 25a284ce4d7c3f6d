// SPDX-License-Identifier: MIT

package function

import (
	"github.com/katalvlaran/quadsparse/tensor"
)

// Derivative returns the derivative of f with respect to the argument called
// target, whose shape is tshape. The result has shape f.Shape() ++ tshape:
// entry (i..., j...) is d f[i...] / d target[j...]. A target that does not
// occur in f gives zeros. The result is simplified.
//
// Errors:
//   - ErrShapeMismatch if target occurs in f with a shape other than tshape.
func Derivative(f Node, target string, tshape []int) (Node, error) {
	d := &deriver{target: target, tshape: tshape, memo: make(map[Node]Node)}
	out, err := d.of(f)
	if err != nil {
		return nil, err
	}

	return Simplify(out), nil
}

type deriver struct {
	target string
	tshape []int
	memo   map[Node]Node
}

func (d *deriver) of(f Node) (Node, error) {
	if out, ok := d.memo[f]; ok {
		return out, nil
	}
	out, err := d.derive(f)
	if err != nil {
		return nil, err
	}
	d.memo[f] = out

	return out, nil
}

func (d *deriver) zeros(f Node) Node {
	return NewZeros(append(f.Shape(), d.tshape...), f.Type())
}

// broadcast repeats f over trailing target axes so it lines up with a derivative.
func (d *deriver) broadcast(f Node) Node { return AppendAxes(f, d.tshape) }

func (d *deriver) derive(f Node) (Node, error) {
	switch n := f.(type) {
	case *Argument:
		if n.name != d.target {
			return d.zeros(f), nil
		}
		if !tensor.SameShape(n.shape, d.tshape) {
			return nil, functionErrorf("Derivative "+d.target, ErrShapeMismatch)
		}
		return NewConstant(identityTensor(d.tshape)), nil

	case *Constant, *Zeros, *LocalCoords, *Coords:
		return d.zeros(f), nil
	}

	kids := children(f)
	dk := make([]Node, len(kids))
	for i, k := range kids {
		v, err := d.of(k)
		if err != nil {
			return nil, err
		}
		dk[i] = v
	}

	switch n := f.(type) {
	case *InsertAxis:
		return NewInsertAxis(dk[0], n.axis, n.length), nil
	case *Sum:
		return NewSum(dk[0], n.axis), nil
	case *Neg:
		return NewNeg(dk[0]), nil
	case *Scale:
		return NewScale(dk[0], n.factor), nil
	case *Add:
		return NewAdd(dk[0], dk[1]), nil
	case *Mul:
		return NewAdd(NewMul(dk[0], d.broadcast(n.b)), NewMul(d.broadcast(n.a), dk[1])), nil
	case *Sin:
		return NewMul(d.broadcast(NewCos(n.arg)), dk[0]), nil
	case *Cos:
		return NewNeg(NewMul(d.broadcast(NewSin(n.arg)), dk[0])), nil
	case *Inflate:
		return NewInflate(dk[0], n.dofs, n.length, n.axis), nil
	case *Transpose:
		perm := append([]int(nil), n.perm...)
		for i := range d.tshape {
			perm = append(perm, len(n.perm)+i)
		}
		return NewTranspose(dk[0], perm...), nil
	}

	panic("function: unhandled node variant")
}

// identityTensor returns the array of shape (s..., s...) with ones where
// the two index halves agree.
func identityTensor(s []int) *tensor.Array {
	n, _ := tensor.SizeOf(s)
	out := tensor.MustNew(append(append([]int(nil), s...), s...)...)
	data := out.Data()
	for i := 0; i < n; i++ {
		data[i*n+i] = 1
	}

	return out
}
