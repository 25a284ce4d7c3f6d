// SPDX-License-Identifier: MIT

package function

import (
	"math"

	"github.com/katalvlaran/quadsparse/sparse"
	"github.com/katalvlaran/quadsparse/tensor"
)

// Node is an integrand expression. The set of implementations is closed:
// only the variants declared in this package satisfy it.
type Node interface {
	// Shape returns the per-point shape (the point axis excluded).
	Shape() []int
	// Type returns the scalar type of the values.
	Type() sparse.ValueType

	sealed()
}

// base carries the shape and type shared by every variant.
type base struct {
	shape []int
	vtype sparse.ValueType
}

// Shape returns a copy of the per-point shape.
func (b base) Shape() []int { return append([]int(nil), b.shape...) }

// Type returns the declared value type.
func (b base) Type() sparse.ValueType { return b.vtype }

func (base) sealed() {}

func newBase(shape []int, vt sparse.ValueType) base {
	return base{shape: append([]int(nil), shape...), vtype: vt}
}

// ---------- leaves ----------

// Argument is a named free variable bound at evaluation time.
type Argument struct {
	base
	name string
}

// NewArgument declares a free variable.
func NewArgument(name string, shape []int, vt sparse.ValueType) *Argument {
	return &Argument{base: newBase(shape, vt), name: name}
}

// Name returns the argument's name.
func (a *Argument) Name() string { return a.name }

// Constant is a point-independent value.
type Constant struct {
	base
	value *tensor.Array
}

// NewConstant wraps a copy of v as a Float64 constant.
func NewConstant(v *tensor.Array) *Constant {
	return &Constant{base: newBase(v.Shape(), sparse.Float64), value: v.Clone()}
}

// Scalar returns a rank-0 constant.
func Scalar(v float64) *Constant { return NewConstant(tensor.Scalar(v)) }

// Value returns a copy of the constant's array.
func (c *Constant) Value() *tensor.Array { return c.value.Clone() }

// Zeros is an identically zero expression of a given shape.
type Zeros struct{ base }

// NewZeros returns the zero expression of shape.
func NewZeros(shape []int, vt sparse.ValueType) *Zeros { return &Zeros{newBase(shape, vt)} }

// LocalCoords evaluates to the reference coordinates of the points, shape (ndims,).
type LocalCoords struct{ base }

// NewLocalCoords returns the reference coordinates of an ndims-dimensional element.
func NewLocalCoords(ndims int) *LocalCoords {
	return &LocalCoords{newBase([]int{ndims}, sparse.Float64)}
}

// Coords evaluates to the physical coordinates of the points, shape (ndims,).
type Coords struct{ base }

// NewCoords returns the physical coordinates of an ndims-dimensional element.
func NewCoords(ndims int) *Coords {
	return &Coords{newBase([]int{ndims}, sparse.Float64)}
}

// ---------- pointwise algebra ----------

// InsertAxis repeats its argument length times along a new axis.
type InsertAxis struct {
	base
	arg    Node
	axis   int
	length int
}

// NewInsertAxis inserts a new axis of the given length at position axis.
func NewInsertAxis(arg Node, axis, length int) *InsertAxis {
	s := arg.Shape()
	if axis < 0 || axis > len(s) || length < 0 {
		mustf("InsertAxis", ErrBadAxis)
	}
	shape := append(append(append([]int(nil), s[:axis]...), length), s[axis:]...)

	return &InsertAxis{base: newBase(shape, arg.Type()), arg: arg, axis: axis, length: length}
}

// Sum contracts one axis by summation.
type Sum struct {
	base
	arg  Node
	axis int
}

// NewSum sums arg over axis.
func NewSum(arg Node, axis int) *Sum {
	s := arg.Shape()
	if axis < 0 || axis >= len(s) {
		mustf("Sum", ErrBadAxis)
	}
	shape := append(append([]int(nil), s[:axis]...), s[axis+1:]...)

	return &Sum{base: newBase(shape, arg.Type()), arg: arg, axis: axis}
}

// Neg is the elementwise negation.
type Neg struct {
	base
	arg Node
}

// NewNeg negates arg.
func NewNeg(arg Node) *Neg { return &Neg{base: newBase(arg.Shape(), arg.Type()), arg: arg} }

// Scale multiplies every entry by a fixed scalar factor.
type Scale struct {
	base
	arg    Node
	factor float64
}

// NewScale multiplies arg by factor. A non-integral factor promotes
// integer expressions to Float64.
func NewScale(arg Node, factor float64) *Scale {
	vt := arg.Type()
	if factor != math.Trunc(factor) {
		vt = sparse.Promote(vt, sparse.Float64)
	}

	return &Scale{base: newBase(arg.Shape(), vt), arg: arg, factor: factor}
}

// Add is the elementwise sum of two same-shaped expressions.
type Add struct {
	base
	a, b Node
}

// NewAdd adds two expressions of identical shape.
func NewAdd(a, b Node) *Add {
	if !tensor.SameShape(a.Shape(), b.Shape()) {
		mustf("Add", ErrShapeMismatch)
	}

	return &Add{base: newBase(a.Shape(), sparse.Promote(a.Type(), b.Type())), a: a, b: b}
}

// Mul is the elementwise product of two same-shaped expressions.
type Mul struct {
	base
	a, b Node
}

// NewMul multiplies two expressions of identical shape.
func NewMul(a, b Node) *Mul {
	if !tensor.SameShape(a.Shape(), b.Shape()) {
		mustf("Mul", ErrShapeMismatch)
	}

	return &Mul{base: newBase(a.Shape(), sparse.Promote(a.Type(), b.Type())), a: a, b: b}
}

// Sin is the elementwise sine.
type Sin struct {
	base
	arg Node
}

// NewSin returns sin(arg).
func NewSin(arg Node) *Sin { return &Sin{base: newBase(arg.Shape(), sparse.Float64), arg: arg} }

// Cos is the elementwise cosine.
type Cos struct {
	base
	arg Node
}

// NewCos returns cos(arg).
func NewCos(arg Node) *Cos { return &Cos{base: newBase(arg.Shape(), sparse.Float64), arg: arg} }

// ---------- structure ----------

// Inflate scatters a local axis into a global axis of the given length
// through a per-element dof map: local entry l of element e lands at
// global position dofs[e][l]. It is what makes assembled data sparse.
type Inflate struct {
	base
	arg    Node
	dofs   [][]int
	length int
	axis   int
}

// NewInflate inflates axis of arg to length through dofs.
// Every dofs row must have arg.Shape()[axis] entries in [0, length).
func NewInflate(arg Node, dofs [][]int, length, axis int) *Inflate {
	s := arg.Shape()
	if axis < 0 || axis >= len(s) {
		mustf("Inflate", ErrBadAxis)
	}
	for _, row := range dofs {
		if len(row) != s[axis] {
			mustf("Inflate", ErrBadDofs)
		}
		for _, i := range row {
			if i < 0 || i >= length {
				mustf("Inflate", ErrBadDofs)
			}
		}
	}
	shape := append([]int(nil), s...)
	shape[axis] = length

	return &Inflate{base: newBase(shape, arg.Type()), arg: arg, dofs: dofs, length: length, axis: axis}
}

// Transpose permutes axes: result axis i is argument axis perm[i].
type Transpose struct {
	base
	arg  Node
	perm []int
}

// NewTranspose permutes the axes of arg.
func NewTranspose(arg Node, perm ...int) *Transpose {
	s := arg.Shape()
	if len(perm) != len(s) {
		mustf("Transpose", ErrBadAxis)
	}
	seen := make([]bool, len(s))
	shape := make([]int, len(s))
	for i, p := range perm {
		if p < 0 || p >= len(s) || seen[p] {
			mustf("Transpose", ErrBadAxis)
		}
		seen[p] = true
		shape[i] = s[p]
	}

	return &Transpose{base: newBase(shape, arg.Type()), arg: arg, perm: append([]int(nil), perm...)}
}

// Reverse reverses the axis order of arg (the matrix transpose for rank 2).
func Reverse(arg Node) Node {
	n := len(arg.Shape())
	perm := make([]int, n)
	for i := range perm {
		perm[i] = n - 1 - i
	}

	return NewTranspose(arg, perm...)
}

// AppendAxes inserts trailing axes of the given lengths, repeating arg.
func AppendAxes(arg Node, lengths []int) Node {
	for _, n := range lengths {
		arg = NewInsertAxis(arg, len(arg.Shape()), n)
	}

	return arg
}

// Dot contracts a and b over their shared last axis: Σ_i a[..., i] * b[..., i].
func Dot(a, b Node) Node {
	s := a.Shape()

	return NewSum(NewMul(a, b), len(s)-1)
}

// Compile-time assertions: every variant is a Node.
var (
	_ Node = (*Argument)(nil)
	_ Node = (*Constant)(nil)
	_ Node = (*Zeros)(nil)
	_ Node = (*LocalCoords)(nil)
	_ Node = (*Coords)(nil)
	_ Node = (*InsertAxis)(nil)
	_ Node = (*Sum)(nil)
	_ Node = (*Neg)(nil)
	_ Node = (*Scale)(nil)
	_ Node = (*Add)(nil)
	_ Node = (*Mul)(nil)
	_ Node = (*Sin)(nil)
	_ Node = (*Cos)(nil)
	_ Node = (*Inflate)(nil)
	_ Node = (*Transpose)(nil)
)
