// SPDX-License-Identifier: MIT

package integral

import (
	"github.com/google/uuid"

	"github.com/katalvlaran/quadsparse/assemble"
	"github.com/katalvlaran/quadsparse/function"
	"github.com/katalvlaran/quadsparse/tensor"
)

// Term binds one integrand to the sample it is integrated over.
type Term struct {
	Sample assemble.Sample
	Func   function.Node
}

// Integral is a postponed sum of integrals over samples. At most one term
// is kept per sample; terms added for the same sample are summed. An
// Integral is immutable: every operation returns a new value.
type Integral struct {
	shape []int
	order []uuid.UUID // first-seen sample order
	terms map[uuid.UUID]Term
}

// New builds an integral of the given shape from terms. Terms over the
// same sample are summed and zero integrands are dropped.
//
// Errors: ErrShapeMismatch if an integrand's shape differs from shape.
func New(shape []int, terms ...Term) (*Integral, error) {
	out := empty(shape)
	for _, t := range terms {
		if !tensor.SameShape(shape, t.Func.Shape()) {
			return nil, integralErrorf("New", ErrShapeMismatch)
		}
		out.add(t)
	}

	return out, nil
}

// FromSample returns the integral of f over s.
func FromSample(s assemble.Sample, f function.Node) *Integral {
	out := empty(f.Shape())
	out.add(Term{Sample: s, Func: f})

	return out
}

// Zero returns the integral with no terms.
func Zero(shape ...int) *Integral { return empty(shape) }

func empty(shape []int) *Integral {
	return &Integral{shape: append([]int(nil), shape...), terms: make(map[uuid.UUID]Term)}
}

// add folds t into i; i must not be shared yet. Integrands are kept
// simplified so structurally equal sums compare equal.
func (i *Integral) add(t Term) {
	id := t.Sample.ID()
	prev, ok := i.terms[id]
	if ok {
		t.Func = function.NewAdd(prev.Func, t.Func)
	}
	t.Func = function.Simplify(t.Func)
	switch {
	case function.IsZero(t.Func):
		if ok {
			delete(i.terms, id)
			i.order = removeID(i.order, id)
		}
	case ok:
		i.terms[id] = t
	default:
		i.terms[id] = t
		i.order = append(i.order, id)
	}
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}

	return out
}

// Shape returns a copy of the integral's shape.
func (i *Integral) Shape() []int { return append([]int(nil), i.shape...) }

// Rank is len(Shape()).
func (i *Integral) Rank() int { return len(i.shape) }

// Terms returns the terms in first-seen sample order.
func (i *Integral) Terms() []Term {
	out := make([]Term, 0, len(i.order))
	for _, id := range i.order {
		out = append(out, i.terms[id])
	}

	return out
}

// Samples returns the samples integrated over, in first-seen order.
func (i *Integral) Samples() []assemble.Sample {
	out := make([]assemble.Sample, 0, len(i.order))
	for _, id := range i.order {
		out = append(out, i.terms[id].Sample)
	}

	return out
}

// mapTerms rebuilds i by applying fn to every integrand.
func (i *Integral) mapTerms(shape []int, fn func(function.Node) (function.Node, error)) (*Integral, error) {
	out := empty(shape)
	for _, t := range i.Terms() {
		f, err := fn(t.Func)
		if err != nil {
			return nil, err
		}
		out.add(Term{Sample: t.Sample, Func: f})
	}

	return out, nil
}

// Add returns i + o.
//
// Errors: ErrShapeMismatch.
func (i *Integral) Add(o *Integral) (*Integral, error) {
	if !tensor.SameShape(i.shape, o.shape) {
		return nil, integralErrorf("Add", ErrShapeMismatch)
	}
	out := empty(i.shape)
	for _, t := range i.Terms() {
		out.add(t)
	}
	for _, t := range o.Terms() {
		out.add(t)
	}

	return out, nil
}

// Neg returns -i.
func (i *Integral) Neg() *Integral {
	out, _ := i.mapTerms(i.shape, func(f function.Node) (function.Node, error) {
		return function.NewNeg(f), nil
	})

	return out
}

// Sub returns i - o.
//
// Errors: ErrShapeMismatch.
func (i *Integral) Sub(o *Integral) (*Integral, error) {
	if !tensor.SameShape(i.shape, o.shape) {
		return nil, integralErrorf("Sub", ErrShapeMismatch)
	}

	return i.Add(o.Neg())
}

// Scale returns c * i. A zero factor yields an integral with no terms.
func (i *Integral) Scale(c float64) *Integral {
	out, _ := i.mapTerms(i.shape, func(f function.Node) (function.Node, error) {
		return function.NewScale(f, c), nil
	})

	return out
}

// Div returns i / c. Division by zero follows IEEE-754.
func (i *Integral) Div(c float64) *Integral { return i.Scale(1 / c) }

// Transpose reverses the axes of every integrand; a rank-2 integral
// becomes its matrix transpose.
func (i *Integral) Transpose() *Integral {
	shape := make([]int, len(i.shape))
	for k, n := range i.shape {
		shape[len(shape)-1-k] = n
	}
	out, _ := i.mapTerms(shape, func(f function.Node) (function.Node, error) {
		return function.Reverse(f), nil
	})

	return out
}

// Contains reports whether any integrand depends on the named argument.
func (i *Integral) Contains(name string) bool {
	for _, t := range i.terms {
		if function.Contains(t.Func, name) {
			return true
		}
	}

	return false
}

// ArgShape returns the shape of the named argument as seen by the first
// term that uses it.
//
// Errors: ErrUnknownTarget if no term uses it.
func (i *Integral) ArgShape(name string) ([]int, error) {
	for _, t := range i.Terms() {
		if shape, err := function.ArgShape(t.Func, name); err == nil {
			return shape, nil
		}
	}

	return nil, integralErrorf("ArgShape", ErrUnknownTarget)
}

// Derivative differentiates every integrand with respect to the named
// argument. The result has shape Shape() followed by the argument's shape;
// terms independent of the argument vanish.
//
// Errors: ErrUnknownTarget if no term uses the argument.
func (i *Integral) Derivative(target string) (*Integral, error) {
	tshape, err := i.ArgShape(target)
	if err != nil {
		return nil, integralErrorf("Derivative", ErrUnknownTarget)
	}
	shape := append(i.Shape(), tshape...)
	out, err := i.mapTerms(shape, func(f function.Node) (function.Node, error) {
		return function.Derivative(f, target, tshape)
	})
	if err != nil {
		return nil, integralErrorf("Derivative", err)
	}

	return out, nil
}

// Substitute replaces bound arguments by constants in every integrand.
func (i *Integral) Substitute(bindings map[string]*tensor.Array) (*Integral, error) {
	out, err := i.mapTerms(i.shape, func(f function.Node) (function.Node, error) {
		return function.Substitute(f, bindings)
	})
	if err != nil {
		return nil, integralErrorf("Substitute", err)
	}

	return out, nil
}

// Equal reports whether i and o have the same shape and integrate
// structurally identical integrands over the same samples.
func (i *Integral) Equal(o *Integral) bool {
	if !tensor.SameShape(i.shape, o.shape) || len(i.terms) != len(o.terms) {
		return false
	}
	for id, t := range i.terms {
		u, ok := o.terms[id]
		if !ok || function.Key(t.Func) != function.Key(u.Func) {
			return false
		}
	}

	return true
}
