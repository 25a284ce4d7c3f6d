// SPDX-License-Identifier: MIT

package tensor

import (
	"fmt"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxNew   = "New"
	ctxFrom  = "FromSlice"
	ctxAt    = "At"
	ctxSet   = "Set"
	ctxAddAt = "AddAt"
)

// Array is a dense row-major tensor of float64 values.
//   - shape holds per-axis extents (len(shape) == rank, may be 0).
//   - strides are derived from shape once, at construction.
//   - data is the flat buffer; len(data) == product(shape).
type Array struct {
	shape   []int
	strides []int
	data    []float64
}

// Compile-time assertion for fmt.Stringer conformance.
var _ fmt.Stringer = (*Array)(nil)

// New returns a zero-initialized Array of the given shape.
// A zero-length shape yields a rank-0 scalar holding a single 0.
//
// Errors:
//   - ErrBadShape if any extent is negative.
//
// Complexity: O(size).
func New(shape ...int) (*Array, error) {
	n, err := sizeOf(shape)
	if err != nil {
		return nil, tensorErrorf(ctxNew, err)
	}

	return &Array{
		shape:   append([]int(nil), shape...),
		strides: stridesOf(shape),
		data:    make([]float64, n),
	}, nil
}

// MustNew is New for statically known shapes; it panics on a bad shape.
func MustNew(shape ...int) *Array {
	a, err := New(shape...)
	if err != nil {
		panic(err)
	}

	return a
}

// FromSlice wraps data (without copying) as an Array of the given shape.
//
// Errors:
//   - ErrBadShape for negative extents.
//   - ErrDataLength if len(data) != product(shape).
func FromSlice(shape []int, data []float64) (*Array, error) {
	n, err := sizeOf(shape)
	if err != nil {
		return nil, tensorErrorf(ctxFrom, err)
	}
	if len(data) != n {
		return nil, tensorErrorf(ctxFrom, ErrDataLength)
	}

	return &Array{
		shape:   append([]int(nil), shape...),
		strides: stridesOf(shape),
		data:    data,
	}, nil
}

// Scalar returns a rank-0 array holding v.
func Scalar(v float64) *Array {
	return &Array{shape: []int{}, strides: []int{}, data: []float64{v}}
}

// Shape returns a copy of the per-axis extents.
func (a *Array) Shape() []int { return append([]int(nil), a.shape...) }

// Rank returns the number of axes.
func (a *Array) Rank() int { return len(a.shape) }

// Size returns the number of stored values.
func (a *Array) Size() int { return len(a.data) }

// Data exposes the live row-major buffer. Mutations are visible in a.
func (a *Array) Data() []float64 { return a.data }

// Offset computes the flat row-major offset of idx.
//
// Errors:
//   - ErrOutOfRange if len(idx) != rank or any index is outside [0, extent).
//
// Complexity: O(rank).
func (a *Array) Offset(idx ...int) (int, error) {
	if len(idx) != len(a.shape) {
		return 0, ErrOutOfRange
	}
	off := 0
	for ax, i := range idx {
		if i < 0 || i >= a.shape[ax] {
			return 0, ErrOutOfRange
		}
		off += i * a.strides[ax]
	}

	return off, nil
}

// Unravel writes the multi-index of the flat offset into out (len(out) == rank).
// It is the inverse of Offset for in-range offsets.
func (a *Array) Unravel(flat int, out []int) {
	for ax := range a.shape {
		if a.strides[ax] == 0 {
			out[ax] = 0
			continue
		}
		out[ax] = flat / a.strides[ax]
		flat -= out[ax] * a.strides[ax]
	}
}

// At returns the value at idx.
func (a *Array) At(idx ...int) (float64, error) {
	off, err := a.Offset(idx...)
	if err != nil {
		return 0, tensorErrorf(ctxAt, err)
	}

	return a.data[off], nil
}

// Set assigns v at idx.
func (a *Array) Set(v float64, idx ...int) error {
	off, err := a.Offset(idx...)
	if err != nil {
		return tensorErrorf(ctxSet, err)
	}
	a.data[off] = v

	return nil
}

// AddAt accumulates v into the value at idx.
func (a *Array) AddAt(v float64, idx ...int) error {
	off, err := a.Offset(idx...)
	if err != nil {
		return tensorErrorf(ctxAddAt, err)
	}
	a.data[off] += v

	return nil
}

// Clone returns a deep copy of a.
// Complexity: O(size).
func (a *Array) Clone() *Array {
	return &Array{
		shape:   append([]int(nil), a.shape...),
		strides: append([]int(nil), a.strides...),
		data:    append([]float64(nil), a.data...),
	}
}

// Equal reports whether a and b have identical shapes and values.
func (a *Array) Equal(b *Array) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !SameShape(a.shape, b.shape) {
		return false
	}
	for i, v := range a.data {
		if v != b.data[i] {
			return false
		}
	}

	return true
}

// String renders a compact nested representation, e.g. "[[1, 2], [3, 4]]".
func (a *Array) String() string {
	var sb strings.Builder
	a.format(&sb, 0, 0)

	return sb.String()
}

func (a *Array) format(sb *strings.Builder, axis, off int) {
	if axis == len(a.shape) {
		fmt.Fprintf(sb, "%g", a.data[off])
		return
	}
	sb.WriteString("[")
	for i := 0; i < a.shape[axis]; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		a.format(sb, axis+1, off+i*a.strides[axis])
	}
	sb.WriteString("]")
}

// SameShape reports whether two shapes are identical.
func SameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// SizeOf returns product(shape), or ErrBadShape on a negative extent.
func SizeOf(shape []int) (int, error) { return sizeOf(shape) }

func sizeOf(shape []int) (int, error) {
	n := 1
	for _, s := range shape {
		if s < 0 {
			return 0, ErrBadShape
		}
		n *= s
	}

	return n, nil
}

// stridesOf computes row-major strides; the last axis has stride 1.
func stridesOf(shape []int) []int {
	st := make([]int, len(shape))
	acc := 1
	for ax := len(shape) - 1; ax >= 0; ax-- {
		st[ax] = acc
		acc *= shape[ax]
	}

	return st
}
