// SPDX-License-Identifier: MIT

package sample

import (
	"github.com/google/uuid"
)

// Affine maps reference coordinates r to Offset + Linear·r.
type Affine struct {
	Offset []float64
	Linear [][]float64 // len(Offset) rows, one column per reference dimension
}

// Apply returns the physical coordinates of ref.
func (a Affine) Apply(ref []float64) []float64 {
	out := append([]float64(nil), a.Offset...)
	for i, row := range a.Linear {
		for j, v := range row {
			out[i] += v * ref[j]
		}
	}

	return out
}

// Element is the quadrature data of one element.
type Element struct {
	Coords    [][]float64 // reference coordinates, one row per point
	Weights   []float64   // physical weights (Jacobian included)
	Transform Affine
}

// NumPoints returns the number of points in the element.
func (e Element) NumPoints() int { return len(e.Coords) }

// Sample is an immutable set of elements with a global point numbering.
type Sample struct {
	id      uuid.UUID
	ndims   int
	elems   []Element
	index   [][]int
	npoints int
}

// New builds a sample with the default numbering: element e owns the
// global points [offset_e, offset_e + npoints_e).
//
// Errors:
//   - ErrMismatch if elements disagree on dimension or carry a weight
//     count different from their point count.
func New(ndims int, elems []Element) (*Sample, error) {
	if err := validate(ndims, elems); err != nil {
		return nil, sampleErrorf("New", err)
	}
	index := make([][]int, len(elems))
	next := 0
	for e, el := range elems {
		row := make([]int, el.NumPoints())
		for i := range row {
			row[i] = next
			next++
		}
		index[e] = row
	}

	return &Sample{id: uuid.New(), ndims: ndims, elems: elems, index: index, npoints: next}, nil
}

// NewIndexed builds a sample with a custom numbering: point p of element e
// has global number index[e][p]. Several points may share a number, which
// makes non-integrating evaluation accumulate them.
//
// Errors:
//   - ErrMismatch as for New.
//   - ErrBadIndex if index has the wrong length per element or a negative entry.
func NewIndexed(ndims int, elems []Element, index [][]int) (*Sample, error) {
	if err := validate(ndims, elems); err != nil {
		return nil, sampleErrorf("NewIndexed", err)
	}
	if len(index) != len(elems) {
		return nil, sampleErrorf("NewIndexed", ErrBadIndex)
	}
	npoints := 0
	rows := make([][]int, len(index))
	for e, row := range index {
		if len(row) != elems[e].NumPoints() {
			return nil, sampleErrorf("NewIndexed", ErrBadIndex)
		}
		for _, i := range row {
			if i < 0 {
				return nil, sampleErrorf("NewIndexed", ErrBadIndex)
			}
			if i+1 > npoints {
				npoints = i + 1
			}
		}
		rows[e] = append([]int(nil), row...)
	}

	return &Sample{id: uuid.New(), ndims: ndims, elems: elems, index: rows, npoints: npoints}, nil
}

func validate(ndims int, elems []Element) error {
	for _, el := range elems {
		if len(el.Weights) != len(el.Coords) {
			return ErrMismatch
		}
		for _, c := range el.Coords {
			if len(c) != ndims {
				return ErrMismatch
			}
		}
		for _, row := range el.Transform.Linear {
			if len(row) != ndims || len(el.Transform.Linear) != len(el.Transform.Offset) {
				return ErrMismatch
			}
		}
	}

	return nil
}

// ID returns the identity of s. Samples built separately never share an ID.
func (s *Sample) ID() uuid.UUID { return s.id }

// NDims returns the reference dimension of the elements.
func (s *Sample) NDims() int { return s.ndims }

// NumElements returns the element count.
func (s *Sample) NumElements() int { return len(s.elems) }

// NumPoints returns the size of the global point numbering.
func (s *Sample) NumPoints() int { return s.npoints }

// Element returns the quadrature data of element e.
func (s *Sample) Element(e int) (Element, error) {
	if e < 0 || e >= len(s.elems) {
		return Element{}, sampleErrorf("Element", ErrOutOfRange)
	}

	return s.elems[e], nil
}

// PointIndex returns the global numbers of the points of element e.
func (s *Sample) PointIndex(e int) ([]int, error) {
	if e < 0 || e >= len(s.index) {
		return nil, sampleErrorf("PointIndex", ErrOutOfRange)
	}

	return s.index[e], nil
}

// AllCoords returns the physical coordinates of every global point, row i
// holding point i. Points shared between elements are written once per
// owner with the same value; numbers no element uses stay nil. An element
// without a transform contributes its reference coordinates.
func (s *Sample) AllCoords() [][]float64 {
	out := make([][]float64, s.npoints)
	for e, el := range s.elems {
		for p, ref := range el.Coords {
			if len(el.Transform.Offset) == 0 {
				out[s.index[e][p]] = append([]float64(nil), ref...)
				continue
			}
			out[s.index[e][p]] = el.Transform.Apply(ref)
		}
	}

	return out
}

// Subset keeps the elements owning at least one point selected by mask
// (indexed by global point number) and renumbers them with the default
// numbering. Element order is preserved.
//
// Errors:
//   - ErrBadIndex if len(mask) != s.NumPoints().
func (s *Sample) Subset(mask []bool) (*Sample, error) {
	if len(mask) != s.npoints {
		return nil, sampleErrorf("Subset", ErrBadIndex)
	}
	var kept []Element
	for e, row := range s.index {
		for _, i := range row {
			if mask[i] {
				kept = append(kept, s.elems[e])
				break
			}
		}
	}

	return New(s.ndims, kept)
}
