// SPDX-License-Identifier: MIT

package matrix

import (
	"math"
	"strings"
)

// Backend turns rank-2 coordinate records into a Matrix. indices holds the
// row and column columns, aligned with values; duplicate positions sum.
type Backend interface {
	FromSparse(indices [][]uint64, values []float64, rows, cols int) (Matrix, error)
}

// Backend names accepted by ParseBackend.
const (
	BackendDense = "dense"
	BackendCSR   = "csr"
	BackendGonum = "gonum"
)

// DenseBackend builds *Dense matrices.
type DenseBackend struct{ opts Options }

// CSRBackend builds *CSR matrices.
type CSRBackend struct{ opts Options }

// GonumBackend builds *Gonum matrices.
type GonumBackend struct{ opts Options }

// NewDenseBackend returns a DenseBackend configured by opts.
func NewDenseBackend(opts ...Option) DenseBackend { return DenseBackend{gatherOptions(opts)} }

// NewCSRBackend returns a CSRBackend configured by opts.
func NewCSRBackend(opts ...Option) CSRBackend { return CSRBackend{gatherOptions(opts)} }

// NewGonumBackend returns a GonumBackend configured by opts.
func NewGonumBackend(opts ...Option) GonumBackend { return GonumBackend{gatherOptions(opts)} }

// ParseBackend returns the backend called name (case-insensitive).
func ParseBackend(name string, opts ...Option) (Backend, error) {
	switch strings.ToLower(name) {
	case BackendDense:
		return NewDenseBackend(opts...), nil
	case BackendCSR:
		return NewCSRBackend(opts...), nil
	case BackendGonum:
		return NewGonumBackend(opts...), nil
	}

	return nil, matrixErrorf("ParseBackend "+name, ErrUnknownBackend)
}

// FromSparse implements Backend.
// Complexity: O(rows*cols + n).
func (b DenseBackend) FromSparse(indices [][]uint64, values []float64, rows, cols int) (Matrix, error) {
	ts, err := triples("DenseBackend", indices, values, rows, cols, b.opts)
	if err != nil {
		return nil, err
	}
	m, err := NewDense(rows, cols)
	if err != nil {
		return nil, err
	}
	for _, t := range ts {
		m.add(t.row, t.col, t.v)
	}

	return m, nil
}

// FromSparse implements Backend.
// Complexity: O(n log n + rows).
func (b CSRBackend) FromSparse(indices [][]uint64, values []float64, rows, cols int) (Matrix, error) {
	ts, err := triples("CSRBackend", indices, values, rows, cols, b.opts)
	if err != nil {
		return nil, err
	}

	return newCSR(rows, cols, ts, b.opts.dropTol), nil
}

// FromSparse implements Backend.
// Complexity: O(rows*cols + n).
func (b GonumBackend) FromSparse(indices [][]uint64, values []float64, rows, cols int) (Matrix, error) {
	ts, err := triples("GonumBackend", indices, values, rows, cols, b.opts)
	if err != nil {
		return nil, err
	}
	g, err := NewGonum(rows, cols)
	if err != nil {
		return nil, err
	}
	for _, t := range ts {
		g.m.Set(t.row, t.col, g.m.At(t.row, t.col)+t.v)
	}

	return g, nil
}

// triples validates coordinate columns and converts them to triples.
//
// Errors:
//   - ErrBadShape for negative extents.
//   - ErrDimensionMismatch unless there are two index columns as long as values.
//   - ErrOutOfRange for an index beyond its extent.
//   - ErrNaNInf for a non-finite value under the validating policy.
func triples(tag string, indices [][]uint64, values []float64, rows, cols int, o Options) ([]coo, error) {
	if rows < 0 || cols < 0 {
		return nil, matrixErrorf(tag, ErrBadShape)
	}
	if len(indices) != 2 || len(indices[0]) != len(values) || len(indices[1]) != len(values) {
		return nil, matrixErrorf(tag, ErrDimensionMismatch)
	}
	ts := make([]coo, len(values))
	for k, v := range values {
		i, j := indices[0][k], indices[1][k]
		if i >= uint64(rows) || j >= uint64(cols) {
			return nil, matrixErrorf(tag, ErrOutOfRange)
		}
		if o.validateNaNInf && (math.IsNaN(v) || math.IsInf(v, 0)) {
			return nil, matrixErrorf(tag, ErrNaNInf)
		}
		ts[k] = coo{row: int(i), col: int(j), v: v}
	}

	return ts, nil
}

var (
	_ Backend = DenseBackend{}
	_ Backend = CSRBackend{}
	_ Backend = GonumBackend{}
)
