// SPDX-License-Identifier: MIT

package matrix

import (
	"fmt"
	"sort"
)

// CSR is a compressed-sparse-row matrix. Row i stores its entries in
// colIdx[rowPtr[i]:rowPtr[i+1]] (strictly increasing) with the matching
// values in data. Positions outside the pattern read as zero.
type CSR struct {
	r, c   int
	rowPtr []int
	colIdx []int
	data   []float64
}

// coo is one unreduced (row, col, value) triple.
type coo struct {
	row, col int
	v        float64
}

// newCSR builds a CSR matrix from triples, summing duplicates and dropping
// summed entries with |v| <= dropTol when dropTol >= 0.
//
// Implementation:
//   - Stage 1: sort triples by (row, col).
//   - Stage 2: sweep, summing equal positions and emitting row pointers.
//
// Complexity: O(n log n).
func newCSR(rows, cols int, ts []coo, dropTol float64) *CSR {
	sort.Slice(ts, func(a, b int) bool {
		if ts[a].row != ts[b].row {
			return ts[a].row < ts[b].row
		}
		return ts[a].col < ts[b].col
	})

	m := &CSR{r: rows, c: cols, rowPtr: make([]int, rows+1)}
	for k := 0; k < len(ts); {
		t := ts[k]
		sum := t.v
		for k++; k < len(ts) && ts[k].row == t.row && ts[k].col == t.col; k++ {
			sum += ts[k].v
		}
		if dropTol >= 0 && abs(sum) <= dropTol {
			continue
		}
		m.colIdx = append(m.colIdx, t.col)
		m.data = append(m.data, sum)
		m.rowPtr[t.row+1]++
	}
	for i := 0; i < rows; i++ {
		m.rowPtr[i+1] += m.rowPtr[i]
	}

	return m
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}

// Rows returns the number of rows in the matrix.
func (m *CSR) Rows() int { return m.r }

// Cols returns the number of columns in the matrix.
func (m *CSR) Cols() int { return m.c }

// NNZ returns the number of stored entries.
func (m *CSR) NNZ() int { return len(m.data) }

// find returns the storage position of (row, col) and whether it is stored.
func (m *CSR) find(method string, row, col int) (int, bool, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, false, fmt.Errorf("CSR.%s(%d,%d): %w", method, row, col, ErrOutOfRange)
	}
	lo, hi := m.rowPtr[row], m.rowPtr[row+1]
	k := lo + sort.SearchInts(m.colIdx[lo:hi], col)

	return k, k < hi && m.colIdx[k] == col, nil
}

// At retrieves the element at (row, col); unstored positions read as zero.
// Complexity: O(log nnz_row).
func (m *CSR) At(row, col int) (float64, error) {
	k, ok, err := m.find("At", row, col)
	if err != nil || !ok {
		return 0, err
	}

	return m.data[k], nil
}

// Set overwrites a stored entry. The pattern is fixed at construction:
// setting an unstored position returns ErrNotStored.
func (m *CSR) Set(row, col int, v float64) error {
	k, ok, err := m.find("Set", row, col)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("CSR.Set(%d,%d): %w", row, col, ErrNotStored)
	}
	m.data[k] = v

	return nil
}

// Clone returns a deep copy.
func (m *CSR) Clone() Matrix {
	return &CSR{
		r:      m.r,
		c:      m.c,
		rowPtr: append([]int(nil), m.rowPtr...),
		colIdx: append([]int(nil), m.colIdx...),
		data:   append([]float64(nil), m.data...),
	}
}

// Do calls f for every stored entry in row-major order until f returns false.
func (m *CSR) Do(f func(i, j int, v float64) bool) {
	for i := 0; i < m.r; i++ {
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			if !f(i, m.colIdx[k], m.data[k]) {
				return
			}
		}
	}
}
