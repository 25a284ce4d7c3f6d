// SPDX-License-Identifier: MIT

package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Gonum adapts a *mat.Dense to Matrix. gonum cannot represent a matrix
// with a zero dimension, so such a Gonum carries no *mat.Dense.
type Gonum struct {
	r, c int
	m    *mat.Dense
}

// NewGonum returns a zero rows×cols matrix backed by gonum.
func NewGonum(rows, cols int) (*Gonum, error) {
	if rows < 0 || cols < 0 {
		return nil, matrixErrorf("NewGonum", ErrBadShape)
	}
	g := &Gonum{r: rows, c: cols}
	if rows > 0 && cols > 0 {
		g.m = mat.NewDense(rows, cols, nil)
	}

	return g, nil
}

// Rows returns the number of rows in the matrix.
func (g *Gonum) Rows() int { return g.r }

// Cols returns the number of columns in the matrix.
func (g *Gonum) Cols() int { return g.c }

func (g *Gonum) check(method string, row, col int) error {
	if row < 0 || row >= g.r || col < 0 || col >= g.c {
		return fmt.Errorf("Gonum.%s(%d,%d): %w", method, row, col, ErrOutOfRange)
	}

	return nil
}

// At retrieves the element at (row, col).
func (g *Gonum) At(row, col int) (float64, error) {
	if err := g.check("At", row, col); err != nil {
		return 0, err
	}

	return g.m.At(row, col), nil
}

// Set assigns value v at (row, col).
func (g *Gonum) Set(row, col int, v float64) error {
	if err := g.check("Set", row, col); err != nil {
		return err
	}
	g.m.Set(row, col, v)

	return nil
}

// Clone returns a deep copy.
func (g *Gonum) Clone() Matrix {
	out := &Gonum{r: g.r, c: g.c}
	if g.m != nil {
		out.m = mat.DenseCopyOf(g.m)
	}

	return out
}

// Raw returns the underlying *mat.Dense, or nil for an empty matrix.
func (g *Gonum) Raw() *mat.Dense { return g.m }
