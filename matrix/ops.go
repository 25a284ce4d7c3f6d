// SPDX-License-Identifier: MIT

package matrix

// ValidateNotNil ensures the matrix reference is non-nil.
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return matrixErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateVecLen ensures len(x) == n.
func ValidateVecLen(x []float64, n int) error {
	if len(x) != n {
		return matrixErrorf("ValidateVecLen", ErrDimensionMismatch)
	}

	return nil
}

// MatVec returns y = m·x. CSR matrices visit stored entries only.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity: O(nnz) for CSR, O(rows*cols) otherwise.
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, err
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, err
	}
	y := make([]float64, m.Rows())
	if c, ok := m.(*CSR); ok {
		c.Do(func(i, j int, v float64) bool {
			y[i] += v * x[j]
			return true
		})
		return y, nil
	}
	for i := range y {
		for j, xj := range x {
			v, err := m.At(i, j)
			if err != nil {
				return nil, err
			}
			y[i] += v * xj
		}
	}

	return y, nil
}

// ToDense copies any Matrix into a new Dense.
func ToDense(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, err
	}
	out, err := NewDense(m.Rows(), m.Cols())
	if err != nil {
		return nil, err
	}
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			v, err := m.At(i, j)
			if err != nil {
				return nil, err
			}
			out.data[i*out.c+j] = v
		}
	}

	return out, nil
}
