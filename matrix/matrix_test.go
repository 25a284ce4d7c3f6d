// Package matrix_test contains unit tests for the Matrix implementations
// and the sparse backends of the matrix package.
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/quadsparse/matrix"
	"github.com/stretchr/testify/require"
)

// coo is the shared fixture: a 3x4 matrix given with duplicates and a
// pair that cancels at (2,0).
func coo() ([][]uint64, []float64) {
	rows := []uint64{0, 2, 1, 0, 2, 1, 2}
	cols := []uint64{1, 3, 2, 1, 0, 0, 0}
	vals := []float64{1, 5, 2, 3, 4, 6, -4}
	return [][]uint64{rows, cols}, vals
}

// want is the dense form of the fixture.
var want = [][]float64{
	{0, 4, 0, 0},
	{6, 0, 2, 0},
	{0, 0, 0, 5},
}

func backends() map[string]matrix.Backend {
	return map[string]matrix.Backend{
		"dense": matrix.NewDenseBackend(),
		"csr":   matrix.NewCSRBackend(),
		"gonum": matrix.NewGonumBackend(),
	}
}

// TestBackends_FromSparse sums duplicates in every layout.
func TestBackends_FromSparse(t *testing.T) {
	idx, vals := coo()
	for name, b := range backends() {
		t.Run(name, func(t *testing.T) {
			m, err := b.FromSparse(idx, vals, 3, 4)
			require.NoError(t, err)
			require.Equal(t, 3, m.Rows())
			require.Equal(t, 4, m.Cols())
			for i, row := range want {
				for j, w := range row {
					v, err := m.At(i, j)
					require.NoError(t, err)
					require.Equal(t, w, v, "(%d,%d)", i, j)
				}
			}

			y, err := matrix.MatVec(m, []float64{1, 2, 3, 4})
			require.NoError(t, err)
			require.Equal(t, []float64{8, 12, 20}, y)
		})
	}
}

// TestBackends_Errors covers validation of the coordinate columns.
func TestBackends_Errors(t *testing.T) {
	for name, b := range backends() {
		t.Run(name, func(t *testing.T) {
			_, err := b.FromSparse([][]uint64{{0}}, []float64{1}, 2, 2)
			require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

			_, err = b.FromSparse([][]uint64{{0}, {0, 1}}, []float64{1}, 2, 2)
			require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

			_, err = b.FromSparse([][]uint64{{2}, {0}}, []float64{1}, 2, 2)
			require.ErrorIs(t, err, matrix.ErrOutOfRange)

			_, err = b.FromSparse([][]uint64{{0}, {0}}, []float64{math.NaN()}, 2, 2)
			require.ErrorIs(t, err, matrix.ErrNaNInf)

			_, err = b.FromSparse([][]uint64{{}, {}}, nil, -1, 2)
			require.ErrorIs(t, err, matrix.ErrBadShape)

			m, err := b.FromSparse([][]uint64{{}, {}}, nil, 0, 3)
			require.NoError(t, err)
			require.Equal(t, 0, m.Rows())
		})
	}
}

// TestBackends_NoValidate lets infinities through when asked.
func TestBackends_NoValidate(t *testing.T) {
	m, err := matrix.NewDenseBackend(matrix.WithNoValidateNaNInf()).
		FromSparse([][]uint64{{0}, {0}}, []float64{math.Inf(1)}, 1, 1)
	require.NoError(t, err)
	v, err := m.At(0, 0)
	require.NoError(t, err)
	require.True(t, math.IsInf(v, 1))
}

// TestCSR_Pattern checks storage, dropping and the fixed pattern.
func TestCSR_Pattern(t *testing.T) {
	idx, vals := coo()

	m, err := matrix.NewCSRBackend().FromSparse(idx, vals, 3, 4)
	require.NoError(t, err)
	csr := m.(*matrix.CSR)
	require.Equal(t, 5, csr.NNZ()) // (2,0) sums to zero but is kept

	m, err = matrix.NewCSRBackend(matrix.WithDropTolerance(0)).FromSparse(idx, vals, 3, 4)
	require.NoError(t, err)
	csr = m.(*matrix.CSR)
	require.Equal(t, 4, csr.NNZ())

	require.NoError(t, csr.Set(0, 1, 9))
	v, err := csr.At(0, 1)
	require.NoError(t, err)
	require.Equal(t, 9.0, v)
	require.ErrorIs(t, csr.Set(0, 0, 1), matrix.ErrNotStored)
	require.ErrorIs(t, csr.Set(3, 0, 1), matrix.ErrOutOfRange)

	var seen [][3]float64
	csr.Do(func(i, j int, v float64) bool {
		seen = append(seen, [3]float64{float64(i), float64(j), v})
		return len(seen) < 2
	})
	require.Equal(t, [][3]float64{{0, 1, 9}, {1, 0, 6}}, seen)

	require.Panics(t, func() { matrix.WithDropTolerance(math.NaN()) })
}

// TestClone_Independent mutates clones of every layout.
func TestClone_Independent(t *testing.T) {
	idx, vals := coo()
	for name, b := range backends() {
		t.Run(name, func(t *testing.T) {
			m, err := b.FromSparse(idx, vals, 3, 4)
			require.NoError(t, err)
			c := m.Clone()
			require.NoError(t, c.Set(1, 2, 42))
			v, err := m.At(1, 2)
			require.NoError(t, err)
			require.Equal(t, 2.0, v)
		})
	}
}

// TestDense_Basics covers construction, bounds and rendering.
func TestDense_Basics(t *testing.T) {
	_, err := matrix.NewDense(-1, 2)
	require.ErrorIs(t, err, matrix.ErrBadShape)

	m, err := matrix.NewDense(2, 2)
	require.NoError(t, err)
	require.NoError(t, m.Set(0, 1, 1.5))
	_, err = m.At(2, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, -1, 1), matrix.ErrOutOfRange)
	require.Equal(t, "[0, 1.5]\n[0, 0]\n", m.String())
	require.Equal(t, []float64{0, 1.5, 0, 0}, m.RawData())
}

// TestGonum_Raw exposes the gonum matrix.
func TestGonum_Raw(t *testing.T) {
	g, err := matrix.NewGonum(2, 3)
	require.NoError(t, err)
	require.NoError(t, g.Set(1, 2, 7))
	require.Equal(t, 7.0, g.Raw().At(1, 2))
	_, err = g.At(0, 3)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	empty, err := matrix.NewGonum(0, 0)
	require.NoError(t, err)
	require.Nil(t, empty.Raw())
}

// TestParseBackend resolves names.
func TestParseBackend(t *testing.T) {
	for _, name := range []string{"dense", "CSR", "gonum"} {
		_, err := matrix.ParseBackend(name)
		require.NoError(t, err, name)
	}
	_, err := matrix.ParseBackend("petsc")
	require.ErrorIs(t, err, matrix.ErrUnknownBackend)
}

// TestMatVec_Errors covers nil and length checks.
func TestMatVec_Errors(t *testing.T) {
	_, err := matrix.MatVec(nil, nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)

	m, err := matrix.NewDense(2, 2)
	require.NoError(t, err)
	_, err = matrix.MatVec(m, []float64{1})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	d, err := matrix.ToDense(m)
	require.NoError(t, err)
	require.Equal(t, 2, d.Rows())
}
