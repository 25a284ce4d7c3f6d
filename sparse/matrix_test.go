package sparse_test

import (
	"fmt"
	"testing"

	"github.com/katalvlaran/quadsparse/sparse"
	"github.com/katalvlaran/quadsparse/tensor"
	"github.com/stretchr/testify/require"
)

// TestMatrix_Introspection covers the rank-2 index columns.
func TestMatrix_Introspection(t *testing.T) {
	data := matrixData()
	require.Equal(t, 2, sparse.Rank(data))
	require.Equal(t, []int{4, 5}, sparse.Shape(data))

	cols := sparse.IndexColumns(data)
	require.Equal(t, []uint64{2, 3, 2, 1, 0, 1, 2, 3, 2}, cols[0])
	require.Equal(t, []uint64{4, 4, 3, 2, 1, 2, 3, 0, 0}, cols[1])
}

// TestMatrix_Dedup sorts lexicographically with axis 0 most significant.
func TestMatrix_Dedup(t *testing.T) {
	want := []sparse.Record{
		rec(40, 0, 1), rec(80, 1, 2), rec(60, 2, 0), rec(0, 2, 3),
		rec(10, 2, 4), rec(0, 3, 0), rec(20, 3, 4),
	}
	for _, inPlace := range []bool{false, true} {
		t.Run(fmt.Sprintf("inPlace=%v", inPlace), func(t *testing.T) {
			data := matrixData()
			chunk := data.Descriptor().ItemSize() * 3
			var out *sparse.Data
			if inPlace {
				out = sparse.DedupInPlace(data, chunk)
				require.Same(t, data, out)
			} else {
				out = sparse.Dedup(data, chunk)
				require.NotSame(t, data, out)
			}
			requireRecords(t, want, out)
		})
	}
}

// TestMatrix_Prune keeps duplicate non-zero tuples untouched.
func TestMatrix_Prune(t *testing.T) {
	out := sparse.Prune(matrixData())
	requireRecords(t, []sparse.Record{
		rec(10, 2, 4), rec(20, 3, 4), rec(1, 2, 3), rec(30, 1, 2),
		rec(40, 0, 1), rec(50, 1, 2), rec(-1, 2, 3), rec(60, 2, 0),
	}, out)
}

// TestMatrix_Block covers all 64 present/absent patterns of a 3x2 grid.
func TestMatrix_Block(t *testing.T) {
	a := matrixData()
	b := sparse.MustFromRecords(sparse.MustDescribe([]int{4, 2}, sparse.Float64), []sparse.Record{rec(10, 1, 0)})
	ce := sparse.MustFromRecords(sparse.MustDescribe([]int{1, 5}, sparse.Float64), []sparse.Record{rec(20, 0, 2)})
	df := sparse.MustFromRecords(sparse.MustDescribe([]int{1, 2}, sparse.Float64), []sparse.Record{rec(30, 0, 1)})
	all := []*sparse.Data{a, b, ce, df, ce, df}

	for mask := 0; mask < 64; mask++ {
		on := func(i int) bool { return mask&(1<<i) != 0 }
		leaves := make([]*sparse.Data, 6)
		for i := range leaves {
			if on(i) {
				leaves[i] = all[i]
			}
		}
		grid, err := sparse.BlockMatrix([][]*sparse.Data{leaves[0:2], leaves[2:4], leaves[4:6]})
		require.NoError(t, err)

		out, err := sparse.Block(grid)
		ok := (on(0) || on(2) || on(4)) && (on(1) || on(3) || on(5)) &&
			(on(0) || on(1)) && (on(2) || on(3)) && (on(4) || on(5))
		if !ok {
			require.ErrorIs(t, err, sparse.ErrInconsistentBlocks, "mask=%06b", mask)
			continue
		}
		require.NoError(t, err, "mask=%06b", mask)
		require.Equal(t, []int{6, 7}, sparse.Shape(out))

		var want []sparse.Record
		if on(0) {
			want = append(want, a.Records()...)
		}
		if on(1) {
			want = append(want, rec(10, 1, 5))
		}
		if on(2) {
			want = append(want, rec(20, 4, 2))
		}
		if on(3) {
			want = append(want, rec(30, 4, 6))
		}
		if on(4) {
			want = append(want, rec(20, 5, 2))
		}
		if on(5) {
			want = append(want, rec(30, 5, 6))
		}
		requireRecords(t, want, out)
	}
}

// TestMatrix_BlockDisagreeingExtent rejects leaves that disagree on a group size.
func TestMatrix_BlockDisagreeingExtent(t *testing.T) {
	a := sparse.Empty(sparse.MustDescribe([]int{2, 2}, sparse.Float64))
	b := sparse.Empty(sparse.MustDescribe([]int{3, 2}, sparse.Float64)) // row group 0 says 2, b says 3
	grid, err := sparse.BlockMatrix([][]*sparse.Data{{a, b}})
	require.NoError(t, err)

	_, err = sparse.Block(grid)
	require.ErrorIs(t, err, sparse.ErrInconsistentBlocks)

	_, err = sparse.BlockMatrix([][]*sparse.Data{{a, b}, {a}})
	require.ErrorIs(t, err, sparse.ErrInconsistentBlocks)
}

// TestMatrix_ToDenseFromDense covers materialization and the full enumeration.
func TestMatrix_ToDenseFromDense(t *testing.T) {
	full := []float64{
		0, 40, 0, 0, 0,
		0, 0, 80, 0, 0,
		60, 0, 0, 0, 10,
		0, 0, 0, 0, 20,
	}
	a, err := sparse.ToDense(matrixData())
	require.NoError(t, err)
	require.Equal(t, full, a.Data())

	arr, err := tensor.FromSlice([]int{4, 5}, full)
	require.NoError(t, err)
	data, err := sparse.FromDense(arr, sparse.Int64)
	require.NoError(t, err)
	require.Equal(t, 20, data.Len())
	require.Equal(t, rec(0, 0, 0), data.At(0))
	require.Equal(t, rec(40, 0, 1), data.At(1))
	require.Equal(t, rec(60, 2, 0), data.At(10))
	require.Equal(t, rec(20, 3, 4), data.At(19))
}

// TestMatrix_AddFloat promotes the matrix case as well.
func TestMatrix_AddFloat(t *testing.T) {
	other := sparse.MustFromRecords(sparse.MustDescribe([]int{4, 5}, sparse.Float64),
		[]sparse.Record{rec(-40, 0, 1), rec(.5, 0, 2)})
	out, err := sparse.Add(matrixData(), other)
	require.NoError(t, err)
	require.Equal(t, sparse.Float64, out.Descriptor().Type())
	require.Equal(t, 11, out.Len())
	require.Equal(t, rec(.5, 0, 2), out.At(10))
}
