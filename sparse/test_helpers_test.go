package sparse_test

import (
	"testing"

	"github.com/katalvlaran/quadsparse/sparse"
	"github.com/stretchr/testify/require"
)

// rec builds a record literal: rec(value, i0, i1, ...).
func rec(v float64, idx ...uint64) sparse.Record {
	return sparse.Record{Index: idx, Value: v}
}

// vectorData is the shared rank-1 fixture over shape (5,), int64 values.
func vectorData() *sparse.Data {
	desc := sparse.MustDescribe([]int{5}, sparse.Int64)
	return sparse.MustFromRecords(desc, []sparse.Record{
		rec(10, 4), rec(20, 4), rec(1, 3), rec(30, 2), rec(40, 1),
		rec(50, 2), rec(-1, 3), rec(0, 0), rec(60, 0),
	})
}

// matrixData is the shared rank-2 fixture over shape (4,5), int64 values.
func matrixData() *sparse.Data {
	desc := sparse.MustDescribe([]int{4, 5}, sparse.Int64)
	return sparse.MustFromRecords(desc, []sparse.Record{
		rec(10, 2, 4), rec(20, 3, 4), rec(1, 2, 3), rec(30, 1, 2), rec(40, 0, 1),
		rec(50, 1, 2), rec(-1, 2, 3), rec(0, 3, 0), rec(60, 2, 0),
	})
}

// requireRecords asserts the exact record sequence of d.
func requireRecords(t *testing.T, want []sparse.Record, d *sparse.Data) {
	t.Helper()
	got := d.Records()
	if len(want) == 0 {
		require.Empty(t, got)
		return
	}
	require.Equal(t, want, got)
}
