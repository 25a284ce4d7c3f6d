package sparse_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/quadsparse/sparse"
	"github.com/katalvlaran/quadsparse/tensor"
	"github.com/stretchr/testify/require"
)

// randomData draws n integer-valued records over shape with a fixed seed.
func randomData(seed int64, shape []int, n int) *sparse.Data {
	rng := rand.New(rand.NewSource(seed))
	recs := make([]sparse.Record, n)
	for k := range recs {
		idx := make([]uint64, len(shape))
		for ax, e := range shape {
			idx[ax] = uint64(rng.Intn(e))
		}
		recs[k] = sparse.Record{Index: idx, Value: float64(rng.Intn(21) - 10)}
	}

	return sparse.MustFromRecords(sparse.MustDescribe(shape, sparse.Int64), recs)
}

// TestDedup_Idempotent checks dedup(dedup(x)) == dedup(x).
func TestDedup_Idempotent(t *testing.T) {
	data := randomData(1, []int{7, 3}, 200)
	once := sparse.Dedup(data, 0)
	twice := sparse.Dedup(once, 0)
	require.True(t, once.Equal(twice))
}

// TestDedup_ChunkInvariant compares every chunk budget to the single-chunk result.
func TestDedup_ChunkInvariant(t *testing.T) {
	data := randomData(2, []int{4, 4, 3}, 300)
	ref := sparse.Dedup(data, 1<<30)
	item := data.Descriptor().ItemSize()

	for _, chunk := range []int{1, item, item * 2, item * 7, item * 64, item*300 - 1} {
		got := sparse.Dedup(data, chunk)
		require.True(t, ref.Equal(got), "chunk=%d", chunk)
	}
}

// TestDedup_ChunkInvariantFloat repeats the comparison with inexact float
// sums: every group must add up in input order whatever the budget.
func TestDedup_ChunkInvariantFloat(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	recs := make([]sparse.Record, 200)
	for k := range recs {
		recs[k] = sparse.Record{Index: []uint64{uint64(rng.Intn(3))}, Value: rng.Float64() * 100}
	}
	data := sparse.MustFromRecords(sparse.MustDescribe([]int{3}, sparse.Float64), recs)
	ref := sparse.Dedup(data, 1<<30)
	item := data.Descriptor().ItemSize()

	for _, chunk := range []int{1, 9, 27, 63, 450, item * 3, item * 199} {
		got := sparse.Dedup(data, chunk)
		require.Equal(t, sparse.Values(ref), sparse.Values(got), "chunk=%d", chunk)
		require.Equal(t, sparse.IndexColumns(ref), sparse.IndexColumns(got), "chunk=%d", chunk)
	}
}

// TestDedupInPlace_Consumes returns its argument for single and chunked runs.
func TestDedupInPlace_Consumes(t *testing.T) {
	for _, chunk := range []int{0, 1} {
		d := randomData(6, []int{4, 2}, 50)
		want := sparse.Dedup(d, 0)
		got := sparse.DedupInPlace(d, chunk)
		require.Same(t, d, got, "chunk=%d", chunk)
		require.True(t, want.Equal(got), "chunk=%d", chunk)
	}
}

// TestDedup_OneRecordPerTuple verifies sortedness and uniqueness.
func TestDedup_OneRecordPerTuple(t *testing.T) {
	out := sparse.Dedup(randomData(3, []int{5, 6}, 500), 64)
	cols := sparse.IndexColumns(out)
	for k := 1; k < out.Len(); k++ {
		prev := [2]uint64{cols[0][k-1], cols[1][k-1]}
		cur := [2]uint64{cols[0][k], cols[1][k]}
		require.True(t, prev[0] < cur[0] || (prev[0] == cur[0] && prev[1] < cur[1]), "k=%d", k)
	}
}

// TestDedup_Empty is a no-op on empty collections.
func TestDedup_Empty(t *testing.T) {
	d := sparse.Empty(sparse.MustDescribe([]int{3}, sparse.Float64))
	require.Equal(t, 0, sparse.DedupInPlace(d, 1).Len())
}

// TestToDense_MatchesDedup compares ToDense to a dedup scatter.
func TestToDense_MatchesDedup(t *testing.T) {
	data := randomData(4, []int{3, 5}, 100)
	dense, err := sparse.ToDense(data)
	require.NoError(t, err)

	viaDedup, err := sparse.ToDense(sparse.Dedup(data, 0))
	require.NoError(t, err)
	require.True(t, dense.Equal(viaDedup))
}

// TestRoundTrip checks ToDense(FromDense(A)) == A.
func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for _, shape := range [][]int{{}, {4}, {3, 2}, {2, 3, 4}} {
		a := tensor.MustNew(shape...)
		for i := range a.Data() {
			a.Data()[i] = rng.NormFloat64()
		}
		data, err := sparse.FromDense(a, sparse.Float64)
		require.NoError(t, err)
		back, err := sparse.ToDense(data)
		require.NoError(t, err)
		require.True(t, a.Equal(back), "shape=%v", shape)
	}
}

// TestPromote spot-checks the promotion table.
func TestPromote(t *testing.T) {
	cases := []struct{ a, b, want sparse.ValueType }{
		{sparse.Int64, sparse.Float64, sparse.Float64},
		{sparse.Bool, sparse.Int8, sparse.Int8},
		{sparse.Int8, sparse.Uint8, sparse.Int16},
		{sparse.Int32, sparse.Uint16, sparse.Int32},
		{sparse.Int16, sparse.Uint32, sparse.Int64},
		{sparse.Uint8, sparse.Uint32, sparse.Uint32},
		{sparse.Int16, sparse.Float32, sparse.Float32},
		{sparse.Int32, sparse.Float32, sparse.Float64},
		{sparse.Float32, sparse.Float64, sparse.Float64},
	}
	for _, c := range cases {
		require.Equal(t, c.want, sparse.Promote(c.a, c.b), "%v+%v", c.a, c.b)
		require.Equal(t, c.want, sparse.Promote(c.b, c.a), "%v+%v", c.b, c.a)
	}
}

// TestCastWraps checks integer wraparound and float32 rounding on write.
func TestCastWraps(t *testing.T) {
	require.Equal(t, -128.0, sparse.Int8.Cast(128))
	require.Equal(t, 1.0, sparse.Bool.Cast(-3))
	require.Equal(t, float64(float32(0.1)), sparse.Float32.Cast(0.1))
	require.Equal(t, 2.0, sparse.Int32.Cast(2.9))
}

// TestItemSize follows the exchange layout widths.
func TestItemSize(t *testing.T) {
	d := sparse.MustDescribe([]int{5, 300, 70000}, sparse.Float32)
	require.Equal(t, 1, d.IndexWidth(0))
	require.Equal(t, 2, d.IndexWidth(1))
	require.Equal(t, 4, d.IndexWidth(2))
	require.Equal(t, 1+2+4+4, d.ItemSize())
}

// TestWindowBounds guards writes outside a window.
func TestWindowBounds(t *testing.T) {
	d := sparse.Make(sparse.MustDescribe([]int{4}, sparse.Float64), 4)
	w := d.Window(1, 3)
	w.SetIndex(0, 0, 3)
	w.SetValue(1, 2.5)
	require.Equal(t, rec(0, 3), d.At(1))
	require.Equal(t, rec(2.5, 0), d.At(2))
	require.Panics(t, func() { w.SetValue(2, 1) })
	require.Panics(t, func() { d.Window(2, 5) })
}
