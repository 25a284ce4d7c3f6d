package sparse_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/quadsparse/sparse"
)

// randomMatrix returns n records over a side×side matrix.
func randomMatrix(n, side int) *sparse.Data {
	r := rand.New(rand.NewSource(1))
	recs := make([]sparse.Record, n)
	for k := range recs {
		recs[k] = sparse.Record{
			Index: []uint64{uint64(r.Intn(side)), uint64(r.Intn(side))},
			Value: r.Float64(),
		}
	}
	return sparse.MustFromRecords(sparse.MustDescribe([]int{side, side}, sparse.Float64), recs)
}

// BenchmarkDedup compares a single in-memory run with a chunked merge.
func BenchmarkDedup(b *testing.B) {
	const n = 100000
	d := randomMatrix(n, 1000)

	for _, bc := range []struct {
		name  string
		chunk int
	}{
		{"single", sparse.DefaultChunkBytes},
		{"chunked", 64 * 1024},
	} {
		b.Run(bc.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(n * d.Descriptor().ItemSize()))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = sparse.Dedup(d, bc.chunk)
			}
		})
	}
}
