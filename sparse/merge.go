// SPDX-License-Identifier: MIT

package sparse

import (
	"container/heap"
	"sort"
)

// DefaultChunkBytes is the working-set budget Dedup uses when called with a
// non-positive chunk size (256 MiB).
const DefaultChunkBytes = 1 << 28

// Dedup returns a new collection in which records sharing an index tuple are
// summed into one, sorted ascending lexicographically by index tuple (axis 0
// most significant). Records whose sum is zero are kept. d is not modified.
//
// chunkBytes bounds the sort working set; see DedupInPlace.
// Complexity: O(n log n) time, O(n) extra space for the copy.
func Dedup(d *Data, chunkBytes int) *Data {
	return DedupInPlace(d.Clone(), chunkBytes)
}

// DedupInPlace is the consuming form of Dedup: it overwrites d with the
// deduplicated records and returns d itself.
//
// Implementation (external merge):
//   - Stage 1: split d into chunks of max(1, chunkBytes/ItemSize) records.
//   - Stage 2: stable-sort each chunk in place.
//   - Stage 3: k-way merge the sorted runs through a min-heap; ties between
//     runs pop in run order, so the merged stream is the stable sort of d.
//     Equal keys are summed as they leave the heap.
//   - Stage 4: copy the merged records back into d's storage and truncate.
//
// Every group is summed left to right in input order, so the result is
// identical for every chunk budget, floating-point values included.
//
// Complexity: O(n log n) time. A single chunk collapses in place with no
// allocation; several chunks need an output buffer of one record per
// distinct index tuple (at most n).
func DedupInPlace(d *Data, chunkBytes int) *Data {
	n := d.Len()
	if n == 0 {
		return d
	}
	if chunkBytes <= 0 {
		chunkBytes = DefaultChunkBytes
	}
	per := chunkBytes / d.desc.ItemSize()
	if per < 1 {
		per = 1
	}

	runs := make([]run, 0, (n+per-1)/per)
	for lo := 0; lo < n; lo += per {
		hi := lo + per
		if hi > n {
			hi = n
		}
		sort.Stable(recordRange{d: d, lo: lo, hi: hi})
		runs = append(runs, run{pos: lo, end: hi})
	}

	if len(runs) == 1 {
		d.truncate(d.collapse(0, n))
		return d
	}
	d.mergeRuns(runs)

	return d
}

// collapse sums equal neighbours of the sorted range [lo, hi) into the front
// of the range and returns the new end.
func (d *Data) collapse(lo, hi int) int {
	w := lo
	for r := lo + 1; r < hi; r++ {
		if d.compare(w, r) == 0 {
			d.values[w] = d.desc.vtype.Cast(d.values[w] + d.values[r])
			continue
		}
		w++
		d.move(w, r)
	}

	return w + 1
}

// mergeRuns k-way merges sorted runs, summing equal keys, and stores the
// result at the front of d.
func (d *Data) mergeRuns(runs []run) {
	rank := d.desc.Rank()
	var index []uint64
	var values []float64

	h := &runHeap{d: d, runs: runs}
	for i := range runs {
		if runs[i].pos < runs[i].end {
			h.live = append(h.live, i)
		}
	}
	heap.Init(h)

	last := -1 // record position (in d) of the last emitted key
	for h.Len() > 0 {
		ri := h.live[0]
		pos := runs[ri].pos
		if last >= 0 && d.compare(last, pos) == 0 {
			values[len(values)-1] = d.desc.vtype.Cast(values[len(values)-1] + d.values[pos])
		} else {
			index = append(index, d.index[pos*rank:(pos+1)*rank]...)
			values = append(values, d.values[pos])
			last = pos
		}
		runs[ri].pos++
		if runs[ri].pos == runs[ri].end {
			heap.Pop(h)
		} else {
			heap.Fix(h, 0)
		}
	}

	copy(d.index, index)
	copy(d.values, values)
	d.truncate(len(values))
}

// PruneInPlace removes records whose value equals the type's zero,
// preserving the relative order of the rest. Duplicates are left alone.
// It returns d itself.
// Complexity: O(n*rank), no allocation.
func PruneInPlace(d *Data) *Data {
	zero := d.desc.vtype.Zero()
	w := 0
	for r := 0; r < d.Len(); r++ {
		if d.values[r] == zero {
			continue
		}
		if w != r {
			d.move(w, r)
		}
		w++
	}
	d.truncate(w)

	return d
}

// Prune is the non-consuming form of PruneInPlace.
func Prune(d *Data) *Data {
	return PruneInPlace(d.Clone())
}

// compare orders records i and j lexicographically by index tuple.
func (d *Data) compare(i, j int) int {
	rank := d.desc.Rank()
	a := d.index[i*rank : (i+1)*rank]
	b := d.index[j*rank : (j+1)*rank]
	for ax := range a {
		switch {
		case a[ax] < b[ax]:
			return -1
		case a[ax] > b[ax]:
			return 1
		}
	}

	return 0
}

// move copies record src over record dst.
func (d *Data) move(dst, src int) {
	rank := d.desc.Rank()
	copy(d.index[dst*rank:(dst+1)*rank], d.index[src*rank:(src+1)*rank])
	d.values[dst] = d.values[src]
}

// recordRange adapts the records [lo, hi) of d to sort.Interface.
type recordRange struct {
	d      *Data
	lo, hi int
}

func (r recordRange) Len() int           { return r.hi - r.lo }
func (r recordRange) Less(i, j int) bool { return r.d.compare(r.lo+i, r.lo+j) < 0 }
func (r recordRange) Swap(i, j int) {
	d := r.d
	i, j = r.lo+i, r.lo+j
	rank := d.desc.Rank()
	for ax := 0; ax < rank; ax++ {
		d.index[i*rank+ax], d.index[j*rank+ax] = d.index[j*rank+ax], d.index[i*rank+ax]
	}
	d.values[i], d.values[j] = d.values[j], d.values[i]
}

// run is a sorted record range [pos, end) with a read cursor.
type run struct {
	pos, end int
}

// runHeap orders live runs by the key at their cursor, then by run number.
type runHeap struct {
	d    *Data
	runs []run
	live []int
}

func (h *runHeap) Len() int { return len(h.live) }
func (h *runHeap) Less(i, j int) bool {
	a, b := h.live[i], h.live[j]
	if c := h.d.compare(h.runs[a].pos, h.runs[b].pos); c != 0 {
		return c < 0
	}

	return a < b
}
func (h *runHeap) Swap(i, j int) { h.live[i], h.live[j] = h.live[j], h.live[i] }
func (h *runHeap) Push(x any)    { h.live = append(h.live, x.(int)) }
func (h *runHeap) Pop() any {
	n := len(h.live)
	x := h.live[n-1]
	h.live = h.live[:n-1]

	return x
}
