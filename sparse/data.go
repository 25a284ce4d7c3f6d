// SPDX-License-Identifier: MIT

package sparse

// Record is a detached copy of one sparse record.
type Record struct {
	Index []uint64
	Value float64
}

// Data is a sparse collection in record-major layout:
//   - index holds n*rank unsigned indices, record k at index[k*rank:(k+1)*rank];
//   - values holds n values aligned with the records.
//
// Data is not safe for concurrent mutation except through disjoint Windows.
type Data struct {
	desc   Descriptor
	index  []uint64
	values []float64
}

// Make allocates a zero-initialized collection of n records. Every record
// initially has the all-zero index tuple and a zero value, so an unfilled
// record is harmless under Dedup and Prune.
// Complexity: O(n*rank).
func Make(desc Descriptor, n int) *Data {
	return &Data{
		desc:   desc,
		index:  make([]uint64, n*desc.Rank()),
		values: make([]float64, n),
	}
}

// Empty returns a collection with no records.
func Empty(desc Descriptor) *Data { return Make(desc, 0) }

// FromRecords builds a collection from explicit records.
//
// Errors:
//   - ErrShapeMismatch if a record's index length differs from the rank.
//   - ErrOutOfRange if an index exceeds its axis extent.
func FromRecords(desc Descriptor, recs []Record) (*Data, error) {
	d := Make(desc, len(recs))
	rank := desc.Rank()
	for k, r := range recs {
		if len(r.Index) != rank {
			return nil, sparseErrorf("FromRecords", ErrShapeMismatch)
		}
		for ax, i := range r.Index {
			if i >= uint64(desc.shape[ax]) {
				return nil, sparseErrorf("FromRecords", ErrOutOfRange)
			}
			d.index[k*rank+ax] = i
		}
		d.values[k] = desc.vtype.Cast(r.Value)
	}

	return d, nil
}

// MustFromRecords is FromRecords for literal test and example data.
func MustFromRecords(desc Descriptor, recs []Record) *Data {
	d, err := FromRecords(desc, recs)
	if err != nil {
		panic(err)
	}

	return d
}

// IsSparse reports whether v is a non-nil sparse collection.
func IsSparse(v any) bool {
	d, ok := v.(*Data)

	return ok && d != nil
}

// Descriptor returns the collection's metadata.
func (d *Data) Descriptor() Descriptor { return d.desc }

// Len returns the number of stored records, duplicates included.
func (d *Data) Len() int { return len(d.values) }

// Rank returns the number of index axes of d.
func Rank(d *Data) int { return d.desc.Rank() }

// Shape returns a copy of the declared extents of d.
func Shape(d *Data) []int { return d.desc.Shape() }

// IndexColumns returns rank columns of per-axis indices, positionally
// aligned with storage order (neither sorted nor deduplicated).
// Complexity: O(n*rank) copy.
func IndexColumns(d *Data) [][]uint64 {
	rank := d.desc.Rank()
	n := d.Len()
	cols := make([][]uint64, rank)
	for ax := range cols {
		col := make([]uint64, n)
		for k := 0; k < n; k++ {
			col[k] = d.index[k*rank+ax]
		}
		cols[ax] = col
	}

	return cols
}

// Values returns a copy of the values aligned with IndexColumns.
func Values(d *Data) []float64 { return append([]float64(nil), d.values...) }

// Extract returns (IndexColumns(d), Values(d), Shape(d)).
func Extract(d *Data) ([][]uint64, []float64, []int) {
	return IndexColumns(d), Values(d), Shape(d)
}

// At returns a detached copy of record k.
func (d *Data) At(k int) Record {
	rank := d.desc.Rank()

	return Record{
		Index: append([]uint64(nil), d.index[k*rank:(k+1)*rank]...),
		Value: d.values[k],
	}
}

// Records returns detached copies of all records in storage order.
func (d *Data) Records() []Record {
	out := make([]Record, d.Len())
	for k := range out {
		out[k] = d.At(k)
	}

	return out
}

// Clone returns a deep copy of d.
func (d *Data) Clone() *Data {
	return &Data{
		desc:   d.desc,
		index:  append([]uint64(nil), d.index...),
		values: append([]float64(nil), d.values...),
	}
}

// Equal reports whether two collections have the same descriptor and the
// same records in the same order.
func (d *Data) Equal(o *Data) bool {
	if d == nil || o == nil {
		return d == o
	}
	if !d.desc.Equal(o.desc) || len(d.values) != len(o.values) {
		return false
	}
	for i, v := range d.index {
		if o.index[i] != v {
			return false
		}
	}
	for i, v := range d.values {
		if o.values[i] != v {
			return false
		}
	}

	return true
}

// truncate shortens d to its first n records, reusing the backing arrays.
func (d *Data) truncate(n int) {
	d.index = d.index[:n*d.desc.Rank()]
	d.values = d.values[:n]
}

// Window is a write handle on the half-open record range [lo, hi) of a
// shared collection. Windows over disjoint ranges may be written
// concurrently without synchronization.
type Window struct {
	d      *Data
	lo, hi int
}

// Window returns the write handle for records [lo, hi).
// It panics if the range is outside the collection (programmer error: ranges
// come from an offset plan sized to the buffer).
func (d *Data) Window(lo, hi int) Window {
	if lo < 0 || hi < lo || hi > d.Len() {
		panic("sparse: Window range outside collection")
	}

	return Window{d: d, lo: lo, hi: hi}
}

// Len returns the number of records in the window.
func (w Window) Len() int { return w.hi - w.lo }

// SetIndex writes index i of axis ax for the window-relative record k.
func (w Window) SetIndex(k, ax int, i uint64) {
	w.check(k)
	rank := w.d.desc.Rank()
	w.d.index[(w.lo+k)*rank+ax] = i
}

// SetValue writes the value of the window-relative record k, cast to the
// collection's value type.
func (w Window) SetValue(k int, v float64) {
	w.check(k)
	w.d.values[w.lo+k] = w.d.desc.vtype.Cast(v)
}

// check guards against writes leaking into a neighbouring window.
func (w Window) check(k int) {
	if k < 0 || k >= w.hi-w.lo {
		panic("sparse: write outside window")
	}
}
