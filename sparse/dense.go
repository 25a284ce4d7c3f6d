// SPDX-License-Identifier: MIT

package sparse

import "github.com/katalvlaran/quadsparse/tensor"

// ToDense materializes d into a zero-initialized dense tensor of the declared
// shape. Duplicate records accumulate, so the result equals scattering
// Dedup(d) into zeros; absent coordinates stay at the type's zero.
// Complexity: O(size + n*rank).
func ToDense(d *Data) (*tensor.Array, error) {
	a, err := tensor.New(d.desc.shape...)
	if err != nil {
		return nil, sparseErrorf("ToDense", err)
	}
	rank := d.desc.Rank()
	strides := rowMajorStrides(d.desc.shape)
	buf := a.Data()
	for k, v := range d.values {
		off := 0
		for ax := 0; ax < rank; ax++ {
			off += int(d.index[k*rank+ax]) * strides[ax]
		}
		buf[off] += v
	}
	vt := d.desc.vtype
	for i, v := range buf {
		buf[i] = vt.Cast(v)
	}

	return a, nil
}

// FromDense enumerates every coordinate of a in row-major order, zeros
// included, producing one record per coordinate. The output is already in
// canonical Dedup order.
// Complexity: O(size*rank).
func FromDense(a *tensor.Array, vt ValueType) (*Data, error) {
	desc, err := Describe(a.Shape(), vt)
	if err != nil {
		return nil, sparseErrorf("FromDense", err)
	}
	rank := desc.Rank()
	out := Make(desc, a.Size())
	idx := make([]int, rank)
	for k, v := range a.Data() {
		a.Unravel(k, idx)
		for ax, i := range idx {
			out.index[k*rank+ax] = uint64(i)
		}
		out.values[k] = vt.Cast(v)
	}

	return out, nil
}

func rowMajorStrides(shape []int) []int {
	st := make([]int, len(shape))
	acc := 1
	for ax := len(shape) - 1; ax >= 0; ax-- {
		st[ax] = acc
		acc *= shape[ax]
	}

	return st
}
