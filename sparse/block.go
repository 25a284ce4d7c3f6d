// SPDX-License-Identifier: MIT

package sparse

import "github.com/katalvlaran/quadsparse/tensor"

// BlockGrid is an explicit rank-d arrangement of sparse leaves.
//   - Dims holds the number of groups along each axis (len(Dims) == d).
//   - Leaves holds product(Dims) entries in row-major order; nil marks an
//     absent leaf.
//
// Every present leaf must itself have rank d.
type BlockGrid struct {
	Dims   []int
	Leaves []*Data
}

// NewBlockGrid validates the leaf count against dims.
func NewBlockGrid(dims []int, leaves []*Data) (BlockGrid, error) {
	n, err := tensor.SizeOf(dims)
	if err != nil {
		return BlockGrid{}, sparseErrorf("NewBlockGrid", ErrBadShape)
	}
	if n != len(leaves) {
		return BlockGrid{}, sparseErrorf("NewBlockGrid", ErrInconsistentBlocks)
	}

	return BlockGrid{Dims: append([]int(nil), dims...), Leaves: leaves}, nil
}

// BlockVector arranges rank-1 leaves along a single axis.
func BlockVector(leaves ...*Data) BlockGrid {
	return BlockGrid{Dims: []int{len(leaves)}, Leaves: leaves}
}

// BlockMatrix arranges rank-2 leaves in rows.
//
// Errors:
//   - ErrInconsistentBlocks for ragged rows.
func BlockMatrix(rows [][]*Data) (BlockGrid, error) {
	if len(rows) == 0 {
		return BlockGrid{Dims: []int{0, 0}}, nil
	}
	cols := len(rows[0])
	leaves := make([]*Data, 0, len(rows)*cols)
	for _, row := range rows {
		if len(row) != cols {
			return BlockGrid{}, sparseErrorf("BlockMatrix", ErrInconsistentBlocks)
		}
		leaves = append(leaves, row...)
	}

	return BlockGrid{Dims: []int{len(rows), cols}, Leaves: leaves}, nil
}

// Block composes the grid into a single collection.
//
// Implementation:
//   - Stage 1: for every axis and group position, collect the extent agreed
//     by all present leaves in that group.
//   - Stage 2: per-axis offsets are the prefix sums of group extents; the
//     output extent is their total.
//   - Stage 3: copy leaves in row-major grid order, shifting every index by
//     the leaf's group offset; a leaf's own record order is kept.
//
// The value type is the promotion of all present leaves.
//
// Errors:
//   - ErrShapeMismatch if a leaf's rank differs from the grid rank.
//   - ErrInconsistentBlocks if a group has no present leaf, present leaves
//     disagree on its extent, or len(Leaves) != product(Dims).
func Block(g BlockGrid) (*Data, error) {
	rank := len(g.Dims)
	n, err := tensor.SizeOf(g.Dims)
	if err != nil || n != len(g.Leaves) || n == 0 {
		return nil, sparseErrorf("Block", ErrInconsistentBlocks)
	}
	grid, _ := tensor.New(g.Dims...) // only used for Unravel

	extents := make([][]int, rank)
	for ax := range extents {
		extents[ax] = make([]int, g.Dims[ax])
		for p := range extents[ax] {
			extents[ax][p] = -1
		}
	}

	pos := make([]int, rank)
	vt := Bool
	total := 0
	for flat, leaf := range g.Leaves {
		if leaf == nil {
			continue
		}
		if leaf.desc.Rank() != rank {
			return nil, sparseErrorf("Block", ErrShapeMismatch)
		}
		grid.Unravel(flat, pos)
		for ax, p := range pos {
			e := leaf.desc.shape[ax]
			if extents[ax][p] >= 0 && extents[ax][p] != e {
				return nil, sparseErrorf("Block", ErrInconsistentBlocks)
			}
			extents[ax][p] = e
		}
		vt = Promote(vt, leaf.desc.vtype)
		total += leaf.Len()
	}

	offsets := make([][]uint64, rank)
	shape := make([]int, rank)
	for ax := range extents {
		offsets[ax] = make([]uint64, len(extents[ax]))
		for p, e := range extents[ax] {
			if e < 0 {
				return nil, sparseErrorf("Block", ErrInconsistentBlocks)
			}
			offsets[ax][p] = uint64(shape[ax])
			shape[ax] += e
		}
	}

	desc, err := Describe(shape, vt)
	if err != nil {
		return nil, sparseErrorf("Block", err)
	}
	out := Make(desc, total)
	k := 0
	for flat, leaf := range g.Leaves {
		if leaf == nil {
			continue
		}
		grid.Unravel(flat, pos)
		for r := 0; r < leaf.Len(); r++ {
			for ax, p := range pos {
				out.index[k*rank+ax] = leaf.index[r*rank+ax] + offsets[ax][p]
			}
			out.values[k] = vt.Cast(leaf.values[r])
			k++
		}
	}

	return out, nil
}

// Add concatenates collections of identical shape without merging or
// sorting; reduction is left to a later Dedup. The result's value type is the
// promotion of all input types, so integer and floating inputs yield a
// floating result and fractional values survive.
//
// Errors:
//   - ErrEmptyInput with no arguments.
//   - ErrShapeMismatch if shapes differ.
//
// Complexity: O(Σ n_i * rank).
func Add(datas ...*Data) (*Data, error) {
	if len(datas) == 0 {
		return nil, sparseErrorf("Add", ErrEmptyInput)
	}
	shape := datas[0].desc.shape
	vt := datas[0].desc.vtype
	total := 0
	for _, d := range datas {
		if !tensor.SameShape(shape, d.desc.shape) {
			return nil, sparseErrorf("Add", ErrShapeMismatch)
		}
		vt = Promote(vt, d.desc.vtype)
		total += d.Len()
	}

	out := &Data{
		desc:   Descriptor{shape: append([]int(nil), shape...), vtype: vt},
		index:  make([]uint64, 0, total*len(shape)),
		values: make([]float64, 0, total),
	}
	for _, d := range datas {
		out.index = append(out.index, d.index...)
		for _, v := range d.values {
			out.values = append(out.values, vt.Cast(v))
		}
	}

	return out, nil
}
