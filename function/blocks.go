// SPDX-License-Identifier: MIT

package function

// IndexMap maps the local positions of one block axis to global positions.
// A nil Dofs is the identity on [0, Length); otherwise element e maps local
// position l to Dofs[e][l].
type IndexMap struct {
	Dofs   [][]int
	Length int // global extent of the axis
}

// Len returns the number of local positions per element.
func (m IndexMap) Len() int {
	if m.Dofs == nil {
		return m.Length
	}
	if len(m.Dofs) == 0 {
		return 0
	}

	return len(m.Dofs[0])
}

// At returns the global positions of element e. The identity map ignores e.
func (m IndexMap) At(e int) ([]int, error) {
	if m.Dofs == nil {
		out := make([]int, m.Length)
		for i := range out {
			out[i] = i
		}
		return out, nil
	}
	if e < 0 || e >= len(m.Dofs) {
		return nil, functionErrorf("IndexMap.At", ErrBadDofs)
	}

	return m.Dofs[e], nil
}

func identity(n int) IndexMap { return IndexMap{Length: n} }

// same reports whether m and o are the same map: equal extents and either
// both identities or sharing one dof table.
func (m IndexMap) same(o IndexMap) bool {
	if m.Length != o.Length || (m.Dofs == nil) != (o.Dofs == nil) || len(m.Dofs) != len(o.Dofs) {
		return false
	}

	return len(m.Dofs) == 0 || &m.Dofs[0] == &o.Dofs[0]
}

// compose returns the map l -> outer[e][inner(e)[l]].
func compose(outer [][]int, length int, inner IndexMap) IndexMap {
	if inner.Dofs == nil {
		return IndexMap{Dofs: outer, Length: length}
	}
	dofs := make([][]int, len(outer))
	for e, row := range outer {
		if e >= len(inner.Dofs) {
			break
		}
		in := inner.Dofs[e]
		mapped := make([]int, len(in))
		for l, i := range in {
			mapped[l] = row[i]
		}
		dofs[e] = mapped
	}

	return IndexMap{Dofs: dofs, Length: length}
}

// Block is one independent (index, value) part of an expression: the value
// node has shape (Index[0].Len(), ..., Index[d-1].Len()) and its entry at
// local position (l_0, ..., l_{d-1}) contributes to global position
// (Index[0].At(e)[l_0], ...). The expression equals the sum of its blocks.
type Block struct {
	Index []IndexMap
	Value Node
}

// Size returns the number of records one element contributes.
func (b Block) Size() int {
	n := 1
	for _, m := range b.Index {
		n *= m.Len()
	}

	return n
}

// Blocks decomposes f into blocks whose sum is f. Inflate becomes index
// maps instead of dense scatter, so the records per element stay
// proportional to the local support. Zero expressions yield no blocks, and
// the terms of a sum that share all index maps are gathered into one block.
func Blocks(f Node) []Block {
	switch n := f.(type) {
	case *Zeros:
		return nil

	case *Add:
		return gatherBlocks(append(Blocks(n.a), Blocks(n.b)...))

	case *Neg:
		return mapBlocks(n.arg, func(b Block) Block {
			b.Value = NewNeg(b.Value)
			return b
		})

	case *Scale:
		return mapBlocks(n.arg, func(b Block) Block {
			b.Value = NewScale(b.Value, n.factor)
			return b
		})

	case *Inflate:
		return mapBlocks(n.arg, func(b Block) Block {
			b.Index[n.axis] = compose(n.dofs, n.length, b.Index[n.axis])
			return b
		})

	case *InsertAxis:
		return mapBlocks(n.arg, func(b Block) Block {
			b.Index = insertAt(b.Index, n.axis, identity(n.length))
			b.Value = NewInsertAxis(b.Value, n.axis, n.length)
			return b
		})

	case *Sum:
		return mapBlocks(n.arg, func(b Block) Block {
			b.Index = append(b.Index[:n.axis:n.axis], b.Index[n.axis+1:]...)
			b.Value = NewSum(b.Value, n.axis)
			return b
		})

	case *Transpose:
		return mapBlocks(n.arg, func(b Block) Block {
			index := make([]IndexMap, len(n.perm))
			for i, p := range n.perm {
				index[i] = b.Index[p]
			}
			b.Index = index
			b.Value = NewTranspose(b.Value, n.perm...)
			return b
		})
	}

	shape := f.Shape()
	index := make([]IndexMap, len(shape))
	for i, s := range shape {
		index[i] = identity(s)
	}

	return []Block{{Index: index, Value: f}}
}

// gatherBlocks merges blocks with identical index maps into their first
// occurrence, summing the values.
func gatherBlocks(blocks []Block) []Block {
	out := blocks[:0:0]
next:
	for _, b := range blocks {
		for k, o := range out {
			if sameIndex(o.Index, b.Index) {
				out[k].Value = NewAdd(o.Value, b.Value)
				continue next
			}
		}
		out = append(out, b)
	}

	return out
}

func sameIndex(a, b []IndexMap) bool {
	if len(a) != len(b) {
		return false
	}
	for ax := range a {
		if !a[ax].same(b[ax]) {
			return false
		}
	}

	return true
}

func mapBlocks(arg Node, fn func(Block) Block) []Block {
	in := Blocks(arg)
	out := make([]Block, len(in))
	for i, b := range in {
		b.Index = append([]IndexMap(nil), b.Index...)
		out[i] = fn(b)
	}

	return out
}

func insertAt(s []IndexMap, at int, m IndexMap) []IndexMap {
	out := make([]IndexMap, 0, len(s)+1)
	out = append(out, s[:at]...)
	out = append(out, m)

	return append(out, s[at:]...)
}
