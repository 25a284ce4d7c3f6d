// SPDX-License-Identifier: MIT

package assemble

import "math"

// Plan is the offset table of one assembly call: for every block b and
// element e the half-open record range [Range(b, e)) of the buffer owned
// by the block's integrand.
type Plan struct {
	offsets [][]uint64 // [block][elem+1], non-decreasing per row
	owner   []int
	totals  []uint64
}

// NewPlan builds the offset table from per-(block, element) record counts.
// owner[b] is the integrand whose buffer block b writes into; blocks of one
// integrand occupy consecutive ranges in block order.
//
// Implementation:
//   - Stage 1: validate that owner matches sizes and every row has the same length.
//   - Stage 2: per block row, start at the owner's running total and take
//     the inclusive prefix sum of the row.
//   - Stage 3: advance the owner's running total to the row's last offset.
//
// Errors:
//   - ErrBadPlan for mismatched owner/sizes or an owner outside [0, nfuncs).
//   - ErrOverflow as soon as an offset wraps around, or a total does not fit
//     an int. No buffer has been allocated at that point.
//
// Complexity: O(nblocks*nelems).
func NewPlan(sizes [][]uint64, owner []int, nfuncs int) (*Plan, error) {
	if len(owner) != len(sizes) {
		return nil, assembleErrorf("NewPlan", ErrBadPlan)
	}
	nelems := 0
	if len(sizes) > 0 {
		nelems = len(sizes[0])
	}

	p := &Plan{
		offsets: make([][]uint64, len(sizes)),
		owner:   append([]int(nil), owner...),
		totals:  make([]uint64, nfuncs),
	}
	for b, row := range sizes {
		if len(row) != nelems || owner[b] < 0 || owner[b] >= nfuncs {
			return nil, assembleErrorf("NewPlan", ErrBadPlan)
		}
		offs := make([]uint64, nelems+1)
		offs[0] = p.totals[owner[b]]
		for e, n := range row {
			next := offs[e] + n
			if next < offs[e] {
				return nil, assembleErrorf("NewPlan", ErrOverflow)
			}
			offs[e+1] = next
		}
		if offs[nelems] > math.MaxInt {
			return nil, assembleErrorf("NewPlan", ErrOverflow)
		}
		p.offsets[b] = offs
		p.totals[owner[b]] = offs[nelems]
	}

	return p, nil
}

// NumBlocks returns the number of block rows.
func (p *Plan) NumBlocks() int { return len(p.offsets) }

// Owner returns the integrand block b writes into.
func (p *Plan) Owner(b int) int { return p.owner[b] }

// Totals returns the record count of every integrand buffer.
func (p *Plan) Totals() []uint64 { return append([]uint64(nil), p.totals...) }

// Range returns the half-open record range of block b, element e.
func (p *Plan) Range(b, e int) (lo, hi int) {
	return int(p.offsets[b][e]), int(p.offsets[b][e+1])
}
