// SPDX-License-Identifier: MIT

package parallel

import (
	"sync/atomic"

	"github.com/katalvlaran/quadsparse/sparse"
)

// Allocator provides zero-initialized record buffers. Buffers are written
// concurrently through disjoint sparse.Windows.
type Allocator interface {
	Alloc(desc sparse.Descriptor, n int) *sparse.Data
}

// Heap allocates on the Go heap.
type Heap struct{}

// Alloc implements Allocator.
func (Heap) Alloc(desc sparse.Descriptor, n int) *sparse.Data { return sparse.Make(desc, n) }

// Counting wraps an Allocator and records how often and how much it allocated.
type Counting struct {
	Base Allocator // nil means Heap

	calls   atomic.Int64
	records atomic.Int64
}

// Alloc implements Allocator.
func (c *Counting) Alloc(desc sparse.Descriptor, n int) *sparse.Data {
	c.calls.Add(1)
	c.records.Add(int64(n))
	if c.Base == nil {
		return Heap{}.Alloc(desc, n)
	}

	return c.Base.Alloc(desc, n)
}

// Calls returns the number of Alloc calls so far.
func (c *Counting) Calls() int64 { return c.calls.Load() }

// Records returns the total number of records allocated so far.
func (c *Counting) Records() int64 { return c.records.Load() }

var (
	_ Allocator = Heap{}
	_ Allocator = (*Counting)(nil)
)
