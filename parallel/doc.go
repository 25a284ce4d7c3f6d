// SPDX-License-Identifier: MIT

// Package parallel is the execution substrate of assembly: an Executor that
// distributes an index range [0, n) over workers, and an Allocator that
// hands out zero-initialized record buffers shared by those workers.
//
// Executors give no ordering guarantee between indices. The first error
// returned by fn cancels the context passed to the remaining calls and is
// returned from Range; indices not yet started are skipped.
package parallel
