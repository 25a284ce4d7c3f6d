// SPDX-License-Identifier: MIT

// Package tensor provides a minimal dense N-dimensional float64 array.
//
// What & Why:
//
//	Array is the dense counterpart of sparse.Data: sparse.ToDense materializes
//	into it, sparse.FromDense enumerates it, the function engine evaluates into
//	it and assemble.Eval scatters point values into it.
//
// Layout:
//
//	Row-major storage with the explicit offset formula Σ idx[a]*stride[a],
//	stride[rank-1] = 1. A rank-0 array holds exactly one value.
//
// Complexity:
//
//	New/Zeros: O(size) zero-init; At/Set/Add: O(rank); Clone: O(size).
package tensor
