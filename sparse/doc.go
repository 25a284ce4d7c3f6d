// SPDX-License-Identifier: MIT

// Package sparse implements the coordinate-sparse record format used to
// exchange assembled data, together with its merge algebra.
//
// 🚀 What is a sparse collection?
//
//	An ordered sequence of records (i_0, ..., i_{d-1}, value) of fixed rank d,
//	with declared per-axis extents and a declared value type. Duplicate index
//	tuples are allowed: independent producers append without coordinating and
//	reduction is deferred to Dedup.
//
// ✨ Merge algebra:
//   - Dedup / DedupInPlace: sum records sharing an index tuple, sorted output,
//     computed by an external merge over chunks of a byte budget.
//   - Prune / PruneInPlace: drop exact zeros, keep order, never merge.
//   - Block: compose a grid of collections into one, shifting indices.
//   - Add: concatenate same-shaped collections, promoting the value type.
//   - ToDense / FromDense: convert to and from tensor.Array.
//
// The *InPlace variants consume their argument: the returned pointer is the
// argument itself and its previous content is overwritten. The plain
// variants never touch their input.
//
// Records are an in-memory exchange format only; nothing here is persisted.
package sparse
