// SPDX-License-Identifier: MIT

// Package assemble turns integrands into coordinate-sparse data by
// integrating them element by element over a sample.
//
// What & Why:
//
//	Every element contributes a small dense tensor per block of the
//	integrand. Instead of letting workers append into a shared buffer
//	under a lock, assembly plans the output first: the record count of
//	every (block, element) pair is known before evaluation, so a prefix
//	sum assigns each pair a disjoint half-open range of its integrand's
//	buffer. Workers then fill their ranges without synchronization.
//
// Pipeline (Integrate):
//
//  1. Decompose each integrand into blocks (function.Blocks).
//  2. Count records per (block, element); plan offsets (NewPlan).
//     Counter wraparound fails with ErrOverflow before anything is allocated.
//  3. Allocate one zero-initialized buffer per integrand (parallel.Allocator).
//  4. For every element in parallel: evaluate each block at the quadrature
//     points, contract the point axis with the weights and write the records
//     into the planned range.
//
// Eval is the non-integrating twin: it evaluates integrands point-wise and
// scatter-adds the values at each point's global number. Points shared by
// neighbouring elements accumulate.
//
// Failure: the first evaluation error aborts the whole call and no partial
// result is returned. Calls have no side effects besides metrics and can be
// repeated.
package assemble
