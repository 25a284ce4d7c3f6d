// SPDX-License-Identifier: MIT

// Package quadsparse assembles finite-element style integrals into sparse
// tensors in parallel.
//
// What is quadsparse?
//
//	A small numerics stack that turns "integrate this expression over that
//	mesh" into coordinate-sparse data, and that data into vectors and
//	matrices:
//		• tensor/   dense row-major arrays used for constants and point values
//		• sparse/   unreduced coordinate records, Dedup/Prune merge algebra,
//		            block composition and dense round trips
//		• function/ symbolic integrands: evaluation, block decomposition,
//		            derivatives and simplification
//		• sample/   quadrature samples on line and rectilinear meshes
//		• parallel/ executors and buffer allocators
//		• assemble/ two-pass offset planning and lock-free parallel assembly
//		• matrix/   dense, CSR and gonum matrix backends
//		• integral/ postponed integrals and the batch evaluator
//
// Typical flow:
//
//	s, _ := sample.Line(100, 0, 1, 2)
//	m := integral.FromSample(s, massIntegrand)
//	res, _ := integral.Eval(ctx, []*integral.Integral{m}, nil)
//	// res[0].Matrix is a CSR matrix
//
// The quadsparse command (cmd/quadsparse) assembles a 1-D P1 problem from a
// YAML description.
package quadsparse
