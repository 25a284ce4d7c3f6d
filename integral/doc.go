// SPDX-License-Identifier: MIT

// Package integral represents postponed integrals and evaluates them in
// batches.
//
// An Integral is a sum of terms, one per sample, each binding a sample to
// an integrand of the Integral's shape. Arithmetic (Add, Neg, Sub, Scale,
// Div), differentiation and substitution build new Integrals without
// evaluating anything; terms that simplify to zero are dropped as soon as
// they appear.
//
// Evaluation is batched: EvalSparse and Eval group every (integral, sample)
// term by sample, assemble each sample once for all integrands that use it,
// and concatenate the per-sample parts of every integral. Eval then
// materializes by rank:
//
//	rank 0   scalar
//	rank 1   dense vector
//	rank 2   matrix.Matrix from the configured backend
//	rank ≥3  deduplicated, pruned sparse data
package integral
