// SPDX-License-Identifier: MIT

// Package matrix: functional configuration of backends.
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values).

package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultValidateNaNInf rejects NaN and ±Inf values during ingestion.
	DefaultValidateNaNInf = true

	// DefaultDropTolerance keeps every summed CSR entry (negative ⇒ no dropping).
	DefaultDropTolerance = -1.0
)

const (
	panicDropToleranceInvalid = "matrix: WithDropTolerance: tol must be finite"
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
type Option func(*Options)

// Options stores the effective backend configuration after applying Option setters.
type Options struct {
	validateNaNInf bool    // DefaultValidateNaNInf
	dropTol        float64 // DefaultDropTolerance; CSR only
}

// WithValidateNaNInf enables strict finite-value validation (the default).
func WithValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = true }
}

// WithNoValidateNaNInf lets NaN and ±Inf pass through ingestion.
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// WithDropTolerance makes the CSR backend drop entries whose summed absolute
// value is <= tol. tol = 0 drops exact zeros, a negative tol keeps everything.
// Panics if tol is NaN or infinite.
//
// Complexity: O(1).
func WithDropTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) {
		panic(panicDropToleranceInvalid)
	}

	return func(o *Options) { o.dropTol = tol }
}

func gatherOptions(opts []Option) Options {
	o := Options{validateNaNInf: DefaultValidateNaNInf, dropTol: DefaultDropTolerance}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
