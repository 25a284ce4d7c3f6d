// SPDX-License-Identifier: MIT

// Package sample describes where an integrand is evaluated: a set of
// elements, each with reference quadrature points, physical weights and an
// affine map to physical coordinates, plus the position of every point in
// one flat global point numbering.
//
// Samples are immutable once built and carry a random identity (ID) that
// integrals use to group terms sharing the same sample.
//
// Constructors:
//
//	New          default numbering, points of element e follow those of e-1
//	NewIndexed   caller-supplied numbering; points may be shared
//	Line         uniform 1-D mesh with Gauss points
//	LineVertices uniform 1-D mesh sampled at element vertices (shared)
//	Rectilinear  uniform 2-D mesh with tensor Gauss points
package sample
