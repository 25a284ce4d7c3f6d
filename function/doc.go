// SPDX-License-Identifier: MIT

// Package function is a small expression engine for integrands.
//
// What & Why:
//
//	Assembly needs an integrand it can (1) evaluate at the quadrature points
//	of one element, (2) split into independent (index, value) blocks for
//	sparse output, (3) differentiate with respect to a named argument and
//	(4) specialize by substituting arguments. Node is a closed set of
//	variants; every operation dispatches with a type switch over them.
//
// Evaluation model:
//
//	A Node of shape S evaluates to an array of shape (npoints, S...): the
//	leading axis runs over the points of the element being evaluated.
//	Axis numbers passed to constructors never count that point axis.
//
// Variants:
//
//	Argument, Constant, Zeros, LocalCoords, Coords   (leaves)
//	InsertAxis, Sum, Neg, Scale, Add, Mul, Sin, Cos  (pointwise algebra)
//	Inflate                                          (scatter into a global axis)
//	Transpose                                        (axis permutation)
//
// Constructors panic with ErrShapeMismatch on inconsistent shapes: building
// an ill-shaped expression is a programmer error. Runtime problems
// (missing arguments, bad substitutions) are returned as errors.
package function
