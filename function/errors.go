// SPDX-License-Identifier: MIT

package function

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch indicates operands or bindings of incompatible shape.
	ErrShapeMismatch = errors.New("function: shape mismatch")

	// ErrUnknownTarget indicates a named argument that occurs nowhere in the expression.
	ErrUnknownTarget = errors.New("function: unknown target")

	// ErrMissingArgument indicates that evaluation needs an argument that was not bound.
	ErrMissingArgument = errors.New("function: missing argument")

	// ErrBadAxis indicates an axis number outside the operand's rank.
	ErrBadAxis = errors.New("function: axis out of range")

	// ErrBadDofs indicates a dof map inconsistent with the inflated axis.
	ErrBadDofs = errors.New("function: invalid dof map")
)

func functionErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// mustf panics with a wrapped sentinel; used by constructors only.
func mustf(tag string, err error) {
	panic(functionErrorf(tag, err))
}
