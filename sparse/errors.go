// SPDX-License-Identifier: MIT

package sparse

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers match with errors.Is; messages carry the
// "sparse: " prefix for grep-ability.
var (
	// ErrBadShape is returned when a descriptor is built with a negative extent.
	ErrBadShape = errors.New("sparse: invalid shape")

	// ErrShapeMismatch indicates operands whose declared shapes (or ranks) disagree.
	ErrShapeMismatch = errors.New("sparse: shape mismatch")

	// ErrInconsistentBlocks indicates a block group with no present leaf, or
	// present leaves disagreeing on the group's extent.
	ErrInconsistentBlocks = errors.New("sparse: inconsistent block structure")

	// ErrEmptyInput indicates an operation that needs at least one operand.
	ErrEmptyInput = errors.New("sparse: no input collections")

	// ErrOutOfRange indicates an index outside its axis' declared extent.
	ErrOutOfRange = errors.New("sparse: index out of range")

	// ErrValueType indicates an unknown value type.
	ErrValueType = errors.New("sparse: unknown value type")
)

// sparseErrorf wraps err with an operation tag.
func sparseErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
