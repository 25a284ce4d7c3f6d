// SPDX-License-Identifier: MIT

package tensor

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned when a requested shape has a negative extent.
	ErrBadShape = errors.New("tensor: invalid shape")

	// ErrOutOfRange indicates an index outside the declared extents or a rank mismatch.
	ErrOutOfRange = errors.New("tensor: index out of range")

	// ErrDataLength indicates that a backing slice does not match the shape size.
	ErrDataLength = errors.New("tensor: data length does not match shape")
)

// tensorErrorf wraps an error with a method tag, preserving the sentinel.
func tensorErrorf(tag string, err error) error {
	return fmt.Errorf("Array.%s: %w", tag, err)
}
