// SPDX-License-Identifier: MIT

package integral

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch indicates integrands or integrals of different shapes.
	ErrShapeMismatch = errors.New("integral: shape mismatch")

	// ErrUnknownTarget indicates an argument name that occurs in no term.
	ErrUnknownTarget = errors.New("integral: unknown target")
)

func integralErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
