// SPDX-License-Identifier: MIT

package sample

import (
	"errors"
	"fmt"
)

var (
	// ErrMismatch indicates per-element data of inconsistent length or dimension.
	ErrMismatch = errors.New("sample: inconsistent element data")

	// ErrBadIndex indicates a custom point numbering that does not fit the points.
	ErrBadIndex = errors.New("sample: invalid point index")

	// ErrOutOfRange indicates an element number outside [0, NumElements).
	ErrOutOfRange = errors.New("sample: element out of range")

	// ErrBadMesh indicates a non-positive element or point count.
	ErrBadMesh = errors.New("sample: invalid mesh parameters")
)

func sampleErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
