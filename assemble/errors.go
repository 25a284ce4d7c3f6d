// SPDX-License-Identifier: MIT

package assemble

import (
	"errors"
	"fmt"
)

var (
	// ErrOverflow indicates that planned offsets exceed the record counter range.
	ErrOverflow = errors.New("assemble: offset overflow")

	// ErrBadPlan indicates a size table inconsistent with its owners.
	ErrBadPlan = errors.New("assemble: inconsistent size table")

	// ErrEvaluation wraps any failure while evaluating an element.
	ErrEvaluation = errors.New("assemble: evaluation failed")
)

func assembleErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// elementErrorf tags an element failure with ErrEvaluation and keeps the cause matchable.
func elementErrorf(tag string, elem int, err error) error {
	return fmt.Errorf("%s: element %d: %w: %w", tag, elem, ErrEvaluation, err)
}
