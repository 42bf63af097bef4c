package quant

import (
	"errors"
	"fmt"
)

// ShapeMismatchError reports dimensions that do not line up for matmul or
// encode.
type ShapeMismatchError struct {
	Op       string
	Expected []int
	Got      []int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("quant: %s: shape mismatch: expected %v, got %v", e.Op, e.Expected, e.Got)
}

// BlockLenMismatchError reports a dimension not divisible by a format's
// block length.
type BlockLenMismatchError struct {
	Op                 string
	ExpectedMultipleOf int
	Got                int
}

func (e *BlockLenMismatchError) Error() string {
	return fmt.Sprintf("quant: %s: %d is not a multiple of block length %d", e.Op, e.Got, e.ExpectedMultipleOf)
}

// UnsupportedFormatPairError reports a quantized dot product called across
// two formats that are not in a companion relationship.
type UnsupportedFormatPairError struct {
	Op   string
	A, B Format
}

func (e *UnsupportedFormatPairError) Error() string {
	return fmt.Sprintf("quant: %s: %s and %s are not a companion format pair", e.Op, e.A, e.B)
}

// UnsupportedFormatError reports a format tag outside the table this
// package knows about.
type UnsupportedFormatError struct {
	Tag uint8
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("quant: unsupported format tag %d", e.Tag)
}

// ErrNumericalOverflow is reserved for accumulation overflow; no valid input
// to this package's codecs is expected to trigger it.
var ErrNumericalOverflow = errors.New("quant: numerical overflow")

// errAs is a small helper used by tests and callers who want to branch on
// error kind without repeating errors.As boilerplate.
func errAs[T error](err error) (T, bool) {
	var target T
	ok := errors.As(err, &target)
	return target, ok
}
