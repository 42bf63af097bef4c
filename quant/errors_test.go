package quant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeMismatchError(t *testing.T) {
	_, err := NewQTensor(make([]float32, 10), 2, 6, FormatQ4_0)
	require.Error(t, err)
	shape, ok := errAs[*ShapeMismatchError](err)
	require.True(t, ok)
	assert.Equal(t, "NewQTensor", shape.Op)
	assert.Contains(t, shape.Error(), "shape mismatch")
}

func TestBlockLenMismatchError(t *testing.T) {
	_, err := Quantize(make([]float32, 33), FormatQ4_0)
	require.Error(t, err)
	mismatch, ok := errAs[*BlockLenMismatchError](err)
	require.True(t, ok)
	assert.Equal(t, 32, mismatch.ExpectedMultipleOf)
	assert.Contains(t, mismatch.Error(), "block length")
}

func TestUnsupportedFormatPairErrorMessage(t *testing.T) {
	err := &UnsupportedFormatPairError{Op: "QDot", A: FormatQ4_0, B: FormatQ2K}
	assert.Contains(t, err.Error(), "Q4_0")
	assert.Contains(t, err.Error(), "Q2K")
}

func TestErrNumericalOverflowIsSentinel(t *testing.T) {
	assert.EqualError(t, ErrNumericalOverflow, "quant: numerical overflow")
}
