package quant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQTensorForwardMatchesMatMul(t *testing.T) {
	const m, k, n = 2, 256, 3
	dense := make([]float32, n*k)
	for i := range dense {
		dense[i] = float32(0.03 * float64(i%23-11))
	}
	a := make([]float32, m*k)
	for i := range a {
		a[i] = float32(0.02 * float64(i%19-9))
	}

	tensor, err := NewQTensor(dense, n, k, FormatQ4K)
	require.NoError(t, err)
	assert.Equal(t, FormatQ4K, tensor.Format())
	rows, cols := tensor.Shape()
	assert.Equal(t, n, rows)
	assert.Equal(t, k, cols)
	assert.Equal(t, (k/FormatQ4K.BlockLen())*FormatQ4K.BlockBytes()*n, tensor.ByteSize())

	viaForward, err := tensor.Forward(context.Background(), a)
	require.NoError(t, err)

	packed, err := Quantize(dense, FormatQ4K)
	require.NoError(t, err)
	viaMatMul, err := QMatMulForward(context.Background(), a, m, k, packed, FormatQ4K, n)
	require.NoError(t, err)

	require.Equal(t, viaMatMul, viaForward)
}

func TestQTensorForwardShapeMismatch(t *testing.T) {
	tensor, err := NewQTensor(make([]float32, 256), 1, 256, FormatQ4_0)
	require.NoError(t, err)
	_, err = tensor.Forward(context.Background(), make([]float32, 255))
	var shape *ShapeMismatchError
	require.ErrorAs(t, err, &shape)
}

func TestQTensorString(t *testing.T) {
	tensor, err := NewQTensor(make([]float32, 32), 1, 32, FormatQ4_0)
	require.NoError(t, err)
	assert.Contains(t, tensor.String(), "Q4_0")
	lv := tensor.LogValue()
	assert.NotEmpty(t, lv.String())
}
