package quant

import (
	"context"
	"fmt"
	"log/slog"
)

// QTensor is an immutable packed-weight matrix (C6): rows*cols float32
// weights held as quantized bytes in a single format, plus the Forward
// method that bridges into a dense runtime's matmul call without that
// runtime needing to know anything about block layouts.
type QTensor struct {
	data   []byte
	rows   int
	cols   int
	format Format
}

// NewQTensor packs a dense row-major [rows, cols] float32 matrix into a
// QTensor of format f.
func NewQTensor(dense []float32, rows, cols int, f Format) (*QTensor, error) {
	if len(dense) != rows*cols {
		return nil, &ShapeMismatchError{Op: "NewQTensor", Expected: []int{rows * cols}, Got: []int{len(dense)}}
	}
	if !f.valid() {
		return nil, &UnsupportedFormatError{Tag: uint8(f)}
	}
	if cols%f.BlockLen() != 0 {
		return nil, &BlockLenMismatchError{Op: "NewQTensor", ExpectedMultipleOf: f.BlockLen(), Got: cols}
	}

	blocksPerRow := cols / f.BlockLen()
	rowBytes := blocksPerRow * f.BlockBytes()
	data := make([]byte, rows*rowBytes)
	for r := 0; r < rows; r++ {
		src := dense[r*cols : (r+1)*cols]
		dst := data[r*rowBytes : (r+1)*rowBytes]
		if err := quantizeRow(src, f, dst); err != nil {
			return nil, err
		}
	}
	return &QTensor{data: data, rows: rows, cols: cols, format: f}, nil
}

// Forward computes denseA · tᵀ for a dense row-major input whose trailing
// dimension matches t's column count, flattening any leading dimensions
// into a row count m and reshaping the [m, t.rows] result back out. This is
// the sole entry point a dense runtime needs to call a quantized weight
// (§3, "Forward bridges into a dense runtime").
func (t *QTensor) Forward(ctx context.Context, denseA []float32) ([]float32, error) {
	if t.cols == 0 {
		return nil, &ShapeMismatchError{Op: "QTensor.Forward", Expected: []int{t.cols}, Got: []int{0}}
	}
	if len(denseA)%t.cols != 0 {
		return nil, &ShapeMismatchError{Op: "QTensor.Forward", Expected: []int{t.cols}, Got: []int{len(denseA)}}
	}
	m := len(denseA) / t.cols
	return QMatMulForward(ctx, denseA, m, t.cols, t.data, t.format, t.rows)
}

// Shape returns (rows, cols).
func (t *QTensor) Shape() (rows, cols int) {
	return t.rows, t.cols
}

// Format returns the packed block format.
func (t *QTensor) Format() Format {
	return t.format
}

// ByteSize returns the number of packed bytes backing the tensor.
func (t *QTensor) ByteSize() int {
	return len(t.data)
}

// String implements fmt.Stringer.
func (t *QTensor) String() string {
	return fmt.Sprintf("QTensor{%dx%d %s, %d bytes}", t.rows, t.cols, t.format, len(t.data))
}

// LogValue implements slog.LogValuer so a QTensor can be passed directly to
// structured log calls without ever stringifying its packed bytes.
func (t *QTensor) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("rows", t.rows),
		slog.Int("cols", t.cols),
		slog.String("format", t.format.String()),
		slog.Int("bytes", len(t.data)),
	)
}
