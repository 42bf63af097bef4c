package quant

// Quantize encodes a dense row-major float32 slice into format f, returning
// the packed bytes. len(x) must be a multiple of f's block length (§7:
// "Matmul validates preconditions before any row is quantized" applies
// equally here — the whole slice is validated before any block is encoded).
func Quantize(x []float32, f Format) ([]byte, error) {
	if !f.valid() {
		return nil, &UnsupportedFormatError{Tag: uint8(f)}
	}
	if len(x)%f.BlockLen() != 0 {
		return nil, &BlockLenMismatchError{Op: "Quantize", ExpectedMultipleOf: f.BlockLen(), Got: len(x)}
	}
	out := make([]byte, (len(x)/f.BlockLen())*f.BlockBytes())
	if err := quantizeRow(x, f, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Dequantize decodes n float32 weights out of data, which must hold
// n/f.BlockLen() packed blocks of format f.
func Dequantize(data []byte, f Format, n int) ([]float32, error) {
	if !f.valid() {
		return nil, &UnsupportedFormatError{Tag: uint8(f)}
	}
	if n%f.BlockLen() != 0 {
		return nil, &BlockLenMismatchError{Op: "Dequantize", ExpectedMultipleOf: f.BlockLen(), Got: n}
	}
	blocks := n / f.BlockLen()
	want := blocks * f.BlockBytes()
	if len(data) < want {
		return nil, &ShapeMismatchError{Op: "Dequantize", Expected: []int{want}, Got: []int{len(data)}}
	}
	out := make([]float32, n)
	for blk := 0; blk < blocks; blk++ {
		in := data[blk*f.BlockBytes() : (blk+1)*f.BlockBytes()]
		dst := out[blk*f.BlockLen() : (blk+1)*f.BlockLen()]
		decodeBlock(f, in, dst)
	}
	return out, nil
}

// quantizeRow encodes x into out block by block, assuming both slices are
// already sized to whole blocks of format f.
func quantizeRow(x []float32, f Format, out []byte) error {
	blocks := len(x) / f.BlockLen()
	for blk := 0; blk < blocks; blk++ {
		src := x[blk*f.BlockLen() : (blk+1)*f.BlockLen()]
		dst := out[blk*f.BlockBytes() : (blk+1)*f.BlockBytes()]
		encodeBlock(f, src, dst)
	}
	return nil
}

func encodeBlock(f Format, x []float32, out []byte) {
	switch f {
	case FormatQ4_0:
		encodeQ4_0(x, out)
	case FormatQ4_1:
		encodeQ4_1(x, out)
	case FormatQ5_0:
		encodeQ5_0(x, out)
	case FormatQ5_1:
		encodeQ5_1(x, out)
	case FormatQ8_0:
		encodeQ8_0(x, out)
	case FormatQ2K:
		encodeQ2K(x, out)
	case FormatQ3K:
		encodeQ3K(x, out)
	case FormatQ4K:
		encodeQ4K(x, out)
	case FormatQ5K:
		encodeQ5K(x, out)
	case FormatQ6K:
		encodeQ6K(x, out)
	case FormatQ8K:
		encodeQ8K(x, out)
	default:
		panic("quant: encodeBlock: unreachable format " + f.String())
	}
}

func decodeBlock(f Format, in []byte, out []float32) {
	switch f {
	case FormatQ4_0:
		decodeQ4_0(in, out)
	case FormatQ4_1:
		decodeQ4_1(in, out)
	case FormatQ5_0:
		decodeQ5_0(in, out)
	case FormatQ5_1:
		decodeQ5_1(in, out)
	case FormatQ8_0:
		decodeQ8_0(in, out)
	case FormatQ2K:
		decodeQ2K(in, out)
	case FormatQ3K:
		decodeQ3K(in, out)
	case FormatQ4K:
		decodeQ4K(in, out)
	case FormatQ5K:
		decodeQ5K(in, out)
	case FormatQ6K:
		decodeQ6K(in, out)
	case FormatQ8K:
		decodeQ8K(in, out)
	default:
		panic("quant: decodeBlock: unreachable format " + f.String())
	}
}
