package quant

// Quantized dot product (C4): accumulates the inner product of a row
// quantized in format f against its already-companion-quantized counterpart,
// block by block in ascending order, without ever materializing the dense
// float32 vectors (§4.4, §5 "sequential block traversal").

// QDot computes the dot product of two equal-length rows, a encoded in
// format fa and b encoded in format fb, over n logical elements. fb must be
// fa's companion format, or QDot returns UnsupportedFormatPairError.
func QDot(a []byte, fa Format, b []byte, fb Format, n int) (float32, error) {
	if !fa.valid() {
		return 0, &UnsupportedFormatError{Tag: uint8(fa)}
	}
	if !fb.valid() {
		return 0, &UnsupportedFormatError{Tag: uint8(fb)}
	}
	wantCompanion, err := fa.Companion()
	if err != nil {
		return 0, err
	}
	if fb != wantCompanion {
		return 0, &UnsupportedFormatPairError{Op: "QDot", A: fa, B: fb}
	}
	if n%fa.BlockLen() != 0 {
		return 0, &BlockLenMismatchError{Op: "QDot", ExpectedMultipleOf: fa.BlockLen(), Got: n}
	}

	blocks := n / fa.BlockLen()
	wantA := blocks * fa.BlockBytes()
	wantB := blocks * fb.BlockBytes()
	if len(a) < wantA || len(b) < wantB {
		return 0, &ShapeMismatchError{Op: "QDot", Expected: []int{wantA, wantB}, Got: []int{len(a), len(b)}}
	}

	var sum float32
	for blk := 0; blk < blocks; blk++ {
		ablk := a[blk*fa.BlockBytes() : (blk+1)*fa.BlockBytes()]
		bblk := b[blk*fb.BlockBytes() : (blk+1)*fb.BlockBytes()]
		sum += dotBlock(fa, ablk, bblk)
	}
	return sum, nil
}

// dotBlock dispatches to the per-format quantized dot-product implementation
// for a single block (or super-block) pair.
func dotBlock(f Format, a, b []byte) float32 {
	switch f {
	case FormatQ4_0:
		return dotQ4_0(a, b)
	case FormatQ4_1:
		return dotQ4_1(a, b)
	case FormatQ5_0:
		return dotQ5_0(a, b)
	case FormatQ5_1:
		return dotQ5_1(a, b)
	case FormatQ8_0:
		return dotQ8_0(a, b)
	case FormatQ2K:
		return dotQ2K(a, b)
	case FormatQ3K:
		return dotQ3K(a, b)
	case FormatQ4K:
		return dotQ4K(a, b)
	case FormatQ5K:
		return dotQ5K(a, b)
	case FormatQ6K:
		return dotQ6K(a, b)
	case FormatQ8K:
		dA, qA, _ := q8kFields(a)
		dB, qB, _ := q8kFields(b)
		var isum int32
		for i := range qA {
			isum += int32(qA[i]) * int32(qB[i])
		}
		return dA * dB * float32(isum)
	default:
		panic("quant: dotBlock: unreachable format " + f.String())
	}
}
