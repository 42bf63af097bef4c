package quant

// Q8K: 256-element super-block, plain signed 8-bit quantization with a
// single f32 scale and 16 precomputed 16-lane block sums (§4.3, §6 row
// "292 bytes"). It is the companion right-hand-side format for every
// super-block format's quantized dot product, including its own; the block
// sums let the dot product skip re-summing every lane from q8 codes.
// Quantize and Dequantize also accept it like any other format.
const (
	q8kGroups  = 16
	q8kGroupSz = 16
)

// byte layout: d:f32 ‖ qs[256] (int8) ‖ bsums[16]int16
func encodeQ8K(x []float32, out []byte) {
	a := amax(x)
	var d float32
	if a != 0 {
		d = a / 127
	}
	var inv float32
	if d != 0 {
		inv = 1 / d
	}
	qs := make([]int8, superBlockLen)
	for i, v := range x {
		qs[i] = int8(clampf(roundf(v*inv), -128, 127))
	}
	for i, q := range qs {
		out[4+i] = byte(q)
	}
	for g := 0; g < q8kGroups; g++ {
		var sum int32
		for i := 0; i < q8kGroupSz; i++ {
			sum += int32(qs[g*q8kGroupSz+i])
		}
		putI16(out, 4+superBlockLen+2*g, int16(sum))
	}
	putF32(out, 0, d)
}

func decodeQ8K(in []byte, out []float32) {
	d := getF32(in, 0)
	for i := range out {
		out[i] = d * float32(int8(in[4+i]))
	}
}

// q8kFields extracts the fields of an encoded Q8K row needed by the
// companion super-block formats' dot-product functions: the row scale, the
// raw int8 codes, and the precomputed per-group sums.
func q8kFields(b []byte) (dB float32, qB []int8, bsums []int16) {
	dB = getF32(b, 0)
	qB = make([]int8, superBlockLen)
	for i := range qB {
		qB[i] = int8(b[4+i])
	}
	bsums = make([]int16, q8kGroups)
	for g := range bsums {
		bsums[g] = getI16(b, 4+superBlockLen+2*g)
	}
	return dB, qB, bsums
}
