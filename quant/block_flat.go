package quant

// Flat 32-element block codecs (C2): Q4_0, Q4_1, Q5_0, Q5_1, Q8_0. Byte
// offsets follow the §6 layout table exactly; the scale-selection and
// rounding rules follow §4.2 and are mirrored on the literal S1/S2 round-trip
// vectors from original_source/candle-core/tests/quantized_tests.rs
// (quantize_q4_0, quantize_q5_1).

const flatBlockLen = 32

// amax returns the value of largest magnitude in x, breaking ties toward
// the first occurrence (§4.2 step 1).
func amax(x []float32) float32 {
	best := x[0]
	bestAbs := absf(best)
	for _, v := range x[1:] {
		if a := absf(v); a > bestAbs {
			best, bestAbs = v, a
		}
	}
	return best
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func minmax(x []float32) (lo, hi float32) {
	lo, hi = x[0], x[0]
	for _, v := range x[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return
}

// encodeQ4_0 quantizes a 32-element block symmetrically into 4 signed bits.
func encodeQ4_0(x []float32, out []byte) {
	a := amax(x)
	d := a / -8
	var q [32]uint8
	if d == 0 {
		for i := range q {
			q[i] = 8
		}
	} else {
		inv := 1 / d
		for i, v := range x {
			q[i] = uint8(clampf(roundf(v*inv)+8, 0, 15))
		}
	}
	putF16(out, 0, d)
	nb := packNibblesLowHigh(q)
	copy(out[2:], nb[:])
}

func decodeQ4_0(in []byte, out []float32) {
	d := getF16(in, 0)
	q := unpackNibblesLowHigh(in[2:18])
	for i, v := range q {
		out[i] = (float32(v) - 8) * d
	}
}

// encodeQ4_1 quantizes a 32-element block asymmetrically into 4 unsigned
// bits with a per-block min.
func encodeQ4_1(x []float32, out []byte) {
	lo, hi := minmax(x)
	d := (hi - lo) / 15
	var q [32]uint8
	if d == 0 {
		for i := range q {
			q[i] = 0
		}
	} else {
		inv := 1 / d
		for i, v := range x {
			q[i] = uint8(clampf(roundf((v-lo)*inv), 0, 15))
		}
	}
	putF16(out, 0, d)
	putF16(out, 2, lo)
	nb := packNibblesLowHigh(q)
	copy(out[4:], nb[:])
}

func decodeQ4_1(in []byte, out []float32) {
	d := getF16(in, 0)
	m := getF16(in, 2)
	q := unpackNibblesLowHigh(in[4:20])
	for i, v := range q {
		out[i] = float32(v)*d + m
	}
}

// encodeQ5_0 quantizes a 32-element block symmetrically into 5 signed bits:
// 4 low bits packed nibble-style plus a high-bit plane.
func encodeQ5_0(x []float32, out []byte) {
	a := amax(x)
	d := a / -16
	var q [32]uint8
	var hi [32]bool
	if d == 0 {
		for i := range q {
			q[i] = 16
		}
	} else {
		inv := 1 / d
		for i, v := range x {
			code := uint8(clampf(roundf(v*inv)+16, 0, 31))
			q[i] = code & 0xF
			hi[i] = code&0x10 != 0
		}
	}
	putF16(out, 0, d)
	mask := packHighBitMask32(hi)
	out[2] = byte(mask)
	out[3] = byte(mask >> 8)
	out[4] = byte(mask >> 16)
	out[5] = byte(mask >> 24)
	nb := packNibblesLowHigh(q)
	copy(out[6:], nb[:])
}

func decodeQ5_0(in []byte, out []float32) {
	d := getF16(in, 0)
	mask := uint32(in[2]) | uint32(in[3])<<8 | uint32(in[4])<<16 | uint32(in[5])<<24
	q := unpackNibblesLowHigh(in[6:22])
	for i, v := range q {
		code := v
		if highBitAt(mask, i) {
			code |= 0x10
		}
		out[i] = (float32(code) - 16) * d
	}
}

// encodeQ5_1 quantizes a 32-element block asymmetrically into 5 unsigned
// bits with a per-block min.
func encodeQ5_1(x []float32, out []byte) {
	lo, hi := minmax(x)
	d := (hi - lo) / 31
	var q [32]uint8
	var hb [32]bool
	if d == 0 {
		for i := range q {
			q[i] = 0
		}
	} else {
		inv := 1 / d
		for i, v := range x {
			code := uint8(clampf(roundf((v-lo)*inv), 0, 31))
			q[i] = code & 0xF
			hb[i] = code&0x10 != 0
		}
	}
	putF16(out, 0, d)
	putF16(out, 2, lo)
	mask := packHighBitMask32(hb)
	out[4] = byte(mask)
	out[5] = byte(mask >> 8)
	out[6] = byte(mask >> 16)
	out[7] = byte(mask >> 24)
	nb := packNibblesLowHigh(q)
	copy(out[8:], nb[:])
}

func decodeQ5_1(in []byte, out []float32) {
	d := getF16(in, 0)
	m := getF16(in, 2)
	mask := uint32(in[4]) | uint32(in[5])<<8 | uint32(in[6])<<16 | uint32(in[7])<<24
	q := unpackNibblesLowHigh(in[8:24])
	for i, v := range q {
		code := v
		if highBitAt(mask, i) {
			code |= 0x10
		}
		out[i] = float32(code)*d + m
	}
}

// encodeQ8_0 quantizes a 32-element block symmetrically into signed bytes.
func encodeQ8_0(x []float32, out []byte) {
	a := amax(x)
	d := a / 127
	var q [32]int8
	if d == 0 {
		for i := range q {
			q[i] = 0
		}
	} else {
		inv := 1 / d
		for i, v := range x {
			q[i] = int8(clampf(roundf(v*inv), -128, 127))
		}
	}
	putF16(out, 0, d)
	for i, v := range q {
		out[2+i] = byte(v)
	}
}

func decodeQ8_0(in []byte, out []float32) {
	d := getF16(in, 0)
	for i := 0; i < flatBlockLen; i++ {
		out[i] = float32(int8(in[2+i])) * d
	}
}

// q8_0Codes returns the 32 signed int8 codes packed in a Q8_0 block,
// without rescaling — used directly by the dot product (C4).
func q8_0Codes(in []byte) [32]int8 {
	var q [32]int8
	for i := 0; i < flatBlockLen; i++ {
		q[i] = int8(in[2+i])
	}
	return q
}

// q8_0Sum returns the sum of a Q8_0 block's raw int8 codes, used by the
// asymmetric flat formats' dot product to apply the per-block min
// correction without redecoding every companion weight to float32.
func q8_0Sum(in []byte) int32 {
	var sum int32
	for i := 0; i < flatBlockLen; i++ {
		sum += int32(int8(in[2+i]))
	}
	return sum
}

// dotQ4_0 implements the quantized dot product of a Q4_0 block against its
// companion Q8_0 block (§4.4): codes are re-centered by -8 before the
// integer accumulation, matching decodeQ4_0's (v-8)*d.
func dotQ4_0(a, b []byte) float32 {
	dA := getF16(a, 0)
	q := unpackNibblesLowHigh(a[2:18])
	qB := q8_0Codes(b)
	dB := getF16(b, 0)
	var isum int32
	for i, v := range q {
		isum += (int32(v) - 8) * int32(qB[i])
	}
	return dA * dB * float32(isum)
}

// dotQ4_1 is Q4_0's asymmetric sibling: unsigned codes plus a per-block min
// that contributes min_A * Σq_B to the accumulation (§4.4).
func dotQ4_1(a, b []byte) float32 {
	dA := getF16(a, 0)
	mA := getF16(a, 2)
	q := unpackNibblesLowHigh(a[4:20])
	qB := q8_0Codes(b)
	dB := getF16(b, 0)
	var isum int32
	for i, v := range q {
		isum += int32(v) * int32(qB[i])
	}
	return dA*dB*float32(isum) + mA*dB*float32(q8_0Sum(b))
}

func dotQ5_0(a, b []byte) float32 {
	dA := getF16(a, 0)
	mask := uint32(a[2]) | uint32(a[3])<<8 | uint32(a[4])<<16 | uint32(a[5])<<24
	q := unpackNibblesLowHigh(a[6:22])
	qB := q8_0Codes(b)
	dB := getF16(b, 0)
	var isum int32
	for i, v := range q {
		code := v
		if highBitAt(mask, i) {
			code |= 0x10
		}
		isum += (int32(code) - 16) * int32(qB[i])
	}
	return dA * dB * float32(isum)
}

func dotQ5_1(a, b []byte) float32 {
	dA := getF16(a, 0)
	mA := getF16(a, 2)
	mask := uint32(a[4]) | uint32(a[5])<<8 | uint32(a[6])<<16 | uint32(a[7])<<24
	q := unpackNibblesLowHigh(a[8:24])
	qB := q8_0Codes(b)
	dB := getF16(b, 0)
	var isum int32
	for i, v := range q {
		code := v
		if highBitAt(mask, i) {
			code |= 0x10
		}
		isum += int32(code) * int32(qB[i])
	}
	return dA*dB*float32(isum) + mA*dB*float32(q8_0Sum(b))
}

func dotQ8_0(a, b []byte) float32 {
	dA := getF16(a, 0)
	dB := getF16(b, 0)
	qA := q8_0Codes(a)
	qB := q8_0Codes(b)
	var isum int32
	for i := range qA {
		isum += int32(qA[i]) * int32(qB[i])
	}
	return dA * dB * float32(isum)
}
