package quant

// Q3K: 256-element super-block, 16 sub-blocks of 16, symmetric signed 3-bit
// codes (2 low bits plus an inverted high-bit plane) with a single
// per-sub-block scale, no min (§4.3, §6 row "110 bytes").
const (
	q3kSubBlocks = 16
	q3kSubLen    = 16
	q3kElemNmax  = 4  // per-element 3-bit signed code range [-4, 3]
	q3kScaleNmax = 32 // 6-bit sub-block scale encoding range [-32, 31]
)

// byte layout: hmask[32] ‖ qs[64] (2 low bits) ‖ scales[12] (6-bit, biased
// +32) ‖ d:f16
func encodeQ3K(x []float32, out []byte) {
	var trueScale [q3kSubBlocks]float32
	codes := make([]int32, superBlockLen)
	for s := 0; s < q3kSubBlocks; s++ {
		sub := x[s*q3kSubLen : (s+1)*q3kSubLen]
		d, q := refineSymmetricScale(sub, q3kElemNmax)
		trueScale[s] = d
		copy(codes[s*q3kSubLen:], q)
	}
	dScale := maxAbsF(trueScale[:]) / q3kScaleNmax
	scale6 := make([]uint8, q3kSubBlocks)
	for s := range scale6 {
		sc := int32(clampf(roundf(trueScale[s]/orOne(dScale)), -q3kScaleNmax, q3kScaleNmax-1))
		scale6[s] = uint8(sc + q3kScaleNmax)
	}

	low2 := make([]uint8, superBlockLen)
	hi := make([]bool, superBlockLen)
	for i, q := range codes {
		code := uint8(q + q3kElemNmax) // 0..7
		low2[i] = code & 0x3
		hi[i] = code < 4
	}

	copy(out[0:32], packBitPlane(hi))
	copy(out[32:96], pack2BitStreamSeq(low2))
	copy(out[96:108], pack6BitStream(scale6))
	putF16(out, 108, dScale)
}

func orOne(d float32) float32 {
	if d == 0 {
		return 1
	}
	return d
}

func decodeQ3K(in []byte, out []float32) {
	d := getF16(in, 108)
	scale6 := unpack6BitStream(in[96:108], q3kSubBlocks)
	low2 := unpack2BitStreamSeq(in[32:96], superBlockLen)
	for s := 0; s < q3kSubBlocks; s++ {
		scale := d * float32(int32(scale6[s])-q3kScaleNmax)
		base := s * q3kSubLen
		for i := 0; i < q3kSubLen; i++ {
			idx := base + i
			code := low2[idx]
			if bitPlaneAt(in[0:32], idx) {
				// high bit set: use the low three-bit value as-is.
			} else {
				code += 4
			}
			out[idx] = scale * (float32(code) - q3kElemNmax)
		}
	}
}

func dotQ3K(a []byte, b []byte) float32 {
	d := getF16(a, 108)
	scale6 := unpack6BitStream(a[96:108], q3kSubBlocks)
	low2 := unpack2BitStreamSeq(a[32:96], superBlockLen)
	qA := make([]int32, superBlockLen)
	var trueScale [q3kSubBlocks]float32
	for s := 0; s < q3kSubBlocks; s++ {
		trueScale[s] = d * float32(int32(scale6[s])-q3kScaleNmax)
		base := s * q3kSubLen
		for i := 0; i < q3kSubLen; i++ {
			idx := base + i
			code := low2[idx]
			if !bitPlaneAt(a[0:32], idx) {
				code += 4
			}
			qA[idx] = int32(code) - q3kElemNmax
		}
	}
	dB, qB, _ := q8kFields(b)
	return kDotSymmetric(qA, trueScale[:], q3kSubLen, dB, qB)
}
