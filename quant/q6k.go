package quant

// Q6K: 256-element super-block, 16 sub-blocks of 16, symmetric signed 6-bit
// codes (4 low bits plus a 2-bit high plane) with a per-sub-block scale
// stored as a literal int8, no min (§4.3, §6 row "210 bytes").
const (
	q6kSubBlocks = 16
	q6kSubLen    = 16
	q6kNmax      = 32 // code range [-32, 31]
)

// byte layout: ql[128] (4 low bits) ‖ qh[64] (2 high bits) ‖ scales[16]
// (int8) ‖ d:f16
func encodeQ6K(x []float32, out []byte) {
	var trueScale [q6kSubBlocks]float32
	codes := make([]int32, superBlockLen)
	for s := 0; s < q6kSubBlocks; s++ {
		sub := x[s*q6kSubLen : (s+1)*q6kSubLen]
		d, q := refineSymmetricScale(sub, q6kNmax)
		trueScale[s] = d
		copy(codes[s*q6kSubLen:], q)
	}
	dScale := maxAbsF(trueScale[:]) / 127
	scales := make([]int8, q6kSubBlocks)
	for s := range scales {
		scales[s] = int8(clampf(roundf(trueScale[s]/orOne(dScale)), -128, 127))
	}

	low4 := make([]uint8, superBlockLen)
	hi2 := make([]uint8, superBlockLen)
	for i, q := range codes {
		code := uint8(q + 32) // 0..63
		low4[i] = code & 0xF
		hi2[i] = code >> 4
	}

	copy(out[0:128], packNibbleStreamSeq(low4))
	copy(out[128:192], pack2BitStreamSeq(hi2))
	for s, sc := range scales {
		out[192+s] = byte(sc)
	}
	putF16(out, 208, dScale)
}

func decodeQ6K(in []byte, out []float32) {
	d := getF16(in, 208)
	low4 := unpackNibbleStreamSeq(in[0:128], superBlockLen)
	hi2 := unpack2BitStreamSeq(in[128:192], superBlockLen)
	for s := 0; s < q6kSubBlocks; s++ {
		scale := d * float32(int8(in[192+s]))
		base := s * q6kSubLen
		for i := 0; i < q6kSubLen; i++ {
			idx := base + i
			code := low4[idx] | hi2[idx]<<4
			out[idx] = scale * (float32(code) - 32)
		}
	}
}

func dotQ6K(a []byte, b []byte) float32 {
	d := getF16(a, 208)
	low4 := unpackNibbleStreamSeq(a[0:128], superBlockLen)
	hi2 := unpack2BitStreamSeq(a[128:192], superBlockLen)
	qA := make([]int32, superBlockLen)
	var trueScale [q6kSubBlocks]float32
	for s := 0; s < q6kSubBlocks; s++ {
		trueScale[s] = d * float32(int8(a[192+s]))
		base := s * q6kSubLen
		for i := 0; i < q6kSubLen; i++ {
			idx := base + i
			code := low4[idx] | hi2[idx]<<4
			qA[idx] = int32(code) - 32
		}
	}
	dB, qB, _ := q8kFields(b)
	return kDotSymmetric(qA, trueScale[:], q6kSubLen, dB, qB)
}
