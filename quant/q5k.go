package quant

// Q5K: 256-element super-block, 8 sub-blocks of 32, asymmetric unsigned
// 5-bit codes (4 low bits plus a high-bit plane) with a per-sub-block scale
// and min (§4.3, §6 row "176 bytes").
const (
	q5kSubBlocks = 8
	q5kSubLen    = 32
	q5kNmax      = 31
)

// byte layout: d,dmin:f16 ‖ scales[12] ‖ hmask[32] ‖ qs[128] (4 low bits)
func encodeQ5K(x []float32, out []byte) {
	var trueScale, trueMin [q5kSubBlocks]float32
	codes := make([]uint8, superBlockLen)
	for s := 0; s < q5kSubBlocks; s++ {
		sub := x[s*q5kSubLen : (s+1)*q5kSubLen]
		d, m, q := refineAsymmetricScale(sub, q5kNmax)
		trueScale[s], trueMin[s] = d, m
		for i, qi := range q {
			codes[s*q5kSubLen+i] = uint8(qi)
		}
	}
	dScale := maxAbsF(trueScale[:]) / 63
	dMin := maxAbsF(trueMin[:]) / 63

	sixbit := make([]uint8, 2*q5kSubBlocks)
	for s := 0; s < q5kSubBlocks; s++ {
		sixbit[s] = quantizeToNBits(trueScale[s], dScale, 63)
		// Negated, see q2k.go's encodeQ2K for why.
		sixbit[q5kSubBlocks+s] = quantizeToNBits(-trueMin[s], dMin, 63)
	}

	low4 := make([]uint8, superBlockLen)
	hi := make([]bool, superBlockLen)
	for i, c := range codes {
		low4[i] = c & 0xF
		hi[i] = c&0x10 != 0
	}

	putF16(out, 0, dScale)
	putF16(out, 2, dMin)
	copy(out[4:16], pack6BitStream(sixbit))
	copy(out[16:48], packBitPlane(hi))
	copy(out[48:176], packNibbleStreamSeq(low4))
}

func decodeQ5K(in []byte, out []float32) {
	d := getF16(in, 0)
	dmin := getF16(in, 2)
	sixbit := unpack6BitStream(in[4:16], 2*q5kSubBlocks)
	low4 := unpackNibbleStreamSeq(in[48:176], superBlockLen)
	for s := 0; s < q5kSubBlocks; s++ {
		scale := d * float32(sixbit[s])
		min := dmin * float32(sixbit[q5kSubBlocks+s]) // stores -trueMin; see encodeQ5K
		base := s * q5kSubLen
		for i := 0; i < q5kSubLen; i++ {
			idx := base + i
			code := low4[idx]
			if bitPlaneAt(in[16:48], idx) {
				code |= 0x10
			}
			out[idx] = scale*float32(code) - min
		}
	}
}

func dotQ5K(a []byte, b []byte) float32 {
	d := getF16(a, 0)
	dmin := getF16(a, 2)
	sixbit := unpack6BitStream(a[4:16], 2*q5kSubBlocks)
	low4 := unpackNibbleStreamSeq(a[48:176], superBlockLen)
	qA := make([]int32, superBlockLen)
	var trueScale, trueMin [q5kSubBlocks]float32
	for s := 0; s < q5kSubBlocks; s++ {
		trueScale[s] = d * float32(sixbit[s])
		trueMin[s] = dmin * float32(sixbit[q5kSubBlocks+s])
		base := s * q5kSubLen
		for i := 0; i < q5kSubLen; i++ {
			idx := base + i
			code := low4[idx]
			if bitPlaneAt(a[16:48], idx) {
				code |= 0x10
			}
			qA[idx] = int32(code)
		}
	}
	dB, qB, bsums := q8kFields(b)
	return kDotAsymmetric(qA, trueScale[:], trueMin[:], q5kSubLen, dB, qB, bsums)
}
