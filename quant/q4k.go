package quant

// Q4K: 256-element super-block, 8 sub-blocks of 32, asymmetric unsigned
// 4-bit codes with a per-sub-block scale and min (§4.3, §6 row "144 bytes").
const (
	q4kSubBlocks = 8
	q4kSubLen    = 32
	q4kNmax      = 15
)

// byte layout: d,dmin:f16 ‖ scales[12] (8 scale + 8 min, 6-bit each) ‖
// qs[128] (4-bit codes, 256 values)
func encodeQ4K(x []float32, out []byte) {
	var trueScale, trueMin [q4kSubBlocks]float32
	codes := make([]uint8, superBlockLen)
	for s := 0; s < q4kSubBlocks; s++ {
		sub := x[s*q4kSubLen : (s+1)*q4kSubLen]
		d, m, q := refineAsymmetricScale(sub, q4kNmax)
		trueScale[s], trueMin[s] = d, m
		for i, qi := range q {
			codes[s*q4kSubLen+i] = uint8(qi)
		}
	}
	dScale := maxAbsF(trueScale[:]) / 63
	dMin := maxAbsF(trueMin[:]) / 63

	sixbit := make([]uint8, 2*q4kSubBlocks)
	for s := 0; s < q4kSubBlocks; s++ {
		sixbit[s] = quantizeToNBits(trueScale[s], dScale, 63)
		// Negated, see q2k.go's encodeQ2K for why.
		sixbit[q4kSubBlocks+s] = quantizeToNBits(-trueMin[s], dMin, 63)
	}

	putF16(out, 0, dScale)
	putF16(out, 2, dMin)
	copy(out[4:16], pack6BitStream(sixbit))
	copy(out[16:144], packNibbleStreamSeq(codes))
}

func decodeQ4K(in []byte, out []float32) {
	d := getF16(in, 0)
	dmin := getF16(in, 2)
	sixbit := unpack6BitStream(in[4:16], 2*q4kSubBlocks)
	codes := unpackNibbleStreamSeq(in[16:144], superBlockLen)
	for s := 0; s < q4kSubBlocks; s++ {
		scale := d * float32(sixbit[s])
		min := dmin * float32(sixbit[q4kSubBlocks+s]) // stores -trueMin; see encodeQ4K
		base := s * q4kSubLen
		for i := 0; i < q4kSubLen; i++ {
			out[base+i] = scale*float32(codes[base+i]) - min
		}
	}
}

func dotQ4K(a []byte, b []byte) float32 {
	d := getF16(a, 0)
	dmin := getF16(a, 2)
	sixbit := unpack6BitStream(a[4:16], 2*q4kSubBlocks)
	codes := unpackNibbleStreamSeq(a[16:144], superBlockLen)
	qA := make([]int32, superBlockLen)
	var trueScale, trueMin [q4kSubBlocks]float32
	for s := 0; s < q4kSubBlocks; s++ {
		trueScale[s] = d * float32(sixbit[s])
		trueMin[s] = dmin * float32(sixbit[q4kSubBlocks+s])
		base := s * q4kSubLen
		for i := 0; i < q4kSubLen; i++ {
			qA[base+i] = int32(codes[base+i])
		}
	}
	dB, qB, bsums := q8kFields(b)
	return kDotAsymmetric(qA, trueScale[:], trueMin[:], q4kSubLen, dB, qB, bsums)
}
