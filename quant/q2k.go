package quant

// Q2K: 256-element super-block, 16 sub-blocks of 16, 2-bit unsigned codes
// with a per-sub-block scale and min (§4.3, §6 row "84 bytes").
const (
	q2kSubBlocks = 16
	q2kSubLen    = 16
	q2kNmax      = 3
)

// byte layout: scales[16] (low nibble=scale 0..15, high nibble=min 0..15)
// ‖ qs[64] (2-bit codes, 256 values) ‖ d:f16 ‖ dmin:f16
func encodeQ2K(x []float32, out []byte) {
	var trueScale, trueMin [q2kSubBlocks]float32
	codes := make([]uint8, superBlockLen)
	for s := 0; s < q2kSubBlocks; s++ {
		sub := x[s*q2kSubLen : (s+1)*q2kSubLen]
		d, m, q := refineAsymmetricScale(sub, q2kNmax)
		trueScale[s], trueMin[s] = d, m
		for i, qi := range q {
			codes[s*q2kSubLen+i] = uint8(qi)
		}
	}
	dScale := maxAbsF(trueScale[:]) / 15
	dMin := maxAbsF(trueMin[:]) / 15
	for s := 0; s < q2kSubBlocks; s++ {
		sc := quantizeToNBits(trueScale[s], dScale, 15)
		// Sub-block mins are stored negated so that, at code 0, decode's
		// "scale*code - storedMin" reconstructs the sub-block min (never
		// positive, see refineAsymmetricScale) instead of clamping it to 0.
		mn := quantizeToNBits(-trueMin[s], dMin, 15)
		out[s] = sc | mn<<4
	}
	copy(out[16:80], pack2BitStreamSeq(codes))
	putF16(out, 80, dScale)
	putF16(out, 82, dMin)
}

func decodeQ2K(in []byte, out []float32) {
	d := getF16(in, 80)
	dmin := getF16(in, 82)
	codes := unpack2BitStreamSeq(in[16:80], superBlockLen)
	for s := 0; s < q2kSubBlocks; s++ {
		scale := d * float32(in[s]&0xF)
		min := dmin * float32(in[s]>>4) // stores -trueMin; see encodeQ2K
		base := s * q2kSubLen
		for i := 0; i < q2kSubLen; i++ {
			out[base+i] = scale*float32(codes[base+i]) - min
		}
	}
}

// dotQ2K implements the quantized dot product of a Q2K row against its
// companion Q8K row (C4).
func dotQ2K(a []byte, b []byte) float32 {
	d := getF16(a, 80)
	dmin := getF16(a, 82)
	codes := unpack2BitStreamSeq(a[16:80], superBlockLen)
	qA := make([]int32, superBlockLen)
	var trueScale, trueMin [q2kSubBlocks]float32
	for s := 0; s < q2kSubBlocks; s++ {
		trueScale[s] = d * float32(a[s]&0xF)
		trueMin[s] = dmin * float32(a[s]>>4)
		base := s * q2kSubLen
		for i := 0; i < q2kSubLen; i++ {
			qA[base+i] = int32(codes[base+i])
		}
	}
	dB, qB, bsums := q8kFields(b)
	return kDotAsymmetric(qA, trueScale[:], trueMin[:], q2kSubLen, dB, qB, bsums)
}
