package quant

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// referenceVector returns v_i = 0.1 + 2*cos(i) for i in [0, n), the fixture
// used throughout the round-trip and dot-product accuracy checks.
func referenceVector(n int, offset int) []float32 {
	x := make([]float32, n)
	for i := range x {
		x[i] = float32(0.1 + 2*math.Cos(float64(i+offset)))
	}
	return x
}

func rmse(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(a)))
}

func roundTrip(t *testing.T, x []float32, f Format) []float32 {
	t.Helper()
	packed, err := Quantize(x, f)
	require.NoError(t, err)
	require.Equal(t, (len(x)/f.BlockLen())*f.BlockBytes(), len(packed))
	out, err := Dequantize(packed, f, len(x))
	require.NoError(t, err)
	return out
}

func TestRoundTripBound(t *testing.T) {
	x := referenceVector(32*128, 0)
	cases := []struct {
		f   Format
		tau float64
	}{
		{FormatQ4_0, 0.002},
		{FormatQ4_1, 0.002},
		{FormatQ5_0, 0.002},
		{FormatQ5_1, 0.002},
		{FormatQ8_0, 0.002},
		{FormatQ2K, 0.0075},
		{FormatQ3K, 0.004},
		{FormatQ4K, 0.002},
		{FormatQ5K, 0.002},
		{FormatQ6K, 0.002},
		{FormatQ8K, 0.002},
	}
	for _, c := range cases {
		t.Run(c.f.String(), func(t *testing.T) {
			out := roundTrip(t, x, c.f)
			err := rmse(x, out)
			assert.LessOrEqualf(t, err, c.tau, "rmse %f exceeds tolerance %f", err, c.tau)
		})
	}
}

func TestByteSizeLaw(t *testing.T) {
	x := referenceVector(32*128, 0)
	for f := Format(0); f < formatCount; f++ {
		packed, err := Quantize(x, f)
		require.NoError(t, err)
		assert.Equal(t, (len(x)/f.BlockLen())*f.BlockBytes(), len(packed))
	}
}

func TestDecodeIdempotence(t *testing.T) {
	x := referenceVector(256, 0)
	for _, f := range []Format{FormatQ4_0, FormatQ5_1, FormatQ8_0, FormatQ4K, FormatQ6K} {
		t.Run(f.String(), func(t *testing.T) {
			once := roundTrip(t, x, f)
			twice := roundTrip(t, once, f)
			assert.Equal(t, once, twice)
		})
	}
}

func TestZeroVectorRoundTrip(t *testing.T) {
	for f := Format(0); f < formatCount; f++ {
		t.Run(f.String(), func(t *testing.T) {
			x := make([]float32, f.BlockLen())
			packed, err := Quantize(x, f)
			require.NoError(t, err)
			assert.Equal(t, f.BlockBytes(), len(packed))
			out, err := Dequantize(packed, f, f.BlockLen())
			require.NoError(t, err)
			for _, v := range out {
				assert.Equal(t, float32(0), v)
			}
		})
	}
}

// TestQ4_0FirstBlock reproduces the literal round-trip vector for the first
// Q4_0 block of x = 0..31: amax=31 gives d=-3.875, and rounding produces the
// repeated-run-of-four pattern the source tests assert on for x = 0..128.
func TestQ4_0FirstBlock(t *testing.T) {
	x := make([]float32, 32)
	for i := range x {
		x[i] = float32(i)
	}
	out := roundTrip(t, x, FormatQ4_0)
	want := []float32{
		0, 0, 3.875, 3.875, 3.875, 3.875,
		7.75, 7.75, 7.75, 7.75,
		11.625, 11.625, 11.625, 11.625,
		15.5, 15.5, 15.5, 15.5,
		19.375, 19.375, 19.375, 19.375,
		23.25, 23.25, 23.25, 23.25,
		27.125, 27.125, 27.125, 27.125,
		31, 31,
	}
	require.Len(t, out, len(want))
	for i := range want {
		assert.InDelta(t, want[i], out[i], 1e-4, "index %d", i)
	}
}

// TestQ5_1IntegerRamp covers S2: asymmetric 5-bit quantization of a block of
// 32 consecutive integers reconstructs every value exactly, since the
// per-block scale d=(hi-lo)/31 is always exactly 1.
func TestQ5_1IntegerRamp(t *testing.T) {
	x := make([]float32, 128)
	for i := range x {
		x[i] = float32(i)
	}
	out := roundTrip(t, x, FormatQ5_1)
	require.Len(t, out, len(x))
	for i := range x {
		assert.InDelta(t, x[i], out[i], 1e-4, "index %d", i)
	}
}

// bigRangeVector returns a linear ramp v_i = (i - n/2) * bound / (n/2) from
// -bound up to just under bound, a wide-swing fixture used by
// TestBigRangeRoundTrip (S8) to catch scale-range clamping bugs a
// [-0.5, 0.5] vector can't exercise.
func bigRangeVector(n int, bound float64) []float32 {
	x := make([]float32, n)
	half := float64(n) / 2
	for i := range x {
		x[i] = float32((float64(i) - half) * bound / half)
	}
	return x
}

// TestBigRangeRoundTrip covers S8: in addition to TestRoundTripBound's
// 0.1+2cos(i) fixture, every K-format round-trips a bound=128 vector
// within a looser per-format tolerance (original_source/candle-core's
// quantized_tests.rs).
func TestBigRangeRoundTrip(t *testing.T) {
	x := bigRangeVector(32*128, 128)
	cases := []struct {
		f   Format
		tau float64
	}{
		{FormatQ2K, 6.0},
		{FormatQ3K, 3.5},
		{FormatQ4K, 4.5},
		{FormatQ5K, 4.5},
		{FormatQ6K, 2.0},
		{FormatQ8K, 0.6},
	}
	for _, c := range cases {
		t.Run(c.f.String(), func(t *testing.T) {
			out := roundTrip(t, x, c.f)
			err := rmse(x, out)
			assert.LessOrEqualf(t, err, c.tau, "rmse %f exceeds tolerance %f", err, c.tau)
		})
	}
}

func TestQ8_0NearExact(t *testing.T) {
	x := referenceVector(256, 0)
	out := roundTrip(t, x, FormatQ8_0)
	for i := range x {
		assert.InDelta(t, x[i], out[i], 0.02, "index %d", i)
	}
}
