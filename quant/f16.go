package quant

import (
	"encoding/binary"
	"math"

	"github.com/x448/float16"
)

// f16 is the scale/min interchange format used by every flat and
// super-block layout except Q8K (which stores its scale as a plain f32 for
// extra precision in the companion accumulation, per §6). Conversion goes
// through x448/float16 rather than any native hardware instruction, so the
// bit pattern is identical on every platform this package runs on.

// putF16 writes v into buf[off:off+2] as a little-endian IEEE-754 binary16.
func putF16(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint16(buf[off:], uint16(float16.Fromfloat32(v)))
}

// getF16 reads a little-endian IEEE-754 binary16 out of buf[off:off+2].
func getF16(buf []byte, off int) float32 {
	return float16.Frombits(binary.LittleEndian.Uint16(buf[off:])).Float32()
}

// putF32 writes v into buf[off:off+4] as little-endian IEEE-754 binary32
// (used only by Q8K's top-level scale).
func putF32(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
}

// getF32 reads a little-endian IEEE-754 binary32 out of buf[off:off+4].
func getF32(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

// putI16 writes v into buf[off:off+2] as a little-endian signed 16-bit
// integer (used by Q8K's precomputed block sums).
func putI16(buf []byte, off int, v int16) {
	binary.LittleEndian.PutUint16(buf[off:], uint16(v))
}

// getI16 reads a little-endian signed 16-bit integer out of buf[off:off+2].
func getI16(buf []byte, off int) int16 {
	return int16(binary.LittleEndian.Uint16(buf[off:]))
}
