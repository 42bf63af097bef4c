// Package quant implements the GGML-compatible block-quantization codecs for
// neural-network weight tensors: encoders/decoders for Q4_0, Q4_1, Q5_0,
// Q5_1, Q8_0 (flat 32-element blocks) and Q2K, Q3K, Q4K, Q5K, Q6K, Q8K
// (256-element super-blocks), plus the quantized dot product and matmul that
// compose them.
//
// Callers are expected to hand this package a contiguous row-major float32
// slice (the dense tensor runtime, file loaders, and accelerator backends
// are external collaborators and out of scope here).
package quant

import "fmt"

// Format is the tagged variant discriminating the block layouts this package
// understands. It is deliberately a small closed enum (not a string tag) so
// that internal dispatch tables are indexed directly, following the same
// enum-plus-String()-plus-Parse() shape as the teacher's TensorType.
type Format uint8

const (
	FormatQ4_0 Format = iota
	FormatQ4_1
	FormatQ5_0
	FormatQ5_1
	FormatQ8_0
	FormatQ2K
	FormatQ3K
	FormatQ4K
	FormatQ5K
	FormatQ6K
	FormatQ8K

	formatCount
)

// descriptor holds the compile-time-known facts about a format (C1).
type descriptor struct {
	name       string
	blockLen   int
	blockBytes int
	companion  Format
}

var descriptors = [formatCount]descriptor{
	FormatQ4_0: {"Q4_0", 32, 18, FormatQ8_0},
	FormatQ4_1: {"Q4_1", 32, 20, FormatQ8_0},
	FormatQ5_0: {"Q5_0", 32, 22, FormatQ8_0},
	FormatQ5_1: {"Q5_1", 32, 24, FormatQ8_0},
	FormatQ8_0: {"Q8_0", 32, 34, FormatQ8_0},
	FormatQ2K:  {"Q2K", 256, 84, FormatQ8K},
	FormatQ3K:  {"Q3K", 256, 110, FormatQ8K},
	FormatQ4K:  {"Q4K", 256, 144, FormatQ8K},
	FormatQ5K:  {"Q5K", 256, 176, FormatQ8K},
	FormatQ6K:  {"Q6K", 256, 210, FormatQ8K},
	FormatQ8K:  {"Q8K", 256, 292, FormatQ8K},
}

// valid reports whether f is a known format tag.
func (f Format) valid() bool {
	return f < formatCount
}

// BlockLen returns the number of float32 weights packed per block.
func (f Format) BlockLen() int {
	if !f.valid() {
		return 0
	}
	return descriptors[f].blockLen
}

// BlockBytes returns the packed byte size of a single block.
func (f Format) BlockBytes() int {
	if !f.valid() {
		return 0
	}
	return descriptors[f].blockBytes
}

// IsSuperBlock reports whether f is one of the 256-element K formats.
func (f Format) IsSuperBlock() bool {
	return f.valid() && descriptors[f].blockLen == 256
}

// Companion returns the format the right-hand operand of a quantized dot
// product against f must be encoded in.
func (f Format) Companion() (Format, error) {
	if !f.valid() {
		return 0, &UnsupportedFormatError{Tag: uint8(f)}
	}
	return descriptors[f].companion, nil
}

// String implements fmt.Stringer.
func (f Format) String() string {
	if !f.valid() {
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
	return descriptors[f].name
}

// ParseFormat parses a format tag from its canonical name (as used in GGUF
// metadata), e.g. "Q4_0" or "Q6K".
func ParseFormat(s string) (Format, error) {
	for i := range descriptors {
		if descriptors[i].name == s {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("quant: unsupported format %q", s)
}

// BlockSizeFor returns the block element count for f (public operation
// named in the external interface table).
func BlockSizeFor(f Format) int {
	return f.BlockLen()
}

// CompanionFormatFor returns the companion format for f (public operation
// named in the external interface table).
func CompanionFormatFor(f Format) (Format, error) {
	return f.Companion()
}
