package quant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Byte counts are contracts: every format's BlockBytes must match the
// external interface table exactly.
func TestFormatBlockBytes(t *testing.T) {
	cases := []struct {
		f          Format
		name       string
		blockLen   int
		blockBytes int
	}{
		{FormatQ4_0, "Q4_0", 32, 18},
		{FormatQ4_1, "Q4_1", 32, 20},
		{FormatQ5_0, "Q5_0", 32, 22},
		{FormatQ5_1, "Q5_1", 32, 24},
		{FormatQ8_0, "Q8_0", 32, 34},
		{FormatQ2K, "Q2K", 256, 84},
		{FormatQ3K, "Q3K", 256, 110},
		{FormatQ4K, "Q4K", 256, 144},
		{FormatQ5K, "Q5K", 256, 176},
		{FormatQ6K, "Q6K", 256, 210},
		{FormatQ8K, "Q8K", 256, 292},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.blockLen, c.f.BlockLen())
			assert.Equal(t, c.blockBytes, c.f.BlockBytes())
			assert.Equal(t, c.name, c.f.String())
		})
	}
}

func TestFormatCompanion(t *testing.T) {
	flat := []Format{FormatQ4_0, FormatQ4_1, FormatQ5_0, FormatQ5_1, FormatQ8_0}
	for _, f := range flat {
		c, err := f.Companion()
		require.NoError(t, err)
		assert.Equal(t, FormatQ8_0, c)
	}

	kformats := []Format{FormatQ2K, FormatQ3K, FormatQ4K, FormatQ5K, FormatQ6K, FormatQ8K}
	for _, f := range kformats {
		c, err := f.Companion()
		require.NoError(t, err)
		assert.Equal(t, FormatQ8K, c)
		assert.True(t, f.IsSuperBlock())
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for f := Format(0); f < formatCount; f++ {
		parsed, err := ParseFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}

	_, err := ParseFormat("not-a-format")
	assert.Error(t, err)
}

func TestUnsupportedFormatTag(t *testing.T) {
	bad := formatCount
	assert.False(t, bad.valid())
	assert.Equal(t, 0, bad.BlockLen())
	_, err := bad.Companion()
	var unsupported *UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
}
