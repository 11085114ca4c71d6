package level2_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disasterscience/nexrad/internal/archivegen"
	"github.com/disasterscience/nexrad/internal/level2"
)

func TestIsCompressed(t *testing.T) {
	b := fixtureBuilder()
	b.LegacyFrames = 1

	plain := b.Build()
	assert.False(t, level2.IsCompressed(plain))

	compressed, err := b.BuildCompressed()
	require.NoError(t, err)
	assert.True(t, level2.IsCompressed(compressed))

	assert.False(t, level2.IsCompressed(nil))
	assert.False(t, level2.IsCompressed(compressed[:29]), "marker needs both bytes")
}

func TestDecompressRejectsPlainInput(t *testing.T) {
	b := fixtureBuilder()
	b.Radials = []archivegen.Radial{{ElevationNumber: 1, AzimuthNumber: 1}}

	_, err := level2.Decompress(b.Build())
	require.ErrorIs(t, err, level2.ErrDecompressionUnsupported)
}

func TestDecompressRoundtrip(t *testing.T) {
	b := fixtureBuilder()
	b.LegacyFrames = 2
	for i := 0; i < 3; i++ {
		b.Radials = append(b.Radials, archivegen.Radial{
			ElevationNumber: 1,
			AzimuthNumber:   uint16(i + 1),
			Azimuth:         float32(i) * 0.5,
			Moments:         []archivegen.Moment{archivegen.RefMoment(16)},
		})
	}

	compressed, err := b.BuildCompressed()
	require.NoError(t, err)

	plain, err := level2.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, b.Build(), plain, "decompressed records must reassemble the plaintext volume")
}

func TestDecompressTrailingGarbage(t *testing.T) {
	b := fixtureBuilder()
	b.LegacyFrames = 1

	compressed, err := b.BuildCompressed()
	require.NoError(t, err)
	compressed = append(compressed, 'A', 'B')

	_, err = level2.Decompress(compressed)
	require.ErrorIs(t, err, level2.ErrTruncated)
}

func TestDecompressControlWordPastEnd(t *testing.T) {
	data := make([]byte, level2.VolumeHeaderSize, 64)
	data = binary.BigEndian.AppendUint32(data, 1000)
	data = append(data, "BZh91AY&SY"...) // a plausible stream start, far shorter than claimed

	_, err := level2.Decompress(data)
	require.ErrorIs(t, err, level2.ErrTruncated)
}

func TestDecompressControlWordMinInt32(t *testing.T) {
	// 0x80000000 survives the final-record negation as a negative size when
	// int is 32 bits wide; the guard must reject it, not slice with it.
	data := make([]byte, level2.VolumeHeaderSize, 64)
	data = binary.BigEndian.AppendUint32(data, 0x80000000)
	data = append(data, "BZh91AY&SY"...)

	_, err := level2.Decompress(data)
	require.ErrorIs(t, err, level2.ErrTruncated)
}
