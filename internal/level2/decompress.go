package level2

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
)

// compressionMarker is the leading two bytes of the first compressed record's
// bzip2 magic, found directly after the 24-byte volume header.
const compressionMarker = "BZ"

// IsCompressed reports whether data holds a bzip2-framed archive. It is a
// pure function of bytes 28..30.
func IsCompressed(data []byte) bool {
	return len(data) >= 30 && string(data[28:30]) == compressionMarker
}

// Decompress reassembles the plaintext volume from a bzip2-framed archive.
//
// The volume header is stored uncompressed and copied through verbatim. The
// rest of the file is a sequence of records, each a 4-byte big-endian control
// word holding the compressed length (negative on the final record) followed
// by one bzip2 stream. The control word terminates each stream for the
// decompressor; the walk still advances by the compressed byte count the
// decompressor itself reports, so a record whose control word disagrees with
// its stream fails loudly on the next iteration instead of desynchronizing.
//
// Input that is not compressed fails with ErrDecompressionUnsupported before
// anything is consumed. Any corrupt or truncated record aborts the whole file
// with no partial output.
func Decompress(data []byte) ([]byte, error) {
	if !IsCompressed(data) {
		return nil, fmt.Errorf("%w: no %q marker at byte %d", ErrDecompressionUnsupported, compressionMarker, VolumeHeaderSize+4)
	}

	out := make([]byte, 0, len(data)*4)
	out = append(out, data[:VolumeHeaderSize]...)
	rest := data[VolumeHeaderSize:]

	for len(rest) > 0 {
		if len(rest) < 4 {
			return nil, fmt.Errorf("%w: %d bytes left where a record control word was expected", ErrTruncated, len(rest))
		}
		size := int(int32(binary.BigEndian.Uint32(rest[:4])))
		if size < 0 {
			size = -size // the final record's control word is negated
		}
		rest = rest[4:]

		// size can still be negative here: negating math.MinInt32 overflows
		// when int is 32 bits wide.
		if size <= 0 || size > len(rest) {
			return nil, fmt.Errorf("%w: record control word %d with %d bytes remaining", ErrTruncated, size, len(rest))
		}

		zr, err := bzip2.NewReader(bytes.NewReader(rest[:size]), nil)
		if err != nil {
			return nil, fmt.Errorf("open compressed record: %w", err)
		}
		block, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("decompress record: %w", err)
		}
		consumed := int(zr.InputOffset)
		if err := zr.Close(); err != nil {
			return nil, fmt.Errorf("close compressed record: %w", err)
		}

		out = append(out, block...)
		rest = rest[consumed:]
	}

	return out, nil
}
