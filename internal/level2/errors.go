package level2

import "errors"

// Decode failures wrap one of these sentinels so callers can distinguish the
// failure class with errors.Is. Every error aborts the whole file: there is no
// partial result and no byte-level recovery.
var (
	// ErrDecompressionUnsupported reports input that is not recognized as a
	// bzip2-compressed archive.
	ErrDecompressionUnsupported = errors.New("cannot decompress uncompressed data")

	// ErrUnhandledProduct reports a data block tag outside the known set.
	ErrUnhandledProduct = errors.New("unhandled product type encountered")

	// ErrTruncated reports fewer bytes remaining than a record or sample
	// array requires.
	ErrTruncated = errors.New("truncated input")

	// ErrOverflow reports pointer or size arithmetic that leaves the
	// addressable range of the buffer.
	ErrOverflow = errors.New("offset arithmetic out of range")
)
