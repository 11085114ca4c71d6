package level2

import "fmt"

// cursor is an explicit index over an owned byte buffer. The message 31
// pointer table addresses offsets relative to the message start and may point
// backward, so decoding needs random access rather than a forward-only stream.
type cursor struct {
	data []byte
	pos  int
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

func (c *cursor) offset() int {
	return c.pos
}

func (c *cursor) remaining() int {
	return len(c.data) - c.pos
}

// take returns the next n bytes and advances past them. The returned slice
// aliases the buffer; callers that retain the bytes must copy them.
func (c *cursor) take(n int) ([]byte, error) {
	if c.remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, c.pos, c.remaining())
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// peek returns the next n bytes without advancing.
func (c *cursor) peek(n int) ([]byte, error) {
	if c.remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, c.pos, c.remaining())
	}
	return c.data[c.pos : c.pos+n], nil
}

// skip advances by n, clamping at the end of the buffer. A short final
// housekeeping frame is tolerated the same way a seek past the end of a file
// is: the walk simply observes that no bytes remain.
func (c *cursor) skip(n int) {
	c.pos += n
	if c.pos > len(c.data) {
		c.pos = len(c.data)
	}
}

// seek moves the cursor to an absolute offset. Targets outside the buffer are
// rejected before any read happens; they indicate a corrupt pointer table
// rather than a short buffer.
func (c *cursor) seek(off int64) error {
	if off < 0 || off > int64(len(c.data)) {
		return fmt.Errorf("%w: seek to %d in %d-byte buffer", ErrOverflow, off, len(c.data))
	}
	c.pos = int(off)
	return nil
}
