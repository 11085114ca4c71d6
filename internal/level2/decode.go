package level2

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"fmt"
	"os"
	"slices"
)

// DataFile is one fully decoded archive volume: the volume header plus every
// type 31 radial grouped by elevation number. It is built in a single decode
// pass and immutable afterward.
type DataFile struct {
	volumeHeader   VolumeHeaderRecord
	elevationScans map[uint8][]*Message31
}

// DecodeFile reads and decodes the archive at path.
func DecodeFile(path string) (*DataFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	return Decode(data)
}

// Decode decodes one archive volume from data, decompressing first when the
// file is bzip2-framed. Any error aborts the whole decode with no partial
// result.
func Decode(data []byte) (*DataFile, error) {
	if IsCompressed(data) {
		plain, err := Decompress(data)
		if err != nil {
			return nil, err
		}
		data = plain
	}

	cur := newCursor(data)

	vh, err := decodeVolumeHeader(cur)
	if err != nil {
		return nil, err
	}
	df := &DataFile{
		volumeHeader:   vh,
		elevationScans: make(map[uint8][]*Message31),
	}

	for cur.remaining() > 0 {
		off := cur.offset()
		mh, err := decodeMessageHeader(cur)
		if err != nil {
			return nil, fmt.Errorf("at offset %d: %w", off, err)
		}

		if mh.Type == msgTypeDigitalRadarData {
			if err := decodeMessage31(cur, df); err != nil {
				return nil, fmt.Errorf("message 31 at offset %d: %w", off, err)
			}
		} else {
			// Housekeeping messages occupy fixed frames and carry nothing
			// the decode needs; skip the rest of the frame.
			cur.skip(LegacyFrameSize - MessageHeaderSize)
		}
	}

	return df, nil
}

// decodeMessage31 decodes one radial's header, follows its pointer table
// through every data block, and appends the finished radial to its elevation.
// The cursor is left just past the last listed block.
func decodeMessage31(cur *cursor, df *DataFile) error {
	start := cur.offset()

	hdr, err := decodeMessage31Header(cur)
	if err != nil {
		return err
	}
	msg := &Message31{Header: hdr}

	count := int(hdr.DataBlockCount)
	ptrBytes, err := cur.take(count * 4)
	if err != nil {
		return fmt.Errorf("pointer table with %d entries: %w", count, err)
	}
	pointers := make([]uint32, count)
	for i := range pointers {
		pointers[i] = binary.BigEndian.Uint32(ptrBytes[i*4 : i*4+4])
	}

	// Pointers are relative to the message start and need not be monotonic:
	// blocks before the cursor require seeking backward.
	for _, ptr := range pointers {
		target := int64(start) + int64(ptr)
		if int64(cur.offset()) != target {
			if err := cur.seek(target); err != nil {
				return fmt.Errorf("data block pointer %d: %w", ptr, err)
			}
		}
		if err := decodeDataBlock(cur, msg); err != nil {
			return err
		}
	}

	df.elevationScans[hdr.ElevationNumber] = append(df.elevationScans[hdr.ElevationNumber], msg)
	return nil
}

// decodeDataBlock peeks the 4-byte tag at the cursor, then hands the whole
// block (tag included) to the decoder the tag's name selects.
func decodeDataBlock(cur *cursor, msg *Message31) error {
	tag, err := cur.peek(DataBlockHeaderSize)
	if err != nil {
		return fmt.Errorf("data block tag: %w", err)
	}
	name := string(tag[1:4])

	switch name {
	case "VOL":
		d, err := decodeVolumeData(cur)
		if err != nil {
			return err
		}
		msg.VolumeData = &d
	case "ELV":
		d, err := decodeElevationData(cur)
		if err != nil {
			return err
		}
		msg.ElevationData = &d
	case "RAD":
		d, err := decodeRadialData(cur)
		if err != nil {
			return err
		}
		msg.RadialData = &d
	default:
		// Wire tags match byte for byte, trailing space included.
		product, ok := productsByWireTag[name]
		if !ok {
			return fmt.Errorf("%w: tag %q at offset %d", ErrUnhandledProduct, name, cur.offset())
		}
		gd, err := decodeGenericData(cur)
		if err != nil {
			return err
		}
		samples, err := cur.take(gd.MomentSize())
		if err != nil {
			return fmt.Errorf("%s samples: %w", product, err)
		}
		msg.setMoment(&DataMoment{
			Product:     product,
			GenericData: gd,
			MomentData:  bytes.Clone(samples),
		})
	}
	return nil
}

// VolumeHeader returns the file's volume header record.
func (f *DataFile) VolumeHeader() VolumeHeaderRecord {
	return f.volumeHeader
}

// ElevationScans returns radials grouped by elevation number, in decode
// arrival order. The returned map is the file's own; treat it as read-only.
func (f *DataFile) ElevationScans() map[uint8][]*Message31 {
	return f.elevationScans
}

// SortedElevationScans sorts each elevation's radials by azimuth ascending
// (stable) and returns the map. Decode itself never reorders; sorting happens
// only here, when a consumer asks for sweep order instead of arrival order.
func (f *DataFile) SortedElevationScans() map[uint8][]*Message31 {
	for _, radials := range f.elevationScans {
		slices.SortStableFunc(radials, func(a, b *Message31) int {
			return cmp.Compare(a.Header.Azimuth, b.Header.Azimuth)
		})
	}
	return f.elevationScans
}

// FirstVolumeData returns the VOL block of the first radial in the lowest
// elevation cut, or nil when that radial has none. Most consumers only need
// one VOL block: the site coordinates and VCP repeat on every radial.
func (f *DataFile) FirstVolumeData() *VolumeData {
	if len(f.elevationScans) == 0 {
		return nil
	}
	lowest := uint8(0)
	first := true
	for k := range f.elevationScans {
		if first || k < lowest {
			lowest = k
			first = false
		}
	}
	radials := f.elevationScans[lowest]
	if len(radials) == 0 {
		return nil
	}
	return radials[0].VolumeData
}
