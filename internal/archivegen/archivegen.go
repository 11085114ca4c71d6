// Package archivegen builds synthetic NEXRAD Level II archives, byte for byte
// in the real wire layouts, for test fixtures and tooling. Generated volumes
// exercise the same paths a real archive does: fixed housekeeping frames,
// pointer-indexed message 31 radials, and bzip2 record framing.
package archivegen

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/dsnet/compress/bzip2"

	"github.com/disasterscience/nexrad/internal/level2"
)

// Block type bytes as they appear on the wire: descriptor blocks carry 'R',
// moment blocks carry 'D'.
const (
	blockTypeDescriptor = 'R'
	blockTypeMoment     = 'D'
)

// Moment describes one moment block of a synthetic radial.
type Moment struct {
	Product        level2.Product
	GateCount      int
	FirstGateRange int
	GateSpacing    int
	WordSize       int
	Scale          float32
	Offset         float32

	// Samples supplies the raw gate array. When nil, Build synthesizes
	// GateCount*WordSize/8 bytes of non-sentinel values.
	Samples []byte
}

// Radial describes one message 31 frame. The zero value carries the VOL, ELV
// and RAD descriptor blocks and no moments.
type Radial struct {
	ElevationNumber uint8
	AzimuthNumber   uint16
	Azimuth         float32
	Elevation       float32
	Moments         []Moment

	// OmitDescriptors drops the VOL/ELV/RAD blocks from the radial.
	OmitDescriptors bool

	// PointerOrder permutes the pointer table: entry i of the table points
	// at block PointerOrder[i]. Blocks are always laid out in natural
	// order, so a permuted table forces backward seeks. Nil keeps the
	// listed order equal to the layout order.
	PointerOrder []int

	// ExtraBlocks appends raw blocks after the built-in ones, pointed at by
	// the table like any other block. Used to inject unknown tags.
	ExtraBlocks [][]byte
}

// Builder assembles a synthetic archive volume.
type Builder struct {
	Label string // defaults to "AR2V0006.001"
	Site  string // defaults to "KCRP"
	Date  uint32 // volume header date, days since 1 Jan 1970 (1 = 1 Jan 1970)
	Time  uint32 // volume header time, milliseconds past midnight

	Lat float32 // VOL block site latitude
	Lon float32 // VOL block site longitude
	VCP uint16  // VOL block volume coverage pattern

	// LegacyFrames prepends that many fixed-size housekeeping frames before
	// the radials, standing in for the metadata record of a real archive.
	LegacyFrames int

	Radials []Radial
}

func (b *Builder) label() string {
	if b.Label == "" {
		return "AR2V0006.001"
	}
	return b.Label
}

func (b *Builder) site() string {
	if b.Site == "" {
		return "KCRP"
	}
	return b.Site
}

// Build returns the plaintext archive volume.
func (b *Builder) Build() []byte {
	out := b.volumeHeader()
	for i := 0; i < b.LegacyFrames; i++ {
		out = append(out, b.legacyFrame(uint16(i+1))...)
	}
	for i := range b.Radials {
		out = append(out, b.message31Frame(&b.Radials[i])...)
	}
	return out
}

// BuildCompressed returns the archive in bzip2 record framing: the plaintext
// volume header followed by size-prefixed compressed records. Housekeeping
// frames become the first record and each radial its own record, mirroring
// how real volumes arrive in several records. The final record's control
// word is negated, as written by the LDM.
func (b *Builder) BuildCompressed() ([]byte, error) {
	var records [][]byte
	if b.LegacyFrames > 0 {
		var meta []byte
		for i := 0; i < b.LegacyFrames; i++ {
			meta = append(meta, b.legacyFrame(uint16(i+1))...)
		}
		records = append(records, meta)
	}
	for i := range b.Radials {
		records = append(records, b.message31Frame(&b.Radials[i]))
	}

	out := b.volumeHeader()
	for i, rec := range records {
		compressed, err := compressRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("compress record %d: %w", i, err)
		}
		control := int32(len(compressed))
		if i == len(records)-1 {
			control = -control
		}
		out = binary.BigEndian.AppendUint32(out, uint32(control))
		out = append(out, compressed...)
	}
	return out, nil
}

func compressRecord(plain []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{Level: bzip2.DefaultCompression})
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(plain); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *Builder) volumeHeader() []byte {
	out := make([]byte, 0, level2.VolumeHeaderSize)
	out = appendPadded(out, b.label(), 12)
	out = binary.BigEndian.AppendUint32(out, b.Date)
	out = binary.BigEndian.AppendUint32(out, b.Time)
	out = appendPadded(out, b.site(), 4)
	return out
}

// legacyFrame builds one fixed-size housekeeping frame. Type 2 (RDA status)
// stands in for the whole metadata family; the walk skips them unread.
func (b *Builder) legacyFrame(seq uint16) []byte {
	frame := make([]byte, 0, level2.LegacyFrameSize)
	frame = b.messageHeader(frame, 2, seq, (level2.LegacyFrameSize-12)/2)
	return append(frame, make([]byte, level2.LegacyFrameSize-level2.MessageHeaderSize)...)
}

func (b *Builder) message31Frame(r *Radial) []byte {
	body := b.message31Body(r)
	frame := make([]byte, 0, level2.MessageHeaderSize+len(body))
	frame = b.messageHeader(frame, 31, r.AzimuthNumber, uint16((level2.MessageHeaderSize+len(body)-12)/2))
	return append(frame, body...)
}

func (b *Builder) messageHeader(out []byte, msgType uint8, seq, sizeHalfwords uint16) []byte {
	out = append(out, make([]byte, 12)...) // RPG insert, zeroed
	out = binary.BigEndian.AppendUint16(out, sizeHalfwords)
	out = append(out, 0, msgType)
	out = binary.BigEndian.AppendUint16(out, seq)
	out = binary.BigEndian.AppendUint16(out, uint16(b.Date))
	out = binary.BigEndian.AppendUint32(out, b.Time)
	out = binary.BigEndian.AppendUint16(out, 1)
	out = binary.BigEndian.AppendUint16(out, 1)
	return out
}

func (b *Builder) message31Body(r *Radial) []byte {
	var blocks [][]byte
	if !r.OmitDescriptors {
		blocks = append(blocks, b.volumeBlock(), b.elevationBlock(), b.radialBlock())
	}
	for _, m := range r.Moments {
		blocks = append(blocks, momentBlock(m, int(r.AzimuthNumber)))
	}
	blocks = append(blocks, r.ExtraBlocks...)

	// Blocks are laid out in natural order after the pointer table; the
	// table itself may list them permuted.
	order := r.PointerOrder
	if order == nil {
		order = make([]int, len(blocks))
		for i := range order {
			order[i] = i
		}
	}

	offsets := make([]uint32, len(blocks))
	pos := uint32(level2.Message31HeaderSize + 4*len(blocks))
	for i, blk := range blocks {
		offsets[i] = pos
		pos += uint32(len(blk))
	}

	body := r.header(b.site(), b.Date, b.Time, len(blocks), int(pos))
	for _, idx := range order {
		body = binary.BigEndian.AppendUint32(body, offsets[idx])
	}
	for _, blk := range blocks {
		body = append(body, blk...)
	}
	return body
}

func (r *Radial) header(site string, date, msec uint32, blockCount, radialLen int) []byte {
	out := make([]byte, 0, level2.Message31HeaderSize)
	out = appendPadded(out, site, 4)
	out = binary.BigEndian.AppendUint32(out, msec)
	out = binary.BigEndian.AppendUint16(out, uint16(date))
	out = binary.BigEndian.AppendUint16(out, r.AzimuthNumber)
	out = appendFloat32(out, r.Azimuth)
	out = append(out, 0, 0) // compression code, spare
	out = binary.BigEndian.AppendUint16(out, uint16(radialLen+level2.MessageHeaderSize))
	out = append(out, 1, 0) // azimuth resolution (half degree), radial status
	out = append(out, r.ElevationNumber, 0)
	out = appendFloat32(out, r.Elevation)
	out = append(out, 0, 0) // spot blanking, indexing mode
	out = binary.BigEndian.AppendUint16(out, uint16(blockCount))
	return out
}

func (b *Builder) volumeBlock() []byte {
	out := blockTag(blockTypeDescriptor, "VOL", level2.VolumeDataSize)
	out = append(out, 1, 0) // version 1.0
	out = appendFloat32(out, b.Lat)
	out = appendFloat32(out, b.Lon)
	out = binary.BigEndian.AppendUint16(out, 10)
	out = binary.BigEndian.AppendUint16(out, 20)
	out = appendFloat32(out, -45.5) // calibration constant, dB
	out = appendFloat32(out, 700)
	out = appendFloat32(out, 700)
	out = appendFloat32(out, 0.25)
	out = appendFloat32(out, 30)
	out = binary.BigEndian.AppendUint16(out, b.VCP)
	out = binary.BigEndian.AppendUint16(out, 0)
	return out
}

func (b *Builder) elevationBlock() []byte {
	out := blockTag(blockTypeDescriptor, "ELV", level2.ElevationDataSize)
	out = append(out, 0, 12) // atmospheric attenuation
	out = appendFloat32(out, -44.8)
	return out
}

func (b *Builder) radialBlock() []byte {
	out := blockTag(blockTypeDescriptor, "RAD", level2.RadialDataSize)
	out = binary.BigEndian.AppendUint16(out, 466)
	out = appendFloat32(out, -78.4) // horizontal noise, dBm
	out = appendFloat32(out, -77.9)
	out = binary.BigEndian.AppendUint16(out, 2795)
	out = binary.BigEndian.AppendUint16(out, 0)
	out = appendFloat32(out, -45.5)
	out = appendFloat32(out, -45.3)
	return out
}

func momentBlock(m Moment, seed int) []byte {
	samples := m.Samples
	if samples == nil {
		samples = synthesizeSamples(m.GateCount*m.WordSize/8, seed)
	}

	out := make([]byte, 0, level2.GenericDataSize+len(samples))
	out = append(out, blockTypeMoment)
	out = append(out, m.Product.BlockName()...)
	out = binary.BigEndian.AppendUint32(out, 0)
	out = binary.BigEndian.AppendUint16(out, uint16(m.GateCount))
	out = binary.BigEndian.AppendUint16(out, uint16(m.FirstGateRange))
	out = binary.BigEndian.AppendUint16(out, uint16(m.GateSpacing))
	out = binary.BigEndian.AppendUint16(out, 0)
	out = binary.BigEndian.AppendUint16(out, 16)
	out = append(out, 0, uint8(m.WordSize))
	out = appendFloat32(out, m.Scale)
	out = appendFloat32(out, m.Offset)
	return append(out, samples...)
}

// UnknownBlock builds a block with an unrecognized tag, shaped like a moment
// block so only the name is wrong.
func UnknownBlock(name string) []byte {
	m := Moment{GateCount: 4, WordSize: 8, Scale: 1}
	blk := momentBlock(m, 0)
	copy(blk[1:4], appendPadded(nil, name, 3))
	return blk
}

// RefMoment returns a reflectivity moment with the standard 250 m gate
// spacing and the usual dBZ scale/offset pair.
func RefMoment(gates int) Moment {
	return Moment{
		Product:        level2.Reflectivity,
		GateCount:      gates,
		FirstGateRange: 2125,
		GateSpacing:    250,
		WordSize:       8,
		Scale:          2,
		Offset:         66,
	}
}

// VelMoment returns a velocity moment with the usual m/s scale/offset pair.
func VelMoment(gates int) Moment {
	return Moment{
		Product:        level2.Velocity,
		GateCount:      gates,
		FirstGateRange: 2125,
		GateSpacing:    250,
		WordSize:       8,
		Scale:          2,
		Offset:         129,
	}
}

// synthesizeSamples fills a deterministic raw gate array. Values stay out of
// the reserved 0 and 1 codes so scaled fixtures read as valid measurements.
func synthesizeSamples(n, seed int) []byte {
	samples := make([]byte, n)
	for i := range samples {
		samples[i] = byte(2 + (i+seed*7)%250)
	}
	return samples
}

func blockTag(blockType byte, name string, lrtup uint16) []byte {
	out := make([]byte, 0, 64)
	out = append(out, blockType)
	out = append(out, name...)
	return binary.BigEndian.AppendUint16(out, lrtup)
}

func appendPadded(out []byte, s string, width int) []byte {
	b := make([]byte, width)
	copy(b, s)
	return append(out, b...)
}

func appendFloat32(out []byte, f float32) []byte {
	return binary.BigEndian.AppendUint32(out, math.Float32bits(f))
}
