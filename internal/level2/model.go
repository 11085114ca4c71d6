package level2

import (
	"fmt"
	"strings"
)

// Encoded sizes of the fixed wire records, in bytes. The archive packs every
// field big-endian with no padding, so each size is the sum of its field
// widths, not a Go struct size.
const (
	VolumeHeaderSize    = 24
	MessageHeaderSize   = 28
	Message31HeaderSize = 32
	DataBlockHeaderSize = 4
	VolumeDataSize      = 44
	ElevationDataSize   = 12
	RadialDataSize      = 28
	GenericDataSize     = 28

	// LegacyFrameSize is the fixed frame occupied by every message other
	// than type 31, per the Archive II format description (ICD 2620010E).
	// It is a property of the archive family, not of any in-message length
	// field.
	LegacyFrameSize = 2432
)

// msgTypeDigitalRadarData is the message type carrying one radial of moment
// data in generic format.
const msgTypeDigitalRadarData = 31

// VolumeHeaderRecord is the uncompressed 24-byte header at offset 0 of every
// archive file.
type VolumeHeaderRecord struct {
	Filename [12]byte // archive label, "AR2V0006." plus extension number
	Date     uint32   // days since 1 Jan 1970, where 1 is 1 Jan 1970
	Time     uint32   // milliseconds past midnight UTC
	RadarID  [4]byte  // ICAO site identifier, e.g. "KCRP"
}

// Site returns the ICAO site identifier as a string.
func (v VolumeHeaderRecord) Site() string {
	return strings.TrimRight(string(v.RadarID[:]), "\x00 ")
}

// Label returns the archive label field as a string.
func (v VolumeHeaderRecord) Label() string {
	return strings.TrimRight(string(v.Filename[:]), "\x00 ")
}

// MessageHeader is the 28-byte envelope in front of every message frame.
type MessageHeader struct {
	RPG           [12]byte // inserted by the RPG communications manager, ignored
	Size          uint16   // message size for this segment, in halfwords
	Channel       uint8    // RDA redundant channel
	Type          uint8    // message type; 31 is digital radar data
	Sequence      uint16   // wraps to 0 after 0x7FFF
	Date          uint16   // days since 1 Jan 1970, where 1 is 1 Jan 1970
	Time          uint32   // milliseconds past midnight UTC
	SegmentCount  uint16
	SegmentNumber uint16
}

// Message31Header is the 32-byte per-radial header of a type 31 message.
type Message31Header struct {
	RadarID             [4]byte
	RayTime             uint32  // collection time, milliseconds past midnight UTC
	RayDate             uint16  // days since 1 Jan 1970, where 1 is 1 Jan 1970
	AzimuthNumber       uint16  // radial number within the elevation scan
	Azimuth             float32 // degrees, 0 to 359.956055
	CompressionCode     uint8   // 0 none, 1 bzip2, 2 zlib
	Spare               uint8
	RadialLength        uint16  // radial length in bytes including data blocks
	AzimuthResolution   uint8   // 1 = half degree, 2 = one degree
	RadialStatus        uint8
	ElevationNumber     uint8   // elevation cut number, the grouping key
	SectorCutNumber     uint8
	Elevation           float32 // degrees, -7.0 to 70.0
	SpotBlanking        uint8
	AzimuthIndexingMode uint8
	DataBlockCount      uint16  // number of pointers in the block table
}

// DataBlockHeader is the 4-byte tag introducing every data block. The
// three-character name uniquely determines the block's decode shape.
type DataBlockHeader struct {
	BlockType byte
	Name      [3]byte
}

// BlockName returns the three-character block name, e.g. "REF" or "SW ".
func (h DataBlockHeader) BlockName() string {
	return string(h.Name[:])
}

// VolumeData is the VOL descriptor block: site coordinates, transmitter
// calibration, and volume coverage pattern.
type VolumeData struct {
	Header                         DataBlockHeader
	LRTUP                          uint16  // block size in bytes
	VersionMajor                   uint8
	VersionMinor                   uint8
	Lat                            float32 // site latitude, degrees
	Lon                            float32 // site longitude, degrees
	SiteHeight                     uint16  // meters above sea level
	FeedhornHeight                 uint16  // meters above ground
	CalibrationConstant            float32
	SHVTxPowerHor                  float32
	SHVTxPowerVer                  float32
	SystemDifferentialReflectivity float32
	InitialSystemDifferentialPhase float32
	VolumeCoveragePattern          uint16
	ProcessingStatus               uint16
}

// ElevationData is the ELV descriptor block.
type ElevationData struct {
	Header              DataBlockHeader
	LRTUP               uint16  // block size in bytes
	ATMOS               [2]byte // atmospheric attenuation factor
	CalibrationConstant float32 // signal processor reflectivity scaling
}

// RadialData is the RAD descriptor block.
type RadialData struct {
	Header                        DataBlockHeader
	LRTUP                         uint16 // block size in bytes
	UnambiguousRange              uint16 // interval size
	NoiseLevelHorizontal          float32
	NoiseLevelVertical            float32
	NyquistVelocity               uint16
	RadialFlags                   uint16
	CalibrationConstantHorizontal float32
	CalibrationConstantVertical   float32
}

// GenericData is the sampling-geometry header shared by all moment blocks.
type GenericData struct {
	BlockType      byte
	Name           [3]byte
	Reserved       uint32
	GateCount      uint16  // number of gates in this radial
	FirstGateRange uint16  // range to the center of the first gate, meters
	GateSpacing    uint16  // gate sample interval, meters
	TOVER          uint16  // overlay threshold
	SNRThreshold   uint16
	ControlFlags   uint8
	WordSize       uint8   // bits per raw gate sample: 8 or 16
	Scale          float32
	Offset         float32
}

// MomentSize returns the raw sample array length in bytes:
// GateCount * WordSize / 8.
func (g GenericData) MomentSize() int {
	return int(g.GateCount) * int(g.WordSize) / 8
}

// Product identifies one of the seven data moments a radial can carry.
type Product uint8

const (
	Reflectivity Product = iota
	Velocity
	SpectrumWidth
	DifferentialReflectivity
	DifferentialPhase
	CorrelationCoefficient
	ClutterFilterProbability
)

// blockNames maps each product to its exact three-character wire tag. Note
// the trailing space on spectrum width.
var blockNames = [...]string{
	Reflectivity:             "REF",
	Velocity:                 "VEL",
	SpectrumWidth:            "SW ",
	DifferentialReflectivity: "ZDR",
	DifferentialPhase:        "PHI",
	CorrelationCoefficient:   "RHO",
	ClutterFilterProbability: "CFP",
}

// BlockName returns the product's three-character wire tag.
func (p Product) BlockName() string {
	if int(p) < len(blockNames) {
		return blockNames[p]
	}
	return fmt.Sprintf("Product(%d)", p)
}

// String returns the trimmed wire tag, e.g. "REF" or "SW".
func (p Product) String() string {
	return strings.TrimSpace(p.BlockName())
}

// productsByWireTag resolves an exact three-character wire tag to its
// product. The decoder matches tags byte for byte: "SW " needs its trailing
// space, and a case or padding variant like "ref" or " SW" is an unknown
// block, not a moment.
var productsByWireTag = map[string]Product{
	"REF": Reflectivity,
	"VEL": Velocity,
	"SW ": SpectrumWidth,
	"ZDR": DifferentialReflectivity,
	"PHI": DifferentialPhase,
	"RHO": CorrelationCoefficient,
	"CFP": ClutterFilterProbability,
}

// productsByBlockName resolves a normalized (trimmed, upper case) tag to its
// product.
var productsByBlockName = map[string]Product{
	"REF": Reflectivity,
	"VEL": Velocity,
	"SW":  SpectrumWidth,
	"ZDR": DifferentialReflectivity,
	"PHI": DifferentialPhase,
	"RHO": CorrelationCoefficient,
	"CFP": ClutterFilterProbability,
}

// ParseProduct resolves a product from a block tag or its lowercase form
// ("REF", "ref", "SW ", "sw"). Unknown names return ErrUnhandledProduct.
// It exists for command-line input; wire tags inside an archive resolve
// through the exact productsByWireTag match instead.
func ParseProduct(s string) (Product, error) {
	p, ok := productsByBlockName[strings.TrimSpace(strings.ToUpper(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnhandledProduct, s)
	}
	return p, nil
}

// Products lists the seven moments in wire-tag order.
func Products() []Product {
	return []Product{
		Reflectivity,
		Velocity,
		SpectrumWidth,
		DifferentialReflectivity,
		DifferentialPhase,
		CorrelationCoefficient,
		ClutterFilterProbability,
	}
}

// DataMoment is one decoded moment block: its sampling geometry plus the raw
// per-gate samples. The sample array length is always GenericData.MomentSize.
type DataMoment struct {
	Product Product
	GenericData
	MomentData []byte
}

// Message31 is one fully decoded radial: the header plus at most one of each
// data block kind. A nil field means the block was absent from this radial.
type Message31 struct {
	Header        Message31Header
	VolumeData    *VolumeData
	ElevationData *ElevationData
	RadialData    *RadialData

	Reflectivity             *DataMoment
	Velocity                 *DataMoment
	SpectrumWidth            *DataMoment
	DifferentialReflectivity *DataMoment
	DifferentialPhase        *DataMoment
	CorrelationCoefficient   *DataMoment
	ClutterFilterProbability *DataMoment
}

// Moment returns the radial's moment block for p, or nil when absent.
func (m *Message31) Moment(p Product) *DataMoment {
	switch p {
	case Reflectivity:
		return m.Reflectivity
	case Velocity:
		return m.Velocity
	case SpectrumWidth:
		return m.SpectrumWidth
	case DifferentialReflectivity:
		return m.DifferentialReflectivity
	case DifferentialPhase:
		return m.DifferentialPhase
	case CorrelationCoefficient:
		return m.CorrelationCoefficient
	case ClutterFilterProbability:
		return m.ClutterFilterProbability
	}
	return nil
}

// setMoment stores d in its product's slot. A later duplicate replaces the
// earlier block, matching the single-slot-per-kind layout of the message.
func (m *Message31) setMoment(d *DataMoment) {
	switch d.Product {
	case Reflectivity:
		m.Reflectivity = d
	case Velocity:
		m.Velocity = d
	case SpectrumWidth:
		m.SpectrumWidth = d
	case DifferentialReflectivity:
		m.DifferentialReflectivity = d
	case DifferentialPhase:
		m.DifferentialPhase = d
	case CorrelationCoefficient:
		m.CorrelationCoefficient = d
	case ClutterFilterProbability:
		m.ClutterFilterProbability = d
	}
}
