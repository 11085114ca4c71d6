package level2

import (
	"encoding/binary"
	"fmt"
	"math"
)

// The archive's records are packed big-endian with no padding, so each record
// is decoded field by field at explicit offsets rather than through any
// struct-layout trick. Each decoder consumes exactly its record's encoded
// size from the cursor; a short buffer fails before any field is read.

func be16(b []byte) uint16 { return binary.BigEndian.Uint16(b) }
func be32(b []byte) uint32 { return binary.BigEndian.Uint32(b) }
func bef32(b []byte) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(b))
}

func decodeVolumeHeader(c *cursor) (VolumeHeaderRecord, error) {
	b, err := c.take(VolumeHeaderSize)
	if err != nil {
		return VolumeHeaderRecord{}, fmt.Errorf("volume header: %w", err)
	}
	var v VolumeHeaderRecord
	copy(v.Filename[:], b[0:12])
	v.Date = be32(b[12:16])
	v.Time = be32(b[16:20])
	copy(v.RadarID[:], b[20:24])
	return v, nil
}

func decodeMessageHeader(c *cursor) (MessageHeader, error) {
	b, err := c.take(MessageHeaderSize)
	if err != nil {
		return MessageHeader{}, fmt.Errorf("message header: %w", err)
	}
	var h MessageHeader
	copy(h.RPG[:], b[0:12])
	h.Size = be16(b[12:14])
	h.Channel = b[14]
	h.Type = b[15]
	h.Sequence = be16(b[16:18])
	h.Date = be16(b[18:20])
	h.Time = be32(b[20:24])
	h.SegmentCount = be16(b[24:26])
	h.SegmentNumber = be16(b[26:28])
	return h, nil
}

func decodeMessage31Header(c *cursor) (Message31Header, error) {
	b, err := c.take(Message31HeaderSize)
	if err != nil {
		return Message31Header{}, fmt.Errorf("message 31 header: %w", err)
	}
	var h Message31Header
	copy(h.RadarID[:], b[0:4])
	h.RayTime = be32(b[4:8])
	h.RayDate = be16(b[8:10])
	h.AzimuthNumber = be16(b[10:12])
	h.Azimuth = bef32(b[12:16])
	h.CompressionCode = b[16]
	h.Spare = b[17]
	h.RadialLength = be16(b[18:20])
	h.AzimuthResolution = b[20]
	h.RadialStatus = b[21]
	h.ElevationNumber = b[22]
	h.SectorCutNumber = b[23]
	h.Elevation = bef32(b[24:28])
	h.SpotBlanking = b[28]
	h.AzimuthIndexingMode = b[29]
	h.DataBlockCount = be16(b[30:32])
	return h, nil
}

func decodeBlockHeader(b []byte) DataBlockHeader {
	var h DataBlockHeader
	h.BlockType = b[0]
	copy(h.Name[:], b[1:4])
	return h
}

func decodeVolumeData(c *cursor) (VolumeData, error) {
	b, err := c.take(VolumeDataSize)
	if err != nil {
		return VolumeData{}, fmt.Errorf("volume data block: %w", err)
	}
	var d VolumeData
	d.Header = decodeBlockHeader(b[0:4])
	d.LRTUP = be16(b[4:6])
	d.VersionMajor = b[6]
	d.VersionMinor = b[7]
	d.Lat = bef32(b[8:12])
	d.Lon = bef32(b[12:16])
	d.SiteHeight = be16(b[16:18])
	d.FeedhornHeight = be16(b[18:20])
	d.CalibrationConstant = bef32(b[20:24])
	d.SHVTxPowerHor = bef32(b[24:28])
	d.SHVTxPowerVer = bef32(b[28:32])
	d.SystemDifferentialReflectivity = bef32(b[32:36])
	d.InitialSystemDifferentialPhase = bef32(b[36:40])
	d.VolumeCoveragePattern = be16(b[40:42])
	d.ProcessingStatus = be16(b[42:44])
	return d, nil
}

func decodeElevationData(c *cursor) (ElevationData, error) {
	b, err := c.take(ElevationDataSize)
	if err != nil {
		return ElevationData{}, fmt.Errorf("elevation data block: %w", err)
	}
	var d ElevationData
	d.Header = decodeBlockHeader(b[0:4])
	d.LRTUP = be16(b[4:6])
	copy(d.ATMOS[:], b[6:8])
	d.CalibrationConstant = bef32(b[8:12])
	return d, nil
}

func decodeRadialData(c *cursor) (RadialData, error) {
	b, err := c.take(RadialDataSize)
	if err != nil {
		return RadialData{}, fmt.Errorf("radial data block: %w", err)
	}
	var d RadialData
	d.Header = decodeBlockHeader(b[0:4])
	d.LRTUP = be16(b[4:6])
	d.UnambiguousRange = be16(b[6:8])
	d.NoiseLevelHorizontal = bef32(b[8:12])
	d.NoiseLevelVertical = bef32(b[12:16])
	d.NyquistVelocity = be16(b[16:18])
	d.RadialFlags = be16(b[18:20])
	d.CalibrationConstantHorizontal = bef32(b[20:24])
	d.CalibrationConstantVertical = bef32(b[24:28])
	return d, nil
}

func decodeGenericData(c *cursor) (GenericData, error) {
	b, err := c.take(GenericDataSize)
	if err != nil {
		return GenericData{}, fmt.Errorf("moment data block: %w", err)
	}
	var d GenericData
	d.BlockType = b[0]
	copy(d.Name[:], b[1:4])
	d.Reserved = be32(b[4:8])
	d.GateCount = be16(b[8:10])
	d.FirstGateRange = be16(b[10:12])
	d.GateSpacing = be16(b[12:14])
	d.TOVER = be16(b[14:16])
	d.SNRThreshold = be16(b[16:18])
	d.ControlFlags = b[18]
	d.WordSize = b[19]
	d.Scale = bef32(b[20:24])
	d.Offset = bef32(b[24:28])
	return d, nil
}
