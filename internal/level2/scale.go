package level2

import (
	"encoding/binary"
	"fmt"
)

// The two reserved raw gate codes. They mean the same thing at every word
// size and for every moment, so they are classified before any scaling math.
const (
	rawBelowThreshold = 0
	rawRangeFolded    = 1
)

// GateStatus classifies one scaled gate sample.
type GateStatus uint8

const (
	// GateValid marks a gate whose Value holds a physical measurement.
	GateValid GateStatus = iota
	// GateBelowThreshold marks a return below the signal threshold.
	GateBelowThreshold
	// GateRangeFolded marks an ambiguous (range folded) measurement.
	GateRangeFolded
)

func (s GateStatus) String() string {
	switch s {
	case GateValid:
		return "valid"
	case GateBelowThreshold:
		return "below_threshold"
	case GateRangeFolded:
		return "range_folded"
	}
	return fmt.Sprintf("GateStatus(%d)", uint8(s))
}

// GateValue is the scaled form of one raw gate sample. Value is meaningful
// only when Status is GateValid.
type GateValue struct {
	Status GateStatus
	Value  float32
}

// ScaleGate maps one raw gate code to its physical value using the moment's
// scale and offset. Codes 0 and 1 are reserved sentinels independent of word
// size, scale, and offset; every other code converts as (code - offset) /
// scale, or is used directly when scale is zero. This is the only place the
// contract lives: every consumer scales through it so the sentinels are
// handled the same way everywhere.
func ScaleGate(raw uint16, scale, offset float32) GateValue {
	switch raw {
	case rawBelowThreshold:
		return GateValue{Status: GateBelowThreshold}
	case rawRangeFolded:
		return GateValue{Status: GateRangeFolded}
	}
	if scale == 0 {
		return GateValue{Value: float32(raw)}
	}
	return GateValue{Value: (float32(raw) - offset) / scale}
}

// RawGates widens the moment's sample array to one uint16 per gate. 16-bit
// samples are big-endian; word sizes other than 8 and 16 are not defined for
// message 31 moments.
func (d *DataMoment) RawGates() ([]uint16, error) {
	switch d.WordSize {
	case 8:
		gates := make([]uint16, len(d.MomentData))
		for i, b := range d.MomentData {
			gates[i] = uint16(b)
		}
		return gates, nil
	case 16:
		gates := make([]uint16, len(d.MomentData)/2)
		for i := range gates {
			gates[i] = binary.BigEndian.Uint16(d.MomentData[i*2 : i*2+2])
		}
		return gates, nil
	}
	return nil, fmt.Errorf("data word size %d bits is not decodable", d.WordSize)
}

// ScaledGates applies ScaleGate to every raw sample in the moment.
func (d *DataMoment) ScaledGates() ([]GateValue, error) {
	raw, err := d.RawGates()
	if err != nil {
		return nil, err
	}
	gates := make([]GateValue, len(raw))
	for i, r := range raw {
		gates[i] = ScaleGate(r, d.Scale, d.Offset)
	}
	return gates, nil
}
