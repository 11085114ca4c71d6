package level2_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disasterscience/nexrad/internal/level2"
)

func TestScaleGate(t *testing.T) {
	tests := []struct {
		name          string
		raw           uint16
		scale, offset float32
		want          level2.GateValue
	}{
		{
			name: "code zero is below threshold at any scale",
			raw:  0, scale: 2, offset: 66,
			want: level2.GateValue{Status: level2.GateBelowThreshold},
		},
		{
			name: "code one is range folded at any scale",
			raw:  1, scale: 2, offset: 129,
			want: level2.GateValue{Status: level2.GateRangeFolded},
		},
		{
			name: "reflectivity code scales to dBZ",
			raw:  90, scale: 2, offset: 66,
			want: level2.GateValue{Value: 12},
		},
		{
			name: "velocity offset centers on zero",
			raw:  129, scale: 2, offset: 129,
			want: level2.GateValue{Value: 0},
		},
		{
			name: "top of the eight bit range",
			raw:  255, scale: 2, offset: 66,
			want: level2.GateValue{Value: 94.5},
		},
		{
			name: "zero scale passes the code through",
			raw:  212, scale: 0, offset: 5,
			want: level2.GateValue{Value: 212},
		},
		{
			name: "code zero stays below threshold at zero scale",
			raw:  0, scale: 0, offset: 5,
			want: level2.GateValue{Status: level2.GateBelowThreshold},
		},
		{
			name: "code one stays range folded at zero scale",
			raw:  1, scale: 0, offset: 5,
			want: level2.GateValue{Status: level2.GateRangeFolded},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, level2.ScaleGate(tt.raw, tt.scale, tt.offset))
		})
	}
}

func TestRawGatesEightBit(t *testing.T) {
	d := &level2.DataMoment{
		Product:     level2.Reflectivity,
		GenericData: level2.GenericData{GateCount: 4, WordSize: 8},
		MomentData:  []byte{0, 1, 90, 255},
	}

	raw, err := d.RawGates()
	require.NoError(t, err)
	assert.Equal(t, []uint16{0, 1, 90, 255}, raw)
}

func TestRawGatesSixteenBit(t *testing.T) {
	d := &level2.DataMoment{
		Product:     level2.CorrelationCoefficient,
		GenericData: level2.GenericData{GateCount: 3, WordSize: 16},
		MomentData:  []byte{0x00, 0x01, 0x01, 0x00, 0x2e, 0xe0},
	}

	raw, err := d.RawGates()
	require.NoError(t, err)
	assert.Equal(t, []uint16{1, 256, 12000}, raw)
}

func TestRawGatesUnknownWordSize(t *testing.T) {
	d := &level2.DataMoment{GenericData: level2.GenericData{WordSize: 12}}

	_, err := d.RawGates()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "word size 12")
}

func TestScaledGates(t *testing.T) {
	d := &level2.DataMoment{
		Product:     level2.Reflectivity,
		GenericData: level2.GenericData{GateCount: 4, WordSize: 8, Scale: 2, Offset: 66},
		MomentData:  []byte{0, 1, 66, 120},
	}

	gates, err := d.ScaledGates()
	require.NoError(t, err)
	want := []level2.GateValue{
		{Status: level2.GateBelowThreshold},
		{Status: level2.GateRangeFolded},
		{Status: level2.GateValid, Value: 0},
		{Status: level2.GateValid, Value: 27},
	}
	assert.Equal(t, want, gates)
}

func TestMomentSize(t *testing.T) {
	eight := level2.GenericData{GateCount: 1832, WordSize: 8}
	assert.Equal(t, 1832, eight.MomentSize())

	sixteen := level2.GenericData{GateCount: 1192, WordSize: 16}
	assert.Equal(t, 2384, sixteen.MomentSize())
}

func TestParseProduct(t *testing.T) {
	for _, p := range level2.Products() {
		got, err := level2.ParseProduct(p.BlockName())
		require.NoError(t, err, p.BlockName())
		assert.Equal(t, p, got)
	}

	// Spectrum width's wire tag carries a trailing space; both spellings
	// resolve.
	sw, err := level2.ParseProduct("SW")
	require.NoError(t, err)
	assert.Equal(t, level2.SpectrumWidth, sw)

	ref, err := level2.ParseProduct("ref")
	require.NoError(t, err)
	assert.Equal(t, level2.Reflectivity, ref)

	_, err = level2.ParseProduct("XYZ")
	assert.ErrorIs(t, err, level2.ErrUnhandledProduct)
}

func TestProductBlockNames(t *testing.T) {
	assert.Equal(t, "REF", level2.Reflectivity.BlockName())
	assert.Equal(t, "VEL", level2.Velocity.BlockName())
	assert.Equal(t, "SW ", level2.SpectrumWidth.BlockName())
	assert.Equal(t, "ZDR", level2.DifferentialReflectivity.BlockName())
	assert.Equal(t, "PHI", level2.DifferentialPhase.BlockName())
	assert.Equal(t, "RHO", level2.CorrelationCoefficient.BlockName())
	assert.Equal(t, "CFP", level2.ClutterFilterProbability.BlockName())
}
