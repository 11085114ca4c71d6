package render_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disasterscience/nexrad/internal/archivegen"
	"github.com/disasterscience/nexrad/internal/level2"
	"github.com/disasterscience/nexrad/internal/render"
)

// testSweep builds a single-cut volume with two rays. Size 920 maps one pixel
// per kilometer, and gate 99 sits 101 km out, so painted pixels land on exact
// coordinates.
func testSweep(t *testing.T) *level2.DataFile {
	t.Helper()

	east := archivegen.Moment{
		Product:        level2.Reflectivity,
		GateCount:      100,
		FirstGateRange: 2000,
		GateSpacing:    1000,
		WordSize:       8,
		Scale:          2,
		Offset:         66,
		Samples:        make([]byte, 100),
	}
	east.Samples[99] = 255 // 94.5 dBZ

	south := east
	south.Samples = make([]byte, 100)
	south.Samples[99] = 90 // 12 dBZ

	b := &archivegen.Builder{
		Site: "KCRP",
		Date: 17404,
		Time: 86253000,
		Radials: []archivegen.Radial{
			{ElevationNumber: 1, AzimuthNumber: 1, Azimuth: 90, Moments: []archivegen.Moment{east}},
			{ElevationNumber: 1, AzimuthNumber: 2, Azimuth: 180, Moments: []archivegen.Moment{south}},
		},
	}

	df, err := level2.Decode(b.Build())
	require.NoError(t, err)
	return df
}

func TestPPIGeometry(t *testing.T) {
	img, err := render.PPI(testSweep(t), render.Options{Product: level2.Reflectivity, Size: 920})
	require.NoError(t, err)

	require.Equal(t, image.Rect(0, 0, 920, 920), img.Bounds())

	// Azimuth 90 points east: 101 km right of center.
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, img.RGBAAt(561, 460))

	// Azimuth 180 points south: 101 km below center, 12 dBZ band.
	assert.Equal(t, color.RGBA{R: 0x26, G: 0xa4, B: 0xfa, A: 0xff}, img.RGBAAt(460, 561))

	// Below-threshold gates and empty sky stay on the background.
	assert.Equal(t, color.RGBA{A: 0xff}, img.RGBAAt(470, 460))
	assert.Equal(t, color.RGBA{A: 0xff}, img.RGBAAt(10, 10))
}

func TestPPIDefaultSize(t *testing.T) {
	img, err := render.PPI(testSweep(t), render.Options{Product: level2.Reflectivity})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, render.DefaultSize, render.DefaultSize), img.Bounds())
}

func TestPPIGrayscaleFallback(t *testing.T) {
	vel := archivegen.VelMoment(100)
	vel.GateSpacing = 1000
	vel.FirstGateRange = 2000
	vel.Samples = make([]byte, 100)
	vel.Samples[0] = 64   // -32.5 m/s, bottom of this sweep's range
	vel.Samples[99] = 255 // 63 m/s, top of this sweep's range

	b := &archivegen.Builder{
		Site: "KCRP",
		Date: 17404,
		Time: 86253000,
		Radials: []archivegen.Radial{
			{ElevationNumber: 1, AzimuthNumber: 1, Azimuth: 90, Moments: []archivegen.Moment{vel}},
		},
	}
	df, err := level2.Decode(b.Build())
	require.NoError(t, err)

	img, err := render.PPI(df, render.Options{Product: level2.Velocity, Size: 920})
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, img.RGBAAt(561, 460),
		"top of the value range maps to the top of the gray ramp")
}

func TestPPIMomentNotPresent(t *testing.T) {
	_, err := render.PPI(testSweep(t), render.Options{Product: level2.CorrelationCoefficient, Size: 64})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not present")
}

func TestPPIElevationIndexOutOfRange(t *testing.T) {
	_, err := render.PPI(testSweep(t), render.Options{Product: level2.Reflectivity, ElevationIndex: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "elevation index 5")
}

func TestWritePPM(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{G: 128, B: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, render.WritePPM(&buf, img))
	assert.Equal(t, "P3\n2 1\n255\n255 0 0 0 128 255\n", buf.String())
}

func TestWritePNG(t *testing.T) {
	img, err := render.PPI(testSweep(t), render.Options{Product: level2.Reflectivity, Size: 64})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, render.WritePNG(&buf, img))

	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 64, cfg.Height)
}
