// Package render rasterizes decoded sweeps as plan position indicator (PPI)
// images: the radar at the center, each radial a ray at its azimuth, each
// valid gate a colored pixel at its range. Reflectivity uses the standard NWS
// palette; other moments fall back to a grayscale stretched over the sweep's
// own value range.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/disasterscience/nexrad/internal/level2"
)

const (
	// DefaultSize is the canvas edge in pixels.
	DefaultSize = 1024

	// maxRangeKM is the WSR-88D surveillance range; the canvas radius maps
	// onto it.
	maxRangeKM = 460
)

// Options selects what to draw.
type Options struct {
	Product        level2.Product
	ElevationIndex int // index into the ascending elevation cut numbers, 0 is the lowest
	Size           int // canvas edge in pixels, DefaultSize when zero
}

// radialGates pairs one radial's geometry with its scaled samples.
type radialGates struct {
	azimuth    float32
	firstGateM int
	spacingM   int
	gates      []level2.GateValue
}

// PPI draws one elevation cut of one moment. The elevation index addresses
// the sorted cut numbers, so index 0 is always the lowest sweep regardless of
// which cut numbers the volume carries.
func PPI(df *level2.DataFile, opts Options) (*image.RGBA, error) {
	size := opts.Size
	if size <= 0 {
		size = DefaultSize
	}

	scans := df.ElevationScans()
	cuts := make([]uint8, 0, len(scans))
	for k := range scans {
		cuts = append(cuts, k)
	}
	slices.Sort(cuts)
	if opts.ElevationIndex < 0 || opts.ElevationIndex >= len(cuts) {
		return nil, fmt.Errorf("elevation index %d outside the volume's %d cuts", opts.ElevationIndex, len(cuts))
	}

	sweep, err := collectGates(scans[cuts[opts.ElevationIndex]], opts.Product)
	if err != nil {
		return nil, err
	}
	if len(sweep) == 0 {
		return nil, fmt.Errorf("moment %s not present in elevation cut %d", opts.Product, cuts[opts.ElevationIndex])
	}

	colorize := reflectivityColor
	if opts.Product != level2.Reflectivity {
		lo, hi := valueRange(sweep)
		colorize = grayscale(lo, hi)
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	fill(img, color.RGBA{A: 0xff})

	center := float64(size) / 2
	pxPerKM := center / maxRangeKM

	for _, r := range sweep {
		// Compass azimuth to screen angle: north up, y growing downward.
		angle := float64(r.azimuth) - 90
		if angle < 0 {
			angle += 360
		}
		sin, cos := math.Sincos(angle * math.Pi / 180)

		firstPx := float64(r.firstGateM) / 1000 * pxPerKM
		stepPx := float64(r.spacingM) / 1000 * pxPerKM

		for i, g := range r.gates {
			if g.Status != level2.GateValid {
				continue
			}
			c, ok := colorize(g.Value)
			if !ok {
				continue
			}
			dist := firstPx + float64(i)*stepPx
			x := int(center + dist*cos)
			y := int(center + dist*sin)
			if x < 0 || x >= size || y < 0 || y >= size {
				continue
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img, nil
}

func collectGates(radials []*level2.Message31, product level2.Product) ([]radialGates, error) {
	sweep := make([]radialGates, 0, len(radials))
	for _, r := range radials {
		m := r.Moment(product)
		if m == nil {
			continue
		}
		gates, err := m.ScaledGates()
		if err != nil {
			return nil, fmt.Errorf("radial %d: %w", r.Header.AzimuthNumber, err)
		}
		sweep = append(sweep, radialGates{
			azimuth:    r.Header.Azimuth,
			firstGateM: int(m.FirstGateRange),
			spacingM:   int(m.GateSpacing),
			gates:      gates,
		})
	}
	return sweep, nil
}

func valueRange(sweep []radialGates) (lo, hi float32) {
	first := true
	for _, r := range sweep {
		for _, g := range r.gates {
			if g.Status != level2.GateValid {
				continue
			}
			if first || g.Value < lo {
				lo = g.Value
			}
			if first || g.Value > hi {
				hi = g.Value
			}
			first = false
		}
	}
	return lo, hi
}

func fill(img *image.RGBA, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}
