package render

import "image/color"

// reflectivityBands is the NWS reflectivity palette: 5 dBZ steps from 5 to
// 70 dBZ, white above. Values below the first band stay on the background.
var reflectivityBands = []struct {
	min float32
	c   color.RGBA
}{
	{70, rgb(0xff, 0xff, 0xff)},
	{65, rgb(0xee, 0x34, 0xfa)},
	{60, rgb(0xa9, 0x08, 0x13)},
	{55, rgb(0xcb, 0x05, 0x16)},
	{50, rgb(0xf8, 0x0a, 0x26)},
	{45, rgb(0xf6, 0x95, 0x2e)},
	{40, rgb(0xeb, 0xb4, 0x33)},
	{35, rgb(0xfe, 0xf5, 0x43)},
	{30, rgb(0x27, 0x8c, 0x1e)},
	{25, rgb(0x36, 0xc2, 0x2e)},
	{20, rgb(0x49, 0xfb, 0x3e)},
	{15, rgb(0x00, 0x30, 0xed)},
	{10, rgb(0x26, 0xa4, 0xfa)},
	{5, rgb(0x40, 0xe8, 0xe3)},
}

// reflectivityColor maps a dBZ value onto the palette. ok is false below the
// lowest band, leaving the gate unplotted.
func reflectivityColor(v float32) (color.RGBA, bool) {
	for _, band := range reflectivityBands {
		if v >= band.min {
			return band.c, true
		}
	}
	return color.RGBA{}, false
}

// grayscale returns a colorizer stretching [lo, hi] linearly over the gray
// ramp. A degenerate range maps everything to mid gray.
func grayscale(lo, hi float32) func(float32) (color.RGBA, bool) {
	return func(v float32) (color.RGBA, bool) {
		if hi <= lo {
			return rgb(0x80, 0x80, 0x80), true
		}
		norm := (v - lo) / (hi - lo)
		if norm < 0 {
			norm = 0
		}
		if norm > 1 {
			norm = 1
		}
		g := uint8(norm * 0xff)
		return rgb(g, g, g), true
	}
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
