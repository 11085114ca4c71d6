package render

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
)

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WritePPM encodes img as plain (P3) PPM: an ASCII header followed by one
// line of space-separated RGB triplets per row.
func WritePPM(w io.Writer, img image.Image) error {
	bw := bufio.NewWriter(w)
	b := img.Bounds()

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", b.Dx(), b.Dy()); err != nil {
		return fmt.Errorf("write ppm header: %w", err)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			sep := " "
			if x == b.Min.X {
				sep = ""
			}
			if _, err := fmt.Fprintf(bw, "%s%d %d %d", sep, r>>8, g>>8, bl>>8); err != nil {
				return fmt.Errorf("write ppm row %d: %w", y, err)
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("write ppm row %d: %w", y, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush ppm: %w", err)
	}
	return nil
}
