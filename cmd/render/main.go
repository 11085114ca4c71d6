// Command render rasterizes one elevation cut of a NEXRAD Level II archive
// into a plan position indicator image. Reflectivity uses the standard NWS
// color bands; other products fall back to a grayscale ramp.
//
// Usage:
//
//	go run ./cmd/render -product REF -elevation 0 -o sweep.png KCRP20170825_235733_V06
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disasterscience/nexrad/internal/level2"
	"github.com/disasterscience/nexrad/internal/render"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	product := flag.String("product", "REF", "moment to draw (REF, VEL, SW, ZDR, PHI, RHO, CFP)")
	elevation := flag.Int("elevation", 0, "elevation cut index, 0 is the lowest")
	size := flag.Int("size", render.DefaultSize, "canvas edge in pixels")
	out := flag.String("o", "sweep.png", "output path (.png or .ppm)")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return fmt.Errorf("expected exactly one archive path, got %d", flag.NArg())
	}

	p, err := level2.ParseProduct(*product)
	if err != nil {
		return err
	}

	df, err := level2.DecodeFile(flag.Arg(0))
	if err != nil {
		return err
	}

	img, err := render.PPI(df, render.Options{
		Product:        p,
		ElevationIndex: *elevation,
		Size:           *size,
	})
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(*out)) {
	case ".ppm":
		err = render.WritePPM(f, img)
	default:
		err = render.WritePNG(f, img)
	}
	if err != nil {
		return err
	}

	bounds := img.Bounds()
	fmt.Printf("wrote %s (%dx%d, %s cut %d)\n", *out, bounds.Dx(), bounds.Dy(), p, *elevation)
	return nil
}
