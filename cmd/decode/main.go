// Command decode prints the structure of a NEXRAD Level II archive volume:
// the volume header, the station block, and a per-elevation breakdown of
// radial counts, angles, moment inventory, and reflectivity maxima.
//
// Usage:
//
//	go run ./cmd/decode KCRP20170825_235733_V06
package main

import (
	"flag"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/disasterscience/nexrad/internal/domain"
	"github.com/disasterscience/nexrad/internal/level2"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		return fmt.Errorf("expected exactly one archive path, got %d", flag.NArg())
	}

	df, err := level2.DecodeFile(flag.Arg(0))
	if err != nil {
		return err
	}

	vh := df.VolumeHeader()
	fmt.Printf("Volume:   %s %s %s\n", vh.Label(), vh.Site(),
		domain.VolumeTime(vh.Date, vh.Time).Format(time.RFC3339))

	if vol := df.FirstVolumeData(); vol != nil {
		fmt.Printf("Station:  %.3f, %.3f  height %dm  VCP %d\n",
			vol.Lat, vol.Lon, vol.SiteHeight, vol.VolumeCoveragePattern)
	}

	scans := df.SortedElevationScans()
	radialCount := 0
	for _, radials := range scans {
		radialCount += len(radials)
	}
	fmt.Printf("Cuts:     %d  Radials: %d\n\n", len(scans), radialCount)

	cuts := make([]uint8, 0, len(scans))
	for elev := range scans {
		cuts = append(cuts, elev)
	}
	slices.Sort(cuts)

	fmt.Printf("%4s  %7s  %7s  %-28s  %s\n", "Cut", "Radials", "Angle", "Moments", "Max REF")
	for _, elev := range cuts {
		radials := scans[elev]
		fmt.Printf("%4d  %7d  %6.2f°  %-28s  %s\n",
			elev, len(radials), radials[0].Header.Elevation,
			strings.Join(momentInventory(radials), " "), maxReflectivity(radials))
	}
	return nil
}

// momentInventory lists the products present on any radial of the cut.
func momentInventory(radials []*level2.Message31) []string {
	var tags []string
	for _, p := range level2.Products() {
		for _, r := range radials {
			if r.Moment(p) != nil {
				tags = append(tags, p.String())
				break
			}
		}
	}
	return tags
}

// maxReflectivity scans every valid REF gate in the cut.
func maxReflectivity(radials []*level2.Message31) string {
	var maxRef *float32
	for _, r := range radials {
		m := r.Moment(level2.Reflectivity)
		if m == nil {
			continue
		}
		gates, err := m.ScaledGates()
		if err != nil {
			return "error: " + err.Error()
		}
		for _, g := range gates {
			if g.Status != level2.GateValid {
				continue
			}
			if maxRef == nil || g.Value > *maxRef {
				v := g.Value
				maxRef = &v
			}
		}
	}
	if maxRef == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f dBZ", *maxRef)
}
