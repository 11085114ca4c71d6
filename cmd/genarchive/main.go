// Command genarchive writes a synthetic NEXRAD Level II archive for local
// decoding, rendering, and pipeline runs. The generated volume carries
// reflectivity and velocity moments with deterministic sample patterns, so
// repeated runs with the same flags produce identical files.
//
// Usage:
//
//	go run ./cmd/genarchive -site KCRP -time 2017-08-25T23:57:33Z -elevations 9 -compress
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/disasterscience/nexrad/internal/archivegen"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	site := flag.String("site", "KCRP", "four character ICAO site identifier")
	timestamp := flag.String("time", "2017-08-25T23:57:33Z", "volume start time, RFC3339")
	lat := flag.Float64("lat", 27.784, "station latitude")
	lon := flag.Float64("lon", -97.511, "station longitude")
	vcp := flag.Int("vcp", 212, "volume coverage pattern")
	elevations := flag.Int("elevations", 9, "number of elevation cuts")
	radials := flag.Int("radials", 8, "radials per cut")
	gates := flag.Int("gates", 256, "gates per moment")
	legacy := flag.Int("legacy", 3, "leading legacy housekeeping frames")
	compress := flag.Bool("compress", false, "bzip2-frame the archive")
	out := flag.String("o", "", "output path (default SITEyyyymmdd_hhmmss_V06)")
	flag.Parse()

	if len(*site) != 4 {
		return fmt.Errorf("invalid site %q: want a four character identifier", *site)
	}
	start, err := time.Parse(time.RFC3339, *timestamp)
	if err != nil {
		return fmt.Errorf("invalid -time: %w", err)
	}
	start = start.UTC()

	path := *out
	if path == "" {
		path = fmt.Sprintf("%s%s_V06", *site, start.Format("20060102_150405"))
	}

	days, msec := wireTime(start)
	b := &archivegen.Builder{
		Site:         *site,
		Date:         days,
		Time:         msec,
		Lat:          float32(*lat),
		Lon:          float32(*lon),
		VCP:          uint16(*vcp),
		LegacyFrames: *legacy,
	}
	for elev := 1; elev <= *elevations; elev++ {
		for i := 0; i < *radials; i++ {
			b.Radials = append(b.Radials, archivegen.Radial{
				ElevationNumber: uint8(elev),
				AzimuthNumber:   uint16(i + 1),
				Azimuth:         float32(i) * 360 / float32(*radials),
				Elevation:       float32(elev) * 0.5,
				Moments: []archivegen.Moment{
					archivegen.RefMoment(*gates),
					archivegen.VelMoment(*gates),
				},
			})
		}
	}

	var data []byte
	if *compress {
		data, err = b.BuildCompressed()
		if err != nil {
			return err
		}
	} else {
		data = b.Build()
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	framing := "plain"
	if *compress {
		framing = "bzip2"
	}
	fmt.Printf("wrote %s (%d bytes, %s, %d cuts x %d radials)\n",
		path, len(data), framing, *elevations, *radials)
	return nil
}

// wireTime converts a UTC instant to the archive header's day count and
// milliseconds past midnight. Day 1 is 1 January 1970.
func wireTime(t time.Time) (days, msec uint32) {
	base := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return uint32(midnight.Sub(base)/(24*time.Hour)) + 1, uint32(t.Sub(midnight) / time.Millisecond)
}
