package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disasterscience/nexrad/internal/level2"
	"github.com/disasterscience/nexrad/internal/metadata"
)

// ErrNoRadials marks a decoded volume that carries no radial data at all.
// Such a file (a metadata-only chunk, for example) has nothing to summarize.
var ErrNoRadials = errors.New("volume contains no radials")

// VolumeTime converts the archive's date and time pair to UTC. days counts
// from 1 January 1970 where the value 1 names that day itself; msec is
// milliseconds past midnight.
func VolumeTime(days, msec uint32) time.Time {
	base := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, int(days)-1).Add(time.Duration(msec) * time.Millisecond)
}

// Summarize digests a decoded volume into its publishable summary. The volume
// header provides site and time, the first VOL block provides station
// coordinates and coverage pattern, and the radials provide counts, the
// moment inventory, and the reflectivity maximum.
func Summarize(df *level2.DataFile, meta metadata.FileMetadata) (SweepSummary, error) {
	scans := df.ElevationScans()

	radialCount := 0
	present := make(map[level2.Product]bool)
	var maxRef *float64

	for _, radials := range scans {
		radialCount += len(radials)
		for _, r := range radials {
			for _, p := range level2.Products() {
				m := r.Moment(p)
				if m == nil {
					continue
				}
				present[p] = true
				if p != level2.Reflectivity {
					continue
				}
				gates, err := m.ScaledGates()
				if err != nil {
					return SweepSummary{}, fmt.Errorf("scale reflectivity gates: %w", err)
				}
				for _, g := range gates {
					if g.Status != level2.GateValid {
						continue
					}
					v := float64(g.Value)
					if maxRef == nil || v > *maxRef {
						maxRef = &v
					}
				}
			}
		}
	}

	if radialCount == 0 {
		return SweepSummary{}, fmt.Errorf("%s: %w", meta.Identifier, ErrNoRadials)
	}

	vh := df.VolumeHeader()
	volumeTime := VolumeTime(vh.Date, vh.Time)

	var moments []string
	for _, p := range level2.Products() {
		if present[p] {
			moments = append(moments, p.String())
		}
	}

	summary := SweepSummary{
		ID:              generateID(vh.Site(), meta.Identifier, volumeTime),
		Site:            vh.Site(),
		Identifier:      meta.Identifier,
		VolumeTime:      volumeTime,
		ElevationCount:  len(scans),
		RadialCount:     radialCount,
		Moments:         moments,
		MaxReflectivity: maxRef,
		ProcessedAt:     clock.Now().UTC(),
	}
	if vol := df.FirstVolumeData(); vol != nil {
		summary.VCP = vol.VolumeCoveragePattern
		summary.Station = &Geo{Lat: float64(vol.Lat), Lon: float64(vol.Lon)}
	}
	return summary, nil
}

// generateID produces a deterministic ID from the summary's key fields.
// Deterministic IDs enable idempotent upserts and replay safety downstream:
// reprocessing the same archive produces the same ID.
func generateID(site, identifier string, volumeTime time.Time) string {
	input := fmt.Sprintf("%s|%s|%d", site, identifier, volumeTime.UnixMilli())
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if site == "" {
		return short
	}
	return strings.ToLower(site) + "-" + short
}
