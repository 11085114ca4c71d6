package domain

import "time"

// Geo is a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// SweepSummary is the publishable digest of one decoded volume scan.
type SweepSummary struct {
	ID         string    `json:"id"`
	Site       string    `json:"site"`
	Identifier string    `json:"identifier"`
	VolumeTime time.Time `json:"volume_time"`

	VCP     uint16 `json:"vcp,omitempty"`     // volume coverage pattern number
	Station *Geo   `json:"station,omitempty"` // absent when the volume has no VOL block

	ElevationCount int      `json:"elevation_count"`
	RadialCount    int      `json:"radial_count"`
	Moments        []string `json:"moments"` // trimmed tags in wire order, e.g. ["REF","VEL"]

	MaxReflectivity *float64 `json:"max_reflectivity,omitempty"` // dBZ, absent without valid gates

	ProcessedAt time.Time `json:"processed_at"`
}
