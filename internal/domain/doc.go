// Package domain models decoded radar volumes as publishable sweep summaries.
//
// # Data Source
//
// Volumes originate as NEXRAD Level II archive files from the public NOAA
// bucket (https://noaa-nexrad-level2.s3.amazonaws.com), one object per radar
// volume scan, keyed YYYY/MM/DD/SITE/. The adapter in internal/adapter/noaa
// lists and downloads them; internal/level2 decodes the raw bytes. This
// package consumes only the decoded structure and the parsed object name.
//
// # Time Conventions
//
// The archive stores dates as a day count since 1 January 1970 where the
// value 1 names 1 January 1970 itself, paired with milliseconds past midnight
// UTC. [VolumeTime] converts such a pair to a UTC time.Time. The object name
// carries its own collection timestamp (parsed by internal/metadata); the
// summary's VolumeTime always comes from the volume header, which is
// authoritative.
//
// # ID Generation
//
// Summary IDs are deterministic SHA-256 hashes of site|identifier|volume
// time. Reprocessing the same archive produces the same ID, so downstream
// consumers can upsert or deduplicate on it and replays are safe without
// coordination. See [generateID].
//
// # Reflectivity Maximum
//
// MaxReflectivity is the largest scaled reflectivity value across every gate
// of every radial in the volume, counting only gates that hold a physical
// measurement. Below-threshold and range-folded gates never contribute. The
// field is absent when the volume carries no valid reflectivity gate at all.
package domain
