// Package metadata derives archive identity from NEXRAD object names. Names
// follow the SSSSYYYYMMDD_HHMMSS pattern, optionally suffixed with a version
// tag, e.g. KCRP20170825_235733_V06. Nothing here looks inside the archive;
// identity comes from the name alone.
package metadata

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

// ErrMalformedName marks an object name that does not follow the archive
// naming pattern.
var ErrMalformedName = errors.New("malformed archive object name")

// sidecarSuffix marks metadata sidecar objects published next to each volume.
// They are not archives and are skipped during listing.
const sidecarSuffix = "_MDM"

// FileMetadata identifies one archive object.
type FileMetadata struct {
	Site       string    // four character ICAO identifier, e.g. KCRP
	Date       time.Time // volume collection time, UTC
	Identifier string    // full object name, e.g. KCRP20170825_235733_V06
}

// Parse derives metadata from an object name or bucket key. A key's directory
// prefix is ignored; only the final path element carries identity.
func Parse(name string) (FileMetadata, error) {
	base := path.Base(strings.TrimSpace(name))
	if len(base) < 19 {
		return FileMetadata{}, fmt.Errorf("%w: %q is shorter than SSSSYYYYMMDD_HHMMSS", ErrMalformedName, base)
	}

	site := base[:4]
	for i, r := range site {
		upper := r >= 'A' && r <= 'Z'
		digit := r >= '0' && r <= '9'
		if !upper && !(digit && i > 0) {
			return FileMetadata{}, fmt.Errorf("%w: %q does not start with an ICAO site identifier", ErrMalformedName, base)
		}
	}

	ts, err := time.Parse("20060102_150405", base[4:19])
	if err != nil {
		return FileMetadata{}, fmt.Errorf("%w: %q has no valid timestamp: %v", ErrMalformedName, base, err)
	}

	return FileMetadata{
		Site:       site,
		Date:       ts,
		Identifier: base,
	}, nil
}

// IsSidecar reports whether the object name names a sidecar rather than an
// archive volume.
func IsSidecar(name string) bool {
	return strings.HasSuffix(strings.TrimSpace(name), sidecarSuffix)
}

func (m FileMetadata) String() string {
	return fmt.Sprintf("%s %s", m.Site, m.Date.Format(time.RFC3339))
}
