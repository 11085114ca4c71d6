// Command validate runs integrity checks over NEXRAD Level II archive files.
// Each file passes through independent phases: raw header checks, a
// compression framing walk that trusts only the record control words, the
// decode itself, and cross-checks over the decoded radials. Phases report
// pass/fail separately so a corrupt file shows where it first diverges from
// the format.
//
// Usage:
//
//	go run ./cmd/validate KCRP20170825_235733_V06 [FILE...]
package main

import (
	"bytes"
	"encoding/binary"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/disasterscience/nexrad/internal/level2"
)

// msPerDay bounds the milliseconds-past-midnight fields.
const msPerDay = 24 * 60 * 60 * 1000

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	exit := 0
	for _, path := range flag.Args() {
		if code := validateFile(path); code != 0 {
			exit = code
		}
	}
	os.Exit(exit)
}

func validateFile(path string) int {
	fmt.Printf("=== %s ===\n", path)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateHeader(data),
	}

	framing, records := validateFraming(data)
	phases = append(phases, framing)

	df, decodePhase := validateDecode(data)
	phases = append(phases, decodePhase)

	cuts, radials := 0, 0
	if df != nil {
		phases = append(phases, validateConsistency(df))
		for _, rs := range df.ElevationScans() {
			cuts++
			radials += len(rs)
		}
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-38s %s\n", p.name, status)
	}

	fmt.Printf("  %d bytes, %d compressed records, %d cuts, %d radials\n", len(data), records, cuts, radials)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}
	fmt.Println()

	if allPassed {
		return 0
	}
	return 1
}

// validateHeader checks the 24-byte volume header from the raw bytes, without
// the decoder in the loop.
func validateHeader(data []byte) *phase {
	p := &phase{name: "Phase 1: Volume header"}

	if len(data) < level2.VolumeHeaderSize {
		p.errorf("file is %d bytes, the volume header alone is %d", len(data), level2.VolumeHeaderSize)
		return p
	}

	if string(data[:4]) != "AR2V" {
		p.errorf("filename field starts %q, want \"AR2V\"", string(data[:4]))
	}

	site := data[20:24]
	for i, c := range site {
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			p.errorf("site identifier byte %d is %q, want A-Z or 0-9", i, c)
			break
		}
	}

	date := binary.BigEndian.Uint32(data[12:16])
	if date == 0 {
		p.errorf("volume date is zero, the epoch convention starts at 1")
	}
	if t := binary.BigEndian.Uint32(data[16:20]); t >= msPerDay {
		p.errorf("volume time %d exceeds the milliseconds in a day", t)
	}

	return p
}

// validateFraming walks the compressed record chain trusting only the control
// words, and reports the record count. The decoder advances by the byte count
// the decompressor reports, so this is the one place a control word that
// disagrees with its stream gets caught. Plain archives pass trivially.
func validateFraming(data []byte) (*phase, int) {
	p := &phase{name: "Phase 2: Compression framing"}

	if !level2.IsCompressed(data) {
		return p, 0
	}

	rest := data[level2.VolumeHeaderSize:]
	records := 0
	sawFinal := false
	for len(rest) > 0 {
		if len(rest) < 4 {
			p.errorf("record %d: %d bytes left where a control word was expected", records+1, len(rest))
			break
		}
		size := int(int32(binary.BigEndian.Uint32(rest[:4])))
		negated := size < 0
		if negated {
			size = -size
		}
		rest = rest[4:]

		if size == 0 || size > len(rest) {
			p.errorf("record %d: control word %d with %d bytes remaining", records+1, size, len(rest))
			break
		}
		if !bytes.HasPrefix(rest, []byte("BZh")) {
			p.errorf("record %d: no bzip2 magic at stream start", records+1)
		}

		records++
		rest = rest[size:]

		if negated {
			sawFinal = true
			if len(rest) > 0 {
				p.errorf("record %d: control word marks the final record but %d bytes follow", records, len(rest))
			}
			break
		}
	}

	if !sawFinal && p.passed() {
		p.errorf("final record's control word is not negated")
	}

	return p, records
}

func validateDecode(data []byte) (*level2.DataFile, *phase) {
	p := &phase{name: "Phase 3: Decode"}

	df, err := level2.Decode(data)
	if err != nil {
		p.errorf("%v", err)
		return nil, p
	}
	return df, p
}

// validateConsistency cross-checks the decoded radials against the volume
// header and each moment's own geometry fields.
func validateConsistency(df *level2.DataFile) *phase {
	p := &phase{name: "Phase 4: Volume consistency"}

	vh := df.VolumeHeader()
	site := vh.Site()
	vcp := uint16(0)

	for elev, radials := range df.ElevationScans() {
		for _, r := range radials {
			id := fmt.Sprintf("cut %d radial %d", elev, r.Header.AzimuthNumber)

			if got := string(r.Header.RadarID[:]); got != site {
				p.errorf("%s: radar id %q does not match volume header site %q", id, got, site)
			}
			if r.Header.ElevationNumber != elev {
				p.errorf("%s: grouped under cut %d but header says %d", id, elev, r.Header.ElevationNumber)
			}
			if r.Header.AzimuthNumber == 0 {
				p.errorf("%s: azimuth number is zero, numbering starts at 1", id)
			}
			if az := r.Header.Azimuth; az < 0 || az >= 360 || math.IsNaN(float64(az)) {
				p.errorf("%s: azimuth %v out of [0,360)", id, az)
			}
			if r.Header.RayTime >= msPerDay {
				p.errorf("%s: ray time %d exceeds the milliseconds in a day", id, r.Header.RayTime)
			}
			if d := int(r.Header.RayDate) - int(vh.Date); d < -1 || d > 1 {
				p.errorf("%s: ray date %d is %d days from the volume date %d", id, r.Header.RayDate, d, vh.Date)
			}

			if vol := r.VolumeData; vol != nil {
				if vcp == 0 {
					vcp = vol.VolumeCoveragePattern
				} else if vol.VolumeCoveragePattern != vcp {
					p.errorf("%s: coverage pattern %d disagrees with earlier radials' %d", id, vol.VolumeCoveragePattern, vcp)
				}
			}

			validateMoments(p, id, r)
		}
	}

	return p
}

func validateMoments(p *phase, id string, r *level2.Message31) {
	for _, product := range level2.Products() {
		m := r.Moment(product)
		if m == nil {
			continue
		}
		if m.WordSize != 8 && m.WordSize != 16 {
			p.errorf("%s %s: word size %d, want 8 or 16", id, product, m.WordSize)
			continue
		}
		if got, want := len(m.MomentData), m.MomentSize(); got != want {
			p.errorf("%s %s: %d sample bytes for %d gates at %d bits", id, product, got, m.GateCount, m.WordSize)
			continue
		}
		if _, err := m.ScaledGates(); err != nil {
			p.errorf("%s %s: %v", id, product, err)
		}
	}
}
