package sim

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultTolerance is the relative L2 acceptance threshold for the
// Poiseuille comparison.
const DefaultTolerance = 0.03

// Profile is a sampled centerline velocity profile: position along the
// probe line and the streamwise velocity component.
type Profile struct {
	X []float64
	U []float64
}

// ProfilePath returns the sampled set location for a write time, e.g.
// ProfilePath("case", "200").
func ProfilePath(caseDir, time string) string {
	return filepath.Join(caseDir, "postProcessing", "sets", time, "centerLine_U.xy")
}

// LoadProfile parses a raw set sample of the velocity field. Blank lines
// and # comments are skipped. Each data row is the probe position
// followed by the velocity vector; rows with six or more columns carry a
// full xyz position prefix instead.
func LoadProfile(r io.Reader) (Profile, error) {
	var prof Profile
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		vals := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return Profile{}, fmt.Errorf("sample line %d: %w", line, err)
			}
			vals[i] = v
		}
		var x, u float64
		switch {
		case len(vals) >= 6:
			x, u = vals[0], vals[3]
		case len(vals) >= 2:
			x, u = vals[0], vals[1]
		default:
			return Profile{}, fmt.Errorf("sample line %d: %d columns, want at least 2", line, len(vals))
		}
		prof.X = append(prof.X, x)
		prof.U = append(prof.U, u)
	}
	if err := sc.Err(); err != nil {
		return Profile{}, err
	}
	if len(prof.X) == 0 {
		return Profile{}, errors.New("sample file has no data rows")
	}
	return prof, nil
}

// PoiseuilleRef evaluates the parabolic reference profile
// umax*(1-(x/halfSpan)^2) at each position.
func PoiseuilleRef(x []float64, umax, halfSpan float64) []float64 {
	ref := make([]float64, len(x))
	for i, xi := range x {
		r := xi / halfSpan
		ref[i] = umax * (1 - r*r)
	}
	return ref
}

// RelL2 is the relative L2 deviation |num-ref| / |ref|.
func RelL2(num, ref []float64) float64 {
	if len(num) != len(ref) {
		panic("profile length mismatch")
	}
	var dd, rr float64
	for i := range num {
		d := num[i] - ref[i]
		dd += d * d
		rr += ref[i] * ref[i]
	}
	return math.Sqrt(dd) / math.Sqrt(rr)
}

// Validate compares a sampled profile against Poiseuille flow with the
// parabola scaled to the sampled peak. A degenerate profile with no
// positive peak is rejected before comparison.
func Validate(p Profile, halfSpan, tol float64) error {
	if len(p.X) == 0 {
		return errors.New("empty velocity profile")
	}
	umax := p.U[0]
	for _, u := range p.U[1:] {
		if u > umax {
			umax = u
		}
	}
	if umax <= 0 {
		return fmt.Errorf("degenerate velocity profile, peak %g", umax)
	}
	relErr := RelL2(p.U, PoiseuilleRef(p.X, umax, halfSpan))
	if !(relErr < tol) {
		return fmt.Errorf("velocity deviates %.2f%% from Poiseuille, tolerance %.2f%%", 100*relErr, 100*tol)
	}
	return nil
}
