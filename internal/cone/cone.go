// Public domain.

// Package cone selects sky positions within an angular radius of a
// reference position.
//
// Separations are true great circle distances computed with the haversine
// formula, well conditioned for the small radii typical of a cone search
// and correct across the RA 0/360 wrap and near the poles.
package cone

import (
	"fmt"

	"github.com/soniakeys/meeus/v3/angle"
	"github.com/soniakeys/unit"
)

// Position is an equatorial sky position in degrees.
type Position struct {
	RA, Dec float64
}

// Angles returns p as right ascension and declination angles.
func (p Position) Angles() (ra, dec unit.Angle) {
	return unit.AngleFromDeg(p.RA), unit.AngleFromDeg(p.Dec)
}

// Separation returns the great circle angular distance between p1 and p2.
func Separation(p1, p2 Position) unit.Angle {
	r1, d1 := p1.Angles()
	r2, d2 := p2.Angles()
	return angle.SepHav(r1, d1, r2, d2)
}

// Search returns a mask, true where the candidate at (ra[i], dec[i]) lies
// strictly closer to center than radius.
//
// ra and dec are in degrees and must have equal length.  They are not
// modified.
func Search(center Position, radius unit.Angle, ra, dec []float64) ([]bool, error) {
	if len(ra) != len(dec) {
		return nil, fmt.Errorf("cone search: %d RA values but %d Dec values",
			len(ra), len(dec))
	}
	r0, d0 := center.Angles()
	mask := make([]bool, len(ra))
	for i := range ra {
		sep := angle.SepHav(r0, d0, unit.AngleFromDeg(ra[i]), unit.AngleFromDeg(dec[i]))
		mask[i] = sep < radius
	}
	return mask, nil
}
