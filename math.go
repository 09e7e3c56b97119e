package iact

import (
	"math"

	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/floats/scalar"
)

// degeneracyTolerance is the relative threshold below which a moment is
// treated as zero when flagging degenerate images.
const degeneracyTolerance = 1e-9

// negligible returns whether v is zero relative to the provided scale.
func negligible(v, scale float64) bool {
	return scalar.EqualWithinAbs(v, 0, degeneracyTolerance*math.Abs(scale))
}

// sqrtClamped returns the square root of v, or zero if v is negative.
// Second moment differences may dip below zero from rounding alone.
func sqrtClamped(v float64) float64 {
	if v < 0 {
		return 0
	}
	return math.Sqrt(v)
}

// NormalizeAzimuth wraps an azimuth into [0, 2π).
func NormalizeAzimuth(a unit.Angle) unit.Angle {
	r := math.Mod(a.Rad(), 2*math.Pi)
	if r < 0 {
		r += 2 * math.Pi
	}
	return unit.Angle(r)
}

// AngleDiff returns the signed smallest difference a-b in (-π, π].
func AngleDiff(a, b unit.Angle) unit.Angle {
	d := NormalizeAzimuth(a - b).Rad()
	if d > math.Pi {
		d -= 2 * math.Pi
	}
	return unit.Angle(d)
}
