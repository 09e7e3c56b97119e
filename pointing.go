package iact

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/unit"
)

// Site is the geographic location of a telescope or array.
// Longitude is positive towards the East.
type Site struct {
	Latitude, Longitude unit.Angle
}

// NewSite returns a Site from a latitude and an east longitude in degrees.
func NewSite(latDeg, lonDeg float64) Site {
	return Site{unit.AngleFromDeg(latDeg), unit.AngleFromDeg(lonDeg)}
}

// PointingFromEquatorial returns the pointing of a target at apparent right
// ascension ra and declination dec, seen from site at time dt.
func PointingFromEquatorial(ra unit.RA, dec unit.Angle, site Site, dt time.Time) Pointing {
	st := sidereal.Apparent(julian.TimeToJD(dt.UTC()))
	// Meeus counts longitudes positive westward and azimuths from the South.
	A, h := coord.EqToHz(ra, dec, site.Latitude, -site.Longitude, st)
	return Pointing{Azimuth: NormalizeAzimuth(A + math.Pi), Altitude: h}
}
