package iact

import (
	"math"

	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/mat"
)

// TiltedRotation returns the rotation from the ground frame to the frame tilted
// towards the provided azimuth and altitude.
// Rows 0 and 1 span the tilted plane, row 2 is the pointing axis in ground coordinates.
func TiltedRotation(az, alt unit.Angle) *mat.Dense {
	// Altitude is measured from the ground, hence the swapped zenith terms.
	cosZ, sinZ := math.Sincos(alt.Rad())
	sAz, cAz := math.Sincos(az.Rad())
	return mat.NewDense(3, 3, []float64{cosZ * cAz, -cosZ * sAz, -sinZ,
		sAz, cAz, 0,
		sinZ * cAz, -sinZ * sAz, cosZ})
}
