package iact

import (
	"fmt"
	"math"

	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/mat"
)

// projectionEpsilon is the smallest vertical component of the pointing axis
// for which a projection onto the ground is attempted.
const projectionEpsilon = 1e-12

// Pointing defines the orientation of a tilted frame: a telescope pointing or
// a reconstructed shower direction.
// Azimuth is measured from North towards East, altitude from the ground plane.
type Pointing struct {
	Azimuth, Altitude unit.Angle
}

// NewPointing returns a Pointing from an azimuth and an altitude in degrees.
func NewPointing(azDeg, altDeg float64) Pointing {
	return Pointing{unit.AngleFromDeg(azDeg), unit.AngleFromDeg(altDeg)}
}

// Rotation returns the ground to tilted rotation matrix of this pointing.
func (p Pointing) Rotation() *mat.Dense {
	return TiltedRotation(p.Azimuth, p.Altitude)
}

// Axis returns the unit pointing vector in ground coordinates.
func (p Pointing) Axis() []float64 {
	return mat.Row(nil, 2, p.Rotation())
}

func (p Pointing) String() string {
	return fmt.Sprintf("az=%.4f° alt=%.4f°", p.Azimuth.Deg(), p.Altitude.Deg())
}

// GroundCoords is a set of points in the ground frame, a cartesian frame
// centered on the nominal array center. All lengths are in meters.
type GroundCoords struct {
	X, Y, Z []float64
}

// Len returns the number of points, or an error if the arrays differ in length.
func (g GroundCoords) Len() (int, error) {
	if len(g.X) != len(g.Y) || len(g.X) != len(g.Z) {
		return 0, fmt.Errorf("ground coordinates x=%d y=%d z=%d: %w", len(g.X), len(g.Y), len(g.Z), ErrShapeMismatch)
	}
	return len(g.X), nil
}

// TiltedCoords is a set of points in the plane perpendicular to Pointing.
// All lengths are in meters.
type TiltedCoords struct {
	X, Y     []float64
	Pointing Pointing
}

// Len returns the number of points, or an error if the arrays differ in length.
func (t TiltedCoords) Len() (int, error) {
	if len(t.X) != len(t.Y) {
		return 0, fmt.Errorf("tilted coordinates x=%d y=%d: %w", len(t.X), len(t.Y), ErrShapeMismatch)
	}
	return len(t.X), nil
}

// GroundToTilted converts ground frame points to the frame tilted towards p.
// The component along the pointing axis is dropped.
func GroundToTilted(g GroundCoords, p Pointing) (TiltedCoords, error) {
	n, err := g.Len()
	if err != nil {
		return TiltedCoords{}, err
	}
	tilted := TiltedCoords{X: make([]float64, n), Y: make([]float64, n), Pointing: p}
	if n == 0 {
		return tilted, nil
	}
	data := make([]float64, 0, 3*n)
	data = append(append(append(data, g.X...), g.Y...), g.Z...)
	G := mat.NewDense(3, n, data)
	var T mat.Dense
	T.Mul(p.Rotation().Slice(0, 2, 0, 3), G)
	mat.Row(tilted.X, 0, &T)
	mat.Row(tilted.Y, 1, &T)
	return tilted, nil
}

// TiltedToGround returns the ground frame position of tilted frame points.
// The points are assumed to lie in the tilted plane, so the result is the 3D
// embedding of that plane and not a projection onto the ground (cf. ProjectToGround).
func TiltedToGround(t TiltedCoords) (GroundCoords, error) {
	n, err := t.Len()
	if err != nil {
		return GroundCoords{}, err
	}
	ground := GroundCoords{make([]float64, n), make([]float64, n), make([]float64, n)}
	if n == 0 {
		return ground, nil
	}
	data := make([]float64, 0, 2*n)
	data = append(append(data, t.X...), t.Y...)
	T := mat.NewDense(2, n, data)
	var G mat.Dense
	G.Mul(t.Pointing.Rotation().Slice(0, 2, 0, 3).T(), T)
	mat.Row(ground.X, 0, &G)
	mat.Row(ground.Y, 1, &G)
	mat.Row(ground.Z, 2, &G)
	return ground, nil
}

// ProjectToGround projects tilted frame points onto the ground plane (z=0)
// along the pointing axis. This is typically used to turn a shower core
// reconstructed in the tilted frame into an impact point on the ground.
func ProjectToGround(t TiltedCoords) (GroundCoords, error) {
	ground, err := TiltedToGround(t)
	if err != nil {
		return GroundCoords{}, err
	}
	axis := t.Pointing.Axis()
	if math.Abs(axis[2]) < projectionEpsilon {
		return GroundCoords{}, fmt.Errorf("projecting along %s: %w", t.Pointing, ErrHorizontalPointing)
	}
	for i, z := range ground.Z {
		ground.X[i] -= axis[0] * z / axis[2]
		ground.Y[i] -= axis[1] * z / axis[2]
		ground.Z[i] = 0
	}
	return ground, nil
}
