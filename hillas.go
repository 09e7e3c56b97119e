package iact

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Degeneracy flags the Hillas quantities which are undefined for a given image.
type Degeneracy uint8

const (
	// DegenerateCircular is set when the image has no preferred axis (equal
	// variance in all directions). Psi, Miss, Alpha and the major axis line are NaN.
	DegenerateCircular Degeneracy = 1 << iota
	// DegenerateCentroid is set when the centroid lies on the origin. Phi,
	// Alpha and AzWidth are NaN.
	DegenerateCentroid
	// DegenerateAxisAligned is set when the image covariance is diagonal. Only
	// the major axis line (Slope, Intercept) is NaN.
	DegenerateAxisAligned
)

// Has returns whether all the flags of f are set.
func (d Degeneracy) Has(f Degeneracy) bool {
	return d&f == f
}

func (d Degeneracy) String() string {
	if d == 0 {
		return "none"
	}
	var names []string
	for _, f := range []struct {
		flag Degeneracy
		name string
	}{{DegenerateCircular, "circular"}, {DegenerateCentroid, "centroid"}, {DegenerateAxisAligned, "axis-aligned"}} {
		if d.Has(f.flag) {
			names = append(names, f.name)
		}
	}
	return strings.Join(names, "|")
}

// Hillas stores the Hillas parameters of a shower image.
// Lengths are in the unit of the pixel coordinates, angles in radians.
type Hillas struct {
	Size     float64 // total intensity
	X, Y     float64 // centroid
	Length   float64 // standard deviation along the major axis
	Width    float64 // standard deviation along the minor axis
	Distance float64 // distance from the origin to the centroid
	AzWidth  float64 // standard deviation perpendicular to the origin-centroid line
	Psi      float64 // major axis orientation from the x axis, in (-π/2, π/2]
	Phi      float64 // polar angle of the centroid
	Alpha    float64 // angle between the major axis and the origin-centroid line
	Miss     float64 // distance from the origin to the major axis
	// Major axis as the line y = Slope*x + Intercept.
	Slope, Intercept float64
	Degeneracy       Degeneracy
}

// Keyvals returns the parameters as alternating keys and values for structured loggers.
func (h Hillas) Keyvals() []interface{} {
	return []interface{}{"size", h.Size, "x", h.X, "y", h.Y, "length", h.Length, "width", h.Width,
		"distance", h.Distance, "azwidth", h.AzWidth, "psi", h.Psi, "phi", h.Phi, "alpha", h.Alpha,
		"miss", h.Miss, "slope", h.Slope, "intercept", h.Intercept, "degeneracy", h.Degeneracy}
}

func (h Hillas) String() string {
	return fmt.Sprintf("size=%.3f c=(%.4f, %.4f) l=%.4f w=%.4f d=%.4f ψ=%.4f α=%.4f miss=%.4f [%s]",
		h.Size, h.X, h.Y, h.Length, h.Width, h.Distance, h.Psi, h.Alpha, h.Miss, h.Degeneracy)
}

// moments holds the weighted first and central second moments of an image.
type moments struct {
	size          float64
	mx, my        float64
	vx2, vy2, vxy float64
}

// d returns vy2 - vx2.
func (m moments) d() float64 {
	return m.vy2 - m.vx2
}

// z returns the eigenvalue split of the covariance, sqrt(d² + 4vxy²).
func (m moments) z() float64 {
	return math.Hypot(m.d(), 2*m.vxy)
}

func (m moments) circular() bool {
	return negligible(m.z(), m.vx2+m.vy2)
}

func (m moments) axisAligned() bool {
	return negligible(m.vxy, m.vx2+m.vy2)
}

func imageMoments(x, y, s []float64) (moments, error) {
	if len(x) != len(s) || len(y) != len(s) {
		return moments{}, fmt.Errorf("image x=%d y=%d intensity=%d: %w", len(x), len(y), len(s), ErrShapeMismatch)
	}
	if len(s) == 0 {
		return moments{}, ErrEmptyImage
	}
	for i := range s {
		if !finite(x[i]) || !finite(y[i]) || !finite(s[i]) {
			return moments{}, fmt.Errorf("pixel %d (%f, %f) has intensity %f: %w", i, x[i], y[i], s[i], ErrInvalidPixel)
		}
	}
	// MinIdx skips NaN, hence the check above comes first.
	if i := floats.MinIdx(s); s[i] < 0 {
		return moments{}, fmt.Errorf("pixel %d has intensity %f: %w", i, s[i], ErrNegativeIntensity)
	}
	var m moments
	if m.size = floats.Sum(s); m.size == 0 {
		return moments{}, ErrZeroSize
	}
	// Central moments are accumulated about the centroid, which is exact in
	// the same way as m_xx - m_x² but does not cancel for far off-center images.
	m.mx, m.vx2 = stat.PopMeanVariance(x, s)
	m.my, m.vy2 = stat.PopMeanVariance(y, s)
	dxdy := make([]float64, len(s))
	for i := range dxdy {
		dxdy[i] = (x[i] - m.mx) * (y[i] - m.my)
	}
	m.vxy = stat.Mean(dxdy, s)
	return m, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// HillasParameters computes the Hillas parameters of an image from its pixel
// coordinates x, y and intensities s.
// Reference: Appendix of the Whipple Crab paper Weekes et al. (1989).
// Quantities which are undefined for the image are NaN and flagged in Degeneracy.
func HillasParameters(x, y, s []float64) (Hillas, error) {
	m, err := imageMoments(x, y, s)
	if err != nil {
		return Hillas{}, err
	}
	d, z := m.d(), m.z()
	h := Hillas{
		Size:     m.size,
		X:        m.mx,
		Y:        m.my,
		Width:    sqrtClamped(m.vx2 + m.vy2 - z),
		Length:   sqrtClamped(m.vx2 + m.vy2 + z),
		Distance: math.Hypot(m.mx, m.my),
	}
	if m.circular() {
		h.Degeneracy |= DegenerateCircular
	}
	if negligible(h.Distance, h.Distance+h.Length) {
		h.Degeneracy |= DegenerateCentroid
	}
	if m.axisAligned() {
		h.Degeneracy |= DegenerateAxisAligned
	}

	if h.Degeneracy.Has(DegenerateCircular) {
		h.Psi, h.Miss = math.NaN(), math.NaN()
	} else {
		h.Psi = 0.5 * math.Atan2(2*m.vxy, m.vx2-m.vy2)
		u := 1 + d/z
		v := 2 - u
		h.Miss = sqrtClamped((u*m.mx*m.mx+v*m.my*m.my)/2 - m.mx*m.my*2*m.vxy/z)
	}

	if h.Degeneracy.Has(DegenerateCentroid) {
		h.Phi, h.AzWidth = math.NaN(), math.NaN()
	} else {
		h.Phi = math.Atan2(m.my, m.mx)
		h.AzWidth = azimuthalWidth(x, y, s, m, h.Distance)
	}

	if h.Degeneracy&(DegenerateCircular|DegenerateCentroid) != 0 {
		h.Alpha = math.NaN()
	} else {
		h.Alpha = math.Asin(math.Min(h.Miss/h.Distance, 1))
	}

	if line, err := m.majorAxis(); err != nil {
		h.Slope, h.Intercept = math.NaN(), math.NaN()
	} else {
		h.Slope, h.Intercept = line.Slope, line.Intercept
	}
	return h, nil
}

// azimuthalWidth returns the standard deviation of the image along q, the axis
// perpendicular to the line from the origin through the centroid.
func azimuthalWidth(x, y, s []float64, m moments, r float64) float64 {
	sinθ, cosθ := m.my/r, m.mx/r
	q := make([]float64, len(s))
	for i := range q {
		q[i] = (m.mx-x[i])*sinθ + (y[i]-m.my)*cosθ
	}
	_, v := stat.PopMeanVariance(q, s)
	return sqrtClamped(v)
}

// MajorAxis is the image major axis as the line y = Slope*x + Intercept.
type MajorAxis struct {
	Slope, Intercept float64
}

// Miss returns the distance from the origin to the line.
func (l MajorAxis) Miss() float64 {
	return math.Abs(l.Intercept) / math.Sqrt(1+l.Slope*l.Slope)
}

func (m moments) majorAxis() (MajorAxis, error) {
	if m.axisAligned() {
		return MajorAxis{}, ErrAxisAligned
	}
	d, z := m.d(), m.z()
	// (d+z)/2vxy and 2vxy/(z-d) are equal, pick the one which does not cancel.
	var a float64
	if d >= 0 {
		a = (d + z) / (2 * m.vxy)
	} else {
		a = 2 * m.vxy / (z - d)
	}
	return MajorAxis{a, m.my - a*m.mx}, nil
}

// MajorAxisLine fits the major axis of an image as a line y = a*x + b.
// It fails with ErrAxisAligned when the covariance is diagonal, since the slope
// is then either zero or infinite and cannot be told apart from the moments.
func MajorAxisLine(x, y, s []float64) (MajorAxis, error) {
	m, err := imageMoments(x, y, s)
	if err != nil {
		return MajorAxis{}, err
	}
	return m.majorAxis()
}
