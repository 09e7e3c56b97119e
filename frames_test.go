package iact

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestGroundToTiltedZenith(t *testing.T) {
	g := GroundCoords{X: []float64{1, 0, 3}, Y: []float64{0, 2, -1}, Z: []float64{5, -5, 0}}
	tilted, err := GroundToTilted(g, NewPointing(0, 90))
	if err != nil {
		t.Fatal(err)
	}
	// Looking straight up, the tilted plane is the ground plane.
	if !vectorsEqual(tilted.X, g.X) || !vectorsEqual(tilted.Y, g.Y) {
		t.Fatalf("got x=%+v y=%+v", tilted.X, tilted.Y)
	}
	tilted, err = GroundToTilted(g, NewPointing(90, 90))
	if err != nil {
		t.Fatal(err)
	}
	if !vectorsEqual(tilted.X, []float64{0, -2, 1}) || !vectorsEqual(tilted.Y, []float64{1, 0, 3}) {
		t.Fatalf("az=90: got x=%+v y=%+v", tilted.X, tilted.Y)
	}
}

func TestTiltedRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))
	n := 50
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = 500 * (rng.Float64() - 0.5)
		y[i] = 500 * (rng.Float64() - 0.5)
	}
	for az := 0.0; az < 360; az += 30 {
		for _, alt := range []float64{5, 30, 45, 60, 89, 90} {
			p := NewPointing(az, alt)
			g, err := TiltedToGround(TiltedCoords{x, y, p})
			if err != nil {
				t.Fatal(err)
			}
			back, err := GroundToTilted(g, p)
			if err != nil {
				t.Fatal(err)
			}
			if !floats.EqualApprox(back.X, x, 1e-9) || !floats.EqualApprox(back.Y, y, 1e-9) {
				t.Fatalf("%s: tilted -> ground -> tilted round trip failed", p)
			}
			// Embedded points lie in the tilted plane: nothing along the pointing axis.
			axis := p.Axis()
			for i := range g.X {
				along := axis[0]*g.X[i] + axis[1]*g.Y[i] + axis[2]*g.Z[i]
				if !scalar.EqualWithinAbs(along, 0, 1e-9) {
					t.Fatalf("%s: point %d is %f m off the tilted plane", p, i, along)
				}
			}
			// And thus a ground -> tilted -> ground round trip recovers them.
			g2, err := TiltedToGround(back)
			if err != nil {
				t.Fatal(err)
			}
			if !floats.EqualApprox(g2.X, g.X, 1e-9) || !floats.EqualApprox(g2.Y, g.Y, 1e-9) || !floats.EqualApprox(g2.Z, g.Z, 1e-9) {
				t.Fatalf("%s: ground -> tilted -> ground round trip failed", p)
			}
		}
	}
}

func TestProjectToGround(t *testing.T) {
	p := NewPointing(0, 45)
	g, err := ProjectToGround(TiltedCoords{[]float64{1}, []float64{0}, p})
	if err != nil {
		t.Fatal(err)
	}
	// (√2/2, 0, -√2/2) slides along (√2/2, 0, √2/2) down to the ground.
	if !vectorsEqual([]float64{g.X[0], g.Y[0], g.Z[0]}, []float64{math.Sqrt2, 0, 0}) {
		t.Fatalf("got (%f, %f, %f)", g.X[0], g.Y[0], g.Z[0])
	}

	tilted := TiltedCoords{[]float64{-120, 0, 35, 300}, []float64{80, 0, -12, 41}, NewPointing(137, 62)}
	embedded, err := TiltedToGround(tilted)
	if err != nil {
		t.Fatal(err)
	}
	projected, err := ProjectToGround(tilted)
	if err != nil {
		t.Fatal(err)
	}
	axis := tilted.Pointing.Axis()
	for i := range projected.X {
		if projected.Z[i] != 0 {
			t.Fatalf("point %d not on the ground", i)
		}
		// The displacement must be parallel to the pointing axis.
		disp := []float64{projected.X[i] - embedded.X[i], projected.Y[i] - embedded.Y[i], -embedded.Z[i]}
		cross := []float64{disp[1]*axis[2] - disp[2]*axis[1], disp[2]*axis[0] - disp[0]*axis[2], disp[0]*axis[1] - disp[1]*axis[0]}
		if !floats.EqualApprox(cross, []float64{0, 0, 0}, 1e-9) {
			t.Fatalf("point %d was not moved along the pointing axis: %+v", i, cross)
		}
	}
	// The origin stays put.
	if projected.X[1] != 0 || projected.Y[1] != 0 {
		t.Fatal("origin moved")
	}
}

func TestFramesErrors(t *testing.T) {
	_, err := GroundToTilted(GroundCoords{X: []float64{1, 2}, Y: []float64{1}, Z: []float64{1, 2}}, NewPointing(0, 70))
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = TiltedToGround(TiltedCoords{X: []float64{1, 2}, Y: []float64{1, 2, 3}, Pointing: NewPointing(0, 70)})
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = ProjectToGround(TiltedCoords{X: []float64{1}, Y: nil, Pointing: NewPointing(0, 70)})
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = ProjectToGround(TiltedCoords{X: []float64{1}, Y: []float64{1}, Pointing: Pointing{}})
	assert.ErrorIs(t, err, ErrHorizontalPointing)

	tilted, err := GroundToTilted(GroundCoords{}, NewPointing(10, 20))
	require.NoError(t, err)
	assert.Empty(t, tilted.X)
	assert.Empty(t, tilted.Y)
	ground, err := TiltedToGround(tilted)
	require.NoError(t, err)
	assert.Empty(t, ground.Z)
}
