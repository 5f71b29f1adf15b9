package coordinates

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestCartesianToPolar(t *testing.T) {
	rows := [][]float64{{1, 1}, {0, 2}}
	out, err := CartesianToPolar(rows)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out[0][0], test.ShouldAlmostEqual, math.Sqrt2)
	test.That(t, out[0][1], test.ShouldAlmostEqual, math.Pi/4)
	test.That(t, out[1][0], test.ShouldAlmostEqual, 2)
	test.That(t, out[1][1], test.ShouldAlmostEqual, math.Pi/2)

	_, err = CartesianToPolar([][]float64{{1, 2, 3}})
	test.That(t, errors.Is(err, ErrShapeMismatch), test.ShouldBeTrue)
}

func TestPolarRoundTrip(t *testing.T) {
	rows := [][]float64{{math.Sqrt2, math.Pi / 4}}
	cart, err := PolarToCartesian(rows)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cart[0][0], test.ShouldAlmostEqual, 1)
	test.That(t, cart[0][1], test.ShouldAlmostEqual, 1)

	back, err := CartesianToPolar(cart)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, back[0][0], test.ShouldAlmostEqual, math.Sqrt2)
	test.That(t, back[0][1], test.ShouldAlmostEqual, math.Pi/4)
}

func TestSphericalRoundTrip(t *testing.T) {
	rows := [][]float64{{1, 1, 1}, {0, 0, 2}, {-1, 0.5, 3}}
	sph, err := CartesianToSpherical(rows)
	test.That(t, err, test.ShouldBeNil)

	// (1,1,1) has radius sqrt(3), azimuth pi/4
	test.That(t, sph[0][0], test.ShouldAlmostEqual, math.Sqrt(3))
	test.That(t, sph[0][2], test.ShouldAlmostEqual, math.Pi/4)
	// a point on the z axis has zero polar angle
	test.That(t, sph[1][1], test.ShouldAlmostEqual, 0)

	back, err := SphericalToCartesian(sph)
	test.That(t, err, test.ShouldBeNil)
	for i := range rows {
		for c := 0; c < 3; c++ {
			test.That(t, back[i][c], test.ShouldAlmostEqual, rows[i][c])
		}
	}
}

func TestUnsupportedConversion(t *testing.T) {
	_, err := Convert(Polar, Spherical, [][]float64{{1, 0}})
	test.That(t, errors.Is(err, ErrUnsupportedConversion), test.ShouldBeTrue)

	_, err = Convert("cylindrical", Cartesian, [][]float64{{1, 0}})
	test.That(t, errors.Is(err, ErrUnsupportedConversion), test.ShouldBeTrue)
}

func TestZeroRadius(t *testing.T) {
	sph, err := CartesianToSpherical([][]float64{{0, 0, 0}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sph[0], test.ShouldResemble, []float64{0, 0, 0})
}
