package estimator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/motionlab/rigidmotion/spatialmath"
)

func TestShortestArcRotationBatch(t *testing.T) {
	n := 10
	from := make([]r3.Vector, n)
	to := make([]r3.Vector, n)
	for i := 0; i < n; i++ {
		from[i] = r3.Vector{X: 1, Y: 0, Z: 0}
		to[i] = r3.Vector{X: 0, Y: 1, Z: 0}
	}

	qs, err := ShortestArcRotation(from, to)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, qs, test.ShouldHaveLength, n)
	for _, q := range qs {
		test.That(t, q.Real, test.ShouldAlmostEqual, math.Sqrt2/2)
		test.That(t, q.Kmag, test.ShouldAlmostEqual, math.Sqrt2/2)
	}

	_, err = ShortestArcRotation(from, to[:n-1])
	test.That(t, errors.Is(err, ErrShapeMismatch), test.ShouldBeTrue)
}

func TestBestFitTransform(t *testing.T) {
	//nolint:gosec
	rnd := rand.New(rand.NewSource(1))
	pose := spatialmath.NewPose(
		r3.Vector{X: 1, Y: -0.5, Z: 2},
		spatialmath.R4AA{Theta: math.Pi / 2, RX: 1, RY: 0, RZ: 0}.ToQuat(),
	)

	src := make([]r3.Vector, 10)
	dst := make([]r3.Vector, 10)
	for i := range src {
		src[i] = r3.Vector{X: rnd.NormFloat64(), Y: rnd.NormFloat64(), Z: rnd.NormFloat64()}
		dst[i] = pose.TransformPoint(src[i])
	}

	translation, rotation, err := BestFitTransform(src, dst)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, translation.X, test.ShouldAlmostEqual, 1, 1e-8)
	test.That(t, translation.Y, test.ShouldAlmostEqual, -0.5, 1e-8)
	test.That(t, translation.Z, test.ShouldAlmostEqual, 2, 1e-8)
	test.That(t, spatialmath.QuaternionAlmostEqual(rotation, pose.Orientation(), 1e-8), test.ShouldBeTrue)
}

func TestBestFitTransformValidation(t *testing.T) {
	pts := []r3.Vector{{X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}}

	_, _, err := BestFitTransform(pts, pts[:2])
	test.That(t, errors.Is(err, ErrShapeMismatch), test.ShouldBeTrue)

	_, _, err = BestFitTransform(pts[:2], pts[:2])
	test.That(t, errors.Is(err, ErrShapeMismatch), test.ShouldBeTrue)
}
