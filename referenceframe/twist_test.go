package referenceframe

import (
	"math"
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/motionlab/rigidmotion/estimator"
	"github.com/motionlab/rigidmotion/spatialmath"
)

// constantVelocitySeries builds poses of a frame translating at velocity v
// along x, sampled at dt intervals.
func constantVelocitySeries(n int, v, dt float64) []estimator.PoseSample {
	samples := make([]estimator.PoseSample, n)
	for i := range samples {
		t := float64(i) * dt
		samples[i] = estimator.PoseSample{
			T:    t,
			Pose: spatialmath.NewPoseFromPoint(r3.Vector{X: v * t, Y: 0, Z: 0}),
		}
	}
	return samples
}

func TestLookupTwistConstantVelocity(t *testing.T) {
	reg := NewRegistry(golog.NewTestLogger(t))

	_, err := reg.NewFrame("world", nil)
	test.That(t, err, test.ShouldBeNil)
	_, err = reg.NewFrame("tracker", "world")
	test.That(t, err, test.ShouldBeNil)

	series := constantVelocitySeries(20, 2.5, 0.01)
	linear, angular, ts, err := reg.LookupTwist(series, "tracker", "world", "world", estimator.TwistOptions{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, linear, test.ShouldHaveLength, 18)
	test.That(t, angular, test.ShouldHaveLength, 18)
	test.That(t, ts, test.ShouldHaveLength, 18)

	for i := range linear {
		test.That(t, linear[i].X, test.ShouldAlmostEqual, 2.5, 1e-9)
		test.That(t, linear[i].Y, test.ShouldAlmostEqual, 0, 1e-9)
		test.That(t, linear[i].Z, test.ShouldAlmostEqual, 0, 1e-9)
		test.That(t, angular[i].Norm(), test.ShouldAlmostEqual, 0, 1e-9)
	}
}

func TestLookupTwistRepresentationFrame(t *testing.T) {
	reg := NewRegistry(golog.NewTestLogger(t))

	_, err := reg.NewFrame("world", nil)
	test.That(t, err, test.ShouldBeNil)
	_, err = reg.NewFrame("tracker", "world")
	test.That(t, err, test.ShouldBeNil)
	// a frame rotated 90 degrees about z relative to world
	_, err = reg.NewFrame("display", "world",
		WithRotation(spatialmath.R4AA{Theta: math.Pi / 2, RX: 0, RY: 0, RZ: 1}.ToQuat()))
	test.That(t, err, test.ShouldBeNil)

	series := constantVelocitySeries(10, 1, 0.1)
	linear, _, _, err := reg.LookupTwist(series, "tracker", "world", "display", estimator.TwistOptions{})
	test.That(t, err, test.ShouldBeNil)

	// x velocity in world appears as -y velocity in the rotated display frame
	for i := range linear {
		test.That(t, linear[i].X, test.ShouldAlmostEqual, 0, 1e-9)
		test.That(t, linear[i].Y, test.ShouldAlmostEqual, -1, 1e-9)
	}
}

func TestLookupTwistDefaults(t *testing.T) {
	reg := NewRegistry(golog.NewTestLogger(t))

	_, err := reg.NewFrame("world", nil)
	test.That(t, err, test.ShouldBeNil)
	_, err = reg.NewFrame("tracker", "world")
	test.That(t, err, test.ShouldBeNil)

	series := constantVelocitySeries(10, 1, 0.1)

	// reference defaults to the parent, representation to the moving frame
	linear, _, _, err := reg.LookupTwist(series, "tracker", nil, nil, estimator.TwistOptions{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, linear[0].X, test.ShouldAlmostEqual, 1, 1e-9)
}
