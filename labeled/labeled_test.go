package labeled

import (
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"github.com/motionlab/rigidmotion/referenceframe"
)

func TestVectorRoundTrip(t *testing.T) {
	vs := []r3.Vector{{X: 1, Y: 2, Z: 3}, {X: -4, Y: 5, Z: 6}}
	arr, err := FromVectors(vs, []float64{0, 1}, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, arr.Dims, test.ShouldResemble, []string{"x", "y", "z"})

	back, err := arr.Vectors()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, back, test.ShouldResemble, vs)

	_, err = arr.Quaternions()
	test.That(t, err, test.ShouldNotBeNil)
}

func TestQuaternionRoundTrip(t *testing.T) {
	qs := []quat.Number{{Real: 1}, {Real: 0, Imag: 1}}
	arr, err := FromQuaternions(qs, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, arr.Dims, test.ShouldResemble, []string{"w", "x", "y", "z"})

	back, err := arr.Quaternions()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, back, test.ShouldResemble, qs)
}

func TestNewShapeChecks(t *testing.T) {
	values := mat.NewDense(2, 3, nil)

	_, err := New(values, []string{"x", "y"}, nil, nil)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = New(values, []string{"x", "y", "z"}, []float64{0}, nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestTransformUpdatesAttrs(t *testing.T) {
	reg := referenceframe.NewRegistry(golog.NewTestLogger(t))
	_, err := reg.NewFrame("world", nil)
	test.That(t, err, test.ShouldBeNil)
	_, err = reg.NewFrame("head", "world", referenceframe.WithTranslation(r3.Vector{X: 1, Y: 0, Z: 0}))
	test.That(t, err, test.ShouldBeNil)

	arr, err := FromVectors([]r3.Vector{{X: 0, Y: 0, Z: 0}}, nil, map[string]string{
		AttrRepresentationFrame: "head",
	})
	test.That(t, err, test.ShouldBeNil)

	out, err := Transform(reg, arr, "world", Points)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Attrs[AttrRepresentationFrame], test.ShouldEqual, "world")

	pts, err := out.Vectors()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pts[0].X, test.ShouldAlmostEqual, 1)

	// the original array keeps its frame tag
	test.That(t, arr.Attrs[AttrRepresentationFrame], test.ShouldEqual, "head")

	// arrays without a frame tag cannot be transformed
	untagged, err := FromVectors([]r3.Vector{{X: 0, Y: 0, Z: 0}}, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	_, err = Transform(reg, untagged, "world", Points)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestTwistArrays(t *testing.T) {
	linear := []r3.Vector{{X: 1, Y: 0, Z: 0}}
	angular := []r3.Vector{{X: 0, Y: 0, Z: 0.5}}

	linArr, angArr, err := TwistArrays(linear, angular, []float64{0.5}, "tracker", "world", "tracker")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, linArr.Attrs[AttrMotionType], test.ShouldEqual, "linear_velocity")
	test.That(t, angArr.Attrs[AttrMotionType], test.ShouldEqual, "angular_velocity")
	test.That(t, linArr.Attrs[AttrMovingFrame], test.ShouldEqual, "tracker")
	test.That(t, angArr.Attrs[AttrReferenceFrame], test.ShouldEqual, "world")
	test.That(t, linArr.Timestamps, test.ShouldResemble, []float64{0.5})
}
