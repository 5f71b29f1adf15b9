// Package labeled adapts raw numeric sample blocks to and from a tagged
// representation carrying component labels, timestamps and frame metadata, so
// that transform results stay self-describing across pipeline stages.
package labeled

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"github.com/motionlab/rigidmotion/referenceframe"
)

// Attribute keys attached to arrays produced by this package.
const (
	AttrRepresentationFrame = "representation_frame"
	AttrReferenceFrame      = "reference_frame"
	AttrMovingFrame         = "moving_frame"
	AttrMotionType          = "motion_type"
)

// Array is a tagged block of motion samples: one row per timestamp, one
// column per labeled component.
type Array struct {
	Values     *mat.Dense
	Dims       []string
	Timestamps []float64
	Attrs      map[string]string
}

// New builds a tagged array, checking that dims and timestamps agree with the
// value block's shape.
func New(values *mat.Dense, dims []string, timestamps []float64, attrs map[string]string) (*Array, error) {
	rows, cols := values.Dims()
	if len(dims) != cols {
		return nil, errors.Errorf("%d dim labels for %d columns", len(dims), cols)
	}
	if timestamps != nil && len(timestamps) != rows {
		return nil, errors.Errorf("%d timestamps for %d rows", len(timestamps), rows)
	}
	if attrs == nil {
		attrs = map[string]string{}
	}
	return &Array{Values: values, Dims: dims, Timestamps: timestamps, Attrs: attrs}, nil
}

// FromVectors packs a vector series into a tagged array with x/y/z columns.
func FromVectors(vs []r3.Vector, timestamps []float64, attrs map[string]string) (*Array, error) {
	values := mat.NewDense(len(vs), 3, nil)
	for i, v := range vs {
		values.SetRow(i, []float64{v.X, v.Y, v.Z})
	}
	return New(values, []string{"x", "y", "z"}, timestamps, attrs)
}

// FromQuaternions packs a quaternion series into a tagged array with
// w/x/y/z columns.
func FromQuaternions(qs []quat.Number, timestamps []float64, attrs map[string]string) (*Array, error) {
	values := mat.NewDense(len(qs), 4, nil)
	for i, q := range qs {
		values.SetRow(i, []float64{q.Real, q.Imag, q.Jmag, q.Kmag})
	}
	return New(values, []string{"w", "x", "y", "z"}, timestamps, attrs)
}

// Vectors unpacks a three-column array into a vector series.
func (a *Array) Vectors() ([]r3.Vector, error) {
	rows, cols := a.Values.Dims()
	if cols != 3 {
		return nil, errors.Errorf("want 3 columns for vectors, got %d", cols)
	}
	out := make([]r3.Vector, rows)
	for i := range out {
		out[i] = r3.Vector{X: a.Values.At(i, 0), Y: a.Values.At(i, 1), Z: a.Values.At(i, 2)}
	}
	return out, nil
}

// Quaternions unpacks a four-column array into a quaternion series.
func (a *Array) Quaternions() ([]quat.Number, error) {
	rows, cols := a.Values.Dims()
	if cols != 4 {
		return nil, errors.Errorf("want 4 columns for quaternions, got %d", cols)
	}
	out := make([]quat.Number, rows)
	for i := range out {
		out[i] = quat.Number{
			Real: a.Values.At(i, 0),
			Imag: a.Values.At(i, 1),
			Jmag: a.Values.At(i, 2),
			Kmag: a.Values.At(i, 3),
		}
	}
	return out, nil
}

// Kind enumerates the geometric interpretations of a tagged array.
type Kind int

// Interpretations of a tagged array's rows.
const (
	Points Kind = iota
	Vectors
	Quaternions
)

// Transform expresses a tagged array in another frame. The source frame is
// taken from the array's representation_frame attribute; the result carries
// the destination frame in its place.
func Transform(reg *referenceframe.Registry, arr *Array, into interface{}, kind Kind) (*Array, error) {
	outof, ok := arr.Attrs[AttrRepresentationFrame]
	if !ok {
		return nil, errors.Errorf("array has no %s attribute", AttrRepresentationFrame)
	}
	intoFrame, err := reg.Resolve(into)
	if err != nil {
		return nil, err
	}

	var out *Array
	switch kind {
	case Points, Vectors:
		samples, err := arr.Vectors()
		if err != nil {
			return nil, err
		}
		var transformed []r3.Vector
		if kind == Points {
			transformed, _, err = reg.TransformPoints(samples, intoFrame, outof)
		} else {
			transformed, _, err = reg.TransformVectors(samples, intoFrame, outof)
		}
		if err != nil {
			return nil, err
		}
		out, err = FromVectors(transformed, arr.Timestamps, cloneAttrs(arr.Attrs))
		if err != nil {
			return nil, err
		}
	case Quaternions:
		samples, err := arr.Quaternions()
		if err != nil {
			return nil, err
		}
		transformed, _, err := reg.TransformQuaternions(samples, intoFrame, outof)
		if err != nil {
			return nil, err
		}
		out, err = FromQuaternions(transformed, arr.Timestamps, cloneAttrs(arr.Attrs))
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.Errorf("unknown motion kind %d", kind)
	}

	out.Attrs[AttrRepresentationFrame] = intoFrame.Name()
	return out, nil
}

// TwistArrays packages twist estimation output as tagged linear and angular
// velocity arrays.
func TwistArrays(
	linear, angular []r3.Vector, timestamps []float64,
	moving, reference, representIn string,
) (linearArr, angularArr *Array, err error) {
	attrs := map[string]string{
		AttrRepresentationFrame: representIn,
		AttrReferenceFrame:      reference,
		AttrMovingFrame:         moving,
	}

	linAttrs := cloneAttrs(attrs)
	linAttrs[AttrMotionType] = "linear_velocity"
	linearArr, err = FromVectors(linear, timestamps, linAttrs)
	if err != nil {
		return nil, nil, err
	}

	angAttrs := cloneAttrs(attrs)
	angAttrs[AttrMotionType] = "angular_velocity"
	angularArr, err = FromVectors(angular, timestamps, angAttrs)
	if err != nil {
		return nil, nil, err
	}
	return linearArr, angularArr, nil
}

func cloneAttrs(attrs map[string]string) map[string]string {
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
