package referenceframe

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/num/quat"

	"github.com/motionlab/rigidmotion/spatialmath"
)

// motionKind enumerates the geometric operations a batch transform can apply.
type motionKind int

const (
	motionPoints motionKind = iota
	motionVectors
	motionQuaternions
)

// GetTransform returns the transform that converts coordinates expressed in
// the `from` frame into coordinates expressed in the `to` frame. Both may be
// given as *Frame or as a registered name. Walking up from the source toward
// the common ancestor composes each frame's parent-relative pose directly;
// walking back down toward the target composes the inverses. The rotation of
// the result is renormalized to absorb drift over deep chains.
func (reg *Registry) GetTransform(from, to interface{}) (spatialmath.Pose, error) {
	src, err := reg.Resolve(from)
	if err != nil {
		return spatialmath.Pose{}, err
	}
	dst, err := reg.Resolve(to)
	if err != nil {
		return spatialmath.Pose{}, err
	}

	up, down, err := walkPath(src, dst)
	if err != nil {
		return spatialmath.Pose{}, err
	}

	pose := spatialmath.NewZeroPose()
	for _, frame := range up {
		pose = spatialmath.Compose(*frame.pose, pose)
	}
	for _, frame := range down {
		pose = spatialmath.Compose(spatialmath.PoseInverse(*frame.pose), pose)
	}
	return pose.Normalize(), nil
}

type transformConfig struct {
	timestamps []float64
	resampleTo []float64
}

// TransformOption configures a batch transform.
type TransformOption func(*transformConfig)

// WithTimestamps attaches per-sample timestamps to the input series.
func WithTimestamps(ts []float64) TransformOption {
	return func(cfg *transformConfig) {
		cfg.timestamps = ts
	}
}

// ResampleTo linearly interpolates the transformed series onto the given
// timestamp grid. Requires WithTimestamps.
func ResampleTo(ts []float64) TransformOption {
	return func(cfg *transformConfig) {
		cfg.resampleTo = ts
	}
}

// TransformPoints expresses a batch of points currently represented in the
// `outof` frame in the `into` frame, applying the full rigid transform.
// Returns the transformed samples and their timestamps, which pass through
// unchanged unless ResampleTo is given.
func (reg *Registry) TransformPoints(
	pts []r3.Vector, into, outof interface{}, opts ...TransformOption,
) ([]r3.Vector, []float64, error) {
	return reg.transformVectorBatch(motionPoints, pts, into, outof, opts)
}

// TransformVectors expresses a batch of direction vectors in the `into` frame.
// Vectors rotate but do not translate; a transform that differs only by
// translation leaves them unchanged.
func (reg *Registry) TransformVectors(
	vecs []r3.Vector, into, outof interface{}, opts ...TransformOption,
) ([]r3.Vector, []float64, error) {
	return reg.transformVectorBatch(motionVectors, vecs, into, outof, opts)
}

// TransformQuaternions expresses a batch of orientation quaternions in the
// `into` frame by left-multiplying the composed rotation.
func (reg *Registry) TransformQuaternions(
	qs []quat.Number, into, outof interface{}, opts ...TransformOption,
) ([]quat.Number, []float64, error) {
	cfg, err := newTransformConfig(len(qs), opts)
	if err != nil {
		return nil, nil, err
	}
	pose, err := reg.GetTransform(outof, into)
	if err != nil {
		return nil, nil, err
	}

	rotation := pose.Orientation()
	out := make([]quat.Number, len(qs))
	for i, q := range qs {
		out[i] = quat.Mul(rotation, q)
	}

	if cfg.resampleTo == nil {
		return out, cfg.timestamps, nil
	}
	rows := make([][]float64, len(out))
	for i, q := range out {
		rows[i] = []float64{q.Real, q.Imag, q.Jmag, q.Kmag}
	}
	resampled, err := resampleRows(rows, cfg.timestamps, cfg.resampleTo)
	if err != nil {
		return nil, nil, err
	}
	out = make([]quat.Number, len(resampled))
	for i, row := range resampled {
		// interpolated quaternions leave the unit sphere slightly
		out[i] = spatialmath.Normalize(quat.Number{Real: row[0], Imag: row[1], Jmag: row[2], Kmag: row[3]})
	}
	return out, cfg.resampleTo, nil
}

func (reg *Registry) transformVectorBatch(
	kind motionKind, samples []r3.Vector, into, outof interface{}, opts []TransformOption,
) ([]r3.Vector, []float64, error) {
	cfg, err := newTransformConfig(len(samples), opts)
	if err != nil {
		return nil, nil, err
	}
	pose, err := reg.GetTransform(outof, into)
	if err != nil {
		return nil, nil, err
	}

	rotation := pose.Orientation()
	out := make([]r3.Vector, len(samples))
	for i, v := range samples {
		switch kind {
		case motionPoints:
			out[i] = pose.TransformPoint(v)
		case motionVectors:
			out[i] = spatialmath.RotateVector(rotation, v)
		}
	}

	if cfg.resampleTo == nil {
		return out, cfg.timestamps, nil
	}
	rows := make([][]float64, len(out))
	for i, v := range out {
		rows[i] = []float64{v.X, v.Y, v.Z}
	}
	resampled, err := resampleRows(rows, cfg.timestamps, cfg.resampleTo)
	if err != nil {
		return nil, nil, err
	}
	out = make([]r3.Vector, len(resampled))
	for i, row := range resampled {
		out[i] = r3.Vector{X: row[0], Y: row[1], Z: row[2]}
	}
	return out, cfg.resampleTo, nil
}

func newTransformConfig(n int, opts []TransformOption) (transformConfig, error) {
	var cfg transformConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.timestamps != nil && len(cfg.timestamps) != n {
		return cfg, errors.Wrapf(ErrShapeMismatch,
			"%d timestamps for %d samples", len(cfg.timestamps), n)
	}
	if cfg.resampleTo != nil && cfg.timestamps == nil {
		return cfg, errors.Wrap(ErrInvalidArgument, "resampling requires input timestamps")
	}
	return cfg, nil
}

// resampleRows linearly interpolates each column of a row-major series onto a
// target timestamp grid.
func resampleRows(rows [][]float64, ts, target []float64) ([][]float64, error) {
	if len(rows) == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "cannot resample an empty series")
	}
	width := len(rows[0])
	out := make([][]float64, len(target))
	for i := range out {
		out[i] = make([]float64, width)
	}

	column := make([]float64, len(rows))
	for c := 0; c < width; c++ {
		for r, row := range rows {
			column[r] = row[c]
		}
		var pl interp.PiecewiseLinear
		if err := pl.Fit(ts, column); err != nil {
			return nil, errors.Wrap(ErrInvalidArgument, err.Error())
		}
		for r, t := range target {
			out[r][c] = pl.Predict(t)
		}
	}
	return out, nil
}
