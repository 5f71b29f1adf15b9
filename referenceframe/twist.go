package referenceframe

import (
	"github.com/golang/geo/r3"

	"github.com/motionlab/rigidmotion/estimator"
	"github.com/motionlab/rigidmotion/spatialmath"
)

// LookupTwist estimates the linear and angular velocity of the moving frame
// relative to the reference frame from a time-stamped pose history, and
// represents both in the representIn frame. The series holds poses of moving
// relative to reference, e.g. collected by calling GetTransform at each sample
// timestamp while the tree was being updated. reference defaults to the
// moving frame's parent and representIn to the moving frame itself when nil.
// The returned series are two samples shorter than the input.
func (reg *Registry) LookupTwist(
	series []estimator.PoseSample,
	moving, reference, representIn interface{},
	opts estimator.TwistOptions,
) (linear, angular []r3.Vector, ts []float64, err error) {
	movingFrame, err := reg.Resolve(moving)
	if err != nil {
		return nil, nil, nil, err
	}
	if reference == nil {
		reference = movingFrame.Parent()
	}
	if representIn == nil {
		representIn = movingFrame
	}

	linear, angular, ts, err = estimator.EstimateTwist(series, opts)
	if err != nil {
		return nil, nil, nil, err
	}

	// The estimate comes out in the reference frame's orientation.
	pose, err := reg.GetTransform(reference, representIn)
	if err != nil {
		return nil, nil, nil, err
	}
	rotation := pose.Orientation()
	for i := range linear {
		linear[i] = spatialmath.RotateVector(rotation, linear[i])
		angular[i] = spatialmath.RotateVector(rotation, angular[i])
	}
	return linear, angular, ts, nil
}
