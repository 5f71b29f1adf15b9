// Package spatialmath defines spatial mathematical operations for rigid body motion.
package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"

	"github.com/motionlab/rigidmotion/utils"
)

// Pose represents a rigid transform in 3D as a unit dual quaternion. The real
// part holds the rotation and the dual part encodes the translation against it.
// Since the real part of a unit dual quaternion must be a unit quaternion, not
// all zeroes, use NewZeroPose instead of Pose{}.
type Pose struct {
	Quat dualquat.Number
}

// NewZeroPose returns the identity pose: no rotation, no translation.
func NewZeroPose() Pose {
	return Pose{dualquat.Number{
		Real: quat.Number{Real: 1},
		Dual: quat.Number{},
	}}
}

// NewPose returns a pose with the given translation and rotation. The rotation
// quaternion is normalized before use.
func NewPose(t r3.Vector, r quat.Number) Pose {
	p := Pose{dualquat.Number{Real: Normalize(r)}}
	p.setTranslation(t)
	return p
}

// NewPoseFromPoint returns a pose with the given translation and no rotation.
func NewPoseFromPoint(t r3.Vector) Pose {
	return NewPose(t, quat.Number{Real: 1})
}

// NewPoseFromOrientation returns a pose with the given rotation and no translation.
func NewPoseFromOrientation(r quat.Number) Pose {
	return Pose{dualquat.Number{Real: Normalize(r)}}
}

// setTranslation correctly sets the dual part against the rotation.
func (p *Pose) setTranslation(t r3.Vector) {
	p.Quat.Dual = quat.Mul(quat.Number{Real: 0, Imag: t.X / 2, Jmag: t.Y / 2, Kmag: t.Z / 2}, p.Quat.Real)
}

// Point returns the translation component of the pose.
func (p Pose) Point() r3.Vector {
	// Multiplying by the dual quaternion conjugate leaves an identity real part
	// and the full translation in the dual part.
	tq := dualquat.Mul(p.Quat, dualquat.Conj(p.Quat))
	return r3.Vector{X: tq.Dual.Imag, Y: tq.Dual.Jmag, Z: tq.Dual.Kmag}
}

// Orientation returns the rotation component of the pose.
func (p Pose) Orientation() quat.Number {
	return p.Quat.Real
}

// Compose returns the pose which applies b first, then a. This is the pose of
// something placed at b relative to a frame itself placed at a.
func Compose(a, b Pose) Pose {
	return Pose{dualquat.Mul(a.Quat, b.Quat)}
}

// PoseInverse returns the pose which undoes p, rotating the negated translation
// into the inverse orientation.
func PoseInverse(p Pose) Pose {
	return Pose{dualquat.ConjQuat(p.Quat)}
}

// PoseBetween returns the difference between two poses, the pose that gets you
// from a to b.
func PoseBetween(a, b Pose) Pose {
	return Compose(PoseInverse(a), b)
}

// TransformPoint rotates and translates a point by the pose.
func (p Pose) TransformPoint(pt r3.Vector) r3.Vector {
	return RotateVector(p.Quat.Real, pt).Add(p.Point())
}

// Normalize rescales the pose so that its rotation is a unit quaternion.
// Composition of long transform chains accumulates floating point drift in the
// real part, which this removes.
func (p Pose) Normalize() Pose {
	length := quat.Abs(p.Quat.Real)
	if length == 0 {
		return NewZeroPose()
	}
	return Pose{dualquat.Scale(1/length, p.Quat)}
}

// Homogeneous returns the pose as a 4x4 homogeneous transform matrix, rotation
// in the upper 3x3 block and translation in the last column.
func (p Pose) Homogeneous() mgl64.Mat4 {
	r := p.Quat.Real
	m := mgl64.Quat{W: r.Real, V: mgl64.Vec3{r.Imag, r.Jmag, r.Kmag}}.Mat4()
	t := p.Point()
	m.Set(0, 3, t.X)
	m.Set(1, 3, t.Y)
	m.Set(2, 3, t.Z)
	return m
}

// NewPoseFromHomogeneous extracts a pose from a 4x4 homogeneous transform
// matrix, converting the rotation block back to a quaternion.
func NewPoseFromHomogeneous(m mgl64.Mat4) Pose {
	q := mgl64.Mat4ToQuat(m)
	return NewPose(
		r3.Vector{X: m.At(0, 3), Y: m.At(1, 3), Z: m.At(2, 3)},
		quat.Number{Real: q.W, Imag: q.X(), Jmag: q.Y(), Kmag: q.Z()},
	)
}

// PoseAlmostEqual returns whether two poses are within epsilon of each other in
// both translation and orientation.
func PoseAlmostEqual(a, b Pose, epsilon float64) bool {
	at, bt := a.Point(), b.Point()
	if !utils.Float64AlmostEqual(at.X, bt.X, epsilon) ||
		!utils.Float64AlmostEqual(at.Y, bt.Y, epsilon) ||
		!utils.Float64AlmostEqual(at.Z, bt.Z, epsilon) {
		return false
	}
	return QuaternionAlmostEqual(a.Orientation(), b.Orientation(), epsilon)
}
