package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// Norm returns the norm of the imaginary part of the quaternion, i.e. the sqrt
// of the squares of the imaginary components.
func Norm(q quat.Number) float64 {
	return math.Sqrt(q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
}

// Normalize returns the quaternion scaled to unit length.
func Normalize(q quat.Number) quat.Number {
	length := quat.Abs(q)
	if length == 0 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/length, q)
}

// Flip will multiply a quaternion by -1, returning a quaternion representing
// the same orientation but in the opposing octant.
func Flip(q quat.Number) quat.Number {
	return quat.Number{Real: -q.Real, Imag: -q.Imag, Jmag: -q.Jmag, Kmag: -q.Kmag}
}

// RotateVector rotates a vector by the given unit quaternion, i.e. q*v*q^-1.
func RotateVector(q quat.Number, v r3.Vector) r3.Vector {
	rotated := quat.Mul(quat.Mul(q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(q))
	return r3.Vector{X: rotated.Imag, Y: rotated.Jmag, Z: rotated.Kmag}
}

// QuatToR4AA converts a quat to an R4 axis angle in the same way the C++ Eigen library does.
// https://eigen.tuxfamily.org/dox/AngleAxis_8h_source.html
func QuatToR4AA(q quat.Number) R4AA {
	denom := Norm(q)

	angle := 2 * math.Atan2(denom, math.Abs(q.Real))
	if q.Real < 0 {
		angle *= -1
	}

	if denom < 1e-6 {
		return R4AA{angle, 1, 0, 0}
	}
	return R4AA{angle, q.Imag / denom, q.Jmag / denom, q.Kmag / denom}
}

// QuatToR3AA converts a quat to an R3 axis angle, the axis scaled by the
// rotation angle.
func QuatToR3AA(q quat.Number) r3.Vector {
	denom := Norm(q)

	angle := 2 * math.Atan2(denom, math.Abs(q.Real))
	if q.Real < 0 {
		angle *= -1
	}

	if denom < 1e-6 {
		return r3.Vector{}
	}
	return r3.Vector{X: angle * q.Imag / denom, Y: angle * q.Jmag / denom, Z: angle * q.Kmag / denom}
}

// QuaternionAlmostEqual returns whether two quaternions represent nearly the
// same orientation, treating q and -q as equal.
func QuaternionAlmostEqual(a, b quat.Number, tol float64) bool {
	diff := quat.Mul(a, quat.Conj(b))
	return math.Abs(QuatToR4AA(diff).Theta) < tol
}

// ShortestArcRotation returns the rotation mapping one vector onto another
// through the smallest possible angle.
func ShortestArcRotation(from, to r3.Vector) quat.Number {
	fromNorm, toNorm := from.Norm(), to.Norm()
	if fromNorm == 0 || toNorm == 0 {
		return quat.Number{Real: 1}
	}
	from, to = from.Mul(1/fromNorm), to.Mul(1/toNorm)
	dot := from.Dot(to)
	if dot < -1+1e-12 {
		// Antiparallel vectors have no unique arc. Rotate pi about any axis
		// perpendicular to from.
		axis := from.Cross(r3.Vector{X: 1})
		if axis.Norm() < 1e-6 {
			axis = from.Cross(r3.Vector{Y: 1})
		}
		axis = axis.Normalize()
		return quat.Number{Imag: axis.X, Jmag: axis.Y, Kmag: axis.Z}
	}
	cross := from.Cross(to)
	return Normalize(quat.Number{
		Real: 1 + dot,
		Imag: cross.X,
		Jmag: cross.Y,
		Kmag: cross.Z,
	})
}

// QMean returns the average of a set of rotation quaternions, computed as the
// largest eigenvector of the accumulated outer products. This is well defined
// even when the set spans both quaternion octants.
func QMean(qs []quat.Number) (quat.Number, error) {
	if len(qs) == 0 {
		return quat.Number{}, errors.New("cannot take the mean of zero quaternions")
	}

	accum := mat.NewSymDense(4, nil)
	for _, q := range qs {
		v := []float64{q.Real, q.Imag, q.Jmag, q.Kmag}
		for i := 0; i < 4; i++ {
			for j := i; j < 4; j++ {
				accum.SetSym(i, j, accum.At(i, j)+v[i]*v[j])
			}
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(accum, true) {
		return quat.Number{}, errors.New("eigendecomposition of quaternion outer products failed")
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// eigenvalues are in ascending order, the mean is the last eigenvector
	mean := quat.Number{
		Real: vecs.At(0, 3),
		Imag: vecs.At(1, 3),
		Jmag: vecs.At(2, 3),
		Kmag: vecs.At(3, 3),
	}
	if mean.Real < 0 {
		mean = Flip(mean)
	}
	return Normalize(mean), nil
}
