// Package estimator provides numeric estimators over rigid body motion
// series: twist estimation from pose histories, best-fit rigid transforms
// between point sets, and shortest-arc rotations between vector batches.
package estimator

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"github.com/motionlab/rigidmotion/spatialmath"
)

// ErrShapeMismatch is returned when input batches have inconsistent lengths.
var ErrShapeMismatch = errors.New("mismatched input lengths")

// ShortestArcRotation returns, per sample, the rotation mapping each vector of
// `from` onto the corresponding vector of `to` through the smallest angle.
func ShortestArcRotation(from, to []r3.Vector) ([]quat.Number, error) {
	if len(from) != len(to) {
		return nil, errors.Wrapf(ErrShapeMismatch, "%d from vectors, %d to vectors", len(from), len(to))
	}
	out := make([]quat.Number, len(from))
	for i := range from {
		out[i] = spatialmath.ShortestArcRotation(from[i], to[i])
	}
	return out, nil
}

// BestFitTransform returns the translation and rotation that map src onto dst
// with the least squared error, solved by the Kabsch algorithm.
func BestFitTransform(src, dst []r3.Vector) (r3.Vector, quat.Number, error) {
	if len(src) != len(dst) {
		return r3.Vector{}, quat.Number{}, errors.Wrapf(ErrShapeMismatch,
			"%d source points, %d destination points", len(src), len(dst))
	}
	if len(src) < 3 {
		return r3.Vector{}, quat.Number{}, errors.Wrap(ErrShapeMismatch,
			"need at least 3 point pairs to fit a rigid transform")
	}

	var srcMean, dstMean r3.Vector
	for i := range src {
		srcMean = srcMean.Add(src[i])
		dstMean = dstMean.Add(dst[i])
	}
	srcMean = srcMean.Mul(1 / float64(len(src)))
	dstMean = dstMean.Mul(1 / float64(len(dst)))

	// cross-covariance of the centered point sets
	h := mat.NewDense(3, 3, nil)
	for i := range src {
		s := src[i].Sub(srcMean)
		d := dst[i].Sub(dstMean)
		sv := []float64{s.X, s.Y, s.Z}
		dv := []float64{d.X, d.Y, d.Z}
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				h.Set(r, c, h.At(r, c)+sv[r]*dv[c])
			}
		}
	}

	var svd mat.SVD
	if !svd.Factorize(h, mat.SVDFull) {
		return r3.Vector{}, quat.Number{}, errors.New("SVD of cross-covariance failed")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	var rot mat.Dense
	rot.Mul(&v, u.T())
	if mat.Det(&rot) < 0 {
		// reflection case, flip the axis of least variance
		for r := 0; r < 3; r++ {
			v.Set(r, 2, -v.At(r, 2))
		}
		rot.Mul(&v, u.T())
	}

	m := mgl64.Ident4()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m.Set(r, c, rot.At(r, c))
		}
	}
	rotation := mgl64.Mat4ToQuat(m)
	q := spatialmath.Normalize(quat.Number{Real: rotation.W, Imag: rotation.X(), Jmag: rotation.Y(), Kmag: rotation.Z()})

	translation := dstMean.Sub(spatialmath.RotateVector(q, srcMean))
	return translation, q, nil
}
