package estimator

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/num/quat"

	"github.com/motionlab/rigidmotion/spatialmath"
)

// PoseSample is one time-stamped pose of a moving frame relative to a
// reference frame.
type PoseSample struct {
	T    float64
	Pose spatialmath.Pose
}

// TwistOptions tunes twist estimation.
type TwistOptions struct {
	// OutlierThresh, when positive, discards samples whose second-order
	// position difference norm exceeds it and fills the gaps by linear
	// interpolation before differentiating. SLAM-based trackers introduce
	// position corrections when a new camera frame arrives; those show up as
	// spikes in the second differences.
	OutlierThresh float64

	// Cutoff, when positive, applies a zero-phase second-order Butterworth
	// low-pass to both velocity series. It is expressed as a fraction of the
	// Nyquist frequency of the sample series, which assumes roughly uniform
	// sampling.
	Cutoff float64
}

// EstimateTwist numerically differentiates a pose history into linear and
// angular velocity, using second-order central differences. The returned
// series cover only the interior timestamps, so they are two samples shorter
// than the input. Velocities are expressed in the reference frame of the pose
// history.
func EstimateTwist(samples []PoseSample, opts TwistOptions) (linear, angular []r3.Vector, ts []float64, err error) {
	n := len(samples)
	if n < 3 {
		return nil, nil, nil, errors.Wrapf(ErrShapeMismatch,
			"central differences need at least 3 samples, got %d", n)
	}

	times := make([]float64, n)
	positions := make([]r3.Vector, n)
	rotations := make([]quat.Number, n)
	for i, s := range samples {
		times[i] = s.T
		positions[i] = s.Pose.Point()
		rotations[i] = s.Pose.Orientation()
		if i > 0 && times[i] <= times[i-1] {
			return nil, nil, nil, errors.Wrap(ErrShapeMismatch,
				"sample timestamps must be strictly increasing")
		}
	}

	if opts.OutlierThresh > 0 {
		positions, err = suppressOutliers(times, positions, opts.OutlierThresh)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	linear = make([]r3.Vector, n-2)
	angular = make([]r3.Vector, n-2)
	ts = make([]float64, n-2)
	for i := 1; i < n-1; i++ {
		dt := times[i+1] - times[i-1]
		linear[i-1] = positions[i+1].Sub(positions[i-1]).Mul(1 / dt)

		// the rotation increment over the window, expressed in the reference frame
		increment := quat.Mul(rotations[i+1], quat.Conj(rotations[i-1]))
		angular[i-1] = spatialmath.QuatToR3AA(increment).Mul(1 / dt)
		ts[i-1] = times[i]
	}

	if opts.Cutoff > 0 {
		lowpass, err := newButterworthLowpass(opts.Cutoff)
		if err != nil {
			return nil, nil, nil, err
		}
		linear = filterComponents(lowpass, linear)
		angular = filterComponents(lowpass, angular)
	}

	return linear, angular, ts, nil
}

// suppressOutliers drops samples whose second-order position difference norm
// exceeds thresh and refills their timestamps by linear interpolation over the
// surviving samples. The first and last samples are always kept.
func suppressOutliers(times []float64, positions []r3.Vector, thresh float64) ([]r3.Vector, error) {
	n := len(positions)
	keep := make([]bool, n)
	keep[0], keep[n-1] = true, true
	kept := 2
	for i := 1; i < n-1; i++ {
		d2 := positions[i+1].Sub(positions[i].Mul(2)).Add(positions[i-1])
		if d2.Norm() <= thresh {
			keep[i] = true
			kept++
		}
	}
	if kept == n {
		return positions, nil
	}

	keptTimes := make([]float64, 0, kept)
	keptComponents := [3][]float64{}
	for i := 0; i < n; i++ {
		if !keep[i] {
			continue
		}
		keptTimes = append(keptTimes, times[i])
		keptComponents[0] = append(keptComponents[0], positions[i].X)
		keptComponents[1] = append(keptComponents[1], positions[i].Y)
		keptComponents[2] = append(keptComponents[2], positions[i].Z)
	}

	filled := make([]r3.Vector, n)
	copy(filled, positions)
	for c := 0; c < 3; c++ {
		var pl interp.PiecewiseLinear
		if err := pl.Fit(keptTimes, keptComponents[c]); err != nil {
			return nil, errors.Wrap(err, "interpolating over outlier gaps")
		}
		for i := 0; i < n; i++ {
			if keep[i] {
				continue
			}
			switch c {
			case 0:
				filled[i].X = pl.Predict(times[i])
			case 1:
				filled[i].Y = pl.Predict(times[i])
			case 2:
				filled[i].Z = pl.Predict(times[i])
			}
		}
	}
	return filled, nil
}

func filterComponents(bq biquad, series []r3.Vector) []r3.Vector {
	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	zs := make([]float64, len(series))
	for i, v := range series {
		xs[i], ys[i], zs[i] = v.X, v.Y, v.Z
	}
	xs = bq.filtfilt(xs)
	ys = bq.filtfilt(ys)
	zs = bq.filtfilt(zs)

	out := make([]r3.Vector, len(series))
	for i := range out {
		out[i] = r3.Vector{X: xs[i], Y: ys[i], Z: zs[i]}
	}
	return out
}
