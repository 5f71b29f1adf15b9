package estimator

import (
	"math"

	"github.com/pkg/errors"
)

// biquad is a single second-order IIR section in Direct Form II Transposed,
// with coefficients normalized so a0 == 1.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// newButterworthLowpass designs a second-order Butterworth low-pass section.
// cutoff is expressed as a fraction of the Nyquist frequency, in (0, 1).
func newButterworthLowpass(cutoff float64) (biquad, error) {
	if cutoff <= 0 || cutoff >= 1 {
		return biquad{}, errors.Errorf("cutoff must be a fraction of Nyquist in (0, 1), got %v", cutoff)
	}
	w0 := math.Pi * cutoff
	cosW0 := math.Cos(w0)
	// Q of 1/sqrt(2) gives the maximally flat Butterworth response
	alpha := math.Sin(w0) / math.Sqrt2

	a0 := 1 + alpha
	return biquad{
		b0: (1 - cosW0) / 2 / a0,
		b1: (1 - cosW0) / a0,
		b2: (1 - cosW0) / 2 / a0,
		a1: -2 * cosW0 / a0,
		a2: (1 - alpha) / a0,
	}, nil
}

// filter runs the section over a series. State is initialized to the steady
// state for the first sample, so a constant input passes through exactly.
func (bq biquad) filter(xs []float64) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}

	x0 := xs[0]
	s1 := (1 - bq.b0) * x0
	s2 := s1 - (bq.b1-bq.a1)*x0

	for i, x := range xs {
		y := bq.b0*x + s1
		s1 = bq.b1*x - bq.a1*y + s2
		s2 = bq.b2*x - bq.a2*y
		out[i] = y
	}
	return out
}

// filtfilt applies the section forward and then backward over the series,
// cancelling the phase lag a single pass would introduce.
func (bq biquad) filtfilt(xs []float64) []float64 {
	forward := bq.filter(xs)
	reverse(forward)
	backward := bq.filter(forward)
	reverse(backward)
	return backward
}

func reverse(xs []float64) {
	for i, j := 0, len(xs)-1; i < j; i, j = i+1, j-1 {
		xs[i], xs[j] = xs[j], xs[i]
	}
}
