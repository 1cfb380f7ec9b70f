// Package yin implements the YIN fundamental frequency estimator.
//
// Reference: de Cheveigné, A., Kawahara, H. (2002). "YIN, a fundamental
// frequency estimator for speech and music".
package yin

import (
	"errors"
	"math"

	"github.com/soniclab/pitchkit/algorithms/common"
)

// DefaultThreshold is the absolute threshold applied to the cumulative
// mean normalized difference curve.
const DefaultThreshold = 0.10

// fftCrossover is the half-length above which the FFT evaluation of the
// difference function beats the direct O(n^2) loop.
const fftCrossover = 128

var (
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrInvalidThreshold  = errors.New("threshold must be in (0, 1)")
)

// Params configures an Estimator.
type Params struct {
	SampleRate float64
	Threshold  float64 // zero selects DefaultThreshold
	DisableFFT bool    // force the direct difference function
}

// Result is the outcome of a single detection. Voiced is false when no
// lag passed the threshold test; Frequency and Confidence are zero in
// that case.
type Result struct {
	Frequency  float64
	Confidence float64
	Voiced     bool
}

// Estimator computes YIN pitch estimates. It is a pure function of each
// frame; the only retained state is a scratch buffer reused across calls
// to avoid per-frame allocation. It is not safe for concurrent use.
type Estimator struct {
	sampleRate float64
	threshold  float64
	disableFFT bool

	diff []float64 // per-lag difference / CMND values, length halfLen
}

// New creates an estimator from params.
func New(params Params) (*Estimator, error) {
	if params.SampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	threshold := params.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	if threshold < 0 || threshold >= 1 {
		return nil, ErrInvalidThreshold
	}
	return &Estimator{
		sampleRate: params.SampleRate,
		threshold:  threshold,
		disableFFT: params.DisableFFT,
	}, nil
}

// NewEstimator creates an estimator with the default threshold.
func NewEstimator(sampleRate float64) (*Estimator, error) {
	return New(Params{SampleRate: sampleRate})
}

// Threshold returns the configured CMND threshold.
func (e *Estimator) Threshold() float64 { return e.threshold }

// Detect estimates the fundamental frequency of one frame. Frames
// shorter than 4 samples and all-silent frames yield an unvoiced result;
// they never fault.
func (e *Estimator) Detect(frame []float64) Result {
	n := len(frame)
	if n < 4 || common.IsConstant(frame) {
		return Result{}
	}

	halfLen := n / 2
	if cap(e.diff) < halfLen {
		e.diff = make([]float64, halfLen)
	}
	d := e.diff[:halfLen]

	// Step 1: difference function d(tau) for tau in [1, halfLen).
	if !e.disableFFT && halfLen >= fftCrossover {
		differenceFFT(frame, halfLen, d)
	} else {
		differenceDirect(frame, halfLen, d)
	}

	// Step 2: cumulative mean normalized difference, in place. d'(0) is
	// pinned to 1 so lag 0 can never be selected.
	d[0] = 1.0
	runningSum := 0.0
	for tau := 1; tau < halfLen; tau++ {
		runningSum += d[tau]
		if runningSum == 0 {
			d[tau] = 1.0
			continue
		}
		d[tau] = d[tau] * float64(tau) / runningSum
	}

	// Step 3: first lag under threshold, then walk down to the local
	// minimum just past the crossing. Taking the first qualifying dip
	// rather than the global minimum resists octave errors.
	tau := -1
	for t := 2; t < halfLen; t++ {
		if d[t] < e.threshold {
			for t+1 < halfLen && d[t+1] < d[t] {
				t++
			}
			tau = t
			break
		}
	}
	if tau < 0 {
		return Result{}
	}

	// Step 4: parabolic interpolation around the chosen lag.
	refined := parabolicMinimum(d, tau)

	// Step 5: confidence uses the CMND value at the integer lag, not the
	// refined one.
	confidence := common.Clamp(1.0-d[tau], 0.0, 1.0)

	return Result{
		Frequency:  e.sampleRate / refined,
		Confidence: confidence,
		Voiced:     true,
	}
}

// differenceDirect computes d(tau) = sum_{i<w} (x[i]-x[i+tau])^2 by the
// definition. dst[0] is left untouched by callers.
func differenceDirect(frame []float64, w int, dst []float64) {
	dst[0] = 0
	for tau := 1; tau < w; tau++ {
		sum := 0.0
		for i := 0; i < w; i++ {
			delta := frame[i] - frame[i+tau]
			sum += delta * delta
		}
		dst[tau] = sum
	}
}

// parabolicMinimum fits a parabola through the CMND values at tau-1,
// tau, tau+1 and returns the sub-sample minimum location. At buffer
// edges, where a neighbor is missing, it falls back to the integer lag.
func parabolicMinimum(d []float64, tau int) float64 {
	if tau <= 0 || tau >= len(d)-1 {
		return float64(tau)
	}

	s0 := d[tau-1]
	s1 := d[tau]
	s2 := d[tau+1]

	denom := 2.0 * (2.0*s1 - s2 - s0)
	if denom == 0 {
		return float64(tau)
	}

	delta := (s2 - s0) / denom
	if math.Abs(delta) > 1 {
		// Degenerate fit; trust the integer lag.
		return float64(tau)
	}
	return float64(tau) + delta
}
