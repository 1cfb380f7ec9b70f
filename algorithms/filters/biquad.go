package filters

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned when constructing a biquad with bad parameters.
var (
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrInvalidCutoff     = errors.New("cutoff must be positive and below Nyquist")
	ErrInvalidQ          = errors.New("Q factor must be positive")
)

// Kind selects the biquad response shape.
type Kind int

const (
	Highpass Kind = iota
	Lowpass
)

func (k Kind) String() string {
	switch k {
	case Highpass:
		return "highpass"
	case Lowpass:
		return "lowpass"
	default:
		return "unknown"
	}
}

// DefaultQ is the Butterworth (maximally flat) quality factor.
const DefaultQ = 0.707

// Biquad is a second-order IIR filter using the cookbook formulas from
// Robert Bristow-Johnson's "Cookbook formulae for audio EQ biquad filter
// coefficients".
// Reference: https://webaudio.github.io/Audio-EQ-Cookbook/audio-eq-cookbook.html
//
// The recurrence is realized in transposed direct form II, which needs
// only two state variables and is numerically well behaved:
//
//	y  = b0*x + z1
//	z1 = b1*x + z2 - a1*y
//	z2 = b2*x - a2*y
type Biquad struct {
	kind       Kind
	sampleRate float64
	cutoff     float64
	q          float64

	// Coefficients, normalized by a0
	b0, b1, b2 float64
	a1, a2     float64

	// Delay state
	z1, z2 float64
}

// NewBiquad creates a high-pass or low-pass biquad. The cutoff must lie
// strictly between 0 and Nyquist; coefficients are undefined otherwise.
func NewBiquad(kind Kind, cutoffHz, sampleRateHz, q float64) (*Biquad, error) {
	if sampleRateHz <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if cutoffHz <= 0 || cutoffHz >= sampleRateHz/2 {
		return nil, fmt.Errorf("%w: cutoff %.1f Hz at sample rate %.0f Hz", ErrInvalidCutoff, cutoffHz, sampleRateHz)
	}
	if q <= 0 {
		return nil, ErrInvalidQ
	}

	f := &Biquad{
		kind:       kind,
		sampleRate: sampleRateHz,
		cutoff:     cutoffHz,
		q:          q,
	}
	f.computeCoefficients()
	return f, nil
}

// computeCoefficients derives the five normalized coefficients from the
// cookbook formulas.
func (f *Biquad) computeCoefficients() {
	w0 := 2.0 * math.Pi * f.cutoff / f.sampleRate
	cosW0 := math.Cos(w0)
	sinW0 := math.Sin(w0)
	alpha := sinW0 / (2.0 * f.q)

	var b0, b1, b2 float64
	switch f.kind {
	case Highpass:
		b0 = (1.0 + cosW0) / 2.0
		b1 = -(1.0 + cosW0)
		b2 = (1.0 + cosW0) / 2.0
	case Lowpass:
		b0 = (1.0 - cosW0) / 2.0
		b1 = 1.0 - cosW0
		b2 = (1.0 - cosW0) / 2.0
	}

	a0 := 1.0 + alpha
	f.b0 = b0 / a0
	f.b1 = b1 / a0
	f.b2 = b2 / a0
	f.a1 = (-2.0 * cosW0) / a0
	f.a2 = (1.0 - alpha) / a0
}

// ProcessSample filters a single sample and advances the delay state.
func (f *Biquad) ProcessSample(x float64) float64 {
	y := f.b0*x + f.z1
	f.z1 = f.b1*x + f.z2 - f.a1*y
	f.z2 = f.b2*x - f.a2*y
	return y
}

// Process filters a frame in place and returns it. Output length always
// equals input length.
func (f *Biquad) Process(frame []float64) []float64 {
	for i, x := range frame {
		frame[i] = f.ProcessSample(x)
	}
	return frame
}

// Reset clears the delay state. Call when processing discontinuous
// audio segments.
func (f *Biquad) Reset() {
	f.z1, f.z2 = 0.0, 0.0
}

// Kind returns the filter's response shape.
func (f *Biquad) Kind() Kind { return f.kind }

// Cutoff returns the configured cutoff frequency in Hz.
func (f *Biquad) Cutoff() float64 { return f.cutoff }

// Q returns the configured quality factor.
func (f *Biquad) Q() float64 { return f.q }

// MagnitudeAt computes the filter's magnitude response at the given
// frequency (linear scale). Used for verifying pass/stop behavior.
//
// H(e^jw) = (b0 + b1*e^-jw + b2*e^-j2w) / (1 + a1*e^-jw + a2*e^-j2w)
func (f *Biquad) MagnitudeAt(frequencyHz float64) float64 {
	w := 2.0 * math.Pi * frequencyHz / f.sampleRate

	cosW := math.Cos(w)
	sinW := math.Sin(w)
	cos2W := math.Cos(2 * w)
	sin2W := math.Sin(2 * w)

	numReal := f.b0 + f.b1*cosW + f.b2*cos2W
	numImag := -f.b1*sinW - f.b2*sin2W
	denReal := 1.0 + f.a1*cosW + f.a2*cos2W
	denImag := -f.a1*sinW - f.a2*sin2W

	num := math.Sqrt(numReal*numReal + numImag*numImag)
	den := math.Sqrt(denReal*denReal + denImag*denImag)
	if den == 0 {
		return 0
	}
	return num / den
}
