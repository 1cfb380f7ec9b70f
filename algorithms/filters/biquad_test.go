package filters

import (
	"errors"
	"math"
	"testing"
)

const testSampleRate = 44100.0

func generateSine(frequency float64, numSamples int, amplitude float64) []float64 {
	samples := make([]float64, numSamples)
	for i := range samples {
		samples[i] = amplitude * math.Sin(2*math.Pi*frequency*float64(i)/testSampleRate)
	}
	return samples
}

// steadyRMS measures RMS over the second half of a frame, past the
// filter's settling transient.
func steadyRMS(frame []float64) float64 {
	tail := frame[len(frame)/2:]
	sum := 0.0
	for _, s := range tail {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(tail)))
}

func TestNewBiquadValidation(t *testing.T) {
	testCases := []struct {
		name       string
		cutoff     float64
		sampleRate float64
		q          float64
		wantErr    error
	}{
		{"valid", 1000, testSampleRate, DefaultQ, nil},
		{"zero cutoff", 0, testSampleRate, DefaultQ, ErrInvalidCutoff},
		{"negative cutoff", -100, testSampleRate, DefaultQ, ErrInvalidCutoff},
		{"at nyquist", testSampleRate / 2, testSampleRate, DefaultQ, ErrInvalidCutoff},
		{"above nyquist", testSampleRate, testSampleRate, DefaultQ, ErrInvalidCutoff},
		{"zero sample rate", 1000, 0, DefaultQ, ErrInvalidSampleRate},
		{"zero q", 1000, testSampleRate, 0, ErrInvalidQ},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBiquad(Highpass, tc.cutoff, tc.sampleRate, tc.q)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestHighpassPassesAboveCutoff(t *testing.T) {
	// Cutoff far below the signal: a steady-state sine should come
	// through with its amplitude materially unchanged.
	f, err := NewBiquad(Highpass, 60, testSampleRate, DefaultQ)
	if err != nil {
		t.Fatal(err)
	}

	in := generateSine(440, 8192, 0.8)
	inRMS := steadyRMS(in)
	out := f.Process(in)

	if len(out) != 8192 {
		t.Fatalf("length changed: %d", len(out))
	}
	outRMS := steadyRMS(out)
	if math.Abs(outRMS-inRMS)/inRMS > 0.03 {
		t.Errorf("passband sine attenuated: in %.4f out %.4f", inRMS, outRMS)
	}
}

func TestHighpassAttenuatesBelowCutoff(t *testing.T) {
	// Cutoff far above the signal: the sine should be heavily
	// attenuated.
	f, err := NewBiquad(Highpass, 4000, testSampleRate, DefaultQ)
	if err != nil {
		t.Fatal(err)
	}

	in := generateSine(100, 8192, 0.8)
	inRMS := steadyRMS(in)
	out := f.Process(in)

	outRMS := steadyRMS(out)
	if outRMS > inRMS*0.05 {
		t.Errorf("stopband sine survived: in %.4f out %.4f", inRMS, outRMS)
	}
}

func TestLowpassAttenuatesAboveCutoff(t *testing.T) {
	f, err := NewBiquad(Lowpass, 200, testSampleRate, DefaultQ)
	if err != nil {
		t.Fatal(err)
	}

	in := generateSine(8000, 8192, 0.8)
	inRMS := steadyRMS(in)
	out := f.Process(in)

	outRMS := steadyRMS(out)
	if outRMS > inRMS*0.05 {
		t.Errorf("stopband sine survived lowpass: in %.4f out %.4f", inRMS, outRMS)
	}
}

func TestMagnitudeResponse(t *testing.T) {
	f, err := NewBiquad(Highpass, 500, testSampleRate, DefaultQ)
	if err != nil {
		t.Fatal(err)
	}

	// At the cutoff a Butterworth response sits at -3 dB.
	atCutoff := f.MagnitudeAt(500)
	if math.Abs(atCutoff-1.0/math.Sqrt2) > 0.01 {
		t.Errorf("magnitude at cutoff = %.4f, want ~%.4f", atCutoff, 1.0/math.Sqrt2)
	}

	if passband := f.MagnitudeAt(8000); math.Abs(passband-1.0) > 0.01 {
		t.Errorf("passband magnitude = %.4f, want ~1", passband)
	}
	if stopband := f.MagnitudeAt(20); stopband > 0.01 {
		t.Errorf("stopband magnitude = %.4f, want ~0", stopband)
	}
}

func TestResetClearsState(t *testing.T) {
	f, err := NewBiquad(Highpass, 100, testSampleRate, DefaultQ)
	if err != nil {
		t.Fatal(err)
	}

	first := f.ProcessSample(1.0)
	f.ProcessSample(0.5)
	f.Reset()
	again := f.ProcessSample(1.0)

	if first != again {
		t.Errorf("first sample after reset differs: %v vs %v", first, again)
	}
}
