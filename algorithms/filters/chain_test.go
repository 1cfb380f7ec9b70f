package filters

import (
	"errors"
	"math"
	"testing"
)

func TestChainDisabled(t *testing.T) {
	c, err := NewChain(Settings{}, testSampleRate)
	if err != nil {
		t.Fatal(err)
	}
	if c.Settings().Enabled() {
		t.Fatal("empty settings reported enabled")
	}

	in := generateSine(440, 512, 0.5)
	want := make([]float64, len(in))
	copy(want, in)

	out := c.Apply(in)
	for i := range out {
		if out[i] != want[i] {
			t.Fatalf("disabled chain altered sample %d", i)
		}
	}
}

func TestChainBandLimits(t *testing.T) {
	// High-pass at 100 Hz and low-pass at 2000 Hz: 440 passes, 50 and
	// 8000 are rejected.
	c, err := NewChain(Settings{
		HighPassCutoffHz: 100,
		LowPassCutoffHz:  2000,
	}, testSampleRate)
	if err != nil {
		t.Fatal(err)
	}

	mid := c.Apply(generateSine(440, 8192, 0.8))
	if rms := steadyRMS(mid); rms < 0.5 {
		t.Errorf("in-band sine attenuated, steady RMS %.4f", rms)
	}

	c.Reset()
	low := c.Apply(generateSine(50, 8192, 0.8))
	if rms := steadyRMS(low); rms > 0.1 {
		t.Errorf("sub-band sine survived, steady RMS %.4f", rms)
	}

	c.Reset()
	high := c.Apply(generateSine(8000, 8192, 0.8))
	if rms := steadyRMS(high); rms > 0.1 {
		t.Errorf("super-band sine survived, steady RMS %.4f", rms)
	}
}

func TestChainDefaultQ(t *testing.T) {
	c, err := NewChain(Settings{HighPassCutoffHz: 100}, testSampleRate)
	if err != nil {
		t.Fatal(err)
	}
	if c.highpass == nil {
		t.Fatal("high-pass not constructed")
	}
	if math.Abs(c.highpass.Q()-DefaultQ) > 1e-12 {
		t.Errorf("Q = %v, want default %v", c.highpass.Q(), DefaultQ)
	}
	if c.lowpass != nil {
		t.Error("low-pass constructed despite zero cutoff")
	}
}

func TestChainRejectsBadCutoff(t *testing.T) {
	_, err := NewChain(Settings{HighPassCutoffHz: testSampleRate}, testSampleRate)
	if !errors.Is(err, ErrInvalidCutoff) {
		t.Fatalf("expected ErrInvalidCutoff, got %v", err)
	}
}
