package pitch

import (
	"errors"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	for _, rate := range []float64{8000, 22050, 44100, 48000, 96000} {
		if err := DefaultConfig().Validate(rate); err != nil {
			t.Errorf("defaults invalid at %v Hz: %v", rate, err)
		}
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name       string
		mutate     func(*Config)
		sampleRate float64
		wantErr    error
	}{
		{"zero sample rate", func(c *Config) {}, 0, ErrInvalidSampleRate},
		{"negative sample rate", func(c *Config) {}, -44100, ErrInvalidSampleRate},
		{"high-pass at nyquist", func(c *Config) { c.HighPassCutoffHz = 22050 }, 44100, ErrCutoffOutOfRange},
		{"negative low-pass", func(c *Config) { c.LowPassCutoffHz = -100 }, 44100, ErrCutoffOutOfRange},
		{"zero Q", func(c *Config) { c.HighPassQ = 0 }, 44100, ErrInvalidQ},
		{"gate threshold above one", func(c *Config) { c.NoiseGateThresholdRMS = 1.5 }, 44100, ErrInvalidGateThreshold},
		{"negative target RMS", func(c *Config) { c.NormalizationTargetRMS = -0.1 }, 44100, ErrInvalidTargetRMS},
		{"detection threshold at one", func(c *Config) { c.YinThreshold = 1.0 }, 44100, ErrInvalidYinThreshold},
		{"zero median window", func(c *Config) { c.MedianWindowSize = 0 }, 44100, ErrInvalidWindowSize},
		{"zero alpha", func(c *Config) { c.MovingAverageAlpha = 0 }, 44100, ErrInvalidAlpha},
		{"frame size not power of two", func(c *Config) { c.FrameSize = 1000 }, 44100, ErrInvalidFrameSize},
		{"zero frame size", func(c *Config) { c.FrameSize = 0 }, 44100, ErrInvalidFrameSize},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(tc.sampleRate); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateDisabledFiltersSkipCutoffCheck(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HighPassCutoffHz = 0
	cfg.LowPassCutoffHz = 0
	if err := cfg.Validate(44100); err != nil {
		t.Fatalf("zero cutoffs rejected: %v", err)
	}
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()

	merged := base.Merge(Partial{
		HighPassCutoffHz: Float(120),
		NoiseGateEnabled: Bool(false),
		MedianWindowSize: Int(9),
	})

	if merged.HighPassCutoffHz != 120 {
		t.Errorf("HighPassCutoffHz = %v, want 120", merged.HighPassCutoffHz)
	}
	if merged.NoiseGateEnabled {
		t.Error("NoiseGateEnabled not overridden")
	}
	if merged.MedianWindowSize != 9 {
		t.Errorf("MedianWindowSize = %v, want 9", merged.MedianWindowSize)
	}

	// Untouched fields keep the base values.
	if merged.YinThreshold != base.YinThreshold {
		t.Errorf("YinThreshold changed: %v", merged.YinThreshold)
	}
	if merged.FrameSize != base.FrameSize {
		t.Errorf("FrameSize changed: %v", merged.FrameSize)
	}
}

func TestMergeEmptyIsIdentity(t *testing.T) {
	base := DefaultConfig()
	if merged := base.Merge(Partial{}); merged != base {
		t.Fatalf("empty merge changed config: %+v", merged)
	}
}

func TestMergeZeroValueOverride(t *testing.T) {
	// An explicitly set zero disables the filter; it is not treated as
	// "unset".
	merged := DefaultConfig().Merge(Partial{HighPassCutoffHz: Float(0)})
	if merged.HighPassCutoffHz != 0 {
		t.Fatalf("explicit zero ignored: %v", merged.HighPassCutoffHz)
	}
}
