package pitch

import (
	"errors"
	"fmt"

	"github.com/soniclab/pitchkit/algorithms/common"
	"github.com/soniclab/pitchkit/algorithms/filters"
)

// Configuration errors, surfaced at engine construction or
// reconfiguration time — never per frame.
var (
	ErrInvalidSampleRate    = errors.New("sample rate must be positive")
	ErrInvalidFrameSize     = errors.New("frame size must be a power of two")
	ErrCutoffOutOfRange     = errors.New("filter cutoff must be below Nyquist")
	ErrInvalidQ             = errors.New("filter Q must be positive")
	ErrInvalidGateThreshold = errors.New("noise gate threshold must be in [0, 1]")
	ErrInvalidTargetRMS     = errors.New("normalization target RMS must be in [0, 1]")
	ErrInvalidWindowSize    = errors.New("median window size must be >= 1")
	ErrInvalidAlpha         = errors.New("moving average alpha must be in (0, 1]")
	ErrInvalidYinThreshold  = errors.New("detection threshold must be in (0, 1)")
)

// Config is the full, immutable-per-frame parameter bundle for the
// engine. Build one with DefaultConfig().Merge(partial); stages never
// mutate it.
type Config struct {
	// Filtering. A zero cutoff disables the corresponding filter.
	HighPassCutoffHz float64
	HighPassQ        float64
	LowPassCutoffHz  float64
	LowPassQ         float64

	// Noise control.
	NoiseGateEnabled       bool
	NoiseGateThresholdRMS  float64
	NormalizationEnabled   bool
	NormalizationTargetRMS float64

	// Detection.
	YinThreshold float64

	// Smoothing.
	MedianSmoothingEnabled bool
	MedianWindowSize       int
	MovingAverageEnabled   bool
	MovingAverageAlpha     float64

	// Framing, used by stream helpers and the CLI.
	FrameSize int
}

// DefaultConfig returns the built-in defaults. The core never probes the
// environment or the filesystem for configuration; callers that want
// file-backed settings resolve them before constructing the engine.
func DefaultConfig() Config {
	return Config{
		HighPassCutoffHz:       60.0,
		HighPassQ:              filters.DefaultQ,
		LowPassCutoffHz:        0,
		LowPassQ:               filters.DefaultQ,
		NoiseGateEnabled:       true,
		NoiseGateThresholdRMS:  0.01,
		NormalizationEnabled:   true,
		NormalizationTargetRMS: 0.15,
		YinThreshold:           0.10,
		MedianSmoothingEnabled: true,
		MedianWindowSize:       5,
		MovingAverageEnabled:   true,
		MovingAverageAlpha:     0.25,
		FrameSize:              2048,
	}
}

// Validate checks the config against a sample rate. It reports the
// first problem found.
func (c Config) Validate(sampleRateHz float64) error {
	if sampleRateHz <= 0 {
		return ErrInvalidSampleRate
	}
	nyquist := sampleRateHz / 2
	if c.HighPassCutoffHz != 0 && (c.HighPassCutoffHz < 0 || c.HighPassCutoffHz >= nyquist) {
		return fmt.Errorf("%w: high-pass %.1f Hz", ErrCutoffOutOfRange, c.HighPassCutoffHz)
	}
	if c.LowPassCutoffHz != 0 && (c.LowPassCutoffHz < 0 || c.LowPassCutoffHz >= nyquist) {
		return fmt.Errorf("%w: low-pass %.1f Hz", ErrCutoffOutOfRange, c.LowPassCutoffHz)
	}
	if c.HighPassQ <= 0 || c.LowPassQ <= 0 {
		return ErrInvalidQ
	}
	if c.NoiseGateThresholdRMS < 0 || c.NoiseGateThresholdRMS > 1 {
		return ErrInvalidGateThreshold
	}
	if c.NormalizationTargetRMS < 0 || c.NormalizationTargetRMS > 1 {
		return ErrInvalidTargetRMS
	}
	if c.YinThreshold <= 0 || c.YinThreshold >= 1 {
		return ErrInvalidYinThreshold
	}
	if c.MedianWindowSize < 1 {
		return ErrInvalidWindowSize
	}
	if c.MovingAverageAlpha <= 0 || c.MovingAverageAlpha > 1 {
		return ErrInvalidAlpha
	}
	if !common.IsPowerOfTwo(c.FrameSize) {
		return ErrInvalidFrameSize
	}
	return nil
}

// filterSettings extracts the filter-stage view of the config.
func (c Config) filterSettings() filters.Settings {
	return filters.Settings{
		HighPassCutoffHz: c.HighPassCutoffHz,
		HighPassQ:        c.HighPassQ,
		LowPassCutoffHz:  c.LowPassCutoffHz,
		LowPassQ:         c.LowPassQ,
	}
}

// Partial is a sparse config overlay: nil fields keep the base value, a
// set field fully replaces it. The same shallow merge applies at engine
// construction and per call.
type Partial struct {
	HighPassCutoffHz *float64
	HighPassQ        *float64
	LowPassCutoffHz  *float64
	LowPassQ         *float64

	NoiseGateEnabled       *bool
	NoiseGateThresholdRMS  *float64
	NormalizationEnabled   *bool
	NormalizationTargetRMS *float64

	YinThreshold *float64

	MedianSmoothingEnabled *bool
	MedianWindowSize       *int
	MovingAverageEnabled   *bool
	MovingAverageAlpha     *float64

	FrameSize *int
}

// Merge resolves the overlay against the receiver and returns the
// effective config.
func (c Config) Merge(p Partial) Config {
	if p.HighPassCutoffHz != nil {
		c.HighPassCutoffHz = *p.HighPassCutoffHz
	}
	if p.HighPassQ != nil {
		c.HighPassQ = *p.HighPassQ
	}
	if p.LowPassCutoffHz != nil {
		c.LowPassCutoffHz = *p.LowPassCutoffHz
	}
	if p.LowPassQ != nil {
		c.LowPassQ = *p.LowPassQ
	}
	if p.NoiseGateEnabled != nil {
		c.NoiseGateEnabled = *p.NoiseGateEnabled
	}
	if p.NoiseGateThresholdRMS != nil {
		c.NoiseGateThresholdRMS = *p.NoiseGateThresholdRMS
	}
	if p.NormalizationEnabled != nil {
		c.NormalizationEnabled = *p.NormalizationEnabled
	}
	if p.NormalizationTargetRMS != nil {
		c.NormalizationTargetRMS = *p.NormalizationTargetRMS
	}
	if p.YinThreshold != nil {
		c.YinThreshold = *p.YinThreshold
	}
	if p.MedianSmoothingEnabled != nil {
		c.MedianSmoothingEnabled = *p.MedianSmoothingEnabled
	}
	if p.MedianWindowSize != nil {
		c.MedianWindowSize = *p.MedianWindowSize
	}
	if p.MovingAverageEnabled != nil {
		c.MovingAverageEnabled = *p.MovingAverageEnabled
	}
	if p.MovingAverageAlpha != nil {
		c.MovingAverageAlpha = *p.MovingAverageAlpha
	}
	if p.FrameSize != nil {
		c.FrameSize = *p.FrameSize
	}
	return c
}

// Pointer helpers for building Partial literals.

func Float(v float64) *float64 { return &v }
func Int(v int) *int           { return &v }
func Bool(v bool) *bool        { return &v }
