// Package pitch wires the analysis stages into a per-frame engine:
// filtering, RMS metering, noise control, YIN detection, temporal
// smoothing, and note mapping.
package pitch

import (
	"fmt"
	"math"

	"github.com/soniclab/pitchkit/algorithms/common"
	"github.com/soniclab/pitchkit/algorithms/filters"
	"github.com/soniclab/pitchkit/algorithms/noise"
	"github.com/soniclab/pitchkit/algorithms/notes"
	"github.com/soniclab/pitchkit/algorithms/smooth"
	"github.com/soniclab/pitchkit/algorithms/yin"
	"github.com/soniclab/pitchkit/logging"
)

// Options are per-call knobs for ProcessFrame.
type Options struct {
	// Expected is the caller's reference pitch (note name or Hz); the
	// zero value means none was given.
	Expected notes.Reference
	// Smoothing gates the median/EMA stage. Nil means on.
	Smoothing *bool
	// Config is a per-call overlay on the engine's stored config.
	Config Partial
}

// Result is the engine's per-frame output. Per-frame conditions — no
// detection, an unparseable reference — are reported here as data,
// never as errors, so streaming callers can keep going.
type Result struct {
	// Frequency is the (possibly smoothed) detected fundamental in Hz;
	// meaningful only when Voiced is true.
	Frequency float64
	// Voiced is false when no lag passed the threshold test.
	Voiced bool
	// Confidence in [0, 1]; zero when unvoiced. Never smoothed.
	Confidence float64
	// FrameRMS is the level after filtering but before noise control,
	// so callers see signal level before normalization alters it.
	FrameRMS float64
	// Note is the nearest note name, set only when Voiced.
	Note string
	// Expected echoes the caller's raw reference input, resolved or
	// not, so "given but unparseable" is distinguishable from "not
	// given".
	Expected string
	// Deviation is a sentence like "+12.3 cents sharp", set only when
	// both detection and reference resolution succeeded.
	Deviation string
}

// Engine analyzes one mono audio stream frame by frame. Filter and
// smoother state persist across frames, so frames must be supplied in
// temporal order and an Engine must not be shared between goroutines
// without external locking. Independent engines share nothing.
type Engine struct {
	sampleRate float64
	cfg        Config

	estimator *yin.Estimator
	median    *smooth.Median
	ema       *smooth.EMA
	chain     *filters.Chain

	work []float64
	log  logging.Logger
}

// NewEngine creates an engine for a sample rate, with overrides merged
// over the built-in defaults. Configuration problems surface here, not
// per frame.
func NewEngine(sampleRateHz float64, overrides Partial) (*Engine, error) {
	cfg := DefaultConfig().Merge(overrides)
	if err := cfg.Validate(sampleRateHz); err != nil {
		return nil, err
	}

	e := &Engine{
		sampleRate: sampleRateHz,
		cfg:        cfg,
		log:        logging.WithFields(logging.Fields{"component": "pitch.Engine"}),
	}
	if err := e.rebuild(cfg); err != nil {
		return nil, err
	}

	e.log.Debug("engine created", logging.Fields{
		"sample_rate": sampleRateHz,
		"frame_size":  cfg.FrameSize,
	})
	return e, nil
}

// rebuild constructs every stage that depends on cfg. Used at
// construction and by UpdateConfig.
func (e *Engine) rebuild(cfg Config) error {
	est, err := yin.New(yin.Params{SampleRate: e.sampleRate, Threshold: cfg.YinThreshold})
	if err != nil {
		return err
	}
	median, err := smooth.NewMedian(cfg.MedianWindowSize)
	if err != nil {
		return err
	}
	ema, err := smooth.NewEMA(cfg.MovingAverageAlpha)
	if err != nil {
		return err
	}
	chain, err := filters.NewChain(cfg.filterSettings(), e.sampleRate)
	if err != nil {
		return err
	}

	e.estimator = est
	e.median = median
	e.ema = ema
	e.chain = chain
	return nil
}

// Config returns the engine's stored configuration.
func (e *Engine) Config() Config { return e.cfg }

// SampleRate returns the sample rate the engine was built for.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// UpdateConfig merges new fields into the stored configuration. When
// MedianWindowSize or MovingAverageAlpha change, the corresponding
// smoother restarts with empty state — a deliberate discontinuity in
// the smoothed stream at the moment of reconfiguration. Filter
// parameter changes likewise rebuild the filter chain with cleared
// delay state.
func (e *Engine) UpdateConfig(p Partial) error {
	next := e.cfg.Merge(p)
	if err := next.Validate(e.sampleRate); err != nil {
		return err
	}

	if next.MedianWindowSize != e.cfg.MedianWindowSize {
		median, err := smooth.NewMedian(next.MedianWindowSize)
		if err != nil {
			return err
		}
		e.median = median
	}
	if next.MovingAverageAlpha != e.cfg.MovingAverageAlpha {
		ema, err := smooth.NewEMA(next.MovingAverageAlpha)
		if err != nil {
			return err
		}
		e.ema = ema
	}
	if next.YinThreshold != e.cfg.YinThreshold {
		est, err := yin.New(yin.Params{SampleRate: e.sampleRate, Threshold: next.YinThreshold})
		if err != nil {
			return err
		}
		e.estimator = est
	}
	if next.filterSettings() != e.cfg.filterSettings() {
		chain, err := filters.NewChain(next.filterSettings(), e.sampleRate)
		if err != nil {
			return err
		}
		e.chain = chain
	}

	e.cfg = next
	e.log.Debug("config updated")
	return nil
}

// Reset clears all cross-frame state: filter delay lines, the median
// window, and the EMA accumulator. Use it between discontinuous
// streams.
func (e *Engine) Reset() {
	e.chain.Reset()
	e.median.Reset()
	e.ema.Reset()
}

// ProcessFrame analyzes one frame. The input slice is not modified. An
// error is returned only for an invalid per-call config override; every
// signal-dependent condition is reported inside the Result.
func (e *Engine) ProcessFrame(frame []float64, opts Options) (Result, error) {
	effective := e.cfg
	if opts.Config != (Partial{}) {
		effective = e.cfg.Merge(opts.Config)
		if err := effective.Validate(e.sampleRate); err != nil {
			return Result{}, fmt.Errorf("per-call config: %w", err)
		}
	}

	// Work on a copy so the caller's frame stays intact.
	if cap(e.work) < len(frame) {
		e.work = make([]float64, len(frame))
	}
	work := e.work[:len(frame)]
	copy(work, frame)

	// 1. Band-limit. A per-call filter change rebuilds the chain, which
	// intentionally drops its delay state.
	if err := e.ensureChain(effective); err != nil {
		return Result{}, err
	}
	work = e.chain.Apply(work)

	// 2. Meter the filtered signal before noise control alters it.
	frameRMS := common.RMS(work)

	// 3. Normalize, then gate.
	work = noise.Apply(work, noise.Settings{
		NormalizationEnabled:   effective.NormalizationEnabled,
		NormalizationTargetRMS: effective.NormalizationTargetRMS,
		GateEnabled:            effective.NoiseGateEnabled,
		GateThresholdRMS:       effective.NoiseGateThresholdRMS,
	})

	// 4. Detect.
	if err := e.ensureEstimator(effective); err != nil {
		return Result{}, err
	}
	det := e.estimator.Detect(work)

	result := Result{
		Voiced:     det.Voiced,
		Confidence: det.Confidence,
		FrameRMS:   frameRMS,
	}

	// 5. Smooth the frequency stream. An unvoiced frame leaves the
	// smoothers untouched: history carries through gaps, and Reset is
	// the explicit way to drop it.
	smoothing := opts.Smoothing == nil || *opts.Smoothing
	if det.Voiced {
		freq := det.Frequency
		if smoothing {
			if effective.MedianSmoothingEnabled {
				freq = e.median.Push(freq)
			}
			if effective.MovingAverageEnabled {
				freq = e.ema.Push(freq)
			}
		}
		result.Frequency = freq

		// 6. Name the note.
		result.Note = notes.FromFrequency(freq).Name
	}

	// 7. Resolve the expected reference and compute the deviation.
	if !opts.Expected.IsZero() {
		result.Expected = opts.Expected.Label()
		if ref, ok := opts.Expected.Resolve(); ok && result.Voiced {
			cents := notes.CentsBetween(result.Frequency, ref)
			result.Deviation = formatDeviation(cents)
		}
	}

	e.log.Debug("frame processed", logging.Fields{
		"voiced":     result.Voiced,
		"frequency":  result.Frequency,
		"confidence": result.Confidence,
		"rms":        result.FrameRMS,
	})
	return result, nil
}

// ProcessAll splits samples into consecutive non-overlapping frames of
// the configured FrameSize and processes each in order. A trailing
// partial frame is dropped.
func (e *Engine) ProcessAll(samples []float64, opts Options) ([]Result, error) {
	frameSize := e.cfg.FrameSize
	if opts.Config.FrameSize != nil {
		frameSize = *opts.Config.FrameSize
	}
	if !common.IsPowerOfTwo(frameSize) {
		return nil, ErrInvalidFrameSize
	}

	results := make([]Result, 0, len(samples)/frameSize)
	for start := 0; start+frameSize <= len(samples); start += frameSize {
		r, err := e.ProcessFrame(samples[start:start+frameSize], opts)
		if err != nil {
			return nil, fmt.Errorf("frame at sample %d: %w", start, err)
		}
		results = append(results, r)
	}
	return results, nil
}

// ensureChain rebuilds the filter chain when the effective settings
// differ from the chain currently held.
func (e *Engine) ensureChain(effective Config) error {
	want := effective.filterSettings()
	if e.chain != nil && e.chain.Settings() == want {
		return nil
	}
	chain, err := filters.NewChain(want, e.sampleRate)
	if err != nil {
		return err
	}
	e.chain = chain
	return nil
}

// ensureEstimator swaps the estimator when a per-call override changes
// the detection threshold.
func (e *Engine) ensureEstimator(effective Config) error {
	if e.estimator.Threshold() == effective.YinThreshold {
		return nil
	}
	est, err := yin.New(yin.Params{SampleRate: e.sampleRate, Threshold: effective.YinThreshold})
	if err != nil {
		return err
	}
	e.estimator = est
	return nil
}

// formatDeviation renders signed cents as "<sign><magnitude> cents
// sharp|flat" with one decimal of magnitude.
func formatDeviation(cents float64) string {
	sign, word := "+", "sharp"
	if cents < 0 {
		sign, word = "-", "flat"
	}
	return fmt.Sprintf("%s%.1f cents %s", sign, math.Abs(cents), word)
}
