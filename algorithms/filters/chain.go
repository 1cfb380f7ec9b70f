package filters

// Settings describes the pre-analysis band-limiting chain. A zero cutoff
// disables the corresponding filter.
type Settings struct {
	HighPassCutoffHz float64
	HighPassQ        float64
	LowPassCutoffHz  float64
	LowPassQ         float64
}

// Enabled reports whether any filter in the chain is active.
func (s Settings) Enabled() bool {
	return s.HighPassCutoffHz > 0 || s.LowPassCutoffHz > 0
}

// Chain applies a high-pass then a low-pass biquad to each frame. The
// filters' delay state persists across frames for as long as the chain
// lives; rebuilding the chain (after a parameter change) intentionally
// resets that state.
type Chain struct {
	settings Settings
	highpass *Biquad
	lowpass  *Biquad
}

// NewChain constructs the chain for the given settings. Disabled filters
// are simply absent. Cutoffs at or above Nyquist are rejected.
func NewChain(settings Settings, sampleRateHz float64) (*Chain, error) {
	c := &Chain{settings: settings}

	if settings.HighPassCutoffHz > 0 {
		q := settings.HighPassQ
		if q <= 0 {
			q = DefaultQ
		}
		hp, err := NewBiquad(Highpass, settings.HighPassCutoffHz, sampleRateHz, q)
		if err != nil {
			return nil, err
		}
		c.highpass = hp
	}

	if settings.LowPassCutoffHz > 0 {
		q := settings.LowPassQ
		if q <= 0 {
			q = DefaultQ
		}
		lp, err := NewBiquad(Lowpass, settings.LowPassCutoffHz, sampleRateHz, q)
		if err != nil {
			return nil, err
		}
		c.lowpass = lp
	}

	return c, nil
}

// Apply runs the enabled filters over the frame, high-pass first. Filter
// state only advances for filters that are enabled. The frame is
// processed in place and returned.
func (c *Chain) Apply(frame []float64) []float64 {
	if c.highpass != nil {
		frame = c.highpass.Process(frame)
	}
	if c.lowpass != nil {
		frame = c.lowpass.Process(frame)
	}
	return frame
}

// Settings returns the settings the chain was built with.
func (c *Chain) Settings() Settings { return c.settings }

// Reset clears the delay state of every enabled filter.
func (c *Chain) Reset() {
	if c.highpass != nil {
		c.highpass.Reset()
	}
	if c.lowpass != nil {
		c.lowpass.Reset()
	}
}
