package smooth

// EMA is an exponential moving average over a scalar stream. The first
// pushed value initializes the accumulator unchanged; every later push
// computes alpha*value + (1-alpha)*previous. Lower alpha adapts more
// slowly.
type EMA struct {
	alpha  float64
	value  float64
	primed bool
}

// NewEMA creates a moving average with the given coefficient.
func NewEMA(alpha float64) (*EMA, error) {
	if alpha <= 0 || alpha > 1 {
		return nil, ErrInvalidAlpha
	}
	return &EMA{alpha: alpha}, nil
}

// Push folds a value into the average and returns the smoothed result.
func (e *EMA) Push(value float64) float64 {
	if !e.primed {
		e.value = value
		e.primed = true
		return value
	}
	e.value = e.alpha*value + (1.0-e.alpha)*e.value
	return e.value
}

// Value returns the current accumulator and whether it has been primed.
func (e *EMA) Value() (float64, bool) {
	return e.value, e.primed
}

// Alpha returns the configured coefficient.
func (e *EMA) Alpha() float64 { return e.alpha }

// Reset returns the average to its unprimed state.
func (e *EMA) Reset() {
	e.value = 0
	e.primed = false
}
