// Package smooth implements temporal smoothing for detected frequency
// streams: a sliding-window median followed by an exponential moving
// average. Both operate on frequencies only, never on confidence.
package smooth

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrInvalidWindowSize = errors.New("median window size must be >= 1")
	ErrInvalidAlpha      = errors.New("moving average alpha must be in (0, 1]")
)

// Median is a bounded sliding-window median filter. It rejects
// single-frame spikes without the latency of a long linear filter.
type Median struct {
	size    int
	window  []float64
	scratch []float64
}

// NewMedian creates a median filter over the given window size.
func NewMedian(windowSize int) (*Median, error) {
	if windowSize < 1 {
		return nil, ErrInvalidWindowSize
	}
	return &Median{
		size:    windowSize,
		window:  make([]float64, 0, windowSize),
		scratch: make([]float64, 0, windowSize),
	}, nil
}

// Push appends a value, evicting the oldest once the window is full, and
// returns the median of the current window. For even window lengths the
// lower-middle element is used.
func (m *Median) Push(value float64) float64 {
	if len(m.window) == m.size {
		copy(m.window, m.window[1:])
		m.window[len(m.window)-1] = value
	} else {
		m.window = append(m.window, value)
	}

	m.scratch = append(m.scratch[:0], m.window...)
	sort.Float64s(m.scratch)

	// The empirical quantile at 0.5 is the smallest element whose
	// cumulative fraction reaches one half, i.e. the lower-middle
	// element for even window lengths.
	return stat.Quantile(0.5, stat.Empirical, m.scratch, nil)
}

// Len returns the number of values currently in the window.
func (m *Median) Len() int { return len(m.window) }

// Size returns the configured window capacity.
func (m *Median) Size() int { return m.size }

// Reset drops the window contents.
func (m *Median) Reset() {
	m.window = m.window[:0]
}
