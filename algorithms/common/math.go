package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Small numerical helpers shared across algorithms, gonum-backed where a
// gonum routine exists.

// RMS calculates the root mean square amplitude of a frame.
// An empty frame has zero RMS.
func RMS(frame []float64) float64 {
	if len(frame) == 0 {
		return 0.0
	}
	return math.Sqrt(floats.Dot(frame, frame) / float64(len(frame)))
}

// Mean calculates the arithmetic mean of a slice
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// Variance calculates the sample variance of a slice
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0.0
	}
	return stat.Variance(data, nil)
}

// Clamp constrains value to [min, max]
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// IsSilent reports whether every sample in the frame is exactly zero.
func IsSilent(frame []float64) bool {
	for _, s := range frame {
		if s != 0 {
			return false
		}
	}
	return true
}

// IsConstant reports whether every sample in the frame has the same
// value. A constant frame (silence, DC offset) has a difference
// function of exactly zero at every lag and carries no pitch.
func IsConstant(frame []float64) bool {
	if len(frame) == 0 {
		return true
	}
	for _, s := range frame[1:] {
		if s != frame[0] {
			return false
		}
	}
	return true
}

// IsPowerOfTwo reports whether n is a positive power of two
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
