// Package noise implements the pre-detection noise control stage:
// amplitude normalization to a target RMS followed by a soft
// (proportional) noise gate.
package noise

import (
	"gonum.org/v1/gonum/floats"

	"github.com/soniclab/pitchkit/algorithms/common"
)

// Settings controls which noise-control steps run and with what levels.
type Settings struct {
	NormalizationEnabled   bool
	NormalizationTargetRMS float64
	GateEnabled            bool
	GateThresholdRMS       float64
}

// Normalize scales the frame so its RMS matches targetRMS. A silent
// frame (RMS zero) is returned unchanged to avoid a divide by zero.
// The frame is scaled in place and returned.
func Normalize(frame []float64, targetRMS float64) []float64 {
	rms := common.RMS(frame)
	if rms == 0 {
		return frame
	}
	floats.Scale(targetRMS/rms, frame)
	return frame
}

// SoftGate attenuates frames whose RMS falls below thresholdRMS. Unlike
// a hard gate the attenuation is proportional: a frame just under the
// threshold is barely touched, while a very quiet frame is scaled
// toward zero. Frames at or above the threshold pass unchanged.
func SoftGate(frame []float64, thresholdRMS float64) []float64 {
	if thresholdRMS <= 0 {
		return frame
	}
	rms := common.RMS(frame)
	if rms >= thresholdRMS {
		return frame
	}
	floats.Scale(rms/thresholdRMS, frame)
	return frame
}

// Apply runs normalization then gating, in that fixed order. Gating the
// already-normalized signal keeps the threshold comparison meaningful
// under varying input levels.
func Apply(frame []float64, settings Settings) []float64 {
	if settings.NormalizationEnabled {
		frame = Normalize(frame, settings.NormalizationTargetRMS)
	}
	if settings.GateEnabled {
		frame = SoftGate(frame, settings.GateThresholdRMS)
	}
	return frame
}
