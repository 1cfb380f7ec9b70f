package yin

import (
	"github.com/mjibson/go-dsp/fft"
)

// differenceFFT evaluates the YIN difference function through the
// frequency domain. Expanding the square gives
//
//	d(tau) = p(0) + p(tau) - 2*r(tau)
//
// where p(tau) is the energy of the w-sample window starting at tau and
// r(tau) = sum_{i<w} x[i]*x[i+tau] is the lagged correlation of the
// window against the frame. r is computed with one forward/inverse FFT
// pair; p by a running update. The result is numerically identical to
// differenceDirect up to rounding.
//
// No circular wrap occurs: for tau < w and i < w, i+tau <= len(frame)-2,
// so transforms of the frame's own length are exact.
func differenceFFT(frame []float64, w int, dst []float64) {
	n := len(frame)

	windowed := make([]float64, n)
	copy(windowed, frame[:w])

	frameSpec := fft.FFTReal(frame)
	windowSpec := fft.FFTReal(windowed)

	cross := make([]complex128, n)
	for i := range cross {
		// conj(W) * X gives the cross-correlation of the window with
		// the frame at nonnegative lags.
		wr, wi := real(windowSpec[i]), imag(windowSpec[i])
		xr, xi := real(frameSpec[i]), imag(frameSpec[i])
		cross[i] = complex(wr*xr+wi*xi, wr*xi-wi*xr)
	}
	corr := fft.IFFT(cross)

	// Running window energies.
	p0 := 0.0
	for i := 0; i < w; i++ {
		p0 += frame[i] * frame[i]
	}

	pTau := p0
	dst[0] = 0
	for tau := 1; tau < w; tau++ {
		pTau += frame[tau+w-1]*frame[tau+w-1] - frame[tau-1]*frame[tau-1]
		d := p0 + pTau - 2.0*real(corr[tau])
		if d < 0 {
			// Rounding can push a near-zero difference negative.
			d = 0
		}
		dst[tau] = d
	}
}
