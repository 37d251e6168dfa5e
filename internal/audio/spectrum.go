package audio

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PeakFrequency returns the strongest frequency in samples, in Hz, using a
// Hann-windowed FFT.
func PeakFrequency(samples []float32, rate float64) float64 {
	n := len(samples)
	if n < 2 {
		return 0
	}
	x := make([]float64, n)
	for i, v := range samples {
		window := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		x[i] = float64(v) * window
	}
	spectrum := fft.FFTReal(x)

	best, bestMag := 0, 0.0
	for i := 1; i < n/2; i++ {
		if mag := cmplx.Abs(spectrum[i]); mag > bestMag {
			best, bestMag = i, mag
		}
	}
	return float64(best) * rate / float64(n)
}

// Envelope returns the peak absolute amplitude of each block of samples.
func Envelope(samples []float32, block int) []float64 {
	if block <= 0 {
		return nil
	}
	out := make([]float64, 0, (len(samples)+block-1)/block)
	for start := 0; start < len(samples); start += block {
		peak := 0.0
		for _, v := range samples[start:min(start+block, len(samples))] {
			peak = math.Max(peak, math.Abs(float64(v)))
		}
		out = append(out, peak)
	}
	return out
}
