package telemetry

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// History keeps the most recent censuses, dropping the oldest beyond its
// capacity.
type History struct {
	buf   []Census
	start int
	n     int
}

// NewHistory creates a history holding up to capacity samples.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]Census, capacity)}
}

// Push appends a sample, evicting the oldest when full.
func (h *History) Push(c Census) {
	if h.n < len(h.buf) {
		h.buf[(h.start+h.n)%len(h.buf)] = c
		h.n++
		return
	}
	h.buf[h.start] = c
	h.start = (h.start + 1) % len(h.buf)
}

// Len returns the number of stored samples.
func (h *History) Len() int { return h.n }

// Cap returns the maximum number of samples.
func (h *History) Cap() int { return len(h.buf) }

// At returns the i-th sample, oldest first.
func (h *History) At(i int) Census {
	return h.buf[(h.start+i)%len(h.buf)]
}

// Latest returns the newest sample and false when empty.
func (h *History) Latest() (Census, bool) {
	if h.n == 0 {
		return Census{}, false
	}
	return h.At(h.n - 1), true
}

// All returns the samples oldest first.
func (h *History) All() []Census {
	out := make([]Census, h.n)
	for i := range out {
		out[i] = h.At(i)
	}
	return out
}

// Series extracts one value per sample, oldest first.
func (h *History) Series(f func(Census) float64) []float64 {
	out := make([]float64, h.n)
	for i := range out {
		out[i] = f(h.At(i))
	}
	return out
}

// Reset drops all samples.
func (h *History) Reset() {
	h.start, h.n = 0, 0
}

// Field selectors for Series.
func HerbivoreCount(c Census) float64 { return float64(c.Herbivores) }
func CarnivoreCount(c Census) float64 { return float64(c.Carnivores) }
func PlantCount(c Census) float64     { return float64(c.Plants) }

// minCycleSamples is the shortest series CyclePeriod will analyse.
const minCycleSamples = 16

// CyclePeriod estimates the dominant oscillation period of an evenly
// sampled series, in the same units as interval. It returns 0 when the
// series is too short or flat.
func CyclePeriod(series []float64, interval float64) float64 {
	n := len(series)
	if n < minCycleSamples || interval <= 0 {
		return 0
	}

	var mean float64
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range series {
		centered[i] = v - mean
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, centered)

	// Skip the DC term and require at least two full cycles in the window.
	best, bestPower := 0, 0.0
	for k := 2; k < len(coeffs); k++ {
		p := cmplx.Abs(coeffs[k])
		if p > bestPower {
			best, bestPower = k, p
		}
	}
	if best == 0 || bestPower < 1e-9 {
		return 0
	}
	freq := fft.Freq(best) / interval
	if freq <= 0 || math.IsInf(freq, 0) {
		return 0
	}
	return 1 / freq
}
