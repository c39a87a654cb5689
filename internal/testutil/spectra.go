package testutil

import (
	"math"
	"math/rand"
)

// GaussianPeak generates a noiseless spectrum of n channels containing a
// single Gaussian peak with the given amplitude, center and width.
func GaussianPeak(amplitude, center, width float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		d := (float64(i) - center) / width
		out[i] = amplitude * math.Exp(-0.5*d*d)
	}
	return out
}

// DoubleGaussianPeak generates a spectrum containing two Gaussian peaks.
func DoubleGaussianPeak(amp1, center1, width1, amp2, center2, width2 float64, n int) []float64 {
	out := GaussianPeak(amp1, center1, width1, n)
	second := GaussianPeak(amp2, center2, width2, n)
	for i := range out {
		out[i] += second[i]
	}
	return out
}

// DeterministicNoise generates uniform noise in [-amplitude, amplitude] with
// a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Flat generates a constant-valued spectrum.
func Flat(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return Flat(1.0, n)
}

// Ramp returns a linearly increasing slice 0, step, 2*step, ...
func Ramp(step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = step * float64(i)
	}
	return out
}
