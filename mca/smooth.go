package mca

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// ErrInvalidCutoff reports a smoothing cutoff outside (0, 1].
var ErrInvalidCutoff = errors.New("mca: smoothing cutoff must be in (0, 1]")

// Smooth low-pass filters a count spectrum in the frequency domain and
// returns the smoothed counts. cutoffFrac is the retained fraction of the
// spectrum's bandwidth; 1 keeps everything, small values suppress
// channel-to-channel counting noise before peak search.
//
// Negative values produced by ringing are clamped to zero since counts are
// non-negative by construction.
func Smooth(counts []float64, cutoffFrac float64) ([]float64, error) {
	if len(counts) == 0 {
		return nil, ErrEmptySpectrum
	}

	if cutoffFrac <= 0 || cutoffFrac > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCutoff, cutoffFrac)
	}

	n := len(counts)
	fftSize := nextPowerOf2(n)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("mca: failed to create FFT plan: %w", err)
	}

	padded := make([]complex128, fftSize)
	for i, v := range counts {
		padded[i] = complex(v, 0)
	}

	freq := make([]complex128, fftSize)
	if err := plan.Forward(freq, padded); err != nil {
		return nil, fmt.Errorf("mca: forward FFT: %w", err)
	}

	// Zero bins above the cutoff, keeping the conjugate symmetry of a real
	// input so the inverse transform stays real.
	nyquist := fftSize / 2
	keep := int(cutoffFrac * float64(nyquist))

	for i := keep + 1; i <= nyquist; i++ {
		freq[i] = 0
		freq[fftSize-i] = 0
	}

	smoothed := make([]complex128, fftSize)
	if err := plan.Inverse(smoothed, freq); err != nil {
		return nil, fmt.Errorf("mca: inverse FFT: %w", err)
	}

	out := make([]float64, n)
	for i := range out {
		v := real(smoothed[i])
		if v < 0 {
			v = 0
		}

		out[i] = v
	}

	return out, nil
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
