package mca

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

var (
	// ErrEmptySpectrum reports a spectrum without channels.
	ErrEmptySpectrum = errors.New("mca: empty spectrum")

	// ErrNonlinearitiesNotConfigured reports a fit attempted on a spectrum
	// whose differential or integral nonlinearity arrays are missing. This is
	// a configuration error, not a numerical one: without both arrays the
	// uncertainty model of the fit is meaningless.
	ErrNonlinearitiesNotConfigured = errors.New("mca: nonlinearities not configured")

	// ErrLengthMismatch reports per-channel arrays of differing lengths.
	ErrLengthMismatch = errors.New("mca: per-channel array length mismatch")
)

// Spectrum holds one MCA measurement: counts indexed by channel, channel
// labels, and optional per-channel nonlinearity arrays.
//
// DiffNonlin and IntNonlin act as uncertainty proxies for the channel axis
// and the count axis respectively. Both must be configured before a weighted
// peak fit can run.
type Spectrum struct {
	Channels []float64
	Counts   []float64

	DiffNonlin []float64
	IntNonlin  []float64

	// Acquisition metadata, carried through scan orchestration for labeling.
	Voltage float64
	Gain    float64
}

// New creates a spectrum from raw counts with channel labels 0..len(counts)-1.
func New(counts []float64) (*Spectrum, error) {
	if len(counts) == 0 {
		return nil, ErrEmptySpectrum
	}

	channels := make([]float64, len(counts))
	for i := range channels {
		channels[i] = float64(i)
	}

	return &Spectrum{
		Channels: channels,
		Counts:   counts,
	}, nil
}

// Len returns the number of channels.
func (s *Spectrum) Len() int {
	return len(s.Counts)
}

// SetNonlinearities configures the per-channel differential and integral
// nonlinearity arrays. Both must match the channel count.
func (s *Spectrum) SetNonlinearities(diff, integ []float64) error {
	if len(diff) != s.Len() || len(integ) != s.Len() {
		return fmt.Errorf("%w: diff %d, int %d, channels %d",
			ErrLengthMismatch, len(diff), len(integ), s.Len())
	}

	s.DiffNonlin = diff
	s.IntNonlin = integ

	return nil
}

// HasNonlinearities reports whether both nonlinearity arrays are configured.
func (s *Spectrum) HasNonlinearities() bool {
	return s.DiffNonlin != nil && s.IntNonlin != nil
}

// Subtracted returns counts minus the given background, without modifying
// the spectrum. The background must match the channel count.
func (s *Spectrum) Subtracted(background []float64) ([]float64, error) {
	if len(background) != s.Len() {
		return nil, fmt.Errorf("%w: background %d, channels %d",
			ErrLengthMismatch, len(background), s.Len())
	}

	out := make([]float64, s.Len())
	vecmath.ScaleBlock(out, background, -1)
	vecmath.AddBlockInPlace(out, s.Counts)

	return out, nil
}

// MaxCount returns the highest count value and its channel index.
func (s *Spectrum) MaxCount() (float64, int) {
	peak := s.Counts[0]
	peakIdx := 0

	for i, v := range s.Counts {
		if v > peak {
			peak = v
			peakIdx = i
		}
	}

	return peak, peakIdx
}
