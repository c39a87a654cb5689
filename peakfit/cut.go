package peakfit

import (
	"errors"
	"fmt"
	"math"
)

// Defaults for the cut heuristic. Adjusting these may result in failed fits.
const (
	DefaultThresholdLevel = 0.5
	DefaultCutWidthMult   = 1.7
)

var (
	// ErrEmptyData reports an empty count array.
	ErrEmptyData = errors.New("peakfit: empty data")

	// ErrInsufficientData reports a spectrum region too degenerate to fit:
	// no channel rises above the peak threshold, or the derived window holds
	// fewer points than the model has parameters.
	ErrInsufficientData = errors.New("peakfit: insufficient data for peak fit")

	// ErrInvalidConfig reports threshold or multiplier values out of range.
	ErrInvalidConfig = errors.New("peakfit: invalid cut configuration")
)

// Config controls the cut heuristic. Zero values select the defaults, so the
// zero Config is ready to use.
type Config struct {
	// ThresholdLevel is the fraction of the peak height a channel must
	// exceed to count as part of the peak. Must be in (0, 1).
	ThresholdLevel float64

	// CutWidthMult widens the window beyond the threshold crossings,
	// independently on each side of the peak. Must be > 0.
	CutWidthMult float64

	// SuppressLowChannels zeroes the channels below the midpoint of the
	// above-threshold run before searching for the peak. Used for spectra
	// whose low channels carry a noise floor that would otherwise capture
	// the threshold crossing.
	SuppressLowChannels bool
}

func (cfg Config) normalize() (Config, error) {
	if cfg.ThresholdLevel == 0 {
		cfg.ThresholdLevel = DefaultThresholdLevel
	}

	if cfg.CutWidthMult == 0 {
		cfg.CutWidthMult = DefaultCutWidthMult
	}

	if cfg.ThresholdLevel <= 0 || cfg.ThresholdLevel >= 1 {
		return cfg, fmt.Errorf("%w: threshold level %v not in (0, 1)", ErrInvalidConfig, cfg.ThresholdLevel)
	}

	if cfg.CutWidthMult < 0 {
		return cfg, fmt.Errorf("%w: cut width multiplier %v must be positive", ErrInvalidConfig, cfg.CutWidthMult)
	}

	return cfg, nil
}

// Cut is a contiguous channel window around a detected peak, plus the
// metadata the fit seeding needs. The window is [Lo, Hi), always non-empty
// and contained in the data, and always includes the peak channel.
type Cut struct {
	Lo, Hi         int
	ThresholdWidth int
	PeakIndex      int
	PeakValue      float64
}

// Len returns the number of channels in the window.
func (c Cut) Len() int {
	return c.Hi - c.Lo
}

// Channels returns the window's channel indices as floats, ready to use as
// the fit's x samples.
func (c Cut) Channels() []float64 {
	out := make([]float64, c.Len())
	for i := range out {
		out[i] = float64(c.Lo + i)
	}

	return out
}

// Window returns the slice of data covered by the cut.
func (c Cut) Window(data []float64) []float64 {
	return data[c.Lo:c.Hi]
}

// FindCut locates the highest peak in data and derives a fitting window
// around it. The window spans the channels above ThresholdLevel times the
// peak height, widened by CutWidthMult independently on each side, clamped
// to the data bounds. A peak at the boundary yields a window flush with that
// boundary.
//
// Data whose peak does not rise above its own threshold (all-zero or
// non-positive input) fails with ErrInsufficientData.
func FindCut(data []float64, cfg Config) (Cut, error) {
	if len(data) == 0 {
		return Cut{}, ErrEmptyData
	}

	cfg, err := cfg.normalize()
	if err != nil {
		return Cut{}, err
	}

	if cfg.SuppressLowChannels {
		data, err = suppressLowChannels(data, cfg.ThresholdLevel)
		if err != nil {
			return Cut{}, err
		}
	}

	peakIdx := argmax(data)
	peak := data[peakIdx]

	first, last, ok := thresholdRun(data, peak*cfg.ThresholdLevel)
	if !ok {
		return Cut{}, fmt.Errorf("%w: no channels above threshold", ErrInsufficientData)
	}

	lo := int(math.Round(math.Max(0, float64(peakIdx)-cfg.CutWidthMult*float64(peakIdx-first))))
	hi := int(math.Round(math.Min(float64(len(data)), float64(peakIdx)+cfg.CutWidthMult*float64(last-peakIdx)+1)))

	return Cut{
		Lo:             lo,
		Hi:             hi,
		ThresholdWidth: last - first,
		PeakIndex:      peakIdx,
		PeakValue:      peak,
	}, nil
}

// suppressLowChannels zeroes the channels below the midpoint of the
// above-threshold run so the cut search cannot latch onto a low-channel
// noise floor. The input is not modified.
func suppressLowChannels(data []float64, thresholdLevel float64) ([]float64, error) {
	peak := data[argmax(data)]

	first, last, ok := thresholdRun(data, peak*thresholdLevel)
	if !ok {
		return nil, fmt.Errorf("%w: no channels above threshold", ErrInsufficientData)
	}

	half := (first + last) / 2

	filtered := append([]float64(nil), data...)
	for i := 0; i < half; i++ {
		filtered[i] = 0
	}

	return filtered, nil
}

// thresholdRun returns the first and last indices with data[i] > threshold.
func thresholdRun(data []float64, threshold float64) (first, last int, ok bool) {
	first = -1

	for i, v := range data {
		if v > threshold {
			if first < 0 {
				first = i
			}

			last = i
		}
	}

	return first, last, first >= 0
}

func argmax(data []float64) int {
	best := 0
	for i := 1; i < len(data); i++ {
		if data[i] > data[best] {
			best = i
		}
	}

	return best
}
