package peakfit

import (
	"fmt"

	"github.com/avirtanen/algo-mca/fitting"
	"github.com/avirtanen/algo-mca/mca"
)

// SecondaryGuard is the number of channels between the primary cut's lower
// bound and the end of the secondary-peak search window. It keeps the escape
// peak search from re-finding the tail of the primary peak. Empirical.
const SecondaryGuard = 10

// PeakFit couples one fitted peak with the window it was fitted in.
type PeakFit struct {
	Cut    Cut
	Result fitting.Result
}

// DualFit holds a primary peak fit and its lower-energy escape peak.
type DualFit struct {
	Primary   PeakFit
	Secondary PeakFit
}

// Compound returns the pointwise-sum model of both fitted peaks and its
// concatenated parameter vector, for overlay plotting.
func (d DualFit) Compound() (fitting.Model, []float64) {
	beta := make([]float64, 0, len(d.Primary.Result.Beta)+len(d.Secondary.Result.Beta))
	beta = append(beta, d.Primary.Result.Beta...)
	beta = append(beta, d.Secondary.Result.Beta...)

	return fitting.NewSum(fitting.ScaledGaussian{}, fitting.ScaledGaussian{}), beta
}

// FitSingle locates and fits the highest peak of the spectrum. counts may be
// a background-subtracted override; nil uses the spectrum's own counts.
func FitSingle(s *mca.Spectrum, counts []float64, cfg Config) (PeakFit, error) {
	counts, err := effectiveCounts(s, counts)
	if err != nil {
		return PeakFit{}, err
	}

	cut, err := FindCut(counts, cfg)
	if err != nil {
		return PeakFit{}, err
	}

	res, err := FitGaussian(s, cut, cut.Window(counts))
	if err != nil {
		return PeakFit{}, err
	}

	return PeakFit{Cut: cut, Result: res}, nil
}

// FitDual fits the primary peak and then searches the channels left of the
// primary cut, truncated SecondaryGuard channels before its start, for the
// escape peak. Both peaks are fitted independently.
func FitDual(s *mca.Spectrum, counts []float64, cfg Config) (DualFit, error) {
	counts, err := effectiveCounts(s, counts)
	if err != nil {
		return DualFit{}, err
	}

	primaryCut, err := FindCut(counts, cfg)
	if err != nil {
		return DualFit{}, err
	}

	primaryRes, err := FitGaussian(s, primaryCut, primaryCut.Window(counts))
	if err != nil {
		return DualFit{}, err
	}

	searchHi := primaryCut.Lo - SecondaryGuard
	if searchHi <= 0 {
		return DualFit{}, fmt.Errorf("%w: no room for escape peak search left of channel %d",
			ErrInsufficientData, primaryCut.Lo)
	}

	// The secondary search never suppresses low channels; the escape peak is
	// the low-channel structure.
	secondaryCfg := cfg
	secondaryCfg.SuppressLowChannels = false

	secondaryCut, err := FindCut(counts[:searchHi], secondaryCfg)
	if err != nil {
		return DualFit{}, err
	}

	secondaryRes, err := FitGaussian(s, secondaryCut, secondaryCut.Window(counts))
	if err != nil {
		return DualFit{}, err
	}

	return DualFit{
		Primary:   PeakFit{Cut: primaryCut, Result: primaryRes},
		Secondary: PeakFit{Cut: secondaryCut, Result: secondaryRes},
	}, nil
}

// FitManual fits a peak inside a caller-supplied window [lo, hi) instead of
// auto-detecting the cut. The peak is still located within the window and the
// window's width seeds the Gaussian width.
func FitManual(s *mca.Spectrum, counts []float64, lo, hi int) (PeakFit, error) {
	counts, err := effectiveCounts(s, counts)
	if err != nil {
		return PeakFit{}, err
	}

	if lo < 0 || hi > len(counts) || hi <= lo {
		return PeakFit{}, fmt.Errorf("%w: window [%d, %d) of %d channels",
			ErrInvalidConfig, lo, hi, len(counts))
	}

	peakIdx := lo + argmax(counts[lo:hi])

	cut := Cut{
		Lo:             lo,
		Hi:             hi,
		ThresholdWidth: hi - lo,
		PeakIndex:      peakIdx,
		PeakValue:      counts[peakIdx],
	}

	res, err := FitGaussian(s, cut, cut.Window(counts))
	if err != nil {
		return PeakFit{}, err
	}

	return PeakFit{Cut: cut, Result: res}, nil
}

func effectiveCounts(s *mca.Spectrum, counts []float64) ([]float64, error) {
	if counts == nil {
		return s.Counts, nil
	}

	if len(counts) != s.Len() {
		return nil, fmt.Errorf("%w: counts %d, channels %d",
			mca.ErrLengthMismatch, len(counts), s.Len())
	}

	return counts, nil
}
