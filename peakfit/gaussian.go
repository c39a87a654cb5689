package peakfit

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/avirtanen/algo-mca/fitting"
	"github.com/avirtanen/algo-mca/mca"
)

// WidthSeedFraction seeds the Gaussian width as this fraction of the
// threshold-crossing width. Empirical; no derivation behind it, but changing
// it noticeably shifts which marginal fits converge.
const WidthSeedFraction = 0.4

// FitGaussian fits a scaled Gaussian to the windowed counts of a spectrum.
//
// The spectrum must have both nonlinearity arrays configured; they provide
// the uncertainty model (sigma x from the differential nonlinearity, sigma y
// from the integral nonlinearity scaled by the counts, so uncertainty grows
// with count magnitude). Missing nonlinearities fail immediately with
// mca.ErrNonlinearitiesNotConfigured before any solver call.
//
// counts must be aligned with the cut window (len == cut.Len()).
func FitGaussian(s *mca.Spectrum, cut Cut, counts []float64) (fitting.Result, error) {
	if !s.HasNonlinearities() {
		return fitting.Result{}, mca.ErrNonlinearitiesNotConfigured
	}

	if len(counts) != cut.Len() {
		return fitting.Result{}, fmt.Errorf("%w: counts %d, cut %d",
			mca.ErrLengthMismatch, len(counts), cut.Len())
	}

	model := fitting.ScaledGaussian{}
	if cut.Len() < model.NumParams() {
		return fitting.Result{}, fmt.Errorf("%w: cut of %d channels, %d parameters",
			ErrInsufficientData, cut.Len(), model.NumParams())
	}

	if cut.Hi > s.Len() {
		return fitting.Result{}, fmt.Errorf("%w: cut [%d, %d) beyond %d channels",
			mca.ErrLengthMismatch, cut.Lo, cut.Hi, s.Len())
	}

	sigmaX := sanitizeSigma(append([]float64(nil), s.DiffNonlin[cut.Lo:cut.Hi]...))

	sigmaY := make([]float64, cut.Len())
	vecmath.MulBlock(sigmaY, s.IntNonlin[cut.Lo:cut.Hi], counts)
	sigmaY = sanitizeSigma(sigmaY)

	widthSeed := WidthSeedFraction * float64(cut.ThresholdWidth)
	if widthSeed <= 0 {
		// Zero-width threshold crossing; a one-channel width keeps the model
		// evaluable instead of dividing by zero.
		widthSeed = 1
	}

	beta0 := []float64{cut.PeakValue, float64(cut.PeakIndex), widthSeed}

	return fitting.Fit(model, cut.Channels(), counts, sigmaX, sigmaY, beta0)
}

// sanitizeSigma replaces non-positive uncertainty entries with unit weight.
// Zero-count channels would otherwise make the weighted problem singular.
func sanitizeSigma(sigma []float64) []float64 {
	for i, v := range sigma {
		if v <= 0 {
			sigma[i] = 1
		}
	}

	return sigma
}
