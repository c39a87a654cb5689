// Package peakfit locates peaks in MCA count spectra, derives fitting
// windows ("cuts") around them with a threshold-crossing heuristic, and fits
// scaled Gaussian peak shapes through the two-stage fitter.
//
// Three orchestrations cover the measurement types: a single auto-detected
// peak, a primary peak plus a lower-energy escape peak, and a manually
// windowed peak.
package peakfit
