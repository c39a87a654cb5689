// Package mca provides the data model for multi-channel analyzer (MCA)
// spectra: ordered per-channel counts plus the per-channel nonlinearity
// metadata used to weight peak fits.
//
// A Spectrum is an immutable input from the perspective of the fitting
// packages. Loading from the device's CSV export, background subtraction and
// optional smoothing all produce fresh slices and never mutate shared state.
package mca
