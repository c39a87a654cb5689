// Package fitting provides parametric curve models and a two-stage fitter:
// a Levenberg-Marquardt least-squares pass seeds a weighted orthogonal
// distance regression, with an explicit fallback to the seed when the
// refinement's covariance cannot be estimated.
//
// Degenerate fits are never reported as hard errors. They are recorded on the
// returned Result as a status tag and warning messages so callers can assert
// on which path executed.
package fitting
