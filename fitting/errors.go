package fitting

import "errors"

var (
	// ErrDimensionMismatch reports x/y/sigma arrays of differing lengths.
	ErrDimensionMismatch = errors.New("fitting: sample array length mismatch")

	// ErrInsufficientData reports fewer data points than model parameters,
	// such as a degenerate single-point cut from a flat spectrum region.
	ErrInsufficientData = errors.New("fitting: not enough data points for model")

	// ErrSolverFailed reports a solver that did not produce a solution.
	ErrSolverFailed = errors.New("fitting: solver failed")
)
