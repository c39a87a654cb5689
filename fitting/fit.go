package fitting

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Status tags which path of the two-stage fit produced the result.
type Status int

const (
	// StatusRefined marks a result from the orthogonal distance refinement.
	StatusRefined Status = iota

	// StatusSeedFallback marks a result reverted to the least-squares seed
	// because the refinement covariance could not be estimated.
	StatusSeedFallback
)

func (s Status) String() string {
	switch s {
	case StatusRefined:
		return "refined"
	case StatusSeedFallback:
		return "seed-fallback"
	default:
		return "unknown"
	}
}

// Warning messages recorded on degenerate fits.
const (
	WarnSeedCovariance = "least-squares covariance could not be estimated; the fit may have failed"
	WarnODRFallback    = "orthogonal distance covariance could not be estimated; reverting to the least-squares result"
)

// Result is the outcome of a two-stage fit: the parameter vector, its
// covariance, the path that produced it, and any warnings collected along
// the way.
type Result struct {
	Beta     []float64
	Cov      *mat.SymDense
	Status   Status
	Warnings []string
}

// StdDev returns the standard deviation of parameter i, the square root of
// the covariance diagonal.
func (r Result) StdDev(i int) float64 {
	return math.Sqrt(r.Cov.At(i, i))
}

// Fit runs the two-stage fit: a least-squares pass seeds parameters, then a
// weighted orthogonal distance regression refines them using uncertainties on
// both axes. If the refinement cannot estimate a covariance, the seed result
// is returned instead with StatusSeedFallback; a refined point estimate with
// no uncertainty is worth less than a seed with one.
//
// Degenerate covariances never surface as errors, only as Result warnings.
// Errors are reserved for invalid input and solver breakdown in the seeding
// stage.
func Fit(m Model, x, y, sigmaX, sigmaY, beta0 []float64) (Result, error) {
	seedBeta, seedCov, err := CurveFit(m, x, y, sigmaY, beta0)
	if err != nil {
		return Result{}, err
	}

	var warnings []string
	if !symFinite(seedCov) {
		warnings = append(warnings, WarnSeedCovariance)
	}

	refBeta, refCov, err := ODR(m, x, y, sigmaX, sigmaY, seedBeta)
	if err != nil || allZero(refCov) {
		return Result{
			Beta:     seedBeta,
			Cov:      seedCov,
			Status:   StatusSeedFallback,
			Warnings: append(warnings, WarnODRFallback),
		}, nil
	}

	return Result{
		Beta:     refBeta,
		Cov:      refCov,
		Status:   StatusRefined,
		Warnings: warnings,
	}, nil
}

func symFinite(a *mat.SymDense) bool {
	n := a.SymmetricDim()
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if math.IsNaN(a.At(i, j)) || math.IsInf(a.At(i, j), 0) {
				return false
			}
		}
	}

	return true
}

func allZero(a *mat.SymDense) bool {
	if a == nil {
		return true
	}

	n := a.SymmetricDim()
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if a.At(i, j) != 0 {
				return false
			}
		}
	}

	return true
}
