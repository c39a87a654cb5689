package fitting

import (
	"fmt"
	"math"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/mat"
)

// Solver tuning shared by both stages.
const (
	defaultMaxIterations = 100
	defaultObjectiveTol  = 1e-16
	defaultTau           = 1e-6
	defaultEps           = 1e-8
)

// CurveFit fits the model to (x, y) by Levenberg-Marquardt least squares,
// optionally weighted by per-point y uncertainties. A nil beta0 starts from
// all ones.
//
// The returned covariance follows the usual least-squares estimate
// s^2 * (J^T J)^-1 with the residual variance s^2 = chi^2 / (n - p). When the
// normal matrix is singular the covariance entries are +Inf; this is not an
// error here, callers decide how to react.
func CurveFit(m Model, x, y, sigmaY, beta0 []float64) ([]float64, *mat.SymDense, error) {
	n := len(x)
	p := m.NumParams()

	if len(y) != n {
		return nil, nil, fmt.Errorf("%w: x %d, y %d", ErrDimensionMismatch, n, len(y))
	}

	if sigmaY != nil && len(sigmaY) != n {
		return nil, nil, fmt.Errorf("%w: x %d, sigmaY %d", ErrDimensionMismatch, n, len(sigmaY))
	}

	if n < p {
		return nil, nil, fmt.Errorf("%w: %d points, %d parameters (%s)",
			ErrInsufficientData, n, p, m.Name())
	}

	if beta0 == nil {
		beta0 = make([]float64, p)
		for i := range beta0 {
			beta0[i] = 1
		}
	}

	if len(beta0) != p {
		return nil, nil, fmt.Errorf("%w: beta0 %d, parameters %d", ErrDimensionMismatch, len(beta0), p)
	}

	resid := func(dst, beta []float64) {
		for i := range dst {
			r := m.Eval(x[i], beta) - y[i]
			if sigmaY != nil && sigmaY[i] != 0 {
				r /= sigmaY[i]
			}

			dst[i] = r
		}
	}

	jacobian := lm.NumJac{Func: resid}
	problem := lm.LMProblem{
		Dim:        p,
		Size:       n,
		Func:       resid,
		Jac:        jacobian.Jac,
		InitParams: beta0,
		Tau:        defaultTau,
		Eps1:       defaultEps,
		Eps2:       defaultEps,
	}

	results, err := lm.LM(problem, &lm.Settings{Iterations: defaultMaxIterations, ObjectiveTol: defaultObjectiveTol})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSolverFailed, err)
	}

	beta := append([]float64(nil), results.X...)

	inv, chi2, ok := normalMatrixInverse(resid, beta, n, p)
	if !ok {
		return beta, infCovariance(p), nil
	}

	dof := n - p
	if dof < 1 {
		dof = 1
	}

	return beta, scaledCovariance(inv, p, chi2/float64(dof)), nil
}

// normalMatrixInverse evaluates the residual Jacobian at beta and inverts
// J^T J. ok is false when the normal matrix is singular.
func normalMatrixInverse(resid func(dst, beta []float64), beta []float64, size, dim int) (*mat.Dense, float64, bool) {
	jacobian := lm.NumJac{Func: resid}

	j := mat.NewDense(size, dim, nil)
	jacobian.Jac(j, beta)

	var jtj mat.Dense
	jtj.Mul(j.T(), j)

	var inv mat.Dense
	if err := inv.Inverse(&jtj); err != nil {
		return nil, 0, false
	}

	r := make([]float64, size)
	resid(r, beta)

	chi2 := 0.0
	for _, v := range r {
		chi2 += v * v
	}

	if !matFinite(&inv, dim) {
		return nil, 0, false
	}

	return &inv, chi2, true
}

// scaledCovariance symmetrizes inv and scales it by the residual variance.
func scaledCovariance(inv *mat.Dense, dim int, resVar float64) *mat.SymDense {
	cov := mat.NewSymDense(dim, nil)
	for i := 0; i < dim; i++ {
		for j := i; j < dim; j++ {
			cov.SetSym(i, j, 0.5*(inv.At(i, j)+inv.At(j, i))*resVar)
		}
	}

	return cov
}

// infCovariance mirrors the least-squares convention for an unestimable
// covariance: every entry is +Inf.
func infCovariance(dim int) *mat.SymDense {
	cov := mat.NewSymDense(dim, nil)
	for i := 0; i < dim; i++ {
		for j := i; j < dim; j++ {
			cov.SetSym(i, j, math.Inf(1))
		}
	}

	return cov
}

func matFinite(a *mat.Dense, dim int) bool {
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			if math.IsNaN(a.At(i, j)) || math.IsInf(a.At(i, j), 0) {
				return false
			}
		}
	}

	return true
}
