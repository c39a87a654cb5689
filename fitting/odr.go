package fitting

import (
	"fmt"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/mat"
)

// ODR fits the model to (x, y) by weighted orthogonal distance regression:
// an errors-in-variables formulation that accounts for uncertainty in both
// axes. sigmaX and sigmaY may be nil (unit weights), a single-element slice
// (broadcast), or per-point arrays.
//
// The problem is cast as an extended least-squares system over the model
// parameters plus one x-displacement per point:
//
//	r_i       = (f(x_i + d_i; beta) - y_i) / sigmaY_i
//	r_{n+i}   = d_i / sigmaX_i
//
// and solved with the same Levenberg-Marquardt core as the seeding stage.
//
// When the covariance of beta cannot be estimated (singular normal matrix),
// ODR returns an all-zero covariance rather than an error so the caller can
// apply its fallback policy.
func ODR(m Model, x, y, sigmaX, sigmaY, beta0 []float64) ([]float64, *mat.SymDense, error) {
	n := len(x)
	p := m.NumParams()

	if len(y) != n {
		return nil, nil, fmt.Errorf("%w: x %d, y %d", ErrDimensionMismatch, n, len(y))
	}

	if n < p {
		return nil, nil, fmt.Errorf("%w: %d points, %d parameters (%s)",
			ErrInsufficientData, n, p, m.Name())
	}

	if len(beta0) != p {
		return nil, nil, fmt.Errorf("%w: beta0 %d, parameters %d", ErrDimensionMismatch, len(beta0), p)
	}

	sx, err := broadcastSigma(sigmaX, n, "sigmaX")
	if err != nil {
		return nil, nil, err
	}

	sy, err := broadcastSigma(sigmaY, n, "sigmaY")
	if err != nil {
		return nil, nil, err
	}

	dim := p + n
	size := 2 * n

	resid := func(dst, u []float64) {
		beta := u[:p]
		delta := u[p:]

		for i := 0; i < n; i++ {
			dst[i] = (m.Eval(x[i]+delta[i], beta) - y[i]) / sy[i]
			dst[n+i] = delta[i] / sx[i]
		}
	}

	init := make([]float64, dim)
	copy(init, beta0)

	jacobian := lm.NumJac{Func: resid}
	problem := lm.LMProblem{
		Dim:        dim,
		Size:       size,
		Func:       resid,
		Jac:        jacobian.Jac,
		InitParams: init,
		Tau:        defaultTau,
		Eps1:       defaultEps,
		Eps2:       defaultEps,
	}

	results, err := lm.LM(problem, &lm.Settings{Iterations: defaultMaxIterations, ObjectiveTol: defaultObjectiveTol})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSolverFailed, err)
	}

	u := append([]float64(nil), results.X...)
	beta := u[:p:p]

	inv, chi2, ok := normalMatrixInverse(resid, u, size, dim)
	if !ok {
		// Fallback trigger: zero covariance means "could not be estimated".
		return beta, mat.NewSymDense(p, nil), nil
	}

	dof := n - p
	if dof < 1 {
		dof = 1
	}

	resVar := chi2 / float64(dof)

	cov := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			cov.SetSym(i, j, 0.5*(inv.At(i, j)+inv.At(j, i))*resVar)
		}
	}

	return beta, cov, nil
}

// broadcastSigma expands a nil or single-element uncertainty to per-point
// form and validates positivity.
func broadcastSigma(sigma []float64, n int, name string) ([]float64, error) {
	out := make([]float64, n)

	switch len(sigma) {
	case 0:
		for i := range out {
			out[i] = 1
		}
	case 1:
		if sigma[0] <= 0 {
			return nil, fmt.Errorf("fitting: %s must be positive: %v", name, sigma[0])
		}

		for i := range out {
			out[i] = sigma[0]
		}
	case n:
		for i, v := range sigma {
			if v <= 0 {
				return nil, fmt.Errorf("fitting: %s[%d] must be positive: %v", name, i, v)
			}

			out[i] = v
		}
	default:
		return nil, fmt.Errorf("%w: %s %d, points %d", ErrDimensionMismatch, name, len(sigma), n)
	}

	return out, nil
}
