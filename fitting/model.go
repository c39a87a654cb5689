package fitting

import "math"

// Model evaluates a parametric curve at a sample point given a parameter
// vector of length NumParams.
type Model interface {
	Name() string
	NumParams() int
	Eval(x float64, beta []float64) float64
}

// ScaledGaussian is a Gaussian peak scaled to an explicit amplitude.
// Parameters: amplitude, center, width. The amplitude is the peak height,
// which makes the observed maximum a natural initial guess.
type ScaledGaussian struct{}

func (ScaledGaussian) Name() string   { return "gaussian-scaled" }
func (ScaledGaussian) NumParams() int { return 3 }

func (ScaledGaussian) Eval(x float64, beta []float64) float64 {
	d := (x - beta[1]) / beta[2]
	return beta[0] * math.Exp(-0.5*d*d)
}

// Gaussian is a unit-peak Gaussian. Parameters: center, width.
type Gaussian struct{}

func (Gaussian) Name() string   { return "gaussian" }
func (Gaussian) NumParams() int { return 2 }

func (Gaussian) Eval(x float64, beta []float64) float64 {
	d := (x - beta[0]) / beta[1]
	return math.Exp(-0.5 * d * d)
}

// Poly1 is a first-degree polynomial. Parameters: slope, intercept.
type Poly1 struct{}

func (Poly1) Name() string   { return "poly1" }
func (Poly1) NumParams() int { return 2 }

func (Poly1) Eval(x float64, beta []float64) float64 {
	return beta[0]*x + beta[1]
}

// Poly2 is a second-degree polynomial. Parameters: a, b, c for a*x^2 + b*x + c.
type Poly2 struct{}

func (Poly2) Name() string   { return "poly2" }
func (Poly2) NumParams() int { return 3 }

func (Poly2) Eval(x float64, beta []float64) float64 {
	return (beta[0]*x+beta[1])*x + beta[2]
}

// Sum is the pointwise sum of component models. Its parameter vector is the
// concatenation of the component parameter vectors, in order. It is used for
// compound shapes such as a primary peak plus an escape peak.
type Sum struct {
	Components []Model
}

// NewSum builds a compound model from the given components.
func NewSum(components ...Model) Sum {
	return Sum{Components: components}
}

func (s Sum) Name() string { return "sum" }

func (s Sum) NumParams() int {
	n := 0
	for _, c := range s.Components {
		n += c.NumParams()
	}

	return n
}

func (s Sum) Eval(x float64, beta []float64) float64 {
	total := 0.0
	offset := 0

	for _, c := range s.Components {
		p := c.NumParams()
		total += c.Eval(x, beta[offset:offset+p])
		offset += p
	}

	return total
}

// EvalAll evaluates a model at every sample point.
func EvalAll(m Model, xs, beta []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = m.Eval(x, beta)
	}

	return out
}
