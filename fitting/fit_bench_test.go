package fitting_test

import (
	"testing"

	"github.com/avirtanen/algo-mca/fitting"
	"github.com/avirtanen/algo-mca/internal/testutil"
)

func BenchmarkCurveFitGaussian(b *testing.B) {
	x := testutil.Ramp(1, 64)
	y := testutil.GaussianPeak(100, 32, 6, 64)
	beta0 := []float64{90, 30, 8}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, _, err := fitting.CurveFit(fitting.ScaledGaussian{}, x, y, nil, beta0); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFitGaussianTwoStage(b *testing.B) {
	x := testutil.Ramp(1, 64)
	y := testutil.GaussianPeak(100, 32, 6, 64)
	beta0 := []float64{90, 30, 8}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := fitting.Fit(fitting.ScaledGaussian{}, x, y, nil, nil, beta0); err != nil {
			b.Fatal(err)
		}
	}
}
