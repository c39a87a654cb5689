package spectrum_test

import (
	"math"
	"testing"

	"github.com/avirtanen/algo-mca/internal/testutil"
	"github.com/avirtanen/algo-mca/stats/spectrum"
)

func TestCalculateEmpty(t *testing.T) {
	s := spectrum.Calculate(nil)
	if s.Channels != 0 || s.Total != 0 {
		t.Fatalf("empty stats = %+v", s)
	}
}

func TestCalculateGaussian(t *testing.T) {
	const (
		center = 60.0
		width  = 7.0
	)

	s := spectrum.Calculate(testutil.GaussianPeak(100, center, width, 256))

	if s.PeakIndex != 60 {
		t.Fatalf("PeakIndex = %d, want 60", s.PeakIndex)
	}
	if math.Abs(s.Peak-100) > 1e-9 {
		t.Fatalf("Peak = %v, want 100", s.Peak)
	}
	if math.Abs(s.Centroid-center) > 0.1 {
		t.Fatalf("Centroid = %v, want near %v", s.Centroid, center)
	}
	if math.Abs(s.RMSWidth-width) > 0.1 {
		t.Fatalf("RMSWidth = %v, want near %v", s.RMSWidth, width)
	}

	// FWHM of a Gaussian is 2*sqrt(2 ln 2) * sigma.
	wantFWHM := 2 * math.Sqrt(2*math.Ln2) * width
	if math.Abs(s.FWHM-wantFWHM) > 0.2 {
		t.Fatalf("FWHM = %v, want near %v", s.FWHM, wantFWHM)
	}
}

func TestCalculateFlatZero(t *testing.T) {
	s := spectrum.Calculate(testutil.Flat(0, 16))
	if s.Total != 0 || s.FWHM != 0 || s.NonZero != 0 {
		t.Fatalf("flat-zero stats = %+v", s)
	}
}

func TestCalculateTotalAndNonZero(t *testing.T) {
	s := spectrum.Calculate([]float64{0, 2, 0, 3, 5})
	if s.Total != 10 {
		t.Fatalf("Total = %v, want 10", s.Total)
	}
	if s.NonZero != 3 {
		t.Fatalf("NonZero = %d, want 3", s.NonZero)
	}
	if s.PeakIndex != 4 {
		t.Fatalf("PeakIndex = %d, want 4", s.PeakIndex)
	}
}
