package calib_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/stat"

	"github.com/avirtanen/algo-mca/calib"
)

func TestAttenuator(t *testing.T) {
	// Attenuation falls linearly with the setting: 1.0 - 0.05*setting.
	settings := []float64{0, 2, 4, 6, 8, 10}
	inputV := []float64{2, 2, 2, 2, 2, 2}

	outputV := make([]float64, len(settings))
	for i, s := range settings {
		outputV[i] = 2 * (1.0 - 0.05*s)
	}

	res, err := calib.Attenuator(settings, inputV, outputV)
	if err != nil {
		t.Fatalf("Attenuator: %v", err)
	}

	if math.Abs(res.Slope+0.05) > 1e-6 {
		t.Fatalf("Slope = %v, want -0.05", res.Slope)
	}
	if math.Abs(res.Intercept-1.0) > 1e-6 {
		t.Fatalf("Intercept = %v, want 1.0", res.Intercept)
	}

	// Cross-check against a direct linear regression.
	intercept, slope := stat.LinearRegression(settings, res.Attenuation, nil, false)
	if math.Abs(slope-res.Slope) > 1e-9 || math.Abs(intercept-res.Intercept) > 1e-9 {
		t.Fatalf("fit (%v, %v) disagrees with regression (%v, %v)",
			res.Slope, res.Intercept, slope, intercept)
	}

	if math.IsNaN(res.SlopeStd) || math.IsNaN(res.InterceptStd) {
		t.Fatalf("parameter uncertainties not finite: %v, %v", res.SlopeStd, res.InterceptStd)
	}
}

func TestAttenuatorZeroInput(t *testing.T) {
	_, err := calib.Attenuator([]float64{0, 1}, []float64{1, 0}, []float64{1, 1})
	if !errors.Is(err, calib.ErrZeroInput) {
		t.Fatalf("err = %v, want ErrZeroInput", err)
	}
}

func TestAttenuatorColumnChecks(t *testing.T) {
	if _, err := calib.Attenuator(nil, nil, nil); !errors.Is(err, calib.ErrEmptyTable) {
		t.Fatalf("err = %v, want ErrEmptyTable", err)
	}

	_, err := calib.Attenuator([]float64{1, 2}, []float64{1}, []float64{1, 2})
	if !errors.Is(err, calib.ErrLengthMismatch) {
		t.Fatalf("err = %v, want ErrLengthMismatch", err)
	}
}

func TestPreampGain(t *testing.T) {
	attenuation := []float64{0.5, 0.5, 0.5}
	inputV := []float64{1, 2, 4}
	outputV := []float64{5, 10, 20} // gain 10 through the 0.5 attenuator

	res, err := calib.PreampGain(attenuation, inputV, outputV)
	if err != nil {
		t.Fatalf("PreampGain: %v", err)
	}

	for i, g := range res.Gains {
		if math.Abs(g-10) > 1e-9 {
			t.Fatalf("Gains[%d] = %v, want 10", i, g)
		}
	}

	if math.Abs(res.Mean-10) > 1e-9 {
		t.Fatalf("Mean = %v, want 10", res.Mean)
	}
	if math.Abs(res.Std) > 1e-9 {
		t.Fatalf("Std = %v, want 0", res.Std)
	}
}

func TestFrequencyResponseSplineThroughKnots(t *testing.T) {
	freq := []float64{100, 200, 400, 800, 1600, 3200}
	inputV := []float64{1, 1, 1, 1, 1, 1}
	outputV := []float64{10, 10.5, 11, 10.8, 9.5, 7}

	fr, err := calib.NewFrequencyResponse(freq, inputV, outputV)
	if err != nil {
		t.Fatalf("NewFrequencyResponse: %v", err)
	}

	// The interpolant must pass through the measured points.
	for i, f := range freq {
		got := fr.GainAt(f)
		if math.Abs(got-outputV[i]) > 1e-9 {
			t.Fatalf("GainAt(%v) = %v, want %v", f, got, outputV[i])
		}
	}

	fs, gains := fr.Dense(101)
	if len(fs) != 101 || len(gains) != 101 {
		t.Fatalf("Dense lengths = %d, %d, want 101", len(fs), len(gains))
	}
	if fs[0] != freq[0] || fs[100] != freq[len(freq)-1] {
		t.Fatalf("Dense range [%v, %v], want [%v, %v]", fs[0], fs[100], freq[0], freq[len(freq)-1])
	}
}

func TestFrequencyResponseNotIncreasing(t *testing.T) {
	_, err := calib.NewFrequencyResponse([]float64{100, 100}, []float64{1, 1}, []float64{1, 1})
	if err == nil {
		t.Fatal("expected error for non-increasing frequencies")
	}
}

func TestReadAttenuatorTable(t *testing.T) {
	in := "Attenuation setting,Input A (V),Output A (V)\n0,2,2\n5,2,1.5\n"

	settings, inputV, outputV, err := calib.ReadAttenuatorTable(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadAttenuatorTable: %v", err)
	}

	if len(settings) != 2 || settings[1] != 5 {
		t.Fatalf("settings = %v", settings)
	}
	if inputV[0] != 2 || outputV[1] != 1.5 {
		t.Fatalf("columns = %v, %v", inputV, outputV)
	}
}

func TestReadFrequencyTable(t *testing.T) {
	in := "f (Hz),Input A (V),Output A (V)\n100,1,9\n200,1,10\n"

	freq, inputV, outputV, err := calib.ReadFrequencyTable(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadFrequencyTable: %v", err)
	}

	if len(freq) != 2 || freq[1] != 200 || inputV[0] != 1 || outputV[1] != 10 {
		t.Fatalf("columns = %v, %v, %v", freq, inputV, outputV)
	}
}
