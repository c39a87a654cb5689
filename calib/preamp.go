package calib

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/stat"

	"github.com/avirtanen/algo-mca/internal/tabular"
)

// GainResult holds per-row pre-amplifier gains and their summary statistics.
type GainResult struct {
	Gains []float64
	Mean  float64
	Std   float64
}

// PreampGain computes the pre-amplifier gain for each row of the gain test
// table. The attenuator sits between the signal source and the pre-amplifier,
// so the effective input is the measured input scaled by the calibrated
// attenuation for that row's setting.
func PreampGain(attenuation, inputV, outputV []float64) (GainResult, error) {
	if err := checkColumns(len(attenuation), len(inputV), len(outputV)); err != nil {
		return GainResult{}, err
	}

	attenuated := make([]float64, len(inputV))
	vecmath.MulBlock(attenuated, inputV, attenuation)

	gains := make([]float64, len(attenuated))
	for i := range gains {
		if attenuated[i] == 0 {
			return GainResult{}, fmt.Errorf("%w: row %d", ErrZeroInput, i)
		}

		gains[i] = outputV[i] / attenuated[i]
	}

	mean, std := stat.MeanStdDev(gains, nil)

	return GainResult{Gains: gains, Mean: mean, Std: std}, nil
}

// FrequencyResponse is the pre-amplifier gain as a function of frequency,
// interpolated with a natural cubic spline through the measured points.
type FrequencyResponse struct {
	FreqHz []float64
	Gain   []float64

	spline interp.NaturalCubic
}

// NewFrequencyResponse builds the gain curve from the frequency response
// table. Frequencies must be strictly increasing.
func NewFrequencyResponse(freqHz, inputV, outputV []float64) (*FrequencyResponse, error) {
	if err := checkColumns(len(freqHz), len(inputV), len(outputV)); err != nil {
		return nil, err
	}

	for i := 1; i < len(freqHz); i++ {
		if freqHz[i] <= freqHz[i-1] {
			return nil, fmt.Errorf("calib: frequencies not strictly increasing at row %d", i)
		}
	}

	gain := make([]float64, len(freqHz))
	for i := range gain {
		if inputV[i] == 0 {
			return nil, fmt.Errorf("%w: row %d", ErrZeroInput, i)
		}

		gain[i] = outputV[i] / inputV[i]
	}

	fr := &FrequencyResponse{FreqHz: freqHz, Gain: gain}
	if err := fr.spline.Fit(freqHz, gain); err != nil {
		return nil, fmt.Errorf("calib: spline fit: %w", err)
	}

	return fr, nil
}

// GainAt interpolates the gain at the given frequency.
func (fr *FrequencyResponse) GainAt(freqHz float64) float64 {
	return fr.spline.Predict(freqHz)
}

// Dense samples the spline on n evenly spaced frequencies across the
// measured range, for plotting.
func (fr *FrequencyResponse) Dense(n int) (freqHz, gain []float64) {
	if n < 2 {
		n = 2
	}

	lo := fr.FreqHz[0]
	hi := fr.FreqHz[len(fr.FreqHz)-1]
	step := (hi - lo) / float64(n-1)

	freqHz = make([]float64, n)
	gain = make([]float64, n)

	for i := range freqHz {
		f := lo + step*float64(i)
		if i == n-1 {
			f = hi
		}

		freqHz[i] = f
		gain[i] = fr.spline.Predict(f)
	}

	return freqHz, gain
}

// ReadFrequencyTable parses the frequency response CSV with columns
// "f (Hz)", "Input A (V)" and "Output A (V)".
func ReadFrequencyTable(r io.Reader) (freqHz, inputV, outputV []float64, err error) {
	cols, err := tabular.ReadColumns(r, "f (Hz)", "Input A (V)", "Output A (V)")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("calib: %w", err)
	}

	return cols[0], cols[1], cols[2], nil
}

// ReadFrequencyTableFile reads the frequency response CSV from disk.
func ReadFrequencyTableFile(path string) (freqHz, inputV, outputV []float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("calib: %w", err)
	}
	defer f.Close()

	return ReadFrequencyTable(f)
}

func stdFromCov(variance float64) float64 {
	if variance < 0 {
		return math.NaN()
	}

	return math.Sqrt(variance)
}
