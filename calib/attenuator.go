package calib

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/avirtanen/algo-mca/fitting"
	"github.com/avirtanen/algo-mca/internal/tabular"
)

var (
	// ErrEmptyTable reports a calibration table without rows.
	ErrEmptyTable = errors.New("calib: empty calibration table")

	// ErrLengthMismatch reports calibration columns of differing lengths.
	ErrLengthMismatch = errors.New("calib: column length mismatch")

	// ErrZeroInput reports an input amplitude of zero, which would make the
	// attenuation or gain ratio undefined.
	ErrZeroInput = errors.New("calib: zero input amplitude")
)

// AttenuatorResult holds the measured attenuation ratios and the linear
// calibration fit of attenuation against the attenuator setting.
type AttenuatorResult struct {
	Settings    []float64
	Attenuation []float64

	// Slope and Intercept parameterize attenuation = Slope*setting + Intercept.
	Slope        float64
	Intercept    float64
	SlopeStd     float64
	InterceptStd float64
}

// Attenuator computes per-row attenuation ratios output/input and fits a
// line against the attenuator setting.
func Attenuator(settings, inputV, outputV []float64) (AttenuatorResult, error) {
	if err := checkColumns(len(settings), len(inputV), len(outputV)); err != nil {
		return AttenuatorResult{}, err
	}

	attenuation := make([]float64, len(settings))
	for i := range attenuation {
		if inputV[i] == 0 {
			return AttenuatorResult{}, fmt.Errorf("%w: row %d", ErrZeroInput, i)
		}

		attenuation[i] = outputV[i] / inputV[i]
	}

	beta, cov, err := fitting.CurveFit(fitting.Poly1{}, settings, attenuation, nil, nil)
	if err != nil {
		return AttenuatorResult{}, fmt.Errorf("calib: attenuator fit: %w", err)
	}

	res := AttenuatorResult{
		Settings:    settings,
		Attenuation: attenuation,
		Slope:       beta[0],
		Intercept:   beta[1],
	}

	res.SlopeStd = stdFromCov(cov.At(0, 0))
	res.InterceptStd = stdFromCov(cov.At(1, 1))

	return res, nil
}

// ReadAttenuatorTable parses the attenuator test CSV with columns
// "Attenuation setting", "Input A (V)" and "Output A (V)".
func ReadAttenuatorTable(r io.Reader) (settings, inputV, outputV []float64, err error) {
	cols, err := tabular.ReadColumns(r, "Attenuation setting", "Input A (V)", "Output A (V)")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("calib: %w", err)
	}

	return cols[0], cols[1], cols[2], nil
}

// ReadAttenuatorTableFile reads the attenuator test CSV from disk.
func ReadAttenuatorTableFile(path string) (settings, inputV, outputV []float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("calib: %w", err)
	}
	defer f.Close()

	return ReadAttenuatorTable(f)
}

func checkColumns(lens ...int) error {
	if len(lens) == 0 || lens[0] == 0 {
		return ErrEmptyTable
	}

	for _, n := range lens[1:] {
		if n != lens[0] {
			return fmt.Errorf("%w: %v", ErrLengthMismatch, lens)
		}
	}

	return nil
}
