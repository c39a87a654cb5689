package mca

import (
	"fmt"
	"io"
	"os"

	"github.com/avirtanen/algo-mca/internal/tabular"
)

// ReadSpectrum parses an MCA CSV export with "Channel" and "Counts" columns.
func ReadSpectrum(r io.Reader) (*Spectrum, error) {
	cols, err := tabular.ReadColumns(r, "channel", "counts")
	if err != nil {
		return nil, fmt.Errorf("mca: %w", err)
	}

	if len(cols[1]) == 0 {
		return nil, ErrEmptySpectrum
	}

	return &Spectrum{
		Channels: cols[0],
		Counts:   cols[1],
	}, nil
}

// ReadSpectrumFile reads an MCA CSV export from disk.
func ReadSpectrumFile(path string) (*Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mca: %w", err)
	}
	defer f.Close()

	return ReadSpectrum(f)
}

// ReadNonlinearities parses a per-channel nonlinearity table with
// "Differential" and "Integral" columns.
func ReadNonlinearities(r io.Reader) (diff, integ []float64, err error) {
	cols, err := tabular.ReadColumns(r, "differential", "integral")
	if err != nil {
		return nil, nil, fmt.Errorf("mca: %w", err)
	}

	return cols[0], cols[1], nil
}

// ReadNonlinearitiesFile reads a nonlinearity table from disk.
func ReadNonlinearitiesFile(path string) (diff, integ []float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("mca: %w", err)
	}
	defer f.Close()

	return ReadNonlinearities(f)
}
