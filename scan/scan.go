// Package scan runs a peak fit across a collection of spectra, such as one
// spectrum per high-voltage setting, with per-spectrum error isolation.
//
// Each fit is independent: no state is shared between items beyond the
// read-only input spectra, so the batch loop parallelizes freely.
package scan

import (
	"fmt"
	"sync"

	"github.com/avirtanen/algo-mca/mca"
	"github.com/avirtanen/algo-mca/peakfit"
)

// Config controls batch execution.
type Config struct {
	// Workers is the number of concurrent fit workers. Zero or negative
	// runs the batch sequentially.
	Workers int
}

func (cfg Config) normalize() Config {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	return cfg
}

// Item is one spectrum's outcome within a batch. Exactly one of Fit and Err
// is meaningful: a failed spectrum carries its error without aborting the
// rest of the scan.
type Item[T any] struct {
	Index    int
	Spectrum *mca.Spectrum
	Fit      T
	Err      error
}

// Run applies fit to every spectrum and returns the outcomes aligned with
// the input order.
func Run[T any](spectra []*mca.Spectrum, fit func(*mca.Spectrum) (T, error), cfg Config) []Item[T] {
	cfg = cfg.normalize()

	items := make([]Item[T], len(spectra))

	indices := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range indices {
				s := spectra[i]
				res, err := fit(s)
				items[i] = Item[T]{Index: i, Spectrum: s, Fit: res, Err: err}
			}
		}()
	}

	for i := range spectra {
		indices <- i
	}

	close(indices)
	wg.Wait()

	return items
}

// SingleFitter adapts peakfit.FitSingle to a batch fit function.
func SingleFitter(cfg peakfit.Config) func(*mca.Spectrum) (peakfit.PeakFit, error) {
	return func(s *mca.Spectrum) (peakfit.PeakFit, error) {
		return peakfit.FitSingle(s, nil, cfg)
	}
}

// DualFitter adapts peakfit.FitDual to a batch fit function.
func DualFitter(cfg peakfit.Config) func(*mca.Spectrum) (peakfit.DualFit, error) {
	return func(s *mca.Spectrum) (peakfit.DualFit, error) {
		return peakfit.FitDual(s, nil, cfg)
	}
}

// RunHV stamps voltage and gain metadata onto the spectra and runs the batch.
// The metadata arrays must match the spectrum count.
func RunHV[T any](
	spectra []*mca.Spectrum,
	voltages, gains []float64,
	fit func(*mca.Spectrum) (T, error),
	cfg Config,
) ([]Item[T], error) {
	if len(voltages) != len(spectra) || len(gains) != len(spectra) {
		return nil, fmt.Errorf("%w: %d spectra, %d voltages, %d gains",
			mca.ErrLengthMismatch, len(spectra), len(voltages), len(gains))
	}

	for i, s := range spectra {
		s.Voltage = voltages[i]
		s.Gain = gains[i]
	}

	return Run(spectra, fit, cfg), nil
}
