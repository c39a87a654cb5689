// Command mcafit runs peak fits over MCA spectrum exports and writes
// diagnostic figures and a fit summary.
//
// Usage:
//
//	mcafit [flags] config.yaml
//
// The YAML config lists the scans to analyze, the spectrum CSV files of each
// scan, and the shared nonlinearity table. Flags override the cut heuristic
// parameters for all scans.
//
// Example config:
//
//	output_dir: figures
//	nonlinearities: nonlin.csv
//	workers: 4
//	scans:
//	  - name: am_scan
//	    mode: single
//	    suppress_low_channels: true
//	    spectra:
//	      - file: am_1500V.csv
//	        voltage: 1500
//	        gain: 10
//	  - name: fe_scan
//	    mode: dual
//	    spectra:
//	      - file: fe_1500V.csv
//	        voltage: 1500
//	        gain: 10
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"gonum.org/v1/plot"
	"gopkg.in/yaml.v3"

	"github.com/avirtanen/algo-mca/fitting"
	"github.com/avirtanen/algo-mca/mca"
	"github.com/avirtanen/algo-mca/peakfit"
	"github.com/avirtanen/algo-mca/plotting"
	"github.com/avirtanen/algo-mca/scan"
)

type spectrumConfig struct {
	File    string  `yaml:"file"`
	Voltage float64 `yaml:"voltage"`
	Gain    float64 `yaml:"gain"`
}

type scanConfig struct {
	Name                string           `yaml:"name"`
	Mode                string           `yaml:"mode"`
	SuppressLowChannels bool             `yaml:"suppress_low_channels"`
	ManualMin           int              `yaml:"manual_min"`
	ManualMax           int              `yaml:"manual_max"`
	Spectra             []spectrumConfig `yaml:"spectra"`
}

type config struct {
	OutputDir       string       `yaml:"output_dir"`
	Nonlinearities  string       `yaml:"nonlinearities"`
	ThresholdLevel  float64      `yaml:"threshold_level"`
	CutWidthMult    float64      `yaml:"cut_width_mult"`
	SmoothingCutoff float64      `yaml:"smoothing_cutoff"`
	Workers         int          `yaml:"workers"`
	Scans           []scanConfig `yaml:"scans"`
}

func main() {
	threshold := flag.Float64("threshold", 0, "threshold level override (0 = config/default)")
	widthMult := flag.Float64("width-mult", 0, "cut width multiplier override (0 = config/default)")
	outputDir := flag.String("out", "", "output directory override")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mcafit [flags] config.yaml\n\n")
		fmt.Fprintf(os.Stderr, "Runs MCA peak fits and writes figures and a fit summary.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "mcafit:", err)
		os.Exit(1)
	}

	if *threshold != 0 {
		cfg.ThresholdLevel = *threshold
	}

	if *widthMult != 0 {
		cfg.CutWidthMult = *widthMult
	}

	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = "figures"
	}

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "mcafit:", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if len(cfg.Scans) == 0 {
		return nil, fmt.Errorf("%s: no scans configured", path)
	}

	return &cfg, nil
}

func run(cfg *config) error {
	var diff, integ []float64

	if cfg.Nonlinearities != "" {
		var err error

		diff, integ, err = mca.ReadNonlinearitiesFile(cfg.Nonlinearities)
		if err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "scan\tfile\tV\tgain\tcenter\twidth\tstatus")

	for _, sc := range cfg.Scans {
		if err := runScan(cfg, sc, diff, integ, w); err != nil {
			return fmt.Errorf("scan %s: %w", sc.Name, err)
		}
	}

	return w.Flush()
}

func runScan(cfg *config, sc scanConfig, diff, integ []float64, w *tabwriter.Writer) error {
	spectra, err := loadSpectra(cfg, sc, diff, integ)
	if err != nil {
		return err
	}

	cutCfg := peakfit.Config{
		ThresholdLevel:      cfg.ThresholdLevel,
		CutWidthMult:        cfg.CutWidthMult,
		SuppressLowChannels: sc.SuppressLowChannels,
	}

	scanCfg := scan.Config{Workers: cfg.Workers}

	var plots []*plot.Plot

	switch sc.Mode {
	case "", "single":
		items := scan.Run(spectra, scan.SingleFitter(cutCfg), scanCfg)
		plots = summarizeSingle(sc, items, w)
	case "dual":
		items := scan.Run(spectra, scan.DualFitter(cutCfg), scanCfg)
		plots = summarizeDual(sc, items, w)
	case "manual":
		fitter := func(s *mca.Spectrum) (peakfit.PeakFit, error) {
			return peakfit.FitManual(s, nil, sc.ManualMin, sc.ManualMax)
		}
		items := scan.Run(spectra, fitter, scanCfg)
		plots = summarizeSingle(sc, items, w)
	default:
		return fmt.Errorf("unknown mode %q", sc.Mode)
	}

	if len(plots) == 0 {
		return nil
	}

	cols, rows := plotting.GridDims(len(plots), 1)

	return plotting.SaveGrid(plots, cols, rows, cfg.OutputDir, sc.Name+"_fits")
}

func loadSpectra(cfg *config, sc scanConfig, diff, integ []float64) ([]*mca.Spectrum, error) {
	spectra := make([]*mca.Spectrum, 0, len(sc.Spectra))

	for _, entry := range sc.Spectra {
		s, err := mca.ReadSpectrumFile(entry.File)
		if err != nil {
			return nil, err
		}

		if diff != nil {
			if err := s.SetNonlinearities(diff, integ); err != nil {
				return nil, fmt.Errorf("%s: %w", entry.File, err)
			}
		}

		if cfg.SmoothingCutoff > 0 {
			smoothed, err := mca.Smooth(s.Counts, cfg.SmoothingCutoff)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", entry.File, err)
			}

			s.Counts = smoothed
		}

		s.Voltage = entry.Voltage
		s.Gain = entry.Gain
		spectra = append(spectra, s)
	}

	return spectra, nil
}

func summarizeSingle(sc scanConfig, items []scan.Item[peakfit.PeakFit], w *tabwriter.Writer) []*plot.Plot {
	plots := make([]*plot.Plot, 0, len(items))

	for _, it := range items {
		name := filepath.Base(sc.Spectra[it.Index].File)

		if it.Err != nil {
			fmt.Fprintf(w, "%s\t%s\t%.0f\t%.0f\t-\t-\t%v\n",
				sc.Name, name, it.Spectrum.Voltage, it.Spectrum.Gain, it.Err)
			continue
		}

		res := it.Fit.Result
		fmt.Fprintf(w, "%s\t%s\t%.0f\t%.0f\t%.2f±%.2f\t%.2f\t%s\n",
			sc.Name, name, it.Spectrum.Voltage, it.Spectrum.Gain,
			res.Beta[1], res.StdDev(1), res.Beta[2], res.Status)

		p, err := plotting.SpectrumPlot(
			fmt.Sprintf("V=%.0f V, g=%.0f", it.Spectrum.Voltage, it.Spectrum.Gain),
			it.Spectrum.Counts,
			[]plotting.FitCurve{{Model: fitting.ScaledGaussian{}, Beta: res.Beta, Label: "fit"}},
			[]peakfit.Cut{it.Fit.Cut},
		)
		if err == nil {
			plots = append(plots, p)
		}
	}

	return plots
}

func summarizeDual(sc scanConfig, items []scan.Item[peakfit.DualFit], w *tabwriter.Writer) []*plot.Plot {
	plots := make([]*plot.Plot, 0, len(items))

	for _, it := range items {
		name := filepath.Base(sc.Spectra[it.Index].File)

		if it.Err != nil {
			fmt.Fprintf(w, "%s\t%s\t%.0f\t%.0f\t-\t-\t%v\n",
				sc.Name, name, it.Spectrum.Voltage, it.Spectrum.Gain, it.Err)
			continue
		}

		primary := it.Fit.Primary.Result
		secondary := it.Fit.Secondary.Result
		fmt.Fprintf(w, "%s\t%s\t%.0f\t%.0f\t%.2f±%.2f\t%.2f\t%s (escape %.2f)\n",
			sc.Name, name, it.Spectrum.Voltage, it.Spectrum.Gain,
			primary.Beta[1], primary.StdDev(1), primary.Beta[2],
			primary.Status, secondary.Beta[1])

		model, beta := it.Fit.Compound()

		p, err := plotting.SpectrumPlot(
			fmt.Sprintf("V=%.0f V, g=%.0f", it.Spectrum.Voltage, it.Spectrum.Gain),
			it.Spectrum.Counts,
			[]plotting.FitCurve{{Model: model, Beta: beta, Label: "fit"}},
			[]peakfit.Cut{it.Fit.Primary.Cut, it.Fit.Secondary.Cut},
		)
		if err == nil {
			plots = append(plots, p)
		}
	}

	return plots
}
