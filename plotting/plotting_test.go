package plotting_test

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/plot"

	"github.com/avirtanen/algo-mca/fitting"
	"github.com/avirtanen/algo-mca/internal/testutil"
	"github.com/avirtanen/algo-mca/peakfit"
	"github.com/avirtanen/algo-mca/plotting"
)

func TestGridDims(t *testing.T) {
	cases := []struct {
		n, cols, rows int
	}{
		{1, 1, 1},
		{2, 1, 2},
		{4, 2, 2},
		{9, 3, 3},
		{10, 3, 4},
		{12, 3, 4},
	}

	for _, tc := range cases {
		cols, rows := plotting.GridDims(tc.n, 1)
		if cols != tc.cols || rows != tc.rows {
			t.Fatalf("GridDims(%d) = %dx%d, want %dx%d", tc.n, cols, rows, tc.cols, tc.rows)
		}
		if cols*rows < tc.n {
			t.Fatalf("grid %dx%d too small for %d plots", cols, rows, tc.n)
		}
	}
}

func TestSpectrumPlotAndSave(t *testing.T) {
	counts := testutil.GaussianPeak(100, 50, 8, 128)

	p, err := plotting.SpectrumPlot("test", counts,
		[]plotting.FitCurve{{
			Model: fitting.ScaledGaussian{},
			Beta:  []float64{100, 50, 8},
			Label: "fit",
		}},
		[]peakfit.Cut{{Lo: 35, Hi: 66, PeakIndex: 50, PeakValue: 100}},
	)
	if err != nil {
		t.Fatalf("SpectrumPlot: %v", err)
	}

	dir := t.TempDir()
	if err := plotting.SaveFig(p, dir, "spectrum"); err != nil {
		t.Fatalf("SaveFig: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "spectrum.png")); err != nil {
		t.Fatalf("figure not written: %v", err)
	}
}

func TestSaveGrid(t *testing.T) {
	counts := testutil.GaussianPeak(50, 20, 4, 64)

	p1, err := plotting.SpectrumPlot("a", counts, nil, nil)
	if err != nil {
		t.Fatalf("SpectrumPlot: %v", err)
	}
	p2, err := plotting.SpectrumPlot("b", counts, nil, nil)
	if err != nil {
		t.Fatalf("SpectrumPlot: %v", err)
	}
	p3, err := plotting.SpectrumPlot("c", counts, nil, nil)
	if err != nil {
		t.Fatalf("SpectrumPlot: %v", err)
	}

	dir := t.TempDir()
	if err := plotting.SaveGrid([]*plot.Plot{p1, p2, p3}, 2, 2, dir, "grid"); err != nil {
		t.Fatalf("SaveGrid: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "grid.png")); err != nil {
		t.Fatalf("figure not written: %v", err)
	}

	if err := plotting.SaveGrid([]*plot.Plot{p1, p2, p3}, 1, 1, dir, "too-small"); err == nil {
		t.Fatal("expected error for undersized grid")
	}
}
