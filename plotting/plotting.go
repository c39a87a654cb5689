// Package plotting composes and saves diagnostic figures: spectrum plots
// with fitted curves and cut markers, and subplot grids for scan overviews.
package plotting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/avirtanen/algo-mca/fitting"
	"github.com/avirtanen/algo-mca/peakfit"
)

// FitCurve is a fitted model to overlay on a spectrum plot.
type FitCurve struct {
	Model fitting.Model
	Beta  []float64
	Label string
}

// GridDims computes the subplot grid for n plots. aspect stretches the grid
// horizontally; 1 gives a near-square layout.
func GridDims(n int, aspect float64) (cols, rows int) {
	if n < 1 {
		return 1, 1
	}

	if aspect <= 0 {
		aspect = 1
	}

	cols = int(math.Sqrt(float64(n)) * aspect)
	if cols < 1 {
		cols = 1
	}

	rows = (n + cols - 1) / cols

	return cols, rows
}

// SpectrumPlot draws counts by channel with optional fitted curves (dashed)
// and cut-boundary markers (dotted verticals at the window edges).
func SpectrumPlot(title string, counts []float64, curves []FitCurve, cuts []peakfit.Cut) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "MCA ch."
	p.Y.Label.Text = "Count"

	countsXY := make(plotter.XYs, len(counts))
	for i, c := range counts {
		countsXY[i] = plotter.XY{X: float64(i), Y: c}
	}

	countsLine, err := plotter.NewLine(countsXY)
	if err != nil {
		return nil, fmt.Errorf("plotting: counts line: %w", err)
	}

	p.Add(countsLine)

	for _, cut := range cuts {
		for _, edge := range []int{cut.Lo, cut.Hi - 1} {
			marker, err := verticalLine(float64(edge), cut.PeakValue)
			if err != nil {
				return nil, err
			}

			marker.LineStyle.Dashes = []vg.Length{vg.Points(1), vg.Points(3)}
			p.Add(marker)
		}
	}

	for _, curve := range curves {
		xy := make(plotter.XYs, len(counts))
		for i := range xy {
			x := float64(i)
			xy[i] = plotter.XY{X: x, Y: curve.Model.Eval(x, curve.Beta)}
		}

		line, err := plotter.NewLine(xy)
		if err != nil {
			return nil, fmt.Errorf("plotting: fit curve: %w", err)
		}

		line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(line)

		if curve.Label != "" {
			p.Legend.Add(curve.Label, line)
		}
	}

	return p, nil
}

// SaveFig writes the plot into dir as name.png.
func SaveFig(p *plot.Plot, dir, name string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("plotting: %w", err)
	}

	path := filepath.Join(dir, name+".png")
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("plotting: saving %s: %w", path, err)
	}

	return nil
}

// SaveGrid tiles the plots into a cols-by-rows grid and writes the composite
// figure into dir as name.png. Unused tiles stay blank.
func SaveGrid(plots []*plot.Plot, cols, rows int, dir, name string) error {
	if cols < 1 || rows < 1 || cols*rows < len(plots) {
		return fmt.Errorf("plotting: grid %dx%d cannot hold %d plots", cols, rows, len(plots))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("plotting: %w", err)
	}

	grid := make([][]*plot.Plot, rows)
	for r := range grid {
		grid[r] = make([]*plot.Plot, cols)
		for c := range grid[r] {
			idx := r*cols + c
			if idx < len(plots) {
				grid[r][c] = plots[idx]
			}
		}
	}

	img := vgimg.New(vg.Length(cols)*4*vg.Inch, vg.Length(rows)*3*vg.Inch)
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows: rows,
		Cols: cols,
		PadX: vg.Millimeter,
		PadY: vg.Millimeter,
	}

	canvases := plot.Align(grid, tiles, dc)
	for r := range grid {
		for c := range grid[r] {
			if grid[r][c] != nil {
				grid[r][c].Draw(canvases[r][c])
			}
		}
	}

	path := filepath.Join(dir, name+".png")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("plotting: %w", err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("plotting: writing %s: %w", path, err)
	}

	return nil
}

func verticalLine(x, height float64) (*plotter.Line, error) {
	line, err := plotter.NewLine(plotter.XYs{
		{X: x, Y: 0},
		{X: x, Y: height},
	})
	if err != nil {
		return nil, fmt.Errorf("plotting: cut marker: %w", err)
	}

	return line, nil
}
