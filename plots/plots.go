// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plots renders diagnostic figures for fitted CCA models:
// score covariance heatmaps, paired score scatter grids, and
// grid-search score surfaces. Figures are written to image files by
// extension (png, svg, pdf and the other formats plot.Save knows).
package plots

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"cogentcore.org/cca/base/errors"
	"cogentcore.org/cca/models"
	"cogentcore.org/cca/modelsel"
)

var (
	trainColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	testColor  = color.RGBA{R: 255, G: 127, B: 14, A: 160}
)

// matrixGrid adapts a matrix to plotter.GridXYZ for heatmaps, with
// the first row drawn at the top.
type matrixGrid struct{ m mat.Matrix }

func (g matrixGrid) Dims() (c, r int) {
	r, c = g.m.Dims()
	return c, r
}

func (g matrixGrid) Z(c, r int) float64 {
	rows, _ := g.m.Dims()
	return g.m.At(rows-1-r, c)
}

func (g matrixGrid) X(c int) float64 { return float64(c) }
func (g matrixGrid) Y(r int) float64 { return float64(r) }

// stackScores concatenates the per-view score matrices horizontally,
// giving one column per (view, latent dimension).
func stackScores(zs []*mat.Dense) *mat.Dense {
	n, _ := zs[0].Dims()
	tot := 0
	for _, z := range zs {
		_, k := z.Dims()
		tot += k
	}
	out := mat.NewDense(n, tot, nil)
	at := 0
	for _, z := range zs {
		_, k := z.Dims()
		out.Slice(0, n, at, at+k).(*mat.Dense).Copy(z)
		at += k
	}
	return out
}

// correlationMatrix returns the column correlation matrix of x.
func correlationMatrix(x *mat.Dense) *mat.SymDense {
	n, p := x.Dims()
	out := mat.NewSymDense(p, nil)
	ci := make([]float64, n)
	cj := make([]float64, n)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			mat.Col(ci, i, x)
			mat.Col(cj, j, x)
			out.SetSym(i, j, stat.Correlation(ci, cj, nil))
		}
	}
	return out
}

func heatmapPlot(title string, m mat.Matrix) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	pal := moreland.SmoothBlueRed().Palette(255)
	hm := plotter.NewHeatMap(matrixGrid{m}, pal)
	hm.Min, hm.Max = -1, 1
	p.Add(hm)
	p.X.Label.Text = "score column"
	p.Y.Label.Text = "score column"
	return p, nil
}

// CovarianceHeatmap writes side-by-side heatmaps of the score
// correlation matrices of the transformed train and test views. The
// output is a PNG regardless of extension, as the tiled canvas is
// raster-only.
func CovarianceHeatmap(m models.Model, train, test []*mat.Dense, path string) error {
	ztr, err := m.Transform(train...)
	if err != nil {
		return fmt.Errorf("plots: transforming train views: %w", err)
	}
	zte, err := m.Transform(test...)
	if err != nil {
		return fmt.Errorf("plots: transforming test views: %w", err)
	}
	return ScoreHeatmap(ztr, zte, path)
}

// ScoreHeatmap is [CovarianceHeatmap] on already-transformed scores.
// A nil test renders the train heatmap alone.
func ScoreHeatmap(ztr, zte []*mat.Dense, path string) error {
	if len(ztr) == 0 {
		return fmt.Errorf("plots: no score matrices")
	}
	ptr, err := heatmapPlot("Train", correlationMatrix(stackScores(ztr)))
	if err != nil {
		return err
	}
	if zte == nil {
		if err := ptr.Save(5*vg.Inch, 5*vg.Inch, path); err != nil {
			return fmt.Errorf("plots: saving %s: %w", path, err)
		}
		return nil
	}
	pte, err := heatmapPlot("Test", correlationMatrix(stackScores(zte)))
	if err != nil {
		return err
	}
	return savePair(ptr, pte, path)
}

// savePair writes two plots side by side on one raster canvas.
func savePair(left, right *plot.Plot, path string) error {
	const w, h = 10 * vg.Inch, 5 * vg.Inch
	img := vgimg.New(w, h)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: 1, Cols: 2, PadX: vg.Millimeter * 4}
	canvases := plot.Align([][]*plot.Plot{{left, right}}, tiles, dc)
	left.Draw(canvases[0][0])
	right.Draw(canvases[0][1])
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("plots: %w", err)
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("plots: writing %s: %w", path, err)
	}
	return errors.Log(f.Close())
}

// PairPlot writes a grid of scatter plots of paired canonical scores:
// one row per latent dimension, one column per view pair, with the
// test scores overlaid on the train scores.
func PairPlot(m models.Model, train, test []*mat.Dense, path string) error {
	ztr, err := m.Transform(train...)
	if err != nil {
		return fmt.Errorf("plots: transforming train views: %w", err)
	}
	zte, err := m.Transform(test...)
	if err != nil {
		return fmt.Errorf("plots: transforming test views: %w", err)
	}
	return ScorePairPlot(ztr, zte, path)
}

// ScorePairPlot is [PairPlot] on already-transformed scores. A nil
// test renders the train scores alone.
func ScorePairPlot(ztr, zte []*mat.Dense, path string) error {
	if len(ztr) == 0 {
		return fmt.Errorf("plots: no score matrices")
	}
	nv := len(ztr)
	_, k := ztr[0].Dims()
	type pair struct{ i, j int }
	pairs := []pair{}
	for i := 0; i < nv; i++ {
		for j := i + 1; j < nv; j++ {
			pairs = append(pairs, pair{i, j})
		}
	}
	if len(pairs) == 0 {
		return fmt.Errorf("plots: need at least two views for a pair plot")
	}
	grid := make([][]*plot.Plot, k)
	for d := 0; d < k; d++ {
		grid[d] = make([]*plot.Plot, len(pairs))
		for pi, pr := range pairs {
			p := plot.New()
			p.Title.Text = fmt.Sprintf("views %d-%d, dim %d", pr.i, pr.j, d)
			p.X.Label.Text = fmt.Sprintf("view %d", pr.i)
			p.Y.Label.Text = fmt.Sprintf("view %d", pr.j)
			str, err := scatterDim(ztr[pr.i], ztr[pr.j], d, trainColor)
			if err != nil {
				return err
			}
			p.Add(str)
			p.Legend.Add("train", str)
			if zte != nil {
				ste, err := scatterDim(zte[pr.i], zte[pr.j], d, testColor)
				if err != nil {
					return err
				}
				p.Add(ste)
				p.Legend.Add("test", ste)
			}
			p.Legend.Top = true
			grid[d][pi] = p
		}
	}
	return saveGrid(grid, path)
}

func scatterDim(zx, zy *mat.Dense, d int, col color.Color) (*plotter.Scatter, error) {
	n, _ := zx.Dims()
	pts := make(plotter.XYs, n)
	for r := 0; r < n; r++ {
		pts[r].X = zx.At(r, d)
		pts[r].Y = zy.At(r, d)
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("plots: %w", err)
	}
	sc.GlyphStyle.Color = col
	sc.GlyphStyle.Radius = vg.Points(1.5)
	return sc, nil
}

// saveGrid writes a rows x cols grid of plots to one raster canvas.
func saveGrid(grid [][]*plot.Plot, path string) error {
	rows := len(grid)
	cols := len(grid[0])
	img := vgimg.New(vg.Inch*vg.Length(4*cols), vg.Inch*vg.Length(4*rows))
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: rows, Cols: cols, PadX: vg.Millimeter * 3, PadY: vg.Millimeter * 3}
	canvases := plot.Align(grid, tiles, dc)
	for r := range grid {
		for c := range grid[r] {
			grid[r][c].Draw(canvases[r][c])
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("plots: %w", err)
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("plots: writing %s: %w", path, err)
	}
	return errors.Log(f.Close())
}

// CVSurface writes the grid-search score surface: a line with error
// bars over one hyperparameter, or a heatmap over two. The candidates
// must come from a [modelsel.GridSearch] run over the named
// parameters.
func CVSurface(results []modelsel.Candidate, params []string, path string) error {
	if len(results) == 0 {
		return fmt.Errorf("plots: no grid search results")
	}
	switch len(params) {
	case 1:
		return cvLine(results, params[0], path)
	case 2:
		return cvHeatmap(results, params[0], params[1], path)
	default:
		return fmt.Errorf("plots: CVSurface supports 1 or 2 parameters, got %d", len(params))
	}
}

func cvLine(results []modelsel.Candidate, param string, path string) error {
	pts := make(plotter.XYs, 0, len(results))
	errs := make(plotter.YErrors, 0, len(results))
	for _, c := range results {
		v, ok := c.Params[param]
		if !ok {
			return fmt.Errorf("plots: parameter %q missing from grid results", param)
		}
		pts = append(pts, plotter.XY{X: v, Y: c.Result.Mean})
		errs = append(errs, struct{ Low, High float64 }{c.Result.Std, c.Result.Std})
	}
	sortXYs(pts, errs)

	p := plot.New()
	p.Title.Text = "cross-validated score"
	p.X.Label.Text = param
	p.Y.Label.Text = "mean score"
	line, scatter, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("plots: %w", err)
	}
	line.Color = trainColor
	scatter.GlyphStyle.Color = trainColor
	bars, err := plotter.NewYErrorBars(struct {
		plotter.XYer
		plotter.YErrorer
	}{pts, errs})
	if err != nil {
		return fmt.Errorf("plots: %w", err)
	}
	p.Add(line, scatter, bars)
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("plots: saving %s: %w", path, err)
	}
	return nil
}

func sortXYs(pts plotter.XYs, errs plotter.YErrors) {
	for i := 1; i < len(pts); i++ {
		for j := i; j > 0 && pts[j-1].X > pts[j].X; j-- {
			pts[j-1], pts[j] = pts[j], pts[j-1]
			errs[j-1], errs[j] = errs[j], errs[j-1]
		}
	}
}

// cvGrid adapts grid-search results over two parameters to
// plotter.GridXYZ.
type cvGrid struct {
	xs, ys []float64
	z      *mat.Dense
}

func (g cvGrid) Dims() (c, r int)   { return len(g.xs), len(g.ys) }
func (g cvGrid) Z(c, r int) float64 { return g.z.At(r, c) }
func (g cvGrid) X(c int) float64    { return g.xs[c] }
func (g cvGrid) Y(r int) float64    { return g.ys[r] }

func cvHeatmap(results []modelsel.Candidate, px, py string, path string) error {
	xs := uniqueSorted(results, px)
	ys := uniqueSorted(results, py)
	if xs == nil || ys == nil {
		return fmt.Errorf("plots: parameters %q, %q missing from grid results", px, py)
	}
	z := mat.NewDense(len(ys), len(xs), nil)
	for _, c := range results {
		xi := indexOf(xs, c.Params[px])
		yi := indexOf(ys, c.Params[py])
		z.Set(yi, xi, c.Result.Mean)
	}
	p := plot.New()
	p.Title.Text = "cross-validated score"
	p.X.Label.Text = px
	p.Y.Label.Text = py
	pal := moreland.ExtendedBlackBody().Palette(255)
	p.Add(plotter.NewHeatMap(cvGrid{xs: xs, ys: ys, z: z}, pal))
	if err := p.Save(6*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("plots: saving %s: %w", path, err)
	}
	return nil
}

func uniqueSorted(results []modelsel.Candidate, param string) []float64 {
	seen := map[float64]bool{}
	out := []float64{}
	for _, c := range results {
		v, ok := c.Params[param]
		if !ok {
			return nil
		}
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func indexOf(vals []float64, v float64) int {
	for i, x := range vals {
		if x == v {
			return i
		}
	}
	return 0
}
