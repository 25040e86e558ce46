package chart

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/KaramelBytes/dataloom-cli/internal/analysis"
	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
	"github.com/KaramelBytes/dataloom-cli/internal/utils"
)

// corrGrid adapts a correlation matrix to plotter.GridXYZ.
type corrGrid struct {
	names []string
	mat   [][]float64
}

func (g corrGrid) Dims() (c, r int)   { return len(g.names), len(g.names) }
func (g corrGrid) Z(c, r int) float64 { return g.mat[r][c] }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

func renderCorr(t *dataset.Table, opt *Options) (string, error) {
	names, mat := analysis.CorrMatrix(t)
	if mat == nil {
		return "", fmt.Errorf("%w: fewer than 2 numeric columns for a correlation heat map", ErrNothingToPlot)
	}

	p := plot.New()
	p.Title.Text = "Correlation heat map"

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	hm := plotter.NewHeatMap(corrGrid{names: names, mat: mat}, cm.Palette(255))
	hm.Min = -1
	hm.Max = 1
	p.Add(hm)

	ticks := make([]plot.Tick, len(names))
	for i, n := range names {
		ticks[i] = plot.Tick{Value: float64(i), Label: n}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return savePlot(p, opt, KindCorr, t.Name)
}

func renderPair(t *dataset.Table, opt *Options) (string, error) {
	cols := opt.Columns
	if len(cols) == 0 {
		cols = t.NumericColumns()
		if len(cols) < 2 {
			return "", fmt.Errorf("%w: fewer than 2 numeric columns for a pair plot", ErrNothingToPlot)
		}
	} else {
		for _, c := range cols {
			if _, err := t.NumericColumn(c); err != nil {
				return "", err
			}
		}
		if len(cols) < 2 {
			return "", fmt.Errorf("pair requires at least 2 columns, got %d", len(cols))
		}
	}
	if opt.Hue != "" {
		opt.notice("--hue is not supported for pair charts; ignoring")
	}

	out := opt.outputPath(KindPair, t.Name)
	if ext := strings.ToLower(filepath.Ext(out)); ext != ".png" {
		return "", fmt.Errorf("pair charts only support .png output, got %q", ext)
	}

	n := len(cols)
	plots := make([][]*plot.Plot, n)
	for i := 0; i < n; i++ {
		plots[i] = make([]*plot.Plot, n)
		for j := 0; j < n; j++ {
			p := plot.New()
			if i == j {
				vals, err := t.NumericColumn(cols[i])
				if err != nil {
					return "", err
				}
				h, err := plotter.NewHist(plotter.Values(vals), 20)
				if err != nil {
					return "", fmt.Errorf("build histogram for %q: %w", cols[i], err)
				}
				h.FillColor = plotutil.Color(0)
				p.Add(h)
			} else {
				pts, err := alignedPairs(t, cols[j], cols[i])
				if err != nil {
					return "", err
				}
				s, err := plotter.NewScatter(pts)
				if err != nil {
					return "", fmt.Errorf("build scatter %q vs %q: %w", cols[j], cols[i], err)
				}
				s.GlyphStyle.Color = plotutil.Color(0)
				s.GlyphStyle.Radius = vg.Points(1.5)
				p.Add(s)
			}
			if i == n-1 {
				p.X.Label.Text = cols[j]
			}
			if j == 0 {
				p.Y.Label.Text = cols[i]
			}
			plots[i][j] = p
		}
	}

	const cell = 2.5 * vg.Inch
	img := vgimg.New(vg.Length(n)*cell, vg.Length(n)*cell)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: n, Cols: n,
		PadX: vg.Millimeter, PadY: vg.Millimeter,
		PadTop: vg.Millimeter, PadBottom: vg.Millimeter,
		PadLeft: vg.Millimeter, PadRight: vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			plots[i][j].Draw(canvases[i][j])
		}
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := utils.EnsureDir(dir); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("create output: %w", err)
	}
	defer f.Close()
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return "", fmt.Errorf("write pair plot: %w", err)
	}
	return out, nil
}
