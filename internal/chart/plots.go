package chart

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
	"github.com/KaramelBytes/dataloom-cli/internal/utils"
)

func renderHist(t *dataset.Table, opt *Options) (string, error) {
	vals, err := t.NumericColumn(opt.Column)
	if err != nil {
		return "", err
	}
	bins := opt.Bins
	if bins <= 0 {
		bins = 30
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Distribution of %s", opt.Column)
	p.X.Label.Text = opt.Column
	p.Y.Label.Text = "Frequency"

	h, err := plotter.NewHist(plotter.Values(vals), bins)
	if err != nil {
		return "", fmt.Errorf("build histogram: %w", err)
	}
	h.FillColor = plotutil.Color(0)
	p.Add(h)

	return savePlot(p, opt, KindHist, t.Name)
}

func renderBox(t *dataset.Table, opt *Options) (string, error) {
	if _, err := t.NumericColumn(opt.Column); err != nil {
		return "", err
	}
	p := plot.New()
	p.Y.Label.Text = opt.Column

	if opt.By == "" {
		vals, err := t.NumericColumn(opt.Column)
		if err != nil {
			return "", err
		}
		b, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(vals))
		if err != nil {
			return "", fmt.Errorf("build box plot: %w", err)
		}
		p.Add(b)
		p.NominalX(opt.Column)
		p.Title.Text = fmt.Sprintf("Box plot of %s", opt.Column)
		return savePlot(p, opt, KindBox, t.Name)
	}

	groups, order, err := groupNumeric(t, opt.Column, opt.By)
	if err != nil {
		return "", err
	}
	for i, name := range order {
		b, err := plotter.NewBoxPlot(vg.Points(30), float64(i), plotter.Values(groups[name]))
		if err != nil {
			return "", fmt.Errorf("build box plot for group %q: %w", name, err)
		}
		p.Add(b)
	}
	p.NominalX(order...)
	p.X.Label.Text = opt.By
	p.Title.Text = fmt.Sprintf("Box plot of %s by %s", opt.Column, opt.By)
	return savePlot(p, opt, KindBox, t.Name)
}

func renderScatter(t *dataset.Table, opt *Options) (string, error) {
	if _, err := t.NumericColumn(opt.X); err != nil {
		return "", err
	}
	if _, err := t.NumericColumn(opt.Y); err != nil {
		return "", err
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s", opt.X, opt.Y)
	p.X.Label.Text = opt.X
	p.Y.Label.Text = opt.Y

	if opt.Hue == "" {
		pts, err := alignedPairs(t, opt.X, opt.Y)
		if err != nil {
			return "", err
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return "", fmt.Errorf("build scatter: %w", err)
		}
		s.GlyphStyle.Color = plotutil.Color(0)
		s.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(s)
		return savePlot(p, opt, KindScatter, t.Name)
	}

	hueIdx, err := t.ColumnIndex(opt.Hue)
	if err != nil {
		return "", err
	}
	xi, _ := t.ColumnIndex(opt.X)
	yi, _ := t.ColumnIndex(opt.Y)
	byHue := map[string]plotter.XYs{}
	for _, row := range t.Rows {
		if hueIdx >= len(row) || xi >= len(row) || yi >= len(row) {
			continue
		}
		x, okx := dataset.ParseNumber(row[xi])
		y, oky := dataset.ParseNumber(row[yi])
		if !okx || !oky {
			continue
		}
		label := strings.TrimSpace(row[hueIdx])
		if label == "" {
			label = "(missing)"
		}
		byHue[label] = append(byHue[label], plotter.XY{X: x, Y: y})
	}
	labels := make([]string, 0, len(byHue))
	for l := range byHue {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	for i, l := range labels {
		s, err := plotter.NewScatter(byHue[l])
		if err != nil {
			return "", fmt.Errorf("build scatter for %q: %w", l, err)
		}
		s.GlyphStyle.Color = plotutil.Color(i)
		s.GlyphStyle.Shape = plotutil.Shape(i)
		s.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(s)
		p.Legend.Add(l, s)
	}
	p.Legend.Top = true
	return savePlot(p, opt, KindScatter, t.Name)
}

func renderCount(t *dataset.Table, opt *Options) (string, error) {
	cells, err := t.Column(opt.Column)
	if err != nil {
		return "", err
	}
	counts := map[string]int{}
	for _, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		counts[c]++
	}
	if len(counts) == 0 {
		return "", fmt.Errorf("column %q has no values to count", opt.Column)
	}
	type vc struct {
		Value string
		Count int
	}
	ordered := make([]vc, 0, len(counts))
	for v, n := range counts {
		ordered = append(ordered, vc{v, n})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Count == ordered[j].Count {
			return ordered[i].Value < ordered[j].Value
		}
		return ordered[i].Count > ordered[j].Count
	})
	top := opt.TopCategories
	if top <= 0 {
		top = 10
	}
	if len(ordered) > top {
		opt.notice("column %q has %d distinct values; showing the top %d", opt.Column, len(ordered), top)
		ordered = ordered[:top]
	}

	vals := make(plotter.Values, len(ordered))
	labels := make([]string, len(ordered))
	for i, e := range ordered {
		vals[i] = float64(e.Count)
		labels[i] = e.Value
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Value counts of %s", opt.Column)
	p.X.Label.Text = opt.Column
	p.Y.Label.Text = "Count"

	bars, err := plotter.NewBarChart(vals, vg.Points(30))
	if err != nil {
		return "", fmt.Errorf("build bar chart: %w", err)
	}
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	return savePlot(p, opt, KindCount, t.Name)
}

func renderTime(t *dataset.Table, opt *Options) (string, error) {
	if _, err := t.NumericColumn(opt.Column); err != nil {
		return "", err
	}
	di, err := t.ColumnIndex(opt.Date)
	if err != nil {
		return "", err
	}
	vi, _ := t.ColumnIndex(opt.Column)

	type point struct {
		at  time.Time
		val float64
	}
	var series []point
	for _, row := range t.Rows {
		if di >= len(row) || vi >= len(row) {
			continue
		}
		raw := strings.TrimSpace(row[di])
		if raw == "" {
			continue
		}
		at, ok := dataset.ParseTime(raw)
		if !ok {
			return "", fmt.Errorf("column %q cannot be parsed as dates: bad value %q", opt.Date, raw)
		}
		v, ok := dataset.ParseNumber(row[vi])
		if !ok {
			continue
		}
		series = append(series, point{at, v})
	}
	if len(series) == 0 {
		return "", fmt.Errorf("no plottable rows for %s over %s", opt.Column, opt.Date)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].at.Before(series[j].at) })

	if opt.Freq != "" {
		trunc, err := bucketFunc(opt.Freq)
		if err != nil {
			return "", err
		}
		sums := map[time.Time]float64{}
		ns := map[time.Time]int{}
		for _, pt := range series {
			b := trunc(pt.at)
			sums[b] += pt.val
			ns[b]++
		}
		series = series[:0]
		for b, sum := range sums {
			series = append(series, point{b, sum / float64(ns[b])})
		}
		sort.Slice(series, func(i, j int) bool { return series[i].at.Before(series[j].at) })
	}

	xys := make(plotter.XYs, len(series))
	for i, pt := range series {
		xys[i] = plotter.XY{X: float64(pt.at.Unix()), Y: pt.val}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s over time", opt.Column)
	p.X.Label.Text = opt.Date
	p.Y.Label.Text = opt.Column
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Add(plotter.NewGrid())

	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return "", fmt.Errorf("build line chart: %w", err)
	}
	line.Color = plotutil.Color(0)
	points.GlyphStyle.Color = plotutil.Color(0)
	points.GlyphStyle.Radius = vg.Points(2)
	p.Add(line, points)
	return savePlot(p, opt, KindTime, t.Name)
}

// bucketFunc maps a resample frequency flag to a date-truncation function.
func bucketFunc(freq string) (func(time.Time) time.Time, error) {
	switch strings.ToUpper(strings.TrimSpace(freq)) {
	case "D":
		return func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		}, nil
	case "W":
		// weekly buckets are labeled by the Sunday that ends the week
		return func(t time.Time) time.Time {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
			offset := (7 - int(d.Weekday())) % 7
			return d.AddDate(0, 0, offset)
		}, nil
	case "M":
		return func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		}, nil
	}
	return nil, fmt.Errorf("unsupported --freq %q (use D|W|M)", freq)
}

func groupNumeric(t *dataset.Table, valueCol, byCol string) (map[string][]float64, []string, error) {
	bi, err := t.ColumnIndex(byCol)
	if err != nil {
		return nil, nil, err
	}
	vi, err := t.ColumnIndex(valueCol)
	if err != nil {
		return nil, nil, err
	}
	groups := map[string][]float64{}
	for _, row := range t.Rows {
		if bi >= len(row) || vi >= len(row) {
			continue
		}
		v, ok := dataset.ParseNumber(row[vi])
		if !ok {
			continue
		}
		label := strings.TrimSpace(row[bi])
		if label == "" {
			label = "(missing)"
		}
		groups[label] = append(groups[label], v)
	}
	order := make([]string, 0, len(groups))
	for k := range groups {
		order = append(order, k)
	}
	sort.Strings(order)
	return groups, order, nil
}

func savePlot(p *plot.Plot, opt *Options, kind Kind, datasetName string) (string, error) {
	out := opt.outputPath(kind, datasetName)
	if dir := filepath.Dir(out); dir != "." {
		if err := utils.EnsureDir(dir); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
	}
	w := vg.Length(opt.Width) * vg.Inch
	h := vg.Length(opt.Height) * vg.Inch
	if err := p.Save(w, h, out); err != nil {
		return "", fmt.Errorf("save chart: %w", err)
	}
	return out, nil
}
