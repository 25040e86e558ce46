package chart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/plot/plotter"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
	"github.com/KaramelBytes/dataloom-cli/internal/utils"
)

// Kind selects a chart type.
type Kind string

const (
	KindHist    Kind = "hist"
	KindBox     Kind = "box"
	KindScatter Kind = "scatter"
	KindCorr    Kind = "corr"
	KindPair    Kind = "pair"
	KindCount   Kind = "count"
	KindTime    Kind = "time"
)

// ErrNothingToPlot indicates the dataset cannot support the requested chart
// (e.g. fewer than 2 numeric columns for corr/pair). Callers treat it as a
// notice, not a failure.
var ErrNothingToPlot = errors.New("nothing to plot")

// ParseKind validates a --type flag value.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindHist, KindBox, KindScatter, KindCorr, KindPair, KindCount, KindTime:
		return k, nil
	}
	return "", fmt.Errorf("unsupported chart type %q (use hist|box|scatter|corr|pair|count|time)", s)
}

// Options carries per-chart parameters.
type Options struct {
	Column  string   // hist, box, count, time (value column)
	Columns []string // pair: explicit column list
	X, Y    string   // scatter axes
	By      string   // box: grouping column
	Hue     string   // scatter/pair: color column
	Date    string   // time: date column
	Freq    string   // time: resample frequency (D|W|M)
	Bins    int      // hist
	// Canvas size in inches.
	Width, Height float64
	// Output image path; extension selects the format. Empty generates
	// <kind>-<uuid>.png in the working directory.
	Output string
	// TopCategories caps bars for count charts.
	TopCategories int
	// Notices collects non-fatal remarks emitted while rendering.
	Notices []string
}

func (o *Options) notice(format string, args ...any) {
	o.Notices = append(o.Notices, fmt.Sprintf(format, args...))
}

// outputPath resolves the image path, generating a unique name from the
// dataset when --output was not given.
func (o *Options) outputPath(kind Kind, datasetName string) string {
	if o.Output != "" {
		return o.Output
	}
	base := utils.BaseNoExt(datasetName)
	if base == "" {
		base = "chart"
	}
	return fmt.Sprintf("%s-%s-%s.png", kind, base, uuid.NewString()[:8])
}

// Render draws the requested chart and returns the written image path.
func Render(t *dataset.Table, kind Kind, opt *Options) (string, error) {
	if opt.Width <= 0 {
		opt.Width = 10
	}
	if opt.Height <= 0 {
		opt.Height = 6
	}
	switch kind {
	case KindHist:
		if opt.Column == "" {
			return "", errors.New("hist requires --column")
		}
		return renderHist(t, opt)
	case KindBox:
		if opt.Column == "" {
			return "", errors.New("box requires --column")
		}
		return renderBox(t, opt)
	case KindScatter:
		if opt.X == "" || opt.Y == "" {
			return "", errors.New("scatter requires --x and --y")
		}
		return renderScatter(t, opt)
	case KindCorr:
		return renderCorr(t, opt)
	case KindPair:
		return renderPair(t, opt)
	case KindCount:
		if opt.Column == "" {
			return "", errors.New("count requires --column")
		}
		return renderCount(t, opt)
	case KindTime:
		if opt.Date == "" || opt.Column == "" {
			return "", errors.New("time requires --date and --column")
		}
		return renderTime(t, opt)
	}
	return "", fmt.Errorf("unsupported chart type %q", kind)
}

// alignedPairs extracts row-aligned (x, y) points, keeping a row only when
// both cells parse as numbers.
func alignedPairs(t *dataset.Table, xcol, ycol string) (plotter.XYs, error) {
	xi, err := t.ColumnIndex(xcol)
	if err != nil {
		return nil, err
	}
	yi, err := t.ColumnIndex(ycol)
	if err != nil {
		return nil, err
	}
	var pts plotter.XYs
	for _, row := range t.Rows {
		if xi >= len(row) || yi >= len(row) {
			continue
		}
		x, okx := dataset.ParseNumber(row[xi])
		y, oky := dataset.ParseNumber(row[yi])
		if okx && oky {
			pts = append(pts, plotter.XY{X: x, Y: y})
		}
	}
	return pts, nil
}
