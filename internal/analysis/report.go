package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
)

// Options controls analysis behavior for tabular data.
type Options struct {
	// HeadRows determines how many leading rows to include in the report.
	HeadRows int
	// MaxRows limits rows processed; 0 means unlimited.
	MaxRows int
	// CorrThreshold is the minimum |r| for a correlation pair to be reported.
	CorrThreshold float64
	// DuplicateExamples caps the example duplicate rows included.
	DuplicateExamples int
}

// DefaultOptions returns reasonable defaults for dataset analysis.
func DefaultOptions() Options {
	return Options{
		HeadRows:          5,
		MaxRows:           100000,
		CorrThreshold:     0.7,
		DuplicateExamples: 5,
	}
}

// Report is a renderable summary of one tabular dataset.
type Report struct {
	Name      string
	Rows      int
	Processed int
	Columns   []string
	Head      [][]string
	Kinds     []dataset.Kind
	Missing   []int
	Numeric   []NumericSummary
	Category  []CategorySummary
	DupCount  int
	DupRows   [][]string
	Corr      []PairCorr
	CorrNote  string
	Warnings  []string
}

// NumericSummary mirrors a describe() row for one numeric column.
type NumericSummary struct {
	Name  string
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// CategorySummary captures count/unique/top/freq for one categorical column.
type CategorySummary struct {
	Name   string
	Count  int
	Unique int
	Top    string
	Freq   int
}

// PairCorr is a Pearson correlation pair above the report threshold.
type PairCorr struct {
	A, B string
	R    float64
}

// Analyze computes a Report for the table.
func Analyze(t *dataset.Table, opt Options) (*Report, error) {
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("dataset %q has no columns", t.Name)
	}
	rep := &Report{Name: t.Name, Rows: t.NumRows(), Columns: t.Columns}

	rows := t.Rows
	rep.Processed = len(rows)
	if opt.MaxRows > 0 && len(rows) > opt.MaxRows {
		rows = rows[:opt.MaxRows]
		rep.Processed = opt.MaxRows
		rep.Warnings = append(rep.Warnings,
			fmt.Sprintf("processed only %d/%d rows due to max-rows", rep.Processed, rep.Rows))
	}
	work := &dataset.Table{Name: t.Name, Columns: t.Columns, Rows: rows}

	head := opt.HeadRows
	if head <= 0 {
		head = 5
	}
	if head > len(rows) {
		head = len(rows)
	}
	rep.Head = rows[:head]

	rep.Kinds = work.Kinds()
	rep.Missing = missingCounts(work)

	for i, c := range work.Columns {
		switch rep.Kinds[i] {
		case dataset.KindNumeric:
			vals, err := work.NumericColumn(c)
			if err != nil || len(vals) == 0 {
				continue
			}
			ns, err := describeNumeric(c, vals)
			if err != nil {
				return nil, fmt.Errorf("describe %q: %w", c, err)
			}
			rep.Numeric = append(rep.Numeric, ns)
		case dataset.KindCategorical, dataset.KindText:
			cells, err := work.Column(c)
			if err != nil {
				continue
			}
			rep.Category = append(rep.Category, describeCategory(c, cells))
		}
	}

	rep.DupCount, rep.DupRows = duplicates(rows, opt.DuplicateExamples)

	pairs, note := correlations(work, opt.CorrThreshold)
	rep.Corr = pairs
	rep.CorrNote = note
	return rep, nil
}

func missingCounts(t *dataset.Table) []int {
	out := make([]int, len(t.Columns))
	for _, row := range t.Rows {
		for i := range t.Columns {
			if i >= len(row) || strings.TrimSpace(row[i]) == "" {
				out[i]++
			}
		}
	}
	return out
}

func describeNumeric(name string, vals []float64) (NumericSummary, error) {
	ns := NumericSummary{Name: name, Count: len(vals)}
	ns.Mean = stat.Mean(vals, nil)
	if len(vals) > 1 {
		ns.Std = stat.StdDev(vals, nil)
	}
	var err error
	if ns.Min, err = stats.Min(vals); err != nil {
		return ns, err
	}
	if ns.Max, err = stats.Max(vals); err != nil {
		return ns, err
	}
	if ns.Q50, err = stats.Median(vals); err != nil {
		return ns, err
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	ns.Q25 = quantile(sorted, 0.25)
	ns.Q75 = quantile(sorted, 0.75)
	return ns, nil
}

// quantile interpolates linearly between order statistics, so it is defined
// for any sample size. stats.Percentile cannot be used here: it rejects the
// 25th percentile of samples smaller than four values.
func quantile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (pos-float64(lo))*(sorted[hi]-sorted[lo])
}

func describeCategory(name string, cells []string) CategorySummary {
	cs := CategorySummary{Name: name}
	counts := map[string]int{}
	for _, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		cs.Count++
		counts[c]++
	}
	cs.Unique = len(counts)
	for v, n := range counts {
		if n > cs.Freq || (n == cs.Freq && v < cs.Top) {
			cs.Top = v
			cs.Freq = n
		}
	}
	return cs
}

// duplicates counts rows identical to an earlier row and collects up to
// maxExamples of the later occurrences.
func duplicates(rows [][]string, maxExamples int) (int, [][]string) {
	seen := map[string]bool{}
	count := 0
	var examples [][]string
	for _, row := range rows {
		key := strings.Join(row, "\x1f")
		if seen[key] {
			count++
			if len(examples) < maxExamples {
				examples = append(examples, row)
			}
			continue
		}
		seen[key] = true
	}
	return count, examples
}

// CorrMatrix computes the full Pearson correlation matrix across numeric
// columns, row-aligned so that a row contributes to a pair only when both
// cells parse. Pairs without enough aligned rows get r=0.
func CorrMatrix(t *dataset.Table) ([]string, [][]float64) {
	numeric := t.NumericColumns()
	if len(numeric) < 2 {
		return numeric, nil
	}
	idx := make([]int, len(numeric))
	for i, c := range numeric {
		idx[i], _ = t.ColumnIndex(c)
	}
	n := len(numeric)
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
		mat[i][i] = 1
	}
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			var xs, ys []float64
			for _, row := range t.Rows {
				ia, ib := idx[a], idx[b]
				if ia >= len(row) || ib >= len(row) {
					continue
				}
				x, okx := dataset.ParseNumber(row[ia])
				y, oky := dataset.ParseNumber(row[ib])
				if okx && oky {
					xs = append(xs, x)
					ys = append(ys, y)
				}
			}
			if len(xs) < 2 {
				continue
			}
			r := stat.Correlation(xs, ys, nil)
			switch {
			case math.IsNaN(r) || math.IsInf(r, 0):
				r = 0
			case r > 1:
				r = 1
			case r < -1:
				r = -1
			}
			mat[a][b] = r
			mat[b][a] = r
		}
	}
	return numeric, mat
}

// correlations reports the matrix pairs at or above the threshold.
func correlations(t *dataset.Table, threshold float64) ([]PairCorr, string) {
	numeric, mat := CorrMatrix(t)
	if mat == nil {
		return nil, "fewer than 2 numeric columns; correlation analysis skipped"
	}
	var pairs []PairCorr
	for a := 0; a < len(numeric); a++ {
		for b := a + 1; b < len(numeric); b++ {
			if abs(mat[a][b]) >= threshold {
				pairs = append(pairs, PairCorr{A: numeric[a], B: numeric[b], R: mat[a][b]})
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		ai, aj := abs(pairs[i].R), abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	return pairs, ""
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
