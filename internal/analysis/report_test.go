package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
)

func sampleTable() *dataset.Table {
	return &dataset.Table{
		Name:    "sample.csv",
		Columns: []string{"x", "y", "color", "note"},
		Rows: [][]string{
			{"1", "2", "red", "first"},
			{"2", "4", "blue", "second"},
			{"3", "6", "red", ""},
			{"4", "8", "red", "fourth"},
			{"2", "4", "blue", "second"}, // duplicate of row 2
		},
	}
}

func TestAnalyzeNumericSummary(t *testing.T) {
	rep, err := Analyze(sampleTable(), DefaultOptions())
	require.NoError(t, err)

	require.Len(t, rep.Numeric, 2)
	x := rep.Numeric[0]
	assert.Equal(t, "x", x.Name)
	assert.Equal(t, 5, x.Count)
	assert.InDelta(t, 2.4, x.Mean, 1e-9)
	assert.InDelta(t, 1.0, x.Min, 1e-9)
	assert.InDelta(t, 4.0, x.Max, 1e-9)
	assert.InDelta(t, 2.0, x.Q50, 1e-9)
	assert.InDelta(t, 2.0, x.Q25, 1e-9)
	assert.InDelta(t, 3.0, x.Q75, 1e-9)
}

func TestAnalyzeTwoRowDataset(t *testing.T) {
	tab := &dataset.Table{
		Name:    "tiny.csv",
		Columns: []string{"v", "label"},
		Rows:    [][]string{{"1", "a"}, {"2", "b"}},
	}
	rep, err := Analyze(tab, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, rep.Numeric, 1)
	v := rep.Numeric[0]
	assert.Equal(t, 2, v.Count)
	assert.InDelta(t, 1.0, v.Min, 1e-9)
	assert.InDelta(t, 1.25, v.Q25, 1e-9)
	assert.InDelta(t, 1.5, v.Q50, 1e-9)
	assert.InDelta(t, 1.75, v.Q75, 1e-9)
	assert.InDelta(t, 2.0, v.Max, 1e-9)
	assert.Contains(t, rep.Render(), "=== Numeric summary ===")
}

func TestAnalyzeOneRowDataset(t *testing.T) {
	tab := &dataset.Table{
		Name:    "single.csv",
		Columns: []string{"v"},
		Rows:    [][]string{{"7"}},
	}
	rep, err := Analyze(tab, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, rep.Numeric, 1)
	v := rep.Numeric[0]
	assert.Equal(t, 1, v.Count)
	assert.InDelta(t, 0.0, v.Std, 1e-9)
	for _, q := range []float64{v.Min, v.Q25, v.Q50, v.Q75, v.Max} {
		assert.InDelta(t, 7.0, q, 1e-9)
	}
	assert.Contains(t, rep.Render(), "=== Numeric summary ===")
}

func TestQuantileInterpolation(t *testing.T) {
	tests := []struct {
		sorted []float64
		p      float64
		want   float64
	}{
		{[]float64{5}, 0.25, 5},
		{[]float64{1, 2}, 0.25, 1.25},
		{[]float64{1, 2}, 0.75, 1.75},
		{[]float64{1, 2, 3}, 0.5, 2},
		{[]float64{1, 2, 3, 4}, 0.25, 1.75},
		{[]float64{0, 10}, 0, 0},
		{[]float64{0, 10}, 1, 10},
	}
	for _, tc := range tests {
		assert.InDelta(t, tc.want, quantile(tc.sorted, tc.p), 1e-9)
	}
}

func TestAnalyzeMissingAndKinds(t *testing.T) {
	rep, err := Analyze(sampleTable(), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 0, 1}, rep.Missing)
	assert.Equal(t, dataset.KindNumeric, rep.Kinds[0])
	assert.Equal(t, dataset.KindCategorical, rep.Kinds[2])
}

func TestAnalyzeDuplicates(t *testing.T) {
	rep, err := Analyze(sampleTable(), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, rep.DupCount)
	require.Len(t, rep.DupRows, 1)
	assert.Equal(t, []string{"2", "4", "blue", "second"}, rep.DupRows[0])
}

func TestAnalyzeCorrelations(t *testing.T) {
	rep, err := Analyze(sampleTable(), DefaultOptions())
	require.NoError(t, err)

	// y = 2x, so the pair must be reported with r = 1
	require.Len(t, rep.Corr, 1)
	assert.Equal(t, "x", rep.Corr[0].A)
	assert.Equal(t, "y", rep.Corr[0].B)
	assert.InDelta(t, 1.0, rep.Corr[0].R, 1e-9)
}

func TestAnalyzeCorrelationsSkippedNote(t *testing.T) {
	tab := &dataset.Table{
		Name:    "one.csv",
		Columns: []string{"x", "color"},
		Rows:    [][]string{{"1", "red"}, {"2", "blue"}},
	}
	rep, err := Analyze(tab, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, rep.Corr)
	assert.Contains(t, rep.CorrNote, "fewer than 2 numeric columns")
}

func TestAnalyzeMaxRows(t *testing.T) {
	opt := DefaultOptions()
	opt.MaxRows = 3
	rep, err := Analyze(sampleTable(), opt)
	require.NoError(t, err)

	assert.Equal(t, 5, rep.Rows)
	assert.Equal(t, 3, rep.Processed)
	require.Len(t, rep.Warnings, 1)
	assert.Contains(t, rep.Warnings[0], "processed only 3/5 rows")
	// the duplicate row sits past the cap
	assert.Equal(t, 0, rep.DupCount)
}

func TestAnalyzeEmptyColumns(t *testing.T) {
	_, err := Analyze(&dataset.Table{Name: "empty.csv"}, DefaultOptions())
	require.Error(t, err)
}

func TestCorrMatrix(t *testing.T) {
	names, mat := CorrMatrix(sampleTable())
	require.Equal(t, []string{"x", "y"}, names)
	require.Len(t, mat, 2)
	assert.InDelta(t, 1.0, mat[0][0], 1e-9)
	assert.InDelta(t, 1.0, mat[0][1], 1e-9)
	assert.InDelta(t, mat[0][1], mat[1][0], 1e-12)
}

func TestRenderSections(t *testing.T) {
	rep, err := Analyze(sampleTable(), DefaultOptions())
	require.NoError(t, err)
	out := rep.Render()

	for _, section := range []string{
		"=== Head (first 5 rows) ===",
		"=== Basic info ===",
		"=== Column kinds ===",
		"=== Missing values ===",
		"=== Numeric summary ===",
		"=== Categorical summary ===",
		"=== Duplicate rows: 1 ===",
		"=== Correlations ===",
	} {
		assert.Contains(t, out, section)
	}
	assert.Contains(t, out, "File: sample.csv")
	assert.Contains(t, out, "Rows: 5")
	assert.Contains(t, out, "x ~ y: r=1.0000")
}

func TestRenderEscapesCells(t *testing.T) {
	tab := &dataset.Table{
		Name:    "tricky.csv",
		Columns: []string{"a"},
		Rows:    [][]string{{"line1\nline2|pipe"}},
	}
	rep, err := Analyze(tab, DefaultOptions())
	require.NoError(t, err)
	out := rep.Render()
	assert.False(t, strings.Contains(out, "line1\nline2"), "newlines must not break the table")
}
