package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Table is one tabular dataset held in memory for the duration of a run.
// Cells are kept as raw strings; typed views are derived on demand.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Kind classifies a column by its predominant parsed type.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindDatetime    Kind = "datetime"
	KindCategorical Kind = "categorical"
	KindText        Kind = "text"
	KindUnknown     Kind = "unknown"
)

// Options controls format-specific loading behavior.
type Options struct {
	// Delimiter for CSV. If 0, inferred from the file extension.
	Delimiter rune
	// SheetName selects an XLSX sheet by name. Takes precedence over SheetIndex.
	SheetName string
	// SheetIndex is a 1-based XLSX sheet index; 0 or 1 means the first sheet.
	SheetIndex int
}

// Loader loads one file format into a Table.
type Loader interface {
	CanLoad(filename string) bool
	Load(path string, opt Options) (*Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
	Register(jsonLoader{})
}

// Load selects a loader by filename and reads the file into a Table.
func Load(path string, opt Options) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	for _, l := range registry {
		if l.CanLoad(path) {
			t, err := l.Load(path, opt)
			if err != nil {
				return nil, err
			}
			t.Name = filepath.Base(path)
			return t, nil
		}
	}
	return nil, fmt.Errorf("unsupported file format: %s", strings.ToLower(filepath.Ext(path)))
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.Rows) }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.Columns) }

// ColumnIndex resolves a column name (case-insensitive) to its index.
func (t *Table) ColumnIndex(name string) (int, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, c := range t.Columns {
		if strings.ToLower(strings.TrimSpace(c)) == want {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column %q does not exist in the dataset", name)
}

// Column returns the raw cells of the named column.
func (t *Table) Column(name string) ([]string, error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if idx < len(row) {
			out = append(out, row[idx])
		} else {
			out = append(out, "")
		}
	}
	return out, nil
}

// NumericColumn parses the named column as float64 values, skipping empty
// cells. It fails when the column is not predominantly numeric.
func (t *Table) NumericColumn(name string) ([]float64, error) {
	cells, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	var vals []float64
	nonEmpty := 0
	for _, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		nonEmpty++
		if v, ok := ParseNumber(c); ok {
			vals = append(vals, v)
		}
	}
	if nonEmpty == 0 || len(vals)*2 < nonEmpty {
		return nil, fmt.Errorf("column %q is not numeric", name)
	}
	return vals, nil
}

// TimeColumn parses the named column as timestamps, skipping empty cells.
// It fails when any non-empty cell cannot be parsed as a date.
func (t *Table) TimeColumn(name string) ([]time.Time, error) {
	cells, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	var out []time.Time
	for _, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		ts, ok := ParseTime(c)
		if !ok {
			return nil, fmt.Errorf("column %q cannot be parsed as dates: bad value %q", name, c)
		}
		out = append(out, ts)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("column %q cannot be parsed as dates: no values", name)
	}
	return out, nil
}

// Kinds infers a Kind per column by predominant parsed type.
func (t *Table) Kinds() []Kind {
	kinds := make([]Kind, len(t.Columns))
	for i := range t.Columns {
		var num, dt, txt, short int
		for _, row := range t.Rows {
			if i >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[i])
			if v == "" {
				continue
			}
			if _, ok := ParseNumber(v); ok {
				num++
				continue
			}
			if _, ok := ParseTime(v); ok {
				dt++
				continue
			}
			txt++
			if len(v) <= 64 {
				short++
			}
		}
		switch {
		case num >= dt && num >= txt && num > 0:
			kinds[i] = KindNumeric
		case dt >= txt && dt > 0:
			kinds[i] = KindDatetime
		case txt > 0 && short*2 >= txt:
			kinds[i] = KindCategorical
		case txt > 0:
			kinds[i] = KindText
		default:
			kinds[i] = KindUnknown
		}
	}
	return kinds
}

// NumericColumns returns the names of all columns inferred as numeric.
func (t *Table) NumericColumns() []string {
	kinds := t.Kinds()
	var out []string
	for i, k := range kinds {
		if k == KindNumeric {
			out = append(out, t.Columns[i])
		}
	}
	return out
}

// ParseNumber parses a cell as a float, tolerating percent signs and
// comma thousands separators.
func ParseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, "%", "")
	raw = strings.ReplaceAll(raw, ",", "")
	raw = strings.ReplaceAll(raw, " ", "")
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

var timeLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
}

// ParseTime parses a cell against a set of common date layouts.
func ParseTime(s string) (time.Time, bool) {
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// padRows normalizes every row to the header width.
func padRows(rows [][]string, ncol int) [][]string {
	for i, r := range rows {
		if len(r) < ncol {
			tmp := make([]string, ncol)
			copy(tmp, r)
			rows[i] = tmp
		} else if len(r) > ncol {
			rows[i] = r[:ncol]
		}
	}
	return rows
}
