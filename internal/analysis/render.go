package analysis

import (
	"fmt"
	"strings"
)

// Render produces the plain-text report printed by analyze or written
// with --output.
func (r *Report) Render() string {
	var b strings.Builder

	if len(r.Head) > 0 {
		b.WriteString(fmt.Sprintf("=== Head (first %d rows) ===\n", len(r.Head)))
		writeTable(&b, r.Columns, r.Head)
		b.WriteString("\n")
	}

	b.WriteString("=== Basic info ===\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.Processed > 0 && r.Processed < r.Rows {
		b.WriteString(fmt.Sprintf("Rows: %d (processed %d)\n", r.Rows, r.Processed))
	} else {
		b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	}
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Columns)))

	b.WriteString("=== Column kinds ===\n")
	for i, c := range r.Columns {
		b.WriteString(fmt.Sprintf("- %s: %s\n", safeName(c), r.Kinds[i]))
	}
	b.WriteString("\n")

	b.WriteString("=== Missing values ===\n")
	for i, c := range r.Columns {
		b.WriteString(fmt.Sprintf("- %s: %d\n", safeName(c), r.Missing[i]))
	}
	b.WriteString("\n")

	if len(r.Numeric) > 0 {
		b.WriteString("=== Numeric summary ===\n")
		for _, n := range r.Numeric {
			b.WriteString(fmt.Sprintf("- %s: count %d, mean %.4g, std %.4g, min %.4g, 25%% %.4g, 50%% %.4g, 75%% %.4g, max %.4g\n",
				safeName(n.Name), n.Count, n.Mean, n.Std, n.Min, n.Q25, n.Q50, n.Q75, n.Max))
		}
		b.WriteString("\n")
	}

	if len(r.Category) > 0 {
		b.WriteString("=== Categorical summary ===\n")
		for _, c := range r.Category {
			b.WriteString(fmt.Sprintf("- %s: count %d, unique %d, top %s (freq %d)\n",
				safeName(c.Name), c.Count, c.Unique, safeVal(c.Top), c.Freq))
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("=== Duplicate rows: %d ===\n", r.DupCount))
	if len(r.DupRows) > 0 {
		b.WriteString("Examples:\n")
		writeTable(&b, r.Columns, r.DupRows)
	}
	b.WriteString("\n")

	b.WriteString("=== Correlations ===\n")
	if r.CorrNote != "" {
		b.WriteString(r.CorrNote + "\n")
	} else if len(r.Corr) == 0 {
		b.WriteString("no column pairs above the threshold\n")
	} else {
		for _, p := range r.Corr {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.4f\n", safeName(p.A), safeName(p.B), p.R))
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n=== Notes ===\n")
		for _, w := range r.Warnings {
			b.WriteString("- " + w + "\n")
		}
	}
	return b.String()
}

func writeTable(b *strings.Builder, cols []string, rows [][]string) {
	b.WriteString("| ")
	for i, c := range cols {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeName(c))
	}
	b.WriteString(" |\n| ")
	for i := range cols {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString("---")
	}
	b.WriteString(" |\n")
	for _, row := range rows {
		b.WriteString("| ")
		for i := range cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			if len(val) > 80 {
				val = val[:77] + "..."
			}
			b.WriteString(safeVal(val))
		}
		b.WriteString(" |\n")
	}
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
