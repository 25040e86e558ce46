package dataset

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

func (xlsxLoader) Load(path string, opt Options) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets: %s", path)
	}
	sheet := sheets[0]
	if opt.SheetName != "" {
		idx, err := f.GetSheetIndex(opt.SheetName)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("sheet %q not found; available sheets: %s", opt.SheetName, strings.Join(sheets, ", "))
		}
		sheet = opt.SheetName
	} else if opt.SheetIndex > 1 {
		if opt.SheetIndex > len(sheets) {
			return nil, fmt.Errorf("sheet index %d out of range; workbook has %d sheets", opt.SheetIndex, len(sheets))
		}
		sheet = sheets[opt.SheetIndex-1]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}
	cols := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		cols[i] = strings.TrimSpace(h)
	}
	return &Table{Columns: cols, Rows: padRows(rows[1:], len(cols))}, nil
}
