package reader

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"csv2sql/internal/table"
)

// readXLSX reads one sheet of an XLSX workbook into a Table. An empty sheet
// name selects the first sheet. The first row is the header; shorter data
// rows are padded with nulls (excelize trims trailing empty cells).
func readXLSX(r io.Reader, sheet string) (*table.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read xlsx: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("xlsx has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	t, err := table.New(dedupeHeaders(headers))
	if err != nil {
		return nil, err
	}

	row := make([]table.Value, len(headers))
	for _, rec := range rows[1:] {
		for i := range headers {
			var cell string
			if i < len(rec) {
				cell = strings.TrimSpace(rec[i])
			}
			if cell == "" {
				row[i] = table.NullValue()
			} else {
				row[i] = table.String(cell)
			}
		}
		if err := t.AppendRow(row); err != nil {
			return nil, err
		}
	}
	return t, nil
}
