package reader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"csv2sql/internal/table"
)

// readCSV parses delimited text into a Table.
//
// Parsing is deliberately forgiving, matching how sampling treats real-world
// CSV exports:
//   - the first record is the header; a UTF-8 BOM on the first cell is stripped
//   - records whose field count differs from the header are skipped
//   - cells are trimmed; empty cells become null markers
func readCSV(r io.Reader, delimiter rune) (*table.Table, error) {
	if delimiter == 0 {
		delimiter = ','
	}

	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1 // validated manually
	cr.LazyQuotes = true

	headers, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty input: no header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range headers {
		h := strings.TrimSpace(headers[i])
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		headers[i] = h
	}

	t, err := table.New(dedupeHeaders(headers))
	if err != nil {
		return nil, err
	}

	row := make([]table.Value, len(headers))
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv read: %w", err)
		}
		if len(rec) != len(headers) {
			continue
		}
		for i, cell := range rec {
			cell = strings.TrimSpace(cell)
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

// dedupeHeaders makes duplicate header names unique by appending a numeric
// suffix ("x", "x" becomes "x", "x_2").
func dedupeHeaders(headers []string) []string {
	seen := make(map[string]int, len(headers))
	out := make([]string, len(headers))
	for i, h := range headers {
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		seen[h]++
		if n := seen[h]; n > 1 {
			h = fmt.Sprintf("%s_%d", h, n)
			seen[h]++
		}
		out[i] = h
	}
	return out
}
