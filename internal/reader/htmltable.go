package reader

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"csv2sql/internal/table"
)

// readHTMLTable parses the first <table> element in an HTML document.
//
// Header cells come from the first row containing <th> cells, or from the
// first row outright when the table has no <th> row. Data rows shorter than
// the header are padded with nulls; longer rows are truncated.
func readHTMLTable(r io.Reader) (*table.Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	tbl := doc.Find("table").First()
	if tbl.Length() == 0 {
		return nil, fmt.Errorf("no <table> element found")
	}

	var headers []string
	var rows [][]string

	tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		ths := tr.Find("th")
		if headers == nil && ths.Length() > 0 {
			ths.Each(func(_ int, th *goquery.Selection) {
				headers = append(headers, strings.TrimSpace(th.Text()))
			})
			return
		}

		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})
		if len(cells) == 0 {
			return
		}
		if headers == nil {
			headers = cells
			return
		}
		rows = append(rows, cells)
	})

	if len(headers) == 0 {
		return nil, fmt.Errorf("html table has no header row")
	}

	t, err := table.New(dedupeHeaders(headers))
	if err != nil {
		return nil, err
	}

	row := make([]table.Value, len(headers))
	for _, cells := range rows {
		for i := range headers {
			if i >= len(cells) || cells[i] == "" {
				row[i] = table.NullValue()
			} else {
				row[i] = table.String(cells[i])
			}
		}
		if err := t.AppendRow(row); err != nil {
			return nil, err
		}
	}
	return t, nil
}
