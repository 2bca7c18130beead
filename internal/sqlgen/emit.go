// Package sqlgen turns an inferred table into SQL text that reconstructs the
// data as an inline result set. Two textual shapes are supported: an inline
// VALUES block and a named CTE built from UNION ALLed SELECTs. Per-cell
// formatting is keyed strictly by the column's inferred type tag; no cell is
// re-typed per row.
package sqlgen

import (
	"fmt"
	"strings"

	"csv2sql/internal/infer"
	"csv2sql/internal/table"
)

// Style selects the overall SQL shape.
type Style int

const (
	// StyleValues emits SELECT * FROM VALUES (...), (...) AS name(cols).
	StyleValues Style = iota
	// StyleCTE emits WITH name AS (SELECT ... UNION ALL SELECT ...) SELECT *.
	StyleCTE
)

// ErrUnknownMethod reports an unrecognized generation method selector.
var ErrUnknownMethod = fmt.Errorf("unknown generation method")

// ParseStyle maps the CLI method selector onto a Style.
//
// Errors:
//   - Returns ErrUnknownMethod (wrapped with the offending value) for anything
//     other than "values" or "cte".
func ParseStyle(method string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "values":
		return StyleValues, nil
	case "cte":
		return StyleCTE, nil
	default:
		return 0, fmt.Errorf("%w: %q (use 'values' or 'cte')", ErrUnknownMethod, method)
	}
}

// DefaultTableName is the table/CTE alias used when the caller supplies none.
const DefaultTableName = "csv_data"

// emptyDatasetSQL is the fixed text emitted for zero-row tables under either
// style, regardless of column count.
const emptyDatasetSQL = "-- Empty dataset\nSELECT NULL WHERE 1=0;"

// SanitizeIdentifier prepares a column name for use as a SQL identifier by
// replacing spaces and hyphens with underscores.
//
// Known limitation, kept deliberately: no uniqueness check is performed
// afterwards, so two column names that sanitize to the same identifier go
// undetected.
func SanitizeIdentifier(name string) string {
	return strings.NewReplacer(" ", "_", "-", "_").Replace(name)
}

// Emit assembles the full SQL text for a table whose columns carry the given
// type tags. tags must align with t.Columns().
func Emit(t *table.Table, tags []infer.TypeTag, style Style, tableName string) string {
	if tableName == "" {
		tableName = DefaultTableName
	}
	if t == nil || t.RowCount() == 0 {
		return emptyDatasetSQL
	}

	switch style {
	case StyleCTE:
		return emitCTE(t, tags, tableName)
	default:
		return emitValues(t, tags, tableName)
	}
}

// header renders the shared comment block: source marker, the original
// (unsanitized) column names, and the inferred type mapping in column order.
func header(t *table.Table, tags []infer.TypeTag) string {
	var b strings.Builder
	b.WriteString("-- Generated SQL from CSV\n")
	b.WriteString("-- Columns: ")
	b.WriteString(strings.Join(t.Names(), ", "))
	b.WriteString("\n-- Data types detected: ")
	for i, n := range t.Names() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(n)
		b.WriteByte('=')
		b.WriteString(tags[i].String())
	}
	b.WriteString("\n\n")
	return b.String()
}

func sanitizedNames(t *table.Table) []string {
	out := make([]string, 0, t.ColumnCount())
	for _, n := range t.Names() {
		out = append(out, SanitizeIdentifier(n))
	}
	return out
}

func emitValues(t *table.Table, tags []infer.TypeTag, tableName string) string {
	var b strings.Builder
	b.WriteString(header(t, tags))
	b.WriteString("SELECT * FROM VALUES\n")

	for r := 0; r < t.RowCount(); r++ {
		if r > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("  (")
		for c, v := range t.Row(r) {
			if c > 0 {
				b.WriteString(", ")
			}
			b.WriteString(Literal(v, tags[c]))
		}
		b.WriteString(")")
	}

	b.WriteString("\nAS ")
	b.WriteString(tableName)
	b.WriteString("(")
	b.WriteString(strings.Join(sanitizedNames(t), ", "))
	b.WriteString(");")
	return b.String()
}

func emitCTE(t *table.Table, tags []infer.TypeTag, tableName string) string {
	cols := sanitizedNames(t)

	var b strings.Builder
	b.WriteString(header(t, tags))
	b.WriteString("WITH ")
	b.WriteString(tableName)
	b.WriteString(" AS (\n")

	for r := 0; r < t.RowCount(); r++ {
		if r > 0 {
			b.WriteString("\n  UNION ALL\n")
		}
		b.WriteString("  SELECT ")
		for c, v := range t.Row(r) {
			if c > 0 {
				b.WriteString(", ")
			}
			b.WriteString(Literal(v, tags[c]))
			b.WriteString(" AS ")
			b.WriteString(cols[c])
		}
	}

	b.WriteString("\n)\nSELECT * FROM ")
	b.WriteString(tableName)
	b.WriteString(";")
	return b.String()
}
