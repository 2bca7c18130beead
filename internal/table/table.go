// Package table holds the in-memory tabular data model shared by the reader,
// the type inferencer and the SQL generator.
//
// Design constraints:
//   - The whole table is materialized in memory (this is not a streaming tool).
//   - All columns have the same length (the row count).
//   - Column names are unique and their insertion order is the SQL column order.
//   - Cells are raw text scalars or explicit null markers; type interpretation
//     happens later, per column, in internal/infer.
package table

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Value is one cell: raw text plus a null marker.
//
// Null cells carry no text. A non-null Value may still be the empty string in
// principle, but the readers in this module map empty cells to Null.
type Value struct {
	Raw  string
	Null bool
}

// NullValue returns the null cell marker.
func NullValue() Value { return Value{Null: true} }

// String returns a text Value.
func String(s string) Value { return Value{Raw: s} }

// Column is an ordered sequence of cells plus a name.
type Column struct {
	Name   string
	Values []Value
}

// NonNull returns the column's non-null values in order.
func (c Column) NonNull() []Value {
	out := make([]Value, 0, len(c.Values))
	for _, v := range c.Values {
		if !v.Null {
			out = append(out, v)
		}
	}
	return out
}

// Table is a set of equally sized named columns, insertion order preserved.
type Table struct {
	cols []Column
	rows int
}

// New creates an empty table with the given column names.
//
// Errors:
//   - Returns an error if names is empty or contains duplicates. Readers are
//     expected to de-duplicate header names before constructing a Table.
func New(names []string) (*Table, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("table: no columns")
	}
	seen := make(map[string]struct{}, len(names))
	cols := make([]Column, 0, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("table: duplicate column name %q", n)
		}
		seen[n] = struct{}{}
		cols = append(cols, Column{Name: n})
	}
	return &Table{cols: cols}, nil
}

// AppendRow appends one row of cells in column order.
//
// Errors:
//   - Returns an error if the row length does not match the column count.
//     Appending partially is never done; the equal-length invariant holds on
//     every return.
func (t *Table) AppendRow(row []Value) error {
	if len(row) != len(t.cols) {
		return fmt.Errorf("table: row has %d cells, want %d", len(row), len(t.cols))
	}
	for i := range t.cols {
		t.cols[i].Values = append(t.cols[i].Values, row[i])
	}
	t.rows++
	return nil
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int { return t.rows }

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int { return len(t.cols) }

// Columns returns the columns in insertion order.
func (t *Table) Columns() []Column { return t.cols }

// Column returns the i-th column.
func (t *Table) Column(i int) Column { return t.cols[i] }

// Names returns the column names in insertion order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i := range t.cols {
		out[i] = t.cols[i].Name
	}
	return out
}

// Row returns the i-th row in column order.
func (t *Table) Row(i int) []Value {
	out := make([]Value, len(t.cols))
	for c := range t.cols {
		out[c] = t.cols[c].Values[i]
	}
	return out
}

// NormalizeName converts an arbitrary dataset or file name into a safe,
// lowercase identifier suitable for database table names. Runs of separator
// characters collapse into a single underscore; anything outside [a-z0-9_] is
// dropped.
//
// This is intentionally stricter than the SQL emitter's identifier
// sanitization, which only replaces spaces and hyphens.
func NormalizeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))

	lastUnderscore := false
	for _, r := range s {
		if r == ' ' || r == '-' || r == '.' || r == '/' || r == '\\' || r == ':' || r == ';' {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
			lastUnderscore = (r == '_')
			continue
		}
		// Drop everything else.
	}

	return strings.Trim(b.String(), "_")
}

// TruncateName enforces backend identifier length limits while preserving
// UTF-8 validity.
func TruncateName(s string) string {
	const maxLen = 63
	if len(s) <= maxLen {
		return s
	}
	b := []byte(s)
	cut := maxLen
	for cut > 0 && !utf8.Valid(b[:cut]) {
		cut--
	}
	if cut <= 0 {
		return s[:maxLen]
	}
	return string(b[:cut])
}
