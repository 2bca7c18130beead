// Package sqlite implements storage.Repository for SQLite via modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"csv2sql/internal/infer"
	"csv2sql/internal/storage"
)

// Repo is the SQLite-backed repository.
//
// SQLite has no native timestamp type; timestamp and date columns are stored
// with TEXT affinity for reliable scanning with modernc.org/sqlite.
type Repo struct {
	db *sql.DB
}

func init() {
	storage.Register("sqlite", New)
}

// New creates a SQLite repository from a DSN (file:data.db?cache=shared).
func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repo{db: db}, nil
}

// Close closes the database handle.
func (r *Repo) Close() { _ = r.db.Close() }

// EnsureTable creates the destination table if absent.
func (r *Repo) EnsureTable(ctx context.Context, tableName string, cols []storage.Column) error {
	ddl := buildCreateTableSQL(tableName, cols)
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", tableName, err)
	}
	return nil
}

// InsertRows bulk-inserts rows in a single statement with ? placeholders.
func (r *Repo) InsertRows(ctx context.Context, tableName string, cols []storage.Column, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	query, args := buildInsertSQL(tableName, cols, rows)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func sqlType(tag infer.TypeTag) string {
	switch tag {
	case infer.Integer, infer.Bigint:
		return "INTEGER"
	case infer.Float:
		return "REAL"
	case infer.Boolean:
		return "INTEGER"
	default:
		// Timestamps, dates, and text all stored as TEXT.
		return "TEXT"
	}
}

func buildCreateTableSQL(tableName string, cols []storage.Column) string {
	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		parts = append(parts, fmt.Sprintf("%s %s", sqlIdent(c.Name), sqlType(c.Tag)))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", sqlIdent(tableName), strings.Join(parts, ",\n  "))
}

func buildInsertSQL(tableName string, cols []storage.Column, rows [][]any) (string, []any) {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(sqlIdent(tableName))
	b.WriteString(" (")
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(sqlIdent(c.Name))
	}
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(cols))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j := range cols {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString("?")
			args = append(args, row[j])
		}
		b.WriteString(")")
	}
	b.WriteString(";")
	return b.String(), args
}

func sqlIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
