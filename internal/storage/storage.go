// Package storage loads a parsed, type-inferred table directly into a SQL
// database. Backends (postgres, mssql, sqlite) register themselves in a
// factory registry; each implements table creation from inferred type tags
// and bulk inserts in its own idiomatic way.
package storage

import (
	"context"
	"fmt"
	"sync"

	"csv2sql/internal/infer"
	"csv2sql/internal/table"
)

// Column pairs a sanitized column name with its inferred type tag.
type Column struct {
	Name string
	Tag  infer.TypeTag
}

// Config is the minimal configuration needed to create a repository.
type Config struct {
	// Kind selects a registered backend: "postgres", "mssql", or "sqlite".
	Kind string
	// DSN is passed through to the backend; validation is backend-specific.
	DSN string
}

// Repository is a backend-agnostic destination for one table of data.
type Repository interface {
	// Close releases backend resources. Call once at process shutdown.
	Close()

	// EnsureTable creates the destination table if it does not exist, with a
	// column type mapping appropriate for the backend.
	EnsureTable(ctx context.Context, tableName string, cols []Column) error

	// InsertRows bulk-inserts rows (aligned with cols) and reports how many
	// rows were written.
	InsertRows(ctx context.Context, tableName string, cols []Column, rows [][]any) (int64, error)
}

type factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]factory{}
)

// Register registers a backend under a kind. Backend packages call this from
// init(); registering the same kind twice panics to fail fast on ambiguous
// backend selection.
func Register(kind string, f factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("storage: Register called with empty kind")
	}
	if f == nil {
		panic("storage: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("storage: factory already registered for kind=%q", kind))
	}

	factories[kind] = f
}

// New constructs a Repository using the registered backend factory.
func New(ctx context.Context, cfg Config) (Repository, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("storage: missing kind")
	}

	mu.RLock()
	f := factories[cfg.Kind]
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("unsupported storage kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// Columns builds the storage column list for a table: sanitized, truncated
// names paired with the inferred tags. tags must align with t.Columns().
func Columns(t *table.Table, tags []infer.TypeTag) []Column {
	out := make([]Column, 0, t.ColumnCount())
	for i, name := range t.Names() {
		n := table.TruncateName(table.NormalizeName(name))
		if n == "" {
			n = fmt.Sprintf("column_%d", i+1)
		}
		out = append(out, Column{Name: n, Tag: tags[i]})
	}
	return out
}

// Rows converts table cells into driver argument rows. Null markers become
// nil; numeric and boolean cells are converted to native Go types so drivers
// bind them with the right wire types; dates and timestamps stay text and are
// cast by the destination.
func Rows(t *table.Table, tags []infer.TypeTag) [][]any {
	out := make([][]any, 0, t.RowCount())
	for r := 0; r < t.RowCount(); r++ {
		row := t.Row(r)
		args := make([]any, len(row))
		for c, v := range row {
			args[c] = bindValue(v, tags[c])
		}
		out = append(out, args)
	}
	return out
}

func bindValue(v table.Value, tag infer.TypeTag) any {
	if v.Null {
		return nil
	}
	switch tag {
	case infer.Integer, infer.Bigint:
		if n, ok := infer.ParseIntLoose(v.Raw); ok {
			return n
		}
	case infer.Float:
		if f, ok := infer.ParseFloatLoose(v.Raw); ok {
			return f
		}
	case infer.Boolean:
		if b, ok := infer.ParseBoolLoose(v.Raw); ok {
			return b
		}
	}
	return v.Raw
}
