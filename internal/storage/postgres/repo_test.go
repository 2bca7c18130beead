package postgres

import (
	"testing"

	"csv2sql/internal/infer"
	"csv2sql/internal/storage"
)

var testCols = []storage.Column{
	{Name: "id", Tag: infer.Integer},
	{Name: "amount", Tag: infer.Float},
	{Name: "note", Tag: infer.Varchar},
}

// TestBuildCreateTableSQL verifies the DDL shape and the type mapping.
func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	got := buildCreateTableSQL("orders", testCols)
	want := "CREATE TABLE IF NOT EXISTS orders (\n" +
		"  \"id\" INTEGER,\n" +
		"  \"amount\" DOUBLE PRECISION,\n" +
		"  \"note\" TEXT\n" +
		");"
	if got != want {
		t.Fatalf("buildCreateTableSQL() =\n%s\nwant:\n%s", got, want)
	}
}

// TestSQLType verifies every tag maps to a Postgres type.
func TestSQLType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag    infer.TypeTag
		expect string
	}{
		{infer.Integer, "INTEGER"},
		{infer.Bigint, "BIGINT"},
		{infer.Float, "DOUBLE PRECISION"},
		{infer.Boolean, "BOOLEAN"},
		{infer.Timestamp, "TIMESTAMPTZ"},
		{infer.Date, "DATE"},
		{infer.Varchar, "TEXT"},
	}
	for _, tt := range tests {
		if got := sqlType(tt.tag); got != tt.expect {
			t.Fatalf("sqlType(%v) = %q, want %q", tt.tag, got, tt.expect)
		}
	}
}

// TestBuildInsertSQL verifies row-major placeholder numbering and arg order.
func TestBuildInsertSQL(t *testing.T) {
	t.Parallel()

	rows := [][]any{
		{int64(1), 9.5, "a"},
		{int64(2), nil, "b"},
	}
	sql, args := buildInsertSQL("orders", testCols, rows)

	wantSQL := `INSERT INTO orders ("id", "amount", "note") VALUES ($1, $2, $3), ($4, $5, $6);`
	if sql != wantSQL {
		t.Fatalf("buildInsertSQL() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 6 {
		t.Fatalf("len(args) = %d, want 6", len(args))
	}
	if args[0] != int64(1) || args[4] != nil || args[5] != "b" {
		t.Fatalf("args = %#v", args)
	}
}

// TestPgIdent verifies quote escaping in identifiers.
func TestPgIdent(t *testing.T) {
	t.Parallel()

	if got := pgIdent(`we"ird`); got != `"we""ird"` {
		t.Fatalf("pgIdent() = %q", got)
	}
}
