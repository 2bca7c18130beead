package mssql

import (
	"strings"
	"testing"

	"csv2sql/internal/infer"
	"csv2sql/internal/storage"
)

var testCols = []storage.Column{
	{Name: "id", Tag: infer.Integer},
	{Name: "seen_at", Tag: infer.Timestamp},
}

// TestBuildCreateTableSQL verifies the OBJECT_ID guard and the type mapping.
func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	got := buildCreateTableSQL("dbo.events", testCols)
	if !strings.HasPrefix(got, "IF OBJECT_ID(N'dbo.events', N'U') IS NULL CREATE TABLE [dbo].[events] (") {
		t.Fatalf("unexpected DDL prefix:\n%s", got)
	}
	if !strings.Contains(got, "[id] INT") || !strings.Contains(got, "[seen_at] DATETIME2") {
		t.Fatalf("missing column definitions:\n%s", got)
	}
}

// TestSQLType verifies every tag maps to a SQL Server type.
func TestSQLType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag    infer.TypeTag
		expect string
	}{
		{infer.Integer, "INT"},
		{infer.Bigint, "BIGINT"},
		{infer.Float, "FLOAT"},
		{infer.Boolean, "BIT"},
		{infer.Timestamp, "DATETIME2"},
		{infer.Date, "DATE"},
		{infer.Varchar, "NVARCHAR(MAX)"},
	}
	for _, tt := range tests {
		if got := sqlType(tt.tag); got != tt.expect {
			t.Fatalf("sqlType(%v) = %q, want %q", tt.tag, got, tt.expect)
		}
	}
}

// TestBuildInsertSQL verifies @pN numbering runs row-major.
func TestBuildInsertSQL(t *testing.T) {
	t.Parallel()

	rows := [][]any{
		{int64(1), "2024-01-15 10:30:00"},
		{int64(2), nil},
	}
	sql, args := buildInsertSQL("events", testCols, rows)

	wantSQL := "INSERT INTO [events] ([id], [seen_at]) VALUES (@p1, @p2), (@p3, @p4);"
	if sql != wantSQL {
		t.Fatalf("buildInsertSQL() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 4 || args[2] != int64(2) || args[3] != nil {
		t.Fatalf("args = %#v", args)
	}
}

// TestMssqlIdent verifies bracket escaping.
func TestMssqlIdent(t *testing.T) {
	t.Parallel()

	if got := mssqlIdent("we]ird"); got != "[we]]ird]" {
		t.Fatalf("mssqlIdent() = %q", got)
	}
}
