package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"csv2sql/internal/infer"
	"csv2sql/internal/reader"
	"csv2sql/internal/storage"
	"csv2sql/internal/table"

	// register all backends with the storage factory.
	_ "csv2sql/internal/storage/mssql"
	_ "csv2sql/internal/storage/postgres"
	_ "csv2sql/internal/storage/sqlite"
)

// main is the entry point for the loader binary: read a tabular file, infer
// column types, create the destination table, and bulk-insert the rows.
func main() {
	var (
		input     string
		backend   string
		dsn       string
		tableName string
		batchSize int
		delimiter string
		encoding  string
		sheet     string
	)

	flag.StringVar(&input, "in", "", "input file path (required)")
	flag.StringVar(&backend, "backend", "sqlite", "storage backend: postgres, mssql, or sqlite")
	flag.StringVar(&dsn, "dsn", "", "backend connection string (required)")
	flag.StringVar(&tableName, "table", "", "destination table name (default derived from the input filename)")
	flag.IntVar(&batchSize, "batch", 500, "rows per INSERT statement")
	flag.StringVar(&delimiter, "delimiter", ",", "field delimiter for delimited input")
	flag.StringVar(&encoding, "encoding", "", "IANA character set of the input (default UTF-8)")
	flag.StringVar(&sheet, "sheet", "", "sheet name for XLSX input (default first sheet)")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	if input == "" || dsn == "" {
		flag.Usage()
		os.Exit(2)
	}
	if batchSize <= 0 {
		fatalf("batch size must be positive, got %d", batchSize)
	}

	delim, err := parseDelimiter(delimiter)
	if err != nil {
		fatalf("%v", err)
	}

	if tableName == "" {
		tableName = tableNameFromPath(input)
	}

	ctx := context.Background()
	start := time.Now()

	t, err := reader.ReadFile(input, reader.Options{
		Delimiter: delim,
		Encoding:  encoding,
		Sheet:     sheet,
	})
	if err != nil {
		fatalf("read %s: %v", input, err)
	}

	tags := infer.InferAll(t)
	cols := storage.Columns(t, tags)

	repo, err := storage.New(ctx, storage.Config{Kind: backend, DSN: dsn})
	if err != nil {
		fatalf("connect %s: %v", backend, err)
	}
	defer repo.Close()

	if err := repo.EnsureTable(ctx, tableName, cols); err != nil {
		fatalf("%v", err)
	}

	rows := storage.Rows(t, tags)
	var written int64
	for off := 0; off < len(rows); off += batchSize {
		end := off + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		n, err := repo.InsertRows(ctx, tableName, cols, rows[off:end])
		if err != nil {
			fatalf("insert rows %d..%d: %v", off, end, err)
		}
		written += n
	}

	if *verbose {
		log.Printf("loaded %s into %s.%s: rows=%d columns=%d in %s",
			input, backend, tableName, written, len(cols),
			time.Since(start).Truncate(time.Millisecond))
	} else {
		log.Printf("loaded %d rows into %s", written, tableName)
	}
}

// tableNameFromPath derives a table name from the input filename, including
// stripping a compression suffix so data.csv.gz becomes data.
func tableNameFromPath(path string) string {
	base := filepath.Base(path)
	for i := 0; i < 2; i++ {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	n := table.TruncateName(table.NormalizeName(base))
	if n == "" {
		n = "csv_data"
	}
	return n
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "", ",":
		return 0, nil
	case "\\t", "tab":
		return '\t', nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	return r[0], nil
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
