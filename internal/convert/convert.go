// Package convert wires the pipeline together: read the input table, infer a
// type per column, emit SQL text, write the output file.
//
// All fallibility lives here and in file I/O; type inference and literal
// formatting are total and never fail. Every error is returned wrapped and
// single-line so the CLI can print it as one diagnostic and exit nonzero.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"csv2sql/internal/infer"
	"csv2sql/internal/reader"
	"csv2sql/internal/sqlgen"
)

// ErrInputNotFound reports a missing source path. It is checked before any
// processing so no output file is touched.
var ErrInputNotFound = errors.New("input file not found")

// Options describe one conversion run.
type Options struct {
	// Input is the source file path.
	Input string
	// Output is the destination SQL file path; existing content is overwritten.
	Output string
	// Method selects the SQL shape: "values" (default) or "cte".
	Method string
	// TableName is the table/CTE alias; empty means sqlgen.DefaultTableName.
	TableName string

	// Reader options are passed through to the input layer.
	Reader reader.Options
}

// Stats summarizes a successful conversion for logging and metrics.
type Stats struct {
	Rows    int
	Columns int
	Tags    []infer.TypeTag
}

// Convert runs the full pipeline. On any error, the output file has not been
// written (the method selector and the input are validated before the input
// is even read).
func Convert(ctx context.Context, opt Options) (Stats, error) {
	method := opt.Method
	if method == "" {
		method = "values"
	}
	style, err := sqlgen.ParseStyle(method)
	if err != nil {
		return Stats{}, err
	}

	if _, err := os.Stat(opt.Input); err != nil {
		if os.IsNotExist(err) {
			return Stats{}, fmt.Errorf("%w: %s", ErrInputNotFound, opt.Input)
		}
		return Stats{}, fmt.Errorf("stat input: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}

	t, err := reader.ReadFile(opt.Input, opt.Reader)
	if err != nil {
		return Stats{}, fmt.Errorf("read %s: %w", opt.Input, err)
	}

	tags := infer.InferAll(t)
	sql := sqlgen.Emit(t, tags, style, opt.TableName)

	if dir := filepath.Dir(opt.Output); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Stats{}, fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(opt.Output, []byte(sql), 0o644); err != nil {
		return Stats{}, fmt.Errorf("write %s: %w", opt.Output, err)
	}

	return Stats{Rows: t.RowCount(), Columns: t.ColumnCount(), Tags: tags}, nil
}
