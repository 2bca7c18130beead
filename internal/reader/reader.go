// Package reader loads tabular input files into the in-memory table model.
//
// The reader owns everything about the input surface: delimiter handling,
// quoting, character encodings, transparent decompression, and alternate
// formats (HTML tables, XLSX workbooks). Downstream packages only ever see a
// *table.Table of text cells and null markers.
package reader

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"csv2sql/internal/table"
)

// Format identifies the base input format after compression is stripped.
type Format int

const (
	FormatAuto Format = iota
	FormatCSV
	FormatTSV
	FormatHTML
	FormatXLSX
)

// Options control input interpretation. The zero value reads a UTF-8 CSV.
type Options struct {
	// Format forces a base format. FormatAuto decides from the file
	// extension, falling back to content sniffing.
	Format Format

	// Delimiter is the CSV field separator. Zero means ',' (or '\t' when the
	// format resolves to TSV).
	Delimiter rune

	// Encoding is an IANA character-set name for CSV input ("windows-1250",
	// "ISO-8859-2", ...). Empty means UTF-8.
	Encoding string

	// Sheet selects the XLSX sheet by name. Empty means the first sheet.
	Sheet string
}

// ReadFile loads path into a Table.
//
// Compression is detected from the extension (.gz, .bz2, .xz, .zst) and
// removed before the base format is decided. The whole input is materialized;
// this bounds applicability to files that fit in memory.
func ReadFile(path string, opt Options) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	r, cleanup, err := decompressReader(path, f)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return Read(r, stripCompressionExt(path), opt)
}

// Read loads tabular data from r. name is used only for format detection and
// may be empty, in which case the content is sniffed.
func Read(r io.Reader, name string, opt Options) (*table.Table, error) {
	format := opt.Format
	if format == FormatAuto {
		format = detectFormat(name)
	}

	// Unknown extension: buffer and sniff the leading bytes.
	if format == FormatAuto {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		format = sniffFormat(data)
		r = bytes.NewReader(data)
	}

	switch format {
	case FormatHTML:
		return readHTMLTable(r)
	case FormatXLSX:
		return readXLSX(r, opt.Sheet)
	case FormatTSV:
		delim := opt.Delimiter
		if delim == 0 {
			delim = '\t'
		}
		return readDelimited(r, delim, opt.Encoding)
	default:
		return readDelimited(r, opt.Delimiter, opt.Encoding)
	}
}

func readDelimited(r io.Reader, delimiter rune, encoding string) (*table.Table, error) {
	dr, err := decodeReader(r, encoding)
	if err != nil {
		return nil, err
	}
	return readCSV(dr, delimiter)
}

// detectFormat decides the base format from the file extension. Unknown
// extensions return FormatAuto so the caller can sniff content.
func detectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV
	case ".tsv", ".tab":
		return FormatTSV
	case ".html", ".htm":
		return FormatHTML
	case ".xlsx":
		return FormatXLSX
	default:
		return FormatAuto
	}
}

// sniffFormat infers the format from leading bytes. Detection is heuristic
// and intentionally conservative: markup means HTML, a zip signature means
// XLSX, everything else is treated as delimited text.
func sniffFormat(data []byte) Format {
	trim := bytes.TrimSpace(data)
	if len(trim) == 0 {
		return FormatCSV
	}
	if trim[0] == '<' {
		return FormatHTML
	}
	if bytes.HasPrefix(trim, []byte("PK\x03\x04")) {
		return FormatXLSX
	}
	return FormatCSV
}
