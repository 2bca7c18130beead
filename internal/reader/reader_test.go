package reader

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// TestReadCSV verifies header handling, trimming, and null mapping.
func TestReadCSV(t *testing.T) {
	t.Parallel()

	in := "id,name,score\n1, alice ,10\n2,,\n"
	tab, err := readCSV(strings.NewReader(in), 0)
	if err != nil {
		t.Fatalf("readCSV() error: %v", err)
	}

	if got := tab.Names(); !reflect.DeepEqual(got, []string{"id", "name", "score"}) {
		t.Fatalf("Names() = %#v", got)
	}
	if tab.RowCount() != 2 {
		t.Fatalf("RowCount() = %d, want 2", tab.RowCount())
	}

	row := tab.Row(0)
	if row[1].Raw != "alice" {
		t.Fatalf("cell not trimmed: %#v", row[1])
	}
	row = tab.Row(1)
	if !row[1].Null || !row[2].Null {
		t.Fatalf("empty cells should be null: %#v", row)
	}
}

// TestReadCSVBOM verifies a UTF-8 BOM is stripped from the first header cell.
func TestReadCSVBOM(t *testing.T) {
	t.Parallel()

	in := "\uFEFFid,name\n1,x\n"
	tab, err := readCSV(strings.NewReader(in), 0)
	if err != nil {
		t.Fatalf("readCSV() error: %v", err)
	}
	if got := tab.Names()[0]; got != "id" {
		t.Fatalf("first header = %q, want id (BOM stripped)", got)
	}
}

// TestReadCSVSkipsMisalignedRows verifies rows with the wrong field count are
// dropped rather than failing the whole read.
func TestReadCSVSkipsMisalignedRows(t *testing.T) {
	t.Parallel()

	in := "a,b\n1,2\nonly-one\n3,4,5\n5,6\n"
	tab, err := readCSV(strings.NewReader(in), 0)
	if err != nil {
		t.Fatalf("readCSV() error: %v", err)
	}
	if tab.RowCount() != 2 {
		t.Fatalf("RowCount() = %d, want 2 (misaligned rows skipped)", tab.RowCount())
	}
}

// TestReadCSVEmptyInput verifies a missing header row is an error.
func TestReadCSVEmptyInput(t *testing.T) {
	t.Parallel()

	if _, err := readCSV(strings.NewReader(""), 0); err == nil {
		t.Fatal("readCSV(empty) = nil error, want error")
	}
}

// TestDedupeHeaders verifies empty and duplicate header handling.
func TestDedupeHeaders(t *testing.T) {
	t.Parallel()

	got := dedupeHeaders([]string{"x", "", "x", "y"})
	want := []string{"x", "column_2", "x_2", "y"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("dedupeHeaders() = %#v, want %#v", got, want)
	}
}

// TestReadTSV verifies tab-separated input through the format dispatcher.
func TestReadTSV(t *testing.T) {
	t.Parallel()

	in := "id\tname\n1\talice\n"
	tab, err := Read(strings.NewReader(in), "data.tsv", Options{})
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if tab.ColumnCount() != 2 || tab.RowCount() != 1 {
		t.Fatalf("got %d cols %d rows, want 2 and 1", tab.ColumnCount(), tab.RowCount())
	}
	if tab.Row(0)[1].Raw != "alice" {
		t.Fatalf("Row(0)[1] = %#v", tab.Row(0)[1])
	}
}

// TestReadCustomDelimiter verifies semicolon-separated input.
func TestReadCustomDelimiter(t *testing.T) {
	t.Parallel()

	in := "id;name\n1;alice\n"
	tab, err := Read(strings.NewReader(in), "data.csv", Options{Delimiter: ';'})
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if tab.Row(0)[1].Raw != "alice" {
		t.Fatalf("Row(0)[1] = %#v", tab.Row(0)[1])
	}
}

// TestReadFileGzip verifies transparent gzip decompression and that the base
// extension decides the format.
func TestReadFileGzip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.csv.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte("id,name\n1,alice\n2,bob\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}

	tab, err := ReadFile(path, Options{})
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if tab.RowCount() != 2 {
		t.Fatalf("RowCount() = %d, want 2", tab.RowCount())
	}
}

// TestStripCompressionExt verifies suffix stripping for known extensions only.
func TestStripCompressionExt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		expect string
	}{
		{"data.csv.gz", "data.csv"},
		{"data.csv.bz2", "data.csv"},
		{"data.csv.xz", "data.csv"},
		{"data.csv.zst", "data.csv"},
		{"data.CSV.GZ", "data.CSV"},
		{"data.csv", "data.csv"},
		{"archive.zip", "archive.zip"},
	}
	for _, tt := range tests {
		if got := stripCompressionExt(tt.in); got != tt.expect {
			t.Fatalf("stripCompressionExt(%q) = %q, want %q", tt.in, got, tt.expect)
		}
	}
}

// TestReadHTMLTable verifies th headers, td rows, and short-row padding.
func TestReadHTMLTable(t *testing.T) {
	t.Parallel()

	html := `<html><body><table>
<tr><th>id</th><th>name</th></tr>
<tr><td>1</td><td>alice</td></tr>
<tr><td>2</td></tr>
</table></body></html>`

	tab, err := readHTMLTable(strings.NewReader(html))
	if err != nil {
		t.Fatalf("readHTMLTable() error: %v", err)
	}
	if got := tab.Names(); !reflect.DeepEqual(got, []string{"id", "name"}) {
		t.Fatalf("Names() = %#v", got)
	}
	if tab.RowCount() != 2 {
		t.Fatalf("RowCount() = %d, want 2", tab.RowCount())
	}
	if !tab.Row(1)[1].Null {
		t.Fatalf("short row not padded with null: %#v", tab.Row(1))
	}
}

// TestReadHTMLTableNoHeaderRow verifies fallback to the first td row.
func TestReadHTMLTableNoHeaderRow(t *testing.T) {
	t.Parallel()

	html := `<table><tr><td>id</td><td>name</td></tr><tr><td>1</td><td>x</td></tr></table>`
	tab, err := readHTMLTable(strings.NewReader(html))
	if err != nil {
		t.Fatalf("readHTMLTable() error: %v", err)
	}
	if got := tab.Names(); !reflect.DeepEqual(got, []string{"id", "name"}) {
		t.Fatalf("Names() = %#v", got)
	}
	if tab.RowCount() != 1 {
		t.Fatalf("RowCount() = %d, want 1", tab.RowCount())
	}
}

// TestReadHTMLNoTable verifies an error when the document has no table.
func TestReadHTMLNoTable(t *testing.T) {
	t.Parallel()

	if _, err := readHTMLTable(strings.NewReader("<html><p>hi</p></html>")); err == nil {
		t.Fatal("readHTMLTable(no table) = nil error, want error")
	}
}

// TestDetectFormat verifies extension mapping.
func TestDetectFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		expect Format
	}{
		{"a.csv", FormatCSV},
		{"a.tsv", FormatTSV},
		{"a.tab", FormatTSV},
		{"a.html", FormatHTML},
		{"a.htm", FormatHTML},
		{"a.xlsx", FormatXLSX},
		{"a.dat", FormatAuto},
		{"a", FormatAuto},
	}
	for _, tt := range tests {
		if got := detectFormat(tt.name); got != tt.expect {
			t.Fatalf("detectFormat(%q) = %v, want %v", tt.name, got, tt.expect)
		}
	}
}

// TestSniffFormat verifies content-based fallback detection.
func TestSniffFormat(t *testing.T) {
	t.Parallel()

	if got := sniffFormat([]byte("  <html>")); got != FormatHTML {
		t.Fatalf("sniffFormat(html) = %v", got)
	}
	if got := sniffFormat([]byte("PK\x03\x04rest")); got != FormatXLSX {
		t.Fatalf("sniffFormat(zip) = %v", got)
	}
	if got := sniffFormat([]byte("a,b\n1,2\n")); got != FormatCSV {
		t.Fatalf("sniffFormat(csv) = %v", got)
	}
	if got := sniffFormat(nil); got != FormatCSV {
		t.Fatalf("sniffFormat(empty) = %v", got)
	}
}

// TestReadSniffedCSV verifies an unknown extension falls back to sniffing.
func TestReadSniffedCSV(t *testing.T) {
	t.Parallel()

	tab, err := Read(strings.NewReader("id,name\n1,x\n"), "export.dat", Options{})
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if tab.RowCount() != 1 || tab.ColumnCount() != 2 {
		t.Fatalf("got %d rows %d cols", tab.RowCount(), tab.ColumnCount())
	}
}

// TestDecodeReader verifies IANA-named decoding of a non-UTF-8 input.
func TestDecodeReader(t *testing.T) {
	t.Parallel()

	// "münchen" in ISO-8859-1: ü is a single 0xFC byte.
	raw := []byte{'m', 0xFC, 'n', 'c', 'h', 'e', 'n'}
	r, err := decodeReader(strings.NewReader(string(raw)), "ISO-8859-1")
	if err != nil {
		t.Fatalf("decodeReader() error: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if string(got) != "münchen" {
		t.Fatalf("decoded = %q, want münchen", got)
	}
}

// TestDecodeReaderUnknownEncoding verifies unknown names error out.
func TestDecodeReaderUnknownEncoding(t *testing.T) {
	t.Parallel()

	if _, err := decodeReader(strings.NewReader("x"), "no-such-charset"); err == nil {
		t.Fatal("decodeReader(unknown) = nil error, want error")
	}
}
