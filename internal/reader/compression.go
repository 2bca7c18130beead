package reader

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

const (
	extGZ   = ".gz"
	extBZ2  = ".bz2"
	extXZ   = ".xz"
	extZSTD = ".zst"
)

var compressionExts = []string{extGZ, extBZ2, extXZ, extZSTD}

// stripCompressionExt removes a trailing compression extension, if any, so
// the base format can be decided from the remaining name.
func stripCompressionExt(path string) string {
	lower := strings.ToLower(path)
	for _, ext := range compressionExts {
		if strings.HasSuffix(lower, ext) {
			return path[:len(path)-len(ext)]
		}
	}
	return path
}

// decompressReader wraps r with the decompressor implied by the file name.
// The returned cleanup releases decoder resources; it never closes r.
func decompressReader(path string, r io.Reader) (io.Reader, func() error, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(path), extGZ):
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip reader: %w", err)
		}
		return gz, gz.Close, nil

	case strings.HasSuffix(strings.ToLower(path), extBZ2):
		// bzip2 readers need no closing.
		return bzip2.NewReader(r), func() error { return nil }, nil

	case strings.HasSuffix(strings.ToLower(path), extXZ):
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("xz reader: %w", err)
		}
		return xr, func() error { return nil }, nil

	case strings.HasSuffix(strings.ToLower(path), extZSTD):
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd reader: %w", err)
		}
		return dec, func() error { dec.Close(); return nil }, nil

	default:
		return r, func() error { return nil }, nil
	}
}
