package reader

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding/ianaindex"
)

// decodeReader wraps r with a decoder for the named IANA character encoding
// (e.g. "windows-1250", "ISO-8859-2"). An empty name means the input is
// already UTF-8 and r is returned unchanged.
func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	if encoding == "" {
		return r, nil
	}
	enc, err := ianaindex.IANA.Encoding(encoding)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unknown input encoding %q", encoding)
	}
	return enc.NewDecoder().Reader(r), nil
}
