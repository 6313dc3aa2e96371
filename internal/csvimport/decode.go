package csvimport

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var decoders = map[string]encoding.Encoding{
	"windows-1252": charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
}

// Decode converts raw export bytes to text. An empty encoding means UTF-8.
// A leading UTF-8 byte order mark is dropped.
func Decode(data []byte, enc string) (string, error) {
	enc = strings.ToLower(strings.TrimSpace(enc))
	if enc == "" || enc == "utf-8" || enc == "utf8" {
		data = bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(data) {
			return "", fmt.Errorf("input is not valid UTF-8; set csv.encoding for legacy exports")
		}
		return string(data), nil
	}

	e, ok := decoders[enc]
	if !ok {
		return "", fmt.Errorf("unsupported encoding: %s", enc)
	}
	out, err := e.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s input: %w", enc, err)
	}
	return string(out), nil
}
