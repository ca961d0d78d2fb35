// Package charset decodes vendor file bytes to UTF-8. Vendor manifests are
// usually exported from Excel on Windows, so Windows-1252 shows up often
// enough to matter.
package charset

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding represents a text encoding.
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1252 Encoding = "windows-1252"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectEncoding guesses the encoding of a byte buffer. Valid UTF-8 is
// taken at face value; anything else is assumed Windows-1252, which decodes
// every byte and therefore never fails.
func DetectEncoding(data []byte) Encoding {
	if bytes.HasPrefix(data, utf8BOM) {
		return EncodingUTF8
	}
	if utf8.Valid(data) {
		return EncodingUTF8
	}
	return EncodingWindows1252
}

// Decode converts a buffer to a UTF-8 string, stripping a BOM if present.
func Decode(data []byte, enc Encoding) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	switch enc {
	case EncodingUTF8, "":
		return string(data), nil
	case EncodingWindows1252:
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decode windows-1252: %w", err)
		}
		return string(decoded), nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", enc)
	}
}
