// Package csvfile parses vendor shipment CSVs into header-keyed rows. No
// schema is imposed beyond whatever columns the operator later maps to the
// identifier and quantity roles.
package csvfile

import (
	stdcsv "encoding/csv"
	"strings"

	"github.com/shelfmirror/inventory-service/internal/parsers/charset"
)

// ParseError means the CSV was empty or malformed. Reported to the
// operator before any matching attempt; there is no partial ingestion.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "csv parse error: " + e.Reason
}

// Result is a parsed vendor file: the header row plus every data row as a
// string-keyed mapping.
type Result struct {
	Headers []string
	Rows    []map[string]string
}

// Parse decodes and parses raw CSV bytes. The first row is the header;
// delimiter is detected from the header line (comma, semicolon, tab).
func Parse(content []byte) (*Result, error) {
	enc := charset.DetectEncoding(content)
	decoded, err := charset.Decode(content, enc)
	if err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}

	decoded = strings.TrimSpace(decoded)
	if decoded == "" {
		return nil, &ParseError{Reason: "file is empty"}
	}

	reader := stdcsv.NewReader(strings.NewReader(decoded))
	reader.Comma = detectDelimiter(decoded)
	reader.FieldsPerRecord = -1 // ragged vendor exports are tolerated per-row
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}
	if len(records) == 0 {
		return nil, &ParseError{Reason: "file is empty"}
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}
	if len(records) == 1 {
		return nil, &ParseError{Reason: "file has a header row but no data rows"}
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		if isEmptyRecord(record) {
			continue
		}
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(record) {
				row[h] = strings.TrimSpace(record[i])
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, &ParseError{Reason: "file has a header row but no data rows"}
	}

	return &Result{Headers: headers, Rows: rows}, nil
}

// detectDelimiter picks the delimiter that splits the header line into the
// most fields.
func detectDelimiter(content string) rune {
	header := content
	if idx := strings.IndexAny(content, "\r\n"); idx >= 0 {
		header = content[:idx]
	}

	best := ','
	bestCount := strings.Count(header, ",")
	for _, cand := range []rune{';', '\t'} {
		if n := strings.Count(header, string(cand)); n > bestCount {
			best = cand
			bestCount = n
		}
	}
	return best
}

func isEmptyRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
