// Package xlsxfile parses vendor shipment Excel workbooks into the same
// header-keyed rows the CSV path produces. Some vendors only ship .xlsx.
package xlsxfile

import (
	"bytes"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/shelfmirror/inventory-service/internal/parsers/csvfile"
)

// Parse reads the first sheet of a workbook: first row headers, remaining
// rows as string-keyed mappings. Failures are reported as the shared
// *csvfile.ParseError so callers handle both formats uniformly.
func Parse(content []byte) (*csvfile.Result, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, &csvfile.ParseError{Reason: "not a valid xlsx workbook: " + err.Error()}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &csvfile.ParseError{Reason: "workbook has no sheets"}
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &csvfile.ParseError{Reason: err.Error()}
	}
	if len(records) == 0 {
		return nil, &csvfile.ParseError{Reason: "sheet is empty"}
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
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
		return nil, &csvfile.ParseError{Reason: "sheet has a header row but no data rows"}
	}

	return &csvfile.Result{Headers: headers, Rows: rows}, nil
}

func isEmptyRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
