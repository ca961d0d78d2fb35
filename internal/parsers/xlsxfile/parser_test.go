package xlsxfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/shelfmirror/inventory-service/internal/parsers/csvfile"
)

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseWorkbook(t *testing.T) {
	content := buildWorkbook(t, [][]any{
		{" UPC ", "Description", "Qty"},
		{"036000291452", "Widget", 10},
		{"", "", ""},
		{"012345678905", "Gadget"},
	})

	result, err := Parse(content)
	require.NoError(t, err)
	assert.Equal(t, []string{"UPC", "Description", "Qty"}, result.Headers)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "036000291452", result.Rows[0]["UPC"])
	assert.Equal(t, "10", result.Rows[0]["Qty"])
	assert.Equal(t, "Gadget", result.Rows[1]["Description"])
	assert.Equal(t, "", result.Rows[1]["Qty"]) // ragged row padded
}

func TestParseWorkbookEmptySheet(t *testing.T) {
	content := buildWorkbook(t, nil)

	_, err := Parse(content)
	var parseErr *csvfile.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Reason, "empty")
}

func TestParseWorkbookHeaderOnly(t *testing.T) {
	content := buildWorkbook(t, [][]any{{"UPC", "Qty"}})

	_, err := Parse(content)
	var parseErr *csvfile.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Reason, "no data rows")
}

func TestParseRejectsNonWorkbookBytes(t *testing.T) {
	_, err := Parse([]byte("UPC,Qty\n111,1\n"))
	var parseErr *csvfile.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Reason, "not a valid xlsx workbook")
}
