package pipeline

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"procurement/internal"
)

func mkXLSX(rows [][]any) []byte {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf := bytes.NewBuffer(nil)
	_, _ = f.WriteTo(buf)
	return buf.Bytes()
}

func TestParseProcurementXLSX(t *testing.T) {
	blob := mkXLSX([][]any{
		{"PO_NUMBER", "VENDOR_NAME_1", "ITEM_TOTAL_COST"},
		{"PO-1", "DELL INC", "$1,500.00"},
		{"PO-2", "ORACLE AMERICA, INC.", 250},
		{"PO-3", "", 10},
		{"PO-4", "Microsoft Corporation", "n/a"},
	})

	rows, err := ParseProcurementXLSX(blob)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "DELL INC", rows[0].VendorName)
	require.NotNil(t, rows[0].ItemTotalCost)
	assert.Equal(t, 1500.0, *rows[0].ItemTotalCost)
	assert.Equal(t, internal.SourceXLSX, rows[0].Source)
	assert.Equal(t, 1, rows[0].LineNo)

	require.NotNil(t, rows[1].ItemTotalCost)
	assert.Equal(t, 250.0, *rows[1].ItemTotalCost)
	assert.Nil(t, rows[2].ItemTotalCost)
	assert.Equal(t, 3, rows[2].LineNo)
}

func TestParseProcurementXLSXWithoutHeader(t *testing.T) {
	blob := mkXLSX([][]any{
		{"DELL INC", 100},
		{"CDW GOVERNMENT LLC", "2 500,50"},
	})

	rows, err := ParseProcurementXLSX(blob)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "CDW GOVERNMENT LLC", rows[1].VendorName)
	require.NotNil(t, rows[1].ItemTotalCost)
	assert.Equal(t, 2500.5, *rows[1].ItemTotalCost)
}

func TestParseVendorQueriesXLSX(t *testing.T) {
	blob := mkXLSX([][]any{
		{"id", "Supplier"},
		{1, "IBM"},
		{2, ""},
		{3, "Oracel America"},
	})

	names, err := ParseVendorQueriesXLSX(blob)
	require.NoError(t, err)
	assert.Equal(t, []string{"IBM", "Oracel America"}, names)

	names, err = ParseVendorQueriesXLSX(mkXLSX([][]any{{"Dell"}, {"MSFT"}}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Dell", "MSFT"}, names)
}

func TestParseProcurementXLSXRejectsGarbage(t *testing.T) {
	_, err := ParseProcurementXLSX([]byte("not a workbook"))
	assert.Error(t, err)
}
