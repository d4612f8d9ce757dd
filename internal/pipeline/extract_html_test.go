package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement/internal"
)

func TestParseProcurementHTML(t *testing.T) {
	html := `<html><body>
<table><tr><td>layout only</td></tr></table>
<table>
  <tr><th>Vendor Name</th><th>Description</th><th>Total Cost</th></tr>
  <tr><td>DELL  INC</td><td>Laptops</td><td>$1,200.00</td></tr>
  <tr><td></td><td>orphan</td><td>5</td></tr>
  <tr><td>INTERNATIONAL BUSINESS MACHINES</td><td>Support</td><td>(300.00)</td></tr>
</table>
<table><tr><th>Item</th><th>Qty</th></tr><tr><td>Paper</td><td>10</td></tr></table>
</body></html>`

	rows, err := ParseProcurementHTML(html)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "DELL INC", rows[0].VendorName)
	assert.Equal(t, internal.SourceHTMLTable, rows[0].Source)
	assert.Equal(t, "DELL INC | Laptops | $1,200.00", rows[0].RawLine)
	require.NotNil(t, rows[0].ItemTotalCost)
	assert.Equal(t, 1200.0, *rows[0].ItemTotalCost)

	assert.Equal(t, "INTERNATIONAL BUSINESS MACHINES", rows[1].VendorName)
	require.NotNil(t, rows[1].ItemTotalCost)
	assert.Equal(t, -300.0, *rows[1].ItemTotalCost)
	assert.Equal(t, 2, rows[1].LineNo)
}

func TestParseVendorQueries(t *testing.T) {
	text := "Vendor Name\r\n# imported from the help desk\nIBM\n\n  microsoft   corp \n---\nOracel America\n"
	assert.Equal(t, []string{"IBM", "microsoft corp", "Oracel America"}, ParseVendorQueries(text))
	assert.Empty(t, ParseVendorQueries(" \n\n"))
}

func TestDetectInputFormat(t *testing.T) {
	assert.Equal(t, FormatXLSX, DetectInputFormat("orders.XLSX", nil))
	assert.Equal(t, FormatHTML, DetectInputFormat("report.htm", nil))
	assert.Equal(t, FormatText, DetectInputFormat("vendors.txt", nil))
	assert.Equal(t, FormatXLSX, DetectInputFormat("download", mkXLSX([][]any{{"a"}})))
	assert.Equal(t, FormatHTML, DetectInputFormat("download", []byte("<!doctype html><TABLE>")))
	assert.Equal(t, FormatText, DetectInputFormat("names", []byte("IBM\nDell\n")))
	assert.Equal(t, FormatUnknown, DetectInputFormat("blob", []byte{0x00, 0x01}))
	assert.Equal(t, FormatUnknown, DetectInputFormat("empty", nil))
}
