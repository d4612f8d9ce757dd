package pipeline

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"

	"procurement/internal"
	"procurement/internal/util"
)

var (
	vendorHeaderProbes = []string{"vendor_name", "vendor", "supplier", "contractor", "payee"}
	amountHeaderProbes = []string{"item_total_cost", "total_cost", "amount", "total", "cost", "price"}
)

var ignorePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^--+$`),
	regexp.MustCompile(`^#`),
	regexp.MustCompile(`(?i)^(vendor|supplier)s?( name)?:?$`),
}

var spacePattern = regexp.MustCompile(`\s+`)

// ParseProcurementHTML reads procurement rows from every table in an HTML
// document whose header row names a vendor column.
func ParseProcurementHTML(html string) ([]internal.ProcurementRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	out := []internal.ProcurementRow{}
	globalLine := 0
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() < 2 {
			return
		}

		headers := []string{}
		rows.First().Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			headers = append(headers, strings.ToLower(normalizeSpaces(cell.Text())))
		})

		vendorIdx, amountIdx := inferProcurementColumns(headers)
		if vendorIdx < 0 {
			return
		}

		rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
			cells := []string{}
			row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, normalizeSpaces(cell.Text()))
			})
			vendor := pickCell(cells, vendorIdx, -1)
			if vendor == "" {
				return
			}

			globalLine++
			out = append(out, internal.ProcurementRow{
				LineNo:        globalLine,
				Source:        internal.SourceHTMLTable,
				VendorName:    vendor,
				ItemTotalCost: util.ParseAmount(pickCell(cells, amountIdx, -1)),
				RawLine:       strings.Join(cells, " | "),
			})
		})
	})

	return out, nil
}

// ParseProcurementXLSX reads procurement rows from every sheet. A header row
// within the first three rows selects the columns; without one the first
// column is the vendor and the second the amount.
func ParseProcurementXLSX(content []byte) ([]internal.ProcurementRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lineNo := 0
	out := []internal.ProcurementRow{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}

		vendorIdx, amountIdx := -1, -1
		for i, row := range rows {
			cells := normalizeCells(row)
			if len(cells) == 0 {
				continue
			}
			if i < 3 && vendorIdx < 0 {
				vendorIdx, amountIdx = inferProcurementColumns(lowerCells(cells))
				if vendorIdx >= 0 {
					continue
				}
			}

			if vendorIdx < 0 {
				vendorIdx, amountIdx = 0, 1
			}
			vendor := pickCell(cells, vendorIdx, -1)
			if vendor == "" {
				continue
			}

			lineNo++
			out = append(out, internal.ProcurementRow{
				LineNo:        lineNo,
				Source:        internal.SourceXLSX,
				VendorName:    vendor,
				ItemTotalCost: util.ParseAmount(pickCell(cells, amountIdx, -1)),
				RawLine:       strings.Join(cells, " | "),
			})
		}
	}

	return out, nil
}

// ParseVendorQueries reads one vendor name per line, skipping blank lines,
// comments and a leading header.
func ParseVendorQueries(text string) []string {
	out := []string{}
	for _, line := range splitLines(text) {
		line = normalizeSpaces(line)
		if line == "" || isLikelyNoise(line) {
			continue
		}
		out = append(out, line)
	}
	return out
}

// ParseVendorQueriesXLSX takes the vendor column of the first sheet, or its
// first column when no header names one.
func ParseVendorQueriesXLSX(content []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}

	out := []string{}
	col := -1
	for i, row := range rows {
		cells := normalizeCells(row)
		if i == 0 {
			if idx, _ := inferProcurementColumns(lowerCells(cells)); idx >= 0 {
				col = idx
				continue
			}
		}
		if col < 0 {
			col = 0
		}
		if name := pickCell(cells, col, -1); name != "" && !isLikelyNoise(name) {
			out = append(out, name)
		}
	}
	return out, nil
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeSpaces(input string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(input, " "))
}

func isLikelyNoise(line string) bool {
	for _, re := range ignorePatterns {
		if re.MatchString(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}

func findHeaderIndex(headers []string, probes []string) int {
	for _, probe := range probes {
		for i, h := range headers {
			if strings.Contains(h, probe) {
				return i
			}
		}
	}
	return -1
}

func pickCell(cells []string, idx int, fallback int) string {
	if idx >= 0 && idx < len(cells) {
		return strings.TrimSpace(cells[idx])
	}
	if fallback >= 0 && fallback < len(cells) {
		return strings.TrimSpace(cells[fallback])
	}
	return ""
}

// inferProcurementColumns expects lower-cased headers.
func inferProcurementColumns(headers []string) (vendorIdx, amountIdx int) {
	vendorIdx = findHeaderIndex(headers, vendorHeaderProbes)
	amountIdx = findHeaderIndex(headers, amountHeaderProbes)
	if amountIdx == vendorIdx {
		amountIdx = -1
	}
	return
}

func normalizeCells(row []string) []string {
	out := make([]string, 0, len(row))
	for _, c := range row {
		out = append(out, normalizeSpaces(c))
	}
	return out
}

func lowerCells(cells []string) []string {
	out := make([]string, 0, len(cells))
	for _, c := range cells {
		out = append(out, strings.ToLower(c))
	}
	return out
}
