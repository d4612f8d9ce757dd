package pipeline

import (
	"fmt"
	"os"

	"procurement/internal"
)

// ReadProcurementFile parses a spreadsheet or HTML export into procurement rows.
func ReadProcurementFile(path string) ([]internal.ProcurementRow, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch format := DetectInputFormat(path, blob); format {
	case FormatXLSX:
		return ParseProcurementXLSX(blob)
	case FormatHTML:
		return ParseProcurementHTML(string(blob))
	default:
		return nil, fmt.Errorf("unsupported procurement input %s: format %q", path, format)
	}
}

// ReadVendorQueries loads the names for a batch resolution run.
func ReadVendorQueries(path string) ([]string, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch format := DetectInputFormat(path, blob); format {
	case FormatXLSX:
		return ParseVendorQueriesXLSX(blob)
	case FormatText:
		return ParseVendorQueries(string(blob)), nil
	default:
		return nil, fmt.Errorf("unsupported vendor list %s: format %q", path, format)
	}
}
