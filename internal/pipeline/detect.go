package pipeline

import (
	"bytes"
	"path/filepath"
	"strings"
)

type InputFormat string

const (
	FormatXLSX    InputFormat = "xlsx"
	FormatHTML    InputFormat = "html"
	FormatText    InputFormat = "text"
	FormatUnknown InputFormat = ""
)

var zipMagic = []byte("PK\x03\x04")

// DetectInputFormat decides by extension first and falls back to sniffing
// the leading bytes.
func DetectInputFormat(name string, head []byte) InputFormat {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".html", ".htm":
		return FormatHTML
	case ".txt", ".lst":
		return FormatText
	}

	if bytes.HasPrefix(head, zipMagic) {
		return FormatXLSX
	}
	lower := bytes.ToLower(head)
	if bytes.Contains(lower, []byte("<table")) || bytes.Contains(lower, []byte("<html")) {
		return FormatHTML
	}
	if len(bytes.TrimSpace(head)) > 0 && !bytes.ContainsRune(head, 0) {
		return FormatText
	}
	return FormatUnknown
}
