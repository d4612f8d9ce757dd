package template

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// responseFields is the lookup order for keyed response payloads.
var responseFields = []string{"answer", "text", "content", "response", "result"}

// ResponseText reduces an upstream response to display text. Maps are
// searched for the first non-empty preferred field; strings containing markup
// go through Extract.
func ResponseText(v any) string {
	return responseText(v, len(responseFields))
}

func responseText(v any, depth int) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return markupText(t)
	case Document:
		return t.Text()
	case map[string]any:
		if depth > 0 {
			for _, field := range responseFields {
				if val, ok := t[field]; ok && truthy(val) {
					return responseText(val, depth-1)
				}
			}
		}
		return fmt.Sprint(t)
	case map[string]string:
		if depth > 0 {
			for _, field := range responseFields {
				if val := t[field]; val != "" {
					return markupText(val)
				}
			}
		}
		return fmt.Sprint(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

// ResponseTextJSON is ResponseText for a raw JSON payload. Input that is not
// valid JSON is treated as text.
func ResponseTextJSON(raw []byte) string {
	if !gjson.ValidBytes(raw) {
		return markupText(string(raw))
	}
	return jsonText(gjson.ParseBytes(raw), len(responseFields))
}

func jsonText(r gjson.Result, depth int) string {
	switch {
	case r.Type == gjson.Null:
		return ""
	case r.Type == gjson.String:
		return markupText(r.Str)
	case r.IsObject():
		if depth > 0 {
			for _, field := range responseFields {
				if val := r.Get(field); jsonTruthy(val) {
					return jsonText(val, depth-1)
				}
			}
		}
		return r.Raw
	default:
		return r.String()
	}
}

func markupText(s string) string {
	if !strings.Contains(s, "<") || !strings.Contains(s, ">") {
		return s
	}
	if extracted := Extract(s).Text(); extracted != "" {
		return extracted
	}
	return s
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case map[string]any:
		return len(t) > 0
	case []any:
		return len(t) > 0
	default:
		return true
	}
}

func jsonTruthy(r gjson.Result) bool {
	if !r.Exists() {
		return false
	}
	switch r.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.JSON:
		if r.IsArray() {
			return len(r.Array()) > 0
		}
		return len(r.Map()) > 0
	default:
		return true
	}
}

var (
	numberingPrefix = regexp.MustCompile(`^\d+[.)]\s*`)
	bulletCutsets   = []string{"- ", "* ", "• "}
)

// ResponseLines splits the response text into non-empty lines with list
// bullets and numbering removed.
func ResponseLines(v any) []string {
	text := ResponseText(v)
	if text == "" {
		return []string{}
	}

	lines := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		for _, cutset := range bulletCutsets {
			line = strings.TrimLeft(line, cutset)
		}
		line = numberingPrefix.ReplaceAllString(line, "")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
