package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stringerResponse struct{ body string }

func (s stringerResponse) String() string { return s.body }

func TestResponseText(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"plain string", "Dell received $1.5M", "Dell received $1.5M"},
		{"template string", "<response_start><answer> Dell </answer>", "Dell"},
		{"lone angle bracket", "spend < 100", "spend < 100"},
		{"tags only", "<br>", "<br>"},
		{"answer field", map[string]any{"answer": "42", "text": "ignored"}, "42"},
		{"skips empty fields", map[string]any{"answer": "", "text": nil, "content": "body"}, "body"},
		{"falsy values skipped", map[string]any{"answer": 0, "text": false, "result": "last"}, "last"},
		{"nested", map[string]any{"response": map[string]any{"content": "<answer>deep</answer>"}}, "deep"},
		{"string map", map[string]string{"result": "<insufficient_data>Not enough</insufficient_data>"}, "Not enough"},
		{"document", Synthesis{Answer: "from doc"}, "from doc"},
		{"stringer", stringerResponse{body: "stringer body"}, "stringer body"},
		{"number", 3.5, "3.5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResponseText(tc.in))
		})
	}
}

func TestResponseTextUnknownMapFallsBackToPrint(t *testing.T) {
	out := ResponseText(map[string]any{"other": "x"})
	assert.Equal(t, "map[other:x]", out)
}

func TestResponseTextDepthIsBounded(t *testing.T) {
	var v any = "core"
	for i := 0; i < len(responseFields)+2; i++ {
		v = map[string]any{"answer": v}
	}
	out := ResponseText(v)
	assert.NotEqual(t, "core", out)
	assert.Contains(t, out, "core")
}

func TestResponseTextJSON(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"answer", `{"answer":"Dell","text":"no"}`, "Dell"},
		{"preference order", `{"result":"last","content":"first"}`, "first"},
		{"empty skipped", `{"answer":"","text":null,"content":0,"response":{},"result":"ok"}`, "ok"},
		{"nested template", `{"response":{"answer":"<answer>Oracle</answer>"}}`, "Oracle"},
		{"string payload", `"<insufficient_data> none </insufficient_data>"`, "none"},
		{"no known field", `{"foo":1}`, `{"foo":1}`},
		{"null", `null`, ""},
		{"number", `12.5`, "12.5"},
		{"not json", `<answer>raw</answer>`, "raw"},
		{"plain text", `just words`, "just words"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResponseTextJSON([]byte(tc.raw)))
		})
	}
}

func TestResponseLines(t *testing.T) {
	in := "Top vendors:\n\n- DELL INC\n* ORACLE AMERICA, INC.\n• Microsoft Corporation\n1. first\n2) second\n   \n"
	assert.Equal(t, []string{
		"Top vendors:",
		"DELL INC",
		"ORACLE AMERICA, INC.",
		"Microsoft Corporation",
		"first",
		"second",
	}, ResponseLines(in))

	assert.Equal(t, []string{}, ResponseLines(nil))
	assert.Equal(t, []string{"Consolidate"}, ResponseLines(map[string]any{"answer": "<answer>1. Consolidate</answer>"}))
}
