package template

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	synthesisAnswer   = regexp.MustCompile(`(?is)<ANSWER>(.*?)</ANSWER>`)
	synthesisResponse = regexp.MustCompile(`(?is)<RESPONSE>(.*?)</RESPONSE>`)
	insufficientData  = regexp.MustCompile(`(?is)<insufficient_data>(.*?)</insufficient_data>`)
)

func extractSynthesis(text string) (Document, error) {
	for _, pattern := range []*regexp.Regexp{synthesisAnswer, synthesisResponse} {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return Synthesis{Answer: strings.TrimSpace(m[1])}, nil
		}
	}
	return nil, fmt.Errorf("%w: no answer or response field", ErrMalformedTemplate)
}

func extractInsufficientData(text string) (Document, error) {
	m := insufficientData.FindStringSubmatch(text)
	if m == nil {
		return nil, fmt.Errorf("%w: insufficient_data is not closed", ErrMalformedTemplate)
	}
	return InsufficientData{Message: strings.TrimSpace(m[1])}, nil
}
