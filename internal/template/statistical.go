package template

import (
	"fmt"
	"regexp"
	"strings"
)

var statisticalStart = regexp.MustCompile(`(?i)<statistical_analysis>`)

func extractStatistical(text string) (Document, error) {
	loc := statisticalStart.FindStringIndex(text)
	if loc == nil {
		return nil, fmt.Errorf("%w: no statistical_analysis block", ErrMalformedTemplate)
	}
	root, err := parseTree(text[loc[0]:])
	if err != nil {
		return nil, fmt.Errorf("%w: statistical analysis: %w", ErrMalformedTemplate, err)
	}

	return StatisticalAnalysis{
		Summary:         root.findText("summary", ""),
		Findings:        texts(root.findAll("findings/finding")),
		BusinessImpact:  root.findText("business_impact", ""),
		Recommendations: texts(root.findAll("recommendations/recommendation")),
	}, nil
}

// texts keeps document order and drops blank entries.
func texts(nodes []*node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if t := strings.TrimSpace(n.text); t != "" {
			out = append(out, t)
		}
	}
	return out
}
