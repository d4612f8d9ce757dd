package template

import (
	"fmt"
	"regexp"
)

var recommendationsStart = regexp.MustCompile(`(?i)<recommendations>`)

func extractRecommendations(text string) (Document, error) {
	loc := recommendationsStart.FindStringIndex(text)
	if loc == nil {
		return nil, fmt.Errorf("%w: no recommendations block", ErrMalformedTemplate)
	}
	root, err := parseTree(text[loc[0]:])
	if err != nil {
		return nil, fmt.Errorf("%w: recommendations: %w", ErrMalformedTemplate, err)
	}

	doc := Recommendations{Items: []Recommendation{}}
	for _, rec := range root.findAll("recommendation") {
		doc.Items = append(doc.Items, Recommendation{
			Action:        rec.findText("action", "N/A"),
			Justification: rec.findText("justification", "N/A"),
			Priority:      ParsePriority(rec.findText("priority", string(PriorityMedium))),
		})
	}
	return doc, nil
}
