package template

import (
	"fmt"
	"regexp"
	"strings"
)

const maxComparisonVendors = 10

var (
	comparisonSummary        = regexp.MustCompile(`(?is)<SUMMARY>(.*?)</SUMMARY>`)
	comparisonRecommendation = regexp.MustCompile(`(?is)<RECOMMENDATION>(.*?)</RECOMMENDATION>`)
	comparisonVendors        = vendorPatterns(maxComparisonVendors)
)

func vendorPatterns(n int) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, regexp.MustCompile(fmt.Sprintf(
			`(?is)<VENDOR%[1]d>\s*<NAME>(.*?)</NAME>\s*<PERFORMANCE>(.*?)</PERFORMANCE>\s*(?:<STRENGTHS>(.*?)</STRENGTHS>)?\s*(?:<CONCERNS>(.*?)</CONCERNS>)?\s*</VENDOR%[1]d>`, i)))
	}
	return out
}

func extractComparison(text string) (Document, error) {
	doc := Comparison{Vendors: []VendorAnalysis{}}
	found := false

	if m := comparisonSummary.FindStringSubmatch(text); m != nil {
		doc.Summary = strings.TrimSpace(m[1])
		found = true
	}

	for _, pattern := range comparisonVendors {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		doc.Vendors = append(doc.Vendors, VendorAnalysis{
			Name:        strings.TrimSpace(m[1]),
			Performance: strings.TrimSpace(m[2]),
			Strengths:   orDefault(m[3], "Not specified"),
			Concerns:    orDefault(m[4], "None identified"),
		})
		found = true
	}

	if m := comparisonRecommendation.FindStringSubmatch(text); m != nil {
		doc.Recommendation = strings.TrimSpace(m[1])
		found = true
	}

	if !found {
		return nil, fmt.Errorf("%w: comparison has no summary, vendor or recommendation", ErrMalformedTemplate)
	}
	return doc, nil
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
