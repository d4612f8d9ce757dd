package template

import "strings"

type extractFunc func(text string) (Document, error)

type dialect struct {
	name    Dialect
	markers []string
	extract extractFunc
}

// Registry is an ordered list of dialects. The first dialect with a marker
// present in the text wins. A Registry is not modified after construction.
type Registry struct {
	dialects []dialect
}

var defaultRegistry = &Registry{dialects: []dialect{
	{name: DialectRecommendations, markers: []string{"<recommendations>"}, extract: extractRecommendations},
	{name: DialectComparison, markers: []string{"<comparison_start>"}, extract: extractComparison},
	{name: DialectStatistical, markers: []string{"<statistical_analysis>"}, extract: extractStatistical},
	{name: DialectSynthesis, markers: []string{"<response_start>", "<answer>"}, extract: extractSynthesis},
	{name: DialectInsufficientData, markers: []string{"<insufficient_data>"}, extract: extractInsufficientData},
}}

func DefaultRegistry() *Registry { return defaultRegistry }

// Detect reports which dialect text is written in, or DialectUnrecognized.
func (r *Registry) Detect(text string) Dialect {
	if d, ok := r.match(text); ok {
		return d.name
	}
	return DialectUnrecognized
}

// Dialects lists the registered dialects in priority order.
func (r *Registry) Dialects() []Dialect {
	out := make([]Dialect, 0, len(r.dialects))
	for _, d := range r.dialects {
		out = append(out, d.name)
	}
	return out
}

func (r *Registry) match(text string) (dialect, bool) {
	lower := strings.ToLower(text)
	for _, d := range r.dialects {
		for _, marker := range d.markers {
			if strings.Contains(lower, marker) {
				return d, true
			}
		}
	}
	return dialect{}, false
}
