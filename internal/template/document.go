package template

import (
	"fmt"
	"strings"
)

type Dialect string

const (
	DialectRecommendations  Dialect = "recommendations"
	DialectComparison       Dialect = "comparison"
	DialectStatistical      Dialect = "statistical_analysis"
	DialectSynthesis        Dialect = "synthesis"
	DialectInsufficientData Dialect = "insufficient_data"
	DialectUnrecognized     Dialect = "unrecognized"
)

// Document is the structured form of one piece of generated text. The set of
// implementations is closed; consumers switch over the concrete types.
type Document interface {
	Dialect() Dialect
	// Text renders the document for display.
	Text() string
	document()
}

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// ParsePriority is case-insensitive. Anything unrecognized is Medium.
func ParsePriority(label string) Priority {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "high":
		return PriorityHigh
	case "low":
		return PriorityLow
	default:
		return PriorityMedium
	}
}

type Recommendation struct {
	Action        string   `json:"action"`
	Justification string   `json:"justification"`
	Priority      Priority `json:"priority"`
}

type Recommendations struct {
	Items []Recommendation `json:"items"`
}

type VendorAnalysis struct {
	Name        string `json:"name"`
	Performance string `json:"performance"`
	Strengths   string `json:"strengths"`
	Concerns    string `json:"concerns"`
}

type Comparison struct {
	Summary        string           `json:"summary,omitempty"`
	Vendors        []VendorAnalysis `json:"vendors"`
	Recommendation string           `json:"recommendation,omitempty"`
}

type StatisticalAnalysis struct {
	Summary         string   `json:"summary,omitempty"`
	Findings        []string `json:"findings"`
	BusinessImpact  string   `json:"business_impact,omitempty"`
	Recommendations []string `json:"recommendations"`
}

type Synthesis struct {
	Answer string `json:"answer"`
}

type InsufficientData struct {
	Message string `json:"message"`
}

// Unrecognized carries tag-stripped text when no dialect applied or a
// recognized dialect could not be parsed.
type Unrecognized struct {
	Content string `json:"content"`
}

func (Recommendations) Dialect() Dialect     { return DialectRecommendations }
func (Comparison) Dialect() Dialect          { return DialectComparison }
func (StatisticalAnalysis) Dialect() Dialect { return DialectStatistical }
func (Synthesis) Dialect() Dialect           { return DialectSynthesis }
func (InsufficientData) Dialect() Dialect    { return DialectInsufficientData }
func (Unrecognized) Dialect() Dialect        { return DialectUnrecognized }

func (Recommendations) document()     {}
func (Comparison) document()          {}
func (StatisticalAnalysis) document() {}
func (Synthesis) document()           {}
func (InsufficientData) document()    {}
func (Unrecognized) document()        {}

func (d Recommendations) Text() string {
	if len(d.Items) == 0 {
		return "No recommendations provided."
	}
	items := make([]string, 0, len(d.Items))
	for i, rec := range d.Items {
		items = append(items, fmt.Sprintf("%d. %s (Priority: %s)\n   Justification: %s", i+1, rec.Action, rec.Priority, rec.Justification))
	}
	return "Strategic Recommendations:\n\n" + strings.Join(items, "\n\n")
}

func (d Comparison) Text() string {
	var lines []string
	if d.Summary != "" {
		lines = append(lines, "Summary: "+d.Summary+"\n")
	}
	for _, v := range d.Vendors {
		lines = append(lines,
			"**"+v.Name+"**",
			"Performance: "+v.Performance,
			"Strengths: "+v.Strengths,
			"Concerns: "+v.Concerns+"\n",
		)
	}
	if d.Recommendation != "" {
		lines = append(lines, "Recommendation: "+d.Recommendation)
	}
	return strings.Join(lines, "\n")
}

func (d StatisticalAnalysis) Text() string {
	var lines []string
	if d.Summary != "" {
		lines = append(lines, "Summary: "+d.Summary+"\n")
	}
	if len(d.Findings) > 0 {
		lines = append(lines, "Key Findings:")
		for i, f := range d.Findings {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, f))
		}
		lines = append(lines, "")
	}
	if d.BusinessImpact != "" {
		lines = append(lines, "Business Impact: "+d.BusinessImpact+"\n")
	}
	if len(d.Recommendations) > 0 {
		lines = append(lines, "Recommendations:")
		for _, r := range d.Recommendations {
			lines = append(lines, "- "+r)
		}
	}
	if len(lines) == 0 {
		return "Could not extract statistical analysis from the response."
	}
	return strings.Join(lines, "\n")
}

func (d Synthesis) Text() string        { return d.Answer }
func (d InsufficientData) Text() string { return d.Message }
func (d Unrecognized) Text() string     { return d.Content }
