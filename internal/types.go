package internal

import "errors"

// ErrDataSourceUnavailable marks a failed read against the vendor data source.
// It is distinct from an empty resolution and callers may retry on it.
var ErrDataSourceUnavailable = errors.New("vendor data source unavailable")

type MatchStrategy string

type ResolutionStatus string

const (
	StrategyExact      MatchStrategy = "EXACT"
	StrategyAlias      MatchStrategy = "ALIAS"
	StrategyNormalized MatchStrategy = "NORMALIZED"
	StrategyFuzzy      MatchStrategy = "FUZZY"
	StrategyNone       MatchStrategy = "NONE"

	StatusResolved  ResolutionStatus = "RESOLVED"
	StatusAmbiguous ResolutionStatus = "AMBIGUOUS"
	StatusNotFound  ResolutionStatus = "NOT_FOUND"
)

// Confidence assigned to the non-fuzzy stages. Fuzzy candidates carry their similarity.
const (
	ConfidenceExact      = 1.0
	ConfidenceAlias      = 0.95
	ConfidenceNormalized = 0.9
)

type MatchCandidate struct {
	Name     string        `json:"name"`
	Strategy MatchStrategy `json:"strategy"`
	Score    float64       `json:"score"`
}

type Resolution struct {
	Query      string           `json:"query"`
	Status     ResolutionStatus `json:"status"`
	Strategy   MatchStrategy    `json:"strategy"`
	Names      []string         `json:"names"`
	Candidates []MatchCandidate `json:"candidates"`
}

// NewResolution builds a resolution from the candidates of the winning stage,
// keeping their order.
func NewResolution(query string, strategy MatchStrategy, candidates []MatchCandidate) Resolution {
	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.Name)
	}
	status := StatusNotFound
	switch {
	case len(names) == 1:
		status = StatusResolved
	case len(names) > 1:
		status = StatusAmbiguous
	}
	if len(names) == 0 {
		strategy = StrategyNone
	}
	if candidates == nil {
		candidates = []MatchCandidate{}
	}
	return Resolution{Query: query, Status: status, Strategy: strategy, Names: names, Candidates: candidates}
}

func (r Resolution) Found() bool { return len(r.Names) > 0 }

// Confidence is the score of the best candidate, or 0 for an empty resolution.
func (r Resolution) Confidence() float64 {
	if len(r.Candidates) == 0 {
		return 0
	}
	return r.Candidates[0].Score
}

type AliasEntry struct {
	Alias     string
	Canonical string
}

// Sources recorded on imported procurement rows.
const (
	SourceXLSX      = "xlsx"
	SourceHTMLTable = "html_table"
)

type ProcurementRow struct {
	LineNo        int
	Source        string
	VendorName    string
	ItemTotalCost *float64
	RawLine       string
}

type ResolutionExportRow struct {
	InputLineNo     int
	Query           string
	Status          string
	Strategy        string
	Confidence      float64
	ResolvedNames   []string
	Candidate2Name  *string
	Candidate2Score *float64
}
