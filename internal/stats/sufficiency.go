package stats

import "fmt"

type AnalysisKind string

const (
	KindComparison  AnalysisKind = "comparison"
	KindStatistical AnalysisKind = "statistical"
)

type Minimums struct {
	ComparisonVendors  int
	StatisticalRecords int
}

// CheckSufficiency reports whether found items are enough for the analysis
// kind. The message is empty when they are.
func CheckSufficiency(kind AnalysisKind, found int, req Minimums) (bool, string) {
	switch kind {
	case KindComparison:
		if found < req.ComparisonVendors {
			return false, fmt.Sprintf("Insufficient data for comparison: at least %d vendors are required, found %d.", req.ComparisonVendors, found)
		}
	case KindStatistical:
		if found < req.StatisticalRecords {
			return false, fmt.Sprintf("Insufficient data for statistical analysis: at least %d records are required, found %d.", req.StatisticalRecords, found)
		}
	}
	return true, ""
}
