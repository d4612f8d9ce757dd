package stats

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrNoData = errors.New("no data available for statistical analysis")

type Metric string

const (
	MetricAll    Metric = "all"
	MetricMean   Metric = "mean"
	MetricMedian Metric = "median"
	MetricMin    Metric = "min"
	MetricMax    Metric = "max"
)

func ParseMetric(name string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(name)))
	switch m {
	case "":
		return MetricAll, nil
	case MetricAll, MetricMean, MetricMedian, MetricMin, MetricMax:
		return m, nil
	default:
		return "", fmt.Errorf("unknown metric %q", name)
	}
}

// Summary holds every metric. For a single-metric request Value carries the
// requested one.
type Summary struct {
	Metric          Metric  `json:"metric"`
	Mean            float64 `json:"mean"`
	Median          float64 `json:"median"`
	Min             float64 `json:"min"`
	Max             float64 `json:"max"`
	Value           float64 `json:"value,omitempty"`
	RecordsAnalyzed int     `json:"records_analyzed"`
}

func Calculate(values []float64, metric Metric) (Summary, error) {
	metric, err := ParseMetric(string(metric))
	if err != nil {
		return Summary{}, err
	}
	if len(values) == 0 {
		return Summary{}, ErrNoData
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	s := Summary{
		Metric:          metric,
		Mean:            sum / float64(len(sorted)),
		Median:          median(sorted),
		Min:             sorted[0],
		Max:             sorted[len(sorted)-1],
		RecordsAnalyzed: len(sorted),
	}

	switch metric {
	case MetricMean:
		s.Value = s.Mean
	case MetricMedian:
		s.Value = s.Median
	case MetricMin:
		s.Value = s.Min
	case MetricMax:
		s.Value = s.Max
	}
	return s, nil
}

func median(sorted []float64) float64 {
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
