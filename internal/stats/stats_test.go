package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateAll(t *testing.T) {
	values := []float64{50, 10, 30, 20, 40}

	s, err := Calculate(values, MetricAll)
	require.NoError(t, err)
	assert.Equal(t, 30.0, s.Mean)
	assert.Equal(t, 30.0, s.Median)
	assert.Equal(t, 10.0, s.Min)
	assert.Equal(t, 50.0, s.Max)
	assert.Equal(t, 5, s.RecordsAnalyzed)
	assert.Equal(t, []float64{50, 10, 30, 20, 40}, values, "input must not be reordered")
}

func TestCalculateSingleMetric(t *testing.T) {
	s, err := Calculate([]float64{10, 20, 30, 40, 50}, MetricMedian)
	require.NoError(t, err)
	assert.Equal(t, 30.0, s.Value)

	s, err = Calculate([]float64{4, 1, 3, 2}, MetricMedian)
	require.NoError(t, err)
	assert.Equal(t, 2.5, s.Value)

	s, err = Calculate([]float64{4, 1, 3, 2}, MetricMax)
	require.NoError(t, err)
	assert.Equal(t, 4.0, s.Value)
}

func TestCalculateErrors(t *testing.T) {
	_, err := Calculate(nil, MetricAll)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = Calculate([]float64{1}, Metric("mode"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoData)
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric(" MEAN ")
	require.NoError(t, err)
	assert.Equal(t, MetricMean, m)

	m, err = ParseMetric("")
	require.NoError(t, err)
	assert.Equal(t, MetricAll, m)

	_, err = ParseMetric("p95")
	assert.Error(t, err)
}

func TestCheckSufficiency(t *testing.T) {
	req := Minimums{ComparisonVendors: 2, StatisticalRecords: 1}

	ok, msg := CheckSufficiency(KindComparison, 3, req)
	assert.True(t, ok)
	assert.Empty(t, msg)

	ok, msg = CheckSufficiency(KindComparison, 1, req)
	assert.False(t, ok)
	assert.Equal(t, "Insufficient data for comparison: at least 2 vendors are required, found 1.", msg)

	ok, msg = CheckSufficiency(KindStatistical, 0, req)
	assert.False(t, ok)
	assert.Contains(t, msg, "found 0")

	ok, _ = CheckSufficiency(AnalysisKind("synthesis"), 0, req)
	assert.True(t, ok)
}
