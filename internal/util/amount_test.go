package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "plain", input: "1500", want: 1500},
		{name: "dollar with separators", input: "$1,500.00", want: 1500},
		{name: "thousand with space", input: "1 000", want: 1000},
		{name: "decimal comma", input: "1,5", want: 1.5},
		{name: "european", input: "1.234,50", want: 1234.5},
		{name: "thousand dot", input: "1.000", want: 1000},
		{name: "thousand comma", input: "12,000", want: 12000},
		{name: "accounting negative", input: "(200.00)", want: -200},
		{name: "minus", input: "-75.25", want: -75.25},
		{name: "currency code", input: "USD 99.99", want: 99.99},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseAmount(tc.input)
			require.NotNil(t, got)
			require.InDelta(t, tc.want, *got, 1e-9)
		})
	}
}

func TestParseAmountEmpty(t *testing.T) {
	require.Nil(t, ParseAmount(""))
	require.Nil(t, ParseAmount("n/a"))
	require.Nil(t, ParseAmount("$"))
}
