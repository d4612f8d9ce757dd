package util

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	amountPattern    = regexp.MustCompile(`-?\d[\d\s.,]*`)
	thousandsDots    = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)
	thousandsCommas  = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+$`)
	currencyReplacer = strings.NewReplacer("$", "", "€", "", "£", "", "\u00a0", " ", "USD", "", "EUR", "")
)

// ParseAmount reads a money cell such as "$1,500.00", "1 500,50" or "(200)".
// It returns nil when the cell holds no number.
func ParseAmount(input string) *float64 {
	s := strings.TrimSpace(currencyReplacer.Replace(strings.ToUpper(input)))
	if s == "" {
		return nil
	}

	negative := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
	s = strings.Trim(s, "()")

	token := strings.TrimSpace(amountPattern.FindString(s))
	if token == "" {
		return nil
	}
	if strings.HasPrefix(token, "-") {
		negative = true
		token = token[1:]
	}

	parsed, err := strconv.ParseFloat(normalizeNumericToken(token), 64)
	if err != nil {
		return nil
	}
	if negative {
		parsed = -parsed
	}
	return FloatPtr(parsed)
}

func normalizeNumericToken(token string) string {
	compact := strings.Trim(strings.ReplaceAll(token, " ", ""), ".,")
	if thousandsDots.MatchString(compact) {
		return strings.ReplaceAll(compact, ".", "")
	}
	if thousandsCommas.MatchString(compact) {
		return strings.ReplaceAll(compact, ",", "")
	}
	lastDot := strings.LastIndex(compact, ".")
	lastComma := strings.LastIndex(compact, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0 && lastDot > lastComma:
		return strings.ReplaceAll(compact, ",", "")
	case lastDot >= 0 && lastComma >= 0:
		return strings.ReplaceAll(strings.ReplaceAll(compact, ".", ""), ",", ".")
	case lastComma >= 0:
		return strings.ReplaceAll(compact, ",", ".")
	}
	return compact
}
