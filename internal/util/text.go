package util

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reSeparators = regexp.MustCompile(`[-/_]`)
	reSpaces     = regexp.MustCompile(`\s+`)

	nonSpacingMarks = runes.In(unicode.Mn)
)

// legalSuffixes are dropped from the tail of a normalized vendor name.
var legalSuffixes = map[string]struct{}{
	"INC": {}, "INCORPORATED": {}, "CORP": {}, "CORPORATION": {}, "CO": {}, "COMPANY": {},
	"LLC": {}, "LTD": {}, "LIMITED": {}, "LP": {}, "LLP": {}, "PLC": {}, "PLLC": {},
	"GMBH": {}, "AG": {}, "SA": {}, "NV": {}, "BV": {},
}

// Normalize produces the comparison key for a vendor name: accents folded,
// upper-cased, punctuation dropped, whitespace collapsed and trailing legal
// suffixes removed. "ORACLE AMERICA, INC." and "Oracle America" share a key.
func Normalize(input string) string {
	// A Chain holds buffers, so each call builds its own.
	foldMarks := transform.Chain(norm.NFKD, runes.Remove(nonSpacingMarks), norm.NFC)
	s, _, err := transform.String(foldMarks, input)
	if err != nil {
		s = input
	}
	s = strings.ToUpper(s)
	s = reSeparators.ReplaceAllString(s, " ")

	b := strings.Builder{}
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	s = reSpaces.ReplaceAllString(b.String(), " ")
	s = strings.TrimSpace(s)

	return stripLegalSuffixes(s)
}

func stripLegalSuffixes(s string) string {
	tokens := strings.Split(s, " ")
	end := len(tokens)
	for end > 1 {
		if _, ok := legalSuffixes[tokens[end-1]]; !ok {
			break
		}
		end--
	}
	if end == len(tokens) {
		return s
	}
	return strings.Join(tokens[:end], " ")
}

// Similarity is the edit-distance ratio of two keys in [0, 1].
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1 - float64(distance)/float64(maxLen)
}
