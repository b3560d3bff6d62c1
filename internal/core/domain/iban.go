package domain

import (
	"regexp"
	"strings"
	"unicode"
)

var ibanPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]{4,30}$`)

// NormalizeIBAN strips all whitespace and upper-cases s. It is idempotent.
func NormalizeIBAN(s string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s))
}

// ValidIBAN reports whether s, after normalization, has the structural IBAN
// shape: two letters, two digits, four to thirty alphanumerics.
func ValidIBAN(s string) bool {
	return ibanPattern.MatchString(NormalizeIBAN(s))
}
