package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the case-insensitive comparison form of s.
//
// Strings are NFC normalized before lower-casing so that composed and
// decomposed spellings of the same name compare equal. Casers are not safe
// for concurrent use, so one is created per call on the non-ASCII path.
func Fold(s string) string {
	if isASCII(s) {
		return strings.ToLower(s)
	}
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
