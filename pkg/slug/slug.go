// Package slug builds URL slugs that keep non-latin letters.
package slug

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var lower = cases.Lower(language.Und)

// Make lowercases s, drops everything but letters, digits, '_' and '-', joins
// words with single hyphens and cuts the result to maxLen runes (0 = no limit).
func Make(s string, maxLen int) string {
	s = lower.String(norm.NFKC.String(s))
	var b strings.Builder
	pendingDash := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingDash = true
		}
	}
	out := strings.Trim(b.String(), "-_")
	if maxLen > 0 {
		if rs := []rune(out); len(rs) > maxLen {
			out = strings.Trim(string(rs[:maxLen]), "-_")
		}
	}
	return out
}

// Unique returns base, or base-N with the smallest N >= 1 that taken reports free.
func Unique(base string, taken func(candidate string) (bool, error)) (string, error) {
	candidate := base
	for n := 1; ; n++ {
		used, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !used {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
