package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Lower lowercases s with Unicode case mapping ("STRAßE" -> "straße").
// A Caser is stateful, so each call builds its own.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// ToCamelCase converts snake_case, kebab-case, space separated and
// PascalCase names to camelCase. All-caps words are lowered first, so
// "USER_ID" becomes "userId" and "ID" becomes "id".
func ToCamelCase(s string) string {
	words := splitWords(s)
	if len(words) == 0 {
		return s
	}

	var sb strings.Builder
	for i, w := range words {
		if isAllUpper(w) {
			w = Lower(w)
		}
		runes := []rune(w)
		if i == 0 {
			runes[0] = unicode.ToLower(runes[0])
		} else {
			runes[0] = unicode.ToUpper(runes[0])
		}
		sb.WriteString(string(runes))
	}
	return sb.String()
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
}

func isAllUpper(s string) bool {
	hasUpper := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}
