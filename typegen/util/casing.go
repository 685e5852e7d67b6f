package util

import (
	"strings"
	"unicode"
)

// ToPascalCase converts property and message names to PascalCase for
// synthetic type names: "user_id" -> "UserId", "pet.owner" -> "PetOwner".
// Characters that cannot appear in an identifier separate words.
// The rest of each word is kept as-is, so "HTTPServer" stays intact.
func ToPascalCase(s string) string {
	parts := strings.FieldsFunc(s, isWordSeparator)

	var result strings.Builder
	for _, part := range parts {
		// Capitalize first letter, keep rest as-is
		runes := []rune(part)
		result.WriteRune(unicode.ToUpper(runes[0]))
		result.WriteString(string(runes[1:]))
	}

	return result.String()
}

func isWordSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// JoinName appends suffix parts to a context name, PascalCasing each part.
// Empty parts are skipped.
func JoinName(base string, parts ...string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, p := range parts {
		b.WriteString(ToPascalCase(p))
	}
	return b.String()
}
