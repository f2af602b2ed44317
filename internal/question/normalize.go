package question

import (
	"strings"
	"unicode"
)

// SanitizeText collapses whitespace runs to single spaces and trims.
func SanitizeText(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// NormalizeID strips bracket and hash decoration from a claimed identifier
// and lowercases it. An empty result means the identifier is absent.
func NormalizeID(value string) string {
	trimmed := strings.TrimLeftFunc(value, func(r rune) bool {
		return r == '[' || r == '(' || r == '#' || unicode.IsSpace(r)
	})
	trimmed = strings.TrimRightFunc(trimmed, func(r rune) bool {
		return r == ']' || r == ')' || unicode.IsSpace(r)
	})
	return strings.ToLower(trimmed)
}

// NormalizeLabel reduces label text to lowercase letters and digits so that
// notational differences (unicode minus, spacing, punctuation) compare equal.
func NormalizeLabel(value string) string {
	value = strings.ReplaceAll(value, "−", "-")
	value = strings.ToLower(SanitizeText(value))
	var b strings.Builder
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DeriveChoiceLetter encodes a 0-based index as A, B, ... Z, AA, AB, ...
func DeriveChoiceLetter(index int) string {
	if index < 0 {
		return ""
	}
	var letters []byte
	for n := index + 1; n > 0; n /= 26 {
		n--
		letters = append(letters, byte('A'+n%26))
	}
	for i, j := 0, len(letters)-1; i < j; i, j = i+1, j-1 {
		letters[i], letters[j] = letters[j], letters[i]
	}
	return string(letters)
}
