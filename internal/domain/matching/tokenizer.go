package matching

import (
	"strings"
	"unicode"
)

// Tokenize lowercases text and splits it into word tokens.
//
// Letters, digits and the joiners + # . _ are word runes, so "c++", "c#" and
// "node.js" survive as single tokens. Everything else separates tokens.
// Trailing dots (sentence ends), a leading ellipsis and leading # or + are
// trimmed from each token.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ToLower(strings.ToValidUTF8(text, " "))

	tokens := make([]string, 0, len(text)/6+1)
	var word strings.Builder
	flush := func() {
		if word.Len() == 0 {
			return
		}
		if t := trimToken(word.String()); t != "" {
			tokens = append(tokens, t)
		}
		word.Reset()
	}

	for _, r := range text {
		if isWordRune(r) {
			word.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	return tokens
}

// NormalizePhrase returns the canonical form of a skill phrase: its tokens
// joined by a single space.
func NormalizePhrase(phrase string) string {
	return strings.Join(Tokenize(phrase), " ")
}

func isWordRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case '+', '#', '.', '_':
		return true
	}
	return false
}

func trimToken(t string) string {
	t = strings.TrimRight(t, ".")
	if strings.HasPrefix(t, "..") {
		t = strings.TrimLeft(t, ".")
	}
	t = strings.TrimLeft(t, "#+")
	// "#." or "+." leftovers
	if strings.Trim(t, ".#+_") == "" {
		return ""
	}
	return t
}
