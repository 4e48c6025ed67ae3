package engine

import (
	"strings"
	"unicode"
)

// sentences splits an utterance on sentence-relevant punctuation. Only one
// sentence is transformed per turn: the first that yields a keyword.
func sentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case '.', ',', ';', '?', '!':
			return true
		}
		return false
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// tokenize splits a sentence into word tokens. Apostrophes and hyphens stay
// inside words ("i'm", "self-esteem"); remaining punctuation separates.
func tokenize(sentence string) []string {
	return strings.FieldsFunc(sentence, func(r rune) bool {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
		return r != '\'' && r != '-'
	})
}

// detokenize renders a response: single spaces, no leading or trailing
// blanks left by empty wildcard captures.
func detokenize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
