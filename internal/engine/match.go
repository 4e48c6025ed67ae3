package engine

import (
	"strings"

	"github.com/parleybot/parley/internal/script"
)

// synLookup reports whether word belongs to the synonym group tag.
type synLookup func(tag, word string) bool

// matchTokens matches a decomposition pattern against a token sequence.
// Wildcards capture greedily, longest first, so the leftmost wildcard pins
// the last viable occurrence of the fixed tokens that follow it
// (leftmost-longest). On success it returns one capture per pattern token:
// the matched word for fixed and synonym tokens, the space-joined captured
// words for wildcards.
func matchTokens(pattern []script.PatternToken, tokens []string, syn synLookup) ([]string, bool) {
	caps := make([]string, len(pattern))
	if !matchFrom(pattern, tokens, 0, 0, caps, syn) {
		return nil, false
	}
	return caps, true
}

func matchFrom(pattern []script.PatternToken, tokens []string, pi, ti int, caps []string, syn synLookup) bool {
	if pi == len(pattern) {
		return ti == len(tokens)
	}

	tok := pattern[pi]
	switch tok.Kind {
	case script.TokenWildcard:
		for n := len(tokens) - ti; n >= 0; n-- {
			if matchFrom(pattern, tokens, pi+1, ti+n, caps, syn) {
				caps[pi] = strings.Join(tokens[ti:ti+n], " ")
				return true
			}
		}
		return false

	case script.TokenWord:
		if ti >= len(tokens) {
			return false
		}
		word := strings.ToLower(tokens[ti])
		for _, alt := range tok.Alts {
			if word == alt {
				caps[pi] = tokens[ti]
				return matchFrom(pattern, tokens, pi+1, ti+1, caps, syn)
			}
		}
		return false

	case script.TokenSynonym:
		if ti >= len(tokens) || !syn(tok.Tag, strings.ToLower(tokens[ti])) {
			return false
		}
		caps[pi] = tokens[ti]
		return matchFrom(pattern, tokens, pi+1, ti+1, caps, syn)
	}
	return false
}
