// Package policy applies data-handling rules to conversation text before it
// is persisted.
package policy

import "regexp"

type redactor struct {
	pattern *regexp.Regexp
	mask    string
}

// Card redaction runs before phone so card numbers are not classified as
// phone numbers.
var redactors = []redactor{
	{regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`), "[REDACTED_EMAIL]"},
	{regexp.MustCompile(`\b(?:\d[ -]*?){13,19}\b`), "[REDACTED_CARD]"},
	{regexp.MustCompile(`\+?[0-9][0-9\-() ]{7,}[0-9]`), "[REDACTED_PHONE]"},
}

// RedactTurn masks common high-risk PII patterns in an utterance or response
// before it reaches the transcript store.
func RedactTurn(input string) (redacted string, changed bool) {
	out := input
	for _, r := range redactors {
		next := r.pattern.ReplaceAllString(out, r.mask)
		changed = changed || next != out
		out = next
	}
	return out, changed
}
