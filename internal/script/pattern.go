package script

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenKind classifies one decomposition pattern token.
type TokenKind int

const (
	// TokenWildcard captures zero or more words ("*").
	TokenWildcard TokenKind = iota
	// TokenWord matches one word from a fixed alternative set ("no" or
	// "want|need").
	TokenWord
	// TokenSynonym matches one word of a synonym group ("@family").
	TokenSynonym
)

// PatternToken is one element of a parsed decomposition pattern.
type PatternToken struct {
	Kind TokenKind
	// Alts holds the lowercase alternatives for TokenWord.
	Alts []string
	// Tag names the synonym group for TokenSynonym.
	Tag string
}

// ParsePattern splits a pattern string into tokens. It rejects empty patterns
// and empty alternatives but performs no synonym resolution; Validate checks
// tags against the owning script.
func ParsePattern(pattern string) ([]PatternToken, error) {
	fields := strings.Fields(pattern)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty pattern")
	}
	tokens := make([]PatternToken, 0, len(fields))
	for _, f := range fields {
		switch {
		case f == "*":
			tokens = append(tokens, PatternToken{Kind: TokenWildcard})
		case strings.HasPrefix(f, "@"):
			tag := strings.ToLower(strings.TrimPrefix(f, "@"))
			if tag == "" {
				return nil, fmt.Errorf("empty synonym tag in pattern %q", pattern)
			}
			tokens = append(tokens, PatternToken{Kind: TokenSynonym, Tag: tag})
		default:
			alts := strings.Split(strings.ToLower(f), "|")
			for _, a := range alts {
				if a == "" {
					return nil, fmt.Errorf("empty alternative in pattern token %q", f)
				}
			}
			tokens = append(tokens, PatternToken{Kind: TokenWord, Alts: alts})
		}
	}
	return tokens, nil
}

// TemplateKind classifies a reassembly template.
type TemplateKind int

const (
	// TemplateText is a plain reassembly template.
	TemplateText TemplateKind = iota
	// TemplateRedirect re-enters matching under another keyword ("=what").
	TemplateRedirect
	// TemplateNewKey abandons the current keyword ("NEWKEY").
	TemplateNewKey
)

// Segment is one piece of a parsed text template: either a literal or a
// back-reference to a pattern capture (1-based).
type Segment struct {
	Literal string
	Ref     int
}

// Template is a parsed reassembly template.
type Template struct {
	Kind     TemplateKind
	Target   string // redirect keyword, lowercase
	Segments []Segment
}

// ParseTemplate parses a reassembly template or marker. maxRef is the number
// of captures available (the pattern token count); back-references beyond it
// are rejected, as is any back-reference when maxRef is zero.
func ParseTemplate(tpl string, maxRef int) (Template, error) {
	if tpl == NewKeyMarker {
		return Template{Kind: TemplateNewKey}, nil
	}
	if strings.HasPrefix(tpl, RedirectPrefix) {
		target := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(tpl, RedirectPrefix)))
		if target == "" {
			return Template{}, fmt.Errorf("redirect with empty target in template %q", tpl)
		}
		return Template{Kind: TemplateRedirect, Target: target}, nil
	}

	segs, err := parseSegments(tpl, maxRef)
	if err != nil {
		return Template{}, err
	}
	return Template{Kind: TemplateText, Segments: segs}, nil
}

func parseSegments(tpl string, maxRef int) ([]Segment, error) {
	var segs []Segment
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, Segment{Literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(tpl); {
		if tpl[i] != '$' {
			lit.WriteByte(tpl[i])
			i++
			continue
		}
		j := i + 1
		for j < len(tpl) && tpl[j] >= '0' && tpl[j] <= '9' {
			j++
		}
		if j == i+1 {
			// Lone "$" stays literal.
			lit.WriteByte(tpl[i])
			i++
			continue
		}
		n, err := strconv.Atoi(tpl[i+1 : j])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid back-reference in template %q", tpl)
		}
		if n > maxRef {
			return nil, fmt.Errorf("back-reference $%d exceeds %d captures in template %q", n, maxRef, tpl)
		}
		flush()
		segs = append(segs, Segment{Ref: n})
		i = j
	}
	flush()
	if len(segs) == 0 {
		return nil, fmt.Errorf("empty template")
	}
	return segs, nil
}
