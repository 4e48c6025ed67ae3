package script

import (
	"fmt"
	"strings"
)

// ValidationError collects every problem found in a script. Loading never
// repairs a script silently; callers get the full list at once.
type ValidationError struct {
	Script string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("script %q invalid: %s", e.Script, strings.Join(e.Issues, "; "))
}

// Validate checks the script for structural consistency: unique keywords,
// parsable patterns, resolvable back-references, synonym tags and redirect
// targets, and non-empty response lists. It returns a *ValidationError
// listing every issue, or nil.
func (s *Script) Validate() error {
	var issues []string
	report := func(format string, args ...any) {
		issues = append(issues, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(s.Name) == "" {
		report("missing script name")
	}
	if len(s.Greetings) == 0 {
		report("at least one greeting is required")
	}
	if len(s.Fallbacks) == 0 {
		report("at least one fallback response is required")
	}
	if s.MemoryCap < 0 {
		report("memory_cap must not be negative")
	}

	for tag, words := range s.Synonyms {
		if len(words) == 0 {
			report("synonym group %q is empty", tag)
		}
		for _, w := range words {
			if strings.TrimSpace(w) == "" {
				report("synonym group %q contains an empty word", tag)
			}
		}
	}

	seen := make(map[string]bool, len(s.Keywords))
	for ki := range s.Keywords {
		kw := &s.Keywords[ki]
		word := strings.ToLower(strings.TrimSpace(kw.Word))
		if word == "" {
			report("keyword #%d has an empty word", ki)
			continue
		}
		if seen[word] {
			report("duplicate keyword %q", word)
		}
		seen[word] = true

		if len(kw.Rules) == 0 {
			report("keyword %q has no rules", word)
		}
		for ri := range kw.Rules {
			s.validateRule(word, "rule", ri, &kw.Rules[ri], report)
		}
		for ri := range kw.Memory {
			r := &kw.Memory[ri]
			if r.Pattern == "" {
				report("keyword %q memory rule #%d needs a pattern", word, ri)
			}
			s.validateRule(word, "memory rule", ri, r, report)
		}
	}

	// Redirect targets resolve against the keyword set.
	for ki := range s.Keywords {
		kw := &s.Keywords[ki]
		for _, r := range kw.Rules {
			for _, tpl := range r.Responses {
				if !strings.HasPrefix(tpl, RedirectPrefix) {
					continue
				}
				target := strings.ToLower(strings.TrimPrefix(tpl, RedirectPrefix))
				if !seen[target] {
					report("keyword %q redirects to unknown keyword %q", strings.ToLower(kw.Word), target)
				}
			}
		}
	}

	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Script: s.Name, Issues: issues}
}

func (s *Script) validateRule(keyword, kind string, idx int, r *Rule, report func(string, ...any)) {
	maxRef := 0
	if r.Pattern != "" {
		tokens, err := ParsePattern(r.Pattern)
		if err != nil {
			report("keyword %q %s #%d: %v", keyword, kind, idx, err)
		} else {
			maxRef = len(tokens)
			for _, tok := range tokens {
				if tok.Kind == TokenSynonym {
					if _, ok := s.Synonyms[tok.Tag]; !ok {
						report("keyword %q %s #%d references unknown synonym group %q", keyword, kind, idx, tok.Tag)
					}
				}
			}
		}
	}

	if len(r.Responses) == 0 {
		report("keyword %q %s #%d has no responses", keyword, kind, idx)
	}
	redirects := false
	for _, tpl := range r.Responses {
		t, err := ParseTemplate(tpl, maxRef)
		if err != nil {
			report("keyword %q %s #%d: %v", keyword, kind, idx, err)
			continue
		}
		if t.Kind == TemplateRedirect {
			redirects = true
		}
	}

	if r.Pre != "" {
		if r.Pattern == "" {
			report("keyword %q %s #%d sets pre without a pattern", keyword, kind, idx)
		}
		if !redirects {
			report("keyword %q %s #%d sets pre but no response redirects", keyword, kind, idx)
		}
		if t, err := ParseTemplate(r.Pre, maxRef); err != nil {
			report("keyword %q %s #%d pre: %v", keyword, kind, idx, err)
		} else if t.Kind != TemplateText {
			report("keyword %q %s #%d pre must be a plain template", keyword, kind, idx)
		}
	}
}
