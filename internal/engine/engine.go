// Package engine implements the keyword transformation algorithm: ranked
// keyword scanning, greedy decomposition matching over token sequences,
// rotating reassembly, person substitution and the deferred-response memory
// queue.
package engine

import (
	"sort"
	"strings"

	"github.com/parleybot/parley/internal/script"
)

// Source tells which path produced a response.
type Source string

const (
	SourceGreeting Source = "greeting"
	SourceRule     Source = "rule"
	SourceMemory   Source = "memory"
	SourceFallback Source = "fallback"
)

// maxRedirectHops bounds "=keyword" chains so a cyclic script cannot loop a
// turn forever; the chain falls through to the next keyword instead.
const maxRedirectHops = 8

type rule struct {
	id        int
	pattern   []script.PatternToken
	pre       []script.Segment
	templates []script.Template
}

type keyword struct {
	word   string
	rank   int
	rules  []*rule
	memory []*rule
}

// Engine is a compiled, immutable script. Mutable conversation state lives in
// State values created by NewState.
type Engine struct {
	scr       *script.Script
	keywords  map[string]*keyword
	aliases   map[string]string // synonym word -> keyword word
	synonyms  map[string]map[string]bool
	pre       map[string]string
	person    map[string]string
	ruleCount int
}

// New validates and compiles a script.
func New(s *script.Script) (*Engine, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		scr:      s,
		keywords: make(map[string]*keyword, len(s.Keywords)),
		aliases:  make(map[string]string),
		synonyms: make(map[string]map[string]bool, len(s.Synonyms)),
		pre:      make(map[string]string, len(s.Pre)),
		person:   make(map[string]string, len(s.Person)),
	}

	for tag, words := range s.Synonyms {
		set := make(map[string]bool, len(words))
		for _, w := range words {
			set[strings.ToLower(w)] = true
		}
		e.synonyms[strings.ToLower(tag)] = set
	}
	for from, to := range s.Pre {
		e.pre[strings.ToLower(from)] = to
	}
	for from, to := range s.Person {
		e.person[strings.ToLower(from)] = to
	}

	for ki := range s.Keywords {
		kw := &s.Keywords[ki]
		compiled := &keyword{word: strings.ToLower(kw.Word), rank: kw.Rank}
		for ri := range kw.Rules {
			compiled.rules = append(compiled.rules, e.compileRule(&kw.Rules[ri]))
		}
		for ri := range kw.Memory {
			compiled.memory = append(compiled.memory, e.compileRule(&kw.Memory[ri]))
		}
		e.keywords[compiled.word] = compiled
	}

	// A synonym of a keyword-named group triggers that keyword during
	// scanning. Tags are walked in sorted order so overlapping group
	// membership resolves the same way on every load.
	tags := make([]string, 0, len(e.synonyms))
	for tag := range e.synonyms {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		if _, ok := e.keywords[tag]; !ok {
			continue
		}
		for w := range e.synonyms[tag] {
			if _, isKeyword := e.keywords[w]; isKeyword {
				continue
			}
			if _, taken := e.aliases[w]; !taken {
				e.aliases[w] = tag
			}
		}
	}

	return e, nil
}

// compileRule runs after Validate, so parse errors cannot occur here.
func (e *Engine) compileRule(r *script.Rule) *rule {
	c := &rule{id: e.ruleCount}
	e.ruleCount++
	if r.Pattern != "" {
		c.pattern, _ = script.ParsePattern(r.Pattern)
	}
	for _, tpl := range r.Responses {
		t, _ := script.ParseTemplate(tpl, len(c.pattern))
		c.templates = append(c.templates, t)
	}
	if r.Pre != "" {
		t, _ := script.ParseTemplate(r.Pre, len(c.pattern))
		c.pre = t.Segments
	}
	return c
}

// Script returns the compiled script definition.
func (e *Engine) Script() *script.Script { return e.scr }

// NewState allocates conversation state sized for this engine.
func (e *Engine) NewState() *State {
	return &State{
		rotations: make([]int, e.ruleCount),
		memoryCap: e.scr.MemoryCapacity(),
	}
}

// Respond transforms one utterance. It always returns a non-empty response:
// keyword rules first, then the memory queue, then the rotating fallback
// list. An empty utterance yields the next greeting. Deterministic given
// identical State.
func (e *Engine) Respond(utterance string, st *State) (string, Source) {
	if strings.TrimSpace(utterance) == "" {
		g := e.scr.Greetings[st.greeting%len(e.scr.Greetings)]
		st.greeting++
		return g, SourceGreeting
	}

	var stack []*keyword
	var tokens []string
	for _, sent := range sentences(utterance) {
		toks := e.applyPre(tokenize(sent))
		if ks := e.scan(toks); len(ks) > 0 {
			stack, tokens = ks, toks
			break
		}
	}

	if len(stack) > 0 {
		e.addMemory(stack[0], tokens, st)
		if resp, ok := e.processStack(stack, tokens, st); ok {
			return resp, SourceRule
		}
	}

	if m, ok := st.recall(); ok {
		return m, SourceMemory
	}
	f := e.scr.Fallbacks[st.fallback%len(e.scr.Fallbacks)]
	st.fallback++
	return f, SourceFallback
}

// applyPre rewrites tokens through the pre-substitution table. A
// substitution may expand to several words.
func (e *Engine) applyPre(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if repl, ok := e.pre[strings.ToLower(t)]; ok {
			out = append(out, strings.Fields(repl)...)
			continue
		}
		out = append(out, t)
	}
	return out
}

// scan walks tokens left to right collecting triggered keywords. A keyword
// with a strictly higher rank than the current top is promoted to the front;
// equal ranks keep utterance order, so the first occurrence wins ties.
func (e *Engine) scan(tokens []string) []*keyword {
	var stack []*keyword
	for _, t := range tokens {
		w := strings.ToLower(t)
		kw := e.keywords[w]
		if kw == nil {
			if alias, ok := e.aliases[w]; ok {
				kw = e.keywords[alias]
			}
		}
		if kw == nil {
			continue
		}
		if len(stack) > 0 && kw.rank > stack[0].rank {
			stack = append([]*keyword{kw}, stack...)
		} else {
			stack = append(stack, kw)
		}
	}
	return stack
}

// processStack tries each detected keyword in priority order until one
// produces a response.
func (e *Engine) processStack(stack []*keyword, tokens []string, st *State) (string, bool) {
	for _, kw := range stack {
		if resp, ok := e.applyKeyword(kw, tokens, st); ok {
			return resp, true
		}
	}
	return "", false
}

// applyKeyword matches the keyword's rules against the sentence, following
// redirects. It reports false when no rule matches, a NEWKEY template is
// drawn, or a redirect chain dead-ends; the keystack then moves on.
func (e *Engine) applyKeyword(kw *keyword, tokens []string, st *State) (string, bool) {
	cur := kw
	for hop := 0; hop <= maxRedirectHops; hop++ {
		r, caps := e.firstMatch(cur, tokens)
		if r == nil {
			return "", false
		}
		tpl := r.templates[st.next(r.id, len(r.templates))]
		switch tpl.Kind {
		case script.TemplateNewKey:
			return "", false
		case script.TemplateRedirect:
			if r.pre != nil {
				tokens = e.applyPre(tokenize(e.instantiateRaw(r.pre, caps)))
			}
			next := e.keywords[tpl.Target]
			if next == nil {
				return "", false
			}
			cur = next
		default:
			return e.instantiate(tpl.Segments, caps), true
		}
	}
	return "", false
}

func (e *Engine) firstMatch(kw *keyword, tokens []string) (*rule, []string) {
	for _, r := range kw.rules {
		if r.pattern == nil {
			return r, nil
		}
		if caps, ok := matchTokens(r.pattern, tokens, e.synMatch); ok {
			return r, caps
		}
	}
	return nil, nil
}

// addMemory queues a deferred response when the top keyword carries memory
// rules and one of them matches.
func (e *Engine) addMemory(kw *keyword, tokens []string, st *State) {
	for _, r := range kw.memory {
		caps, ok := matchTokens(r.pattern, tokens, e.synMatch)
		if !ok {
			continue
		}
		tpl := r.templates[st.next(r.id, len(r.templates))]
		if tpl.Kind != script.TemplateText {
			continue
		}
		st.remember(e.instantiate(tpl.Segments, caps))
		return
	}
}

func (e *Engine) synMatch(tag, word string) bool {
	return e.synonyms[tag][word]
}

// instantiate fills a reassembly template. Captures pass through person
// substitution so reflected fragments flip first and second person.
func (e *Engine) instantiate(segs []script.Segment, caps []string) string {
	var b strings.Builder
	for _, s := range segs {
		if s.Ref > 0 {
			b.WriteString(e.substitutePerson(caps[s.Ref-1]))
			continue
		}
		b.WriteString(s.Literal)
	}
	return detokenize(b.String())
}

// instantiateRaw fills a pre-rewrite template without person substitution;
// the rewritten sentence stays in the speaker's own person for re-matching.
func (e *Engine) instantiateRaw(segs []script.Segment, caps []string) string {
	var b strings.Builder
	for _, s := range segs {
		if s.Ref > 0 {
			b.WriteString(caps[s.Ref-1])
			continue
		}
		b.WriteString(s.Literal)
	}
	return b.String()
}

func (e *Engine) substitutePerson(capture string) string {
	if capture == "" {
		return ""
	}
	words := strings.Fields(capture)
	for i, w := range words {
		if repl, ok := e.person[strings.ToLower(w)]; ok {
			words[i] = repl
		}
	}
	return strings.Join(words, " ")
}
