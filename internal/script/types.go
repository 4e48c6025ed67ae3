package script

import "strings"

// Rule is a single decomposition/reassembly transformation. A rule without a
// Pattern matches any utterance. Responses rotate round-robin across
// invocations of the same rule; rotation state lives outside the script so a
// loaded script is never mutated.
type Rule struct {
	// Pattern is a space-separated token sequence. "*" captures zero or more
	// words, "@tag" matches any word of the synonym group "tag", and
	// "a|b|c" matches any one of the alternatives. Every pattern token
	// produces a capture addressable from responses as "$1", "$2", ...
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty"`

	// Pre rewrites the sentence before a redirect response is followed. It is
	// a template over this rule's captures ("i am $3").
	Pre string `yaml:"pre,omitempty" json:"pre,omitempty"`

	// Responses are reassembly templates. Besides plain templates two marker
	// forms exist: "=keyword" hands the sentence to another keyword's rules,
	// and "NEWKEY" drops the current keyword and tries the next detected one.
	Responses []string `yaml:"responses" json:"responses"`
}

// Keyword groups the transformation rules triggered by one word.
type Keyword struct {
	Word string `yaml:"word" json:"word"`
	Rank int    `yaml:"rank,omitempty" json:"rank,omitempty"`

	Rules []Rule `yaml:"rules" json:"rules"`

	// Memory rules generate deferred responses: when this keyword wins a
	// turn, a matching memory rule's reassembly is queued and served later on
	// a turn with no keyword match.
	Memory []Rule `yaml:"memory,omitempty" json:"memory,omitempty"`
}

// Script is the full declarative identity definition. It is immutable after
// Load/Validate; any number of identities may share one instance.
type Script struct {
	Name string `yaml:"name" json:"name"`

	// Greetings are served for an empty utterance, in rotation.
	Greetings []string `yaml:"greetings" json:"greetings"`

	// Fallbacks are served when no rule produces a response and the memory
	// queue is empty, in rotation.
	Fallbacks []string `yaml:"fallbacks" json:"fallbacks"`

	// Synonyms maps a group tag to interchangeable words. Groups are usable
	// in patterns as "@tag"; if the tag itself is a keyword, any group member
	// found during scanning also triggers that keyword. A word may belong to
	// several groups; the first group in tag order wins during scanning.
	Synonyms map[string][]string `yaml:"synonyms,omitempty" json:"synonyms,omitempty"`

	// Pre is a token substitution table applied before keyword scanning:
	// spelling fixes, contraction normalization and aliases
	// ("dont" -> "don't", "mom" -> "mother").
	Pre map[string]string `yaml:"pre,omitempty" json:"pre,omitempty"`

	// Person flips first/second person words inside wildcard captures at
	// reassembly time ("my" -> "your") so reflected fragments read naturally.
	Person map[string]string `yaml:"person,omitempty" json:"person,omitempty"`

	// MemoryCap bounds the deferred-response queue. Zero means
	// DefaultMemoryCap. Enqueueing at capacity evicts the oldest entry.
	MemoryCap int `yaml:"memory_cap,omitempty" json:"memory_cap,omitempty"`

	Keywords []Keyword `yaml:"keywords" json:"keywords"`
}

// DefaultMemoryCap is the memory queue bound used when a script does not set
// its own.
const DefaultMemoryCap = 4

// NewKeyMarker is the response marker that abandons the current keyword.
const NewKeyMarker = "NEWKEY"

// RedirectPrefix introduces a response that re-enters matching under another
// keyword.
const RedirectPrefix = "="

// Keyword returns the keyword entry for word, or nil. Lookup is
// case-insensitive; Validate guarantees uniqueness.
func (s *Script) Keyword(word string) *Keyword {
	for i := range s.Keywords {
		if strings.EqualFold(s.Keywords[i].Word, word) {
			return &s.Keywords[i]
		}
	}
	return nil
}

func (s *Script) memoryCap() int {
	if s.MemoryCap > 0 {
		return s.MemoryCap
	}
	return DefaultMemoryCap
}

// MemoryCapacity reports the effective memory queue bound.
func (s *Script) MemoryCapacity() int { return s.memoryCap() }
