package script

import (
	"errors"
	"strings"
	"testing"
)

func validScript() *Script {
	return &Script{
		Name:      "test",
		Greetings: []string{"Hello"},
		Fallbacks: []string{"Go on"},
		Synonyms:  map[string][]string{"family": {"mother", "father"}},
		Keywords: []Keyword{
			{
				Word: "my",
				Rank: 2,
				Rules: []Rule{
					{Pattern: "* my @family *", Responses: []string{"Tell me about your $3"}},
					{Pattern: "* my *", Responses: []string{"Your $3"}},
				},
				Memory: []Rule{
					{Pattern: "* my *", Responses: []string{"Earlier you said your $3"}},
				},
			},
			{
				Word:  "i'm",
				Rules: []Rule{{Pattern: "* i'm *", Pre: "i am $3", Responses: []string{"=i"}}},
			},
			{
				Word:  "i",
				Rules: []Rule{{Pattern: "* i *", Responses: []string{"You say you $3"}}},
			},
		},
	}
}

func TestValidateAccepts(t *testing.T) {
	if err := validScript().Validate(); err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}
}

func TestValidateCollectsAllIssues(t *testing.T) {
	s := validScript()
	s.Greetings = nil
	s.Keywords[0].Rules[0].Responses = []string{"Tell me about your $9"}
	s.Keywords = append(s.Keywords, Keyword{Word: "MY", Rules: []Rule{{Responses: []string{"ok"}}}})

	err := s.Validate()
	if err == nil {
		t.Fatalf("Validate() error = nil, want issues")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if len(verr.Issues) != 3 {
		t.Fatalf("issue count = %d, want 3: %v", len(verr.Issues), verr.Issues)
	}
}

func TestValidateUnknownSynonymGroup(t *testing.T) {
	s := validScript()
	s.Keywords[0].Rules[0].Pattern = "* my @cousins *"
	err := s.Validate()
	if err == nil || !strings.Contains(err.Error(), "cousins") {
		t.Fatalf("Validate() error = %v, want unknown synonym group report", err)
	}
}

func TestValidateUnknownRedirectTarget(t *testing.T) {
	s := validScript()
	s.Keywords[1].Rules[0].Responses = []string{"=nothing"}
	err := s.Validate()
	if err == nil || !strings.Contains(err.Error(), "nothing") {
		t.Fatalf("Validate() error = %v, want unknown redirect report", err)
	}
}

func TestValidateMemoryRuleNeedsPattern(t *testing.T) {
	s := validScript()
	s.Keywords[0].Memory[0].Pattern = ""
	if err := s.Validate(); err == nil {
		t.Fatalf("memory rule without pattern accepted")
	}
}

func TestValidatePreRequiresRedirect(t *testing.T) {
	s := validScript()
	s.Keywords[0].Rules[1].Pre = "i am $3"
	if err := s.Validate(); err == nil {
		t.Fatalf("pre without redirect accepted")
	}
}

func TestKeywordLookupCaseInsensitive(t *testing.T) {
	s := validScript()
	if kw := s.Keyword("My"); kw == nil || kw.Word != "my" {
		t.Fatalf("Keyword(\"My\") = %+v, want keyword my", kw)
	}
	if kw := s.Keyword("absent"); kw != nil {
		t.Fatalf("Keyword(\"absent\") = %+v, want nil", kw)
	}
}

func TestMemoryCapacityDefault(t *testing.T) {
	s := validScript()
	if got := s.MemoryCapacity(); got != DefaultMemoryCap {
		t.Fatalf("MemoryCapacity() = %d, want %d", got, DefaultMemoryCap)
	}
	s.MemoryCap = 2
	if got := s.MemoryCapacity(); got != 2 {
		t.Fatalf("MemoryCapacity() = %d, want 2", got)
	}
}
