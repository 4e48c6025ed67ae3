// Package identity defines the single capability a conversational
// participant must expose, with a scripted variant backed by the transform
// engine and a function adapter for arbitrary external logic.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/parleybot/parley/internal/engine"
)

// Identity is one conversational participant. Respond is invoked at most
// once per turn; it must return a response or an error, never both empty.
type Identity interface {
	Name() string
	Respond(ctx context.Context, senderID, utterance string) (string, error)
}

// Scripted wraps a shared immutable engine with this participant's private
// state (reassembly rotation and memory queue). Deterministic given state.
type Scripted struct {
	name     string
	eng      *engine.Engine
	state    *engine.State
	observer func(engine.Source)
}

// ScriptedOption configures a Scripted identity.
type ScriptedOption func(*Scripted)

// WithObserver registers a hook called with the response source of every
// turn; used for metrics.
func WithObserver(fn func(engine.Source)) ScriptedOption {
	return func(s *Scripted) { s.observer = fn }
}

// NewScripted builds a scripted identity with fresh state. Many identities
// may share one engine; each gets its own state.
func NewScripted(name string, eng *engine.Engine, opts ...ScriptedOption) *Scripted {
	s := &Scripted{name: name, eng: eng, state: eng.NewState()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scripted) Name() string { return s.name }

// Respond transforms the utterance through the engine. The engine itself
// never blocks; the context check honors cancellation between turns.
func (s *Scripted) Respond(ctx context.Context, _, utterance string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	resp, src := s.eng.Respond(utterance, s.state)
	if s.observer != nil {
		s.observer(src)
	}
	return resp, nil
}

// RespondFunc is the contract for externally supplied identities.
type RespondFunc func(ctx context.Context, senderID, utterance string) (string, error)

// Func adapts arbitrary logic to the Identity interface. The orchestrator
// treats it as a black box; no determinism is assumed.
type Func struct {
	name string
	fn   RespondFunc
}

// NewFunc builds a custom identity from a respond function.
func NewFunc(name string, fn RespondFunc) (*Func, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("identity name is required")
	}
	if fn == nil {
		return nil, errors.New("respond function is required")
	}
	return &Func{name: name, fn: fn}, nil
}

func (f *Func) Name() string { return f.name }

// Respond invokes the wrapped function and enforces the non-empty response
// contract on its behalf.
func (f *Func) Respond(ctx context.Context, senderID, utterance string) (string, error) {
	resp, err := f.fn(ctx, senderID, utterance)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(resp) == "" {
		return "", fmt.Errorf("identity %q returned an empty response", f.name)
	}
	return resp, nil
}
