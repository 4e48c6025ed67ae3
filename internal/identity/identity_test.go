package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/parleybot/parley/internal/engine"
	"github.com/parleybot/parley/internal/script"
)

func TestScriptedRespond(t *testing.T) {
	eng, err := engine.New(script.Doctor())
	if err != nil {
		t.Fatalf("engine.New error = %v", err)
	}
	id := NewScripted("Therapist", eng)
	if id.Name() != "Therapist" {
		t.Fatalf("Name() = %q, want %q", id.Name(), "Therapist")
	}

	got, err := id.Respond(context.Background(), "user", "")
	if err != nil {
		t.Fatalf("Respond error = %v", err)
	}
	if got != "How do you do. Please tell me your problem" {
		t.Fatalf("greeting = %q", got)
	}
}

func TestScriptedInstancesAreIndependent(t *testing.T) {
	eng, err := engine.New(script.Doctor())
	if err != nil {
		t.Fatalf("engine.New error = %v", err)
	}
	a := NewScripted("a", eng)
	b := NewScripted("b", eng)

	ctx := context.Background()
	first, _ := a.Respond(ctx, "user", "sorry")
	second, _ := a.Respond(ctx, "user", "sorry")
	if first == second {
		t.Fatalf("rotation did not advance within one instance")
	}

	// A fresh instance starts its rotation from the top.
	got, _ := b.Respond(ctx, "user", "sorry")
	if got != first {
		t.Fatalf("fresh instance = %q, want %q", got, first)
	}
}

func TestScriptedObserver(t *testing.T) {
	eng, err := engine.New(script.Doctor())
	if err != nil {
		t.Fatalf("engine.New error = %v", err)
	}
	var sources []engine.Source
	id := NewScripted("t", eng, WithObserver(func(src engine.Source) {
		sources = append(sources, src)
	}))

	ctx := context.Background()
	_, _ = id.Respond(ctx, "user", "")
	_, _ = id.Respond(ctx, "user", "xyzzy")
	if len(sources) != 2 || sources[0] != engine.SourceGreeting || sources[1] != engine.SourceFallback {
		t.Fatalf("observed sources = %v", sources)
	}
}

func TestScriptedHonorsCanceledContext(t *testing.T) {
	eng, err := engine.New(script.Doctor())
	if err != nil {
		t.Fatalf("engine.New error = %v", err)
	}
	id := NewScripted("t", eng)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := id.Respond(ctx, "user", "hello"); !errors.Is(err, context.Canceled) {
		t.Fatalf("Respond error = %v, want context.Canceled", err)
	}
}

func TestNewFuncValidates(t *testing.T) {
	if _, err := NewFunc("", func(context.Context, string, string) (string, error) { return "x", nil }); err == nil {
		t.Fatalf("empty name accepted")
	}
	if _, err := NewFunc("echo", nil); err == nil {
		t.Fatalf("nil respond function accepted")
	}
}

func TestFuncEnforcesNonEmptyResponse(t *testing.T) {
	id, err := NewFunc("empty", func(context.Context, string, string) (string, error) {
		return "  ", nil
	})
	if err != nil {
		t.Fatalf("NewFunc error = %v", err)
	}
	if _, err := id.Respond(context.Background(), "user", "hi"); err == nil {
		t.Fatalf("empty response accepted")
	}
}

func TestFuncPassesThrough(t *testing.T) {
	id, err := NewFunc("echo", func(_ context.Context, sender, utterance string) (string, error) {
		return sender + ": " + utterance, nil
	})
	if err != nil {
		t.Fatalf("NewFunc error = %v", err)
	}
	got, err := id.Respond(context.Background(), "user", "hi")
	if err != nil {
		t.Fatalf("Respond error = %v", err)
	}
	if got != "user: hi" {
		t.Fatalf("Respond = %q", got)
	}
}

func TestCatalog(t *testing.T) {
	reg := script.NewRegistry()
	catalog, err := NewCatalog(reg)
	if err != nil {
		t.Fatalf("NewCatalog error = %v", err)
	}
	names := catalog.Names()
	if len(names) != 1 || names[0] != "doctor" {
		t.Fatalf("Names() = %v, want [doctor]", names)
	}

	id, err := catalog.NewNamed("doctor", "Therapist")
	if err != nil {
		t.Fatalf("NewNamed error = %v", err)
	}
	if id.Name() != "Therapist" {
		t.Fatalf("Name() = %q, want %q", id.Name(), "Therapist")
	}

	if _, err := catalog.New("stranger"); err == nil {
		t.Fatalf("unknown script accepted")
	}
}
