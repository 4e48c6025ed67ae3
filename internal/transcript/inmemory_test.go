package transcript

import (
	"context"
	"fmt"
	"testing"
)

func TestInMemorySaveAndRecent(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := s.SaveTurn(ctx, TurnRecord{
			SessionID: "s1",
			Index:     i,
			Speaker:   "doctor",
			Utterance: fmt.Sprintf("utterance %d", i),
			Response:  fmt.Sprintf("response %d", i),
		})
		if err != nil {
			t.Fatalf("SaveTurn %d error = %v", i, err)
		}
	}

	got, err := s.RecentTurns(ctx, "s1", 3)
	if err != nil {
		t.Fatalf("RecentTurns error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("record count = %d, want 3", len(got))
	}
	if got[0].Index != 2 || got[2].Index != 4 {
		t.Fatalf("records out of order: first=%d last=%d", got[0].Index, got[2].Index)
	}
}

func TestInMemoryFillsDefaults(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	if err := s.SaveTurn(ctx, TurnRecord{SessionID: "s1"}); err != nil {
		t.Fatalf("SaveTurn error = %v", err)
	}
	got, err := s.RecentTurns(ctx, "s1", 0)
	if err != nil {
		t.Fatalf("RecentTurns error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("record count = %d, want 1", len(got))
	}
	if got[0].ID == "" || got[0].CreatedAt.IsZero() {
		t.Fatalf("defaults not applied: %+v", got[0])
	}
}

func TestInMemoryUnknownSession(t *testing.T) {
	s := NewInMemoryStore()
	got, err := s.RecentTurns(context.Background(), "absent", 10)
	if err != nil {
		t.Fatalf("RecentTurns error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("record count = %d, want 0", len(got))
	}
}

func TestNewStoreDefaultsToInMemory(t *testing.T) {
	s, err := NewStore(context.Background(), "")
	if err != nil {
		t.Fatalf("NewStore error = %v", err)
	}
	defer s.Close()
	if _, ok := s.(*InMemoryStore); !ok {
		t.Fatalf("store type = %T, want *InMemoryStore", s)
	}
}
