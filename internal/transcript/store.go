// Package transcript persists finished conversation turns for rendering
// front-ends. Stored records are never read back into engine state, so no
// conversation state survives a restart.
package transcript

import (
	"context"
	"time"
)

// TurnRecord is one persisted conversation turn.
type TurnRecord struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Index     int       `json:"index"`
	Speaker   string    `json:"speaker"`
	Utterance string    `json:"utterance"`
	Response  string    `json:"response"`
	Redacted  bool      `json:"redacted"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists and retrieves transcripts.
type Store interface {
	SaveTurn(ctx context.Context, record TurnRecord) error
	RecentTurns(ctx context.Context, sessionID string, limit int) ([]TurnRecord, error)
	Close() error
}
