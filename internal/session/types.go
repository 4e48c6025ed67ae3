package session

import "time"

// CreateRequest defines payload for opening a new chat session.
type CreateRequest struct {
	UserID   string `json:"user_id"`
	Identity string `json:"identity"`
}

// CreateResponse returns created session metadata.
type CreateResponse struct {
	SessionID       string    `json:"session_id"`
	UserID          string    `json:"user_id"`
	Identity        string    `json:"identity"`
	Status          Status    `json:"status"`
	Greeting        string    `json:"greeting,omitempty"`
	StartedAt       time.Time `json:"started_at"`
	LastActivityAt  time.Time `json:"last_activity_at"`
	InactivityTTLMS int64     `json:"inactivity_ttl_ms"`
}
