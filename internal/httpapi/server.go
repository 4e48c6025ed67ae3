package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/parleybot/parley/internal/config"
	"github.com/parleybot/parley/internal/conversation"
	"github.com/parleybot/parley/internal/identity"
	"github.com/parleybot/parley/internal/observability"
	"github.com/parleybot/parley/internal/policy"
	"github.com/parleybot/parley/internal/protocol"
	"github.com/parleybot/parley/internal/session"
	"github.com/parleybot/parley/internal/transcript"
)

// Catalog hands out identity instances for sessions and conversation runs.
type Catalog interface {
	Names() []string
	New(scriptName string) (identity.Identity, error)
	NewNamed(scriptName, displayName string) (identity.Identity, error)
}

type Server struct {
	cfg         config.Config
	sessions    *session.Manager
	catalog     Catalog
	transcripts transcript.Store
	metrics     *observability.Metrics
	upgrader    websocket.Upgrader
	static      http.Handler
}

func New(cfg config.Config, sessions *session.Manager, catalog Catalog, transcripts transcript.Store, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:         cfg,
		sessions:    sessions,
		catalog:     catalog,
		transcripts: transcripts,
		metrics:     metrics,
		static:      newStaticHandler(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only allow browser websocket connections from the same
				// origin unless explicitly opened up, so other websites
				// cannot drive a user's chat session.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ui/", http.StatusTemporaryRedirect)
	})
	r.Get("/ui", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ui/", http.StatusTemporaryRedirect)
	})
	r.Handle("/ui/*", http.StripPrefix("/ui/", s.static))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Get("/v1/identities", s.handleListIdentities)
	r.Post("/v1/chat/session", s.handleCreateSession)
	r.Post("/v1/chat/session/{id}/end", s.handleEndSession)
	r.Get("/v1/chat/session/{id}/transcript", s.handleTranscript)
	r.Get("/v1/chat/session/ws", s.handleSessionWS)
	r.Post("/v1/conversations", s.handleRunConversation)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"identities": len(s.catalog.Names()),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":     "ready",
		"identities": len(s.catalog.Names()),
	})
}

func (s *Server) handleListIdentities(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"identities": s.catalog.Names()})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req session.CreateRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		req.UserID = "anonymous"
	}
	if strings.TrimSpace(req.Identity) == "" {
		req.Identity = s.cfg.DefaultIdentity
	}

	responder, err := s.catalog.New(req.Identity)
	if err != nil {
		respondError(w, http.StatusBadRequest, "unknown_identity", err.Error())
		return
	}

	// The first engine response to an empty utterance is the script's
	// greeting; it advances the greeting rotation for this instance only.
	greeting, err := responder.Respond(r.Context(), conversation.SeedSenderID, "")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "identity_failure", err.Error())
		return
	}

	sess := s.sessions.Create(req.UserID, responder)
	s.metrics.ActiveSessions.Set(float64(s.sessions.ActiveCount()))
	s.metrics.SessionEvents.WithLabelValues("created").Inc()

	respondJSON(w, http.StatusCreated, session.CreateResponse{
		SessionID:       sess.ID,
		UserID:          sess.UserID,
		Identity:        sess.IdentityName,
		Status:          sess.Status,
		Greeting:        greeting,
		StartedAt:       sess.StartedAt,
		LastActivityAt:  sess.LastActivityAt,
		InactivityTTLMS: s.cfg.SessionInactivityTimeout.Milliseconds(),
	})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		respondError(w, http.StatusBadRequest, "invalid_session_id", "missing session id")
		return
	}

	sess, err := s.sessions.End(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}
	s.metrics.ActiveSessions.Set(float64(s.sessions.ActiveCount()))
	s.metrics.SessionEvents.WithLabelValues("ended").Inc()
	respondJSON(w, http.StatusOK, sess)
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		respondError(w, http.StatusBadRequest, "invalid_session_id", "missing session id")
		return
	}
	limit := 50
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := s.transcripts.RecentTurns(r.Context(), id, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "transcript_unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"session_id": id,
		"turns":      records,
	})
}

func (s *Server) handleSessionWS(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session_id", "query parameter session_id is required")
		return
	}

	if _, err := s.sessions.Get(sessionID); err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s.metrics.SessionEvents.WithLabelValues("ws_connected").Inc()
	defer s.metrics.SessionEvents.WithLabelValues("ws_disconnected").Inc()

	conn.SetReadLimit(64 << 10)
	_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

	// One read loop, one writer: turns within a session are strictly
	// sequential, so responses are computed and written inline.
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		if msgType != websocket.TextMessage {
			continue
		}

		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			s.writeWS(conn, protocol.ErrorEvent{
				Type:      protocol.TypeErrorEvent,
				SessionID: sessionID,
				Code:      "invalid_client_message",
				Source:    "gateway",
				Retryable: false,
				Detail:    err.Error(),
			})
			continue
		}

		switch msg := parsed.(type) {
		case protocol.UserUtterance:
			s.metrics.WSMessages.WithLabelValues("inbound", string(protocol.TypeUserUtterance)).Inc()
			if !s.handleUtterance(r.Context(), conn, sessionID, msg) {
				return
			}
		case protocol.ClientControl:
			s.metrics.WSMessages.WithLabelValues("inbound", string(protocol.TypeClientControl)).Inc()
			if !s.handleControl(conn, sessionID, msg) {
				return
			}
		}
	}
}

// handleUtterance runs one turn. Returns false when the connection should
// close.
func (s *Server) handleUtterance(ctx context.Context, conn *websocket.Conn, sessionID string, msg protocol.UserUtterance) bool {
	if msg.SessionID != sessionID {
		s.writeWS(conn, protocol.ErrorEvent{
			Type:      protocol.TypeErrorEvent,
			SessionID: sessionID,
			Code:      "session_mismatch",
			Source:    "gateway",
			Retryable: false,
			Detail:    "utterance addressed to a different session",
		})
		return true
	}

	responder, err := s.sessions.Responder(sessionID)
	if err != nil {
		s.writeWS(conn, protocol.SystemEvent{
			Type:      protocol.TypeSystemEvent,
			SessionID: sessionID,
			Code:      "session_ended",
		})
		return false
	}

	if conversation.IsStopWord(msg.Text, s.cfg.StopWords) {
		if _, err := s.sessions.End(sessionID); err == nil {
			s.metrics.ActiveSessions.Set(float64(s.sessions.ActiveCount()))
			s.metrics.SessionEvents.WithLabelValues("ended").Inc()
		}
		s.writeWS(conn, protocol.SystemEvent{
			Type:      protocol.TypeSystemEvent,
			SessionID: sessionID,
			Code:      "session_ended",
			Detail:    "stop word",
		})
		return false
	}

	turnCtx, cancel := context.WithTimeout(ctx, s.cfg.RespondTimeout)
	start := time.Now()
	resp, err := responder.Respond(turnCtx, conversation.SeedSenderID, msg.Text)
	cancel()
	s.metrics.ObserveRespondLatency(time.Since(start))

	if err != nil {
		s.metrics.IdentityFailures.WithLabelValues(identityNameOf(responder)).Inc()
		s.writeWS(conn, protocol.ErrorEvent{
			Type:      protocol.TypeErrorEvent,
			SessionID: sessionID,
			Code:      "identity_failure",
			Source:    "identity",
			Retryable: errors.Is(err, context.DeadlineExceeded),
			Detail:    err.Error(),
		})
		return true
	}

	idx, err := s.sessions.RecordTurn(sessionID)
	if err != nil {
		return false
	}
	s.metrics.Turns.WithLabelValues(identityNameOf(responder)).Inc()

	turnID := uuid.NewString()
	s.persistTurn(ctx, transcript.TurnRecord{
		ID:        turnID,
		SessionID: sessionID,
		Index:     idx,
		Speaker:   identityNameOf(responder),
		Utterance: msg.Text,
		Response:  resp,
		CreatedAt: time.Now().UTC(),
	})

	s.writeWS(conn, protocol.IdentityReply{
		Type:      protocol.TypeIdentityReply,
		SessionID: sessionID,
		TurnID:    turnID,
		TurnIndex: idx,
		Speaker:   identityNameOf(responder),
		Text:      resp,
	})
	return true
}

func (s *Server) handleControl(conn *websocket.Conn, sessionID string, msg protocol.ClientControl) bool {
	switch msg.Action {
	case protocol.ActionEnd:
		if _, err := s.sessions.End(sessionID); err == nil {
			s.metrics.ActiveSessions.Set(float64(s.sessions.ActiveCount()))
			s.metrics.SessionEvents.WithLabelValues("ended").Inc()
		}
		s.writeWS(conn, protocol.SystemEvent{
			Type:      protocol.TypeSystemEvent,
			SessionID: sessionID,
			Code:      "session_ended",
			Detail:    "client request",
		})
		return false
	case protocol.ActionRestart:
		// Touch keeps the session alive; engine state is per identity
		// instance, so a restart means ending this session and creating a
		// fresh one.
		_ = s.sessions.Touch(sessionID)
		s.writeWS(conn, protocol.SystemEvent{
			Type:      protocol.TypeSystemEvent,
			SessionID: sessionID,
			Code:      "restart_unsupported",
			Detail:    "end this session and create a new one",
		})
		return true
	default:
		s.writeWS(conn, protocol.ErrorEvent{
			Type:      protocol.TypeErrorEvent,
			SessionID: sessionID,
			Code:      "unknown_action",
			Source:    "gateway",
			Retryable: false,
			Detail:    msg.Action,
		})
		return true
	}
}

type conversationIdentity struct {
	Script string `json:"script"`
	Name   string `json:"name,omitempty"`
}

type conversationRequest struct {
	Identities []conversationIdentity `json:"identities"`
	Seed       string                 `json:"seed"`
	MaxTurns   int                    `json:"max_turns"`
	StopWords  []string               `json:"stop_words,omitempty"`
}

type conversationResponse struct {
	ConversationID string                  `json:"conversation_id"`
	Turns          []conversation.Turn     `json:"turns"`
	Reason         conversation.StopReason `json:"reason"`
}

func (s *Server) handleRunConversation(w http.ResponseWriter, r *http.Request) {
	var req conversationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if len(req.Identities) == 0 {
		respondError(w, http.StatusBadRequest, "invalid_request", "at least one identity is required")
		return
	}
	if req.MaxTurns <= 0 {
		req.MaxTurns = s.cfg.MaxTurns
	}
	stopWords := req.StopWords
	if stopWords == nil {
		stopWords = s.cfg.StopWords
	}

	participants := make([]identity.Identity, 0, len(req.Identities))
	for _, entry := range req.Identities {
		name := entry.Name
		if strings.TrimSpace(name) == "" {
			name = entry.Script
		}
		p, err := s.catalog.NewNamed(entry.Script, name)
		if err != nil {
			respondError(w, http.StatusBadRequest, "unknown_identity", err.Error())
			return
		}
		participants = append(participants, p)
	}

	conversationID := uuid.NewString()
	result, err := conversation.Run(r.Context(), participants, conversation.Options{
		Seed:      req.Seed,
		MaxTurns:  req.MaxTurns,
		StopWords: stopWords,
		OnTurn: func(t conversation.Turn) {
			s.metrics.Turns.WithLabelValues(t.Speaker).Inc()
			s.persistTurn(r.Context(), transcript.TurnRecord{
				ID:        t.ID,
				SessionID: conversationID,
				Index:     t.Index,
				Speaker:   t.Speaker,
				Utterance: t.Utterance,
				Response:  t.Response,
				CreatedAt: t.CreatedAt,
			})
		},
	})
	s.metrics.ConversationRuns.WithLabelValues(string(result.Reason)).Inc()
	if err != nil && !errors.Is(err, conversation.ErrIdentityFailure) && !errors.Is(err, context.Canceled) {
		respondError(w, http.StatusInternalServerError, "conversation_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, conversationResponse{
		ConversationID: conversationID,
		Turns:          result.Turns,
		Reason:         result.Reason,
	})
}

// persistTurn redacts and saves one record. Persistence failures never fail
// the turn; conversation state lives in memory regardless.
func (s *Server) persistTurn(ctx context.Context, rec transcript.TurnRecord) {
	var changed bool
	rec.Utterance, changed = policy.RedactTurn(rec.Utterance)
	respRedacted := false
	rec.Response, respRedacted = policy.RedactTurn(rec.Response)
	rec.Redacted = changed || respRedacted

	if err := s.transcripts.SaveTurn(ctx, rec); err != nil {
		s.metrics.TranscriptFailure.Inc()
		log.Printf("transcript save failed session=%s turn=%d: %v", rec.SessionID, rec.Index, err)
	}
}

func (s *Server) writeWS(conn *websocket.Conn, msg any) {
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := conn.WriteJSON(msg); err != nil {
		return
	}
	if t, ok := messageTypeOf(msg); ok {
		s.metrics.WSMessages.WithLabelValues("outbound", string(t)).Inc()
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}

func identityNameOf(id identity.Identity) string {
	if id == nil {
		return "unknown"
	}
	return id.Name()
}

func messageTypeOf(v any) (protocol.MessageType, bool) {
	switch m := v.(type) {
	case protocol.UserUtterance:
		return m.Type, true
	case protocol.ClientControl:
		return m.Type, true
	case protocol.IdentityReply:
		return m.Type, true
	case protocol.SystemEvent:
		return m.Type, true
	case protocol.ErrorEvent:
		return m.Type, true
	default:
		return "", false
	}
}
