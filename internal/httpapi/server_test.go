package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/parleybot/parley/internal/config"
	"github.com/parleybot/parley/internal/identity"
	"github.com/parleybot/parley/internal/observability"
	"github.com/parleybot/parley/internal/script"
	"github.com/parleybot/parley/internal/session"
	"github.com/parleybot/parley/internal/transcript"
)

func newTestServer(t *testing.T) (*Server, *transcript.InMemoryStore) {
	t.Helper()
	cfg := config.Config{
		SessionInactivityTimeout: 2 * time.Minute,
		RespondTimeout:           5 * time.Second,
		DefaultIdentity:          "doctor",
		MaxTurns:                 8,
		StopWords:                []string{"quit", "goodbye", "bye"},
	}
	catalog, err := identity.NewCatalog(script.NewRegistry())
	if err != nil {
		t.Fatalf("NewCatalog error = %v", err)
	}
	store := transcript.NewInMemoryStore()
	sessions := session.NewManager(cfg.SessionInactivityTimeout)
	metrics := observability.NewMetricsOn("test", prometheus.NewRegistry())
	return New(cfg, sessions, catalog, store, metrics), store
}

func createSession(t *testing.T, ts *httptest.Server, body map[string]string) map[string]any {
	t.Helper()
	payload, _ := json.Marshal(body)
	res, err := http.Post(ts.URL+"/v1/chat/session", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("create session request error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want %d", res.StatusCode, http.StatusCreated)
	}
	var created map[string]any
	if err := json.NewDecoder(res.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return created
}

func TestCreateSessionReturnsGreeting(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	created := createSession(t, ts, map[string]string{"user_id": "user-1"})
	if created["identity"] != "doctor" {
		t.Fatalf("identity = %v, want doctor", created["identity"])
	}
	if created["greeting"] != "How do you do. Please tell me your problem" {
		t.Fatalf("greeting = %v", created["greeting"])
	}
	if created["session_id"] == "" {
		t.Fatalf("missing session_id: %+v", created)
	}
}

func TestCreateSessionUnknownIdentity(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	payload, _ := json.Marshal(map[string]string{"identity": "stranger"})
	res, err := http.Post(ts.URL+"/v1/chat/session", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("request error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusBadRequest)
	}
}

func TestEndSession(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	created := createSession(t, ts, nil)
	sessionID := created["session_id"].(string)

	res, err := http.Post(ts.URL+"/v1/chat/session/"+sessionID+"/end", "application/json", nil)
	if err != nil {
		t.Fatalf("end request error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("end status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	res2, err := http.Post(ts.URL+"/v1/chat/session/"+sessionID+"/end", "application/json", nil)
	if err != nil {
		t.Fatalf("second end request error = %v", err)
	}
	defer res2.Body.Close()
	if res2.StatusCode != http.StatusOK {
		t.Fatalf("ending an ended session status = %d, want %d", res2.StatusCode, http.StatusOK)
	}
}

func TestListIdentities(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/v1/identities")
	if err != nil {
		t.Fatalf("request error = %v", err)
	}
	defer res.Body.Close()
	var payload struct {
		Identities []string `json:"identities"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Identities) != 1 || payload.Identities[0] != "doctor" {
		t.Fatalf("identities = %v, want [doctor]", payload.Identities)
	}
}

func TestSessionWebSocketTurn(t *testing.T) {
	srv, store := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	created := createSession(t, ts, nil)
	sessionID := created["session_id"].(string)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/chat/session/ws?session_id=" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial error = %v", err)
	}
	defer conn.Close()

	utterance := map[string]any{
		"type":       "user_utterance",
		"session_id": sessionID,
		"text":       "i remember my dog",
	}
	if err := conn.WriteJSON(utterance); err != nil {
		t.Fatalf("write error = %v", err)
	}

	var reply map[string]any
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read error = %v", err)
	}
	if reply["type"] != "identity_reply" {
		t.Fatalf("reply type = %v: %+v", reply["type"], reply)
	}
	if reply["text"] != "Do you often think of your dog" {
		t.Fatalf("reply text = %v", reply["text"])
	}
	if reply["turn_index"].(float64) != 0 {
		t.Fatalf("turn_index = %v, want 0", reply["turn_index"])
	}

	records, err := store.RecentTurns(context.Background(), sessionID, 10)
	if err != nil {
		t.Fatalf("RecentTurns error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("persisted turns = %d, want 1", len(records))
	}
	if records[0].Utterance != "i remember my dog" {
		t.Fatalf("persisted utterance = %q", records[0].Utterance)
	}
}

func TestSessionWebSocketStopWordEnds(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	created := createSession(t, ts, nil)
	sessionID := created["session_id"].(string)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/chat/session/ws?session_id=" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial error = %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]any{
		"type":       "user_utterance",
		"session_id": sessionID,
		"text":       "goodbye",
	}); err != nil {
		t.Fatalf("write error = %v", err)
	}

	var event map[string]any
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read error = %v", err)
	}
	if event["type"] != "system_event" || event["code"] != "session_ended" {
		t.Fatalf("event = %+v, want session_ended", event)
	}
}

func TestSessionWebSocketRedactsPersistedTurn(t *testing.T) {
	srv, store := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	created := createSession(t, ts, nil)
	sessionID := created["session_id"].(string)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/chat/session/ws?session_id=" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial error = %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]any{
		"type":       "user_utterance",
		"session_id": sessionID,
		"text":       "write to me at jane@example.com",
	}); err != nil {
		t.Fatalf("write error = %v", err)
	}
	var reply map[string]any
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read error = %v", err)
	}

	records, err := store.RecentTurns(context.Background(), sessionID, 1)
	if err != nil {
		t.Fatalf("RecentTurns error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("persisted turns = %d, want 1", len(records))
	}
	if !records[0].Redacted || strings.Contains(records[0].Utterance, "jane@example.com") {
		t.Fatalf("record not redacted: %+v", records[0])
	}
}

func TestRunConversation(t *testing.T) {
	srv, store := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	payload, _ := json.Marshal(map[string]any{
		"identities": []map[string]string{
			{"script": "doctor", "name": "Therapist"},
			{"script": "doctor", "name": "Patient"},
		},
		"max_turns": 4,
	})
	res, err := http.Post(ts.URL+"/v1/conversations", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("request error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	var body conversationResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Reason != "max_turns" {
		t.Fatalf("reason = %q, want max_turns", body.Reason)
	}
	if len(body.Turns) != 4 {
		t.Fatalf("turn count = %d, want 4", len(body.Turns))
	}
	if body.Turns[0].Speaker != "Therapist" || body.Turns[1].Speaker != "Patient" {
		t.Fatalf("speakers = %q, %q", body.Turns[0].Speaker, body.Turns[1].Speaker)
	}

	records, err := store.RecentTurns(context.Background(), body.ConversationID, 10)
	if err != nil {
		t.Fatalf("RecentTurns error = %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("persisted turns = %d, want 4", len(records))
	}
}

func TestRunConversationRejectsEmpty(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	res, err := http.Post(ts.URL+"/v1/conversations", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("request error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusBadRequest)
	}
}

func TestTranscriptEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	for i := 0; i < 3; i++ {
		if err := store.SaveTurn(context.Background(), transcript.TurnRecord{
			SessionID: "s1",
			Index:     i,
			Speaker:   "doctor",
			Response:  "Please go on",
		}); err != nil {
			t.Fatalf("SaveTurn error = %v", err)
		}
	}

	res, err := http.Get(ts.URL + "/v1/chat/session/s1/transcript?limit=2")
	if err != nil {
		t.Fatalf("request error = %v", err)
	}
	defer res.Body.Close()
	var payload struct {
		SessionID string                  `json:"session_id"`
		Turns     []transcript.TurnRecord `json:"turns"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Turns) != 2 {
		t.Fatalf("turn count = %d, want 2", len(payload.Turns))
	}
	if payload.Turns[0].Index != 1 {
		t.Fatalf("first index = %d, want 1", payload.Turns[0].Index)
	}
}

func TestHealthAndReady(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	for _, path := range []string{"/healthz", "/readyz"} {
		res, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s error = %v", path, err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Fatalf("GET %s status = %d, want %d", path, res.StatusCode, http.StatusOK)
		}
	}
}

func TestUIRedirect(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	res, err := client.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET / error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusTemporaryRedirect {
		t.Fatalf("GET / status = %d, want %d", res.StatusCode, http.StatusTemporaryRedirect)
	}
	if got := res.Header.Get("Location"); got != "/ui/" {
		t.Fatalf("GET / location = %q, want %q", got, "/ui/")
	}
}
