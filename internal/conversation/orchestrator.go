// Package conversation drives round-robin turns between identities: each
// response becomes the next participant's input, and every turn is recorded
// in an append-only transcript.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/parleybot/parley/internal/identity"
)

// SeedSenderID attributes the seed utterance to a virtual participant.
const SeedSenderID = "user"

// DefaultStopWords terminate a conversation when they appear as the whole
// (punctuation-trimmed, case-folded) utterance.
var DefaultStopWords = []string{"quit", "goodbye", "bye"}

// ErrIdentityFailure marks a run terminated because a participant failed to
// produce a response.
var ErrIdentityFailure = errors.New("identity invocation failed")

// Turn is one completed exchange. Records are append-only.
type Turn struct {
	ID        string    `json:"id"`
	Index     int       `json:"index"`
	SpeakerID string    `json:"speaker_id"`
	Speaker   string    `json:"speaker"`
	Utterance string    `json:"utterance"`
	Response  string    `json:"response"`
	Failed    bool      `json:"failed,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// StopReason says why a run ended.
type StopReason string

const (
	ReasonMaxTurns        StopReason = "max_turns"
	ReasonStopWord        StopReason = "stop_word"
	ReasonCanceled        StopReason = "canceled"
	ReasonIdentityFailure StopReason = "identity_failure"
)

// Options configures a run.
type Options struct {
	// Seed is the opening utterance, attributed to SeedSenderID. The
	// original workshop demo seeds with an empty string so the first
	// identity opens with its greeting.
	Seed string

	// MaxTurns bounds the transcript length. Required, positive.
	MaxTurns int

	// StopWords override DefaultStopWords when non-nil.
	StopWords []string

	// Terminate, when set, is consulted with each pending utterance in
	// addition to the stop words.
	Terminate func(utterance string) bool

	// OnTurn observes each turn as it completes, before the next identity
	// is dispatched.
	OnTurn func(Turn)
}

// Result is a finished run: the transcript and why it stopped.
type Result struct {
	Turns  []Turn     `json:"turns"`
	Reason StopReason `json:"reason"`
}

type runState int

const (
	stateAwaitingTurn runState = iota
	stateInTurn
	stateTerminated
)

// Run executes a strictly sequential round-robin conversation. Each turn's
// response replaces the current utterance and the speaker index advances mod
// len(identities). The run terminates on MaxTurns, a stop-word utterance,
// context cancellation, or an identity failure; a failure records a
// synthetic turn and surfaces ErrIdentityFailure alongside the transcript
// collected so far.
func Run(ctx context.Context, identities []identity.Identity, opts Options) (Result, error) {
	if len(identities) == 0 {
		return Result{}, errors.New("at least one identity is required")
	}
	if opts.MaxTurns <= 0 {
		return Result{}, errors.New("max turns must be positive")
	}
	stopWords := opts.StopWords
	if stopWords == nil {
		stopWords = DefaultStopWords
	}

	var (
		turns     []Turn
		utterance = opts.Seed
		senderID  = SeedSenderID
		state     = stateAwaitingTurn
	)

	for i := 0; state != stateTerminated; i++ {
		if i >= opts.MaxTurns {
			return Result{Turns: turns, Reason: ReasonMaxTurns}, nil
		}
		if shouldStop(utterance, stopWords, opts.Terminate) {
			return Result{Turns: turns, Reason: ReasonStopWord}, nil
		}
		if err := ctx.Err(); err != nil {
			return Result{Turns: turns, Reason: ReasonCanceled}, err
		}

		speaker := identities[i%len(identities)]
		state = stateInTurn
		resp, err := speaker.Respond(ctx, senderID, utterance)
		turn := Turn{
			ID:        uuid.NewString(),
			Index:     i,
			SpeakerID: fmt.Sprintf("%d", i%len(identities)),
			Speaker:   speaker.Name(),
			Utterance: utterance,
			CreatedAt: time.Now().UTC(),
		}
		if err != nil {
			turn.Failed = true
			turn.Response = fmt.Sprintf("(no response: %v)", err)
			turns = append(turns, turn)
			if opts.OnTurn != nil {
				opts.OnTurn(turn)
			}
			return Result{Turns: turns, Reason: ReasonIdentityFailure},
				fmt.Errorf("%w: identity %q turn %d: %v", ErrIdentityFailure, speaker.Name(), i, err)
		}

		turn.Response = resp
		turns = append(turns, turn)
		if opts.OnTurn != nil {
			opts.OnTurn(turn)
		}

		utterance = resp
		senderID = speaker.Name()
		state = stateAwaitingTurn
	}

	return Result{Turns: turns, Reason: ReasonMaxTurns}, nil
}

func shouldStop(utterance string, stopWords []string, terminate func(string) bool) bool {
	if terminate != nil && terminate(utterance) {
		return true
	}
	return IsStopWord(utterance, stopWords)
}

// IsStopWord reports whether the utterance, trimmed of surrounding space and
// punctuation, equals one of the stop words (case-insensitive).
func IsStopWord(utterance string, stopWords []string) bool {
	trimmed := strings.ToLower(strings.Trim(strings.TrimSpace(utterance), ".!?,;"))
	if trimmed == "" {
		return false
	}
	for _, w := range stopWords {
		if trimmed == strings.ToLower(w) {
			return true
		}
	}
	return false
}
