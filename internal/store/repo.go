package store

import (
	"context"
	"time"
)

// Preference keys.
const (
	PrefPlayerName = "player_name"
	PrefUserID     = "user_id"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	After   int64  // sequence > After
	Before  int64  // sequence < Before
	Purpose string // exact purpose match ("" = any)
}

// PrefsRepo is a small persisted key-value store for client preferences.
type PrefsRepo interface {
	// Get returns the value for key, or "" if unset.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// APIRequestEventData captures a single backend API call.
type APIRequestEventData struct {
	RequestID    string
	Method       string
	Path         string
	Purpose      string
	StatusCode   int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// APIRequestEvent is a stored API request event.
type APIRequestEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	APIRequestEventData
}

// EventRepo provides append and query access to the API request log.
type EventRepo interface {
	// AppendAPIRequest records a backend API call.
	AppendAPIRequest(ctx context.Context, data APIRequestEventData) error

	// QueryAPIEvents returns events newest first.
	QueryAPIEvents(ctx context.Context, opts QueryOpts) ([]APIRequestEvent, error)

	// GetAPIEvent returns a single event, or nil if it does not exist.
	GetAPIEvent(ctx context.Context, id int64) (*APIRequestEvent, error)
}

// Attempt is a locally recorded quiz attempt.
type Attempt struct {
	ID          string
	Sequence    int64
	Timestamp   time.Time
	QuizID      string
	Title       string
	PlayerName  string
	Score       int
	Total       int
	Accuracy    int
	Submitted   bool
	SubmitError string
}

// AttemptRepo stores the local quiz attempt history.
type AttemptRepo interface {
	// AppendAttempt records a finished attempt. ID and Sequence are assigned
	// when empty.
	AppendAttempt(ctx context.Context, a *Attempt) error

	// RecentAttempts returns the newest attempts first.
	RecentAttempts(ctx context.Context, limit int) ([]Attempt, error)
}
