package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenAppliesWAL(t *testing.T) {
	s := openTestStore(t)

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestEventTablesIndexed(t *testing.T) {
	s := openTestStore(t)

	rows, err := s.DB().Query(`SELECT name FROM sqlite_master WHERE type = 'index' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		t.Fatalf("list indexes: %v", err)
	}
	defer rows.Close()

	got := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan: %v", err)
		}
		got[name] = true
	}
	for _, want := range []string{
		"api_request_events_purpose",
		"api_request_events_timestamp",
		"api_request_events_success",
		"quiz_attempts_quiz_id",
		"quiz_attempts_timestamp",
	} {
		if !got[want] {
			t.Errorf("missing index %s", want)
		}
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	ctx := context.Background()
	if err := s1.PrefsRepo().Set(ctx, PrefUserID, "u1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer s2.Close()
	got, err := s2.PrefsRepo().Get(ctx, PrefUserID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "u1" {
		t.Errorf("user id = %q, want u1", got)
	}
}

func TestPrefsSetGetDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	prefs := s.PrefsRepo()

	got, err := prefs.Get(ctx, PrefPlayerName)
	if err != nil {
		t.Fatalf("get unset: %v", err)
	}
	if got != "" {
		t.Errorf("unset pref = %q, want empty", got)
	}

	if err := prefs.Set(ctx, PrefPlayerName, "asha"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := prefs.Set(ctx, PrefPlayerName, "ravi"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = prefs.Get(ctx, PrefPlayerName)
	if got != "ravi" {
		t.Errorf("pref = %q, want ravi", got)
	}

	if err := prefs.Delete(ctx, PrefPlayerName); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := prefs.Delete(ctx, PrefPlayerName); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	got, _ = prefs.Get(ctx, PrefPlayerName)
	if got != "" {
		t.Errorf("deleted pref = %q, want empty", got)
	}
}

func TestAPIEventsAppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	events := s.EventRepo()

	purposes := []string{"subscription", "create-quiz", "subscription"}
	for i, p := range purposes {
		err := events.AppendAPIRequest(ctx, APIRequestEventData{
			RequestID:  "req",
			Method:     "GET",
			Path:       "/subscription-status",
			Purpose:    p,
			StatusCode: 200,
			LatencyMs:  int64(10 * (i + 1)),
			Success:    true,
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	all, err := events.QueryAPIEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	if all[0].Sequence <= all[1].Sequence || all[1].Sequence <= all[2].Sequence {
		t.Errorf("events not newest first: %d %d %d", all[0].Sequence, all[1].Sequence, all[2].Sequence)
	}
	if !all[0].Success || all[0].LatencyMs != 30 {
		t.Errorf("newest event = %+v", all[0].APIRequestEventData)
	}

	subs, err := events.QueryAPIEvents(ctx, QueryOpts{Purpose: "subscription", Limit: 1})
	if err != nil {
		t.Fatalf("query purpose: %v", err)
	}
	if len(subs) != 1 || subs[0].LatencyMs != 30 {
		t.Errorf("purpose filter returned %+v", subs)
	}

	older, err := events.QueryAPIEvents(ctx, QueryOpts{Before: all[0].Sequence})
	if err != nil {
		t.Fatalf("query before: %v", err)
	}
	if len(older) != 2 {
		t.Errorf("before filter returned %d events, want 2", len(older))
	}

	ev, err := events.GetAPIEvent(ctx, all[2].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ev == nil || ev.Sequence != all[2].Sequence {
		t.Errorf("get returned %+v", ev)
	}

	missing, err := events.GetAPIEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing event, got %+v", missing)
	}
}

func TestAttemptsShareSequenceWithEvents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.EventRepo().AppendAPIRequest(ctx, APIRequestEventData{Method: "GET", Path: "/x", Success: true}); err != nil {
		t.Fatalf("append event: %v", err)
	}

	a := &Attempt{QuizID: "q1", Title: "Go basics", PlayerName: "asha", Score: 3, Total: 4, Accuracy: 75, Submitted: true}
	if err := s.AttemptRepo().AppendAttempt(ctx, a); err != nil {
		t.Fatalf("append attempt: %v", err)
	}
	if a.ID == "" {
		t.Error("expected generated attempt id")
	}
	if a.Sequence != 2 {
		t.Errorf("attempt sequence = %d, want 2", a.Sequence)
	}

	b := &Attempt{QuizID: "q2", Title: "Rust", Score: 0, Total: 2, SubmitError: "boom"}
	if err := s.AttemptRepo().AppendAttempt(ctx, b); err != nil {
		t.Fatalf("append second attempt: %v", err)
	}

	got, err := s.AttemptRepo().RecentAttempts(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d attempts, want 2", len(got))
	}
	if got[0].QuizID != "q2" || got[0].Submitted || got[0].SubmitError != "boom" {
		t.Errorf("newest attempt = %+v", got[0])
	}
	if got[1].Accuracy != 75 || !got[1].Submitted {
		t.Errorf("older attempt = %+v", got[1])
	}
}

func TestDefaultDBPathRespectsEnv(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "q.db")
	t.Setenv("QUIZLY_DB", p)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if got != p {
		t.Errorf("path = %q, want %q", got, p)
	}
	if _, err := os.Stat(filepath.Dir(p)); err != nil {
		t.Errorf("parent dir not created: %v", err)
	}
}

func TestDefaultDBPathXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QUIZLY_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	want := filepath.Join(dir, "quizly", "quizly.db")
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}
