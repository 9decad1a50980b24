// Package screentest wires screen dependencies against an in-process
// development server for screen tests.
package screentest

import (
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/quizly/internal/api"
	"github.com/abhisek/quizly/internal/devserver"
	"github.com/abhisek/quizly/internal/generation"
	"github.com/abhisek/quizly/internal/screen"
	"github.com/abhisek/quizly/internal/store"
	"github.com/abhisek/quizly/internal/subscription"
)

// Env is a running backend plus the deps built on it.
type Env struct {
	Deps  screen.Deps
	State *devserver.State
	Store *store.Store
}

// New starts a development server with the given free quota, opens a
// store in a temp dir and signs userID in. Everything is torn down with t.
func New(t *testing.T, quota int, userID string) *Env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine, state := devserver.NewRouter(devserver.Options{FreeQuota: quota})
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	st, err := store.Open(filepath.Join(t.TempDir(), "quizly.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	client, err := api.New(api.Options{BaseURL: srv.URL + "/api", Events: st.EventRepo()})
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	sub := subscription.NewProvider(client, subscription.Options{SettleDelay: time.Nanosecond})
	sub.SetUser(userID)

	return &Env{
		Deps: screen.Deps{
			API:          client,
			Subscription: sub,
			Generation:   generation.NewService(client, sub, generation.Options{FollowUpDelay: time.Nanosecond}),
			Prefs:        st.PrefsRepo(),
			Attempts:     st.AttemptRepo(),
			Payee:        subscription.Payee{ID: "quizly@upi", Name: "Quizly"},
			QuestionTime: 30 * time.Second,
			Log:          zap.NewNop(),
		},
		State: state,
		Store: st,
	}
}
