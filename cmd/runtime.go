package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizly/internal/api"
	"github.com/abhisek/quizly/internal/config"
	"github.com/abhisek/quizly/internal/generation"
	"github.com/abhisek/quizly/internal/logger"
	"github.com/abhisek/quizly/internal/screen"
	"github.com/abhisek/quizly/internal/store"
	"github.com/abhisek/quizly/internal/subscription"
)

var errNotSignedIn = errors.New("not signed in; run `quizly login <user-id>` first")

// runtime is everything a command needs: config, store, logger and the
// services built on them.
type runtime struct {
	cfg   config.Config
	store *store.Store
	log   *zap.Logger
	deps  screen.Deps
}

// newRuntime loads config, opens the store and wires the services. When
// tui is set, logs go to a file so they do not corrupt the alt screen.
func newRuntime(cmd *cobra.Command, tui bool) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logFile := cfg.Log.File
	if tui && logFile == "" {
		if logFile, err = config.DefaultLogPath(); err != nil {
			return nil, fmt.Errorf("resolve log path: %w", err)
		}
	}
	log, err := logger.New(cfg.Env, cfg.Log.Level, logFile)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	client, err := api.New(api.Options{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		Timeout: cfg.API.Timeout,
		Events:  st.EventRepo(),
		Logger:  log,
	})
	if err != nil {
		st.Close()
		return nil, err
	}

	sub := subscription.NewProvider(client, subscription.Options{
		Debounce:    cfg.Subscription.RefreshDebounce,
		SettleDelay: cfg.Subscription.SettleDelay,
		Logger:      log,
	})

	ctx := context.Background()
	prefs := st.PrefsRepo()
	userID, _ := prefs.Get(ctx, store.PrefUserID)
	if userID == "" {
		userID = cfg.User.ID
	}
	sub.SetUser(userID)
	seedPlayerName(ctx, prefs, cfg.User.PlayerName, log)

	wd, _ := os.Getwd()
	return &runtime{
		cfg:   cfg,
		store: st,
		log:   log,
		deps: screen.Deps{
			API:          client,
			Subscription: sub,
			Generation: generation.NewService(client, sub, generation.Options{
				FollowUpDelay: cfg.Subscription.FollowUpDelay,
				Logger:        log,
			}),
			Prefs:        prefs,
			Attempts:     st.AttemptRepo(),
			Payee:        subscription.Payee{ID: cfg.Payment.UPIID, Name: cfg.Payment.UPIName},
			QuestionTime: cfg.Quiz.QuestionTime,
			DownloadDir:  wd,
			Log:          log,
		},
	}, nil
}

// seedPlayerName stores the configured player name unless one is already
// saved. Store failures are logged only.
func seedPlayerName(ctx context.Context, prefs store.PrefsRepo, name string, log *zap.Logger) {
	if name == "" {
		return
	}
	current, err := prefs.Get(ctx, store.PrefPlayerName)
	if err != nil {
		log.Warn("read player name", zap.Error(err))
		return
	}
	if current != "" {
		return
	}
	if err := prefs.Set(ctx, store.PrefPlayerName, name); err != nil {
		log.Warn("save player name", zap.Error(err))
	}
}

// userID returns the signed-in user or errNotSignedIn.
func (r *runtime) userID() (string, error) {
	id := r.deps.Subscription.UserID()
	if id == "" {
		return "", errNotSignedIn
	}
	return id, nil
}

func (r *runtime) Close() {
	_ = r.log.Sync()
	r.store.Close()
}
