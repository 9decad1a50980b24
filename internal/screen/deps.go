package screen

import (
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/quizly/internal/api"
	"github.com/abhisek/quizly/internal/generation"
	"github.com/abhisek/quizly/internal/store"
	"github.com/abhisek/quizly/internal/subscription"
)

// Deps are the services shared by all screens.
type Deps struct {
	API          *api.Client
	Subscription *subscription.Provider
	Generation   *generation.Service
	Prefs        store.PrefsRepo
	Attempts     store.AttemptRepo
	Payee        subscription.Payee
	QuestionTime time.Duration
	// DownloadDir receives mock test PDFs.
	DownloadDir string
	Log         *zap.Logger
}
