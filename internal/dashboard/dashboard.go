// Package dashboard assembles the home screen's flashcard previews.
package dashboard

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/quizly/internal/api"
)

// DefaultLimit is how many recent quizzes are previewed.
const DefaultLimit = 5

// Backend is the subset of the API client the dashboard reads from.
type Backend interface {
	RecentQuizzes(ctx context.Context) ([]api.RecentQuiz, error)
	Flashcards(ctx context.Context, quizID string) ([]api.Flashcard, error)
}

// Previews returns the first flashcard of each of the most recent quizzes,
// at most limit of them, in recent-quiz order. Flashcards are fetched
// concurrently; a failed or empty fetch drops that quiz with a warning.
// Only failure to list recent quizzes is returned as an error.
func Previews(ctx context.Context, backend Backend, limit int, log *zap.Logger) ([]api.Flashcard, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	ctx = api.WithPurpose(ctx, "dashboard")
	recent, err := backend.RecentQuizzes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recent quizzes: %w", err)
	}
	if len(recent) > limit {
		recent = recent[:limit]
	}

	slots := make([]*api.Flashcard, len(recent))
	var g errgroup.Group
	g.SetLimit(len(recent) + 1)
	for i, rq := range recent {
		g.Go(func() error {
			cards, err := backend.Flashcards(ctx, rq.QuizID)
			if err != nil {
				log.Warn("fetch flashcards for preview", zap.String("quiz_id", rq.QuizID), zap.Error(err))
				return nil
			}
			if len(cards) == 0 {
				log.Debug("quiz has no flashcards", zap.String("quiz_id", rq.QuizID))
				return nil
			}
			card := cards[0]
			card.QuizTitle = rq.ContentName
			if card.QuizID == "" {
				card.QuizID = rq.QuizID
			}
			slots[i] = &card
			return nil
		})
	}
	_ = g.Wait()

	out := make([]api.Flashcard, 0, len(slots))
	for _, c := range slots {
		if c != nil {
			out = append(out, *c)
		}
	}
	return out, nil
}
