package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/quizly/internal/api"
	"github.com/abhisek/quizly/internal/store"
)

var (
	ErrPlayerNameRequired = errors.New("player name is required")
	ErrMissingQuizID      = errors.New("quiz id is missing")
	ErrAlreadySubmitted   = errors.New("score already submitted")
)

// Alerts shown for rejected submissions.
const (
	AlertPlayerName = "Please enter your name before submitting your score."
	AlertQuizID     = "Invalid quiz ID."
)

// ScoreSubmitter posts finished scores.
type ScoreSubmitter interface {
	SubmitScore(ctx context.Context, s api.ScoreSubmission) error
}

// Outcome is the result of a score submission attempt. Leaderboard is the
// quiz whose leaderboard should be shown next; it is set even when posting
// failed.
type Outcome struct {
	Leaderboard string
	Submitted   bool
	Alert       string
	Err         error
}

// SubmitScore posts the final score once. Validation failures return an
// error and an alert, make no request and leave the session Completed.
// Otherwise the session moves to ScoreSubmitted whether or not the post
// succeeded; a failed post is reported through Outcome and not retried.
func (s *Session) SubmitScore(ctx context.Context, sub ScoreSubmitter, playerName string) (Outcome, error) {
	switch s.phase {
	case Completed:
	case ScoreSubmitted:
		return Outcome{Leaderboard: s.quizID}, ErrAlreadySubmitted
	default:
		return Outcome{}, ErrWrongPhase
	}

	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return Outcome{Alert: AlertPlayerName}, ErrPlayerNameRequired
	}
	if strings.TrimSpace(s.quizID) == "" {
		return Outcome{Alert: AlertQuizID}, ErrMissingQuizID
	}

	s.phase = ScoreSubmitted
	out := Outcome{Leaderboard: s.quizID}
	err := sub.SubmitScore(api.WithPurpose(ctx, "submit-score"), api.ScoreSubmission{
		QuizID:     s.quizID,
		PlayerName: playerName,
		Score:      s.score,
	})
	if err != nil {
		out.Err = err
		out.Alert = fmt.Sprintf("Failed to submit score: %v", err)
		return out, nil
	}
	out.Submitted = true
	return out, nil
}

// Attempt builds the local history record for a finished session.
func (s *Session) Attempt(playerName string, o Outcome) *store.Attempt {
	r := s.Result()
	a := &store.Attempt{
		QuizID:     s.quizID,
		Title:      s.title,
		PlayerName: strings.TrimSpace(playerName),
		Score:      r.FinalScore,
		Total:      r.Total,
		Accuracy:   r.Accuracy,
		Submitted:  o.Submitted,
	}
	if o.Err != nil {
		a.SubmitError = o.Err.Error()
	}
	return a
}
