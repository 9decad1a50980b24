package play

import (
	"time"

	"github.com/abhisek/quizly/internal/api"
	"github.com/abhisek/quizly/internal/quiz"
)

// quizLoadedMsg carries the fetched quiz.
type quizLoadedMsg struct {
	Quiz *api.Quiz
	Err  error
}

// timerTickMsg drives the countdown. ID ties the tick to one countdown so
// ticks from a finished question are ignored.
type timerTickMsg struct {
	ID int
	At time.Time
}

// scoreSubmittedMsg carries the outcome of a score submission.
type scoreSubmittedMsg struct {
	PlayerName string
	Outcome    quiz.Outcome
	Err        error
}
