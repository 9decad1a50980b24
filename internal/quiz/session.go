// Package quiz implements the timed, one-question-at-a-time quiz flow.
package quiz

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/quizly/internal/api"
)

// DefaultQuestionTime is the per-question countdown.
const DefaultQuestionTime = 30 * time.Second

// User-visible messages for the terminal error phase.
const (
	MsgNoQuestions = "No questions available"
	MsgFetchFailed = "Failed to fetch questions"
)

var (
	ErrWrongPhase    = errors.New("action not allowed in current phase")
	ErrUnknownOption = errors.New("answer is not one of the options")
)

// Phase is the session's position in the quiz flow.
type Phase int

const (
	Loading Phase = iota
	Presenting
	AnswerLocked
	Completed
	ScoreSubmitted
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Presenting:
		return "presenting"
	case AnswerLocked:
		return "answer-locked"
	case Completed:
		return "completed"
	case ScoreSubmitted:
		return "score-submitted"
	case Failed:
		return "error"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// AnswerResult records how one question was answered.
type AnswerResult struct {
	QuestionID string
	Selected   string
	Answer     string
	Correct    bool
	TimedOut   bool
}

// Result is the summary of a completed quiz.
type Result struct {
	FinalScore int
	Total      int
	Accuracy   int
}

// Session drives one play-through of a quiz. It is not safe for concurrent
// use; the TUI mutates it from its update loop only.
type Session struct {
	quizID       string
	title        string
	questions    []api.Question
	questionTime time.Duration
	now          func() time.Time

	phase    Phase
	index    int
	selected string
	score    int
	results  []AnswerResult
	deadline time.Time
	timerID  int

	errMsg string
	err    error
}

// NewSession creates a session in the Loading phase. A zero questionTime
// uses DefaultQuestionTime; a nil now uses time.Now.
func NewSession(quizID string, questionTime time.Duration, now func() time.Time) *Session {
	if questionTime <= 0 {
		questionTime = DefaultQuestionTime
	}
	if now == nil {
		now = time.Now
	}
	return &Session{quizID: quizID, questionTime: questionTime, now: now}
}

// Load supplies the fetched quiz and presents the first question. An
// empty question list ends the session in Failed.
func (s *Session) Load(title string, questions []api.Question) error {
	if s.phase != Loading {
		return ErrWrongPhase
	}
	s.title = title
	if len(questions) == 0 {
		s.phase = Failed
		s.errMsg = MsgNoQuestions
		return nil
	}
	s.questions = questions
	s.results = make([]AnswerResult, 0, len(questions))
	s.present(0)
	return nil
}

// Fail ends a loading session with a fetch error.
func (s *Session) Fail(err error) {
	if s.phase != Loading {
		return
	}
	s.phase = Failed
	s.errMsg = MsgFetchFailed
	s.err = err
}

func (s *Session) present(i int) {
	s.phase = Presenting
	s.index = i
	s.selected = ""
	s.deadline = s.now().Add(s.questionTime)
	s.timerID++
}

// Select records a candidate answer. It replaces any earlier selection and
// does not lock the answer.
func (s *Session) Select(answer string) error {
	if s.phase != Presenting {
		return ErrWrongPhase
	}
	q := s.questions[s.index]
	for _, c := range q.Choices() {
		if c == answer {
			s.selected = answer
			return nil
		}
	}
	return ErrUnknownOption
}

// Submit locks the current selection, which may be empty, and scores it.
func (s *Session) Submit() (AnswerResult, error) {
	return s.lock(false)
}

func (s *Session) lock(timedOut bool) (AnswerResult, error) {
	if s.phase != Presenting {
		return AnswerResult{}, ErrWrongPhase
	}
	q := s.questions[s.index]
	r := AnswerResult{
		QuestionID: q.ID,
		Selected:   s.selected,
		Answer:     q.Answer,
		Correct:    s.selected != "" && s.selected == q.Answer,
		TimedOut:   timedOut,
	}
	if r.Correct {
		s.score++
	}
	s.results = append(s.results, r)
	s.phase = AnswerLocked
	s.timerID++
	return r, nil
}

// Tick checks the countdown. Once the deadline has passed while a question
// is presented, the current selection is submitted and Tick returns true.
func (s *Session) Tick(now time.Time) bool {
	if s.phase != Presenting || now.Before(s.deadline) {
		return false
	}
	_, err := s.lock(true)
	return err == nil
}

// Next moves past a locked answer to the next question or to Completed.
func (s *Session) Next() error {
	if s.phase != AnswerLocked {
		return ErrWrongPhase
	}
	if s.index+1 < len(s.questions) {
		s.present(s.index + 1)
		return nil
	}
	s.phase = Completed
	return nil
}

// Result summarizes the answers locked so far.
func (s *Session) Result() Result {
	return Result{
		FinalScore: s.score,
		Total:      len(s.questions),
		Accuracy:   Accuracy(s.score, len(s.questions)),
	}
}

// Accuracy is score/total as a percentage rounded half up. A zero total
// yields 0.
func Accuracy(score, total int) int {
	if total <= 0 {
		return 0
	}
	return (score*200 + total) / (2 * total)
}

func (s *Session) QuizID() string { return s.quizID }
func (s *Session) Title() string  { return s.title }
func (s *Session) Phase() Phase   { return s.phase }
func (s *Session) Index() int     { return s.index }
func (s *Session) Total() int     { return len(s.questions) }
func (s *Session) Score() int     { return s.score }

// Selected returns the current, possibly locked, selection.
func (s *Session) Selected() string { return s.selected }

// TimerID changes whenever a countdown starts or stops. Timer ticks carrying
// an older id are stale.
func (s *Session) TimerID() int { return s.timerID }

// ErrorMessage returns the user-visible message of the Failed phase.
func (s *Session) ErrorMessage() string { return s.errMsg }

// Err returns the fetch error that failed the session, if any.
func (s *Session) Err() error { return s.err }

// Question returns the question at the current index.
func (s *Session) Question() (api.Question, bool) {
	if s.index < 0 || s.index >= len(s.questions) {
		return api.Question{}, false
	}
	return s.questions[s.index], true
}

// LastResult returns the result of the most recently locked answer.
func (s *Session) LastResult() (AnswerResult, bool) {
	if len(s.results) == 0 {
		return AnswerResult{}, false
	}
	return s.results[len(s.results)-1], true
}

// Results returns every locked answer in order.
func (s *Session) Results() []AnswerResult {
	return append([]AnswerResult(nil), s.results...)
}

// TimeLeft returns the remaining time on the current question's countdown.
func (s *Session) TimeLeft() time.Duration {
	if s.phase != Presenting {
		return 0
	}
	left := s.deadline.Sub(s.now())
	if left < 0 {
		return 0
	}
	return left
}

// QuestionTime returns the full countdown length.
func (s *Session) QuestionTime() time.Duration { return s.questionTime }
