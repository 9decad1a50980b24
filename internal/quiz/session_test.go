package quiz

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizly/internal/api"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func newTestSession(t *testing.T, questions []api.Question) (*Session, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	s := NewSession("q1", 0, clock.Now)
	require.NoError(t, s.Load("Go basics", questions))
	return s, clock
}

func sampleQuestions(n int) []api.Question {
	qs := make([]api.Question, n)
	for i := range qs {
		qs[i] = api.Question{
			ID:       string(rune('a' + i)),
			Question: "pick b",
			Options:  []string{"a", "b", "c"},
			Answer:   "b",
			Type:     api.MultipleChoice,
		}
	}
	return qs
}

func answerAll(t *testing.T, s *Session, answer string) {
	t.Helper()
	for s.Phase() == Presenting {
		if answer != "" {
			require.NoError(t, s.Select(answer))
		}
		_, err := s.Submit()
		require.NoError(t, err)
		require.NoError(t, s.Next())
	}
}

func TestLoadPresentsFirstQuestion(t *testing.T) {
	s, _ := newTestSession(t, sampleQuestions(3))
	assert.Equal(t, Presenting, s.Phase())
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, 3, s.Total())
	assert.Equal(t, DefaultQuestionTime, s.TimeLeft())
	assert.Equal(t, "Go basics", s.Title())
}

func TestLoadEmptyQuestionsFails(t *testing.T) {
	s := NewSession("q1", 0, nil)
	require.NoError(t, s.Load("empty", nil))
	assert.Equal(t, Failed, s.Phase())
	assert.Equal(t, MsgNoQuestions, s.ErrorMessage())
}

func TestFailOnFetchError(t *testing.T) {
	s := NewSession("q1", 0, nil)
	s.Fail(errors.New("503"))
	assert.Equal(t, Failed, s.Phase())
	assert.Equal(t, MsgFetchFailed, s.ErrorMessage())
	assert.EqualError(t, s.Err(), "503")
	assert.ErrorIs(t, s.Load("late", sampleQuestions(1)), ErrWrongPhase)
}

func TestAllCorrectScoresFull(t *testing.T) {
	s, _ := newTestSession(t, sampleQuestions(4))
	answerAll(t, s, "b")

	assert.Equal(t, Completed, s.Phase())
	assert.Equal(t, Result{FinalScore: 4, Total: 4, Accuracy: 100}, s.Result())
}

func TestNoneCorrectScoresZero(t *testing.T) {
	s, _ := newTestSession(t, sampleQuestions(4))
	answerAll(t, s, "a")

	assert.Equal(t, Result{FinalScore: 0, Total: 4, Accuracy: 0}, s.Result())
}

func TestLastCorrectAnswerCountedOnce(t *testing.T) {
	s, _ := newTestSession(t, sampleQuestions(2))
	require.NoError(t, s.Select("a"))
	_, _ = s.Submit()
	require.NoError(t, s.Next())
	require.NoError(t, s.Select("b"))
	_, _ = s.Submit()
	require.NoError(t, s.Next())

	assert.Equal(t, Result{FinalScore: 1, Total: 2, Accuracy: 50}, s.Result())
}

func TestAccuracyRounding(t *testing.T) {
	tests := []struct {
		score, total, want int
	}{
		{0, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds up
		{5, 5, 100},
		{0, 7, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Accuracy(tt.score, tt.total), "%d/%d", tt.score, tt.total)
	}
}

func TestSelectIsExclusiveAndUnlocked(t *testing.T) {
	s, _ := newTestSession(t, sampleQuestions(1))
	require.NoError(t, s.Select("a"))
	require.NoError(t, s.Select("b"))
	assert.Equal(t, "b", s.Selected())
	assert.Equal(t, Presenting, s.Phase())

	assert.ErrorIs(t, s.Select("z"), ErrUnknownOption)
	assert.Equal(t, "b", s.Selected())
}

func TestSubmitFreezesSelection(t *testing.T) {
	s, _ := newTestSession(t, sampleQuestions(2))
	require.NoError(t, s.Select("b"))
	r, err := s.Submit()
	require.NoError(t, err)
	assert.True(t, r.Correct)
	assert.Equal(t, "b", r.Answer)

	assert.ErrorIs(t, s.Select("a"), ErrWrongPhase)
	_, err = s.Submit()
	assert.ErrorIs(t, err, ErrWrongPhase)
	assert.Equal(t, 1, s.Score())
}

func TestTrueFalseChoices(t *testing.T) {
	s, _ := newTestSession(t, []api.Question{{ID: "1", Question: "Go has generics", Answer: "True", Type: api.TrueFalse}})
	require.NoError(t, s.Select("True"))
	r, _ := s.Submit()
	assert.True(t, r.Correct)
}

func TestTimerExpiryWithoutSelectionLocksIncorrect(t *testing.T) {
	s, clock := newTestSession(t, sampleQuestions(2))

	clock.now = clock.now.Add(29 * time.Second)
	assert.False(t, s.Tick(clock.now))
	assert.Equal(t, time.Second, s.TimeLeft())

	clock.now = clock.now.Add(time.Second)
	assert.True(t, s.Tick(clock.now))
	assert.Equal(t, AnswerLocked, s.Phase())

	r, ok := s.LastResult()
	require.True(t, ok)
	assert.False(t, r.Correct)
	assert.True(t, r.TimedOut)
	assert.Empty(t, r.Selected)
	assert.Equal(t, 0, s.Score())

	require.NoError(t, s.Next())
	assert.Equal(t, 1, s.Index())
	assert.Equal(t, DefaultQuestionTime, s.TimeLeft())
}

func TestTimerExpiryMatchesExplicitEmptySubmit(t *testing.T) {
	timed, clock := newTestSession(t, sampleQuestions(1))
	clock.now = clock.now.Add(DefaultQuestionTime)
	require.True(t, timed.Tick(clock.now))
	require.NoError(t, timed.Next())

	manual, _ := newTestSession(t, sampleQuestions(1))
	_, err := manual.Submit()
	require.NoError(t, err)
	require.NoError(t, manual.Next())

	assert.Equal(t, manual.Result(), timed.Result())
	assert.Equal(t, manual.Phase(), timed.Phase())
}

func TestTimerExpiryKeepsPendingSelection(t *testing.T) {
	s, clock := newTestSession(t, sampleQuestions(1))
	require.NoError(t, s.Select("b"))
	clock.now = clock.now.Add(time.Minute)
	require.True(t, s.Tick(clock.now))
	assert.Equal(t, 1, s.Score())
}

func TestTickIgnoredOutsidePresenting(t *testing.T) {
	s, clock := newTestSession(t, sampleQuestions(1))
	_, _ = s.Submit()
	clock.now = clock.now.Add(time.Hour)
	assert.False(t, s.Tick(clock.now))
	assert.Len(t, s.Results(), 1)
}

func TestTimerIDChangesOnTransitions(t *testing.T) {
	s, _ := newTestSession(t, sampleQuestions(2))
	first := s.TimerID()
	_, _ = s.Submit()
	locked := s.TimerID()
	require.NoError(t, s.Next())
	second := s.TimerID()

	assert.NotEqual(t, first, locked)
	assert.NotEqual(t, locked, second)
	assert.NotEqual(t, first, second)
}

func TestNextRequiresLockedAnswer(t *testing.T) {
	s, _ := newTestSession(t, sampleQuestions(2))
	assert.ErrorIs(t, s.Next(), ErrWrongPhase)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "answer-locked", AnswerLocked.String())
	assert.Equal(t, "phase(42)", Phase(42).String())
}
