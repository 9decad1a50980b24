package devserver

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizly/internal/api"
)

const sampleText = `Go was designed at Google in 2007. Goroutines are lightweight threads managed by the runtime.
Channels connect concurrent goroutines. The compiler produces statically linked binaries.
Interfaces are satisfied implicitly. Slices are views over arrays.`

func newTestBackend(t *testing.T, quota int) (*api.Client, *State) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, state := NewRouter(Options{FreeQuota: quota})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	c, err := api.New(api.Options{BaseURL: srv.URL + "/api"})
	require.NoError(t, err)
	return c, state
}

func TestQuizLifecycle(t *testing.T) {
	c, _ := newTestBackend(t, 10)
	ctx := context.Background()

	resp, err := c.CreateQuiz(ctx, api.CreateQuizRequest{
		Text: sampleText, ContentName: "Go facts", QuestionType: api.MultipleChoice,
		NumOptions: 4, NumQuestions: 5, IncludeFlashcards: true, UserID: "u1",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.RemainingFree)
	assert.Equal(t, 9, *resp.RemainingFree)

	quiz, err := c.Quiz(ctx, resp.QuizID)
	require.NoError(t, err)
	assert.Equal(t, "Go facts", quiz.Title)
	require.Len(t, quiz.Questions, 5)
	for _, q := range quiz.Questions {
		assert.Len(t, q.Options, 4)
		assert.Contains(t, q.Options, q.Answer)
		assert.Contains(t, q.Question, "_____")
	}

	cards, err := c.Flashcards(ctx, resp.QuizID)
	require.NoError(t, err)
	assert.Len(t, cards, 5)

	require.NoError(t, c.SubmitScore(ctx, api.ScoreSubmission{QuizID: resp.QuizID, PlayerName: "asha", Score: 3}))
	require.NoError(t, c.SubmitScore(ctx, api.ScoreSubmission{QuizID: resp.QuizID, PlayerName: "ravi", Score: 5}))

	board, err := c.Leaderboard(ctx, resp.QuizID)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "ravi", board[0].PlayerName)

	recent, err := c.UserQuizzes(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, 5, recent[0].BestScore)
	assert.Equal(t, 5, recent[0].TotalQuestions)

	others, err := c.UserQuizzes(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestTrueFalseGeneration(t *testing.T) {
	qs := buildQuestions(sampleText, api.TrueFalse, 2, 4)
	require.Len(t, qs, 4)
	assert.Equal(t, "True", qs[0].Answer)
	assert.Equal(t, "False", qs[1].Answer)
	for _, q := range qs {
		assert.Empty(t, q.Options)
	}
}

func TestQuotaEnforced(t *testing.T) {
	c, _ := newTestBackend(t, 1)
	ctx := context.Background()
	req := api.CreateQuizRequest{Text: sampleText, ContentName: "x", NumQuestions: 2, UserID: "u1"}

	_, err := c.CreateQuiz(ctx, req)
	require.NoError(t, err)

	_, err = c.CreateQuiz(ctx, req)
	var se *api.ServerError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 403, se.StatusCode)
	assert.Contains(t, se.Message, "limit")

	info, err := c.Subscription(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, info.FreeGenerationsRemaining)
}

func TestPaidPlanIsNotCharged(t *testing.T) {
	c, state := newTestBackend(t, 0)
	ctx := context.Background()

	proof, err := c.UploadPaymentProof(ctx, api.PaymentProof{
		FileName: "r.png", File: bytes.NewReader([]byte("png")), UserID: "u1", Plan: "monthly", TransactionID: "T1",
	})
	require.NoError(t, err)
	assert.True(t, proof.Success)
	assert.Equal(t, 1, state.ProofCount("u1"))

	sub, err := c.Subscribe(ctx, "u1", "monthly")
	require.NoError(t, err)
	require.NotNil(t, sub.SubscriptionExpiry)

	info, err := c.Subscription(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "monthly", info.SubscriptionStatus)

	resp, err := c.CreateQuiz(ctx, api.CreateQuizRequest{Text: sampleText, ContentName: "x", NumQuestions: 1, UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, 0, *resp.RemainingFree)
}

func TestExpiredPlanFallsBackToFree(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	state := NewState(2, func() time.Time { return now })
	_, err := state.Subscribe("u1", "monthly")
	require.NoError(t, err)
	assert.Equal(t, "monthly", state.Subscription("u1").SubscriptionStatus)

	now = now.Add(31 * 24 * time.Hour)
	info := state.Subscription("u1")
	assert.Equal(t, "free", info.SubscriptionStatus)
	assert.Nil(t, info.SubscriptionExpiry)
}

func TestUploadPDFPageRange(t *testing.T) {
	c, _ := newTestBackend(t, 10)
	resp, err := c.UploadPDF(context.Background(), api.PDFUploadRequest{
		FileName: "notes.pdf", File: strings.NewReader("%PDF-1.4"),
		StartPage: 1, EndPage: 5, QuestionType: api.MultipleChoice, NumOptions: 4,
		NumQuestions: 10, IncludeFlashcards: true, ContentName: "Notes", UserID: "u1",
	})
	require.NoError(t, err)

	quiz, err := c.Quiz(context.Background(), resp.QuizID)
	require.NoError(t, err)
	assert.Len(t, quiz.Questions, 5, "one placeholder sentence per page")

	_, err = c.UploadPDF(context.Background(), api.PDFUploadRequest{
		FileName: "notes.pdf", File: strings.NewReader("%PDF-1.4"),
		StartPage: 4, EndPage: 2, NumQuestions: 3, ContentName: "Notes", UserID: "u1",
	})
	var se *api.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 400, se.StatusCode)
}

func TestMockTestFlow(t *testing.T) {
	c, _ := newTestBackend(t, 10)
	ctx := context.Background()

	resp, err := c.GenerateMockTest(ctx, api.MockTestRequest{
		UserID: "u1", Topic: "Networking", Description: "TCP basics", Difficulty: "Advanced", NumQuestions: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 9, *resp.RemainingFree)
	assert.True(t, strings.HasSuffix(resp.DownloadLink, "/api/mock-test/download/"+resp.TestID))

	tests, err := c.UserMockTests(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tests, 1)
	assert.Equal(t, "Networking", tests[0].Topic)

	var pdf bytes.Buffer
	_, err = c.DownloadMockTest(ctx, resp.TestID, &pdf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf.Bytes(), []byte("%PDF-1.4")))
	assert.Contains(t, pdf.String(), "TCP basics")
	assert.True(t, bytes.HasSuffix(pdf.Bytes(), []byte("%%EOF\n")))
}

func TestUnknownQuizIs404(t *testing.T) {
	c, _ := newTestBackend(t, 10)
	_, err := c.Quiz(context.Background(), "nope")
	var se *api.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 404, se.StatusCode)
	assert.Equal(t, "Quiz not found", se.Message)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- Serve(ctx, "127.0.0.1:0", Options{FreeQuota: 1}, nil) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
