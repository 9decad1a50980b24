package generation

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizly/internal/api"
	"github.com/abhisek/quizly/internal/devserver"
	"github.com/abhisek/quizly/internal/subscription"
)

type fakeQuota struct {
	mu        sync.Mutex
	can       bool
	remaining []int
	refreshes int
}

func (q *fakeQuota) CanGenerate() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.can
}

func (q *fakeQuota) SetRemainingFreeCount(n int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.remaining = append(q.remaining, n)
}

func (q *fakeQuota) Refresh(context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.refreshes++
}

type fakeBackend struct {
	calls    []string
	purposes []string
	text     api.CreateQuizRequest
	pdf      api.PDFUploadRequest
	mock     api.MockTestRequest
	resp     *api.GenerationResponse
	mockResp *api.MockTestResponse
	err      error
}

func (b *fakeBackend) CreateQuiz(ctx context.Context, req api.CreateQuizRequest) (*api.GenerationResponse, error) {
	b.calls = append(b.calls, "text")
	b.purposes = append(b.purposes, api.PurposeFrom(ctx))
	b.text = req
	return b.resp, b.err
}

func (b *fakeBackend) UploadPDF(ctx context.Context, req api.PDFUploadRequest) (*api.GenerationResponse, error) {
	b.calls = append(b.calls, "pdf")
	b.purposes = append(b.purposes, api.PurposeFrom(ctx))
	b.pdf = req
	return b.resp, b.err
}

func (b *fakeBackend) GenerateMockTest(ctx context.Context, req api.MockTestRequest) (*api.MockTestResponse, error) {
	b.calls = append(b.calls, "mock")
	b.purposes = append(b.purposes, api.PurposeFrom(ctx))
	b.mock = req
	return b.mockResp, b.err
}

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }

func textForm() QuizForm {
	f := NewQuizForm()
	f.ContentName = "  Biology  "
	f.Text = "Cells are the basic unit of life."
	f.NumQuestions = intPtr(5)
	f.IncludeFlashcards = boolPtr(true)
	return f
}

func TestValidateOrder(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*QuizForm)
		field string
		step  Step
	}{
		{"missing name wins over everything", func(f *QuizForm) { f.ContentName = " "; f.Text = ""; f.NumQuestions = nil }, "content_name", StepDetails},
		{"question count", func(f *QuizForm) { f.NumQuestions = nil; f.Text = "" }, "num_questions", StepSettings},
		{"flashcards choice", func(f *QuizForm) { f.IncludeFlashcards = nil }, "include_flashcards", StepSettings},
		{"question type", func(f *QuizForm) { f.QuestionType = "essay" }, "question_type", StepSettings},
		{"empty text", func(f *QuizForm) { f.Text = "\n\t" }, "text", StepContent},
		{"missing pdf", func(f *QuizForm) { f.Source = FromPDF }, "pdf", StepContent},
		{"reversed pages", func(f *QuizForm) {
			f.Source = FromPDF
			f.PDF = strings.NewReader("%PDF")
			f.StartPage, f.EndPage = 5, 2
		}, "page_range", StepContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := textForm()
			tt.edit(&f)
			var ve *ValidationError
			require.ErrorAs(t, f.Validate(), &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.step, ve.Step)
		})
	}

	assert.NoError(t, textForm().Validate())
}

func TestClampQuestions(t *testing.T) {
	assert.Equal(t, DefaultQuestions, ClampQuestions(0))
	assert.Equal(t, 1, ClampQuestions(-3))
	assert.Equal(t, 7, ClampQuestions(7))
	assert.Equal(t, MaxQuestions, ClampQuestions(500))
}

func TestCreateQuizQuotaGateSkipsNetwork(t *testing.T) {
	b := &fakeBackend{}
	q := &fakeQuota{can: false}
	s := NewService(b, q, Options{})

	// The gate is checked before validation.
	_, err := s.CreateQuiz(context.Background(), "u1", QuizForm{})
	assert.ErrorIs(t, err, ErrQuotaExhausted)
	assert.Empty(t, b.calls)
	assert.Equal(t, AlertQuotaExhausted, Alert(err))
}

func TestCreateQuizValidationSkipsNetwork(t *testing.T) {
	b := &fakeBackend{}
	s := NewService(b, &fakeQuota{can: true}, Options{})

	f := textForm()
	f.ContentName = ""
	_, err := s.CreateQuiz(context.Background(), "u1", f)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Please provide a quiz name", Alert(err))
	assert.Empty(t, b.calls)
}

func TestCreateQuizText(t *testing.T) {
	b := &fakeBackend{resp: &api.GenerationResponse{QuizID: "q1", RemainingFree: intPtr(4)}}
	q := &fakeQuota{can: true}
	s := NewService(b, q, Options{})

	resp, err := s.CreateQuiz(context.Background(), "u1", textForm())
	require.NoError(t, err)
	assert.Equal(t, "q1", resp.QuizID)
	assert.Equal(t, []string{"text"}, b.calls)
	assert.Equal(t, []string{"create-quiz"}, b.purposes)
	assert.Equal(t, "Biology", b.text.ContentName)
	assert.Equal(t, 5, b.text.NumQuestions)
	assert.True(t, b.text.IncludeFlashcards)
	assert.Equal(t, api.MultipleChoice, b.text.QuestionType)
	assert.Equal(t, []int{4}, q.remaining)
}

func TestCreateQuizWithoutRemainingFreeLeavesQuota(t *testing.T) {
	b := &fakeBackend{resp: &api.GenerationResponse{QuizID: "q1"}}
	q := &fakeQuota{can: true}
	_, err := NewService(b, q, Options{}).CreateQuiz(context.Background(), "u1", textForm())
	require.NoError(t, err)
	assert.Empty(t, q.remaining)
}

func TestCreateQuizPDF(t *testing.T) {
	b := &fakeBackend{resp: &api.GenerationResponse{QuizID: "q2", RemainingFree: intPtr(0)}}
	q := &fakeQuota{can: true}
	s := NewService(b, q, Options{})

	f := textForm()
	f.Source = FromPDF
	f.PDFName = "notes.pdf"
	f.PDF = strings.NewReader("%PDF")
	f.StartPage, f.EndPage = 2, 4
	f.NumQuestions = intPtr(80)

	_, err := s.CreateQuiz(context.Background(), "u1", f)
	require.NoError(t, err)
	assert.Equal(t, []string{"pdf"}, b.calls)
	assert.Equal(t, []string{"create-quiz-pdf"}, b.purposes)
	assert.Equal(t, 2, b.pdf.StartPage)
	assert.Equal(t, 4, b.pdf.EndPage)
	assert.Equal(t, MaxQuestions, b.pdf.NumQuestions)
	assert.Equal(t, []int{0}, q.remaining)
}

func TestServerLimitMapsToQuotaExhausted(t *testing.T) {
	serverErr := &api.ServerError{Op: "create quiz", StatusCode: 403, Message: "Free generation LIMIT reached"}
	b := &fakeBackend{err: serverErr}
	s := NewService(b, &fakeQuota{can: true}, Options{})

	_, err := s.CreateQuiz(context.Background(), "u1", textForm())
	assert.ErrorIs(t, err, ErrQuotaExhausted)
	var se *api.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 403, se.StatusCode)

	b.err = &api.ServerError{Op: "create quiz", StatusCode: 500, Message: "model overloaded"}
	_, err = s.CreateQuiz(context.Background(), "u1", textForm())
	assert.NotErrorIs(t, err, ErrQuotaExhausted)
	assert.Equal(t, "model overloaded", Alert(err))
}

func TestMockTestValidatesBeforeGate(t *testing.T) {
	b := &fakeBackend{}
	s := NewService(b, &fakeQuota{can: false}, Options{})

	_, err := s.GenerateMockTest(context.Background(), "u1", MockTestForm{Description: "x"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "topic", ve.Field)

	_, err = s.GenerateMockTest(context.Background(), "u1", MockTestForm{Topic: "Go", Description: "x"})
	assert.ErrorIs(t, err, ErrQuotaExhausted)
	assert.Empty(t, b.calls)
}

func TestMockTestRequest(t *testing.T) {
	b := &fakeBackend{mockResp: &api.MockTestResponse{TestID: "t1", RemainingFree: intPtr(2)}}
	q := &fakeQuota{can: true}
	s := NewService(b, q, Options{})

	_, err := s.GenerateMockTest(context.Background(), "u1", MockTestForm{Topic: " Go ", Description: "channels", Difficulty: "advanced"})
	require.NoError(t, err)
	assert.Equal(t, "Go", b.mock.Topic)
	assert.Equal(t, "Advanced", b.mock.Difficulty)
	assert.Equal(t, DefaultQuestions, b.mock.NumQuestions)
	assert.Equal(t, []string{"mock-test"}, b.purposes)
	assert.Equal(t, []int{2}, q.remaining)

	_, err = s.GenerateMockTest(context.Background(), "u1", MockTestForm{Topic: "Go", Description: "x", Difficulty: "impossible"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "difficulty", ve.Field)
}

func TestFollowUpRefresh(t *testing.T) {
	q := &fakeQuota{can: true}
	s := NewService(&fakeBackend{}, q, Options{FollowUpDelay: time.Millisecond})
	s.FollowUpRefresh(context.Background())
	assert.Equal(t, 1, q.refreshes)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	NewService(&fakeBackend{}, q, Options{FollowUpDelay: time.Hour}).FollowUpRefresh(ctx)
	assert.Equal(t, 1, q.refreshes)
}

func TestAlertFallsBackToErrorText(t *testing.T) {
	assert.Equal(t, "", Alert(nil))
	assert.Equal(t, "boom", Alert(errors.New("boom")))
}

const biologyText = `Mitochondria produce energy for the cell. Ribosomes assemble proteins from amino acids.
Chloroplasts capture sunlight in plant cells. The nucleus stores genetic information.
Membranes regulate transport between compartments. Enzymes accelerate chemical reactions.`

// newStack wires the service to a real client, provider and stand-in server.
func newStack(t *testing.T, freeQuota int) (*Service, *subscription.Provider) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, _ := devserver.NewRouter(devserver.Options{FreeQuota: freeQuota})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	client, err := api.New(api.Options{BaseURL: srv.URL + "/api"})
	require.NoError(t, err)

	provider := subscription.NewProvider(client, subscription.Options{SettleDelay: time.Nanosecond})
	provider.SetUser("u1")
	provider.Refresh(context.Background())
	require.Equal(t, freeQuota, provider.State().RemainingFree)

	return NewService(client, provider, Options{}), provider
}

func TestCreateTextQuizUpdatesQuotaImmediately(t *testing.T) {
	s, provider := newStack(t, 10)

	f := NewQuizForm()
	f.ContentName = "Cell biology"
	f.Text = biologyText
	f.NumQuestions = intPtr(5)
	f.IncludeFlashcards = boolPtr(true)

	resp, err := s.CreateQuiz(context.Background(), "u1", f)
	require.NoError(t, err)
	require.NotEmpty(t, resp.QuizID)
	require.NotNil(t, resp.RemainingFree)
	assert.Equal(t, 9, *resp.RemainingFree)

	st := provider.State()
	assert.Equal(t, 9, st.RemainingFree)
	assert.True(t, st.CanGenerate)
}

func TestCreatePDFQuizUpdatesQuotaImmediately(t *testing.T) {
	s, provider := newStack(t, 1)

	f := NewQuizForm()
	f.ContentName = "Lecture notes"
	f.Source = FromPDF
	f.PDFName = "lecture.pdf"
	f.PDF = strings.NewReader("%PDF-1.4")
	f.StartPage, f.EndPage = 1, 5
	f.NumQuestions = intPtr(5)
	f.IncludeFlashcards = boolPtr(true)

	resp, err := s.CreateQuiz(context.Background(), "u1", f)
	require.NoError(t, err)
	require.NotEmpty(t, resp.QuizID)

	st := provider.State()
	assert.Equal(t, 0, st.RemainingFree)
	assert.False(t, st.CanGenerate)

	_, err = s.CreateQuiz(context.Background(), "u1", f)
	assert.ErrorIs(t, err, ErrQuotaExhausted)
}
