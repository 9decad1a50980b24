package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/quizly/internal/api"
)

// ErrQuotaExhausted means the user has no free generations left and no
// paid plan, as known locally or as reported by the server.
var ErrQuotaExhausted = errors.New("free generation limit reached")

// AlertQuotaExhausted is shown when ErrQuotaExhausted stops a request.
const AlertQuotaExhausted = "You've reached your free generation limit. Please upgrade your subscription to continue."

// Backend is the subset of the API client that generates content.
type Backend interface {
	CreateQuiz(ctx context.Context, req api.CreateQuizRequest) (*api.GenerationResponse, error)
	UploadPDF(ctx context.Context, req api.PDFUploadRequest) (*api.GenerationResponse, error)
	GenerateMockTest(ctx context.Context, req api.MockTestRequest) (*api.MockTestResponse, error)
}

// Quota is the client-side generation gate.
type Quota interface {
	CanGenerate() bool
	SetRemainingFreeCount(n int)
	Refresh(ctx context.Context)
}

// Options tunes a Service.
type Options struct {
	// FollowUpDelay precedes the background refresh after a generation.
	FollowUpDelay time.Duration
	Logger        *zap.Logger
}

const defaultFollowUpDelay = 500 * time.Millisecond

// Service submits generation requests behind the quota gate.
type Service struct {
	backend  Backend
	quota    Quota
	followUp time.Duration
	log      *zap.Logger
}

// NewService creates a Service.
func NewService(backend Backend, quota Quota, opts Options) *Service {
	s := &Service{backend: backend, quota: quota, followUp: opts.FollowUpDelay, log: opts.Logger}
	if s.followUp <= 0 {
		s.followUp = defaultFollowUpDelay
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// CreateQuiz validates form, checks the quota gate, and submits the text or
// PDF request. A remaining_free value in the response is applied to the
// quota before returning.
func (s *Service) CreateQuiz(ctx context.Context, userID string, form QuizForm) (*api.GenerationResponse, error) {
	if !s.quota.CanGenerate() {
		return nil, ErrQuotaExhausted
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, errors.New("create quiz: not signed in")
	}

	var (
		resp *api.GenerationResponse
		err  error
	)
	switch form.Source {
	case FromPDF:
		resp, err = s.backend.UploadPDF(api.WithPurpose(ctx, "create-quiz-pdf"), form.pdfRequest(userID))
	default:
		resp, err = s.backend.CreateQuiz(api.WithPurpose(ctx, "create-quiz"), form.textRequest(userID))
	}
	if err != nil {
		return nil, mapLimit(err)
	}

	if resp.RemainingFree != nil {
		s.quota.SetRemainingFreeCount(*resp.RemainingFree)
	}
	s.log.Info("quiz created",
		zap.String("quiz_id", resp.QuizID),
		zap.Bool("pdf", form.Source == FromPDF))
	return resp, nil
}

// GenerateMockTest validates form, checks the quota gate, and requests a
// mock test. A remaining_free value in the response is applied to the quota.
func (s *Service) GenerateMockTest(ctx context.Context, userID string, form MockTestForm) (*api.MockTestResponse, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if !s.quota.CanGenerate() {
		return nil, ErrQuotaExhausted
	}

	resp, err := s.backend.GenerateMockTest(api.WithPurpose(ctx, "mock-test"), form.request(userID))
	if err != nil {
		return nil, mapLimit(err)
	}
	if resp.RemainingFree != nil {
		s.quota.SetRemainingFreeCount(*resp.RemainingFree)
	}
	s.log.Info("mock test generated", zap.String("test_id", resp.TestID))
	return resp, nil
}

// FollowUpRefresh waits the follow-up delay and then refreshes the quota.
// It returns early when ctx is done.
func (s *Service) FollowUpRefresh(ctx context.Context) {
	t := time.NewTimer(s.followUp)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return
	case <-t.C:
	}
	s.quota.Refresh(ctx)
}

// mapLimit turns server-side quota rejections into ErrQuotaExhausted while
// keeping the original error in the chain.
func mapLimit(err error) error {
	var se *api.ServerError
	if errors.As(err, &se) && strings.Contains(strings.ToLower(se.Message), "limit") {
		return fmt.Errorf("%w: %w", ErrQuotaExhausted, err)
	}
	return err
}

// Alert returns the message to show the user for err.
func Alert(err error) string {
	var ve *ValidationError
	var se *api.ServerError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrQuotaExhausted):
		return AlertQuotaExhausted
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &se):
		return se.Message
	default:
		return err.Error()
	}
}
