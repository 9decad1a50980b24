package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/quizly/internal/store"
)

// recordingTransport is a RoundTripper decorator that records every request
// in the local request log and logs it at debug level.
type recordingTransport struct {
	inner  http.RoundTripper
	events store.EventRepo
	log    *zap.Logger
}

// WithRecording wraps rt so each request is appended to events. A nil
// events repo only logs.
func WithRecording(rt http.RoundTripper, events store.EventRepo, log *zap.Logger) http.RoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &recordingTransport{inner: rt, events: events, log: log}
}

func (t *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	requestID := uuid.NewString()
	req = req.Clone(req.Context())
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := t.inner.RoundTrip(req)
	latency := time.Since(start)

	data := store.APIRequestEventData{
		RequestID: requestID,
		Method:    req.Method,
		Path:      req.URL.Path,
		Purpose:   PurposeFrom(req.Context()),
		LatencyMs: latency.Milliseconds(),
	}
	if resp != nil {
		data.StatusCode = resp.StatusCode
		data.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	t.log.Debug("api request",
		zap.String("request_id", requestID),
		zap.String("method", data.Method),
		zap.String("path", data.Path),
		zap.String("purpose", data.Purpose),
		zap.Int("status", data.StatusCode),
		zap.Duration("latency", latency),
		zap.Error(err),
	)

	if t.events != nil {
		// Recording must not fail the request.
		if logErr := t.events.AppendAPIRequest(context.WithoutCancel(req.Context()), data); logErr != nil {
			t.log.Warn("record api request", zap.Error(logErr))
		}
	}

	return resp, err
}
