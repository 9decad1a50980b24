package devserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Options configures the stand-in server.
type Options struct {
	FreeQuota   int
	ReleaseMode bool
	Now         func() time.Time
	Logger      *zap.Logger
}

// NewRouter builds the gin engine serving the API under /api.
func NewRouter(opts Options) (*gin.Engine, *State) {
	if opts.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	state := NewState(opts.FreeQuota, opts.Now)
	h := &Handler{State: state, Log: log}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := router.Group("/api")
	{
		api.GET("/recent", h.Recent)
		api.GET("/recent/user/:userId", h.UserRecent)
		api.POST("/create_content", h.CreateContent)
		api.POST("/upload_pdf", h.UploadPDF)
		api.GET("/quiz/:quizId", h.Quiz)
		api.GET("/flashcards/:quizId", h.Flashcards)
		api.POST("/submit_score", h.SubmitScore)
		api.GET("/leaderboard/:quizId", h.Leaderboard)

		api.GET("/user/subscription/:userId", h.Subscription)
		api.POST("/user/subscribe", h.Subscribe)
		api.POST("/user/payment_proof", h.PaymentProof)

		api.POST("/mock-test/generate", h.GenerateMockTest)
		api.GET("/mock-test/user/:userId", h.UserMockTests)
		api.GET("/mock-test/download/:testId", h.DownloadMockTest)
	}
	return router, state
}

// requestLogger logs each request through zap.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// Serve runs the server on addr until ctx is done, then shuts it down
// gracefully. ready, when non-nil, receives the bound address.
func Serve(ctx context.Context, addr string, opts Options, ready func(net.Addr)) error {
	router, _ := NewRouter(opts)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	if ready != nil {
		ready(ln.Addr())
	}

	srv := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
