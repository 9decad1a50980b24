package subscription

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/quizly/internal/api"
)

var (
	ErrNotSignedIn           = errors.New("user not authenticated")
	ErrUnknownPlan           = errors.New("unknown plan")
	ErrTransactionIDRequired = errors.New("a transaction id is required with a payment proof")
	ErrProofRejected         = errors.New("payment proof rejected")
)

// ActivationError reports a failed plan activation. ProofUploaded is true
// when the payment proof had already been accepted for manual
// verification; the backend offers no way to withdraw it.
type ActivationError struct {
	Plan          Status
	ProofUploaded bool
	Err           error
}

func (e *ActivationError) Error() string {
	if e.ProofUploaded {
		return fmt.Sprintf("activate %s plan (payment proof already submitted for verification): %v", e.Plan, e.Err)
	}
	return fmt.Sprintf("activate %s plan: %v", e.Plan, e.Err)
}

func (e *ActivationError) Unwrap() error { return e.Err }

// Backend is the subset of the API client the provider needs.
type Backend interface {
	Subscription(ctx context.Context, userID string) (*api.SubscriptionInfo, error)
	Subscribe(ctx context.Context, userID, plan string) (*api.SubscribeResponse, error)
	UploadPaymentProof(ctx context.Context, p api.PaymentProof) (*api.PaymentProofResponse, error)
}

// Options tunes a Provider. Zero durations use the defaults.
type Options struct {
	Debounce    time.Duration
	SettleDelay time.Duration
	Now         func() time.Time
	Logger      *zap.Logger
}

const (
	defaultDebounce    = 2 * time.Second
	defaultSettleDelay = 300 * time.Millisecond
)

// Provider owns the signed-in user's quota and plan state. It is safe for
// concurrent use.
type Provider struct {
	backend  Backend
	log      *zap.Logger
	now      func() time.Time
	debounce time.Duration
	settle   time.Duration

	mu          sync.Mutex
	userID      string
	state       State
	version     uint64
	lastRefresh time.Time
}

// NewProvider creates a Provider holding DefaultState and no user.
func NewProvider(backend Backend, opts Options) *Provider {
	p := &Provider{
		backend:  backend,
		log:      opts.Logger,
		now:      opts.Now,
		debounce: opts.Debounce,
		settle:   opts.SettleDelay,
		state:    DefaultState(),
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.debounce == 0 {
		p.debounce = defaultDebounce
	}
	if p.settle == 0 {
		p.settle = defaultSettleDelay
	}
	return p
}

// State returns a snapshot of the current state.
func (p *Provider) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// CanGenerate reports whether a generation request may be attempted.
func (p *Provider) CanGenerate() bool {
	return p.State().CanGenerate
}

// UserID returns the signed-in user, or "".
func (p *Provider) UserID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.userID
}

// SetUser switches the signed-in user. Any change resets the state to the
// default guess and reopens the debounce window; "" signs out.
func (p *Provider) SetUser(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if userID == p.userID {
		return
	}
	p.userID = userID
	p.state = DefaultState()
	p.lastRefresh = time.Time{}
	p.version++
}

// SetRemainingFreeCount overwrites the free quota with a value the server
// just returned, without a round trip.
func (p *Provider) SetRemainingFreeCount(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = newState(n, p.state.Status, p.state.Expiry)
	p.version++
	p.log.Debug("remaining free count set", zap.Int("remaining_free", p.state.RemainingFree))
}

// Refresh reloads the state from the server. Calls within the debounce
// window of the previous attempt are skipped. Failures are logged and leave
// the state untouched.
func (p *Provider) Refresh(ctx context.Context) {
	p.refresh(ctx, false)
}

func (p *Provider) refresh(ctx context.Context, force bool) {
	p.mu.Lock()
	userID := p.userID
	if userID == "" {
		p.mu.Unlock()
		return
	}
	now := p.now()
	if !force && !p.lastRefresh.IsZero() && now.Sub(p.lastRefresh) < p.debounce {
		p.mu.Unlock()
		p.log.Debug("skipping subscription refresh, too soon since last refresh")
		return
	}
	p.lastRefresh = now
	startVersion := p.version
	p.mu.Unlock()

	// Give the backend a moment to commit a write we just made.
	if err := sleepCtx(ctx, p.settle); err != nil {
		return
	}

	info, err := p.backend.Subscription(api.WithPurpose(ctx, "subscription-refresh"), userID)
	if err != nil {
		p.log.Warn("refresh subscription", zap.String("user_id", userID), zap.Error(err))
		return
	}

	next := newState(info.FreeGenerationsRemaining, ParseStatus(info.SubscriptionStatus), p.parseExpiry(info.SubscriptionExpiry))

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.userID != userID || p.version != startVersion {
		p.log.Debug("discarding stale subscription refresh",
			zap.Uint64("started_at_version", startVersion),
			zap.Uint64("current_version", p.version))
		return
	}
	p.state = next
	p.version++
	p.log.Debug("subscription refreshed",
		zap.Int("remaining_free", next.RemainingFree),
		zap.String("status", string(next.Status)))
}

func (p *Provider) parseExpiry(s *string) *time.Time {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t
		}
	}
	p.log.Warn("unparseable subscription expiry", zap.String("expiry", *s))
	return nil
}

// Proof is an optional payment proof submitted with a plan purchase.
type Proof struct {
	FileName      string
	File          io.Reader
	TransactionID string
}

// SubscribeToPlan purchases plan in up to three steps: upload the payment
// proof when one is given, activate the plan, then force a refresh. A
// failed or rejected upload stops before activation.
func (p *Provider) SubscribeToPlan(ctx context.Context, plan string, proof *Proof) (*api.SubscribeResponse, error) {
	userID := p.UserID()
	if userID == "" {
		return nil, ErrNotSignedIn
	}
	pl, ok := LookupPlan(plan)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlan, plan)
	}

	uploaded := false
	if proof != nil {
		if strings.TrimSpace(proof.TransactionID) == "" {
			return nil, ErrTransactionIDRequired
		}
		resp, err := p.backend.UploadPaymentProof(api.WithPurpose(ctx, "payment-proof"), api.PaymentProof{
			FileName:      proof.FileName,
			File:          proof.File,
			UserID:        userID,
			Plan:          string(pl.ID),
			TransactionID: strings.TrimSpace(proof.TransactionID),
		})
		if err != nil {
			return nil, fmt.Errorf("upload payment proof: %w", err)
		}
		if !resp.Success {
			msg := resp.Message
			if msg == "" {
				msg = "no reason given"
			}
			return nil, fmt.Errorf("%w: %s", ErrProofRejected, msg)
		}
		uploaded = true
		p.log.Info("payment proof uploaded", zap.String("plan", string(pl.ID)))
	}

	resp, err := p.backend.Subscribe(api.WithPurpose(ctx, "subscribe"), userID, string(pl.ID))
	if err != nil {
		if uploaded {
			p.log.Error("plan activation failed after proof upload",
				zap.String("user_id", userID), zap.String("plan", string(pl.ID)), zap.Error(err))
		}
		return nil, &ActivationError{Plan: pl.ID, ProofUploaded: uploaded, Err: err}
	}

	p.refresh(ctx, true)
	return resp, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
