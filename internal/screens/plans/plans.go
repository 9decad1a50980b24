// Package plans shows the paid plans and walks the user through UPI
// payment and proof submission.
package plans

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/quizly/internal/api"
	"github.com/abhisek/quizly/internal/screen"
	"github.com/abhisek/quizly/internal/subscription"
	"github.com/abhisek/quizly/internal/ui/components"
	"github.com/abhisek/quizly/internal/ui/layout"
)

type subscribedMsg struct {
	plan subscription.Plan
	resp *api.SubscribeResponse
	err  error
}

// Screen lists plans and, once one is picked, collects the payment proof.
type Screen struct {
	deps   screen.Deps
	ctx    context.Context
	cancel context.CancelFunc

	plans    []subscription.Plan
	selected int

	checkout bool
	focus    int
	proof    components.TextInput
	txn      components.TextInput

	busy   bool
	alert  string
	notice string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.Disposer = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.EscapeCapturer = (*Screen)(nil)

// New creates the plan picker.
func New(deps screen.Deps) *Screen {
	ctx, cancel := context.WithCancel(context.Background())
	proof := components.NewTextInput("path/to/payment-screenshot.png", false, 0)
	txn := components.NewTextInput("UPI transaction / reference id", false, 64)
	proof.Blur()
	txn.Blur()
	return &Screen{
		deps:   deps,
		ctx:    ctx,
		cancel: cancel,
		plans:  subscription.Plans(),
		proof:  proof,
		txn:    txn,
	}
}

func (s *Screen) Init() tea.Cmd {
	sub := s.deps.Subscription
	ctx := s.ctx
	return func() tea.Msg {
		sub.Refresh(ctx)
		return screen.QuotaChangedMsg{}
	}
}

func (s *Screen) Dispose() { s.cancel() }

func (s *Screen) Title() string {
	if s.checkout {
		return "Subscribe: " + s.Plan().Name
	}
	return "Plans"
}

// CapturesEscape returns Esc to the plan list during checkout.
func (s *Screen) CapturesEscape() bool { return s.checkout }

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.checkout {
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next field"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Plans"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Choose plan"},
		{Key: "Esc", Description: "Back"},
	}
}

// Plan returns the highlighted plan.
func (s *Screen) Plan() subscription.Plan {
	return s.plans[s.selected]
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case subscribedMsg:
		return s, s.handleSubscribed(msg)

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		if !s.checkout {
			return s, s.listKey(msg.String())
		}
		switch msg.String() {
		case "esc":
			s.checkout = false
			s.alert = ""
			s.proof.Blur()
			s.txn.Blur()
			return s, nil
		case "tab", "shift+tab", "up", "down":
			return s, s.focusInput(1 - s.focus)
		case "enter":
			if s.focus == 0 {
				return s, s.focusInput(1)
			}
			return s, s.subscribe()
		case "ctrl+s":
			return s, s.subscribe()
		}
	}

	if !s.checkout {
		return s, nil
	}
	var cmd tea.Cmd
	if s.focus == 0 {
		s.proof, cmd = s.proof.Update(msg)
	} else {
		s.txn, cmd = s.txn.Update(msg)
	}
	return s, cmd
}

func (s *Screen) listKey(key string) tea.Cmd {
	switch key {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.plans)-1 {
			s.selected++
		}
	case "enter":
		s.checkout = true
		s.alert, s.notice = "", ""
		return s.focusInput(0)
	}
	return nil
}

func (s *Screen) focusInput(i int) tea.Cmd {
	s.focus = i
	if i == 0 {
		s.txn.Blur()
		return s.proof.Focus()
	}
	s.proof.Blur()
	return s.txn.Focus()
}

func (s *Screen) subscribe() tea.Cmd {
	path := strings.TrimSpace(s.proof.Value())
	if path == "" {
		s.alert = "Please attach a screenshot of your payment"
		return s.focusInput(0)
	}
	if strings.TrimSpace(s.txn.Value()) == "" {
		s.alert = "Please enter the transaction id"
		return s.focusInput(1)
	}
	f, err := os.Open(path)
	if err != nil {
		s.alert = "Could not open the screenshot: " + err.Error()
		return s.focusInput(0)
	}

	s.busy = true
	s.alert, s.notice = "", ""
	plan := s.Plan()
	proof := &subscription.Proof{FileName: filepath.Base(path), File: f, TransactionID: s.txn.Value()}
	ctx, sub := s.ctx, s.deps.Subscription
	return func() tea.Msg {
		defer f.Close()
		resp, err := sub.SubscribeToPlan(ctx, string(plan.ID), proof)
		return subscribedMsg{plan: plan, resp: resp, err: err}
	}
}

func (s *Screen) handleSubscribed(msg subscribedMsg) tea.Cmd {
	s.busy = false
	if msg.err != nil {
		if !errors.Is(msg.err, context.Canceled) {
			s.deps.Log.Warn("subscribe", zap.String("plan", string(msg.plan.ID)), zap.Error(msg.err))
		}
		s.alert = failureAlert(msg.err)
		return nil
	}

	s.checkout = false
	s.proof.SetValue("")
	s.txn.SetValue("")
	s.notice = fmt.Sprintf("Payment proof submitted. Your %s plan is active and will be verified shortly.", msg.plan.Name)
	return func() tea.Msg { return screen.QuotaChangedMsg{} }
}

func failureAlert(err error) string {
	var ae *subscription.ActivationError
	var se *api.ServerError
	switch {
	case errors.As(err, &ae) && ae.ProofUploaded:
		return "We received your payment proof, but activating the plan failed. It will be verified manually. " + ae.Err.Error()
	case errors.Is(err, subscription.ErrProofRejected):
		return "Your payment proof was not accepted: " + strings.TrimPrefix(err.Error(), subscription.ErrProofRejected.Error()+": ")
	case errors.As(err, &se):
		return "Failed to process subscription: " + se.Message
	default:
		return "Failed to process subscription: " + err.Error()
	}
}
