package plans

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizly/internal/screen"
	"github.com/abhisek/quizly/internal/screen/screentest"
	"github.com/abhisek/quizly/internal/subscription"
)

func writeProof(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "receipt.png")
	if err := os.WriteFile(path, []byte("\x89PNG"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSubscribeWithProof(t *testing.T) {
	env := screentest.New(t, 0, "u1")
	s := New(env.Deps)
	s.Update(s.Init()())

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !s.checkout || s.Plan().ID != subscription.Quarterly {
		t.Fatalf("checkout=%v plan=%v", s.checkout, s.Plan().ID)
	}
	if view := s.View(100, 40); !strings.Contains(view, "upi://pay?pa=quizly@upi") {
		t.Errorf("checkout view missing UPI link:\n%s", view)
	}

	s.proof.SetValue(writeProof(t))
	s.txn.SetValue("TXN42")
	_, cmd := s.Update(tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})
	if !s.busy {
		t.Fatalf("not submitted, alert=%q", s.alert)
	}
	_, cmd = s.Update(cmd())
	if s.alert != "" {
		t.Fatalf("alert = %q", s.alert)
	}
	if _, ok := cmd().(screen.QuotaChangedMsg); !ok {
		t.Error("expected quota change")
	}
	if s.checkout {
		t.Error("should return to the plan list")
	}

	st := env.Deps.Subscription.State()
	if st.Status != subscription.Quarterly || !st.CanGenerate {
		t.Errorf("state = %+v", st)
	}
	if env.State.ProofCount("u1") != 1 {
		t.Errorf("proofs = %d", env.State.ProofCount("u1"))
	}
}

func TestCheckoutValidation(t *testing.T) {
	env := screentest.New(t, 10, "u1")
	s := New(env.Deps)
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	s.subscribe()
	if s.busy || !strings.Contains(s.alert, "screenshot") || s.focus != 0 {
		t.Errorf("busy=%v alert=%q focus=%d", s.busy, s.alert, s.focus)
	}

	s.proof.SetValue(writeProof(t))
	s.subscribe()
	if s.busy || !strings.Contains(s.alert, "transaction id") || s.focus != 1 {
		t.Errorf("busy=%v alert=%q focus=%d", s.busy, s.alert, s.focus)
	}

	s.proof.SetValue(filepath.Join(t.TempDir(), "missing.png"))
	s.txn.SetValue("T1")
	s.subscribe()
	if s.busy || !strings.HasPrefix(s.alert, "Could not open") {
		t.Errorf("alert = %q", s.alert)
	}
	if env.State.ProofCount("u1") != 0 {
		t.Error("nothing should reach the server")
	}
}

func TestEscapeLeavesCheckout(t *testing.T) {
	s := New(screentest.New(t, 10, "u1").Deps)
	if s.CapturesEscape() {
		t.Fatal("list view lets the app pop")
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !s.CapturesEscape() {
		t.Fatal("checkout captures esc")
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if s.checkout {
		t.Error("esc should return to plans")
	}
}

func TestFailureAlerts(t *testing.T) {
	uploaded := &subscription.ActivationError{Plan: subscription.Monthly, ProofUploaded: true, Err: os.ErrDeadlineExceeded}
	if got := failureAlert(uploaded); !strings.Contains(got, "received your payment proof") {
		t.Errorf("activation alert = %q", got)
	}
	rejected := subscription.ErrProofRejected
	if got := failureAlert(rejected); !strings.Contains(got, "not accepted") {
		t.Errorf("rejected alert = %q", got)
	}
}
