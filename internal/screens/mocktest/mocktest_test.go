package mocktest

import (
	"bytes"
	"os"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizly/internal/generation"
	"github.com/abhisek/quizly/internal/screen/screentest"
)

func newScreen(t *testing.T, quota int) (*Screen, *screentest.Env) {
	t.Helper()
	env := screentest.New(t, quota, "u1")
	env.Deps.DownloadDir = t.TempDir()
	s := New(env.Deps)
	s.Init()
	return s, env
}

func ctrl(r rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl} }

func TestValidationStaysOnForm(t *testing.T) {
	s, _ := newScreen(t, 10)
	s.topic.SetValue("Networking")

	if _, cmd := s.Update(ctrl('s')); s.busy {
		t.Fatalf("submitted without a description, cmd=%v", cmd)
	}
	if s.alert != "Please enter a description" || s.focus != fieldDescription {
		t.Errorf("alert=%q focus=%v", s.alert, s.focus)
	}
}

func TestDifficultyCycles(t *testing.T) {
	s, _ := newScreen(t, 10)
	if got := s.Form().Difficulty; got != generation.DefaultDifficulty {
		t.Fatalf("default difficulty = %q", got)
	}
	s.focusField(fieldDifficulty)
	s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if got := s.Form().Difficulty; got != "Expert" {
		t.Errorf("difficulty = %q, want Expert", got)
	}
}

func TestGenerateAndDownload(t *testing.T) {
	s, env := newScreen(t, 10)
	s.topic.SetValue("Networking")
	s.description.SetValue("TCP handshakes")
	s.questions.SetValue("4")

	_, cmd := s.Update(ctrl('s'))
	if !s.busy {
		t.Fatal("expected a request in flight")
	}
	_, cmd = s.Update(cmd())
	if s.mode != modeResult || s.result == nil {
		t.Fatalf("mode=%v alert=%q", s.mode, s.alert)
	}
	if s.result.NumQuestions != 4 || s.result.Difficulty != generation.DefaultDifficulty {
		t.Errorf("result = %+v", s.result)
	}
	if got := env.Deps.Subscription.State().RemainingFree; got != 9 {
		t.Errorf("remaining = %d", got)
	}
	if cmd == nil {
		t.Error("expected quota follow-up")
	}
	if _, ok := cmd().(tea.BatchMsg); !ok {
		t.Errorf("follow-up = %T", cmd())
	}

	_, cmd = s.Update(tea.KeyPressMsg{Code: 'd', Text: "d"})
	s.Update(cmd())
	if s.alert != "" {
		t.Fatalf("download alert: %s", s.alert)
	}
	data, err := os.ReadFile(s.DownloadPath(s.result.TestID))
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("not a pdf: %q", data[:min(len(data), 16)])
	}

	if !s.CapturesEscape() {
		t.Error("result view should capture esc")
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if s.mode != modeForm || s.topic.Value() != "" {
		t.Errorf("esc should reset to an empty form, mode=%v", s.mode)
	}
}

func TestListUserTests(t *testing.T) {
	s, _ := newScreen(t, 10)
	s.topic.SetValue("Algebra")
	s.description.SetValue("Linear equations")
	_, cmd := s.Update(ctrl('s'))
	s.Update(cmd())

	_, cmd = s.Update(tea.KeyPressMsg{Code: 'm', Text: "m"})
	s.Update(cmd())
	if s.mode != modeList || len(s.tests) != 1 || s.tests[0].Topic != "Algebra" {
		t.Fatalf("mode=%v tests=%+v", s.mode, s.tests)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if s.mode != modeForm || s.CapturesEscape() {
		t.Error("esc from the list should return to the form")
	}
}

func TestQuotaExhausted(t *testing.T) {
	s, env := newScreen(t, 0)
	env.Deps.Subscription.SetRemainingFreeCount(0)
	s.topic.SetValue("Algebra")
	s.description.SetValue("Linear equations")

	_, cmd := s.Update(ctrl('s'))
	_, follow := s.Update(cmd())
	if s.alert != generation.AlertQuotaExhausted {
		t.Errorf("alert = %q", s.alert)
	}
	if follow != nil {
		t.Error("no refresh after a rejected request")
	}
}

func TestEscapeAbortsListLoad(t *testing.T) {
	s, _ := newScreen(t, 10)

	_, load := s.Update(ctrl('l'))
	if !s.busy || s.mode != modeList {
		t.Fatalf("busy=%v mode=%v", s.busy, s.mode)
	}
	pending := s.ctx

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if s.busy || s.mode != modeForm || s.CapturesEscape() {
		t.Fatalf("busy=%v mode=%v", s.busy, s.mode)
	}
	if pending.Err() == nil {
		t.Error("in-flight load should be cancelled")
	}

	// The late reply from the aborted load is ignored.
	s.Update(load())
	if s.mode != modeForm || s.listed || s.alert != "" {
		t.Errorf("mode=%v listed=%v alert=%q", s.mode, s.listed, s.alert)
	}
}
