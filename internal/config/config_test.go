package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2*time.Second, cfg.Subscription.RefreshDebounce)
	assert.Equal(t, 30*time.Second, cfg.Quiz.QuestionTime)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://example.com" }},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }},
		{"zero question time", func(c *Config) { c.Quiz.QuestionTime = 0 }},
		{"negative debounce", func(c *Config) { c.Subscription.RefreshDebounce = -time.Second }},
		{"zero debounce", func(c *Config) { c.Subscription.RefreshDebounce = 0 }},
		{"zero settle delay", func(c *Config) { c.Subscription.SettleDelay = 0 }},
		{"zero follow-up delay", func(c *Config) { c.Subscription.FollowUpDelay = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
api:
  url: http://localhost:9000/api
  timeout: 5s
quiz:
  question_time: 10s
payment:
  upi_id: payee@bank
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("QUIZLY_USER_ID", "user-42")
	t.Setenv("QUIZLY_SUBSCRIPTION_REFRESH_DEBOUNCE", "3s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/api", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Quiz.QuestionTime)
	assert.Equal(t, "payee@bank", cfg.Payment.UPIID)
	assert.Equal(t, "user-42", cfg.User.ID)
	assert.Equal(t, 3*time.Second, cfg.Subscription.RefreshDebounce)
	assert.Equal(t, 300*time.Millisecond, cfg.Subscription.SettleDelay)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, cfg.API.BaseURL)
	assert.Equal(t, 10, cfg.DevServer.FreeQuota)
}
