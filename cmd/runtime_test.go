package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/quizly/internal/store"
)

type memPrefs struct {
	values map[string]string
	setErr error
}

func (m *memPrefs) Get(_ context.Context, key string) (string, error) {
	return m.values[key], nil
}

func (m *memPrefs) Set(_ context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *memPrefs) Delete(_ context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func TestSeedPlayerName(t *testing.T) {
	ctx := context.Background()

	prefs := &memPrefs{values: map[string]string{}}
	seedPlayerName(ctx, prefs, "asha", zap.NewNop())
	assert.Equal(t, "asha", prefs.values[store.PrefPlayerName])

	seedPlayerName(ctx, prefs, "ravi", zap.NewNop())
	assert.Equal(t, "asha", prefs.values[store.PrefPlayerName], "saved name wins over config")
}

func TestSeedPlayerNameLogsStoreFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	prefs := &memPrefs{values: map[string]string{}, setErr: errors.New("disk full")}

	seedPlayerName(context.Background(), prefs, "asha", zap.New(core))

	entries := logs.FilterMessage("save player name").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "disk full", entries[0].ContextMap()["error"])
}
