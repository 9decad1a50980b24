package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizly/internal/app"
	"github.com/abhisek/quizly/internal/screen"
)

// runApp builds dependencies and launches the TUI. start, when non-nil,
// opens on top of the home screen.
func runApp(cmd *cobra.Command, start func(screen.Deps) screen.Screen) error {
	rt, err := newRuntime(cmd, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	var initial screen.Screen
	if start != nil {
		initial = start(rt.deps)
	}
	rt.log.Info("starting tui", zap.String("api", rt.deps.API.BaseURL()), zap.String("user", rt.deps.Subscription.UserID()))
	return app.Run(rt.deps, initial)
}
