package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/quizly/internal/screen"
	"github.com/abhisek/quizly/internal/screens/play"
)

var playCmd = &cobra.Command{
	Use:   "play <quiz-id>",
	Short: "Take a quiz in the terminal UI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		quizID := args[0]
		return runApp(cmd, func(deps screen.Deps) screen.Screen {
			return play.New(deps.API, quizID, play.Options{
				Prefs:        deps.Prefs,
				Attempts:     deps.Attempts,
				QuestionTime: deps.QuestionTime,
				Log:          deps.Log,
			})
		})
	},
}
