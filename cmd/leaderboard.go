package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizly/internal/api"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard <quiz-id>",
	Short: "Show a quiz's leaderboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		entries, err := rt.deps.API.Leaderboard(api.WithPurpose(cmd.Context(), "leaderboard"), args[0])
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No scores yet.")
			return nil
		}
		fmt.Printf("%-5s  %-24s  %5s  %s\n", "Rank", "Player", "Score", "Played")
		fmt.Println(strings.Repeat("─", 60))
		for i, e := range entries {
			fmt.Printf("#%-4d  %-24s  %5d  %s\n", i+1, e.PlayerName, e.Score, e.PlayedAt)
		}
		return nil
	},
}
