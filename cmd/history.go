package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List quizzes played on this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		rt, err := newRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		attempts, err := rt.deps.Attempts.RecentAttempts(context.Background(), limit)
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}
		if len(attempts) == 0 {
			fmt.Println("No quizzes played yet.")
			return nil
		}

		fmt.Printf("%-19s  %-28s  %-16s  %7s  %4s  %s\n", "Played", "Quiz", "Player", "Score", "Acc", "Posted")
		fmt.Println(strings.Repeat("─", 92))
		for _, a := range attempts {
			title := a.Title
			if len([]rune(title)) > 28 {
				title = string([]rune(title)[:27]) + "…"
			}
			posted := "✓"
			if !a.Submitted {
				posted = "✗"
				if a.SubmitError != "" {
					posted += " " + a.SubmitError
				}
			}
			fmt.Printf("%-19s  %-28s  %-16s  %3d/%-3d  %3d%%  %s\n",
				a.Timestamp.Local().Format("2006-01-02 15:04:05"),
				title, a.PlayerName, a.Score, a.Total, a.Accuracy, posted)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of attempts to show")
}
