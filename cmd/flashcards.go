package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizly/internal/api"
)

var flashcardsCmd = &cobra.Command{
	Use:   "flashcards <quiz-id>",
	Short: "Print the flashcards generated with a quiz",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		cards, err := rt.deps.API.Flashcards(api.WithPurpose(cmd.Context(), "flashcards"), args[0])
		if err != nil {
			return err
		}
		if len(cards) == 0 {
			fmt.Println("This quiz has no flashcards.")
			return nil
		}
		sep := strings.Repeat("─", 60)
		for i, c := range cards {
			fmt.Printf("%d/%d  %s\n", i+1, len(cards), c.Term)
			fmt.Printf("      %s\n", c.Definition)
			fmt.Println(sep)
		}
		return nil
	},
}
