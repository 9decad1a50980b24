package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizly/internal/api"
	"github.com/abhisek/quizly/internal/generation"
)

var mocktestCmd = &cobra.Command{
	Use:   "mocktest",
	Short: "Generate and download mock tests",
}

var mocktestGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a mock test",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()
		userID, err := rt.userID()
		if err != nil {
			return err
		}

		f := cmd.Flags()
		var form generation.MockTestForm
		form.Topic, _ = f.GetString("topic")
		form.Description, _ = f.GetString("description")
		form.Difficulty, _ = f.GetString("difficulty")
		form.NumQuestions, _ = f.GetInt("questions")

		ctx := cmd.Context()
		resp, err := rt.deps.Generation.GenerateMockTest(ctx, userID, form)
		if err != nil {
			return err
		}
		rt.deps.Generation.FollowUpRefresh(ctx)

		fmt.Println(resp.Message)
		fmt.Printf("Test ID:    %s\n", resp.TestID)
		fmt.Printf("Topic:      %s (%s, %d questions)\n", resp.Topic, resp.Difficulty, resp.NumQuestions)
		fmt.Printf("Download:   %s\n", resp.DownloadLink)
		fmt.Printf("Plan:       %s\n", rt.deps.Subscription.State().Label())
		return nil
	},
}

var mocktestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your mock tests",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()
		userID, err := rt.userID()
		if err != nil {
			return err
		}

		tests, err := rt.deps.API.UserMockTests(api.WithPurpose(cmd.Context(), "mock-test-list"), userID)
		if err != nil {
			return err
		}
		if len(tests) == 0 {
			fmt.Println("No mock tests found.")
			return nil
		}
		fmt.Printf("%-36s  %-28s  %-12s  %3s  %s\n", "ID", "Topic", "Difficulty", "Qs", "Created")
		fmt.Println(strings.Repeat("─", 100))
		for _, t := range tests {
			fmt.Printf("%-36s  %-28s  %-12s  %3d  %s\n", t.TestID, t.Topic, t.Difficulty, t.NumQuestions, t.CreatedAt)
		}
		return nil
	},
}

var mocktestDownloadCmd = &cobra.Command{
	Use:   "download <test-id>",
	Short: "Download a mock test PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = fmt.Sprintf("mock-test-%s.pdf", args[0])
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		n, err := rt.deps.API.DownloadMockTest(api.WithPurpose(cmd.Context(), "mock-test-download"), args[0], f)
		if err != nil {
			f.Close()
			os.Remove(out)
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("Saved %s (%d bytes)\n", out, n)
		return nil
	},
}

func init() {
	f := mocktestGenerateCmd.Flags()
	f.String("topic", "", "Test topic")
	f.String("description", "", "What the test should cover")
	f.String("difficulty", generation.DefaultDifficulty, strings.Join(generation.Difficulties, ", "))
	f.Int("questions", generation.DefaultQuestions, "Number of questions")

	mocktestDownloadCmd.Flags().StringP("output", "o", "", "Output file (default mock-test-<id>.pdf)")

	mocktestCmd.AddCommand(mocktestGenerateCmd, mocktestListCmd, mocktestDownloadCmd)
}
