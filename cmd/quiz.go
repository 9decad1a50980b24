package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizly/internal/api"
	"github.com/abhisek/quizly/internal/generation"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Create and inspect quizzes",
}

var quizCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate a quiz from text or a PDF",
	Example: `  quizly quiz create --name "Cell biology" --file notes.txt --questions 15
  quizly quiz create --name "Chapter 4" --pdf book.pdf --start 40 --end 52 --type true_false`,
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
		form := generation.NewQuizForm()
		form.ContentName, _ = f.GetString("name")
		form.QuestionType, _ = f.GetString("type")
		form.NumOptions, _ = f.GetInt("options")
		n, _ := f.GetInt("questions")
		form.NumQuestions = &n
		flash, _ := f.GetBool("flashcards")
		form.IncludeFlashcards = &flash

		text, _ := f.GetString("text")
		textFile, _ := f.GetString("file")
		pdfPath, _ := f.GetString("pdf")
		switch {
		case pdfPath != "":
			pdf, err := os.Open(pdfPath)
			if err != nil {
				return fmt.Errorf("open pdf: %w", err)
			}
			defer pdf.Close()
			form.Source = generation.FromPDF
			form.PDF = pdf
			form.PDFName = filepath.Base(pdfPath)
			form.StartPage, _ = f.GetInt("start")
			form.EndPage, _ = f.GetInt("end")
		case textFile != "":
			data, err := os.ReadFile(textFile)
			if err != nil {
				return fmt.Errorf("read text file: %w", err)
			}
			form.Text = string(data)
		default:
			form.Text = text
		}

		ctx := cmd.Context()
		resp, err := rt.deps.Generation.CreateQuiz(ctx, userID, form)
		if err != nil {
			if alert := generation.Alert(err); alert != err.Error() {
				return fmt.Errorf("%s: %w", alert, err)
			}
			return err
		}
		rt.deps.Generation.FollowUpRefresh(ctx)

		fmt.Printf("Quiz created: %s\n", resp.QuizID)
		fmt.Printf("Plan:         %s\n", rt.deps.Subscription.State().Label())
		fmt.Printf("Play it with: quizly play %s\n", resp.QuizID)
		return nil
	},
}

var quizRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently created quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		mine, _ := cmd.Flags().GetBool("mine")
		ctx := api.WithPurpose(cmd.Context(), "recent")
		var quizzes []api.RecentQuiz
		if mine {
			userID, err := rt.userID()
			if err != nil {
				return err
			}
			quizzes, err = rt.deps.API.UserQuizzes(ctx, userID)
			if err != nil {
				return err
			}
		} else {
			quizzes, err = rt.deps.API.RecentQuizzes(ctx)
			if err != nil {
				return err
			}
		}

		if len(quizzes) == 0 {
			fmt.Println("No quizzes found.")
			return nil
		}
		fmt.Printf("%-36s  %-32s  %9s  %4s\n", "ID", "Name", "Questions", "Best")
		fmt.Println(strings.Repeat("─", 88))
		for _, q := range quizzes {
			name := q.ContentName
			if len([]rune(name)) > 32 {
				name = string([]rune(name)[:31]) + "…"
			}
			fmt.Printf("%-36s  %-32s  %9d  %4d\n", q.QuizID, name, q.TotalQuestions, q.BestScore)
		}
		return nil
	},
}

var quizShowCmd = &cobra.Command{
	Use:   "show <quiz-id>",
	Short: "Print a quiz's questions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		quiz, err := rt.deps.API.Quiz(api.WithPurpose(cmd.Context(), "quiz-show"), args[0])
		if err != nil {
			return err
		}
		answers, _ := cmd.Flags().GetBool("answers")

		fmt.Println(quiz.Title)
		fmt.Println(strings.Repeat("─", 60))
		for i, q := range quiz.Questions {
			fmt.Printf("%d. %s\n", i+1, q.Question)
			for j, c := range q.Choices() {
				mark := " "
				if answers && c == q.Answer {
					mark = "✓"
				}
				fmt.Printf("   %s %c) %s\n", mark, 'a'+j, c)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	f := quizCreateCmd.Flags()
	f.String("name", "", "Quiz name")
	f.String("text", "", "Content text")
	f.String("file", "", "Read content text from a file")
	f.String("pdf", "", "Generate from a PDF file")
	f.Int("start", 1, "First PDF page")
	f.Int("end", 1, "Last PDF page")
	f.String("type", api.MultipleChoice, "Question type: multiple_choice or true_false")
	f.Int("options", generation.DefaultOptions, "Options per multiple choice question")
	f.Int("questions", generation.DefaultQuestions, fmt.Sprintf("Number of questions (1-%d)", generation.MaxQuestions))
	f.Bool("flashcards", false, "Also generate flashcards")

	quizRecentCmd.Flags().Bool("mine", false, "Only quizzes created by the signed-in user")
	quizShowCmd.Flags().Bool("answers", false, "Mark the correct answers")

	quizCmd.AddCommand(quizCreateCmd, quizRecentCmd, quizShowCmd)
}
