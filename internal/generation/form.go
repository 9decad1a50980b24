// Package generation validates and submits quiz and mock-test generation
// requests, keeping the local quota in step with the server's answers.
package generation

import (
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/quizly/internal/api"
)

// Step is a page of the quiz creation wizard.
type Step int

const (
	StepDetails Step = iota
	StepContent
	StepSettings
)

func (s Step) String() string {
	switch s {
	case StepDetails:
		return "Quiz Details"
	case StepContent:
		return "Content"
	case StepSettings:
		return "Question Settings"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Steps lists the wizard pages in order.
var Steps = []Step{StepDetails, StepContent, StepSettings}

// ValidationError is a form problem caught before any request. Step is the
// wizard page that holds the offending field.
type ValidationError struct {
	Field   string
	Message string
	Step    Step
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Source selects where quiz content comes from.
type Source int

const (
	FromText Source = iota
	FromPDF
)

const (
	DefaultQuestions = 10
	MaxQuestions     = 50
	DefaultOptions   = 4
)

// ClampQuestions maps an unset count to the default and bounds the rest to
// 1..MaxQuestions.
func ClampQuestions(n int) int {
	switch {
	case n == 0:
		return DefaultQuestions
	case n < 1:
		return 1
	case n > MaxQuestions:
		return MaxQuestions
	default:
		return n
	}
}

// QuizForm is the quiz creation wizard's input. Nil pointers mean the user
// has not chosen a value yet.
type QuizForm struct {
	ContentName string
	Source      Source

	Text string

	PDFName   string
	PDF       io.Reader
	StartPage int
	EndPage   int

	QuestionType      string
	NumOptions        int
	NumQuestions      *int
	IncludeFlashcards *bool
}

// NewQuizForm returns a form with the wizard's initial values.
func NewQuizForm() QuizForm {
	no := false
	return QuizForm{
		QuestionType:      api.MultipleChoice,
		NumOptions:        DefaultOptions,
		IncludeFlashcards: &no,
		StartPage:         1,
		EndPage:           1,
	}
}

// Validate returns the first problem as a *ValidationError. Settings are
// checked before content, the order the web client's submit handler uses,
// so a missing count wins over missing text.
func (f QuizForm) Validate() error {
	if strings.TrimSpace(f.ContentName) == "" {
		return &ValidationError{Field: "content_name", Message: "Please provide a quiz name", Step: StepDetails}
	}
	if f.NumQuestions == nil {
		return &ValidationError{Field: "num_questions", Message: "Please select the number of questions", Step: StepSettings}
	}
	if f.IncludeFlashcards == nil {
		return &ValidationError{Field: "include_flashcards", Message: "Please specify whether to include flashcards", Step: StepSettings}
	}
	if f.QuestionType != "" && f.QuestionType != api.MultipleChoice && f.QuestionType != api.TrueFalse {
		return &ValidationError{Field: "question_type", Message: fmt.Sprintf("Unknown question type %q", f.QuestionType), Step: StepSettings}
	}

	switch f.Source {
	case FromText:
		if strings.TrimSpace(f.Text) == "" {
			return &ValidationError{Field: "text", Message: "Please provide content text or upload a PDF", Step: StepContent}
		}
	case FromPDF:
		if f.PDF == nil {
			return &ValidationError{Field: "pdf", Message: "Please provide content text or upload a PDF", Step: StepContent}
		}
		if f.StartPage < 1 || f.EndPage < f.StartPage {
			return &ValidationError{
				Field:   "page_range",
				Message: fmt.Sprintf("Invalid page range %d-%d", f.StartPage, f.EndPage),
				Step:    StepContent,
			}
		}
	default:
		return &ValidationError{Field: "source", Message: "Unknown content source", Step: StepContent}
	}
	return nil
}

func (f QuizForm) questionType() string {
	if f.QuestionType == "" {
		return api.MultipleChoice
	}
	return f.QuestionType
}

func (f QuizForm) numOptions() int {
	if f.NumOptions <= 0 {
		return DefaultOptions
	}
	return f.NumOptions
}

func (f QuizForm) textRequest(userID string) api.CreateQuizRequest {
	return api.CreateQuizRequest{
		Text:              f.Text,
		ContentName:       strings.TrimSpace(f.ContentName),
		QuestionType:      f.questionType(),
		NumOptions:        f.numOptions(),
		NumQuestions:      ClampQuestions(*f.NumQuestions),
		IncludeFlashcards: *f.IncludeFlashcards,
		UserID:            userID,
	}
}

func (f QuizForm) pdfRequest(userID string) api.PDFUploadRequest {
	return api.PDFUploadRequest{
		FileName:          f.PDFName,
		File:              f.PDF,
		StartPage:         f.StartPage,
		EndPage:           f.EndPage,
		QuestionType:      f.questionType(),
		NumOptions:        f.numOptions(),
		NumQuestions:      ClampQuestions(*f.NumQuestions),
		IncludeFlashcards: *f.IncludeFlashcards,
		ContentName:       strings.TrimSpace(f.ContentName),
		UserID:            userID,
	}
}

// Difficulties lists the accepted mock test difficulty levels.
var Difficulties = []string{"Beginner", "Intermediate", "Advanced", "Expert"}

// DefaultDifficulty is preselected in the mock test form.
const DefaultDifficulty = "Intermediate"

// MockTestForm is the mock test generator's input.
type MockTestForm struct {
	Topic        string
	Description  string
	Difficulty   string
	NumQuestions int
}

// Validate checks required fields and the difficulty level.
func (f MockTestForm) Validate() error {
	if strings.TrimSpace(f.Topic) == "" {
		return &ValidationError{Field: "topic", Message: "Please enter a topic"}
	}
	if strings.TrimSpace(f.Description) == "" {
		return &ValidationError{Field: "description", Message: "Please enter a description"}
	}
	if _, ok := normalizeDifficulty(f.Difficulty); !ok {
		return &ValidationError{
			Field:   "difficulty",
			Message: fmt.Sprintf("Difficulty must be one of %s", strings.Join(Difficulties, ", ")),
		}
	}
	return nil
}

func normalizeDifficulty(d string) (string, bool) {
	d = strings.TrimSpace(d)
	if d == "" {
		return DefaultDifficulty, true
	}
	for _, known := range Difficulties {
		if strings.EqualFold(d, known) {
			return known, true
		}
	}
	return "", false
}

func (f MockTestForm) request(userID string) api.MockTestRequest {
	difficulty, _ := normalizeDifficulty(f.Difficulty)
	return api.MockTestRequest{
		UserID:       userID,
		Topic:        strings.TrimSpace(f.Topic),
		Description:  strings.TrimSpace(f.Description),
		Difficulty:   difficulty,
		NumQuestions: ClampQuestions(f.NumQuestions),
	}
}
