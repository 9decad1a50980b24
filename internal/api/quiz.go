package api

import (
	"context"
	"errors"
	"strconv"
)

// ErrMissingID is returned before any request when a path id is empty.
var ErrMissingID = errors.New("missing id")

// RecentQuizzes lists recently created quizzes across all users.
func (c *Client) RecentQuizzes(ctx context.Context) ([]RecentQuiz, error) {
	var out []RecentQuiz
	if err := c.getJSON(ctx, "fetch recent quizzes", "/recent", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UserQuizzes lists quizzes created by userID.
func (c *Client) UserQuizzes(ctx context.Context, userID string) ([]RecentQuiz, error) {
	if userID == "" {
		return nil, ErrMissingID
	}
	var out []RecentQuiz
	if err := c.getJSON(ctx, "fetch user quizzes", "/recent/user/"+pathID(userID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateQuiz generates a quiz from plain text.
func (c *Client) CreateQuiz(ctx context.Context, req CreateQuizRequest) (*GenerationResponse, error) {
	var out GenerationResponse
	if err := c.postJSON(ctx, "create quiz", "/create_content", req, generationSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadPDF generates a quiz from a page range of a PDF document.
func (c *Client) UploadPDF(ctx context.Context, req PDFUploadRequest) (*GenerationResponse, error) {
	name := req.FileName
	if name == "" {
		name = "document.pdf"
	}
	fields := []formField{
		{"startPage", strconv.Itoa(req.StartPage)},
		{"endPage", strconv.Itoa(req.EndPage)},
		{"question_type", req.QuestionType},
		{"num_options", strconv.Itoa(req.NumOptions)},
		{"num_questions", strconv.Itoa(req.NumQuestions)},
		{"include_flashcards", strconv.FormatBool(req.IncludeFlashcards)},
		{"content_name", req.ContentName},
		{"user_id", req.UserID},
	}

	var out GenerationResponse
	file := &formFile{field: "pdf", name: name, r: req.File}
	if err := c.postMultipart(ctx, "upload pdf", "/upload_pdf", file, fields, generationSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Quiz fetches the title and questions of a quiz.
func (c *Client) Quiz(ctx context.Context, quizID string) (*Quiz, error) {
	if quizID == "" {
		return nil, ErrMissingID
	}
	var out Quiz
	if err := c.getJSON(ctx, "fetch quiz", "/quiz/"+pathID(quizID), nil, quizSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Flashcards fetches the flashcards generated with a quiz.
func (c *Client) Flashcards(ctx context.Context, quizID string) ([]Flashcard, error) {
	if quizID == "" {
		return nil, ErrMissingID
	}
	var out struct {
		Flashcards []Flashcard `json:"flashcards"`
	}
	if err := c.getJSON(ctx, "fetch flashcards", "/flashcards/"+pathID(quizID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Flashcards, nil
}

// SubmitScore posts a finished quiz score. The response body is ignored.
func (c *Client) SubmitScore(ctx context.Context, s ScoreSubmission) error {
	return c.postJSON(ctx, "submit score", "/submit_score", s, nil, nil)
}

// Leaderboard fetches the scores submitted for a quiz.
func (c *Client) Leaderboard(ctx context.Context, quizID string) ([]LeaderboardEntry, error) {
	if quizID == "" {
		return nil, ErrMissingID
	}
	var out []LeaderboardEntry
	if err := c.getJSON(ctx, "fetch leaderboard", "/leaderboard/"+pathID(quizID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
