package api

import "io"

// Question types.
const (
	MultipleChoice = "multiple_choice"
	TrueFalse      = "true_false"
)

// Question is a single quiz question. Options is empty for true/false
// questions.
type Question struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options,omitempty"`
	Answer   string   `json:"answer"`
	Type     string   `json:"type"`
}

// Choices returns the answer candidates shown to the player.
func (q Question) Choices() []string {
	if len(q.Options) > 0 || q.Type != TrueFalse {
		return q.Options
	}
	return []string{"True", "False"}
}

// Quiz is the payload of GET /quiz/:quizId.
type Quiz struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// RecentQuiz is one entry of the recent-quiz listings.
type RecentQuiz struct {
	QuizID         string `json:"quiz_id"`
	ContentName    string `json:"content_name"`
	TotalQuestions int    `json:"total_questions"`
	BestScore      int    `json:"best_score"`
	LastPlayed     string `json:"last_played"`
	CreatedAt      string `json:"created_at"`
	UserID         string `json:"user_id"`
}

// Flashcard is a term/definition pair generated alongside a quiz.
type Flashcard struct {
	ID         string `json:"id"`
	Term       string `json:"term"`
	Definition string `json:"definition"`
	QuizID     string `json:"quiz_id"`
	QuizTitle  string `json:"quiz_title,omitempty"`
}

// LeaderboardEntry is one submitted score.
type LeaderboardEntry struct {
	ID         string `json:"id"`
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
	QuizID     string `json:"quiz_id"`
	PlayedAt   string `json:"played_at"`
}

// CreateQuizRequest is the JSON body of POST /create_content.
type CreateQuizRequest struct {
	Text              string `json:"text"`
	ContentName       string `json:"content_name"`
	QuestionType      string `json:"question_type"`
	NumOptions        int    `json:"num_options"`
	NumQuestions      int    `json:"num_questions"`
	IncludeFlashcards bool   `json:"include_flashcards"`
	UserID            string `json:"user_id"`
}

// PDFUploadRequest is sent as multipart form data to POST /upload_pdf.
type PDFUploadRequest struct {
	FileName          string
	File              io.Reader
	StartPage         int
	EndPage           int
	QuestionType      string
	NumOptions        int
	NumQuestions      int
	IncludeFlashcards bool
	ContentName       string
	UserID            string
}

// GenerationResponse is returned by both quiz creation endpoints.
// RemainingFree is nil when the server omits it.
type GenerationResponse struct {
	QuizID             string `json:"quiz_id"`
	RemainingFree      *int   `json:"remaining_free,omitempty"`
	SubscriptionStatus string `json:"subscription_status,omitempty"`
}

// ScoreSubmission is the JSON body of POST /submit_score.
type ScoreSubmission struct {
	QuizID     string `json:"quizId"`
	PlayerName string `json:"playerName"`
	Score      int    `json:"score"`
}

// SubscriptionInfo is the payload of GET /user/subscription/:userId.
type SubscriptionInfo struct {
	FreeGenerationsRemaining int     `json:"free_generations_remaining"`
	SubscriptionStatus       string  `json:"subscription_status"`
	SubscriptionExpiry       *string `json:"subscription_expiry"`
}

// SubscribeRequest is the JSON body of POST /user/subscribe.
type SubscribeRequest struct {
	UserID string `json:"userId"`
	Plan   string `json:"plan"`
}

// SubscribeResponse is returned by POST /user/subscribe.
type SubscribeResponse struct {
	Message            string  `json:"message"`
	Plan               string  `json:"plan"`
	SubscriptionExpiry *string `json:"subscription_expiry"`
}

// PaymentProof is sent as multipart form data to POST /user/payment_proof.
type PaymentProof struct {
	FileName      string
	File          io.Reader
	UserID        string
	Plan          string
	TransactionID string
}

// PaymentProofResponse is returned by POST /user/payment_proof.
type PaymentProofResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MockTestRequest is the JSON body of POST /mock-test/generate.
type MockTestRequest struct {
	UserID       string `json:"user_id"`
	Topic        string `json:"topic"`
	Description  string `json:"description"`
	Difficulty   string `json:"difficulty"`
	NumQuestions int    `json:"num_questions"`
}

// MockTestResponse is returned by POST /mock-test/generate.
type MockTestResponse struct {
	Message            string `json:"message"`
	TestID             string `json:"test_id"`
	DownloadLink       string `json:"download_link"`
	Topic              string `json:"topic"`
	Difficulty         string `json:"difficulty"`
	NumQuestions       int    `json:"num_questions"`
	SubscriptionStatus string `json:"subscription_status,omitempty"`
	RemainingFree      *int   `json:"remaining_free,omitempty"`
}

// UserMockTest is one entry of GET /mock-test/user/:userId.
type UserMockTest struct {
	TestID       string `json:"test_id"`
	Topic        string `json:"topic"`
	Difficulty   string `json:"difficulty"`
	NumQuestions int    `json:"num_questions"`
	CreatedAt    string `json:"created_at"`
	DownloadLink string `json:"download_link"`
}
