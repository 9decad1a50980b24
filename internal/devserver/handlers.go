package devserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/quizly/internal/api"
)

const msgQuotaExhausted = "Free generation limit reached. Please upgrade your subscription."

// Handler serves the backend API from a State.
type Handler struct {
	State *State
	Log   *zap.Logger
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func (h *Handler) generationError(c *gin.Context, err error) {
	if errors.Is(err, errQuotaExhausted) {
		respondError(c, http.StatusForbidden, msgQuotaExhausted)
		return
	}
	respondError(c, http.StatusInternalServerError, err.Error())
}

func (h *Handler) Recent(c *gin.Context) {
	c.JSON(http.StatusOK, h.State.Recent("", 20))
}

func (h *Handler) UserRecent(c *gin.Context) {
	c.JSON(http.StatusOK, h.State.Recent(c.Param("userId"), 0))
}

type createContentBody struct {
	Text              string `json:"text"`
	ContentName       string `json:"content_name"`
	QuestionType      string `json:"question_type"`
	NumOptions        int    `json:"num_options"`
	NumQuestions      int    `json:"num_questions"`
	IncludeFlashcards bool   `json:"include_flashcards"`
	UserID            string `json:"user_id"`
}

func (h *Handler) CreateContent(c *gin.Context) {
	var body createContentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	h.generate(c, generateInput{
		text:              body.Text,
		contentName:       body.ContentName,
		questionType:      body.QuestionType,
		numOptions:        body.NumOptions,
		numQuestions:      body.NumQuestions,
		includeFlashcards: body.IncludeFlashcards,
		userID:            body.UserID,
	})
}

func (h *Handler) UploadPDF(c *gin.Context) {
	fh, err := c.FormFile("pdf")
	if err != nil {
		respondError(c, http.StatusBadRequest, "pdf file is required")
		return
	}

	// Page range may come as form fields or as query parameters.
	page := func(name string) (int, error) {
		v := c.PostForm(name)
		if v == "" {
			v = c.Query(name)
		}
		if v == "" {
			return 1, nil
		}
		return strconv.Atoi(v)
	}
	start, err := page("startPage")
	if err != nil {
		respondError(c, http.StatusBadRequest, "startPage must be a number")
		return
	}
	end, err := page("endPage")
	if err != nil {
		respondError(c, http.StatusBadRequest, "endPage must be a number")
		return
	}
	if start < 1 || end < start {
		respondError(c, http.StatusBadRequest, "invalid page range")
		return
	}

	numOptions, _ := strconv.Atoi(c.PostForm("num_options"))
	numQuestions, _ := strconv.Atoi(c.PostForm("num_questions"))
	h.generate(c, generateInput{
		text:              pdfPlaceholderText(fh.Filename, start, end),
		contentName:       c.PostForm("content_name"),
		questionType:      c.PostForm("question_type"),
		numOptions:        numOptions,
		numQuestions:      numQuestions,
		includeFlashcards: c.PostForm("include_flashcards") == "true",
		userID:            c.PostForm("user_id"),
	})
}

type generateInput struct {
	text              string
	contentName       string
	questionType      string
	numOptions        int
	numQuestions      int
	includeFlashcards bool
	userID            string
}

func (h *Handler) generate(c *gin.Context, in generateInput) {
	if in.userID == "" {
		respondError(c, http.StatusBadRequest, "user_id is required")
		return
	}
	if strings.TrimSpace(in.contentName) == "" {
		respondError(c, http.StatusBadRequest, "content_name is required")
		return
	}
	if in.numQuestions < 1 || in.numQuestions > 50 {
		respondError(c, http.StatusBadRequest, "num_questions must be between 1 and 50")
		return
	}
	if in.questionType == "" {
		in.questionType = api.MultipleChoice
	}

	questions := buildQuestions(in.text, in.questionType, in.numOptions, in.numQuestions)
	if len(questions) == 0 {
		respondError(c, http.StatusBadRequest, "not enough content to generate questions")
		return
	}

	id, info, err := h.State.CreateQuiz(in.userID, in.contentName, questions, in.includeFlashcards)
	if err != nil {
		h.generationError(c, err)
		return
	}
	h.Log.Info("quiz generated", zap.String("quiz_id", id), zap.Int("questions", len(questions)))
	c.JSON(http.StatusOK, api.GenerationResponse{
		QuizID:             id,
		RemainingFree:      &info.FreeGenerationsRemaining,
		SubscriptionStatus: info.SubscriptionStatus,
	})
}

func (h *Handler) Quiz(c *gin.Context) {
	q, err := h.State.Quiz(c.Param("quizId"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Quiz not found")
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *Handler) Flashcards(c *gin.Context) {
	cards, err := h.State.Flashcards(c.Param("quizId"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Quiz not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"flashcards": cards})
}

func (h *Handler) SubmitScore(c *gin.Context) {
	var sub api.ScoreSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(sub.PlayerName) == "" {
		respondError(c, http.StatusBadRequest, "playerName is required")
		return
	}
	if err := h.State.SubmitScore(sub); err != nil {
		respondError(c, http.StatusNotFound, "Quiz not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Score submitted"})
}

func (h *Handler) Leaderboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.State.Leaderboard(c.Param("quizId")))
}

func (h *Handler) Subscription(c *gin.Context) {
	c.JSON(http.StatusOK, h.State.Subscription(c.Param("userId")))
}

func (h *Handler) Subscribe(c *gin.Context) {
	var req api.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID == "" {
		respondError(c, http.StatusBadRequest, "userId is required")
		return
	}
	expiry, err := h.State.Subscribe(req.UserID, req.Plan)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	exp := expiry.UTC().Format("2006-01-02T15:04:05Z07:00")
	c.JSON(http.StatusOK, api.SubscribeResponse{
		Message:            "Subscription activated",
		Plan:               req.Plan,
		SubscriptionExpiry: &exp,
	})
}

func (h *Handler) PaymentProof(c *gin.Context) {
	fh, err := c.FormFile("paymentProof")
	if err != nil {
		respondError(c, http.StatusBadRequest, "paymentProof file is required")
		return
	}
	userID, plan, txn := c.PostForm("userId"), c.PostForm("plan"), c.PostForm("transactionId")
	if userID == "" || plan == "" || strings.TrimSpace(txn) == "" {
		c.JSON(http.StatusOK, api.PaymentProofResponse{Success: false, Message: "userId, plan and transactionId are required"})
		return
	}
	h.State.AddProof(userID, plan, txn, fh.Filename, fh.Size)
	h.Log.Info("payment proof received", zap.String("user_id", userID), zap.String("plan", plan))
	c.JSON(http.StatusOK, api.PaymentProofResponse{
		Success: true,
		Message: "Payment proof received. Your subscription will be verified shortly.",
	})
}

func (h *Handler) GenerateMockTest(c *gin.Context) {
	var req api.MockTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID == "" || strings.TrimSpace(req.Topic) == "" {
		respondError(c, http.StatusBadRequest, "user_id and topic are required")
		return
	}
	if req.NumQuestions <= 0 {
		req.NumQuestions = 10
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	base := scheme + "://" + c.Request.Host + "/api"

	resp, err := h.State.CreateMockTest(req, mockTestQuestions(req), base)
	if err != nil {
		h.generationError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) UserMockTests(c *gin.Context) {
	c.JSON(http.StatusOK, h.State.UserMockTests(c.Param("userId")))
}

func (h *Handler) DownloadMockTest(c *gin.Context) {
	mt, err := h.State.MockTest(c.Param("testId"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Mock test not found")
		return
	}
	pdf := renderPDF(mt.Topic+" mock test ("+mt.Difficulty+")", mt.questions)
	c.Header("Content-Disposition", `attachment; filename="mock-test-`+mt.TestID+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
