// Package devserver is an in-memory stand-in for the quiz backend. It
// implements every endpoint the client calls, with trivial deterministic
// generation, so the client can be developed and tested offline.
package devserver

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/quizly/internal/api"
)

var (
	errQuotaExhausted = errors.New("free generation limit reached")
	errNotFound       = errors.New("not found")
)

// stampLayout is fixed width so timestamps sort lexically.
const stampLayout = "2006-01-02T15:04:05.000000000Z07:00"

type account struct {
	free   int
	plan   string
	expiry *time.Time
	proofs []paymentProof
}

type paymentProof struct {
	plan          string
	transactionID string
	fileName      string
	size          int64
	receivedAt    time.Time
}

type quizRecord struct {
	id         string
	title      string
	userID     string
	createdAt  time.Time
	questions  []api.Question
	flashcards []api.Flashcard
}

type mockTest struct {
	api.UserMockTest
	userID      string
	description string
	questions   []string
}

// State is the backend's in-memory data. It is safe for concurrent use.
type State struct {
	freeQuota int
	now       func() time.Time

	mu        sync.Mutex
	accounts  map[string]*account
	quizzes   map[string]*quizRecord
	order     []string
	scores    map[string][]api.LeaderboardEntry
	mockTests map[string]*mockTest
}

// NewState creates an empty State granting freeQuota generations to each
// new user.
func NewState(freeQuota int, now func() time.Time) *State {
	if now == nil {
		now = time.Now
	}
	return &State{
		freeQuota: freeQuota,
		now:       now,
		accounts:  make(map[string]*account),
		quizzes:   make(map[string]*quizRecord),
		scores:    make(map[string][]api.LeaderboardEntry),
		mockTests: make(map[string]*mockTest),
	}
}

// accountLocked returns the user's account, creating it on first sight.
// Expired plans fall back to free.
func (s *State) accountLocked(userID string) *account {
	a, ok := s.accounts[userID]
	if !ok {
		a = &account{free: s.freeQuota, plan: "free"}
		s.accounts[userID] = a
	}
	if a.expiry != nil && s.now().After(*a.expiry) {
		a.plan = "free"
		a.expiry = nil
	}
	return a
}

// consumeLocked charges one generation. Paid plans are not charged.
func (s *State) consumeLocked(a *account) error {
	if a.plan != "free" {
		return nil
	}
	if a.free <= 0 {
		return errQuotaExhausted
	}
	a.free--
	return nil
}

// Subscription returns the user's quota and plan.
func (s *State) Subscription(userID string) api.SubscriptionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accountLocked(userID)
	return infoOf(a)
}

func infoOf(a *account) api.SubscriptionInfo {
	info := api.SubscriptionInfo{
		FreeGenerationsRemaining: a.free,
		SubscriptionStatus:       a.plan,
	}
	if a.expiry != nil {
		e := a.expiry.UTC().Format(time.RFC3339)
		info.SubscriptionExpiry = &e
	}
	return info
}

var planDurations = map[string]time.Duration{
	"monthly":   30 * 24 * time.Hour,
	"quarterly": 90 * 24 * time.Hour,
	"yearly":    365 * 24 * time.Hour,
}

// Subscribe activates plan for userID. The stand-in activates immediately
// instead of waiting for manual payment verification.
func (s *State) Subscribe(userID, plan string) (time.Time, error) {
	d, ok := planDurations[plan]
	if !ok {
		return time.Time{}, errors.New("unknown plan")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accountLocked(userID)
	expiry := s.now().Add(d)
	a.plan = plan
	a.expiry = &expiry
	return expiry, nil
}

// AddProof stores a payment proof awaiting verification.
func (s *State) AddProof(userID, plan, txnID, fileName string, size int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accountLocked(userID)
	a.proofs = append(a.proofs, paymentProof{
		plan: plan, transactionID: txnID, fileName: fileName, size: size, receivedAt: s.now(),
	})
}

// ProofCount returns how many payment proofs userID has uploaded.
func (s *State) ProofCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[userID]; ok {
		return len(a.proofs)
	}
	return 0
}

// CreateQuiz charges userID and stores a generated quiz. It returns the
// quiz id and the remaining free count.
func (s *State) CreateQuiz(userID, title string, questions []api.Question, withFlashcards bool) (string, api.SubscriptionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.accountLocked(userID)
	if err := s.consumeLocked(a); err != nil {
		return "", infoOf(a), err
	}

	id := uuid.NewString()
	rec := &quizRecord{id: id, title: title, userID: userID, createdAt: s.now(), questions: questions}
	if withFlashcards {
		for _, q := range questions {
			rec.flashcards = append(rec.flashcards, api.Flashcard{
				ID:         uuid.NewString(),
				Term:       q.Answer,
				Definition: q.Question,
				QuizID:     id,
				QuizTitle:  title,
			})
		}
	}
	s.quizzes[id] = rec
	s.order = append(s.order, id)
	return id, infoOf(a), nil
}

// Quiz returns a stored quiz.
func (s *State) Quiz(id string) (api.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.quizzes[id]
	if !ok {
		return api.Quiz{}, errNotFound
	}
	return api.Quiz{Title: rec.title, Questions: append([]api.Question(nil), rec.questions...)}, nil
}

// Flashcards returns a quiz's flashcards.
func (s *State) Flashcards(id string) ([]api.Flashcard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.quizzes[id]
	if !ok {
		return nil, errNotFound
	}
	return append([]api.Flashcard{}, rec.flashcards...), nil
}

// Recent lists quizzes newest first, optionally only those of userID.
func (s *State) Recent(userID string, limit int) []api.RecentQuiz {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []api.RecentQuiz{}
	for i := len(s.order) - 1; i >= 0; i-- {
		rec := s.quizzes[s.order[i]]
		if userID != "" && rec.userID != userID {
			continue
		}
		rq := api.RecentQuiz{
			QuizID:         rec.id,
			ContentName:    rec.title,
			TotalQuestions: len(rec.questions),
			CreatedAt:      rec.createdAt.UTC().Format(time.RFC3339),
			UserID:         rec.userID,
		}
		for _, e := range s.scores[rec.id] {
			if e.Score > rq.BestScore {
				rq.BestScore = e.Score
			}
			if e.PlayedAt > rq.LastPlayed {
				rq.LastPlayed = e.PlayedAt
			}
		}
		out = append(out, rq)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// SubmitScore records a score for an existing quiz.
func (s *State) SubmitScore(sub api.ScoreSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[sub.QuizID]; !ok {
		return errNotFound
	}
	s.scores[sub.QuizID] = append(s.scores[sub.QuizID], api.LeaderboardEntry{
		ID:         uuid.NewString(),
		PlayerName: sub.PlayerName,
		Score:      sub.Score,
		QuizID:     sub.QuizID,
		PlayedAt:   s.now().UTC().Format(stampLayout),
	})
	return nil
}

// Leaderboard returns scores for a quiz, highest first, earliest first on
// ties.
func (s *State) Leaderboard(quizID string) []api.LeaderboardEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]api.LeaderboardEntry{}, s.scores[quizID]...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].PlayedAt < out[j].PlayedAt
	})
	return out
}

// CreateMockTest charges userID and stores a mock test.
func (s *State) CreateMockTest(req api.MockTestRequest, questions []string, downloadBase string) (api.MockTestResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.accountLocked(req.UserID)
	if err := s.consumeLocked(a); err != nil {
		return api.MockTestResponse{}, err
	}

	id := uuid.NewString()
	link := downloadBase + "/mock-test/download/" + id
	s.mockTests[id] = &mockTest{
		UserMockTest: api.UserMockTest{
			TestID:       id,
			Topic:        req.Topic,
			Difficulty:   req.Difficulty,
			NumQuestions: req.NumQuestions,
			CreatedAt:    s.now().UTC().Format(stampLayout),
			DownloadLink: link,
		},
		userID:      req.UserID,
		description: req.Description,
		questions:   questions,
	}

	remaining := a.free
	return api.MockTestResponse{
		Message:            "Mock test generated successfully",
		TestID:             id,
		DownloadLink:       link,
		Topic:              req.Topic,
		Difficulty:         req.Difficulty,
		NumQuestions:       req.NumQuestions,
		SubscriptionStatus: a.plan,
		RemainingFree:      &remaining,
	}, nil
}

// UserMockTests lists userID's mock tests, newest first.
func (s *State) UserMockTests(userID string) []api.UserMockTest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []api.UserMockTest{}
	for _, mt := range s.mockTests {
		if mt.userID == userID {
			out = append(out, mt.UserMockTest)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

// MockTest returns a stored mock test.
func (s *State) MockTest(id string) (*mockTest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mt, ok := s.mockTests[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *mt
	return &cp, nil
}
