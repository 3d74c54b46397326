package storage

import (
	"context"
	"math/rand/v2"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dalilachaima/ProjetPA/internal/domain/models"
)

type answerKey struct {
	questionID int64
	playerID   string
	sessionID  int64
}

type scoreKey struct {
	sessionID int64
	playerID  string
}

// MemoryStorage implements Storage in memory with the same uniqueness rules as the SQL store.
type MemoryStorage struct {
	mu sync.RWMutex

	nextID int64

	categories   map[int64]*models.Category
	questions    map[int64]*models.Question
	answers      map[int64]*models.Answer
	sessions     map[int64]*models.GameSession
	playerAnswer map[answerKey]*models.PlayerAnswer
	scores       map[scoreKey]*models.PlayerScore
}

// NewMemoryStorage creates a new MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		categories:   make(map[int64]*models.Category),
		questions:    make(map[int64]*models.Question),
		answers:      make(map[int64]*models.Answer),
		sessions:     make(map[int64]*models.GameSession),
		playerAnswer: make(map[answerKey]*models.PlayerAnswer),
		scores:       make(map[scoreKey]*models.PlayerScore),
	}
}

func (s *MemoryStorage) id() int64 {
	s.nextID++
	return s.nextID
}

// GetOrCreateCategory returns the category with the descriptor, creating it if absent.
func (s *MemoryStorage) GetOrCreateCategory(ctx context.Context, descriptor string) (*models.Category, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.Descriptor == descriptor {
			cp := *c
			return &cp, false, nil
		}
	}

	c := &models.Category{ID: s.id(), Descriptor: descriptor}
	s.categories[c.ID] = c

	cp := *c
	return &cp, true, nil
}

// GetCategory returns a category by ID.
func (s *MemoryStorage) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, ErrNotFound
	}

	cp := *c
	return &cp, nil
}

// ListCategories returns all categories ordered by ID.
func (s *MemoryStorage) ListCategories(ctx context.Context) ([]*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		cp := *c
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

// CountCategories returns the number of categories.
func (s *MemoryStorage) CountCategories(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.categories), nil
}

// QuestionExists reports whether the category has a question with the same text, ignoring case.
func (s *MemoryStorage) QuestionExists(ctx context.Context, categoryID int64, text string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.questionExists(categoryID, text), nil
}

func (s *MemoryStorage) questionExists(categoryID int64, text string) bool {
	for _, q := range s.questions {
		if q.CategoryID == categoryID && strings.EqualFold(q.Text, text) {
			return true
		}
	}

	return false
}

// CreateQuestion stores a question and its answers under one lock.
func (s *MemoryStorage) CreateQuestion(ctx context.Context, q *models.Question, answers []*models.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[q.CategoryID]; !ok {
		return ErrNotFound
	}

	if s.questionExists(q.CategoryID, q.Text) {
		return ErrUniqueViolation
	}

	q.ID = s.id()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}

	stored := *q
	stored.Answers = nil
	s.questions[q.ID] = &stored

	for _, a := range answers {
		a.ID = s.id()
		a.QuestionID = q.ID

		cp := *a
		s.answers[a.ID] = &cp
	}
	q.Answers = answers

	return nil
}

// GetQuestion returns a question with its answers ordered by ID.
func (s *MemoryStorage) GetQuestion(ctx context.Context, id int64) (*models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.question(id)
}

func (s *MemoryStorage) question(id int64) (*models.Question, error) {
	q, ok := s.questions[id]
	if !ok {
		return nil, ErrNotFound
	}

	cp := *q
	for _, a := range s.answers {
		if a.QuestionID == id {
			ac := *a
			cp.Answers = append(cp.Answers, &ac)
		}
	}

	sort.Slice(cp.Answers, func(i, j int) bool { return cp.Answers[i].ID < cp.Answers[j].ID })

	return &cp, nil
}

// GetAnswer returns an answer by ID.
func (s *MemoryStorage) GetAnswer(ctx context.Context, id int64) (*models.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.answers[id]
	if !ok {
		return nil, ErrNotFound
	}

	cp := *a
	return &cp, nil
}

// RandomQuestions samples up to n questions, filtered by category unless categoryID is 0.
func (s *MemoryStorage) RandomQuestions(
	ctx context.Context,
	categoryID int64,
	exclude []int64,
	n int,
) ([]*models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []int64
	for id, q := range s.questions {
		if categoryID != 0 && q.CategoryID != categoryID {
			continue
		}

		if slices.Contains(exclude, id) {
			continue
		}

		ids = append(ids, id)
	}

	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	if n < len(ids) {
		ids = ids[:n]
	}

	out := make([]*models.Question, 0, len(ids))
	for _, id := range ids {
		q, err := s.question(id)
		if err != nil {
			return nil, err
		}

		out = append(out, q)
	}

	return out, nil
}

// CreateGameSession stores a game session; the PIN must be free.
func (s *MemoryStorage) CreateGameSession(ctx context.Context, gs *models.GameSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.sessions {
		if existing.PIN == gs.PIN {
			return ErrUniqueViolation
		}
	}

	if _, ok := s.categories[gs.CategoryID]; !ok {
		return ErrNotFound
	}

	gs.ID = s.id()
	if gs.CreatedAt.IsZero() {
		gs.CreatedAt = time.Now()
	}

	cp := *gs
	s.sessions[gs.ID] = &cp

	return nil
}

// GetGameSession returns a game session by ID.
func (s *MemoryStorage) GetGameSession(ctx context.Context, id int64) (*models.GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	gs, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	cp := *gs
	return &cp, nil
}

// CreatePlayerAnswer stores an answer submission.
func (s *MemoryStorage) CreatePlayerAnswer(ctx context.Context, a *models.PlayerAnswer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := answerKey{questionID: a.QuestionID, playerID: a.PlayerID, sessionID: a.SessionID}
	if _, ok := s.playerAnswer[key]; ok {
		return ErrUniqueViolation
	}

	a.ID = s.id()
	if a.SubmittedAt.IsZero() {
		a.SubmittedAt = time.Now()
	}

	cp := *a
	s.playerAnswer[key] = &cp

	return nil
}

// DeleteQuestions removes every question, its answers and the submissions on it.
func (s *MemoryStorage) DeleteQuestions(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.questions)

	clear(s.questions)
	clear(s.answers)
	clear(s.playerAnswer)

	return n, nil
}

// PlayerAnswers returns the submissions of a session ordered by ID.
func (s *MemoryStorage) PlayerAnswers(sessionID int64) []*models.PlayerAnswer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.PlayerAnswer
	for _, a := range s.playerAnswer {
		if a.SessionID == sessionID {
			cp := *a
			out = append(out, &cp)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// CreatePlayerScore stores a final score, one per session and player.
func (s *MemoryStorage) CreatePlayerScore(ctx context.Context, ps *models.PlayerScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := scoreKey{sessionID: ps.SessionID, playerID: ps.PlayerID}
	if _, ok := s.scores[key]; ok {
		return ErrUniqueViolation
	}

	ps.ID = s.id()
	if ps.RecordedAt.IsZero() {
		ps.RecordedAt = time.Now()
	}

	cp := *ps
	s.scores[key] = &cp

	return nil
}

// ListPlayerScores returns the scores of a session, highest first.
func (s *MemoryStorage) ListPlayerScores(ctx context.Context, sessionID int64) ([]*models.PlayerScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.PlayerScore
	for _, ps := range s.scores {
		if ps.SessionID == sessionID {
			cp := *ps
			out = append(out, &cp)
		}
	}

	sortScores(out)

	return out, nil
}

// TopScores returns the best scores across all sessions.
func (s *MemoryStorage) TopScores(ctx context.Context, limit int) ([]*models.PlayerScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.PlayerScore, 0, len(s.scores))
	for _, ps := range s.scores {
		cp := *ps
		out = append(out, &cp)
	}

	sortScores(out)

	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}

	return out, nil
}

func sortScores(scores []*models.PlayerScore) {
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}

		return scores[i].ID < scores[j].ID
	})
}
