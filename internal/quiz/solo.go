package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/dalilachaima/ProjetPA/internal/domain/models"
	"github.com/dalilachaima/ProjetPA/internal/storage"
)

// soloDifficulty is used when a solo question has to be generated.
const soloDifficulty = 2

// SoloTimeLimit is the answer time shown in solo play, in seconds.
const SoloTimeLimit = 15

// Solo serves single-player questions without any session state.
type Solo struct {
	store  storage.Storage
	source QuestionSource
	log    *slog.Logger
}

func NewSolo(store storage.Storage, source QuestionSource) *Solo {
	return &Solo{
		store:  store,
		source: source,
		log:    slog.Default().With("component", "solo"),
	}
}

// Categories lists the categories, seeding the defaults into an empty store.
func (s *Solo) Categories(ctx context.Context) ([]*models.Category, error) {
	return ensureCategories(ctx, s.store)
}

// NextQuestion returns a random stored question of the category with its answers
// shuffled, generating one when the category has none.
func (s *Solo) NextQuestion(ctx context.Context, categoryID int64) (*models.Question, error) {
	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	questions, err := s.store.RandomQuestions(ctx, category.ID, nil, 1)
	if err != nil {
		return nil, fmt.Errorf("sample question: %w", err)
	}

	var q *models.Question
	if len(questions) > 0 {
		q = questions[0]
	} else {
		q, err = s.source.Generate(ctx, category.Descriptor, soloDifficulty, defaultTimeLimit)
		if err != nil {
			s.log.Warn("no question available", "category", category.Descriptor, "error", err)
			return nil, fmt.Errorf("%w: %w", ErrInsufficientQuestions, err)
		}
	}

	rand.Shuffle(len(q.Answers), func(i, j int) { q.Answers[i], q.Answers[j] = q.Answers[j], q.Answers[i] })

	return q, nil
}

// CheckResult is the verdict on a solo answer.
type CheckResult struct {
	Correct         bool
	CorrectAnswerID int64
}

// Check tells whether answerID is the correct answer to questionID.
func (s *Solo) Check(ctx context.Context, questionID, answerID int64) (*CheckResult, error) {
	q, err := s.store.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}

	correct := q.Correct()
	if correct == nil {
		return nil, fmt.Errorf("question %d has no correct answer", questionID)
	}

	a, err := s.store.GetAnswer(ctx, answerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown answer %d", ErrInvalidSubmission, answerID)
		}
		return nil, fmt.Errorf("get answer: %w", err)
	}
	if a.QuestionID != questionID {
		return nil, fmt.Errorf("%w: answer %d does not belong to question %d", ErrInvalidSubmission, answerID, questionID)
	}

	return &CheckResult{Correct: a.IsCorrect, CorrectAnswerID: correct.ID}, nil
}
