package storage

import (
	"context"
	"errors"

	"github.com/dalilachaima/ProjetPA/internal/domain/models"
)

// Error kinds reported by every Storage implementation.
var (
	ErrNotFound        = errors.New("record not found")
	ErrUniqueViolation = errors.New("unique constraint violation")
)

// Storage defines the record store shared by all games.
// Uniqueness constraints are enforced by the store itself and reported as ErrUniqueViolation.
type Storage interface {
	// GetOrCreateCategory returns the category with the given descriptor, creating it if absent.
	GetOrCreateCategory(ctx context.Context, descriptor string) (*models.Category, bool, error)

	// GetCategory returns a category by ID.
	GetCategory(ctx context.Context, id int64) (*models.Category, error)

	// ListCategories returns all categories ordered by ID.
	ListCategories(ctx context.Context) ([]*models.Category, error)

	// CountCategories returns the number of categories.
	CountCategories(ctx context.Context) (int, error)

	// QuestionExists reports whether the category already has a question with
	// the same text, ignoring case.
	QuestionExists(ctx context.Context, categoryID int64, text string) (bool, error)

	// CreateQuestion stores a question and its answers atomically.
	CreateQuestion(ctx context.Context, q *models.Question, answers []*models.Answer) error

	// GetQuestion returns a question with its answers.
	GetQuestion(ctx context.Context, id int64) (*models.Question, error)

	// GetAnswer returns an answer by ID.
	GetAnswer(ctx context.Context, id int64) (*models.Answer, error)

	// RandomQuestions samples up to n questions, optionally filtered by category
	// (categoryID == 0 means any), skipping the excluded IDs.
	RandomQuestions(ctx context.Context, categoryID int64, exclude []int64, n int) ([]*models.Question, error)

	// CreateGameSession stores a game session. A taken PIN yields ErrUniqueViolation.
	CreateGameSession(ctx context.Context, s *models.GameSession) error

	// GetGameSession returns a game session by ID.
	GetGameSession(ctx context.Context, id int64) (*models.GameSession, error)

	// CreatePlayerAnswer stores an answer submission.
	CreatePlayerAnswer(ctx context.Context, a *models.PlayerAnswer) error

	// CreatePlayerScore stores a final score. A second row for the same
	// session and player yields ErrUniqueViolation.
	CreatePlayerScore(ctx context.Context, s *models.PlayerScore) error

	// ListPlayerScores returns the scores of a session ordered by score, highest first.
	ListPlayerScores(ctx context.Context, sessionID int64) ([]*models.PlayerScore, error)

	// DeleteQuestions removes every question together with its answers and the
	// submissions that reference them, returning the number of questions removed.
	DeleteQuestions(ctx context.Context) (int, error)

	// TopScores returns the best scores across all sessions; limit <= 0 returns them all.
	TopScores(ctx context.Context, limit int) ([]*models.PlayerScore, error)
}
