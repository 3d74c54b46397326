package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/dalilachaima/ProjetPA/internal/domain/models"
	"github.com/dalilachaima/ProjetPA/internal/storage"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

// Storage implements storage.Storage on PostgreSQL.
type Storage struct {
	pool *pgxpool.Pool
}

var _ storage.Storage = (*Storage)(nil)

func NewStorage(ctx context.Context, dsn string) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &Storage{pool: pool}, nil
}

// Migrate creates the tables and unique indexes the store relies on.
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	return nil
}

func (s *Storage) Close() {
	s.pool.Close()
}

// mapErr translates driver errors into storage error kinds.
func mapErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", storage.ErrUniqueViolation, pgErr.ConstraintName)
	}

	return err
}

func (s *Storage) GetOrCreateCategory(ctx context.Context, descriptor string) (*models.Category, bool, error) {
	query := `
	INSERT INTO categories (descriptor) VALUES ($1)
	ON CONFLICT (descriptor) DO NOTHING
	RETURNING id
	`

	c := &models.Category{Descriptor: descriptor}

	err := s.pool.QueryRow(ctx, query, descriptor).Scan(&c.ID)
	if err == nil {
		return c, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, mapErr(err)
	}

	err = s.pool.QueryRow(ctx, `SELECT id FROM categories WHERE descriptor = $1`, descriptor).Scan(&c.ID)
	if err != nil {
		return nil, false, mapErr(err)
	}

	return c, false, nil
}

func (s *Storage) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	c := &models.Category{}

	err := s.pool.QueryRow(ctx, `SELECT id, descriptor FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Descriptor)
	if err != nil {
		return nil, mapErr(err)
	}

	return c, nil
}

func (s *Storage) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, descriptor FROM categories ORDER BY id`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []*models.Category
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.ID, &c.Descriptor); err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, rows.Err()
}

func (s *Storage) CountCategories(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM categories`).Scan(&n); err != nil {
		return 0, mapErr(err)
	}

	return n, nil
}

func (s *Storage) QuestionExists(ctx context.Context, categoryID int64, text string) (bool, error) {
	query := `
		SELECT EXISTS(SELECT 1 FROM questions WHERE category_id = $1 AND lower(text) = lower($2))
	`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, categoryID, text).Scan(&exists); err != nil {
		return false, mapErr(err)
	}

	return exists, nil
}

// CreateQuestion writes the question and its answers in one transaction.
func (s *Storage) CreateQuestion(ctx context.Context, q *models.Question, answers []*models.Answer) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	queryQuestion := `
	INSERT INTO questions (category_id, text, difficulty, time_limit)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at
	`

	err = tx.QueryRow(ctx, queryQuestion, q.CategoryID, q.Text, q.Difficulty, q.TimeLimit).
		Scan(&q.ID, &q.CreatedAt)
	if err != nil {
		return mapErr(err)
	}

	queryAnswer := `
	INSERT INTO answers (question_id, text, is_correct) VALUES ($1, $2, $3) RETURNING id
	`

	for _, a := range answers {
		a.QuestionID = q.ID
		if err := tx.QueryRow(ctx, queryAnswer, q.ID, a.Text, a.IsCorrect).Scan(&a.ID); err != nil {
			return mapErr(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return mapErr(err)
	}

	q.Answers = answers

	return nil
}

func (s *Storage) GetQuestion(ctx context.Context, id int64) (*models.Question, error) {
	query := `
	SELECT id, category_id, text, difficulty, time_limit, created_at FROM questions WHERE id = $1
	`

	q := &models.Question{}

	err := s.pool.QueryRow(ctx, query, id).
		Scan(&q.ID, &q.CategoryID, &q.Text, &q.Difficulty, &q.TimeLimit, &q.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}

	if err := s.loadAnswers(ctx, q); err != nil {
		return nil, err
	}

	return q, nil
}

func (s *Storage) loadAnswers(ctx context.Context, q *models.Question) error {
	rows, err := s.pool.Query(ctx,
		`SELECT id, question_id, text, is_correct FROM answers WHERE question_id = $1 ORDER BY id`, q.ID)
	if err != nil {
		return mapErr(err)
	}
	defer rows.Close()

	q.Answers = q.Answers[:0]
	for rows.Next() {
		a := &models.Answer{}
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.Text, &a.IsCorrect); err != nil {
			return err
		}
		q.Answers = append(q.Answers, a)
	}

	return rows.Err()
}

func (s *Storage) GetAnswer(ctx context.Context, id int64) (*models.Answer, error) {
	a := &models.Answer{}

	err := s.pool.QueryRow(ctx,
		`SELECT id, question_id, text, is_correct FROM answers WHERE id = $1`, id).
		Scan(&a.ID, &a.QuestionID, &a.Text, &a.IsCorrect)
	if err != nil {
		return nil, mapErr(err)
	}

	return a, nil
}

func (s *Storage) RandomQuestions(
	ctx context.Context,
	categoryID int64,
	exclude []int64,
	n int,
) ([]*models.Question, error) {
	if exclude == nil {
		// a NULL array would make "<> ALL" filter out every row
		exclude = []int64{}
	}

	query := `
	SELECT id, category_id, text, difficulty, time_limit, created_at
	FROM questions
	WHERE ($1::bigint = 0 OR category_id = $1) AND id <> ALL($2)
	ORDER BY random()
	LIMIT $3
	`

	rows, err := s.pool.Query(ctx, query, categoryID, exclude, n)
	if err != nil {
		return nil, mapErr(err)
	}

	var out []*models.Question
	for rows.Next() {
		q := &models.Question{}
		if err := rows.Scan(&q.ID, &q.CategoryID, &q.Text, &q.Difficulty, &q.TimeLimit, &q.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, q)
	}
	rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, q := range out {
		if err := s.loadAnswers(ctx, q); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// DeleteQuestions relies on ON DELETE CASCADE to drop answers and submissions.
func (s *Storage) DeleteQuestions(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM questions`)
	if err != nil {
		return 0, mapErr(err)
	}

	return int(tag.RowsAffected()), nil
}

func (s *Storage) CreateGameSession(ctx context.Context, gs *models.GameSession) error {
	query := `
	INSERT INTO game_sessions (pin, category_id, difficulty) VALUES ($1, $2, $3)
	RETURNING id, created_at
	`

	err := s.pool.QueryRow(ctx, query, gs.PIN, gs.CategoryID, gs.Difficulty).Scan(&gs.ID, &gs.CreatedAt)

	return mapErr(err)
}

func (s *Storage) GetGameSession(ctx context.Context, id int64) (*models.GameSession, error) {
	gs := &models.GameSession{}

	err := s.pool.QueryRow(ctx,
		`SELECT id, pin, category_id, difficulty, created_at FROM game_sessions WHERE id = $1`, id).
		Scan(&gs.ID, &gs.PIN, &gs.CategoryID, &gs.Difficulty, &gs.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}

	return gs, nil
}

func (s *Storage) CreatePlayerAnswer(ctx context.Context, a *models.PlayerAnswer) error {
	query := `
	INSERT INTO player_answers
		(question_id, player_id, user_id, session_id, answer_id, is_correct, reaction_time_ms)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, submitted_at
	`

	err := s.pool.QueryRow(ctx, query,
		a.QuestionID, a.PlayerID, a.UserID, a.SessionID, a.AnswerID, a.IsCorrect, a.ReactionTimeMs,
	).Scan(&a.ID, &a.SubmittedAt)

	return mapErr(err)
}

func (s *Storage) CreatePlayerScore(ctx context.Context, ps *models.PlayerScore) error {
	query := `
	INSERT INTO player_scores (session_id, player_id, player_name, user_id, score)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, recorded_at
	`

	err := s.pool.QueryRow(ctx, query, ps.SessionID, ps.PlayerID, ps.PlayerName, ps.UserID, ps.Score).
		Scan(&ps.ID, &ps.RecordedAt)

	return mapErr(err)
}

func (s *Storage) ListPlayerScores(ctx context.Context, sessionID int64) ([]*models.PlayerScore, error) {
	return s.scores(ctx, `
	SELECT id, session_id, player_id, player_name, user_id, score, recorded_at
	FROM player_scores WHERE session_id = $1
	ORDER BY score DESC, id
	`, sessionID)
}

// TopScores returns the best scores across all sessions; limit <= 0 returns them all.
func (s *Storage) TopScores(ctx context.Context, limit int) ([]*models.PlayerScore, error) {
	query := `
	SELECT id, session_id, player_id, player_name, user_id, score, recorded_at
	FROM player_scores
	ORDER BY score DESC, id
	`

	if limit <= 0 {
		return s.scores(ctx, query)
	}

	return s.scores(ctx, query+"LIMIT $1", limit)
}

func (s *Storage) scores(ctx context.Context, query string, args ...any) ([]*models.PlayerScore, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []*models.PlayerScore
	for rows.Next() {
		ps := &models.PlayerScore{}
		if err := rows.Scan(
			&ps.ID, &ps.SessionID, &ps.PlayerID, &ps.PlayerName, &ps.UserID, &ps.Score, &ps.RecordedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, ps)
	}

	return out, rows.Err()
}
