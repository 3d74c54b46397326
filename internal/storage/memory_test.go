package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalilachaima/ProjetPA/internal/domain/models"
)

func seedQuestion(t *testing.T, s *MemoryStorage, categoryID int64, text string) *models.Question {
	t.Helper()

	q := &models.Question{CategoryID: categoryID, Text: text, Difficulty: 1, TimeLimit: 30}
	answers := []*models.Answer{
		{Text: "right", IsCorrect: true},
		{Text: "wrong 1"},
		{Text: "wrong 2"},
		{Text: "wrong 3"},
	}
	require.NoError(t, s.CreateQuestion(context.Background(), q, answers))

	return q
}

func TestMemoryStorage_GetOrCreateCategory(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	c1, created, err := s.GetOrCreateCategory(ctx, "Sciences")
	require.NoError(t, err)
	assert.True(t, created)

	c2, created, err := s.GetOrCreateCategory(ctx, "Sciences")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, c1.ID, c2.ID)

	n, err := s.CountCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryStorage_QuestionTextUniquePerCategory(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	sciences, _, _ := s.GetOrCreateCategory(ctx, "Sciences")
	history, _, _ := s.GetOrCreateCategory(ctx, "Histoire")

	seedQuestion(t, s, sciences.ID, "Quel est l'unité de base de la vie ?")

	exists, err := s.QuestionExists(ctx, sciences.ID, "QUEL EST L'UNITÉ DE BASE DE LA VIE ?")
	require.NoError(t, err)
	assert.True(t, exists)

	err = s.CreateQuestion(ctx, &models.Question{CategoryID: sciences.ID, Text: "quel est l'unité de base de la vie ?"}, nil)
	assert.ErrorIs(t, err, ErrUniqueViolation)

	// same text in another category is fine
	seedQuestion(t, s, history.ID, "Quel est l'unité de base de la vie ?")
}

func TestMemoryStorage_GetQuestionLoadsAnswers(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	c, _, _ := s.GetOrCreateCategory(ctx, "Informatique")
	q := seedQuestion(t, s, c.ID, "Que signifie HTML ?")

	loaded, err := s.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Answers, 4)
	assert.Equal(t, "right", loaded.Correct().Text)

	a, err := s.GetAnswer(ctx, loaded.Answers[1].ID)
	require.NoError(t, err)
	assert.Equal(t, q.ID, a.QuestionID)

	_, err = s.GetQuestion(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStorage_RandomQuestions(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	c1, _, _ := s.GetOrCreateCategory(ctx, "A")
	c2, _, _ := s.GetOrCreateCategory(ctx, "B")

	q1 := seedQuestion(t, s, c1.ID, "q1")
	seedQuestion(t, s, c1.ID, "q2")
	seedQuestion(t, s, c2.ID, "q3")

	got, err := s.RandomQuestions(ctx, c1.ID, []int64{q1.ID}, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "q2", got[0].Text)

	got, err = s.RandomQuestions(ctx, 0, nil, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestMemoryStorage_UniqueSessionsAndScores(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	c, _, _ := s.GetOrCreateCategory(ctx, "Islam")

	require.NoError(t, s.CreateGameSession(ctx, &models.GameSession{PIN: "123456", CategoryID: c.ID}))
	err := s.CreateGameSession(ctx, &models.GameSession{PIN: "123456", CategoryID: c.ID})
	assert.ErrorIs(t, err, ErrUniqueViolation)

	require.NoError(t, s.CreatePlayerScore(ctx, &models.PlayerScore{SessionID: 1, PlayerID: "p1", Score: 10}))
	err = s.CreatePlayerScore(ctx, &models.PlayerScore{SessionID: 1, PlayerID: "p1", Score: 10})
	assert.ErrorIs(t, err, ErrUniqueViolation)

	require.NoError(t, s.CreatePlayerScore(ctx, &models.PlayerScore{SessionID: 2, PlayerID: "p2", Score: 30}))

	top, err := s.TopScores(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 30, top[0].Score)

	all, err := s.TopScores(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMemoryStorage_PlayerAnswerUnique(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	a := &models.PlayerAnswer{QuestionID: 1, PlayerID: "p1", SessionID: 1, IsCorrect: true}
	require.NoError(t, s.CreatePlayerAnswer(ctx, a))
	assert.False(t, a.SubmittedAt.IsZero())

	err := s.CreatePlayerAnswer(ctx, &models.PlayerAnswer{QuestionID: 1, PlayerID: "p1", SessionID: 1})
	assert.ErrorIs(t, err, ErrUniqueViolation)

	assert.Len(t, s.PlayerAnswers(1), 1)
}

func TestMemoryStorage_DeleteQuestions(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	c, _, _ := s.GetOrCreateCategory(ctx, "Histoire")
	q := seedQuestion(t, s, c.ID, "q1")
	seedQuestion(t, s, c.ID, "q2")
	require.NoError(t, s.CreatePlayerAnswer(ctx, &models.PlayerAnswer{QuestionID: q.ID, PlayerID: "p1", SessionID: 1}))

	n, err := s.DeleteQuestions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.GetQuestion(ctx, q.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetAnswer(ctx, q.Answers[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, s.PlayerAnswers(1))

	// categories survive
	count, err := s.CountCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	n, err = s.DeleteQuestions(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
