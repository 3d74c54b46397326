package quiz

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalilachaima/ProjetPA/internal/auth"
	"github.com/dalilachaima/ProjetPA/internal/domain/models"
	"github.com/dalilachaima/ProjetPA/internal/generator"
	"github.com/dalilachaima/ProjetPA/internal/sessionstore"
	"github.com/dalilachaima/ProjetPA/internal/storage"
)

// seqSource creates a new numbered question on every call until limit is reached.
// A negative limit never runs out.
type seqSource struct {
	store storage.Storage
	limit int
	made  int
	calls int
}

func (s *seqSource) Generate(ctx context.Context, name string, difficulty, timeLimit int) (*models.Question, error) {
	s.calls++
	if s.limit >= 0 && s.made >= s.limit {
		return nil, fmt.Errorf("%w: exhausted", generator.ErrDuplicate)
	}
	s.made++

	c, _, err := s.store.GetOrCreateCategory(ctx, name)
	if err != nil {
		return nil, err
	}

	q := &models.Question{
		CategoryID: c.ID,
		Text:       fmt.Sprintf("%s question %d", name, s.made),
		Difficulty: difficulty,
		TimeLimit:  timeLimit,
	}
	answers := []*models.Answer{
		{Text: "right", IsCorrect: true},
		{Text: "wrong 1"},
		{Text: "wrong 2"},
		{Text: "wrong 3"},
	}

	return q, s.store.CreateQuestion(ctx, q, answers)
}

// flakyStore injects failures into score and session writes.
type flakyStore struct {
	*storage.MemoryStorage
	scoreFailures map[string]int
	pinCollisions int
}

func (f *flakyStore) CreatePlayerScore(ctx context.Context, ps *models.PlayerScore) error {
	if f.scoreFailures[ps.PlayerName] > 0 {
		f.scoreFailures[ps.PlayerName]--
		return errors.New("connection reset")
	}

	return f.MemoryStorage.CreatePlayerScore(ctx, ps)
}

func (f *flakyStore) CreateGameSession(ctx context.Context, gs *models.GameSession) error {
	if f.pinCollisions > 0 {
		f.pinCollisions--
		return storage.ErrUniqueViolation
	}

	return f.MemoryStorage.CreateGameSession(ctx, gs)
}

type fixture struct {
	engine   *Engine
	store    *flakyStore
	sessions *sessionstore.MemoryStore
	source   *seqSource
	category *models.Category
}

func newFixture(t *testing.T, limit int) *fixture {
	t.Helper()

	store := &flakyStore{MemoryStorage: storage.NewMemoryStorage(), scoreFailures: map[string]int{}}
	sessions := sessionstore.NewMemoryStore(0)
	source := &seqSource{store: store, limit: limit}

	category, _, err := store.GetOrCreateCategory(context.Background(), "Sciences")
	require.NoError(t, err)

	return &fixture{
		engine:   NewEngine(store, sessions, source, auth.ContextProvider{Fallback: "host"}),
		store:    store,
		sessions: sessions,
		source:   source,
		category: category,
	}
}

func (f *fixture) start(t *testing.T, sid string, players, questions int, names ...string) *GameState {
	t.Helper()
	ctx := context.Background()

	_, err := f.engine.Configure(ctx, sid, Settings{NumPlayers: players, NumQuestions: questions, Difficulty: 1})
	require.NoError(t, err)

	state, err := f.engine.Start(ctx, sid, StartInput{PlayerNames: names, CategoryID: f.category.ID})
	require.NoError(t, err)

	return state
}

func pickAnswer(t *testing.T, view *TurnView, correct bool) int64 {
	t.Helper()

	for _, a := range view.Answers {
		if a.IsCorrect == correct {
			return a.ID
		}
	}
	t.Fatalf("question %d has no answer with correctness %v", view.Question.ID, correct)

	return 0
}

// answerTurn answers the current question, correctly or not.
func (f *fixture) answerTurn(t *testing.T, sid string, correct bool) (*TurnResult, error) {
	t.Helper()
	ctx := context.Background()

	view, err := f.engine.Turn(ctx, sid)
	require.NoError(t, err)

	return f.engine.SubmitAnswer(ctx, sid, Submission{
		QuestionIndex: view.Index,
		AnswerID:      pickAnswer(t, view, correct),
	})
}

func TestConfigure_Validation(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		field    string
	}{
		{name: "one player", settings: Settings{NumPlayers: 1, NumQuestions: 4}, field: "num_players"},
		{name: "seven players", settings: Settings{NumPlayers: 7, NumQuestions: 4}, field: "num_players"},
		{name: "too few questions", settings: Settings{NumPlayers: 2, NumQuestions: 2}, field: "num_questions"},
		{name: "too many questions", settings: Settings{NumPlayers: 2, NumQuestions: 22}, field: "num_questions"},
		{name: "odd questions", settings: Settings{NumPlayers: 2, NumQuestions: 5}, field: "num_questions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, -1)
			ctx := context.Background()

			_, err := f.engine.Configure(ctx, "sid", tt.settings)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.field)
			assert.Len(t, verr.Fields, 1)

			state, err := f.engine.State(ctx, "sid")
			require.NoError(t, err)
			assert.Equal(t, PhaseConfiguring, state.Phase)
		})
	}
}

func TestConfigure_Bounds(t *testing.T) {
	f := newFixture(t, -1)

	for _, s := range []Settings{
		{NumPlayers: 2, NumQuestions: 4},
		{NumPlayers: 6, NumQuestions: 20},
	} {
		state, err := f.engine.Configure(context.Background(), "sid", s)
		require.NoError(t, err)
		assert.Equal(t, PhaseLobby, state.Phase)
		assert.Equal(t, 1, state.Settings.Difficulty)
		assert.Equal(t, defaultTimeLimit, state.Settings.TimeLimit)
	}
}

func TestConfigure_RejectedWhileInProgress(t *testing.T) {
	f := newFixture(t, -1)
	f.start(t, "sid", 2, 4)

	_, err := f.engine.Configure(context.Background(), "sid", Settings{NumPlayers: 2, NumQuestions: 4})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestStart_WithoutConfiguration(t *testing.T) {
	f := newFixture(t, -1)

	_, err := f.engine.Start(context.Background(), "sid", StartInput{CategoryID: f.category.ID})
	assert.ErrorIs(t, err, ErrNoGame)
}

func TestStart_NoCategories(t *testing.T) {
	store := storage.NewMemoryStorage()
	e := NewEngine(store, sessionstore.NewMemoryStore(0), &seqSource{store: store, limit: -1}, auth.ContextProvider{Fallback: "host"})
	ctx := context.Background()

	_, err := e.Configure(ctx, "sid", Settings{NumPlayers: 2, NumQuestions: 4})
	require.NoError(t, err)

	_, err = e.Start(ctx, "sid", StartInput{RandomCategory: true})
	assert.ErrorIs(t, err, ErrNoCategories)

	state, err := e.State(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, PhaseLobby, state.Phase)
}

func TestStart_UnknownCategory(t *testing.T) {
	f := newFixture(t, -1)
	ctx := context.Background()

	_, err := f.engine.Configure(ctx, "sid", Settings{NumPlayers: 2, NumQuestions: 4})
	require.NoError(t, err)

	_, err = f.engine.Start(ctx, "sid", StartInput{CategoryID: 9999})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestStart_PlayersAndSession(t *testing.T) {
	f := newFixture(t, -1)
	state := f.start(t, "sid", 3, 6, "Amina", "  ")

	assert.Equal(t, PhaseInProgress, state.Phase)
	assert.Equal(t, "host", state.HostID)
	assert.Len(t, state.QuestionIDs, 6)
	assert.Zero(t, state.CurrentIndex)

	require.Len(t, state.Players, 3)
	assert.Equal(t, "Amina", state.Players[0].Name)
	assert.Equal(t, "Player 2", state.Players[1].Name)
	assert.Equal(t, "Player 3", state.Players[2].Name)

	colors := make(map[string]struct{})
	ids := make(map[string]struct{})
	for i, p := range state.Players {
		assert.Equal(t, i, p.Index)
		assert.Zero(t, p.Score)
		assert.Contains(t, palette, p.Color)
		colors[p.Color] = struct{}{}
		ids[p.ID] = struct{}{}
	}
	assert.Len(t, colors, 3)
	assert.Len(t, ids, 3)

	gs, err := f.store.GetGameSession(context.Background(), state.SessionID)
	require.NoError(t, err)
	assert.Equal(t, state.PIN, gs.PIN)
	assert.Len(t, gs.PIN, 6)
	assert.Equal(t, f.category.ID, gs.CategoryID)
}

func TestStart_IdentityFromContext(t *testing.T) {
	f := newFixture(t, -1)
	ctx := auth.WithUser(context.Background(), "user-42")

	_, err := f.engine.Configure(ctx, "sid", Settings{NumPlayers: 2, NumQuestions: 4})
	require.NoError(t, err)

	state, err := f.engine.Start(ctx, "sid", StartInput{CategoryID: f.category.ID})
	require.NoError(t, err)
	assert.Equal(t, "user-42", state.HostID)
}

func TestStart_PINCollisionRetried(t *testing.T) {
	f := newFixture(t, -1)
	f.store.pinCollisions = 3

	state := f.start(t, "sid", 2, 4)
	assert.NotZero(t, state.SessionID)
	assert.Zero(t, f.store.pinCollisions)
}

func TestStart_PINAttemptsBounded(t *testing.T) {
	f := newFixture(t, -1)
	f.store.pinCollisions = 1000
	e := NewEngine(f.store, f.sessions, f.source, auth.ContextProvider{Fallback: "host"}, WithPINAttempts(5))
	ctx := context.Background()

	_, err := e.Configure(ctx, "sid", Settings{NumPlayers: 2, NumQuestions: 4})
	require.NoError(t, err)

	_, err = e.Start(ctx, "sid", StartInput{CategoryID: f.category.ID})
	require.Error(t, err)
	assert.Equal(t, 995, f.store.pinCollisions)
}

func TestStart_RandomCategory(t *testing.T) {
	f := newFixture(t, -1)
	ctx := context.Background()

	_, err := SeedCategories(ctx, f.store)
	require.NoError(t, err)

	_, err = f.engine.Configure(ctx, "sid", Settings{NumPlayers: 2, NumQuestions: 8})
	require.NoError(t, err)

	state, err := f.engine.Start(ctx, "sid", StartInput{RandomCategory: true})
	require.NoError(t, err)
	assert.True(t, state.Random)
	assert.Len(t, state.QuestionIDs, 8)

	for _, id := range state.QuestionIDs {
		q, err := f.store.GetQuestion(ctx, id)
		require.NoError(t, err)

		c, err := f.store.GetCategory(ctx, q.CategoryID)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(q.Text, c.Descriptor))
	}
}

func TestTurn_RoundRobinAndScoring(t *testing.T) {
	f := newFixture(t, -1)
	state := f.start(t, "sid", 3, 6)
	ctx := context.Background()

	scores := make([]int, 3)
	for i := range 6 {
		view, err := f.engine.Turn(ctx, "sid")
		require.NoError(t, err)
		assert.Equal(t, i, view.Index)
		assert.Equal(t, 6, view.Total)
		assert.Equal(t, i%3, view.Player.Index)
		assert.Equal(t, state.Players[i%3].ID, view.Player.ID)
		assert.Len(t, view.Answers, 4)

		correct := i%2 == 0
		result, err := f.engine.SubmitAnswer(ctx, "sid", Submission{
			QuestionIndex: i,
			AnswerID:      pickAnswer(t, view, correct),
		})
		require.NoError(t, err)

		if correct {
			scores[i%3] += PointsPerCorrectAnswer
			assert.Equal(t, PointsPerCorrectAnswer, result.Awarded)
		} else {
			assert.Zero(t, result.Awarded)
		}
		assert.Equal(t, correct, result.Correct)
		assert.Equal(t, view.Question.Correct().ID, result.CorrectAnswerID)
		assert.Equal(t, i+1, result.NextIndex)
		assert.Equal(t, scores[i%3], result.Player.Score)
		assert.Equal(t, i == 5, result.Finished)
	}
}

func TestScenario_TwoPlayersAllCorrect(t *testing.T) {
	f := newFixture(t, -1)
	state := f.start(t, "sid", 2, 4, "Amina", "Yanis")
	ctx := context.Background()

	var last *TurnResult
	for range 4 {
		result, err := f.answerTurn(t, "sid", true)
		require.NoError(t, err)
		last = result
	}

	require.True(t, last.Finished)
	require.NotNil(t, last.Results)

	results := last.Results
	assert.Equal(t, PhaseFinished, results.Phase)
	require.Len(t, results.Ranking, 2)
	assert.Equal(t, 20, results.Ranking[0].Player.Score)
	assert.Equal(t, 20, results.Ranking[1].Player.Score)
	assert.Equal(t, "Amina", results.Winner.Name)
	assert.Equal(t, 0, results.Winner.Index)
	assert.Equal(t, 1, results.Ranking[0].Rank)
	assert.Equal(t, 2, results.Ranking[1].Rank)

	scores, err := f.store.ListPlayerScores(ctx, state.SessionID)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	for _, s := range scores {
		assert.Equal(t, 20, s.Score)
		assert.Equal(t, "host", s.UserID)
	}

	answers := f.store.PlayerAnswers(state.SessionID)
	assert.Len(t, answers, 4)

	current, err := f.engine.State(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, PhaseConfiguring, current.Phase, "state is discarded after finalization")
}

func TestResults_RankingByScore(t *testing.T) {
	f := newFixture(t, -1)
	f.start(t, "sid", 2, 4, "Amina", "Yanis")

	// Amina answers 0 and 2, Yanis answers 1 and 3
	var last *TurnResult
	for i := range 4 {
		result, err := f.answerTurn(t, "sid", i%2 == 1)
		require.NoError(t, err)
		last = result
	}

	require.NotNil(t, last.Results)
	assert.Equal(t, "Yanis", last.Results.Winner.Name)
	assert.Equal(t, 20, last.Results.Winner.Score)
	assert.Equal(t, 2, last.Results.Winner.CorrectCount)
	assert.Equal(t, 0, last.Results.Ranking[1].Player.Score)
}

func TestSubmitAnswer_Rejections(t *testing.T) {
	f := newFixture(t, -1)
	state := f.start(t, "sid", 2, 4)
	ctx := context.Background()

	view, err := f.engine.Turn(ctx, "sid")
	require.NoError(t, err)

	next, err := f.store.GetQuestion(ctx, state.QuestionIDs[1])
	require.NoError(t, err)

	tests := []struct {
		name string
		sub  Submission
	}{
		{name: "future index", sub: Submission{QuestionIndex: 1, AnswerID: next.Answers[0].ID}},
		{name: "unknown answer", sub: Submission{QuestionIndex: 0, AnswerID: 999999}},
		{name: "answer of another question", sub: Submission{QuestionIndex: 0, AnswerID: next.Answers[0].ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.SubmitAnswer(ctx, "sid", tt.sub)
			assert.ErrorIs(t, err, ErrInvalidSubmission)

			current, err := f.engine.State(ctx, "sid")
			require.NoError(t, err)
			assert.Zero(t, current.CurrentIndex)
		})
	}

	correct := pickAnswer(t, view, true)
	_, err = f.engine.SubmitAnswer(ctx, "sid", Submission{QuestionIndex: 0, AnswerID: correct})
	require.NoError(t, err)

	// replaying the same submission must not score twice
	_, err = f.engine.SubmitAnswer(ctx, "sid", Submission{QuestionIndex: 0, AnswerID: correct})
	assert.ErrorIs(t, err, ErrInvalidSubmission)

	current, err := f.engine.State(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, 1, current.CurrentIndex)
	assert.Equal(t, 10, current.Players[0].Score)
	assert.Zero(t, current.Players[1].Score)
}

func TestSubmitAnswer_ConcurrentSameIndex(t *testing.T) {
	f := newFixture(t, -1)
	state := f.start(t, "sid", 2, 4, "Amina", "Yanis")
	ctx := context.Background()

	view, err := f.engine.Turn(ctx, "sid")
	require.NoError(t, err)
	answerID := pickAnswer(t, view, true)

	var (
		wg       sync.WaitGroup
		accepted atomic.Int32
		stale    atomic.Int32
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := f.engine.SubmitAnswer(ctx, "sid", Submission{QuestionIndex: 0, AnswerID: answerID})
			switch {
			case err == nil:
				accepted.Add(1)
			case errors.Is(err, ErrInvalidSubmission):
				stale.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, accepted.Load())
	assert.EqualValues(t, 19, stale.Load())

	current, err := f.engine.State(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, 1, current.CurrentIndex)
	assert.Equal(t, PointsPerCorrectAnswer, current.Players[0].Score)
	assert.Zero(t, current.Players[1].Score)
	assert.Len(t, f.store.PlayerAnswers(state.SessionID), 1)
}

func TestSubmitAnswer_NoGame(t *testing.T) {
	f := newFixture(t, -1)

	_, err := f.engine.SubmitAnswer(context.Background(), "missing", Submission{})
	assert.ErrorIs(t, err, ErrNoGame)
}

func TestSubmitAnswer_RecordsReactionTime(t *testing.T) {
	f := newFixture(t, -1)
	state := f.start(t, "sid", 2, 4)
	ctx := context.Background()

	view, err := f.engine.Turn(ctx, "sid")
	require.NoError(t, err)

	reaction := 1234
	_, err = f.engine.SubmitAnswer(ctx, "sid", Submission{
		QuestionIndex:  0,
		AnswerID:       pickAnswer(t, view, false),
		ReactionTimeMs: &reaction,
	})
	require.NoError(t, err)

	answers := f.store.PlayerAnswers(state.SessionID)
	require.Len(t, answers, 1)
	assert.Equal(t, state.Players[0].ID, answers[0].PlayerID)
	assert.False(t, answers[0].IsCorrect)
	require.NotNil(t, answers[0].ReactionTimeMs)
	assert.Equal(t, 1234, *answers[0].ReactionTimeMs)
}

func TestScenario_BackfillFromStore(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	for i := range 2 {
		q := &models.Question{CategoryID: f.category.ID, Text: fmt.Sprintf("stored %d", i), Difficulty: 1, TimeLimit: 30}
		require.NoError(t, f.store.CreateQuestion(ctx, q, []*models.Answer{
			{Text: "yes", IsCorrect: true}, {Text: "no"}, {Text: "maybe"}, {Text: "never"},
		}))
	}

	_, err := f.engine.Configure(ctx, "sid", Settings{NumPlayers: 2, NumQuestions: 10})
	require.NoError(t, err)

	state, err := f.engine.Start(ctx, "sid", StartInput{CategoryID: f.category.ID})
	require.NoError(t, err)

	assert.Len(t, state.QuestionIDs, 5)
	assert.Equal(t, 30, f.source.calls, "attempt budget is three times the target")

	seen := make(map[int64]struct{})
	for _, id := range state.QuestionIDs {
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 5)
}

func TestStart_InsufficientQuestions(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	_, err := f.engine.Configure(ctx, "sid", Settings{NumPlayers: 2, NumQuestions: 4})
	require.NoError(t, err)

	_, err = f.engine.Start(ctx, "sid", StartInput{CategoryID: f.category.ID})
	assert.ErrorIs(t, err, ErrInsufficientQuestions)
	assert.Equal(t, "no question available for this category", UserMessage(err))
}

func TestFinalize_RetryAfterPartialFailure(t *testing.T) {
	f := newFixture(t, -1)
	state := f.start(t, "sid", 2, 4, "Amina", "Yanis")
	ctx := context.Background()

	f.store.scoreFailures["Yanis"] = 1

	for i := range 3 {
		_, err := f.answerTurn(t, "sid", i == 0)
		require.NoError(t, err)
	}

	last, err := f.answerTurn(t, "sid", true)
	require.ErrorIs(t, err, ErrFinalizationFailure)
	require.NotNil(t, last)
	assert.True(t, last.Finished)
	assert.Nil(t, last.Results)

	scores, err := f.store.ListPlayerScores(ctx, state.SessionID)
	require.NoError(t, err)
	assert.Len(t, scores, 1, "Amina's score was saved before the failure")

	current, err := f.engine.State(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, PhaseInProgress, current.Phase, "state is kept until scores are saved")

	_, err = f.engine.SubmitAnswer(ctx, "sid", Submission{QuestionIndex: 3})
	assert.ErrorIs(t, err, ErrInvalidSubmission)

	results, err := f.engine.Finalize(ctx, "sid")
	require.NoError(t, err)
	// 10 to 10, seat order breaks the tie
	assert.Equal(t, "Amina", results.Winner.Name)

	scores, err = f.store.ListPlayerScores(ctx, state.SessionID)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, 10, scores[0].Score)
	assert.Equal(t, 10, scores[1].Score)

	_, err = f.engine.Finalize(ctx, "sid")
	assert.ErrorIs(t, err, ErrNoGame)

	scores, err = f.store.ListPlayerScores(ctx, state.SessionID)
	require.NoError(t, err)
	assert.Len(t, scores, 2)
}

func TestFinalize_IncompleteGame(t *testing.T) {
	f := newFixture(t, -1)
	f.start(t, "sid", 2, 4)

	_, err := f.engine.Finalize(context.Background(), "sid")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAbandon(t *testing.T) {
	f := newFixture(t, -1)
	f.start(t, "sid", 2, 4)
	ctx := context.Background()

	require.NoError(t, f.engine.Abandon(ctx, "sid"))

	_, err := f.engine.Turn(ctx, "sid")
	assert.ErrorIs(t, err, ErrNoGame)

	_, err = f.engine.Configure(ctx, "sid", Settings{NumPlayers: 2, NumQuestions: 4})
	assert.NoError(t, err)
}

func TestSessionsAreIndependent(t *testing.T) {
	f := newFixture(t, -1)
	a := f.start(t, "a", 2, 4)
	b := f.start(t, "b", 2, 4)

	assert.NotEqual(t, a.SessionID, b.SessionID)
	assert.NotEqual(t, a.PIN, b.PIN)

	_, err := f.answerTurn(t, "a", true)
	require.NoError(t, err)

	stateB, err := f.engine.State(context.Background(), "b")
	require.NoError(t, err)
	assert.Zero(t, stateB.CurrentIndex)
}

func TestExportCSV(t *testing.T) {
	results := &Results{
		Ranking: []RankedPlayer{
			{Rank: 1, Player: Player{Name: "Amina", Color: "#E74C3C", Score: 30, CorrectCount: 3}},
			{Rank: 2, Player: Player{Name: "Élodie, la \"pro\"", Color: "#3498DB", Score: 10, CorrectCount: 1}},
		},
	}

	data, err := ExportCSV(results)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"Rank", "Name", "Color", "Score", "CorrectCount"}, records[0])
	assert.Equal(t, []string{"1", "Amina", "#E74C3C", "30", "3"}, records[1])
	assert.Equal(t, "Élodie, la \"pro\"", records[2][1])
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: nil, want: ""},
		{err: fmt.Errorf("wrap: %w", ErrInvalidSubmission), want: "submission rejected, please retry"},
		{err: generator.ErrDuplicate, want: "no question available for this category"},
		{err: &ValidationError{Fields: map[string]string{
			"num_questions": "must be even",
			"num_players":   "must be between 2 and 6",
		}}, want: "num_players: must be between 2 and 6\nnum_questions: must be even"},
		{err: ErrFinalizationFailure, want: "scores could not be saved, please retry"},
		{err: errors.New("boom"), want: "something went wrong"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, UserMessage(tt.err))
	}
}
