// Package quiz implements the local multiplayer game engine, solo play and result export.
package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dalilachaima/ProjetPA/internal/auth"
	"github.com/dalilachaima/ProjetPA/internal/domain/models"
	"github.com/dalilachaima/ProjetPA/internal/sessionstore"
	"github.com/dalilachaima/ProjetPA/internal/storage"
)

// stateKey is the session store key of the multiplayer game.
const stateKey = "multiplayer"

const (
	defaultTimeLimit   = 30
	defaultPINAttempts = 50
	// attempt budget of question pre-generation, per requested question
	generationBudgetFactor = 3
)

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// Engine runs turn-based multiplayer games. Game state lives in the session store,
// keyed by the caller's session id; durable records go to the record store.
type Engine struct {
	store    storage.Storage
	sessions sessionstore.Store
	source   QuestionSource
	identity auth.Provider
	log      *slog.Logger

	pinAttempts int

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type EngineOption func(*Engine)

func WithEngineLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.log = l }
}

// WithPINAttempts bounds the number of PINs tried when creating a game session.
func WithPINAttempts(n int) EngineOption {
	return func(e *Engine) { e.pinAttempts = n }
}

// NewEngine creates a new Engine.
func NewEngine(
	store storage.Storage,
	sessions sessionstore.Store,
	source QuestionSource,
	identity auth.Provider,
	opts ...EngineOption,
) *Engine {
	e := &Engine{
		store:       store,
		sessions:    sessions,
		source:      source,
		identity:    identity,
		log:         slog.Default(),
		pinAttempts: defaultPINAttempts,
		locks:       make(map[string]*sessionLock),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.log = e.log.With("component", "multiplayer")

	return e
}

// lock serializes calls for one session id and returns the unlock function.
func (e *Engine) lock(sid string) func() {
	e.mu.Lock()
	l, ok := e.locks[sid]
	if !ok {
		l = &sessionLock{}
		e.locks[sid] = l
	}
	l.refs++
	e.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		e.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(e.locks, sid)
		}
		e.mu.Unlock()
	}
}

func (e *Engine) load(ctx context.Context, sid string) (*GameState, error) {
	data, err := e.sessions.Get(ctx, sid, stateKey)
	if err != nil {
		if errors.Is(err, sessionstore.ErrNotFound) {
			return nil, ErrNoGame
		}
		return nil, fmt.Errorf("load game state: %w", err)
	}

	state := &GameState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("decode game state: %w", err)
	}

	return state, nil
}

func (e *Engine) save(ctx context.Context, sid string, state *GameState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode game state: %w", err)
	}

	if err := e.sessions.Set(ctx, sid, stateKey, data); err != nil {
		return fmt.Errorf("save game state: %w", err)
	}

	return nil
}

// State returns the game of the session. Without a game the phase is CONFIGURING.
func (e *Engine) State(ctx context.Context, sid string) (*GameState, error) {
	state, err := e.load(ctx, sid)
	if errors.Is(err, ErrNoGame) {
		return &GameState{Phase: PhaseConfiguring}, nil
	}

	return state, err
}

// Configure validates the settings and moves the session to the lobby.
// Invalid settings return a *ValidationError and leave the session unchanged.
func (e *Engine) Configure(ctx context.Context, sid string, s Settings) (*GameState, error) {
	unlock := e.lock(sid)
	defer unlock()

	current, err := e.load(ctx, sid)
	if err != nil && !errors.Is(err, ErrNoGame) {
		return nil, err
	}
	if current != nil && current.Phase != PhaseLobby {
		return nil, fmt.Errorf("%w: cannot configure a game in phase %s", ErrInvalidTransition, current.Phase)
	}

	if err := validateSettings(s); err != nil {
		return nil, err
	}

	s.Difficulty = max(s.Difficulty, 1)
	if s.TimeLimit <= 0 {
		s.TimeLimit = defaultTimeLimit
	}

	state := &GameState{Phase: PhaseLobby, Settings: s}
	if err := e.save(ctx, sid, state); err != nil {
		return nil, err
	}

	e.log.Info("game configured", "sid", sid, "players", s.NumPlayers, "questions", s.NumQuestions)

	return state, nil
}

// Start seats the players, pre-generates the questions and creates the game session.
// The game may hold fewer questions than configured when generation and the store
// run short; it fails with ErrInsufficientQuestions only when none are available.
func (e *Engine) Start(ctx context.Context, sid string, in StartInput) (*GameState, error) {
	unlock := e.lock(sid)
	defer unlock()

	state, err := e.load(ctx, sid)
	if err != nil {
		return nil, err
	}
	if state.Phase != PhaseLobby {
		return nil, fmt.Errorf("%w: cannot start a game in phase %s", ErrInvalidTransition, state.Phase)
	}

	categories, err := e.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if len(categories) == 0 {
		return nil, ErrNoCategories
	}

	var fixed *models.Category
	if !in.RandomCategory {
		fixed, err = e.store.GetCategory(ctx, in.CategoryID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, &ValidationError{Fields: map[string]string{"category": "unknown category"}}
			}
			return nil, fmt.Errorf("get category: %w", err)
		}
	}

	hostID, err := e.identity.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve current user: %w", err)
	}

	colors := shuffledPalette()
	players := make([]Player, state.Settings.NumPlayers)
	for i := range players {
		players[i] = Player{
			ID:    uuid.NewString(),
			Index: i,
			Name:  playerName(in.PlayerNames, i),
			Color: colors[i%len(colors)],
		}
	}

	questions, err := e.pregenerate(ctx, state.Settings, fixed, categories)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrInsufficientQuestions
	}

	sessionCategory := questions[0].CategoryID
	if fixed != nil {
		sessionCategory = fixed.ID
	}

	gs, err := e.createGameSession(ctx, sessionCategory, state.Settings.Difficulty)
	if err != nil {
		return nil, err
	}

	state.Phase = PhaseInProgress
	state.HostID = hostID
	state.SessionID = gs.ID
	state.PIN = gs.PIN
	state.Random = in.RandomCategory
	state.CategoryID = sessionCategory
	state.Players = players
	state.CurrentIndex = 0
	state.QuestionIDs = make([]int64, len(questions))
	for i, q := range questions {
		state.QuestionIDs[i] = q.ID
	}

	if err := e.save(ctx, sid, state); err != nil {
		return nil, err
	}

	e.log.Info("game started",
		"sid", sid,
		"session_id", gs.ID,
		"pin", gs.PIN,
		"questions", len(questions),
		"requested", state.Settings.NumQuestions,
	)

	return state, nil
}

// pregenerate collects distinct questions from the source, then tops up from the store.
func (e *Engine) pregenerate(
	ctx context.Context,
	s Settings,
	fixed *models.Category,
	categories []*models.Category,
) ([]*models.Question, error) {
	target := s.NumQuestions
	budget := generationBudgetFactor * target

	seen := make(map[int64]struct{}, target)
	questions := make([]*models.Question, 0, target)

	for attempt := 0; attempt < budget && len(questions) < target; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		category := fixed
		if category == nil {
			category = categories[rand.IntN(len(categories))]
		}

		q, err := e.source.Generate(ctx, category.Descriptor, s.Difficulty, s.TimeLimit)
		if err != nil {
			e.log.Debug("question generation attempt failed",
				"attempt", attempt+1, "category", category.Descriptor, "error", err)
			continue
		}

		if _, ok := seen[q.ID]; ok {
			continue
		}
		seen[q.ID] = struct{}{}
		questions = append(questions, q)
	}

	if len(questions) == target {
		return questions, nil
	}

	var categoryID int64
	if fixed != nil {
		categoryID = fixed.ID
	}

	exclude := make([]int64, 0, len(questions))
	for _, q := range questions {
		exclude = append(exclude, q.ID)
	}

	backfill, err := e.store.RandomQuestions(ctx, categoryID, exclude, target-len(questions))
	if err != nil {
		e.log.Warn("backfill from stored questions failed", "error", err)
		return questions, nil
	}

	e.log.Info("questions backfilled from store", "generated", len(questions), "backfilled", len(backfill))

	return append(questions, backfill...), nil
}

// createGameSession retries random six digit PINs until one is free.
func (e *Engine) createGameSession(ctx context.Context, categoryID int64, difficulty int) (*models.GameSession, error) {
	for range max(e.pinAttempts, 1) {
		gs := &models.GameSession{
			PIN:        fmt.Sprintf("%06d", 100000+rand.IntN(900000)),
			CategoryID: categoryID,
			Difficulty: difficulty,
		}

		err := e.store.CreateGameSession(ctx, gs)
		if err == nil {
			return gs, nil
		}
		if !errors.Is(err, storage.ErrUniqueViolation) {
			return nil, fmt.Errorf("create game session: %w", err)
		}
	}

	return nil, fmt.Errorf("create game session: no free pin after %d attempts", e.pinAttempts)
}

// Turn returns the current question and the player who must answer it.
func (e *Engine) Turn(ctx context.Context, sid string) (*TurnView, error) {
	state, err := e.load(ctx, sid)
	if err != nil {
		return nil, err
	}
	if state.Phase != PhaseInProgress || state.Done() {
		return nil, fmt.Errorf("%w: no question to answer in phase %s", ErrInvalidTransition, state.Phase)
	}

	q, err := e.store.GetQuestion(ctx, state.QuestionIDs[state.CurrentIndex])
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}

	answers := append([]*models.Answer(nil), q.Answers...)
	rand.Shuffle(len(answers), func(i, j int) { answers[i], answers[j] = answers[j], answers[i] })

	return &TurnView{
		Index:    state.CurrentIndex,
		Total:    len(state.QuestionIDs),
		Player:   *state.ActivePlayer(state.CurrentIndex),
		Question: q,
		Answers:  answers,
	}, nil
}

// SubmitAnswer records the active player's answer to the current question,
// awards the points and advances to the next question. The submission that
// answers the last question also finalizes the game; if finalization fails the
// turn result is returned with the error and Finalize can be retried.
func (e *Engine) SubmitAnswer(ctx context.Context, sid string, sub Submission) (*TurnResult, error) {
	unlock := e.lock(sid)
	defer unlock()

	state, err := e.load(ctx, sid)
	if err != nil {
		return nil, err
	}
	if state.Phase != PhaseInProgress {
		return nil, fmt.Errorf("%w: game is in phase %s", ErrInvalidSubmission, state.Phase)
	}
	if state.Done() || sub.QuestionIndex != state.CurrentIndex {
		return nil, fmt.Errorf("%w: question %d is not the current question %d",
			ErrInvalidSubmission, sub.QuestionIndex, state.CurrentIndex)
	}

	questionID := state.QuestionIDs[state.CurrentIndex]

	answer, err := e.store.GetAnswer(ctx, sub.AnswerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown answer %d", ErrInvalidSubmission, sub.AnswerID)
		}
		return nil, fmt.Errorf("get answer: %w", err)
	}
	if answer.QuestionID != questionID {
		return nil, fmt.Errorf("%w: answer %d does not belong to question %d",
			ErrInvalidSubmission, answer.ID, questionID)
	}

	if _, err := e.store.GetGameSession(ctx, state.SessionID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown game session %d", ErrInvalidSubmission, state.SessionID)
		}
		return nil, fmt.Errorf("get game session: %w", err)
	}

	question, err := e.store.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}

	player := state.ActivePlayer(state.CurrentIndex)

	answerID := answer.ID
	record := &models.PlayerAnswer{
		QuestionID:     questionID,
		PlayerID:       player.ID,
		UserID:         state.HostID,
		SessionID:      state.SessionID,
		AnswerID:       &answerID,
		IsCorrect:      answer.IsCorrect,
		ReactionTimeMs: sub.ReactionTimeMs,
	}
	if err := e.store.CreatePlayerAnswer(ctx, record); err != nil {
		if !errors.Is(err, storage.ErrUniqueViolation) {
			return nil, fmt.Errorf("record answer: %w", err)
		}
		// recorded by an earlier call whose state update was lost
		e.log.Warn("answer already recorded", "sid", sid, "question_id", questionID, "player", player.ID)
	}

	result := &TurnResult{
		QuestionIndex: state.CurrentIndex,
		Correct:       answer.IsCorrect,
	}
	if correct := question.Correct(); correct != nil {
		result.CorrectAnswerID = correct.ID
	}

	if answer.IsCorrect {
		player.Score += PointsPerCorrectAnswer
		player.CorrectCount++
		result.Awarded = PointsPerCorrectAnswer
	}

	state.CurrentIndex++
	result.Player = *player
	result.NextIndex = state.CurrentIndex
	result.Finished = state.Done()

	if err := e.save(ctx, sid, state); err != nil {
		return nil, err
	}

	e.log.Debug("answer submitted",
		"sid", sid,
		"question_index", result.QuestionIndex,
		"player", player.Name,
		"correct", result.Correct,
	)

	if !result.Finished {
		return result, nil
	}

	results, err := e.finalize(ctx, sid, state)
	if err != nil {
		return result, err
	}
	result.Results = results

	return result, nil
}

// Finalize saves the final scores of a game whose questions are all answered and
// discards its state. It is safe to call again after a failure.
func (e *Engine) Finalize(ctx context.Context, sid string) (*Results, error) {
	unlock := e.lock(sid)
	defer unlock()

	state, err := e.load(ctx, sid)
	if err != nil {
		return nil, err
	}
	if state.Phase != PhaseInProgress || !state.Done() {
		return nil, fmt.Errorf("%w: game is not complete", ErrInvalidTransition)
	}

	return e.finalize(ctx, sid, state)
}

func (e *Engine) finalize(ctx context.Context, sid string, state *GameState) (*Results, error) {
	for _, p := range state.Players {
		score := &models.PlayerScore{
			SessionID:  state.SessionID,
			PlayerID:   p.ID,
			PlayerName: p.Name,
			UserID:     state.HostID,
			Score:      p.Score,
		}

		err := e.store.CreatePlayerScore(ctx, score)
		if err != nil && !errors.Is(err, storage.ErrUniqueViolation) {
			e.log.Error("failed to save score", "sid", sid, "player", p.Name, "error", err)
			return nil, fmt.Errorf("%w: score of %s: %w", ErrFinalizationFailure, p.Name, err)
		}
	}

	if err := e.sessions.Delete(ctx, sid, stateKey); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFinalizationFailure, err)
	}

	results := rank(state)

	e.log.Info("game finished", "sid", sid, "session_id", state.SessionID, "winner", results.Winner.Name)

	return results, nil
}

// rank orders players by score, highest first; ties keep seat order.
func rank(state *GameState) *Results {
	players := append([]Player(nil), state.Players...)
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Score > players[j].Score
	})

	results := &Results{
		SessionID: state.SessionID,
		PIN:       state.PIN,
		Phase:     PhaseFinished,
		Ranking:   make([]RankedPlayer, len(players)),
	}
	for i, p := range players {
		results.Ranking[i] = RankedPlayer{Rank: i + 1, Player: p}
	}
	if len(players) > 0 {
		results.Winner = players[0]
	}

	return results
}

// Abandon discards the game of the session, whatever its phase.
func (e *Engine) Abandon(ctx context.Context, sid string) error {
	unlock := e.lock(sid)
	defer unlock()

	return e.sessions.Delete(ctx, sid, stateKey)
}
