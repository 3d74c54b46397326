package quiz

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dalilachaima/ProjetPA/internal/domain/models"
)

// Phase is the state of a multiplayer game.
type Phase string

const (
	PhaseConfiguring Phase = "CONFIGURING"
	PhaseLobby       Phase = "LOBBY"
	PhaseInProgress  Phase = "IN_PROGRESS"
	PhaseFinished    Phase = "FINISHED"
)

// Limits of a multiplayer game.
const (
	MinPlayers   = 2
	MaxPlayers   = 6
	MinQuestions = 4
	MaxQuestions = 20

	PointsPerCorrectAnswer = 10
)

// Errors of the session engine.
var (
	ErrInvalidConfiguration  = errors.New("invalid configuration")
	ErrInsufficientQuestions = errors.New("insufficient questions")
	ErrInvalidSubmission     = errors.New("invalid submission")
	ErrFinalizationFailure   = errors.New("finalization failure")
	ErrNoCategories          = errors.New("no categories")
	ErrInvalidTransition     = errors.New("invalid transition")
	ErrNoGame                = errors.New("no game in session")
)

// ValidationError carries a message per invalid field. It matches ErrInvalidConfiguration.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}

	return fmt.Sprintf("%s: %s", ErrInvalidConfiguration, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// QuestionSource produces persisted questions. *generator.Generator implements it.
type QuestionSource interface {
	Generate(ctx context.Context, categoryName string, difficulty int, timeLimit int) (*models.Question, error)
}

// Settings is what the host chooses while configuring a game.
type Settings struct {
	NumPlayers   int `json:"num_players"`
	NumQuestions int `json:"num_questions"`
	Difficulty   int `json:"difficulty"`
	TimeLimit    int `json:"time_limit"`
}

// StartInput is what the host supplies to leave the lobby.
// CategoryID is ignored when RandomCategory is set.
type StartInput struct {
	PlayerNames    []string
	CategoryID     int64
	RandomCategory bool
}

// Player is one seat of a local multiplayer game.
type Player struct {
	ID           string `json:"id"`
	Index        int    `json:"index"`
	Name         string `json:"name"`
	Color        string `json:"color"`
	Score        int    `json:"score"`
	CorrectCount int    `json:"correct_count"`
}

// GameState is the transient state of a game, kept in the session store between calls.
type GameState struct {
	Phase        Phase    `json:"phase"`
	Settings     Settings `json:"settings"`
	HostID       string   `json:"host_id,omitempty"`
	SessionID    int64    `json:"session_id,omitempty"`
	PIN          string   `json:"pin,omitempty"`
	CategoryID   int64    `json:"category_id,omitempty"`
	Random       bool     `json:"random,omitempty"`
	Players      []Player `json:"players,omitempty"`
	QuestionIDs  []int64  `json:"question_ids,omitempty"`
	CurrentIndex int      `json:"current_index"`
}

// ActivePlayer returns the player whose turn it is for question index i.
func (s *GameState) ActivePlayer(i int) *Player {
	return &s.Players[i%len(s.Players)]
}

// Done reports whether every question has been answered.
func (s *GameState) Done() bool {
	return s.CurrentIndex >= len(s.QuestionIDs)
}

// Submission is an answer to the current question.
type Submission struct {
	QuestionIndex  int
	AnswerID       int64
	ReactionTimeMs *int
}

// TurnView is the current question as shown to the active player.
type TurnView struct {
	Index    int
	Total    int
	Player   Player
	Question *models.Question
	// Answers in presentation order.
	Answers []*models.Answer
}

// TurnResult is the outcome of an accepted submission.
type TurnResult struct {
	QuestionIndex   int
	Player          Player
	Correct         bool
	CorrectAnswerID int64
	Awarded         int
	NextIndex       int
	Finished        bool
	// Results is set when the submission finished the game and the scores were saved.
	Results *Results
}

// RankedPlayer is a line of the final ranking; Rank starts at 1.
type RankedPlayer struct {
	Rank   int
	Player Player
}

// Results is the outcome of a finished game.
type Results struct {
	SessionID int64
	PIN       string
	Phase     Phase
	Ranking   []RankedPlayer
	Winner    Player
}
