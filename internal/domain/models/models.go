package models

import (
	"time"
)

// Records shared by the store, the question generator and the game engine.
// Ids are assigned by the store on create.

// Category groups questions by topic. Descriptor is unique.
type Category struct {
	ID         int64
	Descriptor string
}

// Question is a single quiz prompt. Text is unique per category, case-insensitively.
type Question struct {
	ID         int64
	CategoryID int64
	Text       string
	Difficulty int
	TimeLimit  int // seconds
	CreatedAt  time.Time
	Answers    []*Answer
}

// Correct returns the answer flagged as correct, or nil.
func (q *Question) Correct() *Answer {
	for _, a := range q.Answers {
		if a.IsCorrect {
			return a
		}
	}

	return nil
}

// Answer is one candidate answer of a question.
type Answer struct {
	ID         int64
	QuestionID int64
	Text       string
	IsCorrect  bool
}

// GameSession is one multiplayer match. PIN is unique across sessions.
type GameSession struct {
	ID         int64
	PIN        string
	CategoryID int64
	Difficulty int
	CreatedAt  time.Time
}

// PlayerScore is the final tally of a player. One row per (SessionID, PlayerID).
type PlayerScore struct {
	ID         int64
	SessionID  int64
	PlayerID   string
	PlayerName string
	UserID     string
	Score      int
	RecordedAt time.Time
}

// PlayerAnswer records a single answer submission.
// One row per (QuestionID, PlayerID, SessionID).
type PlayerAnswer struct {
	ID             int64
	QuestionID     int64
	PlayerID       string
	UserID         string
	SessionID      int64
	AnswerID       *int64
	IsCorrect      bool
	SubmittedAt    time.Time
	ReactionTimeMs *int
}
