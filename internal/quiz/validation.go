package quiz

import (
	"fmt"
	"strings"
)

// validateSettings checks the numeric bounds of a game configuration.
func validateSettings(s Settings) error {
	fields := make(map[string]string)

	if s.NumPlayers < MinPlayers || s.NumPlayers > MaxPlayers {
		fields["num_players"] = fmt.Sprintf("must be between %d and %d", MinPlayers, MaxPlayers)
	}

	switch {
	case s.NumQuestions < MinQuestions || s.NumQuestions > MaxQuestions:
		fields["num_questions"] = fmt.Sprintf("must be between %d and %d", MinQuestions, MaxQuestions)
	case s.NumQuestions%2 != 0:
		fields["num_questions"] = "must be even"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	return nil
}

// playerName returns the display name for seat i, defaulting blanks to "Player N".
func playerName(names []string, i int) string {
	if i < len(names) {
		if name := strings.TrimSpace(names[i]); name != "" {
			return name
		}
	}

	return fmt.Sprintf("Player %d", i+1)
}
