package quiz

import (
	"errors"
	"sort"
	"strings"

	"github.com/dalilachaima/ProjetPA/internal/generator"
)

// UserMessage turns an error from the quiz core into a text for the player.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		keys := make([]string, 0, len(verr.Fields))
		for k := range verr.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			lines = append(lines, k+": "+verr.Fields[k])
		}

		return strings.Join(lines, "\n")
	}

	switch {
	case errors.Is(err, ErrInsufficientQuestions),
		errors.Is(err, generator.ErrDuplicate),
		errors.Is(err, generator.ErrCategoryUnresolvable),
		errors.Is(err, generator.ErrStorageIntegrity):
		return "no question available for this category"
	case errors.Is(err, ErrInvalidSubmission):
		return "submission rejected, please retry"
	case errors.Is(err, ErrNoCategories):
		return "no category available yet"
	case errors.Is(err, ErrFinalizationFailure):
		return "scores could not be saved, please retry"
	case errors.Is(err, ErrNoGame):
		return "no game configured"
	case errors.Is(err, ErrInvalidTransition):
		return "this action is not available right now"
	}

	return "something went wrong"
}
