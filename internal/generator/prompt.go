package generator

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Candidate is a question produced by the remote model or the fallback bank, before persistence.
type Candidate struct {
	Question  string
	Correct   string
	Incorrect []string
}

const promptTemplate = `Génère une question de quiz de niveau %d sur le thème "%s".
La question doit être concise et ne pas dépasser deux lignes.
La réponse doit être STRICTEMENT au format JSON :
{
    "question": "Votre question ici",
    "correct_answer": "La bonne réponse",
    "incorrect_answers": ["Fausse réponse 1", "Fausse réponse 2", "Fausse réponse 3"]
}
NE RÉPONDS QU'AVEC LE CODE JSON.`

func buildPrompt(category string, difficulty int) string {
	return fmt.Sprintf(promptTemplate, difficulty, category)
}

type remoteQuestion struct {
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// parseResponse extracts a Candidate from the model output.
// Errors wrap errMalformedResponse.
func parseResponse(raw string) (Candidate, error) {
	text := strings.TrimSpace(raw)
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	// models sometimes add a sentence around the object
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		text = text[start : end+1]
	}

	var rq remoteQuestion
	if err := json.Unmarshal([]byte(text), &rq); err != nil {
		return Candidate{}, fmt.Errorf("%w: %w", errMalformedResponse, err)
	}

	c := Candidate{
		Question: strings.TrimSpace(rq.Question),
		Correct:  strings.TrimSpace(rq.CorrectAnswer),
	}

	if c.Question == "" {
		return Candidate{}, fmt.Errorf("%w: missing question", errMalformedResponse)
	}
	if c.Correct == "" {
		return Candidate{}, fmt.Errorf("%w: missing correct_answer", errMalformedResponse)
	}
	if len(rq.IncorrectAnswers) != 3 {
		return Candidate{}, fmt.Errorf(
			"%w: want 3 incorrect_answers, got %d", errMalformedResponse, len(rq.IncorrectAnswers),
		)
	}

	for _, a := range rq.IncorrectAnswers {
		a = strings.TrimSpace(a)
		if a == "" {
			return Candidate{}, fmt.Errorf("%w: empty incorrect answer", errMalformedResponse)
		}
		c.Incorrect = append(c.Incorrect, a)
	}

	return c, nil
}
