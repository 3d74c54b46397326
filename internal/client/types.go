package client

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Client generates raw text from a prompt.
type Client interface {
	// Generate sends prompt to the model and returns the text of the first candidate.
	Generate(ctx context.Context, prompt string) (string, error)
}

var (
	// ErrOverloaded signals a transient overload or rate limit; the call may be retried.
	ErrOverloaded = errors.New("model overloaded")

	// ErrPermissionDenied signals a rejected or blocked API key.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrEmptyResponse is returned when the response carries no candidate text.
	ErrEmptyResponse = errors.New("empty response")
)

// APIError is any other error reported by the API.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini api error %d %s: %s", e.StatusCode, e.Status, e.Message)
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-flash"

	// Upper bound for a single call when the caller's context has no deadline.
	timeoutGenerate = 60 * time.Second
)
