// Package generator produces validated, non-duplicate quiz questions from a remote
// model with a local fallback bank, and persists them.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dalilachaima/ProjetPA/internal/domain/models"
	"github.com/dalilachaima/ProjetPA/internal/storage"
)

var (
	// ErrCategoryUnresolvable is returned when the category name is empty or rejected by the store.
	ErrCategoryUnresolvable = errors.New("category unresolvable")

	// ErrDuplicate is returned when the category already has a question with the same text.
	ErrDuplicate = errors.New("duplicate question")

	// ErrStorageIntegrity is returned when the question and its answers could not be persisted.
	ErrStorageIntegrity = errors.New("storage integrity")

	errRemoteUnavailable = errors.New("remote generation unavailable")
	errMalformedResponse = errors.New("malformed remote response")
)

const (
	DefaultTimeLimit      = 30
	DefaultRequestTimeout = 60 * time.Second
)

// Remote generates raw text from a prompt. *client.HTTPClient implements it.
type Remote interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Generator produces and persists quiz questions. It is safe for concurrent use.
type Generator struct {
	store  storage.Storage
	remote Remote
	bank   *Bank
	log    *slog.Logger

	retry          RetryPolicy
	sleep          SleepFunc
	requestTimeout time.Duration

	mu            sync.RWMutex
	remoteEnabled bool
}

type Option func(*Generator)

func WithRetryPolicy(p RetryPolicy) Option {
	return func(g *Generator) { g.retry = p }
}

// WithSleep replaces the backoff wait, e.g. with a recorder in tests.
func WithSleep(sleep SleepFunc) Option {
	return func(g *Generator) { g.sleep = sleep }
}

func WithBank(b *Bank) Option {
	return func(g *Generator) { g.bank = b }
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithRequestTimeout bounds the whole remote phase, retries and backoff included.
func WithRequestTimeout(d time.Duration) Option {
	return func(g *Generator) { g.requestTimeout = d }
}

// New creates a Generator. A nil remote makes every call use the fallback bank.
func New(store storage.Storage, remote Remote, opts ...Option) *Generator {
	g := &Generator{
		store:          store,
		remote:         remote,
		bank:           DefaultBank(),
		log:            slog.Default(),
		retry:          DefaultRetryPolicy,
		sleep:          sleepContext,
		requestTimeout: DefaultRequestTimeout,
		remoteEnabled:  remote != nil,
	}

	for _, opt := range opts {
		opt(g)
	}

	g.log = g.log.With("component", "generator")

	return g
}

// RemoteEnabled reports whether the remote model is still used.
func (g *Generator) RemoteEnabled() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.remoteEnabled
}

func (g *Generator) disableRemote() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.remoteEnabled = false
}

// Generate produces a question for the category and difficulty and persists it
// with four answers, the correct one first.
//
// The category is created if it does not exist. Remote failures and malformed
// model output fall back to the local bank and are never returned. The returned
// error wraps ErrCategoryUnresolvable, ErrDuplicate or ErrStorageIntegrity.
func (g *Generator) Generate(
	ctx context.Context,
	categoryName string,
	difficulty int,
	timeLimit int,
) (*models.Question, error) {
	categoryName = strings.TrimSpace(categoryName)
	if categoryName == "" {
		return nil, fmt.Errorf("%w: empty name", ErrCategoryUnresolvable)
	}

	category, created, err := g.store.GetOrCreateCategory(ctx, categoryName)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrCategoryUnresolvable, categoryName, err)
	}
	if created {
		g.log.Info("category created", "category", category.Descriptor)
	}

	difficulty = max(difficulty, 1)
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}

	c, source := g.candidate(ctx, category.Descriptor, difficulty)

	log := g.log.With("category", category.Descriptor, "difficulty", difficulty, "source", source)

	exists, err := g.store.QuestionExists(ctx, category.ID, c.Question)
	if err != nil {
		// the unique index still rejects a duplicate on insert
		log.Warn("duplicate check failed", "error", err)
	}
	if exists {
		log.Info("question already exists, discarded", "question", c.Question)
		return nil, fmt.Errorf("%w: %q", ErrDuplicate, c.Question)
	}

	q := &models.Question{
		CategoryID: category.ID,
		Text:       c.Question,
		Difficulty: difficulty,
		TimeLimit:  timeLimit,
	}

	answers := make([]*models.Answer, 0, 1+len(c.Incorrect))
	answers = append(answers, &models.Answer{Text: c.Correct, IsCorrect: true})
	for _, text := range c.Incorrect {
		answers = append(answers, &models.Answer{Text: text})
	}

	if err := g.store.CreateQuestion(ctx, q, answers); err != nil {
		if errors.Is(err, storage.ErrUniqueViolation) {
			log.Info("question already exists, discarded", "question", c.Question)
			return nil, fmt.Errorf("%w: %q", ErrDuplicate, c.Question)
		}

		log.Error("failed to persist question", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrStorageIntegrity, err)
	}

	log.Info("question created", "question_id", q.ID)

	return q, nil
}

// candidate asks the remote model when enabled and falls back to the bank otherwise.
func (g *Generator) candidate(ctx context.Context, category string, difficulty int) (Candidate, string) {
	if !g.RemoteEnabled() {
		return g.bank.Pick(category, difficulty), "fallback"
	}

	c, err := g.remoteCandidate(ctx, category, difficulty)
	if err != nil {
		g.log.Warn("using fallback bank", "category", category, "reason", err)
		return g.bank.Pick(category, difficulty), "fallback"
	}

	return c, "remote"
}

func (g *Generator) remoteCandidate(ctx context.Context, category string, difficulty int) (Candidate, error) {
	if g.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.requestTimeout)
		defer cancel()
	}

	raw, err := g.callRemote(ctx, buildPrompt(category, difficulty))
	if err != nil {
		return Candidate{}, err
	}

	return parseResponse(raw)
}
