package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalilachaima/ProjetPA/internal/client"
)

// RetryPolicy bounds the remote call loop.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
}

// DefaultRetryPolicy waits 5s then 10s between three attempts.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 3,
	BaseDelay:   5 * time.Second,
	Multiplier:  2,
}

// Delay returns the wait after the failed attempt with the zero-based index attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	d := float64(p.BaseDelay)
	for range attempt {
		d *= p.Multiplier
	}

	return time.Duration(d)
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// callRemote runs the retry loop. Every returned error wraps errRemoteUnavailable.
func (g *Generator) callRemote(ctx context.Context, prompt string) (string, error) {
	attempts := max(g.retry.MaxAttempts, 1)

	for attempt := range attempts {
		g.log.Debug("calling remote model", "attempt", attempt+1, "max_attempts", attempts)

		text, err := g.remote.Generate(ctx, prompt)
		if err == nil {
			return text, nil
		}

		switch {
		case errors.Is(err, client.ErrPermissionDenied):
			g.disableRemote()
			g.log.Warn("remote model rejected the credentials, remote generation disabled", "error", err)

			return "", fmt.Errorf("%w: %w", errRemoteUnavailable, err)

		case errors.Is(err, client.ErrOverloaded):
			if attempt == attempts-1 {
				return "", fmt.Errorf("%w: giving up after %d attempts: %w", errRemoteUnavailable, attempts, err)
			}

			delay := g.retry.Delay(attempt)
			g.log.Info("remote model overloaded, backing off", "attempt", attempt+1, "delay", delay)

			if err := g.sleep(ctx, delay); err != nil {
				return "", fmt.Errorf("%w: %w", errRemoteUnavailable, err)
			}

		default:
			return "", fmt.Errorf("%w: %w", errRemoteUnavailable, err)
		}
	}

	return "", errRemoteUnavailable
}
