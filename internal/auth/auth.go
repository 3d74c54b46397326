// Package auth supplies the identity of the current user to the quiz core.
package auth

import (
	"context"
	"errors"
	"strings"
)

// ErrAnonymous is returned when no user identity is available.
var ErrAnonymous = errors.New("no authenticated user")

// Provider returns the identity of the user behind a request.
type Provider interface {
	CurrentUser(ctx context.Context) (string, error)
}

type userKey struct{}

// WithUser returns a context carrying the user identity.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// ContextProvider reads the identity stored by WithUser.
// When Fallback is set it is used for contexts without a user.
type ContextProvider struct {
	Fallback string
}

func (p ContextProvider) CurrentUser(ctx context.Context) (string, error) {
	if id, ok := ctx.Value(userKey{}).(string); ok && strings.TrimSpace(id) != "" {
		return id, nil
	}

	if p.Fallback != "" {
		return p.Fallback, nil
	}

	return "", ErrAnonymous
}
