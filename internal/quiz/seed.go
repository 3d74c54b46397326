package quiz

import (
	"context"
	"fmt"

	"github.com/dalilachaima/ProjetPA/internal/domain/models"
	"github.com/dalilachaima/ProjetPA/internal/storage"
)

// DefaultCategories are created by SeedCategories.
var DefaultCategories = []string{
	"Géographie",
	"Histoire",
	"Sciences",
	"Informatique",
	"Islam",
	"Culture Générale",
}

// SeedCategories creates the default categories that are missing.
// It returns the number of categories created.
func SeedCategories(ctx context.Context, store storage.Storage) (int, error) {
	created := 0

	for _, name := range DefaultCategories {
		_, ok, err := store.GetOrCreateCategory(ctx, name)
		if err != nil {
			return created, fmt.Errorf("seed category %q: %w", name, err)
		}
		if ok {
			created++
		}
	}

	return created, nil
}

// ensureCategories seeds the defaults when the store has no category at all.
func ensureCategories(ctx context.Context, store storage.Storage) ([]*models.Category, error) {
	n, err := store.CountCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}

	if n == 0 {
		if _, err := SeedCategories(ctx, store); err != nil {
			return nil, err
		}
	}

	return store.ListCategories(ctx)
}
