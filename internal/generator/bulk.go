package generator

import (
	"context"
	"time"
)

// BulkPolicy controls Bulk.
type BulkPolicy struct {
	// AttemptsPerSlot bounds the Generate calls spent on one question.
	AttemptsPerSlot int
	// Pause is waited after a failed attempt.
	Pause time.Duration
}

var DefaultBulkPolicy = BulkPolicy{AttemptsPerSlot: 5, Pause: time.Second}

// BulkReport counts the questions created per category and difficulty.
type BulkReport struct {
	Created map[string]map[int]int
	Failed  int
}

// Bulk generates count questions for every category and difficulty.
// Slots that run out of attempts are counted as failed and skipped.
func (g *Generator) Bulk(
	ctx context.Context,
	categories []string,
	difficulties []int,
	count int,
	policy BulkPolicy,
) (*BulkReport, error) {
	report := &BulkReport{Created: make(map[string]map[int]int, len(categories))}

	for _, category := range categories {
		report.Created[category] = make(map[int]int, len(difficulties))

		for _, difficulty := range difficulties {
			for slot := range count {
				ok, err := g.fillSlot(ctx, category, difficulty, policy)
				if err != nil {
					return report, err
				}

				if !ok {
					report.Failed++
					g.log.Warn("slot skipped",
						"category", category, "difficulty", difficulty, "slot", slot+1)
					continue
				}

				report.Created[category][difficulty]++
			}
		}
	}

	return report, nil
}

// fillSlot returns false when every attempt failed; err is only set when ctx is done.
func (g *Generator) fillSlot(ctx context.Context, category string, difficulty int, policy BulkPolicy) (bool, error) {
	for attempt := range max(policy.AttemptsPerSlot, 1) {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		_, err := g.Generate(ctx, category, difficulty, DefaultTimeLimit)
		if err == nil {
			return true, nil
		}
		g.log.Debug("bulk attempt failed", "category", category, "attempt", attempt+1, "error", err)

		if err := g.sleep(ctx, policy.Pause); err != nil {
			return false, err
		}
	}

	return false, nil
}
