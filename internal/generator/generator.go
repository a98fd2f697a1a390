// Package generator defines the content generation contract and the
// baseline fallback used when the external AI generator fails.
package generator

import (
	"context"

	"github.com/speakpost/speakpost-backend/internal/domain"
)

// Generator converts a transcript (plus optional pre-selected media)
// into a structured draft. Implementations must not fail on empty or
// ambiguous input where a low-confidence draft is feasible.
type Generator interface {
	Generate(ctx context.Context, transcript string, preSelected []domain.MediaReference) (*domain.Draft, error)
}
