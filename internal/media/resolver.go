// Package media resolves, validates and recovers media references for
// the draft pipeline. A stale reference is an expected condition here,
// not an error.
package media

import (
	"context"

	"github.com/speakpost/speakpost-backend/internal/domain"
)

// ResolutionStatus classifies the outcome of resolving one reference
type ResolutionStatus string

const (
	// ResolutionValid the original reference still resolves
	ResolutionValid ResolutionStatus = "valid"
	// ResolutionRecovered the original is dead but an equivalent was found
	ResolutionRecovered ResolutionStatus = "recovered"
	// ResolutionFailed the reference is unrecoverable
	ResolutionFailed ResolutionStatus = "failed"
)

// Resolution is the result of resolving one media reference
type Resolution struct {
	Status    ResolutionStatus
	Recovered *domain.MediaReference // set only when Status == ResolutionRecovered
}

// Resolver locates candidate media and re-resolves stale handles
type Resolver interface {
	// Search returns candidate media for a freeform query, filtered to
	// the given kinds (empty kinds = all)
	Search(ctx context.Context, query string, kinds []domain.MediaKind) ([]domain.MediaReference, error)
	// Resolve checks whether a reference is still live and attempts
	// recovery when it is not
	Resolve(ctx context.Context, ref domain.MediaReference) (Resolution, error)
}

// BestMatch picks the first candidate matching the requested kind.
// Candidates are assumed already ranked by the resolver.
func BestMatch(candidates []domain.MediaReference, kind domain.MediaKind) (domain.MediaReference, bool) {
	for _, c := range candidates {
		if c.Matches(kind) {
			return c, true
		}
	}
	return domain.MediaReference{}, false
}
