package media

import (
	"context"
	"fmt"

	"github.com/speakpost/speakpost-backend/internal/common"
	"github.com/speakpost/speakpost-backend/internal/domain"
	pkglogger "github.com/speakpost/speakpost-backend/pkg/logger"
)

// ItemOutcome is the per-item result of validation/recovery
type ItemOutcome struct {
	Ref       domain.MediaReference
	Status    ResolutionStatus
	Recovered *domain.MediaReference
}

// Validator checks that media references are still live and recovers
// stale ones. It runs both proactively (loading a historical draft)
// and defensively (immediately before publish dispatch).
type Validator struct {
	resolver Resolver
}

// NewValidator creates a Validator over the given resolver
func NewValidator(resolver Resolver) *Validator {
	return &Validator{resolver: resolver}
}

// ValidateAndRecover resolves each reference and reports a per-item
// outcome. Resolver errors degrade to a failed outcome for that item
// only; sibling items are unaffected.
func (v *Validator) ValidateAndRecover(ctx context.Context, refs []domain.MediaReference) []ItemOutcome {
	outcomes := make([]ItemOutcome, 0, len(refs))
	for _, ref := range refs {
		res, err := v.resolver.Resolve(ctx, ref)
		if err != nil {
			pkglogger.GetLogger().Warn().Err(err).Str("uri", ref.URI).Msg("media resolve errored, treating as failed")
			outcomes = append(outcomes, ItemOutcome{Ref: ref, Status: ResolutionFailed})
			continue
		}
		outcomes = append(outcomes, ItemOutcome{Ref: ref, Status: res.Status, Recovered: res.Recovered})
	}
	return outcomes
}

// Apply rewrites the draft from validation outcomes: recovered items
// replace their originals, failed items are dropped. Returns the URIs
// dropped. If dropping leaves the draft with neither text nor media,
// the draft is not touched further and common.ErrEmptyDraft is returned.
func Apply(draft *domain.Draft, outcomes []ItemOutcome) ([]string, error) {
	var dropped []string
	for _, o := range outcomes {
		switch o.Status {
		case ResolutionValid:
			// nothing to do
		case ResolutionRecovered:
			if o.Recovered != nil {
				draft.ReplaceMedia(o.Ref.URI, *o.Recovered)
			}
		case ResolutionFailed:
			draft.DropMedia(o.Ref.URI)
			dropped = append(dropped, o.Ref.URI)
		}
	}

	if !draft.HasContent() {
		return dropped, fmt.Errorf("all media unrecoverable: %w", common.ErrEmptyDraft)
	}
	return dropped, nil
}
