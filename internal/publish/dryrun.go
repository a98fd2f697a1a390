package publish

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/speakpost/speakpost-backend/internal/common"
	"github.com/speakpost/speakpost-backend/internal/domain"
	"github.com/speakpost/speakpost-backend/pkg/logger"
)

// DryRunPublisher logs the outgoing post instead of calling a platform
// API and returns a synthetic post ID. Used until real platform
// publishers are wired in, and in development environments.
type DryRunPublisher struct {
	platform domain.Platform
}

// NewDryRunPublisher creates a DryRunPublisher for a single platform
func NewDryRunPublisher(p domain.Platform) *DryRunPublisher {
	return &DryRunPublisher{platform: p}
}

// Publish logs the draft and returns a generated post ID
func (p *DryRunPublisher) Publish(_ context.Context, draft *domain.Draft, target Target) (string, error) {
	if target.Credential == "" {
		return "", common.ErrNotAuthenticated
	}
	postID := fmt.Sprintf("dryrun-%s-%s", p.platform, uuid.New().String()[:8])
	logger.WithPlatform(string(p.platform)).Info().
		Str("draft_id", draft.ID).
		Str("post_id", postID).
		Int("media", len(draft.Content.Media)).
		Msg("dry-run publish")
	return postID, nil
}

// DryRunPublishers builds a dry-run publisher for every automatable platform
func DryRunPublishers() map[domain.Platform]Publisher {
	out := make(map[domain.Platform]Publisher)
	for _, p := range domain.AllPlatforms {
		out[p] = NewDryRunPublisher(p)
	}
	return out
}
