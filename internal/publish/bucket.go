// Package publish classifies targets and fans a draft out to platform
// publishers with independent per-target failure.
package publish

import (
	"github.com/speakpost/speakpost-backend/internal/auth"
	"github.com/speakpost/speakpost-backend/internal/catalog"
	"github.com/speakpost/speakpost-backend/internal/domain"
)

// Buckets partitions the selected platforms of a draft
type Buckets struct {
	// Automated targets will be published via API
	Automated []domain.Platform `json:"automated"`
	// Manual targets are handed to the user's native share mechanism
	Manual []domain.Platform `json:"manual"`
}

// ComputeBuckets classifies each selected platform. A platform is
// automated iff the catalog says it supports automated posting, it is
// currently authenticated, and any required business sub-account has
// been explicitly chosen. Everything else is manual.
//
// The result is pure with respect to its three inputs and must be
// recomputed on every use: authentication can be revoked asynchronously
// between computations, so memoizing here would serve stale decisions.
func ComputeBuckets(draft *domain.Draft, authState auth.Provider, selectedSubAccounts map[domain.Platform]domain.SubAccount) Buckets {
	var b Buckets
	for _, p := range draft.Platforms {
		if isAutomated(p, authState, selectedSubAccounts) {
			b.Automated = append(b.Automated, p)
		} else {
			b.Manual = append(b.Manual, p)
		}
	}
	return b
}

func isAutomated(p domain.Platform, authState auth.Provider, selected map[domain.Platform]domain.SubAccount) bool {
	cap, ok := catalog.Lookup(p)
	if !ok || !cap.SupportsAutomatedPosting {
		return false
	}
	if !authState.IsAuthenticated(p) {
		return false
	}
	if cap.RequiresBusinessAccount {
		if _, chosen := selected[p]; !chosen {
			return false
		}
	}
	return true
}
