package media

import (
	"context"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/speakpost/speakpost-backend/internal/domain"
)

// MemoryResolver is an in-process device media index, used when no S3
// library is configured (local development) and in tests
type MemoryResolver struct {
	mu    sync.RWMutex
	items []domain.MediaReference
}

// NewMemoryResolver creates an empty in-memory resolver
func NewMemoryResolver() *MemoryResolver {
	return &MemoryResolver{}
}

// Add registers media items in the index
func (r *MemoryResolver) Add(refs ...domain.MediaReference) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, refs...)
}

// Remove deletes an item by URI, simulating a file disappearing
func (r *MemoryResolver) Remove(uri string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.items[:0]
	for _, item := range r.items {
		if item.URI != uri {
			kept = append(kept, item)
		}
	}
	r.items = kept
}

// Search returns matching items, newest first
func (r *MemoryResolver) Search(_ context.Context, query string, kinds []domain.MediaKind) ([]domain.MediaReference, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	terms := strings.Fields(strings.ToLower(query))

	var out []domain.MediaReference
	for _, item := range r.items {
		if len(kinds) > 0 && !matchesAnyKind(item, kinds) {
			continue
		}
		if !matchesTerms(item.URI, terms) {
			continue
		}
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Resolve checks the index for the URI, recovering by base name when
// the exact URI is gone
func (r *MemoryResolver) Resolve(_ context.Context, ref domain.MediaReference) (Resolution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.URI == ref.URI {
			return Resolution{Status: ResolutionValid}, nil
		}
	}

	base := path.Base(ref.URI)
	for _, item := range r.items {
		if path.Base(item.URI) == base {
			recovered := item
			return Resolution{Status: ResolutionRecovered, Recovered: &recovered}, nil
		}
	}

	return Resolution{Status: ResolutionFailed}, nil
}
