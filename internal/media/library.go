package media

import (
	"context"
	"fmt"
	"mime"
	"path"
	"sort"
	"strings"

	"github.com/speakpost/speakpost-backend/internal/domain"
	"github.com/speakpost/speakpost-backend/pkg/elasticsearch"
	pkglogger "github.com/speakpost/speakpost-backend/pkg/logger"
	"github.com/speakpost/speakpost-backend/pkg/storage"
)

// LibraryResolver resolves media against the S3-compatible media library.
// Search goes through the Elasticsearch metadata index when configured
// and falls back to listing the library directly otherwise.
type LibraryResolver struct {
	store   *storage.S3Client
	index   *elasticsearch.Client
	esIndex string
}

// NewLibraryResolver creates a resolver over the media library.
// The Elasticsearch index is optional; pass nil to search by listing.
func NewLibraryResolver(store *storage.S3Client, index *elasticsearch.Client, esIndex string) *LibraryResolver {
	return &LibraryResolver{store: store, index: index, esIndex: esIndex}
}

// Search returns candidate media for a freeform query, newest first
func (r *LibraryResolver) Search(ctx context.Context, query string, kinds []domain.MediaKind) ([]domain.MediaReference, error) {
	if r.index != nil {
		refs, err := r.searchIndex(ctx, query, kinds)
		if err == nil {
			return refs, nil
		}
		// Index trouble must not make media unreachable
		pkglogger.GetLogger().Warn().Err(err).Msg("media index search failed, falling back to library listing")
	}
	return r.searchListing(ctx, query, kinds)
}

// Resolve checks liveness via a head request; a dead reference is
// recovered by locating an object with the same base name
func (r *LibraryResolver) Resolve(ctx context.Context, ref domain.MediaReference) (Resolution, error) {
	key := r.store.KeyFromURI(ref.URI)

	info, err := r.store.Head(ctx, key)
	if err != nil {
		return Resolution{}, fmt.Errorf("resolve %s: %w", ref.URI, err)
	}
	if info != nil {
		return Resolution{Status: ResolutionValid}, nil
	}

	// Original is gone; look for a repathed equivalent by base name
	base := path.Base(key)
	candidates, err := r.store.List(ctx, "", 1000)
	if err != nil {
		return Resolution{}, fmt.Errorf("recovery listing for %s: %w", ref.URI, err)
	}
	for _, obj := range candidates {
		if path.Base(obj.Key) != base {
			continue
		}
		recovered := ref
		recovered.URI = r.store.URIForKey(obj.Key)
		recovered.SizeBytes = obj.Size
		if obj.ContentType != "" {
			recovered.MimeType = obj.ContentType
		}
		return Resolution{Status: ResolutionRecovered, Recovered: &recovered}, nil
	}

	return Resolution{Status: ResolutionFailed}, nil
}

func (r *LibraryResolver) searchIndex(ctx context.Context, query string, kinds []domain.MediaKind) ([]domain.MediaReference, error) {
	must := []map[string]interface{}{}
	if query != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name", "tags", "location"},
			},
		})
	}
	if len(kinds) > 0 && !containsKind(kinds, domain.MediaKindAny) {
		kindStrs := make([]string, len(kinds))
		for i, k := range kinds {
			kindStrs[i] = string(k)
		}
		must = append(must, map[string]interface{}{
			"terms": map[string]interface{}{"kind": kindStrs},
		})
	}

	esQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
		"sort": []map[string]interface{}{
			{"created_at": map[string]interface{}{"order": "desc"}},
		},
	}

	resp, err := r.index.Search(ctx, r.esIndex, esQuery, 0, 20)
	if err != nil {
		return nil, err
	}

	refs := make([]domain.MediaReference, 0, len(resp.Results))
	for _, hit := range resp.Results {
		ref := domain.MediaReference{URI: r.store.URIForKey(hit.ID)}
		if mt, ok := hit.Source["mime_type"].(string); ok {
			ref.MimeType = mt
		}
		if size, ok := hit.Source["size_bytes"].(float64); ok {
			ref.SizeBytes = int64(size)
		}
		if w, ok := hit.Source["width"].(float64); ok {
			ref.Width = int(w)
		}
		if h, ok := hit.Source["height"].(float64); ok {
			ref.Height = int(h)
		}
		if d, ok := hit.Source["duration_ms"].(float64); ok {
			ref.DurationMS = int64(d)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (r *LibraryResolver) searchListing(ctx context.Context, query string, kinds []domain.MediaKind) ([]domain.MediaReference, error) {
	objs, err := r.store.List(ctx, "", 1000)
	if err != nil {
		return nil, fmt.Errorf("media library listing: %w", err)
	}

	terms := strings.Fields(strings.ToLower(query))

	var refs []domain.MediaReference
	for _, obj := range objs {
		ref := domain.MediaReference{
			URI:       r.store.URIForKey(obj.Key),
			MimeType:  mimeFromKey(obj.Key, obj.ContentType),
			SizeBytes: obj.Size,
			CreatedAt: obj.LastModified,
		}
		if len(kinds) > 0 && !matchesAnyKind(ref, kinds) {
			continue
		}
		if !matchesTerms(obj.Key, terms) {
			continue
		}
		refs = append(refs, ref)
	}

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].CreatedAt.After(refs[j].CreatedAt)
	})
	return refs, nil
}

func mimeFromKey(key, contentType string) string {
	if contentType != "" {
		return contentType
	}
	if mt := mime.TypeByExtension(path.Ext(key)); mt != "" {
		return mt
	}
	return "application/octet-stream"
}

func matchesAnyKind(ref domain.MediaReference, kinds []domain.MediaKind) bool {
	for _, k := range kinds {
		if ref.Matches(k) {
			return true
		}
	}
	return false
}

func matchesTerms(key string, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	lower := strings.ToLower(key)
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

func containsKind(kinds []domain.MediaKind, kind domain.MediaKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
