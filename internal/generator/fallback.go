package generator

import (
	"context"
	"sort"
	"strings"

	"github.com/speakpost/speakpost-backend/internal/config"
	"github.com/speakpost/speakpost-backend/internal/domain"
	"github.com/speakpost/speakpost-backend/internal/interpreter"
)

// defaultKeywords is the built-in keyword→tags table, used when the
// config does not supply one. The contents are policy, not logic.
var defaultKeywords = map[string][]string{
	"food":    {"food", "foodie", "eats"},
	"coffee":  {"coffee", "coffeetime"},
	"travel":  {"travel", "wanderlust"},
	"beach":   {"beach", "summer"},
	"music":   {"music", "nowplaying"},
	"workout": {"fitness", "workout"},
	"gym":     {"fitness", "gymlife"},
	"dog":     {"dog", "dogsofinstagram"},
	"cat":     {"cat", "catlover"},
	"sunset":  {"sunset", "goldenhour"},
	"work":    {"work", "hustle"},
	"game":    {"gaming", "gamer"},
	"book":    {"books", "reading"},
	"art":     {"art", "creative"},
}

var defaultGeneric = []string{"life", "daily", "share", "moments"}

// Fallback synthesizes a baseline draft locally when the external
// generator is unavailable: heuristic target selection plus keyword-table
// hashtag generation. Generation failure upstream is never fatal.
type Fallback struct {
	maxTags  int
	keywords map[string][]string
	generic  []string
}

// NewFallback builds a fallback generator from the hashtag config
func NewFallback(cfg config.HashtagConfig) *Fallback {
	f := &Fallback{
		maxTags:  cfg.MaxTags,
		keywords: cfg.Keywords,
		generic:  cfg.Generic,
	}
	if f.maxTags <= 0 {
		f.maxTags = 6
	}
	if len(f.keywords) == 0 {
		f.keywords = defaultKeywords
	}
	if len(f.generic) == 0 {
		f.generic = defaultGeneric
	}
	return f
}

// Generate produces a baseline draft from the transcript alone
func (f *Fallback) Generate(_ context.Context, transcript string, preSelected []domain.MediaReference) (*domain.Draft, error) {
	draft := domain.NewDraft()
	draft.Transcript = transcript
	draft.Content.Text = cleanTranscript(transcript)
	draft.Content.Hashtags = f.hashtags(transcript)
	draft.FallbackReason = "generator unavailable, baseline draft"

	for _, p := range f.targets(transcript, preSelected) {
		draft.AddPlatform(p)
	}
	if len(preSelected) > 0 {
		draft.SetMedia(preSelected)
	}
	return draft, nil
}

// targets picks platforms: explicit mentions win, otherwise a media-aware default
func (f *Fallback) targets(transcript string, media []domain.MediaReference) []domain.Platform {
	if mentioned := interpreter.ExtractPlatforms(transcript); len(mentioned) > 0 {
		return mentioned
	}
	for _, m := range media {
		if m.Kind() == domain.MediaKindVideo {
			return []domain.Platform{domain.PlatformTikTok}
		}
	}
	if len(media) > 0 {
		return []domain.Platform{domain.PlatformInstagram}
	}
	return []domain.Platform{domain.PlatformTwitter}
}

// hashtags scans the transcript against the keyword table, capped at
// maxTags, padding with generic filler when too few keywords match.
// Keywords are scanned in sorted order so the same transcript always
// yields the same tags.
func (f *Fallback) hashtags(transcript string) []string {
	lower := strings.ToLower(transcript)

	keywords := make([]string, 0, len(f.keywords))
	for keyword := range f.keywords {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)

	var tags []string
	seen := make(map[string]bool)
	for _, keyword := range keywords {
		if !strings.Contains(lower, keyword) {
			continue
		}
		for _, tag := range f.keywords[keyword] {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			tags = append(tags, tag)
			if len(tags) >= f.maxTags {
				return tags
			}
		}
	}

	// Keep at least a couple of tags so the baseline draft never looks bare
	for _, tag := range f.generic {
		if len(tags) >= 2 {
			break
		}
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

// cleanTranscript strips filler lead-ins like "post to twitter" noise is
// left to sanitize; here we only trim whitespace
func cleanTranscript(text string) string {
	return strings.TrimSpace(text)
}
