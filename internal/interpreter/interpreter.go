// Package interpreter extracts structured intent from raw transcript text
// using pattern rules: explicit platform mentions and "find media like X"
// requests. It is stateless; every function is pure with respect to its
// input text.
package interpreter

import (
	"regexp"
	"strings"

	"github.com/speakpost/speakpost-backend/internal/domain"
)

// MediaRequest is a detected "attach media" intent
type MediaRequest struct {
	Kind  domain.MediaKind
	Query string
}

// Platform aliases as they appear in spoken commands
var platformAliases = map[string]domain.Platform{
	"twitter":   domain.PlatformTwitter,
	"tweet":     domain.PlatformTwitter,
	"x":         domain.PlatformTwitter,
	"facebook":  domain.PlatformFacebook,
	"fb":        domain.PlatformFacebook,
	"instagram": domain.PlatformInstagram,
	"insta":     domain.PlatformInstagram,
	"ig":        domain.PlatformInstagram,
	"tiktok":    domain.PlatformTikTok,
	"tik tok":   domain.PlatformTikTok,
	"youtube":   domain.PlatformYouTube,
	"linkedin":  domain.PlatformLinkedIn,
}

var (
	videoPattern  = regexp.MustCompile(`(?i)\b(video|clip|recording|footage)\b`)
	imagePattern  = regexp.MustCompile(`(?i)\b(photo|picture|image|pic|screenshot|selfie)\b`)
	recentPattern = regexp.MustCompile(`(?i)\b(recent|latest|last|newest|yesterday|today)\b`)
	// "that video", "the picture of the beach", "my latest photo" etc.
	mediaRefPattern = regexp.MustCompile(`(?i)\b(that|the|this|my)\s+(\w+\s+)?(video|clip|photo|picture|image|pic|screenshot|selfie)\b`)
	// trailing query after "of"/"from"/"with": "photo of the sunset"
	queryPattern = regexp.MustCompile(`(?i)\b(?:video|clip|photo|picture|image|pic|screenshot|selfie)\s+(?:of|from|with|showing)\s+(.+?)(?:\.|,|$)`)
)

// ParseMediaRequest detects a media attachment intent in the transcript.
// Returns nil when no media is mentioned.
func ParseMediaRequest(text string) *MediaRequest {
	if !HasMediaReference(text) {
		return nil
	}

	req := &MediaRequest{Kind: domain.MediaKindAny}
	switch {
	case videoPattern.MatchString(text):
		req.Kind = domain.MediaKindVideo
	case imagePattern.MatchString(text):
		req.Kind = domain.MediaKindImage
	}

	if m := queryPattern.FindStringSubmatch(text); len(m) > 1 {
		req.Query = strings.TrimSpace(m[1])
	}
	return req
}

// ExtractPlatforms returns every platform explicitly mentioned in the
// transcript, in mention order, deduplicated
func ExtractPlatforms(text string) []domain.Platform {
	lower := strings.ToLower(text)

	type hit struct {
		pos      int
		platform domain.Platform
	}
	var hits []hit
	seen := make(map[domain.Platform]bool)

	for alias, platform := range platformAliases {
		pos := indexWord(lower, alias)
		if pos < 0 || seen[platform] {
			continue
		}
		seen[platform] = true
		hits = append(hits, hit{pos: pos, platform: platform})
	}

	// Stable mention order
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].pos < hits[j-1].pos; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}

	out := make([]domain.Platform, len(hits))
	for i, h := range hits {
		out[i] = h.platform
	}
	return out
}

// HasRecentMediaIndicators reports whether the transcript asks for
// recently captured media ("my latest photo", "yesterday's video")
func HasRecentMediaIndicators(text string) bool {
	return recentPattern.MatchString(text) && HasMediaReference(text)
}

// HasMediaReference reports whether the transcript mentions media at all
func HasMediaReference(text string) bool {
	return mediaRefPattern.MatchString(text) ||
		videoPattern.MatchString(text) ||
		imagePattern.MatchString(text)
}

// indexWord finds alias as a whole word; -1 if absent.
// Single-letter aliases ("x") would otherwise match inside words.
func indexWord(text, alias string) int {
	start := 0
	for {
		idx := strings.Index(text[start:], alias)
		if idx < 0 {
			return -1
		}
		idx += start
		before := idx - 1
		after := idx + len(alias)
		beforeOK := before < 0 || !isWordChar(text[before])
		afterOK := after >= len(text) || !isWordChar(text[after])
		if beforeOK && afterOK {
			return idx
		}
		start = idx + len(alias)
		if start >= len(text) {
			return -1
		}
	}
}

func isWordChar(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
