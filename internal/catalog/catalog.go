// Package catalog holds the static per-platform capability table.
// It answers what a platform can do, never whether the user may do it
// right now; authentication and sub-account state live elsewhere.
package catalog

import (
	"strings"

	"github.com/speakpost/speakpost-backend/internal/domain"
)

// HashtagRule describes how a platform expects hashtags formatted
type HashtagRule struct {
	// MaxTags caps how many hashtags the platform tolerates; 0 = no cap
	MaxTags int
	// Lowercase forces tags to lowercase
	Lowercase bool
	// InText appends tags to the post text instead of a separate field
	InText bool
}

// Capability is the static profile of one platform
type Capability struct {
	Platform                 domain.Platform
	DisplayName              string
	RequiresMedia            bool
	AllowedKinds             []domain.MediaKind
	SupportsAutomatedPosting bool
	RequiresBusinessAccount  bool
	Hashtags                 HashtagRule
}

// SupportsKind reports whether the platform accepts the given media kind
func (c Capability) SupportsKind(kind domain.MediaKind) bool {
	if len(c.AllowedKinds) == 0 {
		return true
	}
	for _, k := range c.AllowedKinds {
		if k == kind || k == domain.MediaKindAny {
			return true
		}
	}
	return false
}

var capabilities = map[domain.Platform]Capability{
	domain.PlatformTwitter: {
		Platform:                 domain.PlatformTwitter,
		DisplayName:              "Twitter",
		RequiresMedia:            false,
		SupportsAutomatedPosting: true,
		Hashtags:                 HashtagRule{MaxTags: 5, InText: true},
	},
	domain.PlatformFacebook: {
		Platform:                 domain.PlatformFacebook,
		DisplayName:              "Facebook",
		RequiresMedia:            false,
		SupportsAutomatedPosting: true,
		RequiresBusinessAccount:  true,
		Hashtags:                 HashtagRule{InText: true},
	},
	domain.PlatformInstagram: {
		Platform:                 domain.PlatformInstagram,
		DisplayName:              "Instagram",
		RequiresMedia:            true,
		AllowedKinds:             []domain.MediaKind{domain.MediaKindImage, domain.MediaKindVideo},
		SupportsAutomatedPosting: true,
		RequiresBusinessAccount:  true,
		Hashtags:                 HashtagRule{MaxTags: 30, Lowercase: true, InText: true},
	},
	domain.PlatformTikTok: {
		Platform:                 domain.PlatformTikTok,
		DisplayName:              "TikTok",
		RequiresMedia:            true,
		AllowedKinds:             []domain.MediaKind{domain.MediaKindVideo},
		SupportsAutomatedPosting: true,
		Hashtags:                 HashtagRule{MaxTags: 10, Lowercase: true, InText: true},
	},
	domain.PlatformYouTube: {
		Platform:                 domain.PlatformYouTube,
		DisplayName:              "YouTube",
		RequiresMedia:            true,
		AllowedKinds:             []domain.MediaKind{domain.MediaKindVideo},
		SupportsAutomatedPosting: true,
		Hashtags:                 HashtagRule{MaxTags: 15},
	},
	domain.PlatformLinkedIn: {
		Platform:                 domain.PlatformLinkedIn,
		DisplayName:              "LinkedIn",
		RequiresMedia:            false,
		SupportsAutomatedPosting: false,
		Hashtags:                 HashtagRule{MaxTags: 3, InText: true},
	},
}

// Lookup returns the capability profile for a platform
func Lookup(p domain.Platform) (Capability, bool) {
	cap, ok := capabilities[p]
	return cap, ok
}

// All returns every capability profile in display order
func All() []Capability {
	out := make([]Capability, 0, len(domain.AllPlatforms))
	for _, p := range domain.AllPlatforms {
		if cap, ok := capabilities[p]; ok {
			out = append(out, cap)
		}
	}
	return out
}

// RequiresMedia reports whether the platform cannot post without media
func RequiresMedia(p domain.Platform) bool {
	cap, ok := capabilities[p]
	return ok && cap.RequiresMedia
}

// FormatHashtags applies the platform's hashtag rule to a tag list.
// Tags are returned with leading '#', deduplicated, capped per rule.
func FormatHashtags(p domain.Platform, tags []string) []string {
	rule := capabilities[p].Hashtags

	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.TrimPrefix(tag, "#"))
		if tag == "" {
			continue
		}
		if rule.Lowercase {
			tag = strings.ToLower(tag)
		}
		if seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, "#"+tag)
		if rule.MaxTags > 0 && len(out) >= rule.MaxTags {
			break
		}
	}
	return out
}
