package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/speakpost/speakpost-backend/internal/domain"
)

func TestLookup_KnownPlatform(t *testing.T) {
	cap, ok := Lookup(domain.PlatformInstagram)

	assert.True(t, ok)
	assert.Equal(t, "Instagram", cap.DisplayName)
	assert.True(t, cap.RequiresMedia)
	assert.True(t, cap.RequiresBusinessAccount)
}

func TestLookup_UnknownPlatform(t *testing.T) {
	_, ok := Lookup("myspace")

	assert.False(t, ok)
}

func TestAll_CoversEveryPlatform(t *testing.T) {
	all := All()

	assert.Len(t, all, len(domain.AllPlatforms))
	for i, cap := range all {
		assert.Equal(t, domain.AllPlatforms[i], cap.Platform)
	}
}

func TestRequiresMedia(t *testing.T) {
	assert.False(t, RequiresMedia(domain.PlatformTwitter))
	assert.True(t, RequiresMedia(domain.PlatformInstagram))
	assert.True(t, RequiresMedia(domain.PlatformTikTok))
	assert.True(t, RequiresMedia(domain.PlatformYouTube))
	assert.False(t, RequiresMedia("myspace"))
}

func TestSupportsKind(t *testing.T) {
	tiktok, _ := Lookup(domain.PlatformTikTok)
	assert.True(t, tiktok.SupportsKind(domain.MediaKindVideo))
	assert.False(t, tiktok.SupportsKind(domain.MediaKindImage))

	// no AllowedKinds restriction means everything goes
	twitter, _ := Lookup(domain.PlatformTwitter)
	assert.True(t, twitter.SupportsKind(domain.MediaKindImage))
	assert.True(t, twitter.SupportsKind(domain.MediaKindVideo))
}

func TestOnlyLinkedInLacksAutomation(t *testing.T) {
	for _, cap := range All() {
		if cap.Platform == domain.PlatformLinkedIn {
			assert.False(t, cap.SupportsAutomatedPosting)
		} else {
			assert.True(t, cap.SupportsAutomatedPosting, string(cap.Platform))
		}
	}
}

func TestFormatHashtags_CapAndPrefix(t *testing.T) {
	got := FormatHashtags(domain.PlatformTwitter, []string{"go", "golang", "dev", "code", "build", "ship"})

	// twitter caps at 5
	assert.Equal(t, []string{"#go", "#golang", "#dev", "#code", "#build"}, got)
}

func TestFormatHashtags_LowercaseRule(t *testing.T) {
	got := FormatHashtags(domain.PlatformInstagram, []string{"GoLang", "golang", "#Dev"})

	// lowercasing makes GoLang and golang collide; dedup keeps the first
	assert.Equal(t, []string{"#golang", "#dev"}, got)
}

func TestFormatHashtags_SkipsEmpty(t *testing.T) {
	got := FormatHashtags(domain.PlatformTwitter, []string{"", "#", "  ", "real"})

	assert.Equal(t, []string{"#real"}, got)
}
