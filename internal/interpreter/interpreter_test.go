package interpreter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/speakpost/speakpost-backend/internal/domain"
)

func TestExtractPlatforms_SingleMention(t *testing.T) {
	got := ExtractPlatforms("post this to Twitter please")

	assert.Equal(t, []domain.Platform{domain.PlatformTwitter}, got)
}

func TestExtractPlatforms_MentionOrder(t *testing.T) {
	got := ExtractPlatforms("share on tiktok and then twitter and instagram")

	assert.Equal(t, []domain.Platform{
		domain.PlatformTikTok,
		domain.PlatformTwitter,
		domain.PlatformInstagram,
	}, got)
}

func TestExtractPlatforms_AliasesDeduplicate(t *testing.T) {
	// "tweet" and "twitter" are the same platform; first mention wins
	got := ExtractPlatforms("tweet this and post to twitter")

	assert.Equal(t, []domain.Platform{domain.PlatformTwitter}, got)
}

func TestExtractPlatforms_ShortAliasNeedsWordBoundary(t *testing.T) {
	// "x" inside "explain" or "box" must not count
	assert.Empty(t, ExtractPlatforms("explain the box experiment"))
	assert.Equal(t, []domain.Platform{domain.PlatformTwitter}, ExtractPlatforms("put it on x today"))
}

func TestExtractPlatforms_InformalAliases(t *testing.T) {
	assert.Equal(t, []domain.Platform{domain.PlatformInstagram}, ExtractPlatforms("throw it on insta"))
	assert.Equal(t, []domain.Platform{domain.PlatformFacebook}, ExtractPlatforms("share to fb"))
	assert.Equal(t, []domain.Platform{domain.PlatformInstagram}, ExtractPlatforms("IG story material"))
}

func TestExtractPlatforms_NoMentions(t *testing.T) {
	assert.Empty(t, ExtractPlatforms("just had a great lunch"))
}

func TestParseMediaRequest_Video(t *testing.T) {
	req := ParseMediaRequest("post that video to tiktok")

	assert.NotNil(t, req)
	assert.Equal(t, domain.MediaKindVideo, req.Kind)
}

func TestParseMediaRequest_ImageWithQuery(t *testing.T) {
	req := ParseMediaRequest("share the photo of the sunset at the pier")

	assert.NotNil(t, req)
	assert.Equal(t, domain.MediaKindImage, req.Kind)
	assert.Equal(t, "the sunset at the pier", req.Query)
}

func TestParseMediaRequest_QueryStopsAtPunctuation(t *testing.T) {
	req := ParseMediaRequest("use the picture of the dog, and add hashtags")

	assert.NotNil(t, req)
	assert.Equal(t, "the dog", req.Query)
}

func TestParseMediaRequest_NoMediaMention(t *testing.T) {
	assert.Nil(t, ParseMediaRequest("post to twitter about my day"))
}

func TestHasRecentMediaIndicators(t *testing.T) {
	assert.True(t, HasRecentMediaIndicators("post my latest photo"))
	assert.True(t, HasRecentMediaIndicators("use the video from yesterday"))
	// recency word without any media mention is not a media request
	assert.False(t, HasRecentMediaIndicators("my latest thoughts on the economy"))
}

func TestHasMediaReference(t *testing.T) {
	assert.True(t, HasMediaReference("attach that clip"))
	assert.True(t, HasMediaReference("add a screenshot"))
	assert.False(t, HasMediaReference("just text please"))
}
