package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDraft_Defaults(t *testing.T) {
	d := NewDraft()

	assert.NotEmpty(t, d.ID)
	assert.False(t, d.HasContent())
	assert.Empty(t, d.Platforms)
	assert.True(t, d.Scheduling.Immediate)
}

func TestAddPlatform_UniqueAndOrdered(t *testing.T) {
	d := NewDraft()

	d.AddPlatform(PlatformTwitter)
	d.AddPlatform(PlatformTikTok)
	d.AddPlatform(PlatformTwitter)

	assert.Equal(t, []Platform{PlatformTwitter, PlatformTikTok}, d.Platforms)
	assert.Contains(t, d.TargetConfigs, PlatformTwitter)
	assert.Contains(t, d.TargetConfigs, PlatformTikTok)
}

func TestRemovePlatform_DropsConfig(t *testing.T) {
	d := NewDraft()
	d.AddPlatform(PlatformTwitter)
	d.AddPlatform(PlatformTikTok)

	d.RemovePlatform(PlatformTwitter)

	assert.Equal(t, []Platform{PlatformTikTok}, d.Platforms)
	assert.NotContains(t, d.TargetConfigs, PlatformTwitter)
}

func TestSetMedia_RewritesTargetConfigs(t *testing.T) {
	d := NewDraft()
	d.AddPlatform(PlatformInstagram)
	d.AddPlatform(PlatformTikTok)

	d.SetMedia([]MediaReference{{URI: "file:///a.jpg", MimeType: "image/jpeg"}})

	// content media and every target config agree in the same step
	assert.Equal(t, "file:///a.jpg", d.TargetConfigs[PlatformInstagram].MediaURI)
	assert.Equal(t, "file:///a.jpg", d.TargetConfigs[PlatformTikTok].MediaURI)
}

func TestSetMedia_EmptyClearsConfigs(t *testing.T) {
	d := NewDraft()
	d.AddPlatform(PlatformInstagram)
	d.SetMedia([]MediaReference{{URI: "file:///a.jpg", MimeType: "image/jpeg"}})

	d.SetMedia(nil)

	assert.False(t, d.HasMedia())
	assert.Empty(t, d.TargetConfigs[PlatformInstagram].MediaURI)
}

func TestReplaceMedia_KeepsConfigsConsistent(t *testing.T) {
	d := NewDraft()
	d.AddPlatform(PlatformInstagram)
	d.SetMedia([]MediaReference{{URI: "file:///old.jpg", MimeType: "image/jpeg"}})

	d.ReplaceMedia("file:///old.jpg", MediaReference{URI: "file:///new.jpg", MimeType: "image/jpeg"})

	assert.Equal(t, "file:///new.jpg", d.Content.Media[0].URI)
	assert.Equal(t, "file:///new.jpg", d.TargetConfigs[PlatformInstagram].MediaURI)
}

func TestDropMedia_PromotesNextItem(t *testing.T) {
	d := NewDraft()
	d.AddPlatform(PlatformInstagram)
	d.SetMedia([]MediaReference{
		{URI: "file:///first.jpg", MimeType: "image/jpeg"},
		{URI: "file:///second.jpg", MimeType: "image/jpeg"},
	})

	d.DropMedia("file:///first.jpg")

	assert.Len(t, d.Content.Media, 1)
	assert.Equal(t, "file:///second.jpg", d.TargetConfigs[PlatformInstagram].MediaURI)
}

func TestMergeFrom_NonEmptyWins(t *testing.T) {
	base := NewDraft()
	base.Content.Text = "original"
	base.Content.Hashtags = []string{"one"}
	base.AddPlatform(PlatformTwitter)

	incoming := NewDraft()
	incoming.Content.Text = "updated"
	incoming.Content.Hashtags = []string{"two", "one"}

	base.MergeFrom(incoming)

	assert.Equal(t, "updated", base.Content.Text)
	assert.Equal(t, []string{"one", "two"}, base.Content.Hashtags)
	assert.Equal(t, []Platform{PlatformTwitter}, base.Platforms)
}

func TestMergeFrom_EmptyFieldsLeaveBaseUntouched(t *testing.T) {
	base := NewDraft()
	base.Content.Text = "keep me"
	base.Content.Hashtags = []string{"keep"}
	base.SetMedia([]MediaReference{{URI: "file:///keep.jpg", MimeType: "image/jpeg"}})

	base.MergeFrom(NewDraft())

	assert.Equal(t, "keep me", base.Content.Text)
	assert.Equal(t, []string{"keep"}, base.Content.Hashtags)
	assert.Len(t, base.Content.Media, 1)
}

func TestMergeFrom_AccumulatesPlatforms(t *testing.T) {
	base := NewDraft()
	base.AddPlatform(PlatformTwitter)

	incoming := NewDraft()
	incoming.AddPlatform(PlatformTikTok)
	incoming.AddPlatform(PlatformTwitter)

	base.MergeFrom(incoming)

	assert.Equal(t, []Platform{PlatformTwitter, PlatformTikTok}, base.Platforms)
}

func TestMergeFrom_ExistingTargetConfigWins(t *testing.T) {
	base := NewDraft()
	base.AddPlatform(PlatformFacebook)
	base.TargetConfigs[PlatformFacebook] = TargetConfig{}.WithPage("page-1")

	incoming := NewDraft()
	incoming.AddPlatform(PlatformFacebook)
	incoming.TargetConfigs[PlatformFacebook] = TargetConfig{}.WithPage("page-2")

	base.MergeFrom(incoming)

	assert.Equal(t, "page-1", base.TargetConfigs[PlatformFacebook].PageID)
}

func TestMergeFrom_Nil(t *testing.T) {
	base := NewDraft()
	base.Content.Text = "safe"

	base.MergeFrom(nil)

	assert.Equal(t, "safe", base.Content.Text)
}

func TestClone_DeepCopy(t *testing.T) {
	original := NewDraft()
	original.Content.Text = "text"
	original.Content.Hashtags = []string{"tag"}
	original.AddPlatform(PlatformTwitter)
	original.SetMedia([]MediaReference{{URI: "file:///a.jpg", MimeType: "image/jpeg"}})
	at := time.Now().Add(time.Hour)
	original.Scheduling = Scheduling{At: &at}

	clone := original.Clone()
	clone.Content.Hashtags[0] = "mutated"
	clone.AddPlatform(PlatformTikTok)
	clone.TargetConfigs[PlatformTwitter] = TargetConfig{PageID: "mutated"}
	*clone.Scheduling.At = clone.Scheduling.At.Add(time.Hour)

	assert.Equal(t, []string{"tag"}, original.Content.Hashtags)
	assert.Equal(t, []Platform{PlatformTwitter}, original.Platforms)
	assert.Empty(t, original.TargetConfigs[PlatformTwitter].PageID)
	assert.Equal(t, at, *original.Scheduling.At)
}

func TestClone_Nil(t *testing.T) {
	var d *Draft
	assert.Nil(t, d.Clone())
}

func TestMediaReferenceKind(t *testing.T) {
	assert.Equal(t, MediaKindImage, MediaReference{MimeType: "image/png"}.Kind())
	assert.Equal(t, MediaKindVideo, MediaReference{MimeType: "video/mp4"}.Kind())
	assert.Equal(t, MediaKindAny, MediaReference{MimeType: "application/pdf"}.Kind())
}

func TestPublishResult_AllSucceeded(t *testing.T) {
	assert.False(t, PublishResult{}.AllSucceeded())

	mixed := PublishResult{Outcomes: map[Platform]PublishOutcome{
		PlatformTwitter: {Success: true},
		PlatformTikTok:  {Success: false},
	}}
	assert.False(t, mixed.AllSucceeded())

	good := PublishResult{Outcomes: map[Platform]PublishOutcome{
		PlatformTwitter: {Success: true, PostID: "1"},
	}}
	assert.True(t, good.AllSucceeded())
	assert.Equal(t, map[Platform]string{PlatformTwitter: "1"}, good.PostIDs())
}
