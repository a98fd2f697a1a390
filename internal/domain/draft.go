package domain

import (
	"time"

	"github.com/google/uuid"
)

// Content is the free-form body of a draft post
type Content struct {
	Text     string           `json:"text"`
	Hashtags []string         `json:"hashtags"`
	Mentions []string         `json:"mentions"`
	Media    []MediaReference `json:"media"`
}

// IsEmpty reports whether the content carries neither text nor media
func (c Content) IsEmpty() bool {
	return c.Text == "" && len(c.Media) == 0
}

// TargetConfig holds target-specific publishing options for one platform.
// It is an immutable value: updates go through the With* methods, which
// return a modified copy instead of mutating in place.
type TargetConfig struct {
	PostAsPage      bool   `json:"post_as_page,omitempty"`
	PageID          string `json:"page_id,omitempty"`
	VideoPrivacy    string `json:"video_privacy,omitempty"`
	DisableComments bool   `json:"disable_comments,omitempty"`
	// MediaURI mirrors the draft's selected media for targets that
	// publish a single file. Rewritten whenever draft media changes.
	MediaURI string `json:"media_uri,omitempty"`
}

// WithMediaURI returns a copy with the media file reference replaced
func (tc TargetConfig) WithMediaURI(uri string) TargetConfig {
	tc.MediaURI = uri
	return tc
}

// WithPage returns a copy configured to post as the given page
func (tc TargetConfig) WithPage(pageID string) TargetConfig {
	tc.PostAsPage = true
	tc.PageID = pageID
	return tc
}

// WithVideoPrivacy returns a copy with the video privacy option set
func (tc TargetConfig) WithVideoPrivacy(privacy string) TargetConfig {
	tc.VideoPrivacy = privacy
	return tc
}

// Scheduling captures when the draft should be published
type Scheduling struct {
	Immediate bool       `json:"immediate"`
	At        *time.Time `json:"at,omitempty"`
}

// Draft is the mutable unit of work for one in-progress post.
// It is mutated exclusively through Coordinator methods; external readers
// get a Clone and must treat it as immutable.
type Draft struct {
	ID            string                    `json:"id"`
	CreatedAt     time.Time                 `json:"created_at"`
	Platforms     []Platform                `json:"platforms" validate:"min=1,dive,required"`
	Content       Content                   `json:"content"`
	TargetConfigs map[Platform]TargetConfig `json:"target_configs,omitempty"`
	Scheduling    Scheduling                `json:"scheduling"`

	// Bookkeeping
	AIGenerated    bool   `json:"ai_generated"`
	Transcript     string `json:"transcript,omitempty"`
	FallbackReason string `json:"fallback_reason,omitempty"`
}

// NewDraft creates an empty draft with a fresh ID
func NewDraft() *Draft {
	return &Draft{
		ID:            uuid.NewString(),
		CreatedAt:     time.Now(),
		TargetConfigs: make(map[Platform]TargetConfig),
		Scheduling:    Scheduling{Immediate: true},
	}
}

// HasContent reports whether the draft carries text or media
func (d *Draft) HasContent() bool {
	return !d.Content.IsEmpty()
}

// HasMedia reports whether the draft carries at least one media item
func (d *Draft) HasMedia() bool {
	return len(d.Content.Media) > 0
}

// HasPlatform reports whether the platform is already selected
func (d *Draft) HasPlatform(p Platform) bool {
	for _, existing := range d.Platforms {
		if existing == p {
			return true
		}
	}
	return false
}

// AddPlatform selects a platform, keeping the list unique and display-stable
func (d *Draft) AddPlatform(p Platform) {
	if d.HasPlatform(p) {
		return
	}
	d.Platforms = append(d.Platforms, p)
	if d.TargetConfigs == nil {
		d.TargetConfigs = make(map[Platform]TargetConfig)
	}
	if _, ok := d.TargetConfigs[p]; !ok {
		d.TargetConfigs[p] = TargetConfig{}
	}
}

// RemovePlatform deselects a platform and drops its target config
func (d *Draft) RemovePlatform(p Platform) {
	for i, existing := range d.Platforms {
		if existing == p {
			d.Platforms = append(d.Platforms[:i], d.Platforms[i+1:]...)
			break
		}
	}
	delete(d.TargetConfigs, p)
}

// SetMedia replaces the draft's media list and rewrites every per-target
// media file reference in the same step. Content media and target configs
// must never disagree about which file is selected.
func (d *Draft) SetMedia(media []MediaReference) {
	d.Content.Media = media

	primary := ""
	if len(media) > 0 {
		primary = media[0].URI
	}
	for p, tc := range d.TargetConfigs {
		if tc.MediaURI != "" || primary != "" {
			d.TargetConfigs[p] = tc.WithMediaURI(primary)
		}
	}
}

// ReplaceMedia swaps one media reference for another, keeping target
// configs consistent. Used when a stale reference has been recovered.
func (d *Draft) ReplaceMedia(oldURI string, recovered MediaReference) {
	for i, m := range d.Content.Media {
		if m.URI == oldURI {
			d.Content.Media[i] = recovered
		}
	}
	for p, tc := range d.TargetConfigs {
		if tc.MediaURI == oldURI {
			d.TargetConfigs[p] = tc.WithMediaURI(recovered.URI)
		}
	}
}

// DropMedia removes a media reference by URI, clearing matching target
// config references
func (d *Draft) DropMedia(uri string) {
	kept := d.Content.Media[:0]
	for _, m := range d.Content.Media {
		if m.URI != uri {
			kept = append(kept, m)
		}
	}
	d.Content.Media = kept

	replacement := ""
	if len(kept) > 0 {
		replacement = kept[0].URI
	}
	for p, tc := range d.TargetConfigs {
		if tc.MediaURI == uri {
			d.TargetConfigs[p] = tc.WithMediaURI(replacement)
		}
	}
}

// MergeFrom merges another draft into this one with field-level
// "non-empty wins" semantics, so repeated voice commands are additive
// rather than destructive.
func (d *Draft) MergeFrom(other *Draft) {
	if other == nil {
		return
	}
	if other.Content.Text != "" {
		d.Content.Text = other.Content.Text
	}
	if len(other.Content.Hashtags) > 0 {
		d.Content.Hashtags = mergeUnique(d.Content.Hashtags, other.Content.Hashtags)
	}
	if len(other.Content.Mentions) > 0 {
		d.Content.Mentions = mergeUnique(d.Content.Mentions, other.Content.Mentions)
	}
	if len(other.Content.Media) > 0 {
		d.SetMedia(other.Content.Media)
	}
	for _, p := range other.Platforms {
		d.AddPlatform(p)
	}
	for p, tc := range other.TargetConfigs {
		if existing, ok := d.TargetConfigs[p]; !ok || existing == (TargetConfig{}) {
			d.TargetConfigs[p] = tc
		}
	}
	if other.Scheduling.At != nil {
		d.Scheduling = other.Scheduling
	}
	if other.AIGenerated {
		d.AIGenerated = true
	}
	if other.Transcript != "" {
		d.Transcript = other.Transcript
	}
	if other.FallbackReason != "" {
		d.FallbackReason = other.FallbackReason
	}
}

// Clone returns a deep copy safe to hand to external readers
func (d *Draft) Clone() *Draft {
	if d == nil {
		return nil
	}
	clone := *d
	clone.Platforms = append([]Platform(nil), d.Platforms...)
	clone.Content.Hashtags = append([]string(nil), d.Content.Hashtags...)
	clone.Content.Mentions = append([]string(nil), d.Content.Mentions...)
	clone.Content.Media = append([]MediaReference(nil), d.Content.Media...)
	clone.TargetConfigs = make(map[Platform]TargetConfig, len(d.TargetConfigs))
	for p, tc := range d.TargetConfigs {
		clone.TargetConfigs[p] = tc
	}
	if d.Scheduling.At != nil {
		at := *d.Scheduling.At
		clone.Scheduling.At = &at
	}
	return &clone
}

func mergeUnique(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	for _, v := range base {
		seen[v] = true
	}
	for _, v := range extra {
		if !seen[v] {
			base = append(base, v)
			seen[v] = true
		}
	}
	return base
}
