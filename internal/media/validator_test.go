package media

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/speakpost/speakpost-backend/internal/common"
	"github.com/speakpost/speakpost-backend/internal/domain"
)

// erroringResolver fails Resolve for one configured URI
type erroringResolver struct {
	inner   *MemoryResolver
	failURI string
}

func (r *erroringResolver) Search(ctx context.Context, query string, kinds []domain.MediaKind) ([]domain.MediaReference, error) {
	return r.inner.Search(ctx, query, kinds)
}

func (r *erroringResolver) Resolve(ctx context.Context, ref domain.MediaReference) (Resolution, error) {
	if ref.URI == r.failURI {
		return Resolution{}, errors.New("backend unavailable")
	}
	return r.inner.Resolve(ctx, ref)
}

func TestValidateAndRecover_Valid(t *testing.T) {
	resolver := NewMemoryResolver()
	ref := domain.MediaReference{URI: "file:///a.jpg", MimeType: "image/jpeg"}
	resolver.Add(ref)
	v := NewValidator(resolver)

	outcomes := v.ValidateAndRecover(context.Background(), []domain.MediaReference{ref})

	assert.Len(t, outcomes, 1)
	assert.Equal(t, ResolutionValid, outcomes[0].Status)
	assert.Nil(t, outcomes[0].Recovered)
}

func TestValidateAndRecover_RecoversByBaseName(t *testing.T) {
	resolver := NewMemoryResolver()
	resolver.Add(domain.MediaReference{URI: "file:///new/path/a.jpg", MimeType: "image/jpeg"})
	v := NewValidator(resolver)

	stale := domain.MediaReference{URI: "file:///old/path/a.jpg", MimeType: "image/jpeg"}
	outcomes := v.ValidateAndRecover(context.Background(), []domain.MediaReference{stale})

	assert.Equal(t, ResolutionRecovered, outcomes[0].Status)
	assert.NotNil(t, outcomes[0].Recovered)
	assert.Equal(t, "file:///new/path/a.jpg", outcomes[0].Recovered.URI)
}

func TestValidateAndRecover_Unresolvable(t *testing.T) {
	v := NewValidator(NewMemoryResolver())

	outcomes := v.ValidateAndRecover(context.Background(), []domain.MediaReference{
		{URI: "file:///gone.jpg", MimeType: "image/jpeg"},
	})

	assert.Equal(t, ResolutionFailed, outcomes[0].Status)
}

func TestValidateAndRecover_ResolverErrorDegradesToFailedItem(t *testing.T) {
	inner := NewMemoryResolver()
	good := domain.MediaReference{URI: "file:///good.jpg", MimeType: "image/jpeg"}
	inner.Add(good)
	v := NewValidator(&erroringResolver{inner: inner, failURI: "file:///flaky.jpg"})

	outcomes := v.ValidateAndRecover(context.Background(), []domain.MediaReference{
		{URI: "file:///flaky.jpg", MimeType: "image/jpeg"},
		good,
	})

	// the error hit one item only; its sibling still validated
	assert.Equal(t, ResolutionFailed, outcomes[0].Status)
	assert.Equal(t, ResolutionValid, outcomes[1].Status)
}

func TestApply_ReplacesRecoveredEverywhere(t *testing.T) {
	draft := domain.NewDraft()
	draft.AddPlatform(domain.PlatformInstagram)
	stale := domain.MediaReference{URI: "file:///old/a.jpg", MimeType: "image/jpeg"}
	draft.SetMedia([]domain.MediaReference{stale})

	recovered := domain.MediaReference{URI: "file:///new/a.jpg", MimeType: "image/jpeg"}
	dropped, err := Apply(draft, []ItemOutcome{
		{Ref: stale, Status: ResolutionRecovered, Recovered: &recovered},
	})

	assert.NoError(t, err)
	assert.Empty(t, dropped)
	assert.Equal(t, "file:///new/a.jpg", draft.Content.Media[0].URI)
	// target configs must agree with content media
	assert.Equal(t, "file:///new/a.jpg", draft.TargetConfigs[domain.PlatformInstagram].MediaURI)
}

func TestApply_DropsFailed(t *testing.T) {
	draft := domain.NewDraft()
	draft.Content.Text = "still has text"
	draft.AddPlatform(domain.PlatformTwitter)
	dead := domain.MediaReference{URI: "file:///dead.jpg", MimeType: "image/jpeg"}
	keep := domain.MediaReference{URI: "file:///keep.jpg", MimeType: "image/jpeg"}
	draft.SetMedia([]domain.MediaReference{dead, keep})

	dropped, err := Apply(draft, []ItemOutcome{
		{Ref: dead, Status: ResolutionFailed},
		{Ref: keep, Status: ResolutionValid},
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"file:///dead.jpg"}, dropped)
	assert.Len(t, draft.Content.Media, 1)
	assert.Equal(t, "file:///keep.jpg", draft.Content.Media[0].URI)
}

func TestApply_AllMediaLostWithoutText(t *testing.T) {
	draft := domain.NewDraft()
	draft.AddPlatform(domain.PlatformInstagram)
	dead := domain.MediaReference{URI: "file:///only.jpg", MimeType: "image/jpeg"}
	draft.SetMedia([]domain.MediaReference{dead})

	_, err := Apply(draft, []ItemOutcome{{Ref: dead, Status: ResolutionFailed}})

	assert.ErrorIs(t, err, common.ErrEmptyDraft)
}

func TestBestMatch_KindFilter(t *testing.T) {
	image := domain.MediaReference{URI: "a.jpg", MimeType: "image/jpeg"}
	video := domain.MediaReference{URI: "b.mp4", MimeType: "video/mp4"}

	got, ok := BestMatch([]domain.MediaReference{image, video}, domain.MediaKindVideo)
	assert.True(t, ok)
	assert.Equal(t, "b.mp4", got.URI)

	got, ok = BestMatch([]domain.MediaReference{image, video}, domain.MediaKindAny)
	assert.True(t, ok)
	assert.Equal(t, "a.jpg", got.URI)

	_, ok = BestMatch([]domain.MediaReference{image}, domain.MediaKindVideo)
	assert.False(t, ok)
}

func TestMemoryResolver_SearchFiltersKindAndTerms(t *testing.T) {
	r := NewMemoryResolver()
	r.Add(
		domain.MediaReference{URI: "file:///beach-day.jpg", MimeType: "image/jpeg"},
		domain.MediaReference{URI: "file:///beach-trip.mp4", MimeType: "video/mp4"},
		domain.MediaReference{URI: "file:///city.jpg", MimeType: "image/jpeg"},
	)

	got, err := r.Search(context.Background(), "beach", []domain.MediaKind{domain.MediaKindImage})

	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "file:///beach-day.jpg", got[0].URI)
}
