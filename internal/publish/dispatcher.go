package publish

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/speakpost/speakpost-backend/internal/auth"
	"github.com/speakpost/speakpost-backend/internal/catalog"
	"github.com/speakpost/speakpost-backend/internal/common"
	"github.com/speakpost/speakpost-backend/internal/domain"
	"github.com/speakpost/speakpost-backend/internal/media"
	pkglogger "github.com/speakpost/speakpost-backend/pkg/logger"
)

// Target is the resolved access target for one publish call
type Target struct {
	Platform   domain.Platform
	Credential string
	SubAccount *domain.SubAccount
	Config     domain.TargetConfig
}

// Publisher is the per-platform publishing contract. Implementations
// must reject, not crash, when handed a media-required target without
// media; the dispatcher additionally screens for that case up front.
type Publisher interface {
	Publish(ctx context.Context, draft *domain.Draft, target Target) (postID string, err error)
}

// ProgressSink receives incremental events during a streaming dispatch
type ProgressSink func(domain.ProgressEvent)

// Dispatcher fans a draft out to its automated targets. Failures are
// independent: one target failing never aborts its siblings.
type Dispatcher struct {
	publishers     map[domain.Platform]Publisher
	mediaValidator *media.Validator
	authState      auth.Provider
	validate       *validator.Validate
}

// NewDispatcher creates a Dispatcher
func NewDispatcher(publishers map[domain.Platform]Publisher, mediaValidator *media.Validator, authState auth.Provider) *Dispatcher {
	return &Dispatcher{
		publishers:     publishers,
		mediaValidator: mediaValidator,
		authState:      authState,
		validate:       validator.New(),
	}
}

// Dispatch publishes the draft to every automated target and returns
// the final per-target result map
func (d *Dispatcher) Dispatch(ctx context.Context, draft *domain.Draft, selectedSubAccounts map[domain.Platform]domain.SubAccount) (domain.PublishResult, error) {
	return d.DispatchStream(ctx, draft, selectedSubAccounts, nil)
}

// DispatchStream is Dispatch with incremental progress events
// (queued → in-flight → success/error). A nil sink disables streaming;
// both modes share identical pre-steps.
func (d *Dispatcher) DispatchStream(ctx context.Context, draft *domain.Draft, selectedSubAccounts map[domain.Platform]domain.SubAccount, sink ProgressSink) (domain.PublishResult, error) {
	result := domain.PublishResult{
		DraftID:  draft.ID,
		Outcomes: make(map[domain.Platform]domain.PublishOutcome),
	}

	buckets, err := d.prepare(ctx, draft, selectedSubAccounts)
	if err != nil {
		return result, err
	}
	result.Manual = buckets.Manual

	emit := func(ev domain.ProgressEvent) {
		if sink != nil {
			sink(ev)
		}
	}

	for _, p := range buckets.Automated {
		emit(domain.ProgressEvent{Platform: p, Phase: domain.ProgressQueued})
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, p := range buckets.Automated {
		wg.Add(1)
		go func(p domain.Platform) {
			defer wg.Done()

			emit(domain.ProgressEvent{Platform: p, Phase: domain.ProgressInFlight})
			outcome := d.publishOne(ctx, draft, p, selectedSubAccounts)

			if outcome.Success {
				emit(domain.ProgressEvent{Platform: p, Phase: domain.ProgressSuccess, Fraction: 1})
			} else {
				emit(domain.ProgressEvent{Platform: p, Phase: domain.ProgressError, Error: outcome.Error})
			}

			mu.Lock()
			result.Outcomes[p] = outcome
			mu.Unlock()
		}(p)
	}
	wg.Wait()

	return result, nil
}

// prepare runs the shared pre-steps: struct validation, defensive media
// validation/recovery, bucketing. The elapsed time between draft
// creation and publish is arbitrary, so media is always re-checked here
// even when it was validated at load time.
func (d *Dispatcher) prepare(ctx context.Context, draft *domain.Draft, selectedSubAccounts map[domain.Platform]domain.SubAccount) (Buckets, error) {
	if len(draft.Platforms) == 0 {
		return Buckets{}, common.ErrNoTargets
	}
	if err := d.validate.Struct(draft); err != nil {
		return Buckets{}, fmt.Errorf("draft validation: %w", err)
	}
	if !draft.HasContent() {
		return Buckets{}, common.ErrEmptyDraft
	}

	if draft.HasMedia() {
		outcomes := d.mediaValidator.ValidateAndRecover(ctx, draft.Content.Media)
		if dropped, err := media.Apply(draft, outcomes); err != nil {
			return Buckets{}, err
		} else if len(dropped) > 0 {
			pkglogger.WithDraftID(draft.ID).Warn().
				Strs("dropped", dropped).
				Msg("dropped unrecoverable media before publish")
		}
	}

	return ComputeBuckets(draft, d.authState, selectedSubAccounts), nil
}

func (d *Dispatcher) publishOne(ctx context.Context, draft *domain.Draft, p domain.Platform, selectedSubAccounts map[domain.Platform]domain.SubAccount) domain.PublishOutcome {
	outcome := domain.PublishOutcome{Platform: p}

	if catalog.RequiresMedia(p) && !draft.HasMedia() {
		outcome.Error = common.ErrMediaRequired.Error()
		publishTotal.WithLabelValues(p.String(), "rejected").Inc()
		return outcome
	}

	target, err := d.resolveTarget(p, draft, selectedSubAccounts)
	if err != nil {
		outcome.Error = err.Error()
		publishTotal.WithLabelValues(p.String(), "unauthenticated").Inc()
		return outcome
	}

	publisher, ok := d.publishers[p]
	if !ok {
		outcome.Error = fmt.Sprintf("no publisher registered for %s", p)
		publishTotal.WithLabelValues(p.String(), "error").Inc()
		return outcome
	}

	start := time.Now()
	postID, err := publisher.Publish(ctx, draft, target)
	publishDuration.WithLabelValues(p.String()).Observe(time.Since(start).Seconds())

	if err != nil {
		outcome.Error = err.Error()
		publishTotal.WithLabelValues(p.String(), "error").Inc()
		pkglogger.WithPlatform(p.String()).Error().Err(err).Str("draft_id", draft.ID).Msg("publish failed")
		return outcome
	}

	outcome.Success = true
	outcome.PostID = postID
	publishTotal.WithLabelValues(p.String(), "success").Inc()
	return outcome
}

// resolveTarget picks the access target: the selected sub-account when
// one was chosen, otherwise the platform's default stored credential
func (d *Dispatcher) resolveTarget(p domain.Platform, draft *domain.Draft, selectedSubAccounts map[domain.Platform]domain.SubAccount) (Target, error) {
	target := Target{Platform: p, Config: draft.TargetConfigs[p]}

	if sub, ok := selectedSubAccounts[p]; ok {
		target.SubAccount = &sub
		target.Credential = sub.AccessToken
		if target.Credential != "" {
			return target, nil
		}
	}

	cred, ok := d.authState.Credential(p)
	if !ok {
		return Target{}, fmt.Errorf("%s: %w", p, common.ErrNotAuthenticated)
	}
	target.Credential = cred
	return target, nil
}
