// Package coordinator is the stateful core of the voice-to-post
// pipeline. One coordinator instance owns one draft at a time and
// serializes every mutating operation behind a non-blocking transition
// lock; everything it depends on is a narrow contract that can be
// swapped or mocked.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/speakpost/speakpost-backend/internal/catalog"
	"github.com/speakpost/speakpost-backend/internal/common"
	"github.com/speakpost/speakpost-backend/internal/config"
	"github.com/speakpost/speakpost-backend/internal/domain"
	"github.com/speakpost/speakpost-backend/internal/generator"
	"github.com/speakpost/speakpost-backend/internal/interpreter"
	"github.com/speakpost/speakpost-backend/internal/media"
	"github.com/speakpost/speakpost-backend/internal/publish"
	"github.com/speakpost/speakpost-backend/internal/repository"
	pkglogger "github.com/speakpost/speakpost-backend/pkg/logger"
)

// Interpreter is the transcript interpretation contract
type Interpreter interface {
	ParseMediaRequest(text string) *interpreter.MediaRequest
	ExtractPlatforms(text string) []domain.Platform
	HasRecentMediaIndicators(text string) bool
	HasMediaReference(text string) bool
}

// defaultInterpreter adapts the pattern-rule package functions
type defaultInterpreter struct{}

func (defaultInterpreter) ParseMediaRequest(text string) *interpreter.MediaRequest {
	return interpreter.ParseMediaRequest(text)
}
func (defaultInterpreter) ExtractPlatforms(text string) []domain.Platform {
	return interpreter.ExtractPlatforms(text)
}
func (defaultInterpreter) HasRecentMediaIndicators(text string) bool {
	return interpreter.HasRecentMediaIndicators(text)
}
func (defaultInterpreter) HasMediaReference(text string) bool {
	return interpreter.HasMediaReference(text)
}

// AuthProvider mirrors auth.Provider without importing the package,
// keeping the coordinator's dependency surface to contracts only
type AuthProvider interface {
	IsAuthenticated(p domain.Platform) bool
	SubAccountsFor(p domain.Platform) []domain.SubAccount
	Credential(p domain.Platform) (string, bool)
}

// Deps wires the coordinator's collaborators
type Deps struct {
	Interpreter Interpreter                // nil = built-in pattern rules
	Generator   generator.Generator        // external AI generator, may be nil
	Fallback    *generator.Fallback        // required
	Resolver    media.Resolver             // required
	Validator   *media.Validator           // required
	Dispatcher  *publish.Dispatcher        // required
	Repo        repository.DraftRepository // optional, fire-and-continue
	Auth        AuthProvider               // required
}

// Snapshot is an immutable view for external readers
type Snapshot struct {
	State      State                `json:"state"`
	Draft      *domain.Draft        `json:"draft"`
	Status     domain.StatusMessage `json:"status"`
	NeedsMedia bool                 `json:"needs_media"`
	Buckets    publish.Buckets      `json:"buckets"`
}

// Coordinator drives the record → transcribe → merge → validate →
// publish pipeline for a single draft
type Coordinator struct {
	deps Deps

	transition transitionLock
	mu         sync.Mutex // guards all fields below

	state      State
	draft      *domain.Draft
	needsMedia bool
	lastError  string

	selectedSubAccounts map[domain.Platform]domain.SubAccount

	textEditing    bool
	hashtagEditing bool

	ampMu     sync.Mutex // amplitude updates arrive at sample rate
	amplitude amplitudeStats

	watchdogMu sync.Mutex
	watchdog   *time.Timer

	status    *statusQueue
	listeners *listenerSet
	disposed  atomic.Bool

	watchdogWindow  time.Duration
	speechThreshold float64
	statusAutoClear time.Duration
}

// New creates a coordinator with an empty draft in Idle state
func New(deps Deps, cfg config.PipelineConfig) *Coordinator {
	if deps.Interpreter == nil {
		deps.Interpreter = defaultInterpreter{}
	}

	c := &Coordinator{
		deps:                deps,
		state:               StateIdle,
		draft:               domain.NewDraft(),
		selectedSubAccounts: make(map[domain.Platform]domain.SubAccount),
		listeners:           newListenerSet(),
		watchdogWindow:      cfg.WatchdogWindow(),
		speechThreshold:     cfg.SpeechThresholdDB,
		statusAutoClear:     cfg.StatusAutoClear(),
	}
	c.status = newStatusQueue(func() { c.notify(EventStatusChanged) })
	return c
}

// State returns the current pipeline state
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns an immutable view of the coordinator. The draft is a
// deep copy; buckets are recomputed on every call, never cached, since
// authentication may have changed since the last computation.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:      c.state,
		Draft:      c.draft.Clone(),
		Status:     c.status.active(c.primaryStatusLocked()),
		NeedsMedia: c.needsMedia,
		Buckets:    publish.ComputeBuckets(c.draft, c.deps.Auth, c.selectedSubAccounts),
	}
}

// StartRecording begins a recording. Allowed only when no pipeline
// stage is in flight; a rejected call is a logged no-op the caller may
// retry. Re-entering Recording while the draft has content is the
// edit-in-place flow: new dictation merges into the existing draft.
func (c *Coordinator) StartRecording() error {
	if c.disposed.Load() {
		return common.ErrDisposed
	}
	if !c.transition.tryAcquire() {
		pkglogger.GetLogger().Debug().Msg("startRecording rejected: transition in flight")
		return common.ErrBusy
	}
	defer c.transition.release()

	c.mu.Lock()
	if c.state.inFlight() {
		c.mu.Unlock()
		pkglogger.GetLogger().Debug().Str("state", string(c.state)).Msg("startRecording rejected: not idle")
		return common.ErrInvalidState
	}
	c.state = StateRecording
	c.lastError = ""
	c.mu.Unlock()

	c.ampMu.Lock()
	c.amplitude.reset()
	c.ampMu.Unlock()

	c.status.clear()
	c.notify(EventStateChanged)
	return nil
}

// UpdateAmplitude records one amplitude sample during recording. This
// is a pure data update: it never transitions state and is never
// rejected by the transition lock, because samples arrive at sample
// rate and must not be dropped.
func (c *Coordinator) UpdateAmplitude(level float64) {
	c.ampMu.Lock()
	c.amplitude.update(level, c.speechThreshold)
	c.ampMu.Unlock()
}

// SpeechDetected reports whether any sample crossed the speech threshold
func (c *Coordinator) SpeechDetected() bool {
	c.ampMu.Lock()
	defer c.ampMu.Unlock()
	return c.amplitude.speechDetected
}

// StopRecording ends the recording. With detected speech the pipeline
// moves to Processing and a watchdog is armed; silence short-circuits
// everything back to Idle with a warning and no downstream work.
func (c *Coordinator) StopRecording() error {
	if c.disposed.Load() {
		return common.ErrDisposed
	}
	if !c.transition.tryAcquire() {
		return common.ErrBusy
	}
	defer c.transition.release()

	c.mu.Lock()
	if c.state != StateRecording {
		c.mu.Unlock()
		return common.ErrInvalidState
	}

	c.ampMu.Lock()
	speech := c.amplitude.speechDetected
	maxAmp, avgAmp := c.amplitude.max, c.amplitude.average()
	c.ampMu.Unlock()

	if !speech {
		c.state = StateIdle
		c.mu.Unlock()

		pkglogger.GetLogger().Info().
			Float64("max", maxAmp).
			Float64("avg", avgAmp).
			Msg("no speech detected, skipping pipeline")
		c.status.setTemporary(domain.StatusMessage{
			Text:     "No speech detected",
			Severity: domain.SeverityWarning,
			Priority: domain.PriorityMedium,
		}, c.statusAutoClear)
		c.notify(EventStateChanged)
		return common.ErrNoSpeech
	}

	c.state = StateProcessing
	c.mu.Unlock()

	c.armWatchdog()
	c.notify(EventStateChanged)
	return nil
}

// ProcessTranscription runs the full pipeline for one transcript. The
// transition lock is held from entry to the terminal state; the
// external calls inside are bounded by the watchdog window.
func (c *Coordinator) ProcessTranscription(ctx context.Context, text string) error {
	if c.disposed.Load() {
		return common.ErrDisposed
	}
	if !c.transition.tryAcquire() {
		return common.ErrBusy
	}
	defer c.transition.release()

	c.mu.Lock()
	if c.state != StateProcessing {
		c.mu.Unlock()
		return common.ErrInvalidState
	}
	c.mu.Unlock()

	// The watchdog timer served the gap between stopRecording and the
	// transcript arriving; from here the deadline bounds the stages.
	c.cancelWatchdog()
	cctx, cancel := context.WithTimeout(ctx, c.watchdogWindow)
	defer cancel()

	// (a) explicit media request
	preSelected, needsMedia := c.resolveRequestedMedia(cctx, text)

	// (b) generate, falling back to the local baseline on any failure;
	// generation failure is never fatal
	gen := c.generate(cctx, text, preSelected)

	if cctx.Err() != nil {
		c.failProcessing("Processing timed out")
		return common.ErrProcessingExpired
	}

	c.mu.Lock()
	// (c) additive merge: non-empty fields win, edits accumulate
	c.draft.MergeFrom(gen)

	// (d) attach pre-selected media if the merge didn't bring any
	if !c.draft.HasMedia() && len(preSelected) > 0 {
		c.draft.SetMedia(preSelected)
	}

	// (e) sanitize
	c.draft.Content.Text = sanitizeText(c.draft.Content.Text)
	c.draft.Content.Hashtags = normalizeTags(c.draft.Content.Hashtags)
	if len(c.draft.Platforms) == 0 {
		c.draft.AddPlatform(c.defaultPlatformLocked())
	}

	c.needsMedia = needsMedia && !c.draft.HasMedia()
	// Processing is over; recompute the terminal state from the draft
	c.state = StateIdle
	c.refreshTerminalStateLocked()
	state := c.state
	draft := c.draft.Clone()
	c.mu.Unlock()

	c.persist(draft)

	if state == StateNeedsMedia {
		c.status.setTemporary(domain.StatusMessage{
			Text:     "Add media to continue",
			Severity: domain.SeverityInfo,
			Priority: domain.PriorityMedium,
		}, 0)
	}
	c.notify(EventStateChanged)
	return nil
}

// resolveRequestedMedia detects a "find media like X" request and
// pre-selects the best match of the requested kind. A requested kind
// with no match is not a failure: it flags needsMedia and the pipeline
// continues.
func (c *Coordinator) resolveRequestedMedia(ctx context.Context, text string) ([]domain.MediaReference, bool) {
	req := c.deps.Interpreter.ParseMediaRequest(text)
	if req == nil {
		return nil, false
	}

	var kinds []domain.MediaKind
	if req.Kind != domain.MediaKindAny {
		kinds = []domain.MediaKind{req.Kind}
	}

	candidates, err := c.deps.Resolver.Search(ctx, req.Query, kinds)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("media search failed, continuing without media")
		return nil, true
	}

	best, ok := media.BestMatch(candidates, req.Kind)
	if !ok {
		return nil, true
	}
	return []domain.MediaReference{best}, false
}

func (c *Coordinator) generate(ctx context.Context, text string, preSelected []domain.MediaReference) *domain.Draft {
	if c.deps.Generator != nil {
		gen, err := c.deps.Generator.Generate(ctx, text, preSelected)
		if err == nil && gen != nil {
			gen.AIGenerated = true
			gen.Transcript = text
			return gen
		}
		pkglogger.GetLogger().Warn().Err(err).Msg("generator failed, using baseline fallback")
	}

	gen, _ := c.deps.Fallback.Generate(ctx, text, preSelected)
	return gen
}

// SelectMedia attaches user-chosen media to the draft, resolving a
// pending NeedsMedia state when possible
func (c *Coordinator) SelectMedia(refs []domain.MediaReference) error {
	if c.disposed.Load() {
		return common.ErrDisposed
	}
	if !c.transition.tryAcquire() {
		return common.ErrBusy
	}
	defer c.transition.release()

	c.mu.Lock()
	if c.state.inFlight() {
		c.mu.Unlock()
		return common.ErrInvalidState
	}
	c.draft.SetMedia(refs)
	c.needsMedia = false
	c.refreshTerminalStateLocked()
	draft := c.draft.Clone()
	c.mu.Unlock()

	c.persist(draft)
	c.notify(EventDraftChanged)
	return nil
}

// SelectSubAccount chooses the business/creator sub-account used for a
// platform. Selections live for the lifetime of the coordinator.
func (c *Coordinator) SelectSubAccount(p domain.Platform, sub domain.SubAccount) error {
	if !p.IsValid() {
		return common.ErrUnknownPlatform
	}
	c.mu.Lock()
	c.selectedSubAccounts[p] = sub
	c.mu.Unlock()

	c.notify(EventDraftChanged)
	return nil
}

// SelectedSubAccounts returns a copy of the per-platform selections
func (c *Coordinator) SelectedSubAccounts() map[domain.Platform]domain.SubAccount {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[domain.Platform]domain.SubAccount, len(c.selectedSubAccounts))
	for p, sub := range c.selectedSubAccounts {
		out[p] = sub
	}
	return out
}

// ComputeBuckets classifies the draft's targets right now. Derived, not
// stored: authentication and sub-account state can change between calls.
func (c *Coordinator) ComputeBuckets() publish.Buckets {
	c.mu.Lock()
	defer c.mu.Unlock()
	return publish.ComputeBuckets(c.draft, c.deps.Auth, c.selectedSubAccounts)
}

// Publish fans the draft out to its automated targets and returns the
// per-target result map
func (c *Coordinator) Publish(ctx context.Context) (domain.PublishResult, error) {
	return c.publish(ctx, nil)
}

// PublishStream is Publish with incremental progress events forwarded
// to subscribers
func (c *Coordinator) PublishStream(ctx context.Context) (domain.PublishResult, error) {
	return c.publish(ctx, c.notifyProgress)
}

func (c *Coordinator) publish(ctx context.Context, sink publish.ProgressSink) (domain.PublishResult, error) {
	if c.disposed.Load() {
		return domain.PublishResult{}, common.ErrDisposed
	}
	if !c.transition.tryAcquire() {
		return domain.PublishResult{}, common.ErrBusy
	}
	defer c.transition.release()

	c.mu.Lock()
	if c.state.inFlight() {
		c.mu.Unlock()
		return domain.PublishResult{}, common.ErrInvalidState
	}
	working := c.draft.Clone()
	selected := make(map[domain.Platform]domain.SubAccount, len(c.selectedSubAccounts))
	for p, sub := range c.selectedSubAccounts {
		selected[p] = sub
	}
	c.mu.Unlock()

	result, err := c.deps.Dispatcher.DispatchStream(ctx, working, selected, sink)
	if err != nil {
		c.surfaceError(publishErrorText(err))
		return result, err
	}

	// The dispatcher may have recovered or dropped media on the working
	// copy; fold that back so the live draft never keeps a dead reference.
	c.mu.Lock()
	c.draft.SetMedia(working.Content.Media)
	c.mu.Unlock()

	c.recordResult(result)
	return result, nil
}

// recordResult persists the publish outcome and surfaces status.
// Persistence is fire-and-continue: failures are logged and never block
// the result.
func (c *Coordinator) recordResult(result domain.PublishResult) {
	failures := make([]domain.PublishOutcome, 0)
	for _, o := range result.Outcomes {
		if !o.Success {
			failures = append(failures, o)
		}
	}

	if len(failures) == 0 && len(result.Outcomes) > 0 {
		if c.deps.Repo != nil {
			if err := c.deps.Repo.MarkPosted(result.DraftID, result.PostIDs()); err != nil {
				pkglogger.GetLogger().Error().Err(err).Str("draft_id", result.DraftID).Msg("markPosted failed")
			}
		}
		c.mu.Lock()
		c.state = StateReady
		c.lastError = ""
		c.mu.Unlock()

		c.status.setTemporary(domain.StatusMessage{
			Text:     fmt.Sprintf("Posted to %d platform(s)", len(result.Outcomes)),
			Severity: domain.SeverityInfo,
			Priority: domain.PriorityMedium,
		}, c.statusAutoClear)
		c.notify(EventStateChanged)
		return
	}

	if len(failures) > 0 {
		if c.deps.Repo != nil {
			for _, o := range failures {
				entry := domain.ErrorLogEntry{Platform: o.Platform.String(), Message: o.Error}
				if err := c.deps.Repo.MarkFailed(result.DraftID, entry); err != nil {
					pkglogger.GetLogger().Error().Err(err).Str("draft_id", result.DraftID).Msg("markFailed failed")
				}
			}
		}
		c.surfaceError(fmt.Sprintf("Posting failed for %d of %d platform(s)", len(failures), len(result.Outcomes)))
		return
	}

	// Nothing automated: every target went to the manual bucket
	c.notify(EventStateChanged)
}

// LoadDraft replaces the current draft wholesale with a historical one,
// running media validation proactively since the stored references may
// have gone stale at any point since the draft was saved
func (c *Coordinator) LoadDraft(ctx context.Context, id string) error {
	if c.disposed.Load() {
		return common.ErrDisposed
	}
	if c.deps.Repo == nil {
		return common.ErrDraftNotFound
	}
	if !c.transition.tryAcquire() {
		return common.ErrBusy
	}
	defer c.transition.release()

	c.mu.Lock()
	if c.state.inFlight() {
		c.mu.Unlock()
		return common.ErrInvalidState
	}
	c.mu.Unlock()

	draft, err := c.deps.Repo.FindByID(id)
	if err != nil {
		return err
	}

	if draft.HasMedia() {
		outcomes := c.deps.Validator.ValidateAndRecover(ctx, draft.Content.Media)
		if _, err := media.Apply(draft, outcomes); err != nil {
			c.surfaceError("Draft media could not be recovered")
			return err
		}
	}

	c.mu.Lock()
	c.draft = draft
	c.needsMedia = false
	c.lastError = ""
	c.refreshTerminalStateLocked()
	c.mu.Unlock()

	c.status.clear()
	c.notify(EventDraftChanged)
	return nil
}

// Reset discards the draft and returns to Idle. Calling it again with
// nothing to discard is a no-op, so repeated resets are safe.
func (c *Coordinator) Reset() error {
	if c.disposed.Load() {
		return common.ErrDisposed
	}
	if !c.transition.tryAcquire() {
		return common.ErrBusy
	}
	defer c.transition.release()

	c.mu.Lock()
	alreadyClean := c.state == StateIdle && !c.draft.HasContent() && len(c.draft.Platforms) == 0
	if alreadyClean {
		c.mu.Unlock()
		return nil
	}
	c.draft = domain.NewDraft()
	c.state = StateIdle
	c.needsMedia = false
	c.lastError = ""
	c.textEditing = false
	c.hashtagEditing = false
	c.mu.Unlock()

	c.ampMu.Lock()
	c.amplitude.reset()
	c.ampMu.Unlock()

	c.cancelWatchdog()
	c.status.clear()
	c.notify(EventStateChanged)
	return nil
}

// Dispose tears the coordinator down. All subsequent change
// notifications become no-ops; in-flight callbacks resolving afterwards
// must not raise.
func (c *Coordinator) Dispose() {
	if !c.disposed.CompareAndSwap(false, true) {
		return
	}
	c.cancelWatchdog()
	c.status.stop()
}

// --- internal helpers ---

// refreshTerminalStateLocked recomputes Ready vs NeedsMedia from the
// draft. Ready requires content plus media when any selected platform
// is media-required.
func (c *Coordinator) refreshTerminalStateLocked() {
	if c.state.inFlight() {
		return
	}

	mediaRequired := false
	for _, p := range c.draft.Platforms {
		if catalog.RequiresMedia(p) {
			mediaRequired = true
			break
		}
	}

	switch {
	case c.needsMedia, mediaRequired && !c.draft.HasMedia():
		c.state = StateNeedsMedia
	case c.draft.HasContent():
		c.state = StateReady
	default:
		c.state = StateIdle
	}
}

// defaultPlatformLocked picks a target when the transcript named none
func (c *Coordinator) defaultPlatformLocked() domain.Platform {
	for _, m := range c.draft.Content.Media {
		if m.Kind() == domain.MediaKindVideo {
			return domain.PlatformTikTok
		}
	}
	if c.draft.HasMedia() {
		return domain.PlatformInstagram
	}
	return domain.PlatformTwitter
}

// surfaceError sets Error state and pushes a high-priority bounded
// status. Raw error detail goes to the log, not the user.
func (c *Coordinator) surfaceError(text string) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = text
	c.mu.Unlock()

	c.status.setTemporary(domain.StatusMessage{
		Text:     text,
		Severity: domain.SeverityError,
		Priority: domain.PriorityHigh,
	}, c.statusAutoClear)
	c.notify(EventStateChanged)
}

// failProcessing is the watchdog's forced completion path
func (c *Coordinator) failProcessing(text string) {
	c.cancelWatchdog()
	c.surfaceError(text)
}

func (c *Coordinator) armWatchdog() {
	c.watchdogMu.Lock()
	defer c.watchdogMu.Unlock()
	if c.watchdog != nil {
		c.watchdog.Stop()
	}
	c.watchdog = time.AfterFunc(c.watchdogWindow, c.watchdogFired)
}

func (c *Coordinator) cancelWatchdog() {
	c.watchdogMu.Lock()
	defer c.watchdogMu.Unlock()
	if c.watchdog != nil {
		c.watchdog.Stop()
		c.watchdog = nil
	}
}

// watchdogFired force-fails a Processing run that never resolved. When
// the transcript arrived in time, ProcessTranscription already canceled
// the timer and its own deadline bounds the rest.
func (c *Coordinator) watchdogFired() {
	if c.disposed.Load() {
		return
	}

	c.mu.Lock()
	stuck := c.state == StateProcessing
	c.mu.Unlock()
	if !stuck {
		return
	}

	pkglogger.GetLogger().Error().Msg("processing watchdog fired, forcing failure")
	c.surfaceError("Processing timed out")
}

// primaryStatusLocked derives the always-available status from current
// state flags; the temporary status overrides it when present
func (c *Coordinator) primaryStatusLocked() domain.StatusMessage {
	switch c.state {
	case StateRecording:
		return domain.StatusMessage{Text: "Recording…", Severity: domain.SeverityInfo}
	case StateProcessing:
		return domain.StatusMessage{Text: "Processing…", Severity: domain.SeverityInfo}
	case StateError:
		text := c.lastError
		if text == "" {
			text = "Something went wrong"
		}
		return domain.StatusMessage{Text: text, Severity: domain.SeverityError}
	case StateNeedsMedia:
		return domain.StatusMessage{Text: "Add media to continue", Severity: domain.SeverityInfo}
	case StateReady:
		return domain.StatusMessage{Text: "Ready to post", Severity: domain.SeverityInfo}
	default:
		return domain.StatusMessage{Text: "Ready", Severity: domain.SeverityInfo}
	}
}

// persist saves the draft snapshot, fire-and-continue
func (c *Coordinator) persist(draft *domain.Draft) {
	if c.deps.Repo == nil {
		return
	}
	if err := c.deps.Repo.Save(draft); err != nil {
		pkglogger.WithDraftID(draft.ID).Error().Err(err).Msg("draft save failed")
	}
}

func publishErrorText(err error) string {
	switch {
	case errors.Is(err, common.ErrEmptyDraft):
		return "Nothing to post: the draft has no text or media"
	case errors.Is(err, common.ErrNoTargets):
		return "Select at least one platform"
	default:
		return "Posting failed"
	}
}

// sanitizeText strips control characters that break downstream APIs
func sanitizeText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// sanitizeTag reduces a tag to the characters platforms accept
func sanitizeTag(tag string) string {
	tag = strings.TrimSpace(strings.TrimPrefix(tag, "#"))
	var b strings.Builder
	b.Grow(len(tag))
	for _, r := range tag {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
