// Package auth tracks per-platform authentication state. Tokens are
// acquired elsewhere (OAuth flows are out of scope); this package is the
// local cache of who is currently usable, invalidated by an external
// revocation event stream.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/speakpost/speakpost-backend/internal/domain"
	pkgjwt "github.com/speakpost/speakpost-backend/pkg/jwt"
	pkglogger "github.com/speakpost/speakpost-backend/pkg/logger"
)

// RevocationChannel is the Redis pub/sub channel carrying platform
// revocation pushes from the external token store
const RevocationChannel = "auth:revoked"

// Provider is what the coordinator and bucketing need from auth state
type Provider interface {
	IsAuthenticated(p domain.Platform) bool
	SubAccountsFor(p domain.Platform) []domain.SubAccount
	Credential(p domain.Platform) (string, bool)
}

// Tracker is the in-process authentication map. All reads and writes go
// through the mutex so a revocation arriving mid-session is visible to
// the next bucketing computation without any eager recompute.
type Tracker struct {
	mu          sync.RWMutex
	tokens      map[domain.Platform]string
	subAccounts map[domain.Platform][]domain.SubAccount

	now func() time.Time
}

// NewTracker creates an empty Tracker
func NewTracker() *Tracker {
	return &Tracker{
		tokens:      make(map[domain.Platform]string),
		subAccounts: make(map[domain.Platform][]domain.SubAccount),
		now:         time.Now,
	}
}

// SetToken stores the default credential for a platform
func (t *Tracker) SetToken(p domain.Platform, token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if token == "" {
		delete(t.tokens, p)
		return
	}
	t.tokens[p] = token
}

// SetSubAccounts stores the available sub-accounts for a platform
func (t *Tracker) SetSubAccounts(p domain.Platform, accounts []domain.SubAccount) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subAccounts[p] = accounts
}

// Revoke drops a platform's credential. Called from the revocation
// stream; an in-flight publish against the platform is not canceled, it
// simply fails on its own.
func (t *Tracker) Revoke(p domain.Platform) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.tokens, p)
	pkglogger.GetLogger().Info().Str("platform", p.String()).Msg("platform authentication revoked")
}

// IsAuthenticated reports whether the platform currently has a live
// credential. JWT credentials that have expired count as missing.
func (t *Tracker) IsAuthenticated(p domain.Platform) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	token, ok := t.tokens[p]
	if !ok {
		return false
	}
	return !pkgjwt.IsExpired(token, t.now())
}

// SubAccountsFor returns the sub-accounts available for a platform
func (t *Tracker) SubAccountsFor(p domain.Platform) []domain.SubAccount {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]domain.SubAccount(nil), t.subAccounts[p]...)
}

// Credential returns the platform's default stored credential
func (t *Tracker) Credential(p domain.Platform) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	token, ok := t.tokens[p]
	if !ok {
		return "", false
	}
	if pkgjwt.IsExpired(token, t.now()) {
		return "", false
	}
	return token, true
}

// SubscribeRevocations listens on the Redis revocation channel and
// invalidates the local map. Messages carry the bare platform name.
// Blocks until ctx is done; run in a goroutine.
func (t *Tracker) SubscribeRevocations(ctx context.Context, client *redis.Client) {
	pubsub := client.Subscribe(ctx, RevocationChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			p := domain.Platform(msg.Payload)
			if !p.IsValid() {
				pkglogger.GetLogger().Warn().Str("payload", msg.Payload).Msg("ignoring revocation for unknown platform")
				continue
			}
			t.Revoke(p)
		case <-ctx.Done():
			return
		}
	}
}
