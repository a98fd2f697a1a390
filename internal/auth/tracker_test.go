package auth

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/speakpost/speakpost-backend/internal/domain"
)

func expiringToken(t *testing.T, exp time.Time) string {
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{"exp": exp.Unix()})
	signed, err := token.SignedString([]byte("test-secret"))
	assert.NoError(t, err)
	return signed
}

func TestTracker_SetTokenAndIsAuthenticated(t *testing.T) {
	tracker := NewTracker()

	assert.False(t, tracker.IsAuthenticated(domain.PlatformTwitter))

	tracker.SetToken(domain.PlatformTwitter, "opaque-token")
	assert.True(t, tracker.IsAuthenticated(domain.PlatformTwitter))
	assert.False(t, tracker.IsAuthenticated(domain.PlatformTikTok))
}

func TestTracker_Revoke(t *testing.T) {
	tracker := NewTracker()
	tracker.SetToken(domain.PlatformTwitter, "opaque-token")

	tracker.Revoke(domain.PlatformTwitter)

	assert.False(t, tracker.IsAuthenticated(domain.PlatformTwitter))
	_, ok := tracker.Credential(domain.PlatformTwitter)
	assert.False(t, ok)
}

func TestTracker_EmptyTokenDeletes(t *testing.T) {
	tracker := NewTracker()
	tracker.SetToken(domain.PlatformTwitter, "opaque-token")

	tracker.SetToken(domain.PlatformTwitter, "")

	assert.False(t, tracker.IsAuthenticated(domain.PlatformTwitter))
}

func TestTracker_ExpiredJWTCountsAsMissing(t *testing.T) {
	tracker := NewTracker()
	issued := time.Now()
	tracker.SetToken(domain.PlatformFacebook, expiringToken(t, issued.Add(time.Hour)))

	tracker.now = func() time.Time { return issued }
	assert.True(t, tracker.IsAuthenticated(domain.PlatformFacebook))

	tracker.now = func() time.Time { return issued.Add(2 * time.Hour) }
	assert.False(t, tracker.IsAuthenticated(domain.PlatformFacebook))
	_, ok := tracker.Credential(domain.PlatformFacebook)
	assert.False(t, ok)
}

func TestTracker_OpaqueTokenNeverExpires(t *testing.T) {
	tracker := NewTracker()
	tracker.SetToken(domain.PlatformTwitter, "opaque-token")
	tracker.now = func() time.Time { return time.Now().Add(365 * 24 * time.Hour) }

	assert.True(t, tracker.IsAuthenticated(domain.PlatformTwitter))
}

func TestTracker_Credential(t *testing.T) {
	tracker := NewTracker()

	_, ok := tracker.Credential(domain.PlatformTwitter)
	assert.False(t, ok)

	tracker.SetToken(domain.PlatformTwitter, "opaque-token")
	cred, ok := tracker.Credential(domain.PlatformTwitter)
	assert.True(t, ok)
	assert.Equal(t, "opaque-token", cred)
}

func TestTracker_SubAccountsForReturnsCopy(t *testing.T) {
	tracker := NewTracker()
	tracker.SetSubAccounts(domain.PlatformFacebook, []domain.SubAccount{
		{ID: "page-1", DisplayName: "Brand Page", AccessToken: "page-token"},
	})

	accounts := tracker.SubAccountsFor(domain.PlatformFacebook)
	accounts[0].DisplayName = "mutated"

	fresh := tracker.SubAccountsFor(domain.PlatformFacebook)
	assert.Equal(t, "Brand Page", fresh[0].DisplayName)
}

func TestTracker_SubAccountsForUnknownPlatform(t *testing.T) {
	tracker := NewTracker()
	assert.Empty(t, tracker.SubAccountsFor(domain.PlatformTikTok))
}
