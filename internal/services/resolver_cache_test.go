package services

import (
	"fmt"
	"testing"
	"time"

	"portal-resolver-service/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestResolverCache_PortalHitAndNegative(t *testing.T) {
	cache := NewResolverCache(5*time.Minute, 100)

	result := &models.PortalResolutionResult{TenantID: uuid.New(), Domain: "acme.com"}
	cache.SetPortal("acme.com", result)
	cache.SetPortal("gone.test", nil)

	got, hit := cache.GetPortal("acme.com")
	assert.True(t, hit)
	assert.Equal(t, result, got)

	// Cached negative is a hit with a nil result
	got, hit = cache.GetPortal("gone.test")
	assert.True(t, hit)
	assert.Nil(t, got)

	// Unknown key is a miss
	_, hit = cache.GetPortal("never-seen.test")
	assert.False(t, hit)
}

func TestResolverCache_TTLExpiry(t *testing.T) {
	cache := NewResolverCache(5*time.Minute, 100)

	now := time.Now()
	cache.now = func() time.Time { return now }
	cache.SetPortal("acme.com", &models.PortalResolutionResult{Domain: "acme.com"})

	_, hit := cache.GetPortal("acme.com")
	assert.True(t, hit)

	cache.now = func() time.Time { return now.Add(5*time.Minute + time.Second) }
	_, hit = cache.GetPortal("acme.com")
	assert.False(t, hit, "entry past TTL must be a miss")
}

func TestResolverCache_LandingKeysDoNotCollide(t *testing.T) {
	cache := NewResolverCache(5*time.Minute, 100)

	bySub := &models.AgencyLandingResolutionResult{Subdomain: "acme"}
	cache.SetLandingBySubdomain("acme", bySub)

	_, hit := cache.GetLandingByDomain("acme")
	assert.False(t, hit, "subdomain entry must not be visible under the custom-domain key")

	got, hit := cache.GetLandingBySubdomain("acme")
	assert.True(t, hit)
	assert.Equal(t, bySub, got)
}

func TestResolverCache_DeleteAndClear(t *testing.T) {
	cache := NewResolverCache(5*time.Minute, 100)

	cache.SetPortal("acme.com", nil)
	cache.SetLandingBySubdomain("foo", nil)
	cache.SetLandingByDomain("bar.com", nil)

	cache.DeletePortal("acme.com")
	_, hit := cache.GetPortal("acme.com")
	assert.False(t, hit)

	cache.DeleteLandingBySubdomain("foo")
	_, hit = cache.GetLandingBySubdomain("foo")
	assert.False(t, hit)

	cache.SetPortal("acme.com", nil)
	cache.Clear()
	stats := cache.Stats()
	assert.Equal(t, 0, stats.PortalEntries)
	assert.Equal(t, 0, stats.LandingEntries)
}

func TestResolverCache_Stats(t *testing.T) {
	cache := NewResolverCache(5*time.Minute, 100)

	cache.SetPortal("acme.com", &models.PortalResolutionResult{Domain: "acme.com"})
	cache.SetPortal("gone.test", nil)
	cache.SetLandingBySubdomain("foo", &models.AgencyLandingResolutionResult{Subdomain: "foo"})
	cache.SetLandingByDomain("missing.test", nil)

	stats := cache.Stats()
	assert.Equal(t, 2, stats.PortalEntries)
	assert.Equal(t, 1, stats.PortalNegative)
	assert.Equal(t, 2, stats.LandingEntries)
	assert.Equal(t, 1, stats.LandingNegative)
	assert.Equal(t, 5*time.Minute, stats.TTL)
	assert.Equal(t, 100, stats.MaxEntries)
}

func TestResolverCache_SweepRemovesExpired(t *testing.T) {
	cache := NewResolverCache(5*time.Minute, 100)

	now := time.Now()
	cache.now = func() time.Time { return now }
	cache.SetPortal("old.test", nil)

	cache.now = func() time.Time { return now.Add(4 * time.Minute) }
	cache.SetPortal("fresh.test", nil)

	cache.now = func() time.Time { return now.Add(6 * time.Minute) }
	removed := cache.Sweep()

	assert.Equal(t, 1, removed)
	stats := cache.Stats()
	assert.Equal(t, 1, stats.PortalEntries)
}

func TestResolverCache_SweepEnforcesCap(t *testing.T) {
	cache := NewResolverCache(time.Hour, 10)

	now := time.Now()
	for i := 0; i < 25; i++ {
		cache.now = func() time.Time { return now.Add(time.Duration(i) * time.Second) }
		cache.SetPortal(fmt.Sprintf("host-%d.test", i), nil)
	}
	cache.now = func() time.Time { return now.Add(time.Minute) }

	removed := cache.Sweep()
	assert.Equal(t, 15, removed)

	stats := cache.Stats()
	assert.Equal(t, 10, stats.PortalEntries)

	// Newest entries survive
	_, hit := cache.GetPortal("host-24.test")
	assert.True(t, hit)
	_, hit = cache.GetPortal("host-0.test")
	assert.False(t, hit)
}
