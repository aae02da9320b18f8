package services

import (
	"sync"
	"time"

	"portal-resolver-service/internal/models"
)

// Landing cache keys carry a prefix so a subdomain and a custom domain
// with the same text cannot collide.
const (
	landingKeySubdomain    = "sub:"
	landingKeyCustomDomain = "domain:"
)

type portalEntry struct {
	result   *models.PortalResolutionResult // nil for a cached negative
	cachedAt time.Time
}

type landingEntry struct {
	result   *models.AgencyLandingResolutionResult
	cachedAt time.Time
}

// ResolverCache is the in-process memoization layer in front of the
// resolution strategies. It holds two independent maps (portal and
// landing results) with a shared TTL, caches negative results, and is
// explicitly invalidated when upstream domain configuration changes.
type ResolverCache struct {
	mu         sync.RWMutex
	ttl        time.Duration
	maxEntries int
	portal     map[string]portalEntry
	landing    map[string]landingEntry

	now func() time.Time
}

// NewResolverCache creates a resolver cache with the given TTL and
// entry cap. The cap is enforced lazily by Sweep.
func NewResolverCache(ttl time.Duration, maxEntries int) *ResolverCache {
	return &ResolverCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		portal:     make(map[string]portalEntry),
		landing:    make(map[string]landingEntry),
		now:        time.Now,
	}
}

// GetPortal returns the cached portal result for a domain. The second
// return value reports a fresh cache hit; a hit with a nil result is a
// cached negative.
func (c *ResolverCache) GetPortal(domain string) (*models.PortalResolutionResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.portal[domain]
	if !ok || c.now().Sub(entry.cachedAt) >= c.ttl {
		return nil, false
	}
	return entry.result, true
}

// SetPortal caches a portal result for a domain. A nil result is a
// valid negative entry.
func (c *ResolverCache) SetPortal(domain string, result *models.PortalResolutionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.portal[domain] = portalEntry{result: result, cachedAt: c.now()}
}

// DeletePortal removes a portal cache entry
func (c *ResolverCache) DeletePortal(domain string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.portal, domain)
}

// GetLandingBySubdomain returns the cached landing result for a subdomain
func (c *ResolverCache) GetLandingBySubdomain(subdomain string) (*models.AgencyLandingResolutionResult, bool) {
	return c.getLanding(landingKeySubdomain + subdomain)
}

// GetLandingByDomain returns the cached landing result for a custom domain
func (c *ResolverCache) GetLandingByDomain(domain string) (*models.AgencyLandingResolutionResult, bool) {
	return c.getLanding(landingKeyCustomDomain + domain)
}

// SetLandingBySubdomain caches a landing result (possibly nil) for a subdomain
func (c *ResolverCache) SetLandingBySubdomain(subdomain string, result *models.AgencyLandingResolutionResult) {
	c.setLanding(landingKeySubdomain+subdomain, result)
}

// SetLandingByDomain caches a landing result (possibly nil) for a custom domain
func (c *ResolverCache) SetLandingByDomain(domain string, result *models.AgencyLandingResolutionResult) {
	c.setLanding(landingKeyCustomDomain+domain, result)
}

// DeleteLandingBySubdomain removes a landing cache entry keyed by subdomain
func (c *ResolverCache) DeleteLandingBySubdomain(subdomain string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.landing, landingKeySubdomain+subdomain)
}

// DeleteLandingByDomain removes a landing cache entry keyed by custom domain
func (c *ResolverCache) DeleteLandingByDomain(domain string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.landing, landingKeyCustomDomain+domain)
}

func (c *ResolverCache) getLanding(key string) (*models.AgencyLandingResolutionResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.landing[key]
	if !ok || c.now().Sub(entry.cachedAt) >= c.ttl {
		return nil, false
	}
	return entry.result, true
}

func (c *ResolverCache) setLanding(key string, result *models.AgencyLandingResolutionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.landing[key] = landingEntry{result: result, cachedAt: c.now()}
}

// Clear wipes both maps. Used for operator-triggered full resets.
func (c *ResolverCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.portal = make(map[string]portalEntry)
	c.landing = make(map[string]landingEntry)
}

// Stats returns a snapshot of the cache for operator introspection
func (c *ResolverCache) Stats() models.CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := models.CacheStats{
		PortalEntries:  len(c.portal),
		LandingEntries: len(c.landing),
		TTL:            c.ttl,
		MaxEntries:     c.maxEntries,
	}
	for _, entry := range c.portal {
		if entry.result == nil {
			stats.PortalNegative++
		}
	}
	for _, entry := range c.landing {
		if entry.result == nil {
			stats.LandingNegative++
		}
	}
	return stats
}

// Sweep removes expired entries and, when the cache is still above its
// entry cap afterwards, evicts the oldest entries. Without this the
// cache would grow unbounded under random hostname traffic, since TTL
// staleness alone is only checked lazily on read.
func (c *ResolverCache) Sweep() (removed int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.portal {
		if now.Sub(entry.cachedAt) >= c.ttl {
			delete(c.portal, key)
			removed++
		}
	}
	for key, entry := range c.landing {
		if now.Sub(entry.cachedAt) >= c.ttl {
			delete(c.landing, key)
			removed++
		}
	}

	if c.maxEntries <= 0 {
		return removed
	}
	for len(c.portal)+len(c.landing) > c.maxEntries {
		if !c.evictOldestLocked() {
			break
		}
		removed++
	}
	return removed
}

// evictOldestLocked removes the single oldest entry across both maps.
// Caller must hold the write lock.
func (c *ResolverCache) evictOldestLocked() bool {
	var (
		oldestKey    string
		oldestAt     time.Time
		oldestPortal bool
		found        bool
	)
	for key, entry := range c.portal {
		if !found || entry.cachedAt.Before(oldestAt) {
			oldestKey, oldestAt, oldestPortal, found = key, entry.cachedAt, true, true
		}
	}
	for key, entry := range c.landing {
		if !found || entry.cachedAt.Before(oldestAt) {
			oldestKey, oldestAt, oldestPortal, found = key, entry.cachedAt, false, true
		}
	}
	if !found {
		return false
	}
	if oldestPortal {
		delete(c.portal, oldestKey)
	} else {
		delete(c.landing, oldestKey)
	}
	return true
}
