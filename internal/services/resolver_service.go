package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"portal-resolver-service/internal/config"
	"portal-resolver-service/internal/models"
	"portal-resolver-service/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ResolverService maps incoming hostnames to tenant contexts. It is the
// single entry point on the request hot path: every inbound request
// resolves through ResolveDomain, so each strategy sits behind the
// in-process ResolverCache, with Redis as an optional shared tier for
// positive portal results across replicas.
type ResolverService struct {
	cfg        *config.Config
	classifier *Classifier
	cache      *ResolverCache

	tenants  repository.TenantRepository
	domains  repository.PortalDomainRepository
	landings repository.AgencyLandingRepository

	redisClient *redis.Client // nil when Redis is unavailable
	missLimiter *rate.Limiter
}

// NewResolverService creates a resolver service. redisClient may be nil.
func NewResolverService(
	cfg *config.Config,
	classifier *Classifier,
	cache *ResolverCache,
	tenants repository.TenantRepository,
	domains repository.PortalDomainRepository,
	landings repository.AgencyLandingRepository,
	redisClient *redis.Client,
) *ResolverService {
	return &ResolverService{
		cfg:         cfg,
		classifier:  classifier,
		cache:       cache,
		tenants:     tenants,
		domains:     domains,
		landings:    landings,
		redisClient: redisClient,
		missLimiter: rate.NewLimiter(rate.Limit(cfg.Resolver.MissRateLimit), cfg.Resolver.MissRateBurst),
	}
}

// Classifier exposes the classification helpers for callers that need a
// routing decision before a full resolution is warranted.
func (s *ResolverService) Classifier() *Classifier {
	return s.classifier
}

// ResolveDomain resolves a hostname to a tenant context. Precedence is
// fixed: agency-landing-by-subdomain, then agency-landing-by-custom-
// domain, then portal-by-domain. Returns nil when every strategy
// misses; store errors are logged and treated as a miss for that
// strategy, never propagated.
func (s *ResolverService) ResolveDomain(ctx context.Context, hostname string) *models.DomainResolutionResult {
	host := NormalizeDomain(hostname)
	if host == "" {
		return nil
	}

	if subdomain, ok := s.classifier.ExtractSubdomain(host); ok {
		if landing := s.resolveAgencyLanding(ctx, subdomain); landing != nil {
			return &models.DomainResolutionResult{
				Type:          models.ResolutionTypeAgencyLanding,
				AgencyLanding: landing,
			}
		}
	}

	if landing := s.resolveAgencyLandingByDomain(ctx, host); landing != nil {
		return &models.DomainResolutionResult{
			Type:          models.ResolutionTypeAgencyLanding,
			AgencyLanding: landing,
		}
	}

	if s.classifier.IsPortalDomain(host) {
		if portal := s.resolvePortalDomain(ctx, host); portal != nil {
			return &models.DomainResolutionResult{
				Type:   models.ResolutionTypePortal,
				Portal: portal,
			}
		}
	}

	return nil
}

// resolvePortalDomain looks up a portal by the domain index, falling
// back to the tenant branding custom-domain field. Both "found" and
// "not found" outcomes are cached; transient store errors are not, so
// the next request retries.
func (s *ResolverService) resolvePortalDomain(ctx context.Context, domain string) *models.PortalResolutionResult {
	if result, hit := s.cache.GetPortal(domain); hit {
		return result
	}
	if result := s.portalFromRedis(ctx, domain); result != nil {
		s.cache.SetPortal(domain, result)
		return result
	}
	if !s.missLimiter.Allow() {
		log.Warn().Str("domain", domain).Msg("Portal lookup rate limited")
		return nil
	}

	entry, err := s.domains.GetByDomain(ctx, domain)
	switch {
	case err == nil:
		tenant, terr := s.tenants.GetByID(ctx, entry.TenantID)
		if errors.Is(terr, repository.ErrTenantNotFound) {
			// Index entry points at a deleted tenant
			s.cache.SetPortal(domain, nil)
			return nil
		}
		if terr != nil {
			log.Error().Err(terr).Str("domain", domain).Msg("Failed to load tenant for portal domain")
			return nil
		}
		result := buildPortalResult(tenant, domain, entry.Status, entry.SSLStatus)
		s.cache.SetPortal(domain, result)
		s.portalToRedis(ctx, domain, result)
		return result

	case errors.Is(err, repository.ErrDomainNotFound):
		tenant, terr := s.tenants.GetByVerifiedCustomDomain(ctx, domain)
		if errors.Is(terr, repository.ErrTenantNotFound) {
			s.cache.SetPortal(domain, nil)
			return nil
		}
		if terr != nil {
			log.Error().Err(terr).Str("domain", domain).Msg("Failed to query tenants by custom domain")
			return nil
		}
		result := buildPortalResult(tenant, domain, models.DomainStatusActive, models.SSLStatusActive)
		s.cache.SetPortal(domain, result)
		s.portalToRedis(ctx, domain, result)
		return result

	default:
		log.Error().Err(err).Str("domain", domain).Msg("Failed to query portal domain index")
		return nil
	}
}

// resolveAgencyLanding resolves a landing by its platform subdomain
func (s *ResolverService) resolveAgencyLanding(ctx context.Context, subdomain string) *models.AgencyLandingResolutionResult {
	if result, hit := s.cache.GetLandingBySubdomain(subdomain); hit {
		return result
	}
	if !s.missLimiter.Allow() {
		log.Warn().Str("subdomain", subdomain).Msg("Landing lookup rate limited")
		return nil
	}

	landing, err := s.landings.GetPublishedBySubdomain(ctx, subdomain)
	if errors.Is(err, repository.ErrLandingNotFound) {
		s.cache.SetLandingBySubdomain(subdomain, nil)
		return nil
	}
	if err != nil {
		log.Error().Err(err).Str("subdomain", subdomain).Msg("Failed to query landing by subdomain")
		return nil
	}

	result := buildLandingResult(landing)
	s.cache.SetLandingBySubdomain(subdomain, result)
	return result
}

// resolveAgencyLandingByDomain resolves a landing by its verified custom domain
func (s *ResolverService) resolveAgencyLandingByDomain(ctx context.Context, domain string) *models.AgencyLandingResolutionResult {
	if result, hit := s.cache.GetLandingByDomain(domain); hit {
		return result
	}
	if !s.missLimiter.Allow() {
		log.Warn().Str("domain", domain).Msg("Landing lookup rate limited")
		return nil
	}

	landing, err := s.landings.GetPublishedByCustomDomain(ctx, domain)
	if errors.Is(err, repository.ErrLandingNotFound) {
		s.cache.SetLandingByDomain(domain, nil)
		return nil
	}
	if err != nil {
		log.Error().Err(err).Str("domain", domain).Msg("Failed to query landing by custom domain")
		return nil
	}

	result := buildLandingResult(landing)
	s.cache.SetLandingByDomain(domain, result)
	return result
}

// ClearPortalCache invalidates the portal cache for a domain. The
// www-prefixed variant is cleared as well, guarding against stale
// pre-normalization keys.
func (s *ResolverService) ClearPortalCache(ctx context.Context, domain string) {
	normalized := NormalizeDomain(domain)
	for _, key := range []string{normalized, "www." + normalized} {
		s.cache.DeletePortal(key)
		s.invalidateRedisPortal(ctx, key)
	}
	log.Info().Str("domain", normalized).Msg("Portal cache cleared")
}

// ClearTenantPortalCache re-derives every domain currently associated
// with a tenant (branding custom domain plus every portal domain index
// entry) and clears each. Called when a tenant's domain configuration
// changes upstream.
func (s *ResolverService) ClearTenantPortalCache(ctx context.Context, tenantID uuid.UUID) error {
	tenant, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil && !errors.Is(err, repository.ErrTenantNotFound) {
		return fmt.Errorf("failed to load tenant %s: %w", tenantID, err)
	}
	if tenant != nil && tenant.Branding.CustomDomain != "" {
		s.ClearPortalCache(ctx, tenant.Branding.CustomDomain)
	}

	entries, err := s.domains.GetByTenantID(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to list portal domains for tenant %s: %w", tenantID, err)
	}
	for _, entry := range entries {
		s.ClearPortalCache(ctx, entry.Domain)
	}
	return nil
}

// ClearAgencyLandingCache invalidates landing cache entries. Either
// argument may be empty.
func (s *ResolverService) ClearAgencyLandingCache(subdomain, customDomain string) {
	if subdomain != "" {
		s.cache.DeleteLandingBySubdomain(NormalizeDomain(subdomain))
	}
	if customDomain != "" {
		s.cache.DeleteLandingByDomain(NormalizeDomain(customDomain))
	}
}

// ClearAllPortalCache wipes both cache maps and the Redis portal tier.
// Operator-triggered full reset; without the Redis flush the next miss
// would repopulate from stale shared entries instead of the store.
func (s *ResolverService) ClearAllPortalCache(ctx context.Context) {
	s.cache.Clear()
	s.flushRedisPortal(ctx)
	log.Info().Msg("Resolver cache fully cleared")
}

// CacheStats returns a snapshot of the in-process cache
func (s *ResolverService) CacheStats() models.CacheStats {
	return s.cache.Stats()
}

func buildPortalResult(tenant *models.Tenant, domain string, status models.DomainStatus, sslStatus models.SSLStatus) *models.PortalResolutionResult {
	return &models.PortalResolutionResult{
		TenantID:         tenant.ID,
		TenantName:       tenant.Name,
		Domain:           domain,
		Status:           status,
		SSLStatus:        sslStatus,
		Branding:         tenant.Branding.WithDefaults(),
		EnabledFeatures:  tenant.FeaturesOrDefault(),
		SubscriptionPlan: tenant.PlanOrDefault(),
		OwnerID:          tenant.OwnerID,
	}
}

func buildLandingResult(landing *models.AgencyLanding) *models.AgencyLandingResolutionResult {
	return &models.AgencyLandingResolutionResult{
		TenantID:     landing.TenantID,
		LandingID:    landing.ID,
		Subdomain:    landing.Subdomain,
		CustomDomain: landing.CustomDomain,
		Config:       landing.Config,
	}
}

// Redis shared tier. Positive portal results only; negatives stay
// in-process so a poisoned shared entry cannot 404 every replica.

func redisPortalKey(domain string) string {
	return fmt.Sprintf("portal:resolve:%s", domain)
}

func (s *ResolverService) portalToRedis(ctx context.Context, domain string, result *models.PortalResolutionResult) {
	if s.redisClient == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, redisPortalKey(domain), data, s.cfg.Resolver.CacheTTL).Err(); err != nil {
		log.Warn().Err(err).Str("domain", domain).Msg("Failed to cache portal resolution in Redis")
	}
}

func (s *ResolverService) portalFromRedis(ctx context.Context, domain string) *models.PortalResolutionResult {
	if s.redisClient == nil {
		return nil
	}
	data, err := s.redisClient.Get(ctx, redisPortalKey(domain)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("domain", domain).Msg("Redis portal cache read failed")
		}
		return nil
	}
	var result models.PortalResolutionResult
	if err := json.Unmarshal(data, &result); err != nil {
		log.Warn().Err(err).Str("domain", domain).Msg("Invalid portal cache entry in Redis")
		return nil
	}
	return &result
}

func (s *ResolverService) invalidateRedisPortal(ctx context.Context, domain string) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Del(ctx, redisPortalKey(domain)).Err(); err != nil {
		log.Warn().Err(err).Str("domain", domain).Msg("Failed to invalidate Redis portal cache")
	}
}

func (s *ResolverService) flushRedisPortal(ctx context.Context) {
	if s.redisClient == nil {
		return
	}
	iter := s.redisClient.Scan(ctx, 0, redisPortalKey("*"), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to scan Redis portal cache keys")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to flush Redis portal cache")
	}
}
