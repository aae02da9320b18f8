package handlers

import (
	"net/http"

	"portal-resolver-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CacheHandlers handles operator cache-administration endpoints.
// These are invoked from admin/webhook paths when tenant branding or
// domain-verification state changes, and must be called synchronously
// with those mutations to avoid serving stale negatives.
type CacheHandlers struct {
	resolver *services.ResolverService
}

// NewCacheHandlers creates new cache administration handlers
func NewCacheHandlers(resolver *services.ResolverService) *CacheHandlers {
	return &CacheHandlers{
		resolver: resolver,
	}
}

// GetStats handles GET /api/v1/admin/cache/stats
func (h *CacheHandlers) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.resolver.CacheStats(),
	})
}

// ClearAll handles DELETE /api/v1/admin/cache
func (h *CacheHandlers) ClearAll(c *gin.Context) {
	h.resolver.ClearAllPortalCache(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "resolver cache cleared",
	})
}

// ClearPortalDomain handles DELETE /api/v1/admin/cache/portal/:domain
func (h *CacheHandlers) ClearPortalDomain(c *gin.Context) {
	domain := c.Param("domain")
	if domain == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "domain is required",
		})
		return
	}

	h.resolver.ClearPortalCache(c.Request.Context(), domain)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "portal cache cleared",
		"domain":  services.NormalizeDomain(domain),
	})
}

// ClearTenant handles DELETE /api/v1/admin/cache/tenant/:tenantId
func (h *CacheHandlers) ClearTenant(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Param("tenantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid tenant id",
		})
		return
	}

	if err := h.resolver.ClearTenantPortalCache(c.Request.Context(), tenantID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "tenant portal cache cleared",
		"tenant_id": tenantID,
	})
}

// ClearLanding handles DELETE /api/v1/admin/cache/landing
func (h *CacheHandlers) ClearLanding(c *gin.Context) {
	subdomain := c.Query("subdomain")
	customDomain := c.Query("custom_domain")
	if subdomain == "" && customDomain == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "subdomain or custom_domain is required",
		})
		return
	}

	h.resolver.ClearAgencyLandingCache(subdomain, customDomain)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "landing cache cleared",
	})
}
