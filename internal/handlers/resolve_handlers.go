package handlers

import (
	"net/http"

	"portal-resolver-service/internal/services"

	"github.com/gin-gonic/gin"
)

// ResolveHandlers handles internal service-to-service resolution requests
type ResolveHandlers struct {
	resolver *services.ResolverService
}

// NewResolveHandlers creates new resolve handlers
func NewResolveHandlers(resolver *services.ResolverService) *ResolveHandlers {
	return &ResolveHandlers{
		resolver: resolver,
	}
}

// ResolveDomain handles GET /api/v1/internal/resolve
// @Summary Resolve hostname
// @Description Resolve an incoming hostname to a tenant context (internal use only)
// @Tags internal
// @Produce json
// @Param hostname query string true "Hostname to resolve"
// @Success 200 {object} models.DomainResolutionResult
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/internal/resolve [get]
func (h *ResolveHandlers) ResolveDomain(c *gin.Context) {
	hostname := c.Query("hostname")
	if hostname == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "hostname parameter is required",
		})
		return
	}

	result := h.resolver.ResolveDomain(c.Request.Context(), hostname)
	if result == nil {
		// A transient store failure is intentionally indistinguishable
		// from "no tenant" here; callers serve a generic page either way.
		c.JSON(http.StatusNotFound, gin.H{
			"success":  false,
			"error":    "no tenant for hostname",
			"hostname": hostname,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// ClassifyHostname handles GET /api/v1/internal/classify
// @Summary Classify hostname
// @Description Classification helpers for routing decisions before a full resolution
// @Tags internal
// @Produce json
// @Param hostname query string true "Hostname to classify"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/internal/classify [get]
func (h *ResolveHandlers) ClassifyHostname(c *gin.Context) {
	hostname := c.Query("hostname")
	if hostname == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "hostname parameter is required",
		})
		return
	}

	classifier := h.resolver.Classifier()
	subdomain, isLanding := classifier.ExtractSubdomain(hostname)

	c.JSON(http.StatusOK, gin.H{
		"success":                     true,
		"normalized":                  services.NormalizeDomain(hostname),
		"is_portal_domain":            classifier.IsPortalDomain(hostname),
		"is_agency_landing_subdomain": isLanding,
		"subdomain":                   subdomain,
	})
}

// PortalTheme handles GET /api/v1/internal/theme
// Builds the theme, CSS and meta-tag fragments for a resolved portal
// domain so the rendering layer can inject them into its HTML shell.
func (h *ResolveHandlers) PortalTheme(c *gin.Context) {
	hostname := c.Query("hostname")
	if hostname == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "hostname parameter is required",
		})
		return
	}

	result := h.resolver.ResolveDomain(c.Request.Context(), hostname)
	if result == nil || result.Portal == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "no portal for hostname",
		})
		return
	}

	theme := services.GetPortalTheme(result.Portal.Branding)
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"theme":     theme,
		"css":       services.GeneratePortalCSS(theme),
		"meta_tags": services.GeneratePortalMetaTags(result.Portal),
	})
}

// Health handles GET /health
func (h *ResolveHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "portal-resolver-service",
	})
}

// Ready handles GET /ready
func (h *ResolveHandlers) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}
