package models

import (
	"time"

	"github.com/google/uuid"
)

// ResolutionType discriminates the two possible resolution outcomes
type ResolutionType string

const (
	ResolutionTypePortal        ResolutionType = "portal"
	ResolutionTypeAgencyLanding ResolutionType = "agency_landing"
)

// PortalResolutionResult is the descriptor returned when a hostname
// resolves to a white-label portal. Branding fields are already
// defaulted; callers can render against it directly.
type PortalResolutionResult struct {
	TenantID         uuid.UUID        `json:"tenant_id"`
	TenantName       string           `json:"tenant_name"`
	Domain           string           `json:"domain"`
	Status           DomainStatus     `json:"status"`
	SSLStatus        SSLStatus        `json:"ssl_status"`
	Branding         Branding         `json:"branding"`
	EnabledFeatures  []string         `json:"enabled_features"`
	SubscriptionPlan SubscriptionPlan `json:"subscription_plan"`
	OwnerID          uuid.UUID        `json:"owner_id"`
}

// AgencyLandingResolutionResult is the descriptor returned when a
// hostname resolves to a published agency landing page.
type AgencyLandingResolutionResult struct {
	TenantID     uuid.UUID `json:"tenant_id"`
	LandingID    uuid.UUID `json:"landing_id"`
	Subdomain    string    `json:"subdomain"`
	CustomDomain string    `json:"custom_domain,omitempty"`
	Config       string    `json:"config"`
}

// DomainResolutionResult is the uniform output of ResolveDomain.
// Exactly one of Portal / AgencyLanding is set, matching Type.
type DomainResolutionResult struct {
	Type          ResolutionType                 `json:"type"`
	Portal        *PortalResolutionResult        `json:"portal,omitempty"`
	AgencyLanding *AgencyLandingResolutionResult `json:"agency_landing,omitempty"`
}

// CacheStats is the operator-facing snapshot of the resolver cache
type CacheStats struct {
	PortalEntries   int           `json:"portal_entries"`
	LandingEntries  int           `json:"landing_entries"`
	PortalNegative  int           `json:"portal_negative_entries"`
	LandingNegative int           `json:"landing_negative_entries"`
	TTL             time.Duration `json:"ttl_ns"`
	MaxEntries      int           `json:"max_entries"`
}
