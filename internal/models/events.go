package models

import "time"

// TenantDomainEvent represents a tenant domain-configuration change
// published by the tenant/branding services. Any of these events makes
// cached resolution results for the tenant stale.
type TenantDomainEvent struct {
	EventType string    `json:"event_type"`
	TenantID  string    `json:"tenant_id"`
	Domain    string    `json:"domain"` // normalized domain, empty for branding-only changes
	Timestamp time.Time `json:"timestamp"`
}

// LandingEvent represents an agency landing lifecycle change published
// by the landing editor service (publish, unpublish, domain change).
type LandingEvent struct {
	EventType    string    `json:"event_type"`
	TenantID     string    `json:"tenant_id"`
	LandingID    string    `json:"landing_id"`
	Subdomain    string    `json:"subdomain"`
	CustomDomain string    `json:"custom_domain"`
	Timestamp    time.Time `json:"timestamp"`
}
