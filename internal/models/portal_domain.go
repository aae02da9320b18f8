package models

import (
	"time"

	"github.com/google/uuid"
)

// DomainStatus represents the lifecycle status of a portal domain entry
type DomainStatus string

const (
	DomainStatusActive     DomainStatus = "active"
	DomainStatusPending    DomainStatus = "pending"
	DomainStatusVerifying  DomainStatus = "verifying"
	DomainStatusSSLPending DomainStatus = "ssl_pending"
	DomainStatusError      DomainStatus = "error"
)

// SSLStatus represents SSL certificate status for a portal domain
type SSLStatus string

const (
	SSLStatusPending SSLStatus = "pending"
	SSLStatusActive  SSLStatus = "active"
	SSLStatusError   SSLStatus = "error"
)

// PortalDomain is the explicit domain index record: normalized domain ->
// tenant. Its lifecycle is independent from the tenant record itself (a
// domain can be pending while the tenant is active).
type PortalDomain struct {
	Domain    string       `json:"domain" gorm:"primaryKey;size:255"`
	TenantID  uuid.UUID    `json:"tenant_id" gorm:"type:uuid;not null;index"`
	Status    DomainStatus `json:"status" gorm:"size:20;default:'pending';index"`
	SSLStatus SSLStatus    `json:"ssl_status" gorm:"size:20;default:'pending'"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for GORM
func (PortalDomain) TableName() string {
	return "portal_domains"
}
