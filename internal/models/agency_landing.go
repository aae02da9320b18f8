package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LandingStatus represents the publication status of an agency landing
type LandingStatus string

const (
	LandingStatusDraft     LandingStatus = "draft"
	LandingStatusPublished LandingStatus = "published"
)

// AgencyLanding is a per-tenant published marketing page, served under
// an owned subdomain of a platform root domain and optionally a
// separately verified custom domain. The Config payload is owned by the
// landing editor; the resolver passes it through opaquely.
type AgencyLanding struct {
	ID                   uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID             uuid.UUID     `json:"tenant_id" gorm:"type:uuid;not null;index"`
	Enabled              bool          `json:"enabled" gorm:"default:false"`
	Status               LandingStatus `json:"status" gorm:"size:20;default:'draft';index"`
	Subdomain            string        `json:"subdomain" gorm:"uniqueIndex;size:100"`
	CustomDomain         string        `json:"custom_domain" gorm:"size:255;index"`
	CustomDomainVerified bool          `json:"custom_domain_verified" gorm:"default:false"`
	Config               string        `json:"config" gorm:"type:jsonb"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// TableName returns the table name for GORM
func (AgencyLanding) TableName() string {
	return "agency_landings"
}

// BeforeCreate hook to generate UUID if not set
func (l *AgencyLanding) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// IsLive returns true if the landing is enabled and published
func (l *AgencyLanding) IsLive() bool {
	return l.Enabled && l.Status == LandingStatusPublished
}
