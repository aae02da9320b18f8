package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscriptionPlan represents a tenant's billing tier
type SubscriptionPlan string

const (
	PlanFree    SubscriptionPlan = "free"
	PlanStarter SubscriptionPlan = "starter"
	PlanPro     SubscriptionPlan = "pro"
	PlanAgency  SubscriptionPlan = "agency"
)

// Branding default values applied when a tenant has not customized them
const (
	DefaultPrimaryColor   = "#4f46e5"
	DefaultSecondaryColor = "#10b981"
)

// DefaultEnabledFeatures returns the feature set for tenants with no explicit configuration
func DefaultEnabledFeatures() []string {
	return []string{"projects", "cms", "leads"}
}

// Branding holds a tenant's white-label configuration.
// All fields are tenant-controlled free text and must be escaped before
// rendering into HTML.
type Branding struct {
	LogoURL              string `json:"logo_url" gorm:"size:500"`
	PrimaryColor         string `json:"primary_color" gorm:"size:20"`
	SecondaryColor       string `json:"secondary_color" gorm:"size:20"`
	FaviconURL           string `json:"favicon_url" gorm:"size:500"`
	CompanyName          string `json:"company_name" gorm:"size:255"`
	CustomDomain         string `json:"custom_domain" gorm:"size:255;index"`
	CustomDomainVerified bool   `json:"custom_domain_verified" gorm:"default:false"`
	SupportEmail         string `json:"support_email" gorm:"size:255"`
	FooterText           string `json:"footer_text" gorm:"size:1000"`
}

// WithDefaults returns a copy of the branding with empty color fields
// replaced by the platform defaults.
func (b Branding) WithDefaults() Branding {
	if b.PrimaryColor == "" {
		b.PrimaryColor = DefaultPrimaryColor
	}
	if b.SecondaryColor == "" {
		b.SecondaryColor = DefaultSecondaryColor
	}
	return b
}

// Tenant represents a billing/organizational account on the platform.
// The resolver is a read-only consumer; tenants are created and mutated
// by the signup and admin services.
type Tenant struct {
	ID               uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string           `json:"name" gorm:"size:255;not null"`
	Branding         Branding         `json:"branding" gorm:"embedded;embeddedPrefix:branding_"`
	EnabledFeatures  []string         `json:"enabled_features" gorm:"serializer:json"`
	SubscriptionPlan SubscriptionPlan `json:"subscription_plan" gorm:"size:20;default:'free'"`
	OwnerID          uuid.UUID        `json:"owner_id" gorm:"type:uuid"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// BeforeCreate hook to generate UUID if not set
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// FeaturesOrDefault returns the tenant's enabled features, falling back
// to the platform default set when none are configured.
func (t *Tenant) FeaturesOrDefault() []string {
	if len(t.EnabledFeatures) == 0 {
		return DefaultEnabledFeatures()
	}
	return t.EnabledFeatures
}

// PlanOrDefault returns the tenant's plan, defaulting to free
func (t *Tenant) PlanOrDefault() SubscriptionPlan {
	if t.SubscriptionPlan == "" {
		return PlanFree
	}
	return t.SubscriptionPlan
}
