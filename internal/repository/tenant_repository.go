package repository

import (
	"context"
	"errors"
	"time"

	"portal-resolver-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTenantNotFound  = errors.New("tenant not found")
	ErrDomainNotFound  = errors.New("portal domain not found")
	ErrLandingNotFound = errors.New("agency landing not found")
)

// TenantRepository provides read access to tenant records.
// The resolver never mutates tenants; writes belong to the signup and
// admin services.
type TenantRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetByVerifiedCustomDomain(ctx context.Context, domain string) (*models.Tenant, error)
}

type tenantRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewTenantRepository creates a new tenant repository. Every query runs
// under the given timeout so a hung store call cannot hang a resolution
// indefinitely.
func NewTenantRepository(db *gorm.DB, timeout time.Duration) TenantRepository {
	return &tenantRepository{db: db, timeout: timeout}
}

func (r *tenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var tenant models.Tenant
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) GetByVerifiedCustomDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var tenant models.Tenant
	err := r.db.WithContext(ctx).
		Where("branding_custom_domain = ? AND branding_custom_domain_verified = ?", domain, true).
		First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}
