package repository

import (
	"context"
	"errors"
	"time"

	"portal-resolver-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PortalDomainRepository provides read access to the portal domain index
type PortalDomainRepository interface {
	GetByDomain(ctx context.Context, domain string) (*models.PortalDomain, error)
	GetByTenantID(ctx context.Context, tenantID uuid.UUID) ([]models.PortalDomain, error)
}

type portalDomainRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewPortalDomainRepository creates a new portal domain repository
func NewPortalDomainRepository(db *gorm.DB, timeout time.Duration) PortalDomainRepository {
	return &portalDomainRepository{db: db, timeout: timeout}
}

func (r *portalDomainRepository) GetByDomain(ctx context.Context, domain string) (*models.PortalDomain, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var entry models.PortalDomain
	err := r.db.WithContext(ctx).Where("domain = ?", domain).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDomainNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *portalDomainRepository) GetByTenantID(ctx context.Context, tenantID uuid.UUID) ([]models.PortalDomain, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var entries []models.PortalDomain
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Find(&entries).Error
	return entries, err
}
