package repository

import (
	"context"
	"errors"
	"time"

	"portal-resolver-service/internal/models"

	"gorm.io/gorm"
)

// AgencyLandingRepository provides read access to published agency landings
type AgencyLandingRepository interface {
	GetPublishedBySubdomain(ctx context.Context, subdomain string) (*models.AgencyLanding, error)
	GetPublishedByCustomDomain(ctx context.Context, domain string) (*models.AgencyLanding, error)
}

type agencyLandingRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewAgencyLandingRepository creates a new agency landing repository
func NewAgencyLandingRepository(db *gorm.DB, timeout time.Duration) AgencyLandingRepository {
	return &agencyLandingRepository{db: db, timeout: timeout}
}

func (r *agencyLandingRepository) GetPublishedBySubdomain(ctx context.Context, subdomain string) (*models.AgencyLanding, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var landing models.AgencyLanding
	err := r.db.WithContext(ctx).
		Where("subdomain = ? AND enabled = ? AND status = ?",
			subdomain, true, models.LandingStatusPublished).
		First(&landing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLandingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &landing, nil
}

func (r *agencyLandingRepository) GetPublishedByCustomDomain(ctx context.Context, domain string) (*models.AgencyLanding, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var landing models.AgencyLanding
	err := r.db.WithContext(ctx).
		Where("custom_domain = ? AND custom_domain_verified = ? AND enabled = ? AND status = ?",
			domain, true, true, models.LandingStatusPublished).
		First(&landing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLandingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &landing, nil
}
