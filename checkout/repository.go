package checkout

import (
	"context"
	"errors"

	"github.com/pinfinity1/tiamara-sub002/models"
	"gorm.io/gorm"
)

var ErrNoSession = errors.New("no checkout session")

// SessionRepository stores the per-owner checkout session.
type SessionRepository interface {
	Get(ctx context.Context, ownerKey string) (*models.CheckoutSession, error)
	Save(ctx context.Context, s *models.CheckoutSession) error
}

type GormSessionRepository struct {
	db *gorm.DB
}

func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

func (r *GormSessionRepository) Get(ctx context.Context, ownerKey string) (*models.CheckoutSession, error) {
	var s models.CheckoutSession
	err := r.db.WithContext(ctx).Where("owner_key = ?", ownerKey).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormSessionRepository) Save(ctx context.Context, s *models.CheckoutSession) error {
	return r.db.WithContext(ctx).Save(s).Error
}
