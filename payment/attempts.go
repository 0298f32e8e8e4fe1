package payment

import (
	"context"

	"github.com/pinfinity1/tiamara-sub002/models"
	"gorm.io/gorm"
)

// AttemptRepository is the append-only payment attempt log.
type AttemptRepository interface {
	Record(ctx context.Context, attempt *models.PaymentAttempt) error
	ListByOrder(ctx context.Context, orderID uint) ([]models.PaymentAttempt, error)
}

type GormAttemptRepository struct {
	db *gorm.DB
}

func NewGormAttemptRepository(db *gorm.DB) *GormAttemptRepository {
	return &GormAttemptRepository{db: db}
}

func (r *GormAttemptRepository) Record(ctx context.Context, attempt *models.PaymentAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *GormAttemptRepository) ListByOrder(ctx context.Context, orderID uint) ([]models.PaymentAttempt, error) {
	var attempts []models.PaymentAttempt
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).
		Order("received_at ASC").Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}
