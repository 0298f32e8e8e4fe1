package cart

import (
	"context"
	"errors"
	"time"

	"github.com/pinfinity1/tiamara-sub002/models"
	"gorm.io/gorm"
)

// GormRepository stores carts in the carts/cart_items tables.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) GetCart(ctx context.Context, ownerKey string) (*models.Cart, error) {
	var c models.Cart
	err := r.db.WithContext(ctx).Preload("Items").Where("owner_key = ?", ownerKey).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepository) CreateCart(ctx context.Context, c *models.Cart) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *GormRepository) GetItem(ctx context.Context, cartID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepository) SaveItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *GormRepository) DeleteItem(ctx context.Context, cartID, productID uint) error {
	result := r.db.WithContext(ctx).Where("cart_id = ? AND product_id = ?", cartID, productID).Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *GormRepository) ClearItems(ctx context.Context, cartID uint) error {
	return r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

func (r *GormRepository) DeleteCart(ctx context.Context, cartID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Cart{}, "cart_id = ?", cartID).Error
	})
}

// PurgeStaleAnonymousCarts removes session-owned carts untouched since the
// cutoff. User carts are never swept.
func (r *GormRepository) PurgeStaleAnonymousCarts(ctx context.Context, cutoff time.Time) (int64, error) {
	var stale []models.Cart
	if err := r.db.WithContext(ctx).
		Where("owner_key LIKE ? AND updated_at < ?", "session:%", cutoff).
		Find(&stale).Error; err != nil {
		return 0, err
	}
	var removed int64
	for _, c := range stale {
		if err := r.DeleteCart(ctx, c.CartID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
