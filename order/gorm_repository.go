package order

import (
	"context"
	"errors"

	"github.com/pinfinity1/tiamara-sub002/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Get(ctx context.Context, orderID uint) (*models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&o, "id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepository) GetByRef(ctx context.Context, orderRef string) (*models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).Preload("Items").Where("order_ref = ?", orderRef).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CreatePending reserves stock under row locks and writes the order in one
// transaction, the same way the storefront has always placed orders: lock
// each product row, check the quantity, deduct, then create.
func (r *GormRepository) CreatePending(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range o.Items {
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, "id = ?", item.ProductID).Error; err != nil {
				return err
			}
			if product.Stock < item.Quantity {
				return &InsufficientStockError{
					ProductID: item.ProductID,
					Requested: item.Quantity,
					Available: product.Stock,
				}
			}
			product.Stock -= item.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}
		}
		o.Status = models.OrderStatusPendingPayment
		return tx.Create(o).Error
	})
}

func (r *GormRepository) SetGatewayRef(ctx context.Context, orderID uint, gatewayRef string) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, models.OrderStatusPendingPayment).
		Update("gateway_ref", gatewayRef).Error
}

// TransitionFromPending takes a row lock on the order so two racing callbacks
// serialize; the status guard then lets exactly one of them through.
func (r *GormRepository) TransitionFromPending(ctx context.Context, orderID uint, target models.OrderStatus, gatewayRef string, releaseStock bool) (models.OrderStatus, bool, error) {
	var status models.OrderStatus
	applied := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Items").
			First(&o, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if o.Status != models.OrderStatusPendingPayment {
			status = o.Status
			return nil
		}

		updates := map[string]interface{}{"status": target}
		if gatewayRef != "" {
			updates["gateway_ref"] = gatewayRef
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", orderID).Updates(updates).Error; err != nil {
			return err
		}

		if releaseStock {
			for _, item := range o.Items {
				if err := tx.Model(&models.Product{}).
					Where("id = ?", item.ProductID).
					Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
					return err
				}
			}
		}

		status = target
		applied = true
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return status, applied, nil
}
