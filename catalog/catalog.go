package catalog

import (
	"context"
	"errors"

	"github.com/pinfinity1/tiamara-sub002/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("product not found")

// PriceAndStock is the authoritative snapshot the cart and checkout layers
// must consult; client-held prices are advisory only.
type PriceAndStock struct {
	ProductID    uint
	EName        string
	ARName       string
	Image        string
	SalePrice    float64
	RegularPrice float64
	Weight       float64
	AvailableQty int
}

// Catalog is the product collaborator. The core never reaches into the
// products table directly.
type Catalog interface {
	GetPriceAndStock(ctx context.Context, productID uint) (*PriceAndStock, error)
	// ReleaseStock returns reserved quantities after a failed or cancelled
	// payment. Quantities are keyed by product id.
	ReleaseStock(ctx context.Context, quantities map[uint]int) error
}

// GormCatalog serves lookups straight from the products table.
type GormCatalog struct {
	db *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

func (g *GormCatalog) GetPriceAndStock(ctx context.Context, productID uint) (*PriceAndStock, error) {
	var product models.Product
	if err := g.db.WithContext(ctx).First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &PriceAndStock{
		ProductID:    product.ID,
		EName:        product.EName,
		ARName:       product.ARName,
		Image:        product.Image,
		SalePrice:    product.SalePrice,
		RegularPrice: product.RegularPrice,
		Weight:       product.Weight,
		AvailableQty: product.Stock,
	}, nil
}

func (g *GormCatalog) ReleaseStock(ctx context.Context, quantities map[uint]int) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for productID, qty := range quantities {
			if qty <= 0 {
				continue
			}
			if err := tx.Model(&models.Product{}).
				Where("id = ?", productID).
				Update("stock", gorm.Expr("stock + ?", qty)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
