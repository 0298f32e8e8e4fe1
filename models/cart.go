package models

import "time"

// Cart is keyed by an owner key ("user:<id>" or "session:<token>") so the
// same table serves anonymous visitors and signed-in users alike.
type Cart struct {
	CartID    uint       `gorm:"primaryKey"`
	OwnerKey  string     `gorm:"uniqueIndex"`                                   // Enforces ONE cart per owner
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"` // Cascade delete items if cart is deleted
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartItem struct {
	ID                  uint `gorm:"primaryKey"`
	CartID              uint `gorm:"index;uniqueIndex:idx_cart_product"` // One line per product per cart
	ProductID           uint `gorm:"uniqueIndex:idx_cart_product"`
	ProductEName        string // English name of the product
	ProductArName       string // Arabic name of the product
	ProductImage        string
	ProductSalePrice    float64 // advisory snapshot; authoritative price is re-fetched at checkout
	ProductRegularPrice float64
	Weight              float64
	Quantity            int
	AddedAt             time.Time
}
