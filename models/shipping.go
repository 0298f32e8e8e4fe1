package models

import "time"

// ShippingMethod is a row in the finite, admin-managed enumeration the
// checkout flow selects from. The cost here is authoritative.
type ShippingMethod struct {
	ID        uint    `gorm:"primaryKey"`
	Code      string  `gorm:"uniqueIndex;not null"`
	EName     string  `gorm:"not null"`
	ARName    string
	Cost      float64 `gorm:"not null"`
	Active    bool    `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
