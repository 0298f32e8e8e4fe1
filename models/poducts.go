package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is the catalog row. SalePrice and Stock are the authoritative
// values the cart and checkout layers snapshot and re-validate against.
type Product struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	SKU           string `gorm:"uniqueIndex"`
	EName         string `gorm:"not null"` // English Name
	ARName        string // Arabic Name
	Brand         string
	EDescription  string // English Description
	ARDescription string // Arabic Description
	SalePrice     float64 `gorm:"not null"`
	RegularPrice  float64
	Image         string     `gorm:"not null"`
	Weight        float64    `gorm:"not null"` // Shipping weight in grams
	Categories    []Category `gorm:"many2many:product_categories;"`
	Stock         int
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}
