package models

// Category groups catalog products (skincare, makeup, fragrance, ...).
type Category struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	Name     string `gorm:"uniqueIndex;not null"` // URL-safe slug used in filters
	EName    string `gorm:"unique;not null"`
	ARName   string `gorm:"unique;not null"`
	Image    string
	Products []Product `gorm:"many2many:product_categories"`
}
