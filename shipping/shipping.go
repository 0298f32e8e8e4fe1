package shipping

import (
	"context"
	"errors"

	"github.com/pinfinity1/tiamara-sub002/models"
	"gorm.io/gorm"
)

var ErrMethodNotFound = errors.New("shipping method not found")

// Method is what the checkout flow sees: a code, display names and the
// authoritative cost at lookup time.
type Method struct {
	Code   string  `json:"code"`
	EName  string  `json:"ename"`
	ARName string  `json:"arname"`
	Cost   float64 `json:"cost"`
}

// Service is the shipping collaborator. The checkout orchestrator only reads
// from it; method management belongs to the admin surface.
type Service interface {
	ListMethods(ctx context.Context) ([]Method, error)
	GetMethod(ctx context.Context, code string) (*Method, error)
}

type GormService struct {
	db *gorm.DB
}

func NewGormService(db *gorm.DB) *GormService {
	return &GormService{db: db}
}

func (g *GormService) ListMethods(ctx context.Context) ([]Method, error) {
	var rows []models.ShippingMethod
	if err := g.db.WithContext(ctx).Where("active = ?", true).Order("cost ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	methods := make([]Method, 0, len(rows))
	for _, row := range rows {
		methods = append(methods, Method{Code: row.Code, EName: row.EName, ARName: row.ARName, Cost: row.Cost})
	}
	return methods, nil
}

func (g *GormService) GetMethod(ctx context.Context, code string) (*Method, error) {
	var row models.ShippingMethod
	if err := g.db.WithContext(ctx).Where("code = ? AND active = ?", code, true).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMethodNotFound
		}
		return nil, err
	}
	return &Method{Code: row.Code, EName: row.EName, ARName: row.ARName, Cost: row.Cost}, nil
}

// SeedDefaultMethods inserts the standard method set on an empty table so a
// fresh deployment can complete a checkout without admin intervention.
func SeedDefaultMethods(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.ShippingMethod{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	defaults := []models.ShippingMethod{
		{Code: "standard", EName: "Standard Delivery", ARName: "توصيل عادي", Cost: 20000, Active: true},
		{Code: "express", EName: "Express Delivery", ARName: "توصيل سريع", Cost: 35000, Active: true},
	}
	return db.Create(&defaults).Error
}
