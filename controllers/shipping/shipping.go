package shippingControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pinfinity1/tiamara-sub002/models"
	"gorm.io/gorm"
)

type MethodInput struct {
	Code   string  `json:"code" binding:"required"`
	EName  string  `json:"ename" binding:"required"`
	ARName string  `json:"arname"`
	Cost   float64 `json:"cost" binding:"min=0"`
	Active *bool   `json:"active"`
}

// POST /admin/shipping-methods
func CreateShippingMethod(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input MethodInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		method := models.ShippingMethod{
			Code:   input.Code,
			EName:  input.EName,
			ARName: input.ARName,
			Cost:   input.Cost,
			Active: true,
		}
		if input.Active != nil {
			method.Active = *input.Active
		}
		if err := db.Create(&method).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create shipping method"})
			return
		}
		c.JSON(http.StatusCreated, method)
	}
}

// PUT /admin/shipping-methods/:code
func UpdateShippingMethod(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var method models.ShippingMethod
		if err := db.Where("code = ?", c.Param("code")).First(&method).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Shipping method not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shipping method"})
			return
		}

		var input MethodInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		method.EName = input.EName
		method.ARName = input.ARName
		method.Cost = input.Cost
		if input.Active != nil {
			method.Active = *input.Active
		}
		if err := db.Save(&method).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update shipping method"})
			return
		}
		c.JSON(http.StatusOK, method)
	}
}

// GET /admin/shipping-methods: includes retired ones, unlike the public list.
func ListAllShippingMethods(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var methods []models.ShippingMethod
		if err := db.Order("cost ASC").Find(&methods).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shipping methods"})
			return
		}
		c.JSON(http.StatusOK, methods)
	}
}

// DELETE /admin/shipping-methods/:code: retire, never hard-delete: past
// orders keep referencing the code.
func RetireShippingMethod(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Model(&models.ShippingMethod{}).
			Where("code = ?", c.Param("code")).
			Update("active", false)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retire shipping method"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shipping method not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Shipping method retired"})
	}
}
