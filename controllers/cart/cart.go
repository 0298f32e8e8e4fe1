package cartControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pinfinity1/tiamara-sub002/cart"
	"github.com/pinfinity1/tiamara-sub002/middleware"
	"github.com/pinfinity1/tiamara-sub002/session"
)

type CartItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// resolveOwner picks the cart identity for the request: the authenticated
// user when a valid token is present, otherwise the session cookie.
func resolveOwner(c *gin.Context) (cart.Owner, bool) {
	if userID := middleware.UserID(c); userID != "" {
		return cart.UserOwner(userID), true
	}
	if token := session.Token(c); token != "" {
		return cart.AnonymousOwner(token), true
	}
	return cart.Owner{}, false
}

func respondCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cart.ErrProductUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": "Product is unavailable or out of stock"})
	case errors.Is(err, cart.ErrCartNotFound), errors.Is(err, cart.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart operation failed"})
	}
}

// GET /cart
func GetCart(carts *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := resolveOwner(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No cart identity"})
			return
		}
		current, err := carts.Get(c.Request.Context(), owner)
		if err != nil {
			respondCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, current.Items)
	}
}

// POST /cart/add: adds quantity (a delta) of a product into the cart.
func AddCartItem(carts *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := resolveOwner(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No cart identity"})
			return
		}
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		current, err := carts.AddLine(c.Request.Context(), owner, input.ProductID, input.Quantity)
		if err != nil {
			respondCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, current.Items)
	}
}

// POST /cart: overwrites a line's quantity.
func UpdateCartItem(carts *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := resolveOwner(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No cart identity"})
			return
		}
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		current, err := carts.SetLineQuantity(c.Request.Context(), owner, input.ProductID, input.Quantity)
		if err != nil {
			respondCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, current.Items)
	}
}

// DELETE /cart/:product_id
func DeleteCartItem(carts *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := resolveOwner(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No cart identity"})
			return
		}
		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product_id"})
			return
		}
		if err := carts.RemoveLine(c.Request.Context(), owner, uint(productID)); err != nil {
			respondCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// DELETE /cart
func ClearCart(carts *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := resolveOwner(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No cart identity"})
			return
		}
		if err := carts.Clear(c.Request.Context(), owner); err != nil {
			respondCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// GET /admin/user-cart/:user_id: admin inspection of a user's cart.
func GetAdminCart(carts *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}
		current, err := carts.Get(c.Request.Context(), cart.UserOwner(userID))
		if err != nil {
			respondCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, current.Items)
	}
}
