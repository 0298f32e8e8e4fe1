package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/pinfinity1/tiamara-sub002/controllers/cart"
	checkoutControllers "github.com/pinfinity1/tiamara-sub002/controllers/checkout"
	productControllers "github.com/pinfinity1/tiamara-sub002/controllers/product"
	"github.com/pinfinity1/tiamara-sub002/middleware"
)

// SetupStorefrontRoutes registers browsing and cart endpoints. They work for
// anonymous visitors (session cookie) and signed-in users alike.
func SetupStorefrontRoutes(r *gin.Engine, d Deps) {
	// ──────────────── Browse Products ────────────────
	r.GET("/products", productControllers.GetProducts(d.DB))
	r.GET("/products/:id", productControllers.GetProductByID(d.DB))

	// ──────────────── Shipping Methods ────────────────
	r.GET("/shipping/methods", checkoutControllers.ListShippingMethods(d.Shipping))

	// ──────────────── Shopping Cart ────────────────
	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.OptionalToken)
	{
		cartGroup.GET("/", cartControllers.GetCart(d.Carts))                      // GET /cart
		cartGroup.POST("/add", cartControllers.AddCartItem(d.Carts))              // POST /cart/add
		cartGroup.POST("/", cartControllers.UpdateCartItem(d.Carts))              // POST /cart
		cartGroup.DELETE("/:product_id", cartControllers.DeleteCartItem(d.Carts)) // DELETE /cart/:product_id
		cartGroup.DELETE("/", cartControllers.ClearCart(d.Carts))                 // DELETE /cart
	}
}
