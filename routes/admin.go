package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/pinfinity1/tiamara-sub002/controllers/cart"
	orderControllers "github.com/pinfinity1/tiamara-sub002/controllers/order"
	shippingControllers "github.com/pinfinity1/tiamara-sub002/controllers/shipping"
	"github.com/pinfinity1/tiamara-sub002/middleware"
)

// SetupAdminRoutes registers all “/admin/*” endpoints. Requires API-Key middleware.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		// ─────────── Order Management ───────────
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrdersHandler(d.DB))
			orderAdmin.GET("/export-excel", orderControllers.ExportOrdersToExcel(d.DB))
			orderAdmin.GET("/ws", orderControllers.OrderWebSocketHandler)
			orderAdmin.GET("/:orderID/attempts", orderControllers.GetOrderAttemptsHandler(d.DB, d.Attempts))
			orderAdmin.PUT("/:orderID/fulfill", orderControllers.MarkOrderFulfillingHandler(d.DB))
		}

		// ─────────── Shipping Method Management ───────────
		shippingAdmin := adminGroup.Group("/shipping-methods")
		{
			shippingAdmin.GET("", shippingControllers.ListAllShippingMethods(d.DB))
			shippingAdmin.POST("", shippingControllers.CreateShippingMethod(d.DB))
			shippingAdmin.PUT("/:code", shippingControllers.UpdateShippingMethod(d.DB))
			shippingAdmin.DELETE("/:code", shippingControllers.RetireShippingMethod(d.DB))
		}

		// ─────────── Cart Inspection ───────────
		cartMgmt := adminGroup.Group("/user-cart")
		{
			cartMgmt.GET("/:user_id", cartControllers.GetAdminCart(d.Carts))
		}
	}
}
