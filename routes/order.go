package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/pinfinity1/tiamara-sub002/controllers/order"
	"github.com/pinfinity1/tiamara-sub002/middleware"
)

func SetupOrderRoutes(r *gin.Engine, d Deps) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		// Current user's order history
		orders.GET("/", orderControllers.GetUserOrdersHandler(d.DB))

		// Single order by id or order_ref
		orders.GET("/:orderID", orderControllers.GetOrderByIDHandler(d.DB))
	}
}
