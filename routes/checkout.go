package routes

import (
	"github.com/gin-gonic/gin"
	checkoutControllers "github.com/pinfinity1/tiamara-sub002/controllers/checkout"
	"github.com/pinfinity1/tiamara-sub002/middleware"
)

// SetupCheckoutRoutes registers the checkout flow. Begin works for anonymous
// owners too; shipping selection onward requires authentication, which the
// orchestrator enforces so the redirect-to-login contract stays in one place.
func SetupCheckoutRoutes(r *gin.Engine, d Deps) {
	checkoutGroup := r.Group("/checkout")
	checkoutGroup.Use(middleware.OptionalToken)
	{
		checkoutGroup.POST("/", checkoutControllers.Begin(d.Orchestrator))
		checkoutGroup.POST("/shipping", checkoutControllers.SelectShipping(d.Orchestrator))
		checkoutGroup.POST("/confirm", checkoutControllers.Confirm(d.Orchestrator, d.Gateway))
		checkoutGroup.GET("/result", checkoutControllers.Result(d.Orders))
	}
}
