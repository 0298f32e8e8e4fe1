package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pinfinity1/tiamara-sub002/auth"
)

// SetupAuthRoutes registers all “/auth/*” endpoints.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	authGroup := r.Group("/auth")
	{
		// Login verifies the provider token and merges the session cart.
		authGroup.POST("/login", auth.LoginHandler(d.DB, d.Carts))
	}
}
