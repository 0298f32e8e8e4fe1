package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pinfinity1/tiamara-sub002/cart"
	"github.com/pinfinity1/tiamara-sub002/checkout"
	"github.com/pinfinity1/tiamara-sub002/order"
	"github.com/pinfinity1/tiamara-sub002/payment"
	"github.com/pinfinity1/tiamara-sub002/session"
	"github.com/pinfinity1/tiamara-sub002/shipping"
	"gorm.io/gorm"
)

// Deps bundles everything the route groups need.
type Deps struct {
	DB           *gorm.DB
	Carts        *cart.Store
	Orchestrator *checkout.Orchestrator
	Gateway      *payment.Gateway
	StateMachine *order.StateMachine
	Orders       order.Repository
	Shipping     shipping.Service
	Attempts     payment.AttemptRepository
}

// SetupRoutes is the single entry-point that wires up all route groups.
// The session middleware runs first so every cart operation sees a resolved
// owner token.
func SetupRoutes(r *gin.Engine, d Deps) {
	r.Use(session.Middleware())

	// 1️⃣ Public Auth routes (no middleware)
	SetupAuthRoutes(r, d)

	// 2️⃣ Storefront routes (anonymous or authenticated)
	SetupStorefrontRoutes(r, d)

	// 3️⃣ Checkout + payment pipeline
	SetupCheckoutRoutes(r, d)
	SetupPaymentRoutes(r, d)

	// 4️⃣ User order history (JWT-protected)
	SetupOrderRoutes(r, d)

	// 5️⃣ Admin routes (API-Key-protected)
	SetupAdminRoutes(r, d)
}
