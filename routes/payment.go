package routes

import (
	"github.com/gin-gonic/gin"
	paymentControllers "github.com/pinfinity1/tiamara-sub002/controllers/payment"
)

func SetupPaymentRoutes(r *gin.Engine, d Deps) {
	paymentGroup := r.Group("/payment")
	{
		// Webhook endpoint: the gateway adapter verifies the signature before
		// anything touches order state.
		paymentGroup.POST("/webhook",
			paymentControllers.WebhookHandler(d.Gateway, d.StateMachine, d.Orchestrator),
		)
	}
}
