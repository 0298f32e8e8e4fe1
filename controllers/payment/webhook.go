package paymentControllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pinfinity1/tiamara-sub002/checkout"
	"github.com/pinfinity1/tiamara-sub002/order"
	"github.com/pinfinity1/tiamara-sub002/payment"
)

// WebhookHandler receives the gateway's asynchronous notification. The
// adapter authenticates and records the attempt; the state machine is the
// only thing allowed to move the order.
func WebhookHandler(gateway *payment.Gateway, machine *order.StateMachine, orch *checkout.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse form"})
			return
		}

		attempt, o, err := gateway.HandleCallback(c.Request.Context(), c.Request.PostForm)
		if errors.Is(err, payment.ErrInvalidCallback) {
			// Security relevant: an unauthenticated callback referencing real
			// orders must leave no trace on them.
			log.Printf("rejected gateway callback: %v", err)
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid callback"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process callback"})
			return
		}

		status, err := machine.ApplyPaymentOutcome(c.Request.Context(), o.ID, attempt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to apply payment outcome"})
			return
		}

		if err := orch.Resolve(c.Request.Context(), "user:"+o.UserID, status); err != nil {
			log.Printf("order %d: closing checkout session failed: %v", o.ID, err)
		}

		c.JSON(http.StatusOK, gin.H{
			"message":   "callback processed",
			"order_ref": o.OrderRef,
			"status":    status,
		})
	}
}
