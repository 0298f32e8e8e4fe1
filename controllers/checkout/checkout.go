package checkoutControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pinfinity1/tiamara-sub002/cart"
	"github.com/pinfinity1/tiamara-sub002/checkout"
	"github.com/pinfinity1/tiamara-sub002/middleware"
	"github.com/pinfinity1/tiamara-sub002/order"
	"github.com/pinfinity1/tiamara-sub002/payment"
	"github.com/pinfinity1/tiamara-sub002/session"
	"github.com/pinfinity1/tiamara-sub002/shipping"
)

func resolveOwner(c *gin.Context) (cart.Owner, bool) {
	if userID := middleware.UserID(c); userID != "" {
		return cart.UserOwner(userID), true
	}
	if token := session.Token(c); token != "" {
		return cart.AnonymousOwner(token), true
	}
	return cart.Owner{}, false
}

// POST /checkout: opens the checkout session at cart review.
// An empty cart is not an error: the shopper is pointed back to the catalog.
func Begin(orch *checkout.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := resolveOwner(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No cart identity"})
			return
		}
		s, err := orch.Begin(c.Request.Context(), owner)
		if errors.Is(err, checkout.ErrEmptyCart) {
			c.JSON(http.StatusOK, gin.H{"state": "empty_cart", "redirect": "/products"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to begin checkout"})
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

// POST /checkout/shipping
func SelectShipping(orch *checkout.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := resolveOwner(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No cart identity"})
			return
		}
		var input struct {
			MethodCode string `json:"method_code" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		s, err := orch.SelectShipping(c.Request.Context(), owner, input.MethodCode)
		switch {
		case errors.Is(err, checkout.ErrAuthRequired):
			// Cart state survives the login detour.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Sign in to continue checkout", "redirect": "/auth/login"})
		case errors.Is(err, checkout.ErrEmptyCart):
			c.JSON(http.StatusOK, gin.H{"state": "empty_cart", "redirect": "/products"})
		case errors.Is(err, shipping.ErrMethodNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown shipping method"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to select shipping"})
		default:
			c.JSON(http.StatusOK, s)
		}
	}
}

type ConfirmInput struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone" binding:"required"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	Region       string `json:"region"`
	Country      string `json:"country"`
	Postcode     string `json:"postcode"`
}

// POST /checkout/confirm: revalidates, creates the pending order and returns
// the gateway redirect URL.
func Confirm(orch *checkout.Orchestrator, gateway *payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := resolveOwner(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No cart identity"})
			return
		}
		var input ConfirmInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		o, err := orch.Confirm(c.Request.Context(), owner)
		if err != nil {
			var revalidation *checkout.RevalidationError
			switch {
			case errors.As(err, &revalidation):
				// Caller re-renders the cart with the corrected values.
				c.JSON(http.StatusConflict, gin.H{
					"error":   "Cart contents changed, please review",
					"changes": revalidation.Diffs,
				})
			case errors.Is(err, checkout.ErrAuthRequired):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Sign in to continue checkout", "redirect": "/auth/login"})
			case errors.Is(err, checkout.ErrEmptyCart):
				c.JSON(http.StatusOK, gin.H{"state": "empty_cart", "redirect": "/products"})
			case errors.Is(err, checkout.ErrShippingNotSelected):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Select a shipping method first"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm checkout"})
			}
			return
		}

		paymentURL, gatewayRef, err := gateway.Initiate(c.Request.Context(), o, payment.Customer{
			Name:         input.Name,
			Email:        input.Email,
			Phone:        input.Phone,
			AddressLine1: input.AddressLine1,
			AddressLine2: input.AddressLine2,
			City:         input.City,
			Region:       input.Region,
			Country:      input.Country,
			Postcode:     input.Postcode,
		})
		if err != nil {
			// The pending order stays; a late callback or the expiry sweep
			// resolves it.
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"payment_url": paymentURL,
			"order_ref":   o.OrderRef,
			"gateway_ref": gatewayRef,
			"total":       o.TotalAmount,
		})
	}
}

// GET /checkout/result: the terminal status page surface. Purely
// presentational; it only reads what the order state machine decided.
func Result(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := c.Query("status")
		orderRef := c.Query("orderId")
		refID := c.Query("refId")
		message := c.Query("message")

		if status != "success" && status != "failed" && status != "cancelled" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}

		resp := gin.H{
			"status":  status,
			"orderId": orderRef,
			"refId":   refID,
			"message": message,
		}
		if orderRef != "" {
			if o, err := orders.GetByRef(c.Request.Context(), orderRef); err == nil {
				resp["order_status"] = o.Status
				resp["total"] = o.TotalAmount
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GET /shipping/methods
func ListShippingMethods(ship shipping.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		methods, err := ship.ListMethods(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shipping methods"})
			return
		}
		c.JSON(http.StatusOK, methods)
	}
}
