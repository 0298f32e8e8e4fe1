package models

import "time"

type OrderStatus string

const (
	// Order lifecycle. pending_payment is the only non-terminal state; the
	// order state machine owns every transition out of it.
	OrderStatusPendingPayment OrderStatus = "pending_payment" // Awaiting gateway outcome
	OrderStatusPaid           OrderStatus = "paid"            // Payment captured
	OrderStatusFulfilling     OrderStatus = "fulfilling"      // Handed off to fulfillment
	OrderStatusFailed         OrderStatus = "failed"          // Gateway declined
	OrderStatusCancelled      OrderStatus = "cancelled"       // Buyer cancelled on the gateway page
)

// IsTerminal reports whether no further payment outcome may be applied.
func (s OrderStatus) IsTerminal() bool {
	return s != OrderStatusPendingPayment
}

type Order struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	OrderRef     string      `gorm:"uniqueIndex" json:"order_ref"`
	UserID       string      `gorm:"not null;index" json:"user_id"`
	Items        []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	MethodCode   string      `json:"method_code"`
	ShippingCost float64     `json:"shipping_cost"`
	TotalAmount  float64     `json:"total_amount"`
	Status       OrderStatus `gorm:"type:VARCHAR(20);default:'pending_payment'" json:"status"`
	GatewayRef   string      `json:"gateway_ref"` // settlement reference from the payment gateway
	CreatedAt    time.Time   `json:"created_at"`
}

type OrderItem struct {
	ID                  uint `gorm:"primaryKey"`
	OrderID             uint `gorm:"index"`
	ProductID           uint
	ProductEName        string
	ProductArName       string
	ProductImage        string
	ProductSalePrice    float64
	ProductRegularPrice float64
	Weight              float64
	Quantity            int
}
