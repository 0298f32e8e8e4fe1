package models

import "time"

type CheckoutState string

const (
	CheckoutStateCartReview        CheckoutState = "cart_review"
	CheckoutStateShippingSelection CheckoutState = "shipping_selection"
	CheckoutStatePaymentPending    CheckoutState = "payment_pending"
	CheckoutStateComplete          CheckoutState = "complete"
	CheckoutStateAborted           CheckoutState = "aborted"
)

// CheckoutSession tracks one owner's progress through the checkout flow.
// One live session per owner; beginning checkout again resets an old one.
type CheckoutSession struct {
	ID           uint          `gorm:"primaryKey"`
	OwnerKey     string        `gorm:"uniqueIndex;not null"`
	State        CheckoutState `gorm:"type:VARCHAR(20)"`
	MethodCode   string
	ShippingCost float64
	OrderID      uint // set once the pending order exists
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
