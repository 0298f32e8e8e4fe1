package models

import "time"

type PaymentOutcome string

const (
	PaymentOutcomeSuccess   PaymentOutcome = "success"
	PaymentOutcomeFailure   PaymentOutcome = "failure"
	PaymentOutcomeCancelled PaymentOutcome = "cancelled"
)

// PaymentAttempt is the append-only audit record of one gateway notification.
// Several attempts may exist per order (retries, duplicated webhooks); at most
// one ever moves the order out of pending_payment.
type PaymentAttempt struct {
	AttemptID  string         `gorm:"primaryKey" json:"attempt_id"`
	OrderID    uint           `gorm:"index" json:"order_id"`
	GatewayRef string         `json:"gateway_ref"`
	Outcome    PaymentOutcome `gorm:"type:VARCHAR(20)" json:"outcome"`
	ReceivedAt time.Time      `json:"received_at"`
}
