package order

import (
	"context"
	"fmt"
	"log"

	"github.com/pinfinity1/tiamara-sub002/models"
)

// StateMachine is the sole authority for order status transitions. Nothing
// else may write an order's status.
type StateMachine struct {
	repo   Repository
	onPaid func(models.Order) // fulfillment hand-off, optional
}

func NewStateMachine(repo Repository) *StateMachine {
	return &StateMachine{repo: repo}
}

// OnPaid registers the hand-off invoked after a successful transition to
// paid. It runs outside the critical section and must not block.
func (m *StateMachine) OnPaid(fn func(models.Order)) {
	m.onPaid = fn
}

// ApplyPaymentOutcome drives the order by one recorded payment attempt.
// An order already out of pending_payment makes this a no-op returning the
// current status, which is what makes duplicated or retried gateway
// callbacks safe: the same success delivered twice never charges twice.
func (m *StateMachine) ApplyPaymentOutcome(ctx context.Context, orderID uint, attempt *models.PaymentAttempt) (models.OrderStatus, error) {
	var target models.OrderStatus
	releaseStock := false
	switch attempt.Outcome {
	case models.PaymentOutcomeSuccess:
		target = models.OrderStatusPaid
	case models.PaymentOutcomeFailure:
		target = models.OrderStatusFailed
		releaseStock = true
	case models.PaymentOutcomeCancelled:
		target = models.OrderStatusCancelled
		releaseStock = true
	default:
		return "", fmt.Errorf("unknown payment outcome %q", attempt.Outcome)
	}

	status, applied, err := m.repo.TransitionFromPending(ctx, orderID, target, attempt.GatewayRef, releaseStock)
	if err != nil {
		return "", err
	}
	if !applied {
		log.Printf("order %d: duplicate callback ignored, status already %s", orderID, status)
		return status, nil
	}

	if status == models.OrderStatusPaid && m.onPaid != nil {
		if o, err := m.repo.Get(ctx, orderID); err == nil {
			m.onPaid(*o)
		}
	}
	return status, nil
}
