package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/pinfinity1/tiamara-sub002/models"
)

var ErrOrderNotFound = errors.New("order not found")

// InsufficientStockError reports the product that could not be reserved when
// a pending order was being created.
type InsufficientStockError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// Repository is the storage behind pending-order creation and the status
// transition. Implementations must make TransitionFromPending an order-scoped
// critical section: two callers racing on the same order must never both
// observe pending_payment.
type Repository interface {
	Get(ctx context.Context, orderID uint) (*models.Order, error)
	GetByRef(ctx context.Context, orderRef string) (*models.Order, error)

	// CreatePending persists the order and reserves its stock atomically.
	// Returns *InsufficientStockError when any line cannot be reserved; in
	// that case nothing is written.
	CreatePending(ctx context.Context, o *models.Order) error

	// SetGatewayRef records the gateway's reference once a payment session
	// exists. Only valid while the order is pending.
	SetGatewayRef(ctx context.Context, orderID uint, gatewayRef string) error

	// TransitionFromPending moves the order to target iff it is still in
	// pending_payment, releasing reserved stock when releaseStock is set.
	// Returns the order's status after the call and whether this call
	// applied the transition.
	TransitionFromPending(ctx context.Context, orderID uint, target models.OrderStatus, gatewayRef string, releaseStock bool) (models.OrderStatus, bool, error)
}
