package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pinfinity1/tiamara-sub002/cart"
	"github.com/pinfinity1/tiamara-sub002/catalog"
	"github.com/pinfinity1/tiamara-sub002/models"
	"github.com/pinfinity1/tiamara-sub002/order"
	"github.com/pinfinity1/tiamara-sub002/shipping"
)

// Orchestrator drives a cart through cart review, shipping selection and into
// a pending order. Price, stock and shipping cost are re-validated against
// their authoritative sources at the payment transition; cached snapshots are
// never trusted.
type Orchestrator struct {
	carts    *cart.Store
	catalog  catalog.Catalog
	shipping shipping.Service
	orders   order.Repository
	sessions SessionRepository
}

func NewOrchestrator(carts *cart.Store, cat catalog.Catalog, ship shipping.Service, orders order.Repository, sessions SessionRepository) *Orchestrator {
	return &Orchestrator{carts: carts, catalog: cat, shipping: ship, orders: orders, sessions: sessions}
}

// Begin opens (or resets) the owner's checkout session at cart review.
// An empty cart never opens a session.
func (o *Orchestrator) Begin(ctx context.Context, owner cart.Owner) (*models.CheckoutSession, error) {
	c, err := o.carts.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	s, err := o.sessions.Get(ctx, owner.Key())
	if errors.Is(err, ErrNoSession) {
		s = &models.CheckoutSession{OwnerKey: owner.Key()}
	} else if err != nil {
		return nil, err
	}
	s.State = models.CheckoutStateCartReview
	s.MethodCode = ""
	s.ShippingCost = 0
	s.OrderID = 0
	if err := o.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// SelectShipping validates the chosen method and advances the session.
// Requires an authenticated owner; an anonymous caller gets ErrAuthRequired
// and their cart stays intact for after the login detour. A session that was
// never begun is begun implicitly so a shopper returning from login does not
// have to restart.
func (o *Orchestrator) SelectShipping(ctx context.Context, owner cart.Owner, methodCode string) (*models.CheckoutSession, error) {
	if !owner.Authenticated() {
		return nil, ErrAuthRequired
	}

	s, err := o.sessions.Get(ctx, owner.Key())
	if errors.Is(err, ErrNoSession) {
		s, err = o.Begin(ctx, owner)
	}
	if err != nil {
		return nil, err
	}

	method, err := o.shipping.GetMethod(ctx, methodCode)
	if err != nil {
		return nil, err
	}

	s.State = models.CheckoutStateShippingSelection
	s.MethodCode = method.Code
	s.ShippingCost = method.Cost
	if err := o.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Confirm re-validates every line and the shipping cost, then creates the
// pending order and reserves its stock. Any drift aborts with a
// RevalidationError naming the changed fields; no order is created.
func (o *Orchestrator) Confirm(ctx context.Context, owner cart.Owner) (*models.Order, error) {
	if !owner.Authenticated() {
		return nil, ErrAuthRequired
	}

	s, err := o.sessions.Get(ctx, owner.Key())
	if errors.Is(err, ErrNoSession) {
		return nil, ErrShippingNotSelected
	}
	if err != nil {
		return nil, err
	}
	if s.State != models.CheckoutStateShippingSelection {
		return nil, ErrShippingNotSelected
	}

	c, err := o.carts.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items, total, diffs, err := o.revalidateLines(ctx, c.Items)
	if err != nil {
		return nil, err
	}
	shippingCost, shipDiffs, err := o.revalidateShipping(ctx, s)
	if err != nil {
		return nil, err
	}
	diffs = append(diffs, shipDiffs...)
	if len(diffs) > 0 {
		return nil, &RevalidationError{Diffs: diffs}
	}

	newOrder := &models.Order{
		OrderRef:     generateOrderRef(),
		UserID:       owner.UserID(),
		Items:        items,
		MethodCode:   s.MethodCode,
		ShippingCost: shippingCost,
		TotalAmount:  total + shippingCost,
		Status:       models.OrderStatusPendingPayment,
		CreatedAt:    time.Now(),
	}

	if err := o.orders.CreatePending(ctx, newOrder); err != nil {
		var stockErr *order.InsufficientStockError
		if errors.As(err, &stockErr) {
			// Stock moved between revalidation and reservation.
			return nil, &RevalidationError{Diffs: []Diff{{
				ProductID: stockErr.ProductID,
				Field:     "stock",
				Expected:  float64(stockErr.Requested),
				Actual:    float64(stockErr.Available),
			}}}
		}
		return nil, err
	}

	s.State = models.CheckoutStatePaymentPending
	s.OrderID = newOrder.ID
	if err := o.sessions.Save(ctx, s); err != nil {
		return nil, err
	}

	// The order now owns the reservation; the cart has served its purpose.
	if err := o.carts.Clear(ctx, owner); err != nil {
		return newOrder, nil // order stands, stale cart is harmless
	}
	return newOrder, nil
}

// Resolve closes the session once the order left pending_payment.
func (o *Orchestrator) Resolve(ctx context.Context, ownerKey string, status models.OrderStatus) error {
	s, err := o.sessions.Get(ctx, ownerKey)
	if errors.Is(err, ErrNoSession) {
		return nil
	}
	if err != nil {
		return err
	}
	if s.State != models.CheckoutStatePaymentPending {
		return nil
	}
	if status == models.OrderStatusPaid {
		s.State = models.CheckoutStateComplete
	} else {
		s.State = models.CheckoutStateAborted
	}
	return o.sessions.Save(ctx, s)
}

func (o *Orchestrator) revalidateLines(ctx context.Context, lines []models.CartItem) ([]models.OrderItem, float64, []Diff, error) {
	var (
		items []models.OrderItem
		total float64
		diffs []Diff
	)
	for _, line := range lines {
		fresh, err := o.catalog.GetPriceAndStock(ctx, line.ProductID)
		if errors.Is(err, catalog.ErrNotFound) {
			diffs = append(diffs, Diff{ProductID: line.ProductID, Field: "product"})
			continue
		}
		if err != nil {
			return nil, 0, nil, err
		}
		if fresh.SalePrice != line.ProductSalePrice {
			diffs = append(diffs, Diff{
				ProductID: line.ProductID,
				Field:     "price",
				Expected:  line.ProductSalePrice,
				Actual:    fresh.SalePrice,
			})
		}
		if fresh.AvailableQty < line.Quantity {
			diffs = append(diffs, Diff{
				ProductID: line.ProductID,
				Field:     "stock",
				Expected:  float64(line.Quantity),
				Actual:    float64(fresh.AvailableQty),
			})
		}
		total += fresh.SalePrice * float64(line.Quantity)
		items = append(items, models.OrderItem{
			ProductID:           fresh.ProductID,
			ProductEName:        fresh.EName,
			ProductArName:       fresh.ARName,
			ProductImage:        fresh.Image,
			ProductSalePrice:    fresh.SalePrice,
			ProductRegularPrice: fresh.RegularPrice,
			Weight:              fresh.Weight,
			Quantity:            line.Quantity,
		})
	}
	return items, total, diffs, nil
}

func (o *Orchestrator) revalidateShipping(ctx context.Context, s *models.CheckoutSession) (float64, []Diff, error) {
	method, err := o.shipping.GetMethod(ctx, s.MethodCode)
	if errors.Is(err, shipping.ErrMethodNotFound) {
		return 0, []Diff{{Field: "shipping_method", Expected: s.ShippingCost}}, nil
	}
	if err != nil {
		return 0, nil, err
	}
	if method.Cost != s.ShippingCost {
		return 0, []Diff{{Field: "shipping_cost", Expected: s.ShippingCost, Actual: method.Cost}}, nil
	}
	return method.Cost, nil, nil
}

// generateOrderRef mirrors the storefront's order reference format.
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}
