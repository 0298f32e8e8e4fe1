package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/pinfinity1/tiamara-sub002/cart"
	"github.com/pinfinity1/tiamara-sub002/models"
	"github.com/pinfinity1/tiamara-sub002/order"
	"github.com/pinfinity1/tiamara-sub002/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	cartRepo *memCartRepo
	catalog  *stubCatalog
	shipping *stubShipping
	orders   *memOrderRepo
	sessions *memSessionRepo
	carts    *cart.Store
	orch     *Orchestrator
}

func newFixture() *fixture {
	f := &fixture{
		cartRepo: newMemCartRepo(),
		catalog:  newStubCatalog(),
		shipping: newStubShipping(),
		sessions: newMemSessionRepo(),
	}
	f.orders = newMemOrderRepo(f.catalog)
	f.carts = cart.NewStore(f.cartRepo, f.catalog)
	f.orch = NewOrchestrator(f.carts, f.catalog, f.shipping, f.orders, f.sessions)
	return f
}

func TestBeginEmptyCartOpensNoSession(t *testing.T) {
	f := newFixture()
	owner := cart.UserOwner("user-1")

	s, err := f.orch.Begin(context.Background(), owner)

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, s)
	assert.Zero(t, f.orders.seq, "empty-cart checkout never creates an order")
	_, err = f.sessions.Get(context.Background(), owner.Key())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSelectShippingRequiresAuth(t *testing.T) {
	f := newFixture()
	f.catalog.add(1, 100, 10)
	f.shipping.add("standard", 20)
	owner := cart.AnonymousOwner("tok-abc")
	_, err := f.carts.AddLine(context.Background(), owner, 1, 2)
	require.NoError(t, err)

	_, err = f.orch.SelectShipping(context.Background(), owner, "standard")

	assert.ErrorIs(t, err, ErrAuthRequired)

	// The cart must survive the login detour untouched.
	c, err := f.carts.Get(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestSelectShippingBeginsImplicitly(t *testing.T) {
	f := newFixture()
	f.catalog.add(1, 100, 10)
	f.shipping.add("express", 35)
	owner := cart.UserOwner("user-1")
	_, err := f.carts.AddLine(context.Background(), owner, 1, 1)
	require.NoError(t, err)

	s, err := f.orch.SelectShipping(context.Background(), owner, "express")

	require.NoError(t, err)
	assert.Equal(t, models.CheckoutStateShippingSelection, s.State)
	assert.Equal(t, "express", s.MethodCode)
	assert.Equal(t, 35.0, s.ShippingCost)
}

func TestConfirmWithoutShippingSelection(t *testing.T) {
	f := newFixture()
	f.catalog.add(1, 100, 10)
	owner := cart.UserOwner("user-1")
	_, err := f.carts.AddLine(context.Background(), owner, 1, 1)
	require.NoError(t, err)
	_, err = f.orch.Begin(context.Background(), owner)
	require.NoError(t, err)

	_, err = f.orch.Confirm(context.Background(), owner)

	assert.ErrorIs(t, err, ErrShippingNotSelected)
}

func TestConfirmPriceDriftAbortsWithoutOrder(t *testing.T) {
	f := newFixture()
	f.catalog.add(7, 100, 10)
	f.shipping.add("standard", 20)
	owner := cart.UserOwner("user-1")
	_, err := f.carts.AddLine(context.Background(), owner, 7, 1)
	require.NoError(t, err)
	_, err = f.orch.SelectShipping(context.Background(), owner, "standard")
	require.NoError(t, err)

	// Price moves under the shopper between selection and confirmation.
	f.catalog.add(7, 120, 10)

	_, err = f.orch.Confirm(context.Background(), owner)

	var revErr *RevalidationError
	require.ErrorAs(t, err, &revErr)
	require.Len(t, revErr.Diffs, 1)
	assert.Equal(t, uint(7), revErr.Diffs[0].ProductID)
	assert.Equal(t, "price", revErr.Diffs[0].Field)
	assert.Equal(t, 100.0, revErr.Diffs[0].Expected)
	assert.Equal(t, 120.0, revErr.Diffs[0].Actual)
	assert.Zero(t, f.orders.seq, "no order may exist after a revalidation failure")

	// The cart stays as it was so the shopper can re-confirm.
	c, err := f.carts.Get(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, c.Items, 1)
}

func TestConfirmStockDriftAbortsWithoutOrder(t *testing.T) {
	f := newFixture()
	f.catalog.add(7, 100, 5)
	f.shipping.add("standard", 20)
	owner := cart.UserOwner("user-1")
	_, err := f.carts.AddLine(context.Background(), owner, 7, 3)
	require.NoError(t, err)
	_, err = f.orch.SelectShipping(context.Background(), owner, "standard")
	require.NoError(t, err)

	f.catalog.add(7, 100, 1)

	_, err = f.orch.Confirm(context.Background(), owner)

	var revErr *RevalidationError
	require.ErrorAs(t, err, &revErr)
	require.Len(t, revErr.Diffs, 1)
	assert.Equal(t, "stock", revErr.Diffs[0].Field)
	assert.Zero(t, f.orders.seq)
}

func TestConfirmRetiredShippingMethodAborts(t *testing.T) {
	f := newFixture()
	f.catalog.add(1, 100, 10)
	f.shipping.add("standard", 20)
	owner := cart.UserOwner("user-1")
	_, err := f.carts.AddLine(context.Background(), owner, 1, 1)
	require.NoError(t, err)
	_, err = f.orch.SelectShipping(context.Background(), owner, "standard")
	require.NoError(t, err)

	f.shipping.retire("standard")

	_, err = f.orch.Confirm(context.Background(), owner)

	var revErr *RevalidationError
	require.ErrorAs(t, err, &revErr)
	require.Len(t, revErr.Diffs, 1)
	assert.Equal(t, "shipping_method", revErr.Diffs[0].Field)
	assert.Zero(t, f.orders.seq)
}

func TestConfirmCreatesPendingOrderAndClearsCart(t *testing.T) {
	f := newFixture()
	f.catalog.add(1, 100, 10)
	f.catalog.add(2, 50, 4)
	f.shipping.add("standard", 20)
	owner := cart.UserOwner("user-1")
	ctx := context.Background()
	_, err := f.carts.AddLine(ctx, owner, 1, 2)
	require.NoError(t, err)
	_, err = f.carts.AddLine(ctx, owner, 2, 1)
	require.NoError(t, err)
	_, err = f.orch.SelectShipping(ctx, owner, "standard")
	require.NoError(t, err)

	o, err := f.orch.Confirm(ctx, owner)

	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPendingPayment, o.Status)
	assert.Equal(t, "user-1", o.UserID)
	assert.Equal(t, 270.0, o.TotalAmount) // 2*100 + 1*50 + 20 shipping
	assert.Equal(t, 20.0, o.ShippingCost)
	assert.NotEmpty(t, o.OrderRef)
	require.Len(t, o.Items, 2)

	// Stock is reserved with the pending order.
	p1, _ := f.catalog.GetPriceAndStock(ctx, 1)
	p2, _ := f.catalog.GetPriceAndStock(ctx, 2)
	assert.Equal(t, 8, p1.AvailableQty)
	assert.Equal(t, 3, p2.AvailableQty)

	s, err := f.sessions.Get(ctx, owner.Key())
	require.NoError(t, err)
	assert.Equal(t, models.CheckoutStatePaymentPending, s.State)
	assert.Equal(t, o.ID, s.OrderID)

	c, err := f.carts.Get(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestResolveClosesSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := cart.UserOwner("user-1")
	require.NoError(t, f.sessions.Save(ctx, &models.CheckoutSession{
		OwnerKey: owner.Key(),
		State:    models.CheckoutStatePaymentPending,
		OrderID:  1,
	}))

	require.NoError(t, f.orch.Resolve(ctx, owner.Key(), models.OrderStatusPaid))
	s, err := f.sessions.Get(ctx, owner.Key())
	require.NoError(t, err)
	assert.Equal(t, models.CheckoutStateComplete, s.State)

	// A second resolution is a no-op on the closed session.
	require.NoError(t, f.orch.Resolve(ctx, owner.Key(), models.OrderStatusFailed))
	s, _ = f.sessions.Get(ctx, owner.Key())
	assert.Equal(t, models.CheckoutStateComplete, s.State)
}

func TestResolveWithoutSessionIsNoop(t *testing.T) {
	f := newFixture()
	err := f.orch.Resolve(context.Background(), "user:nobody", models.OrderStatusPaid)
	assert.NoError(t, err)
}

// TestCheckoutToPaidPipeline walks the whole storefront flow: one product in
// the cart, a shipping method on top, a hosted payment session and finally the
// gateway's success callback landing on the order state machine.
func TestCheckoutToPaidPipeline(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.catalog.add(42, 100000, 3)
	f.shipping.add("standard", 20000)
	owner := cart.UserOwner("user-1")

	_, err := f.carts.AddLine(ctx, owner, 42, 1)
	require.NoError(t, err)
	_, err = f.orch.SelectShipping(ctx, owner, "standard")
	require.NoError(t, err)
	o, err := f.orch.Confirm(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 120000.0, o.TotalAmount)

	telr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "create", req["method"])
		orderBlock, _ := req["order"].(map[string]interface{})
		assert.Equal(t, o.OrderRef, orderBlock["cartid"])
		assert.Equal(t, "120000.00", orderBlock["amount"])
		json.NewEncoder(w).Encode(map[string]interface{}{
			"order": map[string]string{
				"ref": "TELR-REF-001",
				"url": "https://secure.telr.example/pay/TELR-REF-001",
			},
		})
	}))
	defer telr.Close()

	cfg := &payment.Config{
		StoreID:       12345,
		AuthKey:       "authkey",
		APIURL:        telr.URL,
		WebhookSecret: "hook-secret",
		Currency:      "IQD",
	}
	attempts := &memAttemptRepo{}
	gateway := payment.NewGateway(cfg, f.orders, attempts)

	payURL, gatewayRef, err := gateway.Initiate(ctx, o, payment.Customer{Name: "Buyer", Email: "b@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "https://secure.telr.example/pay/TELR-REF-001", payURL)
	assert.Equal(t, "TELR-REF-001", gatewayRef)

	stored, err := f.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "TELR-REF-001", stored.GatewayRef)

	form := url.Values{}
	form.Set("tran_cartid", o.OrderRef)
	form.Set("tran_ref", "TELR-REF-001")
	form.Set("tran_status", "A")
	form.Set("tran_amount", "120000.00")
	form.Set("tran_currency", "IQD")
	form.Set("tran_check", payment.Sign(cfg.WebhookSecret, form))

	attempt, callbackOrder, err := gateway.HandleCallback(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentOutcomeSuccess, attempt.Outcome)
	require.Equal(t, o.ID, callbackOrder.ID)

	machine := order.NewStateMachine(f.orders)
	status, err := machine.ApplyPaymentOutcome(ctx, callbackOrder.ID, attempt)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, status)

	require.NoError(t, f.orch.Resolve(ctx, owner.Key(), status))

	final, err := f.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, final.Status)
	assert.Equal(t, 120000.0, final.TotalAmount)

	recorded, err := attempts.ListByOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, models.PaymentOutcomeSuccess, recorded[0].Outcome)

	s, err := f.sessions.Get(ctx, owner.Key())
	require.NoError(t, err)
	assert.Equal(t, models.CheckoutStateComplete, s.State)

	// Stock stays deducted after a successful payment.
	p, _ := f.catalog.GetPriceAndStock(ctx, 42)
	assert.Equal(t, 2, p.AvailableQty)
}

func TestConfirmSessionLoadFailurePropagates(t *testing.T) {
	f := newFixture()
	owner := cart.AnonymousOwner("tok")
	_, err := f.orch.Confirm(context.Background(), owner)
	assert.True(t, errors.Is(err, ErrAuthRequired))
}
