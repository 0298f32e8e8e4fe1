package checkout

import (
	"context"
	"sync"

	"github.com/pinfinity1/tiamara-sub002/cart"
	"github.com/pinfinity1/tiamara-sub002/catalog"
	"github.com/pinfinity1/tiamara-sub002/models"
	"github.com/pinfinity1/tiamara-sub002/order"
	"github.com/pinfinity1/tiamara-sub002/shipping"
)

type memCartRepo struct {
	mu    sync.Mutex
	seq   uint
	byKey map[string]*models.Cart
	byID  map[uint]*models.Cart
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{byKey: make(map[string]*models.Cart), byID: make(map[uint]*models.Cart)}
}

func (r *memCartRepo) GetCart(_ context.Context, ownerKey string) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byKey[ownerKey]
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	copied := *c
	copied.Items = append([]models.CartItem(nil), c.Items...)
	return &copied, nil
}

func (r *memCartRepo) CreateCart(_ context.Context, c *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	c.CartID = r.seq
	stored := *c
	stored.Items = nil
	r.byKey[c.OwnerKey] = &stored
	r.byID[c.CartID] = &stored
	return nil
}

func (r *memCartRepo) GetItem(_ context.Context, cartID, productID uint) (*models.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[cartID]
	if !ok {
		return nil, cart.ErrItemNotFound
	}
	for _, item := range c.Items {
		if item.ProductID == productID {
			copied := item
			return &copied, nil
		}
	}
	return nil, cart.ErrItemNotFound
}

func (r *memCartRepo) SaveItem(_ context.Context, item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[item.CartID]
	if !ok {
		return cart.ErrCartNotFound
	}
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i] = *item
			return nil
		}
	}
	c.Items = append(c.Items, *item)
	return nil
}

func (r *memCartRepo) DeleteItem(_ context.Context, cartID, productID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[cartID]
	if !ok {
		return cart.ErrItemNotFound
	}
	for i, item := range c.Items {
		if item.ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return cart.ErrItemNotFound
}

func (r *memCartRepo) ClearItems(_ context.Context, cartID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byID[cartID]; ok {
		c.Items = nil
	}
	return nil
}

func (r *memCartRepo) DeleteCart(_ context.Context, cartID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[cartID]
	if !ok {
		return cart.ErrCartNotFound
	}
	delete(r.byID, cartID)
	delete(r.byKey, c.OwnerKey)
	return nil
}

type stubCatalog struct {
	mu       sync.Mutex
	products map[uint]catalog.PriceAndStock
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{products: make(map[uint]catalog.PriceAndStock)}
}

func (s *stubCatalog) add(id uint, price float64, stock int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[id] = catalog.PriceAndStock{ProductID: id, EName: "product", SalePrice: price, AvailableQty: stock}
}

func (s *stubCatalog) GetPriceAndStock(_ context.Context, productID uint) (*catalog.PriceAndStock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	copied := p
	return &copied, nil
}

func (s *stubCatalog) ReleaseStock(_ context.Context, quantities map[uint]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, qty := range quantities {
		p := s.products[id]
		p.AvailableQty += qty
		s.products[id] = p
	}
	return nil
}

type stubShipping struct {
	mu      sync.Mutex
	methods map[string]shipping.Method
}

func newStubShipping() *stubShipping {
	return &stubShipping{methods: make(map[string]shipping.Method)}
}

func (s *stubShipping) add(code string, cost float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.methods[code] = shipping.Method{Code: code, EName: code, Cost: cost}
}

func (s *stubShipping) retire(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.methods, code)
}

func (s *stubShipping) ListMethods(context.Context) ([]shipping.Method, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]shipping.Method, 0, len(s.methods))
	for _, m := range s.methods {
		out = append(out, m)
	}
	return out, nil
}

func (s *stubShipping) GetMethod(_ context.Context, code string) (*shipping.Method, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.methods[code]
	if !ok {
		return nil, shipping.ErrMethodNotFound
	}
	return &m, nil
}

// memOrderRepo backs both the orchestrator and the state machine in tests.
type memOrderRepo struct {
	mu          sync.Mutex
	seq         uint
	orders      map[uint]*models.Order
	byRef       map[string]uint
	stock       *stubCatalog
	transitions int
}

func newMemOrderRepo(stock *stubCatalog) *memOrderRepo {
	return &memOrderRepo{orders: make(map[uint]*models.Order), byRef: make(map[string]uint), stock: stock}
}

func (r *memOrderRepo) Get(_ context.Context, orderID uint) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *memOrderRepo) GetByRef(_ context.Context, ref string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byRef[ref]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	copied := *r.orders[id]
	return &copied, nil
}

func (r *memOrderRepo) CreatePending(ctx context.Context, o *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range o.Items {
		fresh, err := r.stock.GetPriceAndStock(ctx, item.ProductID)
		if err != nil || fresh.AvailableQty < item.Quantity {
			available := 0
			if err == nil {
				available = fresh.AvailableQty
			}
			return &order.InsufficientStockError{ProductID: item.ProductID, Requested: item.Quantity, Available: available}
		}
	}
	for _, item := range o.Items {
		r.stock.ReleaseStock(ctx, map[uint]int{item.ProductID: -item.Quantity})
	}
	r.seq++
	o.ID = r.seq
	o.Status = models.OrderStatusPendingPayment
	stored := *o
	r.orders[o.ID] = &stored
	r.byRef[o.OrderRef] = o.ID
	return nil
}

func (r *memOrderRepo) SetGatewayRef(_ context.Context, orderID uint, ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[orderID]; ok && o.Status == models.OrderStatusPendingPayment {
		o.GatewayRef = ref
	}
	return nil
}

func (r *memOrderRepo) TransitionFromPending(ctx context.Context, orderID uint, target models.OrderStatus, gatewayRef string, releaseStock bool) (models.OrderStatus, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return "", false, order.ErrOrderNotFound
	}
	if o.Status != models.OrderStatusPendingPayment {
		return o.Status, false, nil
	}
	o.Status = target
	if gatewayRef != "" {
		o.GatewayRef = gatewayRef
	}
	if releaseStock {
		for _, item := range o.Items {
			r.stock.ReleaseStock(ctx, map[uint]int{item.ProductID: item.Quantity})
		}
	}
	r.transitions++
	return target, true, nil
}

type memSessionRepo struct {
	mu       sync.Mutex
	seq      uint
	sessions map[string]*models.CheckoutSession
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*models.CheckoutSession)}
}

func (r *memSessionRepo) Get(_ context.Context, ownerKey string) (*models.CheckoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[ownerKey]
	if !ok {
		return nil, ErrNoSession
	}
	copied := *s
	return &copied, nil
}

func (r *memSessionRepo) Save(_ context.Context, s *models.CheckoutSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == 0 {
		r.seq++
		s.ID = r.seq
	}
	stored := *s
	r.sessions[s.OwnerKey] = &stored
	return nil
}

type memAttemptRepo struct {
	mu       sync.Mutex
	attempts []models.PaymentAttempt
}

func (r *memAttemptRepo) Record(_ context.Context, attempt *models.PaymentAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, *attempt)
	return nil
}

func (r *memAttemptRepo) ListByOrder(_ context.Context, orderID uint) ([]models.PaymentAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.PaymentAttempt
	for _, a := range r.attempts {
		if a.OrderID == orderID {
			out = append(out, a)
		}
	}
	return out, nil
}
