package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/pinfinity1/tiamara-sub002/catalog"
	"github.com/pinfinity1/tiamara-sub002/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepository struct {
	mu    sync.Mutex
	seq   uint
	byKey map[string]*models.Cart
	byID  map[uint]*models.Cart

	saveErr error // injected failure for SaveItem
}

func newMemRepository() *memRepository {
	return &memRepository{
		byKey: make(map[string]*models.Cart),
		byID:  make(map[uint]*models.Cart),
	}
}

func (r *memRepository) GetCart(_ context.Context, ownerKey string) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byKey[ownerKey]
	if !ok {
		return nil, ErrCartNotFound
	}
	copied := *c
	copied.Items = append([]models.CartItem(nil), c.Items...)
	return &copied, nil
}

func (r *memRepository) CreateCart(_ context.Context, c *models.Cart) error {
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

func (r *memRepository) GetItem(_ context.Context, cartID, productID uint) (*models.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[cartID]
	if !ok {
		return nil, ErrItemNotFound
	}
	for _, item := range c.Items {
		if item.ProductID == productID {
			copied := item
			return &copied, nil
		}
	}
	return nil, ErrItemNotFound
}

func (r *memRepository) SaveItem(_ context.Context, item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	c, ok := r.byID[item.CartID]
	if !ok {
		return ErrCartNotFound
	}
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i] = *item
			return nil
		}
	}
	r.seq++
	item.ID = r.seq
	c.Items = append(c.Items, *item)
	return nil
}

func (r *memRepository) DeleteItem(_ context.Context, cartID, productID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[cartID]
	if !ok {
		return ErrItemNotFound
	}
	for i, item := range c.Items {
		if item.ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

func (r *memRepository) ClearItems(_ context.Context, cartID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byID[cartID]; ok {
		c.Items = nil
	}
	return nil
}

func (r *memRepository) DeleteCart(_ context.Context, cartID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[cartID]
	if !ok {
		return ErrCartNotFound
	}
	delete(r.byID, cartID)
	delete(r.byKey, c.OwnerKey)
	return nil
}

type stubCatalog struct {
	mu       sync.Mutex
	products map[uint]catalog.PriceAndStock
	errOn    map[uint]error // injected infra errors per product
	released []map[uint]int
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		products: make(map[uint]catalog.PriceAndStock),
		errOn:    make(map[uint]error),
	}
}

func (s *stubCatalog) add(id uint, price float64, stock int) {
	s.products[id] = catalog.PriceAndStock{
		ProductID:    id,
		EName:        "product",
		SalePrice:    price,
		AvailableQty: stock,
	}
}

func (s *stubCatalog) GetPriceAndStock(_ context.Context, productID uint) (*catalog.PriceAndStock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.errOn[productID]; ok {
		return nil, err
	}
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
	s.released = append(s.released, quantities)
	return nil
}

func quantities(c *models.Cart) map[uint]int {
	out := make(map[uint]int)
	for _, item := range c.Items {
		out[item.ProductID] = item.Quantity
	}
	return out
}

func TestAddLineSumsQuantities(t *testing.T) {
	cat := newStubCatalog()
	cat.add(7, 1500, 10)
	store := NewStore(newMemRepository(), cat)
	owner := AnonymousOwner("tok-1")

	_, err := store.AddLine(context.Background(), owner, 7, 2)
	require.NoError(t, err)
	c, err := store.AddLine(context.Background(), owner, 7, 3)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)

	// Adding 5 at once lands in the same place.
	other := AnonymousOwner("tok-2")
	c2, err := NewStore(newMemRepository(), cat).AddLine(context.Background(), other, 7, 5)
	require.NoError(t, err)
	assert.Equal(t, quantities(c2), quantities(c))
}

func TestAddLineUnavailableLeavesCartUntouched(t *testing.T) {
	cat := newStubCatalog()
	cat.add(1, 1000, 5)
	store := NewStore(newMemRepository(), cat)
	owner := AnonymousOwner("tok")

	_, err := store.AddLine(context.Background(), owner, 1, 1)
	require.NoError(t, err)

	// Unknown product
	_, err = store.AddLine(context.Background(), owner, 99, 1)
	assert.ErrorIs(t, err, ErrProductUnavailable)

	// Out of stock product
	cat.add(2, 500, 0)
	_, err = store.AddLine(context.Background(), owner, 2, 1)
	assert.ErrorIs(t, err, ErrProductUnavailable)

	c, err := store.Get(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{1: 1}, quantities(c))
}

func TestAddLineNegativeDeltaRemovesAtZero(t *testing.T) {
	cat := newStubCatalog()
	cat.add(3, 2000, 10)
	store := NewStore(newMemRepository(), cat)
	owner := UserOwner("user-1")

	_, err := store.AddLine(context.Background(), owner, 3, 2)
	require.NoError(t, err)
	c, err := store.AddLine(context.Background(), owner, 3, -2)
	require.NoError(t, err)

	assert.Empty(t, c.Items, "zero-quantity lines are deleted, never stored")
}

func TestSetLineQuantityOverwrites(t *testing.T) {
	cat := newStubCatalog()
	cat.add(4, 900, 10)
	store := NewStore(newMemRepository(), cat)
	owner := UserOwner("user-1")

	_, err := store.AddLine(context.Background(), owner, 4, 2)
	require.NoError(t, err)
	c, err := store.SetLineQuantity(context.Background(), owner, 4, 7)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 7, c.Items[0].Quantity)

	c, err = store.SetLineQuantity(context.Background(), owner, 4, 0)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestGetWithoutCartIsEmptyNotError(t *testing.T) {
	store := NewStore(newMemRepository(), newStubCatalog())

	c, err := store.Get(context.Background(), AnonymousOwner("fresh"))
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestClearMissingCartIsNoop(t *testing.T) {
	store := NewStore(newMemRepository(), newStubCatalog())
	assert.NoError(t, store.Clear(context.Background(), AnonymousOwner("fresh")))
}
