package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pinfinity1/tiamara-sub002/catalog"
	"github.com/pinfinity1/tiamara-sub002/models"
)

// Store holds one mutable line-item collection per owner. Every mutation
// re-validates the product against the catalog before touching storage, so a
// failed validation never leaves a partial write behind.
//
// Writes are last-write-wins per (owner, product); a single owner mutating
// concurrently from independent clients is not serialized.
type Store struct {
	repo    Repository
	catalog catalog.Catalog
}

func NewStore(repo Repository, cat catalog.Catalog) *Store {
	return &Store{repo: repo, catalog: cat}
}

// Get returns the owner's cart. An owner without a persisted cart gets an
// empty one; carts are only created on first mutation.
func (s *Store) Get(ctx context.Context, owner Owner) (*models.Cart, error) {
	c, err := s.repo.GetCart(ctx, owner.Key())
	if errors.Is(err, ErrCartNotFound) {
		return &models.Cart{OwnerKey: owner.Key(), Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// AddLine adds qty (a delta, may be negative) of a product to the owner's
// cart. An existing line has its quantity summed; a resulting quantity of
// zero or less removes the line.
func (s *Store) AddLine(ctx context.Context, owner Owner, productID uint, qty int) (*models.Cart, error) {
	snapshot, err := s.validateProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	c, err := s.ensureCart(ctx, owner)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, c.CartID, productID)
	switch {
	case errors.Is(err, ErrItemNotFound):
		if qty <= 0 {
			return s.Get(ctx, owner)
		}
		item = newItem(c.CartID, snapshot, qty)
	case err != nil:
		return nil, err
	default:
		item.Quantity += qty
		item.AddedAt = time.Now()
	}

	if err := s.writeItem(ctx, c.CartID, item); err != nil {
		return nil, err
	}
	return s.Get(ctx, owner)
}

// SetLineQuantity overwrites a line's quantity. Zero or less removes the line.
func (s *Store) SetLineQuantity(ctx context.Context, owner Owner, productID uint, qty int) (*models.Cart, error) {
	snapshot, err := s.validateProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	c, err := s.ensureCart(ctx, owner)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, c.CartID, productID)
	switch {
	case errors.Is(err, ErrItemNotFound):
		if qty <= 0 {
			return s.Get(ctx, owner)
		}
		item = newItem(c.CartID, snapshot, qty)
	case err != nil:
		return nil, err
	default:
		item.Quantity = qty
		item.AddedAt = time.Now()
	}

	if err := s.writeItem(ctx, c.CartID, item); err != nil {
		return nil, err
	}
	return s.Get(ctx, owner)
}

// RemoveLine deletes a line outright.
func (s *Store) RemoveLine(ctx context.Context, owner Owner, productID uint) error {
	c, err := s.repo.GetCart(ctx, owner.Key())
	if err != nil {
		return err
	}
	return s.repo.DeleteItem(ctx, c.CartID, productID)
}

// Clear empties the owner's cart. A missing cart is already clear.
func (s *Store) Clear(ctx context.Context, owner Owner) error {
	c, err := s.repo.GetCart(ctx, owner.Key())
	if errors.Is(err, ErrCartNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.repo.ClearItems(ctx, c.CartID)
}

func (s *Store) validateProduct(ctx context.Context, productID uint) (*catalog.PriceAndStock, error) {
	snapshot, err := s.catalog.GetPriceAndStock(ctx, productID)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, ErrProductUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("catalog lookup: %w", err)
	}
	if snapshot.AvailableQty <= 0 {
		return nil, ErrProductUnavailable
	}
	return snapshot, nil
}

func (s *Store) ensureCart(ctx context.Context, owner Owner) (*models.Cart, error) {
	c, err := s.repo.GetCart(ctx, owner.Key())
	if errors.Is(err, ErrCartNotFound) {
		c = &models.Cart{OwnerKey: owner.Key()}
		if err := s.repo.CreateCart(ctx, c); err != nil {
			return nil, err
		}
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// writeItem persists the item, deleting instead when quantity dropped to zero
// or below. Zero-quantity lines are never stored.
func (s *Store) writeItem(ctx context.Context, cartID uint, item *models.CartItem) error {
	if item.Quantity <= 0 {
		return s.repo.DeleteItem(ctx, cartID, item.ProductID)
	}
	return s.repo.SaveItem(ctx, item)
}

func newItem(cartID uint, snapshot *catalog.PriceAndStock, qty int) *models.CartItem {
	return &models.CartItem{
		CartID:              cartID,
		ProductID:           snapshot.ProductID,
		ProductEName:        snapshot.EName,
		ProductArName:       snapshot.ARName,
		ProductImage:        snapshot.Image,
		ProductSalePrice:    snapshot.SalePrice,
		ProductRegularPrice: snapshot.RegularPrice,
		Weight:              snapshot.Weight,
		Quantity:            qty,
		AddedAt:             time.Now(),
	}
}
