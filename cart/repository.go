package cart

import (
	"context"
	"errors"

	"github.com/pinfinity1/tiamara-sub002/models"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrItemNotFound = errors.New("cart item not found")

	// ErrProductUnavailable is returned when the product behind a mutation is
	// gone or out of stock; the cart is left untouched.
	ErrProductUnavailable = errors.New("product unavailable")
)

// Repository is the storage behind the owner-keyed cart store.
type Repository interface {
	GetCart(ctx context.Context, ownerKey string) (*models.Cart, error)
	CreateCart(ctx context.Context, cart *models.Cart) error
	GetItem(ctx context.Context, cartID, productID uint) (*models.CartItem, error)
	SaveItem(ctx context.Context, item *models.CartItem) error
	DeleteItem(ctx context.Context, cartID, productID uint) error
	ClearItems(ctx context.Context, cartID uint) error
	DeleteCart(ctx context.Context, cartID uint) error
}
