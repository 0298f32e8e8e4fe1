package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pinfinity1/tiamara-sub002/catalog"
)

// MergeResult reports what happened to the anonymous cart's lines.
type MergeResult struct {
	Merged  int // lines whose quantity landed in the user cart
	Dropped int // lines for products gone or out of stock, discarded
}

// MergeError is the soft failure of a partial merge: the lines merged so far
// are in the user cart, the anonymous cart is preserved for a retry on the
// next login. Callers must not surface it as a hard failure; losing a cart is
// worse than a duplicate merge attempt.
type MergeError struct {
	Merged int
	Err    error
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("cart merge stopped after %d lines: %v", e.Merged, e.Err)
}

func (e *MergeError) Unwrap() error { return e.Err }

// MergeOnLogin folds the anonymous cart identified by sessionToken into the
// user's cart, summing quantities for shared products, then deletes the
// anonymous cart. Deleting the source after the last successful line makes a
// retry see an empty source and become a no-op; the merge itself is not
// idempotent, so that deletion is what keeps quantities from doubling.
func (s *Store) MergeOnLogin(ctx context.Context, sessionToken, userID string) (*MergeResult, error) {
	source, err := s.repo.GetCart(ctx, AnonymousOwner(sessionToken).Key())
	if errors.Is(err, ErrCartNotFound) {
		return &MergeResult{}, nil // nothing to merge
	}
	if err != nil {
		return nil, &MergeError{Err: err}
	}

	target, err := s.ensureCart(ctx, UserOwner(userID))
	if err != nil {
		return nil, &MergeError{Err: err}
	}

	result := &MergeResult{}
	for _, line := range source.Items {
		snapshot, err := s.catalog.GetPriceAndStock(ctx, line.ProductID)
		if errors.Is(err, catalog.ErrNotFound) {
			result.Dropped++ // gone from the catalog, nothing to carry over
			continue
		}
		if err != nil {
			return result, &MergeError{Merged: result.Merged, Err: err}
		}
		if snapshot.AvailableQty <= 0 {
			result.Dropped++
			continue
		}

		if err := s.mergeLine(ctx, target.CartID, snapshot, line.Quantity); err != nil {
			return result, &MergeError{Merged: result.Merged, Err: err}
		}
		result.Merged++
	}

	if err := s.repo.DeleteCart(ctx, source.CartID); err != nil {
		// Lines are merged; a dangling source cart would double them on the
		// next login, so this still counts as a partial merge.
		return result, &MergeError{Merged: result.Merged, Err: err}
	}
	return result, nil
}

func (s *Store) mergeLine(ctx context.Context, targetCartID uint, snapshot *catalog.PriceAndStock, qty int) error {
	item, err := s.repo.GetItem(ctx, targetCartID, snapshot.ProductID)
	switch {
	case errors.Is(err, ErrItemNotFound):
		item = newItem(targetCartID, snapshot, qty)
	case err != nil:
		return err
	default:
		item.Quantity += qty
		item.AddedAt = time.Now()
	}
	return s.repo.SaveItem(ctx, item)
}
