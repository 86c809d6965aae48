package cart

import (
	"context"
	"fmt"

	"gem-auction/internal/auctionerrors"
	"gem-auction/internal/models"
	"gem-auction/internal/notify"
	"gem-auction/utils"
)

// Checkout buys every buy-now entry through purchaser. Purchased entries leave the
// cart; entries that fail, or that were added at a current-bid price, stay.
// The returned error is the first purchase failure, if any. A cart without
// buy-now entries buys nothing and reports ErrNotForSale.
func (s *Store) Checkout(ctx context.Context, buyerID string, purchaser Purchaser) ([]models.Sale, error) {
	if buyerID == "" {
		s.notifier.Notify(notify.Notification{
			Level:       notify.LevelError,
			Title:       "Authentication Required",
			Description: "Please log in to purchase items",
		})
		return nil, fmt.Errorf("cart: checkout: %w", auctionerrors.ErrUnauthenticated)
	}

	items := s.Items()
	if len(items) == 0 {
		s.notifier.Notify(notify.Notification{
			Level:       notify.LevelError,
			Title:       "Cart Empty",
			Description: "Please add items to your cart before checkout",
		})
		return nil, fmt.Errorf("cart: checkout: %w", auctionerrors.ErrCartEmpty)
	}

	eligible := make([]models.CartItem, 0, len(items))
	for _, it := range items {
		if it.Type == models.ItemTypeBuyNow {
			eligible = append(eligible, it)
		}
	}
	if len(eligible) == 0 {
		s.notifier.Notify(notify.Notification{
			Level:       notify.LevelError,
			Title:       "Nothing to Purchase",
			Description: "Only buy-now items can be purchased. Place a bid to compete for the others",
		})
		return nil, fmt.Errorf("cart: checkout: no buy-now items: %w", auctionerrors.ErrNotForSale)
	}

	var (
		sales    []models.Sale
		firstErr error
	)
	for _, it := range eligible {
		sale, err := purchaser.BuyNow(ctx, it.ID, buyerID)
		if err != nil {
			utils.Warn("cart: checkout item failed", map[string]any{
				"auction_id": it.ID,
				"buyer_id":   buyerID,
				"error":      err.Error(),
			})
			if firstErr == nil {
				firstErr = fmt.Errorf("cart: checkout %s: %w", it.ID, err)
			}
			continue
		}
		sales = append(sales, sale)
		s.drop(it.ID)
	}

	if firstErr != nil {
		s.notifier.Notify(notify.Notification{
			Level:       notify.LevelError,
			Title:       "Purchase Failed",
			Description: fmt.Sprintf("%d of %d item(s) purchased", len(sales), len(eligible)),
		})
		return sales, firstErr
	}

	s.notifier.Notify(notify.Notification{
		Level:       notify.LevelSuccess,
		Title:       "Payment Successful",
		Description: "Your order has been placed successfully!",
	})
	return sales, nil
}

// drop removes an entry without notifying
func (s *Store) drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.items = append(s.items[:i:i], s.items[i+1:]...)
	}
}
