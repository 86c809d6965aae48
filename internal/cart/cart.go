package cart

import (
	"context"
	"fmt"
	"sync"

	"gem-auction/internal/auctionerrors"
	"gem-auction/internal/models"
	"gem-auction/internal/notify"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=cart.go -destination=mock_cart.go -package=cart

// Purchaser completes a buy-now purchase for one auction
type Purchaser interface {
	BuyNow(ctx context.Context, auctionID, buyerID string) (models.Sale, error)
}

// Store is the session cart: buy-now items unique by id, kept in insertion order.
// Construct one per session and pass it to the views that need it.
type Store struct {
	mu       sync.RWMutex
	items    []models.CartItem
	notifier notify.Notifier
}

// NewStore creates an empty cart. A nil notifier discards notifications.
func NewStore(notifier notify.Notifier) *Store {
	if notifier == nil {
		notifier = notify.Func(func(notify.Notification) {})
	}
	return &Store{notifier: notifier}
}

// AddItem appends item unless an entry with the same id is already present,
// in which case the cart is unchanged and ErrAlreadyInCart is returned.
func (s *Store) AddItem(item models.CartItem) error {
	s.mu.Lock()
	if s.indexOf(item.ID) >= 0 {
		s.mu.Unlock()
		s.notifier.Notify(notify.Notification{
			Level:       notify.LevelInfo,
			Title:       "Item Already in Cart",
			Description: fmt.Sprintf("%s is already in your cart", item.Title),
		})
		return fmt.Errorf("cart: add %s: %w", item.ID, auctionerrors.ErrAlreadyInCart)
	}
	s.items = append(s.items, item)
	s.mu.Unlock()

	s.notifier.Notify(notify.Notification{
		Level:       notify.LevelSuccess,
		Title:       "Added to Cart",
		Description: fmt.Sprintf("%s has been added to your cart", item.Title),
	})
	return nil
}

// RemoveItem drops the entry with the given id. Unknown ids are ignored.
func (s *Store) RemoveItem(id string) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	s.mu.Unlock()

	s.notifier.Notify(notify.Notification{
		Level:       notify.LevelInfo,
		Title:       "Removed from Cart",
		Description: "Item has been removed from your cart",
	})
}

// Clear empties the cart
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// TotalPrice is the exact sum of all entry prices; zero for an empty cart
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.Price)
	}
	return total
}

// ItemCount returns the number of entries
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Items returns the entries in display order
func (s *Store) Items() []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CartItem(nil), s.items...)
}

// Contains reports whether an entry with id is present
func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id) >= 0
}

// indexOf must be called with s.mu held
func (s *Store) indexOf(id string) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
