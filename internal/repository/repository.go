package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gem-auction/internal/auctionerrors"
	"gem-auction/internal/models"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// AuctionDB defines the storage interface for auctions, bids, chat, plans and sales
type AuctionDB interface {
	CreateAuction(ctx context.Context, auction models.AuctionSnapshot) error
	GetAuction(ctx context.Context, auctionID string) (models.AuctionSnapshot, error)
	ListAuctions(ctx context.Context) ([]models.AuctionSnapshot, error)

	// RecordBid stores bid only if its amount beats the auction's current bid
	// and the auction is open, updating current bid and bid count in the same step.
	RecordBid(ctx context.Context, bid models.Bid) (models.AuctionSnapshot, error)
	GetBidsByAuction(ctx context.Context, auctionID string, limit int) ([]models.Bid, error)
	GetWinningBid(ctx context.Context, auctionID string) (models.Bid, error)
	GetAuctionsByBidder(ctx context.Context, userID string) ([]models.AuctionSnapshot, error)

	AddMessage(ctx context.Context, msg models.ChatMessage) error
	GetMessages(ctx context.Context, auctionID string, limit int) ([]models.ChatMessage, error)

	CreatePlan(ctx context.Context, plan models.MembershipPlan) error
	ListPlans(ctx context.Context) ([]models.MembershipPlan, error)
	GetPlan(ctx context.Context, planID string) (models.MembershipPlan, error)
	UpsertMembership(ctx context.Context, membership models.UserMembership) (models.UserMembership, error)
	GetMembership(ctx context.Context, userID string) (models.UserMembership, error)

	// RecordSale marks the auction sold and stores the sale in one step
	RecordSale(ctx context.Context, sale models.Sale) error
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu          sync.RWMutex
	auctions    map[string]models.AuctionSnapshot // key: auctionID
	bids        map[string][]models.Bid           // key: auctionID -> bids in insertion order
	messages    map[string][]models.ChatMessage   // key: auctionID -> messages in insertion order
	userBids    map[string][]string               // key: userID -> auctionIDs the user has bid on
	plans       map[string]models.MembershipPlan  // key: planID
	memberships map[string]models.UserMembership  // key: userID
	sales       []models.Sale
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		auctions:    make(map[string]models.AuctionSnapshot),
		bids:        make(map[string][]models.Bid),
		messages:    make(map[string][]models.ChatMessage),
		userBids:    make(map[string][]string),
		plans:       make(map[string]models.MembershipPlan),
		memberships: make(map[string]models.UserMembership),
	}
}

// CreateAuction adds or replaces an auction listing
func (r *MemoryRepo) CreateAuction(_ context.Context, auction models.AuctionSnapshot) error {
	if auction.ID == "" {
		return fmt.Errorf("create auction: %w", auctionerrors.ErrValidation)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auctions[auction.ID] = auction
	return nil
}

// GetAuction returns a single auction
func (r *MemoryRepo) GetAuction(_ context.Context, auctionID string) (models.AuctionSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.auctions[auctionID]
	if !ok {
		return models.AuctionSnapshot{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return a, nil
}

// ListAuctions returns every auction, newest first
func (r *MemoryRepo) ListAuctions(_ context.Context) ([]models.AuctionSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.AuctionSnapshot, 0, len(r.auctions))
	for _, a := range r.auctions {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// RecordBid records a bid that beats the current one
func (r *MemoryRepo) RecordBid(_ context.Context, bid models.Bid) (models.AuctionSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.auctions[bid.AuctionID]
	if !ok {
		return models.AuctionSnapshot{}, fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, auctionerrors.ErrAuctionNotFound)
	}
	if !a.Status.Biddable() {
		return models.AuctionSnapshot{}, fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, auctionerrors.ErrAuctionClosed)
	}
	if !bid.Amount.GreaterThan(a.CurrentBid) {
		return models.AuctionSnapshot{}, fmt.Errorf("record bid for auction %s: current bid is %s: %w",
			bid.AuctionID, a.CurrentBid, auctionerrors.ErrBidTooLow)
	}

	a.CurrentBid = bid.Amount
	a.BidCount++
	a.UpdatedAt = bid.CreatedAt
	r.auctions[a.ID] = a
	r.bids[a.ID] = append(r.bids[a.ID], bid)

	for _, id := range r.userBids[bid.BidderID] {
		if id == bid.AuctionID {
			return a, nil
		}
	}
	r.userBids[bid.BidderID] = append(r.userBids[bid.BidderID], bid.AuctionID)

	return a, nil
}

// GetBidsByAuction returns an auction's bids, newest first. limit <= 0 returns all.
func (r *MemoryRepo) GetBidsByAuction(_ context.Context, auctionID string, limit int) ([]models.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids := r.bids[auctionID]
	if len(bids) == 0 {
		return nil, fmt.Errorf("get bids for auction %s: %w", auctionID, auctionerrors.ErrNoBids)
	}

	n := len(bids)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.Bid, 0, n)
	for i := len(bids) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, bids[i])
	}
	return out, nil
}

// GetWinningBid returns the highest bid for an auction; the earliest wins a tie
func (r *MemoryRepo) GetWinningBid(_ context.Context, auctionID string) (models.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids := r.bids[auctionID]
	if len(bids) == 0 {
		return models.Bid{}, fmt.Errorf("get winning bid for auction %s: %w", auctionID, auctionerrors.ErrNoBids)
	}

	winning := bids[0]
	for _, b := range bids[1:] {
		if b.Amount.GreaterThan(winning.Amount) || (b.Amount.Equal(winning.Amount) && b.CreatedAt.Before(winning.CreatedAt)) {
			winning = b
		}
	}
	return winning, nil
}

// GetAuctionsByBidder returns all auctions a user has bid on
func (r *MemoryRepo) GetAuctionsByBidder(_ context.Context, userID string) ([]models.AuctionSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.userBids[userID]
	if len(ids) == 0 {
		return nil, fmt.Errorf("get auctions for user %s: %w", userID, auctionerrors.ErrUserNoBids)
	}

	out := make([]models.AuctionSnapshot, 0, len(ids))
	for _, id := range ids {
		if a, ok := r.auctions[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// AddMessage appends a chat line to an existing auction
func (r *MemoryRepo) AddMessage(_ context.Context, msg models.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[msg.AuctionID]; !ok {
		return fmt.Errorf("add message to auction %s: %w", msg.AuctionID, auctionerrors.ErrAuctionNotFound)
	}
	r.messages[msg.AuctionID] = append(r.messages[msg.AuctionID], msg)
	return nil
}

// GetMessages returns the most recent limit messages, oldest first. limit <= 0 returns all.
func (r *MemoryRepo) GetMessages(_ context.Context, auctionID string, limit int) ([]models.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msgs := r.messages[auctionID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]models.ChatMessage{}, msgs...), nil
}

// CreatePlan adds or replaces a membership plan
func (r *MemoryRepo) CreatePlan(_ context.Context, plan models.MembershipPlan) error {
	if plan.ID == "" {
		return fmt.Errorf("create plan: %w", auctionerrors.ErrValidation)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans[plan.ID] = plan
	return nil
}

// ListPlans returns the active plans ordered by level
func (r *MemoryRepo) ListPlans(_ context.Context) ([]models.MembershipPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.MembershipPlan, 0, len(r.plans))
	for _, p := range r.plans {
		if p.IsActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level == out[j].Level {
			return out[i].ID < out[j].ID
		}
		return out[i].Level < out[j].Level
	})
	return out, nil
}

// GetPlan returns one plan
func (r *MemoryRepo) GetPlan(_ context.Context, planID string) (models.MembershipPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plans[planID]
	if !ok {
		return models.MembershipPlan{}, fmt.Errorf("get plan %s: %w", planID, auctionerrors.ErrPlanNotFound)
	}
	return p, nil
}

// UpsertMembership creates or replaces the user's membership, keeping its id and creation time
func (r *MemoryRepo) UpsertMembership(_ context.Context, m models.UserMembership) (models.UserMembership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plans[m.PlanID]; !ok {
		return models.UserMembership{}, fmt.Errorf("upsert membership for user %s: %w", m.UserID, auctionerrors.ErrPlanNotFound)
	}
	if existing, ok := r.memberships[m.UserID]; ok {
		m.ID = existing.ID
		m.CreatedAt = existing.CreatedAt
	}
	r.memberships[m.UserID] = m
	return m, nil
}

// GetMembership returns the user's membership
func (r *MemoryRepo) GetMembership(_ context.Context, userID string) (models.UserMembership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.memberships[userID]
	if !ok {
		return models.UserMembership{}, fmt.Errorf("get membership for user %s: %w", userID, auctionerrors.ErrMembershipNotFound)
	}
	return m, nil
}

// RecordSale marks a buy-now auction sold and stores the sale
func (r *MemoryRepo) RecordSale(_ context.Context, sale models.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.auctions[sale.AuctionID]
	if !ok {
		return fmt.Errorf("record sale for auction %s: %w", sale.AuctionID, auctionerrors.ErrAuctionNotFound)
	}
	if !a.Status.Biddable() || !a.BuyNowPrice.Valid {
		return fmt.Errorf("record sale for auction %s: %w", sale.AuctionID, auctionerrors.ErrNotForSale)
	}

	a.Status = models.AuctionStatusSold
	a.UpdatedAt = time.Now().UTC()
	r.auctions[a.ID] = a
	r.sales = append(r.sales, sale)
	return nil
}

// Sales returns every recorded sale. This method is intended for tests only.
func (r *MemoryRepo) Sales() []models.Sale {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Sale(nil), r.sales...)
}
