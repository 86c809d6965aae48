package auction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gem-auction/internal/auctionerrors"
	"gem-auction/internal/catalog"
	"gem-auction/internal/membership"
	"gem-auction/internal/models"
	"gem-auction/internal/realtime"
	"gem-auction/internal/repository"
	"gem-auction/utils"

	"github.com/shopspring/decimal"
)

// MembershipPeriod is the length of a billing period started by UpsertMembership
const MembershipPeriod = 30 * 24 * time.Hour

// PaymentCompleted is the payment status recorded on buy-now sales
const PaymentCompleted = "completed"

// AuctionService defines the business logic for auctions, chat and memberships
type AuctionService struct {
	repo    repository.AuctionDB
	hub     *realtime.Hub
	now     func() time.Time
	writers auctionLocks
}

// auctionLocks hands out one mutex per auction. Holding it across a store
// write and its publish keeps the live feed in commit order.
type auctionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *auctionLocks) lock(auctionID string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[auctionID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[auctionID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// NewAuctionService creates a new AuctionService instance. Stored bids and
// messages are published to hub.
func NewAuctionService(repo repository.AuctionDB, hub *realtime.Hub) *AuctionService {
	return &AuctionService{
		repo: repo,
		hub:  hub,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// GetAuction returns one auction snapshot
func (s *AuctionService) GetAuction(ctx context.Context, auctionID string) (models.AuctionSnapshot, error) {
	if auctionID == "" {
		return models.AuctionSnapshot{}, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrValidation)
	}
	a, err := s.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return models.AuctionSnapshot{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	return a, nil
}

// ListAuctions returns the catalog narrowed and ordered by filter
func (s *AuctionService) ListAuctions(ctx context.Context, filter models.AuctionFilter) ([]models.AuctionSnapshot, error) {
	if err := catalog.Validate(filter); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	all, err := s.repo.ListAuctions(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions: %w", err)
	}
	return catalog.Apply(all, filter), nil
}

// GetBidHistory returns up to limit bids, newest first. An auction without bids gives an empty list.
func (s *AuctionService) GetBidHistory(ctx context.Context, auctionID string, limit int) ([]models.Bid, error) {
	if auctionID == "" {
		return nil, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrValidation)
	}
	bids, err := s.repo.GetBidsByAuction(ctx, auctionID, limit)
	if errors.Is(err, auctionerrors.ErrNoBids) {
		return []models.Bid{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for auction %s: %w", auctionID, err)
	}
	return bids, nil
}

// GetChatHistory returns up to limit chat messages, oldest first
func (s *AuctionService) GetChatHistory(ctx context.Context, auctionID string, limit int) ([]models.ChatMessage, error) {
	if auctionID == "" {
		return nil, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrValidation)
	}
	msgs, err := s.repo.GetMessages(ctx, auctionID, limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get messages for auction %s: %w", auctionID, err)
	}
	return msgs, nil
}

// PlaceBid validates and records a user's bid. The store accepts it only if it
// still beats the current bid, so two racing bids cannot both win. Accepted
// bids reach live viewers in the order the store accepted them.
func (s *AuctionService) PlaceBid(ctx context.Context, auctionID, bidderID string, amount decimal.Decimal) (models.Bid, error) {
	if err := validateBid(auctionID, bidderID, amount); err != nil {
		return models.Bid{}, err
	}

	unlock := s.writers.lock(auctionID)
	defer unlock()

	bid := models.Bid{
		ID:        utils.GenerateID(),
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    amount,
		CreatedAt: s.now(),
	}

	updated, err := s.repo.RecordBid(ctx, bid)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to record bid for auction %s by user %s: %w", auctionID, bidderID, err)
	}

	s.publish(models.BidInserted(bid))
	utils.Info("bid placed", map[string]any{
		"auction_id": auctionID,
		"bidder_id":  bidderID,
		"amount":     amount.String(),
		"bid_count":  updated.BidCount,
	})
	return bid, nil
}

// validateBid checks input validity for bidding
func validateBid(auctionID, bidderID string, amount decimal.Decimal) error {
	if auctionID == "" {
		return fmt.Errorf("service: %w - missing auctionID", auctionerrors.ErrInvalidBid)
	}
	if bidderID == "" {
		return fmt.Errorf("service: %w", auctionerrors.ErrUnauthenticated)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("service: %w - non-positive bid amount", auctionerrors.ErrInvalidBid)
	}
	return nil
}

// PostMessage stores a chat line and pushes it to live viewers
func (s *AuctionService) PostMessage(ctx context.Context, auctionID, authorID, body string) (models.ChatMessage, error) {
	if auctionID == "" {
		return models.ChatMessage{}, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrValidation)
	}
	if authorID == "" {
		return models.ChatMessage{}, fmt.Errorf("service: %w", auctionerrors.ErrUnauthenticated)
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return models.ChatMessage{}, fmt.Errorf("service: %w", auctionerrors.ErrEmptyMessage)
	}

	unlock := s.writers.lock(auctionID)
	defer unlock()

	msg := models.ChatMessage{
		ID:        utils.GenerateID(),
		AuctionID: auctionID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: s.now(),
	}
	if err := s.repo.AddMessage(ctx, msg); err != nil {
		return models.ChatMessage{}, fmt.Errorf("service: failed to post message to auction %s: %w", auctionID, err)
	}

	s.publish(models.MessageInserted(msg))
	return msg, nil
}

// Subscribe opens a live feed of inserts for an existing auction
func (s *AuctionService) Subscribe(ctx context.Context, auctionID string) (<-chan models.AuctionEvent, func(), error) {
	if _, err := s.GetAuction(ctx, auctionID); err != nil {
		return nil, nil, err
	}
	events, unsubscribe := s.hub.Subscribe(auctionID)
	return events, unsubscribe, nil
}

func (s *AuctionService) publish(ev models.AuctionEvent) {
	if s.hub != nil {
		s.hub.Publish(ev)
	}
}

// GetWinningBid returns the highest bid for an auction
func (s *AuctionService) GetWinningBid(ctx context.Context, auctionID string) (models.Bid, error) {
	if auctionID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrValidation)
	}
	bid, err := s.repo.GetWinningBid(ctx, auctionID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get winning bid for auction %s: %w", auctionID, err)
	}
	return bid, nil
}

// GetAuctionsByBidder returns all auctions a user has placed bids on
func (s *AuctionService) GetAuctionsByBidder(ctx context.Context, userID string) ([]models.AuctionSnapshot, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", auctionerrors.ErrValidation)
	}
	list, err := s.repo.GetAuctionsByBidder(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get auctions for user %s: %w", userID, err)
	}
	return list, nil
}

// ListPlans returns the active membership plans by level
func (s *AuctionService) ListPlans(ctx context.Context) ([]models.MembershipPlan, error) {
	plans, err := s.repo.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list plans: %w", err)
	}
	return plans, nil
}

// GetMembership returns the user's membership
func (s *AuctionService) GetMembership(ctx context.Context, userID string) (models.UserMembership, error) {
	if userID == "" {
		return models.UserMembership{}, fmt.Errorf("service: %w", auctionerrors.ErrUnauthenticated)
	}
	m, err := s.repo.GetMembership(ctx, userID)
	if err != nil {
		return models.UserMembership{}, fmt.Errorf("service: failed to get membership for user %s: %w", userID, err)
	}
	return m, nil
}

// UpsertMembership moves the user onto planID: status active, posting counter
// reset and a fresh billing period starting now.
func (s *AuctionService) UpsertMembership(ctx context.Context, userID, planID string) (models.UserMembership, error) {
	if userID == "" {
		return models.UserMembership{}, fmt.Errorf("service: %w", auctionerrors.ErrUnauthenticated)
	}
	if planID == "" {
		return models.UserMembership{}, fmt.Errorf("service: %w - empty plan ID", auctionerrors.ErrValidation)
	}

	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return models.UserMembership{}, fmt.Errorf("service: failed to load plan %s: %w", planID, err)
	}
	if !plan.IsActive {
		return models.UserMembership{}, fmt.Errorf("service: %w - plan %s is retired", auctionerrors.ErrValidation, planID)
	}

	now := s.now()
	stored, err := s.repo.UpsertMembership(ctx, models.UserMembership{
		ID:                    utils.GenerateID(),
		UserID:                userID,
		PlanID:                planID,
		Status:                models.MembershipActive,
		CurrentPeriodStart:    now,
		CurrentPeriodEnd:      now.Add(MembershipPeriod),
		ItemsPostedThisPeriod: 0,
		CreatedAt:             now,
		UpdatedAt:             now,
	})
	if err != nil {
		return models.UserMembership{}, fmt.Errorf("service: failed to update membership for user %s: %w", userID, err)
	}

	utils.Info("membership updated", map[string]any{"user_id": userID, "plan_id": planID})
	return stored, nil
}

// BuyNow sells an auction at its buy-now price. The platform commission comes
// from the seller's active plan, or the default rate without one.
func (s *AuctionService) BuyNow(ctx context.Context, auctionID, buyerID string) (models.Sale, error) {
	if buyerID == "" {
		return models.Sale{}, fmt.Errorf("service: %w", auctionerrors.ErrUnauthenticated)
	}
	a, err := s.GetAuction(ctx, auctionID)
	if err != nil {
		return models.Sale{}, err
	}
	if !a.Status.Biddable() || !a.BuyNowPrice.Valid {
		return models.Sale{}, fmt.Errorf("service: auction %s: %w", auctionID, auctionerrors.ErrNotForSale)
	}

	rate, err := s.sellerRate(ctx, a.SellerID)
	if err != nil {
		return models.Sale{}, err
	}
	price := a.BuyNowPrice.Decimal
	commission, earnings := membership.Commission(price, rate)

	sale := models.Sale{
		ID:               utils.GenerateID(),
		AuctionID:        a.ID,
		SellerID:         a.SellerID,
		BuyerID:          buyerID,
		ItemTitle:        a.Title,
		SaleAmount:       price,
		CommissionRate:   rate,
		CommissionAmount: commission,
		SellerEarnings:   earnings,
		PaymentStatus:    PaymentCompleted,
		CreatedAt:        s.now(),
	}
	if err := s.repo.RecordSale(ctx, sale); err != nil {
		return models.Sale{}, fmt.Errorf("service: failed to record sale of auction %s: %w", auctionID, err)
	}

	utils.Info("buy-now sale recorded", map[string]any{
		"auction_id": a.ID,
		"buyer_id":   buyerID,
		"amount":     price.String(),
		"commission": commission.String(),
	})
	return sale, nil
}

func (s *AuctionService) sellerRate(ctx context.Context, sellerID string) (decimal.Decimal, error) {
	if sellerID == "" {
		return membership.RateFor(nil), nil
	}
	m, err := s.repo.GetMembership(ctx, sellerID)
	if errors.Is(err, auctionerrors.ErrMembershipNotFound) {
		return membership.RateFor(nil), nil
	}
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("service: failed to load seller membership: %w", err)
	}
	if m.Status != models.MembershipActive {
		return membership.RateFor(nil), nil
	}
	plan, err := s.repo.GetPlan(ctx, m.PlanID)
	if errors.Is(err, auctionerrors.ErrPlanNotFound) {
		return membership.RateFor(nil), nil
	}
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("service: failed to load seller plan: %w", err)
	}
	return membership.RateFor(&plan), nil
}
