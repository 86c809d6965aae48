package auction

import (
	"context"

	"gem-auction/internal/models"

	"github.com/shopspring/decimal"
)

// LocalBackend adapts AuctionService to the client-side backend interfaces,
// so view models can run in-process without HTTP.
type LocalBackend struct {
	svc *AuctionService
}

func NewLocalBackend(svc *AuctionService) *LocalBackend {
	return &LocalBackend{svc: svc}
}

func (b *LocalBackend) FetchAuctionSnapshot(ctx context.Context, auctionID string) (models.AuctionSnapshot, error) {
	return b.svc.GetAuction(ctx, auctionID)
}

func (b *LocalBackend) FetchBidHistory(ctx context.Context, auctionID string, limit int) ([]models.Bid, error) {
	return b.svc.GetBidHistory(ctx, auctionID, limit)
}

func (b *LocalBackend) FetchChatHistory(ctx context.Context, auctionID string, limit int) ([]models.ChatMessage, error) {
	return b.svc.GetChatHistory(ctx, auctionID, limit)
}

func (b *LocalBackend) SubmitBid(ctx context.Context, auctionID, bidderID string, amount decimal.Decimal) error {
	_, err := b.svc.PlaceBid(ctx, auctionID, bidderID, amount)
	return err
}

func (b *LocalBackend) SubmitChatMessage(ctx context.Context, auctionID, authorID, body string) error {
	_, err := b.svc.PostMessage(ctx, auctionID, authorID, body)
	return err
}

func (b *LocalBackend) SubscribeToAuctionEvents(ctx context.Context, auctionID string) (<-chan models.AuctionEvent, func(), error) {
	return b.svc.Subscribe(ctx, auctionID)
}

func (b *LocalBackend) FetchMembershipPlans(ctx context.Context) ([]models.MembershipPlan, error) {
	return b.svc.ListPlans(ctx)
}

func (b *LocalBackend) FetchUserMembership(ctx context.Context, userID string) (models.UserMembership, error) {
	return b.svc.GetMembership(ctx, userID)
}

func (b *LocalBackend) UpsertUserMembership(ctx context.Context, userID, planID string) (models.UserMembership, error) {
	return b.svc.UpsertMembership(ctx, userID, planID)
}

func (b *LocalBackend) BuyNow(ctx context.Context, auctionID, buyerID string) (models.Sale, error) {
	return b.svc.BuyNow(ctx, auctionID, buyerID)
}
