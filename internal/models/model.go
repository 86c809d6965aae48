package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a participant in the marketplace
type User struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// AuctionStatus is the lifecycle state of an auction listing
type AuctionStatus string

const (
	AuctionStatusDraft  AuctionStatus = "draft"
	AuctionStatusActive AuctionStatus = "active"
	AuctionStatusLive   AuctionStatus = "live"
	AuctionStatusEnded  AuctionStatus = "ended"
	AuctionStatusSold   AuctionStatus = "sold"
)

// Valid reports whether s is one of the known statuses
func (s AuctionStatus) Valid() bool {
	switch s {
	case AuctionStatusDraft, AuctionStatusActive, AuctionStatusLive, AuctionStatusEnded, AuctionStatusSold:
		return true
	}
	return false
}

// Biddable reports whether the auction still accepts bids or purchases
func (s AuctionStatus) Biddable() bool {
	return s == AuctionStatusActive || s == AuctionStatusLive
}

// AuctionSnapshot is the point-in-time copy of an auction listing.
// BuyNowPrice and ReservePrice are optional; EndTime is nil for open-ended listings.
type AuctionSnapshot struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Images       []string            `json:"images"`
	StartingBid  decimal.Decimal     `json:"starting_bid"`
	CurrentBid   decimal.Decimal     `json:"current_bid"`
	BuyNowPrice  decimal.NullDecimal `json:"buy_now_price"`
	ReservePrice decimal.NullDecimal `json:"reserve_price"`
	Category     string              `json:"category"`
	Status       AuctionStatus       `json:"status"`
	BidCount     int                 `json:"bid_count"`
	SellerID     string              `json:"seller_id"`
	StartTime    *time.Time          `json:"start_time,omitempty"`
	EndTime      *time.Time          `json:"end_time,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// ReserveMet reports whether the current bid reaches the reserve price.
// Listings without a reserve always report true.
func (a AuctionSnapshot) ReserveMet() bool {
	if !a.ReservePrice.Valid {
		return true
	}
	return a.CurrentBid.GreaterThanOrEqual(a.ReservePrice.Decimal)
}

// Bid represents a user's bid on an auction
type Bid struct {
	ID        string          `json:"id"`
	AuctionID string          `json:"auction_id"`
	BidderID  string          `json:"bidder_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// ChatMessage is a single line of an auction's live chat
type ChatMessage struct {
	ID        string    `json:"id"`
	AuctionID string    `json:"auction_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
