package models

import "github.com/shopspring/decimal"

// EventType names a row-insert notification on an auction's push channel
type EventType string

const (
	EventBidInserted     EventType = "bid_inserted"
	EventMessageInserted EventType = "message_inserted"
)

// AuctionEvent is one push message. Exactly one of Bid or Message is set, matching Type.
type AuctionEvent struct {
	Type    EventType    `json:"type"`
	Bid     *Bid         `json:"bid,omitempty"`
	Message *ChatMessage `json:"message,omitempty"`
}

// BidInserted wraps a stored bid as a push event
func BidInserted(b Bid) AuctionEvent {
	return AuctionEvent{Type: EventBidInserted, Bid: &b}
}

// MessageInserted wraps a stored chat message as a push event
func MessageInserted(m ChatMessage) AuctionEvent {
	return AuctionEvent{Type: EventMessageInserted, Message: &m}
}

// AuctionID returns the auction the event belongs to, or "" for a malformed event
func (e AuctionEvent) AuctionID() string {
	switch {
	case e.Type == EventBidInserted && e.Bid != nil:
		return e.Bid.AuctionID
	case e.Type == EventMessageInserted && e.Message != nil:
		return e.Message.AuctionID
	}
	return ""
}

// Sort orders accepted by AuctionFilter
const (
	SortEndingSoon = "ending_soon"
	SortMostBids   = "most_bids"
	SortHighestBid = "highest_bid"
	SortLowestBid  = "lowest_bid"
	SortNewest     = "newest"
)

// AuctionFilter narrows and orders the auction catalog. Zero values mean "no constraint".
type AuctionFilter struct {
	Search     string
	Categories []string
	MinPrice   decimal.NullDecimal
	MaxPrice   decimal.NullDecimal
	Status     AuctionStatus
	Sort       string
}
