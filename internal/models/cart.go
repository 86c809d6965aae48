package models

import "github.com/shopspring/decimal"

// ItemType tells which price a cart entry was taken from
type ItemType string

const (
	ItemTypeBuyNow     ItemType = "buy-now"
	ItemTypeCurrentBid ItemType = "current-bid"
)

// CartItem is one entry of the session cart. ID is the auction id.
type CartItem struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Image    string          `json:"image"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Type     ItemType        `json:"type"`
}
