package liveauction

import (
	"fmt"
	"strconv"
	"strings"

	"gem-auction/internal/auctionerrors"
	"gem-auction/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	moneyPrinter = message.NewPrinter(language.English)

	suggestedIncrements = []decimal.Decimal{
		decimal.NewFromInt(250),
		decimal.NewFromInt(500),
		decimal.NewFromInt(1000),
	}
)

// FormatMoney renders an amount in US dollars with thousands separators:
// "$16,000" for whole amounts, "$1,234.50" otherwise.
func FormatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole, cents, _ := strings.Cut(d.StringFixed(2), ".")
	out := sign + "$" + groupThousands(whole)
	if d.IsInteger() {
		return out
	}
	return out + "." + cents
}

// groupThousands inserts separators into a string of digits
func groupThousands(digits string) string {
	if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return moneyPrinter.Sprintf("%d", n)
	}
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SuggestedBids returns the quick-bid amounts offered next to the bid input
func SuggestedBids(current decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(suggestedIncrements))
	for _, inc := range suggestedIncrements {
		out = append(out, current.Add(inc))
	}
	return out
}

// ParseBidAmount reads a user-typed amount such as "16000", "$16,000" or "16000.50"
func ParseBidAmount(text string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("liveauction: parse amount: %w", auctionerrors.ErrInvalidBid)
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("liveauction: parse amount %q: %w", text, auctionerrors.ErrInvalidBid)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("liveauction: amount must be positive: %w", auctionerrors.ErrInvalidBid)
	}
	return amount, nil
}

// BuyNowItem builds the cart entry for an auction's buy-now path
func BuyNowItem(snap models.AuctionSnapshot) (models.CartItem, error) {
	if !snap.BuyNowPrice.Valid || !snap.Status.Biddable() {
		return models.CartItem{}, fmt.Errorf("liveauction: buy now %s: %w", snap.ID, auctionerrors.ErrNotForSale)
	}
	item := cartItem(snap)
	item.Price = snap.BuyNowPrice.Decimal
	item.Type = models.ItemTypeBuyNow
	return item, nil
}

// CurrentBidItem builds a cart entry priced at the auction's current bid
func CurrentBidItem(snap models.AuctionSnapshot) models.CartItem {
	item := cartItem(snap)
	item.Price = snap.CurrentBid
	item.Type = models.ItemTypeCurrentBid
	return item
}

func cartItem(snap models.AuctionSnapshot) models.CartItem {
	item := models.CartItem{
		ID:       snap.ID,
		Title:    snap.Title,
		Category: snap.Category,
	}
	if len(snap.Images) > 0 {
		item.Image = snap.Images[0]
	}
	return item
}
