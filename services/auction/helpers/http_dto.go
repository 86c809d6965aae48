package helpers

import (
	"fmt"

	"gem-auction/internal/auctionerrors"
	"gem-auction/internal/catalog"
	"gem-auction/internal/models"

	"github.com/shopspring/decimal"
)

// Request DTOs
type PlaceBidRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type PostMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

type UpsertMembershipRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
}

// AuctionListQuery is the query string accepted by GET /auctions
type AuctionListQuery struct {
	Search   string   `form:"q"`
	Category []string `form:"category"`
	MinPrice string   `form:"min_price"`
	MaxPrice string   `form:"max_price"`
	Status   string   `form:"status"`
	Sort     string   `form:"sort"`
}

// Filter converts the query into a catalog filter
func (q AuctionListQuery) Filter() (models.AuctionFilter, error) {
	f := models.AuctionFilter{
		Search:     q.Search,
		Categories: q.Category,
		Status:     models.AuctionStatus(q.Status),
		Sort:       q.Sort,
	}
	var err error
	if f.MinPrice, err = parsePrice("min_price", q.MinPrice); err != nil {
		return models.AuctionFilter{}, err
	}
	if f.MaxPrice, err = parsePrice("max_price", q.MaxPrice); err != nil {
		return models.AuctionFilter{}, err
	}
	if err := catalog.Validate(f); err != nil {
		return models.AuctionFilter{}, err
	}
	return f, nil
}

func parsePrice(name, raw string) (decimal.NullDecimal, error) {
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%w: %s %q is not a number", auctionerrors.ErrValidation, name, raw)
	}
	return decimal.NewNullDecimal(d), nil
}

// Response DTOs
type CatalogResponse struct {
	Auctions   []models.AuctionSnapshot `json:"auctions"`
	Categories []string                 `json:"categories"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}
