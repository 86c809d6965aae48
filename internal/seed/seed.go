// Package seed fills a fresh store with the demo catalog and membership plans.
package seed

import (
	"context"
	"fmt"
	"time"

	"gem-auction/internal/models"
	"gem-auction/internal/repository"
	"gem-auction/utils"

	"github.com/shopspring/decimal"
)

// PinkSapphireID is the featured live auction
const PinkSapphireID = "pink-sapphire-4-23ct"

// SellerID owns every seeded listing
const SellerID = "premium-gemstones"

type listing struct {
	id, title, description, category string
	starting, current, buyNow, reserve int64
	bidCount                           int
	status                             models.AuctionStatus
	endsIn                             time.Duration
	recent                             []int64 // oldest first, ending at current
	chat                               []string
}

var listings = []listing{
	{
		id:          PinkSapphireID,
		title:       "Exceptional Pink Sapphire Ring - 4.23 Carats",
		description: "Cushion-cut Ceylon sapphire of vivid pink, heat only, set in 18k white gold with 0.85ct accent diamonds. GIA certified.",
		category:    "Sapphires",
		starting:    8000, current: 15750, buyNow: 25000, reserve: 12000,
		bidCount: 34,
		status:   models.AuctionStatusLive,
		endsIn:   2*time.Hour + 34*time.Minute + 45*time.Second,
		recent:   []int64{14750, 15000, 15250, 15500, 15750},
		chat: []string{
			"Beautiful color saturation!",
			"Is this heated or natural?",
			"Heat treated only, as stated in description",
			"Stunning piece!",
		},
	},
	{
		id:          "colombian-emerald-3ct",
		title:       "Colombian Emerald - 3.1 Carats",
		description: "Muzo emerald with minor oil, deep green with excellent transparency.",
		category:    "Emeralds",
		starting:    5000, current: 8900, buyNow: 15000,
		bidCount: 12,
		status:   models.AuctionStatusActive,
		endsIn:   45 * time.Minute,
	},
	{
		id:          "burmese-ruby-2ct",
		title:       "Burmese Ruby - 2.05 Carats",
		description: "Unheated pigeon-blood ruby from Mogok.",
		category:    "Rubies",
		starting:    12000, current: 22000, reserve: 20000,
		bidCount: 41,
		status:   models.AuctionStatusLive,
		endsIn:   5 * time.Hour,
	},
	{
		id:          "south-sea-pearl-strand",
		title:       "South Sea Pearl Strand",
		description: "Golden South Sea pearls, 11-13mm, 18 inch strand.",
		category:    "Pearls",
		starting:    900, current: 1800, buyNow: 2500,
		bidCount: 3,
		status:   models.AuctionStatusActive,
		endsIn:   26 * time.Hour,
	},
}

var plans = []models.MembershipPlan{
	{
		ID: "basic", Name: "Basic", Level: 1,
		Price: decimal.NewFromInt(0), MonthlyItemLimit: 5, CommissionRate: decimal.NewFromInt(15),
		Features:    []string{"5 listings per month", "Standard support"},
		Description: "For occasional sellers",
		IsActive:    true,
	},
	{
		ID: "professional", Name: "Professional", Level: 2,
		Price: decimal.NewFromInt(49), MonthlyItemLimit: 25, CommissionRate: decimal.NewFromInt(12),
		Features:    []string{"25 listings per month", "Priority support", "Featured placement"},
		Description: "For active dealers",
		IsActive:    true,
	},
	{
		ID: "premium", Name: "Premium", Level: 3,
		Price: decimal.NewFromInt(149), MonthlyItemLimit: 100, CommissionRate: decimal.NewFromInt(8),
		Features:    []string{"100 listings per month", "Dedicated manager", "Live auction slots"},
		Description: "For galleries and auction houses",
		IsActive:    true,
	},
}

// Load writes the demo data into an empty store; a store that already has
// auctions is left alone. Recent bids are recorded through the store so bid
// counts and current bids stay consistent with the bid history.
func Load(ctx context.Context, repo repository.AuctionDB, now time.Time) error {
	existing, err := repo.ListAuctions(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if len(existing) > 0 {
		utils.Debug("seed skipped, store not empty", map[string]any{"auctions": len(existing)})
		return nil
	}

	for _, p := range plans {
		if err := repo.CreatePlan(ctx, p); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	for _, l := range listings {
		if err := loadListing(ctx, repo, l, now); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	utils.Info("seed data loaded", map[string]any{"auctions": len(listings), "plans": len(plans)})
	return nil
}

func loadListing(ctx context.Context, repo repository.AuctionDB, l listing, now time.Time) error {
	end := now.Add(l.endsIn)
	start := now.Add(-24 * time.Hour)
	a := models.AuctionSnapshot{
		ID:          l.id,
		Title:       l.title,
		Description: l.description,
		Images:      []string{"https://images.example/" + l.id + ".jpg"},
		StartingBid: decimal.NewFromInt(l.starting),
		CurrentBid:  decimal.NewFromInt(l.current),
		Category:    l.category,
		Status:      l.status,
		BidCount:    l.bidCount,
		SellerID:    SellerID,
		StartTime:   &start,
		EndTime:     &end,
		CreatedAt:   start,
		UpdatedAt:   now,
	}
	if l.buyNow > 0 {
		a.BuyNowPrice = decimal.NewNullDecimal(decimal.NewFromInt(l.buyNow))
	}
	if l.reserve > 0 {
		a.ReservePrice = decimal.NewNullDecimal(decimal.NewFromInt(l.reserve))
	}

	// rewind to before the recent bids, then replay them
	if n := len(l.recent); n > 0 {
		a.CurrentBid = decimal.NewFromInt(l.recent[0] - 250)
		a.BidCount = l.bidCount - n
	}
	if err := repo.CreateAuction(ctx, a); err != nil {
		return err
	}

	for i, amount := range l.recent {
		_, err := repo.RecordBid(ctx, models.Bid{
			ID:        utils.GenerateID(),
			AuctionID: l.id,
			BidderID:  fmt.Sprintf("collector-%d", i+1),
			Amount:    decimal.NewFromInt(amount),
			CreatedAt: now.Add(time.Duration(i-len(l.recent)) * 2 * time.Minute),
		})
		if err != nil {
			return err
		}
	}

	for i, body := range l.chat {
		err := repo.AddMessage(ctx, models.ChatMessage{
			ID:        utils.GenerateID(),
			AuctionID: l.id,
			AuthorID:  fmt.Sprintf("collector-%d", i+1),
			Body:      body,
			CreatedAt: now.Add(time.Duration(i-len(l.chat)) * time.Minute),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
