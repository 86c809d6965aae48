package perftests

import (
	"context"
	"fmt"
	"testing"
	"time"

	auction "gem-auction/internal/auctionService"
	"gem-auction/internal/models"
	"gem-auction/internal/realtime"
	"gem-auction/internal/repository"

	"github.com/shopspring/decimal"
)

// newService builds a service over store ("memory" or "sqlite") holding numAuctions live auctions at startingBid
func newService(b *testing.B, store string, numAuctions int, startingBid int64) *auction.AuctionService {
	b.Helper()
	ctx := context.Background()

	var repo repository.AuctionDB
	switch store {
	case "memory":
		repo = repository.NewMemoryRepo()
	case "sqlite":
		sqlRepo, err := repository.OpenSQL(ctx, repository.DriverSQLite, "file::memory:")
		if err != nil {
			b.Fatalf("failed to open sqlite: %v", err)
		}
		b.Cleanup(func() { sqlRepo.Close() })
		repo = sqlRepo
	default:
		b.Fatalf("unknown store %q", store)
	}

	now := time.Now().UTC()
	end := now.Add(time.Hour)
	for i := 0; i < numAuctions; i++ {
		err := repo.CreateAuction(ctx, models.AuctionSnapshot{
			ID:          auctionID(i),
			Title:       fmt.Sprintf("Benchmark Auction %d", i),
			Description: "Load test auction",
			StartingBid: decimal.NewFromInt(startingBid),
			CurrentBid:  decimal.NewFromInt(startingBid),
			Category:    "Sapphires",
			Status:      models.AuctionStatusLive,
			SellerID:    "seller_bench",
			EndTime:     &end,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			b.Fatalf("failed to create auction: %v", err)
		}
	}

	hub := realtime.NewHub(realtime.DefaultBuffer)
	b.Cleanup(hub.Close)
	return auction.NewAuctionService(repo, hub)
}

func auctionID(i int) string {
	return fmt.Sprintf("auction_%d", i)
}
