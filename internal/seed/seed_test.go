package seed

import (
	"context"
	"testing"
	"time"

	"gem-auction/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := repository.NewMemoryRepo()
	require.NoError(t, Load(ctx, repo, now))

	a, err := repo.GetAuction(ctx, PinkSapphireID)
	require.NoError(t, err)
	require.True(t, a.CurrentBid.Equal(decimal.NewFromInt(15750)))
	require.Equal(t, 34, a.BidCount)
	require.Equal(t, 2*time.Hour+34*time.Minute+45*time.Second, a.EndTime.Sub(now))

	bids, err := repo.GetBidsByAuction(ctx, PinkSapphireID, 5)
	require.NoError(t, err)
	require.Len(t, bids, 5)
	require.True(t, bids[0].Amount.Equal(decimal.NewFromInt(15750)))
	require.True(t, bids[4].Amount.Equal(decimal.NewFromInt(14750)))

	msgs, err := repo.GetMessages(ctx, PinkSapphireID, 50)
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	require.Equal(t, "Stunning piece!", msgs[3].Body)

	plans, err := repo.ListPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	require.Equal(t, "basic", plans[0].ID)

	// second load is a no-op
	require.NoError(t, Load(ctx, repo, now.Add(time.Hour)))
	a, err = repo.GetAuction(ctx, PinkSapphireID)
	require.NoError(t, err)
	require.Equal(t, 34, a.BidCount)
	bids, err = repo.GetBidsByAuction(ctx, PinkSapphireID, 0)
	require.NoError(t, err)
	require.Len(t, bids, 5)
}

func TestLoad_SQLite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, err := repository.OpenSQL(ctx, repository.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	require.NoError(t, Load(ctx, repo, time.Now().UTC()))
	list, err := repo.ListAuctions(ctx)
	require.NoError(t, err)
	require.Len(t, list, len(listings))
}
