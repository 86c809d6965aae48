package integrationtests

import (
	"net/http"
	"testing"
	"time"

	"gem-auction/internal/models"
	"gem-auction/services/auction/helpers"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// PlaceBidHandler Tests
func TestPlaceBidHandler(t *testing.T) {
	tests := []struct {
		name       string
		user       string
		auctionID  string
		request    any
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "Valid_Bid",
			user:       "user1",
			auctionID:  "auction1",
			request:    map[string]any{"amount": "150"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "Invalid_JSON",
			user:       "user1",
			auctionID:  "auction1",
			request:    "{amount: 'missing quotes'}",
			wantStatus: http.StatusBadRequest,
			wantMsg:    helpers.MsgInvalidPayload,
		},
		{
			name:       "Equal_To_Current",
			user:       "user1",
			auctionID:  "auction1",
			request:    map[string]any{"amount": "100"},
			wantStatus: http.StatusConflict,
			wantMsg:    helpers.MsgBidTooLow,
		},
		{
			name:       "Auction_Not_Found",
			user:       "user1",
			auctionID:  "nonexistent",
			request:    map[string]any{"amount": "150"},
			wantStatus: http.StatusNotFound,
			wantMsg:    helpers.MsgAuctionNotFound,
		},
		{
			name:       "Anonymous",
			auctionID:  "auction1",
			request:    map[string]any{"amount": "150"},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    helpers.MsgUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := SetupTestRouterWithAuctions(t, []models.AuctionSnapshot{NewAuction("auction1", 100, 0)})
			resp, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/auctions/"+tt.auctionID+"/bids", tt.user, tt.request)
			require.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusCreated {
				require.Equal(t, "auction1", resp["auction_id"])
				require.Equal(t, "user1", resp["bidder_id"])
				require.Equal(t, "150", resp["amount"])
				require.NotEmpty(t, resp["id"])

				_, err := time.Parse(time.RFC3339, resp["created_at"].(string))
				require.NoError(t, err)
				return
			}
			require.Equal(t, tt.wantMsg, resp["message"])
		})
	}
}

// GetBidsHandler Tests
func TestGetBidsHandler(t *testing.T) {
	tests := []struct {
		name       string
		seedBids   []string
		auctionID  string
		wantCount  int
		wantStatus int
	}{
		{name: "With_Bids", seedBids: []string{"150", "175"}, auctionID: "auction1", wantCount: 2, wantStatus: http.StatusOK},
		{name: "No_Bids", auctionID: "auction1", wantCount: 0, wantStatus: http.StatusOK},
		{name: "Auction_Not_Found", auctionID: "nonexistent", wantCount: 0, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := SetupTestRouterWithAuctions(t, []models.AuctionSnapshot{NewAuction("auction1", 100, 0)})
			for _, amount := range tt.seedBids {
				_, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/auctions/auction1/bids", "user1", map[string]any{"amount": amount})
				require.Equal(t, http.StatusCreated, w.Code)
			}

			resp, w := ExecuteRequestAndParse(t, router, http.MethodGet, "/auctions/"+tt.auctionID+"/bids", "", nil)
			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			bids := resp["data"].([]any)
			require.Len(t, bids, tt.wantCount)
			if tt.wantCount > 0 {
				require.Equal(t, "175", bids[0].(map[string]any)["amount"], "newest first")
			}
		})
	}
}

// GetWinningBidHandler Tests
func TestGetWinningBidHandler(t *testing.T) {
	tests := []struct {
		name       string
		seedBids   map[string]string // user -> amount, placed in order below
		order      []string
		auctionID  string
		wantUser   string
		wantAmount string
		wantStatus int
	}{
		{
			name:       "With_Bids",
			seedBids:   map[string]string{"user1": "120", "user3": "130", "user2": "150"},
			order:      []string{"user1", "user3", "user2"},
			auctionID:  "auction1",
			wantUser:   "user2",
			wantAmount: "150",
			wantStatus: http.StatusOK,
		},
		{name: "No_Bids", auctionID: "auction1", wantStatus: http.StatusNotFound},
		{name: "Auction_Not_Found", auctionID: "nonexistent", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := SetupTestRouterWithAuctions(t, []models.AuctionSnapshot{NewAuction("auction1", 100, 0)})
			for _, user := range tt.order {
				_, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/auctions/auction1/bids", user, map[string]any{"amount": tt.seedBids[user]})
				require.Equal(t, http.StatusCreated, w.Code)
			}

			resp, w := ExecuteRequestAndParse(t, router, http.MethodGet, "/auctions/"+tt.auctionID+"/winning", "", nil)
			require.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				data := resp["data"].(map[string]any)
				require.Equal(t, tt.auctionID, data["auction_id"])
				require.Equal(t, tt.wantUser, data["bidder_id"])
				require.Equal(t, tt.wantAmount, data["amount"])
			}
		})
	}
}

// GetMyAuctionsHandler Tests
func TestGetMyAuctionsHandler(t *testing.T) {
	router := SetupTestRouterWithAuctions(t, []models.AuctionSnapshot{
		NewAuction("auction1", 50, 0),
		NewAuction("auction2", 30, 0),
	})

	for id, amount := range map[string]string{"auction1": "100", "auction2": "200"} {
		_, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/auctions/"+id+"/bids", "user1", map[string]any{"amount": amount})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	tests := []struct {
		name               string
		userID             string
		expectedAuctionIDs []string
	}{
		{name: "User_With_Auctions", userID: "user1", expectedAuctionIDs: []string{"auction1", "auction2"}},
		{name: "UserWithNoBids", userID: "user2", expectedAuctionIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, w := ExecuteRequestAndParse(t, router, http.MethodGet, "/users/me/auctions", tt.userID, nil)
			require.Equal(t, http.StatusOK, w.Code)

			auctions := resp["data"].([]any)
			require.Len(t, auctions, len(tt.expectedAuctionIDs))

			ids := map[string]bool{}
			for _, a := range auctions {
				ids[a.(map[string]any)["id"].(string)] = true
			}
			for _, id := range tt.expectedAuctionIDs {
				require.True(t, ids[id])
			}
		})
	}
}

// Chat Tests
func TestChatFlow(t *testing.T) {
	router := SetupTestRouterWithAuctions(t, []models.AuctionSnapshot{NewAuction("auction1", 100, 0)})

	resp, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/auctions/auction1/messages", "user1", helpers.PostMessageRequest{Body: "  first!  "})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "first!", resp["body"])

	_, w = ExecuteRequestAndParse(t, router, http.MethodPost, "/auctions/auction1/messages", "user2", helpers.PostMessageRequest{Body: "second"})
	require.Equal(t, http.StatusCreated, w.Code)

	resp, w = ExecuteRequestAndParse(t, router, http.MethodPost, "/auctions/auction1/messages", "user2", helpers.PostMessageRequest{Body: "   "})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, helpers.MsgEmptyMessage, resp["message"])

	resp, w = ExecuteRequestAndParse(t, router, http.MethodGet, "/auctions/auction1/messages", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	msgs := resp["data"].([]any)
	require.Len(t, msgs, 2)
	require.Equal(t, "first!", msgs[0].(map[string]any)["body"], "oldest first")
}

// BuyNow and membership Tests
func TestBuyNowCommission(t *testing.T) {
	premium := models.MembershipPlan{
		ID: "premium", Name: "Premium", Level: 3,
		Price: decimal.NewFromInt(149), MonthlyItemLimit: 100, CommissionRate: decimal.NewFromInt(8),
		IsActive: true,
	}

	tests := []struct {
		name           string
		sellerPlan     string
		wantCommission string
		wantEarnings   string
	}{
		{name: "Default_Rate", wantCommission: "3750", wantEarnings: "21250"},
		{name: "Premium_Seller", sellerPlan: "premium", wantCommission: "2000", wantEarnings: "23000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := SetupTestRouterWithAuctions(t, []models.AuctionSnapshot{NewAuction("auction1", 15750, 25000)}, premium)
			if tt.sellerPlan != "" {
				_, w := ExecuteRequestAndParse(t, router, http.MethodPut, "/users/me/membership", "seller1", helpers.UpsertMembershipRequest{PlanID: tt.sellerPlan})
				require.Equal(t, http.StatusOK, w.Code)
			}

			resp, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/auctions/auction1/buy-now", "buyer1", nil)
			require.Equal(t, http.StatusCreated, w.Code)
			require.Equal(t, "25000", resp["sale_amount"])
			require.Equal(t, tt.wantCommission, resp["commission_amount"])
			require.Equal(t, tt.wantEarnings, resp["seller_earnings"])

			// sold listings stop accepting bids and purchases
			resp, w = ExecuteRequestAndParse(t, router, http.MethodPost, "/auctions/auction1/buy-now", "buyer2", nil)
			require.Equal(t, http.StatusConflict, w.Code)
			require.Equal(t, helpers.MsgNotForSale, resp["message"])

			resp, w = ExecuteRequestAndParse(t, router, http.MethodPost, "/auctions/auction1/bids", "buyer2", map[string]any{"amount": "30000"})
			require.Equal(t, http.StatusConflict, w.Code)
			require.Equal(t, helpers.MsgAuctionClosed, resp["message"])
		})
	}
}
