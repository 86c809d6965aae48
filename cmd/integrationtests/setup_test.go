package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	auction "gem-auction/internal/auctionService"
	"gem-auction/internal/auth"
	"gem-auction/internal/models"
	"gem-auction/internal/realtime"
	"gem-auction/internal/repository"
	"gem-auction/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

var testTokens = auth.NewTokens("integration-secret", time.Hour)

// SetupTestRouterWithAuctions initializes the router over an in-memory repository holding auctions and plans.
func SetupTestRouterWithAuctions(t *testing.T, auctions []models.AuctionSnapshot, plans ...models.MembershipPlan) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := repository.NewMemoryRepo()
	ctx := context.Background()

	for _, a := range auctions {
		if err := repo.CreateAuction(ctx, a); err != nil {
			t.Fatalf("failed to create auction: %v", err)
		}
	}
	for _, p := range plans {
		if err := repo.CreatePlan(ctx, p); err != nil {
			t.Fatalf("failed to create plan: %v", err)
		}
	}

	hub := realtime.NewHub(realtime.DefaultBuffer)
	t.Cleanup(hub.Close)
	service := auction.NewAuctionService(repo, hub)
	return server.SetupRouter(service, testTokens, nil)
}

// NewAuction builds a live auction listing with a current bid
func NewAuction(id string, current int64, buyNow int64) models.AuctionSnapshot {
	now := time.Now().UTC()
	end := now.Add(time.Hour)
	a := models.AuctionSnapshot{
		ID:          id,
		Title:       "title " + id,
		Description: "description " + id,
		StartingBid: decimal.NewFromInt(current),
		CurrentBid:  decimal.NewFromInt(current),
		Category:    "Sapphires",
		Status:      models.AuctionStatusLive,
		SellerID:    "seller1",
		EndTime:     &end,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if buyNow > 0 {
		a.BuyNowPrice = decimal.NewNullDecimal(decimal.NewFromInt(buyNow))
	}
	return a
}

// ExecuteRequestAndParse executes an HTTP request as user ("" for anonymous) and parses the response
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url, user string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()
	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		token, err := testTokens.Issue(user)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if w.Code == 201 {
			resp = resp["data"].(map[string]any)
		}
	}

	return resp, w
}
