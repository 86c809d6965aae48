package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	auction "gem-auction/internal/auctionService"
	"gem-auction/internal/auth"
	"gem-auction/internal/realtime"
	"gem-auction/internal/repository"
	"gem-auction/internal/seed"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, origins []string) (*gin.Engine, *auth.Tokens) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepo()
	require.NoError(t, seed.Load(context.Background(), repo, time.Now().UTC()))
	hub := realtime.NewHub(realtime.DefaultBuffer)
	t.Cleanup(hub.Close)

	tokens := auth.NewTokens("router-test", time.Hour)
	return SetupRouter(auction.NewAuctionService(repo, hub), tokens, origins), tokens
}

func TestSetupRouter_Routes(t *testing.T) {
	t.Parallel()

	router, tokens := newTestRouter(t, nil)
	token, err := tokens.Issue("collector-9")
	require.NoError(t, err)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		auth       bool
		wantStatus int
	}{
		{name: "health", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "catalog", method: http.MethodGet, path: "/auctions?sort=most_bids", wantStatus: http.StatusOK},
		{name: "auction", method: http.MethodGet, path: "/auctions/" + seed.PinkSapphireID, wantStatus: http.StatusOK},
		{name: "unknown_auction", method: http.MethodGet, path: "/auctions/nope", wantStatus: http.StatusNotFound},
		{name: "bids", method: http.MethodGet, path: "/auctions/" + seed.PinkSapphireID + "/bids?limit=5", wantStatus: http.StatusOK},
		{name: "winning", method: http.MethodGet, path: "/auctions/" + seed.PinkSapphireID + "/winning", wantStatus: http.StatusOK},
		{name: "messages", method: http.MethodGet, path: "/auctions/" + seed.PinkSapphireID + "/messages", wantStatus: http.StatusOK},
		{name: "plans", method: http.MethodGet, path: "/membership/plans", wantStatus: http.StatusOK},
		{name: "bid_needs_token", method: http.MethodPost, path: "/auctions/" + seed.PinkSapphireID + "/bids", body: `{"amount":"16000"}`, wantStatus: http.StatusUnauthorized},
		{name: "bid_too_low", method: http.MethodPost, path: "/auctions/" + seed.PinkSapphireID + "/bids", body: `{"amount":"15750"}`, auth: true, wantStatus: http.StatusConflict},
		{name: "membership_missing", method: http.MethodGet, path: "/users/me/membership", auth: true, wantStatus: http.StatusNotFound},
		{name: "my_auctions_needs_token", method: http.MethodGet, path: "/users/me/auctions", wantStatus: http.StatusUnauthorized},
		{name: "ruby_not_for_sale", method: http.MethodPost, path: "/auctions/burmese-ruby-2ct/buy-now", auth: true, wantStatus: http.StatusConflict},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			if tc.auth {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			require.Equal(t, tc.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestSetupRouter_BidThenHistory(t *testing.T) {
	t.Parallel()

	router, tokens := newTestRouter(t, nil)
	token, err := tokens.Issue("collector-9")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auctions/"+seed.PinkSapphireID+"/bids", strings.NewReader(`{"amount":"16000"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/auctions/"+seed.PinkSapphireID+"/winning", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			BidderID string `json:"bidder_id"`
			Amount   string `json:"amount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "collector-9", resp.Data.BidderID)
	require.Equal(t, "16000", resp.Data.Amount)
}

func TestCORSMiddleware(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, []string{"http://localhost:5173"})

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{name: "preflight_allowed", method: http.MethodOptions, origin: "http://localhost:5173", wantStatus: http.StatusNoContent, wantOrigin: "http://localhost:5173"},
		{name: "get_allowed", method: http.MethodGet, origin: "http://localhost:5173", wantStatus: http.StatusOK, wantOrigin: "http://localhost:5173"},
		{name: "get_other_origin", method: http.MethodGet, origin: "https://evil.example", wantStatus: http.StatusOK, wantOrigin: ""},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(tc.method, "/health", nil)
			req.Header.Set("Origin", tc.origin)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			require.Equal(t, tc.wantStatus, w.Code)
			require.Equal(t, tc.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
