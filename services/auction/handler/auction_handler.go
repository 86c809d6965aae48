package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gem-auction/internal/auctionerrors"
	"gem-auction/internal/auth"
	"gem-auction/internal/catalog"
	"gem-auction/internal/models"
	"gem-auction/services/auction/helpers"
	"gem-auction/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// History page sizes for GET .../bids and GET .../messages
const (
	DefaultBidLimit     = 20
	MaxBidLimit         = 100
	DefaultMessageLimit = 50
	MaxMessageLimit     = 200
)

type AuctionServiceInterface interface {
	GetAuction(ctx context.Context, auctionID string) (models.AuctionSnapshot, error)
	ListAuctions(ctx context.Context, filter models.AuctionFilter) ([]models.AuctionSnapshot, error)
	GetBidHistory(ctx context.Context, auctionID string, limit int) ([]models.Bid, error)
	GetChatHistory(ctx context.Context, auctionID string, limit int) ([]models.ChatMessage, error)
	PlaceBid(ctx context.Context, auctionID, bidderID string, amount decimal.Decimal) (models.Bid, error)
	PostMessage(ctx context.Context, auctionID, authorID, body string) (models.ChatMessage, error)
	Subscribe(ctx context.Context, auctionID string) (<-chan models.AuctionEvent, func(), error)
	GetWinningBid(ctx context.Context, auctionID string) (models.Bid, error)
	GetAuctionsByBidder(ctx context.Context, userID string) ([]models.AuctionSnapshot, error)
	ListPlans(ctx context.Context) ([]models.MembershipPlan, error)
	GetMembership(ctx context.Context, userID string) (models.UserMembership, error)
	UpsertMembership(ctx context.Context, userID, planID string) (models.UserMembership, error)
	BuyNow(ctx context.Context, auctionID, buyerID string) (models.Sale, error)
}

type AuctionHandler struct {
	service   AuctionServiceInterface
	keepAlive time.Duration
}

type Option func(*AuctionHandler)

// WithKeepAlive sets how often an idle event stream sends a ping
func WithKeepAlive(d time.Duration) Option {
	return func(h *AuctionHandler) {
		if d > 0 {
			h.keepAlive = d
		}
	}
}

func NewAuctionHandler(service AuctionServiceInterface, opts ...Option) *AuctionHandler {
	h := &AuctionHandler{service: service, keepAlive: 15 * time.Second}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ListAuctionsHandler handles GET /auctions
func (h *AuctionHandler) ListAuctionsHandler(c *gin.Context) {
	var q helpers.AuctionListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		helpers.HandleBindError(c, "ListAuctionsHandler", err)
		return
	}
	filter, err := q.Filter()
	if err != nil {
		helpers.RespondError(c, "ListAuctionsHandler", err, nil)
		return
	}

	auctions, err := h.service.ListAuctions(c.Request.Context(), filter)
	if err != nil {
		helpers.RespondError(c, "ListAuctionsHandler", err, nil)
		return
	}
	if auctions == nil {
		auctions = []models.AuctionSnapshot{}
	}

	resp := helpers.CatalogResponse{Auctions: auctions, Categories: catalog.Categories(auctions)}
	utils.JSONResponse(c, http.StatusOK, resp, "auctions retrieved successfully")
	helpers.LogSuccess("ListAuctionsHandler", "auctions retrieved successfully", map[string]any{
		"count":  len(auctions),
		"search": filter.Search,
		"sort":   filter.Sort,
	})
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	a, err := h.service.GetAuction(c.Request.Context(), auctionID)
	if err != nil {
		helpers.RespondError(c, "GetAuctionHandler", err, map[string]any{"auction_id": auctionID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, a, "auction retrieved successfully")
}

// GetBidsHandler handles GET /auctions/:auction_id/bids
func (h *AuctionHandler) GetBidsHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	limit, err := helpers.LimitParam(c, DefaultBidLimit, MaxBidLimit)
	if err != nil {
		helpers.RespondError(c, "GetBidsHandler", err, map[string]any{"auction_id": auctionID})
		return
	}

	bids, err := h.service.GetBidHistory(c.Request.Context(), auctionID, limit)
	if err != nil {
		helpers.RespondError(c, "GetBidsHandler", err, map[string]any{"auction_id": auctionID})
		return
	}
	if bids == nil {
		bids = []models.Bid{}
	}

	utils.JSONResponse(c, http.StatusOK, bids, "bids retrieved successfully")
	helpers.LogSuccess("GetBidsHandler", "bids retrieved successfully", map[string]any{
		"auction_id": auctionID,
		"count":      len(bids),
	})
}

// PlaceBidHandler handles POST /auctions/:auction_id/bids
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	userID := auth.UserID(c)
	bid, err := h.service.PlaceBid(c.Request.Context(), auctionID, userID, req.Amount)
	if err != nil {
		helpers.RespondError(c, "PlaceBidHandler", err, map[string]any{
			"auction_id": auctionID,
			"user_id":    userID,
			"amount":     req.Amount.String(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, bid, "bid recorded successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid recorded successfully", map[string]any{
		"bid_id":     bid.ID,
		"auction_id": bid.AuctionID,
		"user_id":    userID,
		"amount":     bid.Amount.String(),
	})
}

// GetWinningBidHandler handles GET /auctions/:auction_id/winning
func (h *AuctionHandler) GetWinningBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bid, err := h.service.GetWinningBid(c.Request.Context(), auctionID)
	if err != nil {
		if errors.Is(err, auctionerrors.ErrNoBids) {
			utils.JSONError(c, http.StatusNotFound, err, "no winning bid found")
			utils.Info("GetWinningBidHandler: no winning bid found", map[string]any{"auction_id": auctionID})
			return
		}
		helpers.RespondError(c, "GetWinningBidHandler", err, map[string]any{"auction_id": auctionID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, bid, "winning bid retrieved successfully")
	helpers.LogSuccess("GetWinningBidHandler", "winning bid retrieved successfully", map[string]any{
		"bid_id":     bid.ID,
		"auction_id": bid.AuctionID,
		"amount":     bid.Amount.String(),
	})
}

// GetMessagesHandler handles GET /auctions/:auction_id/messages
func (h *AuctionHandler) GetMessagesHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	limit, err := helpers.LimitParam(c, DefaultMessageLimit, MaxMessageLimit)
	if err != nil {
		helpers.RespondError(c, "GetMessagesHandler", err, map[string]any{"auction_id": auctionID})
		return
	}

	msgs, err := h.service.GetChatHistory(c.Request.Context(), auctionID, limit)
	if err != nil {
		helpers.RespondError(c, "GetMessagesHandler", err, map[string]any{"auction_id": auctionID})
		return
	}
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	utils.JSONResponse(c, http.StatusOK, msgs, "messages retrieved successfully")
}

// PostMessageHandler handles POST /auctions/:auction_id/messages
func (h *AuctionHandler) PostMessageHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	var req helpers.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PostMessageHandler", err)
		return
	}

	userID := auth.UserID(c)
	msg, err := h.service.PostMessage(c.Request.Context(), auctionID, userID, req.Body)
	if err != nil {
		helpers.RespondError(c, "PostMessageHandler", err, map[string]any{
			"auction_id": auctionID,
			"user_id":    userID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, msg, "message posted successfully")
	helpers.LogSuccess("PostMessageHandler", "message posted successfully", map[string]any{
		"message_id": msg.ID,
		"auction_id": auctionID,
		"user_id":    userID,
	})
}

// BuyNowHandler handles POST /auctions/:auction_id/buy-now
func (h *AuctionHandler) BuyNowHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	userID := auth.UserID(c)
	sale, err := h.service.BuyNow(c.Request.Context(), auctionID, userID)
	if err != nil {
		helpers.RespondError(c, "BuyNowHandler", err, map[string]any{
			"auction_id": auctionID,
			"user_id":    userID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, sale, "purchase completed successfully")
	helpers.LogSuccess("BuyNowHandler", "purchase completed successfully", map[string]any{
		"sale_id":    sale.ID,
		"auction_id": auctionID,
		"buyer_id":   userID,
		"amount":     sale.SaleAmount.String(),
		"commission": sale.CommissionAmount.String(),
	})
}

// GetMyAuctionsHandler handles GET /users/me/auctions
func (h *AuctionHandler) GetMyAuctionsHandler(c *gin.Context) {
	userID := auth.UserID(c)
	auctions, err := h.service.GetAuctionsByBidder(c.Request.Context(), userID)
	if err != nil && !errors.Is(err, auctionerrors.ErrUserNoBids) {
		helpers.RespondError(c, "GetMyAuctionsHandler", err, map[string]any{"user_id": userID})
		return
	}
	if auctions == nil {
		auctions = []models.AuctionSnapshot{}
	}

	utils.JSONResponse(c, http.StatusOK, auctions, "auctions retrieved successfully")
	helpers.LogSuccess("GetMyAuctionsHandler", "auctions retrieved successfully", map[string]any{
		"user_id":        userID,
		"auctions_count": len(auctions),
	})
}

// ListPlansHandler handles GET /membership/plans
func (h *AuctionHandler) ListPlansHandler(c *gin.Context) {
	plans, err := h.service.ListPlans(c.Request.Context())
	if err != nil {
		helpers.RespondError(c, "ListPlansHandler", err, nil)
		return
	}
	if plans == nil {
		plans = []models.MembershipPlan{}
	}
	utils.JSONResponse(c, http.StatusOK, plans, "plans retrieved successfully")
}

// GetMyMembershipHandler handles GET /users/me/membership
func (h *AuctionHandler) GetMyMembershipHandler(c *gin.Context) {
	userID := auth.UserID(c)
	m, err := h.service.GetMembership(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondError(c, "GetMyMembershipHandler", err, map[string]any{"user_id": userID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, m, "membership retrieved successfully")
}

// UpsertMyMembershipHandler handles PUT /users/me/membership
func (h *AuctionHandler) UpsertMyMembershipHandler(c *gin.Context) {
	var req helpers.UpsertMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpsertMyMembershipHandler", err)
		return
	}

	userID := auth.UserID(c)
	m, err := h.service.UpsertMembership(c.Request.Context(), userID, req.PlanID)
	if err != nil {
		helpers.RespondError(c, "UpsertMyMembershipHandler", err, map[string]any{
			"user_id": userID,
			"plan_id": req.PlanID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, m, "membership updated successfully")
	helpers.LogSuccess("UpsertMyMembershipHandler", "membership updated successfully", map[string]any{
		"user_id": userID,
		"plan_id": m.PlanID,
	})
}

// HealthHandler handles GET /health
func (h *AuctionHandler) HealthHandler(c *gin.Context) {
	utils.JSONResponse(c, http.StatusOK, helpers.HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	}, "service healthy")
}
