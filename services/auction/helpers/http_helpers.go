package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"gem-auction/internal/auctionerrors"
	"gem-auction/utils"

	"github.com/gin-gonic/gin"
)

// Messages written for each mapped error. Clients match on these to recover the sentinel.
const (
	MsgAuctionNotFound    = "auction not found"
	MsgPlanNotFound       = "membership plan not found"
	MsgMembershipNotFound = "membership not found"
	MsgNotFound           = "resource not found"
	MsgNoBids             = "no bids found for auction"
	MsgUserNoBids         = "no auctions found for user"
	MsgUnauthenticated    = "authentication required"
	MsgInvalidBid         = "invalid bid details"
	MsgBidTooLow          = "bid amount too low"
	MsgAuctionClosed      = "auction is not accepting bids"
	MsgNotForSale         = "auction is not available for purchase"
	MsgEmptyMessage       = "message is empty"
	MsgInvalidRequest     = "invalid request"
	MsgInvalidPayload     = "invalid request payload"
	MsgInternal           = "internal server error"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("%s: %w", MsgInvalidPayload, err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, MsgInvalidPayload)
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrAuctionNotFound):
		return http.StatusNotFound, MsgAuctionNotFound
	case errors.Is(err, auctionerrors.ErrPlanNotFound):
		return http.StatusNotFound, MsgPlanNotFound
	case errors.Is(err, auctionerrors.ErrMembershipNotFound):
		return http.StatusNotFound, MsgMembershipNotFound
	case errors.Is(err, auctionerrors.ErrNotFound):
		return http.StatusNotFound, MsgNotFound
	case errors.Is(err, auctionerrors.ErrNoBids):
		return http.StatusNotFound, MsgNoBids
	case errors.Is(err, auctionerrors.ErrUserNoBids):
		return http.StatusOK, MsgUserNoBids
	case errors.Is(err, auctionerrors.ErrUnauthenticated):
		return http.StatusUnauthorized, MsgUnauthenticated
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return http.StatusConflict, MsgBidTooLow
	case errors.Is(err, auctionerrors.ErrAuctionClosed):
		return http.StatusConflict, MsgAuctionClosed
	case errors.Is(err, auctionerrors.ErrNotForSale):
		return http.StatusConflict, MsgNotForSale
	case errors.Is(err, auctionerrors.ErrInvalidBid):
		return http.StatusBadRequest, MsgInvalidBid
	case errors.Is(err, auctionerrors.ErrEmptyMessage):
		return http.StatusBadRequest, MsgEmptyMessage
	case errors.Is(err, auctionerrors.ErrValidation):
		return http.StatusBadRequest, MsgInvalidRequest
	default:
		return http.StatusInternalServerError, MsgInternal
	}
}

// RespondError writes the mapped error envelope and logs it at a level fitting the status
func RespondError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)

	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["status"] = status
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
		return
	}
	utils.Warn(handlerName+": request rejected", fields)
}

// LimitParam reads a positive ?limit= value capped at max, or def when absent
func LimitParam(c *gin.Context, def, max int) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", auctionerrors.ErrValidation)
	}
	if n > max {
		n = max
	}
	return n, nil
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
