package handler

import (
	"net/http"
	"time"

	"gem-auction/internal/realtime"
	"gem-auction/services/auction/helpers"
	"gem-auction/utils"

	"github.com/gin-gonic/gin"
)

const pingData = "{}"

// StreamEventsHandler handles GET /auctions/:auction_id/events as a
// text/event-stream of bid_inserted and message_inserted events.
func (h *AuctionHandler) StreamEventsHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	ctx := c.Request.Context()

	events, unsubscribe, err := h.service.Subscribe(ctx, auctionID)
	if err != nil {
		helpers.RespondError(c, "StreamEventsHandler", err, map[string]any{"auction_id": auctionID})
		return
	}
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	// first ping commits the headers so the client sees the stream open
	c.SSEvent(realtime.PingEvent, pingData)
	c.Writer.Flush()

	utils.Info("StreamEventsHandler: stream opened", map[string]any{"auction_id": auctionID})
	started := time.Now()
	sent := 0
	defer func() {
		utils.Info("StreamEventsHandler: stream closed", map[string]any{
			"auction_id": auctionID,
			"events":     sent,
			"duration":   time.Since(started).String(),
		})
	}()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.SSEvent(realtime.PingEvent, pingData)
			c.Writer.Flush()
		case ev, ok := <-events:
			if !ok {
				return
			}
			name, data, err := realtime.Marshal(ev)
			if err != nil {
				utils.Warn("StreamEventsHandler: dropping event", map[string]any{"auction_id": auctionID, "error": err.Error()})
				continue
			}
			c.SSEvent(name, data)
			c.Writer.Flush()
			sent++
		}
	}
}
