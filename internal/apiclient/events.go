package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"gem-auction/internal/auctionerrors"
	"gem-auction/internal/models"
	"gem-auction/internal/realtime"
	"gem-auction/utils"
)

// SubscribeToAuctionEvents opens the auction's event stream. The channel is
// closed when the stream ends or unsubscribe is called.
func (c *Client) SubscribeToAuctionEvents(ctx context.Context, auctionID string) (<-chan models.AuctionEvent, func(), error) {
	path := auctionPath(auctionID, "events")
	op := http.MethodGet + " " + path

	streamCtx, cancel := context.WithCancel(ctx)
	req, err := c.newRequest(streamCtx, http.MethodGet, path, nil, nil)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.stream.Do(req)
	if err != nil {
		cancel()
		return nil, nil, auctionerrors.Transport("apiclient: "+op, err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		defer cancel()
		var env utils.Envelope
		_ = json.NewDecoder(resp.Body).Decode(&env)
		return nil, nil, statusError(op, resp.StatusCode, env)
	}

	out := make(chan models.AuctionEvent)
	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			cancel()
			resp.Body.Close()
		})
	}

	go func() {
		defer close(out)
		defer unsubscribe()

		reader := realtime.NewReader(resp.Body)
		for {
			ev, err := reader.Next()
			if err != nil {
				if !errors.Is(err, io.EOF) && streamCtx.Err() == nil {
					utils.Warn("apiclient: event stream ended", map[string]any{"auction_id": auctionID, "error": err.Error()})
				}
				return
			}
			select {
			case out <- ev:
			case <-streamCtx.Done():
				return
			}
		}
	}()

	return out, unsubscribe, nil
}
