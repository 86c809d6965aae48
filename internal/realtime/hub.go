// Package realtime fans out auction inserts to live subscribers, one topic per auction.
package realtime

import (
	"sync"

	"gem-auction/internal/models"
	"gem-auction/utils"
)

// DefaultBuffer is the per-subscriber queue length
const DefaultBuffer = 64

type subscriber struct {
	auctionID string
	send      chan models.AuctionEvent
}

// Hub is an in-process pub/sub keyed by auction id. Publishing never blocks:
// a subscriber whose queue is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*subscriber]struct{}
	buffer int
	closed bool
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		topics: make(map[string]map[*subscriber]struct{}),
		buffer: buffer,
	}
}

// Subscribe registers for events of one auction. The returned function
// unsubscribes and closes the channel; calling it more than once is safe.
func (h *Hub) Subscribe(auctionID string) (<-chan models.AuctionEvent, func()) {
	sub := &subscriber{
		auctionID: auctionID,
		send:      make(chan models.AuctionEvent, h.buffer),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.send)
		return sub.send, func() {}
	}
	topic, ok := h.topics[auctionID]
	if !ok {
		topic = make(map[*subscriber]struct{})
		h.topics[auctionID] = topic
	}
	topic[sub] = struct{}{}
	count := len(topic)
	h.mu.Unlock()

	utils.Debug("realtime: subscribed", map[string]any{
		"auction_id":  auctionID,
		"subscribers": count,
	})

	var once sync.Once
	return sub.send, func() {
		once.Do(func() { h.remove(sub) })
	}
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	topic, ok := h.topics[sub.auctionID]
	if !ok {
		return
	}
	if _, ok := topic[sub]; !ok {
		return
	}
	delete(topic, sub)
	close(sub.send)
	if len(topic) == 0 {
		delete(h.topics, sub.auctionID)
	}
}

// Publish delivers ev to every subscriber of its auction
func (h *Hub) Publish(ev models.AuctionEvent) {
	auctionID := ev.AuctionID()
	if auctionID == "" {
		utils.Warn("realtime: dropping malformed event", map[string]any{"type": string(ev.Type)})
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.topics[auctionID] {
		select {
		case sub.send <- ev:
		default:
			utils.Warn("realtime: subscriber queue full, event dropped", map[string]any{
				"auction_id": auctionID,
				"type":       string(ev.Type),
			})
		}
	}
}

// Subscribers returns the number of live subscribers for an auction
func (h *Hub) Subscribers(auctionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[auctionID])
}

// Close ends every subscription. Later subscriptions get a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, topic := range h.topics {
		for sub := range topic {
			close(sub.send)
		}
		delete(h.topics, id)
	}
}
