package liveauction

import (
	"time"

	"gem-auction/internal/models"
)

const (
	// RecentBidsLimit caps the bid sidebar
	RecentBidsLimit = 5
	// ChatHistoryLimit is how many chat lines the initial load requests
	ChatHistoryLimit = 50
)

// Phase of a mounted auction page
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	}
	return "unknown"
}

// State is everything the auction page renders.
//
// Reducers never modify slices in place: each change builds a new slice, so a
// State handed to an observer or returned by ViewModel.State stays valid.
type State struct {
	Phase      Phase
	Auction    models.AuctionSnapshot
	RecentBids []models.Bid         // newest first, at most RecentBidsLimit
	Messages   []models.ChatMessage // oldest first
	Countdown  Countdown
	BidPending bool
	Err        error
}

// Loaded moves a loading page to Ready with the fetched data
func Loaded(s State, snap models.AuctionSnapshot, bids []models.Bid, msgs []models.ChatMessage, now time.Time) State {
	if s.Phase != PhaseLoading {
		return s
	}
	if len(bids) > RecentBidsLimit {
		bids = bids[:RecentBidsLimit]
	}
	s.Phase = PhaseReady
	s.Auction = snap
	s.RecentBids = append([]models.Bid(nil), bids...)
	s.Messages = append([]models.ChatMessage(nil), msgs...)
	s.Countdown = CountdownUntil(snap.EndTime, now)
	s.Err = nil
	return s
}

// Failed moves a loading page to the terminal Error phase
func Failed(s State, err error) State {
	if s.Phase != PhaseLoading {
		return s
	}
	s.Phase = PhaseError
	s.Err = err
	return s
}

// Tick advances the countdown by one second
func Tick(s State) State {
	if s.Phase != PhaseReady {
		return s
	}
	s.Countdown = s.Countdown.Tick()
	return s
}

// Apply folds one push event into the state. Events for another auction,
// malformed events and events arriving outside Ready are ignored.
// Bids are applied in arrival order; the last one wins the current-bid field.
func Apply(s State, ev models.AuctionEvent) State {
	if s.Phase != PhaseReady || ev.AuctionID() != s.Auction.ID {
		return s
	}

	switch ev.Type {
	case models.EventBidInserted:
		bids := make([]models.Bid, 0, RecentBidsLimit)
		bids = append(bids, *ev.Bid)
		bids = append(bids, s.RecentBids...)
		if len(bids) > RecentBidsLimit {
			bids = bids[:RecentBidsLimit]
		}
		s.RecentBids = bids
		s.Auction.CurrentBid = ev.Bid.Amount
		s.Auction.BidCount++

	case models.EventMessageInserted:
		msgs := make([]models.ChatMessage, 0, len(s.Messages)+1)
		msgs = append(msgs, s.Messages...)
		s.Messages = append(msgs, *ev.Message)
	}
	return s
}
