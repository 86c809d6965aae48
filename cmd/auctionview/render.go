package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"gem-auction/internal/liveauction"
	"gem-auction/internal/notify"
)

// renderer prints the auction page whenever something a viewer cares about
// changes. Countdown ticks alone do not trigger a redraw.
type renderer struct {
	mu   sync.Mutex
	out  io.Writer
	last string
}

func newRenderer(out io.Writer) *renderer {
	return &renderer{out: out}
}

func renderKey(s liveauction.State) string {
	return fmt.Sprintf("%s|%d|%s|%d|%t", s.Phase, s.Auction.BidCount, s.Auction.CurrentBid, len(s.Messages), s.BidPending)
}

// Observe is passed to liveauction.WithObserver
func (r *renderer) Observe(s liveauction.State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := renderKey(s)
	if key == r.last {
		return
	}
	r.last = key
	fmt.Fprint(r.out, renderState(s))
}

func renderState(s liveauction.State) string {
	var b strings.Builder
	switch s.Phase {
	case liveauction.PhaseLoading:
		b.WriteString("Loading auction...\n")
		return b.String()
	case liveauction.PhaseError:
		fmt.Fprintf(&b, "Auction unavailable: %v\n", s.Err)
		return b.String()
	}

	a := s.Auction
	fmt.Fprintf(&b, "\n== %s ==\n", a.Title)
	fmt.Fprintf(&b, "Current bid: %s  (%d bids)  Status: %s\n", liveauction.FormatMoney(a.CurrentBid), a.BidCount, a.Status)
	if !s.Countdown.IsZero() {
		fmt.Fprintf(&b, "Time left: %s\n", s.Countdown)
	}
	if a.BuyNowPrice.Valid {
		fmt.Fprintf(&b, "Buy now: %s\n", liveauction.FormatMoney(a.BuyNowPrice.Decimal))
	}

	suggested := liveauction.SuggestedBids(a.CurrentBid)
	quick := make([]string, 0, len(suggested))
	for _, d := range suggested {
		quick = append(quick, liveauction.FormatMoney(d))
	}
	fmt.Fprintf(&b, "Quick bids: %s\n", strings.Join(quick, "  "))

	if len(s.RecentBids) > 0 {
		b.WriteString("Recent bids:\n")
		for _, bid := range s.RecentBids {
			fmt.Fprintf(&b, "  %-12s %s  %s\n", liveauction.FormatMoney(bid.Amount), bid.BidderID, bid.CreatedAt.Local().Format("15:04:05"))
		}
	}
	if len(s.Messages) > 0 {
		b.WriteString("Chat:\n")
		for _, m := range s.Messages {
			fmt.Fprintf(&b, "  %s: %s\n", m.AuthorID, m.Body)
		}
	}
	if s.BidPending {
		b.WriteString("Placing bid...\n")
	}
	return b.String()
}

// printNotifier writes toasts to w
func printNotifier(w io.Writer) notify.Notifier {
	return notify.Func(func(n notify.Notification) {
		fmt.Fprintf(w, "[%s] %s: %s\n", strings.ToUpper(string(n.Level)), n.Title, n.Description)
	})
}
