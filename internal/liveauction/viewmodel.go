// Package liveauction holds the state of one live auction page: snapshot,
// countdown, recent bids and chat, patched by push events while mounted.
package liveauction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gem-auction/internal/auctionerrors"
	"gem-auction/internal/models"
	"gem-auction/internal/notify"
	"gem-auction/utils"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=viewmodel.go -destination=mock_backend.go -package=liveauction

// Backend is the auction collaborator the page talks to
type Backend interface {
	FetchAuctionSnapshot(ctx context.Context, auctionID string) (models.AuctionSnapshot, error)
	FetchBidHistory(ctx context.Context, auctionID string, limit int) ([]models.Bid, error)
	FetchChatHistory(ctx context.Context, auctionID string, limit int) ([]models.ChatMessage, error)
	SubmitBid(ctx context.Context, auctionID, bidderID string, amount decimal.Decimal) error
	SubmitChatMessage(ctx context.Context, auctionID, authorID, body string) error
	SubscribeToAuctionEvents(ctx context.Context, auctionID string) (<-chan models.AuctionEvent, func(), error)
}

var errAlreadyMounted = errors.New("liveauction: view model already mounted")

// Option configures a ViewModel
type Option func(*ViewModel)

// WithTickInterval changes how often the countdown ticks (one second by default)
func WithTickInterval(d time.Duration) Option {
	return func(vm *ViewModel) {
		if d > 0 {
			vm.tick = d
		}
	}
}

// WithObserver registers a callback run after every state change. It runs with
// the view model's lock held and must not call back into the view model.
func WithObserver(fn func(State)) Option {
	return func(vm *ViewModel) { vm.observer = fn }
}

// WithClock overrides the time source used to build the countdown
func WithClock(now func() time.Time) Option {
	return func(vm *ViewModel) {
		if now != nil {
			vm.now = now
		}
	}
}

// ViewModel drives one mount of an auction page. It is single-use:
// Mount once, Unmount once, then discard.
type ViewModel struct {
	backend  Backend
	notifier notify.Notifier
	tick     time.Duration
	observer func(State)
	now      func() time.Time

	mu          sync.Mutex
	state       State
	used        bool
	mounted     bool
	cancel      context.CancelFunc
	unsubscribe func()
	done        chan struct{}
	baseline    loadBaseline
}

// New creates an unmounted view model
func New(backend Backend, notifier notify.Notifier, opts ...Option) *ViewModel {
	if notifier == nil {
		notifier = notify.Func(func(notify.Notification) {})
	}
	vm := &ViewModel{
		backend:  backend,
		notifier: notifier,
		tick:     time.Second,
		now:      time.Now,
		state:    State{Phase: PhaseLoading},
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// State returns the current state
func (vm *ViewModel) State() State {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state
}

// Mount opens the live feed, loads the auction, then starts the countdown and
// applies live updates. A load failure leaves the view in PhaseError and is
// returned; a failed subscription only costs live updates and is reported as
// a notification.
func (vm *ViewModel) Mount(ctx context.Context, auctionID string) error {
	vm.mu.Lock()
	if vm.used {
		vm.mu.Unlock()
		return errAlreadyMounted
	}
	runCtx, cancel := context.WithCancel(ctx)
	vm.used = true
	vm.mounted = true
	vm.cancel = cancel
	vm.mu.Unlock()

	events, unsubscribe, subErr := vm.backend.SubscribeToAuctionEvents(runCtx, auctionID)
	if subErr != nil {
		events, unsubscribe = nil, nil
	}
	vm.mu.Lock()
	if !vm.mounted {
		vm.mu.Unlock()
		if unsubscribe != nil {
			unsubscribe()
		}
		return fmt.Errorf("liveauction: mount %s: unmounted during subscribe", auctionID)
	}
	vm.unsubscribe = unsubscribe
	vm.mu.Unlock()

	var (
		snap models.AuctionSnapshot
		bids []models.Bid
		msgs []models.ChatMessage
	)
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		var err error
		snap, err = vm.backend.FetchAuctionSnapshot(gctx, auctionID)
		return err
	})
	g.Go(func() error {
		var err error
		bids, err = vm.backend.FetchBidHistory(gctx, auctionID, RecentBidsLimit)
		return err
	})
	g.Go(func() error {
		var err error
		msgs, err = vm.backend.FetchChatHistory(gctx, auctionID, ChatHistoryLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		utils.Warn("liveauction: initial load failed", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		vm.dropSubscription()
		vm.update(func(s State) State { return Failed(s, err) })
		return fmt.Errorf("liveauction: mount %s: %w", auctionID, err)
	}

	base := newLoadBaseline(snap, msgs)
	bids = base.trimBids(bids)
	now := vm.now()
	if !vm.update(func(s State) State { return Loaded(s, snap, bids, msgs, now) }) {
		return fmt.Errorf("liveauction: mount %s: unmounted during load", auctionID)
	}

	if subErr != nil {
		utils.Warn("liveauction: live updates unavailable", map[string]any{
			"auction_id": auctionID,
			"error":      subErr.Error(),
		})
		vm.notifier.Notify(notify.Notification{
			Level:       notify.LevelError,
			Title:       "Live Updates Unavailable",
			Description: "New bids and messages will not appear until you reload",
		})
	}

	vm.mu.Lock()
	if !vm.mounted {
		vm.mu.Unlock()
		return fmt.Errorf("liveauction: mount %s: unmounted during load", auctionID)
	}
	vm.baseline = base
	vm.done = make(chan struct{})
	done := vm.done
	vm.mu.Unlock()

	go vm.run(runCtx, events, done)
	return nil
}

func (vm *ViewModel) run(ctx context.Context, events <-chan models.AuctionEvent, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(vm.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			vm.update(Tick)
		case ev, ok := <-events:
			if !ok {
				utils.Warn("liveauction: event stream closed", map[string]any{
					"auction_id": vm.State().Auction.ID,
				})
				events = nil
				continue
			}
			vm.HandleEvent(ev)
		}
	}
}

// HandleEvent applies a push event. After Unmount it does nothing.
func (vm *ViewModel) HandleEvent(ev models.AuctionEvent) {
	vm.update(func(s State) State {
		if vm.baseline.covers(ev) {
			return s
		}
		return Apply(s, ev)
	})
}

// dropSubscription ends the live feed opened by Mount, once
func (vm *ViewModel) dropSubscription() {
	vm.mu.Lock()
	unsubscribe := vm.unsubscribe
	vm.unsubscribe = nil
	vm.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// loadBaseline is what the initial load already shows. The feed is opened
// before loading, so events queued meanwhile may repeat loaded data.
type loadBaseline struct {
	loaded     bool
	currentBid decimal.Decimal
	messages   map[string]struct{}
}

func newLoadBaseline(snap models.AuctionSnapshot, msgs []models.ChatMessage) loadBaseline {
	seen := make(map[string]struct{}, len(msgs))
	for _, m := range msgs {
		seen[m.ID] = struct{}{}
	}
	return loadBaseline{loaded: true, currentBid: snap.CurrentBid, messages: seen}
}

// covers reports whether ev is already part of the loaded page. Accepted bids
// strictly increase, so a bid at or below the loaded current bid predates it.
func (b loadBaseline) covers(ev models.AuctionEvent) bool {
	switch {
	case ev.Type == models.EventBidInserted && ev.Bid != nil:
		return b.loaded && !ev.Bid.Amount.GreaterThan(b.currentBid)
	case ev.Type == models.EventMessageInserted && ev.Message != nil:
		_, ok := b.messages[ev.Message.ID]
		return ok
	}
	return false
}

// trimBids drops history entries newer than the snapshot; their events follow
func (b loadBaseline) trimBids(bids []models.Bid) []models.Bid {
	out := make([]models.Bid, 0, len(bids))
	for _, bid := range bids {
		if !bid.Amount.GreaterThan(b.currentBid) {
			out = append(out, bid)
		}
	}
	return out
}

// Unmount stops the countdown and live updates and waits for them to finish.
// Anything arriving afterwards, including late submission results, is ignored.
func (vm *ViewModel) Unmount() {
	vm.mu.Lock()
	if !vm.mounted {
		vm.mu.Unlock()
		return
	}
	vm.mounted = false
	cancel, unsubscribe, done := vm.cancel, vm.unsubscribe, vm.done
	vm.unsubscribe = nil
	vm.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if unsubscribe != nil {
		unsubscribe()
	}
	if done != nil {
		<-done
	}
}

// SubmitBid sends a bid. The amount must beat the displayed current bid; a
// rejected amount never reaches the backend. Only one bid may be in flight.
// The state is not changed optimistically: the new bid shows up through its push event.
func (vm *ViewModel) SubmitBid(ctx context.Context, bidderID string, amount decimal.Decimal) error {
	vm.mu.Lock()
	if !vm.mounted || vm.state.Phase != PhaseReady {
		vm.mu.Unlock()
		return fmt.Errorf("liveauction: submit bid: %w", auctionerrors.ErrNotReady)
	}
	if bidderID == "" {
		vm.mu.Unlock()
		vm.notifier.Notify(notify.Notification{
			Level:       notify.LevelError,
			Title:       "Authentication Required",
			Description: "Please log in to place a bid",
		})
		return fmt.Errorf("liveauction: submit bid: %w", auctionerrors.ErrUnauthenticated)
	}
	current := vm.state.Auction.CurrentBid
	if !amount.GreaterThan(current) {
		vm.mu.Unlock()
		vm.notifier.Notify(notify.Notification{
			Level:       notify.LevelError,
			Title:       "Invalid Bid",
			Description: fmt.Sprintf("Bid must be higher than %s", FormatMoney(current)),
		})
		return fmt.Errorf("liveauction: submit bid %s: %w", amount, auctionerrors.ErrBidTooLow)
	}
	if vm.state.BidPending {
		vm.mu.Unlock()
		return fmt.Errorf("liveauction: submit bid: %w", auctionerrors.ErrSubmissionPending)
	}
	vm.state.BidPending = true
	auctionID := vm.state.Auction.ID
	vm.publishLocked()
	vm.mu.Unlock()

	err := vm.backend.SubmitBid(ctx, auctionID, bidderID, amount)

	if !vm.update(func(s State) State {
		s.BidPending = false
		return s
	}) {
		if err != nil {
			return fmt.Errorf("liveauction: submit bid: %w", err)
		}
		return nil
	}

	if err != nil {
		utils.Warn("liveauction: bid rejected", map[string]any{
			"auction_id": auctionID,
			"bidder_id":  bidderID,
			"amount":     amount.String(),
			"error":      err.Error(),
		})
		vm.notifier.Notify(notify.Notification{
			Level:       notify.LevelError,
			Title:       "Bid Failed",
			Description: err.Error(),
		})
		return fmt.Errorf("liveauction: submit bid: %w", err)
	}

	vm.notifier.Notify(notify.Notification{
		Level:       notify.LevelSuccess,
		Title:       "Bid Placed",
		Description: fmt.Sprintf("Your bid of %s has been placed", FormatMoney(amount)),
	})
	return nil
}

// SubmitMessage posts a chat line. The body is trimmed and must not be empty.
func (vm *ViewModel) SubmitMessage(ctx context.Context, authorID, body string) error {
	vm.mu.Lock()
	if !vm.mounted || vm.state.Phase != PhaseReady {
		vm.mu.Unlock()
		return fmt.Errorf("liveauction: submit message: %w", auctionerrors.ErrNotReady)
	}
	auctionID := vm.state.Auction.ID
	vm.mu.Unlock()

	if authorID == "" {
		vm.notifier.Notify(notify.Notification{
			Level:       notify.LevelError,
			Title:       "Authentication Required",
			Description: "Please log in to send messages",
		})
		return fmt.Errorf("liveauction: submit message: %w", auctionerrors.ErrUnauthenticated)
	}
	body = strings.TrimSpace(body)
	if body == "" {
		vm.notifier.Notify(notify.Notification{
			Level:       notify.LevelError,
			Title:       "Empty Message",
			Description: "Type a message before sending",
		})
		return fmt.Errorf("liveauction: submit message: %w", auctionerrors.ErrEmptyMessage)
	}

	if err := vm.backend.SubmitChatMessage(ctx, auctionID, authorID, body); err != nil {
		if vm.isMounted() {
			vm.notifier.Notify(notify.Notification{
				Level:       notify.LevelError,
				Title:       "Message Failed",
				Description: err.Error(),
			})
		}
		return fmt.Errorf("liveauction: submit message: %w", err)
	}
	return nil
}

// update applies fn while mounted and reports whether it ran
func (vm *ViewModel) update(fn func(State) State) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if !vm.mounted {
		return false
	}
	vm.state = fn(vm.state)
	vm.publishLocked()
	return true
}

func (vm *ViewModel) publishLocked() {
	if vm.observer != nil {
		vm.observer(vm.state)
	}
}

func (vm *ViewModel) isMounted() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.mounted
}
