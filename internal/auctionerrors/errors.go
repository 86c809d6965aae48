package auctionerrors

import (
	"errors"
	"fmt"
)

// Error kinds. Every error surfaced to a user wraps exactly one of these.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrTransport  = errors.New("transport failure")
)

// Repository-level errors
var (
	ErrAuctionNotFound    = fmt.Errorf("auction %w", ErrNotFound)
	ErrPlanNotFound       = fmt.Errorf("membership plan %w", ErrNotFound)
	ErrMembershipNotFound = fmt.Errorf("membership %w", ErrNotFound)
	ErrNoBids             = errors.New("no bids found for auction")
	ErrUserNoBids         = errors.New("user has not bid on any auction")
)

// business logic errors
var (
	ErrInvalidBid        = fmt.Errorf("%w: invalid bid", ErrValidation)
	ErrBidTooLow         = fmt.Errorf("%w: bid amount too low", ErrValidation)
	ErrEmptyMessage      = fmt.Errorf("%w: message is empty", ErrValidation)
	ErrUnauthenticated   = fmt.Errorf("%w: sign in required", ErrValidation)
	ErrAlreadyInCart     = fmt.Errorf("%w: item already in cart", ErrValidation)
	ErrCartEmpty         = fmt.Errorf("%w: cart is empty", ErrValidation)
	ErrSubmissionPending = fmt.Errorf("%w: a submission is already in flight", ErrValidation)
	ErrNotForSale        = fmt.Errorf("%w: auction is not available for purchase", ErrValidation)
	ErrAuctionClosed     = fmt.Errorf("%w: auction is not accepting bids", ErrValidation)
	ErrNotReady          = errors.New("auction view is not ready")
)

// Kind classifies err into one of the three error kinds, or "" when it matches none
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrTransport):
		return "transport"
	}
	return ""
}

// Transport wraps a network or backend failure so callers can match ErrTransport
func Transport(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
}
