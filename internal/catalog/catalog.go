// Package catalog narrows and orders auction listings for the browse pages.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"gem-auction/internal/auctionerrors"
	"gem-auction/internal/models"

	"github.com/gosimple/slug"
)

// ValidSort reports whether s is an accepted sort order. Empty means default.
func ValidSort(s string) bool {
	switch s {
	case "", models.SortEndingSoon, models.SortMostBids, models.SortHighestBid, models.SortLowestBid, models.SortNewest:
		return true
	}
	return false
}

// Validate checks a filter before it is applied
func Validate(f models.AuctionFilter) error {
	if !ValidSort(f.Sort) {
		return fmt.Errorf("catalog: unknown sort %q: %w", f.Sort, auctionerrors.ErrValidation)
	}
	if f.Status != "" && !f.Status.Valid() {
		return fmt.Errorf("catalog: unknown status %q: %w", f.Status, auctionerrors.ErrValidation)
	}
	if f.MinPrice.Valid && f.MaxPrice.Valid && f.MinPrice.Decimal.GreaterThan(f.MaxPrice.Decimal) {
		return fmt.Errorf("catalog: min price above max price: %w", auctionerrors.ErrValidation)
	}
	return nil
}

// CategorySlug normalises a category name, so "Star Sapphires" matches "star-sapphires"
func CategorySlug(category string) string {
	return slug.Make(category)
}

// Apply returns the auctions matching f in the order f asks for. The input is not modified.
func Apply(auctions []models.AuctionSnapshot, f models.AuctionFilter) []models.AuctionSnapshot {
	wanted := make(map[string]bool, len(f.Categories))
	for _, c := range f.Categories {
		if s := CategorySlug(c); s != "" {
			wanted[s] = true
		}
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]models.AuctionSnapshot, 0, len(auctions))
	for _, a := range auctions {
		if len(wanted) > 0 && !wanted[CategorySlug(a.Category)] {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.MinPrice.Valid && a.CurrentBid.LessThan(f.MinPrice.Decimal) {
			continue
		}
		if f.MaxPrice.Valid && a.CurrentBid.GreaterThan(f.MaxPrice.Decimal) {
			continue
		}
		if term != "" && !matches(a, term) {
			continue
		}
		out = append(out, a)
	}

	sortAuctions(out, f.Sort)
	return out
}

func matches(a models.AuctionSnapshot, term string) bool {
	return strings.Contains(strings.ToLower(a.Title), term) ||
		strings.Contains(strings.ToLower(a.Description), term) ||
		strings.Contains(strings.ToLower(a.Category), term)
}

func sortAuctions(list []models.AuctionSnapshot, order string) {
	var less func(a, b models.AuctionSnapshot) bool
	switch order {
	case models.SortEndingSoon:
		// open-ended listings go last
		less = func(a, b models.AuctionSnapshot) bool {
			switch {
			case a.EndTime == nil:
				return false
			case b.EndTime == nil:
				return true
			}
			return a.EndTime.Before(*b.EndTime)
		}
	case models.SortMostBids:
		less = func(a, b models.AuctionSnapshot) bool { return a.BidCount > b.BidCount }
	case models.SortHighestBid:
		less = func(a, b models.AuctionSnapshot) bool { return a.CurrentBid.GreaterThan(b.CurrentBid) }
	case models.SortLowestBid:
		less = func(a, b models.AuctionSnapshot) bool { return a.CurrentBid.LessThan(b.CurrentBid) }
	case models.SortNewest:
		less = func(a, b models.AuctionSnapshot) bool { return a.CreatedAt.After(b.CreatedAt) }
	default:
		return
	}
	sort.SliceStable(list, func(i, j int) bool { return less(list[i], list[j]) })
}

// Categories lists the distinct categories present, by slug, in first-seen order
func Categories(auctions []models.AuctionSnapshot) []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range auctions {
		s := CategorySlug(a.Category)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
