// Package membership lets a seller view the plan tiers and switch plans, and
// holds the commission and usage arithmetic that depends on the active plan.
package membership

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"gem-auction/internal/auctionerrors"
	"gem-auction/internal/models"
	"gem-auction/internal/notify"
	"gem-auction/utils"
)

//go:generate mockgen -source=picker.go -destination=mock_backend.go -package=membership

// Backend is the plan collaborator
type Backend interface {
	FetchMembershipPlans(ctx context.Context) ([]models.MembershipPlan, error)
	FetchUserMembership(ctx context.Context, userID string) (models.UserMembership, error)
	UpsertUserMembership(ctx context.Context, userID, planID string) (models.UserMembership, error)
}

// Picker is the state behind the membership page
type Picker struct {
	backend  Backend
	notifier notify.Notifier

	mu      sync.RWMutex
	plans   []models.MembershipPlan
	current string
}

func NewPicker(backend Backend, notifier notify.Notifier) *Picker {
	if notifier == nil {
		notifier = notify.Func(func(notify.Notification) {})
	}
	return &Picker{backend: backend, notifier: notifier}
}

// Load fetches the active plans, ordered by level, and the user's current plan
// when userID is set. A user without a membership is not an error.
func (p *Picker) Load(ctx context.Context, userID string) error {
	plans, err := p.backend.FetchMembershipPlans(ctx)
	if err != nil {
		utils.Error("membership: failed to load plans", map[string]any{"error": err.Error()})
		p.notifier.Notify(notify.Notification{
			Level:       notify.LevelError,
			Title:       "Error",
			Description: "Failed to load membership plans",
		})
		return fmt.Errorf("membership: load plans: %w", err)
	}

	active := make([]models.MembershipPlan, 0, len(plans))
	for _, plan := range plans {
		if plan.IsActive {
			active = append(active, plan)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].Level < active[j].Level })

	current := ""
	if userID != "" {
		m, err := p.backend.FetchUserMembership(ctx, userID)
		switch {
		case err == nil && m.Status == models.MembershipActive:
			current = m.PlanID
		case err != nil && !errors.Is(err, auctionerrors.ErrNotFound):
			utils.Warn("membership: failed to load current plan", map[string]any{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
	}

	p.mu.Lock()
	p.plans = active
	p.current = current
	p.mu.Unlock()
	return nil
}

// Plans returns the loaded plans, lowest level first
func (p *Picker) Plans() []models.MembershipPlan {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]models.MembershipPlan(nil), p.plans...)
}

// CurrentPlanID is the user's active plan, or "" when there is none
func (p *Picker) CurrentPlanID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Select switches userID to planID. On failure the current plan is unchanged.
func (p *Picker) Select(ctx context.Context, userID, planID string) (models.UserMembership, error) {
	if userID == "" {
		p.notifier.Notify(notify.Notification{
			Level:       notify.LevelError,
			Title:       "Authentication Required",
			Description: "Please sign in to select a membership plan",
		})
		return models.UserMembership{}, fmt.Errorf("membership: select plan: %w", auctionerrors.ErrUnauthenticated)
	}

	m, err := p.backend.UpsertUserMembership(ctx, userID, planID)
	if err != nil {
		utils.Error("membership: failed to select plan", map[string]any{
			"user_id": userID,
			"plan_id": planID,
			"error":   err.Error(),
		})
		p.notifier.Notify(notify.Notification{
			Level:       notify.LevelError,
			Title:       "Error",
			Description: "Failed to update membership plan",
		})
		return models.UserMembership{}, fmt.Errorf("membership: select plan %s: %w", planID, err)
	}

	p.mu.Lock()
	p.current = m.PlanID
	p.mu.Unlock()

	p.notifier.Notify(notify.Notification{
		Level:       notify.LevelSuccess,
		Title:       "Success!",
		Description: "Your membership plan has been updated",
	})
	return m, nil
}
