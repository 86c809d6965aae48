package membership

import (
	"context"
	"errors"
	"testing"
	"time"

	"gem-auction/internal/auctionerrors"
	"gem-auction/internal/models"
	"gem-auction/internal/notify"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func plans() []models.MembershipPlan {
	return []models.MembershipPlan{
		{ID: "premium", Name: "Premium", Level: 3, Price: decimal.NewFromInt(199), MonthlyItemLimit: 200, CommissionRate: decimal.NewFromInt(5), IsActive: true},
		{ID: "legacy", Name: "Legacy", Level: 0, IsActive: false},
		{ID: "basic", Name: "Basic", Level: 1, Price: decimal.NewFromInt(29), MonthlyItemLimit: 10, CommissionRate: decimal.NewFromInt(15), IsActive: true},
		{ID: "pro", Name: "Professional", Level: 2, Price: decimal.NewFromInt(79), MonthlyItemLimit: 50, CommissionRate: decimal.NewFromInt(10), IsActive: true},
	}
}

func TestPicker_Load(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name        string
		userID      string
		setup       func(b *MockBackend)
		wantCurrent string
	}{
		{
			name:   "anonymous",
			userID: "",
			setup: func(b *MockBackend) {
				b.EXPECT().FetchMembershipPlans(ctx).Return(plans(), nil)
			},
		},
		{
			name:   "user_with_plan",
			userID: "u1",
			setup: func(b *MockBackend) {
				b.EXPECT().FetchMembershipPlans(ctx).Return(plans(), nil)
				b.EXPECT().FetchUserMembership(ctx, "u1").
					Return(models.UserMembership{UserID: "u1", PlanID: "pro", Status: models.MembershipActive}, nil)
			},
			wantCurrent: "pro",
		},
		{
			name:   "cancelled_plan_not_current",
			userID: "u1",
			setup: func(b *MockBackend) {
				b.EXPECT().FetchMembershipPlans(ctx).Return(plans(), nil)
				b.EXPECT().FetchUserMembership(ctx, "u1").
					Return(models.UserMembership{UserID: "u1", PlanID: "pro", Status: models.MembershipCancelled}, nil)
			},
		},
		{
			name:   "user_without_plan",
			userID: "u2",
			setup: func(b *MockBackend) {
				b.EXPECT().FetchMembershipPlans(ctx).Return(plans(), nil)
				b.EXPECT().FetchUserMembership(ctx, "u2").Return(models.UserMembership{}, auctionerrors.ErrMembershipNotFound)
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			backend := NewMockBackend(ctrl)
			tc.setup(backend)
			rec := &notify.Recorder{}

			p := NewPicker(backend, rec)
			require.NoError(t, p.Load(ctx, tc.userID))

			var ids []string
			for _, plan := range p.Plans() {
				ids = append(ids, plan.ID)
			}
			require.Equal(t, []string{"basic", "pro", "premium"}, ids)
			require.Equal(t, tc.wantCurrent, p.CurrentPlanID())
			require.Empty(t, rec.All())
		})
	}
}

func TestPicker_LoadFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl)
	backend.EXPECT().FetchMembershipPlans(gomock.Any()).Return(nil, auctionerrors.Transport("plans", errors.New("down")))

	rec := &notify.Recorder{}
	p := NewPicker(backend, rec)
	err := p.Load(context.Background(), "u1")

	require.ErrorIs(t, err, auctionerrors.ErrTransport)
	require.Empty(t, p.Plans())
	last, ok := rec.Last()
	require.True(t, ok)
	require.Equal(t, "Failed to load membership plans", last.Description)
}

func TestPicker_Select(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		backend := NewMockBackend(ctrl)
		backend.EXPECT().UpsertUserMembership(ctx, "u1", "premium").
			Return(models.UserMembership{UserID: "u1", PlanID: "premium", Status: models.MembershipActive}, nil)

		rec := &notify.Recorder{}
		p := NewPicker(backend, rec)
		m, err := p.Select(ctx, "u1", "premium")
		require.NoError(t, err)
		require.Equal(t, models.MembershipActive, m.Status)
		require.Equal(t, "premium", p.CurrentPlanID())
		require.Equal(t, []string{"Success!"}, rec.Titles())
	})

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		backend := NewMockBackend(ctrl)

		rec := &notify.Recorder{}
		p := NewPicker(backend, rec)
		_, err := p.Select(ctx, "", "premium")
		require.ErrorIs(t, err, auctionerrors.ErrUnauthenticated)
		require.Equal(t, []string{"Authentication Required"}, rec.Titles())
	})

	t.Run("backend_failure_keeps_current", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		backend := NewMockBackend(ctrl)
		gomock.InOrder(
			backend.EXPECT().UpsertUserMembership(ctx, "u1", "basic").
				Return(models.UserMembership{UserID: "u1", PlanID: "basic", Status: models.MembershipActive}, nil),
			backend.EXPECT().UpsertUserMembership(ctx, "u1", "ghost").
				Return(models.UserMembership{}, auctionerrors.ErrPlanNotFound),
		)

		rec := &notify.Recorder{}
		p := NewPicker(backend, rec)
		_, err := p.Select(ctx, "u1", "basic")
		require.NoError(t, err)

		_, err = p.Select(ctx, "u1", "ghost")
		require.ErrorIs(t, err, auctionerrors.ErrNotFound)
		require.Equal(t, "basic", p.CurrentPlanID())
		last, _ := rec.Last()
		require.Equal(t, "Failed to update membership plan", last.Description)
	})
}

func TestCommission(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		amount         string
		rate           string
		wantCommission string
		wantEarnings   string
	}{
		{name: "default_rate", amount: "25000", rate: "15", wantCommission: "3750", wantEarnings: "21250"},
		{name: "premium_rate", amount: "18000", rate: "5", wantCommission: "900", wantEarnings: "17100"},
		{name: "rounded_to_cents", amount: "99.99", rate: "15", wantCommission: "15", wantEarnings: "84.99"},
		{name: "zero_rate", amount: "100", rate: "0", wantCommission: "0", wantEarnings: "100"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			amount := decimal.RequireFromString(tc.amount)
			commission, earnings := Commission(amount, decimal.RequireFromString(tc.rate))
			require.True(t, commission.Equal(decimal.RequireFromString(tc.wantCommission)), "commission %s", commission)
			require.True(t, earnings.Equal(decimal.RequireFromString(tc.wantEarnings)), "earnings %s", earnings)
			require.True(t, commission.Add(earnings).Equal(amount))
		})
	}
}

func TestRateFor(t *testing.T) {
	t.Parallel()
	require.True(t, RateFor(nil).Equal(decimal.NewFromInt(15)))
	plan := plans()[0]
	require.True(t, RateFor(&plan).Equal(decimal.NewFromInt(5)))
}

func TestUsage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		posted, limit int
		wantPct       float64
		wantNear      bool
	}{
		{posted: 0, limit: 10, wantPct: 0},
		{posted: 8, limit: 10, wantPct: 80},
		{posted: 9, limit: 10, wantPct: 90, wantNear: true},
		{posted: 41, limit: 50, wantPct: 82, wantNear: true},
		{posted: 3, limit: 0, wantPct: 0},
	}

	for _, tc := range tests {
		require.InDelta(t, tc.wantPct, UsagePercentage(tc.posted, tc.limit), 1e-9)
		require.Equal(t, tc.wantNear, NearLimit(tc.posted, tc.limit))
	}
}

func TestCanPost(t *testing.T) {
	t.Parallel()

	basic := plans()[2]
	active := models.UserMembership{Status: models.MembershipActive, ItemsPostedThisPeriod: 9}
	require.True(t, CanPost(active, basic))

	active.ItemsPostedThisPeriod = 10
	require.False(t, CanPost(active, basic))

	inactive := models.UserMembership{Status: models.MembershipInactive}
	require.False(t, CanPost(inactive, basic))
}

func TestDaysRemaining(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.Equal(t, 30, DaysRemaining(now.AddDate(0, 0, 30), now))
	require.Equal(t, 1, DaysRemaining(now.Add(2*time.Hour), now))
	require.Equal(t, 2, DaysRemaining(now.Add(25*time.Hour), now))
	require.Equal(t, 0, DaysRemaining(now, now))
	require.Equal(t, -1, DaysRemaining(now.Add(-36*time.Hour), now))
}
