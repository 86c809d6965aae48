package membership

import (
	"math"
	"time"

	"gem-auction/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultCommissionRate applies to sellers without an active plan (percent)
var DefaultCommissionRate = decimal.NewFromInt(15)

// NearLimitPercent is the usage above which the seller is warned
const NearLimitPercent = 80.0

var hundred = decimal.NewFromInt(100)

// RateFor returns the commission rate of plan, or the default without one
func RateFor(plan *models.MembershipPlan) decimal.Decimal {
	if plan == nil {
		return DefaultCommissionRate
	}
	return plan.CommissionRate
}

// Commission splits a sale amount into the platform commission and the
// seller's earnings. ratePercent is a percentage, e.g. 15 for 15%.
// The commission is rounded to cents and the two parts always sum to amount.
func Commission(amount, ratePercent decimal.Decimal) (commission, earnings decimal.Decimal) {
	commission = amount.Mul(ratePercent).Div(hundred).Round(2)
	return commission, amount.Sub(commission)
}

// UsagePercentage is how much of the monthly posting limit has been used
func UsagePercentage(posted, limit int) float64 {
	if limit <= 0 {
		return 0
	}
	return float64(posted) / float64(limit) * 100
}

// NearLimit reports whether usage is above NearLimitPercent
func NearLimit(posted, limit int) bool {
	return UsagePercentage(posted, limit) > NearLimitPercent
}

// CanPost reports whether another item fits in the period's limit
func CanPost(m models.UserMembership, plan models.MembershipPlan) bool {
	return m.Status == models.MembershipActive && m.ItemsPostedThisPeriod < plan.MonthlyItemLimit
}

// DaysRemaining counts whole days left in the billing period, rounding up.
// It is negative once the period is over.
func DaysRemaining(periodEnd, now time.Time) int {
	return int(math.Ceil(periodEnd.Sub(now).Hours() / 24))
}
