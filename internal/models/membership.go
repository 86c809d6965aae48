package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MembershipPlan is a seller tier with a posting limit and commission rate
type MembershipPlan struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Level            int             `json:"level"`
	Price            decimal.Decimal `json:"price"`
	MonthlyItemLimit int             `json:"monthly_item_limit"`
	CommissionRate   decimal.Decimal `json:"commission_rate"` // percent
	Features         []string        `json:"features"`
	Description      string          `json:"description"`
	IsActive         bool            `json:"is_active"`
}

type MembershipStatus string

const (
	MembershipActive    MembershipStatus = "active"
	MembershipInactive  MembershipStatus = "inactive"
	MembershipCancelled MembershipStatus = "cancelled"
)

// UserMembership links a user to a plan for the current billing period
type UserMembership struct {
	ID                    string           `json:"id"`
	UserID                string           `json:"user_id"`
	PlanID                string           `json:"plan_id"`
	Status                MembershipStatus `json:"status"`
	CurrentPeriodStart    time.Time        `json:"current_period_start"`
	CurrentPeriodEnd      time.Time        `json:"current_period_end"`
	ItemsPostedThisPeriod int              `json:"items_posted_this_period"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

// Sale records a completed buy-now purchase and the platform's cut
type Sale struct {
	ID               string          `json:"id"`
	AuctionID        string          `json:"auction_id"`
	SellerID         string          `json:"seller_id"`
	BuyerID          string          `json:"buyer_id"`
	ItemTitle        string          `json:"item_title"`
	SaleAmount       decimal.Decimal `json:"sale_amount"`
	CommissionRate   decimal.Decimal `json:"commission_rate"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	SellerEarnings   decimal.Decimal `json:"seller_earnings"`
	PaymentStatus    string          `json:"payment_status"`
	CreatedAt        time.Time       `json:"created_at"`
}
