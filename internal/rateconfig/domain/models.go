package domain

import (
	"context"
	"errors"
	"time"
)

// Category grades a vendor for payment purposes.
type Category string

const (
	CategoryA Category = "A"
	CategoryB Category = "B"
	CategoryC Category = "C"
	CategoryD Category = "D"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryA, CategoryB, CategoryC, CategoryD:
		return true
	default:
		return false
	}
}

// PaymentRate holds the per-category payout amounts.
type PaymentRate struct {
	Category   Category  `gorm:"primaryKey;type:text" json:"category"`
	Visit      int64     `gorm:"not null" json:"visit"`
	FollowUp   int64     `gorm:"column:followup;not null" json:"followup"`
	Onboarding int64     `gorm:"not null" json:"onboarding"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (PaymentRate) TableName() string { return "payment_rates" }

// DefaultPaymentRates is the rate table seeded on first access.
func DefaultPaymentRates() []PaymentRate {
	return []PaymentRate{
		{Category: CategoryA, Visit: 70, FollowUp: 70, Onboarding: 700},
		{Category: CategoryB, Visit: 50, FollowUp: 50, Onboarding: 500},
		{Category: CategoryC, Visit: 35, FollowUp: 35, Onboarding: 350},
		{Category: CategoryD, Visit: 20, FollowUp: 20, Onboarding: 200},
	}
}

type UpdateRateRequest struct {
	Category   Category
	Visit      *int64
	FollowUp   *int64
	Onboarding *int64
}

type Service interface {
	// GetRates returns the full rate table, creating missing categories
	// with defaults.
	GetRates(ctx context.Context) ([]PaymentRate, error)
	GetCategory(ctx context.Context, category Category) (PaymentRate, error)
	UpdateCategory(ctx context.Context, req UpdateRateRequest) (PaymentRate, error)
}

var (
	ErrInvalidCategory = errors.New("invalid_category")
	ErrInvalidRate     = errors.New("invalid_rate")
)
