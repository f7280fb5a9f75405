package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	ratedomain "github.com/imigpt/foodzippy-backend/internal/rateconfig/domain"
	vendordomain "github.com/imigpt/foodzippy-backend/internal/vendors/domain"
)

type PaymentType string

const (
	PaymentTypeVisit         PaymentType = "visit"
	PaymentTypeFollowUp      PaymentType = "followup"
	PaymentTypeVisitFollowUp PaymentType = "visit-followup"
	PaymentTypeOnboarding    PaymentType = "onboarding"
	PaymentTypeBalance       PaymentType = "balance"
	PaymentTypeNone          PaymentType = "none"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Payment is one computed payout owed to an agent for a vendor status
// transition. Rows are appended by the transition paths and only the
// settlement fields change afterwards.
type Payment struct {
	ID          snowflake.ID            `gorm:"primaryKey" json:"id"`
	VendorID    snowflake.ID            `gorm:"not null;index" json:"vendor_id"`
	VendorName  string                  `gorm:"not null" json:"vendor_name"`
	AgentID     snowflake.ID            `gorm:"not null;index" json:"agent_id"`
	AgentName   string                  `gorm:"not null" json:"agent_name"`
	Category    ratedomain.Category     `gorm:"type:text;not null" json:"category"`
	PaymentType PaymentType             `gorm:"not null" json:"payment_type"`
	Amount      int64                   `gorm:"not null" json:"amount"`
	VisitStatus vendordomain.VisitStatus `gorm:"not null" json:"visit_status"`
	Status      PaymentStatus           `gorm:"not null;default:'pending';index" json:"status"`
	PaidDate    *time.Time              `gorm:"column:paid_date" json:"paid_date,omitempty"`
	PaidByID    *snowflake.ID           `gorm:"column:paid_by_id" json:"paid_by_id,omitempty"`
	PaidByName  *string                 `gorm:"column:paid_by_name" json:"paid_by_name,omitempty"`
	Remarks     string                  `gorm:"type:text" json:"remarks,omitempty"`
	CreatedAt   time.Time               `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt   time.Time               `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }
