package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	ratedomain "github.com/imigpt/foodzippy-backend/internal/rateconfig/domain"
	"gorm.io/datatypes"
)

type ListingStatus string

const (
	ListingPending ListingStatus = "pending"
	ListingPublish ListingStatus = "publish"
	ListingReject  ListingStatus = "reject"
)

func (s ListingStatus) Valid() bool {
	switch s {
	case ListingPending, ListingPublish, ListingReject:
		return true
	}
	return false
}

type Vendor struct {
	ID                 snowflake.ID        `gorm:"primaryKey" json:"id"`
	Name               string              `gorm:"not null" json:"name"`
	Phone              string              `gorm:"not null" json:"phone"`
	Address            string              `gorm:"type:text" json:"address,omitempty"`
	VendorType         string              `gorm:"column:vendor_type" json:"vendor_type,omitempty"`
	FormData           datatypes.JSONMap   `gorm:"type:jsonb;not null;default:'{}'" json:"form_data,omitempty"`
	PaymentCategory    ratedomain.Category `gorm:"column:payment_category;type:text" json:"payment_category,omitempty"`
	VisitStatus        VisitStatus         `gorm:"not null;default:'pending-visit';index" json:"visit_status"`
	RestaurantStatus   ListingStatus       `gorm:"not null;default:'pending';index" json:"restaurant_status"`
	IsSeenByAdmin      bool                `gorm:"not null;default:false" json:"is_seen_by_admin"`
	TotalPaymentDue    int64               `gorm:"not null;default:0" json:"total_payment_due"`
	TotalPaymentPaid   int64               `gorm:"not null;default:0" json:"total_payment_paid"`
	PaymentCompleted   bool                `gorm:"not null;default:false" json:"payment_completed"`
	FollowUpDate       *time.Time          `gorm:"column:followup_date" json:"followup_date,omitempty"`
	SecondFollowUpDate *time.Time          `gorm:"column:second_followup_date" json:"second_followup_date,omitempty"`
	LastOutcome        *string             `gorm:"column:last_outcome" json:"last_outcome,omitempty"`
	LastVisitedAt      *time.Time          `gorm:"column:last_visited_at" json:"last_visited_at,omitempty"`
	Remarks            string              `gorm:"type:text" json:"remarks,omitempty"`
	CreatedByID        snowflake.ID        `gorm:"not null;index" json:"created_by_id"`
	CreatedByName      string              `gorm:"not null" json:"created_by_name"`
	CreatedByRole      string              `gorm:"not null" json:"created_by_role"`
	CreatedAt          time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Vendor) TableName() string { return "vendors" }

// FollowUpEntry is one immutable line of a vendor's follow-up history.
// Entries are only ever appended.
type FollowUpEntry struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	VendorID      snowflake.ID `gorm:"not null;index" json:"vendor_id"`
	Date          time.Time    `gorm:"not null" json:"date"`
	Outcome       string       `gorm:"not null" json:"outcome"`
	Remarks       string       `gorm:"type:text" json:"remarks,omitempty"`
	UpdatedByID   snowflake.ID `gorm:"not null" json:"updated_by_id"`
	UpdatedByName string       `gorm:"not null" json:"updated_by_name"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (FollowUpEntry) TableName() string { return "vendor_followup_history" }
