package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Kind string

const (
	KindStatusChange     Kind = "status-change"
	KindVendorRegistered Kind = "vendor-registered"
	KindPaymentsSettled  Kind = "payments-settled"
)

type Notification struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	RecipientRole string        `gorm:"not null;index" json:"recipient_role"`
	RecipientID   *snowflake.ID `gorm:"index" json:"recipient_id,omitempty"`
	Kind          Kind          `gorm:"not null" json:"kind"`
	Title         string        `gorm:"not null" json:"title"`
	Body          string        `gorm:"type:text" json:"body,omitempty"`
	VendorID      *snowflake.ID `gorm:"index" json:"vendor_id,omitempty"`
	IsRead        bool          `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
