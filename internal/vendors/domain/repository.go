package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/imigpt/foodzippy-backend/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, vendor *Vendor) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Vendor, error)
	Update(ctx context.Context, db *gorm.DB, vendor *Vendor) error
	List(ctx context.Context, db *gorm.DB, filter ListVendorFilter, page pagination.Pagination) ([]*Vendor, error)
	CountUnseen(ctx context.Context, db *gorm.DB) (int64, error)
	MarkSeen(ctx context.Context, db *gorm.DB, ids []snowflake.ID) (int64, error)
	AppendFollowUp(ctx context.Context, db *gorm.DB, entry *FollowUpEntry) error
	ListFollowUps(ctx context.Context, db *gorm.DB, vendorID snowflake.ID) ([]*FollowUpEntry, error)
	ListScheduledByAgent(ctx context.Context, db *gorm.DB, agentID snowflake.ID) ([]*Vendor, error)
}
