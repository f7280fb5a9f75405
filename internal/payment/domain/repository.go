package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/imigpt/foodzippy-backend/pkg/db/pagination"
	"gorm.io/gorm"
)

// Settlement carries the stamp applied when payments are marked paid.
type Settlement struct {
	PaidDate   time.Time
	PaidByID   snowflake.ID
	PaidByName string
}

type EarningsWindow struct {
	From *time.Time
	To   *time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Payment, error)
	Update(ctx context.Context, db *gorm.DB, payment *Payment) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	List(ctx context.Context, db *gorm.DB, filter ListPaymentFilter, page pagination.Pagination) ([]*Payment, error)
	Stats(ctx context.Context, db *gorm.DB, filter ListPaymentFilter) (PaymentStats, error)
	MarkPaidByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID, stamp Settlement) (int64, error)
	MarkPaidByAgent(ctx context.Context, db *gorm.DB, agentID snowflake.ID, stamp Settlement) (int64, error)
	SumByAgent(ctx context.Context, db *gorm.DB, agentID snowflake.ID, status PaymentStatus, window EarningsWindow) (int64, error)
	SummaryByAgent(ctx context.Context, db *gorm.DB) ([]AgentPaymentSummary, error)
	TypeStatsByAgent(ctx context.Context, db *gorm.DB, agentID snowflake.ID) ([]TypeStat, []TypeStat, error)
	ListByAgentID(ctx context.Context, db *gorm.DB, agentID snowflake.ID, limit int) ([]*Payment, error)
}
