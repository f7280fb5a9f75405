package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/imigpt/foodzippy-backend/internal/payment/domain"
	"github.com/imigpt/foodzippy-backend/pkg/db/option"
	"github.com/imigpt/foodzippy-backend/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Create(payment).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Payment, error) {
	var payment domain.Payment
	err := db.WithContext(ctx).First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Save(payment).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.Payment{}, "id = ?", id).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListPaymentFilter, page pagination.Pagination) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	stmt := applyFilter(db.WithContext(ctx).Model(&domain.Payment{}), filter)
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repo) Stats(ctx context.Context, db *gorm.DB, filter domain.ListPaymentFilter) (domain.PaymentStats, error) {
	var stats domain.PaymentStats
	err := applyFilter(db.WithContext(ctx).Model(&domain.Payment{}), filter).
		Select(`COALESCE(SUM(amount), 0) AS total_amount,
			COALESCE(SUM(CASE WHEN status = 'pending' THEN amount ELSE 0 END), 0) AS pending_amount,
			COALESCE(SUM(CASE WHEN status = 'paid' THEN amount ELSE 0 END), 0) AS paid_amount,
			COUNT(*) AS count`).
		Scan(&stats).Error
	return stats, err
}

func (r *repo) MarkPaidByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID, stamp domain.Settlement) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("id IN ?", ids).
		Where("status = ?", domain.PaymentStatusPending).
		Updates(map[string]any{
			"status":       domain.PaymentStatusPaid,
			"paid_date":    stamp.PaidDate,
			"paid_by_id":   stamp.PaidByID,
			"paid_by_name": stamp.PaidByName,
			"updated_at":   stamp.PaidDate,
		})
	return res.RowsAffected, res.Error
}

func (r *repo) MarkPaidByAgent(ctx context.Context, db *gorm.DB, agentID snowflake.ID, stamp domain.Settlement) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("agent_id = ?", agentID).
		Where("status = ?", domain.PaymentStatusPending).
		Updates(map[string]any{
			"status":       domain.PaymentStatusPaid,
			"paid_date":    stamp.PaidDate,
			"paid_by_id":   stamp.PaidByID,
			"paid_by_name": stamp.PaidByName,
			"updated_at":   stamp.PaidDate,
		})
	return res.RowsAffected, res.Error
}

func (r *repo) SumByAgent(ctx context.Context, db *gorm.DB, agentID snowflake.ID, status domain.PaymentStatus, window domain.EarningsWindow) (int64, error) {
	var total int64
	stmt := db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("agent_id = ?", agentID).
		Where("status = ?", status)
	if window.From != nil {
		stmt = stmt.Where("created_at >= ?", *window.From)
	}
	if window.To != nil {
		stmt = stmt.Where("created_at < ?", *window.To)
	}
	err := stmt.
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *repo) SummaryByAgent(ctx context.Context, db *gorm.DB) ([]domain.AgentPaymentSummary, error) {
	var rows []domain.AgentPaymentSummary
	err := db.WithContext(ctx).
		Model(&domain.Payment{}).
		Select(`agent_id,
			MAX(agent_name) AS agent_name,
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending_count,
			COALESCE(SUM(CASE WHEN status = 'paid' THEN 1 ELSE 0 END), 0) AS paid_count,
			COALESCE(SUM(CASE WHEN status = 'pending' THEN amount ELSE 0 END), 0) AS pending_total,
			COALESCE(SUM(CASE WHEN status = 'paid' THEN amount ELSE 0 END), 0) AS paid_total`).
		Group("agent_id").
		Order("agent_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) TypeStatsByAgent(ctx context.Context, db *gorm.DB, agentID snowflake.ID) ([]domain.TypeStat, []domain.TypeStat, error) {
	var byType []domain.TypeStat
	err := db.WithContext(ctx).
		Model(&domain.Payment{}).
		Select("payment_type, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("agent_id = ?", agentID).
		Group("payment_type").
		Order("payment_type").
		Scan(&byType).Error
	if err != nil {
		return nil, nil, err
	}

	var byStatus []domain.TypeStat
	err = db.WithContext(ctx).
		Model(&domain.Payment{}).
		Select("status AS payment_type, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("agent_id = ?", agentID).
		Group("status").
		Order("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, nil, err
	}
	return byType, byStatus, nil
}

func (r *repo) ListByAgentID(ctx context.Context, db *gorm.DB, agentID snowflake.ID, limit int) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	stmt := db.WithContext(ctx).
		Where("agent_id = ?", agentID).
		Order("created_at desc, id desc")
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	if err := stmt.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func applyFilter(stmt *gorm.DB, filter domain.ListPaymentFilter) *gorm.DB {
	if filter.AgentID != "" {
		stmt = stmt.Where("agent_id = ?", filter.AgentID)
	}
	if filter.VendorID != "" {
		stmt = stmt.Where("vendor_id = ?", filter.VendorID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.PaymentType != "" {
		stmt = stmt.Where("payment_type = ?", filter.PaymentType)
	}
	if filter.CreatedFrom != nil {
		stmt = stmt.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		stmt = stmt.Where("created_at <= ?", *filter.CreatedTo)
	}
	return stmt
}
