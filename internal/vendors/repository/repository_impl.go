package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/imigpt/foodzippy-backend/internal/vendors/domain"
	"github.com/imigpt/foodzippy-backend/pkg/db/option"
	"github.com/imigpt/foodzippy-backend/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, vendor *domain.Vendor) error {
	return db.WithContext(ctx).Create(vendor).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Vendor, error) {
	var vendor domain.Vendor
	err := db.WithContext(ctx).First(&vendor, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, vendor *domain.Vendor) error {
	return db.WithContext(ctx).Save(vendor).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListVendorFilter, page pagination.Pagination) ([]*domain.Vendor, error) {
	var vendors []*domain.Vendor
	stmt := db.WithContext(ctx).Model(&domain.Vendor{})
	if filter.VisitStatus != "" {
		stmt = stmt.Where("visit_status = ?", filter.VisitStatus)
	}
	if filter.RestaurantStatus != "" {
		stmt = stmt.Where("restaurant_status = ?", filter.RestaurantStatus)
	}
	if filter.Category != "" {
		stmt = stmt.Where("payment_category = ?", filter.Category)
	}
	if filter.CreatedByID != "" {
		stmt = stmt.Where("created_by_id = ?", filter.CreatedByID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("name LIKE ? OR phone LIKE ? OR address LIKE ?", like, like, like)
	}
	if filter.UnseenOnly {
		stmt = stmt.Where("is_seen_by_admin = ?", false)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&vendors).Error
	if err != nil {
		return nil, err
	}
	return vendors, nil
}

func (r *repo) CountUnseen(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Vendor{}).
		Where("is_seen_by_admin = ?", false).
		Count(&count).Error
	return count, err
}

func (r *repo) MarkSeen(ctx context.Context, db *gorm.DB, ids []snowflake.ID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).
		Model(&domain.Vendor{}).
		Where("id IN ?", ids).
		Where("is_seen_by_admin = ?", false).
		Update("is_seen_by_admin", true)
	return res.RowsAffected, res.Error
}

func (r *repo) AppendFollowUp(ctx context.Context, db *gorm.DB, entry *domain.FollowUpEntry) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repo) ListFollowUps(ctx context.Context, db *gorm.DB, vendorID snowflake.ID) ([]*domain.FollowUpEntry, error) {
	var entries []*domain.FollowUpEntry
	err := db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("date asc, id asc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repo) ListScheduledByAgent(ctx context.Context, db *gorm.DB, agentID snowflake.ID) ([]*domain.Vendor, error) {
	var vendors []*domain.Vendor
	err := db.WithContext(ctx).
		Where("created_by_id = ?", agentID).
		Where("visit_status IN ?", []domain.VisitStatus{
			domain.StatusVisitedFollowUpScheduled,
			domain.StatusFollowUpSecondScheduled,
		}).
		Order("followup_date asc, id asc").
		Find(&vendors).Error
	if err != nil {
		return nil, err
	}
	return vendors, nil
}
