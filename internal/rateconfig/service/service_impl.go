package service

import (
	"context"
	"errors"

	auditdomain "github.com/imigpt/foodzippy-backend/internal/audit/domain"
	"github.com/imigpt/foodzippy-backend/internal/clock"
	"github.com/imigpt/foodzippy-backend/internal/rateconfig/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	AuditSvc auditdomain.Service `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	auditSvc auditdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("rateconfig.service"),
		clock:    p.Clock,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) GetRates(ctx context.Context) ([]domain.PaymentRate, error) {
	if err := s.ensureDefaults(ctx); err != nil {
		return nil, err
	}

	var rates []domain.PaymentRate
	err := s.db.WithContext(ctx).
		Order("category asc").
		Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}

func (s *Service) GetCategory(ctx context.Context, category domain.Category) (domain.PaymentRate, error) {
	if !category.Valid() {
		return domain.PaymentRate{}, domain.ErrInvalidCategory
	}
	if err := s.ensureDefaults(ctx); err != nil {
		return domain.PaymentRate{}, err
	}

	var rate domain.PaymentRate
	err := s.db.WithContext(ctx).
		Where("category = ?", category).
		First(&rate).Error
	if err != nil {
		return domain.PaymentRate{}, err
	}
	return rate, nil
}

func (s *Service) UpdateCategory(ctx context.Context, req domain.UpdateRateRequest) (domain.PaymentRate, error) {
	if !req.Category.Valid() {
		return domain.PaymentRate{}, domain.ErrInvalidCategory
	}
	for _, value := range []*int64{req.Visit, req.FollowUp, req.Onboarding} {
		if value != nil && *value < 0 {
			return domain.PaymentRate{}, domain.ErrInvalidRate
		}
	}

	if err := s.ensureDefaults(ctx); err != nil {
		return domain.PaymentRate{}, err
	}

	var updated domain.PaymentRate
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rate domain.PaymentRate
		if err := tx.Where("category = ?", req.Category).First(&rate).Error; err != nil {
			return err
		}

		if req.Visit != nil {
			rate.Visit = *req.Visit
		}
		if req.FollowUp != nil {
			rate.FollowUp = *req.FollowUp
		}
		if req.Onboarding != nil {
			rate.Onboarding = *req.Onboarding
		}
		rate.UpdatedAt = s.clock.Now()

		if err := tx.Save(&rate).Error; err != nil {
			return err
		}
		updated = rate
		return nil
	})
	if err != nil {
		return domain.PaymentRate{}, err
	}

	if s.auditSvc != nil {
		category := string(updated.Category)
		_ = s.auditSvc.AuditLog(ctx, "", nil, "payment_rate.update", "payment_rate", &category, map[string]any{
			"category":   category,
			"visit":      updated.Visit,
			"followup":   updated.FollowUp,
			"onboarding": updated.Onboarding,
		})
	}

	return updated, nil
}

// ensureDefaults creates any missing category rows so reads never fail on
// a fresh database.
func (s *Service) ensureDefaults(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rate := range domain.DefaultPaymentRates() {
			var existing domain.PaymentRate
			err := tx.Where("category = ?", rate.Category).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			rate.UpdatedAt = s.clock.Now()
			if err := tx.Create(&rate).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
