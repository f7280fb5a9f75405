package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/imigpt/foodzippy-backend/internal/audit/domain"
	authdomain "github.com/imigpt/foodzippy-backend/internal/auth/domain"
	"github.com/imigpt/foodzippy-backend/internal/clock"
	notificationdomain "github.com/imigpt/foodzippy-backend/internal/notification/domain"
	"github.com/imigpt/foodzippy-backend/internal/observability/metrics"
	"github.com/imigpt/foodzippy-backend/internal/payment/domain"
	"github.com/imigpt/foodzippy-backend/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Clock     clock.Clock
	Repo      domain.Repository
	AuthSvc   authdomain.Service
	AuditSvc  auditdomain.Service        `optional:"true"`
	NotifySvc notificationdomain.Service `optional:"true"`
	Metrics   *metrics.Metrics           `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	clock     clock.Clock
	repo      domain.Repository
	authSvc   authdomain.Service
	auditSvc  auditdomain.Service
	notifySvc notificationdomain.Service
	metrics   *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("payment.service"),
		clock:     p.Clock,
		repo:      p.Repo,
		authSvc:   p.AuthSvc,
		auditSvc:  p.AuditSvc,
		notifySvc: p.NotifySvc,
		metrics:   p.Metrics,
	}
}

// MarkAsPaid settles pending payments, either a named set or everything
// an agent is owed. Settlement never touches the vendor aggregates.
func (s *Service) MarkAsPaid(ctx context.Context, req domain.MarkAsPaidRequest) (int64, error) {
	if !req.Actor.IsAdmin() {
		return 0, authdomain.ErrForbidden
	}
	if len(req.PaymentIDs) == 0 && strings.TrimSpace(req.AgentID) == "" {
		return 0, domain.ErrInvalidSelection
	}

	stamp := domain.Settlement{
		PaidDate:   s.clock.Now(),
		PaidByID:   req.Actor.ID,
		PaidByName: req.Actor.Name,
	}

	var (
		modified int64
		err      error
		agentID  snowflake.ID
	)
	if len(req.PaymentIDs) > 0 {
		ids := make([]snowflake.ID, 0, len(req.PaymentIDs))
		for _, raw := range req.PaymentIDs {
			id, perr := snowflake.ParseString(strings.TrimSpace(raw))
			if perr != nil || id == 0 {
				return 0, domain.ErrInvalidID
			}
			ids = append(ids, id)
		}
		modified, err = s.repo.MarkPaidByIDs(ctx, s.db, ids, stamp)
	} else {
		agentID, err = snowflake.ParseString(strings.TrimSpace(req.AgentID))
		if err != nil || agentID == 0 {
			return 0, domain.ErrInvalidAgentID
		}
		modified, err = s.repo.MarkPaidByAgent(ctx, s.db, agentID, stamp)
	}
	if err != nil {
		return 0, err
	}

	s.metrics.RecordPaymentsSettled(ctx, modified)
	s.audit(ctx, req.Actor, "payment.mark_paid", nil, map[string]any{
		"modified": modified,
		"agent_id": strings.TrimSpace(req.AgentID),
		"ids":      len(req.PaymentIDs),
	})

	if modified > 0 && agentID != 0 && s.notifySvc != nil {
		agentName := ""
		if user, uerr := s.authSvc.GetByID(ctx, agentID.String()); uerr == nil {
			agentName = user.Name
		}
		s.notifySvc.NotifyPaymentsSettled(ctx, notificationdomain.PaymentsSettledEvent{
			AgentID:   agentID.String(),
			AgentName: agentName,
			Count:     modified,
			PaidByID:  req.Actor.ID.String(),
			PaidBy:    req.Actor.Name,
		})
	}

	return modified, nil
}

func (s *Service) AgentEarnings(ctx context.Context, agentID string) (domain.AgentEarnings, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(agentID))
	if err != nil || id == 0 {
		return domain.AgentEarnings{}, domain.ErrInvalidAgentID
	}

	now := s.clock.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var earnings domain.AgentEarnings
	windows := []struct {
		bucket *domain.EarningsBucket
		window domain.EarningsWindow
	}{
		{&earnings.Today, domain.EarningsWindow{From: &startOfDay}},
		{&earnings.Month, domain.EarningsWindow{From: &startOfMonth}},
		{&earnings.AllTime, domain.EarningsWindow{}},
	}
	for _, w := range windows {
		pending, err := s.repo.SumByAgent(ctx, s.db, id, domain.PaymentStatusPending, w.window)
		if err != nil {
			return domain.AgentEarnings{}, err
		}
		paid, err := s.repo.SumByAgent(ctx, s.db, id, domain.PaymentStatusPaid, w.window)
		if err != nil {
			return domain.AgentEarnings{}, err
		}
		w.bucket.Pending = pending
		w.bucket.Paid = paid
	}
	return earnings, nil
}

func (s *Service) List(ctx context.Context, req domain.ListPaymentRequest) (domain.ListPaymentResponse, error) {
	filter := domain.ListPaymentFilter{
		AgentID:     strings.TrimSpace(req.AgentID),
		VendorID:    strings.TrimSpace(req.VendorID),
		Status:      strings.TrimSpace(req.Status),
		PaymentType: strings.TrimSpace(req.PaymentType),
		CreatedFrom: req.CreatedFrom,
		CreatedTo:   req.CreatedTo,
	}
	page := pagination.Pagination{PageToken: req.PageToken, PageSize: int(req.PageSize)}

	payments, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListPaymentResponse{}, err
	}
	stats, err := s.repo.Stats(ctx, s.db, filter)
	if err != nil {
		return domain.ListPaymentResponse{}, err
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	pageInfo := pagination.BuildCursorPageInfo(payments, pageSize, func(p *domain.Payment) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        p.ID.String(),
			CreatedAt: p.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(payments) > int(pageSize) {
		payments = payments[:pageSize]
	}

	resp := domain.ListPaymentResponse{
		Payments: make([]domain.Payment, 0, len(payments)),
		Stats:    stats,
	}
	for _, p := range payments {
		resp.Payments = append(resp.Payments, *p)
	}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) ListByAgent(ctx context.Context) ([]domain.AgentPaymentSummary, error) {
	return s.repo.SummaryByAgent(ctx, s.db)
}

func (s *Service) AgentDetails(ctx context.Context, agentID string) (domain.AgentPaymentDetails, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(agentID))
	if err != nil || id == 0 {
		return domain.AgentPaymentDetails{}, domain.ErrInvalidAgentID
	}

	earnings, err := s.AgentEarnings(ctx, agentID)
	if err != nil {
		return domain.AgentPaymentDetails{}, err
	}
	byType, byStatus, err := s.repo.TypeStatsByAgent(ctx, s.db, id)
	if err != nil {
		return domain.AgentPaymentDetails{}, err
	}
	payments, err := s.repo.ListByAgentID(ctx, s.db, id, 100)
	if err != nil {
		return domain.AgentPaymentDetails{}, err
	}

	details := domain.AgentPaymentDetails{
		AgentID:  id.String(),
		Earnings: earnings,
		ByType:   byType,
		ByStatus: byStatus,
		Payments: make([]domain.Payment, 0, len(payments)),
	}
	for _, p := range payments {
		details.Payments = append(details.Payments, *p)
	}
	if user, uerr := s.authSvc.GetByID(ctx, id.String()); uerr == nil {
		details.AgentName = user.Name
	}
	return details, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdatePaymentRequest) (domain.Payment, error) {
	if !req.Actor.IsAdmin() {
		return domain.Payment{}, authdomain.ErrForbidden
	}
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.Payment{}, domain.ErrInvalidID
	}
	if req.Amount != nil && *req.Amount < 0 {
		return domain.Payment{}, domain.ErrInvalidAmount
	}
	if req.Status != nil && *req.Status != domain.PaymentStatusPending && *req.Status != domain.PaymentStatusPaid {
		return domain.Payment{}, domain.ErrInvalidStatus
	}

	var updated domain.Payment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if payment == nil {
			return domain.ErrNotFound
		}

		if req.Amount != nil {
			payment.Amount = *req.Amount
		}
		if req.Remarks != nil {
			payment.Remarks = strings.TrimSpace(*req.Remarks)
		}
		if req.Status != nil && *req.Status != payment.Status {
			payment.Status = *req.Status
			if *req.Status == domain.PaymentStatusPaid {
				now := s.clock.Now()
				paidByID := req.Actor.ID
				paidByName := req.Actor.Name
				payment.PaidDate = &now
				payment.PaidByID = &paidByID
				payment.PaidByName = &paidByName
			} else {
				payment.PaidDate = nil
				payment.PaidByID = nil
				payment.PaidByName = nil
			}
		}
		payment.UpdatedAt = s.clock.Now()

		if err := s.repo.Update(ctx, tx, payment); err != nil {
			return err
		}
		updated = *payment
		return nil
	})
	if err != nil {
		return domain.Payment{}, err
	}

	target := updated.ID.String()
	s.audit(ctx, req.Actor, "payment.update", &target, map[string]any{
		"amount": updated.Amount,
		"status": string(updated.Status),
	})
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, actor authdomain.Actor, rawID string) error {
	if !actor.IsAdmin() {
		return authdomain.ErrForbidden
	}
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return domain.ErrInvalidID
	}

	payment, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if payment == nil {
		return domain.ErrNotFound
	}

	if err := s.repo.Delete(ctx, s.db, id); err != nil {
		return err
	}

	target := id.String()
	s.audit(ctx, actor, "payment.delete", &target, map[string]any{
		"amount": payment.Amount,
	})
	return nil
}

func (s *Service) audit(ctx context.Context, actor authdomain.Actor, action string, targetID *string, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	actorID := actor.ID.String()
	_ = s.auditSvc.AuditLog(ctx, string(auditdomain.ActorTypeAdmin), &actorID, action, "payment", targetID, metadata)
}
