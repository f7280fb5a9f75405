package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/imigpt/foodzippy-backend/internal/audit/domain"
	"github.com/imigpt/foodzippy-backend/internal/clock"
	notificationdomain "github.com/imigpt/foodzippy-backend/internal/notification/domain"
	"github.com/imigpt/foodzippy-backend/internal/observability/metrics"
	paymentdomain "github.com/imigpt/foodzippy-backend/internal/payment/domain"
	ratedomain "github.com/imigpt/foodzippy-backend/internal/rateconfig/domain"
	"github.com/imigpt/foodzippy-backend/internal/ratelimit"
	"github.com/imigpt/foodzippy-backend/internal/vendors/domain"
	"github.com/imigpt/foodzippy-backend/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	PaymentRepo paymentdomain.Repository
	RateSvc     ratedomain.Service
	AuditSvc    auditdomain.Service           `optional:"true"`
	NotifySvc   notificationdomain.Service    `optional:"true"`
	Metrics     *metrics.Metrics              `optional:"true"`
	Limiter     *ratelimit.RegistrationLimiter `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	paymentRepo paymentdomain.Repository
	rateSvc     ratedomain.Service
	auditSvc    auditdomain.Service
	notifySvc   notificationdomain.Service
	metrics     *metrics.Metrics
	limiter     *ratelimit.RegistrationLimiter
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("vendor.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		paymentRepo: p.PaymentRepo,
		rateSvc:     p.RateSvc,
		auditSvc:    p.AuditSvc,
		notifySvc:   p.NotifySvc,
		metrics:     p.Metrics,
		limiter:     p.Limiter,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterVendorRequest) (domain.Vendor, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Vendor{}, domain.ErrInvalidName
	}
	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return domain.Vendor{}, domain.ErrInvalidPhone
	}

	if !s.limiter.AllowAgent(ctx, req.Actor.ID.String()) {
		return domain.Vendor{}, domain.ErrRateLimited
	}

	formData := datatypes.JSONMap{}
	for key, value := range req.FormData {
		if key == "" {
			continue
		}
		formData[key] = value
	}

	now := s.clock.Now()
	vendor := domain.Vendor{
		ID:               s.genID.Generate(),
		Name:             name,
		Phone:            phone,
		Address:          strings.TrimSpace(req.Address),
		VendorType:       strings.TrimSpace(req.VendorType),
		FormData:         formData,
		VisitStatus:      domain.StatusPendingVisit,
		RestaurantStatus: domain.ListingPending,
		CreatedByID:      req.Actor.ID,
		CreatedByName:    req.Actor.Name,
		CreatedByRole:    string(req.Actor.Role),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Insert(ctx, s.db, &vendor); err != nil {
		return domain.Vendor{}, err
	}

	if s.notifySvc != nil {
		s.notifySvc.NotifyVendorRegistered(ctx, notificationdomain.VendorRegisteredEvent{
			VendorID:   vendor.ID.String(),
			VendorName: vendor.Name,
			AgentID:    req.Actor.ID.String(),
			AgentName:  req.Actor.Name,
		})
	}

	s.log.Info("vendor registered",
		zap.String("vendor_id", vendor.ID.String()),
		zap.String("agent_id", req.Actor.ID.String()),
	)
	return vendor, nil
}

func (s *Service) List(ctx context.Context, req domain.ListVendorRequest) (domain.ListVendorResponse, error) {
	page := pagination.Pagination{PageToken: req.PageToken, PageSize: int(req.PageSize)}

	vendors, err := s.repo.List(ctx, s.db, domain.ListVendorFilter{
		VisitStatus:      req.VisitStatus,
		RestaurantStatus: req.RestaurantStatus,
		Category:         req.Category,
		CreatedByID:      req.CreatedByID,
		Search:           strings.TrimSpace(req.Search),
		UnseenOnly:       req.UnseenOnly,
	}, page)
	if err != nil {
		return domain.ListVendorResponse{}, err
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	pageInfo := pagination.BuildCursorPageInfo(vendors, pageSize, func(v *domain.Vendor) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        v.ID.String(),
			CreatedAt: v.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(vendors) > int(pageSize) {
		vendors = vendors[:pageSize]
	}

	resp := domain.ListVendorResponse{Vendors: make([]domain.Vendor, 0, len(vendors))}
	for _, v := range vendors {
		resp.Vendors = append(resp.Vendors, *v)
	}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetVendorRequest) (domain.Vendor, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Vendor{}, domain.ErrInvalidID
	}

	vendor, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Vendor{}, err
	}
	if vendor == nil {
		return domain.Vendor{}, domain.ErrNotFound
	}
	return *vendor, nil
}

func (s *Service) AssignCategory(ctx context.Context, req domain.AssignCategoryRequest) (domain.Vendor, error) {
	if !req.Actor.IsAdmin() {
		return domain.Vendor{}, domain.ErrForbidden
	}
	if !req.Category.Valid() {
		return domain.Vendor{}, ratedomain.ErrInvalidCategory
	}
	id, err := parseID(req.VendorID)
	if err != nil {
		return domain.Vendor{}, domain.ErrInvalidID
	}

	var updated domain.Vendor
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		vendor, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if vendor == nil {
			return domain.ErrNotFound
		}

		vendor.PaymentCategory = req.Category
		vendor.UpdatedAt = s.clock.Now()
		if err := s.repo.Update(ctx, tx, vendor); err != nil {
			return err
		}
		updated = *vendor
		return nil
	})
	if err != nil {
		return domain.Vendor{}, err
	}

	s.audit(ctx, req.Actor.ID, "vendor.assign_category", updated.ID, map[string]any{
		"category": string(req.Category),
	})
	return updated, nil
}

// UpdateVisitStatus is the admin transition path. The status change, the
// payment record and the aggregate update commit in one transaction.
// Every field is optional: with no status (or the status the vendor is
// already in) only the other fields are applied and no payment is owed.
func (s *Service) UpdateVisitStatus(ctx context.Context, req domain.UpdateVisitStatusRequest) (domain.TransitionResult, error) {
	if !req.Actor.IsAdmin() {
		return domain.TransitionResult{}, domain.ErrForbidden
	}
	if req.VisitStatus != "" && (!req.VisitStatus.Valid() || req.VisitStatus == domain.StatusPendingVisit) {
		return domain.TransitionResult{}, domain.ErrInvalidStatus
	}
	if req.Category != nil && !req.Category.Valid() {
		return domain.TransitionResult{}, ratedomain.ErrInvalidCategory
	}
	id, err := parseID(req.VendorID)
	if err != nil {
		return domain.TransitionResult{}, domain.ErrInvalidID
	}

	// Rates are resolved before the transaction so the get-or-create seed
	// never runs inside it.
	rates, err := s.rateTable(ctx)
	if err != nil {
		return domain.TransitionResult{}, err
	}

	var (
		result       domain.TransitionResult
		transitioned bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		vendor, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if vendor == nil {
			return domain.ErrNotFound
		}

		if req.Category != nil {
			vendor.PaymentCategory = *req.Category
		}

		transition := domain.TransitionResult{PaymentType: string(paymentdomain.PaymentTypeNone)}
		if req.VisitStatus != "" && req.VisitStatus != vendor.VisitStatus {
			transition, err = s.applyTransition(ctx, tx, vendor, req.VisitStatus, req.Remarks, req.Actor.ID, req.Actor.Name, rates)
			if err != nil {
				return err
			}
			transitioned = true
		}

		if req.FollowUpDate != nil {
			vendor.FollowUpDate = req.FollowUpDate
		}
		if req.SecondFollowUpDate != nil {
			vendor.SecondFollowUpDate = req.SecondFollowUpDate
		}
		if remarks := strings.TrimSpace(req.Remarks); remarks != "" {
			vendor.Remarks = remarks
		}
		vendor.UpdatedAt = s.clock.Now()

		if err := s.repo.Update(ctx, tx, vendor); err != nil {
			return err
		}
		result = transition
		result.Vendor = *vendor
		return nil
	})
	if err != nil {
		return domain.TransitionResult{}, err
	}

	s.audit(ctx, req.Actor.ID, "vendor.update_visit_status", result.Vendor.ID, map[string]any{
		"visit_status":   string(result.Vendor.VisitStatus),
		"payment_amount": result.PaymentAmount,
		"payment_type":   result.PaymentType,
	})
	if transitioned {
		s.recordTransition(ctx, result)
		s.notifyStatusChange(ctx, result.Vendor, req.Actor.ID.String(), req.Actor.Name, string(req.Actor.Role), nil)
	}

	return result, nil
}

// ReportOutcome is the agent transition path. The ownership check runs
// before any write; the rest shares the admin path's transaction shape.
func (s *Service) ReportOutcome(ctx context.Context, req domain.ReportOutcomeRequest) (domain.TransitionResult, error) {
	if !req.Outcome.Valid() {
		return domain.TransitionResult{}, domain.ErrInvalidOutcome
	}
	if req.Outcome == domain.OutcomeSecondFollowUp && req.NextFollowUpDate == nil {
		return domain.TransitionResult{}, domain.ErrFollowUpDateRequired
	}
	id, err := parseID(req.VendorID)
	if err != nil {
		return domain.TransitionResult{}, domain.ErrInvalidID
	}

	rates, err := s.rateTable(ctx)
	if err != nil {
		return domain.TransitionResult{}, err
	}

	var result domain.TransitionResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		vendor, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if vendor == nil {
			return domain.ErrNotFound
		}
		if vendor.CreatedByID != req.Actor.ID {
			return domain.ErrForbidden
		}

		newStatus, ok := domain.DeriveStatus(vendor.VisitStatus, req.Outcome)
		if !ok {
			return domain.ErrInvalidTransition
		}

		transition, err := s.applyTransition(ctx, tx, vendor, newStatus, req.Remarks, req.Actor.ID, req.Actor.Name, rates)
		if err != nil {
			return err
		}

		outcome := string(req.Outcome)
		now := s.clock.Now()
		vendor.LastOutcome = &outcome
		vendor.LastVisitedAt = &now
		if newStatus == domain.StatusFollowUpSecondScheduled {
			vendor.SecondFollowUpDate = req.NextFollowUpDate
		}

		if err := s.repo.Update(ctx, tx, vendor); err != nil {
			return err
		}
		result = transition
		result.Vendor = *vendor
		return nil
	})
	if err != nil {
		return domain.TransitionResult{}, err
	}

	s.recordTransition(ctx, result)
	s.notifyStatusChange(ctx, result.Vendor, req.Actor.ID.String(), req.Actor.Name, string(req.Actor.Role), req.NextFollowUpDate)

	return result, nil
}

func (s *Service) UpdateListingStatus(ctx context.Context, req domain.UpdateListingStatusRequest) (domain.Vendor, error) {
	if !req.Actor.IsAdmin() {
		return domain.Vendor{}, domain.ErrForbidden
	}
	if !req.Status.Valid() {
		return domain.Vendor{}, domain.ErrInvalidListingStatus
	}
	id, err := parseID(req.VendorID)
	if err != nil {
		return domain.Vendor{}, domain.ErrInvalidID
	}

	var updated domain.Vendor
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		vendor, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if vendor == nil {
			return domain.ErrNotFound
		}

		vendor.RestaurantStatus = req.Status
		vendor.UpdatedAt = s.clock.Now()
		if err := s.repo.Update(ctx, tx, vendor); err != nil {
			return err
		}
		updated = *vendor
		return nil
	})
	if err != nil {
		return domain.Vendor{}, err
	}

	s.audit(ctx, req.Actor.ID, "vendor.update_listing_status", updated.ID, map[string]any{
		"restaurant_status": string(req.Status),
	})
	return updated, nil
}

func (s *Service) MarkSeen(ctx context.Context, req domain.MarkSeenRequest) (int64, error) {
	if !req.Actor.IsAdmin() {
		return 0, domain.ErrForbidden
	}

	ids := make([]snowflake.ID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := parseID(raw)
		if err != nil {
			return 0, domain.ErrInvalidID
		}
		ids = append(ids, id)
	}

	return s.repo.MarkSeen(ctx, s.db, ids)
}

func (s *Service) UnseenCount(ctx context.Context) (int64, error) {
	return s.repo.CountUnseen(ctx, s.db)
}

func (s *Service) FollowUpHistory(ctx context.Context, vendorID string) ([]domain.FollowUpEntry, error) {
	id, err := parseID(vendorID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	vendor, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, domain.ErrNotFound
	}

	entries, err := s.repo.ListFollowUps(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	history := make([]domain.FollowUpEntry, 0, len(entries))
	for _, entry := range entries {
		history = append(history, *entry)
	}
	return history, nil
}

// applyTransition moves the vendor to newStatus inside the caller's
// transaction: it validates the transition, appends the payment record
// when one is owed, bumps the vendor aggregates and writes the history
// entry. The vendor is mutated but not saved; the caller saves it.
func (s *Service) applyTransition(ctx context.Context, tx *gorm.DB, vendor *domain.Vendor, newStatus domain.VisitStatus, remarks string, actorID snowflake.ID, actorName string, rates map[ratedomain.Category]ratedomain.PaymentRate) (domain.TransitionResult, error) {
	if newStatus == vendor.VisitStatus {
		// Repeating the current status owes nothing and appends nothing;
		// the caller still applies its field updates.
		return domain.TransitionResult{PaymentType: string(paymentdomain.PaymentTypeNone)}, nil
	}
	if !domain.CanTransition(vendor.VisitStatus, newStatus) {
		return domain.TransitionResult{}, domain.ErrInvalidTransition
	}

	// A vendor without a category still transitions; there is just no
	// invoice to compute for it.
	var (
		amount      int64
		paymentType = paymentdomain.PaymentTypeNone
	)
	if vendor.PaymentCategory != "" {
		rate, ok := rates[vendor.PaymentCategory]
		if !ok {
			return domain.TransitionResult{}, ratedomain.ErrInvalidCategory
		}
		amount, paymentType = paymentdomain.Compute(rate, newStatus, vendor.TotalPaymentPaid)
	}

	now := s.clock.Now()
	if amount > 0 {
		payment := paymentdomain.Payment{
			ID:          s.genID.Generate(),
			VendorID:    vendor.ID,
			VendorName:  vendor.Name,
			AgentID:     vendor.CreatedByID,
			AgentName:   vendor.CreatedByName,
			Category:    vendor.PaymentCategory,
			PaymentType: paymentType,
			Amount:      amount,
			VisitStatus: newStatus,
			Status:      paymentdomain.PaymentStatusPending,
			Remarks:     strings.TrimSpace(remarks),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.paymentRepo.Insert(ctx, tx, &payment); err != nil {
			return domain.TransitionResult{}, err
		}
		// Both aggregates track invoiced money. Settlement lives on the
		// payment row alone.
		vendor.TotalPaymentDue += amount
		vendor.TotalPaymentPaid += amount
	}

	vendor.VisitStatus = newStatus
	if newStatus.IsTerminal() {
		vendor.PaymentCompleted = true
	}
	vendor.UpdatedAt = now

	entry := domain.FollowUpEntry{
		ID:            s.genID.Generate(),
		VendorID:      vendor.ID,
		Date:          now,
		Outcome:       string(newStatus),
		Remarks:       strings.TrimSpace(remarks),
		UpdatedByID:   actorID,
		UpdatedByName: actorName,
		CreatedAt:     now,
	}
	if err := s.repo.AppendFollowUp(ctx, tx, &entry); err != nil {
		return domain.TransitionResult{}, err
	}

	return domain.TransitionResult{
		PaymentAmount: amount,
		PaymentType:   string(paymentType),
	}, nil
}

func (s *Service) rateTable(ctx context.Context) (map[ratedomain.Category]ratedomain.PaymentRate, error) {
	rates, err := s.rateSvc.GetRates(ctx)
	if err != nil {
		return nil, err
	}
	table := make(map[ratedomain.Category]ratedomain.PaymentRate, len(rates))
	for _, rate := range rates {
		table[rate.Category] = rate
	}
	return table, nil
}

func (s *Service) recordTransition(ctx context.Context, result domain.TransitionResult) {
	s.metrics.RecordStatusTransition(ctx, string(result.Vendor.VisitStatus))
	if result.PaymentAmount > 0 {
		s.metrics.RecordPaymentRecorded(ctx, result.PaymentType)
	}
}

func (s *Service) notifyStatusChange(ctx context.Context, vendor domain.Vendor, actorID, actorName, actorRole string, nextFollowUpDate *time.Time) {
	if s.notifySvc == nil {
		return
	}
	s.notifySvc.NotifyStatusChange(ctx, notificationdomain.StatusChangeEvent{
		VendorID:         vendor.ID.String(),
		VendorName:       vendor.Name,
		ActorID:          actorID,
		ActorName:        actorName,
		ActorRole:        actorRole,
		NewStatus:        vendor.VisitStatus,
		NextFollowUpDate: nextFollowUpDate,
	})
}

func (s *Service) audit(ctx context.Context, actorID snowflake.ID, action string, targetID snowflake.ID, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	actor := actorID.String()
	target := targetID.String()
	_ = s.auditSvc.AuditLog(ctx, string(auditdomain.ActorTypeAdmin), &actor, action, "vendor", &target, metadata)
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
