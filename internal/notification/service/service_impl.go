package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/imigpt/foodzippy-backend/internal/auth/domain"
	"github.com/imigpt/foodzippy-backend/internal/clock"
	"github.com/imigpt/foodzippy-backend/internal/notification/domain"
	"github.com/imigpt/foodzippy-backend/internal/observability/metrics"
	vendordomain "github.com/imigpt/foodzippy-backend/internal/vendors/domain"
	"github.com/imigpt/foodzippy-backend/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("notification.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		metrics: p.Metrics,
	}
}

// NotifyStatusChange stores an admin notification for a visit-status
// transition. Failures are logged and swallowed; the transition that
// triggered the event has already committed.
func (s *Service) NotifyStatusChange(ctx context.Context, event domain.StatusChangeEvent) {
	title, body := formatStatusChange(event)
	s.store(ctx, domain.Notification{
		RecipientRole: string(authdomain.RoleAdmin),
		Kind:          domain.KindStatusChange,
		Title:         title,
		Body:          body,
		VendorID:      parseOptionalID(event.VendorID),
	})
}

func (s *Service) NotifyVendorRegistered(ctx context.Context, event domain.VendorRegisteredEvent) {
	s.store(ctx, domain.Notification{
		RecipientRole: string(authdomain.RoleAdmin),
		Kind:          domain.KindVendorRegistered,
		Title:         "New vendor registered",
		Body:          fmt.Sprintf("%s was registered by %s", event.VendorName, event.AgentName),
		VendorID:      parseOptionalID(event.VendorID),
	})
}

func (s *Service) NotifyPaymentsSettled(ctx context.Context, event domain.PaymentsSettledEvent) {
	s.store(ctx, domain.Notification{
		RecipientRole: string(authdomain.RoleAgent),
		RecipientID:   parseOptionalID(event.AgentID),
		Kind:          domain.KindPaymentsSettled,
		Title:         "Payments settled",
		Body:          fmt.Sprintf("%d payments were marked as paid by %s", event.Count, event.PaidBy),
	})
}

func (s *Service) List(ctx context.Context, req domain.ListNotificationRequest) (domain.ListNotificationResponse, error) {
	stmt := s.scope(s.db.WithContext(ctx).Model(&domain.Notification{}), req.Actor)
	if req.UnreadOnly {
		stmt = stmt.Where("is_read = ?", false)
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 250 {
		pageSize = 250
	}

	if token := strings.TrimSpace(req.PageToken); token != "" {
		cursor, err := pagination.DecodeCursor(token)
		if err != nil {
			return domain.ListNotificationResponse{}, domain.ErrInvalidPageToken
		}
		createdAt, err := time.Parse(time.RFC3339, cursor.CreatedAt)
		if err != nil {
			return domain.ListNotificationResponse{}, domain.ErrInvalidPageToken
		}
		stmt = stmt.Where("(created_at < ?) OR (created_at = ? AND id < ?)", createdAt, createdAt, cursor.ID)
	}

	var notifications []*domain.Notification
	err := stmt.
		Order("created_at desc, id desc").
		Limit(int(pageSize) + 1).
		Find(&notifications).Error
	if err != nil {
		return domain.ListNotificationResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(notifications, pageSize, func(n *domain.Notification) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        n.ID.String(),
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(notifications) > int(pageSize) {
		notifications = notifications[:pageSize]
	}

	resp := domain.ListNotificationResponse{Notifications: make([]domain.Notification, 0, len(notifications))}
	for _, n := range notifications {
		resp.Notifications = append(resp.Notifications, *n)
	}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) UnreadCount(ctx context.Context, actor authdomain.Actor) (int64, error) {
	var count int64
	err := s.scope(s.db.WithContext(ctx).Model(&domain.Notification{}), actor).
		Where("is_read = ?", false).
		Count(&count).Error
	return count, err
}

func (s *Service) MarkRead(ctx context.Context, actor authdomain.Actor, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	res := s.scope(s.db.WithContext(ctx).Model(&domain.Notification{}), actor).
		Where("id = ?", id).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, actor authdomain.Actor) (int64, error) {
	res := s.scope(s.db.WithContext(ctx).Model(&domain.Notification{}), actor).
		Where("is_read = ?", false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (s *Service) Delete(ctx context.Context, actor authdomain.Actor, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	res := s.scope(s.db.WithContext(ctx), actor).
		Delete(&domain.Notification{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) ClearRead(ctx context.Context, actor authdomain.Actor) (int64, error) {
	res := s.scope(s.db.WithContext(ctx), actor).
		Where("is_read = ?", true).
		Delete(&domain.Notification{})
	return res.RowsAffected, res.Error
}

// scope restricts queries to what the actor may see: admins share the
// admin feed, agents only see rows addressed to them.
func (s *Service) scope(stmt *gorm.DB, actor authdomain.Actor) *gorm.DB {
	if actor.IsAdmin() {
		return stmt.Where("recipient_role = ?", string(authdomain.RoleAdmin))
	}
	return stmt.
		Where("recipient_role = ?", string(authdomain.RoleAgent)).
		Where("recipient_id = ?", actor.ID)
}

func (s *Service) store(ctx context.Context, notification domain.Notification) {
	notification.ID = s.genID.Generate()
	notification.CreatedAt = s.clock.Now()

	if err := s.db.WithContext(ctx).Create(&notification).Error; err != nil {
		s.log.Warn("failed to store notification",
			zap.String("kind", string(notification.Kind)),
			zap.Error(err),
		)
		return
	}
	s.metrics.RecordNotification(ctx, string(notification.Kind))
}

var statusTitles = map[vendordomain.VisitStatus]string{
	vendordomain.StatusVisitedOnboarded:         "Vendor onboarded",
	vendordomain.StatusVisitedRejected:          "Vendor rejected",
	vendordomain.StatusVisitedFollowUpScheduled: "Follow-up scheduled",
	vendordomain.StatusFollowUpOnboarded:        "Vendor onboarded after follow-up",
	vendordomain.StatusFollowUpRejected:         "Vendor rejected after follow-up",
	vendordomain.StatusFollowUpSecondScheduled:  "Second follow-up scheduled",
	vendordomain.StatusSecondFollowUpOnboarded:  "Vendor onboarded after second follow-up",
	vendordomain.StatusSecondFollowUpRejected:   "Vendor rejected after second follow-up",
}

func formatStatusChange(event domain.StatusChangeEvent) (string, string) {
	title, ok := statusTitles[event.NewStatus]
	if !ok {
		title = "Vendor status updated"
	}

	body := fmt.Sprintf("%s moved to %s by %s (%s)",
		event.VendorName, event.NewStatus, event.ActorName, event.ActorRole)
	if event.NextFollowUpDate != nil {
		body = fmt.Sprintf("%s, next follow-up on %s",
			body, event.NextFollowUpDate.Format("2006-01-02"))
	}
	return title, body
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func parseOptionalID(raw string) *snowflake.ID {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return nil
	}
	return &id
}
