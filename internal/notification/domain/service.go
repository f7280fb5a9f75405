package domain

import (
	"context"
	"errors"
	"time"

	authdomain "github.com/imigpt/foodzippy-backend/internal/auth/domain"
	vendordomain "github.com/imigpt/foodzippy-backend/internal/vendors/domain"
	"github.com/imigpt/foodzippy-backend/pkg/db/pagination"
)

// StatusChangeEvent describes a visit-status transition for notification
// purposes. Delivery is best effort; the transition never waits on it.
type StatusChangeEvent struct {
	VendorID         string
	VendorName       string
	ActorID          string
	ActorName        string
	ActorRole        string
	NewStatus        vendordomain.VisitStatus
	NextFollowUpDate *time.Time
}

type VendorRegisteredEvent struct {
	VendorID   string
	VendorName string
	AgentID    string
	AgentName  string
}

type PaymentsSettledEvent struct {
	AgentID   string
	AgentName string
	Count     int64
	PaidByID  string
	PaidBy    string
}

type ListNotificationRequest struct {
	PageToken  string
	PageSize   int32
	Actor      authdomain.Actor
	UnreadOnly bool
}

type ListNotificationResponse struct {
	pagination.PageInfo
	Notifications []Notification `json:"notifications"`
}

type Service interface {
	NotifyStatusChange(ctx context.Context, event StatusChangeEvent)
	NotifyVendorRegistered(ctx context.Context, event VendorRegisteredEvent)
	NotifyPaymentsSettled(ctx context.Context, event PaymentsSettledEvent)
	List(context.Context, ListNotificationRequest) (ListNotificationResponse, error)
	UnreadCount(ctx context.Context, actor authdomain.Actor) (int64, error)
	MarkRead(ctx context.Context, actor authdomain.Actor, id string) error
	MarkAllRead(ctx context.Context, actor authdomain.Actor) (int64, error)
	Delete(ctx context.Context, actor authdomain.Actor, id string) error
	ClearRead(ctx context.Context, actor authdomain.Actor) (int64, error)
}

var (
	ErrNotFound         = errors.New("notification_not_found")
	ErrInvalidID        = errors.New("invalid_notification_id")
	ErrInvalidPageToken = errors.New("invalid_page_token")
)
