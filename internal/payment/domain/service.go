package domain

import (
	"context"
	"errors"
	"time"

	authdomain "github.com/imigpt/foodzippy-backend/internal/auth/domain"
	"github.com/imigpt/foodzippy-backend/pkg/db/pagination"
)

// MarkAsPaidRequest settles either the named payments or every pending
// payment of an agent. Exactly one of PaymentIDs and AgentID must be set.
type MarkAsPaidRequest struct {
	Actor      authdomain.Actor
	PaymentIDs []string
	AgentID    string
	Remarks    string
}

type EarningsBucket struct {
	Pending int64 `json:"pending"`
	Paid    int64 `json:"paid"`
}

type AgentEarnings struct {
	Today   EarningsBucket `json:"today"`
	Month   EarningsBucket `json:"month"`
	AllTime EarningsBucket `json:"all_time"`
}

type ListPaymentRequest struct {
	PageToken   string
	PageSize    int32
	AgentID     string
	VendorID    string
	Status      string
	PaymentType string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type ListPaymentFilter struct {
	AgentID     string
	VendorID    string
	Status      string
	PaymentType string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type PaymentStats struct {
	TotalAmount   int64 `json:"total_amount"`
	PendingAmount int64 `json:"pending_amount"`
	PaidAmount    int64 `json:"paid_amount"`
	Count         int64 `json:"count"`
}

type ListPaymentResponse struct {
	pagination.PageInfo
	Payments []Payment    `json:"payments"`
	Stats    PaymentStats `json:"stats"`
}

// AgentPaymentSummary is one row of the per-agent grouping.
type AgentPaymentSummary struct {
	AgentID      string `json:"agent_id"`
	AgentName    string `json:"agent_name"`
	PendingCount int64  `json:"pending_count"`
	PaidCount    int64  `json:"paid_count"`
	PendingTotal int64  `json:"pending_total"`
	PaidTotal    int64  `json:"paid_total"`
}

type TypeStat struct {
	PaymentType string `json:"payment_type"`
	Count       int64  `json:"count"`
	Total       int64  `json:"total"`
}

type AgentPaymentDetails struct {
	AgentID   string         `json:"agent_id"`
	AgentName string         `json:"agent_name"`
	Earnings  AgentEarnings  `json:"earnings"`
	ByType    []TypeStat     `json:"by_type"`
	ByStatus  []TypeStat     `json:"by_status"`
	Payments  []Payment      `json:"payments"`
}

type UpdatePaymentRequest struct {
	Actor   authdomain.Actor
	ID      string
	Amount  *int64
	Status  *PaymentStatus
	Remarks *string
}

type Service interface {
	MarkAsPaid(context.Context, MarkAsPaidRequest) (int64, error)
	AgentEarnings(ctx context.Context, agentID string) (AgentEarnings, error)
	List(context.Context, ListPaymentRequest) (ListPaymentResponse, error)
	ListByAgent(ctx context.Context) ([]AgentPaymentSummary, error)
	AgentDetails(ctx context.Context, agentID string) (AgentPaymentDetails, error)
	Update(context.Context, UpdatePaymentRequest) (Payment, error)
	Delete(ctx context.Context, actor authdomain.Actor, id string) error
}

var (
	ErrNotFound         = errors.New("payment_not_found")
	ErrInvalidID        = errors.New("invalid_payment_id")
	ErrInvalidAgentID   = errors.New("invalid_agent_id")
	ErrInvalidSelection = errors.New("invalid_payment_selection")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrInvalidStatus    = errors.New("invalid_payment_status")
	ErrInvalidPageToken = errors.New("invalid_page_token")
)
