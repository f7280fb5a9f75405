package domain

import (
	"context"
	"errors"
	"time"

	authdomain "github.com/imigpt/foodzippy-backend/internal/auth/domain"
	ratedomain "github.com/imigpt/foodzippy-backend/internal/rateconfig/domain"
	"github.com/imigpt/foodzippy-backend/pkg/db/pagination"
)

type RegisterVendorRequest struct {
	Actor      authdomain.Actor
	Name       string
	Phone      string
	Address    string
	VendorType string
	FormData   map[string]any
}

type ListVendorRequest struct {
	PageToken        string
	PageSize         int32
	VisitStatus      string
	RestaurantStatus string
	Category         string
	CreatedByID      string
	Search           string
	UnseenOnly       bool
}

type ListVendorFilter struct {
	VisitStatus      string
	RestaurantStatus string
	Category         string
	CreatedByID      string
	Search           string
	UnseenOnly       bool
}

type ListVendorResponse struct {
	pagination.PageInfo
	Vendors []Vendor `json:"vendors"`
}

type GetVendorRequest struct {
	ID string
}

type AssignCategoryRequest struct {
	Actor    authdomain.Actor
	VendorID string
	Category ratedomain.Category
}

// UpdateVisitStatusRequest is the admin entry point for the first-visit
// branch. Category may be set in the same call so a pending vendor can be
// classified and transitioned at once.
type UpdateVisitStatusRequest struct {
	Actor              authdomain.Actor
	VendorID           string
	VisitStatus        VisitStatus
	Category           *ratedomain.Category
	FollowUpDate       *time.Time
	SecondFollowUpDate *time.Time
	Remarks            string
}

// ReportOutcomeRequest is the agent entry point for the follow-up
// branches. The acting agent must own the vendor.
type ReportOutcomeRequest struct {
	Actor            authdomain.Actor
	VendorID         string
	Outcome          Outcome
	Remarks          string
	NextFollowUpDate *time.Time
}

type UpdateListingStatusRequest struct {
	Actor    authdomain.Actor
	VendorID string
	Status   ListingStatus
}

type MarkSeenRequest struct {
	Actor authdomain.Actor
	IDs   []string
}

// TransitionResult reports the vendor after a status transition together
// with the payment generated by it, if any.
type TransitionResult struct {
	Vendor        Vendor `json:"vendor"`
	PaymentAmount int64  `json:"payment_amount"`
	PaymentType   string `json:"payment_type"`
}

type Service interface {
	Register(context.Context, RegisterVendorRequest) (Vendor, error)
	List(context.Context, ListVendorRequest) (ListVendorResponse, error)
	GetByID(context.Context, GetVendorRequest) (Vendor, error)
	AssignCategory(context.Context, AssignCategoryRequest) (Vendor, error)
	UpdateVisitStatus(context.Context, UpdateVisitStatusRequest) (TransitionResult, error)
	ReportOutcome(context.Context, ReportOutcomeRequest) (TransitionResult, error)
	UpdateListingStatus(context.Context, UpdateListingStatusRequest) (Vendor, error)
	MarkSeen(context.Context, MarkSeenRequest) (int64, error)
	UnseenCount(context.Context) (int64, error)
	FollowUpHistory(ctx context.Context, vendorID string) ([]FollowUpEntry, error)
}

var (
	ErrNotFound             = errors.New("vendor_not_found")
	ErrInvalidID            = errors.New("invalid_vendor_id")
	ErrInvalidName          = errors.New("invalid_name")
	ErrInvalidPhone         = errors.New("invalid_phone")
	ErrInvalidStatus        = errors.New("invalid_visit_status")
	ErrInvalidTransition    = errors.New("invalid_status_transition")
	ErrInvalidListingStatus = errors.New("invalid_listing_status")
	ErrInvalidOutcome       = errors.New("invalid_outcome")
	ErrFollowUpDateRequired = errors.New("followup_date_required")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidPageToken     = errors.New("invalid_page_token")
	ErrRateLimited          = errors.New("registration_rate_limited")
)
