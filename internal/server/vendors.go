package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	ratedomain "github.com/imigpt/foodzippy-backend/internal/rateconfig/domain"
	vendordomain "github.com/imigpt/foodzippy-backend/internal/vendors/domain"
	"github.com/imigpt/foodzippy-backend/pkg/db/pagination"
)

type registerVendorRequest struct {
	Name       string         `json:"name"`
	Phone      string         `json:"phone"`
	Address    string         `json:"address"`
	VendorType string         `json:"vendor_type"`
	FormData   map[string]any `json:"form_data"`
}

func (s *Server) RegisterVendor(c *gin.Context) {
	actor, ok := actorFromGin(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req registerVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.vendorSvc.Register(c.Request.Context(), vendordomain.RegisterVendorRequest{
		Actor:      actor,
		Name:       strings.TrimSpace(req.Name),
		Phone:      strings.TrimSpace(req.Phone),
		Address:    strings.TrimSpace(req.Address),
		VendorType: strings.TrimSpace(req.VendorType),
		FormData:   req.FormData,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListVendors(c *gin.Context) {
	actor, ok := actorFromGin(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var query struct {
		pagination.Pagination
		VisitStatus      string `form:"visit_status"`
		RestaurantStatus string `form:"restaurant_status"`
		Category         string `form:"category"`
		CreatedBy        string `form:"created_by"`
		Search           string `form:"search"`
		UnseenOnly       bool   `form:"unseen_only"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	createdBy := strings.TrimSpace(query.CreatedBy)
	if !actor.IsAdmin() {
		// Agents only ever see their own vendors.
		createdBy = actor.ID.String()
	}

	resp, err := s.vendorSvc.List(c.Request.Context(), vendordomain.ListVendorRequest{
		PageToken:        query.PageToken,
		PageSize:         int32(query.PageSize),
		VisitStatus:      strings.TrimSpace(query.VisitStatus),
		RestaurantStatus: strings.TrimSpace(query.RestaurantStatus),
		Category:         strings.TrimSpace(query.Category),
		CreatedByID:      createdBy,
		Search:           strings.TrimSpace(query.Search),
		UnseenOnly:       query.UnseenOnly,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetVendorByID(c *gin.Context) {
	actor, ok := actorFromGin(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	vendor, err := s.vendorSvc.GetByID(c.Request.Context(), vendordomain.GetVendorRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if !actor.IsAdmin() && vendor.CreatedByID != actor.ID {
		AbortWithError(c, vendordomain.ErrForbidden)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": vendor})
}

func (s *Server) VendorFollowUpHistory(c *gin.Context) {
	actor, ok := actorFromGin(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	vendor, err := s.vendorSvc.GetByID(c.Request.Context(), vendordomain.GetVendorRequest{ID: id})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !actor.IsAdmin() && vendor.CreatedByID != actor.ID {
		AbortWithError(c, vendordomain.ErrForbidden)
		return
	}

	entries, err := s.vendorSvc.FollowUpHistory(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"history": entries}})
}

type assignCategoryRequest struct {
	Category string `json:"category"`
}

func (s *Server) AssignVendorCategory(c *gin.Context) {
	actor, ok := actorFromGin(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req assignCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	vendor, err := s.vendorSvc.AssignCategory(c.Request.Context(), vendordomain.AssignCategoryRequest{
		Actor:    actor,
		VendorID: strings.TrimSpace(c.Param("id")),
		Category: ratedomain.Category(strings.TrimSpace(req.Category)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": vendor})
}

type updateVisitStatusRequest struct {
	VisitStatus        string `json:"visit_status"`
	Category           string `json:"category"`
	FollowUpDate       string `json:"followup_date"`
	SecondFollowUpDate string `json:"second_followup_date"`
	Remarks            string `json:"remarks"`
}

func (s *Server) UpdateVisitStatus(c *gin.Context) {
	actor, ok := actorFromGin(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req updateVisitStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	followUpDate, err := parseOptionalTime(req.FollowUpDate, false)
	if err != nil {
		AbortWithError(c, newValidationError("followup_date", "invalid_followup_date", "invalid followup_date"))
		return
	}
	secondFollowUpDate, err := parseOptionalTime(req.SecondFollowUpDate, false)
	if err != nil {
		AbortWithError(c, newValidationError("second_followup_date", "invalid_second_followup_date", "invalid second_followup_date"))
		return
	}

	var category *ratedomain.Category
	if trimmed := strings.TrimSpace(req.Category); trimmed != "" {
		parsed := ratedomain.Category(trimmed)
		category = &parsed
	}

	resp, err := s.vendorSvc.UpdateVisitStatus(c.Request.Context(), vendordomain.UpdateVisitStatusRequest{
		Actor:              actor,
		VendorID:           strings.TrimSpace(c.Param("id")),
		VisitStatus:        vendordomain.VisitStatus(strings.TrimSpace(req.VisitStatus)),
		Category:           category,
		FollowUpDate:       followUpDate,
		SecondFollowUpDate: secondFollowUpDate,
		Remarks:            strings.TrimSpace(req.Remarks),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type reportOutcomeRequest struct {
	Outcome          string `json:"outcome"`
	Remarks          string `json:"remarks"`
	NextFollowUpDate string `json:"next_followup_date"`
}

func (s *Server) ReportVisitOutcome(c *gin.Context) {
	actor, ok := actorFromGin(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req reportOutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	nextFollowUpDate, err := parseOptionalTime(req.NextFollowUpDate, false)
	if err != nil {
		AbortWithError(c, newValidationError("next_followup_date", "invalid_next_followup_date", "invalid next_followup_date"))
		return
	}

	resp, err := s.vendorSvc.ReportOutcome(c.Request.Context(), vendordomain.ReportOutcomeRequest{
		Actor:            actor,
		VendorID:         strings.TrimSpace(c.Param("id")),
		Outcome:          vendordomain.Outcome(strings.TrimSpace(req.Outcome)),
		Remarks:          strings.TrimSpace(req.Remarks),
		NextFollowUpDate: nextFollowUpDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateListingStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateListingStatus(c *gin.Context) {
	actor, ok := actorFromGin(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req updateListingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	vendor, err := s.vendorSvc.UpdateListingStatus(c.Request.Context(), vendordomain.UpdateListingStatusRequest{
		Actor:    actor,
		VendorID: strings.TrimSpace(c.Param("id")),
		Status:   vendordomain.ListingStatus(strings.TrimSpace(req.Status)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": vendor})
}

type markSeenRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) MarkVendorsSeen(c *gin.Context) {
	actor, ok := actorFromGin(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req markSeenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	modified, err := s.vendorSvc.MarkSeen(c.Request.Context(), vendordomain.MarkSeenRequest{
		Actor: actor,
		IDs:   req.IDs,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"modified": modified}})
}

func (s *Server) UnseenVendorCount(c *gin.Context) {
	count, err := s.vendorSvc.UnseenCount(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"count": count}})
}
