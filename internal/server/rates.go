package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	ratedomain "github.com/imigpt/foodzippy-backend/internal/rateconfig/domain"
)

func (s *Server) ListPaymentRates(c *gin.Context) {
	rates, err := s.rateSvc.GetRates(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"rates": rates}})
}

type updateRateRequest struct {
	Visit      *int64 `json:"visit"`
	FollowUp   *int64 `json:"followup"`
	Onboarding *int64 `json:"onboarding"`
}

func (s *Server) UpdatePaymentRate(c *gin.Context) {
	var req updateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	rate, err := s.rateSvc.UpdateCategory(c.Request.Context(), ratedomain.UpdateRateRequest{
		Category:   ratedomain.Category(strings.TrimSpace(c.Param("category"))),
		Visit:      req.Visit,
		FollowUp:   req.FollowUp,
		Onboarding: req.Onboarding,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rate})
}
