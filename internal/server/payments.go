package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	paymentdomain "github.com/imigpt/foodzippy-backend/internal/payment/domain"
	"github.com/imigpt/foodzippy-backend/internal/providers/pdf"
	"github.com/imigpt/foodzippy-backend/pkg/db/pagination"
)

func (s *Server) ListPayments(c *gin.Context) {
	var query struct {
		pagination.Pagination
		AgentID     string `form:"agent_id"`
		VendorID    string `form:"vendor_id"`
		Status      string `form:"status"`
		PaymentType string `form:"payment_type"`
		CreatedFrom string `form:"created_from"`
		CreatedTo   string `form:"created_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	createdFrom, err := parseOptionalTime(query.CreatedFrom, false)
	if err != nil {
		AbortWithError(c, newValidationError("created_from", "invalid_created_from", "invalid created_from"))
		return
	}
	createdTo, err := parseOptionalTime(query.CreatedTo, true)
	if err != nil {
		AbortWithError(c, newValidationError("created_to", "invalid_created_to", "invalid created_to"))
		return
	}

	resp, err := s.paymentSvc.List(c.Request.Context(), paymentdomain.ListPaymentRequest{
		PageToken:   query.PageToken,
		PageSize:    int32(query.PageSize),
		AgentID:     strings.TrimSpace(query.AgentID),
		VendorID:    strings.TrimSpace(query.VendorID),
		Status:      strings.TrimSpace(query.Status),
		PaymentType: strings.TrimSpace(query.PaymentType),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type markPaidRequest struct {
	PaymentIDs []string `json:"payment_ids"`
	AgentID    string   `json:"agent_id"`
	Remarks    string   `json:"remarks"`
}

func (s *Server) MarkPaymentsPaid(c *gin.Context) {
	actor, ok := actorFromGin(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req markPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	modified, err := s.paymentSvc.MarkAsPaid(c.Request.Context(), paymentdomain.MarkAsPaidRequest{
		Actor:      actor,
		PaymentIDs: req.PaymentIDs,
		AgentID:    strings.TrimSpace(req.AgentID),
		Remarks:    strings.TrimSpace(req.Remarks),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"modified": modified}})
}

func (s *Server) ListPaymentsByAgent(c *gin.Context) {
	summaries, err := s.paymentSvc.ListByAgent(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"agents": summaries}})
}

func (s *Server) GetAgentPaymentDetails(c *gin.Context) {
	details, err := s.paymentSvc.AgentDetails(c.Request.Context(), strings.TrimSpace(c.Param("agentId")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": details})
}

func (s *Server) GetMyEarnings(c *gin.Context) {
	actor, ok := actorFromGin(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	earnings, err := s.paymentSvc.AgentEarnings(c.Request.Context(), actor.ID.String())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": earnings})
}

type updatePaymentRequest struct {
	Amount  *int64  `json:"amount"`
	Status  *string `json:"status"`
	Remarks *string `json:"remarks"`
}

func (s *Server) UpdatePayment(c *gin.Context) {
	actor, ok := actorFromGin(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req updatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var status *paymentdomain.PaymentStatus
	if req.Status != nil {
		parsed := paymentdomain.PaymentStatus(strings.TrimSpace(*req.Status))
		status = &parsed
	}

	payment, err := s.paymentSvc.Update(c.Request.Context(), paymentdomain.UpdatePaymentRequest{
		Actor:   actor,
		ID:      strings.TrimSpace(c.Param("id")),
		Amount:  req.Amount,
		Status:  status,
		Remarks: req.Remarks,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": payment})
}

func (s *Server) DeletePayment(c *gin.Context) {
	actor, ok := actorFromGin(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.paymentSvc.Delete(c.Request.Context(), actor, strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "deleted"}})
}

// DownloadAgentPayoutReceipt renders the settled payments of an agent
// for a period as a PDF.
func (s *Server) DownloadAgentPayoutReceipt(c *gin.Context) {
	actor, ok := actorFromGin(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var query struct {
		From string `form:"from"`
		To   string `form:"to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	from, err := parseOptionalTime(query.From, false)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "invalid from"))
		return
	}
	to, err := parseOptionalTime(query.To, true)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "invalid to"))
		return
	}

	agentID := strings.TrimSpace(c.Param("agentId"))
	agent, err := s.authsvc.GetByID(c.Request.Context(), agentID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.paymentSvc.List(c.Request.Context(), paymentdomain.ListPaymentRequest{
		PageSize:    250,
		AgentID:     agentID,
		Status:      string(paymentdomain.PaymentStatusPaid),
		CreatedFrom: from,
		CreatedTo:   to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	data := pdf.PayoutReceiptData{
		AgentName:   agent.Name,
		AgentID:     agentID,
		PeriodFrom:  formatReceiptDate(from),
		PeriodTo:    formatReceiptDate(to),
		GeneratedAt: time.Now().UTC().Format("2006-01-02 15:04"),
		GeneratedBy: actor.Name,
	}
	for _, payment := range resp.Payments {
		paidDate := ""
		if payment.PaidDate != nil {
			paidDate = payment.PaidDate.Format(dateOnlyLayout)
		}
		data.Lines = append(data.Lines, pdf.PayoutLine{
			VendorName:  payment.VendorName,
			PaymentType: string(payment.PaymentType),
			VisitStatus: string(payment.VisitStatus),
			PaidDate:    paidDate,
			Amount:      payment.Amount,
		})
		data.Total += payment.Amount
	}

	reader, err := s.pdfProvider.GeneratePayoutReceipt(c.Request.Context(), data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filename := fmt.Sprintf("payout-%s-%s.pdf", agentID, time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/pdf")
	c.DataFromReader(http.StatusOK, -1, "application/pdf", reader, nil)
}

func formatReceiptDate(value *time.Time) string {
	if value == nil {
		return "-"
	}
	return value.Format(dateOnlyLayout)
}
