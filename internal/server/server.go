package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/imigpt/foodzippy-backend/internal/audit"
	auditdomain "github.com/imigpt/foodzippy-backend/internal/audit/domain"
	"github.com/imigpt/foodzippy-backend/internal/auth"
	authdomain "github.com/imigpt/foodzippy-backend/internal/auth/domain"
	"github.com/imigpt/foodzippy-backend/internal/config"
	"github.com/imigpt/foodzippy-backend/internal/followup"
	followupdomain "github.com/imigpt/foodzippy-backend/internal/followup/domain"
	"github.com/imigpt/foodzippy-backend/internal/notification"
	notificationdomain "github.com/imigpt/foodzippy-backend/internal/notification/domain"
	"github.com/imigpt/foodzippy-backend/internal/observability"
	obsmiddleware "github.com/imigpt/foodzippy-backend/internal/observability/logger"
	obsmetrics "github.com/imigpt/foodzippy-backend/internal/observability/metrics"
	obstracing "github.com/imigpt/foodzippy-backend/internal/observability/tracing"
	"github.com/imigpt/foodzippy-backend/internal/payment"
	paymentdomain "github.com/imigpt/foodzippy-backend/internal/payment/domain"
	"github.com/imigpt/foodzippy-backend/internal/providers/pdf"
	"github.com/imigpt/foodzippy-backend/internal/rateconfig"
	ratedomain "github.com/imigpt/foodzippy-backend/internal/rateconfig/domain"
	"github.com/imigpt/foodzippy-backend/internal/ratelimit"
	"github.com/imigpt/foodzippy-backend/internal/vendors"
	vendordomain "github.com/imigpt/foodzippy-backend/internal/vendors/domain"
)

var Module = fx.Module("http.server",
	config.Module,
	fx.Provide(registerGin),
	audit.Module,
	auth.Module,
	rateconfig.Module,
	ratelimit.Module,
	vendors.Module,
	payment.Module,
	followup.Module,
	notification.Module,
	pdf.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine) {
	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	genID           *snowflake.Node
	authsvc         authdomain.Service
	auditSvc        auditdomain.Service
	rateSvc         ratedomain.Service
	vendorSvc       vendordomain.Service
	paymentSvc      paymentdomain.Service
	followupSvc     followupdomain.Service
	notificationSvc notificationdomain.Service
	pdfProvider     pdf.Provider
	obsMetrics      *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	GenID           *snowflake.Node
	Authsvc         authdomain.Service
	AuditSvc        auditdomain.Service
	RateSvc         ratedomain.Service
	VendorSvc       vendordomain.Service
	PaymentSvc      paymentdomain.Service
	FollowupSvc     followupdomain.Service
	NotificationSvc notificationdomain.Service
	PDFProvider     pdf.Provider
	ObsMetrics      *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		authsvc:         p.Authsvc,
		auditSvc:        p.AuditSvc,
		rateSvc:         p.RateSvc,
		vendorSvc:       p.VendorSvc,
		paymentSvc:      p.PaymentSvc,
		followupSvc:     p.FollowupSvc,
		notificationSvc: p.NotificationSvc,
		pdfProvider:     p.PDFProvider,
		obsMetrics:      p.ObsMetrics,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/login", s.Login)
	auth.POST("/register", s.AuthRequired(), s.RequireRole(authdomain.RoleAdmin), s.RegisterUser)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.AuthRequired())

	// -------- Vendors --------
	api.POST("/vendors", s.RequireRole(authdomain.RoleAgent, authdomain.RoleAdmin), s.RegisterVendor)
	api.GET("/vendors", s.ListVendors)
	api.GET("/vendors/unseen-count", s.RequireRole(authdomain.RoleAdmin), s.UnseenVendorCount)
	api.POST("/vendors/mark-seen", s.RequireRole(authdomain.RoleAdmin), s.MarkVendorsSeen)
	api.GET("/vendors/:id", s.GetVendorByID)
	api.GET("/vendors/:id/followups", s.VendorFollowUpHistory)
	api.POST("/vendors/:id/category", s.RequireRole(authdomain.RoleAdmin), s.AssignVendorCategory)
	api.POST("/vendors/:id/visit-status", s.RequireRole(authdomain.RoleAdmin), s.UpdateVisitStatus)
	api.POST("/vendors/:id/outcome", s.RequireRole(authdomain.RoleAgent), s.ReportVisitOutcome)
	api.POST("/vendors/:id/listing-status", s.RequireRole(authdomain.RoleAdmin), s.UpdateListingStatus)

	// -------- Follow-up queue --------
	api.GET("/followups/queue", s.GetFollowUpQueue)

	// -------- Payments --------
	api.GET("/payments", s.RequireRole(authdomain.RoleAdmin), s.ListPayments)
	api.POST("/payments/mark-paid", s.RequireRole(authdomain.RoleAdmin), s.MarkPaymentsPaid)
	api.GET("/payments/by-agent", s.RequireRole(authdomain.RoleAdmin), s.ListPaymentsByAgent)
	api.GET("/payments/agents/:agentId", s.RequireRole(authdomain.RoleAdmin), s.GetAgentPaymentDetails)
	api.GET("/payments/agents/:agentId/receipt", s.RequireRole(authdomain.RoleAdmin), s.DownloadAgentPayoutReceipt)
	api.GET("/payments/earnings", s.RequireRole(authdomain.RoleAgent), s.GetMyEarnings)
	api.PATCH("/payments/:id", s.RequireRole(authdomain.RoleAdmin), s.UpdatePayment)
	api.DELETE("/payments/:id", s.RequireRole(authdomain.RoleAdmin), s.DeletePayment)

	// -------- Payment rates --------
	api.GET("/payment-rates", s.RequireRole(authdomain.RoleAdmin), s.ListPaymentRates)
	api.PATCH("/payment-rates/:category", s.RequireRole(authdomain.RoleAdmin), s.UpdatePaymentRate)

	// -------- Agents --------
	api.GET("/agents", s.RequireRole(authdomain.RoleAdmin), s.ListAgents)

	// -------- Notifications --------
	api.GET("/notifications", s.ListNotifications)
	api.GET("/notifications/unread-count", s.UnreadNotificationCount)
	api.POST("/notifications/mark-all-read", s.MarkAllNotificationsRead)
	api.POST("/notifications/clear-read", s.ClearReadNotifications)
	api.POST("/notifications/:id/read", s.MarkNotificationRead)
	api.DELETE("/notifications/:id", s.DeleteNotification)

	// -------- Audit logs --------
	api.GET("/audit-logs", s.RequireRole(authdomain.RoleAdmin), s.ListAuditLogs)
}
