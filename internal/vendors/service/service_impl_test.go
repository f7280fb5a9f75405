package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	authdomain "github.com/imigpt/foodzippy-backend/internal/auth/domain"
	"github.com/imigpt/foodzippy-backend/internal/clock"
	paymentdomain "github.com/imigpt/foodzippy-backend/internal/payment/domain"
	paymentrepo "github.com/imigpt/foodzippy-backend/internal/payment/repository"
	ratedomain "github.com/imigpt/foodzippy-backend/internal/rateconfig/domain"
	rateservice "github.com/imigpt/foodzippy-backend/internal/rateconfig/service"
	"github.com/imigpt/foodzippy-backend/internal/vendors/domain"
	"github.com/imigpt/foodzippy-backend/internal/vendors/repository"
)

func newTestService(t *testing.T) (*Service, *gorm.DB, *snowflake.Node, *clock.FakeClock) {
	t.Helper()

	dsn := fmt.Sprintf("file:vendorsvc_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.Vendor{},
		&domain.FollowUpEntry{},
		&paymentdomain.Payment{},
		&ratedomain.PaymentRate{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fakeClock := clock.NewFakeClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	log := zaptest.NewLogger(t)

	rateSvc := rateservice.New(rateservice.Params{
		DB:    db,
		Log:   log,
		Clock: fakeClock,
	})

	svc := &Service{
		db:          db,
		log:         log,
		genID:       node,
		clock:       fakeClock,
		repo:        repository.Provide(),
		paymentRepo: paymentrepo.Provide(),
		rateSvc:     rateSvc,
	}
	return svc, db, node, fakeClock
}

func seedVendor(t *testing.T, db *gorm.DB, node *snowflake.Node, agent authdomain.Actor, category ratedomain.Category, status domain.VisitStatus, alreadyPaid int64) domain.Vendor {
	t.Helper()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	vendor := domain.Vendor{
		ID:               node.Generate(),
		Name:             "Spice Garden",
		Phone:            "9876501234",
		Address:          "12 Market Road",
		VendorType:       "restaurant",
		PaymentCategory:  category,
		VisitStatus:      status,
		RestaurantStatus: domain.ListingPending,
		TotalPaymentDue:  alreadyPaid,
		TotalPaymentPaid: alreadyPaid,
		CreatedByID:      agent.ID,
		CreatedByName:    agent.Name,
		CreatedByRole:    string(agent.Role),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	require.NoError(t, db.Create(&vendor).Error)
	return vendor
}

func newAdmin(node *snowflake.Node) authdomain.Actor {
	return authdomain.Actor{ID: node.Generate(), Name: "Admin", Role: authdomain.RoleAdmin}
}

func newAgent(node *snowflake.Node) authdomain.Actor {
	return authdomain.Actor{ID: node.Generate(), Name: "Field Agent", Role: authdomain.RoleAgent}
}

func TestUpdateVisitStatusSchedulesFollowUp(t *testing.T) {
	svc, db, node, _ := newTestService(t)
	agent := newAgent(node)
	admin := newAdmin(node)
	vendor := seedVendor(t, db, node, agent, ratedomain.CategoryA, domain.StatusPendingVisit, 0)

	followUp := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	result, err := svc.UpdateVisitStatus(context.Background(), domain.UpdateVisitStatusRequest{
		Actor:        admin,
		VendorID:     vendor.ID.String(),
		VisitStatus:  domain.StatusVisitedFollowUpScheduled,
		FollowUpDate: &followUp,
		Remarks:      "owner wants a second meeting",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusVisitedFollowUpScheduled, result.Vendor.VisitStatus)
	assert.Equal(t, int64(140), result.PaymentAmount)
	assert.Equal(t, string(paymentdomain.PaymentTypeVisitFollowUp), result.PaymentType)
	assert.Equal(t, int64(140), result.Vendor.TotalPaymentDue)
	assert.Equal(t, int64(140), result.Vendor.TotalPaymentPaid)
	assert.False(t, result.Vendor.PaymentCompleted)
	require.NotNil(t, result.Vendor.FollowUpDate)
	assert.True(t, result.Vendor.FollowUpDate.Equal(followUp))

	var payments []paymentdomain.Payment
	require.NoError(t, db.Find(&payments).Error)
	require.Len(t, payments, 1)
	assert.Equal(t, vendor.ID, payments[0].VendorID)
	assert.Equal(t, agent.ID, payments[0].AgentID)
	assert.Equal(t, ratedomain.CategoryA, payments[0].Category)
	assert.Equal(t, paymentdomain.PaymentStatusPending, payments[0].Status)
	assert.Equal(t, int64(140), payments[0].Amount)

	var history []domain.FollowUpEntry
	require.NoError(t, db.Where("vendor_id = ?", vendor.ID).Find(&history).Error)
	require.Len(t, history, 1)
	assert.Equal(t, string(domain.StatusVisitedFollowUpScheduled), history[0].Outcome)
	assert.Equal(t, admin.ID, history[0].UpdatedByID)
}

func TestReportOutcomeOnboardedPaysBalance(t *testing.T) {
	svc, db, node, _ := newTestService(t)
	agent := newAgent(node)
	vendor := seedVendor(t, db, node, agent, ratedomain.CategoryA, domain.StatusVisitedFollowUpScheduled, 140)

	result, err := svc.ReportOutcome(context.Background(), domain.ReportOutcomeRequest{
		Actor:    agent,
		VendorID: vendor.ID.String(),
		Outcome:  domain.OutcomeOnboarded,
		Remarks:  "signed up on the spot",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFollowUpOnboarded, result.Vendor.VisitStatus)
	assert.Equal(t, int64(560), result.PaymentAmount)
	assert.Equal(t, string(paymentdomain.PaymentTypeBalance), result.PaymentType)
	assert.Equal(t, int64(700), result.Vendor.TotalPaymentDue)
	assert.Equal(t, int64(700), result.Vendor.TotalPaymentPaid)
	assert.True(t, result.Vendor.PaymentCompleted)
	require.NotNil(t, result.Vendor.LastOutcome)
	assert.Equal(t, string(domain.OutcomeOnboarded), *result.Vendor.LastOutcome)
	assert.NotNil(t, result.Vendor.LastVisitedAt)

	var payments []paymentdomain.Payment
	require.NoError(t, db.Find(&payments).Error)
	require.Len(t, payments, 1)
	assert.Equal(t, paymentdomain.PaymentTypeBalance, payments[0].PaymentType)
	assert.Equal(t, int64(560), payments[0].Amount)
}

func TestUpdateVisitStatusRejectedCategoryD(t *testing.T) {
	svc, db, node, _ := newTestService(t)
	agent := newAgent(node)
	admin := newAdmin(node)
	vendor := seedVendor(t, db, node, agent, ratedomain.CategoryD, domain.StatusPendingVisit, 0)

	result, err := svc.UpdateVisitStatus(context.Background(), domain.UpdateVisitStatusRequest{
		Actor:       admin,
		VendorID:    vendor.ID.String(),
		VisitStatus: domain.StatusVisitedRejected,
		Remarks:     "not interested",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusVisitedRejected, result.Vendor.VisitStatus)
	assert.Equal(t, int64(20), result.PaymentAmount)
	assert.Equal(t, string(paymentdomain.PaymentTypeVisit), result.PaymentType)
	assert.True(t, result.Vendor.PaymentCompleted)

	var count int64
	require.NoError(t, db.Model(&paymentdomain.Payment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestTransitionWithoutCategorySkipsPayment(t *testing.T) {
	svc, db, node, _ := newTestService(t)
	agent := newAgent(node)
	admin := newAdmin(node)
	vendor := seedVendor(t, db, node, agent, "", domain.StatusPendingVisit, 0)

	result, err := svc.UpdateVisitStatus(context.Background(), domain.UpdateVisitStatusRequest{
		Actor:       admin,
		VendorID:    vendor.ID.String(),
		VisitStatus: domain.StatusVisitedOnboarded,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusVisitedOnboarded, result.Vendor.VisitStatus)
	assert.Equal(t, int64(0), result.PaymentAmount)
	assert.Equal(t, string(paymentdomain.PaymentTypeNone), result.PaymentType)
	assert.Equal(t, int64(0), result.Vendor.TotalPaymentDue)
	assert.Equal(t, int64(0), result.Vendor.TotalPaymentPaid)

	var count int64
	require.NoError(t, db.Model(&paymentdomain.Payment{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestUpdateVisitStatusSameStatusIsNoOp(t *testing.T) {
	svc, db, node, _ := newTestService(t)
	agent := newAgent(node)
	admin := newAdmin(node)
	vendor := seedVendor(t, db, node, agent, ratedomain.CategoryA, domain.StatusVisitedFollowUpScheduled, 140)

	result, err := svc.UpdateVisitStatus(context.Background(), domain.UpdateVisitStatusRequest{
		Actor:       admin,
		VendorID:    vendor.ID.String(),
		VisitStatus: domain.StatusVisitedFollowUpScheduled,
		Remarks:     "called ahead",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.PaymentAmount)
	assert.Equal(t, string(paymentdomain.PaymentTypeNone), result.PaymentType)

	var reloaded domain.Vendor
	require.NoError(t, db.First(&reloaded, "id = ?", vendor.ID).Error)
	assert.Equal(t, domain.StatusVisitedFollowUpScheduled, reloaded.VisitStatus)
	assert.Equal(t, "called ahead", reloaded.Remarks)
	assert.Equal(t, int64(140), reloaded.TotalPaymentDue)
	assert.Equal(t, int64(140), reloaded.TotalPaymentPaid)

	var count int64
	require.NoError(t, db.Model(&paymentdomain.Payment{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestUpdateVisitStatusDateOnlyUpdate(t *testing.T) {
	svc, db, node, fakeClock := newTestService(t)
	agent := newAgent(node)
	admin := newAdmin(node)
	vendor := seedVendor(t, db, node, agent, ratedomain.CategoryA, domain.StatusVisitedFollowUpScheduled, 140)

	rescheduled := fakeClock.Now().AddDate(0, 0, 4)
	result, err := svc.UpdateVisitStatus(context.Background(), domain.UpdateVisitStatusRequest{
		Actor:        admin,
		VendorID:     vendor.ID.String(),
		FollowUpDate: &rescheduled,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.PaymentAmount)
	assert.Equal(t, string(paymentdomain.PaymentTypeNone), result.PaymentType)

	var reloaded domain.Vendor
	require.NoError(t, db.First(&reloaded, "id = ?", vendor.ID).Error)
	assert.Equal(t, domain.StatusVisitedFollowUpScheduled, reloaded.VisitStatus)
	require.NotNil(t, reloaded.FollowUpDate)
	assert.True(t, reloaded.FollowUpDate.Equal(rescheduled))
	assert.Equal(t, int64(140), reloaded.TotalPaymentPaid)

	var count int64
	require.NoError(t, db.Model(&paymentdomain.Payment{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestUpdateVisitStatusInvalidTransition(t *testing.T) {
	svc, db, node, _ := newTestService(t)
	agent := newAgent(node)
	admin := newAdmin(node)
	vendor := seedVendor(t, db, node, agent, ratedomain.CategoryA, domain.StatusVisitedRejected, 70)

	_, err := svc.UpdateVisitStatus(context.Background(), domain.UpdateVisitStatusRequest{
		Actor:       admin,
		VendorID:    vendor.ID.String(),
		VisitStatus: domain.StatusVisitedOnboarded,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestReportOutcomeOwnershipEnforced(t *testing.T) {
	svc, db, node, _ := newTestService(t)
	owner := newAgent(node)
	other := newAgent(node)
	vendor := seedVendor(t, db, node, owner, ratedomain.CategoryA, domain.StatusVisitedFollowUpScheduled, 140)

	_, err := svc.ReportOutcome(context.Background(), domain.ReportOutcomeRequest{
		Actor:    other,
		VendorID: vendor.ID.String(),
		Outcome:  domain.OutcomeOnboarded,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	var reloaded domain.Vendor
	require.NoError(t, db.First(&reloaded, "id = ?", vendor.ID).Error)
	assert.Equal(t, domain.StatusVisitedFollowUpScheduled, reloaded.VisitStatus)
	assert.Equal(t, int64(140), reloaded.TotalPaymentPaid)

	var count int64
	require.NoError(t, db.Model(&paymentdomain.Payment{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestReportOutcomeSecondFollowUpRequiresDate(t *testing.T) {
	svc, db, node, _ := newTestService(t)
	agent := newAgent(node)
	vendor := seedVendor(t, db, node, agent, ratedomain.CategoryB, domain.StatusVisitedFollowUpScheduled, 100)

	_, err := svc.ReportOutcome(context.Background(), domain.ReportOutcomeRequest{
		Actor:    agent,
		VendorID: vendor.ID.String(),
		Outcome:  domain.OutcomeSecondFollowUp,
	})
	assert.ErrorIs(t, err, domain.ErrFollowUpDateRequired)
}

func TestReportOutcomeSecondFollowUpSchedules(t *testing.T) {
	svc, db, node, _ := newTestService(t)
	agent := newAgent(node)
	vendor := seedVendor(t, db, node, agent, ratedomain.CategoryB, domain.StatusVisitedFollowUpScheduled, 100)

	next := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	result, err := svc.ReportOutcome(context.Background(), domain.ReportOutcomeRequest{
		Actor:            agent,
		VendorID:         vendor.ID.String(),
		Outcome:          domain.OutcomeSecondFollowUp,
		NextFollowUpDate: &next,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFollowUpSecondScheduled, result.Vendor.VisitStatus)
	assert.Equal(t, int64(0), result.PaymentAmount)
	assert.Equal(t, string(paymentdomain.PaymentTypeNone), result.PaymentType)
	assert.False(t, result.Vendor.PaymentCompleted)
	require.NotNil(t, result.Vendor.SecondFollowUpDate)
	assert.True(t, result.Vendor.SecondFollowUpDate.Equal(next))

	var count int64
	require.NoError(t, db.Model(&paymentdomain.Payment{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestRegisterVendorDefaults(t *testing.T) {
	svc, db, node, _ := newTestService(t)
	agent := newAgent(node)

	vendor, err := svc.Register(context.Background(), domain.RegisterVendorRequest{
		Actor:      agent,
		Name:       "Dosa Corner",
		Phone:      "9876512345",
		Address:    "4 Temple Street",
		VendorType: "street-food",
		FormData:   map[string]any{"cuisine": "south-indian"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPendingVisit, vendor.VisitStatus)
	assert.Equal(t, domain.ListingPending, vendor.RestaurantStatus)
	assert.Equal(t, agent.ID, vendor.CreatedByID)
	assert.False(t, vendor.IsSeenByAdmin)

	var reloaded domain.Vendor
	require.NoError(t, db.First(&reloaded, "id = ?", vendor.ID).Error)
	assert.Equal(t, "Dosa Corner", reloaded.Name)
}

func TestRegisterVendorValidation(t *testing.T) {
	svc, _, node, _ := newTestService(t)
	agent := newAgent(node)

	_, err := svc.Register(context.Background(), domain.RegisterVendorRequest{
		Actor: agent,
		Phone: "9876512345",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Register(context.Background(), domain.RegisterVendorRequest{
		Actor: agent,
		Name:  "Dosa Corner",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPhone)
}

func TestUpdateVisitStatusAssignsCategoryInline(t *testing.T) {
	svc, db, node, _ := newTestService(t)
	agent := newAgent(node)
	admin := newAdmin(node)
	vendor := seedVendor(t, db, node, agent, "", domain.StatusPendingVisit, 0)

	category := ratedomain.CategoryB
	result, err := svc.UpdateVisitStatus(context.Background(), domain.UpdateVisitStatusRequest{
		Actor:       admin,
		VendorID:    vendor.ID.String(),
		VisitStatus: domain.StatusVisitedOnboarded,
		Category:    &category,
	})
	require.NoError(t, err)

	assert.Equal(t, ratedomain.CategoryB, result.Vendor.PaymentCategory)
	assert.Equal(t, int64(500), result.PaymentAmount)
	assert.Equal(t, string(paymentdomain.PaymentTypeOnboarding), result.PaymentType)
}

func TestUpdateVisitStatusRequiresAdmin(t *testing.T) {
	svc, db, node, _ := newTestService(t)
	agent := newAgent(node)
	vendor := seedVendor(t, db, node, agent, ratedomain.CategoryA, domain.StatusPendingVisit, 0)

	_, err := svc.UpdateVisitStatus(context.Background(), domain.UpdateVisitStatusRequest{
		Actor:       agent,
		VendorID:    vendor.ID.String(),
		VisitStatus: domain.StatusVisitedOnboarded,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
