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
	authrepo "github.com/imigpt/foodzippy-backend/internal/auth/repository"
	authservice "github.com/imigpt/foodzippy-backend/internal/auth/service"
	"github.com/imigpt/foodzippy-backend/internal/clock"
	"github.com/imigpt/foodzippy-backend/internal/config"
	"github.com/imigpt/foodzippy-backend/internal/payment/domain"
	"github.com/imigpt/foodzippy-backend/internal/payment/repository"
	ratedomain "github.com/imigpt/foodzippy-backend/internal/rateconfig/domain"
	vendordomain "github.com/imigpt/foodzippy-backend/internal/vendors/domain"
)

func newTestService(t *testing.T) (*Service, *gorm.DB, *snowflake.Node, *clock.FakeClock) {
	t.Helper()

	dsn := fmt.Sprintf("file:paymentsvc_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.Payment{},
		&authdomain.User{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fakeClock := clock.NewFakeClock(time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC))
	log := zaptest.NewLogger(t)

	authSvc := authservice.New(authservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Cfg:   config.Config{AuthJWTSecret: "test-secret", AuthTokenTTLMin: 60},
		Clock: fakeClock,
		Repo:  authrepo.Provide(),
	})

	svc := &Service{
		db:      db,
		log:     log,
		clock:   fakeClock,
		repo:    repository.Provide(),
		authSvc: authSvc,
	}
	return svc, db, node, fakeClock
}

func seedPayment(t *testing.T, db *gorm.DB, node *snowflake.Node, agentID snowflake.ID, amount int64, status domain.PaymentStatus, createdAt time.Time) domain.Payment {
	t.Helper()

	payment := domain.Payment{
		ID:          node.Generate(),
		VendorID:    node.Generate(),
		VendorName:  "Spice Garden",
		AgentID:     agentID,
		AgentName:   "Field Agent",
		Category:    ratedomain.CategoryA,
		PaymentType: domain.PaymentTypeVisit,
		Amount:      amount,
		VisitStatus: vendordomain.StatusVisitedRejected,
		Status:      status,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	if status == domain.PaymentStatusPaid {
		paid := createdAt
		payment.PaidDate = &paid
	}
	require.NoError(t, db.Create(&payment).Error)
	return payment
}

func TestMarkAsPaidByIDsOnlySettlesPending(t *testing.T) {
	svc, db, node, fakeClock := newTestService(t)
	admin := authdomain.Actor{ID: node.Generate(), Name: "Admin", Role: authdomain.RoleAdmin}
	agentID := node.Generate()

	created := fakeClock.Now().Add(-24 * time.Hour)
	pending := seedPayment(t, db, node, agentID, 70, domain.PaymentStatusPending, created)
	paid := seedPayment(t, db, node, agentID, 50, domain.PaymentStatusPaid, created)

	modified, err := svc.MarkAsPaid(context.Background(), domain.MarkAsPaidRequest{
		Actor:      admin,
		PaymentIDs: []string{pending.ID.String(), paid.ID.String()},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), modified)

	var reloaded domain.Payment
	require.NoError(t, db.First(&reloaded, "id = ?", pending.ID).Error)
	assert.Equal(t, domain.PaymentStatusPaid, reloaded.Status)
	require.NotNil(t, reloaded.PaidDate)
	assert.True(t, reloaded.PaidDate.Equal(fakeClock.Now()))
	require.NotNil(t, reloaded.PaidByID)
	assert.Equal(t, admin.ID, *reloaded.PaidByID)
}

func TestMarkAsPaidByAgentSettlesAllPending(t *testing.T) {
	svc, db, node, fakeClock := newTestService(t)
	admin := authdomain.Actor{ID: node.Generate(), Name: "Admin", Role: authdomain.RoleAdmin}
	agentID := node.Generate()
	otherAgent := node.Generate()

	created := fakeClock.Now().Add(-time.Hour)
	seedPayment(t, db, node, agentID, 70, domain.PaymentStatusPending, created)
	seedPayment(t, db, node, agentID, 140, domain.PaymentStatusPending, created)
	seedPayment(t, db, node, otherAgent, 35, domain.PaymentStatusPending, created)

	modified, err := svc.MarkAsPaid(context.Background(), domain.MarkAsPaidRequest{
		Actor:   admin,
		AgentID: agentID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), modified)

	var stillPending int64
	require.NoError(t, db.Model(&domain.Payment{}).
		Where("agent_id = ? AND status = ?", otherAgent, domain.PaymentStatusPending).
		Count(&stillPending).Error)
	assert.Equal(t, int64(1), stillPending)
}

func TestMarkAsPaidRequiresAdmin(t *testing.T) {
	svc, _, node, _ := newTestService(t)
	agent := authdomain.Actor{ID: node.Generate(), Name: "Field Agent", Role: authdomain.RoleAgent}

	_, err := svc.MarkAsPaid(context.Background(), domain.MarkAsPaidRequest{
		Actor:   agent,
		AgentID: node.Generate().String(),
	})
	assert.ErrorIs(t, err, authdomain.ErrForbidden)
}

func TestMarkAsPaidRequiresSelection(t *testing.T) {
	svc, _, node, _ := newTestService(t)
	admin := authdomain.Actor{ID: node.Generate(), Name: "Admin", Role: authdomain.RoleAdmin}

	_, err := svc.MarkAsPaid(context.Background(), domain.MarkAsPaidRequest{Actor: admin})
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
}

func TestAgentEarningsWindows(t *testing.T) {
	svc, db, node, fakeClock := newTestService(t)
	agentID := node.Generate()

	now := fakeClock.Now()
	today := now.Add(-time.Hour)
	thisMonth := now.AddDate(0, 0, -5)
	lastYear := now.AddDate(-1, 0, 0)

	seedPayment(t, db, node, agentID, 70, domain.PaymentStatusPending, today)
	seedPayment(t, db, node, agentID, 140, domain.PaymentStatusPaid, thisMonth)
	seedPayment(t, db, node, agentID, 500, domain.PaymentStatusPaid, lastYear)

	earnings, err := svc.AgentEarnings(context.Background(), agentID.String())
	require.NoError(t, err)

	assert.Equal(t, int64(70), earnings.Today.Pending)
	assert.Equal(t, int64(0), earnings.Today.Paid)
	assert.Equal(t, int64(70), earnings.Month.Pending)
	assert.Equal(t, int64(140), earnings.Month.Paid)
	assert.Equal(t, int64(70), earnings.AllTime.Pending)
	assert.Equal(t, int64(640), earnings.AllTime.Paid)
}

func TestListFiltersAndStats(t *testing.T) {
	svc, db, node, fakeClock := newTestService(t)
	agentID := node.Generate()
	otherAgent := node.Generate()

	created := fakeClock.Now().Add(-time.Hour)
	seedPayment(t, db, node, agentID, 70, domain.PaymentStatusPending, created)
	seedPayment(t, db, node, agentID, 140, domain.PaymentStatusPaid, created)
	seedPayment(t, db, node, otherAgent, 35, domain.PaymentStatusPending, created)

	resp, err := svc.List(context.Background(), domain.ListPaymentRequest{
		AgentID: agentID.String(),
	})
	require.NoError(t, err)

	assert.Len(t, resp.Payments, 2)
	assert.Equal(t, int64(2), resp.Stats.Count)
	assert.Equal(t, int64(210), resp.Stats.TotalAmount)
	assert.Equal(t, int64(70), resp.Stats.PendingAmount)
	assert.Equal(t, int64(140), resp.Stats.PaidAmount)
}

func TestUpdateSettlesAndClearsStamp(t *testing.T) {
	svc, db, node, fakeClock := newTestService(t)
	admin := authdomain.Actor{ID: node.Generate(), Name: "Admin", Role: authdomain.RoleAdmin}
	agentID := node.Generate()

	payment := seedPayment(t, db, node, agentID, 70, domain.PaymentStatusPending, fakeClock.Now().Add(-time.Hour))

	paidStatus := domain.PaymentStatusPaid
	updated, err := svc.Update(context.Background(), domain.UpdatePaymentRequest{
		Actor:  admin,
		ID:     payment.ID.String(),
		Status: &paidStatus,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, updated.Status)
	require.NotNil(t, updated.PaidDate)
	require.NotNil(t, updated.PaidByID)
	assert.Equal(t, admin.ID, *updated.PaidByID)

	pendingStatus := domain.PaymentStatusPending
	updated, err = svc.Update(context.Background(), domain.UpdatePaymentRequest{
		Actor:  admin,
		ID:     payment.ID.String(),
		Status: &pendingStatus,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, updated.Status)
	assert.Nil(t, updated.PaidDate)
	assert.Nil(t, updated.PaidByID)
}

func TestUpdateRejectsNegativeAmount(t *testing.T) {
	svc, db, node, fakeClock := newTestService(t)
	admin := authdomain.Actor{ID: node.Generate(), Name: "Admin", Role: authdomain.RoleAdmin}
	payment := seedPayment(t, db, node, node.Generate(), 70, domain.PaymentStatusPending, fakeClock.Now())

	bad := int64(-10)
	_, err := svc.Update(context.Background(), domain.UpdatePaymentRequest{
		Actor:  admin,
		ID:     payment.ID.String(),
		Amount: &bad,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestDeleteRemovesPayment(t *testing.T) {
	svc, db, node, fakeClock := newTestService(t)
	admin := authdomain.Actor{ID: node.Generate(), Name: "Admin", Role: authdomain.RoleAdmin}
	payment := seedPayment(t, db, node, node.Generate(), 70, domain.PaymentStatusPending, fakeClock.Now())

	require.NoError(t, svc.Delete(context.Background(), admin, payment.ID.String()))

	err := svc.Delete(context.Background(), admin, payment.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
