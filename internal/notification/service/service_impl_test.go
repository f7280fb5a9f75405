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
	"github.com/imigpt/foodzippy-backend/internal/notification/domain"
	vendordomain "github.com/imigpt/foodzippy-backend/internal/vendors/domain"
)

func newTestService(t *testing.T) (*Service, *gorm.DB, *snowflake.Node, *clock.FakeClock) {
	t.Helper()

	dsn := fmt.Sprintf("file:notifysvc_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Notification{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fakeClock := clock.NewFakeClock(time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC))

	svc := &Service{
		db:    db,
		log:   zaptest.NewLogger(t),
		genID: node,
		clock: fakeClock,
	}
	return svc, db, node, fakeClock
}

func TestNotifyStatusChangeStoresAdminNotification(t *testing.T) {
	svc, db, node, _ := newTestService(t)
	ctx := context.Background()

	next := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	svc.NotifyStatusChange(ctx, domain.StatusChangeEvent{
		VendorID:         node.Generate().String(),
		VendorName:       "Spice Garden",
		ActorName:        "Field Agent",
		ActorRole:        string(authdomain.RoleAgent),
		NewStatus:        vendordomain.StatusFollowUpSecondScheduled,
		NextFollowUpDate: &next,
	})

	var stored []domain.Notification
	require.NoError(t, db.Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, string(authdomain.RoleAdmin), stored[0].RecipientRole)
	assert.Equal(t, domain.KindStatusChange, stored[0].Kind)
	assert.Equal(t, "Second follow-up scheduled", stored[0].Title)
	assert.Contains(t, stored[0].Body, "Spice Garden")
	assert.Contains(t, stored[0].Body, "2026-03-20")
	assert.False(t, stored[0].IsRead)
}

func TestNotificationScoping(t *testing.T) {
	svc, _, node, _ := newTestService(t)
	ctx := context.Background()

	agentID := node.Generate()
	otherID := node.Generate()
	admin := authdomain.Actor{ID: node.Generate(), Role: authdomain.RoleAdmin}
	agent := authdomain.Actor{ID: agentID, Role: authdomain.RoleAgent}
	other := authdomain.Actor{ID: otherID, Role: authdomain.RoleAgent}

	svc.NotifyVendorRegistered(ctx, domain.VendorRegisteredEvent{
		VendorID:   node.Generate().String(),
		VendorName: "Spice Garden",
		AgentID:    agentID.String(),
		AgentName:  "Field Agent",
	})
	svc.NotifyPaymentsSettled(ctx, domain.PaymentsSettledEvent{
		AgentID: agentID.String(),
		Count:   3,
		PaidBy:  "Admin",
	})

	adminCount, err := svc.UnreadCount(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), adminCount)

	agentCount, err := svc.UnreadCount(ctx, agent)
	require.NoError(t, err)
	assert.Equal(t, int64(1), agentCount)

	otherCount, err := svc.UnreadCount(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, int64(0), otherCount)

	resp, err := svc.List(ctx, domain.ListNotificationRequest{Actor: agent})
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, domain.KindPaymentsSettled, resp.Notifications[0].Kind)
}

func TestMarkReadAndClear(t *testing.T) {
	svc, _, node, _ := newTestService(t)
	ctx := context.Background()
	admin := authdomain.Actor{ID: node.Generate(), Role: authdomain.RoleAdmin}

	svc.NotifyVendorRegistered(ctx, domain.VendorRegisteredEvent{
		VendorID:   node.Generate().String(),
		VendorName: "Spice Garden",
		AgentName:  "Field Agent",
	})
	svc.NotifyVendorRegistered(ctx, domain.VendorRegisteredEvent{
		VendorID:   node.Generate().String(),
		VendorName: "Dosa Corner",
		AgentName:  "Field Agent",
	})

	resp, err := svc.List(ctx, domain.ListNotificationRequest{Actor: admin})
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 2)

	require.NoError(t, svc.MarkRead(ctx, admin, resp.Notifications[0].ID.String()))

	count, err := svc.UnreadCount(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	removed, err := svc.ClearRead(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	modified, err := svc.MarkAllRead(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), modified)
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	svc, _, node, _ := newTestService(t)
	ctx := context.Background()

	agentID := node.Generate()
	other := authdomain.Actor{ID: node.Generate(), Role: authdomain.RoleAgent}

	svc.NotifyPaymentsSettled(ctx, domain.PaymentsSettledEvent{
		AgentID: agentID.String(),
		Count:   1,
		PaidBy:  "Admin",
	})

	agent := authdomain.Actor{ID: agentID, Role: authdomain.RoleAgent}
	resp, err := svc.List(ctx, domain.ListNotificationRequest{Actor: agent})
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 1)

	err = svc.MarkRead(ctx, other, resp.Notifications[0].ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
