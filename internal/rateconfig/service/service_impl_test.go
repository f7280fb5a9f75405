package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/imigpt/foodzippy-backend/internal/clock"
	"github.com/imigpt/foodzippy-backend/internal/rateconfig/domain"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:ratesvc_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.PaymentRate{}))

	svc := &Service{
		db:    db,
		log:   zaptest.NewLogger(t),
		clock: clock.NewFakeClock(time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)),
	}
	return svc, db
}

func TestGetRatesSeedsDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	rates, err := svc.GetRates(context.Background())
	require.NoError(t, err)
	require.Len(t, rates, 4)

	byCategory := map[domain.Category]domain.PaymentRate{}
	for _, rate := range rates {
		byCategory[rate.Category] = rate
	}
	assert.Equal(t, int64(70), byCategory[domain.CategoryA].Visit)
	assert.Equal(t, int64(700), byCategory[domain.CategoryA].Onboarding)
	assert.Equal(t, int64(50), byCategory[domain.CategoryB].FollowUp)
	assert.Equal(t, int64(350), byCategory[domain.CategoryC].Onboarding)
	assert.Equal(t, int64(20), byCategory[domain.CategoryD].Visit)
}

func TestGetRatesKeepsExistingOverrides(t *testing.T) {
	svc, db := newTestService(t)

	require.NoError(t, db.Create(&domain.PaymentRate{
		Category:   domain.CategoryA,
		Visit:      90,
		FollowUp:   90,
		Onboarding: 900,
		UpdatedAt:  time.Now().UTC(),
	}).Error)

	rates, err := svc.GetRates(context.Background())
	require.NoError(t, err)
	require.Len(t, rates, 4)

	rate, err := svc.GetCategory(context.Background(), domain.CategoryA)
	require.NoError(t, err)
	assert.Equal(t, int64(90), rate.Visit)
	assert.Equal(t, int64(900), rate.Onboarding)
}

func TestUpdateCategoryPartialUpdate(t *testing.T) {
	svc, _ := newTestService(t)

	visit := int64(80)
	updated, err := svc.UpdateCategory(context.Background(), domain.UpdateRateRequest{
		Category: domain.CategoryB,
		Visit:    &visit,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(80), updated.Visit)
	assert.Equal(t, int64(50), updated.FollowUp)
	assert.Equal(t, int64(500), updated.Onboarding)
}

func TestUpdateCategoryValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateCategory(context.Background(), domain.UpdateRateRequest{Category: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	bad := int64(-5)
	_, err = svc.UpdateCategory(context.Background(), domain.UpdateRateRequest{
		Category: domain.CategoryA,
		Visit:    &bad,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRate)
}
