package domain

import (
	"testing"

	ratedomain "github.com/imigpt/foodzippy-backend/internal/rateconfig/domain"
	vendordomain "github.com/imigpt/foodzippy-backend/internal/vendors/domain"
	"github.com/stretchr/testify/assert"
)

func rateTableA() ratedomain.PaymentRate {
	return ratedomain.PaymentRate{Category: ratedomain.CategoryA, Visit: 70, FollowUp: 70, Onboarding: 700}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name        string
		rates       ratedomain.PaymentRate
		status      vendordomain.VisitStatus
		alreadyPaid int64
		wantAmount  int64
		wantType    PaymentType
	}{
		{
			name:       "onboarded on first visit pays full onboarding",
			rates:      rateTableA(),
			status:     vendordomain.StatusVisitedOnboarded,
			wantAmount: 700,
			wantType:   PaymentTypeOnboarding,
		},
		{
			name:       "rejected on first visit pays the visit rate",
			rates:      rateTableA(),
			status:     vendordomain.StatusVisitedRejected,
			wantAmount: 70,
			wantType:   PaymentTypeVisit,
		},
		{
			name:       "follow-up scheduled pays visit plus follow-up",
			rates:      rateTableA(),
			status:     vendordomain.StatusVisitedFollowUpScheduled,
			wantAmount: 140,
			wantType:   PaymentTypeVisitFollowUp,
		},
		{
			name:        "onboarded after follow-up pays the balance",
			rates:       rateTableA(),
			status:      vendordomain.StatusFollowUpOnboarded,
			alreadyPaid: 140,
			wantAmount:  560,
			wantType:    PaymentTypeBalance,
		},
		{
			name:        "onboarded after second follow-up pays the balance",
			rates:       rateTableA(),
			status:      vendordomain.StatusSecondFollowUpOnboarded,
			alreadyPaid: 140,
			wantAmount:  560,
			wantType:    PaymentTypeBalance,
		},
		{
			name:        "rejected after follow-up pays nothing",
			rates:       rateTableA(),
			status:      vendordomain.StatusFollowUpRejected,
			alreadyPaid: 140,
			wantAmount:  0,
			wantType:    PaymentTypeNone,
		},
		{
			name:        "second follow-up scheduled pays nothing",
			rates:       rateTableA(),
			status:      vendordomain.StatusFollowUpSecondScheduled,
			alreadyPaid: 140,
			wantAmount:  0,
			wantType:    PaymentTypeNone,
		},
		{
			name:        "rejected after second follow-up pays nothing",
			rates:       rateTableA(),
			status:      vendordomain.StatusSecondFollowUpRejected,
			alreadyPaid: 140,
			wantAmount:  0,
			wantType:    PaymentTypeNone,
		},
		{
			name:       "pending visit pays nothing",
			rates:      rateTableA(),
			status:     vendordomain.StatusPendingVisit,
			wantAmount: 0,
			wantType:   PaymentTypeNone,
		},
		{
			name:        "overpaid vendor clamps to zero",
			rates:       rateTableA(),
			status:      vendordomain.StatusVisitedOnboarded,
			alreadyPaid: 900,
			wantAmount:  0,
			wantType:    PaymentTypeOnboarding,
		},
		{
			name:       "category D rejected on first visit",
			rates:      ratedomain.PaymentRate{Category: ratedomain.CategoryD, Visit: 20, FollowUp: 20, Onboarding: 200},
			status:     vendordomain.StatusVisitedRejected,
			wantAmount: 20,
			wantType:   PaymentTypeVisit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, paymentType := Compute(tt.rates, tt.status, tt.alreadyPaid)
			assert.Equal(t, tt.wantAmount, amount)
			assert.Equal(t, tt.wantType, paymentType)
		})
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	rates := rateTableA()
	a1, t1 := Compute(rates, vendordomain.StatusVisitedFollowUpScheduled, 0)
	a2, t2 := Compute(rates, vendordomain.StatusVisitedFollowUpScheduled, 0)
	assert.Equal(t, a1, a2)
	assert.Equal(t, t1, t2)
	assert.Equal(t, rateTableA(), rates)
}

func TestComputeNeverNegative(t *testing.T) {
	rates := rateTableA()
	for _, paid := range []int64{700, 701, 10000} {
		amount, _ := Compute(rates, vendordomain.StatusVisitedOnboarded, paid)
		assert.GreaterOrEqual(t, amount, int64(0))
	}
}
