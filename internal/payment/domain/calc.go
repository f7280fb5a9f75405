package domain

import (
	ratedomain "github.com/imigpt/foodzippy-backend/internal/rateconfig/domain"
	vendordomain "github.com/imigpt/foodzippy-backend/internal/vendors/domain"
)

// Compute returns the incremental amount owed for moving a vendor to
// newStatus, given the vendor's category rates and the total already
// credited. It is pure: no clock, no storage, and the result is clamped
// at zero so a prior overpayment never produces a refund entry.
func Compute(rates ratedomain.PaymentRate, newStatus vendordomain.VisitStatus, alreadyPaid int64) (int64, PaymentType) {
	var (
		raw         int64
		paymentType PaymentType
	)

	switch newStatus {
	case vendordomain.StatusVisitedOnboarded:
		raw = rates.Onboarding - alreadyPaid
		paymentType = PaymentTypeOnboarding
	case vendordomain.StatusVisitedRejected:
		raw = rates.Visit - alreadyPaid
		paymentType = PaymentTypeVisit
	case vendordomain.StatusVisitedFollowUpScheduled:
		raw = (rates.Visit + rates.FollowUp) - alreadyPaid
		paymentType = PaymentTypeVisitFollowUp
	case vendordomain.StatusFollowUpOnboarded, vendordomain.StatusSecondFollowUpOnboarded:
		raw = rates.Onboarding - alreadyPaid
		paymentType = PaymentTypeBalance
	default:
		return 0, PaymentTypeNone
	}

	if raw < 0 {
		raw = 0
	}
	return raw, paymentType
}
