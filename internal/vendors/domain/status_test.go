package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from VisitStatus
		to   VisitStatus
		want bool
	}{
		{StatusPendingVisit, StatusVisitedOnboarded, true},
		{StatusPendingVisit, StatusVisitedRejected, true},
		{StatusPendingVisit, StatusVisitedFollowUpScheduled, true},
		{StatusPendingVisit, StatusFollowUpOnboarded, false},
		{StatusPendingVisit, StatusSecondFollowUpOnboarded, false},
		{StatusVisitedFollowUpScheduled, StatusFollowUpOnboarded, true},
		{StatusVisitedFollowUpScheduled, StatusFollowUpRejected, true},
		{StatusVisitedFollowUpScheduled, StatusFollowUpSecondScheduled, true},
		{StatusVisitedFollowUpScheduled, StatusVisitedOnboarded, false},
		{StatusFollowUpSecondScheduled, StatusSecondFollowUpOnboarded, true},
		{StatusFollowUpSecondScheduled, StatusSecondFollowUpRejected, true},
		{StatusFollowUpSecondScheduled, StatusFollowUpOnboarded, false},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestTerminalStatusesHaveNoTransitions(t *testing.T) {
	terminal := []VisitStatus{
		StatusVisitedOnboarded,
		StatusVisitedRejected,
		StatusFollowUpOnboarded,
		StatusFollowUpRejected,
		StatusSecondFollowUpOnboarded,
		StatusSecondFollowUpRejected,
	}

	all := []VisitStatus{
		StatusPendingVisit,
		StatusVisitedOnboarded,
		StatusVisitedRejected,
		StatusVisitedFollowUpScheduled,
		StatusFollowUpOnboarded,
		StatusFollowUpRejected,
		StatusFollowUpSecondScheduled,
		StatusSecondFollowUpOnboarded,
		StatusSecondFollowUpRejected,
	}

	for _, from := range terminal {
		assert.True(t, from.IsTerminal())
		for _, to := range all {
			assert.Falsef(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		current VisitStatus
		outcome Outcome
		want    VisitStatus
		ok      bool
	}{
		{StatusVisitedFollowUpScheduled, OutcomeOnboarded, StatusFollowUpOnboarded, true},
		{StatusVisitedFollowUpScheduled, OutcomeRejected, StatusFollowUpRejected, true},
		{StatusVisitedFollowUpScheduled, OutcomeSecondFollowUp, StatusFollowUpSecondScheduled, true},
		{StatusFollowUpSecondScheduled, OutcomeOnboarded, StatusSecondFollowUpOnboarded, true},
		{StatusFollowUpSecondScheduled, OutcomeRejected, StatusSecondFollowUpRejected, true},
		{StatusFollowUpSecondScheduled, OutcomeSecondFollowUp, StatusFollowUpSecondScheduled, false},
		{StatusPendingVisit, OutcomeOnboarded, StatusPendingVisit, false},
		{StatusVisitedOnboarded, OutcomeRejected, StatusVisitedOnboarded, false},
	}

	for _, tt := range tests {
		got, ok := DeriveStatus(tt.current, tt.outcome)
		assert.Equalf(t, tt.ok, ok, "%s + %s", tt.current, tt.outcome)
		assert.Equalf(t, tt.want, got, "%s + %s", tt.current, tt.outcome)
	}
}

func TestOutcomeValid(t *testing.T) {
	assert.True(t, OutcomeOnboarded.Valid())
	assert.True(t, OutcomeRejected.Valid())
	assert.True(t, OutcomeSecondFollowUp.Valid())
	assert.False(t, Outcome("").Valid())
	assert.False(t, Outcome("visited").Valid())
}
