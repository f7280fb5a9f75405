package domain

type VisitStatus string

const (
	StatusPendingVisit             VisitStatus = "pending-visit"
	StatusVisitedOnboarded         VisitStatus = "visited-onboarded"
	StatusVisitedRejected          VisitStatus = "visited-rejected"
	StatusVisitedFollowUpScheduled VisitStatus = "visited-followup-scheduled"
	StatusFollowUpOnboarded        VisitStatus = "followup-onboarded"
	StatusFollowUpRejected         VisitStatus = "followup-rejected"
	StatusFollowUpSecondScheduled  VisitStatus = "followup-2nd-scheduled"
	StatusSecondFollowUpOnboarded  VisitStatus = "2nd-followup-onboarded"
	StatusSecondFollowUpRejected   VisitStatus = "2nd-followup-rejected"
)

// transitions holds the reachable statuses per current status. Terminal
// statuses have no entry.
var transitions = map[VisitStatus][]VisitStatus{
	StatusPendingVisit: {
		StatusVisitedOnboarded,
		StatusVisitedRejected,
		StatusVisitedFollowUpScheduled,
	},
	StatusVisitedFollowUpScheduled: {
		StatusFollowUpOnboarded,
		StatusFollowUpRejected,
		StatusFollowUpSecondScheduled,
	},
	StatusFollowUpSecondScheduled: {
		StatusSecondFollowUpOnboarded,
		StatusSecondFollowUpRejected,
	},
}

func (s VisitStatus) Valid() bool {
	switch s {
	case StatusPendingVisit,
		StatusVisitedOnboarded,
		StatusVisitedRejected,
		StatusVisitedFollowUpScheduled,
		StatusFollowUpOnboarded,
		StatusFollowUpRejected,
		StatusFollowUpSecondScheduled,
		StatusSecondFollowUpOnboarded,
		StatusSecondFollowUpRejected:
		return true
	}
	return false
}

// IsTerminal reports whether the status ends the onboarding funnel. A
// terminal status also completes the vendor's payment cycle.
func (s VisitStatus) IsTerminal() bool {
	switch s {
	case StatusVisitedOnboarded,
		StatusVisitedRejected,
		StatusFollowUpOnboarded,
		StatusFollowUpRejected,
		StatusSecondFollowUpOnboarded,
		StatusSecondFollowUpRejected:
		return true
	}
	return false
}

func CanTransition(from, to VisitStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Outcome string

const (
	OutcomeOnboarded      Outcome = "onboarded"
	OutcomeRejected       Outcome = "rejected"
	OutcomeSecondFollowUp Outcome = "2nd-followup"
)

func (o Outcome) Valid() bool {
	switch o {
	case OutcomeOnboarded, OutcomeRejected, OutcomeSecondFollowUp:
		return true
	}
	return false
}

// DeriveStatus maps an agent-reported outcome onto the next visit status
// given the vendor's current status. The second follow-up outcome is only
// reachable from the first scheduled status.
func DeriveStatus(current VisitStatus, outcome Outcome) (VisitStatus, bool) {
	switch outcome {
	case OutcomeOnboarded:
		if current == StatusVisitedFollowUpScheduled {
			return StatusFollowUpOnboarded, true
		}
		if current == StatusFollowUpSecondScheduled {
			return StatusSecondFollowUpOnboarded, true
		}
	case OutcomeRejected:
		if current == StatusVisitedFollowUpScheduled {
			return StatusFollowUpRejected, true
		}
		if current == StatusFollowUpSecondScheduled {
			return StatusSecondFollowUpRejected, true
		}
	case OutcomeSecondFollowUp:
		if current == StatusVisitedFollowUpScheduled {
			return StatusFollowUpSecondScheduled, true
		}
	}
	return current, false
}
