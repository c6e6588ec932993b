package dv

const (
	StatusDraft       = "draft"
	StatusSubmitted   = "submitted"
	StatusApproved    = "approved"
	StatusDisapproved = "disapproved"
	StatusCancelled   = "cancelled"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusDisapproved, StatusCancelled:
		return true
	}
	return false
}

// AllowedTransition reports whether an edge exists in the intended lifecycle:
// draft -> submitted -> approved|disapproved, any state -> cancelled.
// Only consulted when strict transitions are enabled; the legacy behavior
// allows any overwrite through a generic update.
func AllowedTransition(from, to string) bool {
	if from == to {
		return true
	}
	if to == StatusCancelled {
		return true
	}

	switch from {
	case StatusDraft:
		return to == StatusSubmitted
	case StatusSubmitted:
		return to == StatusApproved || to == StatusDisapproved
	default:
		return false
	}
}

// TransitionAction names the policy action a status change maps to.
func TransitionAction(to string) string {
	switch to {
	case StatusSubmitted:
		return ActionSubmit
	case StatusApproved:
		return ActionApprove
	case StatusDisapproved:
		return ActionDisapprove
	case StatusCancelled:
		return ActionCancel
	default:
		return ActionRevert
	}
}

const (
	ActionSubmit     = "submit"
	ActionApprove    = "approve"
	ActionDisapprove = "disapprove"
	ActionCancel     = "cancel"
	ActionRevert     = "revert"
)
