package leave

import (
	"leavedesk/internal/employee"
)

// Verdict is the answer to "does this supervisor, in this slot role,
// still owe an action on this application".
type Verdict int

const (
	// VerdictPending means the supervisor has not acted yet.
	VerdictPending Verdict = iota
	// VerdictActed means this supervisor already recorded the approval
	// their slot is responsible for.
	VerdictActed
	// VerdictMoot means no action can be owed: the application is
	// terminal or the slot role is not part of the workflow.
	VerdictMoot
)

func (v Verdict) String() string {
	switch v {
	case VerdictPending:
		return "pending"
	case VerdictActed:
		return "acted"
	case VerdictMoot:
		return "moot"
	default:
		return "unknown"
	}
}

// EvaluatePending decides whether the given supervisor still owes an
// action on the application. The check is role-scoped, not
// status-scoped: the admin slot is only ever measured against the level
// one record, the technical and second-level slots only against the
// level two record, regardless of overall status.
//
// Pure function over the entity; callers that only have ids load the
// row first.
func EvaluatePending(app *LeaveApplication, supervisorID int64, role employee.SlotRole) Verdict {
	if app.Status.Terminal() {
		return VerdictMoot
	}

	switch role {
	case employee.SlotAdmin:
		if app.L1ApprovedBy != nil && *app.L1ApprovedBy == supervisorID {
			return VerdictActed
		}
		return VerdictPending
	case employee.SlotTechnical, employee.SlotSecondLevel:
		if app.L2ApprovedBy != nil && *app.L2ApprovedBy == supervisorID {
			return VerdictActed
		}
		return VerdictPending
	default:
		return VerdictMoot
	}
}
