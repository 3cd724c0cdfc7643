package leave

import (
	"time"

	"leavedesk/internal/employee"
)

// Status is the closed set of leave application states. It is a named
// type so a raw unmapped string can never masquerade as a status.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusL1Approved Status = "L1_APPROVED"
	StatusL2Approved Status = "L2_APPROVED"
	StatusRejected   Status = "REJECTED"
	StatusCancelled  Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusL1Approved, StatusL2Approved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further approval transition is legal
// without an explicit reset.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusCancelled
}

// Open reports whether the application still participates in the
// approval workflow.
func (s Status) Open() bool {
	return s == StatusPending || s == StatusL1Approved || s == StatusL2Approved
}

// Label is the single display mapping for every screen that renders a
// status.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusL1Approved:
		return "Approved (Level 1)"
	case StatusL2Approved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	case StatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// canTransition owns the legal transition table. Pending as a target is
// only reachable through the administrative reset, which is unrestricted
// by prior state.
func canTransition(from, to Status) bool {
	switch to {
	case StatusL1Approved:
		return from == StatusPending
	case StatusL2Approved:
		// skip-level approval from Pending is allowed on purpose
		return from == StatusPending || from == StatusL1Approved
	case StatusRejected, StatusCancelled:
		return from.Open()
	case StatusPending:
		return true
	default:
		return false
	}
}

// LeaveApplication is created once by the applicant and afterwards only
// mutated through the transition operations. The approval record lives
// on the same row; Version guards every transition against a concurrent
// writer.
type LeaveApplication struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	EmployeeID  int64     `gorm:"not null;index"`
	LeaveTypeID int64     `gorm:"not null"`
	StartDate   time.Time `gorm:"type:date;not null"`
	EndDate     time.Time `gorm:"type:date;not null"`
	TotalDays   float64   `gorm:"type:numeric(5,1);not null"`
	Reason      string    `gorm:"type:text"`
	Status      Status    `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	AppliedAt   time.Time `gorm:"not null"`

	L1ApprovedBy    *int64
	L1ApprovedAt    *time.Time
	L2ApprovedBy    *int64
	L2ApprovedAt    *time.Time
	RejectedBy      *int64
	RejectedAt      *time.Time
	RejectionReason *string `gorm:"type:text"`
	CancelledAt     *time.Time

	Version   int64 `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Employee *employee.Employee `gorm:"foreignKey:EmployeeID"`
}

// clearTerminalFields drops any rejection/cancellation record, used when
// an approval overwrites stale terminal data or on reset.
func (l *LeaveApplication) clearTerminalFields() {
	l.RejectedBy = nil
	l.RejectedAt = nil
	l.RejectionReason = nil
	l.CancelledAt = nil
}
