package employee

import (
	"time"
)

// Employee carries the three supervisor slots used by the leave approval
// workflow. The slots are weak references: they may be null, may repeat
// the same employee, and are never cascaded on delete.
type Employee struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Code         string `gorm:"type:varchar(20);not null;uniqueIndex"`
	FullName     string `gorm:"type:varchar(120);not null"`
	Email        string `gorm:"type:varchar(120)"`
	DepartmentID *int64 `gorm:"index"`

	AdminSupervisorID       *int64 `gorm:"index:idx_employees_admin_supervisor"`
	TechnicalSupervisorID   *int64 `gorm:"index:idx_employees_technical_supervisor"`
	SecondLevelSupervisorID *int64 `gorm:"index:idx_employees_second_level_supervisor"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SlotRole names which supervisor slot a relationship goes through.
// The admin slot acts at approval level one, the technical and
// second-level slots at level two.
type SlotRole string

const (
	SlotAdmin       SlotRole = "admin"
	SlotTechnical   SlotRole = "technical"
	SlotSecondLevel SlotRole = "second_level"
)

// SupervisorSet is the resolved view of one employee's three slots.
type SupervisorSet struct {
	Admin       *int64
	Technical   *int64
	SecondLevel *int64
}

// IDs returns the distinct supervisor ids in slot order.
func (s SupervisorSet) IDs() []int64 {
	seen := make(map[int64]struct{}, 3)
	ids := make([]int64, 0, 3)
	for _, p := range []*int64{s.Admin, s.Technical, s.SecondLevel} {
		if p == nil {
			continue
		}
		if _, ok := seen[*p]; ok {
			continue
		}
		seen[*p] = struct{}{}
		ids = append(ids, *p)
	}
	return ids
}

// DirectReports buckets a supervisor's one-level report tree by slot.
// Each employee appears in exactly one bucket.
type DirectReports struct {
	Admin       []int64
	Technical   []int64
	SecondLevel []int64
}

// Contact is the address book entry the notification dispatcher works
// with. Email may be empty or malformed; callers validate before use.
type Contact struct {
	EmployeeID int64
	Code       string
	Name       string
	Email      string
}
