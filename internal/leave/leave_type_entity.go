package leave

import "time"

// LeaveType is a lookup record. MaxDaysPerYear is display-only; balance
// accrual is not computed here.
type LeaveType struct {
	ID             int64   `gorm:"primaryKey;autoIncrement"`
	Name           string  `gorm:"type:varchar(60);not null;uniqueIndex"`
	MaxDaysPerYear float64 `gorm:"type:numeric(5,1);not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
