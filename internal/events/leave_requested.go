package events

import "time"

const LeaveRequestedTopic = "hr.leave.application.requested.v1"

type LeaveRequestedEvent struct {
	EventType     string    `json:"event_type"`
	ApplicationID int64     `json:"application_id"`
	EmployeeID    int64     `json:"employee_id"`
	LeaveTypeID   int64     `json:"leave_type_id"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	TotalDays     float64   `json:"total_days"`
	OccurredAt    time.Time `json:"occurred_at"`
}
