package events

import "time"

const LeaveStatusChangedTopic = "hr.leave.application.status_changed.v1"

type LeaveStatusChangedEvent struct {
	EventType     string    `json:"event_type"`
	ApplicationID int64     `json:"application_id"`
	EmployeeID    int64     `json:"employee_id"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	ActorID       int64     `json:"actor_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}
