package leave

type CreateLeaveRequest struct {
	EmployeeID  int64   `json:"employee_id" binding:"required,gt=0"`
	LeaveTypeID int64   `json:"leave_type_id" binding:"required,gt=0"`
	StartDate   string  `json:"start_date" binding:"required"`
	EndDate     string  `json:"end_date" binding:"required"`
	TotalDays   float64 `json:"total_days"`
	Reason      string  `json:"reason"`
}

type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type LeaveResponse struct {
	ID           int64   `json:"id"`
	EmployeeID   int64   `json:"employee_id"`
	EmployeeName string  `json:"employee_name,omitempty"`
	EmployeeCode string  `json:"employee_code,omitempty"`
	LeaveTypeID  int64   `json:"leave_type_id"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	TotalDays    float64 `json:"total_days"`
	Reason       string  `json:"reason,omitempty"`
	Status       string  `json:"status"`
	StatusLabel  string  `json:"status_label"`
	AppliedAt    string  `json:"applied_at"`

	L1ApprovedBy    *int64  `json:"l1_approved_by,omitempty"`
	L1ApprovedAt    *string `json:"l1_approved_at,omitempty"`
	L2ApprovedBy    *int64  `json:"l2_approved_by,omitempty"`
	L2ApprovedAt    *string `json:"l2_approved_at,omitempty"`
	RejectedBy      *int64  `json:"rejected_by,omitempty"`
	RejectedAt      *string `json:"rejected_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	CancelledAt     *string `json:"cancelled_at,omitempty"`

	Version int64 `json:"version"`
}

type LeaveTypeResponse struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	MaxDaysPerYear float64 `json:"max_days_per_year"`
}

type PendingCountResponse struct {
	SupervisorID int64 `json:"supervisor_id"`
	PendingCount int   `json:"pending_count"`
}
