package employee

type CreateEmployeeRequest struct {
	Code                    string `json:"code" binding:"required,max=20"`
	FullName                string `json:"full_name" binding:"required,max=120"`
	Email                   string `json:"email" binding:"omitempty,email"`
	DepartmentID            *int64 `json:"department_id"`
	AdminSupervisorID       *int64 `json:"admin_supervisor_id"`
	TechnicalSupervisorID   *int64 `json:"technical_supervisor_id"`
	SecondLevelSupervisorID *int64 `json:"second_level_supervisor_id"`
}

type UpdateEmployeeRequest struct {
	Code                    string `json:"code" binding:"required,max=20"`
	FullName                string `json:"full_name" binding:"required,max=120"`
	Email                   string `json:"email" binding:"omitempty,email"`
	DepartmentID            *int64 `json:"department_id"`
	AdminSupervisorID       *int64 `json:"admin_supervisor_id"`
	TechnicalSupervisorID   *int64 `json:"technical_supervisor_id"`
	SecondLevelSupervisorID *int64 `json:"second_level_supervisor_id"`
}

type EmployeeResponse struct {
	ID                      int64  `json:"id"`
	Code                    string `json:"code"`
	FullName                string `json:"full_name"`
	Email                   string `json:"email,omitempty"`
	DepartmentID            *int64 `json:"department_id,omitempty"`
	AdminSupervisorID       *int64 `json:"admin_supervisor_id,omitempty"`
	TechnicalSupervisorID   *int64 `json:"technical_supervisor_id,omitempty"`
	SecondLevelSupervisorID *int64 `json:"second_level_supervisor_id,omitempty"`
}

type DirectReportsResponse struct {
	Admin       []int64 `json:"admin_reports"`
	Technical   []int64 `json:"technical_reports"`
	SecondLevel []int64 `json:"second_level_reports"`
}
