package department

type CreateDepartmentRequest struct {
	Name     string `json:"name" binding:"required,max=80"`
	Location string `json:"location" binding:"max=120"`
}

type UpdateDepartmentRequest struct {
	Name     string `json:"name" binding:"required,max=80"`
	Location string `json:"location" binding:"max=120"`
}

type DepartmentResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}
