package asset

type CreateAssetRequest struct {
	Tag          string `json:"tag" binding:"required,max=40"`
	SerialNumber string `json:"serial_number" binding:"max=80"`
	ModelName    string `json:"model_name" binding:"required,max=120"`
	VendorName   string `json:"vendor_name" binding:"max=120"`
	Category     string `json:"category" binding:"required,max=60"`
	PurchasedAt  string `json:"purchased_at" binding:"omitempty,datetime=2006-01-02"`
	Notes        string `json:"notes"`
}

type UpdateAssetRequest struct {
	SerialNumber string `json:"serial_number" binding:"max=80"`
	ModelName    string `json:"model_name" binding:"required,max=120"`
	VendorName   string `json:"vendor_name" binding:"max=120"`
	Category     string `json:"category" binding:"required,max=60"`
	PurchasedAt  string `json:"purchased_at" binding:"omitempty,datetime=2006-01-02"`
	Notes        string `json:"notes"`
}

type AssignAssetRequest struct {
	EmployeeID int64 `json:"employee_id" binding:"required,gt=0"`
}

type AssetResponse struct {
	ID                 int64   `json:"id"`
	Tag                string  `json:"tag"`
	SerialNumber       string  `json:"serial_number,omitempty"`
	ModelName          string  `json:"model_name"`
	VendorName         string  `json:"vendor_name,omitempty"`
	Category           string  `json:"category"`
	AssignedEmployeeID *int64  `json:"assigned_employee_id,omitempty"`
	AssignedEmployee   string  `json:"assigned_employee,omitempty"`
	PurchasedAt        *string `json:"purchased_at,omitempty"`
	Notes              string  `json:"notes,omitempty"`
}
