package asset

import (
	"time"

	"leavedesk/internal/employee"
)

type Asset struct {
	ID                 int64  `gorm:"primaryKey;autoIncrement"`
	Tag                string `gorm:"type:varchar(40);not null;uniqueIndex"`
	SerialNumber       string `gorm:"type:varchar(80)"`
	ModelName          string `gorm:"type:varchar(120);not null"`
	VendorName         string `gorm:"type:varchar(120)"`
	Category           string `gorm:"type:varchar(60);not null"`
	AssignedEmployeeID *int64
	AssignedEmployee   *employee.Employee `gorm:"foreignKey:AssignedEmployeeID"`
	PurchasedAt        *time.Time
	Notes              string `gorm:"type:text"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
