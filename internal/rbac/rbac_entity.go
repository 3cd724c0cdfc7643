package rbac

import "time"

// RolePermission is one allow rule: role may perform action on resource.
type RolePermission struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Role      string `gorm:"type:varchar(40);not null;index"`
	Resource  string `gorm:"type:varchar(60);not null"`
	Action    string `gorm:"type:varchar(40);not null"`
	CreatedAt time.Time
}
