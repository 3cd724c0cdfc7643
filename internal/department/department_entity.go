package department

import "time"

type Department struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"type:varchar(80);not null;uniqueIndex"`
	Location  string `gorm:"type:varchar(120)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
