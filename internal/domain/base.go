package domain

import "time"

// BaseTimeEntity 由 gorm 在 insert/update 时自动填充
type BaseTimeEntity struct {
	CreatedDate  time.Time `gorm:"column:created_date;autoCreateTime" json:"createdDate"`
	ModifiedDate time.Time `gorm:"column:modified_date;autoUpdateTime" json:"modifiedDate"`
}
