package model

import "time"

// AdminConfig 管理员可切换的功能开关
type AdminConfig struct {
	Key       string    `gorm:"primaryKey;type:varchar(64)" json:"key"`
	Value     string    `gorm:"type:varchar(255);not null" json:"value"`
	UpdatedBy uint64    `gorm:"not null;default:0" json:"updated_by"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AdminConfig) TableName() string {
	return "admin_configs"
}
