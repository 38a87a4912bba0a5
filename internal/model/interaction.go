package model

import (
	"time"
)

const (
	InteractionHelpful   = "helpful"
	InteractionNotUseful = "not-useful"
	InteractionSave      = "save"
	InteractionReport    = "report"
)

const (
	ReportReasonSpam           = "spam"
	ReportReasonHarassment     = "harassment"
	ReportReasonMisinformation = "misinformation"
	ReportReasonInappropriate  = "inappropriate"
	ReportReasonCopyright      = "copyright"
	ReportReasonOther          = "other"
)

const (
	ReportStatusPending   = "pending"
	ReportStatusDismissed = "dismissed"
	ReportStatusActioned  = "actioned"
)

// Interaction 反馈流水，(user_id, content_id, type) 唯一
type Interaction struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	UserID    uint64 `gorm:"not null;uniqueIndex:idx_user_content_type,priority:1" json:"user_id"`
	ContentID uint64 `gorm:"not null;uniqueIndex:idx_user_content_type,priority:2;index:idx_content_type,priority:1" json:"content_id"`
	Type      string `gorm:"type:varchar(20);not null;uniqueIndex:idx_user_content_type,priority:3;index:idx_content_type,priority:2" json:"type"`

	// 仅举报
	Reason       string  `gorm:"type:varchar(30)" json:"reason,omitempty"`
	Note         string  `gorm:"type:varchar(500)" json:"note,omitempty"`
	ReviewStatus string  `gorm:"type:varchar(20);index" json:"review_status,omitempty"`
	ReviewerID   *uint64 `json:"reviewer_id,omitempty"`
	AdminNote    string  `gorm:"type:varchar(500)" json:"admin_note,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Interaction) TableName() string {
	return "interactions"
}
