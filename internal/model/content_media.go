package model

import (
	"time"
)

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
	MediaTypeAudio = "audio"
)

const (
	MediaStatusUploading = "uploading"
	MediaStatusReady     = "ready"
	MediaStatusFailed    = "failed"
)

type ContentMedia struct {
	ID              uint64    `gorm:"primaryKey" json:"id"`
	ContentID       uint64    `gorm:"not null;index:idx_content_id_sort" json:"content_id"`
	URL             string    `gorm:"type:varchar(512);not null" json:"url"`
	Type            string    `gorm:"type:varchar(10);not null" json:"type"`
	DurationSeconds *int      `json:"duration_seconds"`
	Status          string    `gorm:"type:varchar(10);not null;default:ready" json:"status"`
	SortOrder       int       `gorm:"not null;default:0;index:idx_content_id_sort" json:"sort_order"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (ContentMedia) TableName() string {
	return "content_media"
}

// CanTransitionTo 仅允许 uploading -> ready / failed
func (m *ContentMedia) CanTransitionTo(status string) bool {
	if m.Status != MediaStatusUploading {
		return false
	}
	return status == MediaStatusReady || status == MediaStatusFailed
}
