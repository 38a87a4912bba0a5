package dto

import "time"

type ConfigEntryDTO struct {
	Key       string     `json:"key"`
	Value     string     `json:"value"`
	Default   string     `json:"default"`
	Type      string     `json:"type"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type UpdateConfigDTO struct {
	Value string `json:"value" validate:"required"`
}

// PublicConfigDTO 客户端可读取的配置
type PublicConfigDTO struct {
	MediaPollIntervalMs  int `json:"mediaPollIntervalMs"`
	MediaPollMaxAttempts int `json:"mediaPollMaxAttempts"`
	StoryTTLHours        int `json:"storyTtlHours"`
}
