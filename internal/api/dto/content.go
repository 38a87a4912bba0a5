package dto

import "time"

// CreateContentDTO 发布内容
type CreateContentDTO struct {
	ContentType string          `json:"contentType" validate:"required,oneof=photo post short-video long-video live story"`
	Purpose     string          `json:"purpose" validate:"required,oneof=idea skill explain story question discussion learning inspiration solution"`
	Topics      []string        `json:"topics" validate:"omitempty,max=10,unique,dive,oneof=technology science art music health business education lifestyle travel sports"`
	Title       string          `json:"title" validate:"max=150"`
	Body        string          `json:"body" validate:"max=5000"`
	Media       []MediaInputDTO `json:"media" validate:"omitempty,max=10,dive"`
	Visibility  string          `json:"visibility" validate:"omitempty,oneof=public community private"`
	Status      string          `json:"status" validate:"omitempty,oneof=draft published"`
	SilentMode  bool            `json:"silentMode"`
}

type MediaInputDTO struct {
	URL             string `json:"url" validate:"required,max=512"`
	Type            string `json:"type" validate:"required,oneof=image video audio"`
	DurationSeconds *int   `json:"durationSeconds" validate:"omitempty,min=0"`
	Status          string `json:"status" validate:"omitempty,oneof=uploading ready failed"`
}

// UpdateContentDTO nil 字段不修改
type UpdateContentDTO struct {
	Purpose    *string   `json:"purpose" validate:"omitempty,oneof=idea skill explain story question discussion learning inspiration solution"`
	Topics     *[]string `json:"topics" validate:"omitempty,max=10,unique,dive,oneof=technology science art music health business education lifestyle travel sports"`
	Title      *string   `json:"title" validate:"omitempty,max=150"`
	Body       *string   `json:"body" validate:"omitempty,max=5000"`
	Visibility *string   `json:"visibility" validate:"omitempty,oneof=public community private"`
	Status     *string   `json:"status" validate:"omitempty,oneof=draft published archived"`
	SilentMode *bool     `json:"silentMode"`
}

// ContentDTO 静默模式下 Metrics 为 nil，序列化时整体省略
type ContentDTO struct {
	ID          uint64       `json:"id"`
	Creator     UserBriefDTO `json:"creator" copier:"-"`
	ContentType string       `json:"contentType"`
	Purpose     string       `json:"purpose"`
	Topics      []string     `json:"topics" copier:"-"`
	Title       string       `json:"title"`
	Body        string       `json:"body"`
	Media       []MediaDTO   `json:"media" copier:"-"`
	Visibility  string       `json:"visibility"`
	Status      string       `json:"status"`
	IsApproved  bool         `json:"isApproved"`
	SilentMode  bool         `json:"silentMode"`
	ExpiresAt   *time.Time   `json:"expiresAt,omitempty"`
	Metrics     *MetricsDTO  `json:"metrics,omitempty" copier:"-"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type MetricsDTO struct {
	HelpfulCount   int64   `json:"helpfulCount"`
	NotUsefulCount int64   `json:"notUsefulCount"`
	ViewCount      int64   `json:"viewCount"`
	SaveCount      int64   `json:"saveCount"`
	ShareCount     int64   `json:"shareCount"`
	QualityScore   float64 `json:"qualityScore"`
}

type MediaDTO struct {
	ID              uint64 `json:"id"`
	URL             string `json:"url"`
	Type            string `json:"type"`
	DurationSeconds *int   `json:"durationSeconds,omitempty"`
	Status          string `json:"status"`
	SortOrder       int    `json:"sortOrder"`
}

// ProcessingDTO 客户端轮询媒体处理状态
type ProcessingDTO struct {
	ContentID      uint64     `json:"contentId"`
	Pending        bool       `json:"pending"`
	Items          []MediaDTO `json:"items"`
	PollIntervalMs int        `json:"pollIntervalMs"`
	MaxAttempts    int        `json:"maxAttempts"`
}

type MediaStatusDTO struct {
	Status string `json:"status" validate:"required,oneof=ready failed"`
}

// MediaUploadDTO 上传结果，可直接作为 MediaInputDTO 提交
type MediaUploadDTO struct {
	URL      string `json:"url"`
	Type     string `json:"type"`
	Status   string `json:"status"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}
