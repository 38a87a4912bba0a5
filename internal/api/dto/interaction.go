package dto

import "time"

// FeedbackResultDTO Feedback 为 helpful / not-useful / none
// 静默内容对非作者不返回计数
type FeedbackResultDTO struct {
	ContentID      uint64   `json:"contentId"`
	Feedback       string   `json:"feedback"`
	HelpfulCount   *int64   `json:"helpfulCount,omitempty"`
	NotUsefulCount *int64   `json:"notUsefulCount,omitempty"`
	QualityScore   *float64 `json:"qualityScore,omitempty"`
}

type SaveResultDTO struct {
	ContentID uint64 `json:"contentId"`
	Saved     bool   `json:"saved"`
	SaveCount *int64 `json:"saveCount,omitempty"`
}

type ShareResultDTO struct {
	ContentID  uint64 `json:"contentId"`
	ShareCount *int64 `json:"shareCount,omitempty"`
}

type ReportDTO struct {
	Reason string `json:"reason" validate:"required,oneof=spam harassment misinformation inappropriate copyright other"`
	Note   string `json:"note" validate:"max=500"`
}

// InteractionStateDTO 当前用户对内容的反馈状态
type InteractionStateDTO struct {
	ContentID uint64 `json:"contentId"`
	Feedback  string `json:"feedback"`
	Saved     bool   `json:"saved"`
	Reported  bool   `json:"reported"`
}

type ReportItemDTO struct {
	ID           uint64    `json:"id"`
	ContentID    uint64    `json:"contentId"`
	UserID       uint64    `json:"reporterId"`
	Reason       string    `json:"reason"`
	Note         string    `json:"note"`
	ReviewStatus string    `json:"reviewStatus"`
	ReviewerID   *uint64   `json:"reviewerId,omitempty"`
	AdminNote    string    `json:"adminNote,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ResolveReportDTO action 会下架被举报内容
type ResolveReportDTO struct {
	Action string `json:"action" validate:"required,oneof=dismiss action"`
	Note   string `json:"note" validate:"max=500"`
}
