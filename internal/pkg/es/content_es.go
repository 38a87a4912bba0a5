package es

import "time"

// ContentES 写入 ES 的内容文档
type ContentES struct {
	ID            uint64     `json:"id"`
	CreatorID     uint64     `json:"creator_id"`
	CreatorName   string     `json:"creator_name"`
	CreatorAvatar string     `json:"creator_avatar"`
	ContentType   string     `json:"content_type"`
	Purpose       string     `json:"purpose"`
	Topics        []string   `json:"topics"`
	Title         string     `json:"title"`
	Body          string     `json:"body"`
	Visibility    string     `json:"visibility"`
	Status        string     `json:"status"`
	IsApproved    bool       `json:"is_approved"`
	QualityScore  float64    `json:"quality_score"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ContentSearchQuery 关键字检索，基础过滤条件与 SQL 信息流一致
type ContentSearchQuery struct {
	Keyword string
	Now     time.Time
	From    int
	Size    int
}
