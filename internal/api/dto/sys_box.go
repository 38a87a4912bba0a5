package dto

// SysBoxDTO 系统通知
type SysBoxDTO struct {
	ID         string         `json:"id"`
	SenderID   uint64         `json:"sender_id"`
	SenderName string         `json:"sender_name"`
	AvatarURL  string         `json:"avatar_url"`
	Type       string         `json:"type"`
	TargetID   uint64         `json:"target_id"`
	Content    string         `json:"content"`
	Payload    map[string]any `json:"payload"`
	IsRead     bool           `json:"is_read"`
	CreatedAt  string         `json:"created_at"`
}

type SysBoxUnreadDTO struct {
	UnreadCount int64 `json:"unread_count"`
}

type SysBoxReadReq struct {
	ID string `json:"id" validate:"required"`
}
