package dto

import "time"

// SendMessageReq conversation_id 与 target_user_id 二选一
type SendMessageReq struct {
	ConversationID uint64 `json:"conversation_id"`
	TargetUserID   uint64 `json:"target_user_id"`
	MsgType        int    `json:"msg_type" validate:"required,oneof=1 2 3"` // 1-文本, 2-图片, 3-分享内容
	Content        string `json:"content" validate:"required,max=2000"`
	MediaURL       string `json:"media_url" validate:"omitempty,max=512"`
	ContentID      uint64 `json:"content_id"`
}

type MessageDTO struct {
	ID             string    `json:"id,omitempty"`
	ConversationID uint64    `json:"conversation_id"`
	SenderID       uint64    `json:"sender_id"`
	MsgType        int       `json:"msg_type"`
	Content        string    `json:"content"`
	MediaURL       string    `json:"media_url,omitempty"`
	ContentID      uint64    `json:"content_id,omitempty"`
	Seq            uint64    `json:"seq"`
	CreatedAt      time.Time `json:"createdAt"`
}

type ConversationDTO struct {
	ConversationID uint64        `json:"conversation_id"`
	Peer           *UserBriefDTO `json:"peer,omitempty"`
	LastMsgContent string        `json:"last_msg_content"`
	LastMsgType    int8          `json:"last_msg_type"`
	LastSenderID   uint64        `json:"last_sender_id"`
	LastMessageAt  time.Time     `json:"lastMessageAt"`
	MaxSeq         uint64        `json:"max_seq"`
	UnreadCount    uint64        `json:"unreadCount"`
}

type MarkAsReadReq struct {
	ConversationID uint64 `json:"conversation_id" validate:"required"`
	Sequence       uint64 `json:"sequence" validate:"required"`
}
