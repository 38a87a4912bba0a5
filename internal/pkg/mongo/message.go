package mongo

import (
	"time"
)

// Message 私信明细，序号来自 MySQL 会话表
type Message struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	ConversationID uint64    `bson:"conversation_id" json:"conversationId"`
	SenderID       uint64    `bson:"sender_id" json:"senderId"`
	MsgType        int       `bson:"msg_type" json:"msgType"` // 1-文本, 2-图片, 3-分享内容
	Content        string    `bson:"content" json:"content"`
	Payload        []Payload `bson:"payload,omitempty" json:"payload"`
	Seq            uint64    `bson:"seq" json:"seq"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
}

// Payload 附件
type Payload struct {
	MimeType  string `bson:"mime_type" json:"mime_type"`
	MediaURL  string `bson:"url" json:"url"`
	ContentID uint64 `bson:"content_id,omitempty" json:"content_id,omitempty"`
}
