package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SysBoxModel 系统通知
type SysBoxModel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID uint64             `bson:"receiver_id" json:"receiverId"`
	SenderID   uint64             `bson:"sender_id" json:"senderId"` // 系统通知为 0
	Type       string             `bson:"type" json:"type"`          // helpful / follow / follow_request / request_accepted / moderation
	TargetID   uint64             `bson:"target_id" json:"targetId"` // 内容 ID 或用户 ID
	Content    string             `bson:"content" json:"content"`
	Payload    map[string]any     `bson:"payload,omitempty" json:"payload"`
	IsRead     bool               `bson:"is_read" json:"isRead"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
