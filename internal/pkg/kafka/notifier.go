package kafka

import (
	"Zuno/internal/pkg/mongo"
	"context"
)

// Notifier 写入站内通知
type Notifier interface {
	Notify(ctx context.Context, msg *mongo.SysBoxModel) error
}
