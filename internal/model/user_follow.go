package model

import "time"

type UserFollow struct {
	FollowerID  uint64    `gorm:"primaryKey" json:"followerId"`
	FollowingID uint64    `gorm:"primaryKey;index:idx_following_id" json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (UserFollow) TableName() string {
	return "user_follows"
}

// FollowRequest 关注私密账号时产生的待处理请求
type FollowRequest struct {
	RequesterID uint64    `gorm:"primaryKey" json:"requesterId"`
	TargetID    uint64    `gorm:"primaryKey;index:idx_target_id" json:"targetId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (FollowRequest) TableName() string {
	return "follow_requests"
}

const (
	FollowStateNone      = "NONE"
	FollowStateRequested = "REQUESTED"
	FollowStateFollowing = "FOLLOWING"
)
