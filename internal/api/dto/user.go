package dto

import "time"

// RegisterDTO 注册
type RegisterDTO struct {
	Username string `json:"username" validate:"required,min=3,max=30,handle"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginDTO login 可以是用户名或邮箱
type LoginDTO struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *UserDTO  `json:"user"`
}

// UserDTO 本人可见的完整资料
type UserDTO struct {
	ID          uint64         `json:"id"`
	Username    string         `json:"username"`
	Email       string         `json:"email"`
	DisplayName string         `json:"displayName"`
	Bio         string         `json:"bio"`
	AvatarURL   string         `json:"avatarUrl"`
	IsPrivate   bool           `json:"isPrivate"`
	IsActive    bool           `json:"isActive"`
	Role        string         `json:"role"`
	Preferences PreferencesDTO `json:"preferences" copier:"-"`
	Stats       StatsDTO       `json:"stats" copier:"-"`
	CreatedAt   time.Time      `json:"createdAt"`
}

type PreferencesDTO struct {
	FeedMode           string   `json:"feedMode"`
	ContentTypeFilters []string `json:"contentTypeFilters"`
	FocusMode          bool     `json:"focusMode"`
	DailyBudgetMinutes int      `json:"dailyBudgetMinutes"`
	Interests          []string `json:"interests"`
}

// StatsDTO 粉丝 / 关注数由关系实时统计，其余为存储的计数
type StatsDTO struct {
	Followers       int64 `json:"followers"`
	Following       int64 `json:"following"`
	ContentCount    int64 `json:"contentCount"`
	HelpfulReceived int64 `json:"helpfulReceived"`
	HelpfulGiven    int64 `json:"helpfulGiven"`
}

// ProfileDTO 他人可见的公开资料
type ProfileDTO struct {
	ID           uint64   `json:"id"`
	Username     string   `json:"username"`
	DisplayName  string   `json:"displayName"`
	Bio          string   `json:"bio"`
	AvatarURL    string   `json:"avatarUrl"`
	IsPrivate    bool     `json:"isPrivate"`
	Role         string   `json:"role"`
	Stats        StatsDTO `json:"stats" copier:"-"`
	FollowStatus string   `json:"followStatus,omitempty" copier:"-"`
}

// UserBriefDTO 列表中的用户摘要
type UserBriefDTO struct {
	ID          uint64 `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
	IsPrivate   bool   `json:"isPrivate"`
}

type UpdateProfileDTO struct {
	DisplayName *string `json:"displayName" validate:"omitempty,max=50"`
	Bio         *string `json:"bio" validate:"omitempty,max=300"`
	AvatarURL   *string `json:"avatarUrl" validate:"omitempty,max=512"`
	IsPrivate   *bool   `json:"isPrivate"`
}

type UpdatePreferencesDTO struct {
	FeedMode           *string  `json:"feedMode" validate:"omitempty,oneof=all learning calm video reading problem-solving"`
	ContentTypeFilters []string `json:"contentTypeFilters" validate:"omitempty,dive,oneof=photo post short-video long-video live story"`
	FocusMode          *bool    `json:"focusMode"`
	DailyBudgetMinutes *int     `json:"dailyBudgetMinutes" validate:"omitempty,min=0,max=1440"`
	Interests          []string `json:"interests" validate:"omitempty,dive,oneof=technology science art music health business education lifestyle travel sports"`
}

type FollowStatusDTO struct {
	State string `json:"state"`
}

type FollowRequestDTO struct {
	Requester UserBriefDTO `json:"requester"`
	CreatedAt time.Time    `json:"createdAt"`
}

type SetActiveDTO struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type SetRoleDTO struct {
	Role string `json:"role" validate:"required,oneof=user creator mentor moderator admin"`
}
