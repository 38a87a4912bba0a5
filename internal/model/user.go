package model

import (
	"database/sql/driver"
	"errors"
	"time"

	"github.com/goccy/go-json"
)

const (
	RoleUser      = "user"
	RoleCreator   = "creator"
	RoleMentor    = "mentor"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

var Roles = []string{RoleUser, RoleCreator, RoleMentor, RoleModerator, RoleAdmin}

type User struct {
	ID          uint64 `gorm:"primaryKey"`
	Username    string `gorm:"type:varchar(30);not null;uniqueIndex:idx_username"`
	Email       string `gorm:"type:varchar(255);not null;uniqueIndex:idx_email"`
	Password    string `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName string `gorm:"type:varchar(50)"`
	Bio         string `gorm:"type:varchar(300)"`
	AvatarURL   string `gorm:"type:varchar(512)"`
	IsPrivate   bool   `gorm:"not null;default:false"`
	IsActive    bool   `gorm:"not null;default:true"`
	Role        string `gorm:"type:varchar(20);not null;default:user"`

	// 偏好
	FeedMode           string     `gorm:"type:varchar(20);not null;default:all"`
	ContentTypeFilters StringList `gorm:"type:text"`
	FocusMode          bool       `gorm:"not null;default:false"`
	DailyBudgetMinutes int        `gorm:"not null;default:0"` // 0 不限
	Interests          StringList `gorm:"type:text"`

	// 增量维护的统计
	ContentCount    int64 `gorm:"not null;default:0"`
	HelpfulReceived int64 `gorm:"not null;default:0"`
	HelpfulGiven    int64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}

// IsStaff 审核人员
func (u *User) IsStaff() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}

// StringList 以 json 形式存储的字符串数组
type StringList []string

// Contains 是否包含
func (s StringList) Contains(v string) bool {
	for _, item := range s {
		if item == v {
			return true
		}
	}
	return false
}

// Value 序列化为 json 文本
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported type for StringList")
	}
	if len(raw) == 0 {
		*s = StringList{}
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(s))
}
