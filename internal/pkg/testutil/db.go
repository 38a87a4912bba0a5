package testutil

import (
	"Zuno/internal/model"
	"Zuno/internal/pkg/database"
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 临时文件 SQLite，使用生产同一套迁移
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "zuno.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

var seq atomic.Int64

// UserOption 修改待创建用户
type UserOption func(u *model.User)

func Private() UserOption {
	return func(u *model.User) { u.IsPrivate = true }
}

func WithRole(role string) UserOption {
	return func(u *model.User) { u.Role = role }
}

// CreateUser 插入一个启用状态的用户
func CreateUser(t *testing.T, db *gorm.DB, opts ...UserOption) *model.User {
	t.Helper()
	n := seq.Add(1)
	u := &model.User{
		Username: fmt.Sprintf("user%d", n),
		Email:    fmt.Sprintf("user%d@zuno.test", n),
		Password: "x",
		IsActive: true,
		Role:     model.RoleUser,
		FeedMode: "all",
	}
	for _, opt := range opts {
		opt(u)
	}
	require.NoError(t, db.WithContext(context.Background()).Create(u).Error)
	return u
}

// ContentOption 修改待创建内容
type ContentOption func(c *model.Content)

func WithType(contentType string) ContentOption {
	return func(c *model.Content) { c.ContentType = contentType }
}

func WithPurpose(purpose string) ContentOption {
	return func(c *model.Content) { c.Purpose = purpose }
}

func WithVisibility(v string) ContentOption {
	return func(c *model.Content) { c.Visibility = v }
}

func WithStatus(status string) ContentOption {
	return func(c *model.Content) { c.Status = status }
}

func Unapproved() ContentOption {
	return func(c *model.Content) { c.IsApproved = false }
}

func Silent() ContentOption {
	return func(c *model.Content) { c.SilentMode = true }
}

func WithTopics(topics ...string) ContentOption {
	return func(c *model.Content) {
		for _, t := range topics {
			c.Topics = append(c.Topics, model.ContentTopic{Topic: t})
		}
	}
}

func WithContent(fn func(c *model.Content)) ContentOption {
	return fn
}

// CreateContent 默认已发布、公开、已审核的 post
func CreateContent(t *testing.T, db *gorm.DB, creator *model.User, opts ...ContentOption) *model.Content {
	t.Helper()
	c := &model.Content{
		CreatorID:   creator.ID,
		ContentType: model.ContentTypePost,
		Purpose:     model.PurposeIdea,
		Title:       "title",
		Body:        "body",
		Visibility:  model.VisibilityPublic,
		Status:      model.ContentStatusPublished,
		IsApproved:  true,
	}
	for _, opt := range opts {
		opt(c)
	}
	require.NoError(t, db.Omit("Creator").Create(c).Error)
	return c
}

// ReloadUser 重新读取用户
func ReloadUser(t *testing.T, db *gorm.DB, id uint64) *model.User {
	t.Helper()
	u := &model.User{}
	require.NoError(t, db.First(u, id).Error)
	return u
}

// ReloadContent 重新读取内容
func ReloadContent(t *testing.T, db *gorm.DB, id uint64) *model.Content {
	t.Helper()
	c := &model.Content{}
	require.NoError(t, db.First(c, id).Error)
	return c
}
