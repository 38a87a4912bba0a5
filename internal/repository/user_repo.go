package repository

import (
	"Zuno/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type UserRepo interface {
	GetUserById(ctx context.Context, id uint64) (*model.User, error)
	GetUserByIds(ctx context.Context, ids []uint64) ([]*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
	ExistsUsername(ctx context.Context, username string) (bool, error)
	ExistsEmail(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *model.User) error
	UpdateUserFields(ctx context.Context, id uint64, fields map[string]interface{}) (int64, error)
	AdjustStats(ctx context.Context, id uint64, delta StatsDelta) error
	DecrHelpfulGivenByVoters(ctx context.Context, contentID uint64) error
	SetCreatorStats(ctx context.Context, id uint64, contentCount, helpfulReceived int64) error
	SetHelpfulGiven(ctx context.Context, id uint64, helpfulGiven int64) error
}

// StatsDelta 用户统计的增量
type StatsDelta struct {
	ContentCount    int64
	HelpfulReceived int64
	HelpfulGiven    int64
}

func (d StatsDelta) IsZero() bool {
	return d.ContentCount == 0 && d.HelpfulReceived == 0 && d.HelpfulGiven == 0
}

type UserRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &UserRepoImpl{db: db}
}

func (s *UserRepoImpl) GetUserById(ctx context.Context, id uint64) (*model.User, error) {
	user := &model.User{}
	result := s.db.WithContext(ctx).First(user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return user, nil
}

func (s *UserRepoImpl) GetUserByIds(ctx context.Context, ids []uint64) ([]*model.User, error) {
	users := make([]*model.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	result := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

func (s *UserRepoImpl) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	result := s.db.WithContext(ctx).Where("username = ?", username).First(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return user, nil
}

// GetUserByLogin 用户名或邮箱
func (s *UserRepoImpl) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	user := &model.User{}
	result := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, login).
		First(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return user, nil
}

func (s *UserRepoImpl) ExistsUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (s *UserRepoImpl) ExistsEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (s *UserRepoImpl) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

// UpdateUserFields 按列更新，返回受影响行数
func (s *UserRepoImpl) UpdateUserFields(ctx context.Context, id uint64, fields map[string]interface{}) (int64, error) {
	result := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields)
	return result.RowsAffected, result.Error
}

// AdjustStats 增量维护统计，结果不会小于 0
func (s *UserRepoImpl) AdjustStats(ctx context.Context, id uint64, delta StatsDelta) error {
	if delta.IsZero() {
		return nil
	}
	fields := make(map[string]interface{}, 3)
	if delta.ContentCount != 0 {
		fields["content_count"] = clampedAdd("content_count", delta.ContentCount)
	}
	if delta.HelpfulReceived != 0 {
		fields["helpful_received"] = clampedAdd("helpful_received", delta.HelpfulReceived)
	}
	if delta.HelpfulGiven != 0 {
		fields["helpful_given"] = clampedAdd("helpful_given", delta.HelpfulGiven)
	}
	return s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).UpdateColumns(fields).Error
}

// DecrHelpfulGivenByVoters 内容删除时撤回所有 helpful 投票者的 helpful_given
func (s *UserRepoImpl) DecrHelpfulGivenByVoters(ctx context.Context, contentID uint64) error {
	voters := s.db.Model(&model.Interaction{}).
		Select("user_id").
		Where("content_id = ? AND type = ?", contentID, model.InteractionHelpful)
	return s.db.WithContext(ctx).Model(&model.User{}).
		Where("id IN (?)", voters).
		UpdateColumn("helpful_given", clampedAdd("helpful_given", -1)).Error
}

// SetCreatorStats 对账后写回
func (s *UserRepoImpl) SetCreatorStats(ctx context.Context, id uint64, contentCount, helpfulReceived int64) error {
	return s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"content_count":    contentCount,
			"helpful_received": helpfulReceived,
		}).Error
}

func (s *UserRepoImpl) SetHelpfulGiven(ctx context.Context, id uint64, helpfulGiven int64) error {
	return s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		UpdateColumn("helpful_given", helpfulGiven).Error
}

// clampedAdd column + delta，下限为 0
func clampedAdd(column string, delta int64) interface{} {
	if delta >= 0 {
		return gorm.Expr(column+" + ?", delta)
	}
	return gorm.Expr("CASE WHEN "+column+" >= ? THEN "+column+" - ? ELSE 0 END", -delta, -delta)
}
