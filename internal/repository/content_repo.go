package repository

import (
	"Zuno/internal/model"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FeedFilter 信息流查询条件，基础条件始终生效
type FeedFilter struct {
	Purposes     []string
	ContentTypes []string
	ContentType  string
	Topic        string
	CreatorID    uint64
	Keyword      string
	Now          time.Time
	Limit        int
	Offset       int
}

type ContentRepo interface {
	CreateContent(ctx context.Context, content *model.Content) error
	GetContentById(ctx context.Context, id uint64) (*model.Content, error)
	GetContentByIds(ctx context.Context, ids []uint64) ([]*model.Content, error)
	GetFeedContentByIds(ctx context.Context, ids []uint64, now time.Time) ([]*model.Content, error)
	LockContent(ctx context.Context, id uint64) (*model.Content, error)
	UpdateContentFields(ctx context.Context, id uint64, fields map[string]interface{}) error
	ReplaceTopics(ctx context.Context, id uint64, topics []string) error
	SaveFeedbackCounts(ctx context.Context, content *model.Content) error
	IncrCounter(ctx context.Context, id uint64, column string, delta int64) (int64, error)
	SetCounter(ctx context.Context, id uint64, column string, value int64) error
	DeleteContent(ctx context.Context, id uint64) error

	ListFeed(ctx context.Context, filter *FeedFilter) ([]*model.Content, int64, error)
	ListPending(ctx context.Context, limit, offset int) ([]*model.Content, int64, error)
	ListIdsAfter(ctx context.Context, afterID uint64, limit int) ([]uint64, error)
	ListExpiredStoryIds(ctx context.Context, now time.Time, limit int) ([]uint64, error)
	ArchiveContents(ctx context.Context, ids []uint64) (int64, error)

	CountByCreator(ctx context.Context, creatorID uint64) (int64, error)
	SumHelpfulByCreator(ctx context.Context, creatorID uint64) (int64, error)

	GetMedia(ctx context.Context, contentID, mediaID uint64) (*model.ContentMedia, error)
	UpdateMediaStatus(ctx context.Context, mediaID uint64, from, to string) (int64, error)
}

// 允许增量修改的计数列
var counterColumns = map[string]struct{}{
	"view_count":  {},
	"save_count":  {},
	"share_count": {},
}

type ContentRepoImpl struct {
	db *gorm.DB
}

func NewContentRepo(db *gorm.DB) ContentRepo {
	return &ContentRepoImpl{db: db}
}

// CreateContent 连同话题、媒体一起写入
func (s *ContentRepoImpl) CreateContent(ctx context.Context, content *model.Content) error {
	return s.db.WithContext(ctx).Omit("Creator").Create(content).Error
}

func (s *ContentRepoImpl) preloaded(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Creator").
		Preload("Topics").
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		})
}

// GetContentById 不存在时返回 nil, nil
func (s *ContentRepoImpl) GetContentById(ctx context.Context, id uint64) (*model.Content, error) {
	content := &model.Content{}
	result := s.preloaded(ctx).First(content, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return content, nil
}

// GetContentByIds 按传入 id 顺序返回，不存在的 id 被跳过
func (s *ContentRepoImpl) GetContentByIds(ctx context.Context, ids []uint64) ([]*model.Content, error) {
	if len(ids) == 0 {
		return []*model.Content{}, nil
	}
	var contents []*model.Content
	if err := s.preloaded(ctx).Where("id IN ?", ids).Find(&contents).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint64]*model.Content, len(contents))
	for _, c := range contents {
		byID[c.ID] = c
	}
	ordered := make([]*model.Content, 0, len(contents))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

// LockContent SELECT ... FOR UPDATE，需在事务内调用
func (s *ContentRepoImpl) LockContent(ctx context.Context, id uint64) (*model.Content, error) {
	content := &model.Content{}
	result := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(content, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return content, nil
}

func (s *ContentRepoImpl) UpdateContentFields(ctx context.Context, id uint64, fields map[string]interface{}) error {
	return s.db.WithContext(ctx).Model(&model.Content{}).Where("id = ?", id).Updates(fields).Error
}

// ReplaceTopics 覆盖内容的话题集合
func (s *ContentRepoImpl) ReplaceTopics(ctx context.Context, id uint64, topics []string) error {
	db := s.db.WithContext(ctx)
	if err := db.Where("content_id = ?", id).Delete(&model.ContentTopic{}).Error; err != nil {
		return err
	}
	if len(topics) == 0 {
		return nil
	}
	rows := make([]model.ContentTopic, 0, len(topics))
	for _, t := range topics {
		rows = append(rows, model.ContentTopic{ContentID: id, Topic: t})
	}
	return db.Create(&rows).Error
}

// SaveFeedbackCounts 写回反馈计数与质量分
func (s *ContentRepoImpl) SaveFeedbackCounts(ctx context.Context, content *model.Content) error {
	return s.db.WithContext(ctx).Model(&model.Content{}).Where("id = ?", content.ID).
		UpdateColumns(map[string]interface{}{
			"helpful_count":    content.HelpfulCount,
			"not_useful_count": content.NotUsefulCount,
			"quality_score":    content.QualityScore,
		}).Error
}

// IncrCounter 计数列自增，返回受影响行数
func (s *ContentRepoImpl) IncrCounter(ctx context.Context, id uint64, column string, delta int64) (int64, error) {
	if _, ok := counterColumns[column]; !ok {
		return 0, fmt.Errorf("unsupported counter column %q", column)
	}
	result := s.db.WithContext(ctx).Model(&model.Content{}).Where("id = ?", id).
		UpdateColumn(column, clampedAdd(column, delta))
	return result.RowsAffected, result.Error
}

func (s *ContentRepoImpl) SetCounter(ctx context.Context, id uint64, column string, value int64) error {
	if _, ok := counterColumns[column]; !ok {
		return fmt.Errorf("unsupported counter column %q", column)
	}
	return s.db.WithContext(ctx).Model(&model.Content{}).Where("id = ?", id).
		UpdateColumn(column, value).Error
}

// DeleteContent 删除内容及其话题、媒体
func (s *ContentRepoImpl) DeleteContent(ctx context.Context, id uint64) error {
	db := s.db.WithContext(ctx)
	if err := db.Where("content_id = ?", id).Delete(&model.ContentTopic{}).Error; err != nil {
		return err
	}
	if err := db.Where("content_id = ?", id).Delete(&model.ContentMedia{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.Content{}, id).Error
}

// feedBase 基础条件：已发布、公开、已审核、未过期
func (s *ContentRepoImpl) feedBase(ctx context.Context, now time.Time) *gorm.DB {
	if now.IsZero() {
		now = time.Now()
	}
	return s.db.WithContext(ctx).Model(&model.Content{}).
		Where("status = ? AND visibility = ? AND is_approved = ?",
			model.ContentStatusPublished, model.VisibilityPublic, true).
		Where("expires_at IS NULL OR expires_at > ?", now)
}

// GetFeedContentByIds 外部索引给出的 id 按基础条件重新过滤，保持传入顺序
func (s *ContentRepoImpl) GetFeedContentByIds(ctx context.Context, ids []uint64, now time.Time) ([]*model.Content, error) {
	if len(ids) == 0 {
		return []*model.Content{}, nil
	}
	var visible []uint64
	if err := s.feedBase(ctx, now).Where("id IN ?", ids).Pluck("id", &visible).Error; err != nil {
		return nil, err
	}
	allowed := make(map[uint64]struct{}, len(visible))
	for _, id := range visible {
		allowed[id] = struct{}{}
	}
	kept := make([]uint64, 0, len(visible))
	for _, id := range ids {
		if _, ok := allowed[id]; ok {
			kept = append(kept, id)
		}
	}
	return s.GetContentByIds(ctx, kept)
}

func (s *ContentRepoImpl) ListFeed(ctx context.Context, filter *FeedFilter) ([]*model.Content, int64, error) {
	query := s.feedBase(ctx, filter.Now)

	if len(filter.Purposes) > 0 {
		query = query.Where("purpose IN ?", filter.Purposes)
	}
	if len(filter.ContentTypes) > 0 {
		query = query.Where("content_type IN ?", filter.ContentTypes)
	}
	if filter.ContentType != "" {
		query = query.Where("content_type = ?", filter.ContentType)
	}
	if filter.Topic != "" {
		topicSub := s.db.Model(&model.ContentTopic{}).
			Select("1").
			Where("content_topics.content_id = contents.id AND content_topics.topic = ?", filter.Topic)
		query = query.Where("EXISTS (?)", topicSub)
	}
	if filter.CreatorID != 0 {
		query = query.Where("creator_id = ?", filter.CreatorID)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("title LIKE ? OR body LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*model.Content{}, 0, nil
	}

	var ids []uint64
	err := query.
		Order("created_at DESC").
		Order("quality_score DESC").
		Order("id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, 0, err
	}

	contents, err := s.GetContentByIds(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	return contents, total, nil
}

// ListPending 待审核内容，最早的在前
func (s *ContentRepoImpl) ListPending(ctx context.Context, limit, offset int) ([]*model.Content, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Content{}).
		Where("is_approved = ? AND status = ?", false, model.ContentStatusPublished)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ids []uint64
	if err := query.Order("created_at ASC").Limit(limit).Offset(offset).Pluck("id", &ids).Error; err != nil {
		return nil, 0, err
	}
	contents, err := s.GetContentByIds(ctx, ids)
	return contents, total, err
}

// ListIdsAfter 按主键分批遍历
func (s *ContentRepoImpl) ListIdsAfter(ctx context.Context, afterID uint64, limit int) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.Content{}).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

// ListExpiredStoryIds 已过期但仍处于发布状态的快拍
func (s *ContentRepoImpl) ListExpiredStoryIds(ctx context.Context, now time.Time, limit int) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.Content{}).
		Where("content_type = ? AND status = ? AND expires_at IS NOT NULL AND expires_at <= ?",
			model.ContentTypeStory, model.ContentStatusPublished, now).
		Order("id ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

func (s *ContentRepoImpl) ArchiveContents(ctx context.Context, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := s.db.WithContext(ctx).Model(&model.Content{}).
		Where("id IN ? AND status = ?", ids, model.ContentStatusPublished).
		Update("status", model.ContentStatusArchived)
	return result.RowsAffected, result.Error
}

func (s *ContentRepoImpl) CountByCreator(ctx context.Context, creatorID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Content{}).
		Where("creator_id = ?", creatorID).
		Count(&count).Error
	return count, err
}

func (s *ContentRepoImpl) SumHelpfulByCreator(ctx context.Context, creatorID uint64) (int64, error) {
	var sum int64
	err := s.db.WithContext(ctx).Model(&model.Content{}).
		Select("COALESCE(SUM(helpful_count), 0)").
		Where("creator_id = ?", creatorID).
		Scan(&sum).Error
	return sum, err
}

func (s *ContentRepoImpl) GetMedia(ctx context.Context, contentID, mediaID uint64) (*model.ContentMedia, error) {
	media := &model.ContentMedia{}
	result := s.db.WithContext(ctx).
		Where("id = ? AND content_id = ?", mediaID, contentID).
		First(media)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return media, nil
}

// UpdateMediaStatus 条件更新，from 不匹配时影响 0 行
func (s *ContentRepoImpl) UpdateMediaStatus(ctx context.Context, mediaID uint64, from, to string) (int64, error) {
	result := s.db.WithContext(ctx).Model(&model.ContentMedia{}).
		Where("id = ? AND status = ?", mediaID, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}
