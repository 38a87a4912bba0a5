package repository

import (
	"Zuno/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// FeedbackCounts 由流水统计出的反馈数
type FeedbackCounts struct {
	Helpful   int64
	NotUseful int64
}

type InteractionRepo interface {
	GetInteraction(ctx context.Context, userID, contentID uint64, typ string) (*model.Interaction, error)
	GetFeedback(ctx context.Context, userID, contentID uint64) (*model.Interaction, error)
	GetInteractionById(ctx context.Context, id uint64) (*model.Interaction, error)
	CreateInteraction(ctx context.Context, in *model.Interaction) error
	UpdateInteractionType(ctx context.Context, id uint64, typ string) error
	DeleteInteraction(ctx context.Context, id uint64) error
	DeleteByContent(ctx context.Context, contentID uint64) error

	CountFeedback(ctx context.Context, contentID uint64) (FeedbackCounts, error)
	CountByType(ctx context.Context, contentID uint64, typ string) (int64, error)
	ListHelpfulVoterIds(ctx context.Context, contentID uint64) ([]uint64, error)
	CountHelpfulGivenBy(ctx context.Context, userID uint64) (int64, error)
	GetSavedContentIds(ctx context.Context, userID uint64, limit, offset int) ([]uint64, int64, error)

	CountPendingReports(ctx context.Context, contentID uint64) (int64, error)
	GetReports(ctx context.Context, status string, limit, offset int) ([]*model.Interaction, int64, error)
	ReviewReport(ctx context.Context, id uint64, status string, reviewerID uint64, note string) (int64, error)
	ReviewPendingReports(ctx context.Context, contentID uint64, status string, reviewerID uint64) error
}

type InteractionRepoImpl struct {
	db *gorm.DB
}

func NewInteractionRepo(db *gorm.DB) InteractionRepo {
	return &InteractionRepoImpl{db: db}
}

func (s *InteractionRepoImpl) first(query *gorm.DB) (*model.Interaction, error) {
	in := &model.Interaction{}
	if err := query.First(in).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return in, nil
}

func (s *InteractionRepoImpl) GetInteraction(ctx context.Context, userID, contentID uint64, typ string) (*model.Interaction, error) {
	return s.first(s.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ? AND type = ?", userID, contentID, typ))
}

// GetFeedback helpful / not-useful 二者至多存在一条
func (s *InteractionRepoImpl) GetFeedback(ctx context.Context, userID, contentID uint64) (*model.Interaction, error) {
	return s.first(s.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ? AND type IN ?", userID, contentID,
			[]string{model.InteractionHelpful, model.InteractionNotUseful}))
}

func (s *InteractionRepoImpl) GetInteractionById(ctx context.Context, id uint64) (*model.Interaction, error) {
	return s.first(s.db.WithContext(ctx).Where("id = ?", id))
}

func (s *InteractionRepoImpl) CreateInteraction(ctx context.Context, in *model.Interaction) error {
	return s.db.WithContext(ctx).Create(in).Error
}

func (s *InteractionRepoImpl) UpdateInteractionType(ctx context.Context, id uint64, typ string) error {
	return s.db.WithContext(ctx).Model(&model.Interaction{}).Where("id = ?", id).Update("type", typ).Error
}

func (s *InteractionRepoImpl) DeleteInteraction(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&model.Interaction{}, id).Error
}

func (s *InteractionRepoImpl) DeleteByContent(ctx context.Context, contentID uint64) error {
	return s.db.WithContext(ctx).Where("content_id = ?", contentID).Delete(&model.Interaction{}).Error
}

// CountFeedback 一次分组统计 helpful 与 not-useful
func (s *InteractionRepoImpl) CountFeedback(ctx context.Context, contentID uint64) (FeedbackCounts, error) {
	type row struct {
		Type  string
		Total int64
	}
	var rows []row
	err := s.db.WithContext(ctx).Model(&model.Interaction{}).
		Select("type, COUNT(*) AS total").
		Where("content_id = ? AND type IN ?", contentID,
			[]string{model.InteractionHelpful, model.InteractionNotUseful}).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return FeedbackCounts{}, err
	}

	var counts FeedbackCounts
	for _, r := range rows {
		switch r.Type {
		case model.InteractionHelpful:
			counts.Helpful = r.Total
		case model.InteractionNotUseful:
			counts.NotUseful = r.Total
		}
	}
	return counts, nil
}

func (s *InteractionRepoImpl) CountByType(ctx context.Context, contentID uint64, typ string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Interaction{}).
		Where("content_id = ? AND type = ?", contentID, typ).
		Count(&count).Error
	return count, err
}

func (s *InteractionRepoImpl) ListHelpfulVoterIds(ctx context.Context, contentID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.Interaction{}).
		Where("content_id = ? AND type = ?", contentID, model.InteractionHelpful).
		Pluck("user_id", &ids).Error
	return ids, err
}

// CountHelpfulGivenBy 用户投出的 helpful 总数，已删除内容的流水随内容一起清理
func (s *InteractionRepoImpl) CountHelpfulGivenBy(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Interaction{}).
		Where("user_id = ? AND type = ?", userID, model.InteractionHelpful).
		Count(&count).Error
	return count, err
}

// GetSavedContentIds 收藏列表，最新的在前
func (s *InteractionRepoImpl) GetSavedContentIds(ctx context.Context, userID uint64, limit, offset int) ([]uint64, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Interaction{}).
		Where("user_id = ? AND type = ?", userID, model.InteractionSave)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ids []uint64
	err := query.Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Pluck("content_id", &ids).Error
	return ids, total, err
}

func (s *InteractionRepoImpl) CountPendingReports(ctx context.Context, contentID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Interaction{}).
		Where("content_id = ? AND type = ? AND review_status = ?",
			contentID, model.InteractionReport, model.ReportStatusPending).
		Count(&count).Error
	return count, err
}

// GetReports status 为空时返回全部举报
func (s *InteractionRepoImpl) GetReports(ctx context.Context, status string, limit, offset int) ([]*model.Interaction, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Interaction{}).Where("type = ?", model.InteractionReport)
	if status != "" {
		query = query.Where("review_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []*model.Interaction
	err := query.Order("created_at ASC").Order("id ASC").Limit(limit).Offset(offset).Find(&reports).Error
	return reports, total, err
}

// ReviewReport 仅处理 pending 状态的举报
func (s *InteractionRepoImpl) ReviewReport(ctx context.Context, id uint64, status string, reviewerID uint64, note string) (int64, error) {
	result := s.db.WithContext(ctx).Model(&model.Interaction{}).
		Where("id = ? AND type = ? AND review_status = ?", id, model.InteractionReport, model.ReportStatusPending).
		Updates(map[string]interface{}{
			"review_status": status,
			"reviewer_id":   reviewerID,
			"admin_note":    note,
		})
	return result.RowsAffected, result.Error
}

// ReviewPendingReports 内容被处理后，同一内容的其余举报一并结案
func (s *InteractionRepoImpl) ReviewPendingReports(ctx context.Context, contentID uint64, status string, reviewerID uint64) error {
	return s.db.WithContext(ctx).Model(&model.Interaction{}).
		Where("content_id = ? AND type = ? AND review_status = ?",
			contentID, model.InteractionReport, model.ReportStatusPending).
		Updates(map[string]interface{}{
			"review_status": status,
			"reviewer_id":   reviewerID,
		}).Error
}
