package service

import (
	"Zuno/internal/model"
	"Zuno/internal/pkg/metrics"
	"Zuno/internal/repository"
	"context"
	log "log/slog"
	"math"
	"time"
)

const reconcileBatchSize = 200

// ReconcileResult 一轮对账的统计
type ReconcileResult struct {
	Contents     int
	ContentFixes int
	Creators     int
	CreatorFixes int
	Voters       int
	VoterFixes   int
}

// ReconcileService 以流水为准重算计数
type ReconcileService interface {
	ReconcileDirty(ctx context.Context) (*ReconcileResult, error)
	ReconcileAll(ctx context.Context) (*ReconcileResult, error)
	ReconcileContents(ctx context.Context, ids []uint64) (*ReconcileResult, error)
	ArchiveExpiredStories(ctx context.Context, now time.Time) (int64, error)
}

type ReconcileServiceImpl struct {
	tx              repository.Transactor
	contentRepo     repository.ContentRepo
	userRepo        repository.UserRepo
	interactionRepo repository.InteractionRepo
	source          DirtySource
}

func NewReconcileService(
	tx repository.Transactor,
	contentRepo repository.ContentRepo,
	userRepo repository.UserRepo,
	interactionRepo repository.InteractionRepo,
	source DirtySource,
) ReconcileService {
	return &ReconcileServiceImpl{
		tx:              tx,
		contentRepo:     contentRepo,
		userRepo:        userRepo,
		interactionRepo: interactionRepo,
		source:          source,
	}
}

// ReconcileDirty 处理脏集合，全部成功后才 Ack
func (s *ReconcileServiceImpl) ReconcileDirty(ctx context.Context) (*ReconcileResult, error) {
	if s.source == nil {
		return &ReconcileResult{}, nil
	}
	ids, err := s.source.Drain(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.ReconcileContents(ctx, ids)
	if err != nil {
		return res, err
	}
	return res, s.source.Ack(ctx)
}

// ReconcileAll 按主键分批遍历全部内容
func (s *ReconcileServiceImpl) ReconcileAll(ctx context.Context) (*ReconcileResult, error) {
	total := &ReconcileResult{}
	var afterID uint64
	for {
		ids, err := s.contentRepo.ListIdsAfter(ctx, afterID, reconcileBatchSize)
		if err != nil {
			return total, err
		}
		if len(ids) == 0 {
			return total, nil
		}
		res, err := s.ReconcileContents(ctx, ids)
		if res != nil {
			total.Contents += res.Contents
			total.ContentFixes += res.ContentFixes
			total.Creators += res.Creators
			total.CreatorFixes += res.CreatorFixes
			total.Voters += res.Voters
			total.VoterFixes += res.VoterFixes
		}
		if err != nil {
			return total, err
		}
		afterID = ids[len(ids)-1]
	}
}

func (s *ReconcileServiceImpl) ReconcileContents(ctx context.Context, ids []uint64) (*ReconcileResult, error) {
	res := &ReconcileResult{}
	creators := make(map[uint64]struct{})
	voters := make(map[uint64]struct{})

	for _, id := range ids {
		creatorID, fixed, err := s.reconcileContent(ctx, id)
		if err != nil {
			return res, err
		}
		if creatorID == 0 {
			continue
		}
		voterIds, err := s.interactionRepo.ListHelpfulVoterIds(ctx, id)
		if err != nil {
			return res, err
		}
		for _, voterID := range voterIds {
			voters[voterID] = struct{}{}
		}
		res.Contents++
		if fixed {
			res.ContentFixes++
			metrics.ReconcileCorrectionsTotal.WithLabelValues("content").Inc()
		}
		creators[creatorID] = struct{}{}
	}

	for creatorID := range creators {
		fixed, err := s.reconcileCreator(ctx, creatorID)
		if err != nil {
			return res, err
		}
		res.Creators++
		if fixed {
			res.CreatorFixes++
			metrics.ReconcileCorrectionsTotal.WithLabelValues("creator").Inc()
		}
	}

	for voterID := range voters {
		fixed, err := s.reconcileVoter(ctx, voterID)
		if err != nil {
			return res, err
		}
		res.Voters++
		if fixed {
			res.VoterFixes++
			metrics.ReconcileCorrectionsTotal.WithLabelValues("voter").Inc()
		}
	}
	return res, nil
}

// reconcileContent 返回内容作者 id，内容已删除时返回 0
func (s *ReconcileServiceImpl) reconcileContent(ctx context.Context, id uint64) (uint64, bool, error) {
	var creatorID uint64
	fixed := false
	err := s.tx.InTx(ctx, func(r *repository.TxRepos) error {
		content, err := r.Content.LockContent(ctx, id)
		if err != nil || content == nil {
			return err
		}
		creatorID = content.CreatorID

		counts, err := r.Interaction.CountFeedback(ctx, id)
		if err != nil {
			return err
		}
		saves, err := r.Interaction.CountByType(ctx, id, model.InteractionSave)
		if err != nil {
			return err
		}

		before := *content
		content.ApplyFeedbackCounts(counts.Helpful, counts.NotUseful)
		if before.HelpfulCount != content.HelpfulCount ||
			before.NotUsefulCount != content.NotUsefulCount ||
			math.Abs(before.QualityScore-content.QualityScore) > 1e-9 {
			fixed = true
			if err = r.Content.SaveFeedbackCounts(ctx, content); err != nil {
				return err
			}
		}
		if before.SaveCount != saves {
			fixed = true
			if err = r.Content.SetCounter(ctx, id, "save_count", saves); err != nil {
				return err
			}
		}
		return nil
	})
	if fixed {
		log.InfoContext(ctx, "content counters corrected", "content_id", id)
	}
	return creatorID, fixed, err
}

// reconcileCreator helpfulReceived 等于作者全部内容 helpful 之和
func (s *ReconcileServiceImpl) reconcileCreator(ctx context.Context, creatorID uint64) (bool, error) {
	user, err := s.userRepo.GetUserById(ctx, creatorID)
	if err != nil || user == nil {
		return false, err
	}
	contentCount, err := s.contentRepo.CountByCreator(ctx, creatorID)
	if err != nil {
		return false, err
	}
	helpful, err := s.contentRepo.SumHelpfulByCreator(ctx, creatorID)
	if err != nil {
		return false, err
	}
	if user.ContentCount == contentCount && user.HelpfulReceived == helpful {
		return false, nil
	}
	log.InfoContext(ctx, "creator stats corrected",
		"user_id", creatorID,
		"content_count", contentCount,
		"helpful_received", helpful)
	return true, s.userRepo.SetCreatorStats(ctx, creatorID, contentCount, helpful)
}

// reconcileVoter helpfulGiven 等于该用户现存的 helpful 流水数
func (s *ReconcileServiceImpl) reconcileVoter(ctx context.Context, userID uint64) (bool, error) {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil || user == nil {
		return false, err
	}
	given, err := s.interactionRepo.CountHelpfulGivenBy(ctx, userID)
	if err != nil {
		return false, err
	}
	if user.HelpfulGiven == given {
		return false, nil
	}
	log.InfoContext(ctx, "voter stats corrected", "user_id", userID, "helpful_given", given)
	return true, s.userRepo.SetHelpfulGiven(ctx, userID, given)
}

// ArchiveExpiredStories 过期快拍转为 archived
func (s *ReconcileServiceImpl) ArchiveExpiredStories(ctx context.Context, now time.Time) (int64, error) {
	var total int64
	for {
		ids, err := s.contentRepo.ListExpiredStoryIds(ctx, now, reconcileBatchSize)
		if err != nil {
			return total, err
		}
		if len(ids) == 0 {
			return total, nil
		}
		n, err := s.contentRepo.ArchiveContents(ctx, ids)
		if err != nil {
			return total, err
		}
		total += n
		if n == 0 {
			return total, nil
		}
	}
}
