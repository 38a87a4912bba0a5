package service

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/model"
	"Zuno/internal/pkg/metrics"
	"Zuno/internal/repository"
	"context"
	log "log/slog"
	"strings"
)

const FeedbackNone = "none"

const (
	outcomeCreated = "created"
	outcomeRemoved = "removed"
	outcomeFlipped = "flipped"
)

type InteractionService interface {
	SetFeedback(ctx context.Context, actor Viewer, contentID uint64, typ string) (*dto.FeedbackResultDTO, error)
	ToggleSave(ctx context.Context, actor Viewer, contentID uint64) (*dto.SaveResultDTO, error)
	RecordShare(ctx context.Context, actor Viewer, contentID uint64) (*dto.ShareResultDTO, error)
	SubmitReport(ctx context.Context, actor Viewer, contentID uint64, in *dto.ReportDTO) error
	GetState(ctx context.Context, actor Viewer, contentID uint64) (*dto.InteractionStateDTO, error)
}

type InteractionServiceImpl struct {
	tx              repository.Transactor
	contentRepo     repository.ContentRepo
	interactionRepo repository.InteractionRepo
	configService   AdminConfigService
	dirty           DirtyMarker
}

func NewInteractionService(
	tx repository.Transactor,
	contentRepo repository.ContentRepo,
	interactionRepo repository.InteractionRepo,
	configService AdminConfigService,
	dirty DirtyMarker,
) InteractionService {
	if dirty == nil {
		dirty = noopDirtyMarker{}
	}
	return &InteractionServiceImpl{
		tx:              tx,
		contentRepo:     contentRepo,
		interactionRepo: interactionRepo,
		configService:   configService,
		dirty:           dirty,
	}
}

// SetFeedback helpful / not-useful 互斥切换
// 无记录时新增，同类型时撤销，异类型时翻转；计数由流水重新统计
func (s *InteractionServiceImpl) SetFeedback(ctx context.Context, actor Viewer, contentID uint64, typ string) (*dto.FeedbackResultDTO, error) {
	if typ != model.InteractionHelpful && typ != model.InteractionNotUseful {
		return nil, ErrParamInvalid
	}
	userID := actor.ID

	result := &dto.FeedbackResultDTO{ContentID: contentID}
	outcome := ""
	err := s.tx.InTx(ctx, func(r *repository.TxRepos) error {
		content, err := r.Content.LockContent(ctx, contentID)
		if err != nil {
			return err
		}
		if content == nil {
			return ErrContentNotFound
		}
		if err = checkVisible(ctx, r.Follow, actor, content); err != nil {
			return err
		}

		existing, err := r.Interaction.GetFeedback(ctx, userID, contentID)
		if err != nil {
			return err
		}
		oldHelpful := existing != nil && existing.Type == model.InteractionHelpful
		current := typ

		switch {
		case existing == nil:
			err = r.Interaction.CreateInteraction(ctx, &model.Interaction{
				UserID:    userID,
				ContentID: contentID,
				Type:      typ,
			})
			outcome = outcomeCreated
		case existing.Type == typ:
			err = r.Interaction.DeleteInteraction(ctx, existing.ID)
			current = FeedbackNone
			outcome = outcomeRemoved
		default:
			err = r.Interaction.UpdateInteractionType(ctx, existing.ID, typ)
			outcome = outcomeFlipped
		}
		if err != nil {
			return err
		}

		counts, err := r.Interaction.CountFeedback(ctx, contentID)
		if err != nil {
			return err
		}
		content.ApplyFeedbackCounts(counts.Helpful, counts.NotUseful)
		if err = r.Content.SaveFeedbackCounts(ctx, content); err != nil {
			return err
		}

		// 作者获赞数与内容 helpful 数同步变化，操作者的 helpfulGiven 同理
		delta := boolDelta(current == model.InteractionHelpful) - boolDelta(oldHelpful)
		if delta != 0 {
			if err = r.User.AdjustStats(ctx, content.CreatorID, repository.StatsDelta{HelpfulReceived: delta}); err != nil {
				return err
			}
			if err = r.User.AdjustStats(ctx, userID, repository.StatsDelta{HelpfulGiven: delta}); err != nil {
				return err
			}
		}

		result.Feedback = current
		if showMetrics(actor, content) {
			result.HelpfulCount = &content.HelpfulCount
			result.NotUsefulCount = &content.NotUsefulCount
			result.QualityScore = &content.QualityScore
		}
		return nil
	})
	metrics.InteractionsTotal.WithLabelValues(typ, outcomeOrError(outcome, err)).Inc()
	if err != nil {
		return nil, err
	}

	s.markDirty(ctx, contentID)
	return result, nil
}

// ToggleSave 收藏开关，save_count 由流水重新统计
func (s *InteractionServiceImpl) ToggleSave(ctx context.Context, actor Viewer, contentID uint64) (*dto.SaveResultDTO, error) {
	userID := actor.ID
	result := &dto.SaveResultDTO{ContentID: contentID}
	outcome := ""
	err := s.tx.InTx(ctx, func(r *repository.TxRepos) error {
		content, err := r.Content.LockContent(ctx, contentID)
		if err != nil {
			return err
		}
		if content == nil {
			return ErrContentNotFound
		}
		if err = checkVisible(ctx, r.Follow, actor, content); err != nil {
			return err
		}

		existing, err := r.Interaction.GetInteraction(ctx, userID, contentID, model.InteractionSave)
		if err != nil {
			return err
		}
		if existing == nil {
			err = r.Interaction.CreateInteraction(ctx, &model.Interaction{
				UserID:    userID,
				ContentID: contentID,
				Type:      model.InteractionSave,
			})
			result.Saved = true
			outcome = outcomeCreated
		} else {
			err = r.Interaction.DeleteInteraction(ctx, existing.ID)
			outcome = outcomeRemoved
		}
		if err != nil {
			return err
		}

		count, err := r.Interaction.CountByType(ctx, contentID, model.InteractionSave)
		if err != nil {
			return err
		}
		if showMetrics(actor, content) {
			result.SaveCount = &count
		}
		return r.Content.SetCounter(ctx, contentID, "save_count", count)
	})
	metrics.InteractionsTotal.WithLabelValues(model.InteractionSave, outcomeOrError(outcome, err)).Inc()
	if err != nil {
		return nil, err
	}

	s.markDirty(ctx, contentID)
	return result, nil
}

// RecordShare 不落流水，匿名可调用，可见性与详情页一致
func (s *InteractionServiceImpl) RecordShare(ctx context.Context, actor Viewer, contentID uint64) (*dto.ShareResultDTO, error) {
	result := &dto.ShareResultDTO{ContentID: contentID}
	err := s.tx.InTx(ctx, func(r *repository.TxRepos) error {
		content, err := r.Content.LockContent(ctx, contentID)
		if err != nil {
			return err
		}
		if content == nil {
			return ErrContentNotFound
		}
		if err = checkVisible(ctx, r.Follow, actor, content); err != nil {
			return err
		}

		if _, err = r.Content.IncrCounter(ctx, contentID, "share_count", 1); err != nil {
			return err
		}
		if showMetrics(actor, content) {
			count := content.ShareCount + 1
			result.ShareCount = &count
		}
		return nil
	})
	metrics.InteractionsTotal.WithLabelValues("share", outcomeOrError(outcomeCreated, err)).Inc()
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SubmitReport 同一用户对同一内容只能举报一次，待处理举报达到阈值时撤下审核
func (s *InteractionServiceImpl) SubmitReport(ctx context.Context, actor Viewer, contentID uint64, in *dto.ReportDTO) error {
	userID := actor.ID
	flags, err := s.configService.Flags(ctx)
	if err != nil {
		return err
	}

	hidden := false
	err = s.tx.InTx(ctx, func(r *repository.TxRepos) error {
		content, err := r.Content.LockContent(ctx, contentID)
		if err != nil {
			return err
		}
		if content == nil {
			return ErrContentNotFound
		}
		if err = checkVisible(ctx, r.Follow, actor, content); err != nil {
			return err
		}

		existing, err := r.Interaction.GetInteraction(ctx, userID, contentID, model.InteractionReport)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrDuplicateReport
		}
		err = r.Interaction.CreateInteraction(ctx, &model.Interaction{
			UserID:       userID,
			ContentID:    contentID,
			Type:         model.InteractionReport,
			Reason:       in.Reason,
			Note:         strings.TrimSpace(in.Note),
			ReviewStatus: model.ReportStatusPending,
		})
		if err != nil {
			if isDuplicateError(err) {
				return ErrDuplicateReport
			}
			return err
		}

		pending, err := r.Interaction.CountPendingReports(ctx, contentID)
		if err != nil {
			return err
		}
		if content.IsApproved && pending >= flags.ReportHideThreshold {
			hidden = true
			return r.Content.UpdateContentFields(ctx, contentID, map[string]interface{}{"is_approved": false})
		}
		return nil
	})
	metrics.InteractionsTotal.WithLabelValues(model.InteractionReport, outcomeOrError(outcomeCreated, err)).Inc()
	if err != nil {
		return err
	}
	if hidden {
		log.WarnContext(ctx, "content hidden by reports", "content_id", contentID, "threshold", flags.ReportHideThreshold)
	}
	return nil
}

// GetState 只读取请求者自己的流水，内容被撤下后仍可查询
func (s *InteractionServiceImpl) GetState(ctx context.Context, actor Viewer, contentID uint64) (*dto.InteractionStateDTO, error) {
	userID := actor.ID
	content, err := s.contentRepo.GetContentById(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, ErrContentNotFound
	}

	state := &dto.InteractionStateDTO{ContentID: contentID, Feedback: FeedbackNone}
	feedback, err := s.interactionRepo.GetFeedback(ctx, userID, contentID)
	if err != nil {
		return nil, err
	}
	if feedback != nil {
		state.Feedback = feedback.Type
	}
	saved, err := s.interactionRepo.GetInteraction(ctx, userID, contentID, model.InteractionSave)
	if err != nil {
		return nil, err
	}
	state.Saved = saved != nil
	report, err := s.interactionRepo.GetInteraction(ctx, userID, contentID, model.InteractionReport)
	if err != nil {
		return nil, err
	}
	state.Reported = report != nil
	return state, nil
}

func (s *InteractionServiceImpl) markDirty(ctx context.Context, contentID uint64) {
	if err := s.dirty.MarkDirty(ctx, contentID); err != nil {
		log.WarnContext(ctx, "failed to mark content dirty", "content_id", contentID, "err", err)
	}
}

// showMetrics 静默内容只对作者返回计数
func showMetrics(actor Viewer, c *model.Content) bool {
	return !c.SilentMode || (!actor.IsAnonymous() && actor.ID == c.CreatorID)
}

func outcomeOrError(outcome string, err error) string {
	if err != nil {
		return metrics.Outcome(err)
	}
	return outcome
}
