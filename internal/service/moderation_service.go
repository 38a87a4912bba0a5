package service

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/model"
	"Zuno/internal/pkg/util"
	"Zuno/internal/repository"
	"context"
	log "log/slog"
)

type ModerationService interface {
	ListReports(ctx context.Context, status string, page, limit int) (*dto.PageDTO[dto.ReportItemDTO], error)
	ResolveReport(ctx context.Context, reviewerID, reportID uint64, in *dto.ResolveReportDTO) error
	ListPending(ctx context.Context, page, limit int) (*dto.PageDTO[*dto.ContentDTO], error)
	Approve(ctx context.Context, reviewerID, contentID uint64) error
	Reject(ctx context.Context, reviewerID, contentID uint64) error
	Remove(ctx context.Context, reviewerID, contentID uint64) error
}

type ModerationServiceImpl struct {
	tx              repository.Transactor
	contentRepo     repository.ContentRepo
	interactionRepo repository.InteractionRepo
}

func NewModerationService(tx repository.Transactor, contentRepo repository.ContentRepo, interactionRepo repository.InteractionRepo) ModerationService {
	return &ModerationServiceImpl{tx: tx, contentRepo: contentRepo, interactionRepo: interactionRepo}
}

func (s *ModerationServiceImpl) ListReports(ctx context.Context, status string, page, limit int) (*dto.PageDTO[dto.ReportItemDTO], error) {
	switch status {
	case "", model.ReportStatusPending, model.ReportStatusDismissed, model.ReportStatusActioned:
	default:
		return nil, ErrParamInvalid
	}
	page, limit, offset := util.Page(page, limit, 20, 100)
	reports, total, err := s.interactionRepo.GetReports(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ReportItemDTO, 0, len(reports))
	for _, r := range reports {
		items = append(items, dto.ReportItemDTO{
			ID:           r.ID,
			ContentID:    r.ContentID,
			UserID:       r.UserID,
			Reason:       r.Reason,
			Note:         r.Note,
			ReviewStatus: r.ReviewStatus,
			ReviewerID:   r.ReviewerID,
			AdminNote:    r.AdminNote,
			CreatedAt:    r.CreatedAt,
		})
	}
	return dto.NewPage(items, page, limit, total), nil
}

// ResolveReport dismiss 仅结案；action 下架内容并结案该内容的全部待处理举报
func (s *ModerationServiceImpl) ResolveReport(ctx context.Context, reviewerID, reportID uint64, in *dto.ResolveReportDTO) error {
	status := model.ReportStatusDismissed
	if in.Action == "action" {
		status = model.ReportStatusActioned
	}

	var contentID uint64
	err := s.tx.InTx(ctx, func(r *repository.TxRepos) error {
		report, err := r.Interaction.GetInteractionById(ctx, reportID)
		if err != nil {
			return err
		}
		if report == nil || report.Type != model.InteractionReport {
			return ErrReportNotFound
		}
		if report.ReviewStatus != model.ReportStatusPending {
			return ErrReportReviewed
		}
		contentID = report.ContentID

		n, err := r.Interaction.ReviewReport(ctx, reportID, status, reviewerID, in.Note)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrReportReviewed
		}
		if status != model.ReportStatusActioned {
			return nil
		}
		if err = removeContent(ctx, r, contentID); err != nil {
			return err
		}
		return r.Interaction.ReviewPendingReports(ctx, contentID, model.ReportStatusActioned, reviewerID)
	})
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "report resolved", "report_id", reportID, "content_id", contentID,
		"status", status, "reviewer_id", reviewerID)
	return nil
}

func (s *ModerationServiceImpl) ListPending(ctx context.Context, page, limit int) (*dto.PageDTO[*dto.ContentDTO], error) {
	page, limit, offset := util.Page(page, limit, 20, 100)
	contents, total, err := s.contentRepo.ListPending(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items, err := toContentDTOs(contents)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(items, page, limit, total), nil
}

// Approve 通过审核，同时驳回该内容尚未处理的举报
func (s *ModerationServiceImpl) Approve(ctx context.Context, reviewerID, contentID uint64) error {
	return s.tx.InTx(ctx, func(r *repository.TxRepos) error {
		content, err := r.Content.LockContent(ctx, contentID)
		if err != nil {
			return err
		}
		if content == nil {
			return ErrContentNotFound
		}
		if err = r.Content.UpdateContentFields(ctx, contentID, map[string]interface{}{"is_approved": true}); err != nil {
			return err
		}
		return r.Interaction.ReviewPendingReports(ctx, contentID, model.ReportStatusDismissed, reviewerID)
	})
}

// Reject 审核不通过，内容不再对外可见
func (s *ModerationServiceImpl) Reject(ctx context.Context, reviewerID, contentID uint64) error {
	return s.tx.InTx(ctx, func(r *repository.TxRepos) error {
		content, err := r.Content.LockContent(ctx, contentID)
		if err != nil {
			return err
		}
		if content == nil {
			return ErrContentNotFound
		}
		if content.IsApproved {
			return ErrParamInvalid
		}
		return removeContent(ctx, r, contentID)
	})
}

func (s *ModerationServiceImpl) Remove(ctx context.Context, reviewerID, contentID uint64) error {
	err := s.tx.InTx(ctx, func(r *repository.TxRepos) error {
		content, err := r.Content.LockContent(ctx, contentID)
		if err != nil {
			return err
		}
		if content == nil {
			return ErrContentNotFound
		}
		if err = removeContent(ctx, r, contentID); err != nil {
			return err
		}
		return r.Interaction.ReviewPendingReports(ctx, contentID, model.ReportStatusActioned, reviewerID)
	})
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "content removed", "content_id", contentID, "reviewer_id", reviewerID)
	return nil
}

func removeContent(ctx context.Context, r *repository.TxRepos, contentID uint64) error {
	return r.Content.UpdateContentFields(ctx, contentID, map[string]interface{}{
		"status":      model.ContentStatusRemoved,
		"is_approved": false,
	})
}
