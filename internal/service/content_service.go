package service

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/model"
	"Zuno/internal/pkg/util"
	"Zuno/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"strings"
	"time"
)

type ContentService interface {
	CreateContent(ctx context.Context, userID uint64, in *dto.CreateContentDTO) (*dto.ContentDTO, error)
	GetContent(ctx context.Context, viewer Viewer, id uint64) (*dto.ContentDTO, error)
	UpdateContent(ctx context.Context, actor Viewer, id uint64, in *dto.UpdateContentDTO) (*dto.ContentDTO, error)
	DeleteContent(ctx context.Context, actor Viewer, id uint64) error
	GetProcessing(ctx context.Context, viewer Viewer, id uint64) (*dto.ProcessingDTO, error)
	UpdateMediaStatus(ctx context.Context, actor Viewer, contentID, mediaID uint64, status string) (*dto.MediaDTO, error)
	GetSavedContents(ctx context.Context, userID uint64, page, limit int) (*dto.PageDTO[*dto.ContentDTO], error)
}

type ContentServiceImpl struct {
	tx              repository.Transactor
	contentRepo     repository.ContentRepo
	userRepo        repository.UserRepo
	userFollowRepo  repository.UserFollowRepo
	interactionRepo repository.InteractionRepo
	configService   AdminConfigService
	mediaClaimer    MediaClaimer
	pollIntervalMs  int
}

func NewContentService(
	tx repository.Transactor,
	contentRepo repository.ContentRepo,
	userRepo repository.UserRepo,
	userFollowRepo repository.UserFollowRepo,
	interactionRepo repository.InteractionRepo,
	configService AdminConfigService,
	mediaClaimer MediaClaimer,
	pollIntervalMs int,
) ContentService {
	if mediaClaimer == nil {
		mediaClaimer = noopMediaClaimer{}
	}
	return &ContentServiceImpl{
		tx:              tx,
		contentRepo:     contentRepo,
		userRepo:        userRepo,
		userFollowRepo:  userFollowRepo,
		interactionRepo: interactionRepo,
		configService:   configService,
		mediaClaimer:    mediaClaimer,
		pollIntervalMs:  pollIntervalMs,
	}
}

func (s *ContentServiceImpl) CreateContent(ctx context.Context, userID uint64, in *dto.CreateContentDTO) (*dto.ContentDTO, error) {
	title := strings.TrimSpace(in.Title)
	body := strings.TrimSpace(in.Body)
	if title == "" && body == "" && len(in.Media) == 0 {
		return nil, fmt.Errorf("%w: title, body or media is required", ErrParamInvalid)
	}
	if len([]rune(title)) > model.TitleMaxLen || len([]rune(body)) > model.BodyMaxLen {
		return nil, fmt.Errorf("%w: title or body too long", ErrParamInvalid)
	}

	creator, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if creator == nil || !creator.IsActive {
		return nil, ErrUserNotFound
	}

	flags, err := s.configService.Flags(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	content := &model.Content{
		CreatorID:   userID,
		ContentType: in.ContentType,
		Purpose:     in.Purpose,
		Title:       title,
		Body:        body,
		Visibility:  in.Visibility,
		Status:      in.Status,
		SilentMode:  in.SilentMode,
		IsApproved:  autoApprove(creator, flags),
	}
	if content.Visibility == "" {
		content.Visibility = model.VisibilityPublic
	}
	if content.Status == "" {
		content.Status = model.ContentStatusPublished
	}
	if content.ContentType == model.ContentTypeStory {
		expiresAt := now.Add(time.Duration(flags.StoryTTLHours) * time.Hour)
		content.ExpiresAt = &expiresAt
	}
	for _, topic := range dedupe(in.Topics) {
		content.Topics = append(content.Topics, model.ContentTopic{Topic: topic})
	}
	urls := make([]string, 0, len(in.Media))
	for i, m := range in.Media {
		status := m.Status
		if status == "" {
			status = model.MediaStatusReady
		}
		content.Media = append(content.Media, model.ContentMedia{
			URL:             m.URL,
			Type:            m.Type,
			DurationSeconds: m.DurationSeconds,
			Status:          status,
			SortOrder:       i,
		})
		urls = append(urls, m.URL)
	}

	err = s.tx.InTx(ctx, func(r *repository.TxRepos) error {
		if err := r.Content.CreateContent(ctx, content); err != nil {
			return err
		}
		return r.User.AdjustStats(ctx, userID, repository.StatsDelta{ContentCount: 1})
	})
	if err != nil {
		return nil, err
	}

	if len(urls) > 0 {
		if err = s.mediaClaimer.ClaimURLs(ctx, urls...); err != nil {
			log.WarnContext(ctx, "failed to claim media", "content_id", content.ID, "err", err)
		}
	}
	log.InfoContext(ctx, "content created", "content_id", content.ID, "creator_id", userID,
		"type", content.ContentType, "approved", content.IsApproved)

	return s.loadDTO(ctx, content.ID)
}

// GetContent 单条内容，非作者访问计入浏览量
func (s *ContentServiceImpl) GetContent(ctx context.Context, viewer Viewer, id uint64) (*dto.ContentDTO, error) {
	content, err := s.contentRepo.GetContentById(ctx, id)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, ErrContentNotFound
	}
	if err = checkVisible(ctx, s.userFollowRepo, viewer, content); err != nil {
		return nil, err
	}

	if viewer.ID != content.CreatorID {
		if _, err = s.contentRepo.IncrCounter(ctx, id, "view_count", 1); err != nil {
			log.WarnContext(ctx, "failed to count view", "content_id", id, "err", err)
		} else {
			content.ViewCount++
		}
	}
	return toContentDTO(content)
}

func (s *ContentServiceImpl) UpdateContent(ctx context.Context, actor Viewer, id uint64, in *dto.UpdateContentDTO) (*dto.ContentDTO, error) {
	content, err := s.contentRepo.GetContentById(ctx, id)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, ErrContentNotFound
	}
	if err = checkOwner(actor, content); err != nil {
		return nil, err
	}
	if content.Status == model.ContentStatusRemoved && !actor.IsAdmin() {
		return nil, ErrNotContentOwner
	}

	fields := make(map[string]interface{})
	if in.Purpose != nil {
		fields["purpose"] = *in.Purpose
	}
	if in.Title != nil {
		fields["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Body != nil {
		fields["body"] = strings.TrimSpace(*in.Body)
	}
	if in.Visibility != nil {
		fields["visibility"] = *in.Visibility
	}
	if in.Status != nil {
		fields["status"] = *in.Status
	}
	if in.SilentMode != nil {
		fields["silent_mode"] = *in.SilentMode
	}

	err = s.tx.InTx(ctx, func(r *repository.TxRepos) error {
		if len(fields) > 0 {
			if err := r.Content.UpdateContentFields(ctx, id, fields); err != nil {
				return err
			}
		}
		if in.Topics != nil {
			return r.Content.ReplaceTopics(ctx, id, dedupe(*in.Topics))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.loadDTO(ctx, id)
}

// DeleteContent 级联删除流水并回退作者与投票者的统计
func (s *ContentServiceImpl) DeleteContent(ctx context.Context, actor Viewer, id uint64) error {
	content, err := s.contentRepo.GetContentById(ctx, id)
	if err != nil {
		return err
	}
	if content == nil {
		return ErrContentNotFound
	}
	if err = checkOwner(actor, content); err != nil {
		return err
	}

	err = s.tx.InTx(ctx, func(r *repository.TxRepos) error {
		locked, err := r.Content.LockContent(ctx, id)
		if err != nil {
			return err
		}
		if locked == nil {
			return ErrContentNotFound
		}
		counts, err := r.Interaction.CountFeedback(ctx, id)
		if err != nil {
			return err
		}
		if err = r.User.DecrHelpfulGivenByVoters(ctx, id); err != nil {
			return err
		}
		if err = r.Interaction.DeleteByContent(ctx, id); err != nil {
			return err
		}
		err = r.User.AdjustStats(ctx, locked.CreatorID, repository.StatsDelta{
			ContentCount:    -1,
			HelpfulReceived: -counts.Helpful,
		})
		if err != nil {
			return err
		}
		return r.Content.DeleteContent(ctx, id)
	})
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "content deleted", "content_id", id, "actor_id", actor.ID)
	return nil
}

// GetProcessing 客户端轮询媒体处理进度
func (s *ContentServiceImpl) GetProcessing(ctx context.Context, viewer Viewer, id uint64) (*dto.ProcessingDTO, error) {
	content, err := s.contentRepo.GetContentById(ctx, id)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, ErrContentNotFound
	}
	if err = checkVisible(ctx, s.userFollowRepo, viewer, content); err != nil {
		return nil, err
	}
	flags, err := s.configService.Flags(ctx)
	if err != nil {
		return nil, err
	}

	out := &dto.ProcessingDTO{
		ContentID:      id,
		Items:          make([]dto.MediaDTO, 0, len(content.Media)),
		PollIntervalMs: s.pollIntervalMs,
		MaxAttempts:    flags.MediaPollMaxAttempts,
	}
	for i := range content.Media {
		if content.Media[i].Status == model.MediaStatusUploading {
			out.Pending = true
		}
		out.Items = append(out.Items, toMediaDTO(&content.Media[i]))
	}
	return out, nil
}

// UpdateMediaStatus 只允许 uploading -> ready / failed
func (s *ContentServiceImpl) UpdateMediaStatus(ctx context.Context, actor Viewer, contentID, mediaID uint64, status string) (*dto.MediaDTO, error) {
	content, err := s.contentRepo.GetContentById(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, ErrContentNotFound
	}
	if actor.ID != content.CreatorID {
		return nil, ErrNotContentOwner
	}

	media, err := s.contentRepo.GetMedia(ctx, contentID, mediaID)
	if err != nil {
		return nil, err
	}
	if media == nil {
		return nil, ErrMediaNotFound
	}
	if !media.CanTransitionTo(status) {
		return nil, ErrMediaTransition
	}
	n, err := s.contentRepo.UpdateMediaStatus(ctx, mediaID, model.MediaStatusUploading, status)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrMediaTransition
	}
	media.Status = status
	out := toMediaDTO(media)
	return &out, nil
}

// GetSavedContents 收藏列表，新收藏在前，已不可见的内容被跳过
func (s *ContentServiceImpl) GetSavedContents(ctx context.Context, userID uint64, page, limit int) (*dto.PageDTO[*dto.ContentDTO], error) {
	page, limit, offset := util.Page(page, limit, 10, 50)
	ids, total, err := s.interactionRepo.GetSavedContentIds(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	contents, err := s.contentRepo.GetContentByIds(ctx, ids)
	if err != nil {
		return nil, err
	}

	viewer := Viewer{ID: userID}
	visible := make([]*model.Content, 0, len(contents))
	for _, c := range contents {
		if checkVisible(ctx, s.userFollowRepo, viewer, c) == nil {
			visible = append(visible, c)
		}
	}
	items, err := toContentDTOs(visible)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(items, page, limit, total), nil
}

func (s *ContentServiceImpl) loadDTO(ctx context.Context, id uint64) (*dto.ContentDTO, error) {
	content, err := s.contentRepo.GetContentById(ctx, id)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, ErrContentNotFound
	}
	return toContentDTO(content)
}

func checkOwner(actor Viewer, c *model.Content) error {
	if actor.IsAnonymous() {
		return ErrUnauthorized
	}
	if actor.ID != c.CreatorID && !actor.IsAdmin() {
		return ErrNotContentOwner
	}
	return nil
}

// autoApprove 审核人员直接通过，其余按开关与获赞阈值
func autoApprove(creator *model.User, flags *Flags) bool {
	if creator.IsStaff() {
		return true
	}
	return flags.AutoApproveEnabled && creator.HelpfulReceived >= flags.AutoApproveThreshold
}
