package service

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/model"
	"Zuno/internal/pkg/es"
	"Zuno/internal/pkg/metrics"
	"Zuno/internal/pkg/util"
	"Zuno/internal/repository"
	"context"
	log "log/slog"
	"strings"
	"time"
)

const FeedModeAll = "all"

// feedModes 模式到附加条件的映射，模式之间互斥
var feedModes = map[string]repository.FeedFilter{
	FeedModeAll: {},
	"learning": {Purposes: []string{
		model.PurposeSkill, model.PurposeExplain, model.PurposeLearning, model.PurposeSolution,
	}},
	"calm": {Purposes: []string{
		model.PurposeInspiration, model.PurposeStory, model.PurposeIdea,
	}},
	"video": {ContentTypes: []string{
		model.ContentTypeShortVideo, model.ContentTypeLongVideo,
	}},
	"reading": {ContentTypes: []string{model.ContentTypePost}},
	"problem-solving": {Purposes: []string{
		model.PurposeQuestion, model.PurposeDiscussion, model.PurposeSolution,
	}},
}

type FeedService interface {
	GetFeed(ctx context.Context, viewer Viewer, q *dto.FeedQuery) (*dto.FeedDTO, error)
	GetTopicFeed(ctx context.Context, topic string, page, limit int) (*dto.FeedDTO, error)
	GetCreatorFeed(ctx context.Context, username string, page, limit int) (*dto.FeedDTO, error)
	SearchFeed(ctx context.Context, keyword string, page, limit int) (*dto.FeedDTO, error)
}

type FeedServiceImpl struct {
	contentRepo  repository.ContentRepo
	userRepo     repository.UserRepo
	searcher     es.ContentRepo
	defaultLimit int
	maxLimit     int
	now          func() time.Time
}

// NewFeedService searcher 为 nil 时搜索走 SQL
func NewFeedService(contentRepo repository.ContentRepo, userRepo repository.UserRepo, searcher es.ContentRepo, defaultLimit, maxLimit int) FeedService {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	if maxLimit <= 0 {
		maxLimit = 50
	}
	return &FeedServiceImpl{
		contentRepo:  contentRepo,
		userRepo:     userRepo,
		searcher:     searcher,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		now:          time.Now,
	}
}

// GetFeed 未指定模式时使用登录用户保存的偏好
func (s *FeedServiceImpl) GetFeed(ctx context.Context, viewer Viewer, q *dto.FeedQuery) (*dto.FeedDTO, error) {
	mode := strings.TrimSpace(q.Mode)
	if mode == "" {
		mode = s.preferredMode(ctx, viewer)
	}
	preset, ok := feedModes[mode]
	if !ok {
		return nil, ErrInvalidFeedMode
	}
	if q.ContentType != "" && !util.Contains(model.ContentTypes, q.ContentType) {
		return nil, ErrInvalidContentType
	}
	if q.Topic != "" && !util.Contains(model.Topics, q.Topic) {
		return nil, ErrInvalidTopic
	}

	filter := preset
	filter.ContentType = q.ContentType
	filter.Topic = q.Topic

	metrics.FeedQueriesTotal.WithLabelValues("mode", mode).Inc()
	out, err := s.list(ctx, &filter, q.Page, q.Limit)
	if err != nil {
		return nil, err
	}
	out.Mode = mode
	return out, nil
}

func (s *FeedServiceImpl) GetTopicFeed(ctx context.Context, topic string, page, limit int) (*dto.FeedDTO, error) {
	if !util.Contains(model.Topics, topic) {
		return nil, ErrInvalidTopic
	}
	metrics.FeedQueriesTotal.WithLabelValues("topic", FeedModeAll).Inc()
	return s.list(ctx, &repository.FeedFilter{Topic: topic}, page, limit)
}

func (s *FeedServiceImpl) GetCreatorFeed(ctx context.Context, username string, page, limit int) (*dto.FeedDTO, error) {
	creator, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if creator == nil || !creator.IsActive {
		return nil, ErrUserNotFound
	}
	metrics.FeedQueriesTotal.WithLabelValues("creator", FeedModeAll).Inc()
	return s.list(ctx, &repository.FeedFilter{CreatorID: creator.ID}, page, limit)
}

// SearchFeed 优先 Elasticsearch，不可用时退化为 LIKE
func (s *FeedServiceImpl) SearchFeed(ctx context.Context, keyword string, page, limit int) (*dto.FeedDTO, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrParamInvalid
	}
	metrics.FeedQueriesTotal.WithLabelValues("search", FeedModeAll).Inc()

	if s.searcher != nil {
		page, limit, offset := util.Page(page, limit, s.defaultLimit, s.maxLimit)
		ids, total, err := s.searcher.SearchContent(ctx, &es.ContentSearchQuery{
			Keyword: keyword,
			Now:     s.now(),
			From:    offset,
			Size:    limit,
		})
		if err == nil {
			// 索引可能滞后于数据库，命中结果需重新套用基础条件
			contents, err := s.contentRepo.GetFeedContentByIds(ctx, ids, s.now())
			if err != nil {
				return nil, err
			}
			if dropped := len(ids) - len(contents); dropped > 0 {
				log.DebugContext(ctx, "search hits no longer visible", "dropped", dropped)
				total -= int64(dropped)
			}
			return s.page(contents, page, limit, total)
		}
		log.WarnContext(ctx, "elasticsearch search failed, falling back to SQL", "err", err)
	}

	metrics.SearchFallbackTotal.Inc()
	return s.list(ctx, &repository.FeedFilter{Keyword: keyword}, page, limit)
}

func (s *FeedServiceImpl) list(ctx context.Context, filter *repository.FeedFilter, page, limit int) (*dto.FeedDTO, error) {
	page, limit, offset := util.Page(page, limit, s.defaultLimit, s.maxLimit)
	filter.Now = s.now()
	filter.Limit = limit
	filter.Offset = offset

	contents, total, err := s.contentRepo.ListFeed(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.page(contents, page, limit, total)
}

func (s *FeedServiceImpl) page(contents []*model.Content, page, limit int, total int64) (*dto.FeedDTO, error) {
	items, err := toContentDTOs(contents)
	if err != nil {
		return nil, err
	}
	return &dto.FeedDTO{
		Items:   items,
		Page:    page,
		Limit:   limit,
		Total:   total,
		HasMore: int64(page)*int64(limit) < total,
	}, nil
}

func (s *FeedServiceImpl) preferredMode(ctx context.Context, viewer Viewer) string {
	if viewer.IsAnonymous() {
		return FeedModeAll
	}
	user, err := s.userRepo.GetUserById(ctx, viewer.ID)
	if err != nil || user == nil || user.FeedMode == "" {
		return FeedModeAll
	}
	return user.FeedMode
}
