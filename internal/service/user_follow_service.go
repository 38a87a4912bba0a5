package service

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/model"
	"Zuno/internal/pkg/metrics"
	"Zuno/internal/pkg/util"
	"Zuno/internal/repository"
	"context"
	log "log/slog"
	"time"
)

type UserFollowService interface {
	Follow(ctx context.Context, actorID, targetID uint64) (string, error)
	Unfollow(ctx context.Context, actorID, targetID uint64) error
	CancelRequest(ctx context.Context, actorID, targetID uint64) error
	AcceptRequest(ctx context.Context, userID, requesterID uint64) error
	RejectRequest(ctx context.Context, userID, requesterID uint64) error
	GetFollowStatus(ctx context.Context, viewerID, targetID uint64) (string, error)
	GetPendingRequests(ctx context.Context, userID uint64, page, limit int) (*dto.PageDTO[dto.FollowRequestDTO], error)
	GetUserFollowers(ctx context.Context, userID uint64, page, limit int) (*dto.PageDTO[dto.UserBriefDTO], error)
	GetUserFollowing(ctx context.Context, userID uint64, page, limit int) (*dto.PageDTO[dto.UserBriefDTO], error)
}

type UserFollowServiceImpl struct {
	tx             repository.Transactor
	userRepo       repository.UserRepo
	userFollowRepo repository.UserFollowRepo
}

func NewUserFollowService(tx repository.Transactor, userRepo repository.UserRepo, userFollowRepo repository.UserFollowRepo) UserFollowService {
	return &UserFollowServiceImpl{tx: tx, userRepo: userRepo, userFollowRepo: userFollowRepo}
}

// Follow 公开账号直接关注，私密账号产生关注请求
func (s *UserFollowServiceImpl) Follow(ctx context.Context, actorID, targetID uint64) (string, error) {
	if actorID == targetID {
		return "", ErrFollowSelf
	}

	state := model.FollowStateNone
	err := s.tx.InTx(ctx, func(r *repository.TxRepos) error {
		_, target, err := loadPair(ctx, r.User, actorID, targetID)
		if err != nil {
			return err
		}

		current, err := followState(ctx, r.Follow, actorID, targetID)
		if err != nil {
			return err
		}
		switch current {
		case model.FollowStateFollowing:
			return ErrAlreadyFollowing
		case model.FollowStateRequested:
			return ErrRequestAlreadySent
		}

		now := time.Now()
		if target.IsPrivate {
			err = r.Follow.CreateFollowRequest(ctx, &model.FollowRequest{
				RequesterID: actorID,
				TargetID:    targetID,
				CreatedAt:   now,
			})
			if isDuplicateError(err) {
				return ErrRequestAlreadySent
			}
			state = model.FollowStateRequested
			return err
		}

		err = r.Follow.CreateUserFollow(ctx, &model.UserFollow{
			FollowerID:  actorID,
			FollowingID: targetID,
			CreatedAt:   now,
		})
		if isDuplicateError(err) {
			return ErrAlreadyFollowing
		}
		state = model.FollowStateFollowing
		return err
	})
	if err != nil {
		return "", err
	}

	transition := "none_to_following"
	if state == model.FollowStateRequested {
		transition = "none_to_requested"
	}
	metrics.FollowTransitionsTotal.WithLabelValues(transition).Inc()
	log.InfoContext(ctx, "follow", "actor_id", actorID, "target_id", targetID, "state", state)
	return state, nil
}

// Unfollow 取消关注，若仅有待处理请求则撤回请求
func (s *UserFollowServiceImpl) Unfollow(ctx context.Context, actorID, targetID uint64) error {
	if actorID == targetID {
		return ErrFollowSelf
	}

	transition := ""
	err := s.tx.InTx(ctx, func(r *repository.TxRepos) error {
		if _, _, err := loadPair(ctx, r.User, actorID, targetID); err != nil {
			return err
		}
		n, err := r.Follow.DeleteUserFollow(ctx, actorID, targetID)
		if err != nil {
			return err
		}
		if n > 0 {
			transition = "following_to_none"
			return nil
		}
		n, err = r.Follow.DeleteFollowRequest(ctx, actorID, targetID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFollowing
		}
		transition = "requested_to_none"
		return nil
	})
	if err != nil {
		return err
	}
	metrics.FollowTransitionsTotal.WithLabelValues(transition).Inc()
	return nil
}

func (s *UserFollowServiceImpl) CancelRequest(ctx context.Context, actorID, targetID uint64) error {
	if actorID == targetID {
		return ErrFollowSelf
	}
	n, err := s.userFollowRepo.DeleteFollowRequest(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoOutgoingRequest
	}
	metrics.FollowTransitionsTotal.WithLabelValues("requested_to_none").Inc()
	return nil
}

// AcceptRequest userID 接受 requesterID 的关注请求
func (s *UserFollowServiceImpl) AcceptRequest(ctx context.Context, userID, requesterID uint64) error {
	err := s.tx.InTx(ctx, func(r *repository.TxRepos) error {
		n, err := r.Follow.DeleteFollowRequest(ctx, requesterID, userID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNoFollowRequest
		}
		requester, err := r.User.GetUserById(ctx, requesterID)
		if err != nil {
			return err
		}
		if requester == nil || !requester.IsActive {
			return ErrUserNotFound
		}
		err = r.Follow.CreateUserFollow(ctx, &model.UserFollow{
			FollowerID:  requesterID,
			FollowingID: userID,
			CreatedAt:   time.Now(),
		})
		if isDuplicateError(err) {
			return nil
		}
		return err
	})
	if err != nil {
		return err
	}
	metrics.FollowTransitionsTotal.WithLabelValues("requested_to_following").Inc()
	return nil
}

func (s *UserFollowServiceImpl) RejectRequest(ctx context.Context, userID, requesterID uint64) error {
	n, err := s.userFollowRepo.DeleteFollowRequest(ctx, requesterID, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoFollowRequest
	}
	metrics.FollowTransitionsTotal.WithLabelValues("requested_to_none").Inc()
	return nil
}

func (s *UserFollowServiceImpl) GetFollowStatus(ctx context.Context, viewerID, targetID uint64) (string, error) {
	if viewerID == targetID {
		return model.FollowStateNone, nil
	}
	return followState(ctx, s.userFollowRepo, viewerID, targetID)
}

func (s *UserFollowServiceImpl) GetPendingRequests(ctx context.Context, userID uint64, page, limit int) (*dto.PageDTO[dto.FollowRequestDTO], error) {
	page, limit, offset := util.Page(page, limit, 20, 100)
	reqs, err := s.userFollowRepo.GetPendingRequests(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.userFollowRepo.GetPendingRequestCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(reqs))
	for _, req := range reqs {
		ids = append(ids, req.RequesterID)
	}
	users, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]dto.FollowRequestDTO, 0, len(reqs))
	for _, req := range reqs {
		items = append(items, dto.FollowRequestDTO{
			Requester: toUserBrief(users[req.RequesterID]),
			CreatedAt: req.CreatedAt,
		})
	}
	return dto.NewPage(items, page, limit, total), nil
}

// GetUserFollowers 获取用户的粉丝列表
func (s *UserFollowServiceImpl) GetUserFollowers(ctx context.Context, userID uint64, page, limit int) (*dto.PageDTO[dto.UserBriefDTO], error) {
	page, limit, offset := util.Page(page, limit, 20, 100)
	follows, err := s.userFollowRepo.GetUserFollowers(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.userFollowRepo.GetUserFollowerCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.FollowerID)
	}
	return s.briefPage(ctx, ids, page, limit, total)
}

// GetUserFollowing 获取用户的关注列表
func (s *UserFollowServiceImpl) GetUserFollowing(ctx context.Context, userID uint64, page, limit int) (*dto.PageDTO[dto.UserBriefDTO], error) {
	page, limit, offset := util.Page(page, limit, 20, 100)
	follows, err := s.userFollowRepo.GetUserFollowing(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.userFollowRepo.GetUserFollowingCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.FollowingID)
	}
	return s.briefPage(ctx, ids, page, limit, total)
}

func (s *UserFollowServiceImpl) briefPage(ctx context.Context, ids []uint64, page, limit int, total int64) (*dto.PageDTO[dto.UserBriefDTO], error) {
	users, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserBriefDTO, 0, len(ids))
	for _, id := range ids {
		if u, ok := users[id]; ok {
			items = append(items, toUserBrief(u))
		}
	}
	return dto.NewPage(items, page, limit, total), nil
}

func (s *UserFollowServiceImpl) usersByID(ctx context.Context, ids []uint64) (map[uint64]*model.User, error) {
	users, err := s.userRepo.GetUserByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	m := make(map[uint64]*model.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return m, nil
}

// loadPair 双方都必须存在且未停用
func loadPair(ctx context.Context, users repository.UserRepo, actorID, targetID uint64) (*model.User, *model.User, error) {
	actor, err := users.GetUserById(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}
	if actor == nil || !actor.IsActive {
		return nil, nil, ErrUserNotFound
	}
	target, err := users.GetUserById(ctx, targetID)
	if err != nil {
		return nil, nil, err
	}
	if target == nil || !target.IsActive {
		return nil, nil, ErrUserNotFound
	}
	return actor, target, nil
}

// followState NONE 不落库，由两张关系表推导
func followState(ctx context.Context, repo repository.UserFollowRepo, viewerID, targetID uint64) (string, error) {
	follow, err := repo.GetUserFollow(ctx, viewerID, targetID)
	if err != nil {
		return "", err
	}
	if follow != nil {
		return model.FollowStateFollowing, nil
	}
	req, err := repo.GetFollowRequest(ctx, viewerID, targetID)
	if err != nil {
		return "", err
	}
	if req != nil {
		return model.FollowStateRequested, nil
	}
	return model.FollowStateNone, nil
}
