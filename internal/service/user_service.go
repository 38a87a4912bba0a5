package service

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/model"
	"Zuno/internal/pkg/security"
	"Zuno/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

type UserService interface {
	Register(ctx context.Context, dto *dto.RegisterDTO) (*dto.TokenDTO, error)
	Login(ctx context.Context, dto *dto.LoginDTO) (*dto.TokenDTO, error)
	Logout(ctx context.Context, token string) error
	GetMe(ctx context.Context, id uint64) (*dto.UserDTO, error)
	GetProfile(ctx context.Context, viewerID, targetID uint64) (*dto.ProfileDTO, error)
	UpdateProfile(ctx context.Context, id uint64, dto *dto.UpdateProfileDTO) (*dto.UserDTO, error)
	UpdatePreferences(ctx context.Context, id uint64, dto *dto.UpdatePreferencesDTO) (*dto.UserDTO, error)
	SetActive(ctx context.Context, id uint64, active bool) error
	SetRole(ctx context.Context, id uint64, role string) error
}

type UserServiceImpl struct {
	userRepo       repository.UserRepo
	userFollowRepo repository.UserFollowRepo
	revoker        TokenRevoker
}

func NewUserService(userRepo repository.UserRepo, userFollowRepo repository.UserFollowRepo, revoker TokenRevoker) UserService {
	return &UserServiceImpl{
		userRepo:       userRepo,
		userFollowRepo: userFollowRepo,
		revoker:        revoker,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, regDTO *dto.RegisterDTO) (*dto.TokenDTO, error) {
	email := strings.ToLower(strings.TrimSpace(regDTO.Email))

	exist, err := s.userRepo.ExistsUsername(ctx, regDTO.Username)
	if err != nil {
		return nil, err
	}
	if exist {
		return nil, ErrUsernameExist
	}
	exist, err = s.userRepo.ExistsEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exist {
		return nil, ErrEmailExist
	}

	passwordHash, err := security.HashPassword(regDTO.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:    regDTO.Username,
		Email:       email,
		Password:    passwordHash,
		DisplayName: regDTO.Username,
		IsActive:    true,
		Role:        model.RoleUser,
		FeedMode:    "all",
	}
	if err = s.userRepo.CreateUser(ctx, user); err != nil {
		if isDuplicateError(err) {
			return nil, ErrUsernameExist
		}
		return nil, err
	}
	log.InfoContext(ctx, "user registered", "user_id", user.ID, "username", user.Username)

	return s.issueToken(user)
}

func (s *UserServiceImpl) Login(ctx context.Context, loginDTO *dto.LoginDTO) (*dto.TokenDTO, error) {
	login := strings.TrimSpace(loginDTO.Login)
	if strings.Contains(login, "@") {
		login = strings.ToLower(login)
	}
	user, err := s.userRepo.GetUserByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err = security.CheckPasswordHash(loginDTO.Password, user.Password); err != nil {
		if errors.Is(err, security.ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return s.issueToken(user)
}

// Logout 将 token 签名加入黑名单直至过期
func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	claims, err := security.ValidateToken(token)
	if err != nil {
		return ErrUnauthorized
	}
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return ErrUnauthorized
	}
	ttl := claims.TTL()
	if ttl <= 0 {
		return nil
	}
	return s.revoker.Revoke(ctx, signature, ttl)
}

func (s *UserServiceImpl) GetMe(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	followers, following, err := s.followCounts(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserDTO(user, followers, following)
}

// GetProfile 他人主页，viewerID 为 0 表示匿名
func (s *UserServiceImpl) GetProfile(ctx context.Context, viewerID, targetID uint64) (*dto.ProfileDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrUserNotFound
	}
	followers, following, err := s.followCounts(ctx, targetID)
	if err != nil {
		return nil, err
	}

	profile := &dto.ProfileDTO{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Bio:         user.Bio,
		AvatarURL:   user.AvatarURL,
		IsPrivate:   user.IsPrivate,
		Role:        user.Role,
		Stats:       toStats(user, followers, following),
	}
	if viewerID != 0 && viewerID != targetID {
		state, err := followState(ctx, s.userFollowRepo, viewerID, targetID)
		if err != nil {
			return nil, err
		}
		profile.FollowStatus = state
	}
	return profile, nil
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, id uint64, in *dto.UpdateProfileDTO) (*dto.UserDTO, error) {
	fields := make(map[string]interface{})
	if in.DisplayName != nil {
		fields["display_name"] = strings.TrimSpace(*in.DisplayName)
	}
	if in.Bio != nil {
		fields["bio"] = *in.Bio
	}
	if in.AvatarURL != nil {
		fields["avatar_url"] = *in.AvatarURL
	}
	if in.IsPrivate != nil {
		fields["is_private"] = *in.IsPrivate
	}
	if err := s.updateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.GetMe(ctx, id)
}

func (s *UserServiceImpl) UpdatePreferences(ctx context.Context, id uint64, in *dto.UpdatePreferencesDTO) (*dto.UserDTO, error) {
	fields := make(map[string]interface{})
	if in.FeedMode != nil {
		if _, ok := feedModes[*in.FeedMode]; !ok {
			return nil, ErrInvalidFeedMode
		}
		fields["feed_mode"] = *in.FeedMode
	}
	if in.ContentTypeFilters != nil {
		fields["content_type_filters"] = model.StringList(dedupe(in.ContentTypeFilters))
	}
	if in.FocusMode != nil {
		fields["focus_mode"] = *in.FocusMode
	}
	if in.DailyBudgetMinutes != nil {
		if *in.DailyBudgetMinutes < 0 {
			return nil, ErrParamInvalid
		}
		fields["daily_budget_minutes"] = *in.DailyBudgetMinutes
	}
	if in.Interests != nil {
		fields["interests"] = model.StringList(dedupe(in.Interests))
	}
	if err := s.updateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.GetMe(ctx, id)
}

func (s *UserServiceImpl) SetActive(ctx context.Context, id uint64, active bool) error {
	return s.updateFields(ctx, id, map[string]interface{}{"is_active": active})
}

func (s *UserServiceImpl) SetRole(ctx context.Context, id uint64, role string) error {
	valid := false
	for _, r := range model.Roles {
		if r == role {
			valid = true
			break
		}
	}
	if !valid {
		return ErrInvalidRole
	}
	return s.updateFields(ctx, id, map[string]interface{}{"role": role})
}

func (s *UserServiceImpl) updateFields(ctx context.Context, id uint64, fields map[string]interface{}) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if len(fields) == 0 {
		return nil
	}
	_, err = s.userRepo.UpdateUserFields(ctx, id, fields)
	return err
}

func (s *UserServiceImpl) issueToken(user *model.User) (*dto.TokenDTO, error) {
	token, err := security.GenerateToken(user.ID, []string{user.Role})
	if err != nil {
		return nil, err
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	userDTO, err := toUserDTO(user, 0, 0)
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().Add(claims.TTL())
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return &dto.TokenDTO{Token: token, ExpiresAt: expiresAt, User: userDTO}, nil
}

// followCounts 粉丝数与关注数由关系表实时统计
func (s *UserServiceImpl) followCounts(ctx context.Context, id uint64) (int64, int64, error) {
	var followers, following int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		followers, err = s.userFollowRepo.GetUserFollowerCount(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		following, err = s.userFollowRepo.GetUserFollowingCount(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
