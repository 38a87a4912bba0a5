package service

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/model"
	"Zuno/internal/pkg/testutil"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRevoker struct {
	revoked map[string]time.Duration
}

func (r *memoryRevoker) Revoke(_ context.Context, signature string, ttl time.Duration) error {
	if r.revoked == nil {
		r.revoked = make(map[string]time.Duration)
	}
	r.revoked[signature] = ttl
	return nil
}

func newUserService(t *testing.T) (UserService, *testEnv, *memoryRevoker) {
	env := newTestEnv(t)
	revoker := &memoryRevoker{}
	return NewUserService(env.users, env.follows, revoker), env, revoker
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, revoker := newUserService(t)
	ctx := context.Background()

	tok, err := svc.Register(ctx, &dto.RegisterDTO{Username: "maya_k", Email: "Maya@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)
	assert.Equal(t, "maya@example.com", tok.User.Email)
	assert.Equal(t, model.RoleUser, tok.User.Role)
	assert.Equal(t, FeedModeAll, tok.User.Preferences.FeedMode)

	_, err = svc.Register(ctx, &dto.RegisterDTO{Username: "maya_k", Email: "other@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUsernameExist)
	_, err = svc.Register(ctx, &dto.RegisterDTO{Username: "maya2", Email: "MAYA@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailExist)

	login, err := svc.Login(ctx, &dto.LoginDTO{Login: "MAYA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, tok.User.ID, login.User.ID)
	_, err = svc.Login(ctx, &dto.LoginDTO{Login: "maya_k", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, &dto.LoginDTO{Login: "ghost", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.Logout(ctx, login.Token))
	assert.Len(t, revoker.revoked, 1)
	assert.ErrorIs(t, svc.Logout(ctx, "not-a-token"), ErrUnauthorized)

	require.NoError(t, svc.SetActive(ctx, tok.User.ID, false))
	_, err = svc.Login(ctx, &dto.LoginDTO{Login: "maya_k", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestGetProfile(t *testing.T) {
	svc, env, _ := newUserService(t)
	ctx := context.Background()
	target := env.user(t, testutil.Private())
	viewer := env.user(t)
	fan := env.user(t)
	require.NoError(t, env.db.Create(&model.UserFollow{FollowerID: fan.ID, FollowingID: target.ID}).Error)
	_, err := env.follow.Follow(ctx, viewer.ID, target.ID)
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, viewer.ID, target.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FollowStateRequested, profile.FollowStatus)
	assert.Equal(t, int64(1), profile.Stats.Followers)
	assert.True(t, profile.IsPrivate)

	profile, err = svc.GetProfile(ctx, 0, fan.ID)
	require.NoError(t, err)
	assert.Empty(t, profile.FollowStatus)
	assert.Equal(t, int64(1), profile.Stats.Following)

	_, err = svc.GetProfile(ctx, 0, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdatePreferences(t *testing.T) {
	svc, env, _ := newUserService(t)
	ctx := context.Background()
	u := env.user(t)

	mode := "learning"
	budget := 30
	out, err := svc.UpdatePreferences(ctx, u.ID, &dto.UpdatePreferencesDTO{
		FeedMode:           &mode,
		DailyBudgetMinutes: &budget,
		Interests:          []string{"art", "art", "music"},
	})
	require.NoError(t, err)
	assert.Equal(t, "learning", out.Preferences.FeedMode)
	assert.Equal(t, 30, out.Preferences.DailyBudgetMinutes)
	assert.Equal(t, []string{"art", "music"}, out.Preferences.Interests)
	assert.Equal(t, []string{}, out.Preferences.ContentTypeFilters)

	bad := "binge"
	_, err = svc.UpdatePreferences(ctx, u.ID, &dto.UpdatePreferencesDTO{FeedMode: &bad})
	assert.ErrorIs(t, err, ErrInvalidFeedMode)

	private := true
	name := "  Maya "
	me, err := svc.UpdateProfile(ctx, u.ID, &dto.UpdateProfileDTO{IsPrivate: &private, DisplayName: &name})
	require.NoError(t, err)
	assert.True(t, me.IsPrivate)
	assert.Equal(t, "Maya", me.DisplayName)
}

func TestSetRole(t *testing.T) {
	svc, env, _ := newUserService(t)
	ctx := context.Background()
	u := env.user(t)

	assert.ErrorIs(t, svc.SetRole(ctx, u.ID, "owner"), ErrInvalidRole)
	require.NoError(t, svc.SetRole(ctx, u.ID, model.RoleMentor))
	assert.Equal(t, model.RoleMentor, testutil.ReloadUser(t, env.db, u.ID).Role)
	assert.ErrorIs(t, svc.SetRole(ctx, 9999, model.RoleMentor), ErrUserNotFound)
}
