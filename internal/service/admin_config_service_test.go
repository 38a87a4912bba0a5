package service

import (
	"Zuno/internal/pkg/testutil"
	"Zuno/internal/repository"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryConfigCache struct {
	values      map[string]string
	loads       int
	invalidated int
}

func (c *memoryConfigCache) Load(context.Context) (map[string]string, error) {
	c.loads++
	return c.values, nil
}

func (c *memoryConfigCache) Store(_ context.Context, values map[string]string) error {
	c.values = values
	return nil
}

func (c *memoryConfigCache) Invalidate(context.Context) error {
	c.values = nil
	c.invalidated++
	return nil
}

func TestAdminConfig_Defaults(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAdminConfigService(repository.NewAdminConfigRepo(db), nil, 2000)

	flags, err := svc.Flags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultFlags(), flags)

	entries, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 5)
	for _, e := range entries {
		assert.Equal(t, e.Default, e.Value)
		assert.Nil(t, e.UpdatedAt)
	}

	pub, err := svc.Public(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2000, pub.MediaPollIntervalMs)
	assert.Equal(t, 10, pub.MediaPollMaxAttempts)
	assert.Equal(t, 24, pub.StoryTTLHours)
}

func TestAdminConfig_SetValidatesAndInvalidates(t *testing.T) {
	db := testutil.NewDB(t)
	cache := &memoryConfigCache{}
	svc := NewAdminConfigService(repository.NewAdminConfigRepo(db), cache, 2000)
	ctx := context.Background()

	_, err := svc.Flags(ctx)
	require.NoError(t, err)
	require.NotNil(t, cache.values)

	_, err = svc.Set(ctx, "dark_mode", "true", 1)
	assert.ErrorIs(t, err, ErrUnknownConfigKey)
	_, err = svc.Set(ctx, FlagAutoApproveEnabled, "maybe", 1)
	assert.ErrorIs(t, err, ErrInvalidConfigValue)
	_, err = svc.Set(ctx, FlagStoryTTLHours, "0", 1)
	assert.ErrorIs(t, err, ErrInvalidConfigValue)

	entry, err := svc.Set(ctx, FlagAutoApproveEnabled, "FALSE", 1)
	require.NoError(t, err)
	assert.Equal(t, "false", entry.Value)
	assert.Equal(t, 1, cache.invalidated)

	_, err = svc.Set(ctx, FlagAutoApproveThreshold, "5", 1)
	require.NoError(t, err)

	flags, err := svc.Flags(ctx)
	require.NoError(t, err)
	assert.False(t, flags.AutoApproveEnabled)
	assert.Equal(t, int64(5), flags.AutoApproveThreshold)

	got, err := svc.Get(ctx, FlagAutoApproveThreshold)
	require.NoError(t, err)
	assert.Equal(t, "5", got.Value)
	assert.NotNil(t, got.UpdatedAt)
}

func TestAutoApprove(t *testing.T) {
	env := newTestEnv(t)
	flags := &Flags{AutoApproveEnabled: true, AutoApproveThreshold: 3}

	u := env.user(t)
	u.HelpfulReceived = 2
	assert.False(t, autoApprove(u, flags))
	u.HelpfulReceived = 3
	assert.True(t, autoApprove(u, flags))

	flags.AutoApproveEnabled = false
	assert.False(t, autoApprove(u, flags))
	u.Role = "moderator"
	assert.True(t, autoApprove(u, flags))
}
