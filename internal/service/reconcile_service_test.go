package service

import (
	"Zuno/internal/model"
	"Zuno/internal/pkg/testutil"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileDirty_RepairsDrift(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.user(t)
	c := env.post(t, creator)

	for i := 0; i < 2; i++ {
		_, err := env.interaction.SetFeedback(ctx, viewerOf(env.user(t)), c.ID, model.InteractionHelpful)
		require.NoError(t, err)
	}
	_, err := env.interaction.ToggleSave(ctx, viewerOf(env.user(t)), c.ID)
	require.NoError(t, err)

	// 人为制造计数漂移
	require.NoError(t, env.db.Model(&model.Content{}).Where("id = ?", c.ID).
		Updates(map[string]interface{}{"helpful_count": 9, "save_count": 5, "quality_score": 10}).Error)
	require.NoError(t, env.db.Model(&model.User{}).Where("id = ?", creator.ID).
		Updates(map[string]interface{}{"helpful_received": 42, "content_count": 7}).Error)

	res, err := env.reconcile.ReconcileDirty(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Contents)
	assert.Equal(t, 1, res.ContentFixes)
	assert.Equal(t, 1, res.CreatorFixes)
	assert.Equal(t, 1, env.dirty.acked)

	stored := testutil.ReloadContent(t, env.db, c.ID)
	assert.Equal(t, int64(2), stored.HelpfulCount)
	assert.Equal(t, int64(1), stored.SaveCount)
	assert.InDelta(t, 100.0, stored.QualityScore, 1e-9)

	u := testutil.ReloadUser(t, env.db, creator.ID)
	assert.Equal(t, int64(2), u.HelpfulReceived)
	assert.Equal(t, int64(1), u.ContentCount)

	res, err = env.reconcile.ReconcileDirty(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.Contents)
}

func TestReconcileContents_RepairsHelpfulGiven(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.user(t)
	voter := env.user(t)
	a := env.post(t, creator)
	b := env.post(t, creator)

	for _, c := range []*model.Content{a, b} {
		_, err := env.interaction.SetFeedback(ctx, viewerOf(voter), c.ID, model.InteractionHelpful)
		require.NoError(t, err)
	}
	require.Equal(t, int64(2), testutil.ReloadUser(t, env.db, voter.ID).HelpfulGiven)

	// 投票者计数漂移，内容计数本身正确
	require.NoError(t, env.db.Model(&model.User{}).Where("id = ?", voter.ID).
		Update("helpful_given", 11).Error)

	res, err := env.reconcile.ReconcileContents(ctx, []uint64{a.ID})
	require.NoError(t, err)
	assert.Zero(t, res.ContentFixes)
	assert.Equal(t, 1, res.Voters)
	assert.Equal(t, 1, res.VoterFixes)
	// 按用户全部流水统计，而不仅是本批内容
	assert.Equal(t, int64(2), testutil.ReloadUser(t, env.db, voter.ID).HelpfulGiven)

	res, err = env.reconcile.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Voters)
	assert.Zero(t, res.VoterFixes)
}

func TestReconcileAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.user(t)
	for i := 0; i < 3; i++ {
		env.post(t, creator, testutil.WithContent(func(c *model.Content) { c.HelpfulCount = 4 }))
	}

	res, err := env.reconcile.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Contents)
	assert.Equal(t, 3, res.ContentFixes)
	assert.Equal(t, 1, res.Creators)

	u := testutil.ReloadUser(t, env.db, creator.ID)
	assert.Equal(t, int64(0), u.HelpfulReceived)
	assert.Equal(t, int64(3), u.ContentCount)

	res, err = env.reconcile.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.ContentFixes)
	assert.Zero(t, res.CreatorFixes)
}

func TestArchiveExpiredStories(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.user(t)
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	expired := env.post(t, creator, testutil.WithType(model.ContentTypeStory), testutil.WithContent(func(c *model.Content) { c.ExpiresAt = &past }))
	live := env.post(t, creator, testutil.WithType(model.ContentTypeStory), testutil.WithContent(func(c *model.Content) { c.ExpiresAt = &future }))

	n, err := env.reconcile.ArchiveExpiredStories(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, model.ContentStatusArchived, testutil.ReloadContent(t, env.db, expired.ID).Status)
	assert.Equal(t, model.ContentStatusPublished, testutil.ReloadContent(t, env.db, live.ID).Status)
}
