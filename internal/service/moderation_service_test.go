package service

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/model"
	"Zuno/internal/pkg/testutil"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModeration_ResolveReportAction(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	mod := env.user(t, testutil.WithRole(model.RoleModerator))
	c := env.post(t, env.user(t))

	for i := 0; i < 2; i++ {
		require.NoError(t, env.interaction.SubmitReport(ctx, viewerOf(env.user(t)), c.ID, &dto.ReportDTO{Reason: model.ReportReasonSpam}))
	}

	pending, err := env.moderation.ListReports(ctx, model.ReportStatusPending, 1, 10)
	require.NoError(t, err)
	require.Len(t, pending.Items, 2)

	err = env.moderation.ResolveReport(ctx, mod.ID, pending.Items[0].ID, &dto.ResolveReportDTO{Action: "action", Note: "spam ring"})
	require.NoError(t, err)

	stored := testutil.ReloadContent(t, env.db, c.ID)
	assert.Equal(t, model.ContentStatusRemoved, stored.Status)
	assert.False(t, stored.IsApproved)

	pending, err = env.moderation.ListReports(ctx, model.ReportStatusPending, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, pending.Items)
	actioned, err := env.moderation.ListReports(ctx, model.ReportStatusActioned, 1, 10)
	require.NoError(t, err)
	assert.Len(t, actioned.Items, 2)

	err = env.moderation.ResolveReport(ctx, mod.ID, actioned.Items[0].ID, &dto.ResolveReportDTO{Action: "dismiss"})
	assert.ErrorIs(t, err, ErrReportReviewed)
	err = env.moderation.ResolveReport(ctx, mod.ID, 9999, &dto.ResolveReportDTO{Action: "dismiss"})
	assert.ErrorIs(t, err, ErrReportNotFound)

	_, err = env.moderation.ListReports(ctx, "closed", 1, 10)
	assert.ErrorIs(t, err, ErrParamInvalid)
}

func TestModeration_ApproveAndReject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	mod := env.user(t, testutil.WithRole(model.RoleModerator))
	creator := env.user(t)
	a := env.post(t, creator, testutil.Unapproved())
	b := env.post(t, creator, testutil.Unapproved())

	list, err := env.moderation.ListPending(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Total)

	require.NoError(t, env.moderation.Approve(ctx, mod.ID, a.ID))
	assert.True(t, testutil.ReloadContent(t, env.db, a.ID).IsApproved)

	assert.ErrorIs(t, env.moderation.Reject(ctx, mod.ID, a.ID), ErrParamInvalid)
	require.NoError(t, env.moderation.Reject(ctx, mod.ID, b.ID))
	assert.Equal(t, model.ContentStatusRemoved, testutil.ReloadContent(t, env.db, b.ID).Status)

	list, err = env.moderation.ListPending(ctx, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, list.Total)

	assert.ErrorIs(t, env.moderation.Approve(ctx, mod.ID, 9999), ErrContentNotFound)
}

func TestModeration_Remove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.user(t, testutil.WithRole(model.RoleAdmin))
	creator := env.user(t)
	c := env.post(t, creator)

	require.NoError(t, env.moderation.Remove(ctx, admin.ID, c.ID))

	_, err := env.content.GetContent(ctx, viewerOf(env.user(t)), c.ID)
	assert.ErrorIs(t, err, ErrContentNotFound)
	_, err = env.content.GetContent(ctx, viewerOf(admin), c.ID)
	assert.NoError(t, err)

	// 被下架的内容只有管理员能修改
	title := "restore"
	_, err = env.content.UpdateContent(ctx, viewerOf(creator), c.ID, &dto.UpdateContentDTO{Title: &title})
	assert.ErrorIs(t, err, ErrNotContentOwner)
}
