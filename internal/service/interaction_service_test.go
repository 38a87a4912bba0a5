package service

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/model"
	"Zuno/internal/pkg/testutil"
	"context"
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFeedback_ToggleRestoresCounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.user(t)
	voter := env.user(t)
	c := env.post(t, creator)

	res, err := env.interaction.SetFeedback(ctx, viewerOf(voter), c.ID, model.InteractionHelpful)
	require.NoError(t, err)
	assert.Equal(t, model.InteractionHelpful, res.Feedback)
	assert.Equal(t, int64(1), *res.HelpfulCount)
	assert.InDelta(t, 100.0, *res.QualityScore, 1e-9)
	assert.Equal(t, int64(1), testutil.ReloadUser(t, env.db, creator.ID).HelpfulReceived)
	assert.Equal(t, int64(1), testutil.ReloadUser(t, env.db, voter.ID).HelpfulGiven)
	assert.True(t, env.dirty.contains(c.ID))

	res, err = env.interaction.SetFeedback(ctx, viewerOf(voter), c.ID, model.InteractionHelpful)
	require.NoError(t, err)
	assert.Equal(t, FeedbackNone, res.Feedback)
	assert.Equal(t, int64(0), *res.HelpfulCount)

	reloaded := testutil.ReloadContent(t, env.db, c.ID)
	assert.Equal(t, int64(0), reloaded.HelpfulCount)
	assert.Equal(t, int64(0), testutil.ReloadUser(t, env.db, creator.ID).HelpfulReceived)
	assert.Equal(t, int64(0), testutil.ReloadUser(t, env.db, voter.ID).HelpfulGiven)
}

func TestSetFeedback_FlipKeepsSingleLedgerRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.user(t)
	voter := env.user(t)
	c := env.post(t, creator)

	_, err := env.interaction.SetFeedback(ctx, viewerOf(voter), c.ID, model.InteractionHelpful)
	require.NoError(t, err)

	res, err := env.interaction.SetFeedback(ctx, viewerOf(voter), c.ID, model.InteractionNotUseful)
	require.NoError(t, err)
	assert.Equal(t, model.InteractionNotUseful, res.Feedback)
	assert.Equal(t, int64(0), *res.HelpfulCount)
	assert.Equal(t, int64(1), *res.NotUsefulCount)
	assert.InDelta(t, 0.0, *res.QualityScore, 1e-9)

	var rows int64
	require.NoError(t, env.db.Model(&model.Interaction{}).
		Where("content_id = ? AND type IN ?", c.ID, []string{model.InteractionHelpful, model.InteractionNotUseful}).
		Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
	assert.Equal(t, int64(0), testutil.ReloadUser(t, env.db, creator.ID).HelpfulReceived)

	// not-useful -> helpful 作者获赞数恰好 +1
	_, err = env.interaction.SetFeedback(ctx, viewerOf(voter), c.ID, model.InteractionHelpful)
	require.NoError(t, err)
	assert.Equal(t, int64(1), testutil.ReloadUser(t, env.db, creator.ID).HelpfulReceived)
	assert.Equal(t, int64(1), testutil.ReloadUser(t, env.db, voter.ID).HelpfulGiven)
}

func TestSetFeedback_QualityScore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.user(t)
	c := env.post(t, creator)

	for i := 0; i < 3; i++ {
		_, err := env.interaction.SetFeedback(ctx, viewerOf(env.user(t)), c.ID, model.InteractionHelpful)
		require.NoError(t, err)
	}
	res, err := env.interaction.SetFeedback(ctx, viewerOf(env.user(t)), c.ID, model.InteractionNotUseful)
	require.NoError(t, err)

	assert.Equal(t, int64(3), *res.HelpfulCount)
	assert.Equal(t, int64(1), *res.NotUsefulCount)
	assert.InDelta(t, 75.0, *res.QualityScore, 1e-9)
	assert.InDelta(t, 75.0, testutil.ReloadContent(t, env.db, c.ID).QualityScore, 1e-9)
	assert.Equal(t, int64(3), testutil.ReloadUser(t, env.db, creator.ID).HelpfulReceived)
}

func TestSetFeedback_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t)
	c := env.post(t, u)

	_, err := env.interaction.SetFeedback(ctx, viewerOf(u), c.ID, "love")
	assert.ErrorIs(t, err, ErrParamInvalid)

	_, err = env.interaction.SetFeedback(ctx, viewerOf(u), 9999, model.InteractionHelpful)
	assert.ErrorIs(t, err, ErrContentNotFound)
}

func TestRecordShare_NoLedgerRows(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.post(t, env.user(t))

	_, err := env.interaction.RecordShare(ctx, Viewer{}, c.ID)
	require.NoError(t, err)
	res, err := env.interaction.RecordShare(ctx, Viewer{}, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), *res.ShareCount)
	assert.Equal(t, int64(2), testutil.ReloadContent(t, env.db, c.ID).ShareCount)

	var rows int64
	require.NoError(t, env.db.Model(&model.Interaction{}).Where("content_id = ?", c.ID).Count(&rows).Error)
	assert.Zero(t, rows)

	_, err = env.interaction.RecordShare(ctx, Viewer{}, 9999)
	assert.ErrorIs(t, err, ErrContentNotFound)
}

func TestToggleSave(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t)
	c := env.post(t, env.user(t))

	res, err := env.interaction.ToggleSave(ctx, viewerOf(u), c.ID)
	require.NoError(t, err)
	assert.True(t, res.Saved)
	assert.Equal(t, int64(1), *res.SaveCount)

	state, err := env.interaction.GetState(ctx, viewerOf(u), c.ID)
	require.NoError(t, err)
	assert.True(t, state.Saved)
	assert.Equal(t, FeedbackNone, state.Feedback)

	res, err = env.interaction.ToggleSave(ctx, viewerOf(u), c.ID)
	require.NoError(t, err)
	assert.False(t, res.Saved)
	assert.Equal(t, int64(0), testutil.ReloadContent(t, env.db, c.ID).SaveCount)
}

func TestSubmitReport_DuplicateAndHide(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.user(t, testutil.WithRole(model.RoleAdmin))
	c := env.post(t, env.user(t))

	_, err := env.config.Set(ctx, FlagReportHideThreshold, "2", admin.ID)
	require.NoError(t, err)

	first := env.user(t)
	in := &dto.ReportDTO{Reason: model.ReportReasonSpam}
	require.NoError(t, env.interaction.SubmitReport(ctx, viewerOf(first), c.ID, in))
	assert.ErrorIs(t, env.interaction.SubmitReport(ctx, viewerOf(first), c.ID, in), ErrDuplicateReport)
	assert.True(t, testutil.ReloadContent(t, env.db, c.ID).IsApproved)

	require.NoError(t, env.interaction.SubmitReport(ctx, viewerOf(env.user(t)), c.ID, in))
	assert.False(t, testutil.ReloadContent(t, env.db, c.ID).IsApproved)

	state, err := env.interaction.GetState(ctx, viewerOf(first), c.ID)
	require.NoError(t, err)
	assert.True(t, state.Reported)
}

func TestInteractions_VisibilityGate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.user(t)
	stranger := env.user(t)
	follower := env.user(t)
	require.NoError(t, env.db.Create(&model.UserFollow{FollowerID: follower.ID, FollowingID: creator.ID}).Error)

	private := env.post(t, creator, testutil.WithVisibility(model.VisibilityPrivate))
	community := env.post(t, creator, testutil.WithVisibility(model.VisibilityCommunity))
	removed := env.post(t, creator, testutil.WithStatus(model.ContentStatusRemoved))
	report := &dto.ReportDTO{Reason: model.ReportReasonSpam}

	_, err := env.interaction.SetFeedback(ctx, viewerOf(stranger), private.ID, model.InteractionHelpful)
	assert.ErrorIs(t, err, ErrPrivateContent)
	_, err = env.interaction.ToggleSave(ctx, viewerOf(stranger), private.ID)
	assert.ErrorIs(t, err, ErrPrivateContent)
	assert.ErrorIs(t, env.interaction.SubmitReport(ctx, viewerOf(stranger), private.ID, report), ErrPrivateContent)
	_, err = env.interaction.RecordShare(ctx, viewerOf(stranger), private.ID)
	assert.ErrorIs(t, err, ErrPrivateContent)
	_, err = env.interaction.RecordShare(ctx, Viewer{}, private.ID)
	assert.ErrorIs(t, err, ErrPrivateContent)
	_, err = env.interaction.RecordShare(ctx, Viewer{}, community.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.interaction.SetFeedback(ctx, viewerOf(stranger), removed.ID, model.InteractionHelpful)
	assert.ErrorIs(t, err, ErrContentNotFound)
	_, err = env.interaction.RecordShare(ctx, Viewer{}, removed.ID)
	assert.ErrorIs(t, err, ErrContentNotFound)

	// 被拒绝的操作不留流水也不改计数
	stored := testutil.ReloadContent(t, env.db, private.ID)
	assert.Zero(t, stored.HelpfulCount)
	assert.Zero(t, stored.SaveCount)
	assert.Zero(t, stored.ShareCount)
	var rows int64
	require.NoError(t, env.db.Model(&model.Interaction{}).Where("user_id = ?", stranger.ID).Count(&rows).Error)
	assert.Zero(t, rows)
	assert.Zero(t, testutil.ReloadUser(t, env.db, creator.ID).HelpfulReceived)

	res, err := env.interaction.SetFeedback(ctx, viewerOf(follower), private.ID, model.InteractionHelpful)
	require.NoError(t, err)
	assert.Equal(t, int64(1), *res.HelpfulCount)
	share, err := env.interaction.RecordShare(ctx, viewerOf(follower), private.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), *share.ShareCount)
	_, err = env.interaction.ToggleSave(ctx, viewerOf(stranger), community.ID)
	assert.NoError(t, err)
}

func TestInteractions_SilentContentOmitsCounters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.user(t)
	voter := env.user(t)
	c := env.post(t, creator, testutil.Silent())

	feedback, err := env.interaction.SetFeedback(ctx, viewerOf(voter), c.ID, model.InteractionHelpful)
	require.NoError(t, err)
	assert.Equal(t, model.InteractionHelpful, feedback.Feedback)
	assert.Nil(t, feedback.HelpfulCount)
	assert.Nil(t, feedback.NotUsefulCount)
	assert.Nil(t, feedback.QualityScore)

	save, err := env.interaction.ToggleSave(ctx, viewerOf(voter), c.ID)
	require.NoError(t, err)
	assert.True(t, save.Saved)
	assert.Nil(t, save.SaveCount)

	share, err := env.interaction.RecordShare(ctx, Viewer{}, c.ID)
	require.NoError(t, err)
	assert.Nil(t, share.ShareCount)

	raw, err := json.Marshal(share)
	require.NoError(t, err)
	assert.JSONEq(t, `{"contentId":`+strconv.FormatUint(c.ID, 10)+`}`, string(raw))

	// 计数照常落库，作者本人仍能看到
	stored := testutil.ReloadContent(t, env.db, c.ID)
	assert.Equal(t, int64(1), stored.HelpfulCount)
	assert.Equal(t, int64(1), stored.SaveCount)
	assert.Equal(t, int64(1), stored.ShareCount)

	own, err := env.interaction.RecordShare(ctx, viewerOf(creator), c.ID)
	require.NoError(t, err)
	require.NotNil(t, own.ShareCount)
	assert.Equal(t, int64(2), *own.ShareCount)
}
