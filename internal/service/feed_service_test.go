package service

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/model"
	"Zuno/internal/pkg/es"
	"Zuno/internal/pkg/testutil"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withScore(helpful, notUseful int64, createdAt time.Time) testutil.ContentOption {
	return testutil.WithContent(func(c *model.Content) {
		c.ApplyFeedbackCounts(helpful, notUseful)
		c.CreatedAt = createdAt
	})
}

func TestGetFeed_OrderAndQualityScores(t *testing.T) {
	env := newTestEnv(t)
	creator := env.user(t)
	now := time.Now()
	env.post(t, creator, withScore(1, 4, now.Add(-2*time.Minute)))
	env.post(t, creator, withScore(0, 0, now.Add(-time.Minute)))
	env.post(t, creator, withScore(3, 1, now))

	out, err := env.feed.GetFeed(context.Background(), Viewer{}, &dto.FeedQuery{Mode: "all"})
	require.NoError(t, err)
	require.Len(t, out.Items, 3)

	scores := make([]float64, 0, 3)
	for _, item := range out.Items {
		scores = append(scores, item.Metrics.QualityScore)
	}
	assert.InDeltaSlice(t, []float64{75, 0, 20}, scores, 1e-9)
	assert.Equal(t, "all", out.Mode)
	assert.Equal(t, int64(3), out.Total)
	assert.False(t, out.HasMore)
}

func TestGetFeed_SilentModeOmitsMetrics(t *testing.T) {
	env := newTestEnv(t)
	creator := env.user(t)
	c := env.post(t, creator, testutil.Silent(), withScore(2, 0, time.Now()))

	out, err := env.feed.GetFeed(context.Background(), Viewer{}, &dto.FeedQuery{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Nil(t, out.Items[0].Metrics)

	b, err := json.Marshal(out.Items[0])
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	_, ok := raw["metrics"]
	assert.False(t, ok)

	stored := testutil.ReloadContent(t, env.db, c.ID)
	assert.Equal(t, int64(2), stored.HelpfulCount)
}

func TestGetFeed_Modes(t *testing.T) {
	env := newTestEnv(t)
	creator := env.user(t)
	env.post(t, creator, testutil.WithType(model.ContentTypePost), testutil.WithPurpose(model.PurposeSkill))
	env.post(t, creator, testutil.WithType(model.ContentTypeShortVideo), testutil.WithPurpose(model.PurposeIdea))
	env.post(t, creator, testutil.WithType(model.ContentTypeLongVideo), testutil.WithPurpose(model.PurposeQuestion))
	env.post(t, creator, testutil.WithType(model.ContentTypePhoto), testutil.WithPurpose(model.PurposeInspiration))

	cases := []struct {
		mode  string
		check func(c *dto.ContentDTO) bool
		count int
	}{
		{"reading", func(c *dto.ContentDTO) bool { return c.ContentType == model.ContentTypePost }, 1},
		{"video", func(c *dto.ContentDTO) bool {
			return c.ContentType == model.ContentTypeShortVideo || c.ContentType == model.ContentTypeLongVideo
		}, 2},
		{"learning", func(c *dto.ContentDTO) bool { return c.Purpose == model.PurposeSkill }, 1},
		{"calm", func(c *dto.ContentDTO) bool {
			return c.Purpose == model.PurposeIdea || c.Purpose == model.PurposeInspiration
		}, 2},
		{"problem-solving", func(c *dto.ContentDTO) bool { return c.Purpose == model.PurposeQuestion }, 1},
		{"all", func(c *dto.ContentDTO) bool { return true }, 4},
	}
	for _, tc := range cases {
		t.Run(tc.mode, func(t *testing.T) {
			out, err := env.feed.GetFeed(context.Background(), Viewer{}, &dto.FeedQuery{Mode: tc.mode})
			require.NoError(t, err)
			assert.Len(t, out.Items, tc.count)
			for _, item := range out.Items {
				assert.True(t, tc.check(item), "unexpected item %s/%s", item.ContentType, item.Purpose)
			}
		})
	}
}

func TestGetFeed_BasePredicate(t *testing.T) {
	env := newTestEnv(t)
	creator := env.user(t)
	visible := env.post(t, creator)
	env.post(t, creator, testutil.WithVisibility(model.VisibilityPrivate))
	env.post(t, creator, testutil.WithVisibility(model.VisibilityCommunity))
	env.post(t, creator, testutil.WithStatus(model.ContentStatusDraft))
	env.post(t, creator, testutil.Unapproved())
	past := time.Now().Add(-time.Hour)
	env.post(t, creator, testutil.WithType(model.ContentTypeStory), testutil.WithContent(func(c *model.Content) {
		c.ExpiresAt = &past
	}))

	out, err := env.feed.GetFeed(context.Background(), Viewer{}, &dto.FeedQuery{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, visible.ID, out.Items[0].ID)
}

func TestGetFeed_DefaultsToPreferredMode(t *testing.T) {
	env := newTestEnv(t)
	reader := env.user(t)
	require.NoError(t, env.db.Model(&model.User{}).Where("id = ?", reader.ID).Update("feed_mode", "video").Error)
	env.post(t, reader, testutil.WithType(model.ContentTypePost))
	env.post(t, reader, testutil.WithType(model.ContentTypeShortVideo))

	out, err := env.feed.GetFeed(context.Background(), viewerOf(reader), &dto.FeedQuery{})
	require.NoError(t, err)
	assert.Equal(t, "video", out.Mode)
	require.Len(t, out.Items, 1)
	assert.Equal(t, model.ContentTypeShortVideo, out.Items[0].ContentType)

	out, err = env.feed.GetFeed(context.Background(), Viewer{}, &dto.FeedQuery{})
	require.NoError(t, err)
	assert.Equal(t, FeedModeAll, out.Mode)
	assert.Len(t, out.Items, 2)
}

func TestGetFeed_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.feed.GetFeed(ctx, Viewer{}, &dto.FeedQuery{Mode: "binge"})
	assert.ErrorIs(t, err, ErrInvalidFeedMode)
	_, err = env.feed.GetFeed(ctx, Viewer{}, &dto.FeedQuery{ContentType: "podcast"})
	assert.ErrorIs(t, err, ErrInvalidContentType)
	_, err = env.feed.GetFeed(ctx, Viewer{}, &dto.FeedQuery{Topic: "gossip"})
	assert.ErrorIs(t, err, ErrInvalidTopic)
	_, err = env.feed.GetTopicFeed(ctx, "gossip", 1, 10)
	assert.ErrorIs(t, err, ErrInvalidTopic)
	_, err = env.feed.SearchFeed(ctx, "  ", 1, 10)
	assert.ErrorIs(t, err, ErrParamInvalid)
}

func TestGetFeed_Pagination(t *testing.T) {
	env := newTestEnv(t)
	creator := env.user(t)
	now := time.Now()
	for i := 0; i < 5; i++ {
		env.post(t, creator, withScore(0, 0, now.Add(time.Duration(-i)*time.Minute)))
	}

	out, err := env.feed.GetFeed(context.Background(), Viewer{}, &dto.FeedQuery{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.True(t, out.HasMore)

	out, err = env.feed.GetFeed(context.Background(), Viewer{}, &dto.FeedQuery{Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.False(t, out.HasMore)
}

func TestTopicAndCreatorFeed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t)
	bob := env.user(t)
	env.post(t, alice, testutil.WithTopics("science"))
	env.post(t, bob, testutil.WithTopics("art"))

	out, err := env.feed.GetTopicFeed(ctx, "science", 1, 10)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, alice.ID, out.Items[0].Creator.ID)

	out, err = env.feed.GetCreatorFeed(ctx, bob.Username, 1, 10)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, []string{"art"}, out.Items[0].Topics)

	_, err = env.feed.GetCreatorFeed(ctx, "nobody", 1, 10)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// fakeSearcher 模拟 Elasticsearch
type fakeSearcher struct {
	ids   []uint64
	err   error
	query *es.ContentSearchQuery
}

func (f *fakeSearcher) SearchContent(_ context.Context, q *es.ContentSearchQuery) ([]uint64, int64, error) {
	f.query = q
	return f.ids, int64(len(f.ids)), f.err
}

func (f *fakeSearcher) IndexContent(context.Context, *es.ContentES, int64) error { return nil }

func (f *fakeSearcher) DeleteContent(context.Context, uint64) error { return nil }

func (f *fakeSearcher) UpdateCreatorDetail(context.Context, uint64, string, string) error { return nil }

func TestSearchFeed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.user(t)
	match := env.post(t, creator, testutil.WithContent(func(c *model.Content) { c.Title = "learning golang" }))
	env.post(t, creator, testutil.WithContent(func(c *model.Content) { c.Title = "cooking" }))

	out, err := env.feed.SearchFeed(ctx, "golang", 1, 10)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, match.ID, out.Items[0].ID)

	searcher := &fakeSearcher{ids: []uint64{match.ID}}
	svc := NewFeedService(env.contents, env.users, searcher, 10, 50)
	out, err = svc.SearchFeed(ctx, "anything", 2, 5)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, 5, searcher.query.From)
	assert.Equal(t, 5, searcher.query.Size)

	failing := NewFeedService(env.contents, env.users, &fakeSearcher{err: errors.New("es down")}, 10, 50)
	out, err = failing.SearchFeed(ctx, "golang", 1, 10)
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
}

func TestSearchFeed_StaleIndexHitsFiltered(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := env.user(t)
	private := env.post(t, creator, testutil.WithVisibility(model.VisibilityPrivate))
	removed := env.post(t, creator, testutil.WithStatus(model.ContentStatusRemoved))
	hidden := env.post(t, creator, testutil.Unapproved())
	second := env.post(t, creator)
	first := env.post(t, creator)

	searcher := &fakeSearcher{ids: []uint64{private.ID, first.ID, removed.ID, hidden.ID, second.ID}}
	svc := NewFeedService(env.contents, env.users, searcher, 10, 50)
	out, err := svc.SearchFeed(ctx, "anything", 1, 10)
	require.NoError(t, err)

	require.Len(t, out.Items, 2)
	assert.Equal(t, first.ID, out.Items[0].ID)
	assert.Equal(t, second.ID, out.Items[1].ID)
	assert.Equal(t, int64(2), out.Total)
}
