package kafka

import (
	"Zuno/internal/model"
	"Zuno/internal/pkg/consts"
	"Zuno/internal/pkg/es"
	"Zuno/internal/pkg/mongo"
	"Zuno/internal/pkg/testutil"
	"Zuno/internal/repository"
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryNotifier struct {
	mu   sync.Mutex
	sent []*mongo.SysBoxModel
}

func (m *memoryNotifier) Notify(_ context.Context, msg *mongo.SysBoxModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

type fakeIndex struct {
	indexed  map[uint64]*es.ContentES
	versions map[uint64]int64
	deleted  []uint64
	creators map[uint64]string
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{indexed: map[uint64]*es.ContentES{}, versions: map[uint64]int64{}, creators: map[uint64]string{}}
}

func (f *fakeIndex) SearchContent(context.Context, *es.ContentSearchQuery) ([]uint64, int64, error) {
	return nil, 0, nil
}

func (f *fakeIndex) IndexContent(_ context.Context, doc *es.ContentES, version int64) error {
	f.indexed[doc.ID] = doc
	f.versions[doc.ID] = version
	return nil
}

func (f *fakeIndex) DeleteContent(_ context.Context, id uint64) error {
	delete(f.indexed, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) UpdateCreatorDetail(_ context.Context, creatorID uint64, name, _ string) error {
	f.creators[creatorID] = name
	return nil
}

func canal(t *testing.T, table, typ string, data, old []map[string]interface{}) *sarama.ConsumerMessage {
	t.Helper()
	b, err := json.Marshal(CanalMessage{Table: table, Type: typ, TS: 1700000000000, Data: data, Old: old})
	require.NoError(t, err)
	return &sarama.ConsumerMessage{Value: b}
}

func idStr(n uint64) string {
	return strconv.FormatUint(n, 10)
}

func TestContentsHandlerIndexesAndNotifies(t *testing.T) {
	db := testutil.NewDB(t)
	creator := testutil.CreateUser(t, db)
	content := testutil.CreateContent(t, db, creator, testutil.WithTopics("art", "music"))
	idx := newFakeIndex()
	notifier := &memoryNotifier{}
	h := NewContentsHandler(repository.NewContentRepo(db), idx, notifier)
	ctx := context.Background()

	row := map[string]interface{}{"id": idStr(content.ID), "status": model.ContentStatusPublished}
	require.NoError(t, h.logic(ctx, canal(t, "contents", INSERT, []map[string]interface{}{row}, nil)))

	doc := idx.indexed[content.ID]
	require.NotNil(t, doc)
	assert.ElementsMatch(t, []string{"art", "music"}, doc.Topics)
	assert.Equal(t, creator.Username, doc.CreatorName)
	assert.Equal(t, int64(1700000000000), idx.versions[content.ID])
	assert.Empty(t, notifier.sent)

	require.NoError(t, db.Model(&model.Content{}).Where("id = ?", content.ID).Update("status", model.ContentStatusRemoved).Error)
	row = map[string]interface{}{"id": idStr(content.ID), "status": model.ContentStatusRemoved}
	old := map[string]interface{}{"status": model.ContentStatusPublished}
	require.NoError(t, h.logic(ctx, canal(t, "contents", UPDATE, []map[string]interface{}{row}, []map[string]interface{}{old})))

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, consts.SysBoxTypeModeration, notifier.sent[0].Type)
	assert.Equal(t, creator.ID, notifier.sent[0].ReceiverID)

	require.NoError(t, h.logic(ctx, canal(t, "contents", DELETE, []map[string]interface{}{row}, nil)))
	assert.NotContains(t, idx.indexed, content.ID)
}

func TestContentsHandlerIgnoresOtherTables(t *testing.T) {
	db := testutil.NewDB(t)
	idx := newFakeIndex()
	h := NewContentsHandler(repository.NewContentRepo(db), idx, &memoryNotifier{})

	err := h.logic(context.Background(), canal(t, "users", INSERT, []map[string]interface{}{{"id": "1"}}, nil))
	assert.NoError(t, err)
	assert.Empty(t, idx.indexed)

	err = h.logic(context.Background(), &sarama.ConsumerMessage{Value: []byte("{broken")})
	assert.NoError(t, err)
}

func TestInteractionsHandlerNotifiesHelpful(t *testing.T) {
	db := testutil.NewDB(t)
	creator := testutil.CreateUser(t, db)
	fan := testutil.CreateUser(t, db)
	content := testutil.CreateContent(t, db, creator)
	notifier := &memoryNotifier{}
	h := NewInteractionsHandler(repository.NewContentRepo(db), notifier)
	ctx := context.Background()

	helpful := map[string]interface{}{"user_id": idStr(fan.ID), "content_id": idStr(content.ID), "type": model.InteractionHelpful}
	save := map[string]interface{}{"user_id": idStr(fan.ID), "content_id": idStr(content.ID), "type": model.InteractionSave}
	require.NoError(t, h.logic(ctx, canal(t, "interactions", INSERT, []map[string]interface{}{helpful, save}, nil)))

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, consts.SysBoxTypeHelpful, notifier.sent[0].Type)
	assert.Equal(t, creator.ID, notifier.sent[0].ReceiverID)
	assert.Equal(t, fan.ID, notifier.sent[0].SenderID)

	// not-useful 翻转为 helpful 也通知
	old := map[string]interface{}{"type": model.InteractionNotUseful}
	require.NoError(t, h.logic(ctx, canal(t, "interactions", UPDATE, []map[string]interface{}{helpful}, []map[string]interface{}{old})))
	assert.Len(t, notifier.sent, 2)

	// 其他列变化不重复通知
	old = map[string]interface{}{"updated_at": "2026-01-01 00:00:00"}
	require.NoError(t, h.logic(ctx, canal(t, "interactions", UPDATE, []map[string]interface{}{helpful}, []map[string]interface{}{old})))
	assert.Len(t, notifier.sent, 2)
}

func TestFollowsHandler(t *testing.T) {
	db := testutil.NewDB(t)
	public := testutil.CreateUser(t, db)
	private := testutil.CreateUser(t, db, testutil.Private())
	fan := testutil.CreateUser(t, db)
	notifier := &memoryNotifier{}
	h := NewFollowsHandler(repository.NewUserRepo(db), notifier)
	ctx := context.Background()

	rows := []map[string]interface{}{
		{"follower_id": idStr(fan.ID), "following_id": idStr(public.ID)},
		{"follower_id": idStr(fan.ID), "following_id": idStr(private.ID)},
	}
	require.NoError(t, h.logic(ctx, canal(t, "user_follows", INSERT, rows, nil)))
	require.NoError(t, h.logic(ctx, canal(t, "follow_requests", INSERT, []map[string]interface{}{
		{"requester_id": idStr(fan.ID), "target_id": idStr(private.ID)},
	}, nil)))
	require.NoError(t, h.logic(ctx, canal(t, "user_follows", DELETE, rows, nil)))

	require.Len(t, notifier.sent, 3)
	assert.Equal(t, consts.SysBoxTypeFollow, notifier.sent[0].Type)
	assert.Equal(t, public.ID, notifier.sent[0].ReceiverID)
	assert.Equal(t, consts.SysBoxTypeRequestAccepted, notifier.sent[1].Type)
	assert.Equal(t, fan.ID, notifier.sent[1].ReceiverID)
	assert.Equal(t, consts.SysBoxTypeFollowRequest, notifier.sent[2].Type)
	assert.Equal(t, private.ID, notifier.sent[2].ReceiverID)
}

func TestUsersHandlerRefreshesCreatorDetail(t *testing.T) {
	idx := newFakeIndex()
	h := NewUsersHandler(idx)
	ctx := context.Background()

	row := map[string]interface{}{"id": "9", "username": "amy", "display_name": "Amy", "avatar_url": ""}
	require.NoError(t, h.logic(ctx, canal(t, "users", UPDATE, []map[string]interface{}{row}, []map[string]interface{}{{"display_name": "A"}})))
	assert.Equal(t, "Amy", idx.creators[9])

	row["display_name"] = "Amy2"
	require.NoError(t, h.logic(ctx, canal(t, "users", UPDATE, []map[string]interface{}{row}, []map[string]interface{}{{"helpful_received": "3"}})))
	assert.Equal(t, "Amy", idx.creators[9])
}

func TestStrConversions(t *testing.T) {
	assert.Equal(t, uint64(42), StrToUint64("42"))
	assert.Equal(t, uint64(0), StrToUint64(nil))
	assert.True(t, StrToBool("1"))
	assert.False(t, StrToBool("0"))
	assert.Equal(t, 2026, StrToDateTime("2026-05-01 10:00:00").Year())
	assert.True(t, StrToDateTime("bad").IsZero())
}
