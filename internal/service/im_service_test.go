package service

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/pkg/mongo"
	"Zuno/internal/repository"
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryMessageRepo 内存版消息存储
type memoryMessageRepo struct {
	mu   sync.Mutex
	msgs []*mongo.Message
}

func (r *memoryMessageRepo) SaveMessage(_ context.Context, msg *mongo.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *memoryMessageRepo) GetHistory(_ context.Context, convID uint64, beforeSeq uint64, pageSize int) ([]*mongo.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*mongo.Message
	for _, m := range r.msgs {
		if m.ConversationID == convID && (beforeSeq == 0 || m.Seq < beforeSeq) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq > out[j].Seq })
	if len(out) > pageSize {
		out = out[:pageSize]
	}
	return out, nil
}

func (r *memoryMessageRepo) GetAfter(_ context.Context, convID uint64, afterSeq uint64, pageSize int) ([]*mongo.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*mongo.Message
	for _, m := range r.msgs {
		if m.ConversationID == convID && m.Seq > afterSeq {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	if len(out) > pageSize {
		out = out[:pageSize]
	}
	return out, nil
}

func newIMService(t *testing.T) (IMService, *testEnv, *memoryMessageRepo) {
	env := newTestEnv(t)
	messages := &memoryMessageRepo{}
	svc := NewIMService(repository.NewConversationRepo(env.db), env.users, messages)
	t.Cleanup(svc.Close)
	return svc, env, messages
}

func TestIM_SendAndSync(t *testing.T) {
	svc, env, _ := newIMService(t)
	ctx := context.Background()
	alice := env.user(t)
	bob := env.user(t)

	first, err := svc.SendMessage(ctx, alice.ID, &dto.SendMessageReq{TargetUserID: bob.ID, MsgType: MsgTypeText, Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), first.Seq)

	second, err := svc.SendMessage(ctx, bob.ID, &dto.SendMessageReq{ConversationID: first.ConversationID, MsgType: MsgTypeShare, Content: "look", ContentID: 7})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), second.Seq)
	assert.Equal(t, uint64(7), second.ContentID)

	// 同一对用户复用会话
	convID, err := svc.GetOrCreateConversation(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ConversationID, convID)

	history, err := svc.GetChatHistory(ctx, alice.ID, convID, 0, 20)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, uint64(2), history[0].Seq)

	synced, err := svc.SyncMessages(ctx, alice.ID, convID, 1, 20)
	require.NoError(t, err)
	require.Len(t, synced, 1)
	assert.Equal(t, "look", synced[0].Content)

	list, err := svc.GetConversationList(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Peer)
	assert.Equal(t, bob.ID, list[0].Peer.ID)
	assert.Equal(t, uint64(2), list[0].MaxSeq)
	assert.Equal(t, "[shared content]", list[0].LastMsgContent)

	unread, err := svc.GetTotalUnread(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	require.NoError(t, svc.MarkAsRead(ctx, alice.ID, convID, 100))
	unread, err = svc.GetTotalUnread(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestIM_Errors(t *testing.T) {
	svc, env, _ := newIMService(t)
	ctx := context.Background()
	alice := env.user(t)
	bob := env.user(t)
	eve := env.user(t)

	_, err := svc.SendMessage(ctx, alice.ID, &dto.SendMessageReq{TargetUserID: alice.ID, MsgType: MsgTypeText, Content: "me"})
	assert.ErrorIs(t, err, ErrMessageSelf)

	_, err = svc.SendMessage(ctx, alice.ID, &dto.SendMessageReq{TargetUserID: bob.ID, MsgType: MsgTypeImage, Content: "pic"})
	assert.ErrorIs(t, err, ErrParamInvalid)

	_, err = svc.SendMessage(ctx, alice.ID, &dto.SendMessageReq{TargetUserID: 9999, MsgType: MsgTypeText, Content: "hello"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	msg, err := svc.SendMessage(ctx, alice.ID, &dto.SendMessageReq{TargetUserID: bob.ID, MsgType: MsgTypeText, Content: "hello"})
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, eve.ID, &dto.SendMessageReq{ConversationID: msg.ConversationID, MsgType: MsgTypeText, Content: "intrude"})
	assert.ErrorIs(t, err, ErrConversation)
	_, err = svc.GetChatHistory(ctx, eve.ID, msg.ConversationID, 0, 20)
	assert.ErrorIs(t, err, ErrConversation)
	assert.ErrorIs(t, svc.MarkAsRead(ctx, eve.ID, msg.ConversationID, 1), ErrConversation)
}

func TestIM_HistoryGapStub(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t)
	bob := env.user(t)
	convRepo := repository.NewConversationRepo(env.db)
	svc := NewIMService(convRepo, env.users, &memoryMessageRepo{})
	t.Cleanup(svc.Close)

	convID, err := svc.GetOrCreateConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	// 序号已分配但消息尚未写入 Mongo
	_, err = convRepo.IncrMaxSeq(ctx, convID, "pending", MsgTypeText, alice.ID)
	require.NoError(t, err)

	history, err := svc.GetChatHistory(ctx, bob.ID, convID, 0, 20)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "pending", history[0].Content)
	assert.Equal(t, uint64(1), history[0].Seq)
}

func TestPeerKey(t *testing.T) {
	assert.Equal(t, "3_9", peerKey(9, 3))
	assert.Equal(t, "3_9", peerKey(3, 9))

	id, err := parsePeerID("3_9", 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), id)
	id, err = parsePeerID("3_9", 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), id)

	_, err = parsePeerID("bad", 1)
	assert.Error(t, err)
}
