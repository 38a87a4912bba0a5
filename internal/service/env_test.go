package service

import (
	"Zuno/internal/model"
	"Zuno/internal/pkg/testutil"
	"Zuno/internal/repository"
	"context"
	"sync"
	"testing"

	"gorm.io/gorm"
)

// testEnv 基于 SQLite 的完整服务集合
type testEnv struct {
	db          *gorm.DB
	tx          repository.Transactor
	users       repository.UserRepo
	follows     repository.UserFollowRepo
	contents    repository.ContentRepo
	ledger      repository.InteractionRepo
	dirty       *memoryDirtySet
	config      AdminConfigService
	content     ContentService
	interaction InteractionService
	feed        FeedService
	follow      UserFollowService
	moderation  ModerationService
	reconcile   ReconcileService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	env := &testEnv{
		db:       db,
		tx:       repository.NewTransactor(db),
		users:    repository.NewUserRepo(db),
		follows:  repository.NewUserFollowRepo(db),
		contents: repository.NewContentRepo(db),
		ledger:   repository.NewInteractionRepo(db),
		dirty:    &memoryDirtySet{},
	}
	env.config = NewAdminConfigService(repository.NewAdminConfigRepo(db), nil, 1500)
	env.content = NewContentService(env.tx, env.contents, env.users, env.follows, env.ledger, env.config, nil, 1500)
	env.interaction = NewInteractionService(env.tx, env.contents, env.ledger, env.config, env.dirty)
	env.feed = NewFeedService(env.contents, env.users, nil, 10, 50)
	env.follow = NewUserFollowService(env.tx, env.users, env.follows)
	env.moderation = NewModerationService(env.tx, env.contents, env.ledger)
	env.reconcile = NewReconcileService(env.tx, env.contents, env.users, env.ledger, env.dirty)
	return env
}

func (e *testEnv) user(t *testing.T, opts ...testutil.UserOption) *model.User {
	return testutil.CreateUser(t, e.db, opts...)
}

func (e *testEnv) post(t *testing.T, creator *model.User, opts ...testutil.ContentOption) *model.Content {
	return testutil.CreateContent(t, e.db, creator, opts...)
}

func viewerOf(u *model.User) Viewer {
	return Viewer{ID: u.ID, Role: u.Role}
}

// memoryDirtySet 内存版脏集合
type memoryDirtySet struct {
	mu      sync.Mutex
	ids     map[uint64]struct{}
	drained []uint64
	acked   int
}

func (s *memoryDirtySet) MarkDirty(_ context.Context, ids ...uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ids == nil {
		s.ids = make(map[uint64]struct{})
	}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return nil
}

func (s *memoryDirtySet) Drain(context.Context) ([]uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.ids {
		s.drained = append(s.drained, id)
	}
	s.ids = nil
	return append([]uint64(nil), s.drained...), nil
}

func (s *memoryDirtySet) Ack(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drained = nil
	s.acked++
	return nil
}

func (s *memoryDirtySet) contains(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}
