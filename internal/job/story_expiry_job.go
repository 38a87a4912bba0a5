package job

import (
	"Zuno/internal/pkg/consts"
	"Zuno/internal/service"
	"context"
	log "log/slog"
	"time"
)

// StoryExpiryJob 归档过期 story
type StoryExpiryJob struct {
	reconcileSvc service.ReconcileService
	locker       Locker
	now          func() time.Time
}

func NewStoryExpiryJob(reconcileSvc service.ReconcileService, locker Locker) *StoryExpiryJob {
	return &StoryExpiryJob{reconcileSvc: reconcileSvc, locker: locker, now: time.Now}
}

func (s *StoryExpiryJob) Run() {
	_ = runLocked("story-expiry", consts.StoryExpiryLock, 4*time.Minute, s.locker, func(ctx context.Context) error {
		n, err := s.reconcileSvc.ArchiveExpiredStories(ctx, s.now())
		if err != nil {
			return err
		}
		if n > 0 {
			log.InfoContext(ctx, "archived expired stories", "count", n)
		}
		return nil
	})
}
