package job

import (
	"Zuno/internal/pkg/consts"
	"Zuno/internal/service"
	"context"
	log "log/slog"
	"time"
)

// MediaCleanupJob 删除上传后长期未被内容引用的文件
type MediaCleanupJob struct {
	mediaSvc service.MediaService
	locker   Locker
	ttl      time.Duration
	now      func() time.Time
}

func NewMediaCleanupJob(mediaSvc service.MediaService, locker Locker, ttl time.Duration) *MediaCleanupJob {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &MediaCleanupJob{mediaSvc: mediaSvc, locker: locker, ttl: ttl, now: time.Now}
}

func (s *MediaCleanupJob) Run() {
	_ = runLocked("media-cleanup", consts.MediaCleanupLock, 30*time.Minute, s.locker, func(ctx context.Context) error {
		count, err := s.mediaSvc.CleanupExpired(ctx, s.now().Add(-s.ttl))
		if err != nil {
			return err
		}
		if count > 0 {
			log.InfoContext(ctx, "media cleanup job finished", "cleaned_count", count)
		}
		return nil
	})
}
