package job

import (
	"Zuno/internal/pkg/consts"
	"Zuno/internal/service"
	"context"
	log "log/slog"
	"time"
)

// ContentReconcileJob 按脏集合重算计数
type ContentReconcileJob struct {
	reconcileSvc service.ReconcileService
	locker       Locker
}

func NewContentReconcileJob(reconcileSvc service.ReconcileService, locker Locker) *ContentReconcileJob {
	return &ContentReconcileJob{reconcileSvc: reconcileSvc, locker: locker}
}

func (s *ContentReconcileJob) Run() {
	_ = runLocked("content-reconcile", consts.ContentReconcileLock, 50*time.Second, s.locker, func(ctx context.Context) error {
		res, err := s.reconcileSvc.ReconcileDirty(ctx)
		if err != nil {
			return err
		}
		if res.Contents > 0 {
			log.InfoContext(ctx, "reconcile content counters success",
				"content_count", res.Contents,
				"content_fixes", res.ContentFixes,
				"creator_count", res.Creators,
				"creator_fixes", res.CreatorFixes,
				"voter_fixes", res.VoterFixes)
		}
		return nil
	})
}
