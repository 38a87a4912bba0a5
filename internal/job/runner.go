package job

import (
	"Zuno/internal/pkg/logger"
	"Zuno/internal/pkg/metrics"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// Locker 多实例部署时保证同一任务只有一个实例执行
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// runLocked 带 trace id 与任务锁执行一次，locker 为 nil 时直接执行
func runLocked(name, lockKey string, ttl time.Duration, locker Locker, fn func(ctx context.Context) error) error {
	traceID := "job-" + name + "-" + uuid.NewString()
	ctx, cancel := context.WithTimeout(logger.WithTraceID(context.Background(), traceID), ttl)
	defer cancel()

	if locker != nil {
		release, err := locker.Acquire(ctx, lockKey, ttl)
		if err != nil {
			log.ErrorContext(ctx, "acquire job lock failed", "job", name, "err", err)
			metrics.JobRunsTotal.WithLabelValues(name, "error").Inc()
			return err
		}
		if release == nil {
			log.DebugContext(ctx, "job is running on another instance", "job", name)
			metrics.JobRunsTotal.WithLabelValues(name, "skipped").Inc()
			return nil
		}
		defer release()
	}

	start := time.Now()
	err := fn(ctx)
	metrics.JobRunsTotal.WithLabelValues(name, metrics.Outcome(err)).Inc()
	if err != nil {
		log.ErrorContext(ctx, "job failed", "job", name, "latency", time.Since(start), "err", err)
		return err
	}
	return nil
}
