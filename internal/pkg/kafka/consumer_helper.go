package kafka

import (
	"Zuno/internal/pkg/logger"
	"Zuno/internal/pkg/metrics"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"slices"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

const (
	batchSize    = 32
	batchTimeout = 1 * time.Second
	maxInflight  = 8
	maxAttempts  = 8
)

type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// pullMessageBatch 拉取一批消息并执行业务逻辑
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc) error {
	batch := make([]*sarama.ConsumerMessage, 0, batchSize)
	ticker := time.NewTicker(batchTimeout)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				if len(batch) > 0 {
					processBatch(session, batch, logic)
				}
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				processBatch(session, batch, logic)
				// 清空缓冲区 & 重值定时器
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
				ticker.Reset(batchTimeout)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				processBatch(session, batch, logic)
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// processBatch 并发处理一批消息，单条失败按退避重试，超过上限后记录并跳过
func processBatch(session sarama.ConsumerGroupSession, messages []*sarama.ConsumerMessage, logic LogicFunc) {
	var g errgroup.Group
	g.SetLimit(maxInflight)

	for _, msg := range messages {
		g.Go(func() error {
			ctx := logger.WithTraceID(session.Context(), fmt.Sprintf("cdc-%s-%d-%d", msg.Topic, msg.Partition, msg.Offset))
			retryInterval := 100 * time.Millisecond

			for attempt := 1; ; attempt++ {
				err := logic(ctx, msg)
				if err == nil {
					return nil
				}
				if attempt >= maxAttempts {
					log.ErrorContext(ctx, "drop message after retries", "topic", msg.Topic, "offset", msg.Offset, "err", err)
					return nil
				}
				log.WarnContext(ctx, "process message error", "attempt", attempt, "err", err)

				select {
				case <-ctx.Done():
					return nil
				case <-time.After(retryInterval):
				}
				retryInterval = min(retryInterval*2, 5*time.Second)
			}
		})
	}
	_ = g.Wait()

	if len(messages) > 0 && session.Context().Err() == nil {
		session.MarkMessage(messages[len(messages)-1], "")
	}
}

// ToCanalMessage 将kafka消息转换为canal消息结构体，只接受 tables 中列出的表
func ToCanalMessage(msg *sarama.ConsumerMessage, tables ...string) (*CanalMessage, error) {
	var canalMsg CanalMessage
	if err := json.Unmarshal(msg.Value, &canalMsg); err != nil {
		log.Error("unmarshal canal message error", "err", err)
		return nil, err
	}

	if canalMsg.IsDDL {
		return nil, errors.New("ddl message ignored")
	}

	if !slices.Contains(tables, canalMsg.Table) {
		return nil, errors.New("table name not match")
	}

	if len(canalMsg.Data) == 0 {
		return nil, errors.New("data is empty")
	}

	metrics.CDCEventsTotal.WithLabelValues(canalMsg.Table, canalMsg.Type).Inc()
	return &canalMsg, nil
}
