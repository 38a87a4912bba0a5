package kafka

import (
	"Zuno/internal/api/config"
	"Zuno/internal/pkg/es"
	"Zuno/internal/repository"
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
)

type consumer struct {
	name    string
	topic   string
	group   sarama.ConsumerGroup
	handler sarama.ConsumerGroupHandler
}

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	consumers []*consumer
}

// NewConsumerManager searcher 为 nil 时不启动 users 消费者
func NewConsumerManager(
	cfg *config.Config,
	contentRepo repository.ContentRepo,
	userRepo repository.UserRepo,
	searcher es.ContentRepo,
	notifier Notifier,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)
	m := &ConsumerManager{}

	add := func(name string, topic config.KafkaConsumerTopic, handler sarama.ConsumerGroupHandler) error {
		if topic.Topic == "" {
			log.Warn("kafka consumer disabled, topic is empty", "consumer", name)
			return nil
		}
		group, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, topic.GroupID, saramaCfg)
		if err != nil {
			return err
		}
		m.consumers = append(m.consumers, &consumer{name: name, topic: topic.Topic, group: group, handler: handler})
		return nil
	}

	err := errors.Join(
		add("contents", cfg.KafkaContentConsumer, NewContentsHandler(contentRepo, searcher, notifier)),
		add("interactions", cfg.KafkaInteractionConsumer, NewInteractionsHandler(contentRepo, notifier)),
		add("follows", cfg.KafkaFollowConsumer, NewFollowsHandler(userRepo, notifier)),
	)
	if err == nil && searcher != nil {
		err = add("users", cfg.KafkaUserConsumer, NewUsersHandler(searcher))
	}
	if err != nil {
		m.close()
		return nil, err
	}
	return m, nil
}

// Start 启动所有消费者，ctx 取消后关闭
func (m *ConsumerManager) Start(ctx context.Context) error {
	for _, c := range m.consumers {
		go func(c *consumer) {
			log.Info("kafka consumer started", "consumer", c.name, "topic", c.topic)
			for {
				if err := c.group.Consume(ctx, []string{c.topic}, c.handler); err != nil {
					log.Error("Error from consumer", "consumer", c.name, "err", err)
				}
				if ctx.Err() != nil {
					return
				}
			}
		}(c)
	}

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")
	m.close()
	return nil
}

func (m *ConsumerManager) close() {
	for _, c := range m.consumers {
		if err := c.group.Close(); err != nil {
			log.Error("Failed to close consumer", "consumer", c.name, "err", err)
		}
	}
}
