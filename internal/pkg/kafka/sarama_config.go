package kafka

import (
	"Zuno/internal/api/config"
	"time"

	"github.com/IBM/sarama"
)

const clientID = "zuno-cdc"

// newSaramaConfig 所有 Canal 消费组共用，offset 由 processBatch 手动提交
func newSaramaConfig(kafkaCfg config.KafkaConfig) *sarama.Config {
	c := sarama.NewConfig()
	c.ClientID = clientID

	if kafkaCfg.Sasl.Enable {
		c.Net.SASL.Enable = true
		c.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		c.Net.SASL.User = kafkaCfg.Sasl.Username
		c.Net.SASL.Password = kafkaCfg.Sasl.Password
	}

	c.Consumer.Return.Errors = true
	c.Consumer.Offsets.Initial = sarama.OffsetNewest
	c.Consumer.Offsets.AutoCommit.Enable = false
	c.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}

	cc := kafkaCfg.Consumer
	c.Consumer.Group.Session.Timeout = seconds(cc.SessionTimeout, 10)
	c.Consumer.Group.Heartbeat.Interval = seconds(cc.HeartbeatInterval, 3)
	c.Consumer.Group.Rebalance.Timeout = seconds(cc.RebalanceTimeout, 60)
	c.Consumer.MaxProcessingTime = seconds(cc.MaxProcessingTime, 1)

	return c
}

// seconds 未配置时取默认值
func seconds(v, def int) time.Duration {
	if v <= 0 {
		v = def
	}
	return time.Duration(v) * time.Second
}
