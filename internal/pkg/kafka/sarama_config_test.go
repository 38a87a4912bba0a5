package kafka

import (
	"Zuno/internal/api/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSaramaConfigDefaults(t *testing.T) {
	c := newSaramaConfig(config.KafkaConfig{})
	assert.NoError(t, c.Validate())
	assert.Equal(t, 10*time.Second, c.Consumer.Group.Session.Timeout)
	assert.False(t, c.Consumer.Offsets.AutoCommit.Enable)
	assert.False(t, c.Net.SASL.Enable)

	c = newSaramaConfig(config.KafkaConfig{
		Sasl:     config.SaslConfig{Enable: true, Username: "u", Password: "p"},
		Consumer: config.ConsumerConfig{SessionTimeout: 30},
	})
	assert.True(t, c.Net.SASL.Enable)
	assert.Equal(t, 30*time.Second, c.Consumer.Group.Session.Timeout)
}
