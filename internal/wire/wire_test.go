package wire

import (
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSearcher(t *testing.T) {
	client, err := elasticsearch.NewTypedClient(elasticsearch.Config{Addresses: []string{"http://127.0.0.1:9200"}})
	require.NoError(t, err)

	assert.Nil(t, newSearcher(nil, true))
	// 没有消费者写索引，不能走 ES
	assert.Nil(t, newSearcher(client, false))
	assert.NotNil(t, newSearcher(client, true))
}
