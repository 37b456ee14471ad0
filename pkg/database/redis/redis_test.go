package redis

import (
	"agriVest/pkg/config"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientOptions(t *testing.T) {
	opts := clientOptions(config.RedisConfig{
		RedisHost:     "cache.internal",
		RedisPort:     "6380",
		RedisPassword: "s3cret",
		RedisDB:       3,
	})

	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, "s3cret", opts.Password)
	assert.Equal(t, 3, opts.DB)
	assert.Empty(t, opts.Username)
}

func TestNewRedisClientUnreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client, err := NewRedisClient(ctx, config.RedisConfig{RedisHost: "127.0.0.1", RedisPort: "1", RedisDB: 2})

	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "redis 127.0.0.1:1 db 2 unreachable")
}

func TestCloseRedisClientNil(t *testing.T) {
	assert.NoError(t, CloseRedisClient(nil))
}
