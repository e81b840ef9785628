package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisclient "github.com/KirkDiggler/expedition-api/internal/redis"
)

func TestNewClient_RequiresEndpoint(t *testing.T) {
	_, err := redisclient.NewClient("", nil)
	assert.Error(t, err)

	_, err = redisclient.NewClusterClient(nil, nil)
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := redisclient.NewClient(mr.Addr(), &redisclient.Options{PoolSize: 2})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	require.NoError(t, redisclient.Ping(context.Background(), client, time.Second))

	mr.Close()
	err = redisclient.Ping(context.Background(), client, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis: ping failed")
}
