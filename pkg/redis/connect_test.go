package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metriclab/platformkit/pkg/redis"
)

func testConfig(addr string) redis.Config {
	return redis.Config{
		ConnectionURL:  "redis://" + addr + "/0",
		RetryAttempts:  1,
		RetryInterval:  10 * time.Millisecond,
		ConnectTimeout: time.Second,
	}
}

func TestConnect(t *testing.T) {
	t.Parallel()

	t.Run("connects to a live server", func(t *testing.T) {
		t.Parallel()

		srv := miniredis.RunT(t)
		client, err := redis.Connect(context.Background(), testConfig(srv.Addr()))
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		assert.NoError(t, client.Ping(context.Background()).Err())
	})

	t.Run("invalid url", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig("x")
		cfg.ConnectionURL = "not-a-url"

		_, err := redis.Connect(context.Background(), cfg)
		assert.ErrorIs(t, err, redis.ErrInvalidConnectionURL)
	})

	t.Run("unreachable server", func(t *testing.T) {
		t.Parallel()

		srv := miniredis.RunT(t)
		addr := srv.Addr()
		srv.Close()

		_, err := redis.Connect(context.Background(), testConfig(addr))
		assert.ErrorIs(t, err, redis.ErrNotReady)
	})
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)
	client, err := redis.Connect(context.Background(), testConfig(srv.Addr()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	probe := redis.Healthcheck(client)
	assert.NoError(t, probe(context.Background()))

	srv.Close()
	assert.ErrorIs(t, probe(context.Background()), redis.ErrHealthcheckFailed)
}
