package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/invoice"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redisClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client, err := cache.NewClient(context.Background(), config.RedisConfig{Addr: addr})
	if err != nil {
		t.Skipf("Redis no disponible: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestInvoiceCache_MissYHit(t *testing.T) {
	client := redisClient(t)
	ctx := context.Background()
	key := "invoice:test:" + time.Now().Format(time.RFC3339Nano)
	t.Cleanup(func() { client.Del(ctx, key) })

	c := cache.NewInvoiceCache(client, time.Minute)

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)

	want := &invoice.Artifact{Bytes: []byte{0x25, 0x50, 0x00, 0xff}, ContentType: "application/pdf", Filename: "Invoice_1.pdf", Digest: "abc"}
	require.NoError(t, c.Set(ctx, key, want))

	got, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	ttl, err := client.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestNewClient_DireccionInvalida(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := cache.NewClient(ctx, config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
