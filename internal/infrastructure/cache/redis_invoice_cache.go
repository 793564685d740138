// Package cache guarda facturas renderizadas en Redis (cache-aside).
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/invoice"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 10 * time.Minute

var _ invoice.Cache = (*InvoiceCache)(nil)

// InvoiceCache implementa invoice.Cache sobre go-redis. Las claves ya incorporan la versión de
// producto y contraparte, así que el TTL solo acota memoria.
type InvoiceCache struct {
	client *redis.Client
	ttl    time.Duration
}

type entry struct {
	Bytes       []byte `json:"bytes"`
	ContentType string `json:"content_type"`
	Filename    string `json:"filename"`
	Digest      string `json:"digest"`
}

// NewInvoiceCache construye la caché. ttl <= 0 usa 10 minutos.
func NewInvoiceCache(client *redis.Client, ttl time.Duration) *InvoiceCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &InvoiceCache{client: client, ttl: ttl}
}

// NewClient abre el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// Get devuelve (nil, nil) si la clave no existe.
func (c *InvoiceCache) Get(ctx context.Context, key string) (*invoice.Artifact, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decodificar factura en caché: %w", err)
	}
	return &invoice.Artifact{Bytes: e.Bytes, ContentType: e.ContentType, Filename: e.Filename, Digest: e.Digest}, nil
}

func (c *InvoiceCache) Set(ctx context.Context, key string, a *invoice.Artifact) error {
	payload, err := json.Marshal(entry{Bytes: a.Bytes, ContentType: a.ContentType, Filename: a.Filename, Digest: a.Digest})
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
