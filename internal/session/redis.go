package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yndnr/dms-portal/internal/core/domain"
)

// DefaultRedisPrefix namespaces tab session keys in Redis.
const DefaultRedisPrefix = "dms:tab:"

// RedisBackend stores each session as a Redis hash with an idle TTL.
// Redis drops a hash whose last field is removed, so an emptied session
// reads as not found.
type RedisBackend struct {
	client  redis.UniversalClient
	prefix  string
	idleTTL time.Duration
}

// RedisOptions configures a RedisBackend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	IdleTTL  time.Duration
}

// NewRedisBackend connects to Redis and verifies the connection.
func NewRedisBackend(ctx context.Context, opts RedisOptions) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, domain.ErrSessionStorage.WithDetails("connect redis " + opts.Addr).WithCause(err)
	}

	return NewRedisBackendWithClient(client, opts.Prefix, opts.IdleTTL), nil
}

// NewRedisBackendWithClient wraps an existing client.
func NewRedisBackendWithClient(client redis.UniversalClient, prefix string, idleTTL time.Duration) *RedisBackend {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisBackend{client: client, prefix: prefix, idleTTL: idleTTL}
}

func (b *RedisBackend) key(id ID) string {
	return b.prefix + string(id)
}

// Load implements Backend. Reading refreshes the idle TTL.
func (b *RedisBackend) Load(ctx context.Context, id ID) (map[string]string, error) {
	key := b.key(id)
	var get *redis.MapStringStringCmd
	_, err := b.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		get = p.HGetAll(ctx, key)
		if b.idleTTL > 0 {
			p.Expire(ctx, key, b.idleTTL)
		}
		return nil
	})
	if err != nil {
		return nil, domain.ErrSessionStorage.WithDetails("load").WithCause(err)
	}
	values := get.Val()
	if len(values) == 0 {
		return nil, domain.ErrSessionNotFound
	}
	return values, nil
}

// Apply implements Backend. The edits run in one MULTI/EXEC block, so
// overlapping requests interleave per field rather than per session.
func (b *RedisBackend) Apply(ctx context.Context, id ID, changes Changes) error {
	if changes.Empty() {
		return nil
	}
	key := b.key(id)
	_, err := b.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if changes.Cleared {
			p.Del(ctx, key)
		}
		if len(changes.Deleted) > 0 {
			p.HDel(ctx, key, changes.Deleted...)
		}
		if len(changes.Set) > 0 {
			p.HSet(ctx, key, changes.Set)
			if b.idleTTL > 0 {
				p.Expire(ctx, key, b.idleTTL)
			}
		}
		return nil
	})
	if err != nil {
		return domain.ErrSessionStorage.WithDetails("save").WithCause(err)
	}
	return nil
}

// Delete implements Backend.
func (b *RedisBackend) Delete(ctx context.Context, id ID) error {
	if err := b.client.Del(ctx, b.key(id)).Err(); err != nil {
		return domain.ErrSessionStorage.WithDetails("delete").WithCause(err)
	}
	return nil
}

// Ping checks the Redis connection.
func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Close implements Backend.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}
