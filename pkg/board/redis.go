package board

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces board lists in Redis.
const KeyPrefix = "wikicollage:board:"

// Redis stores a board as a Redis list of JSON-encoded items. Every append
// refreshes the key's TTL so idle boards expire on their own.
type Redis struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// NewRedis returns the board for session id. A zero ttl keeps the key forever.
func NewRedis(client redis.UniversalClient, id string, ttl time.Duration) *Redis {
	return &Redis{client: client, key: Key(id), ttl: ttl}
}

// Key returns the Redis key for a session's board.
func Key(id string) string { return KeyPrefix + id }

// Append implements Board.
func (r *Redis) Append(ctx context.Context, item Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, r.key, data)
	if r.ttl > 0 {
		pipe.Expire(ctx, r.key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis append: %w", err)
	}
	emitAppend(ctx, "redis")
	return nil
}

// Clear implements Board.
func (r *Redis) Clear(ctx context.Context) (int, error) {
	pipe := r.client.TxPipeline()
	n := pipe.LLen(ctx, r.key)
	pipe.Del(ctx, r.key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis clear: %w", err)
	}
	emitClear(ctx, "redis", int(n.Val()))
	return int(n.Val()), nil
}

// Items implements Board.
func (r *Redis) Items(ctx context.Context) ([]Item, error) {
	raw, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis items: %w", err)
	}
	return decodeItems(raw)
}

// Len implements Board.
func (r *Redis) Len(ctx context.Context) (int, error) {
	n, err := r.client.LLen(ctx, r.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis len: %w", err)
	}
	return int(n), nil
}

func decodeItems(raw []string) ([]Item, error) {
	items := make([]Item, 0, len(raw))
	for _, s := range raw {
		var it Item
		if err := json.Unmarshal([]byte(s), &it); err != nil {
			return nil, fmt.Errorf("decode board item: %w", err)
		}
		items = append(items, it)
	}
	return items, nil
}

// Connect parses a redis:// URL, falling back to treating it as a plain
// host:port, and pings the server.
func Connect(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		opt = &redis.Options{Addr: rawURL}
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opt.Addr, err)
	}
	return client, nil
}

var _ Board = (*Redis)(nil)
