package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"recipe-bot/internal/pkg/common"
)

// NewRedisClient connects to the cache named by a redis:// URL and pings it.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisStore keeps each record as JSON under <namespace>:recipe:<id> and
// the live identifiers in the set <namespace>:recipes:ids, since listing
// must not depend on key scans. The record write and the index update are
// separate commands.
type RedisStore[T Record] struct {
	selectors[T]
	client    *redis.Client
	namespace string
}

// NewRedisStore wraps an already connected client.
func NewRedisStore[T Record](client *redis.Client, namespace string) *RedisStore[T] {
	s := &RedisStore[T]{client: client, namespace: namespace}
	s.selectors = selectors[T]{list: s.List}
	return s
}

func (s *RedisStore[T]) recordKey(id string) string {
	return fmt.Sprintf("%s:recipe:%s", s.namespace, id)
}

func (s *RedisStore[T]) indexKey() string {
	return s.namespace + ":recipes:ids"
}

// Encode serializes a record the way it is persisted.
func Encode[T Record](rec T) ([]byte, error) {
	return json.Marshal(rec)
}

// Decode parses a persisted record.
func Decode[T Record](data []byte) (T, error) {
	var rec T
	err := json.Unmarshal(data, &rec)
	return rec, err
}

func (s *RedisStore[T]) Save(ctx context.Context, rec T) error {
	data, err := Encode(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}
	if err := s.client.Set(ctx, s.recordKey(rec.RecordID()), data, 0).Err(); err != nil {
		return common.ErrStoreUnavailable.Wrap(err)
	}
	if err := s.client.SAdd(ctx, s.indexKey(), rec.RecordID()).Err(); err != nil {
		return common.ErrStoreUnavailable.Wrap(err)
	}
	common.LogDebug("recipe saved", zap.String("id", rec.RecordID()), zap.String("backend", "redis"))
	return nil
}

func (s *RedisStore[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	data, err := s.client.Get(ctx, s.recordKey(id)).Bytes()
	if err == redis.Nil {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, common.ErrStoreUnavailable.Wrap(err)
	}
	rec, err := Decode[T](data)
	if err != nil {
		return zero, false, fmt.Errorf("failed to unmarshal recipe %s: %w", id, err)
	}
	return rec, true, nil
}

func (s *RedisStore[T]) Update(ctx context.Context, rec T) error {
	ok, err := s.Exists(ctx, rec.RecordID())
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return s.Save(ctx, rec)
}

func (s *RedisStore[T]) Delete(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Del(ctx, s.recordKey(id)).Result()
	if err != nil {
		return false, common.ErrStoreUnavailable.Wrap(err)
	}
	if err := s.client.SRem(ctx, s.indexKey(), id).Err(); err != nil {
		return n > 0, common.ErrStoreUnavailable.Wrap(err)
	}
	return n > 0, nil
}

func (s *RedisStore[T]) Exists(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, s.recordKey(id)).Result()
	if err != nil {
		return false, common.ErrStoreUnavailable.Wrap(err)
	}
	return n > 0, nil
}

// Count reports how many records List returns, so orphaned or undecodable
// entries are not counted.
func (s *RedisStore[T]) Count(ctx context.Context) (int, error) {
	all, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

// List loads every indexed record. Index entries whose record is gone are
// skipped and removed from the index.
func (s *RedisStore[T]) List(ctx context.Context) ([]T, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, common.ErrStoreUnavailable.Wrap(err)
	}
	if len(ids) == 0 {
		return []T{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.recordKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, common.ErrStoreUnavailable.Wrap(err)
	}

	out := make([]T, 0, len(values))
	var orphans []interface{}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			common.LogWarn("orphaned recipe index entry", zap.String("id", ids[i]))
			orphans = append(orphans, ids[i])
			continue
		}
		rec, err := Decode[T]([]byte(raw))
		if err != nil {
			common.LogWarn("skipping undecodable recipe", zap.String("id", ids[i]), zap.Error(err))
			continue
		}
		out = append(out, rec)
	}

	if len(orphans) > 0 {
		if err := s.client.SRem(ctx, s.indexKey(), orphans...).Err(); err != nil {
			common.LogWarn("failed to prune orphaned index entries", zap.Int("count", len(orphans)), zap.Error(err))
		}
	}

	SortNewestFirst(out)
	return out, nil
}

func (s *RedisStore[T]) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore[T]) Close() error {
	return s.client.Close()
}
