package sublog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKey = "composer:submissions"

// RedisLog keeps recent submissions in a capped Redis list so the
// debug channel survives composer restarts. TTL keeps it ephemeral.
type RedisLog struct {
	rdb *redis.Client
	ttl time.Duration
	cap int64
}

func NewRedisLog(rdb *redis.Client, ttl time.Duration, capacity int) *RedisLog {
	if capacity <= 0 {
		capacity = 100
	}
	return &RedisLog{rdb: rdb, ttl: ttl, cap: int64(capacity)}
}

func (l *RedisLog) Record(ctx context.Context, e Entry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}

	pipe := l.rdb.TxPipeline()
	pipe.LPush(ctx, redisKey, b)
	pipe.LTrim(ctx, redisKey, 0, l.cap-1)
	pipe.Expire(ctx, redisKey, l.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (l *RedisLog) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		n = int(l.cap)
	}
	raws, err := l.rdb.LRange(ctx, redisKey, 0, int64(n)-1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(raws))
	for _, raw := range raws {
		var e Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
