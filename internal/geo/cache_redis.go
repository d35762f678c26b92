package geo

import (
	"context"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"

	"walloc/internal/model"
)

// RedisCache shares the distance memo across instances. Misses fall through
// to recomputation, so redis errors are treated as cache misses.
type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(url string) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisCache{rdb: redis.NewClient(opt)}, nil
}

func (c *RedisCache) Get(a, b model.GeoPoint) (float64, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	v, err := c.rdb.Get(ctx, "dist:"+pairKey(a, b)).Result()
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return d, true
}

func (c *RedisCache) Put(a, b model.GeoPoint, miles float64) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = c.rdb.Set(ctx, "dist:"+pairKey(a, b), strconv.FormatFloat(miles, 'f', -1, 64), 0).Err()
}
