package searchindex

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Client команды Redis, которые использует индекс; *redis.Client удовлетворяет интерфейсу
type Client interface {
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	HVals(ctx context.Context, key string) *redis.StringSliceCmd
}
