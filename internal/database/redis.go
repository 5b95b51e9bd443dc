package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClients holds the two connections the service needs: Primary serves
// the card-order cache and the finalize-job queue, PubSub is dedicated to
// websocket fan-out (a subscribed connection can't issue other commands).
type RedisClients struct {
	Primary *redis.Client
	PubSub  *redis.Client
}

func NewRedisClients(redisURL string) (*RedisClients, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	primary := redis.NewClient(opt)
	if err := primary.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis (primary): %w", err)
	}

	pubsubOpt := *opt
	pubsub := redis.NewClient(&pubsubOpt)
	if err := pubsub.Ping(ctx).Err(); err != nil {
		primary.Close()
		return nil, fmt.Errorf("failed to ping Redis (pubsub): %w", err)
	}

	return &RedisClients{
		Primary: primary,
		PubSub:  pubsub,
	}, nil
}

func (r *RedisClients) Close() {
	r.Primary.Close()
	r.PubSub.Close()
}
