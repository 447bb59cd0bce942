package sink

import (
	"context"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Channel is a pub/sub channel prefix, or the stream name when Stream
	// is set.
	Channel string
	Stream  bool
	// MaxLen caps the stream length approximately; zero keeps everything.
	MaxLen int64
}

type redisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	Close() error
}

type redisPublisher struct {
	client redisClient
	cfg    RedisConfig
}

// Redis publishes readings either on a pub/sub channel per sensor or as
// entries of a single stream.
func Redis(cfg RedisConfig) Publisher {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &redisPublisher{client: client, cfg: cfg}
}

func (p *redisPublisher) Publish(ctx context.Context, key string, value []byte) error {
	if p.cfg.Stream {
		err := p.client.XAdd(ctx, &redis.XAddArgs{
			Stream: p.cfg.Channel,
			MaxLen: p.cfg.MaxLen,
			Approx: p.cfg.MaxLen > 0,
			Values: map[string]interface{}{
				"mac":  key,
				"data": value,
			},
		}).Err()
		return wrapErr("redis stream", p.cfg.Channel, err)
	}
	channel := key
	if p.cfg.Channel != "" {
		channel = p.cfg.Channel + ":" + key
	}
	return wrapErr("redis channel", channel, p.client.Publish(ctx, channel, value).Err())
}

func (p *redisPublisher) Close() error {
	return p.client.Close()
}
