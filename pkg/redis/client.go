package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/drinkshop/drinkshop-backend/pkg/config"
	"github.com/drinkshop/drinkshop-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace  = "drinkshop"
	channelPrefix = "cart"

	// PublishTimeout bounds a single relay publish.
	PublishTimeout = 2 * time.Second
)

var errNotInitialized = errors.New("redis client not initialized")

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Publish(context.Context, string, any) *redis.IntCmd
}

// Client wraps the redis connection used to relay cart changes between instances.
type Client struct {
	store cmdable
	raw   *redis.Client
	logg  *logger.Logger
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// Handler receives the payload of every message on a subscribed channel.
type Handler func(ctx context.Context, payload string)

// New bootstraps a Redis client with pooling/timeouts and verifies connectivity.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if logg == nil {
		logg = logger.Nop()
	}
	logg.Info(logg.WithField(ctx, "addr", opts.Addr), "redis connection established")
	return &Client{store: raw, raw: raw, logg: logg}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.DB == 0 {
		opts.DB = cfg.DB
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

// Publish sends payload on channel and returns the number of receivers.
func (c *Client) Publish(ctx context.Context, channel string, payload any) (int64, error) {
	if c == nil || c.store == nil {
		return 0, errNotInitialized
	}
	return c.store.Publish(ctx, channel, payload).Result()
}

// Subscribe blocks, invoking handler for each message on channel until ctx is done.
func (c *Client) Subscribe(ctx context.Context, channel string, handler Handler) error {
	if c == nil || c.raw == nil {
		return errNotInitialized
	}
	if handler == nil {
		return errors.New("handler is required")
	}

	sub := c.raw.Subscribe(ctx, channel)
	defer sub.Close()

	// wait for the subscription confirmation so publishes issued after return are seen
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", channel, err)
	}

	if c.logg != nil {
		c.logg.Info(c.logg.WithField(ctx, "channel", channel), "redis subscription started")
	}
	return consume(ctx, sub.Channel(), handler)
}

func consume(ctx context.Context, messages <-chan *redis.Message, handler Handler) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			if msg == nil {
				continue
			}
			handler(ctx, msg.Payload)
		}
	}
}

// ChannelKey returns the namespaced pub/sub channel for name.
func (c *Client) ChannelKey(name string) string {
	return buildKey(channelPrefix, name)
}

// Ping verifies the connection.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.store == nil {
		return errNotInitialized
	}
	return c.store.Ping(ctx).Err()
}

// Close shuts down the underlying client if available.
func (c *Client) Close() error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

func buildKey(parts ...string) string {
	clean := []string{keyNamespace}
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		clean = append(clean, part)
	}
	return strings.Join(clean, ":")
}
