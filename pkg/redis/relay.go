package redis

import (
	"context"
	"errors"
	"time"

	"github.com/drinkshop/drinkshop-backend/pkg/logger"
	"github.com/sethvargo/go-retry"
)

const (
	relayBaseBackoff = 500 * time.Millisecond
	relayMaxBackoff  = 30 * time.Second
)

var errSubscriptionClosed = errors.New("redis subscription closed")

// Relay keeps a subscription to channel alive until ctx is done, resubscribing with
// capped exponential backoff whenever it fails or the server drops it.
func (c *Client) Relay(ctx context.Context, channel string, handler Handler) error {
	if c == nil || c.raw == nil {
		return errNotInitialized
	}
	if handler == nil {
		return errors.New("handler is required")
	}
	return relay(ctx, c.logg, channel, relayBaseBackoff, func(ctx context.Context) error {
		return c.Subscribe(ctx, channel, handler)
	})
}

func relay(ctx context.Context, logg *logger.Logger, channel string, base time.Duration, subscribe func(context.Context) error) error {
	if logg == nil {
		logg = logger.Nop()
	}
	backoff := retry.WithCappedDuration(relayMaxBackoff, retry.NewExponential(base))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := subscribe(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			err = errSubscriptionClosed
		}
		logCtx := logg.WithFields(ctx, map[string]any{
			"channel": channel,
			"attempt": attempt,
			"error":   err.Error(),
		})
		logg.Warn(logCtx, "redis relay interrupted, resubscribing")
		return retry.RetryableError(err)
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}
