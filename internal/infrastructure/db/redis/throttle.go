package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	defaultWindow      = 15 * time.Minute
)

// ThrottleConfig sets the failure limit and the window it applies to.
type ThrottleConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// LoginThrottle counts failed logins per username in a fixed window.
// Key format: <prefix>login_failures:<lowercased username>
type LoginThrottle struct {
	client      redis.Cmdable
	prefix      string
	maxAttempts int
	window      time.Duration
}

// NewLoginThrottle creates a LoginThrottle on client, namespacing keys with
// conn's prefix.
func NewLoginThrottle(client redis.Cmdable, conn Config, cfg ThrottleConfig) *LoginThrottle {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.Window <= 0 {
		cfg.Window = defaultWindow
	}
	return &LoginThrottle{
		client:      client,
		prefix:      conn.keyPrefix(),
		maxAttempts: cfg.MaxAttempts,
		window:      cfg.Window,
	}
}

// Blocked reports whether username reached the failure limit in the current window.
func (t *LoginThrottle) Blocked(ctx context.Context, username string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(username)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n >= t.maxAttempts, nil
}

// RegisterFailure increments the counter. The window starts at the first failure.
func (t *LoginThrottle) RegisterFailure(ctx context.Context, username string) error {
	key := t.key(username)
	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("throttle register: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return fmt.Errorf("throttle expire: %w", err)
		}
	}
	return nil
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, username string) error {
	return t.client.Del(ctx, t.key(username)).Err()
}

func (t *LoginThrottle) key(username string) string {
	return t.prefix + "login_failures:" + strings.ToLower(username)
}
