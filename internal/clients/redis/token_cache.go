package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// Session is what the cache remembers about a live access token.
type Session struct {
	UserID       uuid.UUID `json:"user_id"`
	RefreshToken string    `json:"refresh_token"`
}

// TokenCache fronts user_token lookups. A nil *tokenCache (returned when
// no address is configured) is a valid always-miss cache.
type TokenCache interface {
	Put(ctx context.Context, accessToken string, s Session, ttl time.Duration) error
	Lookup(ctx context.Context, accessToken string) (Session, bool, error)
	Evict(ctx context.Context, accessToken string) error
	Client() goredis.UniversalClient
	Close() error
}

type tokenCache struct {
	log    *logger.Logger
	rdb    goredis.UniversalClient
	prefix string
}

func NewTokenCache(log *logger.Logger, cfg Config) (TokenCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		log.Info("REDIS_ADDR not set; token cache disabled")
		return Disabled(), nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newTokenCache(log, rdb, cfg.KeyPrefix), nil
}

// Disabled returns a cache that never stores anything.
func Disabled() TokenCache { return (*tokenCache)(nil) }

func newTokenCache(log *logger.Logger, rdb goredis.UniversalClient, prefix string) *tokenCache {
	if strings.TrimSpace(prefix) == "" {
		prefix = "dp:token:"
	}
	return &tokenCache{
		log:    log.With("client", "RedisTokenCache"),
		rdb:    rdb,
		prefix: prefix,
	}
}

// Access tokens never reach redis in clear text.
func (c *tokenCache) key(accessToken string) string {
	sum := sha256.Sum256([]byte(accessToken))
	return c.prefix + hex.EncodeToString(sum[:])
}

func (c *tokenCache) Put(ctx context.Context, accessToken string, s Session, ttl time.Duration) error {
	if c == nil || c.rdb == nil || accessToken == "" || ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(accessToken), raw, ttl).Err()
}

func (c *tokenCache) Lookup(ctx context.Context, accessToken string) (Session, bool, error) {
	if c == nil || c.rdb == nil || accessToken == "" {
		return Session{}, false, nil
	}
	raw, err := c.rdb.Get(ctx, c.key(accessToken)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		c.log.Warn("dropping unreadable token cache entry", "error", err)
		_ = c.rdb.Del(ctx, c.key(accessToken)).Err()
		return Session{}, false, nil
	}
	if s.UserID == uuid.Nil {
		return Session{}, false, nil
	}
	return s, true, nil
}

func (c *tokenCache) Evict(ctx context.Context, accessToken string) error {
	if c == nil || c.rdb == nil || accessToken == "" {
		return nil
	}
	return c.rdb.Del(ctx, c.key(accessToken)).Err()
}

// Client exposes the underlying connection for health collectors; nil when disabled.
func (c *tokenCache) Client() goredis.UniversalClient {
	if c == nil {
		return nil
	}
	return c.rdb
}

func (c *tokenCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
