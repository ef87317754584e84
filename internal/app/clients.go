package app

import (
	"fmt"

	"github.com/yungbote/dayplanner-backend/internal/clients/redis"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

type Clients struct {
	TokenCache redis.TokenCache
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis (optional)
	cache, err := redis.NewTokenCache(log, cfg.Redis)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis token cache: %w", err)
	}
	return Clients{TokenCache: cache}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.TokenCache != nil {
		_ = c.TokenCache.Close()
	}
}
