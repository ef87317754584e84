package observability

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

// Sources are the dependencies the background samplers watch. Nil fields
// are skipped. The caller keeps ownership of both clients.
type Sources struct {
	DB    *gorm.DB
	Redis redis.UniversalClient
}

// Run samples src and evaluates SLOs until ctx ends. It returns immediately
// on a nil *Metrics.
func (m *Metrics) Run(ctx context.Context, log *logger.Logger, src Sources) error {
	if m == nil {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	if src.DB != nil {
		g.Go(func() error {
			every(gctx, m.cfg.SampleInterval, func() { m.sampleDB(log, src.DB) })
			return nil
		})
	}
	if src.Redis != nil {
		g.Go(func() error {
			every(gctx, m.cfg.SampleInterval, func() { m.sampleRedis(gctx, log, src.Redis) })
			return nil
		})
	}
	if m.cfg.SLO.Enabled {
		eval := newSLOEvaluator(m, log)
		if log != nil {
			log.Info("SLO evaluator started", "window", eval.window, "interval", m.cfg.SLO.Interval.String())
		}
		g.Go(func() error {
			every(gctx, m.cfg.SLO.Interval, eval.evaluate)
			return nil
		})
	}
	return g.Wait()
}

func every(ctx context.Context, d time.Duration, fn func()) {
	t := time.NewTicker(d)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			fn()
		}
	}
}

func (m *Metrics) sampleDB(log *logger.Logger, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		if log != nil {
			log.Warn("db pool stats unavailable", "error", err)
		}
		return
	}
	s := sqlDB.Stats()
	for name, v := range map[string]float64{
		"open_connections":      float64(s.OpenConnections),
		"in_use":                float64(s.InUse),
		"idle":                  float64(s.Idle),
		"wait_count":            float64(s.WaitCount),
		"wait_duration_seconds": s.WaitDuration.Seconds(),
		"max_open_connections":  float64(s.MaxOpenConnections),
	} {
		m.dbPool.Set(v, name)
	}
}

func (m *Metrics) sampleRedis(ctx context.Context, log *logger.Logger, rdb redis.UniversalClient) {
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	start := time.Now()
	if err := rdb.Ping(pctx).Err(); err != nil {
		m.redisUp.Set(0)
		if log != nil && ctx.Err() == nil {
			log.Warn("redis ping failed", "error", err)
		}
		return
	}
	m.redisUp.Set(1)
	m.redisPing.Set(time.Since(start).Seconds())
}
