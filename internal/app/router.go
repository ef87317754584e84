package app

import (
	httpserver "github.com/yungbote/dayplanner-backend/internal/http"
	"github.com/yungbote/dayplanner-backend/internal/observability"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *httpserver.Server {
	return httpserver.NewServer(httpserver.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ServiceName:    cfg.Otel.ServiceName,
		TracingEnabled: cfg.Otel.Enabled,
		AllowedOrigins: cfg.AllowedOrigins,

		HealthHandler:   handlers.Health,
		AuthHandler:     handlers.Auth,
		AuthMiddleware:  middleware.Auth,
		UserHandler:     handlers.User,
		CategoryHandler: handlers.Category,
		ScheduleHandler: handlers.Schedule,
		HabitHandler:    handlers.Habit,
	})
}
